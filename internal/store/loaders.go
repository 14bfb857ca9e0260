package store

import (
	"fmt"

	"github.com/fplmate/fplmate/internal/fpl"
)

// Snapshot paths, relative to the store root.
const (
	BootstrapPath = "bootstrap/bootstrap-static.json"
	FixturesPath  = "fixtures/fixtures.json"
)

func EntryPath(teamID int) string {
	return fmt.Sprintf("entry/%d/entry.json", teamID)
}

func HistoryPath(teamID int) string {
	return fmt.Sprintf("entry/%d/history.json", teamID)
}

func PicksPath(teamID, gw int) string {
	return fmt.Sprintf("entry/%d/gw/%d/picks.json", teamID, gw)
}

func (s *JSONStore) LoadBootstrap() (fpl.Bootstrap, error) {
	var b fpl.Bootstrap
	err := s.readJSON(BootstrapPath, &b)
	return b, err
}

func (s *JSONStore) LoadFixtures() ([]fpl.Fixture, error) {
	var f []fpl.Fixture
	err := s.readJSON(FixturesPath, &f)
	return f, err
}

func (s *JSONStore) LoadEntry(teamID int) (fpl.Entry, error) {
	var e fpl.Entry
	err := s.readJSON(EntryPath(teamID), &e)
	return e, err
}

func (s *JSONStore) LoadHistory(teamID int) (fpl.EntryHistory, error) {
	var h fpl.EntryHistory
	err := s.readJSON(HistoryPath(teamID), &h)
	return h, err
}

func (s *JSONStore) LoadPicks(teamID, gw int) (fpl.TeamPicks, error) {
	var p fpl.TeamPicks
	err := s.readJSON(PicksPath(teamID, gw), &p)
	return p, err
}

// Snapshot is everything one team's analysis needs, decoded.
type Snapshot struct {
	Bootstrap fpl.Bootstrap
	Players   []fpl.Player
	Fixtures  []fpl.Fixture
	Entry     fpl.Entry
	History   fpl.EntryHistory
	Picks     fpl.TeamPicks
	Gameweek  int
}

// LoadSnapshot reads every file for teamID. gw <= 0 means the bootstrap's
// current gameweek.
func (s *JSONStore) LoadSnapshot(teamID, gw int) (*Snapshot, error) {
	boot, err := s.LoadBootstrap()
	if err != nil {
		return nil, err
	}
	if gw <= 0 {
		cur := fpl.CurrentGameweek(boot.Events)
		if cur == nil {
			return nil, fmt.Errorf("no current gameweek in %s", BootstrapPath)
		}
		gw = cur.ID
	}
	fixtures, err := s.LoadFixtures()
	if err != nil {
		return nil, err
	}
	entry, err := s.LoadEntry(teamID)
	if err != nil {
		return nil, err
	}
	history, err := s.LoadHistory(teamID)
	if err != nil {
		return nil, err
	}
	picks, err := s.LoadPicks(teamID, gw)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		Bootstrap: boot,
		Players:   fpl.NormalizeAll(boot.Elements),
		Fixtures:  fixtures,
		Entry:     entry,
		History:   history,
		Picks:     picks,
		Gameweek:  gw,
	}, nil
}
