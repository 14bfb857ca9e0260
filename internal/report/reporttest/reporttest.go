// Package reporttest builds a small but complete season snapshot for tests.
package reporttest

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/fplmate/fplmate/internal/fpl"
	"github.com/fplmate/fplmate/internal/store"
)

const (
	TeamID   = 4242
	Gameweek = 10
)

func ip(v int) *int { return &v }

func raw(id, team int, pos fpl.Position, cost int, form, ppg, own float64, minutes int) fpl.RawPlayer {
	return fpl.RawPlayer{
		ID:                       id,
		WebName:                  fmt.Sprintf("P%d", id),
		Team:                     team,
		ElementType:              int(pos),
		NowCost:                  cost,
		Form:                     strconv.FormatFloat(form, 'f', 1, 64),
		PointsPerGame:            strconv.FormatFloat(ppg, 'f', 1, 64),
		SelectedByPercent:        strconv.FormatFloat(own, 'f', 1, 64),
		ExpectedGoalInvolvements: "1.5",
		ICTIndex:                 "80.0",
		Minutes:                  minutes,
		TotalPoints:              int(ppg * 9),
		Status:                   "a",
	}
}

// Bootstrap has six teams, a 15-man squad (ids 1-15) and a free-agent pool
// (ids 100+). Gameweek 10 is current.
func Bootstrap() fpl.Bootstrap {
	var b fpl.Bootstrap
	for id := 1; id <= 6; id++ {
		b.Teams = append(b.Teams, fpl.Team{ID: id, Name: fmt.Sprintf("Team %d", id), ShortName: fmt.Sprintf("T%d", id)})
	}
	for gw := 1; gw <= 38; gw++ {
		b.Events = append(b.Events, fpl.Gameweek{
			ID:                gw,
			Finished:          gw < Gameweek,
			IsCurrent:         gw == Gameweek,
			IsNext:            gw == Gameweek+1,
			AverageEntryScore: 50,
		})
	}
	squad := []fpl.RawPlayer{
		raw(1, 1, fpl.Goalkeeper, 50, 4, 4, 20, 900),
		raw(2, 2, fpl.Goalkeeper, 40, 1, 2, 3, 90),
		raw(3, 1, fpl.Defender, 60, 5, 4.5, 30, 900),
		raw(4, 2, fpl.Defender, 55, 3, 3.5, 12, 850),
		raw(5, 3, fpl.Defender, 50, 2, 3, 8, 800),
		raw(6, 4, fpl.Defender, 45, 1, 2, 4, 300),
		raw(7, 5, fpl.Defender, 40, 0.5, 1, 1, 100),
		raw(8, 1, fpl.Midfielder, 130, 8, 7, 60, 900),
		raw(9, 2, fpl.Midfielder, 90, 6, 5.5, 25, 880),
		raw(10, 3, fpl.Midfielder, 70, 2.5, 3.5, 18, 700),
		raw(11, 4, fpl.Midfielder, 60, 4, 4, 9, 800),
		raw(12, 5, fpl.Midfielder, 50, 1, 2, 2, 200),
		raw(13, 6, fpl.Forward, 145, 9, 8, 70, 900),
		raw(14, 3, fpl.Forward, 75, 3, 4, 10, 800),
		raw(15, 4, fpl.Forward, 45, 1, 1.5, 1, 150),
	}
	pool := []fpl.RawPlayer{
		raw(100, 5, fpl.Goalkeeper, 45, 5, 4, 4, 900),
		raw(101, 6, fpl.Defender, 55, 6, 5, 6, 900),
		raw(102, 2, fpl.Defender, 45, 4, 3.5, 3, 800),
		raw(103, 6, fpl.Midfielder, 75, 7, 5.5, 4, 900),
		raw(104, 5, fpl.Midfielder, 65, 5.5, 4.5, 9, 850),
		raw(105, 4, fpl.Midfielder, 100, 6.5, 6, 14, 900),
		raw(106, 2, fpl.Forward, 80, 7.5, 6, 7, 900),
		raw(107, 5, fpl.Forward, 60, 5, 4, 3, 700),
	}
	injured := raw(108, 6, fpl.Midfielder, 70, 9, 7, 2, 900)
	injured.Status = "i"
	injured.ChanceOfPlayingNextRound = ip(0)
	b.Elements = append(append(squad, pool...), injured)
	for _, pos := range fpl.Positions {
		b.ElementTypes = append(b.ElementTypes, fpl.ElementType{ID: int(pos), SingularName: pos.String()})
	}
	return b
}

// Fixtures gives every team one match per gameweek through GW 20. Gameweeks
// before the current one are finished with scores.
func Fixtures() []fpl.Fixture {
	pairs := [][2]int{{1, 2}, {3, 4}, {5, 6}, {1, 3}, {2, 5}, {4, 6}, {1, 4}, {2, 6}, {3, 5}}
	var out []fpl.Fixture
	id := 1
	for gw := 1; gw <= 20; gw++ {
		for i := 0; i < 3; i++ {
			p := pairs[((gw-1)*3+i)%len(pairs)]
			home, away := p[0], p[1]
			if gw%2 == 0 {
				home, away = away, home
			}
			f := fpl.Fixture{
				ID: id, Event: ip(gw), TeamH: home, TeamA: away,
				TeamHDifficulty: 2 + (away % 3), TeamADifficulty: 2 + (home % 3),
			}
			if gw < Gameweek {
				f.Finished = true
				f.TeamHScore = ip((home + gw) % 4)
				f.TeamAScore = ip((away * gw) % 3)
			}
			out = append(out, f)
			id++
		}
	}
	return out
}

func Entry() fpl.Entry {
	return fpl.Entry{
		ID: TeamID, Name: "Test XI", PlayerFirstName: "Sam", PlayerLastName: "Doe",
		SummaryOverallPoints: 520, LastDeadlineValue: 1004, LastDeadlineBank: 15,
	}
}

func History() fpl.EntryHistory {
	var h fpl.EntryHistory
	rank := 3_000_000
	for gw := 1; gw < Gameweek; gw++ {
		rank -= 150_000 * (gw % 3)
		h.Current = append(h.Current, fpl.EventHistory{
			Event: gw, Points: 45 + gw*2, OverallRank: rank, Rank: 1_000_000 - gw*1000,
			PointsOnBench: gw % 5, EventTransfers: 1, Bank: 15, Value: 1000 + gw,
		})
	}
	h.Chips = []fpl.ChipUsage{{Name: "wildcard", Event: 4}}
	return h
}

func Picks() fpl.TeamPicks {
	p := fpl.TeamPicks{EntryHistory: fpl.EventHistory{Event: Gameweek, Bank: 15, Value: 1004}}
	// XI: 1 GK, 4 DEF, 4 MID, 2 FWD; bench: GK, DEF, MID, FWD
	order := []int{1, 3, 4, 5, 6, 8, 9, 10, 11, 13, 14, 2, 7, 12, 15}
	for i, el := range order {
		pk := fpl.Pick{Element: el, Position: i + 1, Multiplier: 1}
		switch el {
		case 13:
			pk.IsCaptain, pk.Multiplier = true, 2
		case 8:
			pk.IsViceCaptain = true
		}
		if i >= 11 {
			pk.Multiplier = 0
		}
		p.Picks = append(p.Picks, pk)
	}
	return p
}

// Snapshot is the decoded form of everything above.
func Snapshot() *store.Snapshot {
	boot := Bootstrap()
	return &store.Snapshot{
		Bootstrap: boot,
		Players:   fpl.NormalizeAll(boot.Elements),
		Fixtures:  Fixtures(),
		Entry:     Entry(),
		History:   History(),
		Picks:     Picks(),
		Gameweek:  Gameweek,
	}
}

// WriteStore writes the snapshot files into st.
func WriteStore(st *store.JSONStore) error {
	files := map[string]any{
		store.BootstrapPath:               Bootstrap(),
		store.FixturesPath:                Fixtures(),
		store.EntryPath(TeamID):           Entry(),
		store.HistoryPath(TeamID):         History(),
		store.PicksPath(TeamID, Gameweek): Picks(),
	}
	for rel, v := range files {
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		if err := st.WriteRaw(rel, b, false); err != nil {
			return err
		}
	}
	return nil
}
