package enrich

import (
	"errors"
	"fmt"
	"sort"

	"github.com/fplmate/fplmate/internal/fpl"
)

const (
	// DefaultWindow is how many gameweeks ahead a player's fixtures are collected.
	DefaultWindow = 6
	// NeutralDifficulty stands in for a fixture average when there are no fixtures.
	NeutralDifficulty = 3.0
)

var ErrUnknownPlayer = errors.New("pick references unknown player")

type FixtureDetail struct {
	FixtureID  int      `json:"fixture_id"`
	Gameweek   int      `json:"gameweek"`
	Opponent   fpl.Team `json:"opponent"`
	IsHome     bool     `json:"is_home"`
	Difficulty int      `json:"difficulty"`
	Finished   bool     `json:"finished"`
}

// Venue is "H" or "A".
func (f FixtureDetail) Venue() string {
	if f.IsHome {
		return "H"
	}
	return "A"
}

// Player is a player joined with its team and upcoming schedule. Built
// once per request and never mutated afterwards.
type Player struct {
	fpl.Player
	Team         fpl.Team        `json:"team"`
	PositionName string          `json:"position_name"`
	Upcoming     []FixtureDetail `json:"upcoming_fixtures"`
	Score        float64         `json:"player_score"`

	SquadPosition int  `json:"squad_position,omitempty"`
	IsCaptain     bool `json:"is_captain,omitempty"`
	IsViceCaptain bool `json:"is_vice_captain,omitempty"`
	Multiplier    int  `json:"multiplier,omitempty"`
}

// Ref is the compact identity used when a result lists players.
type Ref struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Team     string  `json:"team"`
	Position string  `json:"position"`
	Price    float64 `json:"price"`
	Form     float64 `json:"form"`
}

func (p Player) Ref() Ref {
	return Ref{
		ID:       p.ID,
		Name:     p.Name,
		Team:     p.Team.ShortName,
		Position: p.Position.Short(),
		Price:    p.PriceM(),
		Form:     p.Form,
	}
}

// Refs maps players to their compact identities.
func Refs(players []Player) []Ref {
	out := make([]Ref, 0, len(players))
	for _, p := range players {
		out = append(out, p.Ref())
	}
	return out
}

// AvgDifficulty averages the soonest n fixtures.
func (p Player) AvgDifficulty(n int) float64 {
	return AvgDifficulty(p.Upcoming, 0, n)
}

// AvgDifficultyFrom averages n fixtures starting at offset.
func (p Player) AvgDifficultyFrom(offset, n int) float64 {
	return AvgDifficulty(p.Upcoming, offset, n)
}

// NextFixture returns the soonest fixture, if any.
func (p Player) NextFixture() (FixtureDetail, bool) {
	if len(p.Upcoming) == 0 {
		return FixtureDetail{}, false
	}
	return p.Upcoming[0], true
}

// FixturesIn returns the fixtures scheduled in gameweek gw.
func (p Player) FixturesIn(gw int) []FixtureDetail {
	var out []FixtureDetail
	for _, f := range p.Upcoming {
		if f.Gameweek == gw {
			out = append(out, f)
		}
	}
	return out
}

// AvgDifficulty averages fixtures[offset:offset+n]; an empty slice is neutral.
func AvgDifficulty(fixtures []FixtureDetail, offset, n int) float64 {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(fixtures) || n <= 0 {
		return NeutralDifficulty
	}
	end := offset + n
	if end > len(fixtures) {
		end = len(fixtures)
	}
	sum := 0
	for _, f := range fixtures[offset:end] {
		sum += f.Difficulty
	}
	return float64(sum) / float64(end-offset)
}

// Score is the lightweight composite used for quick player ranking.
func Score(p fpl.Player, upcoming []FixtureDetail) float64 {
	ease := 5 - AvgDifficulty(upcoming, 0, 3)
	return p.Form*2 + p.PointsPerGame*1.5 + ease - p.InjuryRisk()*2
}

// Enricher holds the per-request team index and fixture list.
type Enricher struct {
	teams    map[int]fpl.Team
	fixtures []fpl.Fixture
	window   int
}

func NewEnricher(teams []fpl.Team, fixtures []fpl.Fixture) *Enricher {
	return &Enricher{
		teams:    fpl.TeamIndex(teams),
		fixtures: fixtures,
		window:   DefaultWindow,
	}
}

// WithWindow returns a copy collecting window gameweeks instead of the default.
func (e *Enricher) WithWindow(window int) *Enricher {
	if window <= 0 {
		window = DefaultWindow
	}
	cp := *e
	cp.window = window
	return &cp
}

func (e *Enricher) Team(id int) fpl.Team {
	return e.teams[id]
}

func (e *Enricher) Fixtures() []fpl.Fixture {
	return e.fixtures
}

// Upcoming collects teamID's fixtures with gameweek in [fromGW, fromGW+window).
func (e *Enricher) Upcoming(teamID, fromGW int) []FixtureDetail {
	return UpcomingFixtures(e.fixtures, e.teams, teamID, fromGW, e.window)
}

func (e *Enricher) Enrich(p fpl.Player, fromGW int) Player {
	upcoming := e.Upcoming(p.TeamID, fromGW)
	return Player{
		Player:       p,
		Team:         e.teams[p.TeamID],
		PositionName: p.Position.String(),
		Upcoming:     upcoming,
		Score:        Score(p, upcoming),
	}
}

func (e *Enricher) EnrichAll(players []fpl.Player, fromGW int) []Player {
	out := make([]Player, 0, len(players))
	for _, p := range players {
		out = append(out, e.Enrich(p, fromGW))
	}
	return out
}

// Enrich is the one-shot form of Enricher.Enrich.
func Enrich(p fpl.Player, teams []fpl.Team, fixtures []fpl.Fixture, fromGW int) Player {
	return NewEnricher(teams, fixtures).Enrich(p, fromGW)
}

// UpcomingFixtures returns teamID's fixtures with gameweek in
// [fromGW, fromGW+count), ordered by gameweek. count <= 0 yields none.
func UpcomingFixtures(fixtures []fpl.Fixture, teams map[int]fpl.Team, teamID, fromGW, count int) []FixtureDetail {
	count = max(count, 0)
	out := make([]FixtureDetail, 0, count)
	for _, f := range fixtures {
		gw, ok := f.GW()
		if !ok || !f.Involves(teamID) {
			continue
		}
		if gw < fromGW || gw >= fromGW+count {
			continue
		}
		isHome := f.TeamH == teamID
		opponentID, difficulty := f.TeamH, f.TeamADifficulty
		if isHome {
			opponentID, difficulty = f.TeamA, f.TeamHDifficulty
		}
		out = append(out, FixtureDetail{
			FixtureID:  f.ID,
			Gameweek:   gw,
			Opponent:   teams[opponentID],
			IsHome:     isHome,
			Difficulty: difficulty,
			Finished:   f.Finished,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Gameweek < out[j].Gameweek })
	return out
}

// Squad is a manager's 15 split into starters (positions 1-11) and bench.
type Squad struct {
	Starting []Player `json:"starting"`
	Bench    []Player `json:"bench"`
}

func (s Squad) All() []Player {
	out := make([]Player, 0, len(s.Starting)+len(s.Bench))
	out = append(out, s.Starting...)
	return append(out, s.Bench...)
}

func (s Squad) IDs() map[int]bool {
	ids := make(map[int]bool, len(s.Starting)+len(s.Bench))
	for _, p := range s.All() {
		ids[p.ID] = true
	}
	return ids
}

// Captain returns the starter flagged as captain.
func (s Squad) Captain() (Player, bool) {
	for _, p := range s.Starting {
		if p.IsCaptain {
			return p, true
		}
	}
	return Player{}, false
}

// BuildSquad enriches every pick. A pick whose element is missing from
// players is a caller error.
func BuildSquad(picks []fpl.Pick, players map[int]fpl.Player, e *Enricher, gw int) (Squad, error) {
	sorted := make([]fpl.Pick, len(picks))
	copy(sorted, picks)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Position < sorted[j].Position })

	var sq Squad
	for _, pk := range sorted {
		p, ok := players[pk.Element]
		if !ok {
			return Squad{}, fmt.Errorf("%w: element %d", ErrUnknownPlayer, pk.Element)
		}
		ep := e.Enrich(p, gw)
		ep.SquadPosition = pk.Position
		ep.IsCaptain = pk.IsCaptain
		ep.IsViceCaptain = pk.IsViceCaptain
		ep.Multiplier = pk.Multiplier
		if pk.Position <= 11 {
			sq.Starting = append(sq.Starting, ep)
		} else {
			sq.Bench = append(sq.Bench, ep)
		}
	}
	return sq, nil
}
