package teamperf

import (
	"math"
	"sort"

	"github.com/fplmate/fplmate/internal/enrich"
	"github.com/fplmate/fplmate/internal/fpl"
)

// Params holds the expected-goals prior. Home and away constants differ to
// encode a mild home advantage; they are tunable, not derived.
type Params struct {
	HomeScoredBase    float64 `json:"home_scored_base" yaml:"home_scored_base"`
	HomeScoredPerEase float64 `json:"home_scored_per_ease" yaml:"home_scored_per_ease"`
	HomeConcededPerD  float64 `json:"home_conceded_per_difficulty" yaml:"home_conceded_per_difficulty"`
	AwayScoredBase    float64 `json:"away_scored_base" yaml:"away_scored_base"`
	AwayScoredPerEase float64 `json:"away_scored_per_ease" yaml:"away_scored_per_ease"`
	AwayConcededPerD  float64 `json:"away_conceded_per_difficulty" yaml:"away_conceded_per_difficulty"`
	MinMatches        int     `json:"min_matches" yaml:"min_matches"`
	DeltaWeight       float64 `json:"delta_weight" yaml:"delta_weight"`
}

func DefaultParams() Params {
	return Params{
		HomeScoredBase:    0.8,
		HomeScoredPerEase: 0.6,
		HomeConcededPerD:  0.4,
		AwayScoredBase:    0.6,
		AwayScoredPerEase: 0.5,
		AwayConcededPerD:  0.45,
		MinMatches:        3,
		DeltaWeight:       0.5,
	}
}

// Performance is one team's record over finished fixtures.
type Performance struct {
	TeamID              int     `json:"team_id"`
	GoalsScored         int     `json:"goals_scored"`
	GoalsConceded       int     `json:"goals_conceded"`
	HomeGoalsScored     int     `json:"home_goals_scored"`
	HomeGoalsConceded   int     `json:"home_goals_conceded"`
	AwayGoalsScored     int     `json:"away_goals_scored"`
	AwayGoalsConceded   int     `json:"away_goals_conceded"`
	MatchesPlayed       int     `json:"matches_played"`
	HomeMatches         int     `json:"home_matches"`
	AwayMatches         int     `json:"away_matches"`
	ExpectedPerformance float64 `json:"expected_performance"`
	ActualPerformance   float64 `json:"actual_performance"`
	PerformanceDelta    float64 `json:"performance_delta"`
}

// Table maps team id to performance.
type Table map[int]*Performance

// Calculate is Params.Calculate using DefaultParams.
func Calculate(fixtures []fpl.Fixture, teams []fpl.Team) Table {
	return DefaultParams().Calculate(fixtures, teams)
}

// Calculate aggregates finished fixtures with both scores present. Every
// team in teams gets an entry even with no matches.
func (p Params) Calculate(fixtures []fpl.Fixture, teams []fpl.Team) Table {
	out := make(Table, len(teams))
	for _, t := range teams {
		out[t.ID] = &Performance{TeamID: t.ID}
	}
	get := func(id int) *Performance {
		perf, ok := out[id]
		if !ok {
			perf = &Performance{TeamID: id}
			out[id] = perf
		}
		return perf
	}

	for _, f := range fixtures {
		if !f.Finished || f.TeamHScore == nil || f.TeamAScore == nil {
			continue
		}
		hs, as := *f.TeamHScore, *f.TeamAScore

		home := get(f.TeamH)
		home.GoalsScored += hs
		home.GoalsConceded += as
		home.HomeGoalsScored += hs
		home.HomeGoalsConceded += as
		home.MatchesPlayed++
		home.HomeMatches++
		hd := float64(f.TeamHDifficulty)
		home.ExpectedPerformance += ((5-hd)*p.HomeScoredPerEase + p.HomeScoredBase) - hd*p.HomeConcededPerD
		home.ActualPerformance += float64(hs - as)

		away := get(f.TeamA)
		away.GoalsScored += as
		away.GoalsConceded += hs
		away.AwayGoalsScored += as
		away.AwayGoalsConceded += hs
		away.MatchesPlayed++
		away.AwayMatches++
		ad := float64(f.TeamADifficulty)
		away.ExpectedPerformance += ((5-ad)*p.AwayScoredPerEase + p.AwayScoredBase) - ad*p.AwayConcededPerD
		away.ActualPerformance += float64(as - hs)
	}

	for _, perf := range out {
		if perf.MatchesPlayed > 0 {
			perf.PerformanceDelta = (perf.ActualPerformance - perf.ExpectedPerformance) / float64(perf.MatchesPlayed)
		}
	}
	return out
}

// AdjustedFDR is Params.AdjustedFDR using DefaultParams.
func AdjustedFDR(base float64, opponent *Performance) float64 {
	return DefaultParams().AdjustedFDR(base, opponent)
}

// AdjustedFDR shifts base by the opponent's performance delta. Opponents
// with too few matches leave base unchanged; the result is clamped to [1,5].
func (p Params) AdjustedFDR(base float64, opponent *Performance) float64 {
	if opponent == nil || opponent.MatchesPlayed < p.MinMatches {
		return base
	}
	adj := base + opponent.PerformanceDelta*p.DeltaWeight
	if math.IsNaN(adj) {
		return base
	}
	return math.Max(1, math.Min(5, adj))
}

// Reliable reports whether perf has enough matches to adjust difficulty.
func (p Params) Reliable(perf *Performance) bool {
	return perf != nil && perf.MatchesPlayed >= p.MinMatches
}

type Indicator int

const (
	IndicatorNone Indicator = iota
	IndicatorEasier
	IndicatorHarder
)

// IndicatorThreshold is the minimum difference between base and adjusted
// difficulty worth flagging.
const IndicatorThreshold = 0.3

func (i Indicator) String() string {
	switch i {
	case IndicatorEasier:
		return "easier"
	case IndicatorHarder:
		return "harder"
	default:
		return "none"
	}
}

func (i Indicator) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

func DifferenceIndicator(base, adjusted float64) Indicator {
	diff := adjusted - base
	switch {
	case diff <= -IndicatorThreshold:
		return IndicatorEasier
	case diff >= IndicatorThreshold:
		return IndicatorHarder
	default:
		return IndicatorNone
	}
}

// AdjustedAvgDifficulty uses DefaultParams.
func (t Table) AdjustedAvgDifficulty(p enrich.Player, n int) float64 {
	return DefaultParams().AdjustedAvgDifficulty(t, p, n)
}

// AdjustedAvgDifficulty averages adjusted difficulty over a player's
// soonest n fixtures; no fixtures is neutral.
func (p Params) AdjustedAvgDifficulty(t Table, pl enrich.Player, n int) float64 {
	fx := pl.Upcoming
	if len(fx) > n {
		fx = fx[:n]
	}
	if len(fx) == 0 || n <= 0 {
		return enrich.NeutralDifficulty
	}
	sum := 0.0
	for _, f := range fx {
		sum += p.AdjustedFDR(float64(f.Difficulty), t[f.Opponent.ID])
	}
	return sum / float64(len(fx))
}

// FixtureView is one cell of the fixture difficulty grid.
type FixtureView struct {
	Gameweek  int       `json:"gameweek"`
	Opponent  string    `json:"opponent"`
	IsHome    bool      `json:"is_home"`
	Base      int       `json:"base_difficulty"`
	Adjusted  float64   `json:"adjusted_difficulty"`
	Indicator Indicator `json:"indicator"`
}

// PlayerFixtures is one row of the fixture difficulty grid.
type PlayerFixtures struct {
	PlayerID    int           `json:"player_id"`
	Name        string        `json:"name"`
	Team        string        `json:"team"`
	Fixtures    []FixtureView `json:"fixtures"`
	AvgBase     float64       `json:"avg_base_difficulty"`
	AvgAdjusted float64       `json:"avg_adjusted_difficulty"`
}

// Grid uses DefaultParams.
func (t Table) Grid(players []enrich.Player, n int) []PlayerFixtures {
	return DefaultParams().Grid(t, players, n)
}

// Grid builds the fixture difficulty view for players over their soonest
// n fixtures, easiest schedule first.
func (p Params) Grid(t Table, players []enrich.Player, n int) []PlayerFixtures {
	out := make([]PlayerFixtures, 0, len(players))
	for _, pl := range players {
		fx := pl.Upcoming
		if len(fx) > n {
			fx = fx[:n]
		}
		row := PlayerFixtures{
			PlayerID:    pl.ID,
			Name:        pl.Name,
			Team:        pl.Team.ShortName,
			Fixtures:    make([]FixtureView, 0, len(fx)),
			AvgBase:     pl.AvgDifficulty(n),
			AvgAdjusted: p.AdjustedAvgDifficulty(t, pl, n),
		}
		for _, f := range fx {
			adj := p.AdjustedFDR(float64(f.Difficulty), t[f.Opponent.ID])
			row.Fixtures = append(row.Fixtures, FixtureView{
				Gameweek:  f.Gameweek,
				Opponent:  f.Opponent.ShortName,
				IsHome:    f.IsHome,
				Base:      f.Difficulty,
				Adjusted:  adj,
				Indicator: DifferenceIndicator(float64(f.Difficulty), adj),
			})
		}
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].AvgAdjusted != out[j].AvgAdjusted {
			return out[i].AvgAdjusted < out[j].AvgAdjusted
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	return out
}
