package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/fplmate/fplmate/internal/enrich"
	"github.com/fplmate/fplmate/internal/fpl"
)

type StrengthKind int

const (
	StrengthForm StrengthKind = iota
	StrengthFixtures
	StrengthPremium
	StrengthComposition
	StrengthValue
)

func (k StrengthKind) String() string {
	switch k {
	case StrengthForm:
		return "form"
	case StrengthFixtures:
		return "fixtures"
	case StrengthPremium:
		return "premium"
	case StrengthComposition:
		return "composition"
	case StrengthValue:
		return "value"
	}
	return fmt.Sprintf("strength(%d)", int(k))
}

func (k StrengthKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

type WeaknessKind int

const (
	WeaknessUnderperforming WeaknessKind = iota
	WeaknessFixtures
	WeaknessInjury
	WeaknessConcentration
	WeaknessBench
)

func (k WeaknessKind) String() string {
	switch k {
	case WeaknessUnderperforming:
		return "underperforming"
	case WeaknessFixtures:
		return "fixtures"
	case WeaknessInjury:
		return "injury"
	case WeaknessConcentration:
		return "concentration"
	case WeaknessBench:
		return "bench"
	}
	return fmt.Sprintf("weakness(%d)", int(k))
}

func (k WeaknessKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
)

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	}
	return fmt.Sprintf("severity(%d)", int(s))
}

func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Penalty is the rating deduction for a weakness of this severity.
func (s Severity) Penalty() int {
	switch s {
	case SeverityHigh:
		return 12
	case SeverityMedium:
		return 8
	case SeverityLow:
		return 4
	}
	return 0
}

type Strength struct {
	Kind        StrengthKind `json:"type"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Players     []enrich.Ref `json:"players,omitempty"`
}

type Weakness struct {
	Kind        WeaknessKind `json:"type"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Severity    Severity     `json:"severity"`
	Players     []enrich.Ref `json:"players,omitempty"`
}

// Result is the squad strength report. Values are in tenths like upstream.
type Result struct {
	OverallRating int        `json:"overall_rating"`
	Grade         string     `json:"grade"`
	TeamValue     int        `json:"team_value"`
	SquadValue    int        `json:"squad_value"`
	Bank          int        `json:"bank"`
	AverageForm   float64    `json:"average_form"`
	AverageFDR    float64    `json:"average_fdr"`
	Strengths     []Strength `json:"strengths"`
	Weaknesses    []Weakness `json:"weaknesses"`
}

const (
	strongFormThreshold   = 5.0
	poorFormThreshold     = 3.0
	premiumPrice          = 100
	premiumForm           = 4.0
	fixtureLookahead      = 3
	concentrationMinimum  = 3
	weakBenchForm         = 2.0
	underperformerMinutes = 180
)

// Analyze scans the starting XI and bench for strengths and weaknesses and
// rates the squad 0-100. teamValue is bank plus squad value, as upstream
// reports it.
func Analyze(starting, bench []enrich.Player, teams []fpl.Team, bank, teamValue int) Result {
	strengths := findStrengths(starting)
	weaknesses := findWeaknesses(starting, bench, fpl.TeamIndex(teams))
	avgForm := averageForm(starting)
	rating := rate(len(strengths), weaknesses, avgForm)

	return Result{
		OverallRating: rating,
		Grade:         Grade(rating),
		TeamValue:     teamValue,
		SquadValue:    teamValue - bank,
		Bank:          bank,
		AverageForm:   round(avgForm, 1),
		AverageFDR:    round(TeamAverageFDR(starting, fixtureLookahead), 2),
		Strengths:     strengths,
		Weaknesses:    weaknesses,
	}
}

func findStrengths(starting []enrich.Player) []Strength {
	out := []Strength{}

	highForm := filter(starting, func(p enrich.Player) bool { return p.Form >= strongFormThreshold })
	if len(highForm) >= 3 {
		out = append(out, Strength{
			Kind:        StrengthForm,
			Title:       "Strong Form",
			Description: fmt.Sprintf("%d players with form 5.0+", len(highForm)),
			Players:     enrich.Refs(highForm),
		})
	}

	goodFixtures := filter(starting, func(p enrich.Player) bool { return p.AvgDifficulty(fixtureLookahead) < 3 })
	if len(goodFixtures) >= 5 {
		out = append(out, Strength{
			Kind:        StrengthFixtures,
			Title:       "Favorable Fixtures",
			Description: fmt.Sprintf("%d players with easy upcoming fixtures", len(goodFixtures)),
			Players:     enrich.Refs(goodFixtures),
		})
	}

	premiums := filter(starting, func(p enrich.Player) bool { return p.Price >= premiumPrice && p.Form >= premiumForm })
	if len(premiums) >= 2 {
		out = append(out, Strength{
			Kind:        StrengthPremium,
			Title:       "Premium Assets Firing",
			Description: fmt.Sprintf("%d expensive players delivering returns", len(premiums)),
			Players:     enrich.Refs(premiums),
		})
	}

	counts := map[fpl.Position]int{}
	for _, p := range starting {
		counts[p.Position]++
	}
	if counts[fpl.Defender] >= 3 && counts[fpl.Midfielder] >= 3 && counts[fpl.Forward] >= 1 {
		out = append(out, Strength{
			Kind:        StrengthComposition,
			Title:       "Balanced Formation",
			Description: "Good distribution across positions",
		})
	}

	if ppm, ok := pointsPerMillion(starting); ok && ppm > 10 {
		out = append(out, Strength{
			Kind:        StrengthValue,
			Title:       "Good Value",
			Description: fmt.Sprintf("Strong points-per-million efficiency (%.1f)", ppm),
		})
	}
	return out
}

func findWeaknesses(starting, bench []enrich.Player, teams map[int]fpl.Team) []Weakness {
	out := []Weakness{}

	under := filter(starting, func(p enrich.Player) bool {
		return p.Form < poorFormThreshold && p.Minutes > underperformerMinutes
	})
	if len(under) > 0 {
		sev := SeverityMedium
		if len(under) >= 3 {
			sev = SeverityHigh
		}
		out = append(out, Weakness{
			Kind:        WeaknessUnderperforming,
			Title:       "Underperforming Players",
			Description: fmt.Sprintf("%d players with form below 3.0", len(under)),
			Severity:    sev,
			Players:     enrich.Refs(under),
		})
	}

	tough := filter(starting, func(p enrich.Player) bool { return p.AvgDifficulty(fixtureLookahead) >= 4 })
	if len(tough) >= 4 {
		out = append(out, Weakness{
			Kind:        WeaknessFixtures,
			Title:       "Difficult Fixtures Ahead",
			Description: fmt.Sprintf("%d players facing tough opponents", len(tough)),
			Severity:    SeverityMedium,
			Players:     enrich.Refs(tough),
		})
	}

	doubts := filter(starting, func(p enrich.Player) bool { return p.Doubtful() })
	if len(doubts) > 0 {
		sev := SeverityMedium
		if len(doubts) >= 2 {
			sev = SeverityHigh
		}
		out = append(out, Weakness{
			Kind:        WeaknessInjury,
			Title:       "Injury Concerns",
			Description: fmt.Sprintf("%d players with availability doubts", len(doubts)),
			Severity:    sev,
			Players:     enrich.Refs(doubts),
		})
	}

	if w, ok := concentration(starting, teams); ok {
		out = append(out, w)
	}

	if len(bench) > 0 && averageForm(bench) < weakBenchForm {
		out = append(out, Weakness{
			Kind:        WeaknessBench,
			Title:       "Weak Bench",
			Description: "Bench players have poor form",
			Severity:    SeverityLow,
			Players:     enrich.Refs(bench),
		})
	}
	return out
}

// concentration reports the lowest team id with at least three starters.
func concentration(starting []enrich.Player, teams map[int]fpl.Team) (Weakness, bool) {
	byTeam := map[int][]enrich.Player{}
	for _, p := range starting {
		byTeam[p.TeamID] = append(byTeam[p.TeamID], p)
	}
	ids := make([]int, 0, len(byTeam))
	for id := range byTeam {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		players := byTeam[id]
		if len(players) < concentrationMinimum {
			continue
		}
		name := teams[id].ShortName
		if name == "" {
			name = "one team"
		}
		sev := SeverityLow
		if len(players) >= 4 {
			sev = SeverityHigh
		}
		return Weakness{
			Kind:        WeaknessConcentration,
			Title:       "Team Concentration Risk",
			Description: fmt.Sprintf("%d players from %s", len(players), name),
			Severity:    sev,
			Players:     enrich.Refs(players),
		}, true
	}
	return Weakness{}, false
}

func rate(strengths int, weaknesses []Weakness, avgForm float64) int {
	rating := 50 + strengths*8
	for _, w := range weaknesses {
		rating -= w.Severity.Penalty()
	}
	switch {
	case avgForm > 5:
		rating += 10
	case avgForm > 4:
		rating += 5
	case avgForm < 3:
		rating -= 10
	}
	return max(0, min(100, rating))
}

// TeamAverageFDR pools the soonest n fixtures of every starter. No
// fixtures at all is neutral.
func TeamAverageFDR(starting []enrich.Player, n int) float64 {
	total, count := 0, 0
	for _, p := range starting {
		fx := p.Upcoming
		if len(fx) > n {
			fx = fx[:n]
		}
		for _, f := range fx {
			total += f.Difficulty
			count++
		}
	}
	if count == 0 {
		return enrich.NeutralDifficulty
	}
	return float64(total) / float64(count)
}

// Grade maps a 0-100 rating to a letter grade.
func Grade(rating int) string {
	switch {
	case rating >= 90:
		return "A+"
	case rating >= 80:
		return "A"
	case rating >= 70:
		return "B+"
	case rating >= 60:
		return "B"
	case rating >= 50:
		return "C+"
	case rating >= 40:
		return "C"
	case rating >= 30:
		return "D"
	default:
		return "F"
	}
}

func averageForm(players []enrich.Player) float64 {
	if len(players) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range players {
		sum += p.Form
	}
	return sum / float64(len(players))
}

// pointsPerMillion skips unpriced players; ok is false when none are priced.
func pointsPerMillion(players []enrich.Player) (float64, bool) {
	sum, n := 0.0, 0
	for _, p := range players {
		if p.Price <= 0 {
			continue
		}
		sum += float64(p.TotalPoints) / p.PriceM()
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

func filter(players []enrich.Player, keep func(enrich.Player) bool) []enrich.Player {
	var out []enrich.Player
	for _, p := range players {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func round(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
