package captaincy

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/fplmate/fplmate/internal/enrich"
	"github.com/fplmate/fplmate/internal/fpl"
)

// Risk selects the weighting profile.
type Risk int

const (
	Safe Risk = iota
	Balanced
	Aggressive
)

// Risks lists every profile in ascending order of risk.
var Risks = []Risk{Safe, Balanced, Aggressive}

func (r Risk) String() string {
	switch r {
	case Safe:
		return "safe"
	case Balanced:
		return "balanced"
	case Aggressive:
		return "aggressive"
	}
	return fmt.Sprintf("risk(%d)", int(r))
}

func (r Risk) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// ParseRisk accepts safe|low, balanced|med|medium and aggressive|high.
// Anything else, including empty, is Balanced.
func ParseRisk(s string) Risk {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "safe", "low":
		return Safe
	case "aggressive", "high":
		return Aggressive
	default:
		return Balanced
	}
}

type weights struct {
	form           float64
	ppg            float64
	xgi            float64
	xgiCap         float64
	ownership      float64
	lowOwnedBonus  float64
	forwardBonus   float64
	minutesPenalty float64
}

func (r Risk) weights() weights {
	switch r {
	case Safe:
		return weights{form: 3, ppg: 3, xgi: 1.5, xgiCap: 20, ownership: 0.2, forwardBonus: 5, minutesPenalty: 15}
	case Aggressive:
		return weights{form: 3, ppg: 2, xgi: 3, xgiCap: 25, ownership: -0.2, lowOwnedBonus: 10, forwardBonus: 7, minutesPenalty: 10}
	case Balanced:
	}
	return weights{form: 4, ppg: 2.5, xgi: 2, xgiCap: 20, forwardBonus: 5, minutesPenalty: 10}
}

type FixtureInfo struct {
	Opponent   string `json:"opponent"`
	IsHome     bool   `json:"is_home"`
	Difficulty int    `json:"difficulty"`
}

type Stats struct {
	Form float64 `json:"form"`
	XGI  float64 `json:"xgi"`
	ICT  float64 `json:"ict"`
	PPG  float64 `json:"ppg"`
}

type Candidate struct {
	Player         enrich.Ref  `json:"player"`
	Score          float64     `json:"captain_score"`
	Reasons        []string    `json:"reasons"`
	Ownership      float64     `json:"ownership"`
	ExpectedPoints float64     `json:"expected_points"`
	IsDifferential bool        `json:"is_differential"`
	Fixture        FixtureInfo `json:"fixture_info"`
	Stats          Stats       `json:"stats"`
}

type Analysis struct {
	Risk             Risk        `json:"risk"`
	TopPick          *Candidate  `json:"top_pick"`
	SafePick         *Candidate  `json:"safe_pick"`
	DifferentialPick *Candidate  `json:"differential_pick"`
	Candidates       []Candidate `json:"all_candidates"`
}

const differentialOwnership = 15

// Eligible is true for available players and for anyone whose chance of
// playing is unknown or at least 75.
func Eligible(p fpl.Player) bool {
	if p.Available() {
		return true
	}
	c, ok := p.Chance()
	return !ok || c >= 75
}

// Analyze ranks eligible starters as captain options under risk. Picks are
// nil when nobody is eligible.
func Analyze(starting []enrich.Player, risk Risk) Analysis {
	candidates := make([]Candidate, 0, len(starting))
	for _, p := range starting {
		if !Eligible(p.Player) {
			continue
		}
		candidates = append(candidates, evaluate(p, risk))
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Player.ID < candidates[j].Player.ID
	})

	out := Analysis{Risk: risk, Candidates: candidates}
	if len(candidates) == 0 {
		return out
	}
	out.TopPick = &candidates[0]

	safe := 0
	for i := 1; i < len(candidates) && i < 5; i++ {
		if candidates[i].Ownership > candidates[safe].Ownership {
			safe = i
		}
	}
	out.SafePick = &candidates[safe]

	for i := range candidates {
		if candidates[i].IsDifferential {
			out.DifferentialPick = &candidates[i]
			break
		}
	}
	return out
}

// AnalyzeByRisk runs every profile.
func AnalyzeByRisk(starting []enrich.Player) map[Risk]Analysis {
	out := make(map[Risk]Analysis, len(Risks))
	for _, r := range Risks {
		out[r] = Analyze(starting, r)
	}
	return out
}

func evaluate(p enrich.Player, risk Risk) Candidate {
	score, reasons := Score(p, risk)
	info := FixtureInfo{Opponent: "TBD", IsHome: true, Difficulty: 3}
	if f, ok := p.NextFixture(); ok {
		info = FixtureInfo{Opponent: f.Opponent.ShortName, IsHome: f.IsHome, Difficulty: f.Difficulty}
	}
	return Candidate{
		Player:         p.Ref(),
		Score:          math.Round(score*10) / 10,
		Reasons:        reasons,
		Ownership:      p.Ownership,
		ExpectedPoints: math.Round(ExpectedPoints(p)*10) / 10,
		IsDifferential: p.Ownership < differentialOwnership,
		Fixture:        info,
		Stats:          Stats{Form: p.Form, XGI: p.XGI, ICT: p.ICT, PPG: p.PointsPerGame},
	}
}

// Score is the captain score under risk and the reasons behind it,
// floored at 0.
func Score(p enrich.Player, risk Risk) (float64, []string) {
	w := risk.weights()
	reasons := []string{}
	score := math.Min(p.Form*w.form, 40)
	switch {
	case p.Form >= 7:
		reasons = append(reasons, "Exceptional form")
	case p.Form >= 5:
		reasons = append(reasons, "Strong form")
	}

	score += math.Min(p.PointsPerGame*w.ppg, 20)
	if p.PointsPerGame >= 6 {
		reasons = append(reasons, "High PPG")
	}

	score += math.Min(p.XGI*w.xgi, w.xgiCap)
	if p.XGI >= 6 {
		reasons = append(reasons, "High xGI")
	}

	score += math.Min(p.ICT/10, 10)

	if f, ok := p.NextFixture(); ok {
		score += float64(5-f.Difficulty) * 2.5
		if f.Difficulty <= 2 {
			reasons = append(reasons, fmt.Sprintf("Easy fixture (%s %s)", f.Opponent.ShortName, f.Venue()))
		}
		if f.IsHome {
			score += 3
			if f.Difficulty > 2 {
				reasons = append(reasons, "Home advantage")
			}
		}
	}

	score += p.Ownership * w.ownership
	if w.lowOwnedBonus > 0 && p.Ownership < 10 {
		score += w.lowOwnedBonus
		reasons = append(reasons, "Low ownership upside")
	}

	switch p.Position {
	case fpl.Forward:
		score += w.forwardBonus
		reasons = append(reasons, "Forward (high ceiling)")
	case fpl.Midfielder:
		score += 3
	case fpl.Goalkeeper, fpl.Defender:
	}

	if !p.Available() {
		score -= 30
		reasons = append(reasons, "Fitness doubt")
	} else if c, ok := p.Chance(); ok {
		score -= float64(100-c) / 5
		if c < 75 {
			reasons = append(reasons, fmt.Sprintf("Only %d%% chance", c))
		}
	}

	if p.Minutes < 270 {
		score -= w.minutesPenalty
		reasons = append(reasons, "Limited minutes")
	}
	return math.Max(0, score), reasons
}

// ExpectedPoints is the doubled next-gameweek projection.
func ExpectedPoints(p enrich.Player) float64 {
	expected := (p.Form + p.PointsPerGame) / 2
	if f, ok := p.NextFixture(); ok {
		expected *= 1 + float64(3-f.Difficulty)*0.1
		if f.IsHome {
			expected *= 1.1
		}
	}
	return expected * 2
}
