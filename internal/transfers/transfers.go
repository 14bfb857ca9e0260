package transfers

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/fplmate/fplmate/internal/enrich"
	"github.com/fplmate/fplmate/internal/fpl"
)

// Lookahead is the number of gameweeks a suggestion set covers.
const Lookahead = 3

var ErrNoStarters = errors.New("transfers: starting XI is empty")

type Category int

const (
	FormPick Category = iota
	FixtureSwing
	Differential
	PremiumUpgrade
	ValuePick
)

func (c Category) String() string {
	switch c {
	case FormPick:
		return "form_pick"
	case FixtureSwing:
		return "fixture_swing"
	case Differential:
		return "differential"
	case PremiumUpgrade:
		return "premium_upgrade"
	case ValuePick:
		return "value_pick"
	}
	return fmt.Sprintf("category(%d)", int(c))
}

func (c Category) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// lens returns the transfer-out strategy used at lookahead index i.
func lens(i int) Category {
	switch i {
	case 0:
		return FormPick
	case 1:
		return FixtureSwing
	default:
		return Differential
	}
}

type OptionStats struct {
	Ownership float64 `json:"ownership"`
	XGI       float64 `json:"xgi"`
	ICT       float64 `json:"ict"`
}

type Option struct {
	Player            enrich.Ref  `json:"player"`
	Score             float64     `json:"score"`
	PriceDiff         int         `json:"price_diff"`
	FormDiff          float64     `json:"form_diff"`
	FixtureDifficulty float64     `json:"fixture_difficulty"`
	ExpectedPoints    float64     `json:"expected_points"`
	Reason            string      `json:"reason"`
	Category          Category    `json:"category"`
	Confidence        int         `json:"confidence"`
	Stats             OptionStats `json:"stats"`
}

type Suggestion struct {
	Gameweek  int        `json:"gameweek"`
	PlayerOut enrich.Ref `json:"player_out"`
	ReasonOut string     `json:"reason_out"`
	Options   []Option   `json:"suggestions"`
	TakeHit   bool       `json:"take_hit"`
	HitWorth  bool       `json:"hit_worth"`
	Category  Category   `json:"category"`
}

// Input is everything one suggestion run needs. Bank is in tenths.
type Input struct {
	Starting      []enrich.Player
	Bench         []enrich.Player
	Pool          []fpl.Player
	Enricher      *enrich.Enricher
	CurrentGW     int
	Bank          int
	FreeTransfers int
}

// Suggest returns one suggestion per lookahead gameweek, each choosing its
// outgoing player through a different lens. Outgoing players are distinct
// while the XI has enough members.
func Suggest(in Input) ([]Suggestion, error) {
	if len(in.Starting) == 0 {
		return nil, ErrNoStarters
	}
	squad := make(map[int]bool, len(in.Starting)+len(in.Bench))
	for _, p := range in.Starting {
		squad[p.ID] = true
	}
	for _, p := range in.Bench {
		squad[p.ID] = true
	}

	chosen := map[int]bool{}
	out := make([]Suggestion, 0, Lookahead)
	for i := 0; i < Lookahead; i++ {
		cat := lens(i)
		pool := remaining(in.Starting, chosen)
		playerOut := pickOut(pool, cat, i)
		chosen[playerOut.ID] = true

		targetGW := in.CurrentGW + i
		options := replacements(in, squad, playerOut, cat, targetGW)

		takeHit := i > 0 && in.FreeTransfers < i+1
		hitWorth := takeHit && len(options) > 0 &&
			options[0].ExpectedPoints-ExpectedPoints(playerOut, Lookahead) > 4

		out = append(out, Suggestion{
			Gameweek:  targetGW,
			PlayerOut: playerOut.Ref(),
			ReasonOut: reasonOut(playerOut, cat, i),
			Options:   options,
			TakeHit:   takeHit,
			HitWorth:  hitWorth,
			Category:  cat,
		})
	}
	return out, nil
}

// remaining drops already-chosen players, falling back to the full XI once
// everyone has been used.
func remaining(starting []enrich.Player, chosen map[int]bool) []enrich.Player {
	var out []enrich.Player
	for _, p := range starting {
		if !chosen[p.ID] {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return starting
	}
	return out
}

func pickOut(pool []enrich.Player, cat Category, offset int) enrich.Player {
	ranked := make([]enrich.Player, len(pool))
	copy(ranked, pool)

	var worse func(a, b enrich.Player) bool
	switch cat {
	case FormPick:
		worse = func(a, b enrich.Player) bool {
			if ua, ub := !a.Available(), !b.Available(); ua != ub {
				return ua
			}
			if la, lb := lowChance(a), lowChance(b); la != lb {
				return la
			}
			return a.Form < b.Form
		}
	case FixtureSwing:
		worse = func(a, b enrich.Player) bool {
			return a.AvgDifficultyFrom(offset, 3) > b.AvgDifficultyFrom(offset, 3)
		}
	case Differential, PremiumUpgrade, ValuePick:
		worse = func(a, b enrich.Player) bool {
			return templateScore(a) > templateScore(b)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if worse(a, b) {
			return true
		}
		if worse(b, a) {
			return false
		}
		return a.ID < b.ID
	})
	return ranked[0]
}

func lowChance(p enrich.Player) bool {
	c, ok := p.Chance()
	return ok && c < 75
}

// templateScore is high for heavily owned, out-of-form players.
func templateScore(p enrich.Player) float64 {
	return p.Ownership/10 - p.Form*0.5
}

func replacements(in Input, squad map[int]bool, playerOut enrich.Player, cat Category, gw int) []Option {
	maxPrice := playerOut.Price + in.Bank
	var candidates []enrich.Player
	for _, p := range in.Pool {
		if p.Position != playerOut.Position || p.Price > maxPrice || squad[p.ID] {
			continue
		}
		if !p.Available() || p.Minutes <= 90 {
			continue
		}
		candidates = append(candidates, in.Enricher.Enrich(p, gw))
	}

	scores := make(map[int]float64, len(candidates))
	for _, c := range candidates {
		scores[c.ID] = Score(c, cat)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		si, sj := scores[candidates[i].ID], scores[candidates[j].ID]
		if si != sj {
			return si > sj
		}
		return candidates[i].ID < candidates[j].ID
	})
	if len(candidates) > 3 {
		candidates = candidates[:3]
	}

	options := make([]Option, 0, len(candidates))
	for _, c := range candidates {
		score := scores[c.ID]
		options = append(options, Option{
			Player:            c.Ref(),
			Score:             round1(score),
			PriceDiff:         c.Price - playerOut.Price,
			FormDiff:          round1(c.Form - playerOut.Form),
			FixtureDifficulty: round2(c.AvgDifficulty(3)),
			ExpectedPoints:    ExpectedPoints(c, Lookahead),
			Reason:            reasonIn(c, playerOut),
			Category:          Classify(c, playerOut),
			Confidence:        Confidence(score),
			Stats:             OptionStats{Ownership: c.Ownership, XGI: c.XGI, ICT: c.ICT},
		})
	}
	return options
}

// Score rates a replacement under the given category's weighting.
func Score(p enrich.Player, cat Category) float64 {
	ease := 5 - p.AvgDifficulty(3)
	switch cat {
	case FormPick:
		return p.Form*1.5 + p.PointsPerGame + ease + p.XGI*0.5 + p.EPNext*0.5
	case FixtureSwing:
		home := 0
		for _, f := range p.Upcoming[:min(3, len(p.Upcoming))] {
			if f.IsHome {
				home++
			}
		}
		return ease*3 + p.Form + p.PointsPerGame*0.5 + float64(home)*0.5
	case Differential:
		return p.Form + p.PointsPerGame*0.5 + ease + ownershipBonus(p.Ownership) + p.XGI*10
	case PremiumUpgrade:
		return p.Form*1.5 + p.PointsPerGame*1.5 + p.XGI*2 + p.ICT/20
	case ValuePick:
		v := 0.0
		if p.Price > 0 {
			v = (p.Form + p.PointsPerGame) / p.PriceM() * 5
		}
		return v + ease
	}
	return 0
}

func ownershipBonus(own float64) float64 {
	switch {
	case own < 5:
		return 30
	case own < 10:
		return 20
	case own < 15:
		return 10
	case own < 20:
		return 5
	default:
		return 0
	}
}

// Classify labels a replacement by its own profile against the outgoing player.
func Classify(in, out enrich.Player) Category {
	switch {
	case in.Ownership < 10:
		return Differential
	case in.AvgDifficulty(3) <= out.AvgDifficulty(3)-1:
		return FixtureSwing
	case in.Price >= out.Price+10 && in.Form >= 5:
		return PremiumUpgrade
	case in.Price < out.Price:
		return ValuePick
	default:
		return FormPick
	}
}

func Confidence(score float64) int {
	return int(math.Max(0, math.Min(100, math.Round(score*5))))
}

// ExpectedPoints projects points over gws gameweeks, weighting form over
// ppg and scaling by fixture difficulty. Rounded to 1dp.
func ExpectedPoints(p enrich.Player, gws int) float64 {
	base := (p.Form*0.6 + p.PointsPerGame*0.4) * float64(gws)
	mod := 1 + (3-p.AvgDifficulty(gws))*0.1
	return round1(base * mod)
}

func reasonOut(p enrich.Player, cat Category, offset int) string {
	var reasons []string
	switch p.Status {
	case fpl.StatusAvailable:
	case fpl.StatusInjured:
		reasons = append(reasons, "Injured")
	case fpl.StatusSuspended:
		reasons = append(reasons, "Suspended")
	case fpl.StatusDoubtful:
		reasons = append(reasons, "Doubtful")
	case fpl.StatusUnavailable, fpl.StatusUnknown:
		reasons = append(reasons, "Unavailable")
	}
	if c, ok := p.Chance(); ok && c < 75 {
		reasons = append(reasons, fmt.Sprintf("Only %d%% chance of playing", c))
	}
	switch {
	case p.Form < 2:
		reasons = append(reasons, "Very poor form")
	case p.Form < 3:
		reasons = append(reasons, "Poor form")
	}

	switch cat {
	case FixtureSwing:
		if d := p.AvgDifficultyFrom(offset, 3); d >= 3.5 {
			reasons = append(reasons, fmt.Sprintf("Tough fixtures ahead (avg %.1f)", d))
		}
	case Differential:
		if p.Ownership >= 20 {
			reasons = append(reasons, fmt.Sprintf("Template pick at %.1f%% owned", p.Ownership))
		}
	case FormPick, PremiumUpgrade, ValuePick:
		if p.AvgDifficulty(3) >= 4 {
			reasons = append(reasons, "Tough upcoming fixtures")
		}
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "Lowest performing in squad")
	}
	return strings.Join(reasons, ". ")
}

func reasonIn(in, out enrich.Player) string {
	var reasons []string
	switch diff := in.Form - out.Form; {
	case diff > 2:
		reasons = append(reasons, "Much better form")
	case diff > 1:
		reasons = append(reasons, "Better form")
	}
	switch d := in.AvgDifficulty(3); {
	case d <= 2:
		reasons = append(reasons, "Excellent fixtures")
	case d <= 2.5:
		reasons = append(reasons, "Good fixtures")
	}
	if in.Ownership < 5 {
		reasons = append(reasons, "Low ownership differential")
	}
	if in.PointsPerGame-out.PointsPerGame > 1 {
		reasons = append(reasons, "Higher points per game")
	}
	if len(reasons) == 0 {
		reasons = append(reasons, "Best available option")
	}
	return strings.Join(reasons, ". ")
}

// Summary renders a suggestion as "Out -> In" with hit advice.
func Summary(s Suggestion) string {
	if len(s.Options) == 0 {
		return "No suitable replacements found"
	}
	line := fmt.Sprintf("%s -> %s", s.PlayerOut.Name, s.Options[0].Player.Name)
	if s.TakeHit {
		if s.HitWorth {
			line += " (hit recommended)"
		} else {
			line += " (hit not recommended)"
		}
	}
	return line
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
