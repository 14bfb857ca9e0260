package chips

import (
	"fmt"
	"math"
	"sort"

	"github.com/fplmate/fplmate/internal/enrich"
	"github.com/fplmate/fplmate/internal/fpl"
)

type PickPriority int

const (
	Essential PickPriority = iota
	Recommended
	Optional
)

func (p PickPriority) String() string {
	switch p {
	case Essential:
		return "essential"
	case Recommended:
		return "recommended"
	case Optional:
		return "option"
	}
	return fmt.Sprintf("pick_priority(%d)", int(p))
}

func (p PickPriority) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

type TemplatePick struct {
	Player   enrich.Ref   `json:"player"`
	Score    float64      `json:"score"`
	Reason   string       `json:"reason"`
	Priority PickPriority `json:"priority"`
}

type PositionPicks struct {
	Position fpl.Position   `json:"position"`
	Name     string         `json:"position_name"`
	Players  []TemplatePick `json:"players"`
}

type Template struct {
	Chip      Chip            `json:"chip"`
	Gameweek  int             `json:"gameweek"`
	Formation string          `json:"formation"`
	TotalCost int             `json:"total_cost"`
	Budget    int             `json:"budget,omitempty"`
	Reasoning string          `json:"reasoning"`
	Positions []PositionPicks `json:"positions"`
}

// DefaultBudget is a full 100.0m squad in tenths.
const DefaultBudget = 1000

// squadQuota is how many of each position a 15-man squad carries.
func squadQuota(pos fpl.Position) int {
	switch pos {
	case fpl.Goalkeeper:
		return 2
	case fpl.Defender, fpl.Midfielder:
		return 5
	case fpl.Forward:
		return 3
	}
	return 0
}

type scored struct {
	player enrich.Player
	score  float64
}

func rank(players []enrich.Player, score func(enrich.Player) float64) []scored {
	out := make([]scored, 0, len(players))
	for _, p := range players {
		out = append(out, scored{player: p, score: score(p)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].score != out[j].score {
			return out[i].score > out[j].score
		}
		return out[i].player.ID < out[j].player.ID
	})
	return out
}

func byPosition(ranked []scored, pos fpl.Position) []scored {
	var out []scored
	for _, s := range ranked {
		if s.player.Position == pos {
			out = append(out, s)
		}
	}
	return out
}

func eligible(pool []fpl.Player, minMinutes int, exclude map[int]bool) []fpl.Player {
	var out []fpl.Player
	for _, p := range pool {
		if p.Available() && p.Minutes > minMinutes && !exclude[p.ID] {
			out = append(out, p)
		}
	}
	return out
}

// WildcardScore favours form, underlying numbers, a soft six-week run and value.
func WildcardScore(p enrich.Player) float64 {
	score := p.Form*2 + p.PointsPerGame*1.5 + p.XGI*3
	score += (5 - p.AvgDifficulty(6)) * 4
	if p.Price > 0 {
		score += (p.Form + p.PointsPerGame) / p.PriceM() * 5
	}
	return score
}

// BenchBoostScore favours form, an easy next fixture and nailed minutes.
func BenchBoostScore(p enrich.Player) float64 {
	score := p.Form * 3
	if f, ok := p.NextFixture(); ok && f.Difficulty <= 2 {
		score += 10
	}
	if p.Minutes > 450 {
		score += 5
	}
	return score
}

// FreeHitScore looks only at the next fixture.
func FreeHitScore(p enrich.Player) float64 {
	score := p.Form*4 + p.XGI*5
	if f, ok := p.NextFixture(); ok {
		score += float64(5-f.Difficulty) * 8
		if f.IsHome {
			score += 3
		}
	}
	return score
}

type slot struct {
	reason   string
	priority PickPriority
	// maxPrice > 0 prefers the best remaining player at or under it.
	maxPrice int
}

var wildcardSlots = map[fpl.Position][]slot{
	fpl.Goalkeeper: {
		{"Best value starting keeper", Essential, 0},
		{"Budget backup", Optional, 45},
	},
	fpl.Defender: {
		{"Best overall defender", Essential, 0},
		{"Premium defensive asset", Essential, 0},
		{"Good fixture run", Recommended, 0},
		{"Value enabler", Optional, 50},
		{"Bench fodder", Optional, 45},
	},
	fpl.Midfielder: {
		{"Premium midfielder", Essential, 0},
		{"High ceiling pick", Essential, 0},
		{"Great fixtures", Recommended, 0},
		{"Differential option", Recommended, 0},
		{"Value mid", Optional, 55},
	},
	fpl.Forward: {
		{"Premium striker", Essential, 0},
		{"Form pick", Recommended, 0},
		{"Budget forward", Optional, 60},
	},
}

// WildcardTemplate builds a full 15 from the pool. Budget slots take the
// best remaining player under their price cap, else the next best overall.
func WildcardTemplate(pool []fpl.Player, e *enrich.Enricher, gw, budget int) Template {
	if budget <= 0 {
		budget = DefaultBudget
	}
	ranked := rank(e.EnrichAll(eligible(pool, 180, nil), gw), WildcardScore)

	t := Template{
		Chip:      Wildcard,
		Gameweek:  gw,
		Formation: "3-5-2",
		Budget:    budget,
		Reasoning: "Balanced template focusing on premium midfielders with good fixture runs and value enablers to free up funds.",
	}
	for _, pos := range fpl.Positions {
		candidates := byPosition(ranked, pos)
		taken := map[int]bool{}
		picks := PositionPicks{Position: pos, Name: pos.String()}
		for _, s := range wildcardSlots[pos] {
			c, ok := fill(candidates, taken, s.maxPrice)
			if !ok {
				continue
			}
			taken[c.player.ID] = true
			picks.Players = append(picks.Players, TemplatePick{
				Player:   c.player.Ref(),
				Score:    round1(c.score),
				Reason:   s.reason,
				Priority: s.priority,
			})
			t.TotalCost += c.player.Price
		}
		t.Positions = append(t.Positions, picks)
	}
	return t
}

func fill(candidates []scored, taken map[int]bool, maxPrice int) (scored, bool) {
	if maxPrice > 0 {
		for _, c := range candidates {
			if !taken[c.player.ID] && c.player.Price <= maxPrice {
				return c, true
			}
		}
	}
	for _, c := range candidates {
		if !taken[c.player.ID] {
			return c, true
		}
	}
	return scored{}, false
}

// BenchBoostTemplate suggests the top three outside options per position
// for a bench boost week.
func BenchBoostTemplate(squad []enrich.Player, pool []fpl.Player, e *enrich.Enricher, gw int) Template {
	exclude := make(map[int]bool, len(squad))
	for _, p := range squad {
		exclude[p.ID] = true
	}
	ranked := rank(e.EnrichAll(eligible(pool, 90, exclude), gw), BenchBoostScore)

	t := Template{
		Chip:      BenchBoost,
		Gameweek:  gw,
		Formation: "N/A",
		Reasoning: "Focus on players with double gameweek fixtures and high expected minutes. Prioritize nailed starters.",
	}
	for _, pos := range fpl.Positions {
		picks := PositionPicks{Position: pos, Name: pos.String()}
		for i, c := range byPosition(ranked, pos) {
			if i == 3 {
				break
			}
			tp := TemplatePick{Player: c.player.Ref(), Score: round1(c.score), Reason: "Alternative option", Priority: Optional}
			if i == 0 {
				tp.Reason, tp.Priority = "Best double gameweek pick", Essential
			}
			picks.Players = append(picks.Players, tp)
		}
		t.Positions = append(t.Positions, picks)
	}
	return t
}

// FreeHitTemplate builds a one-week squad for gw targeting the easiest fixtures.
func FreeHitTemplate(pool []fpl.Player, e *enrich.Enricher, gw int) Template {
	ranked := rank(e.EnrichAll(eligible(pool, 90, nil), gw), FreeHitScore)

	t := Template{
		Chip:      FreeHit,
		Gameweek:  gw,
		Formation: "3-4-3",
		Reasoning: "Aggressive picks targeting the easiest fixtures this gameweek. Maximum attacking potential.",
	}
	for _, pos := range fpl.Positions {
		picks := PositionPicks{Position: pos, Name: pos.String()}
		for i, c := range byPosition(ranked, pos) {
			if i == squadQuota(pos) {
				break
			}
			prio := Recommended
			if i < 2 {
				prio = Essential
			}
			picks.Players = append(picks.Players, TemplatePick{
				Player:   c.player.Ref(),
				Score:    round1(c.score),
				Reason:   oneWeekReason(c.player, i),
				Priority: prio,
			})
			t.TotalCost += c.player.Price
		}
		t.Positions = append(t.Positions, picks)
	}
	return t
}

func oneWeekReason(p enrich.Player, i int) string {
	f, ok := p.NextFixture()
	switch {
	case !ok:
		return "Form pick"
	case f.Difficulty <= 2:
		return fmt.Sprintf("Easy fixture vs %s (%s)", f.Opponent.ShortName, f.Venue())
	case i == 0:
		return "Best in-form option"
	default:
		return "High ceiling pick"
	}
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
