package differentials

import (
	"fmt"
	"sort"

	"github.com/fplmate/fplmate/internal/enrich"
	"github.com/fplmate/fplmate/internal/fpl"
)

// Limit caps the number of options returned.
const Limit = 10

type Category int

const (
	Ultra Category = iota
	Low
	Moderate
	Value
)

func (c Category) String() string {
	switch c {
	case Ultra:
		return "ultra"
	case Low:
		return "low"
	case Moderate:
		return "moderate"
	case Value:
		return "value"
	}
	return fmt.Sprintf("category(%d)", int(c))
}

func (c Category) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func Categorize(ownership float64) Category {
	switch {
	case ownership <= 5:
		return Ultra
	case ownership <= 10:
		return Low
	case ownership <= 20:
		return Moderate
	default:
		return Value
	}
}

type Option struct {
	Player            enrich.Ref `json:"player"`
	Score             float64    `json:"score"`
	Category          Category   `json:"category"`
	KeyReason         string     `json:"key_reason"`
	Ownership         float64    `json:"ownership"`
	FixtureDifficulty float64    `json:"fixture_difficulty"`
}

// Query selects the position and ownership ceiling. Bank is in tenths.
type Query struct {
	Position     fpl.Position
	MaxOwnership float64
	CurrentGW    int
	Bank         int
}

// DefaultMaxOwnership is the widest ownership filter offered.
const DefaultMaxOwnership = 30

// minPriceCeiling floors the squad's max price so empty positions still
// return options.
const minPriceCeiling = 40

// Find ranks low-owned players at q.Position that the squad could afford.
// The price ceiling is the dearest squad player at the position plus bank
// plus a 1.0m tolerance.
func Find(q Query, pool []fpl.Player, squad []enrich.Player, e *enrich.Enricher) []Option {
	ceiling := minPriceCeiling
	inSquad := make(map[int]bool, len(squad))
	for _, p := range squad {
		inSquad[p.ID] = true
		if p.Position == q.Position && p.Price > ceiling {
			ceiling = p.Price
		}
	}
	limit := ceiling + q.Bank + 10

	var out []Option
	for _, raw := range pool {
		if raw.Position != q.Position || raw.Price > limit || inSquad[raw.ID] {
			continue
		}
		if !raw.Available() || raw.Minutes <= 180 || raw.Ownership > q.MaxOwnership {
			continue
		}
		p := e.Enrich(raw, q.CurrentGW)
		avg := p.AvgDifficulty(3)
		out = append(out, Option{
			Player:            p.Ref(),
			Score:             Score(p, q.MaxOwnership),
			Category:          Categorize(p.Ownership),
			KeyReason:         KeyReason(p),
			Ownership:         p.Ownership,
			FixtureDifficulty: avg,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Player.ID < out[j].Player.ID
	})
	if len(out) > Limit {
		out = out[:Limit]
	}
	return out
}

// Score weighs form heavily, then ppg, fixtures, headroom under the ownership
// ceiling and, for attackers, xGI.
func Score(p enrich.Player, maxOwnership float64) float64 {
	score := p.Form*15 + p.PointsPerGame*8
	score += (5 - p.AvgDifficulty(3)) * 10
	score += (maxOwnership - p.Ownership) * 0.3
	if p.Position.Attacking() {
		score += p.XGI * 5
	}
	return score
}

func KeyReason(p enrich.Player) string {
	switch {
	case p.Form >= 6:
		return "Excellent form"
	case p.Form >= 5:
		return "Strong form"
	case p.AvgDifficulty(3) <= 2.5:
		return "Great fixtures ahead"
	case p.PointsPerGame >= 5:
		return "Reliable points"
	case p.XGI > 3:
		return fmt.Sprintf("High xGI (%.1f)", p.XGI)
	case p.Ownership < 5:
		return "Under the radar"
	default:
		return "Balanced option"
	}
}

type OwnershipBand int

const (
	BandDifferential OwnershipBand = iota
	BandModerate
	BandPopular
	BandTemplate
)

func (b OwnershipBand) String() string {
	switch b {
	case BandDifferential:
		return "differential"
	case BandModerate:
		return "moderate"
	case BandPopular:
		return "popular"
	case BandTemplate:
		return "template"
	}
	return fmt.Sprintf("band(%d)", int(b))
}

func (b OwnershipBand) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

func Band(ownership float64) OwnershipBand {
	switch {
	case ownership > 25:
		return BandTemplate
	case ownership > 15:
		return BandPopular
	case ownership > 8:
		return BandModerate
	default:
		return BandDifferential
	}
}

// EdgeInfo describes how a squad player's ownership shapes rank movement.
// HasEdge flags a popular player out of form, the spot where a differential
// swap gains the most.
type EdgeInfo struct {
	PlayerID  int           `json:"player_id"`
	Ownership float64       `json:"ownership"`
	Band      OwnershipBand `json:"ownership_category"`
	HasEdge   bool          `json:"has_edge"`
}

func Edge(p enrich.Player) EdgeInfo {
	return EdgeInfo{
		PlayerID:  p.ID,
		Ownership: p.Ownership,
		Band:      Band(p.Ownership),
		HasEdge:   (p.Ownership > 20 && p.Form < 4) || (p.Ownership > 15 && p.Form < 3),
	}
}

func SquadEdges(squad []enrich.Player) []EdgeInfo {
	out := make([]EdgeInfo, 0, len(squad))
	for _, p := range squad {
		out = append(out, Edge(p))
	}
	return out
}

type Ownership struct {
	Average   float64 `json:"average_ownership"`
	HighOwned int     `json:"high_owned"`
}

// SquadOwnership averages ownership and counts template (> 25%) players.
func SquadOwnership(squad []enrich.Player) Ownership {
	if len(squad) == 0 {
		return Ownership{}
	}
	var out Ownership
	for _, p := range squad {
		out.Average += p.Ownership
		if p.Ownership > 25 {
			out.HighOwned++
		}
	}
	out.Average /= float64(len(squad))
	return out
}
