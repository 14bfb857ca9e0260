package fpl

import (
	"math"
	"strconv"
	"strings"
)

type Position int

const (
	Goalkeeper Position = 1
	Defender   Position = 2
	Midfielder Position = 3
	Forward    Position = 4
)

// Positions lists every position in element_type order.
var Positions = []Position{Goalkeeper, Defender, Midfielder, Forward}

func (p Position) String() string {
	switch p {
	case Goalkeeper:
		return "Goalkeeper"
	case Defender:
		return "Defender"
	case Midfielder:
		return "Midfielder"
	case Forward:
		return "Forward"
	default:
		return "Unknown"
	}
}

func (p Position) Short() string {
	switch p {
	case Goalkeeper:
		return "GKP"
	case Defender:
		return "DEF"
	case Midfielder:
		return "MID"
	case Forward:
		return "FWD"
	default:
		return "UNK"
	}
}

// Attacking is true for midfielders and forwards.
func (p Position) Attacking() bool {
	return p == Midfielder || p == Forward
}

// ParsePosition accepts an element_type code or a short/long name.
func ParsePosition(s string) (Position, bool) {
	s = strings.TrimSpace(strings.ToUpper(s))
	switch s {
	case "1", "GK", "GKP", "GOALKEEPER":
		return Goalkeeper, true
	case "2", "DEF", "DEFENDER":
		return Defender, true
	case "3", "MID", "MIDFIELDER":
		return Midfielder, true
	case "4", "FWD", "FORWARD":
		return Forward, true
	default:
		return 0, false
	}
}

type Status int

const (
	StatusUnknown Status = iota
	StatusAvailable
	StatusDoubtful
	StatusInjured
	StatusSuspended
	StatusUnavailable
)

func ParseStatus(code string) Status {
	switch strings.TrimSpace(code) {
	case "a":
		return StatusAvailable
	case "d":
		return StatusDoubtful
	case "i":
		return StatusInjured
	case "s":
		return StatusSuspended
	case "u", "n":
		return StatusUnavailable
	default:
		return StatusUnknown
	}
}

func (s Status) String() string {
	switch s {
	case StatusAvailable:
		return "Available"
	case StatusDoubtful:
		return "Doubtful"
	case StatusInjured:
		return "Injured"
	case StatusSuspended:
		return "Suspended"
	case StatusUnavailable:
		return "Unavailable"
	default:
		return "Unknown"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(s.String())), nil
}

// Player is the strict numeric view of a RawPlayer.
type Player struct {
	ID              int      `json:"id"`
	Name            string   `json:"name"`
	FirstName       string   `json:"first_name"`
	SecondName      string   `json:"second_name"`
	TeamID          int      `json:"team_id"`
	Position        Position `json:"position"`
	Price           int      `json:"price"`
	TotalPoints     int      `json:"total_points"`
	Minutes         int      `json:"minutes"`
	Goals           int      `json:"goals"`
	Assists         int      `json:"assists"`
	CleanSheets     int      `json:"clean_sheets"`
	Bonus           int      `json:"bonus"`
	Form            float64  `json:"form"`
	PointsPerGame   float64  `json:"points_per_game"`
	ICT             float64  `json:"ict"`
	XG              float64  `json:"xg"`
	XA              float64  `json:"xa"`
	XGI             float64  `json:"xgi"`
	Ownership       float64  `json:"ownership"`
	EPNext          float64  `json:"ep_next"`
	Status          Status   `json:"status"`
	ChanceOfPlaying *int     `json:"chance_of_playing,omitempty"`
	News            string   `json:"news,omitempty"`
}

// Normalize parses the numeric-as-text fields. Anything missing or
// unparsable becomes 0.
func (r RawPlayer) Normalize() Player {
	name := r.WebName
	if name == "" {
		name = strings.TrimSpace(r.FirstName + " " + r.SecondName)
	}
	var ep float64
	if r.EPNext != nil {
		ep = ParseStat(*r.EPNext)
	}
	var chance *int
	if r.ChanceOfPlayingNextRound != nil {
		c := *r.ChanceOfPlayingNextRound
		chance = &c
	}
	return Player{
		ID:              r.ID,
		Name:            name,
		FirstName:       r.FirstName,
		SecondName:      r.SecondName,
		TeamID:          r.Team,
		Position:        Position(r.ElementType),
		Price:           r.NowCost,
		TotalPoints:     r.TotalPoints,
		Minutes:         r.Minutes,
		Goals:           r.GoalsScored,
		Assists:         r.Assists,
		CleanSheets:     r.CleanSheets,
		Bonus:           r.Bonus,
		Form:            ParseStat(r.Form),
		PointsPerGame:   ParseStat(r.PointsPerGame),
		ICT:             ParseStat(r.ICTIndex),
		XG:              ParseStat(r.ExpectedGoals),
		XA:              ParseStat(r.ExpectedAssists),
		XGI:             ParseStat(r.ExpectedGoalInvolvements),
		Ownership:       ParseStat(r.SelectedByPercent),
		EPNext:          ep,
		Status:          ParseStatus(r.Status),
		ChanceOfPlaying: chance,
		News:            r.News,
	}
}

// NormalizeAll converts every element of a bootstrap payload.
func NormalizeAll(raw []RawPlayer) []Player {
	out := make([]Player, 0, len(raw))
	for _, r := range raw {
		out = append(out, r.Normalize())
	}
	return out
}

// ParseStat parses an upstream numeric string. NaN and infinities are 0.
func ParseStat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// PriceM is the price in millions.
func (p Player) PriceM() float64 {
	return float64(p.Price) / 10
}

func (p Player) Available() bool {
	return p.Status == StatusAvailable
}

// Chance returns the chance of playing and whether upstream supplied one.
func (p Player) Chance() (int, bool) {
	if p.ChanceOfPlaying == nil {
		return 0, false
	}
	return *p.ChanceOfPlaying, true
}

// Doubtful is true when the player is not available or has a published
// chance of playing below 75.
func (p Player) Doubtful() bool {
	if !p.Available() {
		return true
	}
	c, ok := p.Chance()
	return ok && c < 75
}

// InjuryRisk is 0 (fit) .. 1 (certain to miss).
func (p Player) InjuryRisk() float64 {
	if c, ok := p.Chance(); ok {
		return float64(100-c) / 100
	}
	if !p.Available() {
		return 1
	}
	return 0
}
