package fpl

import "sort"

const DefaultSeasonLength = 38

// Upstream chip identifiers as they appear in entry history.
const (
	ChipWildcard      = "wildcard"
	ChipFreeHit       = "freehit"
	ChipBenchBoost    = "bboost"
	ChipTripleCaptain = "3xc"
)

// CurrentGameweek returns the current event, falling back to the next one.
func CurrentGameweek(events []Gameweek) *Gameweek {
	for i := range events {
		if events[i].IsCurrent {
			return &events[i]
		}
	}
	for i := range events {
		if events[i].IsNext {
			return &events[i]
		}
	}
	return nil
}

// NextGameweeks returns up to count events starting at the current one.
func NextGameweeks(events []Gameweek, count int) []Gameweek {
	cur := CurrentGameweek(events)
	if cur == nil {
		return nil
	}
	return GameweeksInWindow(events, cur.ID, count)
}

// GameweeksInWindow returns events with id in [from, from+count), sorted by id.
func GameweeksInWindow(events []Gameweek, from, count int) []Gameweek {
	if count <= 0 {
		return nil
	}
	out := make([]Gameweek, 0, count)
	for _, e := range events {
		if e.ID >= from && e.ID < from+count {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SeasonLength is the highest event id, or DefaultSeasonLength when events is empty.
func SeasonLength(events []Gameweek) int {
	max := 0
	for _, e := range events {
		if e.ID > max {
			max = e.ID
		}
	}
	if max == 0 {
		return DefaultSeasonLength
	}
	return max
}

// TeamIndex maps team id to team.
func TeamIndex(teams []Team) map[int]Team {
	out := make(map[int]Team, len(teams))
	for _, t := range teams {
		out[t.ID] = t
	}
	return out
}

// PlayerIndex maps element id to player.
func PlayerIndex(players []Player) map[int]Player {
	out := make(map[int]Player, len(players))
	for _, p := range players {
		out[p.ID] = p
	}
	return out
}
