// Package seasonstats turns a manager's season history into headline
// records and comparisons.
package seasonstats

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/fplmate/fplmate/internal/chips"
	"github.com/fplmate/fplmate/internal/fpl"
)

type Kind int

const (
	Achievement Kind = iota
	Record
	Comparison
	Fun
)

func (k Kind) String() string {
	switch k {
	case Achievement:
		return "achievement"
	case Record:
		return "record"
	case Comparison:
		return "comparison"
	case Fun:
		return "fun"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Stat is one headline figure. Positive is nil when the figure is neutral.
type Stat struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	Value      string `json:"value"`
	Comparison string `json:"comparison,omitempty"`
	Kind       Kind   `json:"type"`
	Positive   *bool  `json:"is_positive,omitempty"`
}

type Input struct {
	Entry     fpl.Entry
	History   fpl.EntryHistory
	Gameweeks []fpl.Gameweek
	Squad     []fpl.Player
}

var printer = message.NewPrinter(language.English)

func flag(v bool) *bool { return &v }

// Calculate returns the season stats in display order. A manager with no
// gameweek history gets none.
func Calculate(in Input) []Stat {
	rows := in.History.Current
	if len(rows) == 0 {
		return nil
	}
	var out []Stat

	best, worst := rows[0], rows[0]
	var bench, hits, transfers int
	for _, r := range rows {
		if r.Points > best.Points {
			best = r
		}
		if r.Points < worst.Points {
			worst = r
		}
		bench += r.PointsOnBench
		hits += r.EventTransfersCost
		transfers += r.EventTransfers
	}

	out = append(out,
		Stat{
			ID: "best_gw", Label: "Best Gameweek", Kind: Record, Positive: flag(true),
			Value:      fmt.Sprintf("%d pts", best.Points),
			Comparison: fmt.Sprintf("GW%d - Ranked %s", best.Event, rankText(best.Rank)),
		},
		Stat{
			ID: "worst_gw", Label: "Worst Gameweek", Kind: Record, Positive: flag(false),
			Value:      fmt.Sprintf("%d pts", worst.Points),
			Comparison: fmt.Sprintf("GW%d", worst.Event),
		},
		benchStat(bench),
		hitsStat(hits),
		Stat{
			ID: "total_transfers", Label: "Transfers Made", Kind: Comparison,
			Value:      fmt.Sprintf("%d", transfers),
			Comparison: fmt.Sprintf("%.1f per GW average", float64(transfers)/float64(len(rows))),
		},
	)
	out = append(out, rankStats(rows)...)
	out = append(out, teamValueStat(in.Entry.LastDeadlineValue), chipsStat(in.History.Chips))
	out = append(out, ownershipStats(in.Squad)...)
	out = append(out, versusAverage(in.Entry.SummaryOverallPoints, in.Gameweeks))
	return out
}

func rankText(rank int) string {
	if rank <= 0 {
		return "N/A"
	}
	return printer.Sprintf("%d", rank)
}

func benchStat(points int) Stat {
	s := Stat{
		ID: "bench_points", Label: "Points Left on Bench", Kind: Fun,
		Value:      fmt.Sprintf("%d pts", points),
		Comparison: "Good bench management",
		Positive:   flag(points < 30),
	}
	if points > 50 {
		s.Comparison = "Ouch! Consider bench boost"
	}
	return s
}

func hitsStat(cost int) Stat {
	s := Stat{
		ID: "hits_taken", Label: "Transfer Hits Taken", Kind: Comparison,
		Value:      fmt.Sprintf("-%d pts", cost),
		Comparison: "Perfect patience!",
		Positive:   flag(cost <= 8),
	}
	if cost != 0 {
		s.Comparison = fmt.Sprintf("%d extra transfers", cost/4)
	}
	return s
}

// rankStats covers overall rank movement. Rows with no overall rank count as
// rank 0 for arrows, matching how upstream reports unranked weeks.
func rankStats(rows []fpl.EventHistory) []Stat {
	first, last := rows[0].OverallRank, rows[len(rows)-1].OverallRank
	change := first - last
	value := printer.Sprintf("%d", change)
	if change > 0 {
		value = "+" + value
	}

	bestRank := 0
	for _, r := range rows {
		if r.OverallRank > 0 && (bestRank == 0 || r.OverallRank < bestRank) {
			bestRank = r.OverallRank
		}
	}

	arrows, streak, longest := 0, 0, 0
	for i := 1; i < len(rows); i++ {
		if rows[i].OverallRank < rows[i-1].OverallRank {
			arrows++
			streak++
			longest = max(longest, streak)
		} else {
			streak = 0
		}
	}

	return []Stat{
		{
			ID: "rank_progress", Label: "Rank Progression", Kind: Comparison,
			Value:      value,
			Comparison: printer.Sprintf("From %d to %d", first, last),
			Positive:   flag(change > 0),
		},
		{
			ID: "best_rank", Label: "Best Overall Rank", Kind: Achievement,
			Value:      rankText(bestRank),
			Comparison: "Season high",
			Positive:   flag(true),
		},
		{
			ID: "green_arrows", Label: "Green Arrows", Kind: Achievement,
			Value:      fmt.Sprintf("%d", arrows),
			Comparison: fmt.Sprintf("Longest streak: %d GWs", longest),
			Positive:   flag(float64(arrows) > float64(len(rows))/2),
		},
	}
}

// teamValueStat reports squad value against the 100.0m starting budget.
func teamValueStat(value int) Stat {
	m := float64(value) / 10
	s := Stat{
		ID: "team_value", Label: "Team Value", Kind: Comparison,
		Value:    fmt.Sprintf("£%.1fm", m),
		Positive: flag(m > 100),
	}
	if m > 102 {
		s.Comparison = "Above starting budget!"
	} else {
		s.Comparison = fmt.Sprintf("£%.1fm profit", m-100)
	}
	return s
}

func chipsStat(used []fpl.ChipUsage) Stat {
	value := "None"
	if len(used) > 0 {
		names := make([]string, 0, len(used))
		for _, u := range used {
			names = append(names, chipAbbrev(u.Name))
		}
		value = strings.Join(names, ", ")
	}
	return Stat{
		ID: "chips_used", Label: "Chips Used", Kind: Fun,
		Value:      value,
		Comparison: fmt.Sprintf("%d chips remaining", max(len(chips.All)-len(used), 0)),
	}
}

func chipAbbrev(code string) string {
	c, ok := chips.ParseChip(code)
	if !ok {
		return code
	}
	switch c {
	case chips.Wildcard:
		return "WC"
	case chips.FreeHit:
		return "FH"
	case chips.BenchBoost:
		return "BB"
	case chips.TripleCaptain:
		return "TC"
	}
	return code
}

func ownershipStats(squad []fpl.Player) []Stat {
	if len(squad) == 0 {
		return nil
	}
	most, least := squad[0], squad[0]
	var sum float64
	for _, p := range squad {
		sum += p.Ownership
		if p.Ownership > most.Ownership {
			most = p
		}
		if p.Ownership < least.Ownership {
			least = p
		}
	}
	avg := sum / float64(len(squad))
	mix := "Balanced mix"
	switch {
	case avg > 25:
		mix = "Template squad"
	case avg < 15:
		mix = "Differential heavy"
	}
	return []Stat{
		{
			ID: "avg_ownership", Label: "Squad Avg Ownership", Kind: Comparison,
			Value:      fmt.Sprintf("%.1f%%", avg),
			Comparison: mix,
		},
		{
			ID: "most_owned", Label: "Most Owned Player", Kind: Fun,
			Value:      most.Name,
			Comparison: fmt.Sprintf("%.1f%% ownership", most.Ownership),
		},
		{
			ID: "biggest_diff", Label: "Biggest Differential", Kind: Fun,
			Value:      least.Name,
			Comparison: fmt.Sprintf("Only %.1f%% own", least.Ownership),
		},
	}
}

// versusAverage compares season points with the sum of finished gameweek
// averages.
func versusAverage(total int, events []fpl.Gameweek) Stat {
	avg := 0
	for _, e := range events {
		if e.Finished {
			avg += e.AverageEntryScore
		}
	}
	diff := total - avg
	s := Stat{
		ID: "vs_average", Label: "vs Average Manager", Kind: Comparison,
		Value:      fmt.Sprintf("%d", diff),
		Comparison: "Below average",
		Positive:   flag(diff > 0),
	}
	if diff > 0 {
		s.Value = fmt.Sprintf("+%d", diff)
		s.Comparison = "Above average!"
	}
	return s
}

// Find returns the stat with id, if present.
func Find(stats []Stat, id string) (Stat, bool) {
	for _, s := range stats {
		if s.ID == id {
			return s, true
		}
	}
	return Stat{}, false
}
