package seasonstats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fplmate/fplmate/internal/fpl"
)

func sampleInput() Input {
	return Input{
		Entry: fpl.Entry{SummaryOverallPoints: 250, LastDeadlineValue: 1015},
		History: fpl.EntryHistory{
			Current: []fpl.EventHistory{
				{Event: 1, Points: 60, Rank: 1500000, OverallRank: 2000000, PointsOnBench: 10, EventTransfers: 0},
				{Event: 2, Points: 85, Rank: 120000, OverallRank: 900000, PointsOnBench: 25, EventTransfers: 2, EventTransfersCost: 4},
				{Event: 3, Points: 40, Rank: 5000000, OverallRank: 1100000, PointsOnBench: 20, EventTransfers: 1},
				{Event: 4, Points: 70, Rank: 400000, OverallRank: 750000, PointsOnBench: 0, EventTransfers: 1},
			},
			Chips: []fpl.ChipUsage{{Name: "wildcard", Event: 3}, {Name: "3xc", Event: 4}},
		},
		Gameweeks: []fpl.Gameweek{
			{ID: 1, Finished: true, AverageEntryScore: 55},
			{ID: 2, Finished: true, AverageEntryScore: 60},
			{ID: 3, Finished: true, AverageEntryScore: 45},
			{ID: 4, Finished: true, AverageEntryScore: 50},
			{ID: 5, AverageEntryScore: 99},
		},
		Squad: []fpl.Player{
			{Name: "Salah", Ownership: 60.2},
			{Name: "Mbeumo", Ownership: 20},
			{Name: "Wissa", Ownership: 2.4},
		},
	}
}

func TestCalculate_Empty(t *testing.T) {
	assert.Empty(t, Calculate(Input{}))
}

func TestCalculate(t *testing.T) {
	stats := Calculate(sampleInput())

	tests := []struct {
		id, value, comparison string
		positive              *bool
	}{
		{"best_gw", "85 pts", "GW2 - Ranked 120,000", flag(true)},
		{"worst_gw", "40 pts", "GW3", flag(false)},
		{"bench_points", "55 pts", "Ouch! Consider bench boost", flag(false)},
		{"hits_taken", "-4 pts", "1 extra transfers", flag(true)},
		{"total_transfers", "4", "1.0 per GW average", nil},
		{"rank_progress", "+1,250,000", "From 2,000,000 to 750,000", flag(true)},
		{"best_rank", "750,000", "Season high", flag(true)},
		{"green_arrows", "2", "Longest streak: 1 GWs", flag(false)},
		{"team_value", "£101.5m", "£1.5m profit", flag(true)},
		{"chips_used", "WC, TC", "2 chips remaining", nil},
		{"avg_ownership", "27.5%", "Template squad", nil},
		{"most_owned", "Salah", "60.2% ownership", nil},
		{"biggest_diff", "Wissa", "Only 2.4% own", nil},
		{"vs_average", "+40", "Above average!", flag(true)},
	}
	require.Len(t, stats, len(tests))
	for i, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			s := stats[i]
			assert.Equal(t, tt.id, s.ID)
			assert.Equal(t, tt.value, s.Value)
			assert.Equal(t, tt.comparison, s.Comparison)
			assert.Equal(t, tt.positive, s.Positive)
		})
	}
}

func TestCalculate_NoSquadSkipsOwnership(t *testing.T) {
	in := sampleInput()
	in.Squad = nil
	stats := Calculate(in)
	_, ok := Find(stats, "avg_ownership")
	assert.False(t, ok)
	_, ok = Find(stats, "vs_average")
	assert.True(t, ok)
}

func TestRankStats_Unranked(t *testing.T) {
	stats := rankStats([]fpl.EventHistory{{Event: 1}, {Event: 2}})
	best, ok := Find(stats, "best_rank")
	require.True(t, ok)
	assert.Equal(t, "N/A", best.Value)
	prog, _ := Find(stats, "rank_progress")
	assert.Equal(t, "0", prog.Value)
	assert.False(t, *prog.Positive)
}

func TestVersusAverage_Below(t *testing.T) {
	s := versusAverage(100, []fpl.Gameweek{{Finished: true, AverageEntryScore: 130}})
	assert.Equal(t, "-30", s.Value)
	assert.Equal(t, "Below average", s.Comparison)
}
