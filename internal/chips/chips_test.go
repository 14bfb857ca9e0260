package chips

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fplmate/fplmate/internal/enrich"
	"github.com/fplmate/fplmate/internal/fpl"
)

func gwp(n int) *int { return &n }

func events(n int) []fpl.Gameweek {
	out := make([]fpl.Gameweek, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, fpl.Gameweek{ID: i})
	}
	return out
}

func squadPlayer(id, team int, form float64) enrich.Player {
	return enrich.Player{Player: fpl.Player{ID: id, TeamID: team, Form: form, Position: fpl.Midfielder, Status: fpl.StatusAvailable}}
}

func xi(form float64) []enrich.Player {
	out := make([]enrich.Player, 0, 11)
	for i := 1; i <= 11; i++ {
		out = append(out, squadPlayer(i, i, form))
	}
	return out
}

// fullRound gives every team 1..20 one fixture in gw with the given difficulty.
func fullRound(gw, difficulty int) []fpl.Fixture {
	var out []fpl.Fixture
	for h := 1; h <= 20; h += 2 {
		out = append(out, fpl.Fixture{ID: gw*100 + h, Event: gwp(gw), TeamH: h, TeamA: h + 1, TeamHDifficulty: difficulty, TeamADifficulty: difficulty})
	}
	return out
}

func byChip(recs []Recommendation, c Chip) Recommendation {
	for _, r := range recs {
		if r.Chip == c {
			return r
		}
	}
	return Recommendation{}
}

func TestRecommend_FourChipsInOrder(t *testing.T) {
	recs := Recommend(Input{Starting: xi(5), Gameweeks: events(38), CurrentGW: 10})
	require.Len(t, recs, 4)
	for i, c := range All {
		assert.Equal(t, c, recs[i].Chip)
	}
}

func TestWildcard_FirstHalfPoorForm(t *testing.T) {
	starting := xi(5)
	for i := 0; i < 4; i++ {
		starting[i].Form = 2
	}
	rec := byChip(Recommend(Input{Starting: starting, Gameweeks: events(38), CurrentGW: 10}), Wildcard)

	assert.True(t, rec.Available)
	assert.False(t, rec.AlreadyUsed)
	assert.Equal(t, PriorityHigh, rec.Priority)
	require.NotNil(t, rec.RecommendedGameweek)
	assert.Equal(t, 10, *rec.RecommendedGameweek)
	assert.Equal(t, "First half wildcard expires after GW19.", rec.SeasonContext)
}

func TestWildcard_Quota(t *testing.T) {
	one := []fpl.ChipUsage{{Name: "wildcard", Event: 8}}
	two := append(one, fpl.ChipUsage{Name: "wildcard", Event: 24})

	tests := []struct {
		name    string
		history []fpl.ChipUsage
		gw      int
		want    bool
	}{
		{"fresh first half", nil, 10, true},
		{"used first half", one, 15, false},
		{"used first half, second half opens", one, 20, true},
		{"both used", two, 30, false},
		{"unused first half carries", nil, 25, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WildcardAvailable(tt.history, tt.gw))
		})
	}

	rec := byChip(Recommend(Input{Starting: xi(5), Gameweeks: events(38), History: one, CurrentGW: 12}), Wildcard)
	assert.True(t, rec.AlreadyUsed)
	assert.Equal(t, PriorityNone, rec.Priority)
	require.NotNil(t, rec.UsedInGameweek)
	assert.Equal(t, 8, *rec.UsedInGameweek)
}

func TestWildcard_LateSeason(t *testing.T) {
	rec := byChip(Recommend(Input{Starting: xi(5), Gameweeks: events(38), CurrentGW: 34}), Wildcard)
	assert.Equal(t, PriorityMedium, rec.Priority)
	assert.Equal(t, "4 GWs remaining - consider using soon.", rec.SeasonContext)
}

func TestFreeHit_Blank(t *testing.T) {
	// GW 11 has fixtures only for teams 1..6, so teams 7..11 blank.
	var fixtures []fpl.Fixture
	fixtures = append(fixtures, fullRound(10, 3)...)
	for h := 1; h <= 6; h += 2 {
		fixtures = append(fixtures, fpl.Fixture{ID: 1100 + h, Event: gwp(11), TeamH: h, TeamA: h + 1, TeamHDifficulty: 3, TeamADifficulty: 3})
	}
	rec := byChip(Recommend(Input{Starting: xi(5), Gameweeks: events(38), Fixtures: fixtures, CurrentGW: 10}), FreeHit)

	assert.Equal(t, PriorityHigh, rec.Priority)
	require.NotNil(t, rec.RecommendedGameweek)
	assert.Equal(t, 11, *rec.RecommendedGameweek)
}

func TestFreeHit_Swing(t *testing.T) {
	var fixtures []fpl.Fixture
	for gw := 10; gw < 16; gw++ {
		d := 3
		if gw == 12 {
			d = 5
		}
		fixtures = append(fixtures, fullRound(gw, d)...)
	}
	rec := byChip(Recommend(Input{Starting: xi(5), Gameweeks: events(38), Fixtures: fixtures, CurrentGW: 10}), FreeHit)
	assert.Equal(t, PriorityMedium, rec.Priority)
	require.NotNil(t, rec.RecommendedGameweek)
	assert.Equal(t, 12, *rec.RecommendedGameweek)
}

func TestFreeHit_Used(t *testing.T) {
	rec := byChip(Recommend(Input{
		Starting: xi(5), Gameweeks: events(38), CurrentGW: 10,
		History: []fpl.ChipUsage{{Name: "freehit", Event: 4}},
	}), FreeHit)
	assert.False(t, rec.Available)
	assert.True(t, rec.AlreadyUsed)
	assert.Equal(t, "Free Hit already used in GW4.", rec.Reason)
	assert.Nil(t, rec.RecommendedGameweek)
}

func TestBenchBoost(t *testing.T) {
	bench := []enrich.Player{squadPlayer(20, 15, 3.5), squadPlayer(21, 16, 3.5)}
	fixtures := fullRound(10, 3)
	// team 1 (a starter's team) doubles in GW 11
	fixtures = append(fixtures, fullRound(11, 3)...)
	fixtures = append(fixtures, fpl.Fixture{ID: 9999, Event: gwp(11), TeamH: 1, TeamA: 3})

	rec := byChip(Recommend(Input{Starting: xi(5), Bench: bench, Gameweeks: events(38), Fixtures: fixtures, CurrentGW: 10}), BenchBoost)
	assert.Equal(t, PriorityHigh, rec.Priority)
	require.NotNil(t, rec.RecommendedGameweek)
	assert.Equal(t, 11, *rec.RecommendedGameweek)

	weak := []enrich.Player{squadPlayer(20, 15, 1), squadPlayer(21, 16, 1)}
	rec = byChip(Recommend(Input{Starting: xi(5), Bench: weak, Gameweeks: events(38), Fixtures: fixtures, CurrentGW: 10}), BenchBoost)
	assert.Equal(t, PriorityLow, rec.Priority)

	strong := []enrich.Player{squadPlayer(20, 15, 5), squadPlayer(21, 16, 5)}
	rec = byChip(Recommend(Input{Starting: xi(5), Bench: strong, Gameweeks: events(38), CurrentGW: 10}), BenchBoost)
	assert.Equal(t, PriorityMedium, rec.Priority)
	assert.Equal(t, 10, *rec.RecommendedGameweek)
}

func TestTripleCaptain(t *testing.T) {
	starting := xi(3)
	starting[0].Price = 130
	starting[0].Form = 8
	starting[0].PointsPerGame = 7
	starting[0].Position = fpl.Forward
	starting[0].Name = "Haaland"
	starting[0].Upcoming = []enrich.FixtureDetail{
		{Gameweek: 10, Difficulty: 4},
		{Gameweek: 11, Difficulty: 2, IsHome: true},
	}

	best, ok := BestTripleCaptain(starting, 10)
	require.True(t, ok)
	assert.Equal(t, 11, best.Gameweek)
	// 16 + 10.5 + 6 + 1
	assert.InDelta(t, 33.5, best.Score, 1e-9)

	rec := byChip(Recommend(Input{Starting: starting, Gameweeks: events(38), CurrentGW: 10}), TripleCaptain)
	assert.Equal(t, PriorityHigh, rec.Priority)
	assert.Contains(t, rec.Reason, "Haaland in GW11")

	rec = byChip(Recommend(Input{Starting: xi(3), Gameweeks: events(38), CurrentGW: 10}), TripleCaptain)
	assert.Equal(t, PriorityLow, rec.Priority)
	assert.Equal(t, "No premium captaincy options identified.", rec.Reason)
}

func TestLateSeasonFallsToMedium(t *testing.T) {
	var fixtures []fpl.Fixture
	for gw := 32; gw <= 38; gw++ {
		fixtures = append(fixtures, fullRound(gw, 3)...)
	}
	recs := Recommend(Input{
		Starting:  xi(3),
		Bench:     []enrich.Player{squadPlayer(20, 15, 1)},
		Gameweeks: events(38),
		Fixtures:  fixtures,
		CurrentGW: 32,
	})
	fh := byChip(recs, FreeHit)
	assert.Equal(t, PriorityMedium, fh.Priority)
	assert.Nil(t, fh.RecommendedGameweek)
	bb := byChip(recs, BenchBoost)
	assert.Equal(t, PriorityMedium, bb.Priority)
	assert.Nil(t, bb.RecommendedGameweek)
}

func TestAvailableChips(t *testing.T) {
	history := []fpl.ChipUsage{{Name: "bboost", Event: 3}, {Name: "wildcard", Event: 5}}
	assert.Equal(t, []Chip{FreeHit, TripleCaptain}, AvailableChips(history, 10))
	assert.Equal(t, []Chip{Wildcard, FreeHit, TripleCaptain}, AvailableChips(history, 21))
}

func TestParseChip(t *testing.T) {
	for in, want := range map[string]Chip{"3xc": TripleCaptain, "bboost": BenchBoost, "Free_Hit": FreeHit, "wildcard": Wildcard} {
		got, ok := ParseChip(in)
		require.True(t, ok, in)
		assert.Equal(t, want, got)
	}
	_, ok := ParseChip("chip")
	assert.False(t, ok)
	assert.Equal(t, "Triple Captain", TripleCaptain.DisplayName())
	assert.Equal(t, "3xc", TripleCaptain.Code())
}
