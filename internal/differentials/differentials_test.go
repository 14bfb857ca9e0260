package differentials

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fplmate/fplmate/internal/enrich"
	"github.com/fplmate/fplmate/internal/fpl"
)

func gwp(n int) *int { return &n }

func testEnricher() *enrich.Enricher {
	return enrich.NewEnricher(
		[]fpl.Team{{ID: 1, ShortName: "ARS"}, {ID: 2, ShortName: "BOU"}},
		[]fpl.Fixture{{ID: 1, Event: gwp(10), TeamH: 1, TeamA: 2, TeamHDifficulty: 2, TeamADifficulty: 4}},
	)
}

func mid(id int, price int, own, form float64) fpl.Player {
	return fpl.Player{
		ID: id, TeamID: 2, Position: fpl.Midfielder, Price: price,
		Ownership: own, Form: form, PointsPerGame: 4, Minutes: 1000, Status: fpl.StatusAvailable,
	}
}

func TestFind_ScenarioUltraDifferential(t *testing.T) {
	p := fpl.Player{
		ID: 7, TeamID: 1, Position: fpl.Midfielder, Price: 65,
		Ownership: 3.2, Form: 6, PointsPerGame: 5, XGI: 2, Minutes: 1000, Status: fpl.StatusAvailable,
	}
	// the squad's priciest midfielder sets the price limit to 6.5 + 0 + 1.0
	squad := []enrich.Player{{Player: fpl.Player{ID: 1, Position: fpl.Midfielder, Price: 65}}}
	got := Find(Query{Position: fpl.Midfielder, MaxOwnership: 20, CurrentGW: 10}, []fpl.Player{p}, squad, testEnricher())

	require.Len(t, got, 1)
	want := 6.0*15 + 5*8 + (5-2)*10 + (20-3.2)*0.3 + 2*5
	assert.InDelta(t, want, got[0].Score, 1e-9)
	assert.Equal(t, Ultra, got[0].Category)
	assert.Equal(t, "Excellent form", got[0].KeyReason)
}

func TestFind_FilterCorrectness(t *testing.T) {
	squad := []enrich.Player{
		{Player: fpl.Player{ID: 1, Position: fpl.Midfielder, Price: 80}},
		{Player: fpl.Player{ID: 2, Position: fpl.Forward, Price: 140}},
	}
	injured := mid(13, 60, 2, 5)
	injured.Status = fpl.StatusInjured
	benchwarmer := mid(14, 60, 2, 5)
	benchwarmer.Minutes = 180
	pool := []fpl.Player{
		mid(1, 60, 2, 9),    // in squad
		mid(10, 60, 8, 5),   // ok
		mid(11, 60, 25, 5),  // over ownership
		mid(12, 101, 5, 5),  // over 8.0 + 1.0 + 1.0
		mid(15, 100, 19, 4), // ok at the limit
		injured,
		benchwarmer,
		{ID: 16, Position: fpl.Forward, Price: 60, Ownership: 1, Minutes: 1000, Status: fpl.StatusAvailable},
	}
	q := Query{Position: fpl.Midfielder, MaxOwnership: 20, CurrentGW: 10, Bank: 10}

	got := Find(q, pool, squad, testEnricher())
	require.Len(t, got, 2)
	for _, o := range got {
		assert.LessOrEqual(t, o.Ownership, q.MaxOwnership)
		assert.NotEqual(t, 1, o.Player.ID)
	}
	assert.Equal(t, 10, got[0].Player.ID)
	assert.Equal(t, Moderate, got[1].Category)
}

func TestFind_EmptyPositionUsesFloor(t *testing.T) {
	pool := []fpl.Player{mid(10, 50, 5, 5), mid(11, 51, 5, 5)}
	got := Find(Query{Position: fpl.Midfielder, MaxOwnership: 30, CurrentGW: 10}, pool, nil, testEnricher())
	require.Len(t, got, 1)
	assert.Equal(t, 10, got[0].Player.ID)
}

func TestFind_TopTenSorted(t *testing.T) {
	var pool []fpl.Player
	for i := 0; i < 15; i++ {
		pool = append(pool, mid(100+i, 50, 5, float64(i%7)))
	}
	got := Find(Query{Position: fpl.Midfielder, MaxOwnership: 30, CurrentGW: 10}, pool, nil, testEnricher())
	require.Len(t, got, Limit)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Score, got[i].Score)
	}
}

func TestCategorizeAndReason(t *testing.T) {
	assert.Equal(t, Ultra, Categorize(5))
	assert.Equal(t, Low, Categorize(10))
	assert.Equal(t, Moderate, Categorize(20))
	assert.Equal(t, Value, Categorize(20.1))

	base := enrich.Player{Player: fpl.Player{Ownership: 12}}
	tests := []struct {
		name string
		mod  func(p *enrich.Player)
		want string
	}{
		{"strong form", func(p *enrich.Player) { p.Form = 5 }, "Strong form"},
		{"fixtures", func(p *enrich.Player) { p.Upcoming = []enrich.FixtureDetail{{Difficulty: 2}} }, "Great fixtures ahead"},
		{"ppg", func(p *enrich.Player) { p.PointsPerGame = 5 }, "Reliable points"},
		{"xgi", func(p *enrich.Player) { p.XGI = 3.5 }, "High xGI (3.5)"},
		{"radar", func(p *enrich.Player) { p.Ownership = 4 }, "Under the radar"},
		{"balanced", func(p *enrich.Player) {}, "Balanced option"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			tt.mod(&p)
			assert.Equal(t, tt.want, KeyReason(p))
		})
	}
}

func TestEdgeAndOwnership(t *testing.T) {
	squad := []enrich.Player{
		{Player: fpl.Player{ID: 1, Ownership: 40, Form: 3}},
		{Player: fpl.Player{ID: 2, Ownership: 18, Form: 2}},
		{Player: fpl.Player{ID: 3, Ownership: 10, Form: 1}},
		{Player: fpl.Player{ID: 4, Ownership: 4, Form: 8}},
	}
	edges := SquadEdges(squad)
	require.Len(t, edges, 4)
	assert.Equal(t, BandTemplate, edges[0].Band)
	assert.True(t, edges[0].HasEdge)
	assert.Equal(t, BandPopular, edges[1].Band)
	assert.True(t, edges[1].HasEdge)
	assert.Equal(t, BandModerate, edges[2].Band)
	assert.False(t, edges[2].HasEdge)
	assert.Equal(t, BandDifferential, edges[3].Band)

	own := SquadOwnership(squad)
	assert.InDelta(t, 18.0, own.Average, 1e-9)
	assert.Equal(t, 1, own.HighOwned)
	assert.Equal(t, Ownership{}, SquadOwnership(nil))
}
