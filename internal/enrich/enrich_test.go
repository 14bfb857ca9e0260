package enrich

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fplmate/fplmate/internal/fpl"
)

func gw(n int) *int { return &n }

func testTeams() []fpl.Team {
	return []fpl.Team{
		{ID: 1, Name: "Arsenal", ShortName: "ARS"},
		{ID: 2, Name: "Brentford", ShortName: "BRE"},
		{ID: 3, Name: "Chelsea", ShortName: "CHE"},
	}
}

func testFixtures() []fpl.Fixture {
	return []fpl.Fixture{
		{ID: 30, Event: gw(12), TeamH: 3, TeamA: 1, TeamHDifficulty: 3, TeamADifficulty: 4},
		{ID: 10, Event: gw(10), TeamH: 1, TeamA: 2, TeamHDifficulty: 2, TeamADifficulty: 4},
		{ID: 20, Event: gw(11), TeamH: 2, TeamA: 3, TeamHDifficulty: 3, TeamADifficulty: 3},
		{ID: 40, Event: nil, TeamH: 1, TeamA: 3, TeamHDifficulty: 5, TeamADifficulty: 5},
		{ID: 50, Event: gw(16), TeamH: 1, TeamA: 3, TeamHDifficulty: 5, TeamADifficulty: 5},
		{ID: 5, Event: gw(9), TeamH: 1, TeamA: 3, TeamHDifficulty: 1, TeamADifficulty: 1},
	}
}

func TestUpcomingFixtures_WindowAndSides(t *testing.T) {
	got := UpcomingFixtures(testFixtures(), fpl.TeamIndex(testTeams()), 1, 10, DefaultWindow)

	require.Len(t, got, 2)
	assert.Equal(t, 10, got[0].Gameweek)
	assert.True(t, got[0].IsHome)
	assert.Equal(t, "BRE", got[0].Opponent.ShortName)
	assert.Equal(t, 2, got[0].Difficulty)

	assert.Equal(t, 12, got[1].Gameweek)
	assert.False(t, got[1].IsHome)
	assert.Equal(t, "CHE", got[1].Opponent.ShortName)
	assert.Equal(t, 4, got[1].Difficulty)
	assert.Equal(t, "A", got[1].Venue())
}

func TestUpcomingFixtures_NonPositiveCount(t *testing.T) {
	teams := fpl.TeamIndex(testTeams())
	assert.Empty(t, UpcomingFixtures(testFixtures(), teams, 1, 10, 0))
	assert.NotPanics(t, func() {
		assert.Empty(t, UpcomingFixtures(testFixtures(), teams, 1, 10, -3))
	})
}

func TestAvgDifficulty(t *testing.T) {
	fx := []FixtureDetail{{Difficulty: 2}, {Difficulty: 4}, {Difficulty: 5}, {Difficulty: 1}}
	tests := []struct {
		name      string
		offset, n int
		want      float64
	}{
		{"first three", 0, 3, 11.0 / 3},
		{"offset", 2, 3, 3},
		{"past end", 9, 3, NeutralDifficulty},
		{"zero count", 0, 0, NeutralDifficulty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, AvgDifficulty(fx, tt.offset, tt.n), 1e-9)
		})
	}
	assert.Equal(t, NeutralDifficulty, AvgDifficulty(nil, 0, 3))
}

func TestEnrich_CompositeScore(t *testing.T) {
	p := fpl.Player{ID: 1, TeamID: 1, Position: fpl.Midfielder, Form: 6, PointsPerGame: 5, Status: fpl.StatusAvailable}
	ep := Enrich(p, testTeams(), testFixtures(), 10)

	// avg difficulty (2+4)/2 = 3 -> ease 2
	assert.InDelta(t, 12+7.5+2, ep.Score, 1e-9)
	assert.Equal(t, "Arsenal", ep.Team.Name)
	assert.Equal(t, "Midfielder", ep.PositionName)
	assert.InDelta(t, 3.0, ep.AvgDifficulty(3), 1e-9)
}

func TestEnrich_NoFixturesIsNeutral(t *testing.T) {
	p := fpl.Player{ID: 1, TeamID: 1, Form: 1, Status: fpl.StatusInjured}
	ep := Enrich(p, testTeams(), nil, 10)

	assert.Empty(t, ep.Upcoming)
	assert.Equal(t, NeutralDifficulty, ep.AvgDifficulty(3))
	// 2*1 + 0 + (5-3) - 2*1
	assert.InDelta(t, 2.0, ep.Score, 1e-9)
	_, ok := ep.NextFixture()
	assert.False(t, ok)
}

func TestEnricher_WithWindow(t *testing.T) {
	e := NewEnricher(testTeams(), testFixtures()).WithWindow(8)
	got := e.Upcoming(1, 10)
	require.Len(t, got, 3)
	assert.Equal(t, 16, got[2].Gameweek)
}

func TestBuildSquad(t *testing.T) {
	players := map[int]fpl.Player{}
	var picks []fpl.Pick
	for i := 15; i >= 1; i-- {
		players[100+i] = fpl.Player{ID: 100 + i, TeamID: 1}
		picks = append(picks, fpl.Pick{Element: 100 + i, Position: i, IsCaptain: i == 5, Multiplier: 1})
	}

	sq, err := BuildSquad(picks, players, NewEnricher(testTeams(), testFixtures()), 10)
	require.NoError(t, err)
	require.Len(t, sq.Starting, 11)
	require.Len(t, sq.Bench, 4)
	assert.Equal(t, 101, sq.Starting[0].ID)
	assert.Equal(t, 112, sq.Bench[0].ID)

	c, ok := sq.Captain()
	require.True(t, ok)
	assert.Equal(t, 105, c.ID)
	assert.Len(t, sq.IDs(), 15)
}

func TestBuildSquad_UnknownPlayer(t *testing.T) {
	_, err := BuildSquad([]fpl.Pick{{Element: 9, Position: 1}}, map[int]fpl.Player{}, NewEnricher(nil, nil), 1)
	assert.True(t, errors.Is(err, ErrUnknownPlayer))
}
