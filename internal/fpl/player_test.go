package fpl

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestParseStat(t *testing.T) {
	cases := map[string]float64{
		"6.5":  6.5,
		" 3.2": 3.2,
		"":     0,
		"abc":  0,
		"NaN":  0,
		"Inf":  0,
		"-1.5": -1.5,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseStat(in), "ParseStat(%q)", in)
	}
}

func TestNormalize_ParsesTextStats(t *testing.T) {
	ep := "4.1"
	raw := RawPlayer{
		ID:                       7,
		WebName:                  "Saka",
		Team:                     1,
		ElementType:              3,
		NowCost:                  101,
		SelectedByPercent:        "35.2",
		Form:                     "6.0",
		PointsPerGame:            "5.5",
		ICTIndex:                 "120.4",
		ExpectedGoalInvolvements: "bad",
		EPNext:                   &ep,
		Status:                   "d",
		ChanceOfPlayingNextRound: intPtr(50),
	}

	p := raw.Normalize()

	assert.Equal(t, "Saka", p.Name)
	assert.Equal(t, Midfielder, p.Position)
	assert.Equal(t, 6.0, p.Form)
	assert.Equal(t, 5.5, p.PointsPerGame)
	assert.Equal(t, 35.2, p.Ownership)
	assert.Equal(t, 0.0, p.XGI)
	assert.Equal(t, 4.1, p.EPNext)
	assert.Equal(t, StatusDoubtful, p.Status)
	assert.InDelta(t, 10.1, p.PriceM(), 1e-9)
	assert.InDelta(t, 0.5, p.InjuryRisk(), 1e-9)
	assert.True(t, p.Doubtful())
}

func TestNormalize_FallbackName(t *testing.T) {
	p := RawPlayer{FirstName: "Bukayo", SecondName: "Saka"}.Normalize()
	assert.Equal(t, "Bukayo Saka", p.Name)
}

func TestInjuryRisk(t *testing.T) {
	assert.Equal(t, 0.0, Player{Status: StatusAvailable}.InjuryRisk())
	assert.Equal(t, 1.0, Player{Status: StatusInjured}.InjuryRisk())
	assert.Equal(t, 0.25, Player{Status: StatusInjured, ChanceOfPlaying: intPtr(75)}.InjuryRisk())
}

func TestParseStatusAndPosition(t *testing.T) {
	assert.Equal(t, StatusAvailable, ParseStatus("a"))
	assert.Equal(t, StatusSuspended, ParseStatus("s"))
	assert.Equal(t, StatusUnknown, ParseStatus("x"))

	pos, ok := ParsePosition("fwd")
	require.True(t, ok)
	assert.Equal(t, Forward, pos)
	_, ok = ParsePosition("striker")
	assert.False(t, ok)
}

func TestBootstrapDecode(t *testing.T) {
	body := []byte(`{
		"elements":[{"id":1,"web_name":"A","team":2,"element_type":4,"now_cost":75,"form":"3.0","status":"a","chance_of_playing_next_round":null}],
		"teams":[{"id":2,"name":"Bees","short_name":"BRE"}],
		"events":[{"id":9,"is_current":true},{"id":10,"is_next":true}]
	}`)
	var b Bootstrap
	require.NoError(t, json.Unmarshal(body, &b))

	players := NormalizeAll(b.Elements)
	require.Len(t, players, 1)
	assert.Nil(t, players[0].ChanceOfPlaying)
	assert.Equal(t, Forward, players[0].Position)

	cur := CurrentGameweek(b.Events)
	require.NotNil(t, cur)
	assert.Equal(t, 9, cur.ID)
	assert.Equal(t, 10, SeasonLength(b.Events))
	assert.Equal(t, DefaultSeasonLength, SeasonLength(nil))
}

func TestCurrentGameweek_FallsBackToNext(t *testing.T) {
	events := []Gameweek{{ID: 1, Finished: true}, {ID: 2, IsNext: true}, {ID: 3}}
	cur := CurrentGameweek(events)
	require.NotNil(t, cur)
	assert.Equal(t, 2, cur.ID)

	next := NextGameweeks(events, 6)
	require.Len(t, next, 2)
	assert.Equal(t, 2, next[0].ID)
	assert.Nil(t, CurrentGameweek([]Gameweek{{ID: 1}}))
}

func TestFixtureGW(t *testing.T) {
	gw := 4
	_, ok := Fixture{}.GW()
	assert.False(t, ok)
	got, ok := Fixture{Event: &gw}.GW()
	assert.True(t, ok)
	assert.Equal(t, 4, got)
	assert.True(t, Fixture{TeamH: 1, TeamA: 2}.Involves(2))
}

func TestGameweeksInWindow(t *testing.T) {
	events := []Gameweek{{ID: 5}, {ID: 3}, {ID: 4}, {ID: 9}}
	tests := []struct {
		from, count int
		want        []int
	}{
		{3, 3, []int{3, 4, 5}},
		{4, 1, []int{4}},
		{6, 3, []int{}},
		{3, 0, nil},
		{3, -2, nil},
	}
	for _, tc := range tests {
		var got []int
		for _, e := range GameweeksInWindow(events, tc.from, tc.count) {
			got = append(got, e.ID)
		}
		if len(tc.want) == 0 {
			assert.Empty(t, got)
			continue
		}
		assert.Equal(t, tc.want, got)
	}
}

func TestIndexes(t *testing.T) {
	teams := TeamIndex([]Team{{ID: 1, ShortName: "ARS"}, {ID: 2, ShortName: "AVL"}})
	assert.Equal(t, "AVL", teams[2].ShortName)
	players := PlayerIndex([]Player{{ID: 7, Name: "Saka"}})
	assert.Equal(t, "Saka", players[7].Name)
	assert.Empty(t, PlayerIndex(nil))
}
