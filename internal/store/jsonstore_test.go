package store

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fplmate/fplmate/internal/fpl"
)

func TestWriteRaw_PrettyAndPlain(t *testing.T) {
	st := NewJSONStore(t.TempDir())

	require.NoError(t, st.WriteRaw("a/b.json", []byte(`{"x":1}`), true))
	got, err := st.ReadRaw("a/b.json")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"x\": 1\n}\n", string(got))

	require.NoError(t, st.WriteRaw("c.txt", []byte("not json"), true))
	got, err = st.ReadRaw("c.txt")
	require.NoError(t, err)
	assert.Equal(t, "not json", string(got))

	assert.True(t, st.Exists("a/b.json"))
	assert.False(t, st.Exists("a"))
}

func TestReadRaw_MissingWrapsNotExist(t *testing.T) {
	st := NewJSONStore(t.TempDir())
	_, err := st.ReadRaw("nope.json")
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	_, err = st.LoadEntry(1)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadSnapshot(t *testing.T) {
	st := NewJSONStore(t.TempDir())
	writes := map[string]string{
		BootstrapPath: `{"elements":[{"id":1,"web_name":"Saka","team":1,"element_type":3,"now_cost":100,"form":"6.5","selected_by_percent":"40.1","status":"a"}],
			"teams":[{"id":1,"short_name":"ARS"}],
			"events":[{"id":7,"is_current":true},{"id":8,"is_next":true}]}`,
		FixturesPath:     `[{"id":1,"event":8,"team_h":1,"team_a":2,"team_h_difficulty":2,"team_a_difficulty":4}]`,
		EntryPath(42):    `{"id":42,"name":"Gooners","last_deadline_value":1012}`,
		HistoryPath(42):  `{"current":[{"event":7,"points":66}],"chips":[{"name":"wildcard","event":3}]}`,
		PicksPath(42, 7): `{"entry_history":{"event":7,"bank":15,"value":1012},"picks":[{"element":1,"position":1,"multiplier":2,"is_captain":true}]}`,
	}
	for rel, body := range writes {
		require.NoError(t, st.WriteRaw(rel, []byte(body), false))
	}

	snap, err := st.LoadSnapshot(42, 0)
	require.NoError(t, err)
	assert.Equal(t, 7, snap.Gameweek)
	require.Len(t, snap.Players, 1)
	assert.Equal(t, "Saka", snap.Players[0].Name)
	assert.InDelta(t, 6.5, snap.Players[0].Form, 1e-9)
	assert.Equal(t, fpl.Midfielder, snap.Players[0].Position)
	assert.Equal(t, "Gooners", snap.Entry.Name)
	assert.Equal(t, 15, snap.Picks.EntryHistory.Bank)
	assert.Len(t, snap.History.Chips, 1)
	assert.Len(t, snap.Fixtures, 1)

	_, err = st.LoadSnapshot(42, 8)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "entry/42/gw/8/picks.json"))
}

func TestLoadFixtures_BadJSON(t *testing.T) {
	st := NewJSONStore(t.TempDir())
	require.NoError(t, st.WriteRaw(FixturesPath, []byte("{"), false))
	_, err := st.LoadFixtures()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode fixtures/fixtures.json")
}
