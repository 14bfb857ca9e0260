package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fplmate/fplmate/internal/captaincy"
	"github.com/fplmate/fplmate/internal/config"
	"github.com/fplmate/fplmate/internal/report/reporttest"
	"github.com/fplmate/fplmate/internal/store"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func upstream(t *testing.T) *httptest.Server {
	t.Helper()
	routes := map[string]any{
		"/bootstrap-static/": reporttest.Bootstrap(),
		"/fixtures/":         reporttest.Fixtures(),
	}
	entry := fmt.Sprintf("/entry/%d/", reporttest.TeamID)
	routes[entry] = reporttest.Entry()
	routes[entry+"history/"] = reporttest.History()
	routes[fmt.Sprintf("%sevent/%d/picks/", entry, reporttest.Gameweek)] = reporttest.Picks()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(v)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchThenAnalyze(t *testing.T) {
	srv := upstream(t)
	dir := t.TempDir()
	raw := filepath.Join(dir, "raw")
	cfgPath := filepath.Join(dir, "fplmate.yaml")
	yml := fmt.Sprintf("raw_root: %s\nfetch:\n  base_url: %s\n  rate_per_sec: 1000\n  backoff: 1ms\nlogger:\n  level: error\n", raw, srv.URL)
	require.NoError(t, os.WriteFile(cfgPath, []byte(yml), 0o644))

	out, err := run(t, "--config", cfgPath, "fetch", "--team", fmt.Sprint(reporttest.TeamID))
	require.NoError(t, err)
	assert.Contains(t, out, fmt.Sprintf("gw %d", reporttest.Gameweek))
	assert.True(t, store.NewJSONStore(raw).Exists(store.PicksPath(reporttest.TeamID, reporttest.Gameweek)))

	out, err = run(t, "--config", cfgPath, "analyze", "--team", fmt.Sprint(reporttest.TeamID), "--risk", "aggressive", "--position", "DEF")
	require.NoError(t, err)
	var r struct {
		TeamID        int               `json:"team_id"`
		Risk          string            `json:"risk"`
		Errors        map[string]string `json:"errors"`
		Differentials []struct {
			Player struct {
				Position string `json:"position"`
			} `json:"player"`
		} `json:"differentials"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, reporttest.TeamID, r.TeamID)
	assert.Equal(t, "aggressive", r.Risk)
	assert.Empty(t, r.Errors)
	for _, d := range r.Differentials {
		assert.Equal(t, "DEF", d.Player.Position)
	}
}

func TestFetch_UnknownTeam(t *testing.T) {
	srv := upstream(t)
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "fplmate.yaml")
	yml := fmt.Sprintf("raw_root: %s\nfetch:\n  base_url: %s\n  rate_per_sec: 1000\nlogger:\n  level: error\n", dir, srv.URL)
	require.NoError(t, os.WriteFile(cfgPath, []byte(yml), 0o644))

	_, err := run(t, "--config", cfgPath, "fetch", "--team", "7")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch team 7")
}

func TestAnalyze_Flags(t *testing.T) {
	dir := t.TempDir()
	noConfig := filepath.Join(dir, "missing.yaml")

	_, err := run(t, "--config", noConfig, "--raw-root", dir, "analyze")
	assert.EqualError(t, err, "--team is required")

	_, err = run(t, "--config", noConfig, "--raw-root", dir, "analyze", "--team", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run fetch first")

	require.NoError(t, reporttest.WriteStore(store.NewJSONStore(dir)))
	_, err = run(t, "--config", noConfig, "--raw-root", dir, "--log-level", "error", "analyze", "--team", fmt.Sprint(reporttest.TeamID), "--position", "WING")
	assert.EqualError(t, err, `unknown position "WING"`)
}

func TestBaseOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Analysis.Risk = "high"
	cfg.Analysis.FreeTransfers = 2
	cfg.Analysis.FixtureWindow = 4

	opts := baseOptions(cfg)
	assert.Equal(t, captaincy.Aggressive, opts.Risk)
	assert.Equal(t, 2, opts.FreeTransfers)
	assert.Equal(t, 4, opts.FixtureWindow)
	require.NotNil(t, opts.TeamPerf)
	assert.Equal(t, cfg.TeamPerf, *opts.TeamPerf)
}
