package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fplmate/fplmate/internal/fpl"
	"github.com/fplmate/fplmate/internal/store"
)

// /bootstrap-static/, decoded from the fetched bytes rather than the store.
func (c *Client) BootstrapStatic(ctx context.Context, force bool) (*fpl.Bootstrap, error) {
	raw, err := c.FetchRaw(ctx, "/bootstrap-static/", store.BootstrapPath, force)
	if err != nil {
		return nil, err
	}
	var boot fpl.Bootstrap
	if err := json.Unmarshal(raw, &boot); err != nil {
		return nil, fmt.Errorf("decode bootstrap: %w", err)
	}
	return &boot, nil
}

// /fixtures/
func (c *Client) Fixtures(ctx context.Context, force bool) error {
	_, err := c.FetchRaw(ctx, "/fixtures/", store.FixturesPath, force)
	return err
}

// /entry/{team_id}/
func (c *Client) Entry(ctx context.Context, teamID int, force bool) error {
	_, err := c.FetchRaw(ctx, fmt.Sprintf("/entry/%d/", teamID), store.EntryPath(teamID), force)
	return err
}

// /entry/{team_id}/history/
func (c *Client) EntryHistory(ctx context.Context, teamID int, force bool) error {
	_, err := c.FetchRaw(ctx, fmt.Sprintf("/entry/%d/history/", teamID), store.HistoryPath(teamID), force)
	return err
}

// /entry/{team_id}/event/{gw}/picks/
func (c *Client) Picks(ctx context.Context, teamID, gw int, force bool) error {
	_, err := c.FetchRaw(
		ctx,
		fmt.Sprintf("/entry/%d/event/%d/picks/", teamID, gw),
		store.PicksPath(teamID, gw),
		force,
	)
	return err
}

// Team fetches everything LoadSnapshot needs for teamID and returns the
// gameweek it fetched picks for. gw <= 0 resolves the current gameweek from
// the bootstrap.
func (c *Client) Team(ctx context.Context, teamID, gw int, force bool) (int, error) {
	boot, err := c.BootstrapStatic(ctx, force)
	if err != nil {
		return 0, err
	}
	if gw <= 0 {
		cur := fpl.CurrentGameweek(boot.Events)
		if cur == nil {
			return 0, fmt.Errorf("no current gameweek in bootstrap")
		}
		gw = cur.ID
	}
	steps := []func() error{
		func() error { return c.Fixtures(ctx, force) },
		func() error { return c.Entry(ctx, teamID, force) },
		func() error { return c.EntryHistory(ctx, teamID, force) },
		func() error { return c.Picks(ctx, teamID, gw, force) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return 0, err
		}
	}
	return gw, nil
}

// endpointLabel collapses ids out of a path so metric cardinality stays flat:
// "/entry/42/event/7/picks/" -> "entry/event/picks".
func endpointLabel(urlPath string) string {
	var parts []string
	for _, seg := range strings.Split(strings.Trim(urlPath, "/"), "/") {
		if seg == "" || strings.Trim(seg, "0123456789") == "" {
			continue
		}
		parts = append(parts, seg)
	}
	return strings.Join(parts, "/")
}
