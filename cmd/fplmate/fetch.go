package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/fplmate/fplmate/internal/fetch"
	"github.com/fplmate/fplmate/internal/logger"
	"github.com/fplmate/fplmate/internal/metrics"
	"github.com/fplmate/fplmate/internal/store"
)

func newFetchCmd(a *app) *cobra.Command {
	var (
		teamID int
		gw     int
		force  bool
	)
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download a manager's season data into the raw store",
		RunE: func(cmd *cobra.Command, args []string) error {
			if teamID <= 0 {
				return fmt.Errorf("--team is required")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			c := newFetchClient(a, store.NewJSONStore(a.cfg.RawRoot), nil)
			got, err := c.Team(ctx, teamID, gw, force)
			if err != nil {
				return fmt.Errorf("fetch team %d: %w", teamID, err)
			}
			a.log.Info().Int("team", teamID).Int("gw", got).Str("raw_root", a.cfg.RawRoot).Msg("fetched")
			fmt.Fprintf(cmd.OutOrStdout(), "fetched team %d gw %d into %s\n", teamID, got, a.cfg.RawRoot)
			return nil
		},
	}
	cmd.Flags().IntVar(&teamID, "team", 0, "FPL entry id (required)")
	cmd.Flags().IntVar(&gw, "gw", 0, "gameweek for picks (0 = current)")
	cmd.Flags().BoolVar(&force, "force", false, "refetch files already in the store")
	return cmd
}

func newFetchClient(a *app, st *store.JSONStore, m *metrics.Metrics) *fetch.Client {
	fc := a.cfg.Fetch
	c := fetch.NewClient(st)
	c.HTTP = &http.Client{Timeout: fc.Timeout}
	c.BaseURL = fc.BaseURL
	c.UserAgent = fc.UserAgent
	c.Retries = fc.Retries
	c.Backoff = fc.Backoff
	c.PrettyWrite = fc.PrettyWrite
	c.Limiter = rate.NewLimiter(rate.Limit(fc.RatePerSec), fc.Burst)
	c.Metrics = m
	c.Log = logger.Component(a.log, "fetch", "client")
	return c
}
