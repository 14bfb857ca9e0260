package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fplmate/fplmate/internal/captaincy"
	"github.com/fplmate/fplmate/internal/config"
	"github.com/fplmate/fplmate/internal/fpl"
	"github.com/fplmate/fplmate/internal/logger"
	"github.com/fplmate/fplmate/internal/report"
	"github.com/fplmate/fplmate/internal/store"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var (
		teamID        int
		gw            int
		risk          string
		freeTransfers int
		position      string
		maxOwnership  float64
	)
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Build the full report for a fetched team and print it as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			if teamID <= 0 {
				return fmt.Errorf("--team is required")
			}
			opts := baseOptions(a.cfg)
			if cmd.Flags().Changed("risk") {
				opts.Risk = captaincy.ParseRisk(risk)
			}
			if cmd.Flags().Changed("free-transfers") {
				opts.FreeTransfers = freeTransfers
			}
			if position != "" {
				pos, ok := fpl.ParsePosition(position)
				if !ok {
					return fmt.Errorf("unknown position %q", position)
				}
				opts.Position = pos
			}
			opts.MaxOwnership = maxOwnership

			snap, err := store.NewJSONStore(a.cfg.RawRoot).LoadSnapshot(teamID, gw)
			if err != nil {
				return fmt.Errorf("load snapshot (run fetch first?): %w", err)
			}
			b := report.NewBuilder(logger.Component(a.log, "report", "builder"), nil)
			r, err := b.Build(snap, opts)
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(r, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	cmd.Flags().IntVar(&teamID, "team", 0, "FPL entry id (required)")
	cmd.Flags().IntVar(&gw, "gw", 0, "gameweek (0 = current)")
	cmd.Flags().StringVar(&risk, "risk", "", "captaincy risk: safe|balanced|aggressive (default from config)")
	cmd.Flags().IntVar(&freeTransfers, "free-transfers", 0, "free transfers available (default from config)")
	cmd.Flags().StringVar(&position, "position", "", "differential position: GK|DEF|MID|FWD (default MID)")
	cmd.Flags().Float64Var(&maxOwnership, "max-ownership", 0, "differential ownership ceiling in percent (default 30)")
	return cmd
}

// baseOptions turns the analysis section of the config into report options.
func baseOptions(cfg config.Config) report.Options {
	perf := cfg.TeamPerf
	return report.Options{
		Risk:          captaincy.ParseRisk(cfg.Analysis.Risk),
		FreeTransfers: cfg.Analysis.FreeTransfers,
		FixtureWindow: cfg.Analysis.FixtureWindow,
		TeamPerf:      &perf,
	}
}
