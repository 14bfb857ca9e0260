package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/fplmate/fplmate/internal/config"
	"github.com/fplmate/fplmate/internal/logger"
)

const version = "0.1.0"

type app struct {
	configPath string
	rawRoot    string
	logLevel   string

	cfg config.Config
	log zerolog.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "fplmate",
		Short:         "Fantasy Premier League squad analysis",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "fplmate.yaml", "YAML config file (missing = defaults)")
	root.PersistentFlags().StringVar(&a.rawRoot, "raw-root", "", "root directory for raw JSON (overrides config)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (overrides config)")

	root.AddCommand(newFetchCmd(a), newAnalyzeCmd(a), newServeCmd(a))
	return root
}

func (a *app) load() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.rawRoot != "" {
		cfg.RawRoot = a.rawRoot
	}
	if a.logLevel != "" {
		cfg.Logger.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	log, err := logger.New(&cfg.Logger)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = log
	return nil
}
