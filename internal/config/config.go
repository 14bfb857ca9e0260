// Package config loads fplmate settings from YAML with defaults and
// validation. CLI flags override whatever the file sets.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/fplmate/fplmate/internal/logger"
	"github.com/fplmate/fplmate/internal/teamperf"
)

// APIKeyEnv names the environment variable holding the server API key.
const APIKeyEnv = "FPLMATE_API_KEY"

type Config struct {
	RawRoot  string          `yaml:"raw_root" validate:"required"`
	Fetch    FetchConfig     `yaml:"fetch"`
	Server   ServerConfig    `yaml:"server"`
	Analysis AnalysisConfig  `yaml:"analysis"`
	Logger   logger.Config   `yaml:"logger"`
	TeamPerf teamperf.Params `yaml:"team_performance"`
}

type FetchConfig struct {
	BaseURL     string        `yaml:"base_url" validate:"required,url"`
	UserAgent   string        `yaml:"user_agent" validate:"required"`
	Timeout     time.Duration `yaml:"timeout" validate:"gt=0"`
	RatePerSec  float64       `yaml:"rate_per_sec" validate:"gt=0"`
	Burst       int           `yaml:"burst" validate:"gte=1"`
	Retries     int           `yaml:"retries" validate:"gte=1,lte=10"`
	Backoff     time.Duration `yaml:"backoff" validate:"gte=0"`
	PrettyWrite bool          `yaml:"pretty_write"`
}

type ServerConfig struct {
	Addr        string `yaml:"addr" validate:"required"`
	MCPPath     string `yaml:"mcp_path" validate:"required,startswith=/"`
	AuthHeader  string `yaml:"auth_header" validate:"required"`
	RequireAuth bool   `yaml:"require_auth"`
	APIKey      string `yaml:"-"`
}

type AnalysisConfig struct {
	FixtureWindow int    `yaml:"fixture_window" validate:"gte=1,lte=38"`
	Risk          string `yaml:"risk" validate:"omitempty,oneof=safe low balanced med medium aggressive high"`
	FreeTransfers int    `yaml:"free_transfers" validate:"gte=0,lte=5"`
}

func Default() Config {
	return Config{
		RawRoot: "data/raw",
		Fetch: FetchConfig{
			BaseURL:     "https://fantasy.premierleague.com/api",
			UserAgent:   "fplmate/0.1",
			Timeout:     20 * time.Second,
			RatePerSec:  4,
			Burst:       1,
			Retries:     3,
			Backoff:     time.Second,
			PrettyWrite: true,
		},
		Server: ServerConfig{
			Addr:        ":8080",
			MCPPath:     "/mcp",
			AuthHeader:  "X-API-Key",
			RequireAuth: true,
		},
		Analysis: AnalysisConfig{
			FixtureWindow: 6,
			Risk:          "balanced",
			FreeTransfers: 1,
		},
		TeamPerf: teamperf.DefaultParams(),
	}
}

// Load reads path over the defaults. An empty path or a missing file yields
// the defaults. The API key always comes from the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}
	cfg.Server.APIKey = strings.TrimSpace(os.Getenv(APIKeyEnv))
	cfg.Logger.SetDefaults()
	return cfg, nil
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation error: %w", err)
	}
	return nil
}

// ValidateServer additionally checks what serve needs.
func (c Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Server.RequireAuth && c.Server.APIKey == "" {
		return fmt.Errorf("%s is required (set it or disable server.require_auth)", APIKeyEnv)
	}
	return nil
}
