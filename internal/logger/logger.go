package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type Config struct {
	Level   string `yaml:"level" validate:"oneof=debug info warn error"`
	Format  string `yaml:"format" validate:"oneof=json console"`
	Output  string `yaml:"output" validate:"oneof=stdout stderr"`
	Env     string `yaml:"env" validate:"oneof=dev prod"`
	Service string `yaml:"service"`
	Version string `yaml:"version"`
	Caller  bool   `yaml:"caller"`
}

// New builds a logger writing to the configured stream.
func New(cfg *Config) (zerolog.Logger, error) {
	cfg.SetDefaults()
	out := os.Stdout
	if cfg.Output == "stderr" {
		out = os.Stderr
	}
	return NewWithWriter(cfg, out)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(cfg *Config, w io.Writer) (zerolog.Logger, error) {
	cfg.SetDefaults()
	if err := validator.New().Struct(cfg); err != nil {
		return zerolog.Nop(), fmt.Errorf("logger config validation error: %w", err)
	}
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), err
	}

	if cfg.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	ctx := zerolog.New(w).Level(level).With().
		Timestamp().
		Str("service", cfg.Service).
		Str("version", cfg.Version).
		Str("env", cfg.Env)
	if cfg.Caller {
		ctx = ctx.Caller()
	}
	return ctx.Logger(), nil
}

func (c *Config) SetDefaults() {
	if c.Env == "" {
		c.Env = "prod"
	}
	if c.Level == "" {
		if c.Env == "dev" {
			c.Level = "debug"
		} else {
			c.Level = "info"
		}
	}
	if c.Format == "" {
		if c.Env == "dev" {
			c.Format = "console"
		} else {
			c.Format = "json"
		}
	}
	if c.Output == "" {
		// stdout carries MCP and report JSON
		c.Output = "stderr"
	}
	if c.Service == "" {
		c.Service = "fplmate"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

// Component derives a child logger tagged with the module and component.
func Component(l zerolog.Logger, module, component string) zerolog.Logger {
	return l.With().Str("module", module).Str("component", component).Logger()
}
