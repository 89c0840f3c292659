package main

import (
	"fmt"

	"github.com/caarlos0/env/v6"

	"go.uber.org/zap"
)

// Settings provides environment defaults for the CLI flags.
type Settings struct {
	RepoPath string `env:"OSTREE_INSPECT_REPO" envDefault:"/ostree/repo"`
	LogLevel string `env:"OSTREE_INSPECT_LOG_LEVEL" envDefault:"warn"`
}

// getEnvironment pulls the active settings into a settings struct.
func getEnvironment() (*Settings, error) {
	cfg := &Settings{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment settings: %w", err)
	}
	return cfg, nil
}

// buildLogger creates the CLI logger. Verbose forces debug level with the
// development encoder.
func buildLogger(level string, verbose bool) (*zap.Logger, error) {
	if verbose {
		cfg := zap.NewDevelopmentConfig()
		return cfg.Build()
	}

	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	return cfg.Build()
}
