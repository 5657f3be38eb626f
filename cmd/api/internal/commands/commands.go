package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"projectops/internal/config"
	"projectops/internal/logger"
)

type Globals struct {
	EnvFile string
	Version string
}

// setup loads configuration and installs the process-wide logger.
func setup(globals *Globals) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(globals.EnvFile)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.App.Version == "" || globals.Version != "dev" {
		cfg.App.Version = globals.Version
	}

	lg := logger.Setup(cfg.App.LogLevel, !cfg.IsProduction())
	log.Logger = lg
	zerolog.DefaultContextLogger = &lg

	return cfg, lg, nil
}
