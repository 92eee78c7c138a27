package main

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/majkelowskiii/jack-of-all-trades/internal/randutil"
	"github.com/majkelowskiii/jack-of-all-trades/internal/server"
)

// ServeCmd runs the trainer HTTP server
type ServeCmd struct {
	Config string `kong:"default='trainer.hcl',help='Path to HCL configuration file'"`
	Debug  bool   `kong:"help='Enable debug logging'"`
	Seed   *int64 `kong:"help='Deterministic RNG seed (optional)'"`
}

func (c *ServeCmd) Run() error {
	logger := setupLogger(c.Debug)

	cfg, err := server.LoadServerConfig(c.Config)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Server.LogLevel == "debug" {
		logger.SetLevel(log.DebugLevel)
	}

	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
		logger.Info("using deterministic seed", "seed", seed)
	}
	rng := randutil.New(seed)

	s := server.NewServer(cfg, logger, rng)
	ctx := setupSignalContext()
	return s.Start(ctx)
}
