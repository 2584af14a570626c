package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/napolitain/idle-chain/internal/clock"
	"github.com/napolitain/idle-chain/internal/codec"
	"github.com/napolitain/idle-chain/internal/config"
	"github.com/napolitain/idle-chain/internal/engine"
	"github.com/napolitain/idle-chain/internal/game"
	"github.com/napolitain/idle-chain/internal/loader"
	"github.com/napolitain/idle-chain/internal/storage"
)

// app bundles everything a command needs to drive a saved game
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	store   storage.Store
	session *game.Session
}

func newLogger(cfg config.Config) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	handler := log.NewWithOptions(os.Stderr, log.Options{
		Level:           log.Level(level),
		ReportTimestamp: true,
		Prefix:          "idle",
	})
	return slog.New(handler), nil
}

// openApp loads the catalog, opens the save file and restores the session
func openApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	catalog, err := loader.DefaultCatalog()
	if err != nil {
		return nil, err
	}

	store, err := storage.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open save file: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	initial := codec.Restore(ctx, store, cfg.StateKey, catalog, logger)

	session := game.NewSession(engine.New(catalog), clock.RealClock{}, store, initial, game.Options{
		StateKey:     cfg.StateKey,
		SaveInterval: cfg.SaveInterval,
		Logger:       logger,
	})
	logger.Debug("session opened", "db", cfg.DBPath, "key", cfg.StateKey, "producers", catalog.Len())

	return &app{cfg: cfg, logger: logger, store: store, session: session}, nil
}

// Close saves pending progress and releases the save file
func (a *app) Close(ctx context.Context) error {
	flushErr := a.session.Flush(ctx)
	if err := a.store.Close(); err != nil {
		return fmt.Errorf("failed to close save file: %w", err)
	}
	return flushErr
}
