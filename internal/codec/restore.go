package codec

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/napolitain/idle-chain/internal/models"
	"github.com/napolitain/idle-chain/internal/storage"
)

// Restore loads the state stored under key. Absent, unreadable or malformed
// data falls back to the initial snapshot; the failure is logged, never
// returned.
func Restore(ctx context.Context, r storage.Reader, key string, catalog *models.Catalog, logger *slog.Logger) models.GameState {
	data, ok, err := r.Read(ctx, key)
	switch {
	case err != nil:
		logger.Warn("could not read saved game, starting fresh", "key", key, "error", err)
		return models.NewGameState()
	case !ok:
		logger.Info("no saved game found, starting fresh", "key", key)
		return models.NewGameState()
	}

	s, err := Decode(catalog, data)
	if err != nil {
		logger.Warn("discarding saved game", "key", key, "error", err)
		return models.NewGameState()
	}
	logger.Info("saved game restored", "key", key, "producers", len(s.Producers), "resource", s.PrimaryResource.String())
	return s
}

// Save encodes s and writes it under key.
func Save(ctx context.Context, w storage.Writer, key string, s models.GameState) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}
	if err := w.Write(ctx, key, data); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}
