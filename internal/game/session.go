// Package game owns the live game state. A Session is the single point through
// which every transition passes, so callers on different goroutines (a ticker,
// a UI) never race on the state.
package game

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/napolitain/idle-chain/internal/clock"
	"github.com/napolitain/idle-chain/internal/codec"
	"github.com/napolitain/idle-chain/internal/engine"
	"github.com/napolitain/idle-chain/internal/models"
	"github.com/napolitain/idle-chain/internal/storage"
)

// Options configures a Session
type Options struct {
	StateKey     string
	SaveInterval time.Duration // Minimum time between saves; 0 saves after every change
	Logger       *slog.Logger
}

type Session struct {
	mu     sync.Mutex
	engine *engine.Engine
	clk    clock.Clock
	st     models.GameState
	dirty  bool

	saveMu       sync.Mutex
	store        storage.Writer
	key          string
	saveInterval time.Duration
	lastSave     time.Time

	logger *slog.Logger
}

// NewSession starts a session from an already restored state
func NewSession(e *engine.Engine, clk clock.Clock, store storage.Writer, initial models.GameState, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		engine:       e,
		clk:          clk,
		st:           initial.Clone(),
		store:        store,
		key:          opts.StateKey,
		saveInterval: opts.SaveInterval,
		lastSave:     clk.Now(),
		logger:       logger,
	}
}

// Engine returns the engine the session dispatches to
func (s *Session) Engine() *engine.Engine {
	return s.engine
}

// State returns a snapshot of the current state
func (s *Session) State() models.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.Clone()
}

// Dispatch applies an action. A rejected action leaves the state as it was
// and returns the engine's error.
func (s *Session) Dispatch(action models.Action) (models.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.engine.Apply(s.st, action)
	if err != nil {
		s.logger.Debug("action rejected", "kind", action.Kind(), "error", err)
		return s.st.Clone(), err
	}
	s.st = next
	s.dirty = true
	if _, ok := action.(models.AdvanceTime); !ok {
		s.logger.Debug("action applied", "kind", action.Kind(), "resource", next.PrimaryResource.String())
	}
	return next.Clone(), nil
}

// Tick advances the game to the clock's current time
func (s *Session) Tick() models.GameState {
	st, _ := s.Dispatch(models.AdvanceTime{TimestampMillis: clock.Millis(s.clk.Now())})
	return st
}

// TickAndSave ticks and then saves if the save interval has passed. A failed
// save is logged and retried on a later call.
func (s *Session) TickAndSave(ctx context.Context) (models.GameState, error) {
	st := s.Tick()
	if err := s.maybeSave(ctx); err != nil {
		s.logger.Warn("save failed", "error", err)
		return st, err
	}
	return st, nil
}

// Buy ticks first so the purchase is priced against up-to-date resources
func (s *Session) Buy(id models.ProducerID, quantity int64) (models.GameState, error) {
	s.Tick()
	return s.Dispatch(models.Purchase{ProducerID: id, Quantity: quantity})
}

// Reset discards all progress, clears the saved game and saves the initial
// snapshot in its place
func (s *Session) Reset(ctx context.Context) (models.GameState, error) {
	st, _ := s.Dispatch(models.Reset{})
	s.logger.Info("game reset")
	if err := s.store.Delete(ctx, s.key); err != nil {
		return st, fmt.Errorf("failed to clear saved game: %w", err)
	}
	if err := s.Flush(ctx); err != nil {
		return st, err
	}
	return st, nil
}

// Flush saves the state if it changed since the last save
func (s *Session) Flush(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	if !s.dirty {
		s.mu.Unlock()
		return nil
	}
	snapshot := s.st.Clone()
	s.dirty = false
	s.mu.Unlock()

	if err := codec.Save(ctx, s.store, s.key, snapshot); err != nil {
		s.mu.Lock()
		s.dirty = true
		s.mu.Unlock()
		return err
	}
	s.lastSave = s.clk.Now()
	return nil
}

// maybeSave flushes once the save interval has passed
func (s *Session) maybeSave(ctx context.Context) error {
	s.saveMu.Lock()
	due := s.clk.Now().Sub(s.lastSave) >= s.saveInterval
	s.saveMu.Unlock()
	if !due {
		return nil
	}
	return s.Flush(ctx)
}

// Run ticks every interval until ctx is done, saving on the session's save
// interval. The state is flushed one last time before returning.
func (s *Session) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("tick interval must be positive, got %s", interval)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.Tick()
	for {
		select {
		case <-ctx.Done():
			// The caller's context is gone; give the last save its own.
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.Flush(flushCtx); err != nil {
				return fmt.Errorf("final save: %w", err)
			}
			return nil
		case <-ticker.C:
			_, _ = s.TickAndSave(ctx)
		}
	}
}
