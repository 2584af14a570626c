package tui

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/napolitain/idle-chain/internal/amount"
	"github.com/napolitain/idle-chain/internal/clock"
	"github.com/napolitain/idle-chain/internal/codec"
	"github.com/napolitain/idle-chain/internal/engine"
	"github.com/napolitain/idle-chain/internal/game"
	"github.com/napolitain/idle-chain/internal/loader"
	"github.com/napolitain/idle-chain/internal/models"
	"github.com/napolitain/idle-chain/internal/storage"
)

func newModel(t *testing.T, resource string) (Model, *clock.Manual) {
	t.Helper()
	clk := clock.NewManual(time.Unix(1_700_000_000, 0))
	initial := models.NewGameState()
	initial.PrimaryResource = amount.MustParse(resource)
	session := game.NewSession(engine.New(loader.MustDefaultCatalog()), clk, storage.NewMemory(), initial, game.Options{
		StateKey: "game_state",
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return New(context.Background(), session, 100*time.Millisecond), clk
}

func press(t *testing.T, m Model, key string) Model {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestBuyFromKeys(t *testing.T) {
	m, _ := newModel(t, "100")

	m = press(t, m, "5")
	alpha := m.state.Producers["alpha"]
	if !alpha.Count.Equal(amount.FromInt(5)) {
		t.Fatalf("expected 5 alpha, got %s", alpha.Count)
	}
	if m.failed {
		t.Fatalf("purchase should have succeeded: %s", m.message)
	}

	// beta is now visible; 25.584 energy is not enough for it
	m = press(t, m, "down")
	m = press(t, m, "1")
	if m.state.Owns("beta") {
		t.Fatalf("beta should not be affordable")
	}
	if !m.failed || m.message != "not enough energy" {
		t.Fatalf("expected insufficient energy message, got %q", m.message)
	}
}

func TestSelectionStaysInRange(t *testing.T) {
	m, _ := newModel(t, "10")
	m = press(t, m, "up")
	m = press(t, m, "down")
	m = press(t, m, "down")
	if m.selected != 0 {
		t.Fatalf("only alpha is visible, selection should stay 0, got %d", m.selected)
	}
}

func TestTickAccrues(t *testing.T) {
	m, clk := newModel(t, "10")
	m = press(t, m, "1")

	clk.Advance(2 * time.Second)
	next, cmd := m.Update(tickMsg(clk.Now()))
	m = next.(Model)
	if cmd == nil {
		t.Fatalf("tick should schedule the next tick")
	}
	if !m.state.PrimaryResource.Equal(amount.FromInt(2)) {
		t.Fatalf("expected 2 energy, got %s", m.state.PrimaryResource)
	}
}

func TestTicksSaveOnInterval(t *testing.T) {
	clk := clock.NewManual(time.Unix(1_700_000_000, 0))
	store := storage.NewMemory()
	session := game.NewSession(engine.New(loader.MustDefaultCatalog()), clk, store, models.NewGameState(), game.Options{
		StateKey:     "game_state",
		SaveInterval: time.Second,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	m := New(context.Background(), session, 100*time.Millisecond)
	m = press(t, m, "1")

	for i := 0; i < 20; i++ {
		clk.Advance(100 * time.Millisecond)
		next, _ := m.Update(tickMsg(clk.Now()))
		m = next.(Model)
	}

	data, ok, err := store.Read(context.Background(), "game_state")
	if err != nil || !ok {
		t.Fatalf("expected a save after two seconds of play (ok=%v, err=%v)", ok, err)
	}
	saved, err := codec.Decode(loader.MustDefaultCatalog(), data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !saved.Owns("alpha") {
		t.Fatalf("saved game should include the purchase, got %+v", saved)
	}
}

func TestResetNeedsConfirmation(t *testing.T) {
	m, _ := newModel(t, "100")
	m = press(t, m, "1")

	m = press(t, m, "r")
	m = press(t, m, "n")
	if !m.state.Owns("alpha") {
		t.Fatalf("declined reset should keep progress")
	}

	m = press(t, m, "r")
	m = press(t, m, "y")
	if m.state.Owns("alpha") || !m.state.PrimaryResource.Equal(amount.FromInt(10)) {
		t.Fatalf("confirmed reset should restore the initial state, got %+v", m.state)
	}
}

func TestView(t *testing.T) {
	m, _ := newModel(t, "123456")
	m = press(t, m, "1")

	view := m.View()
	for _, want := range []string{"Energy", "1.234e+5", "Alpha", "Beta", "+10"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "Gamma") {
		t.Errorf("gamma should be hidden until beta is owned")
	}
}

func TestQuit(t *testing.T) {
	m, _ := newModel(t, "10")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatalf("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected QuitMsg")
	}
}
