// Package tui renders a running game session in the terminal.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/napolitain/idle-chain/internal/amount"
	"github.com/napolitain/idle-chain/internal/engine"
	"github.com/napolitain/idle-chain/internal/game"
	"github.com/napolitain/idle-chain/internal/models"
)

// BuyQuantities are the bulk sizes offered for every producer
var BuyQuantities = []int64{1, 5, 10}

const barWidth = 10

type tickMsg time.Time

// Model is the bubbletea model for the play screen
type Model struct {
	ctx      context.Context
	session  *game.Session
	interval time.Duration

	state        models.GameState
	selected     int
	confirmReset bool
	message      string
	failed       bool
}

// New returns a model that ticks session every interval
func New(ctx context.Context, session *game.Session, interval time.Duration) Model {
	return Model{
		ctx:      ctx,
		session:  session,
		interval: interval,
		state:    session.State(),
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		st, err := m.session.TickAndSave(m.ctx)
		m.state = st
		if err != nil {
			m.setResult("", err)
		}
		return m, m.tick()
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if m.confirmReset {
		m.confirmReset = false
		if key == "y" {
			st, err := m.session.Reset(m.ctx)
			m.state = st
			m.selected = 0
			m.setResult("progress reset", err)
		} else {
			m.setResult("reset cancelled", nil)
		}
		return m, nil
	}

	visible := m.session.Engine().Visible(m.state)
	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(visible)-1 {
			m.selected++
		}
	case "1", "5", "0":
		qty := map[string]int64{"1": 1, "5": 5, "0": 10}[key]
		if m.selected >= len(visible) {
			return m, nil
		}
		id := visible[m.selected].ID
		st, err := m.session.Buy(id, qty)
		m.state = st
		m.setResult(fmt.Sprintf("bought %d %s", qty, visible[m.selected].Label), err)
	case "r":
		m.confirmReset = true
		m.message = "reset all progress? (y/n)"
		m.failed = false
	}
	return m, nil
}

func (m *Model) setResult(ok string, err error) {
	switch {
	case err == nil:
		m.message, m.failed = ok, false
	case errors.Is(err, engine.ErrInsufficientResource):
		m.message, m.failed = "not enough energy", true
	default:
		m.message, m.failed = err.Error(), true
	}
}

func (m Model) View() string {
	e := m.session.Engine()
	var b strings.Builder

	b.WriteString(titleStyle.Render("Idle Chain"))
	b.WriteString("\n\n")
	b.WriteString("Energy: ")
	b.WriteString(resourceStyle.Render(amount.FormatRound(m.state.PrimaryResource)))
	b.WriteString("  ")
	b.WriteString(rateStyle.Render("+" + amount.Format(m.state.PrimaryResourceRate) + "/s"))
	b.WriteString("\n\n")

	header := fmt.Sprintf("  %-10s %12s %12s %12s", "Producer", "Count", "Boost/s", "Output/s")
	for _, q := range BuyQuantities {
		header += fmt.Sprintf(" %12s", fmt.Sprintf("+%d", q))
	}
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	for i, pt := range e.Visible(m.state) {
		p := m.state.Producers[pt.ID]
		cursor := "  "
		if i == m.selected {
			cursor = "> "
		}
		row := fmt.Sprintf("%-10s %12s %12s %12s",
			pt.Label,
			amount.FormatRound(p.Count),
			amount.Format(p.IncomingBoostRate),
			amount.Format(p.OutputRate),
		)
		if i == m.selected {
			row = selectedStyle.Render(row)
		}
		b.WriteString(cursor + row)
		for _, q := range BuyQuantities {
			b.WriteString(" " + m.priceCell(pt.ID, q))
		}
		b.WriteString("\n")
	}

	if sel, ok := m.selectedType(); ok {
		progress := e.Progress(m.state, sel.ID, 1)
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("Next %s: %s\n", sel.Label, progressBar(progress)))
	}

	if m.message != "" {
		b.WriteString("\n")
		if m.failed {
			b.WriteString(errorStyle.Render(m.message))
		} else {
			b.WriteString(m.message)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ select • 1/5/0 buy 1/5/10 • r reset • q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) selectedType() (models.ProducerType, bool) {
	visible := m.session.Engine().Visible(m.state)
	if m.selected < 0 || m.selected >= len(visible) {
		return models.ProducerType{}, false
	}
	return visible[m.selected], true
}

func (m Model) priceCell(id models.ProducerID, qty int64) string {
	e := m.session.Engine()
	price, err := e.BulkPrice(m.state, id, qty)
	if err != nil {
		return fmt.Sprintf("%12s", "-")
	}
	cell := fmt.Sprintf("%12s", amount.FormatRound(price))
	if e.CanAfford(m.state, id, qty) {
		return affordStyle.Render(cell)
	}
	return pricyStyle.Render(cell)
}

// progressBar draws p, a fraction in [0, 1], as a fixed width bar
func progressBar(p amount.Amount) string {
	filled := int(p.Mul(amount.FromInt(barWidth)).Floor().BigInt().Int64())
	if filled > barWidth {
		filled = barWidth
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	pct := p.Mul(amount.FromInt(100)).Floor()
	style := pricyStyle
	if filled == barWidth {
		style = affordStyle
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, style.Render(bar), fmt.Sprintf(" %s%%", pct))
}

// Run shows the play screen until the user quits
func Run(ctx context.Context, session *game.Session, interval time.Duration) error {
	p := tea.NewProgram(New(ctx, session, interval), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run terminal ui: %w", err)
	}
	return nil
}
