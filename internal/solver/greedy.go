// Package solver plans purchase orders by simulating the game forward and
// greedily buying the producer with the best return on investment.
package solver

import (
	"errors"
	"fmt"

	"github.com/napolitain/idle-chain/internal/amount"
	"github.com/napolitain/idle-chain/internal/engine"
	"github.com/napolitain/idle-chain/internal/models"
)

const (
	// DefaultHorizonMillis is how far ahead a purchase's payoff is simulated
	DefaultHorizonMillis int64 = 10 * 60 * 1000
	// DefaultMaxSteps bounds the number of purchases in a plan
	DefaultMaxSteps = 500
	// DefaultResolution is the number of ticks a horizon is simulated in
	DefaultResolution = 20

	maxWaitMillis int64 = 10 * 365 * 24 * 60 * 60 * 1000
)

// ErrUnreachable is returned when the target can never be reached from the
// given state
var ErrUnreachable = errors.New("target unreachable")

// Step is one purchase in a plan
type Step struct {
	AtMillis int64 // Milliseconds after the plan starts
	Producer models.ProducerID
	Cost     amount.Amount
	ROI      float64
	Energy   amount.Amount // Energy left after the purchase
	Rate     amount.Amount // Energy per second after the purchase
}

// Plan is the result of a planner run
type Plan struct {
	Steps        []Step
	TotalMillis  int64 // Time until the target is reached
	Final        models.GameState
	ReachedLimit bool // MaxSteps was hit before the target
}

// Planner implements the greedy simulation planner
type Planner struct {
	engine        *engine.Engine
	HorizonMillis int64
	MaxSteps      int
	Resolution    int
}

// NewPlanner creates a planner with the default horizon and step limit
func NewPlanner(e *engine.Engine) *Planner {
	return &Planner{
		engine:        e,
		HorizonMillis: DefaultHorizonMillis,
		MaxSteps:      DefaultMaxSteps,
		Resolution:    DefaultResolution,
	}
}

// Solve plans purchases from s until target energy is held. The input state
// is not modified.
func (p *Planner) Solve(s models.GameState, target amount.Amount) (*Plan, error) {
	if p.HorizonMillis <= 0 {
		return nil, fmt.Errorf("horizon must be positive, got %d", p.HorizonMillis)
	}

	start := int64(0)
	if s.LastTick != nil {
		start = *s.LastTick
	}
	state := p.engine.AdvanceTime(s, start)
	now := start

	plan := &Plan{}
	for len(plan.Steps) < p.MaxSteps {
		if !state.PrimaryResource.LessThan(target) {
			break
		}

		targetWait, targetOK := waitFor(state, target)
		best, bestWait, ok := p.selectNext(state, now)

		// Waiting out the target beats any purchase that takes as long to afford
		if !ok || (targetOK && targetWait <= bestWait) {
			if !targetOK {
				return nil, fmt.Errorf("%w: no income and no affordable producer", ErrUnreachable)
			}
			now += targetWait
			state = p.engine.AdvanceTime(state, now)
			break
		}

		now += bestWait
		state = p.engine.AdvanceTime(state, now)

		next, err := p.engine.Purchase(state, best.Producer, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to buy %s at %dms: %w", best.Producer, now-start, err)
		}
		state = next
		plan.Steps = append(plan.Steps, Step{
			AtMillis: now - start,
			Producer: best.Producer,
			Cost:     best.Cost,
			ROI:      best.ROI,
			Energy:   state.PrimaryResource,
			Rate:     state.PrimaryResourceRate,
		})
	}

	plan.ReachedLimit = state.PrimaryResource.LessThan(target)
	plan.TotalMillis = now - start
	plan.Final = state
	return plan, nil
}

// selectNext returns the best ranked candidate that can ever be afforded,
// with the time needed to afford it
func (p *Planner) selectNext(s models.GameState, now int64) (Candidate, int64, bool) {
	for _, c := range p.candidates(s, now) {
		if wait, ok := waitFor(s, c.Cost); ok {
			return c, wait, true
		}
	}
	return Candidate{}, 0, false
}

// waitFor returns the milliseconds until the primary resource reaches amt at
// the current rate. Rates never decrease while time passes, so this is an
// upper bound.
func waitFor(s models.GameState, amt amount.Amount) (int64, bool) {
	shortfall := amt.Sub(s.PrimaryResource)
	if !shortfall.IsPositive() {
		return 0, true
	}
	if !s.PrimaryResourceRate.IsPositive() {
		return 0, false
	}

	ms := shortfall.Mul(amount.FromInt(1000)).DivPrec(s.PrimaryResourceRate, 0)
	if ms.Mul(s.PrimaryResourceRate).LessThan(shortfall.Mul(amount.FromInt(1000))) {
		ms = ms.Add(amount.One)
	}
	if ms.GreaterThan(amount.FromInt(maxWaitMillis)) {
		return 0, false
	}
	return ms.BigInt().Int64(), true
}
