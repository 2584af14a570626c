// Package engine implements the game's state transitions. Every transition is
// a pure function of the catalog, the current state and the action: it
// returns a new state and never mutates its input.
package engine

import (
	"fmt"

	"github.com/napolitain/idle-chain/internal/amount"
	"github.com/napolitain/idle-chain/internal/models"
)

var millisPerSecond = amount.FromInt(1000)

// Engine applies actions against a fixed producer catalog
type Engine struct {
	catalog *models.Catalog
	chain   []models.ProducerID
}

// New creates an engine for the catalog
func New(catalog *models.Catalog) *Engine {
	return &Engine{
		catalog: catalog,
		chain:   catalog.ChainOrder(),
	}
}

// Catalog returns the engine's producer catalog
func (e *Engine) Catalog() *models.Catalog {
	return e.catalog
}

// Apply dispatches an action. On error the returned state is s.
func (e *Engine) Apply(s models.GameState, action models.Action) (models.GameState, error) {
	switch a := action.(type) {
	case models.AdvanceTime:
		return e.AdvanceTime(s, a.TimestampMillis), nil
	case models.Purchase:
		return e.Purchase(s, a.ProducerID, a.Quantity)
	case models.Reset:
		return e.Reset(), nil
	case nil:
		return s, fmt.Errorf("%w: nil", ErrUnknownAction)
	default:
		return s, fmt.Errorf("%w: %s", ErrUnknownAction, action.Kind())
	}
}

// AdvanceTime accrues production for the time since the last tick.
//
// The first tick only records the baseline. Otherwise producers are walked
// from most-downstream to most-upstream: each grows by the boost rate it had
// at the start of the tick, and then hands its new output rate to its target
// as the boost for the next tick.
func (e *Engine) AdvanceTime(s models.GameState, timestampMillis int64) models.GameState {
	next := s.Clone()
	next.LastTick = &timestampMillis

	if s.LastTick == nil {
		return next
	}

	elapsedMillis := timestampMillis - *s.LastTick
	if elapsedMillis <= 0 {
		// Clock corrections never run the economy backwards.
		return next
	}
	seconds := amount.FromInt(elapsedMillis).DivPrec(millisPerSecond, 3)

	rate := amount.Zero
	for _, id := range e.chain {
		p, owned := next.Producers[id]
		if !owned {
			continue
		}
		pt, _ := e.catalog.Lookup(id)

		p.FractionalCount = p.FractionalCount.Add(p.IncomingBoostRate.Mul(seconds))
		p.Count = p.FractionalCount.Floor()
		p.OutputRate = p.Count.Mul(pt.UnitProductionRate)
		next.Producers[id] = p

		target, feeds := pt.Target.Producer()
		if !feeds {
			rate = rate.Add(p.OutputRate)
			continue
		}
		// The target was already walked, so this boost applies from the next tick.
		if tp, ok := next.Producers[target]; ok {
			tp.IncomingBoostRate = p.OutputRate
			next.Producers[target] = tp
		}
	}

	next.PrimaryResourceRate = rate
	next.PrimaryResource = next.PrimaryResource.Add(rate.Mul(seconds))
	return next
}

// Purchase buys quantity units of a producer at the bulk price.
//
// The new units produce immediately: if the producer feeds an owned target,
// the target's boost rate rises now rather than on the next tick.
func (e *Engine) Purchase(s models.GameState, id models.ProducerID, quantity int64) (models.GameState, error) {
	if quantity <= 0 || quantity > MaxQuantity {
		return s, fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}
	pt, ok := e.catalog.Lookup(id)
	if !ok {
		return s, fmt.Errorf("%w: %s", ErrUnknownProducer, id)
	}

	current, owned := s.Producers[id]
	unitPrice := pt.BasePrice
	if owned {
		unitPrice = current.Price
	}

	cost := BulkPrice(unitPrice, pt.PriceGrowthFactor, quantity)
	if cost.GreaterThan(s.PrimaryResource) {
		return s, fmt.Errorf("%w: %s costs %s, have %s", ErrInsufficientResource, id, cost, s.PrimaryResource)
	}

	qty := amount.FromInt(quantity)
	next := s.Clone()
	next.PrimaryResource = next.PrimaryResource.Sub(cost)

	p := current
	if !owned {
		p = models.ProducerState{
			Count:             amount.Zero,
			FractionalCount:   amount.Zero,
			IncomingBoostRate: amount.Zero,
		}
	}
	p.FractionalCount = p.FractionalCount.Add(qty)
	p.Count = p.FractionalCount.Floor()
	p.Price = unitPrice.Mul(pt.PriceGrowthFactor.Pow(quantity))
	p.OutputRate = p.Count.Mul(pt.UnitProductionRate)
	next.Producers[id] = p

	if target, feeds := pt.Target.Producer(); feeds {
		if tp, ok := next.Producers[target]; ok {
			tp.IncomingBoostRate = tp.IncomingBoostRate.Add(qty.Mul(pt.UnitProductionRate))
			next.Producers[target] = tp
		}
	}

	next.PrimaryResourceRate = e.terminalRate(next)
	return next, nil
}

// Reset returns the initial snapshot
func (e *Engine) Reset() models.GameState {
	return models.NewGameState()
}

// terminalRate sums the output of every owned producer feeding the primary
// resource
func (e *Engine) terminalRate(s models.GameState) amount.Amount {
	rate := amount.Zero
	for _, id := range e.chain {
		p, owned := s.Producers[id]
		if !owned {
			continue
		}
		if pt, _ := e.catalog.Lookup(id); pt.Target.IsTerminal() {
			rate = rate.Add(p.OutputRate)
		}
	}
	return rate
}
