package engine

import (
	"fmt"

	"github.com/napolitain/idle-chain/internal/amount"
	"github.com/napolitain/idle-chain/internal/models"
)

// MaxQuantity bounds a single purchase
const MaxQuantity int64 = 1_000_000

// BulkPrice is the cost of quantity consecutive units when the first costs
// unitPrice and each next one costs growth times the previous:
//
//	unitPrice * (growth^quantity - 1) / (growth - 1)
//
// The geometric sum is a terminating decimal, so the division is carried out
// with enough digits to be exact and the result equals buying one at a time.
func BulkPrice(unitPrice, growth amount.Amount, quantity int64) amount.Amount {
	if quantity <= 0 {
		return amount.Zero
	}
	qty := amount.FromInt(quantity)
	if growth.Equal(amount.One) {
		return unitPrice.Mul(qty)
	}

	precision := growth.Scale()*int32(quantity) + amount.DivisionPrecision
	factor := growth.Pow(quantity).Sub(amount.One).DivPrec(growth.Sub(amount.One), precision)
	return unitPrice.Mul(factor)
}

// NextPrice is the price of the next single unit of a producer
func (e *Engine) NextPrice(s models.GameState, id models.ProducerID) (amount.Amount, error) {
	pt, ok := e.catalog.Lookup(id)
	if !ok {
		return amount.Zero, fmt.Errorf("%w: %s", ErrUnknownProducer, id)
	}
	if p, owned := s.Producers[id]; owned {
		return p.Price, nil
	}
	return pt.BasePrice, nil
}

// BulkPrice is the cost of buying quantity units of a producer in state s
func (e *Engine) BulkPrice(s models.GameState, id models.ProducerID, quantity int64) (amount.Amount, error) {
	if quantity <= 0 || quantity > MaxQuantity {
		return amount.Zero, fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}
	price, err := e.NextPrice(s, id)
	if err != nil {
		return amount.Zero, err
	}
	pt, _ := e.catalog.Lookup(id)
	return BulkPrice(price, pt.PriceGrowthFactor, quantity), nil
}

// CanAfford reports whether a purchase would be accepted
func (e *Engine) CanAfford(s models.GameState, id models.ProducerID, quantity int64) bool {
	cost, err := e.BulkPrice(s, id, quantity)
	if err != nil {
		return false
	}
	return !cost.GreaterThan(s.PrimaryResource)
}

// Progress is how far the player is towards affording a purchase, from 0 to 1
func (e *Engine) Progress(s models.GameState, id models.ProducerID, quantity int64) amount.Amount {
	cost, err := e.BulkPrice(s, id, quantity)
	if err != nil || !cost.IsPositive() {
		return amount.Zero
	}
	if !cost.GreaterThan(s.PrimaryResource) {
		return amount.One
	}
	return s.PrimaryResource.Max(amount.Zero).DivPrec(cost, 4)
}

// Visible returns the producer types the player can currently interact with,
// in catalog order: those feeding the primary resource and those whose
// target is already owned.
func (e *Engine) Visible(s models.GameState) []models.ProducerType {
	var out []models.ProducerType
	for _, pt := range e.catalog.Types() {
		target, feeds := pt.Target.Producer()
		if !feeds || s.Owns(target) {
			out = append(out, pt)
		}
	}
	return out
}
