package models

import (
	"errors"
	"fmt"

	"github.com/napolitain/idle-chain/internal/amount"
)

var (
	ErrDuplicateProducer = errors.New("duplicate producer id")
	ErrUnknownTarget     = errors.New("unknown production target")
	ErrInvalidGrowth     = errors.New("price growth factor must be greater than 1")
	ErrInvalidPrice      = errors.New("base price must be positive")
	ErrInvalidRate       = errors.New("unit production rate must not be negative")
	ErrBranchingChain    = errors.New("producer fed by more than one upstream")
	ErrChainCycle        = errors.New("production chain contains a cycle")
)

// Catalog is the immutable, ordered table of producer types
type Catalog struct {
	types    []ProducerType
	byID     map[ProducerID]int
	upstream map[ProducerID]ProducerID
	chain    []ProducerID
}

// NewCatalog validates the producer types and derives the chain order
func NewCatalog(types []ProducerType) (*Catalog, error) {
	c := &Catalog{
		types:    make([]ProducerType, len(types)),
		byID:     make(map[ProducerID]int, len(types)),
		upstream: make(map[ProducerID]ProducerID),
	}
	copy(c.types, types)

	for i, pt := range c.types {
		if pt.ID == "" {
			return nil, fmt.Errorf("producer %d: empty id", i)
		}
		if _, dup := c.byID[pt.ID]; dup {
			return nil, fmt.Errorf("%s: %w", pt.ID, ErrDuplicateProducer)
		}
		c.byID[pt.ID] = i
	}

	for _, pt := range c.types {
		if !pt.PriceGrowthFactor.GreaterThan(amount.One) {
			return nil, fmt.Errorf("%s: %w (got %s)", pt.ID, ErrInvalidGrowth, pt.PriceGrowthFactor)
		}
		if !pt.BasePrice.IsPositive() {
			return nil, fmt.Errorf("%s: %w (got %s)", pt.ID, ErrInvalidPrice, pt.BasePrice)
		}
		if pt.UnitProductionRate.IsNegative() {
			return nil, fmt.Errorf("%s: %w (got %s)", pt.ID, ErrInvalidRate, pt.UnitProductionRate)
		}
		target, feeds := pt.Target.Producer()
		if !feeds {
			continue
		}
		if _, ok := c.byID[target]; !ok {
			return nil, fmt.Errorf("%s -> %s: %w", pt.ID, target, ErrUnknownTarget)
		}
		if prev, taken := c.upstream[target]; taken {
			return nil, fmt.Errorf("%s fed by %s and %s: %w", target, prev, pt.ID, ErrBranchingChain)
		}
		c.upstream[target] = pt.ID
	}

	chain, err := c.deriveChainOrder()
	if err != nil {
		return nil, err
	}
	c.chain = chain
	return c, nil
}

// deriveChainOrder walks upstream from every terminal producer, so each
// producer appears after the producer it feeds.
func (c *Catalog) deriveChainOrder() ([]ProducerID, error) {
	order := make([]ProducerID, 0, len(c.types))
	seen := make(map[ProducerID]bool, len(c.types))

	for _, pt := range c.types {
		if !pt.Target.IsTerminal() {
			continue
		}
		for id, ok := pt.ID, true; ok; id, ok = c.upstream[id] {
			if seen[id] {
				return nil, fmt.Errorf("%s: %w", id, ErrChainCycle)
			}
			seen[id] = true
			order = append(order, id)
		}
	}

	// Anything not reachable from a terminal producer sits on a cycle.
	if len(order) != len(c.types) {
		for _, pt := range c.types {
			if !seen[pt.ID] {
				return nil, fmt.Errorf("%s: %w", pt.ID, ErrChainCycle)
			}
		}
	}
	return order, nil
}

// Lookup returns the producer type with the given id
func (c *Catalog) Lookup(id ProducerID) (ProducerType, bool) {
	i, ok := c.byID[id]
	if !ok {
		return ProducerType{}, false
	}
	return c.types[i], true
}

// Upstream returns the producer feeding into id, if any
func (c *Catalog) Upstream(id ProducerID) (ProducerID, bool) {
	up, ok := c.upstream[id]
	return up, ok
}

// Types returns the producer types in catalog order
func (c *Catalog) Types() []ProducerType {
	out := make([]ProducerType, len(c.types))
	copy(out, c.types)
	return out
}

// ChainOrder returns producer ids from most-downstream to most-upstream
func (c *Catalog) ChainOrder() []ProducerID {
	out := make([]ProducerID, len(c.chain))
	copy(out, c.chain)
	return out
}

// Len returns the number of producer types
func (c *Catalog) Len() int {
	return len(c.types)
}
