package models

import "github.com/napolitain/idle-chain/internal/amount"

// ProducerID identifies a producer type in the catalog
type ProducerID string

// ProductionTarget is where a producer's output goes: either the player's
// primary resource (Terminal) or the growth of another producer.
// The zero value is Terminal.
type ProductionTarget struct {
	producer ProducerID
}

// Terminal returns the target for direct accrual to the primary resource
func Terminal() ProductionTarget {
	return ProductionTarget{}
}

// FeedsInto returns the target for production boosting another producer
func FeedsInto(id ProducerID) ProductionTarget {
	return ProductionTarget{producer: id}
}

// IsTerminal reports whether production accrues to the primary resource
func (t ProductionTarget) IsTerminal() bool {
	return t.producer == ""
}

// Producer returns the fed producer, or false for Terminal
func (t ProductionTarget) Producer() (ProducerID, bool) {
	return t.producer, t.producer != ""
}

func (t ProductionTarget) String() string {
	if t.IsTerminal() {
		return "energy"
	}
	return string(t.producer)
}

// ProducerType contains static producer data
type ProducerType struct {
	ID                 ProducerID
	Label              string
	BasePrice          amount.Amount
	PriceGrowthFactor  amount.Amount // Always > 1
	Target             ProductionTarget
	UnitProductionRate amount.Amount // Per owned unit per second
}

// ProducerState is the dynamic state of an owned producer
type ProducerState struct {
	Count             amount.Amount // floor(FractionalCount)
	FractionalCount   amount.Amount
	IncomingBoostRate amount.Amount // Units per second supplied by the upstream producer
	OutputRate        amount.Amount // Count * UnitProductionRate
	Price             amount.Amount // Cost of the next single unit
}

// Equal compares numerically, ignoring representation differences like
// trailing zeros.
func (p ProducerState) Equal(o ProducerState) bool {
	return p.Count.Equal(o.Count) &&
		p.FractionalCount.Equal(o.FractionalCount) &&
		p.IncomingBoostRate.Equal(o.IncomingBoostRate) &&
		p.OutputRate.Equal(o.OutputRate) &&
		p.Price.Equal(o.Price)
}

// InitialPrimaryResource is what a new or reset game starts with
var InitialPrimaryResource = amount.FromInt(10)

// GameState represents the current game state
type GameState struct {
	PrimaryResource     amount.Amount
	PrimaryResourceRate amount.Amount
	Producers           map[ProducerID]ProducerState // Only owned producers
	LastTick            *int64                       // Unix millis, nil before the first tick
}

// NewGameState returns the initial snapshot
func NewGameState() GameState {
	return GameState{
		PrimaryResource:     InitialPrimaryResource,
		PrimaryResourceRate: amount.Zero,
		Producers:           make(map[ProducerID]ProducerState),
	}
}

// Clone returns a copy that shares no mutable structure with s
func (s GameState) Clone() GameState {
	c := s
	c.Producers = make(map[ProducerID]ProducerState, len(s.Producers))
	for id, p := range s.Producers {
		c.Producers[id] = p
	}
	if s.LastTick != nil {
		ts := *s.LastTick
		c.LastTick = &ts
	}
	return c
}

// Owns reports whether the player has bought the producer at least once
func (s GameState) Owns(id ProducerID) bool {
	_, ok := s.Producers[id]
	return ok
}

// Equal compares two states numerically
func (s GameState) Equal(o GameState) bool {
	if !s.PrimaryResource.Equal(o.PrimaryResource) || !s.PrimaryResourceRate.Equal(o.PrimaryResourceRate) {
		return false
	}
	if (s.LastTick == nil) != (o.LastTick == nil) {
		return false
	}
	if s.LastTick != nil && *s.LastTick != *o.LastTick {
		return false
	}
	if len(s.Producers) != len(o.Producers) {
		return false
	}
	for id, p := range s.Producers {
		q, ok := o.Producers[id]
		if !ok || !p.Equal(q) {
			return false
		}
	}
	return true
}
