// Package codec converts game state to and from the string form handed to
// storage. Production targets are not persisted; they always come from the
// catalog.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/napolitain/idle-chain/internal/amount"
	"github.com/napolitain/idle-chain/internal/models"
)

// ErrMalformedState is returned for persisted data that cannot be trusted
var ErrMalformedState = errors.New("malformed persisted state")

// maxExponent bounds the decimal exponent accepted from storage. Larger
// exponents are never produced by play and are expensive to compare.
const maxExponent = 4096

type persistedState struct {
	PrimaryResource     *string                       `json:"primaryResource"`
	PrimaryResourceRate *string                       `json:"primaryResourceRate"`
	LastTickTimestamp   *int64                        `json:"lastTickTimestamp,omitempty"`
	Producers           *map[string]persistedProducer `json:"producers"`
}

type persistedProducer struct {
	Count             *string `json:"count"`
	FractionalCount   *string `json:"fractionalCount"`
	IncomingBoostRate *string `json:"incomingBoostRate"`
	Price             *string `json:"price"`
	OutputRate        *string `json:"outputRate"`
}

func str(a amount.Amount) *string {
	s := a.String()
	return &s
}

// Encode serializes s. Amounts are written as exact decimal strings.
func Encode(s models.GameState) (string, error) {
	producers := make(map[string]persistedProducer, len(s.Producers))
	out := persistedState{
		PrimaryResource:     str(s.PrimaryResource),
		PrimaryResourceRate: str(s.PrimaryResourceRate),
		LastTickTimestamp:   s.LastTick,
		Producers:           &producers,
	}
	for id, p := range s.Producers {
		producers[string(id)] = persistedProducer{
			Count:             str(p.Count),
			FractionalCount:   str(p.FractionalCount),
			IncomingBoostRate: str(p.IncomingBoostRate),
			Price:             str(p.Price),
			OutputRate:        str(p.OutputRate),
		}
	}

	data, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("failed to encode state: %w", err)
	}
	return string(data), nil
}

// Decode parses data produced by Encode. Output rates and the primary rate
// must agree with the catalog. Every failure wraps ErrMalformedState.
func Decode(catalog *models.Catalog, data string) (models.GameState, error) {
	if data == "" {
		return models.GameState{}, fmt.Errorf("%w: empty", ErrMalformedState)
	}

	var raw persistedState
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return models.GameState{}, fmt.Errorf("%w: %v", ErrMalformedState, err)
	}

	s := models.NewGameState()
	var err error
	if s.PrimaryResource, err = field("primaryResource", raw.PrimaryResource); err != nil {
		return models.GameState{}, err
	}
	if s.PrimaryResourceRate, err = field("primaryResourceRate", raw.PrimaryResourceRate); err != nil {
		return models.GameState{}, err
	}
	if raw.LastTickTimestamp != nil {
		ts := *raw.LastTickTimestamp
		s.LastTick = &ts
	}

	if raw.Producers == nil {
		return models.GameState{}, fmt.Errorf("%w: missing producers", ErrMalformedState)
	}

	terminal := amount.Zero
	for key, rp := range *raw.Producers {
		id := models.ProducerID(key)
		pt, ok := catalog.Lookup(id)
		if !ok {
			return models.GameState{}, fmt.Errorf("%w: unknown producer %q", ErrMalformedState, key)
		}
		p, err := rp.toModel(key)
		if err != nil {
			return models.GameState{}, err
		}
		if want := p.Count.Mul(pt.UnitProductionRate); !p.OutputRate.Equal(want) {
			return models.GameState{}, fmt.Errorf("%w: %s output rate %s, expected %s",
				ErrMalformedState, key, p.OutputRate, want)
		}
		if pt.Target.IsTerminal() {
			terminal = terminal.Add(p.OutputRate)
		}
		s.Producers[id] = p
	}
	if !s.PrimaryResourceRate.Equal(terminal) {
		return models.GameState{}, fmt.Errorf("%w: primary rate %s, expected %s",
			ErrMalformedState, s.PrimaryResourceRate, terminal)
	}

	return s, nil
}

func (rp persistedProducer) toModel(id string) (models.ProducerState, error) {
	var (
		p   models.ProducerState
		err error
	)
	fields := []struct {
		name string
		raw  *string
		dst  *amount.Amount
	}{
		{"count", rp.Count, &p.Count},
		{"fractionalCount", rp.FractionalCount, &p.FractionalCount},
		{"incomingBoostRate", rp.IncomingBoostRate, &p.IncomingBoostRate},
		{"price", rp.Price, &p.Price},
		{"outputRate", rp.OutputRate, &p.OutputRate},
	}
	for _, f := range fields {
		if *f.dst, err = field(id+"."+f.name, f.raw); err != nil {
			return models.ProducerState{}, err
		}
	}
	if !p.Count.Equal(p.FractionalCount.Floor()) {
		return models.ProducerState{}, fmt.Errorf("%w: %s count %s does not match fractional count %s",
			ErrMalformedState, id, p.Count, p.FractionalCount)
	}
	return p, nil
}

func field(name string, raw *string) (amount.Amount, error) {
	if raw == nil {
		return amount.Zero, fmt.Errorf("%w: missing %s", ErrMalformedState, name)
	}
	a, err := amount.Parse(*raw)
	if err != nil {
		return amount.Zero, fmt.Errorf("%w: %s: %v", ErrMalformedState, name, err)
	}
	if exp := a.Exponent(); exp > maxExponent || exp < -maxExponent {
		return amount.Zero, fmt.Errorf("%w: %s exponent %d out of range", ErrMalformedState, name, exp)
	}
	if a.IsNegative() {
		return amount.Zero, fmt.Errorf("%w: %s is negative", ErrMalformedState, name)
	}
	return a, nil
}
