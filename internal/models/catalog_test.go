package models

import (
	"errors"
	"reflect"
	"testing"

	"github.com/napolitain/idle-chain/internal/amount"
)

func producer(id ProducerID, target ProductionTarget) ProducerType {
	return ProducerType{
		ID:                 id,
		Label:              string(id),
		BasePrice:          amount.FromInt(10),
		PriceGrowthFactor:  amount.MustParse("1.2"),
		Target:             target,
		UnitProductionRate: amount.One,
	}
}

func TestChainOrderDerivedFromTargets(t *testing.T) {
	// Deliberately shuffled relative to the chain.
	cat, err := NewCatalog([]ProducerType{
		producer("beta", FeedsInto("alpha")),
		producer("alpha", Terminal()),
		producer("delta", FeedsInto("gamma")),
		producer("gamma", FeedsInto("beta")),
	})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}

	want := []ProducerID{"alpha", "beta", "gamma", "delta"}
	if got := cat.ChainOrder(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected chain %v, got %v", want, got)
	}

	if up, ok := cat.Upstream("alpha"); !ok || up != "beta" {
		t.Errorf("Upstream(alpha): expected beta, got %q (%v)", up, ok)
	}
	if _, ok := cat.Upstream("delta"); ok {
		t.Errorf("delta should have no upstream")
	}
}

func TestChainOrderMultipleTerminals(t *testing.T) {
	cat, err := NewCatalog([]ProducerType{
		producer("a", Terminal()),
		producer("b", Terminal()),
		producer("a2", FeedsInto("a")),
	})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	want := []ProducerID{"a", "a2", "b"}
	if got := cat.ChainOrder(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected chain %v, got %v", want, got)
	}
}

func TestCatalogValidation(t *testing.T) {
	badGrowth := producer("a", Terminal())
	badGrowth.PriceGrowthFactor = amount.One

	badPrice := producer("a", Terminal())
	badPrice.BasePrice = amount.Zero

	badRate := producer("a", Terminal())
	badRate.UnitProductionRate = amount.FromInt(-1)

	tests := []struct {
		name  string
		types []ProducerType
		want  error
	}{
		{"duplicate", []ProducerType{producer("a", Terminal()), producer("a", Terminal())}, ErrDuplicateProducer},
		{"unknown target", []ProducerType{producer("a", FeedsInto("ghost"))}, ErrUnknownTarget},
		{"growth not above one", []ProducerType{badGrowth}, ErrInvalidGrowth},
		{"zero price", []ProducerType{badPrice}, ErrInvalidPrice},
		{"negative rate", []ProducerType{badRate}, ErrInvalidRate},
		{"branching", []ProducerType{
			producer("a", Terminal()),
			producer("b", FeedsInto("a")),
			producer("c", FeedsInto("a")),
		}, ErrBranchingChain},
		{"cycle", []ProducerType{
			producer("a", Terminal()),
			producer("x", FeedsInto("y")),
			producer("y", FeedsInto("x")),
		}, ErrChainCycle},
		{"self loop", []ProducerType{producer("x", FeedsInto("x"))}, ErrChainCycle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.types)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestCatalogIsImmutable(t *testing.T) {
	types := []ProducerType{producer("a", Terminal())}
	cat, err := NewCatalog(types)
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}

	types[0].Label = "mutated"
	got := cat.Types()
	got[0].Label = "also mutated"
	cat.ChainOrder()[0] = "zzz"

	pt, ok := cat.Lookup("a")
	if !ok || pt.Label != "a" {
		t.Fatalf("catalog entry changed: %+v", pt)
	}
	if cat.ChainOrder()[0] != "a" {
		t.Fatalf("chain order changed")
	}
}

func TestProductionTarget(t *testing.T) {
	var zero ProductionTarget
	if !zero.IsTerminal() || zero != Terminal() {
		t.Fatalf("zero value should be Terminal")
	}
	id, ok := FeedsInto("alpha").Producer()
	if !ok || id != "alpha" {
		t.Fatalf("expected alpha, got %q", id)
	}
	if Terminal().String() != "energy" || FeedsInto("beta").String() != "beta" {
		t.Errorf("unexpected String output")
	}
}
