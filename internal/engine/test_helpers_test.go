package engine

import (
	"testing"

	"github.com/napolitain/idle-chain/internal/amount"
	"github.com/napolitain/idle-chain/internal/loader"
	"github.com/napolitain/idle-chain/internal/models"
)

// newDefaultEngine returns an engine over the shipped catalog
func newDefaultEngine(t testing.TB) *Engine {
	t.Helper()
	cat, err := loader.DefaultCatalog()
	if err != nil {
		t.Fatalf("Failed to load catalog: %v", err)
	}
	return New(cat)
}

// newTwoTierEngine returns an engine where "b" feeds "a" and "a" feeds the
// primary resource
func newTwoTierEngine(t testing.TB) *Engine {
	t.Helper()
	cat, err := models.NewCatalog([]models.ProducerType{
		{
			ID:                 "a",
			Label:              "A",
			BasePrice:          amount.FromInt(10),
			PriceGrowthFactor:  amount.MustParse("1.2"),
			Target:             models.Terminal(),
			UnitProductionRate: amount.One,
		},
		{
			ID:                 "b",
			Label:              "B",
			BasePrice:          amount.FromInt(100),
			PriceGrowthFactor:  amount.MustParse("1.5"),
			Target:             models.FeedsInto("a"),
			UnitProductionRate: amount.FromInt(2),
		},
	})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	return New(cat)
}

func withResource(s models.GameState, v string) models.GameState {
	s = s.Clone()
	s.PrimaryResource = amount.MustParse(v)
	return s
}

func mustPurchase(t testing.TB, e *Engine, s models.GameState, id models.ProducerID, qty int64) models.GameState {
	t.Helper()
	next, err := e.Purchase(s, id, qty)
	if err != nil {
		t.Fatalf("Purchase(%s, %d): %v", id, qty, err)
	}
	return next
}

// checkInvariants verifies the invariants every reachable state must hold
func checkInvariants(t testing.TB, e *Engine, s models.GameState) {
	t.Helper()

	rate := amount.Zero
	for id, p := range s.Producers {
		pt, ok := e.Catalog().Lookup(id)
		if !ok {
			t.Fatalf("state contains producer %q missing from catalog", id)
		}
		if !p.Count.Equal(p.FractionalCount.Floor()) {
			t.Fatalf("%s: count %s != floor(%s)", id, p.Count, p.FractionalCount)
		}
		if !p.OutputRate.Equal(p.Count.Mul(pt.UnitProductionRate)) {
			t.Fatalf("%s: output %s != count %s * rate %s", id, p.OutputRate, p.Count, pt.UnitProductionRate)
		}
		if p.Price.LessThan(pt.BasePrice) {
			t.Fatalf("%s: price %s below base %s", id, p.Price, pt.BasePrice)
		}
		if pt.Target.IsTerminal() {
			rate = rate.Add(p.OutputRate)
		}
	}
	if !s.PrimaryResourceRate.Equal(rate) {
		t.Fatalf("primary rate %s != sum of terminal output %s", s.PrimaryResourceRate, rate)
	}
	if s.PrimaryResource.IsNegative() {
		t.Fatalf("negative primary resource %s", s.PrimaryResource)
	}
}
