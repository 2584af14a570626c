package codec

import (
	"errors"
	"strings"
	"testing"

	"github.com/napolitain/idle-chain/internal/amount"
	"github.com/napolitain/idle-chain/internal/engine"
	"github.com/napolitain/idle-chain/internal/loader"
	"github.com/napolitain/idle-chain/internal/models"
)

func playedState(t *testing.T) models.GameState {
	t.Helper()
	e := engine.New(loader.MustDefaultCatalog())
	s := models.NewGameState()
	s.PrimaryResource = amount.MustParse("123456789012345678901234567890.5")

	var err error
	for _, buy := range []struct {
		id  models.ProducerID
		qty int64
	}{{"alpha", 7}, {"beta", 3}, {"gamma", 2}} {
		if s, err = e.Purchase(s, buy.id, buy.qty); err != nil {
			t.Fatalf("Purchase: %v", err)
		}
	}
	s = e.AdvanceTime(s, 1_000)
	s = e.AdvanceTime(s, 2_750)
	return s
}

func TestRoundTrip(t *testing.T) {
	cat := loader.MustDefaultCatalog()

	states := map[string]models.GameState{
		"initial": models.NewGameState(),
		"played":  playedState(t),
	}

	for name, want := range states {
		t.Run(name, func(t *testing.T) {
			data, err := Encode(want)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			got, err := Decode(cat, data)
			if err != nil {
				t.Fatalf("Decode: %v\n%s", err, data)
			}
			if !got.Equal(want) {
				t.Fatalf("round trip mismatch:\nwant %+v\ngot  %+v", want, got)
			}
		})
	}
}

func TestEncodeFormat(t *testing.T) {
	s := models.NewGameState()
	ts := int64(1_700_000_000_123)
	s.LastTick = &ts
	s.Producers["alpha"] = models.ProducerState{
		Count:             amount.FromInt(2),
		FractionalCount:   amount.MustParse("2.5"),
		IncomingBoostRate: amount.One,
		OutputRate:        amount.FromInt(2),
		Price:             amount.MustParse("14.4"),
	}

	data, err := Encode(s)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	for _, want := range []string{
		`"primaryResource":"10"`,
		`"primaryResourceRate":"0"`,
		`"lastTickTimestamp":1700000000123`,
		`"fractionalCount":"2.5"`,
		`"price":"14.4"`,
	} {
		if !strings.Contains(data, want) {
			t.Errorf("expected %s in %s", want, data)
		}
	}
	if strings.Contains(data, "feeds") || strings.Contains(data, "target") {
		t.Errorf("production target must not be persisted: %s", data)
	}

	s.LastTick = nil
	data, _ = Encode(s)
	if strings.Contains(data, "lastTickTimestamp") {
		t.Errorf("unset last tick should be omitted: %s", data)
	}
}

func TestDecodeMalformed(t *testing.T) {
	cat := loader.MustDefaultCatalog()
	producer := `{"count":"1","fractionalCount":"1.5","incomingBoostRate":"0","price":"12","outputRate":"1"}`

	tests := map[string]string{
		"empty":              ``,
		"garbage":            `not json at all`,
		"wrong shape":        `[1,2,3]`,
		"missing resource":   `{"primaryResourceRate":"0","producers":{}}`,
		"missing rate":       `{"primaryResource":"10","producers":{}}`,
		"bad decimal":        `{"primaryResource":"ten","primaryResourceRate":"0","producers":{}}`,
		"negative":           `{"primaryResource":"-1","primaryResourceRate":"0","producers":{}}`,
		"number not string":  `{"primaryResource":10,"primaryResourceRate":"0","producers":{}}`,
		"unknown producer":   `{"primaryResource":"10","primaryResourceRate":"0","producers":{"omega":` + producer + `}}`,
		"missing price":      `{"primaryResource":"10","primaryResourceRate":"0","producers":{"alpha":{"count":"1","fractionalCount":"1","incomingBoostRate":"0","outputRate":"1"}}}`,
		"count not floored":  `{"primaryResource":"10","primaryResourceRate":"0","producers":{"alpha":{"count":"2","fractionalCount":"1.5","incomingBoostRate":"0","price":"12","outputRate":"2"}}}`,
		"bad timestamp type": `{"primaryResource":"10","primaryResourceRate":"0","lastTickTimestamp":"yesterday","producers":{}}`,
		"missing producers":  `{"primaryResource":"1e40","primaryResourceRate":"0"}`,
		"null producers":     `{"primaryResource":"1e40","primaryResourceRate":"0","producers":null}`,
		"output rate off":    `{"primaryResource":"10","primaryResourceRate":"50","producers":{"alpha":{"count":"1","fractionalCount":"1","incomingBoostRate":"0","price":"12","outputRate":"50"}}}`,
		"primary rate off":   `{"primaryResource":"10","primaryResourceRate":"7","producers":{"alpha":{"count":"1","fractionalCount":"1","incomingBoostRate":"0","price":"12","outputRate":"1"}}}`,
		"upstream in rate":   `{"primaryResource":"10","primaryResourceRate":"2","producers":{"alpha":{"count":"1","fractionalCount":"1","incomingBoostRate":"1","price":"12","outputRate":"1"},"beta":{"count":"1","fractionalCount":"1","incomingBoostRate":"0","price":"120","outputRate":"1"}}}`,
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(cat, data)
			if !errors.Is(err, ErrMalformedState) {
				t.Fatalf("expected ErrMalformedState, got %v", err)
			}
		})
	}
}

func TestDecodeEmptyProducersMap(t *testing.T) {
	got, err := Decode(loader.MustDefaultCatalog(), `{"primaryResource":"3","primaryResourceRate":"0","producers":{}}`)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Producers == nil || len(got.Producers) != 0 {
		t.Fatalf("expected empty producer map, got %v", got.Producers)
	}
	if !got.PrimaryResource.Equal(amount.FromInt(3)) {
		t.Fatalf("expected 3, got %s", got.PrimaryResource)
	}
}

func FuzzDecode(f *testing.F) {
	f.Add(`{"primaryResource":"10","primaryResourceRate":"0","producers":{}}`)
	f.Add(`{"primaryResource":"1e40","primaryResourceRate":"1","lastTickTimestamp":5,"producers":{"alpha":{"count":"1","fractionalCount":"1","incomingBoostRate":"0","price":"12","outputRate":"1"}}}`)
	f.Add(`{}`)
	f.Add(`null`)

	cat := loader.MustDefaultCatalog()
	f.Fuzz(func(t *testing.T, data string) {
		s, err := Decode(cat, data)
		if err != nil {
			if !errors.Is(err, ErrMalformedState) {
				t.Fatalf("unexpected error type: %v", err)
			}
			return
		}
		rate := amount.Zero
		for id, p := range s.Producers {
			if !p.Count.Equal(p.FractionalCount.Floor()) {
				t.Fatalf("%s: decoded count breaks floor invariant", id)
			}
			if pt, _ := cat.Lookup(id); pt.Target.IsTerminal() {
				rate = rate.Add(p.OutputRate)
			}
		}
		if !s.PrimaryResourceRate.Equal(rate) {
			t.Fatalf("decoded primary rate %s, terminal output %s", s.PrimaryResourceRate, rate)
		}
	})
}

func TestDecodeRejectsAbsurdExponent(t *testing.T) {
	_, err := Decode(loader.MustDefaultCatalog(), `{"primaryResource":"1e2000000000","primaryResourceRate":"0","producers":{}}`)
	if !errors.Is(err, ErrMalformedState) {
		t.Fatalf("expected ErrMalformedState, got %v", err)
	}
}
