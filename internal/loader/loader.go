package loader

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/napolitain/idle-chain/internal/amount"
	"github.com/napolitain/idle-chain/internal/models"
)

// terminalTarget is the feeds_into value for production that goes straight
// to the primary resource
const terminalTarget = "energy"

//go:embed data/producers.yaml
var defaultProducers []byte

// CatalogYAML represents the YAML structure for the producer catalog
type CatalogYAML struct {
	Producers []ProducerYAML `yaml:"producers"`
}

// ProducerYAML represents the YAML structure for a producer type
type ProducerYAML struct {
	ID                string         `yaml:"id"`
	Label             string         `yaml:"label"`
	BasePrice         *amount.Amount `yaml:"base_price"`
	PriceGrowthFactor *amount.Amount `yaml:"price_growth_factor"`
	FeedsInto         string         `yaml:"feeds_into"`
	ProductionRate    *amount.Amount `yaml:"production_rate"`
}

var (
	defaultOnce    sync.Once
	defaultCatalog *models.Catalog
	defaultErr     error
)

// DefaultCatalog returns the catalog compiled into the binary. It is parsed
// once and shared; the catalog is immutable.
func DefaultCatalog() (*models.Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = ParseCatalog(defaultProducers)
	})
	return defaultCatalog, defaultErr
}

// MustDefaultCatalog is DefaultCatalog for callers that cannot recover from a
// broken build.
func MustDefaultCatalog() *models.Catalog {
	cat, err := DefaultCatalog()
	if err != nil {
		panic(err)
	}
	return cat
}

// ParseCatalog parses and validates a YAML producer catalog
func ParseCatalog(data []byte) (*models.Catalog, error) {
	var raw CatalogYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse producer catalog: %w", err)
	}
	if len(raw.Producers) == 0 {
		return nil, fmt.Errorf("producer catalog is empty")
	}

	types := make([]models.ProducerType, 0, len(raw.Producers))
	for i, p := range raw.Producers {
		pt, err := p.toModel()
		if err != nil {
			return nil, fmt.Errorf("producer %d (%s): %w", i, p.ID, err)
		}
		types = append(types, pt)
	}

	cat, err := models.NewCatalog(types)
	if err != nil {
		return nil, fmt.Errorf("invalid producer catalog: %w", err)
	}
	return cat, nil
}

func (p ProducerYAML) toModel() (models.ProducerType, error) {
	switch {
	case p.ID == "":
		return models.ProducerType{}, fmt.Errorf("missing id")
	case p.BasePrice == nil:
		return models.ProducerType{}, fmt.Errorf("missing base_price")
	case p.PriceGrowthFactor == nil:
		return models.ProducerType{}, fmt.Errorf("missing price_growth_factor")
	case p.ProductionRate == nil:
		return models.ProducerType{}, fmt.Errorf("missing production_rate")
	case p.FeedsInto == "":
		return models.ProducerType{}, fmt.Errorf("missing feeds_into")
	}

	target := models.Terminal()
	if p.FeedsInto != terminalTarget {
		target = models.FeedsInto(models.ProducerID(p.FeedsInto))
	}

	label := p.Label
	if label == "" {
		label = p.ID
	}

	return models.ProducerType{
		ID:                 models.ProducerID(p.ID),
		Label:              label,
		BasePrice:          *p.BasePrice,
		PriceGrowthFactor:  *p.PriceGrowthFactor,
		Target:             target,
		UnitProductionRate: *p.ProductionRate,
	}, nil
}
