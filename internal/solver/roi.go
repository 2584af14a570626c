package solver

import (
	"github.com/napolitain/idle-chain/internal/amount"
	"github.com/napolitain/idle-chain/internal/models"
)

// ROIMetric represents the components of an ROI calculation
type ROIMetric struct {
	Gain amount.Amount // Extra energy produced over the horizon
	Cost amount.Amount
}

// Calculate computes the final ROI value
func (m ROIMetric) Calculate() float64 {
	if !m.Cost.IsPositive() {
		return m.Gain.Float64() * 1000
	}
	return m.Gain.DivPrec(m.Cost, 16).Float64()
}

// Candidate is a purchase the planner could make next
type Candidate struct {
	Producer models.ProducerID
	Cost     amount.Amount
	Metric   ROIMetric
	ROI      float64
}

// candidates ranks every visible producer by simulated ROI, best first.
// Producers whose purchase adds no energy within the horizon are left out.
func (p *Planner) candidates(s models.GameState, now int64) []Candidate {
	baseline := p.simulate(s, now)

	var out []Candidate
	for _, pt := range p.engine.Visible(s) {
		cost, err := p.engine.BulkPrice(s, pt.ID, 1)
		if err != nil {
			continue
		}

		// Price the purchase as if it were affordable right now.
		funded := s.Clone()
		funded.PrimaryResource = funded.PrimaryResource.Add(cost)
		bought, err := p.engine.Purchase(funded, pt.ID, 1)
		if err != nil {
			continue
		}
		after := p.simulate(bought, now)

		metric := ROIMetric{
			Gain: after.PrimaryResource.Sub(baseline.PrimaryResource),
			Cost: cost,
		}
		if !metric.Gain.IsPositive() {
			continue
		}
		out = append(out, Candidate{Producer: pt.ID, Cost: cost, Metric: metric, ROI: metric.Calculate()})
	}

	// Stable insertion sort keeps catalog order on ties
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].ROI > out[j-1].ROI; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// simulate advances s over the horizon in Resolution steps so that boosts
// from upstream producers reach the primary resource
func (p *Planner) simulate(s models.GameState, now int64) models.GameState {
	steps := int64(p.Resolution)
	if steps < 1 {
		steps = 1
	}
	for i := int64(1); i <= steps; i++ {
		s = p.engine.AdvanceTime(s, now+p.HorizonMillis*i/steps)
	}
	return s
}
