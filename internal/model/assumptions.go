package model

import (
	"fmt"

	"github.com/quantrell/many-futures/internal/common"
)

// StandardHorizons are the projection horizons reported for every council run.
var StandardHorizons = []int{10, 30}

// PremiumBand is an optional equity-risk-premium band used by calibration.
type PremiumBand struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// AssumptionSet is one economic scenario: a market return paired with an
// inflation rate. Each set is bound to exactly one persona for the lifetime
// of a council run and is never mutated after creation.
type AssumptionSet struct {
	MarketReturn  float64      `yaml:"market_return" json:"market_return"`
	InflationRate float64      `yaml:"inflation_rate" json:"inflation_rate"`
	HorizonYears  int          `yaml:"horizon_years" json:"horizon_years"`
	PremiumBand   *PremiumBand `yaml:"premium_band,omitempty" json:"premium_band,omitempty"`
}

// Validate rejects an assumption set with nonsensical figures.
func (a AssumptionSet) Validate() error {
	if a.HorizonYears <= 0 {
		return fmt.Errorf("%w: horizon years must be positive, got %d", common.ErrInvalidAssumptions, a.HorizonYears)
	}
	if a.MarketReturn < -1 || a.MarketReturn > 1 {
		return fmt.Errorf("%w: market return %.3f outside [-1, 1]", common.ErrInvalidAssumptions, a.MarketReturn)
	}
	if a.InflationRate < -1 || a.InflationRate > 1 {
		return fmt.Errorf("%w: inflation rate %.3f outside [-1, 1]", common.ErrInvalidAssumptions, a.InflationRate)
	}
	if a.PremiumBand != nil && a.PremiumBand.Min > a.PremiumBand.Max {
		return fmt.Errorf("%w: premium band min %.3f exceeds max %.3f", common.ErrInvalidAssumptions, a.PremiumBand.Min, a.PremiumBand.Max)
	}
	return nil
}

// Persona is the advisory identity presented to the user. It is purely
// presentational and carries no numeric state.
type Persona struct {
	Name       string `yaml:"name" json:"name"`
	Title      string `yaml:"title" json:"title"`
	Philosophy string `yaml:"philosophy" json:"philosophy"`
}
