// Package calibrate compares an assumption set's figures against an external
// snapshot of ground-truth rates. It annotates; it never mutates the
// assumption set or the projection pipeline.
package calibrate

import (
	"fmt"

	"github.com/quantrell/many-futures/internal/model"
)

// DefaultPremiumBand is the equity-risk-premium band applied when an
// assumption set does not carry its own.
var DefaultPremiumBand = model.PremiumBand{Min: 0.00, Max: 0.05}

// Verdict is the outcome of checking one assumption set against the snapshot.
type Verdict struct {
	// WithinBand reports whether the implied equity risk premium falls
	// inside the configured band.
	WithinBand bool `json:"within_band"`

	// InflationDelta is assumed minus observed inflation.
	InflationDelta float64 `json:"inflation_delta"`

	// ImpliedEquityPremium is the assumed market return minus the observed
	// treasury yield.
	ImpliedEquityPremium float64 `json:"implied_equity_premium"`

	Note string `json:"note"`
}

// Calibrate checks the assumption set's return and inflation figures against
// the reference snapshot. Pure comparison: the inputs are never modified.
func Calibrate(assumptions model.AssumptionSet, rates model.ReferenceRates) Verdict {
	band := DefaultPremiumBand
	if assumptions.PremiumBand != nil {
		band = *assumptions.PremiumBand
	}

	premium := assumptions.MarketReturn - rates.TreasuryYield
	v := Verdict{
		WithinBand:           premium >= band.Min && premium <= band.Max,
		InflationDelta:       assumptions.InflationRate - rates.InflationRate,
		ImpliedEquityPremium: premium,
	}

	switch {
	case !v.WithinBand && premium > band.Max:
		v.Note = fmt.Sprintf("implied equity premium %.1f%% exceeds band max %.1f%%",
			premium*100, band.Max*100)
	case !v.WithinBand:
		v.Note = fmt.Sprintf("implied equity premium %.1f%% below band min %.1f%%",
			premium*100, band.Min*100)
	default:
		v.Note = fmt.Sprintf("implied equity premium %.1f%% within band", premium*100)
	}

	return v
}

// CalibrateAll runs Calibrate for each assumption set, keyed by persona name.
func CalibrateAll(seats map[string]model.AssumptionSet, rates model.ReferenceRates) map[string]Verdict {
	verdicts := make(map[string]Verdict, len(seats))
	for name, as := range seats {
		verdicts[name] = Calibrate(as, rates)
	}
	return verdicts
}
