package model

import "time"

// ReferenceRates is a point-in-time snapshot of external ground-truth rates.
// The core consumes it as opaque input; freshness is the caller's concern.
type ReferenceRates struct {
	InflationRate float64   `yaml:"inflation_rate" json:"inflation_rate"`
	TreasuryYield float64   `yaml:"treasury_yield" json:"treasury_yield"`
	FedFundsRate  float64   `yaml:"fed_funds_rate" json:"fed_funds_rate"`
	SavingsRate   float64   `yaml:"savings_rate" json:"savings_rate"`
	Date          time.Time `yaml:"date" json:"date"`
	Source        string    `yaml:"source" json:"source"`
}

// DefaultReferenceRates returns a built-in snapshot used when no external
// source is configured. Figures track long-run FRED series levels.
func DefaultReferenceRates() ReferenceRates {
	return ReferenceRates{
		InflationRate: 0.031,  // CPI YoY
		TreasuryYield: 0.045,  // 10-year treasury
		FedFundsRate:  0.0525, // federal funds rate
		SavingsRate:   0.0475, // HYSA, roughly 95% of fed funds
		Source:        "defaults",
	}
}
