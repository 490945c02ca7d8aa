package model

import "github.com/shopspring/decimal"

// Divergence level bands, expressed as coefficient-of-variation percentages.
const (
	DivergenceLow    = "Low"
	DivergenceMedium = "Medium"
	DivergenceHigh   = "High"
)

// PairwiseDelta is the net-worth gap between two advisors at one horizon.
type PairwiseDelta struct {
	Horizon  int             `json:"horizon"`
	PersonaA string          `json:"persona_a"`
	PersonaB string          `json:"persona_b"`
	Delta    decimal.Decimal `json:"delta"`
}

// Attribution splits the outcome spread between the two assumption axes.
// Shares sum to 100 when defined.
type Attribution struct {
	Defined        bool    `json:"defined"`
	ReturnShare    float64 `json:"return_share"`
	InflationShare float64 `json:"inflation_share"`
}

// DivergenceResult quantifies how much the council disagrees and why.
// It is recomputed every run and never persisted on its own.
type DivergenceResult struct {
	Successes int `json:"successes"`

	// SpreadScore is max minus min net worth at the headline horizon:
	// 30 years, clipped to the run's final projected year.
	SpreadScore     decimal.Decimal         `json:"spread_score"`
	SpreadByHorizon map[int]decimal.Decimal `json:"spread_by_horizon"`
	PairwiseDeltas  []PairwiseDelta         `json:"pairwise_deltas"`

	Attribution Attribution `json:"attribution"`

	// Consensus is a fresh projection run under median assumptions, not an
	// average of trajectories.
	ConsensusAssumptions AssumptionSet `json:"consensus_assumptions"`
	Consensus            *Projection   `json:"consensus,omitempty"`

	Agreements    []string `json:"agreements"`
	Disagreements []string `json:"disagreements"`

	// DivergenceScore is the mean coefficient of variation across retirement
	// ages and horizon net worths, as a percentage.
	DivergenceScore float64 `json:"divergence_score"`
	DivergenceLevel string  `json:"divergence_level"`
}
