package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FailureKind classifies why an advisor produced no usable recommendation.
type FailureKind string

// Advisor failure kinds. An empty kind means the recommendation succeeded.
const (
	FailureNone                FailureKind = ""
	FailureTimeout             FailureKind = "TIMEOUT"
	FailureMalformedResponse   FailureKind = "MALFORMED_RESPONSE"
	FailureProviderUnavailable FailureKind = "PROVIDER_UNAVAILABLE"
	FailureInsufficientIncome  FailureKind = "INSUFFICIENT_INCOME"
)

// Guidance is the qualitative half of a recommendation: what the advisor
// says, as opposed to what the numbers say.
type Guidance struct {
	Priorities         []string        `json:"priorities"`
	Rationale          string          `json:"rationale"`
	BiggestRisk        string          `json:"biggest_risk"`
	KeyRecommendation  string          `json:"key_recommendation"`
	Confidence         string          `json:"confidence"`
	MonthlyInvestment  decimal.Decimal `json:"monthly_investment"`
	MonthlyDebtPayment decimal.Decimal `json:"monthly_debt_payment"`
}

// Provenance records where a recommendation came from for the audit trail.
type Provenance struct {
	Source     string        `json:"source"`
	ExchangeID uuid.UUID     `json:"exchange_id"`
	Elapsed    time.Duration `json:"elapsed"`

	// NumericMismatch is set when the provider claimed figures that disagree
	// with the locally recomputed projection beyond tolerance. The local
	// projection always wins.
	NumericMismatch bool `json:"numeric_mismatch"`
}

// Recommendation is one advisor's complete output for one council run.
type Recommendation struct {
	Persona     Persona       `json:"persona"`
	Assumptions AssumptionSet `json:"assumptions"`
	Projection  *Projection   `json:"projection,omitempty"`
	Guidance    Guidance      `json:"guidance"`
	Failure     FailureKind   `json:"failure,omitempty"`
	FailureNote string        `json:"failure_note,omitempty"`
	Provenance  Provenance    `json:"provenance"`
}

// Succeeded reports whether the advisor produced a usable recommendation.
func (r Recommendation) Succeeded() bool {
	return r.Failure == FailureNone && r.Projection != nil
}

// FailedRecommendation builds a failure-kind recommendation for an advisor
// that produced no usable output.
func FailedRecommendation(persona Persona, assumptions AssumptionSet, kind FailureKind, note string) Recommendation {
	return Recommendation{
		Persona:     persona,
		Assumptions: assumptions,
		Failure:     kind,
		FailureNote: note,
	}
}
