// Package advisor implements the capability interface between the council and
// the individual advisors. A remote adapter computes all numbers locally and
// asks an external text model only for qualitative guidance; an offline
// adapter synthesizes guidance from fixed rules. External providers are never
// trusted to do arithmetic.
package advisor

import (
	"context"

	"github.com/quantrell/many-futures/internal/model"
)

// Adapter is the single capability every advisor implements. A failed advise
// returns an error that the council downgrades to a failure-kind
// recommendation; it never aborts the council run.
type Adapter interface {
	Advise(ctx context.Context, profile model.Profile, assumptions model.AssumptionSet, persona model.Persona) (model.Recommendation, error)
}

// Canonical priority labels. The parser folds free-form provider text onto
// these so the divergence engine can compare orderings across advisors.
const (
	PriorityPayDownDebt   = "pay down debt"
	PriorityInvestSurplus = "invest the surplus"
	PriorityEmergencyFund = "build the emergency fund"
	PriorityAutomate      = "automate contributions"
)

// repairAttempts caps how many times a malformed provider response is
// re-requested before the advisor is downgraded to MalformedResponse.
const repairAttempts = 2
