package advisor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quantrell/many-futures/internal/audit"
	"github.com/quantrell/many-futures/internal/model"
	"github.com/quantrell/many-futures/internal/projection"
)

// OfflineAdapter voices a persona without any external provider. Guidance is
// synthesized from the persona's assumption set and the computed projection,
// so council runs work with no API keys and produce a stable baseline for
// tests. Numbers are identical to the remote path; only the prose differs.
type OfflineAdapter struct {
	log *audit.Log
}

// OfflineOption configures an OfflineAdapter.
type OfflineOption func(*OfflineAdapter)

// WithOfflineAuditLog records each advise call on the given log so offline
// recommendations carry resolvable provenance references.
func WithOfflineAuditLog(log *audit.Log) OfflineOption {
	return func(a *OfflineAdapter) { a.log = log }
}

// NewOfflineAdapter returns an adapter that needs no network.
func NewOfflineAdapter(opts ...OfflineOption) *OfflineAdapter {
	a := &OfflineAdapter{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Advise computes the projection and fills in rule-based guidance.
func (a *OfflineAdapter) Advise(ctx context.Context, profile model.Profile, assumptions model.AssumptionSet, persona model.Persona) (model.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return model.Recommendation{}, err
	}

	start := time.Now()

	proj, err := projection.Project(profile, assumptions)
	if err != nil {
		return model.Recommendation{}, fmt.Errorf("projection for %s: %w", persona.Name, err)
	}

	surplus := profile.MonthlySurplus()
	guidance := buildOfflineGuidance(profile, assumptions, proj, surplus)

	// Without a log there is no entry to reference, so the ID stays nil
	// rather than dangling.
	exchangeID := uuid.Nil
	if a.log != nil {
		detail := map[string]any{
			"elapsed_ms":         time.Since(start).Milliseconds(),
			"net_worth_final":    proj.NetWorthAt(proj.Horizon()).StringFixed(0),
			"key_recommendation": guidance.KeyRecommendation,
		}
		if proj.RetirementAge != nil {
			detail["retirement_age"] = *proj.RetirementAge
		}
		exchangeID = a.log.Append(audit.EntryAdvisorCall, persona.Name, "offline", detail)
	}

	return model.Recommendation{
		Persona:     persona,
		Assumptions: assumptions,
		Projection:  &proj,
		Guidance:    guidance,
		Provenance: model.Provenance{
			Source:     "offline",
			ExchangeID: exchangeID,
			Elapsed:    time.Since(start),
		},
	}, nil
}

// buildOfflineGuidance derives a stance from the assumption set. Higher
// assumed returns argue for investing through the debt; lower ones argue for
// clearing obligations first.
func buildOfflineGuidance(profile model.Profile, assumptions model.AssumptionSet, proj model.Projection, surplus decimal.Decimal) model.Guidance {
	half := surplus.Div(decimal.NewFromInt(2)).Round(2)
	hasDebt := profile.TotalDebt().IsPositive()
	thinReserve := profile.EmergencyFundMonths().LessThan(decimal.NewFromInt(3))

	var priorities []string
	var rationale, risk, key string

	switch {
	case assumptions.MarketReturn >= 0.066:
		priorities = []string{PriorityInvestSurplus, PriorityPayDownDebt, PriorityAutomate}
		rationale = fmt.Sprintf("At an assumed %.1f%% return, compounding on the surplus outpaces the carrying cost of this debt. Every month out of the market is foregone growth.",
			assumptions.MarketReturn*100)
		risk = "Sitting in cash while inflation erodes purchasing power."
		key = fmt.Sprintf("Direct $%s of the monthly surplus into broad index funds now and keep debt at minimum payments.", half.StringFixed(0))
	case assumptions.MarketReturn <= 0.055:
		priorities = []string{PriorityEmergencyFund, PriorityPayDownDebt, PriorityInvestSurplus}
		rationale = fmt.Sprintf("A %.1f%% return assumption leaves little margin over the debt's interest. Guaranteed savings from eliminating obligations beat uncertain market gains.",
			assumptions.MarketReturn*100)
		risk = "An income interruption with debt still outstanding and reserves thin."
		key = "Bring the emergency fund to six months of expenses, then retire the debt entirely before investing."
	default:
		priorities = []string{PriorityPayDownDebt, PriorityInvestSurplus, PriorityAutomate}
		rationale = fmt.Sprintf("With %.1f%% expected returns, splitting the surplus between the highest-rate debt and the market captures both the guaranteed and the probable gain.",
			assumptions.MarketReturn*100)
		risk = "Abandoning the plan after a market drawdown."
		key = fmt.Sprintf("Split the $%s surplus between the highest-rate debt and automated index contributions.", surplus.StringFixed(0))
	}

	if !hasDebt {
		priorities = []string{PriorityInvestSurplus, PriorityAutomate, PriorityEmergencyFund}
	}
	if thinReserve && priorities[0] != PriorityEmergencyFund {
		priorities = append([]string{PriorityEmergencyFund}, priorities...)
	}

	confidence := "Medium"
	if proj.RetirementAge != nil {
		confidence = "High"
	}

	investment, debtPayment := splitSurplus(assumptions, surplus, hasDebt)

	return model.Guidance{
		Priorities:         priorities,
		Rationale:          rationale,
		BiggestRisk:        risk,
		KeyRecommendation:  key,
		Confidence:         confidence,
		MonthlyInvestment:  investment,
		MonthlyDebtPayment: debtPayment,
	}
}

// splitSurplus allots the surplus between investing and extra debt payments
// along the same stance thresholds.
func splitSurplus(assumptions model.AssumptionSet, surplus decimal.Decimal, hasDebt bool) (investment, debtPayment decimal.Decimal) {
	if surplus.IsNegative() {
		return decimal.Zero, decimal.Zero
	}
	if !hasDebt {
		return surplus, decimal.Zero
	}

	var investShare decimal.Decimal
	switch {
	case assumptions.MarketReturn >= 0.066:
		investShare = decimal.NewFromFloat(0.8)
	case assumptions.MarketReturn <= 0.055:
		investShare = decimal.NewFromFloat(0.2)
	default:
		investShare = decimal.NewFromFloat(0.5)
	}

	investment = surplus.Mul(investShare).Round(2)
	debtPayment = surplus.Sub(investment).Round(2)
	return investment, debtPayment
}
