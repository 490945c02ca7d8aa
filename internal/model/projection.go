package model

import "github.com/shopspring/decimal"

// NoRetirementReason explains why no retirement age could be estimated.
type NoRetirementReason string

// Reasons a projection reports no retirement age.
const (
	ReasonNotWithinHorizon NoRetirementReason = "NOT_WITHIN_HORIZON"
	ReasonNoSurplus        NoRetirementReason = "NO_SURPLUS"
)

// YearPoint is one year of a projected trajectory.
type YearPoint struct {
	Year                    int             `json:"year"`
	Age                     int             `json:"age"`
	Savings                 decimal.Decimal `json:"savings"`
	DebtRemaining           decimal.Decimal `json:"debt_remaining"`
	NetWorth                decimal.Decimal `json:"net_worth"`
	RealNetWorth            decimal.Decimal `json:"real_net_worth"`
	SavingsRate             decimal.Decimal `json:"savings_rate"`
	CumulativeContributions decimal.Decimal `json:"cumulative_contributions"`
}

// DebtOutcome reports how a single debt fared over the projection.
type DebtOutcome struct {
	Name         string `json:"name"`
	PayoffMonth  int    `json:"payoff_month"`
	NeverPaidOff bool   `json:"never_paid_off"`
}

// Projection is a deterministic year-by-year trajectory computed from one
// (Profile, AssumptionSet) pair. It is immutable once produced.
type Projection struct {
	Assumptions AssumptionSet `json:"assumptions"`
	Years       []YearPoint   `json:"years"`
	Debts       []DebtOutcome `json:"debts"`

	// RetirementAge is the age at which net worth first reaches the FIRE
	// number (25x annual expenses, the 4% rule); nil when never reached
	// in the horizon.
	RetirementAge      *int               `json:"retirement_age,omitempty"`
	NoRetirementReason NoRetirementReason `json:"no_retirement_reason,omitempty"`

	// DebtPayoffMonth is the first month with zero total debt.
	DebtPayoffMonth int  `json:"debt_payoff_month"`
	DebtPaidOff     bool `json:"debt_paid_off"`

	// ShortfallUnresolved marks a persistent deficit after savings ran out.
	ShortfallUnresolved bool `json:"shortfall_unresolved"`
	ShortfallMonths     int  `json:"shortfall_months"`
}

// At returns the year point for the given year, if within the horizon.
func (p Projection) At(year int) (YearPoint, bool) {
	if year < 0 || year >= len(p.Years) {
		return YearPoint{}, false
	}
	return p.Years[year], true
}

// NetWorthAt returns nominal net worth at the given year, zero if out of range.
func (p Projection) NetWorthAt(year int) decimal.Decimal {
	yp, ok := p.At(year)
	if !ok {
		return decimal.Zero
	}
	return yp.NetWorth
}

// Horizon is the final projected year.
func (p Projection) Horizon() int {
	return len(p.Years) - 1
}
