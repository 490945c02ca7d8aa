// Package model defines the core domain models used throughout the application.
package model

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/quantrell/many-futures/internal/common"
)

// RiskTolerance expresses how much volatility a client is willing to accept.
type RiskTolerance string

// Risk tolerance constants.
const (
	RiskLow    RiskTolerance = "low"
	RiskMedium RiskTolerance = "medium"
	RiskHigh   RiskTolerance = "high"
)

// Valid reports whether the risk tolerance is one of the known values.
func (r RiskTolerance) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

// Debt is a single liability carried by a client.
type Debt struct {
	Name           string          `json:"name"`
	Principal      decimal.Decimal `json:"principal"`
	AnnualRate     float64         `json:"annual_rate"`
	MinimumPayment decimal.Decimal `json:"minimum_payment"`
}

// Profile captures a client's financial position at the start of a run.
// It is passed by value into the core and never mutated by it.
type Profile struct {
	Age             int             `json:"age"`
	MonthlyIncome   decimal.Decimal `json:"monthly_income"`
	MonthlyExpenses decimal.Decimal `json:"monthly_expenses"`
	Debts           []Debt          `json:"debts"`
	LiquidSavings   decimal.Decimal `json:"liquid_savings"`
	RiskTolerance   RiskTolerance   `json:"risk_tolerance"`
}

// Validate rejects a profile that violates the ingestion contract.
// The ingestion boundary is expected to have range-checked everything already,
// so violations fail fast rather than being repaired.
func (p Profile) Validate() error {
	if p.Age < 0 {
		return fmt.Errorf("%w: age must be non-negative, got %d", common.ErrInvalidProfile, p.Age)
	}
	if p.MonthlyIncome.IsNegative() {
		return fmt.Errorf("%w: monthly income must be non-negative", common.ErrInvalidProfile)
	}
	if p.MonthlyExpenses.IsNegative() {
		return fmt.Errorf("%w: monthly expenses must be non-negative", common.ErrInvalidProfile)
	}
	if p.LiquidSavings.IsNegative() {
		return fmt.Errorf("%w: liquid savings must be non-negative", common.ErrInvalidProfile)
	}
	if !p.RiskTolerance.Valid() {
		return fmt.Errorf("%w: unknown risk tolerance %q", common.ErrInvalidProfile, p.RiskTolerance)
	}
	for i, d := range p.Debts {
		if d.Principal.IsNegative() {
			return fmt.Errorf("%w: debt %d principal must be non-negative", common.ErrInvalidProfile, i)
		}
		if d.AnnualRate < 0 {
			return fmt.Errorf("%w: debt %d annual rate must be non-negative", common.ErrInvalidProfile, i)
		}
		if d.MinimumPayment.IsNegative() {
			return fmt.Errorf("%w: debt %d minimum payment must be non-negative", common.ErrInvalidProfile, i)
		}
	}
	return nil
}

// MonthlySurplus is income minus expenses. Negative values are legal and
// represent a monthly deficit.
func (p Profile) MonthlySurplus() decimal.Decimal {
	return p.MonthlyIncome.Sub(p.MonthlyExpenses)
}

// AnnualIncome is twelve months of income.
func (p Profile) AnnualIncome() decimal.Decimal {
	return p.MonthlyIncome.Mul(decimal.NewFromInt(12))
}

// SavingsRate is surplus as a fraction of income, zero when there is no income.
func (p Profile) SavingsRate() decimal.Decimal {
	if p.MonthlyIncome.IsZero() {
		return decimal.Zero
	}
	return p.MonthlySurplus().Div(p.MonthlyIncome)
}

// TotalDebt sums the principal of every debt.
func (p Profile) TotalDebt() decimal.Decimal {
	total := decimal.Zero
	for _, d := range p.Debts {
		total = total.Add(d.Principal)
	}
	return total
}

// NetWorth is liquid savings minus total debt.
func (p Profile) NetWorth() decimal.Decimal {
	return p.LiquidSavings.Sub(p.TotalDebt())
}

// DebtToIncome is total debt as a fraction of annual income.
func (p Profile) DebtToIncome() decimal.Decimal {
	annual := p.AnnualIncome()
	if annual.IsZero() {
		return decimal.Zero
	}
	return p.TotalDebt().Div(annual)
}

// EmergencyFundMonths is how many months of expenses current savings cover.
func (p Profile) EmergencyFundMonths() decimal.Decimal {
	if p.MonthlyExpenses.IsZero() {
		return decimal.Zero
	}
	return p.LiquidSavings.Div(p.MonthlyExpenses)
}

// FIRENumber is 25x annual expenses, the portfolio size at which a 4%
// withdrawal sustains current spending.
func (p Profile) FIRENumber() decimal.Decimal {
	return p.MonthlyExpenses.Mul(decimal.NewFromInt(12)).Mul(decimal.NewFromInt(25))
}
