// Package projection implements the deterministic financial simulator that
// turns a profile and an assumption set into a year-by-year trajectory.
//
// The debt policy is fixed and advisor-independent: monthly surplus goes
// first to minimum payments, then a fixed share of what remains to the
// highest-rate debt (avalanche), and the rest is invested. Personas diverge
// only through their assumption sets, never through the payoff policy.
package projection

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/quantrell/many-futures/internal/common"
	"github.com/quantrell/many-futures/internal/finmath"
	"github.com/quantrell/many-futures/internal/model"
)

var one = decimal.NewFromInt(1)

// Config holds the engine's fixed allocation policy.
type Config struct {
	// DebtShare is the fraction of post-minimum surplus directed at the
	// highest-rate debt each month; the remainder is invested.
	DebtShare decimal.Decimal
}

// DefaultConfig returns the default allocation policy.
func DefaultConfig() Config {
	return Config{DebtShare: decimal.NewFromFloat(0.40)}
}

// Project computes the trajectory for one (profile, assumptions) pair using
// the default policy. It is a pure function: identical inputs reproduce the
// identical projection.
func Project(profile model.Profile, assumptions model.AssumptionSet) (model.Projection, error) {
	return ProjectWithConfig(profile, assumptions, DefaultConfig())
}

// ProjectWithConfig computes the trajectory under a custom allocation policy.
func ProjectWithConfig(profile model.Profile, assumptions model.AssumptionSet, cfg Config) (model.Projection, error) {
	if err := profile.Validate(); err != nil {
		return model.Projection{}, err
	}
	if err := assumptions.Validate(); err != nil {
		return model.Projection{}, err
	}
	if !profile.MonthlyIncome.IsPositive() {
		return model.Projection{}, fmt.Errorf("%w: monthly income is zero", common.ErrInsufficientIncome)
	}
	if cfg.DebtShare.IsNegative() || cfg.DebtShare.GreaterThan(one) {
		return model.Projection{}, fmt.Errorf("debt share %s outside [0, 1]", cfg.DebtShare)
	}

	sim := newSimulation(profile, assumptions, cfg)
	sim.run()
	return sim.result(), nil
}

type debtState struct {
	name        string
	balance     decimal.Decimal
	monthlyRate decimal.Decimal
	minimum     decimal.Decimal
	payoffMonth int
	divergent   bool
}

type simulation struct {
	profile     model.Profile
	assumptions model.AssumptionSet
	cfg         Config

	savings       decimal.Decimal
	contributions decimal.Decimal
	surplus       decimal.Decimal
	returnRate    decimal.Decimal
	savingsRate   decimal.Decimal
	debts         []debtState

	years           []model.YearPoint
	debtPayoffMonth int
	debtPaidOff     bool
	shortfallMonths int
}

func newSimulation(profile model.Profile, assumptions model.AssumptionSet, cfg Config) *simulation {
	s := &simulation{
		profile:       profile,
		assumptions:   assumptions,
		cfg:           cfg,
		savings:       profile.LiquidSavings.Round(2),
		contributions: decimal.Zero,
		surplus:       profile.MonthlySurplus(),
		returnRate:    finmath.MonthlyRate(assumptions.MarketReturn),
		savingsRate:   profile.SavingsRate().Round(4),
	}

	for _, d := range profile.Debts {
		state := debtState{
			name:        d.Name,
			balance:     d.Principal.Round(2),
			monthlyRate: finmath.MonthlyRate(d.AnnualRate),
			minimum:     d.MinimumPayment,
		}
		// A minimum payment that cannot cover the interest accrual marks the
		// debt as never amortizing; the projection itself continues.
		if _, err := finmath.PeriodsToZero(d.AnnualRate, d.MinimumPayment, d.Principal); err != nil {
			state.divergent = true
		}
		s.debts = append(s.debts, state)
	}

	return s
}

func (s *simulation) run() {
	s.recordYear(0)

	months := s.assumptions.HorizonYears * 12
	for month := 1; month <= months; month++ {
		s.step(month)
		if month%12 == 0 {
			s.recordYear(month / 12)
		}
	}
}

// step advances the simulation one month: minimum payments, avalanche extra,
// then investment or savings drawdown.
func (s *simulation) step(month int) {
	cash := s.surplus

	for i := range s.debts {
		d := &s.debts[i]
		if !d.balance.IsPositive() {
			continue
		}
		interest := d.balance.Mul(d.monthlyRate).Round(2)
		d.balance = d.balance.Add(interest)

		payment := d.minimum
		if payment.GreaterThan(d.balance) {
			payment = d.balance
		}
		d.balance = d.balance.Sub(payment)
		cash = cash.Sub(payment)

		if d.balance.IsZero() && d.payoffMonth == 0 {
			d.payoffMonth = month
		}
	}

	if cash.IsPositive() {
		if target := s.highestRateDebt(); target != nil {
			extra := cash.Mul(s.cfg.DebtShare).Round(2)
			if extra.GreaterThan(target.balance) {
				extra = target.balance
			}
			target.balance = target.balance.Sub(extra)
			cash = cash.Sub(extra)

			if target.balance.IsZero() && target.payoffMonth == 0 {
				target.payoffMonth = month
			}
		}
	}

	s.savings = s.savings.Mul(one.Add(s.returnRate)).Round(2)
	switch {
	case cash.IsPositive():
		s.savings = s.savings.Add(cash)
		s.contributions = s.contributions.Add(cash)
	case cash.IsNegative():
		draw := cash.Neg()
		if s.savings.GreaterThanOrEqual(draw) {
			s.savings = s.savings.Sub(draw)
		} else {
			// Savings exhausted; the residual deficit has nowhere to go.
			s.savings = decimal.Zero
			s.shortfallMonths++
		}
	}

	if !s.debtPaidOff && len(s.debts) > 0 && s.totalDebt().IsZero() {
		s.debtPaidOff = true
		s.debtPayoffMonth = month
	}
}

func (s *simulation) highestRateDebt() *debtState {
	var target *debtState
	for i := range s.debts {
		d := &s.debts[i]
		if !d.balance.IsPositive() {
			continue
		}
		if target == nil || d.monthlyRate.GreaterThan(target.monthlyRate) {
			target = d
		}
	}
	return target
}

func (s *simulation) totalDebt() decimal.Decimal {
	total := decimal.Zero
	for _, d := range s.debts {
		total = total.Add(d.balance)
	}
	return total
}

func (s *simulation) recordYear(year int) {
	debt := s.totalDebt()
	netWorth := s.savings.Sub(debt)

	deflator := one.Add(decimal.NewFromFloat(s.assumptions.InflationRate)).
		Pow(decimal.NewFromInt(int64(year)))

	s.years = append(s.years, model.YearPoint{
		Year:                    year,
		Age:                     s.profile.Age + year,
		Savings:                 s.savings,
		DebtRemaining:           debt,
		NetWorth:                netWorth,
		RealNetWorth:            netWorth.Div(deflator).Round(2),
		SavingsRate:             s.savingsRate,
		CumulativeContributions: s.contributions,
	})
}

func (s *simulation) result() model.Projection {
	proj := model.Projection{
		Assumptions:         s.assumptions,
		Years:               s.years,
		DebtPayoffMonth:     s.debtPayoffMonth,
		DebtPaidOff:         s.debtPaidOff || len(s.debts) == 0,
		ShortfallUnresolved: s.shortfallMonths > 0,
		ShortfallMonths:     s.shortfallMonths,
	}

	for _, d := range s.debts {
		proj.Debts = append(proj.Debts, model.DebtOutcome{
			Name:         d.name,
			PayoffMonth:  d.payoffMonth,
			NeverPaidOff: d.divergent && d.payoffMonth == 0,
		})
	}

	fire := s.profile.FIRENumber()
	for _, yp := range s.years[1:] {
		if yp.NetWorth.GreaterThanOrEqual(fire) {
			age := yp.Age
			proj.RetirementAge = &age
			break
		}
	}
	if proj.RetirementAge == nil {
		if s.surplus.IsPositive() {
			proj.NoRetirementReason = model.ReasonNotWithinHorizon
		} else {
			proj.NoRetirementReason = model.ReasonNoSurplus
		}
	}

	return proj
}
