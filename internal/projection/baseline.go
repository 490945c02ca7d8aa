package projection

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/quantrell/many-futures/internal/finmath"
	"github.com/quantrell/many-futures/internal/model"
)

// Baseline holds the assumption-free metrics derived from a profile alone.
type Baseline struct {
	MonthlySurplus      decimal.Decimal `json:"monthly_surplus"`
	SavingsRatePct      float64         `json:"savings_rate_pct"`
	NetWorth            decimal.Decimal `json:"net_worth"`
	FIRENumber          decimal.Decimal `json:"fire_number"`
	MonthlyDebtPayment  decimal.Decimal `json:"monthly_debt_payment"`
	MonthlyInvestment   decimal.Decimal `json:"monthly_investment"`
	DebtPayoffMonths    int             `json:"debt_payoff_months"`
	DebtNeverAmortizes  bool            `json:"debt_never_amortizes"`
	EmergencyFundMonths float64         `json:"emergency_fund_months"`
	DebtToIncome        float64         `json:"debt_to_income"`
}

// ComputeBaseline derives the headline metrics shown before any advisor or
// assumption set enters the picture. The debt payment heuristic is the larger
// of 10% of income and half the surplus, capped at the surplus itself.
func ComputeBaseline(p model.Profile) Baseline {
	surplus := p.MonthlySurplus()

	debtPay := decimal.Zero
	totalDebt := p.TotalDebt()
	if totalDebt.IsPositive() {
		half := surplus.Mul(decimal.NewFromFloat(0.5))
		if half.GreaterThan(surplus) {
			half = surplus
		}
		debtPay = p.MonthlyIncome.Mul(decimal.NewFromFloat(0.10))
		if half.GreaterThan(debtPay) {
			debtPay = half
		}
		debtPay = debtPay.Round(2)
	}

	b := Baseline{
		MonthlySurplus:      surplus,
		SavingsRatePct:      p.SavingsRate().InexactFloat64() * 100,
		NetWorth:            p.NetWorth(),
		FIRENumber:          p.FIRENumber(),
		MonthlyDebtPayment:  debtPay,
		MonthlyInvestment:   decimal.Max(decimal.Zero, surplus.Sub(debtPay)),
		EmergencyFundMonths: p.EmergencyFundMonths().InexactFloat64(),
		DebtToIncome:        p.DebtToIncome().InexactFloat64(),
	}

	if totalDebt.IsPositive() {
		periods, err := finmath.PeriodsToZero(blendedRate(p), debtPay, totalDebt)
		if err != nil {
			b.DebtNeverAmortizes = true
		} else {
			b.DebtPayoffMonths = int(math.Ceil(periods))
		}
	}

	return b
}

// blendedRate is the principal-weighted average annual rate across all debts.
func blendedRate(p model.Profile) float64 {
	total := p.TotalDebt()
	if !total.IsPositive() {
		return 0
	}
	weighted := decimal.Zero
	for _, d := range p.Debts {
		weighted = weighted.Add(d.Principal.Mul(decimal.NewFromFloat(d.AnnualRate)))
	}
	return weighted.Div(total).InexactFloat64()
}

// HealthScore rates a profile on five dimensions, 0-100 each, plus a
// weighted overall score. Benchmarks: 20% savings rate, 6-month emergency
// fund, zero debt-to-income, all-savings asset mix, 30% cash-flow surplus.
type HealthScore struct {
	SavingsRate   float64 `json:"savings_rate"`
	EmergencyFund float64 `json:"emergency_fund"`
	DebtLoad      float64 `json:"debt_load"`
	InvestmentMix float64 `json:"investment_mix"`
	CashFlow      float64 `json:"cash_flow"`
	Overall       float64 `json:"overall"`
}

// Health scores the profile's current financial position.
func Health(p model.Profile) HealthScore {
	sr := p.SavingsRate().InexactFloat64() * 100
	em := p.EmergencyFundMonths().InexactFloat64()
	dti := p.DebtToIncome().InexactFloat64()

	total := p.LiquidSavings.Add(p.TotalDebt())
	mix := 100.0
	if total.IsPositive() {
		mix = p.LiquidSavings.Div(total).InexactFloat64() * 100
	}

	s := HealthScore{
		SavingsRate:   clamp(sr / 20 * 100),
		EmergencyFund: clamp(em / 6 * 100),
		DebtLoad:      clamp(100 - dti*100),
		InvestmentMix: clamp(mix),
		CashFlow:      clamp(sr / 30 * 100),
	}
	s.Overall = round1(s.SavingsRate*0.25 + s.EmergencyFund*0.20 + s.DebtLoad*0.20 +
		s.InvestmentMix*0.15 + s.CashFlow*0.20)
	return s
}

func clamp(v float64) float64 {
	return round1(math.Max(0, math.Min(100, v)))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
