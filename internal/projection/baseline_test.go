package projection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantrell/many-futures/internal/model"
)

func TestComputeBaseline(t *testing.T) {
	b := ComputeBaseline(testProfile())

	assert.True(t, b.MonthlySurplus.Equal(money("2300")))
	assert.InDelta(t, 2300.0/6500.0*100, b.SavingsRatePct, 0.01)
	assert.True(t, b.NetWorth.Equal(money("-6000")))
	assert.True(t, b.FIRENumber.Equal(money("1260000")))

	// max(10% of income, half the surplus) = max(650, 1150) = 1150.
	assert.True(t, b.MonthlyDebtPayment.Equal(money("1150")), "got %s", b.MonthlyDebtPayment)
	assert.True(t, b.MonthlyInvestment.Equal(money("1150")))

	assert.False(t, b.DebtNeverAmortizes)
	assert.Greater(t, b.DebtPayoffMonths, 12)
	assert.Less(t, b.DebtPayoffMonths, 24)

	assert.InDelta(t, 12000.0/4200.0, b.EmergencyFundMonths, 0.01)
	assert.InDelta(t, 18000.0/78000.0, b.DebtToIncome, 0.001)
}

func TestComputeBaselineNoDebt(t *testing.T) {
	profile := testProfile()
	profile.Debts = nil

	b := ComputeBaseline(profile)
	assert.True(t, b.MonthlyDebtPayment.IsZero())
	assert.True(t, b.MonthlyInvestment.Equal(money("2300")))
	assert.Equal(t, 0, b.DebtPayoffMonths)
}

func TestComputeBaselineDivergentDebt(t *testing.T) {
	profile := testProfile()
	profile.MonthlyIncome = money("3600")
	profile.MonthlyExpenses = money("3500")
	profile.Debts = []model.Debt{
		{Name: "card", Principal: money("50000"), AnnualRate: 0.29, MinimumPayment: money("100")},
	}

	b := ComputeBaseline(profile)
	// Heuristic payment (10% of income = $360) cannot cover ~$1,208/mo interest.
	assert.True(t, b.DebtNeverAmortizes)
}

func TestHealthScore(t *testing.T) {
	tests := []struct {
		name    string
		profile model.Profile
		minAll  float64
		maxAll  float64
	}{
		{
			name:    "typical profile",
			profile: testProfile(),
			minAll:  30,
			maxAll:  90,
		},
		{
			name: "strong position",
			profile: model.Profile{
				Age:             35,
				MonthlyIncome:   money("10000"),
				MonthlyExpenses: money("3000"),
				LiquidSavings:   money("100000"),
				RiskTolerance:   model.RiskMedium,
			},
			minAll: 70,
			maxAll: 100,
		},
		{
			name: "struggling position",
			profile: model.Profile{
				Age:             45,
				MonthlyIncome:   money("3200"),
				MonthlyExpenses: money("3100"),
				Debts: []model.Debt{
					{Name: "card", Principal: money("40000"), AnnualRate: 0.22, MinimumPayment: money("90")},
				},
				LiquidSavings: money("500"),
				RiskTolerance: model.RiskLow,
			},
			minAll: 0,
			maxAll: 35,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Health(tt.profile)

			for name, v := range map[string]float64{
				"savings rate":   s.SavingsRate,
				"emergency fund": s.EmergencyFund,
				"debt load":      s.DebtLoad,
				"investment mix": s.InvestmentMix,
				"cash flow":      s.CashFlow,
				"overall":        s.Overall,
			} {
				assert.GreaterOrEqual(t, v, 0.0, name)
				assert.LessOrEqual(t, v, 100.0, name)
			}

			require.GreaterOrEqual(t, s.Overall, tt.minAll)
			require.LessOrEqual(t, s.Overall, tt.maxAll)
		})
	}
}
