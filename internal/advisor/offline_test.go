package advisor

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantrell/many-futures/internal/audit"
	"github.com/quantrell/many-futures/internal/model"
)

func TestOfflineAdapterStances(t *testing.T) {
	profile := advisorTestProfile()
	// Comfortable reserves so the stance itself drives the first priority.
	profile.LiquidSavings = decimal.NewFromInt(15000)
	adapter := NewOfflineAdapter()

	tests := []struct {
		name          string
		marketReturn  float64
		wantFirst     string
		investHeavier bool
	}{
		{
			name:          "aggressive assumptions lead with investing",
			marketReturn:  0.07,
			wantFirst:     PriorityInvestSurplus,
			investHeavier: true,
		},
		{
			name:         "conservative assumptions lead with safety",
			marketReturn: 0.05,
			wantFirst:    PriorityEmergencyFund,
		},
		{
			name:          "moderate assumptions lead with the debt",
			marketReturn:  0.065,
			wantFirst:     PriorityPayDownDebt,
			investHeavier: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assumptions := model.AssumptionSet{MarketReturn: tt.marketReturn, InflationRate: 0.03, HorizonYears: 30}

			rec, err := adapter.Advise(context.Background(), profile, assumptions, advisorTestPersona())
			require.NoError(t, err)

			require.True(t, rec.Succeeded())
			require.NotEmpty(t, rec.Guidance.Priorities)
			assert.Equal(t, tt.wantFirst, rec.Guidance.Priorities[0])
			assert.Equal(t, "offline", rec.Provenance.Source)
			assert.NotEmpty(t, rec.Guidance.Rationale)
			assert.NotEmpty(t, rec.Guidance.KeyRecommendation)

			if tt.investHeavier {
				assert.True(t, rec.Guidance.MonthlyInvestment.GreaterThan(rec.Guidance.MonthlyDebtPayment))
			}
		})
	}
}

func TestOfflineAdapterDeterministic(t *testing.T) {
	profile := advisorTestProfile()
	assumptions := advisorTestAssumptions()
	log := audit.NewLog()
	adapter := NewOfflineAdapter(WithOfflineAuditLog(log))

	first, err := adapter.Advise(context.Background(), profile, assumptions, advisorTestPersona())
	require.NoError(t, err)
	second, err := adapter.Advise(context.Background(), profile, assumptions, advisorTestPersona())
	require.NoError(t, err)

	assert.Equal(t, first.Guidance, second.Guidance)
	assert.True(t, first.Projection.NetWorthAt(30).Equal(second.Projection.NetWorthAt(30)))

	// Each call appends its own entry and the exchange IDs resolve to them.
	entries := log.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, first.Provenance.ExchangeID, entries[0].ID)
	assert.Equal(t, second.Provenance.ExchangeID, entries[1].ID)
	assert.NotEqual(t, first.Provenance.ExchangeID, second.Provenance.ExchangeID)
	assert.Equal(t, audit.EntryAdvisorCall, entries[0].Type)
	assert.Contains(t, entries[0].Detail, "net_worth_final")
	assert.Contains(t, entries[0].Detail, "key_recommendation")
}

func TestOfflineAdapterWithoutLogLeavesExchangeIDNil(t *testing.T) {
	rec, err := NewOfflineAdapter().Advise(context.Background(), advisorTestProfile(), advisorTestAssumptions(), advisorTestPersona())
	require.NoError(t, err)

	assert.Equal(t, uuid.Nil, rec.Provenance.ExchangeID)
}

func TestOfflineAdapterThinReserveLeadsWithEmergencyFund(t *testing.T) {
	profile := advisorTestProfile()
	profile.LiquidSavings = decimal.NewFromInt(2000) // under a month of expenses

	rec, err := NewOfflineAdapter().Advise(context.Background(), profile, advisorTestAssumptions(), advisorTestPersona())
	require.NoError(t, err)

	assert.Equal(t, PriorityEmergencyFund, rec.Guidance.Priorities[0])
}

func TestOfflineAdapterNoDebt(t *testing.T) {
	profile := advisorTestProfile()
	profile.Debts = nil
	profile.LiquidSavings = decimal.NewFromInt(15000)

	rec, err := NewOfflineAdapter().Advise(context.Background(), profile, advisorTestAssumptions(), advisorTestPersona())
	require.NoError(t, err)

	assert.Equal(t, PriorityInvestSurplus, rec.Guidance.Priorities[0])
	assert.True(t, rec.Guidance.MonthlyDebtPayment.IsZero())
	assert.True(t, rec.Guidance.MonthlyInvestment.Equal(profile.MonthlySurplus()))
}

func TestOfflineAdapterRespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewOfflineAdapter().Advise(ctx, advisorTestProfile(), advisorTestAssumptions(), advisorTestPersona())
	assert.Error(t, err)
}
