package calibrate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quantrell/many-futures/internal/model"
)

func TestCalibrate(t *testing.T) {
	rates := model.ReferenceRates{
		InflationRate: 0.031,
		TreasuryYield: 0.045,
	}

	tests := []struct {
		name           string
		assumptions    model.AssumptionSet
		wantWithinBand bool
		wantPremium    float64
		wantInflDelta  float64
	}{
		{
			name:           "moderate return within default band",
			assumptions:    model.AssumptionSet{MarketReturn: 0.065, InflationRate: 0.03, HorizonYears: 30},
			wantWithinBand: true,
			wantPremium:    0.02,
			wantInflDelta:  -0.001,
		},
		{
			name:           "aggressive return still inside band",
			assumptions:    model.AssumptionSet{MarketReturn: 0.07, InflationRate: 0.025, HorizonYears: 30},
			wantWithinBand: true,
			wantPremium:    0.025,
			wantInflDelta:  -0.006,
		},
		{
			name:           "negative premium below band",
			assumptions:    model.AssumptionSet{MarketReturn: 0.03, InflationRate: 0.035, HorizonYears: 30},
			wantWithinBand: false,
			wantPremium:    -0.015,
			wantInflDelta:  0.004,
		},
		{
			name: "custom band rejects conservative return",
			assumptions: model.AssumptionSet{
				MarketReturn:  0.05,
				InflationRate: 0.035,
				HorizonYears:  30,
				PremiumBand:   &model.PremiumBand{Min: 0.02, Max: 0.05},
			},
			wantWithinBand: false,
			wantPremium:    0.005,
			wantInflDelta:  0.004,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Calibrate(tt.assumptions, rates)

			assert.Equal(t, tt.wantWithinBand, v.WithinBand)
			assert.InDelta(t, tt.wantPremium, v.ImpliedEquityPremium, 1e-9)
			assert.InDelta(t, tt.wantInflDelta, v.InflationDelta, 1e-9)
			assert.NotEmpty(t, v.Note)
		})
	}
}

func TestCalibrateDoesNotMutate(t *testing.T) {
	as := model.AssumptionSet{MarketReturn: 0.065, InflationRate: 0.03, HorizonYears: 30}
	before := as

	_ = Calibrate(as, model.DefaultReferenceRates())
	assert.Equal(t, before, as)
}

func TestCalibrateAll(t *testing.T) {
	verdicts := CalibrateAll(map[string]model.AssumptionSet{
		"Alex Chen":    {MarketReturn: 0.07, InflationRate: 0.025, HorizonYears: 30},
		"Morgan Wells": {MarketReturn: 0.05, InflationRate: 0.035, HorizonYears: 30},
	}, model.DefaultReferenceRates())

	assert.Len(t, verdicts, 2)
	assert.Contains(t, verdicts, "Alex Chen")
	assert.Contains(t, verdicts, "Morgan Wells")
}
