package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantrell/many-futures/internal/common"
)

func writeTempYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "file.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadProfile(t *testing.T) {
	path := writeTempYAML(t, `
age: 28
monthly_income: 6500
monthly_expenses: 4200
liquid_savings: 12000
risk_tolerance: medium
debts:
  - name: car loan
    principal: 18000
    annual_rate: 0.055
    minimum_payment: 350
`)

	profile, err := LoadProfile(path)
	require.NoError(t, err)

	assert.Equal(t, 28, profile.Age)
	assert.True(t, profile.MonthlyIncome.Equal(decimal.NewFromInt(6500)))
	require.Len(t, profile.Debts, 1)
	assert.Equal(t, "car loan", profile.Debts[0].Name)
	assert.InDelta(t, 0.055, profile.Debts[0].AnnualRate, 1e-9)
}

func TestLoadProfileInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "negative income",
			content: `
age: 28
monthly_income: -100
monthly_expenses: 4200
liquid_savings: 0
risk_tolerance: medium
`,
		},
		{
			name: "unknown risk tolerance",
			content: `
age: 28
monthly_income: 6500
monthly_expenses: 4200
liquid_savings: 0
risk_tolerance: yolo
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadProfile(writeTempYAML(t, tt.content))
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrInvalidProfile)
		})
	}
}

func TestLoadProfileMissingFile(t *testing.T) {
	_, err := LoadProfile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)

	var userErr *common.UserError
	assert.ErrorAs(t, err, &userErr)
}

func TestLoadReferenceRatesDefaults(t *testing.T) {
	rates, err := LoadReferenceRates("")
	require.NoError(t, err)
	assert.Equal(t, "defaults", rates.Source)
	assert.InDelta(t, 0.031, rates.InflationRate, 1e-9)
}

func TestLoadReferenceRatesFile(t *testing.T) {
	path := writeTempYAML(t, `
inflation_rate: 0.028
treasury_yield: 0.042
source: manual snapshot
`)

	rates, err := LoadReferenceRates(path)
	require.NoError(t, err)
	assert.InDelta(t, 0.028, rates.InflationRate, 1e-9)
	assert.InDelta(t, 0.042, rates.TreasuryYield, 1e-9)
	assert.Equal(t, "manual snapshot", rates.Source)
	// Unspecified fields keep their defaults.
	assert.InDelta(t, 0.0525, rates.FedFundsRate, 1e-9)
}
