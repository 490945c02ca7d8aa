package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/quantrell/many-futures/internal/common"
	"github.com/quantrell/many-futures/internal/model"
)

// profileDoc is the YAML shape of a profile file. Money enters as plain
// numbers and is converted to decimals at this boundary.
type profileDoc struct {
	Age             int     `yaml:"age"`
	MonthlyIncome   float64 `yaml:"monthly_income"`
	MonthlyExpenses float64 `yaml:"monthly_expenses"`
	LiquidSavings   float64 `yaml:"liquid_savings"`
	RiskTolerance   string  `yaml:"risk_tolerance"`
	Debts           []struct {
		Name           string  `yaml:"name"`
		Principal      float64 `yaml:"principal"`
		AnnualRate     float64 `yaml:"annual_rate"`
		MinimumPayment float64 `yaml:"minimum_payment"`
	} `yaml:"debts"`
}

// LoadProfile reads and validates a client profile from a YAML file.
func LoadProfile(path string) (model.Profile, error) {
	data, err := os.ReadFile(ExpandPath(path)) // #nosec G304 -- user-supplied profile path
	if err != nil {
		return model.Profile{}, common.NewUserError(fmt.Sprintf("could not read profile %s", path), err)
	}

	var doc profileDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return model.Profile{}, common.NewUserError(fmt.Sprintf("could not parse profile %s", path), err)
	}

	profile := model.Profile{
		Age:             doc.Age,
		MonthlyIncome:   decimal.NewFromFloat(doc.MonthlyIncome).Round(2),
		MonthlyExpenses: decimal.NewFromFloat(doc.MonthlyExpenses).Round(2),
		LiquidSavings:   decimal.NewFromFloat(doc.LiquidSavings).Round(2),
		RiskTolerance:   model.RiskTolerance(doc.RiskTolerance),
	}
	for _, d := range doc.Debts {
		profile.Debts = append(profile.Debts, model.Debt{
			Name:           d.Name,
			Principal:      decimal.NewFromFloat(d.Principal).Round(2),
			AnnualRate:     d.AnnualRate,
			MinimumPayment: decimal.NewFromFloat(d.MinimumPayment).Round(2),
		})
	}

	if err := profile.Validate(); err != nil {
		return model.Profile{}, err
	}

	return profile, nil
}

// LoadReferenceRates reads a reference-rate snapshot from a YAML file.
// An empty path yields the built-in defaults.
func LoadReferenceRates(path string) (model.ReferenceRates, error) {
	if path == "" {
		return model.DefaultReferenceRates(), nil
	}

	data, err := os.ReadFile(ExpandPath(path)) // #nosec G304 -- user-supplied rates path
	if err != nil {
		return model.ReferenceRates{}, common.NewUserError(fmt.Sprintf("could not read rates %s", path), err)
	}

	rates := model.DefaultReferenceRates()
	if err := yaml.Unmarshal(data, &rates); err != nil {
		return model.ReferenceRates{}, common.NewUserError(fmt.Sprintf("could not parse rates %s", path), err)
	}
	if rates.Source == "" || rates.Source == "defaults" {
		rates.Source = path
	}

	return rates, nil
}
