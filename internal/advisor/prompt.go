package advisor

import (
	"fmt"
	"strings"

	"github.com/quantrell/many-futures/internal/model"
)

const systemPrompt = "You are a financial advisor. All projections have already been computed; " +
	"do not perform arithmetic. Respond only with a JSON object in the exact shape requested."

// buildPrompt renders the persona, its fixed assumptions, the client profile,
// and the locally computed projection into the user prompt. The provider is
// asked only for qualitative guidance; every number it needs is supplied.
func buildPrompt(profile model.Profile, assumptions model.AssumptionSet, persona model.Persona, proj model.Projection) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are %s, %s, with this philosophy:\n%q\n\n", persona.Name, persona.Title, persona.Philosophy)
	fmt.Fprintf(&b, "YOUR FIXED ECONOMIC ASSUMPTIONS:\n")
	fmt.Fprintf(&b, "- Annual market return: %.1f%%\n", assumptions.MarketReturn*100)
	fmt.Fprintf(&b, "- Annual inflation rate: %.1f%%\n\n", assumptions.InflationRate*100)

	fmt.Fprintf(&b, "CLIENT PROFILE:\n")
	fmt.Fprintf(&b, "- Age: %d\n", profile.Age)
	fmt.Fprintf(&b, "- Monthly income: $%s\n", profile.MonthlyIncome.StringFixed(0))
	fmt.Fprintf(&b, "- Monthly expenses: $%s\n", profile.MonthlyExpenses.StringFixed(0))
	fmt.Fprintf(&b, "- Monthly surplus: $%s\n", profile.MonthlySurplus().StringFixed(0))
	fmt.Fprintf(&b, "- Total debt: $%s\n", profile.TotalDebt().StringFixed(0))
	fmt.Fprintf(&b, "- Liquid savings: $%s\n", profile.LiquidSavings.StringFixed(0))
	fmt.Fprintf(&b, "- Risk tolerance: %s\n", profile.RiskTolerance)
	fmt.Fprintf(&b, "- FIRE number (25x annual expenses): $%s\n\n", profile.FIRENumber().StringFixed(0))

	fmt.Fprintf(&b, "COMPUTED PROJECTION (authoritative, do not recompute):\n")
	if yp, ok := proj.At(10); ok {
		fmt.Fprintf(&b, "- Net worth in 10 years: $%s\n", yp.NetWorth.StringFixed(0))
	}
	horizon := proj.Horizon()
	fmt.Fprintf(&b, "- Net worth in %d years: $%s\n", horizon, proj.NetWorthAt(horizon).StringFixed(0))
	if proj.RetirementAge != nil {
		fmt.Fprintf(&b, "- Estimated retirement age: %d\n", *proj.RetirementAge)
	} else {
		fmt.Fprintf(&b, "- Retirement not reached within horizon (%s)\n", proj.NoRetirementReason)
	}
	if proj.DebtPaidOff && proj.DebtPayoffMonth > 0 {
		fmt.Fprintf(&b, "- Debt paid off in month %d\n", proj.DebtPayoffMonth)
	}

	b.WriteString(`
Respond with exactly this JSON shape and nothing else:
{
  "priorities": ["<ordered action priorities, most important first>"],
  "rationale": "<2-3 sentences in your voice>",
  "biggest_risk": "<single most important risk>",
  "key_recommendation": "<most important action, 1-2 sentences>",
  "confidence": "High|Medium|Low",
  "monthly_investment": <dollars per month>,
  "monthly_debt_payment": <dollars per month>,
  "claimed_net_worth_30yr": <the 30-year net worth figure above>,
  "claimed_retirement_age": <the retirement age above, or 0>
}`)

	return b.String()
}

// repairSuffix is appended on the second attempt after a malformed response.
const repairSuffix = "\n\nYour previous response was not valid JSON in the requested shape. " +
	"Respond again with only the JSON object, no markdown fences, no commentary."
