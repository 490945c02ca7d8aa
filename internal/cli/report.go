package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/quantrell/many-futures/internal/calibrate"
	"github.com/quantrell/many-futures/internal/model"
	"github.com/quantrell/many-futures/internal/projection"
)

// RenderBaseline summarizes the assumption-free view of a profile.
func RenderBaseline(profile model.Profile, baseline projection.Baseline, health projection.HealthScore) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Age: %d\n", profile.Age)
	fmt.Fprintf(&b, "Monthly surplus: %s (savings rate %.1f%%)\n", FormatMoney(baseline.MonthlySurplus), baseline.SavingsRatePct)
	fmt.Fprintf(&b, "Net worth: %s\n", FormatMoney(baseline.NetWorth))
	fmt.Fprintf(&b, "FIRE number: %s\n", FormatMoney(baseline.FIRENumber))
	fmt.Fprintf(&b, "Emergency fund: %.1f months\n", baseline.EmergencyFundMonths)

	if baseline.MonthlyDebtPayment.IsPositive() {
		fmt.Fprintf(&b, "Suggested debt payment: %s/mo", FormatMoney(baseline.MonthlyDebtPayment))
		switch {
		case baseline.DebtNeverAmortizes:
			b.WriteString(WarningStyle.Render(" (does not cover interest)"))
			b.WriteString("\n")
		default:
			fmt.Fprintf(&b, " (debt-free in ~%d months)\n", baseline.DebtPayoffMonths)
		}
	}

	fmt.Fprintf(&b, "\nFinancial health: %s\n", healthGrade(health.Overall))
	fmt.Fprintf(&b, "  savings rate %.0f · emergency fund %.0f · debt load %.0f · asset mix %.0f · cash flow %.0f",
		health.SavingsRate, health.EmergencyFund, health.DebtLoad, health.InvestmentMix, health.CashFlow)

	return RenderBox("Where You Stand", b.String())
}

func healthGrade(overall float64) string {
	label := fmt.Sprintf("%.1f / 100", overall)
	switch {
	case overall >= 75:
		return SuccessStyle.Render(label)
	case overall >= 50:
		return WarningStyle.Render(label)
	default:
		return ErrorStyle.Render(label)
	}
}

// RenderProjection renders the trajectory table at five-year intervals.
func RenderProjection(proj model.Projection) string {
	var b strings.Builder

	header := fmt.Sprintf("%-6s %-6s %14s %14s %14s",
		"Year", "Age", "Savings", "Debt", "Net Worth")
	b.WriteString(TableHeaderStyle.Render(header))
	b.WriteString("\n")

	for _, yp := range proj.Years {
		if yp.Year%5 != 0 && yp.Year != proj.Horizon() {
			continue
		}
		fmt.Fprintf(&b, "%-6d %-6d %14s %14s %14s\n",
			yp.Year, yp.Age,
			FormatMoney(yp.Savings), FormatMoney(yp.DebtRemaining), FormatMoney(yp.NetWorth))
	}

	b.WriteString("\n")
	if proj.RetirementAge != nil {
		fmt.Fprintf(&b, "%s\n", FormatSuccess(fmt.Sprintf("Retirement goal reached at age %d", *proj.RetirementAge)))
	} else {
		fmt.Fprintf(&b, "%s\n", FormatWarning(fmt.Sprintf("Retirement goal not reached (%s)", proj.NoRetirementReason)))
	}
	if proj.DebtPaidOff {
		fmt.Fprintf(&b, "Debt free in month %d\n", proj.DebtPayoffMonth)
	}
	for _, d := range proj.Debts {
		if d.NeverPaidOff {
			fmt.Fprintf(&b, "%s\n", FormatWarning(fmt.Sprintf("%s never amortizes at its minimum payment", d.Name)))
		}
	}
	if proj.ShortfallUnresolved {
		fmt.Fprintf(&b, "%s\n", FormatError(fmt.Sprintf("Unresolved shortfall for %d months", proj.ShortfallMonths)))
	}

	title := fmt.Sprintf("Projection · %.1f%% return, %.1f%% inflation",
		proj.Assumptions.MarketReturn*100, proj.Assumptions.InflationRate*100)
	return RenderBox(title, strings.TrimRight(b.String(), "\n"))
}

// RenderRecommendation renders one advisor's recommendation, or its failure.
func RenderRecommendation(rec model.Recommendation) string {
	title := fmt.Sprintf("%s · %s", rec.Persona.Name, rec.Persona.Title)

	if !rec.Succeeded() {
		content := FormatError(fmt.Sprintf("No recommendation (%s)", rec.Failure))
		if rec.FailureNote != "" {
			content += "\n" + SubtleStyle.Render(rec.FailureNote)
		}
		return RenderBox(title, content)
	}

	var b strings.Builder

	fmt.Fprintf(&b, "Assumes %.1f%% return, %.1f%% inflation\n\n",
		rec.Assumptions.MarketReturn*100, rec.Assumptions.InflationRate*100)

	proj := rec.Projection
	fmt.Fprintf(&b, "Net worth in 10y: %s · in %dy: %s\n",
		FormatMoney(proj.NetWorthAt(10)), proj.Horizon(), FormatMoney(proj.NetWorthAt(proj.Horizon())))
	if proj.RetirementAge != nil {
		fmt.Fprintf(&b, "Retirement at age %d\n", *proj.RetirementAge)
	} else {
		fmt.Fprintf(&b, "Retirement not reached within horizon\n")
	}

	b.WriteString("\nPriorities:\n")
	for i, p := range rec.Guidance.Priorities {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, p)
	}
	if rec.Guidance.MonthlyInvestment.IsPositive() || rec.Guidance.MonthlyDebtPayment.IsPositive() {
		fmt.Fprintf(&b, "Allocate: %s/mo invested, %s/mo to debt\n",
			FormatMoney(rec.Guidance.MonthlyInvestment), FormatMoney(rec.Guidance.MonthlyDebtPayment))
	}

	if rec.Guidance.Rationale != "" {
		fmt.Fprintf(&b, "\n%s\n", rec.Guidance.Rationale)
	}
	if rec.Guidance.BiggestRisk != "" {
		fmt.Fprintf(&b, "Biggest risk: %s\n", rec.Guidance.BiggestRisk)
	}
	fmt.Fprintf(&b, "\n%s", BoldStyle.Render(rec.Guidance.KeyRecommendation))
	fmt.Fprintf(&b, "\n%s", SubtleStyle.Render(fmt.Sprintf("confidence %s · via %s", rec.Guidance.Confidence, rec.Provenance.Source)))

	if rec.Provenance.NumericMismatch {
		fmt.Fprintf(&b, "\n%s", FormatWarning("provider's claimed figures disagreed with the computed projection; computed figures shown"))
	}

	return RenderBox(title, b.String())
}

// RenderDivergence renders the cross-advisor analysis.
func RenderDivergence(result model.DivergenceResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Divergence: %s (%.1f%%)\n", divergenceLabel(result.DivergenceLevel), result.DivergenceScore)

	horizons := make([]int, 0, len(result.SpreadByHorizon))
	for h := range result.SpreadByHorizon {
		horizons = append(horizons, h)
	}
	sort.Ints(horizons)
	for _, h := range horizons {
		fmt.Fprintf(&b, "Spread at %dy: %s\n", h, FormatMoney(result.SpreadByHorizon[h]))
	}

	if result.Attribution.Defined {
		fmt.Fprintf(&b, "Driven %.0f%% by return assumptions, %.0f%% by inflation assumptions\n",
			result.Attribution.ReturnShare, result.Attribution.InflationShare)
	}

	if result.Consensus != nil {
		fmt.Fprintf(&b, "\nMiddle ground (%.1f%% return, %.1f%% inflation): %s at %dy",
			result.ConsensusAssumptions.MarketReturn*100,
			result.ConsensusAssumptions.InflationRate*100,
			FormatMoney(result.Consensus.NetWorthAt(result.Consensus.Horizon())),
			result.Consensus.Horizon())
		if result.Consensus.RetirementAge != nil {
			fmt.Fprintf(&b, ", retirement at %d", *result.Consensus.RetirementAge)
		}
		b.WriteString("\n")
	}

	if len(result.Agreements) > 0 {
		b.WriteString("\nWhere they agree:\n")
		for _, a := range result.Agreements {
			fmt.Fprintf(&b, "  %s %s\n", SuccessIcon, a)
		}
	}
	if len(result.Disagreements) > 0 {
		b.WriteString("\nWhere they split:\n")
		for _, d := range result.Disagreements {
			fmt.Fprintf(&b, "  %s %s\n", ScaleIcon, d)
		}
	}

	return RenderBox("The Council Disagrees: That's the Point", strings.TrimRight(b.String(), "\n"))
}

func divergenceLabel(level string) string {
	switch level {
	case model.DivergenceHigh:
		return ErrorStyle.Render(level)
	case model.DivergenceMedium:
		return WarningStyle.Render(level)
	default:
		return SuccessStyle.Render(level)
	}
}

// RenderCalibration renders per-persona verdicts against reference rates.
func RenderCalibration(verdicts map[string]calibrate.Verdict, rates model.ReferenceRates) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Reference (%s): inflation %.2f%%, 10y treasury %.2f%%\n\n",
		rates.Source, rates.InflationRate*100, rates.TreasuryYield*100)

	names := make([]string, 0, len(verdicts))
	for name := range verdicts {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		v := verdicts[name]
		icon := FormatSuccess("")
		if !v.WithinBand {
			icon = FormatWarning("")
		}
		fmt.Fprintf(&b, "%s %s: %s (inflation gap %+.1f%%)\n", icon, name, v.Note, v.InflationDelta*100)
	}

	return RenderBox("Assumptions vs. Reality", strings.TrimRight(b.String(), "\n"))
}
