package advisor

import "github.com/quantrell/many-futures/internal/model"

// SeatSpec pairs a persona with its assumption set and the provider expected
// to voice it. The binding is 1:1 for the lifetime of a council run.
type SeatSpec struct {
	Persona     model.Persona
	Assumptions model.AssumptionSet
	Provider    string
}

// DefaultSeats returns the stock three-advisor panel: a growth optimist, a
// safety-first conservative, and an evidence-based moderate. Each carries a
// deliberately different economic worldview so the divergence engine has
// something real to measure.
func DefaultSeats(horizonYears int) []SeatSpec {
	return []SeatSpec{
		{
			Persona: model.Persona{
				Name:  "Alex Chen",
				Title: "Growth Optimizer",
				Philosophy: "Time in market beats timing the market. Invest aggressively now. " +
					"Pay only minimums on debt with interest below 7%; the market return spread is your profit.",
			},
			Assumptions: model.AssumptionSet{MarketReturn: 0.07, InflationRate: 0.025, HorizonYears: horizonYears},
			Provider:    "openai",
		},
		{
			Persona: model.Persona{
				Name:  "Morgan Wells",
				Title: "Safety Architect",
				Philosophy: "I've seen three recessions. Build a 6-month emergency fund first and " +
					"eliminate all debt before investing. A conservative 5% return prevents disappointment. " +
					"Cash flow freedom is worth more than portfolio size.",
			},
			Assumptions: model.AssumptionSet{MarketReturn: 0.05, InflationRate: 0.035, HorizonYears: horizonYears},
			Provider:    "gemini",
		},
		{
			Persona: model.Persona{
				Name:  "Jordan Rivera",
				Title: "Evidence-Based Planner",
				Philosophy: "Long-run research supports 6.5% equity returns. Pay down high-interest " +
					"debt first and invest simultaneously for debt under 7%. Automate everything; " +
					"behavioral consistency beats optimization.",
			},
			Assumptions: model.AssumptionSet{MarketReturn: 0.065, InflationRate: 0.03, HorizonYears: horizonYears},
			Provider:    "anthropic",
		},
	}
}
