// Package divergence turns a set of council recommendations into a picture
// of how much the advisors disagree, why, and what a middle-ground scenario
// looks like. All analysis runs over the successful seats only.
package divergence

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/quantrell/many-futures/internal/model"
	"github.com/quantrell/many-futures/internal/projection"
)

// Divergence level band edges, in coefficient-of-variation percent.
const (
	mediumBand = 10.0
	highBand   = 25.0
)

// Synthesize computes the divergence analysis for one council run. At least
// one successful recommendation is required; with exactly one, spreads and
// attribution are reported as zero and undefined rather than invented.
func Synthesize(profile model.Profile, recommendations []model.Recommendation) (model.DivergenceResult, error) {
	successes := successful(recommendations)
	if len(successes) == 0 {
		return model.DivergenceResult{}, fmt.Errorf("no successful recommendations to synthesize")
	}

	horizons := reportHorizons(successes)
	scoreHorizon := horizons[len(horizons)-1]

	result := model.DivergenceResult{
		Successes:       len(successes),
		SpreadByHorizon: make(map[int]decimal.Decimal, len(horizons)),
	}

	for _, horizon := range horizons {
		result.SpreadByHorizon[horizon] = spreadAt(successes, horizon)
	}
	result.SpreadScore = result.SpreadByHorizon[scoreHorizon]
	result.PairwiseDeltas = pairwiseDeltas(successes, horizons)

	result.Attribution = attribute(profile, successes, result.SpreadScore)

	consensus, consensusAssumptions := consensusProjection(profile, successes)
	result.ConsensusAssumptions = consensusAssumptions
	result.Consensus = consensus

	result.Agreements, result.Disagreements = comparePriorities(successes)

	result.DivergenceScore = divergenceScore(successes, horizons)
	result.DivergenceLevel = levelFor(result.DivergenceScore)

	return result, nil
}

// reportHorizons clips the standard horizons to the run's final projected
// year and always includes that (clipped) final year, so the headline spread
// never reads past the trajectory. A 10-year run reports at {10}, a 20-year
// run at {10, 20}, anything 30 or longer at {10, 30}.
func reportHorizons(successes []model.Recommendation) []int {
	final := successes[0].Projection.Horizon()
	last := final
	if last > model.StandardHorizons[len(model.StandardHorizons)-1] {
		last = model.StandardHorizons[len(model.StandardHorizons)-1]
	}

	var horizons []int
	for _, h := range model.StandardHorizons {
		if h < last {
			horizons = append(horizons, h)
		}
	}
	return append(horizons, last)
}

func successful(recommendations []model.Recommendation) []model.Recommendation {
	out := make([]model.Recommendation, 0, len(recommendations))
	for _, rec := range recommendations {
		if rec.Succeeded() {
			out = append(out, rec)
		}
	}
	return out
}

// spreadAt is max minus min projected net worth across advisors at a horizon.
func spreadAt(successes []model.Recommendation, horizon int) decimal.Decimal {
	if len(successes) < 2 {
		return decimal.Zero
	}

	lo := successes[0].Projection.NetWorthAt(horizon)
	hi := lo
	for _, rec := range successes[1:] {
		nw := rec.Projection.NetWorthAt(horizon)
		if nw.LessThan(lo) {
			lo = nw
		}
		if nw.GreaterThan(hi) {
			hi = nw
		}
	}
	return hi.Sub(lo)
}

func pairwiseDeltas(successes []model.Recommendation, horizons []int) []model.PairwiseDelta {
	var deltas []model.PairwiseDelta
	for _, horizon := range horizons {
		for i := 0; i < len(successes); i++ {
			for j := i + 1; j < len(successes); j++ {
				deltas = append(deltas, model.PairwiseDelta{
					Horizon:  horizon,
					PersonaA: successes[i].Persona.Name,
					PersonaB: successes[j].Persona.Name,
					Delta:    successes[i].Projection.NetWorthAt(horizon).Sub(successes[j].Projection.NetWorthAt(horizon)).Abs(),
				})
			}
		}
	}
	return deltas
}

// attribute splits the headline spread between the return axis and the
// inflation axis by re-projecting counterfactuals: each advisor's return with
// the median inflation, and each advisor's inflation with the median return.
// The comparison runs on real (inflation-adjusted) net worth, the only series
// both axes influence. Undefined with fewer than two successes or a zero
// spread.
func attribute(profile model.Profile, successes []model.Recommendation, spread decimal.Decimal) model.Attribution {
	if len(successes) < 2 || spread.IsZero() {
		return model.Attribution{}
	}

	medianReturn := medianFloat(collect(successes, func(r model.Recommendation) float64 { return r.Assumptions.MarketReturn }))
	medianInflation := medianFloat(collect(successes, func(r model.Recommendation) float64 { return r.Assumptions.InflationRate }))
	horizon := successes[0].Assumptions.HorizonYears

	returnSpread, ok := counterfactualSpread(profile, successes, func(r model.Recommendation) model.AssumptionSet {
		return model.AssumptionSet{MarketReturn: r.Assumptions.MarketReturn, InflationRate: medianInflation, HorizonYears: horizon}
	})
	if !ok {
		return model.Attribution{}
	}

	inflationSpread, ok := counterfactualSpread(profile, successes, func(r model.Recommendation) model.AssumptionSet {
		return model.AssumptionSet{MarketReturn: medianReturn, InflationRate: r.Assumptions.InflationRate, HorizonYears: horizon}
	})
	if !ok {
		return model.Attribution{}
	}

	retF, _ := returnSpread.Float64()
	infF, _ := inflationSpread.Float64()
	total := retF + infF
	if total <= 0 {
		return model.Attribution{}
	}

	returnShare := 100 * retF / total
	return model.Attribution{
		Defined:        true,
		ReturnShare:    math.Round(returnShare*10) / 10,
		InflationShare: math.Round((100-returnShare)*10) / 10,
	}
}

// counterfactualSpread re-projects every advisor under a varied assumption
// set and measures the resulting spread of real net worth at the horizon.
func counterfactualSpread(profile model.Profile, successes []model.Recommendation, vary func(model.Recommendation) model.AssumptionSet) (decimal.Decimal, bool) {
	var lo, hi decimal.Decimal
	for i, rec := range successes {
		proj, err := projection.Project(profile, vary(rec))
		if err != nil {
			return decimal.Zero, false
		}
		yp, ok := proj.At(proj.Horizon())
		if !ok {
			return decimal.Zero, false
		}
		nw := yp.RealNetWorth
		if i == 0 {
			lo, hi = nw, nw
			continue
		}
		if nw.LessThan(lo) {
			lo = nw
		}
		if nw.GreaterThan(hi) {
			hi = nw
		}
	}
	return hi.Sub(lo), true
}

// consensusProjection runs a fresh projection under the median return and
// median inflation. Averaging the trajectories themselves would produce a
// path no assumption set generates, so the engine re-runs instead.
func consensusProjection(profile model.Profile, successes []model.Recommendation) (*model.Projection, model.AssumptionSet) {
	consensusAssumptions := model.AssumptionSet{
		MarketReturn:  medianFloat(collect(successes, func(r model.Recommendation) float64 { return r.Assumptions.MarketReturn })),
		InflationRate: medianFloat(collect(successes, func(r model.Recommendation) float64 { return r.Assumptions.InflationRate })),
		HorizonYears:  successes[0].Assumptions.HorizonYears,
	}

	proj, err := projection.Project(profile, consensusAssumptions)
	if err != nil {
		return nil, consensusAssumptions
	}
	return &proj, consensusAssumptions
}

// comparePriorities reports which canonical priorities every advisor shares
// and where the panel splits on ordering.
func comparePriorities(successes []model.Recommendation) (agreements, disagreements []string) {
	if len(successes) == 0 {
		return nil, nil
	}

	counts := make(map[string]int)
	for _, rec := range successes {
		seen := make(map[string]bool)
		for _, p := range rec.Guidance.Priorities {
			if !seen[p] {
				counts[p]++
				seen[p] = true
			}
		}
	}

	var shared []string
	for p, n := range counts {
		if n == len(successes) {
			shared = append(shared, p)
		}
	}
	sort.Strings(shared)
	for _, p := range shared {
		agreements = append(agreements, fmt.Sprintf("all advisors prioritize: %s", p))
	}

	if len(successes) >= 2 {
		first := make(map[string][]string)
		for _, rec := range successes {
			if len(rec.Guidance.Priorities) > 0 {
				top := rec.Guidance.Priorities[0]
				first[top] = append(first[top], rec.Persona.Name)
			}
		}
		if len(first) > 1 {
			tops := make([]string, 0, len(first))
			for top := range first {
				tops = append(tops, top)
			}
			sort.Strings(tops)
			for _, top := range tops {
				names := first[top]
				sort.Strings(names)
				disagreements = append(disagreements, fmt.Sprintf("%s would start with: %s", joinNames(names), top))
			}
		}
	}

	return agreements, disagreements
}

func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	default:
		out := ""
		for i, n := range names[:len(names)-1] {
			if i > 0 {
				out += ", "
			}
			out += n
		}
		return out + ", and " + names[len(names)-1]
	}
}

// divergenceScore is the mean coefficient of variation, in percent, across
// the retirement ages and the horizon net worths of the successful advisors.
func divergenceScore(successes []model.Recommendation, horizons []int) float64 {
	if len(successes) < 2 {
		return 0
	}

	var cvs []float64

	var retireAges []float64
	for _, rec := range successes {
		if rec.Projection.RetirementAge != nil {
			retireAges = append(retireAges, float64(*rec.Projection.RetirementAge))
		}
	}
	if len(retireAges) == len(successes) {
		cvs = append(cvs, coefficientOfVariation(retireAges))
	}

	for _, horizon := range horizons {
		values := make([]float64, 0, len(successes))
		for _, rec := range successes {
			nw, _ := rec.Projection.NetWorthAt(horizon).Float64()
			values = append(values, nw)
		}
		cvs = append(cvs, coefficientOfVariation(values))
	}

	if len(cvs) == 0 {
		return 0
	}

	var sum float64
	for _, cv := range cvs {
		sum += cv
	}
	return sum / float64(len(cvs))
}

// coefficientOfVariation returns 100 * stddev/|mean|, or 0 for a zero mean.
func coefficientOfVariation(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	if mean == 0 {
		return 0
	}

	var variance float64
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(values))

	return 100 * math.Sqrt(variance) / math.Abs(mean)
}

func levelFor(score float64) string {
	switch {
	case score >= highBand:
		return model.DivergenceHigh
	case score >= mediumBand:
		return model.DivergenceMedium
	default:
		return model.DivergenceLow
	}
}

func collect(successes []model.Recommendation, f func(model.Recommendation) float64) []float64 {
	out := make([]float64, len(successes))
	for i, rec := range successes {
		out[i] = f(rec)
	}
	return out
}

func medianFloat(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
