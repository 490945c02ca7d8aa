package advisor

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/quantrell/many-futures/internal/model"
)

// parsedGuidance is guidance plus the numeric claims the provider made about
// its own projection. Claims are checked, never trusted.
type parsedGuidance struct {
	guidance          model.Guidance
	claimedNetWorth30 decimal.Decimal
	claimedRetireAge  int
	hasNetWorthClaim  bool
	hasRetireAgeClaim bool
}

// guidancePayload is the fixed JSON shape requested from every provider.
type guidancePayload struct {
	Priorities         []string `json:"priorities"`
	Rationale          string   `json:"rationale"`
	BiggestRisk        string   `json:"biggest_risk"`
	KeyRecommendation  string   `json:"key_recommendation"`
	Confidence         string   `json:"confidence"`
	MonthlyInvestment  float64  `json:"monthly_investment"`
	MonthlyDebtPayment float64  `json:"monthly_debt_payment"`
	ClaimedNetWorth30  float64  `json:"claimed_net_worth_30yr"`
	ClaimedRetireAge   float64  `json:"claimed_retirement_age"`
}

// parseGuidance coerces a provider response into the fixed guidance shape.
// JSON is tried first; a loose line-oriented fallback recovers responses from
// providers that ignore the formatting instructions.
func parseGuidance(content string) (parsedGuidance, error) {
	content = cleanMarkdownWrapper(content)

	var payload guidancePayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		fallback, fbErr := parseLooseGuidance(content)
		if fbErr != nil {
			return parsedGuidance{}, fmt.Errorf("failed to parse guidance: %w", err)
		}
		payload = fallback
	}

	if len(payload.Priorities) == 0 {
		return parsedGuidance{}, fmt.Errorf("no priorities in response")
	}
	if payload.KeyRecommendation == "" {
		return parsedGuidance{}, fmt.Errorf("no key recommendation in response")
	}

	priorities := make([]string, 0, len(payload.Priorities))
	for _, p := range payload.Priorities {
		if norm := normalizePriority(p); norm != "" {
			priorities = append(priorities, norm)
		}
	}
	if len(priorities) == 0 {
		return parsedGuidance{}, fmt.Errorf("no usable priorities in response")
	}

	pg := parsedGuidance{
		guidance: model.Guidance{
			Priorities:         priorities,
			Rationale:          strings.TrimSpace(payload.Rationale),
			BiggestRisk:        strings.TrimSpace(payload.BiggestRisk),
			KeyRecommendation:  strings.TrimSpace(payload.KeyRecommendation),
			Confidence:         normalizeConfidence(payload.Confidence),
			MonthlyInvestment:  decimal.NewFromFloat(payload.MonthlyInvestment).Round(2),
			MonthlyDebtPayment: decimal.NewFromFloat(payload.MonthlyDebtPayment).Round(2),
		},
	}

	if payload.ClaimedNetWorth30 != 0 {
		pg.claimedNetWorth30 = decimal.NewFromFloat(payload.ClaimedNetWorth30).Round(2)
		pg.hasNetWorthClaim = true
	}
	if payload.ClaimedRetireAge > 0 {
		pg.claimedRetireAge = int(payload.ClaimedRetireAge)
		pg.hasRetireAgeClaim = true
	}

	return pg, nil
}

// parseLooseGuidance recovers a "KEY: value" style response. Priorities are
// read from a PRIORITIES section, one per line.
func parseLooseGuidance(content string) (guidancePayload, error) {
	var payload guidancePayload
	var inPriorities bool

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		upper := strings.ToUpper(line)
		switch {
		case strings.HasPrefix(upper, "PRIORITIES:"):
			inPriorities = true
			continue
		case strings.HasPrefix(upper, "RATIONALE:"):
			inPriorities = false
			payload.Rationale = strings.TrimSpace(line[len("RATIONALE:"):])
		case strings.HasPrefix(upper, "BIGGEST_RISK:"), strings.HasPrefix(upper, "BIGGEST RISK:"):
			inPriorities = false
			payload.BiggestRisk = strings.TrimSpace(line[len("BIGGEST_RISK:"):])
		case strings.HasPrefix(upper, "KEY_RECOMMENDATION:"), strings.HasPrefix(upper, "RECOMMENDATION:"):
			inPriorities = false
			_, after, _ := strings.Cut(line, ":")
			payload.KeyRecommendation = strings.TrimSpace(after)
		case strings.HasPrefix(upper, "CONFIDENCE:"):
			inPriorities = false
			payload.Confidence = strings.TrimSpace(line[len("CONFIDENCE:"):])
		case inPriorities:
			item := strings.TrimLeft(line, "-*0123456789. ")
			if item != "" {
				payload.Priorities = append(payload.Priorities, item)
			}
		}
	}

	if len(payload.Priorities) == 0 || payload.KeyRecommendation == "" {
		return guidancePayload{}, fmt.Errorf("unable to parse loose guidance format")
	}
	return payload, nil
}

// normalizePriority folds free-form priority text onto the canonical labels
// so orderings are comparable across advisors. Unrecognized text passes
// through lowercased rather than being dropped.
func normalizePriority(raw string) string {
	p := strings.ToLower(strings.TrimSpace(raw))
	if p == "" {
		return ""
	}

	switch {
	case strings.Contains(p, "debt") || strings.Contains(p, "loan") || strings.Contains(p, "payoff"):
		return PriorityPayDownDebt
	case strings.Contains(p, "invest") || strings.Contains(p, "index fund") || strings.Contains(p, "market"):
		return PriorityInvestSurplus
	case strings.Contains(p, "emergency") || strings.Contains(p, "cash reserve") || strings.Contains(p, "safety net"):
		return PriorityEmergencyFund
	case strings.Contains(p, "automat"):
		return PriorityAutomate
	}
	return p
}

func normalizeConfidence(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "high":
		return "High"
	case "low":
		return "Low"
	default:
		return "Medium"
	}
}

// cleanMarkdownWrapper strips ```json fences that providers wrap around
// otherwise valid payloads.
func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		if idx := strings.Index(content, "\n"); idx >= 0 {
			content = content[idx+1:]
		}
		content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	}

	return strings.TrimSpace(content)
}
