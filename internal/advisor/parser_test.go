package advisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGuidance(t *testing.T) {
	tests := []struct {
		name               string
		content            string
		wantErr            bool
		wantPriorities     []string
		wantConfidence     string
		wantNetWorthClaim  bool
		wantRetireAgeClaim bool
	}{
		{
			name: "valid JSON response",
			content: `{
				"priorities": ["pay down debt", "invest the surplus"],
				"rationale": "Clear the debt first.",
				"biggest_risk": "Market downturn",
				"key_recommendation": "Pay off the car loan within 18 months.",
				"confidence": "High",
				"monthly_investment": 1150,
				"monthly_debt_payment": 1150,
				"claimed_net_worth_30yr": 932000.50,
				"claimed_retirement_age": 47
			}`,
			wantPriorities:     []string{PriorityPayDownDebt, PriorityInvestSurplus},
			wantConfidence:     "High",
			wantNetWorthClaim:  true,
			wantRetireAgeClaim: true,
		},
		{
			name: "markdown wrapped JSON",
			content: "```json\n" + `{
				"priorities": ["invest aggressively in index funds"],
				"rationale": "Time in market.",
				"biggest_risk": "Inflation",
				"key_recommendation": "Invest now.",
				"confidence": "medium",
				"monthly_investment": 2000,
				"monthly_debt_payment": 300
			}` + "\n```",
			wantPriorities: []string{PriorityInvestSurplus},
			wantConfidence: "Medium",
		},
		{
			name: "free-form priorities get normalized",
			content: `{
				"priorities": ["Build your emergency cushion... emergency fund first", "automate your savings", "tackle the student loan"],
				"rationale": "Safety first.",
				"biggest_risk": "Job loss",
				"key_recommendation": "Six months of expenses in cash.",
				"confidence": "High"
			}`,
			wantPriorities: []string{PriorityEmergencyFund, PriorityAutomate, PriorityPayDownDebt},
			wantConfidence: "High",
		},
		{
			name: "loose line format fallback",
			content: `PRIORITIES:
- pay down debt
- invest the surplus
RATIONALE: Debt is a guaranteed loss.
BIGGEST_RISK: Rate increases
KEY_RECOMMENDATION: Kill the loan this year.
CONFIDENCE: Low`,
			wantPriorities: []string{PriorityPayDownDebt, PriorityInvestSurplus},
			wantConfidence: "Low",
		},
		{
			name:    "empty response",
			content: "",
			wantErr: true,
		},
		{
			name:    "prose without structure",
			content: "I think you should generally be careful with money and save more.",
			wantErr: true,
		},
		{
			name: "missing key recommendation",
			content: `{
				"priorities": ["pay down debt"],
				"rationale": "Something",
				"confidence": "High"
			}`,
			wantErr: true,
		},
		{
			name: "empty priorities",
			content: `{
				"priorities": [],
				"key_recommendation": "Do things.",
				"confidence": "High"
			}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseGuidance(tt.content)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantPriorities, got.guidance.Priorities)
			assert.Equal(t, tt.wantConfidence, got.guidance.Confidence)
			assert.Equal(t, tt.wantNetWorthClaim, got.hasNetWorthClaim)
			assert.Equal(t, tt.wantRetireAgeClaim, got.hasRetireAgeClaim)
			assert.NotEmpty(t, got.guidance.KeyRecommendation)
		})
	}
}

func TestParseGuidanceClaims(t *testing.T) {
	got, err := parseGuidance(`{
		"priorities": ["pay down debt"],
		"key_recommendation": "Pay it off.",
		"confidence": "High",
		"claimed_net_worth_30yr": 932000.50,
		"claimed_retirement_age": 47
	}`)
	require.NoError(t, err)

	assert.True(t, got.hasNetWorthClaim)
	assert.Equal(t, "932000.5", got.claimedNetWorth30.String())
	assert.True(t, got.hasRetireAgeClaim)
	assert.Equal(t, 47, got.claimedRetireAge)
}

func TestCleanMarkdownWrapper(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "json fence",
			content: "```json\n{\"a\": 1}\n```",
			want:    `{"a": 1}`,
		},
		{
			name:    "bare fence",
			content: "```\n{\"a\": 1}\n```",
			want:    `{"a": 1}`,
		},
		{
			name:    "no fence",
			content: `{"a": 1}`,
			want:    `{"a": 1}`,
		},
		{
			name:    "surrounding whitespace",
			content: "  \n{\"a\": 1}\n  ",
			want:    `{"a": 1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanMarkdownWrapper(tt.content))
		})
	}
}

func TestNormalizePriority(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Pay down the student loan", PriorityPayDownDebt},
		{"invest in low-cost index funds", PriorityInvestSurplus},
		{"Emergency fund to 6 months", PriorityEmergencyFund},
		{"Automate monthly contributions", PriorityAutomate},
		{"  ", ""},
		{"Review insurance coverage", "review insurance coverage"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizePriority(tt.input), "input: %q", tt.input)
	}
}
