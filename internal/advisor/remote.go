package advisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quantrell/many-futures/internal/audit"
	"github.com/quantrell/many-futures/internal/common"
	"github.com/quantrell/many-futures/internal/model"
	"github.com/quantrell/many-futures/internal/projection"
)

// claimTolerance is the relative disagreement allowed between a provider's
// claimed figures and the locally recomputed projection before the
// recommendation is flagged.
const claimTolerance = 0.01

// RemoteAdapter voices a persona through an external text provider. The
// projection is computed locally before the provider is contacted; the
// provider contributes only qualitative guidance, and its numeric claims are
// checked against the local numbers.
type RemoteAdapter struct {
	gen      Generator
	provider string
	limiter  *RateLimiter
	log      *audit.Log
}

// RemoteOption configures a RemoteAdapter.
type RemoteOption func(*RemoteAdapter)

// WithRateLimiter shares a token bucket across adapters of one council run.
func WithRateLimiter(rl *RateLimiter) RemoteOption {
	return func(a *RemoteAdapter) { a.limiter = rl }
}

// WithAuditLog records every provider exchange on the given log.
func WithAuditLog(log *audit.Log) RemoteOption {
	return func(a *RemoteAdapter) { a.log = log }
}

// NewRemoteAdapter wraps a provider client as a council adapter.
func NewRemoteAdapter(gen Generator, provider string, opts ...RemoteOption) *RemoteAdapter {
	a := &RemoteAdapter{
		gen:      gen,
		provider: provider,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Advise computes the projection locally, asks the provider for guidance, and
// returns the combined recommendation. Malformed responses get up to
// repairAttempts re-requests before the advisor fails.
func (a *RemoteAdapter) Advise(ctx context.Context, profile model.Profile, assumptions model.AssumptionSet, persona model.Persona) (model.Recommendation, error) {
	start := time.Now()

	proj, err := projection.Project(profile, assumptions)
	if err != nil {
		return model.Recommendation{}, fmt.Errorf("projection for %s: %w", persona.Name, err)
	}

	prompt := buildPrompt(profile, assumptions, persona, proj)

	var parsed parsedGuidance
	var exchangeID uuid.UUID
	var parseErr error

	for attempt := 0; attempt <= repairAttempts; attempt++ {
		userPrompt := prompt
		if attempt > 0 {
			userPrompt += repairSuffix
		}

		content, genErr := a.generate(ctx, userPrompt)
		if genErr != nil {
			a.logError(persona, genErr)
			return model.Recommendation{}, genErr
		}

		parsed, parseErr = parseGuidance(content)
		exchangeID = a.logCall(persona, attempt, userPrompt, content, proj, time.Since(start), parsed, parseErr == nil)
		if parseErr == nil {
			break
		}

		slog.Debug("Malformed advisor response, repairing",
			"persona", persona.Name,
			"provider", a.provider,
			"attempt", attempt,
			"error", parseErr)
	}
	if parseErr != nil {
		err := fmt.Errorf("%s after %d repair attempts: %w", parseErr, repairAttempts, common.ErrMalformedResponse)
		a.logError(persona, err)
		return model.Recommendation{}, err
	}

	rec := model.Recommendation{
		Persona:     persona,
		Assumptions: assumptions,
		Projection:  &proj,
		Guidance:    parsed.guidance,
		Provenance: model.Provenance{
			Source:          a.provider,
			ExchangeID:      exchangeID,
			Elapsed:         time.Since(start),
			NumericMismatch: a.claimsDisagree(parsed, proj),
		},
	}

	return rec, nil
}

// generate waits on the shared limiter and calls the provider with retries.
func (a *RemoteAdapter) generate(ctx context.Context, userPrompt string) (string, error) {
	if a.limiter != nil {
		if err := a.limiter.wait(ctx); err != nil {
			return "", err
		}
	}

	var content string
	var lastErr error
	err := common.WithRetry(ctx, func() error {
		content, lastErr = a.gen.Generate(ctx, systemPrompt, userPrompt)
		if lastErr != nil && !common.IsRetryable(lastErr) && !errors.Is(lastErr, common.ErrProviderUnavailable) {
			return &common.RetryableError{Err: lastErr, Retryable: false}
		}
		return lastErr
	}, common.RetryOptions{MaxAttempts: 3})
	if err != nil {
		// WithRetry flattens the wrapped cause, so surface the last provider
		// error directly to keep its sentinel intact for failure mapping.
		if lastErr != nil {
			return "", fmt.Errorf("provider call failed: %w", lastErr)
		}
		return "", err
	}

	return content, nil
}

// claimsDisagree compares the provider's claimed figures against the local
// projection. Missing claims are not a mismatch.
func (a *RemoteAdapter) claimsDisagree(parsed parsedGuidance, proj model.Projection) bool {
	if parsed.hasNetWorthClaim {
		local := proj.NetWorthAt(proj.Horizon())
		if relativeDelta(parsed.claimedNetWorth30, local) > claimTolerance {
			return true
		}
	}
	if parsed.hasRetireAgeClaim && proj.RetirementAge != nil {
		if parsed.claimedRetireAge != *proj.RetirementAge {
			return true
		}
	}
	return false
}

// relativeDelta returns |a-b| / max(|b|, 1).
func relativeDelta(a, b decimal.Decimal) float64 {
	denom := b.Abs()
	if denom.LessThan(decimal.NewFromInt(1)) {
		denom = decimal.NewFromInt(1)
	}
	delta, _ := a.Sub(b).Abs().Div(denom).Float64()
	return delta
}

// logCall records one provider exchange: what was asked, how long it took,
// and the headline figures the recommendation will carry.
func (a *RemoteAdapter) logCall(persona model.Persona, attempt int, userPrompt, content string, proj model.Projection, elapsed time.Duration, parsed parsedGuidance, parseOK bool) uuid.UUID {
	if a.log == nil {
		return uuid.Nil
	}

	detail := map[string]any{
		"attempt":         attempt,
		"prompt_preview":  preview(userPrompt, promptPreviewLen),
		"prompt_chars":    len(userPrompt),
		"response_len":    len(content),
		"elapsed_ms":      elapsed.Milliseconds(),
		"net_worth_final": proj.NetWorthAt(proj.Horizon()).StringFixed(0),
	}
	if proj.RetirementAge != nil {
		detail["retirement_age"] = *proj.RetirementAge
	}
	if parseOK {
		detail["key_recommendation"] = parsed.guidance.KeyRecommendation
	}

	return a.log.Append(audit.EntryAdvisorCall, persona.Name, a.provider, detail)
}

// promptPreviewLen bounds how much prompt text an audit entry carries.
const promptPreviewLen = 160

func preview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func (a *RemoteAdapter) logError(persona model.Persona, err error) {
	if a.log == nil {
		return
	}
	a.log.Append(audit.EntryAdvisorError, persona.Name, a.provider, map[string]any{
		"error": err.Error(),
	})
}
