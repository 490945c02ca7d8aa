// Package council runs a panel of advisors concurrently against one client
// profile and collects their recommendations. One advisor failing never
// aborts the run; its seat is downgraded to a failure-kind recommendation
// and the rest of the panel proceeds.
package council

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/quantrell/many-futures/internal/advisor"
	"github.com/quantrell/many-futures/internal/audit"
	"github.com/quantrell/many-futures/internal/common"
	"github.com/quantrell/many-futures/internal/model"
)

// Seat is one advisor on the panel: who speaks, under which economic
// worldview, and through which capability adapter.
type Seat struct {
	Persona     model.Persona
	Assumptions model.AssumptionSet
	Adapter     advisor.Adapter
}

// Options configures one council run.
type Options struct {
	// Deadline bounds the whole run. Zero means no overall deadline.
	Deadline time.Duration
	// PerAdvisorTimeout bounds each seat's Advise call. Zero means no
	// per-seat timeout beyond the overall deadline.
	PerAdvisorTimeout time.Duration
	// MaxWorkers caps concurrent advisor calls. Defaults to 5.
	MaxWorkers int
	// OnResult, when set, is invoked once per seat as its recommendation
	// lands, from the seat's goroutine. It must be safe for concurrent use.
	OnResult func(model.Recommendation)
}

const defaultMaxWorkers = 5

// Convene runs every seat and returns one recommendation per seat, in seat
// order. Failed seats yield failure-kind recommendations in place. The error
// is non-nil only when every seat failed.
func Convene(ctx context.Context, profile model.Profile, seats []Seat, log *audit.Log, opts Options) ([]model.Recommendation, error) {
	if len(seats) == 0 {
		return nil, fmt.Errorf("%w: no seats", common.ErrAllAdvisorsFailed)
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	if opts.Deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Deadline)
		defer cancel()
	}

	maxWorkers := opts.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = defaultMaxWorkers
	}

	if log != nil {
		log.Append(audit.EntryCouncilStart, "", "", map[string]any{
			"seats": len(seats),
		})
	}

	recommendations := make([]model.Recommendation, len(seats))
	sem := make(chan struct{}, maxWorkers)
	var wg sync.WaitGroup

	for i, seat := range seats {
		wg.Add(1)
		go func(idx int, s Seat) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				recommendations[idx] = model.FailedRecommendation(s.Persona, s.Assumptions, model.FailureTimeout, ctx.Err().Error())
				deliver(opts.OnResult, recommendations[idx])
				return
			}

			recommendations[idx] = advise(ctx, profile, s, opts.PerAdvisorTimeout)
			deliver(opts.OnResult, recommendations[idx])
		}(i, seat)
	}

	wg.Wait()

	succeeded := 0
	for _, rec := range recommendations {
		if rec.Succeeded() {
			succeeded++
		}
	}

	if log != nil {
		log.Append(audit.EntryCouncilComplete, "", "", map[string]any{
			"seats":     len(seats),
			"succeeded": succeeded,
		})
	}

	if succeeded == 0 {
		return recommendations, fmt.Errorf("%w: 0 of %d seats produced a recommendation", common.ErrAllAdvisorsFailed, len(seats))
	}

	return recommendations, nil
}

// advise runs one seat under its timeout and downgrades errors to
// failure-kind recommendations.
func advise(ctx context.Context, profile model.Profile, seat Seat, timeout time.Duration) model.Recommendation {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	rec, err := seat.Adapter.Advise(ctx, profile, seat.Assumptions, seat.Persona)
	if err != nil {
		kind := failureKind(ctx, err)
		slog.Warn("Advisor failed",
			"persona", seat.Persona.Name,
			"failure", string(kind),
			"error", err)
		return model.FailedRecommendation(seat.Persona, seat.Assumptions, kind, err.Error())
	}

	return rec
}

func deliver(onResult func(model.Recommendation), rec model.Recommendation) {
	if onResult != nil {
		onResult(rec)
	}
}

// failureKind maps an advise error onto the failure taxonomy reported to the
// user and the divergence engine.
func failureKind(ctx context.Context, err error) model.FailureKind {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return model.FailureTimeout
	case errors.Is(err, common.ErrInsufficientIncome):
		return model.FailureInsufficientIncome
	case errors.Is(err, common.ErrMalformedResponse):
		return model.FailureMalformedResponse
	default:
		return model.FailureProviderUnavailable
	}
}
