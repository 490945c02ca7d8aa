package council

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantrell/many-futures/internal/advisor"
	"github.com/quantrell/many-futures/internal/audit"
	"github.com/quantrell/many-futures/internal/common"
	"github.com/quantrell/many-futures/internal/model"
)

// stubAdapter returns a fixed recommendation or error, optionally after a delay.
type stubAdapter struct {
	err   error
	delay time.Duration
}

func (s *stubAdapter) Advise(ctx context.Context, profile model.Profile, assumptions model.AssumptionSet, persona model.Persona) (model.Recommendation, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return model.Recommendation{}, ctx.Err()
		}
	}
	if s.err != nil {
		return model.Recommendation{}, s.err
	}
	return advisor.NewOfflineAdapter().Advise(ctx, profile, assumptions, persona)
}

func councilTestProfile() model.Profile {
	return model.Profile{
		Age:             28,
		MonthlyIncome:   decimal.NewFromInt(6500),
		MonthlyExpenses: decimal.NewFromInt(4200),
		Debts: []model.Debt{
			{
				Name:           "car loan",
				Principal:      decimal.NewFromInt(18000),
				AnnualRate:     0.055,
				MinimumPayment: decimal.NewFromInt(350),
			},
		},
		LiquidSavings: decimal.NewFromInt(12000),
		RiskTolerance: model.RiskMedium,
	}
}

func defaultTestSeats(adapters ...advisor.Adapter) []Seat {
	specs := advisor.DefaultSeats(30)
	seats := make([]Seat, len(specs))
	for i, spec := range specs {
		var a advisor.Adapter = advisor.NewOfflineAdapter()
		if i < len(adapters) && adapters[i] != nil {
			a = adapters[i]
		}
		seats[i] = Seat{Persona: spec.Persona, Assumptions: spec.Assumptions, Adapter: a}
	}
	return seats
}

func TestConveneAllSucceed(t *testing.T) {
	log := audit.NewLog()
	seats := defaultTestSeats()

	recs, err := Convene(context.Background(), councilTestProfile(), seats, log, Options{})
	require.NoError(t, err)
	require.Len(t, recs, 3)

	// Seat order is preserved regardless of completion order.
	for i, rec := range recs {
		assert.Equal(t, seats[i].Persona.Name, rec.Persona.Name)
		assert.True(t, rec.Succeeded(), "seat %d", i)
	}

	// Different assumption sets yield different projections.
	assert.False(t, recs[0].Projection.NetWorthAt(30).Equal(recs[1].Projection.NetWorthAt(30)))

	entries := log.Entries()
	require.NotEmpty(t, entries)
	assert.Equal(t, audit.EntryCouncilStart, entries[0].Type)
	assert.Equal(t, audit.EntryCouncilComplete, entries[len(entries)-1].Type)
}

func TestConvenePartialFailure(t *testing.T) {
	failing := &stubAdapter{err: fmt.Errorf("boom: %w", common.ErrProviderUnavailable)}
	seats := defaultTestSeats(nil, failing, nil)

	recs, err := Convene(context.Background(), councilTestProfile(), seats, audit.NewLog(), Options{})
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.True(t, recs[0].Succeeded())
	assert.False(t, recs[1].Succeeded())
	assert.Equal(t, model.FailureProviderUnavailable, recs[1].Failure)
	assert.Equal(t, seats[1].Persona.Name, recs[1].Persona.Name)
	assert.True(t, recs[2].Succeeded())
}

func TestConveneFailureKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want model.FailureKind
	}{
		{"malformed", fmt.Errorf("bad json: %w", common.ErrMalformedResponse), model.FailureMalformedResponse},
		{"unavailable", fmt.Errorf("503: %w", common.ErrProviderUnavailable), model.FailureProviderUnavailable},
		{"insufficient income", fmt.Errorf("no income: %w", common.ErrInsufficientIncome), model.FailureInsufficientIncome},
		{"timeout", context.DeadlineExceeded, model.FailureTimeout},
		{"unknown", fmt.Errorf("mystery"), model.FailureProviderUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seats := defaultTestSeats(&stubAdapter{err: tt.err}, nil, nil)

			recs, err := Convene(context.Background(), councilTestProfile(), seats, nil, Options{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, recs[0].Failure)
		})
	}
}

func TestConvenePerAdvisorTimeout(t *testing.T) {
	slow := &stubAdapter{delay: 500 * time.Millisecond}
	seats := defaultTestSeats(slow, nil, nil)

	recs, err := Convene(context.Background(), councilTestProfile(), seats, nil, Options{
		PerAdvisorTimeout: 20 * time.Millisecond,
	})
	require.NoError(t, err)

	assert.Equal(t, model.FailureTimeout, recs[0].Failure)
	assert.True(t, recs[1].Succeeded())
	assert.True(t, recs[2].Succeeded())
}

func TestConveneAllFail(t *testing.T) {
	failing := &stubAdapter{err: common.ErrProviderUnavailable}
	seats := defaultTestSeats(failing, failing, failing)

	recs, err := Convene(context.Background(), councilTestProfile(), seats, nil, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrAllAdvisorsFailed)

	// The failure-kind recommendations still come back for reporting.
	require.Len(t, recs, 3)
	for _, rec := range recs {
		assert.False(t, rec.Succeeded())
	}
}

func TestConveneSingleSuccessIsNotAnError(t *testing.T) {
	failing := &stubAdapter{err: common.ErrProviderUnavailable}
	seats := defaultTestSeats(failing, failing, nil)

	recs, err := Convene(context.Background(), councilTestProfile(), seats, nil, Options{})
	require.NoError(t, err)
	assert.True(t, recs[2].Succeeded())
}

func TestConveneOnResultCallback(t *testing.T) {
	var mu sync.Mutex
	var seen []string

	seats := defaultTestSeats()
	_, err := Convene(context.Background(), councilTestProfile(), seats, nil, Options{
		OnResult: func(rec model.Recommendation) {
			mu.Lock()
			defer mu.Unlock()
			seen = append(seen, rec.Persona.Name)
		},
	})
	require.NoError(t, err)

	assert.Len(t, seen, 3)
	assert.ElementsMatch(t, []string{"Alex Chen", "Morgan Wells", "Jordan Rivera"}, seen)
}

func TestConveneInvalidProfile(t *testing.T) {
	profile := councilTestProfile()
	profile.Age = -1

	_, err := Convene(context.Background(), profile, defaultTestSeats(), nil, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidProfile)
}

func TestConveneNoSeats(t *testing.T) {
	_, err := Convene(context.Background(), councilTestProfile(), nil, nil, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrAllAdvisorsFailed)
}
