package finmath

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantrell/many-futures/internal/common"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestPeriodsToZeroKnownAnswer(t *testing.T) {
	// $18,000 @ 5.5% with $920/mo amortizes in roughly 21 months.
	periods, err := PeriodsToZero(0.055, d("920"), d("18000"))
	require.NoError(t, err)

	assert.Greater(t, periods, 20.0)
	assert.Less(t, periods, 21.0)
	assert.Equal(t, 21.0, math.Ceil(periods))
}

func TestPeriodsToZero(t *testing.T) {
	tests := []struct {
		name      string
		principal string
		payment   string
		rate      float64
		want      float64
		wantErr   bool
	}{
		{
			name:      "no debt",
			rate:      0.055,
			payment:   "500",
			principal: "0",
			want:      0,
		},
		{
			name:      "zero rate",
			rate:      0,
			payment:   "100",
			principal: "1200",
			want:      12,
		},
		{
			name:      "payment exceeds principal",
			rate:      0.05,
			payment:   "1000",
			principal: "500",
			want:      1, // fractional result below one month rounds up to a single payment
		},
		{
			name:      "no payment",
			rate:      0.055,
			payment:   "0",
			principal: "10000",
			wantErr:   true,
		},
		{
			name:      "payment equals interest accrual",
			rate:      0.12, // $100/mo interest on $10k
			payment:   "100",
			principal: "10000",
			wantErr:   true,
		},
		{
			name:      "payment below interest accrual",
			rate:      0.12,
			payment:   "50",
			principal: "10000",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			periods, err := PeriodsToZero(tt.rate, d(tt.payment), d(tt.principal))
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, common.ErrDivergentSeries)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, math.Ceil(periods))
		})
	}
}

func TestFutureValue(t *testing.T) {
	tests := []struct {
		name    string
		payment string
		present string
		rate    float64
		months  int
		lo      string
		hi      string
	}{
		{
			// $12,000 lump at 7% for 10 years, monthly compounding.
			name:    "lump sum only",
			rate:    0.07,
			months:  120,
			payment: "0",
			present: "12000",
			lo:      "23500",
			hi:      "24500",
		},
		{
			// $500/mo at 7% for 10 years.
			name:    "annuity only",
			rate:    0.07,
			months:  120,
			payment: "500",
			present: "0",
			lo:      "83000",
			hi:      "90000",
		},
		{
			name:    "combined lump and annuity",
			rate:    0.07,
			months:  120,
			payment: "500",
			present: "12000",
			lo:      "106500",
			hi:      "114500",
		},
		{
			name:    "zero rate is simple accumulation",
			rate:    0,
			months:  12,
			payment: "100",
			present: "1000",
			lo:      "2200",
			hi:      "2200",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fv := FutureValue(tt.rate, tt.months, d(tt.payment), d(tt.present))
			assert.True(t, fv.GreaterThanOrEqual(d(tt.lo)), "got %s, want >= %s", fv, tt.lo)
			assert.True(t, fv.LessThanOrEqual(d(tt.hi)), "got %s, want <= %s", fv, tt.hi)
		})
	}
}

func TestFutureValueZeroMonths(t *testing.T) {
	fv := FutureValue(0.07, 0, d("100"), d("5000"))
	assert.True(t, fv.Equal(d("5000")))
}

func TestPresentValueInvertsFutureValue(t *testing.T) {
	tests := []struct {
		name    string
		present string
		payment string
		rate    float64
		months  int
	}{
		{name: "lump sum", rate: 0.07, months: 120, present: "12000", payment: "0"},
		{name: "with payments", rate: 0.05, months: 360, present: "25000", payment: "750"},
		{name: "zero rate", rate: 0, months: 24, present: "1000", payment: "50"},
		{name: "short horizon", rate: 0.10, months: 6, present: "999.99", payment: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pv := d(tt.present)
			fv := FutureValue(tt.rate, tt.months, d(tt.payment), pv)
			back := PresentValue(tt.rate, tt.months, d(tt.payment), fv)

			diff := back.Sub(pv).Abs()
			assert.True(t, diff.LessThanOrEqual(d("0.01")),
				"round trip drifted by %s (pv=%s back=%s)", diff, pv, back)
		})
	}
}

func TestAmortizationSchedule(t *testing.T) {
	entries := collect(AmortizationSchedule(d("18000"), 0.055, d("920")))
	require.NotEmpty(t, entries)

	// Matches the fractional period count rounded up.
	assert.Len(t, entries, 21)

	// Balance reaches exactly zero and is never negative.
	last := entries[len(entries)-1]
	assert.True(t, last.Remaining.IsZero(), "final balance %s", last.Remaining)
	for _, e := range entries {
		assert.False(t, e.Remaining.IsNegative(), "month %d balance %s", e.Month, e.Remaining)
	}

	// Principal portions sum back to the original principal.
	paid := decimal.Zero
	for _, e := range entries {
		paid = paid.Add(e.Principal)
	}
	assert.True(t, paid.Equal(d("18000")), "principal paid %s", paid)

	// Months are consecutive starting at 1.
	for i, e := range entries {
		assert.Equal(t, i+1, e.Month)
	}
}

func TestAmortizationScheduleRestartable(t *testing.T) {
	seq := AmortizationSchedule(d("5000"), 0.08, d("250"))

	first := collect(seq)
	second := collect(seq)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.True(t, first[i].Remaining.Equal(second[i].Remaining))
		assert.True(t, first[i].Interest.Equal(second[i].Interest))
	}
}

func TestAmortizationScheduleEarlyStop(t *testing.T) {
	var got []ScheduleEntry
	for e := range AmortizationSchedule(d("18000"), 0.055, d("920")) {
		got = append(got, e)
		if e.Month == 3 {
			break
		}
	}
	require.Len(t, got, 3)
	assert.True(t, got[2].Remaining.LessThan(d("18000")))
}

func TestAmortizationScheduleDivergent(t *testing.T) {
	// Payment does not cover interest: the sequence stops instead of looping.
	entries := collect(AmortizationSchedule(d("10000"), 0.12, d("100")))
	assert.Empty(t, entries)
}

func TestAmortizationScheduleSinglePayment(t *testing.T) {
	entries := collect(AmortizationSchedule(d("500"), 0.05, d("1000")))
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Remaining.IsZero())
	// Final payment is capped: only balance plus one month of interest is due.
	assert.True(t, entries[0].Principal.Equal(d("500")))
}

func collect(seq func(func(ScheduleEntry) bool)) []ScheduleEntry {
	var entries []ScheduleEntry
	for e := range seq {
		entries = append(entries, e)
	}
	return entries
}
