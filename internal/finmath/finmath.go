// Package finmath provides the amortization and compounding primitives that
// every projection is built on. All money values are decimal-precise to the
// cent; rate arguments are annual nominal rates and the periodic rate is
// always annual/12.
package finmath

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/quantrell/many-futures/internal/common"
)

var (
	twelve = decimal.NewFromInt(12)
	one    = decimal.NewFromInt(1)
)

// MonthlyRate converts an annual nominal rate to a periodic monthly rate.
func MonthlyRate(annualRate float64) decimal.Decimal {
	return decimal.NewFromFloat(annualRate).Div(twelve)
}

// growthFactor is (1 + annual/12)^months.
func growthFactor(annualRate float64, months int) decimal.Decimal {
	return one.Add(MonthlyRate(annualRate)).Pow(decimal.NewFromInt(int64(months)))
}

// annuityFactor is ((1+i)^n - 1) / i, the future value of one unit paid each
// period. Degrades to n when the rate is zero.
func annuityFactor(annualRate float64, months int) decimal.Decimal {
	i := MonthlyRate(annualRate)
	if i.IsZero() {
		return decimal.NewFromInt(int64(months))
	}
	return growthFactor(annualRate, months).Sub(one).Div(i)
}

// FutureValue computes the value after the given number of months of a lump
// sum plus a level monthly payment, compounded monthly.
func FutureValue(annualRate float64, months int, monthlyPayment, presentValue decimal.Decimal) decimal.Decimal {
	if months == 0 {
		return presentValue.Round(2)
	}
	fv := presentValue.Mul(growthFactor(annualRate, months)).
		Add(monthlyPayment.Mul(annuityFactor(annualRate, months)))
	return fv.Round(2)
}

// PresentValue is the inverse of FutureValue: the lump sum today that, with
// the given monthly payment, grows to the target future value.
func PresentValue(annualRate float64, months int, monthlyPayment, futureValue decimal.Decimal) decimal.Decimal {
	if months == 0 {
		return futureValue.Round(2)
	}
	pv := futureValue.Sub(monthlyPayment.Mul(annuityFactor(annualRate, months))).
		Div(growthFactor(annualRate, months))
	return pv.Round(2)
}

// PeriodsToZero returns the fractional number of monthly payments needed to
// amortize the principal. It fails with ErrDivergentSeries when the payment
// does not cover the monthly interest accrual, since such a debt never
// amortizes.
func PeriodsToZero(annualRate float64, monthlyPayment, principal decimal.Decimal) (float64, error) {
	if !principal.IsPositive() {
		return 0, nil
	}
	if !monthlyPayment.IsPositive() {
		return 0, fmt.Errorf("%w: payment %s against principal %s",
			common.ErrDivergentSeries, monthlyPayment, principal)
	}

	p := principal.InexactFloat64()
	m := monthlyPayment.InexactFloat64()
	i := annualRate / 12

	if i == 0 {
		return p / m, nil
	}

	accrual := p * i
	if m <= accrual {
		return 0, fmt.Errorf("%w: payment %s does not cover monthly interest %.2f",
			common.ErrDivergentSeries, monthlyPayment, accrual)
	}

	return -math.Log1p(-p*i/m) / math.Log1p(i), nil
}
