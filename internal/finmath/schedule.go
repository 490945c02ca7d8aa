package finmath

import (
	"iter"

	"github.com/shopspring/decimal"
)

// ScheduleEntry is one month of an amortization schedule.
type ScheduleEntry struct {
	Month     int
	Interest  decimal.Decimal
	Principal decimal.Decimal
	Remaining decimal.Decimal
}

// AmortizationSchedule returns the month-by-month payoff of a debt as a lazy,
// finite sequence. The sequence is a pure function of its inputs: ranging
// over it twice replays the identical schedule. The final payment is capped
// at the remaining balance plus accrued interest, so the last entry always
// lands on a zero balance.
//
// If the payment does not cover a month's interest the sequence stops rather
// than growing without bound; callers detect that case with PeriodsToZero.
func AmortizationSchedule(principal decimal.Decimal, annualRate float64, monthlyPayment decimal.Decimal) iter.Seq[ScheduleEntry] {
	return func(yield func(ScheduleEntry) bool) {
		rate := MonthlyRate(annualRate)
		balance := principal.Round(2)

		for month := 1; balance.IsPositive(); month++ {
			interest := balance.Mul(rate).Round(2)

			payment := monthlyPayment
			if due := balance.Add(interest); payment.GreaterThan(due) {
				payment = due
			}

			principalPortion := payment.Sub(interest)
			if !principalPortion.IsPositive() {
				return
			}

			balance = balance.Sub(principalPortion)
			if !yield(ScheduleEntry{
				Month:     month,
				Interest:  interest,
				Principal: principalPortion,
				Remaining: balance,
			}) {
				return
			}
		}
	}
}
