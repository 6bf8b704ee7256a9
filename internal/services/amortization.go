package services

import (
	"errors"
	"math"
	"time"
)

// ErrNeverAmortizes signals that the fixed payment does not cover a single
// period's interest, so the balance can never decrease. Callers must not
// treat the partial simulation result as a real balance.
var ErrNeverAmortizes = errors.New("el pago no cubre el interés del período")

// round2 rounds a monetary value to 2 decimal places, half away from zero.
// Every intermediate step of the amortization rounds through here; the
// accumulated per-step rounding is intentional and required for parity with
// the published schedules.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// PayDates produces count ordered quincenal pay dates starting at first.
// The convention is fixed: a date on or before the 15th is followed by the
// 30th of the same month (the 28th in February, leap years included), and a
// date after the 15th is followed by the 15th of the next month. The first
// element is the supplied date unmodified.
func PayDates(first time.Time, count int) []time.Time {
	if count <= 0 {
		return nil
	}

	dates := make([]time.Time, 0, count)
	current := first
	for i := 0; i < count; i++ {
		dates = append(dates, current)
		current = nextPayDate(current)
	}
	return dates
}

func nextPayDate(d time.Time) time.Time {
	y, m, day := d.Date()
	if day <= 15 {
		endDay := 30
		if m == time.February {
			endDay = 28
		}
		return time.Date(y, m, endDay, 0, 0, 0, 0, d.Location())
	}
	// time.Date normalizes month 13 into January of the next year.
	return time.Date(y, m+1, 15, 0, 0, 0, 0, d.Location())
}

// SimulateBalance runs periods of amortization over balance at a fixed
// periodic rate and payment, rounding to cents at every step, and returns the
// ending balance. A negative result means the loan was overpaid and the
// simulation stopped at the period that crossed zero. ErrNeverAmortizes is
// returned when the payment cannot cover a period's interest.
func SimulateBalance(balance, rate, payment float64, periods int) (float64, error) {
	for i := 0; i < periods; i++ {
		interest := round2(balance * rate)
		if payment <= interest {
			return balance, ErrNeverAmortizes
		}
		principal := round2(payment - interest)
		balance = round2(balance - principal)
		if balance < 0 {
			return balance, nil
		}
	}
	return balance, nil
}
