package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPayDates_NonPositiveCount(t *testing.T) {
	assert.Nil(t, PayDates(date(2024, time.January, 15), 0))
	assert.Nil(t, PayDates(date(2024, time.January, 15), -3))
}

func TestPayDates_FirstDateUnmodified(t *testing.T) {
	first := date(2024, time.March, 7)
	dates := PayDates(first, 1)

	assert.Len(t, dates, 1)
	assert.Equal(t, first, dates[0])
}

func TestPayDates_QuincenalAlternation(t *testing.T) {
	dates := PayDates(date(2024, time.March, 10), 5)

	expected := []time.Time{
		date(2024, time.March, 10),
		date(2024, time.March, 30),
		date(2024, time.April, 15),
		date(2024, time.April, 30),
		date(2024, time.May, 15),
	}
	assert.Equal(t, expected, dates)
}

func TestPayDates_FebruaryUses28(t *testing.T) {
	// 2024 is a leap year; the convention still lands on the 28th.
	dates := PayDates(date(2024, time.February, 15), 2)

	assert.Equal(t, date(2024, time.February, 28), dates[1])
}

func TestPayDates_YearRollover(t *testing.T) {
	dates := PayDates(date(2024, time.December, 30), 2)

	assert.Equal(t, date(2025, time.January, 15), dates[1])
}

func TestSimulateBalance_ZeroRate(t *testing.T) {
	final, err := SimulateBalance(1000, 0, 100, 10)

	assert.NoError(t, err)
	assert.Equal(t, 0.0, final)
}

func TestSimulateBalance_UnpayableReturnsError(t *testing.T) {
	// Interest of 50 per period equals the payment exactly.
	final, err := SimulateBalance(1000, 0.05, 50, 12)

	assert.ErrorIs(t, err, ErrNeverAmortizes)
	assert.Equal(t, 1000.0, final)
}

func TestSimulateBalance_MonotonicInRate(t *testing.T) {
	low, err := SimulateBalance(50000, 0.005, 2300, 12)
	assert.NoError(t, err)

	high, err := SimulateBalance(50000, 0.015, 2300, 12)
	assert.NoError(t, err)

	assert.LessOrEqual(t, low, high)
}

func TestSimulateBalance_StopsOnOverpayment(t *testing.T) {
	final, err := SimulateBalance(100, 0, 60, 10)

	assert.NoError(t, err)
	assert.Equal(t, -20.0, final)
}
