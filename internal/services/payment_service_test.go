package services

import (
	"testing"

	"github.com/Topo-Jon/Pagos/internal/models"
	"github.com/stretchr/testify/assert"
)

func schedRow(amount float64) models.Payment {
	return models.Payment{
		PaymentNumber: 1,
		Amount:        amount,
		Status:        models.PaymentStatusPending,
	}
}

func TestApplyAmountPaid_EmptyStringClears(t *testing.T) {
	row := schedRow(3110.72)
	paid := 3110.72
	row.PaidAmount = &paid
	row.Status = models.PaymentStatusPaid

	updated, err := ApplyAmountPaid(row, "  ")

	assert.NoError(t, err)
	assert.Nil(t, updated.PaidAmount)
	assert.Nil(t, updated.PaidAt)
	assert.Equal(t, models.PaymentStatusPending, updated.Status)
}

func TestApplyAmountPaid_InvalidInput(t *testing.T) {
	row := schedRow(3110.72)

	_, err := ApplyAmountPaid(row, "no es un número")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = ApplyAmountPaid(row, "-5")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestApplyAmountPaid_FullAmount(t *testing.T) {
	row := schedRow(3110.72)

	updated, err := ApplyAmountPaid(row, "3110.72")

	assert.NoError(t, err)
	if assert.NotNil(t, updated.PaidAmount) {
		assert.Equal(t, 3110.72, *updated.PaidAmount)
	}
	assert.Equal(t, models.PaymentStatusPaid, updated.Status)
	assert.NotNil(t, updated.PaidAt)
}

func TestApplyAmountPaid_WithinEpsilonCountsAsPaid(t *testing.T) {
	row := schedRow(3110.72)

	updated, err := ApplyAmountPaid(row, "3110.71")

	assert.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, updated.Status)
}

func TestApplyAmountPaid_PartialAmount(t *testing.T) {
	row := schedRow(3110.72)

	updated, err := ApplyAmountPaid(row, "1500")

	assert.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPartial, updated.Status)
	assert.Nil(t, updated.PaidAt)
}

func TestApplyAmountPaid_ZeroIsPending(t *testing.T) {
	row := schedRow(3110.72)

	updated, err := ApplyAmountPaid(row, "0")

	assert.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, updated.Status)
	if assert.NotNil(t, updated.PaidAmount) {
		assert.Equal(t, 0.0, *updated.PaidAmount)
	}
}

func TestApplyAmountPaid_DoesNotMutateInput(t *testing.T) {
	row := schedRow(3110.72)

	_, err := ApplyAmountPaid(row, "3110.72")

	assert.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, row.Status)
	assert.Nil(t, row.PaidAmount)
}

func TestTogglePaid_PendingToPaid(t *testing.T) {
	row := schedRow(3110.72)

	updated := TogglePaid(row)

	assert.Equal(t, models.PaymentStatusPaid, updated.Status)
	if assert.NotNil(t, updated.PaidAmount) {
		assert.Equal(t, 3110.72, *updated.PaidAmount)
	}
	assert.NotNil(t, updated.PaidAt)
}

func TestTogglePaid_PaidToPending(t *testing.T) {
	row := schedRow(3110.72)
	updated := TogglePaid(row)

	back := TogglePaid(updated)

	assert.Equal(t, models.PaymentStatusPending, back.Status)
	assert.Nil(t, back.PaidAmount)
	assert.Nil(t, back.PaidAt)
}

func TestTogglePaid_PartialtogglesUpToPaid(t *testing.T) {
	row := schedRow(3110.72)
	paid := 1000.0
	row.PaidAmount = &paid
	row.Status = models.PaymentStatusPartial

	updated := TogglePaid(row)

	assert.Equal(t, models.PaymentStatusPaid, updated.Status)
	if assert.NotNil(t, updated.PaidAmount) {
		assert.Equal(t, 3110.72, *updated.PaidAmount)
	}
}
