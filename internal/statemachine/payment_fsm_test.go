package statemachine

import (
	"context"
	"testing"

	"github.com/Topo-Jon/Pagos/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestPaymentFSM_PendingToPaid(t *testing.T) {
	payment := &models.Payment{Status: models.PaymentStatusPending}
	machine := NewPaymentFSM(payment)

	err := machine.Transition(context.Background(), models.PaymentStatusPaid)

	assert.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, machine.Current())
	assert.Equal(t, models.PaymentStatusPaid, payment.Status)
}

func TestPaymentFSM_SameStateNoOp(t *testing.T) {
	payment := &models.Payment{Status: models.PaymentStatusPaid}
	machine := NewPaymentFSM(payment)

	err := machine.Transition(context.Background(), models.PaymentStatusPaid)

	assert.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, machine.Current())
}

func TestPaymentFSM_PaidBackToPending(t *testing.T) {
	payment := &models.Payment{Status: models.PaymentStatusPaid}
	machine := NewPaymentFSM(payment)

	err := machine.Transition(context.Background(), models.PaymentStatusPending)

	assert.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, payment.Status)
}

func TestPaymentFSM_PaidToPartialCorrection(t *testing.T) {
	payment := &models.Payment{Status: models.PaymentStatusPaid}
	machine := NewPaymentFSM(payment)

	err := machine.Transition(context.Background(), models.PaymentStatusPartial)

	assert.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPartial, payment.Status)
}

func TestPaymentFSM_UnknownTarget(t *testing.T) {
	payment := &models.Payment{Status: models.PaymentStatusPending}
	machine := NewPaymentFSM(payment)

	err := machine.Transition(context.Background(), "cancelled")

	assert.Error(t, err)
	assert.Equal(t, models.PaymentStatusPending, payment.Status)
}
