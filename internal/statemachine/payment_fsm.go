package statemachine

import (
	"context"
	"fmt"

	"github.com/Topo-Jon/Pagos/internal/models"
	"github.com/looplab/fsm"
)

// PaymentFSM wraps a schedule row with its completion state machine.
// Every state can reach every other: recording a partial amount on a paid row
// or clearing a paid row back to pending are both legitimate corrections.
type PaymentFSM struct {
	payment *models.Payment
	fsm     *fsm.FSM
}

// NewPaymentFSM creates a new payment completion state machine
func NewPaymentFSM(payment *models.Payment) *PaymentFSM {
	pfsm := &PaymentFSM{
		payment: payment,
	}

	pfsm.fsm = fsm.NewFSM(
		payment.Status,
		fsm.Events{
			{Name: "mark_paid", Src: []string{models.PaymentStatusPending, models.PaymentStatusPartial}, Dst: models.PaymentStatusPaid},
			{Name: "mark_partial", Src: []string{models.PaymentStatusPending, models.PaymentStatusPaid}, Dst: models.PaymentStatusPartial},
			{Name: "reset", Src: []string{models.PaymentStatusPaid, models.PaymentStatusPartial}, Dst: models.PaymentStatusPending},
		},
		fsm.Callbacks{},
	)

	return pfsm
}

// Transition moves the payment to target, no-op when already there.
func (p *PaymentFSM) Transition(ctx context.Context, target string) error {
	if p.fsm.Current() == target {
		return nil
	}

	var event string
	switch target {
	case models.PaymentStatusPaid:
		event = "mark_paid"
	case models.PaymentStatusPartial:
		event = "mark_partial"
	case models.PaymentStatusPending:
		event = "reset"
	default:
		return fmt.Errorf("unknown payment status: %s", target)
	}

	if err := p.fsm.Event(ctx, event); err != nil {
		return fmt.Errorf("failed to transition payment to %s: %w", target, err)
	}

	p.payment.Status = p.fsm.Current()
	return nil
}

// Current returns the current state
func (p *PaymentFSM) Current() string {
	return p.fsm.Current()
}

// Can checks if a transition is possible
func (p *PaymentFSM) Can(event string) bool {
	return p.fsm.Can(event)
}
