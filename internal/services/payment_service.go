package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/Topo-Jon/Pagos/internal/models"
	"github.com/Topo-Jon/Pagos/internal/repository"
	"github.com/Topo-Jon/Pagos/internal/statemachine"
)

// PaymentService records actual payments against schedule rows. Mutations go
// through pure transforms over a copy of the row, are validated by the
// completion state machine, and only then persisted, so the aggregator always
// sees a consistent sequence.
type PaymentService struct {
	paymentRepo repository.PaymentRepository
	loanSvc     *LoanService
}

// NewPaymentService creates a new payment service
func NewPaymentService(paymentRepo repository.PaymentRepository, loanSvc *LoanService) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		loanSvc:     loanSvc,
	}
}

// ApplyAmountPaid returns a copy of the payment with the raw user-entered
// amount applied. An empty string clears the recorded amount; anything else
// must parse to a non-negative number. Status follows the amount: paid at or
// above the scheduled amount (minus a cent of tolerance), partial above zero,
// pending otherwise.
func ApplyAmountPaid(p models.Payment, raw string) (models.Payment, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		p.PaidAmount = nil
		p.PaidAt = nil
		p.Status = models.PaymentStatusPending
		return p, nil
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value < 0 {
		return p, ErrInvalidAmount
	}

	paid := round2(value)
	p.PaidAmount = &paid
	p.Status = p.StatusForAmount(paid)
	if p.Status == models.PaymentStatusPaid {
		now := time.Now()
		p.PaidAt = &now
	} else {
		p.PaidAt = nil
	}
	return p, nil
}

// TogglePaid returns a copy of the payment flipped between pending and fully
// paid at the scheduled amount. A partial row toggles up to paid.
func TogglePaid(p models.Payment) models.Payment {
	if p.Status == models.PaymentStatusPaid {
		p.Status = models.PaymentStatusPending
		p.PaidAmount = nil
		p.PaidAt = nil
		return p
	}

	paid := p.Amount
	now := time.Now()
	p.Status = models.PaymentStatusPaid
	p.PaidAmount = &paid
	p.PaidAt = &now
	return p
}

// SetAmountPaid records the raw amount on a payment and returns the updated
// row together with the recomputed loan summary.
func (s *PaymentService) SetAmountPaid(ctx context.Context, loanID, paymentID uint, raw string) (*models.Payment, *models.Summary, error) {
	payment, err := s.findOnLoan(ctx, loanID, paymentID)
	if err != nil {
		return nil, nil, err
	}

	updated, err := ApplyAmountPaid(*payment, raw)
	if err != nil {
		return nil, nil, err
	}

	if err := s.persist(ctx, payment, updated); err != nil {
		return nil, nil, err
	}

	summary, err := s.loanSvc.Summary(ctx, loanID)
	if err != nil {
		return nil, nil, err
	}
	s.loanSvc.enqueueSnapshot(loanID)
	return &updated, summary, nil
}

// Toggle flips a payment between pending and fully paid and returns the
// updated row together with the recomputed loan summary.
func (s *PaymentService) Toggle(ctx context.Context, loanID, paymentID uint) (*models.Payment, *models.Summary, error) {
	payment, err := s.findOnLoan(ctx, loanID, paymentID)
	if err != nil {
		return nil, nil, err
	}

	updated := TogglePaid(*payment)

	if err := s.persist(ctx, payment, updated); err != nil {
		return nil, nil, err
	}

	summary, err := s.loanSvc.Summary(ctx, loanID)
	if err != nil {
		return nil, nil, err
	}
	s.loanSvc.enqueueSnapshot(loanID)
	return &updated, summary, nil
}

// FindByLoan returns the ordered payment sequence of a loan
func (s *PaymentService) FindByLoan(ctx context.Context, loanID uint) ([]models.Payment, error) {
	return s.paymentRepo.FindByLoan(ctx, loanID)
}

// CountOverdue returns the number of pending payments past their due date
func (s *PaymentService) CountOverdue(ctx context.Context) (int64, error) {
	return s.paymentRepo.CountOverdue(ctx)
}

func (s *PaymentService) findOnLoan(ctx context.Context, loanID, paymentID uint) (*models.Payment, error) {
	payment, err := s.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		return nil, ErrNotFound
	}
	if payment.LoanID != loanID {
		return nil, ErrNotFound
	}
	return payment, nil
}

// persist validates the status change through the FSM and saves the row.
func (s *PaymentService) persist(ctx context.Context, current *models.Payment, updated models.Payment) error {
	machine := statemachine.NewPaymentFSM(current)
	if err := machine.Transition(ctx, updated.Status); err != nil {
		return ErrInvalidState
	}
	current.Status = updated.Status
	current.PaidAmount = updated.PaidAmount
	current.PaidAt = updated.PaidAt
	return s.paymentRepo.Update(ctx, current)
}
