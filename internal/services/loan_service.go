package services

import (
	"context"
	"fmt"

	"github.com/Topo-Jon/Pagos/internal/jobs"
	"github.com/Topo-Jon/Pagos/internal/models"
	"github.com/Topo-Jon/Pagos/internal/repository"
	"github.com/Topo-Jon/Pagos/internal/storage"
	"github.com/Topo-Jon/Pagos/pkg/logger"
	"github.com/google/uuid"
)

// LoanService owns the loan lifecycle: rate resolution, schedule generation,
// wholesale regeneration and live summaries.
type LoanService struct {
	loanRepo    repository.LoanRepository
	paymentRepo repository.PaymentRepository
	snapshots   *storage.SnapshotStore
	worker      *jobs.Worker
}

// NewLoanService creates a new loan service
func NewLoanService(
	loanRepo repository.LoanRepository,
	paymentRepo repository.PaymentRepository,
	snapshots *storage.SnapshotStore,
	worker *jobs.Worker,
) *LoanService {
	return &LoanService{
		loanRepo:    loanRepo,
		paymentRepo: paymentRepo,
		snapshots:   snapshots,
		worker:      worker,
	}
}

// Create resolves the loan's rate plan, generates its payment sequence and
// persists both. The caller hands in validated inputs; the engine itself only
// degrades to an empty schedule on degenerate numbers.
func (s *LoanService) Create(ctx context.Context, loan *models.Loan) (*models.Loan, error) {
	plan, err := ResolveRatePlan(loan)
	if err != nil {
		return nil, err
	}
	loan.RatePlan = plan
	loan.Reference = uuid.NewString()

	if err := s.loanRepo.Create(ctx, loan); err != nil {
		return nil, fmt.Errorf("failed to create loan: %w", err)
	}

	payments := BuildSchedule(loan)
	if err := s.loanRepo.ReplaceSchedule(ctx, loan, payments); err != nil {
		return nil, fmt.Errorf("failed to persist schedule: %w", err)
	}
	loan.Payments = payments

	if !plan.Converged {
		logger.Warn("Rate solver hit iteration budget without converging",
			"loan", loan.Reference, "periodic", plan.Periodic)
	}

	s.enqueueSnapshot(loan.ID)
	return loan, nil
}

// Recalculate replaces the loan's inputs and rebuilds the payment sequence
// from scratch. Any recorded actual payments on the old sequence are
// discarded; a recalculation is a new idealized plan, not a patch.
func (s *LoanService) Recalculate(ctx context.Context, id uint, input *models.Loan) (*models.Loan, error) {
	loan, err := s.loanRepo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}

	loan.Principal = input.Principal
	loan.PeriodsCount = input.PeriodsCount
	loan.BiweeklyPayment = input.BiweeklyPayment
	loan.FirstPaymentDate = input.FirstPaymentDate
	loan.AnnualInterestRate = input.AnnualInterestRate
	loan.PaymentsMade = input.PaymentsMade
	loan.KnownRemainingBalance = input.KnownRemainingBalance
	loan.PriorDebt = input.PriorDebt

	plan, err := ResolveRatePlan(loan)
	if err != nil {
		return nil, err
	}
	loan.RatePlan = plan

	payments := BuildSchedule(loan)
	if err := s.loanRepo.ReplaceSchedule(ctx, loan, payments); err != nil {
		return nil, fmt.Errorf("failed to persist schedule: %w", err)
	}
	loan.Payments = payments

	s.enqueueSnapshot(loan.ID)
	return loan, nil
}

// FindByID loads a loan with its ordered payment sequence
func (s *LoanService) FindByID(ctx context.Context, id uint) (*models.Loan, error) {
	loan, err := s.loanRepo.FindByIDWithPayments(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return loan, nil
}

// List returns a page of loans
func (s *LoanService) List(ctx context.Context, query *repository.LoanQuery) ([]models.Loan, int64, error) {
	return s.loanRepo.List(ctx, query)
}

// Delete removes a loan, its payments and its local snapshot
func (s *LoanService) Delete(ctx context.Context, id uint) error {
	loan, err := s.loanRepo.FindByID(ctx, id)
	if err != nil {
		return ErrNotFound
	}
	if err := s.loanRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete loan: %w", err)
	}

	// Snapshot removal is best effort and stays off the response path.
	reference := loan.Reference
	s.worker.EnqueueAsync(func(ctx context.Context) error {
		if err := s.snapshots.Delete(reference); err != nil {
			logger.Warn("Failed to delete loan snapshot", "loan", reference, "error", err)
		}
		return nil
	})
	return nil
}

// Summary recomputes the live totals for a loan from its actual payments
func (s *LoanService) Summary(ctx context.Context, id uint) (*models.Summary, error) {
	loan, err := s.loanRepo.FindByIDWithPayments(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	summary := Summarize(loan, loan.Payments)
	return &summary, nil
}

// enqueueSnapshot refreshes the local JSON snapshot off the request path.
// Saves go through the bounded worker queue so a burst of mutations cannot
// fan out into unbounded goroutines.
func (s *LoanService) enqueueSnapshot(loanID uint) {
	s.worker.Enqueue(func(ctx context.Context) error {
		loan, err := s.loanRepo.FindByIDWithPayments(ctx, loanID)
		if err != nil {
			return fmt.Errorf("snapshot load failed: %w", err)
		}
		payments := loan.Payments
		loan.Payments = nil
		return s.snapshots.Save(loan, payments)
	})
}
