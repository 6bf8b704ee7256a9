package services

import (
	"github.com/Topo-Jon/Pagos/internal/config"
	"github.com/Topo-Jon/Pagos/internal/jobs"
	"github.com/Topo-Jon/Pagos/internal/repository"
	"github.com/Topo-Jon/Pagos/internal/storage"
)

// Services holds all service instances
type Services struct {
	Auth    *AuthService
	Loan    *LoanService
	Payment *PaymentService
	Report  *ReportService
	Export  *ExportService
	Job     *JobService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, worker *jobs.Worker, snapshots *storage.SnapshotStore, cfg *config.Config) *Services {
	loanSvc := NewLoanService(repos.Loan, repos.Payment, snapshots, worker)

	return &Services{
		Auth:    NewAuthService(repos.User, repos.RefreshToken, cfg),
		Loan:    loanSvc,
		Payment: NewPaymentService(repos.Payment, loanSvc),
		Report:  NewReportService(repos.Loan, repos.User),
		Export:  NewExportService(repos.Loan),
		Job:     NewJobService(worker),
	}
}
