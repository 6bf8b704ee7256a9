package handlers

import (
	"github.com/Topo-Jon/Pagos/internal/services"
)

// Handlers holds all handler instances
type Handlers struct {
	Health  *HealthHandler
	Auth    *AuthHandler
	Loan    *LoanHandler
	Payment *PaymentHandler
	Report  *ReportHandler
	Job     *JobHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(),
		Auth:    NewAuthHandler(svcs.Auth),
		Loan:    NewLoanHandler(svcs.Loan),
		Payment: NewPaymentHandler(svcs.Payment, svcs.Loan),
		Report:  NewReportHandler(svcs.Report, svcs.Export, svcs.Loan),
		Job:     NewJobHandler(svcs.Job),
	}
}
