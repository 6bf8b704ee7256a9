package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Topo-Jon/Pagos/internal/models"
	"github.com/Topo-Jon/Pagos/internal/repository"
	"github.com/Topo-Jon/Pagos/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type stubLoanRepo struct {
	loan *models.Loan
}

func (r *stubLoanRepo) find(id uint) (*models.Loan, error) {
	if r.loan == nil || r.loan.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return r.loan, nil
}

func (r *stubLoanRepo) FindByID(ctx context.Context, id uint) (*models.Loan, error) {
	return r.find(id)
}

func (r *stubLoanRepo) FindByIDWithPayments(ctx context.Context, id uint) (*models.Loan, error) {
	return r.find(id)
}

func (r *stubLoanRepo) Create(ctx context.Context, loan *models.Loan) error { return nil }
func (r *stubLoanRepo) Update(ctx context.Context, loan *models.Loan) error { return nil }
func (r *stubLoanRepo) Delete(ctx context.Context, id uint) error           { return nil }

func (r *stubLoanRepo) List(ctx context.Context, query *repository.LoanQuery) ([]models.Loan, int64, error) {
	return nil, 0, nil
}

func (r *stubLoanRepo) ReplaceSchedule(ctx context.Context, loan *models.Loan, payments []models.Payment) error {
	return nil
}

type stubPaymentRepo struct {
	payments []models.Payment
}

func (r *stubPaymentRepo) FindByID(ctx context.Context, id uint) (*models.Payment, error) {
	for i := range r.payments {
		if r.payments[i].ID == id {
			return &r.payments[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubPaymentRepo) FindByLoan(ctx context.Context, loanID uint) ([]models.Payment, error) {
	return r.payments, nil
}

func (r *stubPaymentRepo) Update(ctx context.Context, payment *models.Payment) error { return nil }
func (r *stubPaymentRepo) CountOverdue(ctx context.Context) (int64, error)           { return 0, nil }

func ownedLoan() *models.Loan {
	loan := &models.Loan{
		ID:               3,
		Reference:        "ref-owned",
		UserID:           10,
		Principal:        1200,
		PeriodsCount:     2,
		BiweeklyPayment:  610,
		FirstPaymentDate: time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC),
		RatePlan:         models.SingleRatePlan(0.01),
	}
	loan.Payments = []models.Payment{
		{ID: 31, LoanID: 3, PaymentNumber: 1, DueDate: loan.FirstPaymentDate,
			Amount: 610, InterestAmount: 12, PrincipalAmount: 598, ResultingBalance: 602,
			Status: models.PaymentStatusPending},
		{ID: 32, LoanID: 3, PaymentNumber: 2, DueDate: time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC),
			Amount: 608.02, InterestAmount: 6.02, PrincipalAmount: 602, ResultingBalance: 0,
			Status: models.PaymentStatusPending},
	}
	return loan
}

// newLoanScopedRouter mounts the loan-scoped payment and report routes behind
// a fake auth context for the given caller.
func newLoanScopedRouter(loan *models.Loan, userID uint, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	loanRepo := &stubLoanRepo{loan: loan}
	paymentRepo := &stubPaymentRepo{payments: loan.Payments}
	loanSvc := services.NewLoanService(loanRepo, paymentRepo, nil, nil)
	paymentSvc := services.NewPaymentService(paymentRepo, loanSvc)

	paymentHandler := NewPaymentHandler(paymentSvc, loanSvc)
	reportHandler := NewReportHandler(services.NewReportService(loanRepo, nil), services.NewExportService(loanRepo), loanSvc)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("userRole", role)
	})
	r.PATCH("/loans/:loan_id/payments/:payment_id/amount_paid", paymentHandler.SetAmountPaid)
	r.POST("/loans/:loan_id/payments/:payment_id/toggle", paymentHandler.Toggle)
	r.GET("/loans/:loan_id/payments", paymentHandler.Index)
	r.GET("/loans/:loan_id/export", reportHandler.ExportSchedule)
	r.GET("/loans/:loan_id/statement_pdf", reportHandler.StatementPDF)
	return r
}

func TestLoanScopedRoutes_ForbiddenForOtherUser(t *testing.T) {
	router := newLoanScopedRouter(ownedLoan(), 99, "user")

	requests := []struct {
		method string
		path   string
		body   string
	}{
		{"PATCH", "/loans/3/payments/31/amount_paid", `{"amount_paid": "610"}`},
		{"POST", "/loans/3/payments/31/toggle", ""},
		{"GET", "/loans/3/payments", ""},
		{"GET", "/loans/3/export?format=csv", ""},
		{"GET", "/loans/3/statement_pdf", ""},
	}

	for _, tt := range requests {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(tt.method, tt.path, bytes.NewBufferString(tt.body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code, "%s %s", tt.method, tt.path)
	}
}

func TestLoanScopedRoutes_OwnerAllowed(t *testing.T) {
	router := newLoanScopedRouter(ownedLoan(), 10, "user")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/loans/3/payments", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/loans/3/export?format=csv", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "amortizacion_")
}

func TestLoanScopedRoutes_AdminAllowed(t *testing.T) {
	router := newLoanScopedRouter(ownedLoan(), 99, "admin")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/loans/3/payments", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoanScopedRoutes_MissingLoanIsNotFound(t *testing.T) {
	router := newLoanScopedRouter(ownedLoan(), 10, "user")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/loans/8/payments/31/toggle", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}