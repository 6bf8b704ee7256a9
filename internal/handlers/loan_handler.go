package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Topo-Jon/Pagos/internal/middleware"
	"github.com/Topo-Jon/Pagos/internal/models"
	"github.com/Topo-Jon/Pagos/internal/repository"
	"github.com/Topo-Jon/Pagos/internal/services"
	"github.com/gin-gonic/gin"
)

type LoanHandler struct {
	loanService *services.LoanService
}

func NewLoanHandler(loanService *services.LoanService) *LoanHandler {
	return &LoanHandler{loanService: loanService}
}

// LoanRequest carries the validated inputs of a loan. Either an annual rate
// or a known remaining balance (with payments made) must be present.
type LoanRequest struct {
	Principal             float64  `json:"principal" binding:"required,gt=0"`
	PeriodsCount          int      `json:"periods_count" binding:"required,gt=0"`
	BiweeklyPayment       float64  `json:"biweekly_payment" binding:"required,gt=0"`
	FirstPaymentDate      string   `json:"first_payment_date" binding:"required"`
	AnnualInterestRate    *float64 `json:"annual_interest_rate"`
	PaymentsMade          *int     `json:"payments_made"`
	KnownRemainingBalance *float64 `json:"known_remaining_balance"`
	PriorDebt             *float64 `json:"prior_debt"`
}

// toLoan validates the cross-field constraints and converts the request into
// a model. Validation failures come back as user-facing Spanish messages.
func (r *LoanRequest) toLoan() (*models.Loan, error) {
	firstDate, err := time.Parse("2006-01-02", r.FirstPaymentDate)
	if err != nil {
		return nil, errors.New("fecha de primer pago inválida, use el formato AAAA-MM-DD")
	}

	if r.AnnualInterestRate == nil && r.KnownRemainingBalance == nil {
		return nil, errors.New("se requiere la tasa anual o el saldo restante conocido")
	}
	if r.AnnualInterestRate != nil && *r.AnnualInterestRate <= 0 {
		return nil, errors.New("la tasa anual debe ser mayor que cero")
	}
	if r.KnownRemainingBalance != nil {
		if *r.KnownRemainingBalance < 0 {
			return nil, errors.New("el saldo restante conocido no puede ser negativo")
		}
		if r.PaymentsMade == nil || *r.PaymentsMade <= 0 {
			return nil, errors.New("el saldo restante conocido requiere el número de cuotas pagadas")
		}
	}
	if r.PaymentsMade != nil {
		if *r.PaymentsMade < 0 {
			return nil, errors.New("el número de cuotas pagadas no puede ser negativo")
		}
		if *r.PaymentsMade >= r.PeriodsCount {
			return nil, errors.New("las cuotas pagadas deben ser menores que el plazo")
		}
	}
	if r.PriorDebt != nil && *r.PriorDebt < 0 {
		return nil, errors.New("la deuda anterior no puede ser negativa")
	}

	// An explicit rate that outruns the payment would never amortize; reject
	// it here instead of producing a degenerate schedule.
	if r.AnnualInterestRate != nil {
		periodic := *r.AnnualInterestRate / 100 / 24
		if r.BiweeklyPayment <= r.Principal*periodic {
			return nil, errors.New("el pago quincenal no cubre el interés del período")
		}
	}

	return &models.Loan{
		Principal:             r.Principal,
		PeriodsCount:          r.PeriodsCount,
		BiweeklyPayment:       r.BiweeklyPayment,
		FirstPaymentDate:      firstDate,
		AnnualInterestRate:    r.AnnualInterestRate,
		PaymentsMade:          r.PaymentsMade,
		KnownRemainingBalance: r.KnownRemainingBalance,
		PriorDebt:             r.PriorDebt,
	}, nil
}

// @Summary Create Loan
// @Description Creates a loan and generates its biweekly amortization schedule
// @Tags Loans
// @Accept json
// @Produce json
// @Param request body LoanRequest true "Loan Inputs"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /loans [post]
func (h *LoanHandler) Create(c *gin.Context) {
	var req LoanRequest
	if err := BindNestedOrFlat(c, "loan", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos del préstamo inválidos"})
		return
	}
	if err := validateRequired(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	loan, err := req.toLoan()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	loan.UserID = middleware.GetUserID(c)

	created, err := h.loanService.Create(c.Request.Context(), loan)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"loan": created.ToResponse()})
}

// @Summary List Loans
// @Description Get a paginated list of loans
// @Tags Loans
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /loans [get]
func (h *LoanHandler) Index(c *gin.Context) {
	listQuery := repository.NewListQuery()
	listQuery.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	listQuery.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))

	if sort := c.Query("sort"); sort != "" {
		parts := strings.Split(sort, "-")
		listQuery.SortBy = parts[0]
		if len(parts) > 1 {
			listQuery.SortDir = parts[1]
		}
	}

	query := &repository.LoanQuery{
		ListQuery: listQuery,
		UserID:    middleware.GetUserID(c),
		IsAdmin:   middleware.IsAdmin(c),
	}

	loans, total, err := h.loanService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []interface{}
	for _, l := range loans {
		responses = append(responses, l.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"loans": responses,
		"pagination": gin.H{
			"page":        listQuery.Page,
			"per_page":    listQuery.PerPage,
			"total":       total,
			"total_pages": (total + int64(listQuery.PerPage) - 1) / int64(listQuery.PerPage),
		},
	})
}

// @Summary Get Loan
// @Description Get a loan with its full payment schedule
// @Tags Loans
// @Accept json
// @Produce json
// @Param loan_id path int true "Loan ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /loans/{loan_id} [get]
func (h *LoanHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("loan_id"), 10, 32)
	loan, ok := requireLoanAccess(c, h.loanService, uint(id))
	if !ok {
		return
	}

	payments := make([]models.PaymentResponse, 0, len(loan.Payments))
	for _, p := range loan.Payments {
		payments = append(payments, p.ToResponse())
	}
	summary := services.Summarize(loan, loan.Payments)

	c.JSON(http.StatusOK, gin.H{
		"loan":     loan.ToResponse(),
		"payments": payments,
		"summary":  summary,
	})
}

// @Summary Recalculate Loan
// @Description Replaces the loan's inputs and regenerates the schedule
// @Tags Loans
// @Accept json
// @Produce json
// @Param loan_id path int true "Loan ID"
// @Param request body LoanRequest true "Loan Inputs"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /loans/{loan_id} [put]
func (h *LoanHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("loan_id"), 10, 32)

	if _, ok := requireLoanAccess(c, h.loanService, uint(id)); !ok {
		return
	}

	var req LoanRequest
	if err := BindNestedOrFlat(c, "loan", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos del préstamo inválidos"})
		return
	}
	if err := validateRequired(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input, err := req.toLoan()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.loanService.Recalculate(c.Request.Context(), uint(id), input)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"loan": updated.ToResponse()})
}

// @Summary Delete Loan
// @Description Deletes a loan, its payments and its local snapshot
// @Tags Loans
// @Accept json
// @Produce json
// @Param loan_id path int true "Loan ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /loans/{loan_id} [delete]
func (h *LoanHandler) Delete(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("loan_id"), 10, 32)

	if _, ok := requireLoanAccess(c, h.loanService, uint(id)); !ok {
		return
	}

	if err := h.loanService.Delete(c.Request.Context(), uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Préstamo eliminado exitosamente"})
}

// @Summary Loan Summary
// @Description Recomputes the live totals of a loan from its actual payments
// @Tags Loans
// @Accept json
// @Produce json
// @Param loan_id path int true "Loan ID"
// @Success 200 {object} models.Summary
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /loans/{loan_id}/summary [get]
func (h *LoanHandler) Summary(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("loan_id"), 10, 32)

	if _, ok := requireLoanAccess(c, h.loanService, uint(id)); !ok {
		return
	}

	summary, err := h.loanService.Summary(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

type SolveRateRequest struct {
	Principal       float64 `json:"principal" binding:"required,gt=0"`
	BiweeklyPayment float64 `json:"biweekly_payment" binding:"required,gt=0"`
	PeriodsCount    int     `json:"periods_count" binding:"required,gt=0"`
	TargetBalance   float64 `json:"target_balance"`
}

// @Summary Solve Interest Rate
// @Description Finds the periodic rate that lands the balance on the target after the given periods
// @Tags Loans
// @Accept json
// @Produce json
// @Param request body SolveRateRequest true "Solver Inputs"
// @Success 200 {object} services.RateResult
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /solver/rate [post]
func (h *LoanHandler) SolveRate(c *gin.Context) {
	var req SolveRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos del solucionador inválidos"})
		return
	}
	if req.TargetBalance < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "El saldo objetivo no puede ser negativo"})
		return
	}

	result := services.SolveRate(req.Principal, req.BiweeklyPayment, req.PeriodsCount, req.TargetBalance)
	c.JSON(http.StatusOK, gin.H{"result": result})
}

// requireLoanAccess loads the loan and enforces the admin-or-owner rule every
// loan-scoped route shares. On failure it writes the response and returns
// false; the caller just returns.
func requireLoanAccess(c *gin.Context, loanService *services.LoanService, loanID uint) (*models.Loan, bool) {
	loan, err := loanService.FindByID(c.Request.Context(), loanID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Préstamo no encontrado"})
		return nil, false
	}
	if !middleware.IsAdmin(c) && loan.UserID != middleware.GetUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "No tienes acceso a este préstamo"})
		return nil, false
	}
	return loan, true
}

// validateRequired reports the gin binding errors with a stable message.
func validateRequired(req *LoanRequest) error {
	if req.Principal <= 0 {
		return errors.New("el capital debe ser mayor que cero")
	}
	if req.PeriodsCount <= 0 {
		return errors.New("el plazo debe ser mayor que cero")
	}
	if req.BiweeklyPayment <= 0 {
		return errors.New("el pago quincenal debe ser mayor que cero")
	}
	if strings.TrimSpace(req.FirstPaymentDate) == "" {
		return errors.New("la fecha de primer pago es requerida")
	}
	return nil
}
