package handlers

import (
	"net/http"
	"strconv"

	"github.com/Topo-Jon/Pagos/internal/services"
	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
	loanService    *services.LoanService
}

func NewPaymentHandler(paymentService *services.PaymentService, loanService *services.LoanService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, loanService: loanService}
}

type SetAmountPaidRequest struct {
	AmountPaid string `json:"amount_paid"`
}

// @Summary Set Amount Paid
// @Description Records the raw paid amount on a payment; an empty string clears it
// @Tags Payments
// @Accept json
// @Produce json
// @Param loan_id path int true "Loan ID"
// @Param payment_id path int true "Payment ID"
// @Param request body SetAmountPaidRequest true "Raw Amount"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /loans/{loan_id}/payments/{payment_id}/amount_paid [patch]
func (h *PaymentHandler) SetAmountPaid(c *gin.Context) {
	loanID, _ := strconv.ParseUint(c.Param("loan_id"), 10, 32)
	paymentID, _ := strconv.ParseUint(c.Param("payment_id"), 10, 32)

	if _, ok := requireLoanAccess(c, h.loanService, uint(loanID)); !ok {
		return
	}

	var req SetAmountPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos del pago inválidos"})
		return
	}

	payment, summary, err := h.paymentService.SetAmountPaid(c.Request.Context(), uint(loanID), uint(paymentID), req.AmountPaid)
	if err != nil {
		status := http.StatusBadRequest
		if err == services.ErrNotFound {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payment": payment.ToResponse(),
		"summary": summary,
	})
}

// @Summary Toggle Payment
// @Description Flips a payment between pending and fully paid at the scheduled amount
// @Tags Payments
// @Accept json
// @Produce json
// @Param loan_id path int true "Loan ID"
// @Param payment_id path int true "Payment ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /loans/{loan_id}/payments/{payment_id}/toggle [post]
func (h *PaymentHandler) Toggle(c *gin.Context) {
	loanID, _ := strconv.ParseUint(c.Param("loan_id"), 10, 32)
	paymentID, _ := strconv.ParseUint(c.Param("payment_id"), 10, 32)

	if _, ok := requireLoanAccess(c, h.loanService, uint(loanID)); !ok {
		return
	}

	payment, summary, err := h.paymentService.Toggle(c.Request.Context(), uint(loanID), uint(paymentID))
	if err != nil {
		status := http.StatusBadRequest
		if err == services.ErrNotFound {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payment": payment.ToResponse(),
		"summary": summary,
	})
}

// @Summary List Loan Payments
// @Description Get the ordered payment schedule of a loan
// @Tags Payments
// @Accept json
// @Produce json
// @Param loan_id path int true "Loan ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /loans/{loan_id}/payments [get]
func (h *PaymentHandler) Index(c *gin.Context) {
	loanID, _ := strconv.ParseUint(c.Param("loan_id"), 10, 32)

	if _, ok := requireLoanAccess(c, h.loanService, uint(loanID)); !ok {
		return
	}

	payments, err := h.paymentService.FindByLoan(c.Request.Context(), uint(loanID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []interface{}
	for _, p := range payments {
		responses = append(responses, p.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"payments": responses})
}
