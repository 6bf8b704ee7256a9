package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/Topo-Jon/Pagos/internal/services"
	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService *services.ReportService
	exportService *services.ExportService
	loanService   *services.LoanService
}

func NewReportHandler(reportService *services.ReportService, exportService *services.ExportService, loanService *services.LoanService) *ReportHandler {
	return &ReportHandler{reportService: reportService, exportService: exportService, loanService: loanService}
}

// @Summary Export Schedule
// @Description Downloads the amortization table as pdf, xlsx or csv
// @Tags Reports
// @Produce application/octet-stream
// @Param loan_id path int true "Loan ID"
// @Param format query string false "Export format (pdf, xlsx, csv)" default(pdf)
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /loans/{loan_id}/export [get]
func (h *ReportHandler) ExportSchedule(c *gin.Context) {
	loanID, _ := strconv.ParseUint(c.Param("loan_id"), 10, 32)
	if _, ok := requireLoanAccess(c, h.loanService, uint(loanID)); !ok {
		return
	}

	format := c.DefaultQuery("format", "pdf")

	var (
		data     []byte
		filename string
		err      error
	)

	switch format {
	case "pdf":
		data, filename, err = h.exportService.ExportPDF(c.Request.Context(), uint(loanID))
	case "xlsx":
		data, filename, err = h.exportService.ExportXLSX(c.Request.Context(), uint(loanID))
	case "csv":
		data, filename, err = h.exportService.ExportCSV(c.Request.Context(), uint(loanID))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Formato no soportado, use pdf, xlsx o csv"})
		return
	}

	if err != nil {
		if err == services.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Préstamo no encontrado"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/octet-stream", data)
}

// @Summary Loan Statement PDF
// @Description Generates a templated statement of account for a loan
// @Tags Reports
// @Produce application/pdf
// @Param loan_id path int true "Loan ID"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /loans/{loan_id}/statement_pdf [get]
func (h *ReportHandler) StatementPDF(c *gin.Context) {
	loanID, _ := strconv.ParseUint(c.Param("loan_id"), 10, 32)
	if _, ok := requireLoanAccess(c, h.loanService, uint(loanID)); !ok {
		return
	}

	buf, err := h.reportService.GenerateStatementPDF(c.Request.Context(), uint(loanID))
	if err != nil {
		if err == services.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Préstamo no encontrado"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=estado_cuenta_%d.pdf", loanID))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
