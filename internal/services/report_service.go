package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/Topo-Jon/Pagos/internal/models"
	"github.com/Topo-Jon/Pagos/internal/repository"
)

// ReportService renders templated HTML statements through wkhtmltopdf.
type ReportService struct {
	loanRepo repository.LoanRepository
	userRepo repository.UserRepository
}

func NewReportService(loanRepo repository.LoanRepository, userRepo repository.UserRepository) *ReportService {
	return &ReportService{loanRepo: loanRepo, userRepo: userRepo}
}

// Helper to generate PDF from HTML template
func (s *ReportService) generatePDF(templateName string, data interface{}) (*bytes.Buffer, error) {
	// Try path relative to project root (Prod)
	tmplPath := fmt.Sprintf("internal/services/templates/reports/%s", templateName)
	if _, err := os.Stat(tmplPath); os.IsNotExist(err) {
		// Try path relative to package (Test)
		tmplPath = fmt.Sprintf("templates/reports/%s", templateName)
	}

	tmpl, err := template.ParseFiles(tmplPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s (path: %s): %w", templateName, tmplPath, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create pdf generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(false)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader(buf.Bytes()))
	page.EnableLocalFileAccess.Set(true)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create pdf: %w", err)
	}

	return pdfg.Buffer(), nil
}

func formatDateSpanish(t time.Time) string {
	months := []string{"", "Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio", "Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre"}
	return fmt.Sprintf("%d de %s del %d", t.Day(), months[t.Month()], t.Year())
}

// GenerateStatementPDF generates a PDF statement of account for a loan
func (s *ReportService) GenerateStatementPDF(ctx context.Context, loanID uint) (*bytes.Buffer, error) {
	loan, err := s.loanRepo.FindByIDWithPayments(ctx, loanID)
	if err != nil {
		return nil, ErrNotFound
	}
	summary := Summarize(loan, loan.Payments)

	holderName := "N/A"
	if loan.UserID != 0 {
		if user, err := s.userRepo.FindByID(ctx, loan.UserID); err == nil {
			holderName = user.FullName
		}
	}

	type PaymentRow struct {
		Number   int
		DueDate  string
		Amount   string
		Interest string
		Capital  string
		Balance  string
		Status   string
		Paid     string
	}

	rows := make([]PaymentRow, 0, len(loan.Payments))
	for _, p := range loan.Payments {
		paid := ""
		if p.PaidAmount != nil {
			paid = fmt.Sprintf("L. %.2f", *p.PaidAmount)
		}
		rows = append(rows, PaymentRow{
			Number:   p.PaymentNumber,
			DueDate:  p.DueDate.Format("02/01/2006"),
			Amount:   fmt.Sprintf("L. %.2f", p.Amount),
			Interest: fmt.Sprintf("L. %.2f", p.InterestAmount),
			Capital:  fmt.Sprintf("L. %.2f", p.PrincipalAmount),
			Balance:  fmt.Sprintf("L. %.2f", p.ResultingBalance),
			Status:   statusLabel(p.Status),
			Paid:     paid,
		})
	}

	firstDate := ""
	if len(loan.Payments) > 0 {
		firstDate = formatDateSpanish(loan.Payments[0].DueDate)
	}

	rateLabel := fmt.Sprintf("%.2f%%", loan.RatePlan.Annual)
	if loan.RatePlan.Mode == models.RateModeDual {
		rateLabel = fmt.Sprintf("%.2f%% / %.2f%%", loan.RatePlan.InitialAnnual, loan.RatePlan.Annual)
	}

	data := map[string]interface{}{
		"Reference":        loan.Reference,
		"HolderName":       holderName,
		"Principal":        fmt.Sprintf("L. %.2f", loan.Principal),
		"PrincipalWords":   NumberToWords(loan.Principal),
		"BiweeklyPayment":  fmt.Sprintf("L. %.2f", loan.BiweeklyPayment),
		"PeriodsCount":     loan.PeriodsCount,
		"AnnualRate":       rateLabel,
		"FirstPaymentDate": firstDate,
		"TotalPaid":        fmt.Sprintf("L. %.2f", summary.TotalPaid),
		"RemainingBalance": fmt.Sprintf("L. %.2f", summary.RemainingBalance),
		"TotalInterest":    fmt.Sprintf("L. %.2f", summary.TotalInterest),
		"Shortfall":        fmt.Sprintf("L. %.2f", summary.Shortfall),
		"PriorDebt":        fmt.Sprintf("L. %.2f", summary.PriorDebt),
		"PaidCount":        summary.PaidCount,
		"Payments":         rows,
		"GeneratedDate":    formatDateSpanish(time.Now()),
	}

	return s.generatePDF("loan_statement.html", data)
}
