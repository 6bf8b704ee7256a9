package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/Topo-Jon/Pagos/internal/models"
	"github.com/Topo-Jon/Pagos/internal/repository"
	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// ExportService renders a loan's amortization table to downloadable formats.
type ExportService struct {
	loanRepo repository.LoanRepository
}

func NewExportService(loanRepo repository.LoanRepository) *ExportService {
	return &ExportService{loanRepo: loanRepo}
}

var statusTranslations = map[string]string{
	models.PaymentStatusPending: "Pendiente",
	models.PaymentStatusPartial: "Parcial",
	models.PaymentStatusPaid:    "Pagado",
}

func statusLabel(status string) string {
	if label, ok := statusTranslations[status]; ok {
		return label
	}
	return status
}

func (s *ExportService) ExportCSV(ctx context.Context, loanID uint) ([]byte, string, error) {
	loan, err := s.loanRepo.FindByIDWithPayments(ctx, loanID)
	if err != nil {
		return nil, "", ErrNotFound
	}

	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)

	_ = writer.Write([]string{"Tabla de Amortización", loan.Reference})
	_ = writer.Write([]string{"Generado", time.Now().Format("2006-01-02 15:04")})
	_ = writer.Write([]string{""})
	_ = writer.Write([]string{"No.", "Fecha", "Cuota", "Interés", "Capital", "Saldo", "Estado", "Pagado"})

	for _, p := range loan.Payments {
		paid := ""
		if p.PaidAmount != nil {
			paid = fmt.Sprintf("%.2f", *p.PaidAmount)
		}
		record := []string{
			fmt.Sprintf("%d", p.PaymentNumber),
			p.DueDate.Format("2006-01-02"),
			fmt.Sprintf("%.2f", p.Amount),
			fmt.Sprintf("%.2f", p.InterestAmount),
			fmt.Sprintf("%.2f", p.PrincipalAmount),
			fmt.Sprintf("%.2f", p.ResultingBalance),
			statusLabel(p.Status),
			paid,
		}
		if err := writer.Write(record); err != nil {
			return nil, "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("amortizacion_%s.csv", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

func (s *ExportService) ExportXLSX(ctx context.Context, loanID uint) ([]byte, string, error) {
	loan, err := s.loanRepo.FindByIDWithPayments(ctx, loanID)
	if err != nil {
		return nil, "", ErrNotFound
	}
	summary := Summarize(loan, loan.Payments)

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Amortizacion"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	_ = f.SetCellValue(sheet, "A1", "Tabla de Amortización")
	_ = f.SetCellStyle(sheet, "A1", "A1", headerStyle)
	_ = f.SetCellValue(sheet, "A2", "Préstamo")
	_ = f.SetCellValue(sheet, "B2", loan.Reference)
	_ = f.SetCellValue(sheet, "A3", "Capital")
	_ = f.SetCellValue(sheet, "B3", loan.Principal)
	_ = f.SetCellValue(sheet, "A4", "Tasa Anual")
	_ = f.SetCellValue(sheet, "B4", fmt.Sprintf("%.2f%%", loan.RatePlan.Annual))
	_ = f.SetCellValue(sheet, "A5", "Saldo Restante")
	_ = f.SetCellValue(sheet, "B5", summary.RemainingBalance)

	columns := []string{"No.", "Fecha", "Cuota", "Interés", "Capital", "Saldo", "Estado", "Pagado"}
	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 7)
		_ = f.SetCellValue(sheet, cell, col)
	}

	for i, p := range loan.Payments {
		row := 8 + i
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), p.PaymentNumber)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), p.DueDate.Format("2006-01-02"))
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), p.Amount)
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", row), p.InterestAmount)
		_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", row), p.PrincipalAmount)
		_ = f.SetCellValue(sheet, fmt.Sprintf("F%d", row), p.ResultingBalance)
		_ = f.SetCellValue(sheet, fmt.Sprintf("G%d", row), statusLabel(p.Status))
		if p.PaidAmount != nil {
			_ = f.SetCellValue(sheet, fmt.Sprintf("H%d", row), *p.PaidAmount)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("amortizacion_%s.xlsx", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

func (s *ExportService) ExportPDF(ctx context.Context, loanID uint) ([]byte, string, error) {
	loan, err := s.loanRepo.FindByIDWithPayments(ctx, loanID)
	if err != nil {
		return nil, "", ErrNotFound
	}
	summary := Summarize(loan, loan.Payments)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Tabla de Amortizacion")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(60, 6, "Prestamo:")
	pdf.Cell(40, 6, loan.Reference)
	pdf.Ln(6)
	pdf.Cell(60, 6, "Capital:")
	pdf.Cell(40, 6, fmt.Sprintf("%.2f HNL", loan.Principal))
	pdf.Ln(6)
	pdf.Cell(60, 6, "Cuota Quincenal:")
	pdf.Cell(40, 6, fmt.Sprintf("%.2f HNL", loan.BiweeklyPayment))
	pdf.Ln(6)
	pdf.Cell(60, 6, "Tasa Anual:")
	pdf.Cell(40, 6, fmt.Sprintf("%.2f%%", loan.RatePlan.Annual))
	pdf.Ln(6)
	pdf.Cell(60, 6, "Saldo Restante:")
	pdf.Cell(40, 6, fmt.Sprintf("%.2f HNL", summary.RemainingBalance))
	pdf.Ln(10)

	widths := []float64{12, 24, 26, 26, 26, 28, 24, 24}
	headers := []string{"No.", "Fecha", "Cuota", "Interes", "Capital", "Saldo", "Estado", "Pagado"}

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(224, 224, 224)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, p := range loan.Payments {
		paid := ""
		if p.PaidAmount != nil {
			paid = fmt.Sprintf("%.2f", *p.PaidAmount)
		}
		pdf.CellFormat(widths[0], 6, fmt.Sprintf("%d", p.PaymentNumber), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 6, p.DueDate.Format("2006-01-02"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[2], 6, fmt.Sprintf("%.2f", p.Amount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 6, fmt.Sprintf("%.2f", p.InterestAmount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 6, fmt.Sprintf("%.2f", p.PrincipalAmount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[5], 6, fmt.Sprintf("%.2f", p.ResultingBalance), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[6], 6, statusLabel(p.Status), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[7], 6, paid, "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("amortizacion_%s.pdf", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}
