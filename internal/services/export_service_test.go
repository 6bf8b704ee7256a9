package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/Topo-Jon/Pagos/internal/models"
	"github.com/Topo-Jon/Pagos/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"
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

func exportLoan() *models.Loan {
	paid := 400.0
	loan := &models.Loan{
		ID:               7,
		Reference:        "ref-export",
		UserID:           1,
		Principal:        1200,
		PeriodsCount:     3,
		BiweeklyPayment:  410,
		FirstPaymentDate: time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
		RatePlan:         models.SingleRatePlan(0.01),
	}
	loan.Payments = []models.Payment{
		{LoanID: 7, PaymentNumber: 1, DueDate: time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
			Amount: 410, InterestAmount: 12, PrincipalAmount: 398, ResultingBalance: 802,
			Status: models.PaymentStatusPaid, PaidAmount: &paid},
		{LoanID: 7, PaymentNumber: 2, DueDate: time.Date(2024, time.March, 30, 0, 0, 0, 0, time.UTC),
			Amount: 410, InterestAmount: 8.02, PrincipalAmount: 401.98, ResultingBalance: 400.02,
			Status: models.PaymentStatusPending},
		{LoanID: 7, PaymentNumber: 3, DueDate: time.Date(2024, time.April, 15, 0, 0, 0, 0, time.UTC),
			Amount: 404.02, InterestAmount: 4, PrincipalAmount: 400.02, ResultingBalance: 0,
			Status: models.PaymentStatusPending},
	}
	return loan
}

func TestExportCSV_OneRecordPerScheduleRow(t *testing.T) {
	svc := NewExportService(&stubLoanRepo{loan: exportLoan()})

	data, filename, err := svc.ExportCSV(context.Background(), 7)

	assert.NoError(t, err)
	assert.Contains(t, filename, "amortizacion_")
	assert.Contains(t, filename, ".csv")

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	assert.NoError(t, err)

	// title + generated-at + column header, then one record per payment
	assert.Len(t, records, 6)
	assert.Equal(t, []string{"No.", "Fecha", "Cuota", "Interés", "Capital", "Saldo", "Estado", "Pagado"}, records[2])

	first := records[3]
	assert.Equal(t, "1", first[0])
	assert.Equal(t, "2024-03-15", first[1])
	assert.Equal(t, "410.00", first[2])
	assert.Equal(t, "Pagado", first[6])
	assert.Equal(t, "400.00", first[7])

	last := records[5]
	assert.Equal(t, "3", last[0])
	assert.Equal(t, "0.00", last[5])
	assert.Equal(t, "Pendiente", last[6])
	assert.Equal(t, "", last[7])
}

func TestExportCSV_LoanMissing(t *testing.T) {
	svc := NewExportService(&stubLoanRepo{})

	_, _, err := svc.ExportCSV(context.Background(), 99)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExportXLSX_WritesScheduleSheet(t *testing.T) {
	svc := NewExportService(&stubLoanRepo{loan: exportLoan()})

	data, filename, err := svc.ExportXLSX(context.Background(), 7)

	assert.NoError(t, err)
	assert.Contains(t, filename, ".xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(data))
	assert.NoError(t, err)
	defer f.Close()

	title, _ := f.GetCellValue("Amortizacion", "A1")
	assert.Equal(t, "Tabla de Amortización", title)
	firstRow, _ := f.GetCellValue("Amortizacion", "A8")
	assert.Equal(t, "1", firstRow)
}

func TestStatusLabel_UnknownPassesThrough(t *testing.T) {
	assert.Equal(t, "Pagado", statusLabel(models.PaymentStatusPaid))
	assert.Equal(t, "whatever", statusLabel("whatever"))
}
