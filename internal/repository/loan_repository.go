package repository

import (
	"context"
	"strings"

	"github.com/Topo-Jon/Pagos/internal/models"
	"gorm.io/gorm"
)

// LoanRepository defines the interface for loan data access
type LoanRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Loan, error)
	FindByIDWithPayments(ctx context.Context, id uint) (*models.Loan, error)
	Create(ctx context.Context, loan *models.Loan) error
	Update(ctx context.Context, loan *models.Loan) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *LoanQuery) ([]models.Loan, int64, error)
	ReplaceSchedule(ctx context.Context, loan *models.Loan, payments []models.Payment) error
}

// LoanQuery extends ListQuery with loan-specific filters
type LoanQuery struct {
	*ListQuery
	UserID  uint
	IsAdmin bool
}

type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) FindByID(ctx context.Context, id uint) (*models.Loan, error) {
	var loan models.Loan
	err := r.db.WithContext(ctx).First(&loan, id).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

func (r *loanRepository) FindByIDWithPayments(ctx context.Context, id uint) (*models.Loan, error) {
	var loan models.Loan
	err := r.db.WithContext(ctx).
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("payment_number ASC")
		}).
		First(&loan, id).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

func (r *loanRepository) Create(ctx context.Context, loan *models.Loan) error {
	return r.db.WithContext(ctx).Create(loan).Error
}

func (r *loanRepository) Update(ctx context.Context, loan *models.Loan) error {
	return r.db.WithContext(ctx).Save(loan).Error
}

func (r *loanRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("loan_id = ?", id).Delete(&models.Payment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Loan{}, id).Error
	})
}

func (r *loanRepository) List(ctx context.Context, query *LoanQuery) ([]models.Loan, int64, error) {
	var loans []models.Loan
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Loan{})

	if !query.IsAdmin {
		db = db.Where("user_id = ?", query.UserID)
	}

	if search := query.Filters["search_term"]; search != "" {
		db = db.Where("reference ILIKE ?", "%"+search+"%")
	}

	countDb := db.Session(&gorm.Session{})
	if err := countDb.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := "created_at"
	if query.SortBy != "" {
		switch query.SortBy {
		case "principal", "periods_count", "first_payment_date", "created_at":
			sortBy = query.SortBy
		}
	}
	dir := "DESC"
	if strings.EqualFold(query.SortDir, "asc") {
		dir = "ASC"
	}
	db = db.Order(sortBy + " " + dir)

	offset := (query.Page - 1) * query.PerPage
	err := db.Offset(offset).Limit(query.PerPage).Find(&loans).Error
	return loans, total, err
}

// ReplaceSchedule persists the loan and swaps its whole payment sequence in
// one transaction. Schedules are rebuilt wholesale on recalculation, never
// patched row by row.
func (r *loanRepository) ReplaceSchedule(ctx context.Context, loan *models.Loan, payments []models.Payment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(loan).Error; err != nil {
			return err
		}
		if err := tx.Where("loan_id = ?", loan.ID).Delete(&models.Payment{}).Error; err != nil {
			return err
		}
		if len(payments) == 0 {
			return nil
		}
		for i := range payments {
			payments[i].LoanID = loan.ID
		}
		return tx.Create(&payments).Error
	})
}
