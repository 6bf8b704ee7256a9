package repository

import (
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	User         UserRepository
	Loan         LoanRepository
	Payment      PaymentRepository
	RefreshToken RefreshTokenRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Loan:         NewLoanRepository(db),
		Payment:      NewPaymentRepository(db),
		RefreshToken: NewRefreshTokenRepository(db),
	}
}
