package models

import (
	"time"
)

// Payment represents one biweekly period of a loan schedule. The idealized
// fields (Amount, InterestAmount, PrincipalAmount, ResultingBalance) are fixed
// at generation time; Status and PaidAmount diverge as the user records what
// was actually paid.
type Payment struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	LoanID           uint       `gorm:"not null;index" json:"loan_id"`
	PaymentNumber    int        `gorm:"not null" json:"payment_number"`
	DueDate          time.Time  `gorm:"type:date;not null;index" json:"due_date"`
	Amount           float64    `gorm:"type:decimal(12,2);not null" json:"amount"`
	InterestAmount   float64    `gorm:"type:decimal(12,2);not null" json:"interest_amount"`
	PrincipalAmount  float64    `gorm:"type:decimal(12,2);not null" json:"principal_amount"`
	ResultingBalance float64    `gorm:"type:decimal(12,2);not null" json:"resulting_balance"`
	Status           string     `gorm:"default:pending;not null;index" json:"status"`
	PaidAmount       *float64   `gorm:"type:decimal(12,2)" json:"paid_amount"`
	PaidAt           *time.Time `gorm:"type:date" json:"paid_at"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	// Associations
	Loan Loan `gorm:"foreignKey:LoanID" json:"-"`
}

// TableName specifies the table name for Payment
func (Payment) TableName() string {
	return "payments"
}

// Payment status constants
const (
	PaymentStatusPending = "pending"
	PaymentStatusPartial = "partial"
	PaymentStatusPaid    = "paid"
)

// PaidEpsilon is the tolerance under which a paid amount still counts as a
// full payment of the scheduled amount.
const PaidEpsilon = 0.01

// PaidValue returns the recorded paid amount, 0 when unset.
func (p *Payment) PaidValue() float64 {
	if p.PaidAmount == nil {
		return 0
	}
	return *p.PaidAmount
}

// IsSettled returns true once the row is no longer pending.
func (p *Payment) IsSettled() bool {
	return p.Status != PaymentStatusPending
}

// StatusForAmount derives the completion status implied by a paid amount
// against the scheduled amount.
func (p *Payment) StatusForAmount(paid float64) string {
	switch {
	case paid >= p.Amount-PaidEpsilon:
		return PaymentStatusPaid
	case paid > 0:
		return PaymentStatusPartial
	default:
		return PaymentStatusPending
	}
}

// IsOverdue returns true if a pending payment is past its due date
func (p *Payment) IsOverdue() bool {
	return p.Status == PaymentStatusPending && time.Now().After(p.DueDate)
}

// PaymentResponse is the JSON response format for payments
type PaymentResponse struct {
	ID               uint     `json:"id"`
	LoanID           uint     `json:"loan_id"`
	PaymentNumber    int      `json:"payment_number"`
	DueDate          string   `json:"due_date"`
	Amount           float64  `json:"amount"`
	InterestAmount   float64  `json:"interest_amount"`
	PrincipalAmount  float64  `json:"principal_amount"`
	ResultingBalance float64  `json:"resulting_balance"`
	Status           string   `json:"status"`
	PaidAmount       *float64 `json:"paid_amount"`
	PaidAt           *string  `json:"paid_at"`
	IsOverdue        bool     `json:"is_overdue"`
}

// ToResponse converts Payment to PaymentResponse
func (p *Payment) ToResponse() PaymentResponse {
	resp := PaymentResponse{
		ID:               p.ID,
		LoanID:           p.LoanID,
		PaymentNumber:    p.PaymentNumber,
		DueDate:          p.DueDate.Format("2006-01-02"),
		Amount:           p.Amount,
		InterestAmount:   p.InterestAmount,
		PrincipalAmount:  p.PrincipalAmount,
		ResultingBalance: p.ResultingBalance,
		Status:           p.Status,
		PaidAmount:       p.PaidAmount,
		IsOverdue:        p.IsOverdue(),
	}

	if p.PaidAt != nil {
		paidAt := p.PaidAt.Format("2006-01-02")
		resp.PaidAt = &paidAt
	}

	return resp
}
