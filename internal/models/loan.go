package models

import (
	"time"
)

// RatePlan mode constants. A loan is either priced by a single periodic rate
// for its whole life, or by two rates split around a known-balance pivot:
// one for the periods already paid, one for the periods still ahead.
const (
	RateModeSingle = "single"
	RateModeDual   = "dual"
)

// RatePlan holds the resolved periodic rate(s) for a loan. It is derived on
// every recalculation, never supplied by the user. Annual figures follow the
// 24-periods-per-year display convention (periodic rate x 24 x 100); this is
// the normative definition of the shown annual rate even though a biweekly
// calendar has 26 periods.
type RatePlan struct {
	Mode            string  `gorm:"default:single" json:"mode"`
	Periodic        float64 `gorm:"type:decimal(12,10)" json:"periodic"`
	Annual          float64 `gorm:"type:decimal(8,4)" json:"annual"`
	InitialPeriodic float64 `gorm:"type:decimal(12,10)" json:"initial_periodic"`
	InitialAnnual   float64 `gorm:"type:decimal(8,4)" json:"initial_annual"`
	Converged       bool    `gorm:"default:true" json:"converged"`
}

// PeriodicFor returns the periodic rate to apply on a 0-based period index.
// In dual mode, periods before the pivot (index < paymentsMade) accrue at the
// initial-phase rate; everything after accrues at the standard rate.
func (rp RatePlan) PeriodicFor(index, paymentsMade int) float64 {
	if rp.Mode == RateModeDual && index < paymentsMade {
		return rp.InitialPeriodic
	}
	return rp.Periodic
}

// SingleRatePlan builds a single-rate plan from a periodic rate.
func SingleRatePlan(periodic float64) RatePlan {
	return RatePlan{
		Mode:      RateModeSingle,
		Periodic:  periodic,
		Annual:    periodic * 24 * 100,
		Converged: true,
	}
}

// DualRatePlan builds a dual-rate plan from the past and future segment rates.
func DualRatePlan(initialPeriodic, initialAnnual, periodic, annual float64, converged bool) RatePlan {
	return RatePlan{
		Mode:            RateModeDual,
		Periodic:        periodic,
		Annual:          annual,
		InitialPeriodic: initialPeriodic,
		InitialAnnual:   initialAnnual,
		Converged:       converged,
	}
}

// Loan represents a biweekly (quincenal) loan and its schedule parameters.
// The payment sequence is a pure function of these fields at recalculation
// time; PriorDebt is display-only and never enters the amortization.
type Loan struct {
	ID                    uint       `gorm:"primaryKey" json:"id"`
	Reference             string     `gorm:"uniqueIndex;not null" json:"reference"`
	UserID                uint       `gorm:"not null;index" json:"user_id"`
	Principal             float64    `gorm:"type:decimal(12,2);not null" json:"principal"`
	PeriodsCount          int        `gorm:"not null" json:"periods_count"`
	BiweeklyPayment       float64    `gorm:"type:decimal(12,2);not null" json:"biweekly_payment"`
	FirstPaymentDate      time.Time  `gorm:"type:date;not null" json:"first_payment_date"`
	AnnualInterestRate    *float64   `gorm:"type:decimal(8,4)" json:"annual_interest_rate"`
	PaymentsMade          *int       `json:"payments_made"`
	KnownRemainingBalance *float64   `gorm:"type:decimal(12,2)" json:"known_remaining_balance"`
	PriorDebt             *float64   `gorm:"type:decimal(12,2)" json:"prior_debt"`
	RatePlan              RatePlan   `gorm:"embedded;embeddedPrefix:rate_" json:"rate_plan"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`

	// Associations
	User     User      `gorm:"foreignKey:UserID" json:"-"`
	Payments []Payment `gorm:"foreignKey:LoanID" json:"payments,omitempty"`
}

// TableName specifies the table name for Loan
func (Loan) TableName() string {
	return "loans"
}

// PaymentsMadeCount returns the number of periods already paid before this
// calculation run, 0 when unset.
func (l *Loan) PaymentsMadeCount() int {
	if l.PaymentsMade == nil {
		return 0
	}
	return *l.PaymentsMade
}

// HasKnownBalance returns true when the user supplied a remaining balance at
// the pivot, which switches rate resolution to the bisection solver.
func (l *Loan) HasKnownBalance() bool {
	return l.KnownRemainingBalance != nil
}

// PriorDebtAmount returns the unrelated prior debt, 0 when unset.
func (l *Loan) PriorDebtAmount() float64 {
	if l.PriorDebt == nil {
		return 0
	}
	return *l.PriorDebt
}

// LoanResponse is the JSON response format for loans
type LoanResponse struct {
	ID                    uint              `json:"id"`
	Reference             string            `json:"reference"`
	Principal             float64           `json:"principal"`
	PeriodsCount          int               `json:"periods_count"`
	BiweeklyPayment       float64           `json:"biweekly_payment"`
	FirstPaymentDate      string            `json:"first_payment_date"`
	AnnualInterestRate    *float64          `json:"annual_interest_rate"`
	PaymentsMade          *int              `json:"payments_made"`
	KnownRemainingBalance *float64          `json:"known_remaining_balance"`
	PriorDebt             *float64          `json:"prior_debt"`
	RatePlan              RatePlan          `json:"rate_plan"`
	Payments              []PaymentResponse `json:"payments,omitempty"`
	CreatedAt             time.Time         `json:"created_at"`
	UpdatedAt             time.Time         `json:"updated_at"`
}

// ToResponse converts Loan to LoanResponse. Dates travel as ISO-8601 strings.
func (l *Loan) ToResponse() LoanResponse {
	resp := LoanResponse{
		ID:                    l.ID,
		Reference:             l.Reference,
		Principal:             l.Principal,
		PeriodsCount:          l.PeriodsCount,
		BiweeklyPayment:       l.BiweeklyPayment,
		FirstPaymentDate:      l.FirstPaymentDate.Format("2006-01-02"),
		AnnualInterestRate:    l.AnnualInterestRate,
		PaymentsMade:          l.PaymentsMade,
		KnownRemainingBalance: l.KnownRemainingBalance,
		PriorDebt:             l.PriorDebt,
		RatePlan:              l.RatePlan,
		CreatedAt:             l.CreatedAt,
		UpdatedAt:             l.UpdatedAt,
	}

	for i := range l.Payments {
		resp.Payments = append(resp.Payments, l.Payments[i].ToResponse())
	}

	return resp
}
