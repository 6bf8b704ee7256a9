package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validLoanRequest() LoanRequest {
	rate := 27.06
	return LoanRequest{
		Principal:          107000,
		PeriodsCount:       48,
		BiweeklyPayment:    3110.72,
		FirstPaymentDate:   "2024-01-15",
		AnnualInterestRate: &rate,
	}
}

func TestLoanRequest_Valid(t *testing.T) {
	req := validLoanRequest()

	loan, err := req.toLoan()

	assert.NoError(t, err)
	assert.Equal(t, 107000.0, loan.Principal)
	assert.Equal(t, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), loan.FirstPaymentDate)
}

func TestLoanRequest_BadDate(t *testing.T) {
	req := validLoanRequest()
	req.FirstPaymentDate = "15/01/2024"

	_, err := req.toLoan()

	assert.Error(t, err)
}

func TestLoanRequest_RequiresRateOrKnownBalance(t *testing.T) {
	req := validLoanRequest()
	req.AnnualInterestRate = nil

	_, err := req.toLoan()

	assert.Error(t, err)
}

func TestLoanRequest_KnownBalanceNeedsPaymentsMade(t *testing.T) {
	req := validLoanRequest()
	req.AnnualInterestRate = nil
	known := 80000.0
	req.KnownRemainingBalance = &known

	_, err := req.toLoan()
	assert.Error(t, err)

	made := 10
	req.PaymentsMade = &made
	loan, err := req.toLoan()
	assert.NoError(t, err)
	assert.Equal(t, 80000.0, *loan.KnownRemainingBalance)
}

func TestLoanRequest_PaymentsMadeMustBeBelowTerm(t *testing.T) {
	req := validLoanRequest()
	made := 48
	req.PaymentsMade = &made

	_, err := req.toLoan()

	assert.Error(t, err)
}

func TestLoanRequest_UnpayableRateRejected(t *testing.T) {
	req := validLoanRequest()
	// At 60% annual the first period's interest alone exceeds the payment.
	rate := 60.0
	req.AnnualInterestRate = &rate
	req.BiweeklyPayment = 2500

	_, err := req.toLoan()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no cubre el interés")
}

func TestLoanRequest_NegativePriorDebtRejected(t *testing.T) {
	req := validLoanRequest()
	debt := -1.0
	req.PriorDebt = &debt

	_, err := req.toLoan()

	assert.Error(t, err)
}
