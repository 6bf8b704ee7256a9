package services

import (
	"github.com/Topo-Jon/Pagos/internal/models"
)

// balanceTolerance is the running-balance threshold under which no further
// schedule rows are generated.
const balanceTolerance = 0.01

// ResolveRatePlan derives the loan's periodic rate(s) from its inputs.
// Precedence: a known remaining balance together with payments made switches
// to dual-rate mode and the solver runs once per segment (principal down to
// the known balance over the paid periods, then the known balance down to
// zero over the rest); otherwise the annual rate converts directly to a
// periodic rate under the 24-period convention. A known balance without a
// pivot, or neither input, cannot be resolved.
func ResolveRatePlan(loan *models.Loan) (models.RatePlan, error) {
	made := loan.PaymentsMadeCount()

	if loan.HasKnownBalance() && made > 0 {
		known := *loan.KnownRemainingBalance
		past := SolveRate(loan.Principal, loan.BiweeklyPayment, made, known)
		future := SolveRate(known, loan.BiweeklyPayment, loan.PeriodsCount-made, 0)
		converged := past.Converged && future.Converged
		return models.DualRatePlan(past.Periodic, past.Annual, future.Periodic, future.Annual, converged), nil
	}

	if loan.AnnualInterestRate != nil {
		periodic := *loan.AnnualInterestRate / 100 / 24
		return models.SingleRatePlan(periodic), nil
	}

	return models.RatePlan{}, ErrRateUnresolved
}

// BuildSchedule produces the idealized ordered payment sequence for a loan
// whose rate plan is already resolved. Degenerate numeric inputs yield an
// empty slice rather than an error; input validation proper belongs to the
// request boundary.
//
// One row per period: interest accrues on the running balance at the plan's
// rate for that period, principal is the fixed payment minus interest, and
// the balance walks down with cent rounding at every step. A period that
// could be cleared by the fixed payment (or the final scheduled period)
// becomes the payoff row: its amount is exactly balance plus interest and it
// zeroes the balance. When the loan carries a known remaining balance, the
// row at the pivot has its resulting balance forced to the known value and
// amortization continues from there. Rows before the pivot are created
// already paid at their scheduled amount.
func BuildSchedule(loan *models.Loan) []models.Payment {
	if loan.Principal <= 0 || loan.PeriodsCount <= 0 || loan.BiweeklyPayment <= 0 {
		return nil
	}
	if loan.RatePlan.Periodic < 0 || loan.RatePlan.InitialPeriodic < 0 {
		return nil
	}

	made := loan.PaymentsMadeCount()
	dates := PayDates(loan.FirstPaymentDate, loan.PeriodsCount)

	payments := make([]models.Payment, 0, loan.PeriodsCount)
	balance := loan.Principal

	for i := 0; i < loan.PeriodsCount; i++ {
		if i > 0 && balance < balanceTolerance {
			break
		}

		rate := loan.RatePlan.PeriodicFor(i, made)
		interest := round2(balance * rate)

		amount := loan.BiweeklyPayment
		var principal, resulting float64

		if i == loan.PeriodsCount-1 || balance+interest <= loan.BiweeklyPayment {
			// Payoff row: settle the full remainder regardless of the fixed payment.
			amount = round2(balance + interest)
			principal = balance
			resulting = 0
		} else {
			principal = round2(loan.BiweeklyPayment - interest)
			if principal < 0 {
				principal = 0
			}
			resulting = round2(balance - principal)
		}

		if loan.HasKnownBalance() && i+1 == made {
			resulting = *loan.KnownRemainingBalance
		}

		payment := models.Payment{
			LoanID:           loan.ID,
			PaymentNumber:    i + 1,
			DueDate:          dates[i],
			Amount:           amount,
			InterestAmount:   interest,
			PrincipalAmount:  principal,
			ResultingBalance: resulting,
			Status:           models.PaymentStatusPending,
		}

		if i < made {
			paid := amount
			payment.Status = models.PaymentStatusPaid
			payment.PaidAmount = &paid
		}

		payments = append(payments, payment)
		balance = resulting
	}

	return payments
}

// Summarize recomputes the live totals for a loan from the actual paid
// amounts. The running balance always restarts at the principal so that
// toggling past payments stays consistent; the per-row idealized balances
// only reflect generation-time assumptions and are deliberately ignored.
func Summarize(loan *models.Loan, payments []models.Payment) models.Summary {
	summary := models.Summary{
		Principal: loan.Principal,
		PriorDebt: loan.PriorDebtAmount(),
	}

	pivot := loan.PaymentsMadeCount() - 1

	lastSettled := -1
	for i := range payments {
		if payments[i].IsSettled() {
			lastSettled = i
		}
		if payments[i].Status == models.PaymentStatusPaid {
			summary.PaidCount++
		}
		summary.TotalPaid = round2(summary.TotalPaid + payments[i].PaidValue())
		summary.TotalInterest = round2(summary.TotalInterest + payments[i].InterestAmount)
	}
	if summary.TotalInterest < 0 {
		summary.TotalInterest = 0
	}

	balance := loan.Principal
	shortfall := 0.0
	for i := 0; i <= lastSettled; i++ {
		rate := loan.RatePlan.Periodic
		if loan.RatePlan.Mode == models.RateModeDual && i <= pivot {
			rate = loan.RatePlan.InitialPeriodic
		}
		interest := round2(balance * rate)
		balance = round2(balance + interest)
		balance = round2(balance - payments[i].PaidValue())
		shortfall += payments[i].Amount - payments[i].PaidValue()
	}

	if balance < balanceTolerance {
		balance = 0
	}
	summary.RemainingBalance = balance

	if shortfall > 0 {
		summary.Shortfall = round2(shortfall)
	}

	return summary
}
