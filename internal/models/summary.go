package models

// Summary holds the live totals recomputed from the actual paid amounts,
// independent of the idealized per-row balances baked into the schedule.
type Summary struct {
	Principal        float64 `json:"principal"`
	TotalPaid        float64 `json:"total_paid"`
	RemainingBalance float64 `json:"remaining_balance"`
	PaidCount        int     `json:"paid_count"`
	TotalInterest    float64 `json:"total_interest"`
	Shortfall        float64 `json:"shortfall"`
	PriorDebt        float64 `json:"prior_debt"`
}
