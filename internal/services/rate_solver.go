package services

// Rate solver bounds. Consumer quincenal loans sit well under 5% per period;
// the upper bound caps the bisection interval rather than any business rule.
const (
	solverMaxPeriodicRate = 0.05
	solverIterations      = 100
	solverTolerance       = 0.01
)

// RateResult is the outcome of a bisection solve. Annual is the nominal
// annual rate under the 24-periods-per-year display convention
// (periodic x 24 x 100). The periodic rate is an approximation bounded by the
// per-step cent rounding of the simulation, not a closed-form solution.
type RateResult struct {
	Periodic  float64 `json:"periodic"`
	Annual    float64 `json:"annual"`
	Converged bool    `json:"converged"`
}

// SolveRate finds the periodic rate at which simulating periods payments of
// payment against principal lands on target (within 0.01 currency units of
// ending balance). The search is a plain bisection over [0, 0.05]: a midpoint
// whose simulated ending balance exceeds the target is too expensive a rate,
// so the lower half is searched; an unpayable midpoint counts as "balance
// higher than any target" and is also searched downward. Converged is false
// when the iteration budget runs out before the tolerance is met.
func SolveRate(principal, payment float64, periods int, target float64) RateResult {
	if periods <= 0 {
		return RateResult{Converged: true}
	}

	lo, hi := 0.0, solverMaxPeriodicRate
	mid := 0.0
	for i := 0; i < solverIterations; i++ {
		mid = (lo + hi) / 2
		final, err := SimulateBalance(principal, mid, payment, periods)
		if err == nil && final-target < solverTolerance && target-final < solverTolerance {
			return RateResult{
				Periodic:  mid,
				Annual:    mid * 24 * 100,
				Converged: true,
			}
		}
		if err != nil || final > target {
			hi = mid
		} else {
			lo = mid
		}
	}

	return RateResult{
		Periodic: mid,
		Annual:   mid * 24 * 100,
	}
}
