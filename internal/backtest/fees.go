package backtest

import "math"

// Fee returns the total transaction cost for trading the given number of
// shares: commission, platform fee and external institution fee, each with
// its own per-share rate and fixed floor. Fees are real-valued, no rounding.
//
// The price and sell arguments do not affect the current schedule; they are
// kept in the signature because call sites carry them and future schedules
// (e.g. value-based SEC fees on sales) need them.
func Fee(shares, price float64, sell bool) float64 {
	commission := math.Max(0.0039*shares, 0.99)
	platformFee := math.Max(0.004*shares, 1)
	externalInstitutionFee := math.Max(0.00396*shares, 0.99)
	return commission + platformFee + externalInstitutionFee
}
