package backtest

import (
	"SignalRank/internal/model"
)

// Simulator replays merged price+score history through the threshold-driven
// daily portfolio state machine. Each run owns its own position state; a
// Simulator may be reused, but runs must not be concurrent on one value.
type Simulator struct {
	Budget float64
	Pair   model.ThresholdPair
}

// Run consumes rows ordered by date then symbol and emits one result per
// trading day. Within a day, buys are processed before sells; symbols in
// neither bucket are simply carried.
//
// return_rate is reported as 0 on days where total earning is 0 (an empty
// portfolio before any buy) instead of dividing by zero.
func (s *Simulator) Run(rows []model.DayRow) []model.BacktestDayResult {
	var (
		totalInvestment float64
		soldEarning     float64
		prevNetEarning  float64
		positions       = make(map[string]float64)
		results         []model.BacktestDayResult
	)

	for _, day := range groupByDate(rows) {
		// Buy: split the budget equally across eligible symbols at close.
		var eligible []model.DayRow
		for _, r := range day {
			if r.Score >= s.Pair.M {
				eligible = append(eligible, r)
			}
		}
		invested := make([]string, 0, len(eligible))
		if len(eligible) > 0 {
			allocation := s.Budget / float64(len(eligible))
			for _, r := range eligible {
				shares := allocation / r.Close
				positions[r.Symbol] += shares
				totalInvestment += allocation + Fee(shares, r.Close, false)
				invested = append(invested, r.Symbol)
			}
		}

		// Sell: liquidate held symbols at or below the sell threshold.
		for _, r := range day {
			if r.Score <= s.Pair.N {
				if shares, held := positions[r.Symbol]; held {
					proceeds := shares * r.Close
					soldEarning += proceeds - Fee(shares, r.Close, true)
					delete(positions, r.Symbol)
				}
			}
		}

		// Value open positions at the day's close prices.
		var holdingEarning float64
		for _, r := range day {
			holdingEarning += r.Close * positions[r.Symbol]
		}

		totalEarning := soldEarning + holdingEarning
		netEarning := totalEarning - totalInvestment
		var returnRate float64
		if totalEarning != 0 {
			returnRate = netEarning / totalEarning * 100
		}

		results = append(results, model.BacktestDayResult{
			Date:            day[0].Date,
			InvestedSymbols: invested,
			TotalInvestment: totalInvestment,
			TotalEarning:    totalEarning,
			NetEarning:      netEarning,
			ReturnRate:      returnRate,
			DailyNetEarning: netEarning - prevNetEarning,
		})
		prevNetEarning = netEarning
	}

	return results
}

// FinalNetEarning is the last simulated day's net earning, 0 for an empty run.
func FinalNetEarning(results []model.BacktestDayResult) float64 {
	if len(results) == 0 {
		return 0
	}
	return results[len(results)-1].NetEarning
}

// groupByDate splits rows (ordered by date) into per-day slices.
func groupByDate(rows []model.DayRow) [][]model.DayRow {
	var out [][]model.DayRow
	var cur []model.DayRow
	for _, r := range rows {
		if len(cur) > 0 && !cur[0].Date.Equal(r.Date) {
			out = append(out, cur)
			cur = nil
		}
		cur = append(cur, r)
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}
