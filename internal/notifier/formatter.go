package notifier

import (
	"fmt"
	"strings"
	"time"

	"SignalRank/internal/model"
)

// FormatDailyReport formats the day's top-ranked symbols into a Telegram message.
func FormatDailyReport(date time.Time, records []model.ScoreRecord) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>SignalRank daily scores</b> | %s\n\n", date.Format(model.DateLayout)))
	if len(records) == 0 {
		b.WriteString("No scores for this date yet.\n")
		return b.String()
	}

	for _, r := range records {
		b.WriteString(fmt.Sprintf("  #%d %s: %+d\n", r.Rank, r.Symbol, r.Score))
	}
	b.WriteString("\nScores are the sum of 20 technical signals, each in {-1, 0, 1}.")
	return b.String()
}

// FormatBacktestReport summarizes a completed backtest run.
func FormatBacktestReport(pair model.ThresholdPair, results []model.BacktestDayResult) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("🧪 <b>Backtest</b> | buy ≥ %d, sell ≤ %d\n\n", pair.M, pair.N))
	if len(results) == 0 {
		b.WriteString("No merged price+score history in the evaluation window.")
		return b.String()
	}

	first, final := results[0], results[len(results)-1]
	b.WriteString(fmt.Sprintf("Window: %s .. %s (%d trading days)\n",
		first.Date.Format(model.DateLayout), final.Date.Format(model.DateLayout), len(results)))
	b.WriteString(fmt.Sprintf("Total investment: %.2f\n", final.TotalInvestment))
	b.WriteString(fmt.Sprintf("Total earning: %.2f\n", final.TotalEarning))
	b.WriteString(fmt.Sprintf("Net earning: %.2f\n", final.NetEarning))
	b.WriteString(fmt.Sprintf("Return rate: %.2f%%\n", final.ReturnRate))
	return b.String()
}

// FormatOptimizerReport summarizes a grid-search outcome.
func FormatOptimizerReport(pair model.ThresholdPair, netEarning float64) string {
	var b strings.Builder
	b.WriteString("🔎 <b>Threshold optimization complete</b>\n\n")
	b.WriteString(fmt.Sprintf("Best pair: buy ≥ %d, sell ≤ %d\n", pair.M, pair.N))
	b.WriteString(fmt.Sprintf("Training net earning: %.2f\n", netEarning))
	b.WriteString("\nSaved as the default for future /backtest runs.")
	return b.String()
}
