package strategy

import (
	"fmt"
	"log"
	"strings"

	"SignalRank/internal/model"
)

// Result is the ensemble outcome for one symbol on one date.
type Result struct {
	Symbol   string
	Score    int
	Analysis string
}

// Evaluate runs all 20 adapters over a symbol's bar history and combines
// them into a total score and analysis text. An adapter failure (typically
// insufficient history) contributes 0 and no explanation line; it is logged
// and never aborts the rest of the ensemble.
//
// The sentiment headline is inverted relative to the score sign (a positive
// score reads "Bearish"). This mirrors the upstream scoring system and is
// kept for reproducibility; see DESIGN.md.
func Evaluate(symbol string, bars model.BarSeries) Result {
	total := 0
	lines := make([]string, 0, len(Adapters))

	for _, a := range Adapters {
		sig, err := a.Evaluate(bars)
		if err != nil {
			log.Printf("[WARN] %s signal for %s failed: %v", a.Name, symbol, err)
			continue
		}
		total += sig.Direction
		lines = append(lines, sig.Explanation)
	}

	sentiment := "Neutral"
	if total > 0 {
		sentiment = "Bearish"
	} else if total < 0 {
		sentiment = "Bullish"
	}

	analysis := fmt.Sprintf("Overall %s is %s for our 20 technical analysis.\nDetails: \n%s",
		symbol, sentiment, strings.Join(lines, "\n"))

	return Result{Symbol: symbol, Score: total, Analysis: analysis}
}
