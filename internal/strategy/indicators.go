package strategy

import (
	"github.com/markcheno/go-talib"

	"SignalRank/internal/model"
)

// Indicator pieces go-talib does not export. Everything here returns full
// series aligned with the input bars, zero-filled over the lookback region,
// matching go-talib's convention.

// heikinAshi builds the synthetic Heikin-Ashi open/close series.
// haClose = (O+H+L+C)/4; haOpen is the midpoint of the previous synthetic
// candle, seeded from the first real bar.
func heikinAshi(bars model.BarSeries) (opens, closes []float64) {
	opens = make([]float64, len(bars))
	closes = make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = (b.Open + b.High + b.Low + b.Close) / 4
		if i == 0 {
			opens[i] = (b.Open + b.Close) / 2
		} else {
			opens[i] = (opens[i-1] + closes[i-1]) / 2
		}
	}
	return opens, closes
}

// awesomeOscillator is SMA(5) minus SMA(34) of the median price.
func awesomeOscillator(highs, lows []float64) []float64 {
	med := talib.MedPrice(highs, lows)
	fast := talib.Sma(med, 5)
	slow := talib.Sma(med, 34)
	out := make([]float64, len(med))
	for i := range out {
		out[i] = fast[i] - slow[i]
	}
	return out
}

// cumulativeVWAP is the running volume-weighted average price over the whole
// series. ok is false when no volume has accumulated yet.
func cumulativeVWAP(closes, volumes []float64) (vwap float64, ok bool) {
	var cumVol, cumVolPrice float64
	for i := range closes {
		cumVol += volumes[i]
		cumVolPrice += volumes[i] * closes[i]
	}
	if cumVol == 0 {
		return 0, false
	}
	return cumVolPrice / cumVol, true
}

// smma is the Wilder smoothed moving average, seeded with the SMA of the
// first period values.
func smma(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	if len(values) < period {
		return out
	}
	var sum float64
	for i := 0; i < period; i++ {
		sum += values[i]
	}
	out[period-1] = sum / float64(period)
	for i := period; i < len(values); i++ {
		out[i] = (out[i-1]*float64(period-1) + values[i]) / float64(period)
	}
	return out
}
