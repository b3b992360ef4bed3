package strategy

import (
	"errors"

	"github.com/markcheno/go-talib"

	"SignalRank/internal/model"
)

// ErrInsufficientData is returned by an adapter whose lookback exceeds the
// available history. The ensemble scores it as 0.
var ErrInsufficientData = errors.New("insufficient history for indicator")

// Adapter is one ensemble member: a fixed indicator rule evaluated over a
// symbol's bar history up to the scoring date.
type Adapter struct {
	Name     string
	Evaluate func(bars model.BarSeries) (model.Signal, error)
}

// Adapters lists the 20 ensemble members in scoring order. The order is part
// of the contract: analysis lines are joined in this order.
var Adapters = []Adapter{
	{"MovingAverageCrossover", evalMACrossover},
	{"BollingerBands", evalBollinger},
	{"RSI", evalRSI},
	{"BollingerBandsRTM", evalBollingerRTM},
	{"CCI", evalCCI},
	{"TRIX", evalTRIXMomentum},
	{"RateOfChange", evalROC},
	{"ParabolicSAR", evalParabolicSAR},
	{"AwesomeOscillator", evalAwesomeOscillator},
	{"HeikinAshi", evalHeikinAshi},
	{"BollingerBandsBreakout", evalBollingerBreakout},
	{"Stochastic", evalStochastic},
	{"TRIXCross", evalTRIXCross},
	{"Momentum", evalMomentum},
	{"VolumeBreakout", evalVolumeBreakout},
	{"VWAP", evalVWAP},
	{"MACD", evalMACD},
	{"OBV", evalOBV},
	{"SMACrossover", evalSMACrossover},
	{"SupportResistance", evalSupportResistance},
}

// 1. Short-window moving average crossover (3/5).
func evalMACrossover(bars model.BarSeries) (model.Signal, error) {
	if len(bars) < 5 {
		return model.Signal{}, ErrInsufficientData
	}
	closes := bars.Closes()
	short := last(talib.Sma(closes, 3))
	long := last(talib.Sma(closes, 5))
	if short > long {
		return model.Signal{Direction: 1, Explanation: "Short-term MA is above Long-term MA."}, nil
	}
	return model.Signal{Direction: -1, Explanation: "Short-term MA is below Long-term MA."}, nil
}

// 2. Bollinger Bands, short mean-reversion variant (period 1, dev 2).
func evalBollinger(bars model.BarSeries) (model.Signal, error) {
	if len(bars) < 1 {
		return model.Signal{}, ErrInsufficientData
	}
	closes := bars.Closes()
	top, _, bot := talib.BBands(closes, 1, 2, 2, talib.SMA)
	close := last(closes)
	switch {
	case close > last(bot):
		return model.Signal{Direction: 1, Explanation: "Stock price is above the lower Bollinger Band."}, nil
	case close < last(top):
		return model.Signal{Direction: -1, Explanation: "Stock price is below the upper Bollinger Band."}, nil
	default:
		return model.Signal{Direction: 0, Explanation: "Stock price is within the Bollinger Bands."}, nil
	}
}

// RSI entry/exit thresholds inherited from the trading rule. They diverge
// from the 30/70 scoring thresholds below; both are kept as-is.
const (
	rsiPeriod = 5
	rsiLower  = 3
	rsiUpper  = 7
)

// 3. RSI (period 5), scored on the 30/70 bands.
func evalRSI(bars model.BarSeries) (model.Signal, error) {
	if len(bars) < rsiPeriod+1 {
		return model.Signal{}, ErrInsufficientData
	}
	rsi := last(talib.Rsi(bars.Closes(), rsiPeriod))
	switch {
	case rsi < 30:
		return model.Signal{Direction: 1, Explanation: "RSI indicates oversold conditions."}, nil
	case rsi > 70:
		return model.Signal{Direction: -1, Explanation: "RSI indicates overbought conditions."}, nil
	default:
		return model.Signal{Direction: 0, Explanation: "RSI is neutral."}, nil
	}
}

// 4. Bollinger Bands return-to-mean variant (period 2, dev 1.0): buy below
// the lower band, sell above the upper band.
func evalBollingerRTM(bars model.BarSeries) (model.Signal, error) {
	if len(bars) < 2 {
		return model.Signal{}, ErrInsufficientData
	}
	closes := bars.Closes()
	top, _, bot := talib.BBands(closes, 2, 1.0, 1.0, talib.SMA)
	close := last(closes)
	switch {
	case close < last(bot):
		return model.Signal{Direction: 1, Explanation: "Stock price is below the lower Bollinger Band."}, nil
	case close > last(top):
		return model.Signal{Direction: -1, Explanation: "Stock price is above the upper Bollinger Band."}, nil
	default:
		return model.Signal{Direction: 0, Explanation: "Stock price is within the Bollinger Bands."}, nil
	}
}

// 5. Commodity Channel Index (period 2, ±100).
func evalCCI(bars model.BarSeries) (model.Signal, error) {
	if len(bars) < 2 {
		return model.Signal{}, ErrInsufficientData
	}
	cci := last(talib.Cci(bars.Highs(), bars.Lows(), bars.Closes(), 2))
	switch {
	case cci < -100:
		return model.Signal{Direction: 1, Explanation: "CCI indicates a potential price reversal to the upside."}, nil
	case cci > 100:
		return model.Signal{Direction: -1, Explanation: "CCI indicates a potential price reversal to the downside."}, nil
	default:
		return model.Signal{Direction: 0, Explanation: "CCI is neutral."}, nil
	}
}

// 6. TRIX momentum (period 1): current vs previous bar value.
func evalTRIXMomentum(bars model.BarSeries) (model.Signal, error) {
	if len(bars) < 3 {
		return model.Signal{}, ErrInsufficientData
	}
	trix := talib.Trix(bars.Closes(), 1)
	cur, prev := trix[len(trix)-1], trix[len(trix)-2]
	switch {
	case cur > prev:
		return model.Signal{Direction: 1, Explanation: "TRIX is showing upward momentum."}, nil
	case cur < prev:
		return model.Signal{Direction: -1, Explanation: "TRIX is showing downward momentum."}, nil
	default:
		return model.Signal{Direction: 0, Explanation: "TRIX is neutral."}, nil
	}
}

// 7. Rate of Change (period 1).
func evalROC(bars model.BarSeries) (model.Signal, error) {
	if len(bars) < 2 {
		return model.Signal{}, ErrInsufficientData
	}
	roc := last(talib.Roc(bars.Closes(), 1))
	switch {
	case roc > 0:
		return model.Signal{Direction: 1, Explanation: "Rate of Change indicates positive momentum."}, nil
	case roc < 0:
		return model.Signal{Direction: -1, Explanation: "Rate of Change indicates negative momentum."}, nil
	default:
		return model.Signal{Direction: 0, Explanation: "Rate of Change is neutral."}, nil
	}
}

// 8. Parabolic SAR (af 0.02, max 0.2).
func evalParabolicSAR(bars model.BarSeries) (model.Signal, error) {
	if len(bars) < 2 {
		return model.Signal{}, ErrInsufficientData
	}
	sar := last(talib.Sar(bars.Highs(), bars.Lows(), 0.02, 0.2))
	if last(bars.Closes()) > sar {
		return model.Signal{Direction: 1, Explanation: "Price is above Parabolic SAR indicating bullish trend."}, nil
	}
	return model.Signal{Direction: -1, Explanation: "Price is below Parabolic SAR indicating bearish trend."}, nil
}

// 9. Awesome Oscillator: sign and rising/falling jointly.
func evalAwesomeOscillator(bars model.BarSeries) (model.Signal, error) {
	if len(bars) < 35 {
		return model.Signal{}, ErrInsufficientData
	}
	ao := awesomeOscillator(bars.Highs(), bars.Lows())
	cur, prev := ao[len(ao)-1], ao[len(ao)-2]
	switch {
	case cur > 0 && cur > prev:
		return model.Signal{Direction: 1, Explanation: "Awesome Oscillator is positive and increasing."}, nil
	case cur < 0 && cur < prev:
		return model.Signal{Direction: -1, Explanation: "Awesome Oscillator is negative and decreasing."}, nil
	default:
		return model.Signal{Direction: 0, Explanation: "Awesome Oscillator is neutral."}, nil
	}
}

// 10. Heikin-Ashi candle direction.
func evalHeikinAshi(bars model.BarSeries) (model.Signal, error) {
	if len(bars) < 1 {
		return model.Signal{}, ErrInsufficientData
	}
	opens, closes := heikinAshi(bars)
	cur, open := last(closes), last(opens)
	switch {
	case cur > open:
		return model.Signal{Direction: 1, Explanation: "Heikin Ashi candle is bullish."}, nil
	case cur < open:
		return model.Signal{Direction: -1, Explanation: "Heikin Ashi candle is bearish."}, nil
	default:
		return model.Signal{Direction: 0, Explanation: "Heikin Ashi candle is neutral."}, nil
	}
}

// 11. Bollinger Bands breakout (period 20, dev 2).
func evalBollingerBreakout(bars model.BarSeries) (model.Signal, error) {
	if len(bars) < 20 {
		return model.Signal{}, ErrInsufficientData
	}
	closes := bars.Closes()
	top, _, bot := talib.BBands(closes, 20, 2, 2, talib.SMA)
	close := last(closes)
	switch {
	case close > last(top):
		return model.Signal{Direction: 1, Explanation: "Stock price broke above the upper Bollinger Band."}, nil
	case close < last(bot):
		return model.Signal{Direction: -1, Explanation: "Stock price broke below the lower Bollinger Band."}, nil
	default:
		return model.Signal{Direction: 0, Explanation: "Stock price is within the Bollinger Bands."}, nil
	}
}

// 12. Stochastic %K/%D (period 14, bands 80/20). Overbought sells, oversold
// buys: the direction is inverted relative to the raw crossing.
func evalStochastic(bars model.BarSeries) (model.Signal, error) {
	if len(bars) < 19 {
		return model.Signal{}, ErrInsufficientData
	}
	k, d := talib.Stoch(bars.Highs(), bars.Lows(), bars.Closes(), 14, 3, talib.SMA, 3, talib.SMA)
	curK, curD := last(k), last(d)
	switch {
	case curK > 80 && curD > 80:
		return model.Signal{Direction: -1, Explanation: "Stochastic indicates overbought conditions."}, nil
	case curK < 20 && curD < 20:
		return model.Signal{Direction: 1, Explanation: "Stochastic indicates oversold conditions."}, nil
	default:
		return model.Signal{Direction: 0, Explanation: "Stochastic is neutral."}, nil
	}
}

// 13. TRIX (period 3) vs its own smoothed signal line.
func evalTRIXCross(bars model.BarSeries) (model.Signal, error) {
	const period = 3
	// TRIX(3) values start after the triple-EMA and 1-bar ROC lookback; the
	// signal line needs `period` valid TRIX values on top of that.
	validFrom := 3*(period-1) + 1
	if len(bars) < validFrom+period {
		return model.Signal{}, ErrInsufficientData
	}
	trix := talib.Trix(bars.Closes(), period)
	signal := smma(trix[validFrom:], period)
	cur, sig := last(trix), last(signal)
	switch {
	case cur > sig:
		return model.Signal{Direction: 1, Explanation: "TRIX is above its signal line indicating bullish momentum."}, nil
	case cur < sig:
		return model.Signal{Direction: -1, Explanation: "TRIX is below its signal line indicating bearish momentum."}, nil
	default:
		return model.Signal{Direction: 0, Explanation: "TRIX is neutral with its signal line."}, nil
	}
}

// 14. Momentum oscillator (period 2).
func evalMomentum(bars model.BarSeries) (model.Signal, error) {
	if len(bars) < 3 {
		return model.Signal{}, ErrInsufficientData
	}
	mom := last(talib.Mom(bars.Closes(), 2))
	switch {
	case mom > 0:
		return model.Signal{Direction: 1, Explanation: "Momentum is positive indicating bullish trend."}, nil
	case mom < 0:
		return model.Signal{Direction: -1, Explanation: "Momentum is negative indicating bearish trend."}, nil
	default:
		return model.Signal{Direction: 0, Explanation: "Momentum is neutral."}, nil
	}
}

// 15. Volume breakout: volume above 2x its 20-bar average, direction from
// price vs its 20-bar average.
func evalVolumeBreakout(bars model.BarSeries) (model.Signal, error) {
	if len(bars) < 20 {
		return model.Signal{}, ErrInsufficientData
	}
	closes := bars.Closes()
	volumes := bars.Volumes()
	priceSMA := last(talib.Sma(closes, 20))
	volSMA := last(talib.Sma(volumes, 20))
	if last(volumes) > volSMA*2 {
		if last(closes) > priceSMA {
			return model.Signal{Direction: 1, Explanation: "Significant volume breakout detected with price above the moving average."}, nil
		}
		return model.Signal{Direction: -1, Explanation: "Significant volume breakout detected with price below the moving average."}, nil
	}
	return model.Signal{Direction: 0, Explanation: "No significant volume breakout detected."}, nil
}

// 16. Cumulative VWAP vs close.
func evalVWAP(bars model.BarSeries) (model.Signal, error) {
	if len(bars) < 1 {
		return model.Signal{}, ErrInsufficientData
	}
	vwap, ok := cumulativeVWAP(bars.Closes(), bars.Volumes())
	if !ok {
		return model.Signal{}, errors.New("no volume accumulated for VWAP")
	}
	close := last(bars.Closes())
	switch {
	case close > vwap:
		return model.Signal{Direction: 1, Explanation: "Price is above VWAP indicating bullish trend."}, nil
	case close < vwap:
		return model.Signal{Direction: -1, Explanation: "Price is below VWAP indicating bearish trend."}, nil
	default:
		return model.Signal{Direction: 0, Explanation: "Price is around VWAP indicating a neutral trend."}, nil
	}
}

// 17. MACD line vs signal line (12/26/9).
func evalMACD(bars model.BarSeries) (model.Signal, error) {
	if len(bars) < 34 {
		return model.Signal{}, ErrInsufficientData
	}
	macd, signal, _ := talib.Macd(bars.Closes(), 12, 26, 9)
	cur, sig := last(macd), last(signal)
	switch {
	case cur > sig:
		return model.Signal{Direction: 1, Explanation: "MACD line is above the signal line indicating bullish momentum."}, nil
	case cur < sig:
		return model.Signal{Direction: -1, Explanation: "MACD line is below the signal line indicating bearish momentum."}, nil
	default:
		return model.Signal{Direction: 0, Explanation: "MACD line is crossing the signal line."}, nil
	}
}

// 18. On-Balance Volume trend: current vs previous bar.
func evalOBV(bars model.BarSeries) (model.Signal, error) {
	if len(bars) < 2 {
		return model.Signal{}, ErrInsufficientData
	}
	obv := talib.Obv(bars.Closes(), bars.Volumes())
	cur, prev := obv[len(obv)-1], obv[len(obv)-2]
	switch {
	case cur > prev:
		return model.Signal{Direction: 1, Explanation: "On-Balance Volume is increasing, indicating buying pressure."}, nil
	case cur < prev:
		return model.Signal{Direction: -1, Explanation: "On-Balance Volume is decreasing, indicating selling pressure."}, nil
	default:
		return model.Signal{Direction: 0, Explanation: "On-Balance Volume is stable."}, nil
	}
}

// 19. Long-window SMA crossover (50/200).
func evalSMACrossover(bars model.BarSeries) (model.Signal, error) {
	if len(bars) < 200 {
		return model.Signal{}, ErrInsufficientData
	}
	closes := bars.Closes()
	short := last(talib.Sma(closes, 50))
	long := last(talib.Sma(closes, 200))
	if short > long {
		return model.Signal{Direction: 1, Explanation: "Short-term MA is above Long-term MA in the long time."}, nil
	}
	return model.Signal{Direction: -1, Explanation: "Short-term MA is below Long-term MA in the long time."}, nil
}

// 20. Support/resistance breakout over 50 bars.
func evalSupportResistance(bars model.BarSeries) (model.Signal, error) {
	if len(bars) < 50 {
		return model.Signal{}, ErrInsufficientData
	}
	support := last(talib.Min(bars.Lows(), 50))
	resistance := last(talib.Max(bars.Highs(), 50))
	close := last(bars.Closes())
	switch {
	case close > resistance:
		return model.Signal{Direction: 1, Explanation: "Price broke above resistance."}, nil
	case close < support:
		return model.Signal{Direction: -1, Explanation: "Price broke below support."}, nil
	default:
		return model.Signal{Direction: 0, Explanation: "Price is within support and resistance."}, nil
	}
}

func last(values []float64) float64 {
	return values[len(values)-1]
}
