package strategy

import (
	"errors"
	"testing"
	"time"

	"SignalRank/internal/model"
)

// seriesFromCloses builds a bar series with a tight range around each close
// and constant volume.
func seriesFromCloses(closes ...float64) model.BarSeries {
	bars := make(model.BarSeries, len(closes))
	base := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = model.Bar{
			Date:   base.AddDate(0, 0, i),
			Symbol: "TEST",
			Open:   c - 0.05,
			High:   c + 0.1,
			Low:    c - 0.1,
			Close:  c,
			Volume: 1000,
		}
	}
	return bars
}

func TestMACrossover_UpTrend(t *testing.T) {
	bars := seriesFromCloses(1, 2, 3, 4, 5, 6, 7)
	sig, err := evalMACrossover(bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sig.Direction != 1 {
		t.Errorf("expected direction 1 for rising closes, got %d", sig.Direction)
	}
	if sig.Explanation != "Short-term MA is above Long-term MA." {
		t.Errorf("unexpected explanation: %q", sig.Explanation)
	}
}

func TestMACrossover_DownTrend(t *testing.T) {
	bars := seriesFromCloses(7, 6, 5, 4, 3, 2, 1)
	sig, err := evalMACrossover(bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sig.Direction != -1 {
		t.Errorf("expected direction -1 for falling closes, got %d", sig.Direction)
	}
}

func TestMACrossover_InsufficientHistory(t *testing.T) {
	bars := seriesFromCloses(1, 2, 3)
	if _, err := evalMACrossover(bars); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

// The period-1 Bollinger variant collapses all three bands onto the close,
// so it can only ever report "within the bands". Inherited behavior.
func TestBollinger_PeriodOneAlwaysNeutral(t *testing.T) {
	for _, closes := range [][]float64{
		{10, 20, 30, 40},
		{40, 30, 20, 10},
		{25},
	} {
		sig, err := evalBollinger(seriesFromCloses(closes...))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sig.Direction != 0 {
			t.Errorf("closes %v: expected neutral, got %d", closes, sig.Direction)
		}
		if sig.Explanation != "Stock price is within the Bollinger Bands." {
			t.Errorf("unexpected explanation: %q", sig.Explanation)
		}
	}
}

func TestRSI_Oversold(t *testing.T) {
	bars := seriesFromCloses(100, 95, 90, 85, 80, 75, 70, 65)
	sig, err := evalRSI(bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sig.Direction != 1 {
		t.Errorf("expected oversold buy signal, got %d", sig.Direction)
	}
	if sig.Explanation != "RSI indicates oversold conditions." {
		t.Errorf("unexpected explanation: %q", sig.Explanation)
	}
}

func TestRSI_Overbought(t *testing.T) {
	bars := seriesFromCloses(65, 70, 75, 80, 85, 90, 95, 100)
	sig, err := evalRSI(bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sig.Direction != -1 {
		t.Errorf("expected overbought sell signal, got %d", sig.Direction)
	}
}

func TestStochastic_Overbought_Inverted(t *testing.T) {
	closes := make([]float64, 25)
	for i := range closes {
		closes[i] = float64(i + 1)
	}
	sig, err := evalStochastic(seriesFromCloses(closes...))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Overbought stochastic must vote -1 even though the raw reading is at
	// the top of its range.
	if sig.Direction != -1 {
		t.Errorf("expected -1 for overbought stochastic, got %d", sig.Direction)
	}
	if sig.Explanation != "Stochastic indicates overbought conditions." {
		t.Errorf("unexpected explanation: %q", sig.Explanation)
	}
}

func TestVolumeBreakout(t *testing.T) {
	bars := seriesFromCloses(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 30)
	bars[len(bars)-1].Volume = 50000 // well above 2x the 20-bar average
	sig, err := evalVolumeBreakout(bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sig.Direction != 1 {
		t.Errorf("expected 1 for breakout above the MA, got %d", sig.Direction)
	}

	bars[len(bars)-1].Volume = 1000 // no breakout
	sig, err = evalVolumeBreakout(bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sig.Direction != 0 {
		t.Errorf("expected 0 without a volume breakout, got %d", sig.Direction)
	}
}

func TestOBV_BuyingPressure(t *testing.T) {
	bars := seriesFromCloses(10, 11, 12)
	sig, err := evalOBV(bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sig.Direction != 1 {
		t.Errorf("expected 1 for rising OBV, got %d", sig.Direction)
	}
}

func TestSupportResistance_WithinRange(t *testing.T) {
	closes := make([]float64, 50)
	for i := range closes {
		closes[i] = 100
	}
	sig, err := evalSupportResistance(seriesFromCloses(closes...))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sig.Direction != 0 {
		t.Errorf("expected 0 inside the range, got %d", sig.Direction)
	}
}

func TestAdapters_InsufficientHistoryNeverPanics(t *testing.T) {
	bars := seriesFromCloses(10)
	for _, a := range Adapters {
		if _, err := a.Evaluate(bars); err != nil && !errors.Is(err, ErrInsufficientData) {
			t.Errorf("%s: unexpected error kind: %v", a.Name, err)
		}
	}
}

func TestAdapters_Count(t *testing.T) {
	if len(Adapters) != 20 {
		t.Fatalf("expected 20 ensemble members, got %d", len(Adapters))
	}
}
