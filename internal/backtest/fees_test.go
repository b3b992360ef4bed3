package backtest

import (
	"math"
	"testing"
)

func TestFee_ReferenceValues(t *testing.T) {
	// 100 shares at $50: every component is floored.
	// max(0.39, 0.99) + max(0.4, 1) + max(0.396, 0.99) = 2.98
	got := Fee(100, 50, false)
	if math.Abs(got-2.98) > 1e-9 {
		t.Fatalf("expected fee 2.98, got %v", got)
	}
}

func TestFee_RateDominatedAboveFloor(t *testing.T) {
	// 10000 shares: all three per-share rates exceed their floors.
	// 0.0039*10000 + 0.004*10000 + 0.00396*10000 = 39 + 40 + 39.6
	got := Fee(10000, 1, false)
	if math.Abs(got-118.6) > 1e-9 {
		t.Fatalf("expected fee 118.6, got %v", got)
	}
}

func TestFee_SellFlagDoesNotChangeFormula(t *testing.T) {
	if buy, sell := Fee(5000, 100, false), Fee(5000, 100, true); buy != sell {
		t.Fatalf("sell flag must not alter the fee: buy=%v sell=%v", buy, sell)
	}
}

func TestFee_PriceIndependent(t *testing.T) {
	if a, b := Fee(100, 1, false), Fee(100, 1000, false); a != b {
		t.Fatalf("fee must depend on shares only: %v vs %v", a, b)
	}
}
