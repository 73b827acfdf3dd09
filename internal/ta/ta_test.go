package ta

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestSMA(t *testing.T) {
	closes := []float64{1, 2, 3, 4, 5}

	if got := SMA(closes, 5); !almostEqual(got, 3, 1e-12) {
		t.Errorf("SMA(5) = %v, want 3", got)
	}
	if got := SMA(closes, 2); !almostEqual(got, 4.5, 1e-12) {
		t.Errorf("SMA(2) = %v, want 4.5", got)
	}
	if got := SMA(closes, 6); !math.IsNaN(got) {
		t.Errorf("SMA with short history = %v, want NaN", got)
	}
	if got := SMA(closes, 0); !math.IsNaN(got) {
		t.Errorf("SMA with zero window = %v, want NaN", got)
	}
}

func TestEMASeriesSeedsWithFirstValue(t *testing.T) {
	vals := []float64{10, 11, 12}
	s := EMASeries(vals, 2)
	if s == nil || len(s) != 3 {
		t.Fatalf("unexpected series %v", s)
	}
	if s[0] != 10 {
		t.Errorf("seed = %v, want 10", s[0])
	}
	// alpha = 2/3: 10 -> 10.6667 -> 11.5556
	if !almostEqual(s[2], 11.5555555556, 1e-9) {
		t.Errorf("EMA tail = %v", s[2])
	}
}

func TestRSIBounds(t *testing.T) {
	// Monotonic rise: no losses, RSI saturates at 100.
	rise := make([]float64, 20)
	for i := range rise {
		rise[i] = 100 + float64(i)
	}
	if got := RSI(rise, 14); got != 100 {
		t.Errorf("RSI of pure gains = %v, want 100", got)
	}

	// Monotonic fall: no gains, RSI is 0.
	fall := make([]float64, 20)
	for i := range fall {
		fall[i] = 100 - float64(i)
	}
	if got := RSI(fall, 14); !almostEqual(got, 0, 1e-12) {
		t.Errorf("RSI of pure losses = %v, want 0", got)
	}

	// Mixed series stays inside [0,100].
	mixed := []float64{100, 101, 99, 102, 103, 101, 104, 105, 103, 106, 104, 107, 105, 108, 106, 109}
	got := RSI(mixed, 14)
	if math.IsNaN(got) || got < 0 || got > 100 {
		t.Errorf("RSI = %v, want value in [0,100]", got)
	}
}

func TestRSIInsufficientHistory(t *testing.T) {
	closes := []float64{1, 2, 3}
	if got := RSI(closes, 14); !math.IsNaN(got) {
		t.Errorf("RSI with short history = %v, want NaN", got)
	}
}

func TestBollinger(t *testing.T) {
	// Constant series: zero deviation, all bands collapse to the mean.
	flat := make([]float64, 20)
	for i := range flat {
		flat[i] = 50
	}
	mid, up, low := Bollinger(flat, 20, 2)
	if mid != 50 || up != 50 || low != 50 {
		t.Errorf("flat Bollinger = (%v, %v, %v), want all 50", mid, up, low)
	}

	closes := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	mid, up, low = Bollinger(closes, 8, 2)
	// Population stddev of this set is 2, mean is 5.
	if !almostEqual(mid, 5, 1e-12) || !almostEqual(up, 9, 1e-12) || !almostEqual(low, 1, 1e-12) {
		t.Errorf("Bollinger = (%v, %v, %v), want (5, 9, 1)", mid, up, low)
	}
}

func TestMACDSignAgainstTrend(t *testing.T) {
	rise := make([]float64, 40)
	for i := range rise {
		rise[i] = 100 + float64(i)
	}
	macd, sig, hist := MACD(rise, 12, 26, 9)
	if math.IsNaN(macd) || math.IsNaN(sig) {
		t.Fatal("expected defined MACD on a long series")
	}
	if macd <= 0 {
		t.Errorf("MACD on steady uptrend = %v, want > 0", macd)
	}
	if !almostEqual(hist, macd-sig, 1e-12) {
		t.Errorf("histogram %v != macd-signal %v", hist, macd-sig)
	}
}

func TestMACDEmptyInput(t *testing.T) {
	macd, sig, hist := MACD(nil, 12, 26, 9)
	if !math.IsNaN(macd) || !math.IsNaN(sig) || !math.IsNaN(hist) {
		t.Error("expected NaN triple for empty input")
	}
}
