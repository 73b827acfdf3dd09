package analyzer

import (
	"testing"

	"newssense/internal/store"
	"newssense/internal/types"
)

func seriesFromCloses(closes []float64) types.Series {
	s := make(types.Series, len(closes))
	for i, c := range closes {
		s[i] = types.Candle{Open: c, High: c, Low: c, Close: c}
	}
	return s
}

func defaultWindows() IndicatorWindows {
	return windowsFromConfig(store.Default())
}

func TestComputeTechnicalAnalysisInsufficientHistory(t *testing.T) {
	series := seriesFromCloses([]float64{100, 101, 102})
	if got := ComputeTechnicalAnalysis(series, defaultWindows()); got != nil {
		t.Fatalf("expected nil below min history, got %+v", got)
	}
}

func TestComputeTechnicalAnalysisFlatSeries(t *testing.T) {
	closes := make([]float64, 12)
	for i := range closes {
		closes[i] = 100
	}
	tech := ComputeTechnicalAnalysis(seriesFromCloses(closes), defaultWindows())
	if tech == nil {
		t.Fatal("expected analysis for 12 rows")
	}

	if tech.SMA == nil {
		t.Fatal("SMA should compute with 12 rows")
	}
	if tech.SMA.Crossover != "bearish" {
		t.Errorf("crossover = %q, want bearish when fast == slow", tech.SMA.Crossover)
	}

	// 12 rows is short of the 14-period RSI and the 20-row bands.
	if tech.RSI != nil {
		t.Error("RSI should be omitted without enough history")
	}
	if tech.Bollinger != nil {
		t.Error("Bollinger should be omitted without enough history")
	}
	if tech.Signals["rsi"] != "neutral" || tech.Signals["bollinger"] != "neutral" {
		t.Errorf("absent families should stay neutral: %v", tech.Signals)
	}

	if tech.MACD == nil {
		t.Fatal("MACD should compute on a flat series")
	}
	if tech.MACD.MACD != 0 || tech.MACD.Histogram != 0 {
		t.Errorf("flat series should give zero MACD, got %+v", tech.MACD)
	}
}

func TestComputeTechnicalAnalysisUptrend(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	tech := ComputeTechnicalAnalysis(seriesFromCloses(closes), defaultWindows())
	if tech == nil {
		t.Fatal("expected analysis")
	}

	if tech.SMA.Crossover != "bullish" {
		t.Errorf("crossover = %q, want bullish in an uptrend", tech.SMA.Crossover)
	}
	if tech.SMA.SMA5Signal != "buy" {
		t.Errorf("sma5 signal = %q, want buy with close above the fast average", tech.SMA.SMA5Signal)
	}

	if tech.RSI == nil || tech.RSI.Value != 100 {
		t.Fatalf("RSI = %+v, want 100 with no down days", tech.RSI)
	}
	if tech.Signals["rsi"] != "sell" {
		t.Errorf("rsi signal = %q, want sell when overbought", tech.Signals["rsi"])
	}

	if tech.MACD == nil || tech.MACD.MACD <= 0 {
		t.Errorf("MACD should be positive in an uptrend: %+v", tech.MACD)
	}

	if tech.Bollinger == nil {
		t.Fatal("Bollinger should compute with 30 rows")
	}
	if tech.Bollinger.Upper < tech.Bollinger.Middle || tech.Bollinger.Middle < tech.Bollinger.Lower {
		t.Errorf("band ordering wrong: %+v", tech.Bollinger)
	}
}

func TestComputeTechnicalAnalysisFlatBands(t *testing.T) {
	closes := make([]float64, 25)
	for i := range closes {
		closes[i] = 50
	}
	tech := ComputeTechnicalAnalysis(seriesFromCloses(closes), defaultWindows())
	if tech == nil || tech.Bollinger == nil {
		t.Fatal("expected bands with 25 rows")
	}
	bb := tech.Bollinger
	if bb.Upper != 50 || bb.Middle != 50 || bb.Lower != 50 {
		t.Errorf("flat series bands should collapse: %+v", bb)
	}
	if bb.Signal != "neutral" {
		t.Errorf("signal = %q, want neutral inside the bands", bb.Signal)
	}
}
