package analyzer

import (
	"math"

	"newssense/internal/store"
	"newssense/internal/ta"
	"newssense/internal/types"
)

// IndicatorWindows holds the lookback windows for the indicator engine.
type IndicatorWindows struct {
	SMAFast    int
	SMASlow    int
	RSIPeriod  int
	MACDFast   int
	MACDSlow   int
	MACDSignal int
	BBWindow   int
	BBStdDev   float64
	MinHistory int
}

func windowsFromConfig(cfg *store.Config) IndicatorWindows {
	return IndicatorWindows{
		SMAFast:    cfg.Indicators.SMAFast,
		SMASlow:    cfg.Indicators.SMASlow,
		RSIPeriod:  cfg.Indicators.RSIPeriod,
		MACDFast:   cfg.Indicators.MACDFast,
		MACDSlow:   cfg.Indicators.MACDSlow,
		MACDSignal: cfg.Indicators.MACDSignal,
		BBWindow:   cfg.Indicators.BBWindow,
		BBStdDev:   cfg.Indicators.BBStdDev,
		MinHistory: cfg.Indicators.MinHistory,
	}
}

// ComputeTechnicalAnalysis derives the indicator bundle from a series.
// Fewer rows than MinHistory yields nil. Each indicator family is
// computed independently: one lacking its window is omitted while the
// others still appear, and the Signals aggregate defaults absent
// families to neutral.
func ComputeTechnicalAnalysis(series types.Series, w IndicatorWindows) *types.TechnicalAnalysis {
	if len(series) < w.MinHistory {
		return nil
	}

	closes := series.Closes()
	lastClose := closes[len(closes)-1]

	analysis := &types.TechnicalAnalysis{
		Signals: map[string]string{
			"sma":       "neutral",
			"rsi":       "neutral",
			"macd":      "neutral",
			"bollinger": "neutral",
		},
	}

	if sma := computeSMA(closes, lastClose, w); sma != nil {
		analysis.SMA = sma
		analysis.Signals["sma"] = sma.SMA5Signal
	}
	if rsi := computeRSI(closes, w); rsi != nil {
		analysis.RSI = rsi
		analysis.Signals["rsi"] = rsi.Signal
	}
	if macd := computeMACD(closes, w); macd != nil {
		analysis.MACD = macd
		analysis.Signals["macd"] = macd.Signal
	}
	if bb := computeBollinger(closes, lastClose, w); bb != nil {
		analysis.Bollinger = bb
		analysis.Signals["bollinger"] = bb.Signal
	}

	return analysis
}

func computeSMA(closes []float64, lastClose float64, w IndicatorWindows) *types.SMAResult {
	fast := ta.SMA(closes, w.SMAFast)
	slow := ta.SMA(closes, w.SMASlow)
	if math.IsNaN(fast) || math.IsNaN(slow) {
		return nil
	}

	crossover := "bearish"
	if fast > slow {
		crossover = "bullish"
	}
	return &types.SMAResult{
		SMA5:        fast,
		SMA10:       slow,
		SMA5Signal:  buySell(lastClose > fast),
		SMA10Signal: buySell(lastClose > slow),
		Crossover:   crossover,
	}
}

func computeRSI(closes []float64, w IndicatorWindows) *types.RSIResult {
	value := ta.RSI(closes, w.RSIPeriod)
	if math.IsNaN(value) {
		return nil
	}

	signal := "neutral"
	if value > 70 {
		signal = "sell"
	} else if value < 30 {
		signal = "buy"
	}
	return &types.RSIResult{Value: value, Signal: signal}
}

func computeMACD(closes []float64, w IndicatorWindows) *types.MACDResult {
	macd, sig, hist := ta.MACD(closes, w.MACDFast, w.MACDSlow, w.MACDSignal)
	if math.IsNaN(macd) || math.IsNaN(sig) {
		return nil
	}
	return &types.MACDResult{
		MACD:       macd,
		SignalLine: sig,
		Histogram:  hist,
		Signal:     buySell(macd > sig),
	}
}

func computeBollinger(closes []float64, lastClose float64, w IndicatorWindows) *types.BollingerResult {
	mid, up, low := ta.Bollinger(closes, w.BBWindow, w.BBStdDev)
	if math.IsNaN(mid) {
		return nil
	}

	signal := "neutral"
	if lastClose > up {
		signal = "sell"
	} else if lastClose < low {
		signal = "buy"
	}
	return &types.BollingerResult{Upper: up, Middle: mid, Lower: low, Signal: signal}
}

func buySell(buy bool) string {
	if buy {
		return "buy"
	}
	return "sell"
}
