package analyzer

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"

	"newssense/internal/news"
	"newssense/internal/types"
)

// maxCorrelationDays caps the correlation window to the most recent days.
const maxCorrelationDays = 10

const (
	errNoSecurityData   = "No security data available"
	errNoNewsItems      = "No news items available"
	errNoHistoricalData = "No historical price data available"
)

type dayCounts struct {
	total    int
	negative int
	neutral  int
	positive int
}

// ComputePriceNewsCorrelation aligns classified news with daily closing
// prices and correlates negative-news volume against price. All failure
// modes come back as an Error field on the result, never a panic.
func (a *MarketAnalyzer) ComputePriceNewsCorrelation(sec *types.SecurityData, analysis *types.NewsAnalysis) types.CorrelationResult {
	if !hasSeries(sec) {
		return errorResult(errNoSecurityData)
	}
	if analysis == nil || len(analysis.Sentiments) == 0 {
		return errorResult(errNoNewsItems)
	}

	byDate := map[string]*dayCounts{}
	for _, record := range analysis.Sentiments {
		countForDate(byDate, record.Timestamp, record.Sentiment)
	}
	return a.correlate(sec, byDate)
}

// ComputeRawNewsCorrelation accepts unclassified items and scores them
// inline with the classifier's polarity thresholds.
func (a *MarketAnalyzer) ComputeRawNewsCorrelation(sec *types.SecurityData, items []types.NewsItem) types.CorrelationResult {
	if !hasSeries(sec) {
		return errorResult(errNoSecurityData)
	}
	if len(items) == 0 {
		return errorResult(errNoNewsItems)
	}

	byDate := map[string]*dayCounts{}
	for _, item := range items {
		content := item.Title
		if item.Summary != "" {
			content += " " + item.Summary
		}
		countForDate(byDate, item.Timestamp, a.scorer.Polarity(content))
	}
	return a.correlate(sec, byDate)
}

func hasSeries(sec *types.SecurityData) bool {
	return sec != nil && len(sec.Data) > 0
}

func errorResult(msg string) types.CorrelationResult {
	return types.CorrelationResult{Data: []types.CorrelationPoint{}, Error: msg}
}

// countForDate buckets one scored item into its calendar date. Short or
// malformed dates are discarded silently.
func countForDate(byDate map[string]*dayCounts, timestamp string, score float64) {
	date := dateOf(timestamp)
	if len(date) < 10 {
		return
	}
	date = date[:10]

	counts, ok := byDate[date]
	if !ok {
		counts = &dayCounts{}
		byDate[date] = counts
	}

	counts.total++
	switch news.CategorizeSentiment(score) {
	case "negative":
		counts.negative++
	case "positive":
		counts.positive++
	default:
		counts.neutral++
	}
}

// dateOf reduces a space- or T-delimited timestamp to its date part.
func dateOf(timestamp string) string {
	if i := strings.IndexByte(timestamp, ' '); i >= 0 {
		return timestamp[:i]
	}
	if i := strings.IndexByte(timestamp, 'T'); i >= 0 {
		return timestamp[:i]
	}
	return timestamp
}

func (a *MarketAnalyzer) correlate(sec *types.SecurityData, byDate map[string]*dayCounts) types.CorrelationResult {
	series := selectPriceSeries(sec)
	if len(series) == 0 {
		return errorResult(errNoHistoricalData)
	}

	if len(series) > maxCorrelationDays {
		series = series[len(series)-maxCorrelationDays:]
	}

	result := types.CorrelationResult{Data: make([]types.CorrelationPoint, 0, len(series))}
	prices := make([]float64, 0, len(series))
	negCounts := make([]float64, 0, len(series))

	for _, candle := range series {
		date := candle.Time.Format("2006-01-02")
		counts := byDate[date]
		if counts == nil {
			counts = &dayCounts{}
		}

		result.Data = append(result.Data, types.CorrelationPoint{
			Date:         date,
			Price:        candle.Close,
			TotalNews:    counts.total,
			NegativeNews: counts.negative,
			NeutralNews:  counts.neutral,
			PositiveNews: counts.positive,
		})
		prices = append(prices, candle.Close)
		negCounts = append(negCounts, float64(counts.negative))
	}

	result.DaysAnalyzed = len(result.Data)

	if len(prices) >= 2 && !allEqual(prices) && sum(negCounts) > 0 {
		if r, ok := pearson(prices, negCounts); ok {
			result.Coefficient = &r
		}
	}

	return result
}

// selectPriceSeries picks the finest available granularity: week, then
// month, then year.
func selectPriceSeries(sec *types.SecurityData) types.Series {
	for _, tf := range []types.Timeframe{types.TimeframeWeek, types.TimeframeMonth, types.TimeframeYear} {
		if s := sec.Series(tf); len(s) > 0 {
			return s
		}
	}
	return nil
}

// pearson computes the correlation coefficient, primary routine first.
// A NaN from degenerate variance coerces to 0. If the primary routine
// panics the manual formula takes over; it reports not-ok instead of
// dividing by a zero denominator.
func pearson(x, y []float64) (r float64, ok bool) {
	defer func() {
		if recover() != nil {
			r, ok = manualPearson(x, y)
		}
	}()

	r = stat.Correlation(x, y, nil)
	if math.IsNaN(r) {
		r = 0
	}
	return r, true
}

// manualPearson is the sums-of-centered-products fallback.
func manualPearson(x, y []float64) (float64, bool) {
	n := len(x)
	if n == 0 || n != len(y) {
		return 0, false
	}

	meanX := sum(x) / float64(n)
	meanY := sum(y) / float64(n)

	var num, denX, denY float64
	for i := 0; i < n; i++ {
		dx := x[i] - meanX
		dy := y[i] - meanY
		num += dx * dy
		denX += dx * dx
		denY += dy * dy
	}

	if denX == 0 || denY == 0 {
		return 0, false
	}
	return num / math.Sqrt(denX*denY), true
}

func allEqual(vals []float64) bool {
	for _, v := range vals[1:] {
		if v != vals[0] {
			return false
		}
	}
	return true
}

func sum(vals []float64) float64 {
	total := 0.0
	for _, v := range vals {
		total += v
	}
	return total
}
