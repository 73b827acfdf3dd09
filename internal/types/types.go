package types

import "time"

// Timeframe names a sampling window+interval pair for a price series.
type Timeframe string

const (
	TimeframeToday Timeframe = "today"
	TimeframeWeek  Timeframe = "week"
	TimeframeMonth Timeframe = "month"
	TimeframeYear  Timeframe = "year"
)

// Candle is one OHLCV row.
type Candle struct {
	Time                           time.Time
	Open, High, Low, Close, Volume float64
}

// Series is an OHLCV sequence, ascending by time. An empty series means
// the fetch failed; this layer never introduces gaps.
type Series []Candle

// Closes returns the closing prices in order.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s))
	for i, c := range s {
		out[i] = c.Close
	}
	return out
}

// NewsItem is a raw news record from a collector. Title is the only
// required field; items without one are rejected before analysis.
type NewsItem struct {
	Title     string              `json:"title"`
	Summary   string              `json:"summary,omitempty"`
	Source    string              `json:"source,omitempty"`
	URL       string              `json:"url,omitempty"`
	Timestamp string              `json:"timestamp,omitempty"`
	Entities  map[string][]string `json:"entities,omitempty"`
}

// SentimentRecord is the per-item output of the news classifier.
type SentimentRecord struct {
	Title     string              `json:"title"`
	Sentiment float64             `json:"sentiment"`
	Category  string              `json:"sentiment_category"`
	Source    string              `json:"source"`
	URL       string              `json:"url"`
	Timestamp string              `json:"timestamp"`
	Topics    []string            `json:"topics"`
	Entities  map[string][]string `json:"entities,omitempty"`
}

// SentimentDistribution counts classified items per category.
type SentimentDistribution struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

// NewsAnalysis aggregates the classifier output over a batch of items.
// The zero-valued structure (with maps initialised) is the well-defined
// "no news" result.
type NewsAnalysis struct {
	Sentiments       []SentimentRecord     `json:"sentiments"`
	Topics           map[string]int        `json:"topics"`
	Entities         map[string][]string   `json:"entities"`
	Keywords         []string              `json:"keywords"`
	AverageSentiment float64               `json:"average_sentiment"`
	Distribution     SentimentDistribution `json:"sentiment_distribution"`
	Sources          map[string]int        `json:"sources"`
	Label            string                `json:"sentiment_label"`
	// NewsItems holds the same records re-sorted by descending
	// absolute polarity, most impactful first.
	NewsItems []SentimentRecord `json:"news_items"`
}

// CorrelationPoint joins one trading day's close with that day's news counts.
type CorrelationPoint struct {
	Date         string  `json:"date"`
	Price        float64 `json:"price"`
	TotalNews    int     `json:"total_news"`
	NegativeNews int     `json:"negative_news"`
	NeutralNews  int     `json:"neutral_news"`
	PositiveNews int     `json:"positive_news"`
}

// CorrelationResult reports the price vs negative-news correlation.
// Coefficient stays nil whenever the statistics would be degenerate.
type CorrelationResult struct {
	Coefficient  *float64           `json:"correlation_coefficient"`
	DaysAnalyzed int                `json:"days_analyzed"`
	Data         []CorrelationPoint `json:"data"`
	Error        string             `json:"error,omitempty"`
}

// SMAResult holds the moving-average family of the indicator bundle.
type SMAResult struct {
	SMA5        float64 `json:"sma5"`
	SMA10       float64 `json:"sma10"`
	SMA5Signal  string  `json:"sma5_signal"`
	SMA10Signal string  `json:"sma10_signal"`
	Crossover   string  `json:"crossover"`
}

// RSIResult holds the momentum oscillator value and its signal.
type RSIResult struct {
	Value  float64 `json:"value"`
	Signal string  `json:"signal"`
}

// MACDResult holds the trend indicator values and its signal.
type MACDResult struct {
	MACD       float64 `json:"macd"`
	SignalLine float64 `json:"signal_line"`
	Histogram  float64 `json:"histogram"`
	Signal     string  `json:"signal"`
}

// BollingerResult holds the volatility bands and their signal.
type BollingerResult struct {
	Upper  float64 `json:"upper"`
	Middle float64 `json:"middle"`
	Lower  float64 `json:"lower"`
	Signal string  `json:"signal"`
}

// TechnicalAnalysis is the indicator bundle. An indicator that failed
// or lacked history is nil, never defaulted; Signals carries one
// categorical value per family with absent families set to "neutral".
type TechnicalAnalysis struct {
	SMA       *SMAResult        `json:"sma,omitempty"`
	RSI       *RSIResult        `json:"rsi,omitempty"`
	MACD      *MACDResult       `json:"macd,omitempty"`
	Bollinger *BollingerResult  `json:"bollinger,omitempty"`
	Signals   map[string]string `json:"signals"`
}

// Empty reports whether no indicator could be computed.
func (t *TechnicalAnalysis) Empty() bool {
	return t == nil || (t.SMA == nil && t.RSI == nil && t.MACD == nil && t.Bollinger == nil)
}

// IndexQuote is one market index's intraday snapshot.
type IndexQuote struct {
	ChangePct float64 `json:"change_pct"`
	Price     float64 `json:"price"`
	Volume    float64 `json:"volume"`
}

// CompanyInfo is the flat properties lookup from the market-data
// provider, mapped to the fields this system reads.
type CompanyInfo struct {
	Name             string  `json:"name"`
	Sector           string  `json:"sector"`
	Industry         string  `json:"industry"`
	Country          string  `json:"country"`
	Website          string  `json:"website"`
	Employees        int64   `json:"employees"`
	MarketCap        float64 `json:"market_cap"`
	TrailingPE       float64 `json:"trailing_pe"`
	TrailingEPS      float64 `json:"trailing_eps"`
	DividendYield    float64 `json:"dividend_yield"`
	FiftyTwoWeekHigh float64 `json:"fifty_two_week_high"`
	FiftyTwoWeekLow  float64 `json:"fifty_two_week_low"`
	AverageVolume    float64 `json:"average_volume"`
	Beta             float64 `json:"beta"`
	ProfitMargin     float64 `json:"profit_margin"`
	OperatingMargin  float64 `json:"operating_margin"`
	ReturnOnEquity   float64 `json:"return_on_equity"`
	PriceToBook      float64 `json:"price_to_book"`
}

// Stats are the key statistics surfaced in reports.
type Stats struct {
	MarketCap        float64 `json:"market_cap"`
	PERatio          float64 `json:"pe_ratio"`
	EPS              float64 `json:"eps"`
	DividendYield    float64 `json:"dividend_yield"`
	FiftyTwoWeekHigh float64 `json:"fifty_two_week_high"`
	FiftyTwoWeekLow  float64 `json:"fifty_two_week_low"`
	AverageVolume    float64 `json:"average_volume"`
	Beta             float64 `json:"beta"`
}

// SecurityData is the full per-ticker analysis result. On failure Error
// is set and the remaining fields hold well-formed empty values.
type SecurityData struct {
	Ticker        string               `json:"ticker"`
	Error         string               `json:"error,omitempty"`
	Data          map[Timeframe]Series `json:"-"`
	Info          *CompanyInfo         `json:"info,omitempty"`
	Stats         *Stats               `json:"stats,omitempty"`
	SectorContext map[string]float64   `json:"sector_context,omitempty"`
	MarketContext map[string]IndexQuote `json:"market_context,omitempty"`
	Technical     *TechnicalAnalysis   `json:"technical_analysis,omitempty"`
}

// Series returns the named series, or nil when absent.
func (s *SecurityData) Series(tf Timeframe) Series {
	if s == nil || s.Data == nil {
		return nil
	}
	return s.Data[tf]
}
