package analyzer

import (
	"context"
	"fmt"
	"sort"
	"time"

	"newssense/internal/cache"
	"newssense/internal/logger"
	"newssense/internal/marketdata"
	"newssense/internal/news"
	"newssense/internal/store"
	"newssense/internal/types"
)

// timeframeParams maps each analysis timeframe to the provider's
// period/interval pair.
var timeframeParams = map[types.Timeframe]struct{ period, interval string }{
	types.TimeframeToday: {"1d", "5m"},
	types.TimeframeWeek:  {"5d", "1h"},
	types.TimeframeMonth: {"1mo", "1d"},
	types.TimeframeYear:  {"1y", "1d"},
}

// MarketAnalyzer runs the full per-ticker analysis: timeframed price
// history, company info, technicals on the week series, market and
// sector context, news classification, correlation and narrative.
type MarketAnalyzer struct {
	cfg        *store.Config
	provider   marketdata.Provider
	cache      *cache.Store
	scorer     *news.Scorer
	classifier *news.Classifier
	windows    IndicatorWindows
	now        func() time.Time
}

// New builds a MarketAnalyzer around a market-data provider.
func New(cfg *store.Config, provider marketdata.Provider) *MarketAnalyzer {
	if cfg == nil {
		cfg = store.Default()
	}
	return &MarketAnalyzer{
		cfg:        cfg,
		provider:   provider,
		cache:      cache.New(cfg.CacheTTL()),
		scorer:     news.NewScorer(),
		classifier: news.NewClassifier(),
		windows:    windowsFromConfig(cfg),
		now:        time.Now,
	}
}

// AnalyzeSecurity assembles the full security snapshot for a ticker.
// It never returns nil: failures come back as an empty SecurityData
// with Error set and market context still attached.
func (a *MarketAnalyzer) AnalyzeSecurity(ctx context.Context, ticker string) *types.SecurityData {
	key := fmt.Sprintf("%s_security_%s", ticker, a.now().Format("20060102_15"))
	if v, ok := a.cache.Get(key); ok {
		if sec, ok := v.(*types.SecurityData); ok {
			logger.Info(ctx, "Using cached security data", "ticker", ticker)
			return sec
		}
	}

	logger.Info(ctx, "Analyzing security data", "ticker", ticker)
	timer := logger.StartOperation(ctx, "analyze_security", "ticker", ticker)

	security := a.provider.Ticker(ticker)

	// Probe with a one-day fetch before committing to the full pull.
	probe, err := security.History(ctx, "1d", "1d")
	if err != nil {
		timer.EndWithError(err)
		return a.emptySecurityData(ctx, ticker, fmt.Sprintf("Failed to retrieve security: %s", err))
	}
	if len(probe) == 0 {
		timer.End()
		return a.emptySecurityData(ctx, ticker, "No historical data available")
	}

	info, err := security.Info(ctx)
	if err != nil {
		logger.ErrorWithErr(ctx, "Company info lookup failed", err, "ticker", ticker)
		info = nil
	}

	sec := &types.SecurityData{
		Ticker: ticker,
		Data:   a.fetchHistory(ctx, security),
		Info:   info,
	}
	if info != nil {
		sec.Stats = statsFromInfo(info)
		sec.SectorContext = a.sectorContext(ctx, info.Sector)
	}
	sec.MarketContext = a.marketContext(ctx)
	sec.Technical = ComputeTechnicalAnalysis(sec.Series(types.TimeframeWeek), a.windows)

	a.cache.Put(key, sec)
	timer.End()
	return sec
}

// AnalyzeNewsImpact classifies a batch of raw news items.
func (a *MarketAnalyzer) AnalyzeNewsImpact(ctx context.Context, items []types.NewsItem) *types.NewsAnalysis {
	return a.classifier.AnalyzeImpact(ctx, items)
}

// emptySecurityData is the error-tagged shell: all four timeframes
// present but empty, market context still populated.
func (a *MarketAnalyzer) emptySecurityData(ctx context.Context, ticker, errMsg string) *types.SecurityData {
	logger.Warn(ctx, "Returning empty security data", "ticker", ticker, "reason", errMsg)
	return &types.SecurityData{
		Ticker: ticker,
		Error:  errMsg,
		Data: map[types.Timeframe]types.Series{
			types.TimeframeToday: {},
			types.TimeframeWeek:  {},
			types.TimeframeMonth: {},
			types.TimeframeYear:  {},
		},
		MarketContext: a.marketContext(ctx),
	}
}

// fetchHistory pulls all four timeframes. A failed timeframe becomes an
// empty series and the rest still load.
func (a *MarketAnalyzer) fetchHistory(ctx context.Context, security marketdata.Ticker) map[types.Timeframe]types.Series {
	data := make(map[types.Timeframe]types.Series, len(timeframeParams))
	for tf, params := range timeframeParams {
		series, err := security.History(ctx, params.period, params.interval)
		if err != nil {
			logger.ErrorWithErr(ctx, "History fetch failed", err, "timeframe", string(tf))
			data[tf] = types.Series{}
			continue
		}
		if len(series) == 0 {
			logger.Warn(ctx, "No data for timeframe", "timeframe", string(tf))
		}
		data[tf] = series
	}
	return data
}

func statsFromInfo(info *types.CompanyInfo) *types.Stats {
	return &types.Stats{
		MarketCap:        info.MarketCap,
		PERatio:          info.TrailingPE,
		EPS:              info.TrailingEPS,
		DividendYield:    info.DividendYield,
		FiftyTwoWeekHigh: info.FiftyTwoWeekHigh,
		FiftyTwoWeekLow:  info.FiftyTwoWeekLow,
		AverageVolume:    info.AverageVolume,
		Beta:             info.Beta,
	}
}

// marketContext snapshots the configured index universe. Each index is
// cached independently on an hour bucket; a failing index is skipped.
func (a *MarketAnalyzer) marketContext(ctx context.Context) map[string]types.IndexQuote {
	quotes := make(map[string]types.IndexQuote, len(a.cfg.MarketIndices))
	hour := a.now().Format("20060102_15")

	for symbol, name := range a.cfg.MarketIndices {
		key := fmt.Sprintf("%s_market_%s", symbol, hour)
		if v, ok := a.cache.Get(key); ok {
			if quote, ok := v.(types.IndexQuote); ok {
				quotes[name] = quote
				continue
			}
		}

		quote, ok := a.intradayQuote(ctx, symbol)
		if !ok {
			continue
		}
		quotes[name] = quote
		a.cache.Put(key, quote)
	}
	return quotes
}

// sectorContext quotes the security's own sector first, then rounds
// out the panorama with the remaining sector ETFs. Each ETF is
// hour-bucket cached; a failing ETF is skipped. Alias sector names
// sharing one ETF are quoted once, first name in sorted order wins.
func (a *MarketAnalyzer) sectorContext(ctx context.Context, sector string) map[string]float64 {
	performance := map[string]float64{}
	if sector == "" {
		return performance
	}

	quoted := map[string]bool{}
	if etf, ok := a.cfg.SectorETFs[sector]; ok {
		quoted[etf] = true
		if pct, ok := a.sectorChange(ctx, etf); ok {
			performance[sector] = pct
		}
	}

	names := make([]string, 0, len(a.cfg.SectorETFs))
	for name := range a.cfg.SectorETFs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		etf := a.cfg.SectorETFs[name]
		if name == sector || quoted[etf] {
			continue
		}
		quoted[etf] = true
		if pct, ok := a.sectorChange(ctx, etf); ok {
			performance[name] = pct
		}
	}
	return performance
}

// sectorChange is one ETF's intraday percent change, hour-bucket cached.
func (a *MarketAnalyzer) sectorChange(ctx context.Context, etf string) (float64, bool) {
	key := fmt.Sprintf("%s_sector_%s", etf, a.now().Format("20060102_15"))
	if v, ok := a.cache.Get(key); ok {
		if pct, ok := v.(float64); ok {
			return pct, true
		}
	}

	quote, ok := a.intradayQuote(ctx, etf)
	if !ok {
		return 0, false
	}
	a.cache.Put(key, quote.ChangePct)
	return quote.ChangePct, true
}

// intradayQuote computes open-to-last percent change from a one-day pull.
func (a *MarketAnalyzer) intradayQuote(ctx context.Context, symbol string) (types.IndexQuote, bool) {
	series, err := a.provider.Ticker(symbol).History(ctx, "1d", "5m")
	if err != nil {
		logger.ErrorWithErr(ctx, "Quote fetch failed", err, "symbol", symbol)
		return types.IndexQuote{}, false
	}
	if len(series) == 0 {
		return types.IndexQuote{}, false
	}

	openPrice := series[0].Open
	last := series[len(series)-1]
	if openPrice == 0 {
		return types.IndexQuote{}, false
	}
	return types.IndexQuote{
		ChangePct: (last.Close - openPrice) / openPrice * 100,
		Price:     last.Close,
		Volume:    last.Volume,
	}, true
}
