package news

import (
	"context"
	"fmt"
	"time"

	"newssense/internal/cache"
	"newssense/internal/logger"
	"newssense/internal/types"
)

// Service fetches and classifies news for a ticker, caching results so
// repeated requests within the same hour reuse the previous analysis.
type Service struct {
	scraper    *Scraper
	classifier *Classifier
	cache      *cache.Store
	cfg        *ServiceConfig
}

// ServiceConfig configures the news service.
type ServiceConfig struct {
	MaxArticles int           // Maximum items to collect per ticker
	CacheTTL    time.Duration // How long an analysis stays fresh
	Timeout     time.Duration // Timeout for collection requests
	Enabled     bool          // Whether news analysis is enabled
}

// DefaultServiceConfig returns default configuration.
func DefaultServiceConfig() *ServiceConfig {
	return &ServiceConfig{
		MaxArticles: 10,
		CacheTTL:    1 * time.Hour,
		Timeout:     10 * time.Second,
		Enabled:     true,
	}
}

// NewService creates a news service.
func NewService(cfg *ServiceConfig) *Service {
	if cfg == nil {
		cfg = DefaultServiceConfig()
	}
	return &Service{
		scraper:    NewScraper(cfg.Timeout),
		classifier: NewClassifier(),
		cache:      cache.New(cfg.CacheTTL),
		cfg:        cfg,
	}
}

// Classifier exposes the underlying classifier for callers that bring
// their own news items.
func (s *Service) Classifier() *Classifier {
	return s.classifier
}

// GetAnalysis collects and classifies news for a ticker. Collection
// failure degrades to the empty analysis; the error is only logged.
func (s *Service) GetAnalysis(ctx context.Context, ticker string) *types.NewsAnalysis {
	if !s.cfg.Enabled {
		return EmptyAnalysis()
	}

	key := newsCacheKey(ticker, time.Now())
	if v, ok := s.cache.Get(key); ok {
		if analysis, ok := v.(*types.NewsAnalysis); ok {
			logger.Info(ctx, "Using cached news analysis", "ticker", ticker)
			return analysis
		}
	}

	items, err := s.scraper.Collect(ctx, ticker, s.cfg.MaxArticles)
	if err != nil {
		logger.ErrorWithErr(ctx, "News collection failed", err, "ticker", ticker)
		return EmptyAnalysis()
	}

	analysis := s.classifier.AnalyzeImpact(ctx, items)
	s.cache.Put(key, analysis)
	return analysis
}

// newsCacheKey buckets by hour so keys age out alongside the TTL.
func newsCacheKey(ticker string, now time.Time) string {
	return fmt.Sprintf("%s_news_%s", ticker, now.Format("20060102_15"))
}
