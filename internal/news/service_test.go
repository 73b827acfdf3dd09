package news

import (
	"context"
	"testing"
	"time"

	"newssense/internal/types"
)

func TestGetAnalysisDisabled(t *testing.T) {
	s := NewService(&ServiceConfig{Enabled: false, MaxArticles: 5, CacheTTL: time.Hour, Timeout: time.Second})
	analysis := s.GetAnalysis(context.Background(), "TST")
	if analysis == nil || analysis.Label != "Neutral" || len(analysis.Sentiments) != 0 {
		t.Fatalf("disabled service should return the empty analysis, got %+v", analysis)
	}
}

func TestGetAnalysisUsesCache(t *testing.T) {
	s := NewService(nil)

	cached := &types.NewsAnalysis{Label: "Positive", AverageSentiment: 0.4}
	s.cache.Put(newsCacheKey("TST", time.Now()), cached)

	got := s.GetAnalysis(context.Background(), "TST")
	if got != cached {
		t.Fatalf("expected the cached analysis back, got %+v", got)
	}
}

func TestNewsCacheKeyHourBucket(t *testing.T) {
	at := time.Date(2025, 6, 2, 15, 59, 0, 0, time.UTC)
	if got := newsCacheKey("TST", at); got != "TST_news_20250602_15" {
		t.Fatalf("key = %q", got)
	}
	next := at.Add(2 * time.Minute)
	if newsCacheKey("TST", at) == newsCacheKey("TST", next) {
		t.Fatal("crossing the hour should change the key")
	}
}

func TestClassifierAccessor(t *testing.T) {
	s := NewService(nil)
	if s.Classifier() == nil {
		t.Fatal("classifier should be exposed")
	}
}
