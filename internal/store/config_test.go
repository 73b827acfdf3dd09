package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidateRejectsBadWindows(t *testing.T) {
	c := Default()
	c.Indicators.SMASlow = c.Indicators.SMAFast
	if err := c.Validate(); err == nil {
		t.Error("slow window equal to fast should fail validation")
	}

	c = Default()
	c.Cache.TTLMinutes = 0
	if err := c.Validate(); err == nil {
		t.Error("zero TTL should fail validation")
	}

	c = Default()
	c.Indicators.MACDSlow = c.Indicators.MACDFast - 1
	if err := c.Validate(); err == nil {
		t.Error("inverted MACD spans should fail validation")
	}
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "cache:\n  ttl_minutes: 30\nnews:\n  enabled: false\n  max_articles: 5\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if c.CacheTTL() != 30*time.Minute {
		t.Errorf("ttl = %v, want 30m", c.CacheTTL())
	}
	if c.News.Enabled || c.News.MaxArticles != 5 {
		t.Errorf("news overrides not applied: %+v", c.News)
	}
	// Untouched sections keep their defaults.
	if c.Indicators.RSIPeriod != 14 {
		t.Errorf("rsi_period = %d, want default 14", c.Indicators.RSIPeriod)
	}
	if c.MarketIndices["^GSPC"] != "S&P 500" {
		t.Errorf("market indices default lost: %v", c.MarketIndices)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if !os.IsNotExist(err) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestLoadConfigInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("indicators:\n  rsi_period: -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("negative rsi_period should fail validation")
	}
}
