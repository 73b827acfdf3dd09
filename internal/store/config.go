package store

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Cache struct {
		TTLMinutes int `yaml:"ttl_minutes"`
	} `yaml:"cache"`
	Indicators struct {
		SMAFast    int     `yaml:"sma_fast"`
		SMASlow    int     `yaml:"sma_slow"`
		RSIPeriod  int     `yaml:"rsi_period"`
		MACDFast   int     `yaml:"macd_fast"`
		MACDSlow   int     `yaml:"macd_slow"`
		MACDSignal int     `yaml:"macd_signal"`
		BBWindow   int     `yaml:"bb_window"`
		BBStdDev   float64 `yaml:"bb_stddev"`
		MinHistory int     `yaml:"min_history"`
	} `yaml:"indicators"`
	News struct {
		Enabled        bool `yaml:"enabled"`
		MaxArticles    int  `yaml:"max_articles"`
		TimeoutSeconds int  `yaml:"timeout_seconds"`
	} `yaml:"news"`
	// MarketIndices maps provider symbols to display names.
	MarketIndices map[string]string `yaml:"market_indices"`
	// SectorETFs maps sector names to their tracking ETF symbols.
	SectorETFs map[string]string `yaml:"sector_etfs"`
	Report     struct {
		Enabled bool   `yaml:"enabled"`
		Dir     string `yaml:"dir"`
	} `yaml:"report"`
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLMinutes) * time.Minute
}

func (c *Config) Validate() error {
	ind := c.Indicators
	if ind.SMAFast <= 0 || ind.SMASlow <= ind.SMAFast {
		return fmt.Errorf("indicators: sma_fast/sma_slow must satisfy 0 < fast < slow, got %d/%d", ind.SMAFast, ind.SMASlow)
	}
	if ind.MACDFast <= 0 || ind.MACDSlow <= ind.MACDFast || ind.MACDSignal <= 0 {
		return fmt.Errorf("indicators: macd spans must satisfy 0 < fast < slow and signal > 0, got %d/%d/%d", ind.MACDFast, ind.MACDSlow, ind.MACDSignal)
	}
	if ind.RSIPeriod <= 0 {
		return fmt.Errorf("indicators: rsi_period must be positive, got %d", ind.RSIPeriod)
	}
	if ind.BBWindow <= 0 || ind.BBStdDev <= 0 {
		return fmt.Errorf("indicators: bb_window/bb_stddev must be positive, got %d/%.2f", ind.BBWindow, ind.BBStdDev)
	}
	if ind.MinHistory <= 0 {
		return fmt.Errorf("indicators: min_history must be positive, got %d", ind.MinHistory)
	}
	if c.Cache.TTLMinutes <= 0 {
		return fmt.Errorf("cache: ttl_minutes must be positive, got %d", c.Cache.TTLMinutes)
	}
	if c.News.MaxArticles <= 0 {
		return fmt.Errorf("news: max_articles must be positive, got %d", c.News.MaxArticles)
	}
	return nil
}

// Default returns the configuration matching the analyzer's stock
// indicator windows and index universe.
func Default() *Config {
	c := &Config{}
	c.Cache.TTLMinutes = 60
	c.Indicators.SMAFast = 5
	c.Indicators.SMASlow = 10
	c.Indicators.RSIPeriod = 14
	c.Indicators.MACDFast = 12
	c.Indicators.MACDSlow = 26
	c.Indicators.MACDSignal = 9
	c.Indicators.BBWindow = 20
	c.Indicators.BBStdDev = 2
	c.Indicators.MinHistory = 10
	c.News.Enabled = true
	c.News.MaxArticles = 10
	c.News.TimeoutSeconds = 10
	c.MarketIndices = map[string]string{
		"^GSPC":  "S&P 500",
		"^DJI":   "Dow Jones",
		"^IXIC":  "NASDAQ",
		"^RUT":   "Russell 2000",
		"^VIX":   "VIX",
		"^NSEI":  "Nifty 50",
		"^BSESN": "Sensex",
	}
	c.SectorETFs = map[string]string{
		"Technology":             "XLK",
		"Financial":              "XLF",
		"Financials":             "XLF",
		"Energy":                 "XLE",
		"Healthcare":             "XLV",
		"Health Care":            "XLV",
		"Industrial":             "XLI",
		"Industrials":            "XLI",
		"Consumer Staples":       "XLP",
		"Consumer Discretionary": "XLY",
		"Materials":              "XLB",
		"Utilities":              "XLU",
		"Real Estate":            "XLRE",
		"Communication Services": "XLC",
	}
	c.Report.Enabled = true
	c.Report.Dir = "data/analysis"
	return c
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return c, nil
}
