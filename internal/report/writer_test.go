package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"newssense/internal/types"
)

func TestSaveWritesSummary(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)
	w.now = func() time.Time { return time.Date(2025, 6, 2, 15, 4, 5, 0, time.UTC) }

	sec := &types.SecurityData{
		Ticker: "TST",
		Info:   &types.CompanyInfo{Name: "Test Corp", Sector: "Technology"},
		Data: map[types.Timeframe]types.Series{
			types.TimeframeToday: {
				{Open: 100, High: 101, Low: 96, Close: 100, Volume: 1000},
				{Open: 100, High: 100, Low: 97, Close: 97, Volume: 1500},
			},
		},
		MarketContext: map[string]types.IndexQuote{"S&P 500": {ChangePct: 1.0}},
	}

	path, err := w.Save("TST", sec, "TST is down moderately by 3.00% today.")
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "analysis_TST_20250602_150405.txt" {
		t.Errorf("filename = %q", filepath.Base(path))
	}

	body, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(body)

	for _, want := range []string{
		"=== Market Analysis for TST ===",
		"Analysis Date: 2025-06-02 15:04:05",
		"Name: Test Corp",
		"Sector: Technology",
		"Current Price: $97.00",
		"Change %: -3.00%",
		"Day Range: $96.00 - $101.00",
		"Current Volume: 2500",
		"- S&P 500: 1.00%",
		"TST is down moderately by 3.00% today.",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("report missing %q\n%s", want, text)
		}
	}
}

func TestSaveWithoutInfoOrData(t *testing.T) {
	w := NewWriter(t.TempDir())
	sec := &types.SecurityData{Ticker: "TST"}

	path, err := w.Save("TST", sec, "")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := os.ReadFile(path)
	if !strings.Contains(string(body), "=== Market Analysis for TST ===") {
		t.Errorf("header missing:\n%s", body)
	}
	if strings.Contains(string(body), "Company Information") {
		t.Errorf("company section should be absent without info:\n%s", body)
	}
}
