package marketdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const chartBody = `{
  "chart": {
    "result": [{
      "timestamp": [1748874600, 1748874900, 1748875200],
      "indicators": {
        "quote": [{
          "open":   [100.0, null, 101.0],
          "high":   [101.0, null, 102.0],
          "low":    [99.5,  null, 100.5],
          "close":  [100.5, null, 101.5],
          "volume": [1000,  null, 2000]
        }]
      }
    }],
    "error": null
  }
}`

const summaryBody = `{
  "quoteSummary": {
    "result": [{
      "assetProfile": {"sector": "Technology", "industry": "Software", "fullTimeEmployees": 5000},
      "price": {"longName": "Test Corp", "marketCap": {"raw": 5000000000}},
      "summaryDetail": {
        "trailingPE": {"raw": 21.5},
        "fiftyTwoWeekHigh": {"raw": 150.0},
        "fiftyTwoWeekLow": {"raw": 90.0},
        "averageVolume": {"raw": 1000000},
        "beta": {"raw": 1.1}
      },
      "defaultKeyStatistics": {"trailingEps": {"raw": 4.2}},
      "financialData": {"returnOnEquity": {"raw": 0.25}}
    }],
    "error": null
  }
}`

func testProvider(t *testing.T, handler http.HandlerFunc) *YahooProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &YahooProvider{Client: srv.Client(), BaseURL: srv.URL}
}

func TestHistorySkipsNullBars(t *testing.T) {
	p := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/v8/finance/chart/TST") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("range") != "1d" || r.URL.Query().Get("interval") != "5m" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		w.Write([]byte(chartBody))
	})

	series, err := p.Ticker("TST").History(context.Background(), "1d", "5m")
	if err != nil {
		t.Fatal(err)
	}
	if len(series) != 2 {
		t.Fatalf("null bar should be skipped, got %d candles", len(series))
	}
	if series[0].Close != 100.5 || series[1].Close != 101.5 {
		t.Errorf("closes = %v, %v", series[0].Close, series[1].Close)
	}
	if !series[0].Time.Before(series[1].Time) {
		t.Error("series should be ascending by time")
	}
	if series[1].Volume != 2000 {
		t.Errorf("volume = %v", series[1].Volume)
	}
}

func TestHistoryAPIError(t *testing.T) {
	p := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`))
	})

	if _, err := p.Ticker("NOPE").History(context.Background(), "1d", "5m"); err == nil {
		t.Fatal("expected an error from the API error payload")
	}
}

func TestHistoryEmptyResult(t *testing.T) {
	p := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[],"error":null}}`))
	})

	series, err := p.Ticker("TST").History(context.Background(), "1d", "5m")
	if err != nil {
		t.Fatal(err)
	}
	if len(series) != 0 {
		t.Fatalf("expected empty series, got %d", len(series))
	}
}

func TestHistoryHTTPStatus(t *testing.T) {
	p := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	if _, err := p.Ticker("TST").History(context.Background(), "1d", "5m"); err == nil {
		t.Fatal("expected an error on a non-200 status")
	}
}

func TestInfoMapsSummary(t *testing.T) {
	p := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/v10/finance/quoteSummary/TST") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(summaryBody))
	})

	info, err := p.Ticker("TST").Info(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if info.Name != "Test Corp" || info.Sector != "Technology" {
		t.Errorf("info = %+v", info)
	}
	if info.MarketCap != 5e9 || info.TrailingPE != 21.5 || info.TrailingEPS != 4.2 {
		t.Errorf("numbers not unwrapped: %+v", info)
	}
	if info.Employees != 5000 || info.ReturnOnEquity != 0.25 {
		t.Errorf("info = %+v", info)
	}
}

func TestInfoFallsBackToSymbol(t *testing.T) {
	p := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"quoteSummary":{"result":[{}],"error":null}}`))
	})

	info, err := p.Ticker("TST").Info(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if info.Name != "TST" {
		t.Errorf("name = %q, want the symbol fallback", info.Name)
	}
}
