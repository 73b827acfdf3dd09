package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"newssense/internal/types"
)

// Yahoo period -> range mapping used by the chart API.
var yahooRanges = map[string]string{
	"1d":  "1d",
	"5d":  "5d",
	"1mo": "1mo",
	"1y":  "1y",
}

// YahooProvider fetches OHLCV series and company info from the Yahoo
// Finance public endpoints.
type YahooProvider struct {
	Client  *http.Client
	BaseURL string
}

// NewYahooProvider creates a provider with a sane request timeout.
func NewYahooProvider() *YahooProvider {
	return &YahooProvider{
		Client:  &http.Client{Timeout: 30 * time.Second},
		BaseURL: "https://query1.finance.yahoo.com",
	}
}

// Ticker returns a handle for the given symbol.
func (p *YahooProvider) Ticker(symbol string) Ticker {
	return &yahooTicker{provider: p, symbol: symbol}
}

type yahooTicker struct {
	provider *YahooProvider
	symbol   string
}

// yahooChart is the response structure from the Yahoo Finance chart API.
// Quote fields are pointers: the API reports holidays and halts as nulls.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// History fetches an OHLCV series. Unknown periods map straight through
// as the Yahoo range parameter.
func (t *yahooTicker) History(ctx context.Context, period, interval string) (types.Series, error) {
	rng, ok := yahooRanges[period]
	if !ok {
		rng = period
	}

	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		t.provider.BaseURL, url.PathEscape(t.symbol), url.QueryEscape(interval), url.QueryEscape(rng))

	body, err := t.provider.get(ctx, u)
	if err != nil {
		return nil, err
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return types.Series{}, nil
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return types.Series{}, nil
	}
	quote := result.Indicators.Quote[0]

	series := make(types.Series, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) {
			break
		}
		o, h, l, c := deref(at(quote.Open, i)), deref(at(quote.High, i)), deref(at(quote.Low, i)), deref(quote.Close[i])
		if o == 0 && h == 0 && l == 0 && c == 0 {
			continue // null bar (holiday, halt)
		}
		series = append(series, types.Candle{
			Time:   time.Unix(ts, 0),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: deref(at(quote.Volume, i)),
		})
	}

	sort.Slice(series, func(i, j int) bool { return series[i].Time.Before(series[j].Time) })
	return series, nil
}

func at(vals []*float64, i int) *float64 {
	if i >= len(vals) {
		return nil
	}
	return vals[i]
}

// yahooSummary is the subset of the quoteSummary response this system reads.
type yahooSummary struct {
	QuoteSummary struct {
		Result []struct {
			AssetProfile struct {
				Sector            string `json:"sector"`
				Industry          string `json:"industry"`
				Country           string `json:"country"`
				Website           string `json:"website"`
				FullTimeEmployees int64  `json:"fullTimeEmployees"`
			} `json:"assetProfile"`
			Price struct {
				LongName  string    `json:"longName"`
				MarketCap rawNumber `json:"marketCap"`
			} `json:"price"`
			SummaryDetail struct {
				TrailingPE       rawNumber `json:"trailingPE"`
				DividendYield    rawNumber `json:"dividendYield"`
				FiftyTwoWeekHigh rawNumber `json:"fiftyTwoWeekHigh"`
				FiftyTwoWeekLow  rawNumber `json:"fiftyTwoWeekLow"`
				AverageVolume    rawNumber `json:"averageVolume"`
				Beta             rawNumber `json:"beta"`
			} `json:"summaryDetail"`
			KeyStatistics struct {
				TrailingEPS   rawNumber `json:"trailingEps"`
				ProfitMargins rawNumber `json:"profitMargins"`
				PriceToBook   rawNumber `json:"priceToBook"`
			} `json:"defaultKeyStatistics"`
			FinancialData struct {
				OperatingMargins rawNumber `json:"operatingMargins"`
				ReturnOnEquity   rawNumber `json:"returnOnEquity"`
			} `json:"financialData"`
		} `json:"result"`
		Error *struct {
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// rawNumber decodes Yahoo's {"raw": 1.23, "fmt": "1.23"} wrappers.
type rawNumber struct {
	Raw float64 `json:"raw"`
}

// Info fetches the company profile and key statistics.
func (t *yahooTicker) Info(ctx context.Context) (*types.CompanyInfo, error) {
	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=assetProfile,price,summaryDetail,defaultKeyStatistics,financialData",
		t.provider.BaseURL, url.PathEscape(t.symbol))

	body, err := t.provider.get(ctx, u)
	if err != nil {
		return nil, err
	}

	var summary yahooSummary
	if err := json.Unmarshal(body, &summary); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if summary.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", summary.QuoteSummary.Error.Description)
	}
	if len(summary.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("yahoo: no summary for %s", t.symbol)
	}

	r := summary.QuoteSummary.Result[0]
	name := r.Price.LongName
	if name == "" {
		name = t.symbol
	}

	return &types.CompanyInfo{
		Name:             name,
		Sector:           r.AssetProfile.Sector,
		Industry:         r.AssetProfile.Industry,
		Country:          r.AssetProfile.Country,
		Website:          r.AssetProfile.Website,
		Employees:        r.AssetProfile.FullTimeEmployees,
		MarketCap:        r.Price.MarketCap.Raw,
		TrailingPE:       r.SummaryDetail.TrailingPE.Raw,
		TrailingEPS:      r.KeyStatistics.TrailingEPS.Raw,
		DividendYield:    r.SummaryDetail.DividendYield.Raw,
		FiftyTwoWeekHigh: r.SummaryDetail.FiftyTwoWeekHigh.Raw,
		FiftyTwoWeekLow:  r.SummaryDetail.FiftyTwoWeekLow.Raw,
		AverageVolume:    r.SummaryDetail.AverageVolume.Raw,
		Beta:             r.SummaryDetail.Beta.Raw,
		ProfitMargin:     r.KeyStatistics.ProfitMargins.Raw,
		OperatingMargin:  r.FinancialData.OperatingMargins.Raw,
		ReturnOnEquity:   r.FinancialData.ReturnOnEquity.Raw,
		PriceToBook:      r.KeyStatistics.PriceToBook.Raw,
	}, nil
}

func (p *YahooProvider) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d", resp.StatusCode)
	}
	return body, nil
}
