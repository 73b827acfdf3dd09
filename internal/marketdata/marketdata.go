package marketdata

import (
	"context"

	"newssense/internal/types"
)

// Ticker is a handle to one security at the market-data provider.
// History returns an OHLCV series for a period/interval pair; an empty
// series means the provider had no data. Info returns the flat
// properties lookup and may fail outright.
type Ticker interface {
	History(ctx context.Context, period, interval string) (types.Series, error)
	Info(ctx context.Context) (*types.CompanyInfo, error)
}

// Provider hands out ticker handles.
type Provider interface {
	Ticker(symbol string) Ticker
}
