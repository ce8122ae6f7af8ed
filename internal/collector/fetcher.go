package collector

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"PivotDesk/internal/model"
)

var (
	// ErrNoData means the provider answered but had no bars for the symbol.
	ErrNoData = errors.New("no data returned")
	// ErrProvider wraps transport failures and non-OK provider answers.
	ErrProvider = errors.New("provider error")
	// ErrUnavailable is returned while the circuit breaker is open.
	ErrUnavailable = errors.New("provider temporarily unavailable")
	// ErrNoAPIKey is returned by fetchers that need credentials and have none.
	ErrNoAPIKey = errors.New("missing provider api key")
)

// Fetcher retrieves daily bars covering roughly the last days calendar days.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.OHLCV, error)
	Name() string
}

// newHTTPClient builds a client with an optional proxy.
func newHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
