package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"PivotDesk/internal/model"
)

const DefaultPolygonURL = "https://api.polygon.io"

// cryptoQuote marks a bare pair like BTCUSD as crypto.
const cryptoQuote = "USD"

// PolygonFetcher implements Fetcher using the Polygon aggregates API.
type PolygonFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	Now     func() time.Time
}

// NewPolygonFetcher creates a new fetcher with optional proxy support.
func NewPolygonFetcher(baseURL, apiKey, proxyURL string, timeout time.Duration) *PolygonFetcher {
	if baseURL == "" {
		baseURL = DefaultPolygonURL
	}
	return &PolygonFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL, timeout),
		Now:     time.Now,
	}
}

func (f *PolygonFetcher) Name() string { return "polygon" }

// NormalizeTicker upper-cases the symbol and prefixes any bare pair quoted in
// USD with "X:". Symbols that already carry a market prefix are left alone.
func NormalizeTicker(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if strings.Contains(s, ":") {
		return s
	}
	if len(s) > len(cryptoQuote) && strings.HasSuffix(s, cryptoQuote) {
		return "X:" + s
	}
	return s
}

// polygonAggs is the response shape of /v2/aggs.
type polygonAggs struct {
	Status       string `json:"status"`
	ResultsCount int    `json:"resultsCount"`
	Error        string `json:"error"`
	Message      string `json:"message"`
	Results      []struct {
		T int64   `json:"t"`
		O float64 `json:"o"`
		H float64 `json:"h"`
		L float64 `json:"l"`
		C float64 `json:"c"`
		V float64 `json:"v"`
	} `json:"results"`
}

func (f *PolygonFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.OHLCV, error) {
	if f.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	now := f.Now().UTC()
	from := now.AddDate(0, 0, -(days + 10)).Format("2006-01-02")
	to := now.Format("2006-01-02")

	endpoint := fmt.Sprintf("%s/v2/aggs/ticker/%s/range/1/day/%s/%s?adjusted=true&sort=asc&limit=50000&apiKey=%s",
		f.BaseURL, url.PathEscape(NormalizeTicker(symbol)), from, to, url.QueryEscape(f.APIKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: polygon fetch: %w", ErrProvider, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: polygon read body: %w", ErrProvider, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: polygon status %d, body: %s", ErrProvider, resp.StatusCode, truncate(body, 200))
	}

	var aggs polygonAggs
	if err := json.Unmarshal(body, &aggs); err != nil {
		return nil, fmt.Errorf("%w: polygon decode: %w", ErrProvider, err)
	}
	if aggs.Status == "ERROR" {
		msg := aggs.Error
		if msg == "" {
			msg = aggs.Message
		}
		return nil, fmt.Errorf("%w: polygon api error: %s", ErrProvider, msg)
	}
	if len(aggs.Results) == 0 {
		return nil, fmt.Errorf("polygon %s: %w", symbol, ErrNoData)
	}

	bars := make([]model.OHLCV, len(aggs.Results))
	for i, r := range aggs.Results {
		bars[i] = model.OHLCV{
			Time:   model.Day(time.UnixMilli(r.T)),
			Open:   r.O,
			High:   r.H,
			Low:    r.L,
			Close:  r.C,
			Volume: r.V,
		}
	}
	return bars, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
