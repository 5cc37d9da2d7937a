// Package alphavantage implements a price source backed by the Alpha Vantage API.
package alphavantage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/model"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/provider"
)

// Name identifies this source in results and logs.
const Name = "alphavantage"

// compactDays is roughly how far back the 100-point compact series reaches.
const compactDays = 140

// ErrRateLimited is returned when Alpha Vantage answers with a throttling notice.
var ErrRateLimited = errors.New("alpha vantage rate limit reached")

var quoteExtractors = []provider.Extractor{
	provider.Path(`$["Global Quote"]["05. price"]`),
	provider.Path(`$["Global Quote"]["08. previous close"]`),
}

// Config configures a Client.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Client fetches quotes and daily series from Alpha Vantage and implements provider.Source.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
}

// NewClient creates a new Alpha Vantage client.
func NewClient(cfg Config) *Client {
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		now:        time.Now,
	}
}

// Name returns the source name.
func (c *Client) Name() string {
	return Name
}

// Quote returns the latest price from the GLOBAL_QUOTE endpoint.
func (c *Client) Quote(ctx context.Context, symbol string) (float64, error) {
	data, err := c.query(ctx, url.Values{"function": {"GLOBAL_QUOTE"}, "symbol": {symbol}})
	if err != nil {
		return 0, err
	}

	doc, err := provider.DecodeDocument(data)
	if err != nil {
		return 0, fmt.Errorf("alphavantage: decode quote for %s: %w", symbol, err)
	}

	price, ok := provider.FirstPrice(doc, quoteExtractors...)
	if !ok {
		return 0, fmt.Errorf("%w: alpha vantage has no quote for %s", provider.ErrNoData, symbol)
	}
	return price, nil
}

// DailySeries returns the TIME_SERIES_DAILY points between start and end.
// The full series is requested only when start lies beyond the compact window.
func (c *Client) DailySeries(ctx context.Context, symbol string, start, end time.Time) ([]model.PricePoint, error) {
	outputSize := "compact"
	if c.now().Sub(start) > compactDays*24*time.Hour {
		outputSize = "full"
	}

	points, err := c.dailySeries(ctx, symbol, outputSize)
	if err != nil {
		return nil, err
	}

	from, to := start.UTC().Format(model.DateLayout), end.UTC().Format(model.DateLayout)
	window := points[:0]
	for _, p := range points {
		if key := p.DateKey(); key >= from && key <= to {
			window = append(window, p)
		}
	}
	return window, nil
}

// History returns the daily series trimmed to the period.
func (c *Client) History(ctx context.Context, symbol string, period provider.Period) ([]model.PricePoint, error) {
	outputSize := "compact"
	if c.now().Sub(period.Start(c.now())) > compactDays*24*time.Hour {
		outputSize = "full"
	}

	points, err := c.dailySeries(ctx, symbol, outputSize)
	if err != nil {
		return nil, err
	}

	if n := period.TradingDays(); n > 0 {
		if len(points) > n {
			points = points[len(points)-n:]
		}
		return points, nil
	}

	from := period.Start(c.now()).Format(model.DateLayout)
	for i, p := range points {
		if p.DateKey() >= from {
			return points[i:], nil
		}
	}
	return []model.PricePoint{}, nil
}

type dailyBar struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

type dailyResponse struct {
	Series map[string]dailyBar `json:"Time Series (Daily)"`
}

// dailySeries fetches and parses the daily series, oldest first.
func (c *Client) dailySeries(ctx context.Context, symbol, outputSize string) ([]model.PricePoint, error) {
	data, err := c.query(ctx, url.Values{
		"function":   {"TIME_SERIES_DAILY"},
		"symbol":     {symbol},
		"outputsize": {outputSize},
	})
	if err != nil {
		return nil, err
	}

	var resp dailyResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("alphavantage: decode series for %s: %w", symbol, err)
	}
	if len(resp.Series) == 0 {
		return nil, fmt.Errorf("%w: alpha vantage has no daily series for %s", provider.ErrNoData, symbol)
	}

	points := make([]model.PricePoint, 0, len(resp.Series))
	for date, bar := range resp.Series {
		day, err := model.ParseDate(date)
		if err != nil {
			return nil, fmt.Errorf("alphavantage: invalid date %q for %s: %w", date, symbol, err)
		}
		closePrice, err := strconv.ParseFloat(bar.Close, 64)
		if err != nil || math.IsNaN(closePrice) || math.IsInf(closePrice, 0) {
			return nil, fmt.Errorf("alphavantage: invalid close %q on %s for %s", bar.Close, date, symbol)
		}
		points = append(points, model.PricePoint{
			Date:   day,
			Open:   parseOptional(bar.Open),
			High:   parseOptional(bar.High),
			Low:    parseOptional(bar.Low),
			Close:  closePrice,
			Volume: int64(parseOptional(bar.Volume)),
		})
	}
	return provider.SortSeries(points), nil
}

func parseOptional(value string) float64 {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return f
}

// notice is the set of top-level messages Alpha Vantage sends instead of data.
type notice struct {
	ErrorMessage string `json:"Error Message"`
	Note         string `json:"Note"`
	Information  string `json:"Information"`
}

// query performs a request against the /query endpoint and screens out error notices.
func (c *Client) query(ctx context.Context, params url.Values) ([]byte, error) {
	params.Set("apikey", c.apiKey)
	endpoint := c.baseURL + "/query?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("alphavantage: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var n notice
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("alphavantage: decode response: %w", err)
	}
	switch {
	case n.ErrorMessage != "":
		return nil, fmt.Errorf("%w: %s", provider.ErrNoData, n.ErrorMessage)
	case n.Note != "":
		return nil, fmt.Errorf("%w: %s", ErrRateLimited, n.Note)
	case n.Information != "":
		return nil, fmt.Errorf("%w: %s", ErrRateLimited, n.Information)
	}
	return data, nil
}
