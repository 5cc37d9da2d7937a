// Package yahoo implements a price source backed by the Yahoo Finance chart API.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/model"
	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/provider"
)

// Name identifies this source in results and logs.
const Name = "yahoo"

// quoteExtractors find the current price in a five-day chart, most precise first.
var quoteExtractors = []provider.Extractor{
	provider.Path("$.chart.result[0].meta.regularMarketPrice"),
	provider.LastOf("$.chart.result[0].indicators.quote[0].close"),
	provider.Path("$.chart.result[0].meta.chartPreviousClose"),
}

// Config configures a FinanceClient.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// FinanceClient fetches chart data from Yahoo Finance and implements provider.Source.
type FinanceClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewFinanceClient creates a new Yahoo Finance client.
func NewFinanceClient(cfg Config) *FinanceClient {
	return &FinanceClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Name returns the source name.
func (c *FinanceClient) Name() string {
	return Name
}

// Quote returns the latest price for symbol from the last five trading days.
func (c *FinanceClient) Quote(ctx context.Context, symbol string) (float64, error) {
	data, err := c.queryChart(ctx, symbol, url.Values{"interval": {"1d"}, "range": {"5d"}})
	if err != nil {
		return 0, err
	}

	doc, err := provider.DecodeDocument(data)
	if err != nil {
		return 0, fmt.Errorf("yahoo: decode quote for %s: %w", symbol, err)
	}

	price, ok := provider.FirstPrice(doc, quoteExtractors...)
	if !ok {
		return 0, fmt.Errorf("%w: yahoo has no price for %s", provider.ErrNoData, symbol)
	}
	return price, nil
}

// DailySeries returns daily prices for symbol between start and end.
func (c *FinanceClient) DailySeries(ctx context.Context, symbol string, start, end time.Time) ([]model.PricePoint, error) {
	resp, err := c.QuerySymbolByDateRange(ctx, symbol, start, end)
	if err != nil {
		return nil, err
	}
	chart, err := ParseChart(resp)
	if err != nil {
		return nil, err
	}
	return chart.Points, nil
}

// History returns daily prices for symbol over a named period.
func (c *FinanceClient) History(ctx context.Context, symbol string, period provider.Period) ([]model.PricePoint, error) {
	data, err := c.queryChart(ctx, symbol, url.Values{"interval": {"1d"}, "range": {string(period)}})
	if err != nil {
		return nil, err
	}

	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("yahoo: decode history for %s: %w", symbol, err)
	}
	chart, err := ParseChart(resp)
	if err != nil {
		return nil, err
	}

	points := chart.Points
	if n := period.TradingDays(); n > 0 && len(points) > n {
		points = points[len(points)-n:]
	}
	return points, nil
}

// QuerySymbolByDateRange fetches daily price data for a symbol within a date range.
// The range is expressed with Unix timestamps (period1/period2).
func (c *FinanceClient) QuerySymbolByDateRange(ctx context.Context, symbol string, startDate, endDate time.Time) (Response, error) {
	data, err := c.queryChart(ctx, symbol, url.Values{
		"interval": {"1d"},
		"period1":  {fmt.Sprint(startDate.Unix())},
		"period2":  {fmt.Sprint(endDate.Unix())},
	})
	if err != nil {
		return Response{}, err
	}

	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return Response{}, fmt.Errorf("yahoo: decode series for %s: %w", symbol, err)
	}
	return resp, nil
}

// ParseChart converts a raw chart response into a PriceChart.
// Days with a null close are skipped; a result without timestamps yields an empty chart.
//
// Returns an error wrapping provider.ErrNoData when the response holds no result,
// and a plain error when the close array does not line up with the timestamps.
func ParseChart(resp Response) (PriceChart, error) {
	if resp.Chart.Error != nil {
		return PriceChart{}, resp.Chart.Error
	}
	if len(resp.Chart.Result) == 0 {
		return PriceChart{}, fmt.Errorf("%w: yahoo returned no chart result", provider.ErrNoData)
	}

	result := resp.Chart.Result[0]
	chart := PriceChart{
		Symbol:   result.Meta.Symbol,
		Currency: result.Meta.Currency,
		LongName: result.Meta.LongName,
	}
	if len(result.Timestamp) == 0 || len(result.Indicators.Quote) == 0 {
		return chart, nil
	}

	quote := result.Indicators.Quote[0]
	if len(quote.Close) != len(result.Timestamp) {
		return PriceChart{}, fmt.Errorf("yahoo: mismatched data lengths (%d timestamps, %d closes)", len(result.Timestamp), len(quote.Close))
	}

	chart.Points = make([]model.PricePoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if quote.Close[i] == nil {
			continue
		}
		t := time.Unix(ts, 0).UTC()
		chart.Points = append(chart.Points, model.PricePoint{
			Date:   time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC),
			Open:   valueAt(quote.Open, i),
			High:   valueAt(quote.High, i),
			Low:    valueAt(quote.Low, i),
			Close:  *quote.Close[i],
			Volume: valueAt(quote.Volume, i),
		})
	}
	return chart, nil
}

func valueAt[T float64 | int64](values []*T, i int) T {
	var zero T
	if i >= len(values) || values[i] == nil {
		return zero
	}
	return *values[i]
}

// queryChart executes a chart request and returns the body.
// Chart errors are returned even when Yahoo pairs them with a non-200 status.
func (c *FinanceClient) queryChart(ctx context.Context, symbol string, params url.Values) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.baseURL, url.PathEscape(symbol), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var envelope Response
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Chart.Error != nil {
		return nil, envelope.Chart.Error
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: unexpected status %d for %s", resp.StatusCode, symbol)
	}
	return data, nil
}
