package stooq

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/wonny/tradescope/pkg/config"
	"github.com/wonny/tradescope/pkg/httputil"
	"github.com/wonny/tradescope/pkg/logger"
)

// Client fetches daily price history from the Stooq CSV endpoint
// ⭐ SSOT: Stooq 일별 시세 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	limiter    *rate.Limiter
}

// NewClient creates a new Stooq client
func NewClient(cfg *config.Config, httpClient *httputil.Client, log *logger.Logger) *Client {
	rps := cfg.Stooq.RatePerSecond
	if rps <= 0 {
		rps = 2.0
	}

	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    cfg.Stooq.BaseURL,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// Bar represents one daily bar
type Bar struct {
	Date  time.Time `json:"date"`
	Open  float64   `json:"open"`
	High  float64   `json:"high"`
	Low   float64   `json:"low"`
	Close float64   `json:"close"`
}

// FetchDailyBars fetches daily bars for a symbol over [from, to], oldest first
// ⭐ SSOT: Stooq CSV 파싱은 이 함수에서만
func (c *Client) FetchDailyBars(ctx context.Context, symbol string, from, to time.Time) ([]Bar, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	fullURL := fmt.Sprintf(
		"%s/q/d/l/?s=%s&d1=%s&d2=%s&i=d",
		c.baseURL,
		strings.ToLower(symbol),
		from.Format("20060102"),
		to.Format("20060102"),
	)

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("rate limited (429)")
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body failed: %w", err)
	}

	bars, err := parseDailyCSV(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse response failed: %w", err)
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"count":  len(bars),
	}).Debug("Fetched daily bars")

	return bars, nil
}

// FetchDailyCloses fetches the close column only, oldest first
func (c *Client) FetchDailyCloses(ctx context.Context, symbol string, from, to time.Time) ([]float64, error) {
	bars, err := c.FetchDailyBars(ctx, symbol, from, to)
	if err != nil {
		return nil, err
	}

	closes := make([]float64, 0, len(bars))
	for _, b := range bars {
		closes = append(closes, b.Close)
	}
	return closes, nil
}

// parseDailyCSV parses the Stooq CSV payload (Date,Open,High,Low,Close,Volume)
func parseDailyCSV(body string) ([]Bar, error) {
	body = strings.TrimSpace(body)
	if body == "" || strings.HasPrefix(body, "No data") {
		return nil, nil
	}

	reader := csv.NewReader(strings.NewReader(body))
	reader.FieldsPerRecord = -1 // Volume column is absent for some indices

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv read: %w", err)
	}

	var bars []Bar
	for i, rec := range records {
		if i == 0 || len(rec) < 5 {
			continue // Skip header
		}

		tradeDate, err := time.Parse("2006-01-02", rec[0])
		if err != nil {
			continue
		}

		open := toFloat(rec[1])
		high := toFloat(rec[2])
		low := toFloat(rec[3])
		closePx := toFloat(rec[4])
		if closePx <= 0 {
			continue
		}

		bars = append(bars, Bar{
			Date:  tradeDate,
			Open:  open,
			High:  high,
			Low:   low,
			Close: closePx,
		})
	}

	return bars, nil
}

// toFloat parses a CSV cell to float64, 0 on failure
func toFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
