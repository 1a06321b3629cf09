package yahoo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/tradescope/pkg/config"
	"github.com/wonny/tradescope/pkg/httputil"
	"github.com/wonny/tradescope/pkg/logger"
)

// Client scrapes spot quotes from the Yahoo Finance quote page
// ⭐ SSOT: Yahoo 시세 스크래핑은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new Yahoo quote client
func NewClient(cfg *config.Config, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    cfg.Yahoo.QuoteBaseURL,
	}
}

// FetchSpot fetches the current market price for a symbol (e.g. ^VIX)
func (c *Client) FetchSpot(ctx context.Context, symbol string) (float64, error) {
	fullURL := fmt.Sprintf("%s/%s", c.baseURL, symbol)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return 0, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("read response body failed: %w", err)
	}

	value, err := parseSpot(string(body), symbol)
	if err != nil {
		return 0, err
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"value":  value,
	}).Debug("Fetched spot quote")

	return value, nil
}

// parseSpot pulls the regularMarketPrice fin-streamer out of the quote page
func parseSpot(html, symbol string) (float64, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return 0, fmt.Errorf("parse html: %w", err)
	}

	var value float64
	var found bool

	doc.Find(`fin-streamer[data-field="regularMarketPrice"]`).EachWithBreak(func(i int, s *goquery.Selection) bool {
		// 같은 페이지에 관련 종목 스트리머가 여러 개 붙음, symbol 일치 우선
		if sym, ok := s.Attr("data-symbol"); ok && sym != symbol {
			return true
		}

		raw, ok := s.Attr("data-value")
		if !ok {
			raw = s.Text()
		}
		raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")

		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return true
		}

		value = v
		found = true
		return false
	})

	if !found {
		return 0, fmt.Errorf("no quote value found for %s", symbol)
	}

	return value, nil
}
