// Package marketdata adapts the external quote clients into tolerant
// sources: every upstream failure degrades to an absent result, never an
// error. Callers must check ok and skip enrichment when data is missing.
package marketdata

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wonny/tradescope/pkg/logger"
	"github.com/wonny/tradescope/pkg/redis"
)

// BarFetcher fetches an ordered daily close series (oldest first)
type BarFetcher interface {
	FetchDailyCloses(ctx context.Context, symbol string, from, to time.Time) ([]float64, error)
}

// SpotFetcher fetches a current index value
type SpotFetcher interface {
	FetchSpot(ctx context.Context, symbol string) (float64, error)
}

// Source is the tolerant market data source used by the core
// ⭐ SSOT: 시세 조회 실패 허용 처리는 여기서만
type Source struct {
	bars   BarFetcher
	spot   SpotFetcher
	cache  *redis.Cache
	logger *logger.Logger
}

// NewSource creates a new tolerant market data source
func NewSource(bars BarFetcher, spot SpotFetcher, cache *redis.Cache, log *logger.Logger) *Source {
	return &Source{
		bars:   bars,
		spot:   spot,
		cache:  cache,
		logger: log,
	}
}

// DailyCloses returns daily closes for symbol over [from, to], oldest first.
// ok=false means the series is unavailable; callers skip enrichment.
func (s *Source) DailyCloses(ctx context.Context, symbol string, from, to time.Time) ([]float64, bool) {
	fromStr := from.UTC().Format("2006-01-02")
	toStr := to.UTC().Format("2006-01-02")
	cacheKey := redis.BarSeriesKey(symbol, fromStr, toStr)

	var cached []float64
	if found, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && found && len(cached) > 0 {
		return cached, true
	}

	closes, err := s.bars.FetchDailyCloses(ctx, symbol, from, to)
	if err != nil {
		s.logger.WithFields(map[string]interface{}{
			"symbol": symbol,
			"from":   fromStr,
			"to":     toStr,
			"error":  err.Error(),
		}).Warn("Daily close series unavailable")
		return nil, false
	}

	if len(closes) == 0 {
		return nil, false
	}

	if err := s.cache.Set(ctx, cacheKey, closes, redis.TTLDaily); err != nil {
		s.logger.WithError(err).Warn("Bar series cache write failed")
	}

	return closes, true
}

// VolatilitySpot returns the current volatility index value. The quote
// page scrape is primary; on failure the latest daily close stands in.
// ok=false means neither source had a value; callers fall back to unknown.
func (s *Source) VolatilitySpot(ctx context.Context, symbol string) (float64, bool) {
	cacheKey := redis.VolatilityKey(symbol)

	var cached float64
	if found, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && found && cached > 0 {
		return cached, true
	}

	value, err := s.spot.FetchSpot(ctx, symbol)
	if err != nil {
		s.logger.WithFields(map[string]interface{}{
			"symbol": symbol,
			"error":  err.Error(),
		}).Warn("Volatility spot unavailable, trying daily closes")

		value, err = s.latestClose(ctx, strings.ToLower(symbol))
		if err != nil {
			s.logger.WithFields(map[string]interface{}{
				"symbol": symbol,
				"error":  err.Error(),
			}).Warn("Volatility fallback unavailable")
			return 0, false
		}
	}

	if err := s.cache.Set(ctx, cacheKey, value, redis.TTLMedium); err != nil {
		s.logger.WithError(err).Warn("Volatility cache write failed")
	}

	return value, true
}

// latestClose fetches the last week of daily closes and returns the newest
func (s *Source) latestClose(ctx context.Context, symbol string) (float64, error) {
	to := time.Now().UTC()
	from := to.AddDate(0, 0, -7)

	closes, err := s.bars.FetchDailyCloses(ctx, symbol, from, to)
	if err != nil {
		return 0, err
	}
	if len(closes) == 0 {
		return 0, fmt.Errorf("no recent closes for %s", symbol)
	}

	return closes[len(closes)-1], nil
}
