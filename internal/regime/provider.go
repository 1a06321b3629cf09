// Package regime derives the macro market regime (trend position + volatility
// bucket) from the benchmark index and the volatility index, cached once per
// UTC calendar day.
package regime

import (
	"context"
	"sync"
	"time"

	"github.com/wonny/tradescope/pkg/config"
	"github.com/wonny/tradescope/pkg/logger"
)

const (
	shortWindow = 50
	longWindow  = 200

	// 달력일 기준 조회 범위, 거래일 200개 확보용
	lookbackDays = 420
)

// BarSource returns an ordered daily close series, absent on failure
type BarSource interface {
	DailyCloses(ctx context.Context, symbol string, from, to time.Time) ([]float64, bool)
}

// VolSource returns the current volatility index value, absent on failure
type VolSource interface {
	VolatilitySpot(ctx context.Context, symbol string) (float64, bool)
}

// DayCache holds the snapshot computed for one UTC calendar day.
// Owned by the composition root and injected into the provider.
type DayCache struct {
	mu          sync.Mutex
	value       Snapshot
	computedFor string // "2006-01-02" UTC
}

// NewDayCache creates an empty day cache
func NewDayCache() *DayCache {
	return &DayCache{}
}

func (c *DayCache) load(day string) (Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.computedFor != day {
		return Snapshot{}, false
	}
	return c.value, true
}

func (c *DayCache) store(day string, snap Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = snap
	c.computedFor = day
}

// Provider computes and caches the daily regime snapshot
// ⭐ SSOT: 레짐 판정은 이 프로바이더에서만
type Provider struct {
	bars      BarSource
	vol       VolSource
	cache     *DayCache
	logger    *logger.Logger
	benchmark string
	volSymbol string

	// 테스트에서 고정 가능
	now func() time.Time
}

// NewProvider creates a new regime provider
func NewProvider(cfg *config.Config, bars BarSource, vol VolSource, cache *DayCache, log *logger.Logger) *Provider {
	return &Provider{
		bars:      bars,
		vol:       vol,
		cache:     cache,
		logger:    log,
		benchmark: cfg.Stooq.BenchmarkSymbol,
		volSymbol: cfg.Yahoo.VolatilitySymbol,
		now:       time.Now,
	}
}

// Snapshot returns the regime snapshot for the current UTC day. Never fails:
// any fetch problem degrades to the conservative defaults. Concurrent callers
// on a cache miss may both fetch; the last writer wins, which is harmless
// because the inputs for a given day are identical.
func (p *Provider) Snapshot(ctx context.Context) Snapshot {
	today := p.now().UTC().Format("2006-01-02")

	if snap, ok := p.cache.load(today); ok {
		return snap
	}

	snap := p.compute(ctx)
	p.cache.store(today, snap)

	p.logger.WithFields(map[string]interface{}{
		"date":              today,
		"above_short_trend": snap.AboveShortTrend,
		"above_long_trend":  snap.AboveLongTrend,
		"volatility_bucket": snap.VolatilityBucket,
	}).Info("Regime snapshot computed")

	return snap
}

// compute fetches benchmark history and volatility spot, unlocked
func (p *Provider) compute(ctx context.Context) Snapshot {
	snap := defaultSnapshot()

	to := p.now().UTC()
	from := to.AddDate(0, 0, -lookbackDays)

	closes, ok := p.bars.DailyCloses(ctx, p.benchmark, from, to)
	if ok && len(closes) >= longWindow {
		latest := closes[len(closes)-1]
		snap.AboveShortTrend = latest > mean(closes[len(closes)-shortWindow:])
		snap.AboveLongTrend = latest > mean(closes[len(closes)-longWindow:])
	} else if ok {
		// 표본 부족, 보수적으로 false 유지
		p.logger.WithFields(map[string]interface{}{
			"symbol": p.benchmark,
			"count":  len(closes),
			"need":   longWindow,
		}).Warn("Insufficient benchmark history for trend flags")
	}

	if value, ok := p.vol.VolatilitySpot(ctx, p.volSymbol); ok {
		v := value
		snap.VolatilityValue = &v
		snap.VolatilityBucket = BucketFor(value)
	}

	return snap
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
