package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/wonny/tradescope/internal/perflog"
	"github.com/wonny/tradescope/pkg/config"
	"github.com/wonny/tradescope/pkg/logger"
)

// RowSource supplies persisted performance log rows
type RowSource interface {
	TradesClosedBetween(ctx context.Context, from, to time.Time) ([]perflog.Row, error)
	RecentClosedTrades(ctx context.Context, asOf time.Time, limit int) ([]perflog.Row, error)
}

// Generator produces windowed performance reports
// ⭐ SSOT: 리포트 생성은 이 제너레이터에서만
type Generator struct {
	rows        RowSource
	logger      *logger.Logger
	minSample   int
	recentLimit int

	now func() time.Time
}

// NewGenerator creates a new report generator
func NewGenerator(cfg *config.Config, rows RowSource, log *logger.Logger) *Generator {
	return &Generator{
		rows:        rows,
		logger:      log,
		minSample:   cfg.Report.MinSampleSize,
		recentLimit: cfg.Report.RecentTrades,
		now:         time.Now,
	}
}

// WindowCounts holds trade counts for a short window
type WindowCounts struct {
	ByStrategy map[string]int `json:"by_strategy"`
	ByTag      map[string]int `json:"by_tag"`
	Total      int            `json:"total"`
}

// WindowMetrics holds grouped statistics for a window
type WindowMetrics struct {
	ByStrategy map[string]GroupMetrics `json:"by_strategy"`
	ByTag      map[string]GroupMetrics `json:"by_tag"`
}

// TickerPerf is one ranked trade in the best/worst lists
type TickerPerf struct {
	Ticker    string  `json:"ticker"`
	ReturnPct float64 `json:"return_pct"`
}

// WeeklyReport is the JSON-shaped weekly performance report
type WeeklyReport struct {
	AsOf          time.Time     `json:"as_of"`
	Last7d        WindowCounts  `json:"last_7d"`
	Last30d       WindowMetrics `json:"last_30d"`
	Best3Tickers  []TickerPerf  `json:"best_3_tickers"`
	Worst3Tickers []TickerPerf  `json:"worst_3_tickers"`
	Warnings      []string      `json:"warnings"`
}

// Weekly builds the weekly report as of the given instant (zero = now).
// Read errors propagate; a failed result is never cached.
func (g *Generator) Weekly(ctx context.Context, asOf time.Time) (*WeeklyReport, error) {
	if asOf.IsZero() {
		asOf = g.now()
	}
	asOf = asOf.UTC()

	last7d, err := g.rows.TradesClosedBetween(ctx, asOf.AddDate(0, 0, -7), asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to load 7d window: %w", err)
	}

	last30d, err := g.rows.TradesClosedBetween(ctx, asOf.AddDate(0, 0, -30), asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to load 30d window: %w", err)
	}

	byStrategy30 := Aggregate(last30d, ByStrategy)
	byTag30 := Aggregate(last30d, ByTag)

	best, worst := rankTickers(last30d, 3)

	r := &WeeklyReport{
		AsOf: asOf,
		Last7d: WindowCounts{
			ByStrategy: countBy(last7d, ByStrategy),
			ByTag:      countBy(last7d, ByTag),
			Total:      len(last7d),
		},
		Last30d: WindowMetrics{
			ByStrategy: byStrategy30,
			ByTag:      byTag30,
		},
		Best3Tickers:  best,
		Worst3Tickers: worst,
		Warnings:      g.sampleWarnings("30d", byStrategy30, byTag30),
	}

	g.logger.WithFields(map[string]interface{}{
		"as_of":    asOf.Format("2006-01-02"),
		"last_7d":  r.Last7d.Total,
		"last_30d": len(last30d),
		"warnings": len(r.Warnings),
	}).Info("Weekly report generated")

	return r, nil
}

// countBy counts rows per group key
func countBy(rows []perflog.Row, key KeyFunc) map[string]int {
	counts := make(map[string]int)
	for _, row := range rows {
		if k, ok := key(row); ok {
			counts[k]++
		}
	}
	return counts
}

// rankTickers returns the top and bottom trades by realized return %.
// Stable sorts keep retrieval order on ties; fewer rows than limit return
// all available, never padded. Rows without a return % cannot be ranked.
func rankTickers(rows []perflog.Row, limit int) (best, worst []TickerPerf) {
	ranked := make([]TickerPerf, 0, len(rows))
	for _, row := range rows {
		if row.RealizedReturnPct == nil {
			continue
		}
		ranked = append(ranked, TickerPerf{Ticker: row.Ticker, ReturnPct: *row.RealizedReturnPct})
	}

	desc := make([]TickerPerf, len(ranked))
	copy(desc, ranked)
	sort.SliceStable(desc, func(i, j int) bool { return desc[i].ReturnPct > desc[j].ReturnPct })

	asc := make([]TickerPerf, len(ranked))
	copy(asc, ranked)
	sort.SliceStable(asc, func(i, j int) bool { return asc[i].ReturnPct < asc[j].ReturnPct })

	if len(desc) > limit {
		desc = desc[:limit]
	}
	if len(asc) > limit {
		asc = asc[:limit]
	}
	return desc, asc
}

// sampleWarnings emits one warning per under-sampled strategy/tag group
func (g *Generator) sampleWarnings(window string, byStrategy, byTag map[string]GroupMetrics) []string {
	warnings := make([]string, 0)

	for _, key := range sortedKeys(byStrategy) {
		if m := byStrategy[key]; m.Count < g.minSample {
			warnings = append(warnings, fmt.Sprintf(
				"strategy %s: only %d trades in the %s window (minimum %d), do not tune thresholds on this group",
				key, m.Count, window, g.minSample))
		}
	}
	for _, key := range sortedKeys(byTag) {
		if m := byTag[key]; m.Count < g.minSample {
			warnings = append(warnings, fmt.Sprintf(
				"tag %s: only %d trades in the %s window (minimum %d), do not tune thresholds on this group",
				key, m.Count, window, g.minSample))
		}
	}

	return warnings
}

func sortedKeys(m map[string]GroupMetrics) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
