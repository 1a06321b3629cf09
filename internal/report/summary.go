package report

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/tradescope/internal/perflog"
)

// Summary is the windowed performance summary
type Summary struct {
	AsOf               time.Time               `json:"as_of"`
	Window             string                  `json:"window"`
	Overall            GroupMetrics            `json:"overall"`
	PortfolioReturnPct float64                 `json:"portfolio_return_pct"`
	ByStrategy         map[string]GroupMetrics `json:"by_strategy"`
	ByTag              map[string]GroupMetrics `json:"by_tag"`
	ByRegime           map[string]GroupMetrics `json:"by_regime"`
	RecentClosedTrades []perflog.Row           `json:"recent_closed_trades"`
	Warnings           []string                `json:"warnings"`
}

// NormalizeWindow maps a window label to its day span. Anything outside
// {7d, 30d, 90d} normalizes to 30d.
func NormalizeWindow(window string) (string, int) {
	switch window {
	case "7d":
		return "7d", 7
	case "90d":
		return "90d", 90
	default:
		return "30d", 30
	}
}

// Summarize builds the windowed performance summary as of the given instant
// (zero = now). Read errors propagate.
func (g *Generator) Summarize(ctx context.Context, asOf time.Time, window string) (*Summary, error) {
	if asOf.IsZero() {
		asOf = g.now()
	}
	asOf = asOf.UTC()

	label, days := NormalizeWindow(window)

	rows, err := g.rows.TradesClosedBetween(ctx, asOf.AddDate(0, 0, -days), asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s window: %w", label, err)
	}

	recent, err := g.rows.RecentClosedTrades(ctx, asOf, g.recentLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent trades: %w", err)
	}

	byStrategy := Aggregate(rows, ByStrategy)
	byTag := Aggregate(rows, ByTag)

	s := &Summary{
		AsOf:               asOf,
		Window:             label,
		Overall:            Metrics(rows),
		PortfolioReturnPct: PortfolioReturnPct(rows),
		ByStrategy:         byStrategy,
		ByTag:              byTag,
		ByRegime:           Aggregate(rows, ByRegime),
		RecentClosedTrades: recent,
		Warnings:           g.sampleWarnings(label, byStrategy, byTag),
	}

	g.logger.WithFields(map[string]interface{}{
		"window": label,
		"count":  s.Overall.Count,
	}).Debug("Windowed summary generated")

	return s, nil
}
