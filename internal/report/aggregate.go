// Package report rolls performance log rows into grouped statistics and
// windowed reports used to decide whether strategy thresholds may be tuned.
package report

import (
	"math"
	"sort"

	"github.com/wonny/tradescope/internal/perflog"
)

// ProfitFactorSentinel is reported when gross losses are zero but gross
// wins are positive. Bounded stand-in for infinity, keeps JSON sane.
const ProfitFactorSentinel = 9999.0

// GroupMetrics holds per-group trade statistics
type GroupMetrics struct {
	Count           int     `json:"count"`
	WinRate         float64 `json:"win_rate"`
	AvgReturnPct    float64 `json:"avg_return_pct"`
	MedianReturnPct float64 `json:"median_return_pct"`
	StdevReturnPct  float64 `json:"stdev_return_pct"`
	ProfitFactor    float64 `json:"profit_factor"`
	AvgDaysHeld     float64 `json:"avg_days_held"`
	TotalPnL        float64 `json:"total_pnl"`
}

// KeyFunc maps a row to its group key; ok=false excludes the row
type KeyFunc func(row perflog.Row) (key string, ok bool)

// ByStrategy groups rows by strategy mode
func ByStrategy(row perflog.Row) (string, bool) {
	return string(row.Strategy), true
}

// ByTag groups rows by campaign tag, dropping untagged rows
func ByTag(row perflog.Row) (string, bool) {
	if row.Tag == nil {
		return "", false
	}
	return *row.Tag, true
}

// ByRegime groups rows by trend/volatility regime at entry, falling back to
// the exit regime; rows without either are dropped
func ByRegime(row perflog.Row) (string, bool) {
	key := row.RegimeGroupKey()
	return key, key != ""
}

// Aggregate groups rows by key and computes per-group statistics
// ⭐ SSOT: 그룹 통계 계산은 여기서만
func Aggregate(rows []perflog.Row, key KeyFunc) map[string]GroupMetrics {
	groups := make(map[string][]perflog.Row)
	for _, row := range rows {
		k, ok := key(row)
		if !ok {
			continue
		}
		groups[k] = append(groups[k], row)
	}

	result := make(map[string]GroupMetrics, len(groups))
	for k, group := range groups {
		result[k] = Metrics(group)
	}
	return result
}

// Metrics computes the statistics for one cohort of rows
func Metrics(rows []perflog.Row) GroupMetrics {
	m := GroupMetrics{Count: len(rows)}
	if m.Count == 0 {
		return m
	}

	var wins int
	var grossWin, grossLoss float64
	var returns, daysHeld []float64

	for _, row := range rows {
		if row.RealizedPnL > 0 {
			wins++
			grossWin += row.RealizedPnL
		} else if row.RealizedPnL < 0 {
			grossLoss += row.RealizedPnL
		}
		m.TotalPnL += row.RealizedPnL

		if row.RealizedReturnPct != nil {
			returns = append(returns, *row.RealizedReturnPct)
		}
		if row.DaysHeld != nil {
			daysHeld = append(daysHeld, *row.DaysHeld)
		}
	}

	m.WinRate = float64(wins) / float64(m.Count)
	m.AvgReturnPct = mean(returns)
	m.MedianReturnPct = median(returns)
	m.StdevReturnPct = sampleStdev(returns)
	m.ProfitFactor = profitFactor(grossWin, grossLoss)
	m.AvgDaysHeld = mean(daysHeld)

	return m
}

// PortfolioReturnPct is the notional-weighted realized return of a cohort:
// sum(pnl) / sum(notional at entry) * 100. Distinct from the unweighted
// average of per-trade percentages.
func PortfolioReturnPct(rows []perflog.Row) float64 {
	var pnl, notional float64
	for _, row := range rows {
		pnl += row.RealizedPnL
		if row.Notional != nil {
			notional += *row.Notional
		}
	}

	if notional == 0 {
		return 0
	}
	return pnl / notional * 100
}

// profitFactor: gross wins over absolute gross losses. 0 when nothing is
// realized either way, sentinel when there are wins and no losses.
func profitFactor(grossWin, grossLoss float64) float64 {
	if grossLoss == 0 {
		if grossWin > 0 {
			return ProfitFactorSentinel
		}
		return 0
	}
	return grossWin / math.Abs(grossLoss)
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

// median of the values; even counts average the two middle values
func median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// sampleStdev uses the (n-1) denominator; 0 for fewer than 2 samples
func sampleStdev(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}

	avg := mean(values)
	var variance float64
	for _, v := range values {
		diff := v - avg
		variance += diff * diff
	}
	variance /= float64(n - 1)

	return math.Sqrt(variance)
}
