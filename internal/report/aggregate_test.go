package report

import (
	"math"
	"testing"

	"github.com/wonny/tradescope/internal/perflog"
	"github.com/wonny/tradescope/internal/regime"
)

func ptr[T any](v T) *T { return &v }

func row(strategy perflog.Strategy, pnl float64, returnPct *float64) perflog.Row {
	return perflog.Row{
		Strategy:          strategy,
		RealizedPnL:       pnl,
		RealizedReturnPct: returnPct,
	}
}

func TestMetrics(t *testing.T) {
	t.Run("empty cohort is all zeros", func(t *testing.T) {
		m := Metrics(nil)
		if m.Count != 0 {
			t.Errorf("Count = %d, want 0", m.Count)
		}
		if m.WinRate != 0 {
			t.Errorf("WinRate = %v, want 0 (never NaN)", m.WinRate)
		}
		if math.IsNaN(m.WinRate) || math.IsNaN(m.AvgReturnPct) || math.IsNaN(m.StdevReturnPct) {
			t.Error("empty cohort produced NaN")
		}
	})

	t.Run("basic cohort", func(t *testing.T) {
		rows := []perflog.Row{
			row(perflog.StrategySwing, 125, ptr(12.5)),
			row(perflog.StrategySwing, -30, ptr(-3.0)),
			row(perflog.StrategySwing, 70, ptr(7.0)),
		}
		for i := range rows {
			rows[i].DaysHeld = ptr(float64(i + 1))
		}

		m := Metrics(rows)
		if m.Count != 3 {
			t.Errorf("Count = %d, want 3", m.Count)
		}
		if got := m.WinRate; math.Abs(got-2.0/3.0) > 1e-9 {
			t.Errorf("WinRate = %v, want 2/3", got)
		}
		if got := m.AvgReturnPct; math.Abs(got-5.5) > 1e-9 {
			t.Errorf("AvgReturnPct = %v, want 5.5", got)
		}
		if m.MedianReturnPct != 7.0 {
			t.Errorf("MedianReturnPct = %v, want 7.0", m.MedianReturnPct)
		}
		if got := m.ProfitFactor; math.Abs(got-195.0/30.0) > 1e-9 {
			t.Errorf("ProfitFactor = %v, want 6.5", got)
		}
		if got := m.AvgDaysHeld; math.Abs(got-2.0) > 1e-9 {
			t.Errorf("AvgDaysHeld = %v, want 2.0", got)
		}
		if got := m.TotalPnL; math.Abs(got-165.0) > 1e-9 {
			t.Errorf("TotalPnL = %v, want 165", got)
		}
	})

	t.Run("nil returns excluded from return stats", func(t *testing.T) {
		rows := []perflog.Row{
			row(perflog.StrategySwing, 10, ptr(1.0)),
			row(perflog.StrategySwing, 20, nil),
			row(perflog.StrategySwing, 30, ptr(3.0)),
		}

		m := Metrics(rows)
		if m.AvgReturnPct != 2.0 {
			t.Errorf("AvgReturnPct = %v, want 2.0", m.AvgReturnPct)
		}
		if m.MedianReturnPct != 2.0 {
			t.Errorf("MedianReturnPct = %v, want 2.0", m.MedianReturnPct)
		}
	})
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"even count averages middle pair", []float64{1, 2, 3, 4}, 2.5},
		{"odd count takes middle", []float64{1, 2, 3}, 2},
		{"unsorted input", []float64{4, 1, 3, 2}, 2.5},
		{"single value", []float64{7}, 7},
		{"empty", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := median(tt.values); got != tt.want {
				t.Errorf("median(%v) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}
}

func TestSampleStdev(t *testing.T) {
	t.Run("fewer than two samples is zero", func(t *testing.T) {
		if got := sampleStdev([]float64{5}); got != 0 {
			t.Errorf("sampleStdev = %v, want 0", got)
		}
		if got := sampleStdev(nil); got != 0 {
			t.Errorf("sampleStdev = %v, want 0", got)
		}
	})

	t.Run("n-1 denominator", func(t *testing.T) {
		// variance of {2,4,4,4,5,5,7,9} with n-1 = 32/7
		got := sampleStdev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
		want := math.Sqrt(32.0 / 7.0)
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("sampleStdev = %v, want %v", got, want)
		}
	})
}

func TestProfitFactor(t *testing.T) {
	tests := []struct {
		name     string
		grossWin float64
		grossLos float64
		want     float64
	}{
		{"wins and losses", 200, -100, 2.0},
		{"no trades", 0, 0, 0},
		{"wins without losses hits sentinel", 150, 0, ProfitFactorSentinel},
		{"losses without wins", 0, -80, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := profitFactor(tt.grossWin, tt.grossLos)
			if got != tt.want {
				t.Errorf("profitFactor(%v, %v) = %v, want %v", tt.grossWin, tt.grossLos, got, tt.want)
			}
			if math.IsInf(got, 0) {
				t.Error("profit factor must never be raw infinity")
			}
		})
	}
}

func TestAggregate(t *testing.T) {
	tag := "dca"
	rows := []perflog.Row{
		row(perflog.StrategyDayTrade, 10, ptr(1.0)),
		row(perflog.StrategySwing, -20, ptr(-2.0)),
		row(perflog.StrategySwing, 30, ptr(3.0)),
		{Strategy: perflog.StrategyLongTerm, RealizedPnL: 40, RealizedReturnPct: ptr(4.0), Tag: &tag},
	}

	t.Run("by strategy", func(t *testing.T) {
		groups := Aggregate(rows, ByStrategy)
		if len(groups) != 3 {
			t.Fatalf("groups = %d, want 3", len(groups))
		}
		if groups["SWING_TRADE"].Count != 2 {
			t.Errorf("swing count = %d, want 2", groups["SWING_TRADE"].Count)
		}
		if groups["DAY_TRADE"].WinRate != 1.0 {
			t.Errorf("day trade win rate = %v, want 1.0", groups["DAY_TRADE"].WinRate)
		}
	})

	t.Run("by tag drops untagged rows", func(t *testing.T) {
		groups := Aggregate(rows, ByTag)
		if len(groups) != 1 {
			t.Fatalf("groups = %d, want 1", len(groups))
		}
		if groups["dca"].Count != 1 {
			t.Errorf("dca count = %d, want 1", groups["dca"].Count)
		}
	})

	t.Run("by regime with entry fallback to exit", func(t *testing.T) {
		entry := &regime.Snapshot{AboveLongTrend: true, VolatilityBucket: regime.BucketNormal}
		exit := &regime.Snapshot{AboveLongTrend: false, VolatilityBucket: regime.BucketPanic}

		regimeRows := []perflog.Row{
			{RealizedPnL: 1, RegimeEntry: entry, RegimeExit: exit},
			{RealizedPnL: 2, RegimeExit: exit}, // falls back to exit regime
			{RealizedPnL: 3},                   // no regime at all, dropped
		}

		groups := Aggregate(regimeRows, ByRegime)
		if len(groups) != 2 {
			t.Fatalf("groups = %d, want 2", len(groups))
		}
		if groups["aboveLongTrend-normal"].Count != 1 {
			t.Errorf("entry regime group count = %d, want 1", groups["aboveLongTrend-normal"].Count)
		}
		if groups["belowLongTrend-panic"].Count != 1 {
			t.Errorf("exit fallback group count = %d, want 1", groups["belowLongTrend-panic"].Count)
		}
	})
}

func TestPortfolioReturnPct(t *testing.T) {
	rows := []perflog.Row{
		{RealizedPnL: 100, Notional: ptr(1000.0)},
		{RealizedPnL: -50, Notional: ptr(4000.0)},
	}

	// 50 / 5000 * 100 = 1.0 — not the average of 10% and -1.25%
	if got := PortfolioReturnPct(rows); got != 1.0 {
		t.Errorf("PortfolioReturnPct = %v, want 1.0", got)
	}

	if got := PortfolioReturnPct(nil); got != 0 {
		t.Errorf("PortfolioReturnPct(nil) = %v, want 0", got)
	}
}
