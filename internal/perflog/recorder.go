// Package perflog normalizes closed trades into append-only performance log
// rows enriched with the market regime and MAE/MFE, and owns their
// persistence. Logging the same trade twice is a no-op.
package perflog

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/wonny/tradescope/internal/regime"
	"github.com/wonny/tradescope/pkg/logger"
)

// RowStore persists performance log rows. Insert returns inserted=false when
// the trade id was already logged; that is success, not an error.
type RowStore interface {
	Insert(ctx context.Context, row *Row) (inserted bool, err error)
}

// RegimeSource supplies the daily regime snapshot
type RegimeSource interface {
	Snapshot(ctx context.Context) regime.Snapshot
}

// BarSource supplies daily closes, absent on failure
type BarSource interface {
	DailyCloses(ctx context.Context, symbol string, from, to time.Time) ([]float64, bool)
}

// Recorder normalizes and logs closed trades
// ⭐ SSOT: 성과 로그 적재는 이 레코더에서만
type Recorder struct {
	store  RowStore
	regime RegimeSource
	bars   BarSource
	logger *logger.Logger

	now func() time.Time
}

// NewRecorder creates a new performance log recorder
func NewRecorder(store RowStore, regimeSrc RegimeSource, bars BarSource, log *logger.Logger) *Recorder {
	return &Recorder{
		store:  store,
		regime: regimeSrc,
		bars:   bars,
		logger: log,
		now:    time.Now,
	}
}

// LogClosedTrade normalizes one closed trade and writes its performance row.
// Malformed input (no close time, unknown strategy, averaging add-on) is
// skipped silently. A duplicate trade id is success. Only persistence
// failures other than the uniqueness conflict propagate.
func (r *Recorder) LogClosedTrade(ctx context.Context, trade ClosedTrade, opts Options) error {
	if trade.ClosedAt == nil {
		r.logger.WithField("trade_id", trade.ID).Debug("Skip trade without close timestamp")
		return nil
	}
	if !trade.Strategy.Valid() {
		r.logger.WithFields(map[string]interface{}{
			"trade_id": trade.ID,
			"strategy": trade.Strategy,
		}).Debug("Skip trade with unsupported strategy")
		return nil
	}
	if IsAveragingAddOn(trade.Notes) {
		r.logger.WithField("trade_id", trade.ID).Debug("Skip averaging add-on")
		return nil
	}

	row := r.normalize(trade, opts)

	// 레짐은 한 번만 조회, entry/exit에 같은 값 기록
	// (진입 시점 레짐의 과거 조회는 비용 문제로 근사값 사용, 버그 아님)
	snap := r.regime.Snapshot(ctx)
	row.RegimeEntry = &snap
	row.RegimeExit = &snap

	r.enrichExcursion(ctx, trade, row)

	inserted, err := r.store.Insert(ctx, row)
	if err != nil {
		return err
	}

	if !inserted {
		r.logger.WithField("trade_id", trade.ID).Debug("Trade already logged")
		return nil
	}

	r.logger.WithFields(map[string]interface{}{
		"trade_id": row.TradeID,
		"ticker":   row.Ticker,
		"strategy": row.Strategy,
		"pnl":      row.RealizedPnL,
	}).Info("Performance row logged")

	return nil
}

// normalize derives the row fields from the raw closed trade
func (r *Recorder) normalize(trade ClosedTrade, opts Options) *Row {
	row := &Row{
		TradeID:           trade.ID,
		Ticker:            trade.Ticker,
		Strategy:          trade.Strategy,
		Tag:               DeriveTag(trade.Strategy, trade.Notes, trade.Reason),
		ExitAt:            trade.ClosedAt.UTC(),
		ExitPrice:         trade.ClosePrice,
		Quantity:          trade.Quantity,
		RealizedPnL:       trade.RealizedPnL,
		RealizedReturnPct: trade.RealizedReturnPct,
		Source:            opts.Source,
		TriggerLabel:      opts.TriggerLabel,
		CreatedAt:         r.now().UTC(),
	}

	// entry timestamp: first non-null of fill/open/created
	switch {
	case trade.FilledAt != nil:
		row.EntryAt = trade.FilledAt.UTC()
	case trade.OpenedAt != nil:
		row.EntryAt = trade.OpenedAt.UTC()
	case trade.CreatedAt != nil:
		row.EntryAt = trade.CreatedAt.UTC()
	}

	// entry price: fill price, else stated entry price
	if trade.FillPrice != nil {
		row.EntryPrice = trade.FillPrice
	} else {
		row.EntryPrice = trade.EntryPrice
	}

	// notional: stated position size, else entry * quantity
	if trade.PositionSize != nil {
		row.Notional = trade.PositionSize
	} else if row.EntryPrice != nil && trade.Quantity > 0 {
		notional := *row.EntryPrice * trade.Quantity
		row.Notional = &notional
	}

	if !row.EntryAt.IsZero() {
		days := row.ExitAt.Sub(row.EntryAt).Hours() / 24
		days = math.Round(days*100) / 100
		row.DaysHeld = &days
	}

	return row
}

// enrichExcursion attaches MAE/MFE for non-day-trade holds with a usable
// entry price. Missing bars leave the fields null, never zero.
func (r *Recorder) enrichExcursion(ctx context.Context, trade ClosedTrade, row *Row) {
	if row.Strategy == StrategyDayTrade {
		return
	}
	if row.EntryPrice == nil || *row.EntryPrice <= 0 || row.EntryAt.IsZero() {
		return
	}

	closes, ok := r.bars.DailyCloses(ctx, barSymbol(row.Ticker), row.EntryAt, row.ExitAt)
	if !ok {
		return
	}

	exc, ok := ComputeExcursion(closes, *row.EntryPrice, trade.Direction == DirectionBuy)
	if !ok {
		return
	}

	row.MaxDrawdownPct = &exc.MaxDrawdownPct
	row.MaxRunupPct = &exc.MaxRunupPct
}

// barSymbol maps a plain US ticker to the Stooq symbol convention
func barSymbol(ticker string) string {
	t := strings.ToLower(strings.TrimSpace(ticker))
	if t == "" || strings.HasPrefix(t, "^") || strings.Contains(t, ".") {
		return t
	}
	return t + ".us"
}
