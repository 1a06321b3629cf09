package perflog

import (
	"time"

	"github.com/wonny/tradescope/internal/regime"
)

// Strategy is the trading mode a position was opened under
type Strategy string

const (
	StrategyDayTrade Strategy = "DAY_TRADE"
	StrategySwing    Strategy = "SWING_TRADE"
	StrategyLongTerm Strategy = "LONG_TERM"
)

// Valid reports whether the strategy is one of the supported modes
func (s Strategy) Valid() bool {
	switch s {
	case StrategyDayTrade, StrategySwing, StrategyLongTerm:
		return true
	}
	return false
}

// Direction is the position side
type Direction string

const (
	DirectionBuy  Direction = "BUY"
	DirectionSell Direction = "SELL"
)

// ClosedTrade is the read-only record pushed by the execution subsystem
// when a position closes. Optional numeric/time fields are pointers;
// nil means the upstream system did not supply the value.
type ClosedTrade struct {
	ID                string     `json:"id"`
	Ticker            string     `json:"ticker"`
	Strategy          Strategy   `json:"strategy"`
	Direction         Direction  `json:"direction"`
	Notes             string     `json:"notes"`
	Reason            string     `json:"reason"`
	FillPrice         *float64   `json:"fill_price"`
	EntryPrice        *float64   `json:"entry_price"`
	ClosePrice        *float64   `json:"close_price"`
	Quantity          float64    `json:"quantity"`
	PositionSize      *float64   `json:"position_size"`
	RealizedPnL       float64    `json:"realized_pnl"`
	RealizedReturnPct *float64   `json:"realized_return_pct"`
	FilledAt          *time.Time `json:"filled_at"`
	OpenedAt          *time.Time `json:"opened_at"`
	CreatedAt         *time.Time `json:"created_at"`
	ClosedAt          *time.Time `json:"closed_at"`
	CloseReason       string     `json:"close_reason"`
}

// Options carries optional logging context from the caller
type Options struct {
	Source       string `json:"source"`
	TriggerLabel string `json:"trigger_label"`
}

// Row is the persisted, append-only performance log record.
// MAE/MFE and regime fields stay nil when indeterminate — never zeroed.
type Row struct {
	TradeID           string           `json:"trade_id"`
	Ticker            string           `json:"ticker"`
	Strategy          Strategy         `json:"strategy"`
	Tag               *string          `json:"tag"`
	EntryAt           time.Time        `json:"entry_at"`
	ExitAt            time.Time        `json:"exit_at"`
	EntryPrice        *float64         `json:"entry_price"`
	ExitPrice         *float64         `json:"exit_price"`
	Quantity          float64          `json:"quantity"`
	Notional          *float64         `json:"notional"`
	RealizedPnL       float64          `json:"realized_pnl"`
	RealizedReturnPct *float64         `json:"realized_return_pct"`
	DaysHeld          *float64         `json:"days_held"`
	MaxRunupPct       *float64         `json:"max_runup_pct"`
	MaxDrawdownPct    *float64         `json:"max_drawdown_pct"`
	RegimeEntry       *regime.Snapshot `json:"regime_entry"`
	RegimeExit        *regime.Snapshot `json:"regime_exit"`
	Source            string           `json:"source"`
	TriggerLabel      string           `json:"trigger_label"`
	CreatedAt         time.Time        `json:"created_at"`
}

// RegimeGroupKey returns the regime aggregation key for this row,
// preferring the entry snapshot and falling back to the exit snapshot.
// Empty string when neither is present.
func (r Row) RegimeGroupKey() string {
	if r.RegimeEntry != nil {
		return r.RegimeEntry.GroupKey()
	}
	if r.RegimeExit != nil {
		return r.RegimeExit.GroupKey()
	}
	return ""
}
