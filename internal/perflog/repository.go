package perflog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/tradescope/internal/regime"
)

// uniqueViolation is the PostgreSQL error code for a unique constraint hit
const uniqueViolation = "23505"

// Repository handles performance log persistence
// ⭐ SSOT: perf.trade_log 접근은 여기서만
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new performance log repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert writes one append-only row. A unique violation on trade_id means
// the trade was already logged and returns (false, nil); any other failure
// propagates.
func (r *Repository) Insert(ctx context.Context, row *Row) (bool, error) {
	regimeEntryJSON, regimeExitJSON, err := marshalRegimes(row)
	if err != nil {
		return false, err
	}

	query := `
		INSERT INTO perf.trade_log (
			trade_id, ticker, strategy, tag,
			entry_at, exit_at, entry_price, exit_price,
			quantity, notional, realized_pnl, realized_return_pct,
			days_held, max_runup_pct, max_drawdown_pct,
			regime_entry, regime_exit, source, trigger_label, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20
		)
	`

	_, err = r.pool.Exec(ctx, query,
		row.TradeID, row.Ticker, string(row.Strategy), row.Tag,
		row.EntryAt, row.ExitAt, row.EntryPrice, row.ExitPrice,
		row.Quantity, row.Notional, row.RealizedPnL, row.RealizedReturnPct,
		row.DaysHeld, row.MaxRunupPct, row.MaxDrawdownPct,
		regimeEntryJSON, regimeExitJSON, row.Source, row.TriggerLabel, row.CreatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return false, nil // already logged
		}
		return false, fmt.Errorf("failed to insert trade log row: %w", err)
	}

	return true, nil
}

// TradesClosedBetween retrieves rows with exit_at in [from, to), oldest first
func (r *Repository) TradesClosedBetween(ctx context.Context, from, to time.Time) ([]Row, error) {
	query := selectColumns + `
		FROM perf.trade_log
		WHERE exit_at >= $1 AND exit_at < $2
		ORDER BY exit_at ASC, trade_id ASC
	`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query trade log: %w", err)
	}
	defer rows.Close()

	return scanRows(rows)
}

// RecentClosedTrades retrieves the latest rows before asOf, newest first
func (r *Repository) RecentClosedTrades(ctx context.Context, asOf time.Time, limit int) ([]Row, error) {
	query := selectColumns + `
		FROM perf.trade_log
		WHERE exit_at < $1
		ORDER BY exit_at DESC, trade_id DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, asOf, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent trades: %w", err)
	}
	defer rows.Close()

	return scanRows(rows)
}

const selectColumns = `
		SELECT trade_id, ticker, strategy, tag,
			entry_at, exit_at, entry_price, exit_price,
			quantity, notional, realized_pnl, realized_return_pct,
			days_held, max_runup_pct, max_drawdown_pct,
			regime_entry, regime_exit, source, trigger_label, created_at
`

// scanRows maps the result set into Row values
func scanRows(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]Row, error) {
	result := make([]Row, 0)

	for rows.Next() {
		var row Row
		var strategy string
		var regimeEntryJSON, regimeExitJSON []byte

		err := rows.Scan(
			&row.TradeID, &row.Ticker, &strategy, &row.Tag,
			&row.EntryAt, &row.ExitAt, &row.EntryPrice, &row.ExitPrice,
			&row.Quantity, &row.Notional, &row.RealizedPnL, &row.RealizedReturnPct,
			&row.DaysHeld, &row.MaxRunupPct, &row.MaxDrawdownPct,
			&regimeEntryJSON, &regimeExitJSON, &row.Source, &row.TriggerLabel, &row.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade log row: %w", err)
		}

		row.Strategy = Strategy(strategy)

		if row.RegimeEntry, err = unmarshalRegime(regimeEntryJSON); err != nil {
			return nil, err
		}
		if row.RegimeExit, err = unmarshalRegime(regimeExitJSON); err != nil {
			return nil, err
		}

		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return result, nil
}

func marshalRegimes(row *Row) ([]byte, []byte, error) {
	var entryJSON, exitJSON []byte
	var err error

	if row.RegimeEntry != nil {
		if entryJSON, err = json.Marshal(row.RegimeEntry); err != nil {
			return nil, nil, fmt.Errorf("failed to marshal entry regime: %w", err)
		}
	}
	if row.RegimeExit != nil {
		if exitJSON, err = json.Marshal(row.RegimeExit); err != nil {
			return nil, nil, fmt.Errorf("failed to marshal exit regime: %w", err)
		}
	}

	return entryJSON, exitJSON, nil
}

func unmarshalRegime(data []byte) (*regime.Snapshot, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var snap regime.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal regime: %w", err)
	}
	return &snap, nil
}
