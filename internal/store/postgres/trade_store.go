package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alanyoungcy/scalpbot/internal/domain"
)

// TradeStore implements domain.TradeStore using PostgreSQL.
type TradeStore struct {
	pool *pgxpool.Pool
}

// NewTradeStore creates a TradeStore backed by the given connection pool.
func NewTradeStore(pool *pgxpool.Pool) *TradeStore {
	return &TradeStore{pool: pool}
}

// Insert stores a trade under its caller-chosen trade id.
func (s *TradeStore) Insert(ctx context.Context, symbol string, t domain.Trade) error {
	const query = `
		INSERT INTO trades (
			trade_id, symbol, signal_type, option_type, strike, spot_price,
			entry_time, entry_premium, quantity, signal_strength, commission, status,
			exit_time, exit_premium, exit_reason, pnl, pnl_points, hold_time_minutes
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18
		)`

	_, err := s.pool.Exec(ctx, query,
		t.ID, symbol, t.SignalType, t.OptionType, t.Strike, t.SpotPrice,
		t.EntryTime, t.EntryPremium, t.Quantity, t.SignalStrength, t.Commission, t.Status,
		nullableTime(t.ExitTime), t.ExitPremium, nullableString(string(t.ExitReason)),
		t.PnL, t.PnLPoints, t.HoldTimeMinutes,
	)
	if err != nil {
		return fmt.Errorf("postgres: insert trade %s: %w", t.ID, err)
	}
	return nil
}

// UpdateExit fills the exit fields of a previously inserted trade.
func (s *TradeStore) UpdateExit(ctx context.Context, tradeID string, t domain.Trade) error {
	const query = `
		UPDATE trades SET
			status = $2, exit_time = $3, exit_premium = $4, exit_reason = $5,
			pnl = $6, pnl_points = $7, hold_time_minutes = $8
		WHERE trade_id = $1`

	tag, err := s.pool.Exec(ctx, query,
		tradeID, t.Status, t.ExitTime, t.ExitPremium, string(t.ExitReason),
		t.PnL, t.PnLPoints, t.HoldTimeMinutes,
	)
	if err != nil {
		return fmt.Errorf("postgres: update trade %s: %w", tradeID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("postgres: update trade %s: %w", tradeID, domain.ErrNotFound)
	}
	return nil
}

// ListRecent returns the most recently entered trades, newest first.
func (s *TradeStore) ListRecent(ctx context.Context, limit int) ([]domain.Trade, error) {
	if limit <= 0 {
		limit = 100
	}
	const query = `
		SELECT trade_id, signal_type, option_type, strike, spot_price,
			entry_time, entry_premium, quantity, signal_strength, commission, status,
			COALESCE(exit_time, '0001-01-01 00:00:00+00'::timestamptz),
			COALESCE(exit_premium, 0), COALESCE(exit_reason, ''),
			pnl, pnl_points, hold_time_minutes
		FROM trades
		ORDER BY entry_time DESC
		LIMIT $1`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: list trades: %w", err)
	}
	defer rows.Close()

	var trades []domain.Trade
	for rows.Next() {
		var t domain.Trade
		var exitReason string
		if err := rows.Scan(
			&t.ID, &t.SignalType, &t.OptionType, &t.Strike, &t.SpotPrice,
			&t.EntryTime, &t.EntryPremium, &t.Quantity, &t.SignalStrength, &t.Commission, &t.Status,
			&t.ExitTime, &t.ExitPremium, &exitReason,
			&t.PnL, &t.PnLPoints, &t.HoldTimeMinutes,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan trade: %w", err)
		}
		t.ExitReason = domain.ExitReason(exitReason)
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
