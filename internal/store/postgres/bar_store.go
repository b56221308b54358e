package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alanyoungcy/scalpbot/internal/domain"
)

// BarStore implements domain.BarStore using PostgreSQL.
type BarStore struct {
	pool *pgxpool.Pool
}

// NewBarStore creates a BarStore backed by the given connection pool.
func NewBarStore(pool *pgxpool.Pool) *BarStore {
	return &BarStore{pool: pool}
}

// InsertBatch upserts bars efficiently using pgx Batch. Re-inserting a bar for
// an existing (symbol, timeframe, ts) key replaces its values.
func (s *BarStore) InsertBatch(ctx context.Context, symbol, timeframe string, bars []domain.Bar) (int, error) {
	if len(bars) == 0 {
		return 0, nil
	}

	const query = `
		INSERT INTO historical_bars (symbol, timeframe, ts, open, high, low, close, volume, vwap)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (symbol, timeframe, ts) DO UPDATE SET
			open = EXCLUDED.open, high = EXCLUDED.high, low = EXCLUDED.low,
			close = EXCLUDED.close, volume = EXCLUDED.volume, vwap = EXCLUDED.vwap`

	batch := &pgx.Batch{}
	for _, b := range bars {
		batch.Queue(query, symbol, timeframe, b.Timestamp, b.Open, b.High, b.Low, b.Close, b.Volume, b.VWAP)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := range bars {
		if _, err := br.Exec(); err != nil {
			return i, fmt.Errorf("postgres: insert bar batch item %d: %w", i, err)
		}
	}
	return len(bars), nil
}

// List returns bars for a symbol/timeframe in ascending timestamp order.
func (s *BarStore) List(ctx context.Context, symbol, timeframe string, limit int) ([]domain.Bar, error) {
	query := `
		SELECT ts, open, high, low, close, volume, COALESCE(vwap, 0)
		FROM historical_bars
		WHERE symbol = $1 AND timeframe = $2
		ORDER BY ts`
	args := []any{symbol, timeframe}
	if limit > 0 {
		query += " LIMIT $3"
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list bars: %w", err)
	}
	defer rows.Close()

	var bars []domain.Bar
	for rows.Next() {
		var b domain.Bar
		if err := rows.Scan(&b.Timestamp, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume, &b.VWAP); err != nil {
			return nil, fmt.Errorf("postgres: scan bar: %w", err)
		}
		bars = append(bars, b)
	}
	return bars, rows.Err()
}
