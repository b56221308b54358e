package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alanyoungcy/scalpbot/internal/domain"
)

// SignalStore implements domain.SignalStore using PostgreSQL.
type SignalStore struct {
	pool *pgxpool.Pool
}

// NewSignalStore creates a SignalStore backed by the given connection pool.
func NewSignalStore(pool *pgxpool.Pool) *SignalStore {
	return &SignalStore{pool: pool}
}

// InsertBatch stores a batch of signals and returns the number inserted.
func (s *SignalStore) InsertBatch(ctx context.Context, symbol string, signals []domain.Signal) (int, error) {
	if len(signals) == 0 {
		return 0, nil
	}

	const query = `
		INSERT INTO signals (signal_id, symbol, signal_type, ts, price, strength)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (signal_id) DO NOTHING`

	batch := &pgx.Batch{}
	for _, sig := range signals {
		batch.Queue(query, uuid.NewString(), symbol, sig.Type, sig.Timestamp, sig.Price, sig.Strength)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	inserted := 0
	for range signals {
		tag, err := results.Exec()
		if err != nil {
			return inserted, fmt.Errorf("postgres: insert signals for %s: %w", symbol, err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

// ListBySymbol returns signals for a symbol at or after the given time,
// oldest first.
func (s *SignalStore) ListBySymbol(ctx context.Context, symbol string, since time.Time) ([]domain.Signal, error) {
	const query = `
		SELECT signal_type, ts, price, strength
		FROM signals
		WHERE symbol = $1 AND ts >= $2
		ORDER BY ts ASC`

	rows, err := s.pool.Query(ctx, query, symbol, since)
	if err != nil {
		return nil, fmt.Errorf("postgres: list signals for %s: %w", symbol, err)
	}
	defer rows.Close()

	var signals []domain.Signal
	for rows.Next() {
		var sig domain.Signal
		if err := rows.Scan(&sig.Type, &sig.Timestamp, &sig.Price, &sig.Strength); err != nil {
			return nil, fmt.Errorf("postgres: scan signal: %w", err)
		}
		signals = append(signals, sig)
	}
	return signals, rows.Err()
}
