package domain

import (
	"context"
	"io"
	"time"
)

// BarStore archives OHLCV bars. Implementations live outside the simulation
// hot path; the core never calls them directly.
type BarStore interface {
	// InsertBatch upserts bars keyed by (symbol, timeframe, timestamp).
	// Re-inserting an existing bar replaces it.
	InsertBatch(ctx context.Context, symbol, timeframe string, bars []Bar) (int, error)
	// List returns bars for a symbol/timeframe in ascending timestamp order,
	// up to limit rows (all rows when limit <= 0).
	List(ctx context.Context, symbol, timeframe string, limit int) ([]Bar, error)
}

// TradeStore archives closed (and optionally still-open) trade records.
type TradeStore interface {
	// Insert stores a trade under the caller-chosen trade id.
	Insert(ctx context.Context, symbol string, trade Trade) error
	// UpdateExit fills the exit fields of a previously inserted trade.
	// Returns ErrNotFound when the trade id is unknown.
	UpdateExit(ctx context.Context, tradeID string, trade Trade) error
	// ListRecent returns the most recently entered trades, newest first.
	ListRecent(ctx context.Context, limit int) ([]Trade, error)
}

// SignalStore archives emitted signals for later inspection.
type SignalStore interface {
	InsertBatch(ctx context.Context, symbol string, signals []Signal) (int, error)
	ListBySymbol(ctx context.Context, symbol string, since time.Time) ([]Signal, error)
}

// BarCache holds the latest bar per symbol for fast UI reads.
type BarCache interface {
	SetLatest(ctx context.Context, symbol string, bar Bar) error
	GetLatest(ctx context.Context, symbol string) (Bar, error)
	// RecentBars returns up to limit most recent bars, newest first.
	RecentBars(ctx context.Context, symbol string, limit int) ([]Bar, error)
}

// SignalBus is a publish/subscribe fabric for live bars and signals.
type SignalBus interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
}

// BlobWriter stores serialized artifacts (backtest results) in object storage.
type BlobWriter interface {
	Put(ctx context.Context, path string, data io.Reader, contentType string) error
}
