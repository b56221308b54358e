package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/alanyoungcy/scalpbot/internal/domain"
)

// recentBarsMax bounds the per-symbol recent bar list kept in Redis.
const recentBarsMax = 500

// BarCache implements domain.BarCache. The latest bar per symbol lives at
// "bar:latest:{symbol}" as a JSON blob; a rolling history lives in the list
// "bar:recent:{symbol}", newest first, trimmed to recentBarsMax entries.
type BarCache struct {
	rdb *redis.Client
}

// NewBarCache creates a BarCache backed by the given Client.
func NewBarCache(c *Client) *BarCache {
	return &BarCache{rdb: c.Underlying()}
}

func latestKey(symbol string) string {
	return "bar:latest:" + symbol
}

func recentKey(symbol string) string {
	return "bar:recent:" + symbol
}

// SetLatest stores the newest bar for a symbol and prepends it to the
// rolling history.
func (bc *BarCache) SetLatest(ctx context.Context, symbol string, bar domain.Bar) error {
	data, err := json.Marshal(bar)
	if err != nil {
		return fmt.Errorf("redis: marshal bar %s: %w", symbol, err)
	}

	pipe := bc.rdb.Pipeline()
	pipe.Set(ctx, latestKey(symbol), data, 0)
	pipe.LPush(ctx, recentKey(symbol), data)
	pipe.LTrim(ctx, recentKey(symbol), 0, recentBarsMax-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: set latest bar %s: %w", symbol, err)
	}
	return nil
}

// GetLatest returns the newest bar for a symbol. It returns domain.ErrNotFound
// when no bar has been cached.
func (bc *BarCache) GetLatest(ctx context.Context, symbol string) (domain.Bar, error) {
	data, err := bc.rdb.Get(ctx, latestKey(symbol)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Bar{}, domain.ErrNotFound
		}
		return domain.Bar{}, fmt.Errorf("redis: get latest bar %s: %w", symbol, err)
	}

	var bar domain.Bar
	if err := json.Unmarshal(data, &bar); err != nil {
		return domain.Bar{}, fmt.Errorf("redis: unmarshal bar %s: %w", symbol, err)
	}
	return bar, nil
}

// RecentBars returns up to limit cached bars for a symbol, newest first.
func (bc *BarCache) RecentBars(ctx context.Context, symbol string, limit int) ([]domain.Bar, error) {
	if limit <= 0 || limit > recentBarsMax {
		limit = recentBarsMax
	}

	rows, err := bc.rdb.LRange(ctx, recentKey(symbol), 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: recent bars %s: %w", symbol, err)
	}

	bars := make([]domain.Bar, 0, len(rows))
	for _, row := range rows {
		var bar domain.Bar
		if err := json.Unmarshal([]byte(row), &bar); err != nil {
			return nil, fmt.Errorf("redis: unmarshal bar %s: %w", symbol, err)
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

// Compile-time interface check.
var _ domain.BarCache = (*BarCache)(nil)
