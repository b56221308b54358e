package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alanyoungcy/scalpbot/internal/domain"
	"github.com/alanyoungcy/scalpbot/internal/strategy"
)

// Pub/sub channels used by the live simulator.
const (
	ChannelBars    = "bars"
	ChannelSignals = "signals"
)

// BarEvent is the JSON payload published on ChannelBars.
type BarEvent struct {
	Symbol    string  `json:"symbol"`
	Timestamp string  `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    int64   `json:"volume"`
	VWAP      float64 `json:"vwap"`
}

// SignalEvent is the JSON payload published on ChannelSignals.
type SignalEvent struct {
	Symbol    string  `json:"symbol"`
	Timestamp string  `json:"timestamp"`
	Price     float64 `json:"price"`
	Type      string  `json:"signal_type"`
	Strength  float64 `json:"strength"`
}

// Simulator drives the "live" mode: it appends one synthetic bar per tick,
// re-runs the scalper over a trailing window, and publishes bars and
// qualifying signals. The signal core stays synchronous; the only
// concurrency is the ticker loop, and Step can be called directly without it
// for deterministic tests.
type Simulator struct {
	gen     *Generator
	scalper *strategy.Scalper
	window  int
	bus     domain.SignalBus // optional
	cache   domain.BarCache  // optional
	logger  *slog.Logger

	mu     sync.Mutex
	series *domain.Series
	last   domain.Signal
}

// NewSimulator creates a Simulator. window caps the number of trailing bars
// the scalper re-evaluates per tick; bus and cache may be nil to disable
// publishing. The series buffer starts empty; call Prime to preload history.
func NewSimulator(gen *Generator, scalper *strategy.Scalper, window int, bus domain.SignalBus, cache domain.BarCache, logger *slog.Logger) *Simulator {
	if window < scalper.Config().MinBars() {
		window = scalper.Config().MinBars()
	}
	return &Simulator{
		gen:     gen,
		scalper: scalper,
		window:  window,
		bus:     bus,
		cache:   cache,
		logger:  logger.With(slog.String("component", "live_simulator")),
		series:  &domain.Series{Symbol: gen.cfg.Symbol, Timeframe: "1m"},
	}
}

// Prime preloads n bars of history so the first real tick already has enough
// lookback for the indicators.
func (s *Simulator) Prime(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < n; i++ {
		s.series.Bars = append(s.series.Bars, s.gen.Next())
	}
}

// Step appends one bar, re-evaluates the trailing window, and publishes the
// results. It returns the new bar and the signal computed for it (NONE while
// the buffer is still shorter than the strategy lookback).
func (s *Simulator) Step(ctx context.Context) (domain.Bar, domain.Signal, error) {
	s.mu.Lock()
	bar := s.gen.Next()
	s.series.Bars = append(s.series.Bars, bar)
	window := s.series.Tail(s.window)
	s.mu.Unlock()

	sig := domain.Signal{Timestamp: bar.Timestamp, Price: bar.Close, Type: domain.SignalNone}
	if window.Len() >= s.scalper.Config().MinBars() {
		analysis, err := s.scalper.GenerateSignals(window)
		if err != nil {
			return bar, sig, fmt.Errorf("feed: live signal pass: %w", err)
		}
		sig = analysis.Signals[window.Len()-1]
	}

	s.mu.Lock()
	s.last = sig
	s.mu.Unlock()

	if err := s.publish(ctx, bar, sig); err != nil {
		// Publishing is best-effort; the simulation itself stays valid.
		s.logger.WarnContext(ctx, "live publish failed", slog.String("error", err.Error()))
	}
	return bar, sig, nil
}

// Run drives Step on a fixed interval until the context is cancelled.
func (s *Simulator) Run(ctx context.Context, interval time.Duration) error {
	s.logger.InfoContext(ctx, "live simulator started",
		slog.String("symbol", s.series.Symbol),
		slog.Duration("interval", interval),
	)
	defer s.logger.Info("live simulator stopped")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, sig, err := s.Step(ctx); err != nil {
				return err
			} else if sig.Active() {
				s.logger.InfoContext(ctx, "live signal",
					slog.String("type", string(sig.Type)),
					slog.Float64("strength", sig.Strength),
					slog.Float64("price", sig.Price),
				)
			}
		}
	}
}

// Snapshot returns a copy of the most recent n bars (newest last) and the
// last computed signal.
func (s *Simulator) Snapshot(n int) ([]domain.Bar, domain.Signal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bars := s.series.Bars
	if n > 0 && len(bars) > n {
		bars = bars[len(bars)-n:]
	}
	out := make([]domain.Bar, len(bars))
	copy(out, bars)
	return out, s.last
}

func (s *Simulator) publish(ctx context.Context, bar domain.Bar, sig domain.Signal) error {
	if s.cache != nil {
		if err := s.cache.SetLatest(ctx, s.series.Symbol, bar); err != nil {
			return err
		}
	}
	if s.bus == nil {
		return nil
	}

	barPayload, err := json.Marshal(BarEvent{
		Symbol:    s.series.Symbol,
		Timestamp: bar.Timestamp.Format(time.RFC3339),
		Open:      bar.Open,
		High:      bar.High,
		Low:       bar.Low,
		Close:     bar.Close,
		Volume:    bar.Volume,
		VWAP:      bar.VWAP,
	})
	if err != nil {
		return err
	}
	if err := s.bus.Publish(ctx, ChannelBars, barPayload); err != nil {
		return err
	}

	if !sig.Active() {
		return nil
	}
	sigPayload, err := json.Marshal(SignalEvent{
		Symbol:    s.series.Symbol,
		Timestamp: sig.Timestamp.Format(time.RFC3339),
		Price:     sig.Price,
		Type:      string(sig.Type),
		Strength:  sig.Strength,
	})
	if err != nil {
		return err
	}
	return s.bus.Publish(ctx, ChannelSignals, sigPayload)
}
