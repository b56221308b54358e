// Package app provides the top-level application lifecycle. It wires the
// configured adapters, selects the operating mode, and runs it until the
// context is cancelled.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/alanyoungcy/scalpbot/internal/config"
	"github.com/alanyoungcy/scalpbot/internal/domain"
)

// App is the root application object. It owns the configuration, logger, and
// cleanup functions called in reverse order on shutdown.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	result  resultHolder
	closers []func()
}

// New creates an App from the given configuration and logger.
func New(cfg *config.Config, logger *slog.Logger) *App {
	return &App{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "app")),
	}
}

// Run wires the dependencies, dispatches to the configured mode, and blocks
// until that mode returns. On return it releases all acquired resources.
func (a *App) Run(ctx context.Context) error {
	a.logger.InfoContext(ctx, "starting application",
		slog.String("mode", a.cfg.Mode),
		slog.String("symbol", a.cfg.Data.Symbol),
	)

	deps, cleanup, err := Wire(ctx, a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("app: wire dependencies: %w", err)
	}
	a.closers = append(a.closers, cleanup)
	defer a.Close()

	switch strings.ToLower(a.cfg.Mode) {
	case "backtest":
		return a.BacktestMode(ctx, deps)
	case "live":
		return a.LiveMode(ctx, deps)
	default:
		return fmt.Errorf("app: unsupported mode %q", a.cfg.Mode)
	}
}

// Close tears down all resources in reverse registration order. Safe to call
// multiple times.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// resultHolder keeps the most recent backtest result for the API surface.
type resultHolder struct {
	mu     sync.RWMutex
	result domain.BacktestResult
	set    bool
}

func (h *resultHolder) store(r domain.BacktestResult) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.result = r
	h.set = true
}

// LatestResult implements handler.ResultSource.
func (h *resultHolder) LatestResult() (domain.BacktestResult, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.result, h.set
}
