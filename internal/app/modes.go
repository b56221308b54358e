package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alanyoungcy/scalpbot/internal/backtest"
	"github.com/alanyoungcy/scalpbot/internal/domain"
	"github.com/alanyoungcy/scalpbot/internal/feed"
	"github.com/alanyoungcy/scalpbot/internal/risk"
	"github.com/alanyoungcy/scalpbot/internal/server"
	"github.com/alanyoungcy/scalpbot/internal/server/handler"
	"github.com/alanyoungcy/scalpbot/internal/server/ws"
	"github.com/alanyoungcy/scalpbot/internal/strategy"
)

// shutdownTimeout bounds graceful HTTP server shutdown.
const shutdownTimeout = 10 * time.Second

// BacktestMode loads or generates the bar series, runs a single backtest
// pass, persists and archives the outcome, and optionally serves the result
// over HTTP until cancelled.
func (a *App) BacktestMode(ctx context.Context, deps *Dependencies) error {
	series, err := a.buildSeries()
	if err != nil {
		return err
	}
	a.logger.InfoContext(ctx, "series loaded",
		slog.String("symbol", series.Symbol),
		slog.Int("bars", series.Len()),
	)

	scalper, err := strategy.New(a.cfg.StrategyConfig())
	if err != nil {
		return fmt.Errorf("app: strategy: %w", err)
	}
	engine, err := backtest.New(a.cfg.BacktestConfig(), scalper, a.cfg.Backtest.InitialCapital)
	if err != nil {
		return fmt.Errorf("app: backtest: %w", err)
	}

	result, err := engine.Run(series)
	if err != nil {
		return fmt.Errorf("app: backtest run: %w", err)
	}
	a.result.store(*result)

	a.logger.InfoContext(ctx, "backtest complete",
		slog.Int("total_trades", result.Summary.TotalTrades),
		slog.Float64("win_rate", result.Summary.WinRate),
		slog.Float64("total_pnl", result.Summary.TotalPnL),
		slog.Float64("final_capital", result.FinalCapital),
		slog.Float64("profit_factor", result.Summary.ProfitFactor),
		slog.Float64("max_drawdown_pct", result.Summary.MaxDrawdownPct),
		slog.Float64("sharpe_ratio", result.Summary.SharpeRatio),
	)

	a.persistBacktest(ctx, deps, series, scalper, result)

	if deps.Archiver != nil {
		path, err := deps.Archiver.ArchiveResult(ctx, *result)
		if err != nil {
			a.logger.WarnContext(ctx, "result archive failed", slog.String("error", err.Error()))
		} else {
			a.logger.InfoContext(ctx, "result archived", slog.String("path", path))
		}
	}

	if a.cfg.Server.Port <= 0 {
		return nil
	}

	// Keep serving the result until interrupted.
	g, ctx := errgroup.WithContext(ctx)
	handlers := server.Handlers{
		Health: handler.NewHealthHandler(a.logger),
		Status: handler.NewStatusHandler(a.cfg.Mode, a.cfg.Data.Symbol, time.Now().UTC(), nil),
		Result: handler.NewResultHandler(&a.result, a.logger),
		Trades: handler.NewTradesHandler(deps.TradeStore, a.logger),
	}
	a.startServer(ctx, g, handlers, nil)
	return g.Wait()
}

// LiveMode runs the tick-driven simulator, publishing bars and signals to the
// bus and exposing the HTTP and WebSocket surface when configured.
func (a *App) LiveMode(ctx context.Context, deps *Dependencies) error {
	gen := feed.NewGenerator(a.generatorConfig())
	scalper, err := strategy.New(a.cfg.StrategyConfig())
	if err != nil {
		return fmt.Errorf("app: strategy: %w", err)
	}

	sim := feed.NewSimulator(gen, scalper, a.cfg.Live.WindowBars, deps.Bus, deps.BarCache, a.logger)
	if a.cfg.Live.PrimeBars > 0 {
		sim.Prime(a.cfg.Live.PrimeBars)
	}

	riskMgr, err := risk.New(a.cfg.RiskConfig())
	if err != nil {
		return fmt.Errorf("app: risk: %w", err)
	}
	riskMgr.ResetDay(a.cfg.Backtest.InitialCapital)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return sim.Run(ctx, a.cfg.Live.Interval())
	})

	if a.cfg.Server.Port > 0 {
		var hub *ws.Hub
		if deps.Bus != nil {
			hub = ws.NewHub(deps.Bus,
				[]string{feed.ChannelBars, feed.ChannelSignals},
				a.logger,
				ws.Config{
					Mode:      a.cfg.Mode,
					Symbol:    a.cfg.Data.Symbol,
					StartedAt: time.Now().UTC(),
				})
			g.Go(func() error {
				return hub.Run(ctx)
			})
		}

		handlers := server.Handlers{
			Health: handler.NewHealthHandler(a.logger),
			Status: handler.NewStatusHandler(a.cfg.Mode, a.cfg.Data.Symbol, time.Now().UTC(), riskMgr),
			Bars:   handler.NewBarsHandler(sim, a.logger),
			Result: handler.NewResultHandler(&a.result, a.logger),
			Trades: handler.NewTradesHandler(deps.TradeStore, a.logger),
		}
		a.startServer(ctx, g, handlers, hub)
	}

	return g.Wait()
}

// startServer registers the HTTP server goroutines on the errgroup: one to
// serve and one to shut down gracefully when the context ends.
func (a *App) startServer(ctx context.Context, g *errgroup.Group, handlers server.Handlers, hub *ws.Hub) {
	srv := server.New(server.Config{Port: a.cfg.Server.Port}, handlers, hub, a.logger)

	g.Go(srv.Start)
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}

// buildSeries loads the CSV series when a path is configured, otherwise
// generates a deterministic synthetic one.
func (a *App) buildSeries() (*domain.Series, error) {
	if a.cfg.Data.Path != "" {
		series, err := feed.LoadCSV(a.cfg.Data.Path, a.cfg.Data.Symbol, a.cfg.Data.Timeframe)
		if err != nil {
			return nil, fmt.Errorf("app: load csv: %w", err)
		}
		return series, nil
	}
	gen := feed.NewGenerator(a.generatorConfig())
	return gen.GenerateDays(a.cfg.Data.Days), nil
}

// generatorConfig derives the synthetic walk parameters from the data section.
func (a *App) generatorConfig() feed.GeneratorConfig {
	gc := feed.DefaultGeneratorConfig(a.cfg.Data.Symbol)
	if a.cfg.Data.Seed != 0 {
		gc.Seed = a.cfg.Data.Seed
	}
	return gc
}

// persistBacktest archives bars, signals, and trades when persistence is
// enabled. Failures are logged and do not fail the run.
func (a *App) persistBacktest(ctx context.Context, deps *Dependencies, series *domain.Series, scalper *strategy.Scalper, result *domain.BacktestResult) {
	if deps.BarStore != nil {
		n, err := deps.BarStore.InsertBatch(ctx, series.Symbol, series.Timeframe, series.Bars)
		if err != nil {
			a.logger.WarnContext(ctx, "bar persistence failed", slog.String("error", err.Error()))
		} else {
			a.logger.InfoContext(ctx, "bars persisted", slog.Int("count", n))
		}
	}

	if deps.SignalStore != nil {
		analysis, err := scalper.GenerateSignals(series)
		if err == nil {
			active := analysis.ActiveSignals()
			n, err := deps.SignalStore.InsertBatch(ctx, series.Symbol, active)
			if err != nil {
				a.logger.WarnContext(ctx, "signal persistence failed", slog.String("error", err.Error()))
			} else {
				a.logger.InfoContext(ctx, "signals persisted", slog.Int("count", n))
			}
		}
	}

	if deps.TradeStore != nil {
		stored := 0
		for _, trade := range result.Trades {
			if err := deps.TradeStore.Insert(ctx, series.Symbol, trade); err != nil {
				a.logger.WarnContext(ctx, "trade persistence failed",
					slog.String("trade_id", trade.ID),
					slog.String("error", err.Error()),
				)
				continue
			}
			stored++
		}
		a.logger.InfoContext(ctx, "trades persisted", slog.Int("count", stored))
	}
}
