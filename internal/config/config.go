// Package config defines the top-level configuration for scalpbot and
// provides validation helpers.
package config

import (
	"fmt"
	"time"

	"github.com/alanyoungcy/scalpbot/internal/backtest"
	"github.com/alanyoungcy/scalpbot/internal/risk"
	"github.com/alanyoungcy/scalpbot/internal/strategy"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by SCALPBOT_* environment
// variables.
type Config struct {
	Mode     string `toml:"mode"` // "backtest" or "live"
	LogLevel string `toml:"log_level"`

	Data     DataConfig     `toml:"data"`
	Strategy StrategyConfig `toml:"strategy"`
	Risk     RiskConfig     `toml:"risk"`
	Backtest BacktestConfig `toml:"backtest"`
	Live     LiveConfig     `toml:"live"`
	Postgres PostgresConfig `toml:"postgres"`
	Redis    RedisConfig    `toml:"redis"`
	S3       S3Config       `toml:"s3"`
	Server   ServerConfig   `toml:"server"`
}

// DataConfig selects the input series: a CSV file when Path is set, otherwise
// the seeded synthetic generator.
type DataConfig struct {
	Symbol    string `toml:"symbol"`
	Timeframe string `toml:"timeframe"`
	Path      string `toml:"path"`
	Days      int    `toml:"days"`
	Seed      int64  `toml:"seed"`
}

// StrategyConfig holds the signal-engine tunables.
type StrategyConfig struct {
	EMAFast           int     `toml:"ema_fast"`
	EMASlow           int     `toml:"ema_slow"`
	RSIPeriod         int     `toml:"rsi_period"`
	RSIBuyMin         float64 `toml:"rsi_buy_min"`
	RSIBuyMax         float64 `toml:"rsi_buy_max"`
	RSISellMin        float64 `toml:"rsi_sell_min"`
	RSISellMax        float64 `toml:"rsi_sell_max"`
	VolumeMultiplier  float64 `toml:"volume_multiplier"`
	VolumePeriod      int     `toml:"volume_period"`
	MarketStart       string  `toml:"market_start"`
	MarketEnd         string  `toml:"market_end"`
	AvoidFirstMinutes int     `toml:"avoid_first_minutes"`
	AvoidLastMinutes  int     `toml:"avoid_last_minutes"`
	MinConfidence     float64 `toml:"min_confidence"`
}

// RiskConfig holds the risk-manager tunables.
type RiskConfig struct {
	MaxRiskPerTrade        float64 `toml:"max_risk_per_trade"`
	MaxPositionSize        float64 `toml:"max_position_size"`
	MinPositionSize        float64 `toml:"min_position_size"`
	MaxDailyLoss           float64 `toml:"max_daily_loss"`
	MaxConcurrentPositions int     `toml:"max_concurrent_positions"`
	MaxTradesPerDay        int     `toml:"max_trades_per_day"`
	CircuitBreaker         float64 `toml:"circuit_breaker"`
	EmergencyExitLoss      float64 `toml:"emergency_exit_loss"`
	StepDownAfterLoss      bool    `toml:"step_down_after_loss"`
}

// BacktestConfig holds the trade-simulation tunables.
type BacktestConfig struct {
	InitialCapital        float64 `toml:"initial_capital"`
	PositionSizePerTrade  float64 `toml:"position_size_per_trade"`
	MaxPositions          int     `toml:"max_positions"`
	CommissionPerTrade    float64 `toml:"commission_per_trade"`
	SlippagePoints        float64 `toml:"slippage_points"`
	OptionMultiplier      int     `toml:"option_multiplier"`
	PremiumFactor         float64 `toml:"premium_factor"`
	StrikeOffset          float64 `toml:"strike_offset"`
	ForceExitMinutes      float64 `toml:"force_exit_minutes"`
	StopLossPoints        float64 `toml:"stop_loss_points"`
	ProfitTarget1         float64 `toml:"profit_target_1"`
	ProfitTarget2         float64 `toml:"profit_target_2"`
	ReverseSignalStrength float64 `toml:"reverse_signal_strength"`
}

// LiveConfig holds the live-simulation loop parameters.
type LiveConfig struct {
	IntervalMS int `toml:"interval_ms"`
	WindowBars int `toml:"window_bars"`
	PrimeBars  int `toml:"prime_bars"`
}

// Interval returns the tick interval as a duration.
func (c LiveConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMS) * time.Millisecond
}

// PostgresConfig holds connection parameters for the archive store. An empty
// DSN with an empty Host disables persistence.
type PostgresConfig struct {
	DSN           string `toml:"dsn"`
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	Database      string `toml:"database"`
	User          string `toml:"user"`
	Password      string `toml:"password"`
	SSLMode       string `toml:"ssl_mode"`
	PoolMaxConns  int    `toml:"pool_max_conns"`
	PoolMinConns  int    `toml:"pool_min_conns"`
	RunMigrations bool   `toml:"run_migrations"`
}

// Enabled reports whether a database target is configured.
func (c PostgresConfig) Enabled() bool { return c.DSN != "" || c.Host != "" }

// RedisConfig holds connection parameters for the live bus and bar cache.
// An empty Addr disables Redis.
type RedisConfig struct {
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// Enabled reports whether a Redis target is configured.
func (c RedisConfig) Enabled() bool { return c.Addr != "" }

// S3Config holds object-storage parameters for archiving backtest results.
// An empty Bucket disables archiving.
type S3Config struct {
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	Bucket         string `toml:"bucket"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	UseSSL         bool   `toml:"use_ssl"`
	ForcePathStyle bool   `toml:"force_path_style"`
}

// Enabled reports whether an object-storage target is configured.
func (c S3Config) Enabled() bool { return c.Bucket != "" }

// ServerConfig holds the HTTP/WebSocket surface parameters. Port 0 disables
// the server.
type ServerConfig struct {
	Port int `toml:"port"`
}

// Defaults returns the built-in configuration, matching the reference
// strategy, risk, and simulation parameters.
func Defaults() Config {
	sc := strategy.DefaultConfig()
	rc := risk.DefaultConfig()
	bc := backtest.DefaultConfig()
	return Config{
		Mode:     "backtest",
		LogLevel: "info",
		Data: DataConfig{
			Symbol:    "NIFTY",
			Timeframe: "1m",
			Days:      10,
			Seed:      42,
		},
		Strategy: StrategyConfig{
			EMAFast:           sc.EMAFast,
			EMASlow:           sc.EMASlow,
			RSIPeriod:         sc.RSIPeriod,
			RSIBuyMin:         sc.RSIBuyMin,
			RSIBuyMax:         sc.RSIBuyMax,
			RSISellMin:        sc.RSISellMin,
			RSISellMax:        sc.RSISellMax,
			VolumeMultiplier:  sc.VolumeMultiplier,
			VolumePeriod:      sc.VolumePeriod,
			MarketStart:       sc.MarketStart,
			MarketEnd:         sc.MarketEnd,
			AvoidFirstMinutes: sc.AvoidFirstMinutes,
			AvoidLastMinutes:  sc.AvoidLastMinutes,
			MinConfidence:     sc.MinConfidence,
		},
		Risk: RiskConfig{
			MaxRiskPerTrade:        rc.MaxRiskPerTrade,
			MaxPositionSize:        rc.MaxPositionSize,
			MinPositionSize:        rc.MinPositionSize,
			MaxDailyLoss:           rc.MaxDailyLoss,
			MaxConcurrentPositions: rc.MaxConcurrentPositions,
			MaxTradesPerDay:        rc.MaxTradesPerDay,
			CircuitBreaker:         rc.CircuitBreaker,
			EmergencyExitLoss:      rc.EmergencyExitLoss,
			StepDownAfterLoss:      rc.StepDownAfterLoss,
		},
		Backtest: BacktestConfig{
			InitialCapital:        100000,
			PositionSizePerTrade:  bc.PositionSizePerTrade,
			MaxPositions:          bc.MaxPositions,
			CommissionPerTrade:    bc.CommissionPerTrade,
			SlippagePoints:        bc.SlippagePoints,
			OptionMultiplier:      bc.OptionMultiplier,
			PremiumFactor:         bc.PremiumFactor,
			StrikeOffset:          bc.StrikeOffset,
			ForceExitMinutes:      bc.ForceExitMinutes,
			StopLossPoints:        bc.StopLossPoints,
			ProfitTarget1:         bc.ProfitTarget1,
			ProfitTarget2:         bc.ProfitTarget2,
			ReverseSignalStrength: bc.ReverseSignalStrength,
		},
		Live: LiveConfig{
			IntervalMS: 1000,
			WindowBars: 120,
			PrimeBars:  100,
		},
		Postgres: PostgresConfig{
			Port:         5432,
			SSLMode:      "disable",
			PoolMaxConns: 4,
			PoolMinConns: 1,
		},
		Redis: RedisConfig{
			PoolSize:   8,
			MaxRetries: 3,
		},
		S3: S3Config{
			Region: "us-east-1",
			UseSSL: true,
		},
		Server: ServerConfig{},
	}
}

// StrategyConfig converts the TOML section into the strategy package config.
func (c *Config) StrategyConfig() strategy.Config {
	return strategy.Config{
		EMAFast:           c.Strategy.EMAFast,
		EMASlow:           c.Strategy.EMASlow,
		RSIPeriod:         c.Strategy.RSIPeriod,
		RSIBuyMin:         c.Strategy.RSIBuyMin,
		RSIBuyMax:         c.Strategy.RSIBuyMax,
		RSISellMin:        c.Strategy.RSISellMin,
		RSISellMax:        c.Strategy.RSISellMax,
		VolumeMultiplier:  c.Strategy.VolumeMultiplier,
		VolumePeriod:      c.Strategy.VolumePeriod,
		MACDFast:          strategy.DefaultConfig().MACDFast,
		MACDSlow:          strategy.DefaultConfig().MACDSlow,
		MACDSignal:        strategy.DefaultConfig().MACDSignal,
		StochK:            strategy.DefaultConfig().StochK,
		StochD:            strategy.DefaultConfig().StochD,
		MarketStart:       c.Strategy.MarketStart,
		MarketEnd:         c.Strategy.MarketEnd,
		AvoidFirstMinutes: c.Strategy.AvoidFirstMinutes,
		AvoidLastMinutes:  c.Strategy.AvoidLastMinutes,
		MinConfidence:     c.Strategy.MinConfidence,
	}
}

// RiskConfig converts the TOML section into the risk package config.
func (c *Config) RiskConfig() risk.Config {
	return risk.Config{
		MaxRiskPerTrade:        c.Risk.MaxRiskPerTrade,
		MaxPositionSize:        c.Risk.MaxPositionSize,
		MinPositionSize:        c.Risk.MinPositionSize,
		MaxDailyLoss:           c.Risk.MaxDailyLoss,
		MaxConcurrentPositions: c.Risk.MaxConcurrentPositions,
		MaxTradesPerDay:        c.Risk.MaxTradesPerDay,
		CircuitBreaker:         c.Risk.CircuitBreaker,
		EmergencyExitLoss:      c.Risk.EmergencyExitLoss,
		StepDownAfterLoss:      c.Risk.StepDownAfterLoss,
	}
}

// BacktestConfig converts the TOML section into the backtest package config.
func (c *Config) BacktestConfig() backtest.Config {
	return backtest.Config{
		PositionSizePerTrade:  c.Backtest.PositionSizePerTrade,
		MaxPositions:          c.Backtest.MaxPositions,
		CommissionPerTrade:    c.Backtest.CommissionPerTrade,
		SlippagePoints:        c.Backtest.SlippagePoints,
		OptionMultiplier:      c.Backtest.OptionMultiplier,
		PremiumFactor:         c.Backtest.PremiumFactor,
		StrikeOffset:          c.Backtest.StrikeOffset,
		ForceExitMinutes:      c.Backtest.ForceExitMinutes,
		StopLossPoints:        c.Backtest.StopLossPoints,
		ProfitTarget1:         c.Backtest.ProfitTarget1,
		ProfitTarget2:         c.Backtest.ProfitTarget2,
		ReverseSignalStrength: c.Backtest.ReverseSignalStrength,
	}
}

// Validate checks the orchestration-level settings. The strategy, risk, and
// backtest sections are validated by their own constructors.
func (c *Config) Validate() error {
	switch c.Mode {
	case "backtest", "live":
	default:
		return fmt.Errorf("config: unsupported mode %q", c.Mode)
	}
	if c.Data.Symbol == "" {
		return fmt.Errorf("config: data.symbol is required")
	}
	if c.Data.Path == "" && c.Data.Days <= 0 {
		return fmt.Errorf("config: data.days must be positive when no csv path is set")
	}
	if c.Backtest.InitialCapital <= 0 {
		return fmt.Errorf("config: backtest.initial_capital must be positive")
	}
	if c.Mode == "live" {
		if c.Live.IntervalMS <= 0 {
			return fmt.Errorf("config: live.interval_ms must be positive")
		}
		if c.Live.WindowBars <= 0 {
			return fmt.Errorf("config: live.window_bars must be positive")
		}
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d out of range", c.Server.Port)
	}
	return nil
}
