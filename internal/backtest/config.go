package backtest

import (
	"fmt"

	"github.com/alanyoungcy/scalpbot/internal/domain"
)

// Config holds the trade-simulation parameters: sizing, transaction costs,
// the synthetic ITM option model, and the exit rules.
type Config struct {
	PositionSizePerTrade float64 // fixed capital per trade
	MaxPositions         int
	CommissionPerTrade   float64 // charged once at entry and once at exit
	SlippagePoints       float64

	// Synthetic ITM option model. Premium = intrinsic + spot*PremiumFactor;
	// the strike sits StrikeOffset points in the money. Intentionally a toy
	// formula, kept as the system contract.
	OptionMultiplier int
	PremiumFactor    float64
	StrikeOffset     float64

	// Exit rules, checked in priority order.
	ForceExitMinutes      float64
	StopLossPoints        float64
	ProfitTarget1         float64
	ProfitTarget2         float64
	ReverseSignalStrength float64
}

// DefaultConfig returns the backtest defaults.
func DefaultConfig() Config {
	return Config{
		PositionSizePerTrade:  10000,
		MaxPositions:          3,
		CommissionPerTrade:    20,
		SlippagePoints:        0.5,
		OptionMultiplier:      75,
		PremiumFactor:         0.02,
		StrikeOffset:          50,
		ForceExitMinutes:      5,
		StopLossPoints:        10,
		ProfitTarget1:         8,
		ProfitTarget2:         15,
		ReverseSignalStrength: 0.7,
	}
}

func (c Config) validate() error {
	if c.PositionSizePerTrade <= 0 {
		return fmt.Errorf("backtest: position_size_per_trade must be positive: %w", domain.ErrInvalidConfig)
	}
	if c.MaxPositions <= 0 {
		return fmt.Errorf("backtest: max_positions must be positive: %w", domain.ErrInvalidConfig)
	}
	if c.CommissionPerTrade < 0 || c.SlippagePoints < 0 {
		return fmt.Errorf("backtest: transaction costs must be non-negative: %w", domain.ErrInvalidConfig)
	}
	if c.OptionMultiplier <= 0 {
		return fmt.Errorf("backtest: option_multiplier must be positive: %w", domain.ErrInvalidConfig)
	}
	if c.PremiumFactor <= 0 || c.PremiumFactor >= 1 {
		return fmt.Errorf("backtest: premium_factor %.3f outside (0,1): %w", c.PremiumFactor, domain.ErrInvalidConfig)
	}
	if c.StrikeOffset <= 0 {
		return fmt.Errorf("backtest: strike_offset must be positive: %w", domain.ErrInvalidConfig)
	}
	if c.ForceExitMinutes <= 0 || c.StopLossPoints <= 0 {
		return fmt.Errorf("backtest: exit thresholds must be positive: %w", domain.ErrInvalidConfig)
	}
	if c.ProfitTarget1 <= 0 || c.ProfitTarget2 <= c.ProfitTarget1 {
		return fmt.Errorf("backtest: profit targets %.1f/%.1f must be positive and ascending: %w",
			c.ProfitTarget1, c.ProfitTarget2, domain.ErrInvalidConfig)
	}
	if c.ReverseSignalStrength <= 0 || c.ReverseSignalStrength > 1 {
		return fmt.Errorf("backtest: reverse_signal_strength %.2f outside (0,1]: %w",
			c.ReverseSignalStrength, domain.ErrInvalidConfig)
	}
	return nil
}
