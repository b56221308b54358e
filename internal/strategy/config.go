package strategy

import (
	"fmt"
	"time"

	"github.com/alanyoungcy/scalpbot/internal/domain"
)

// Config holds every tunable of the scalping strategy. All values have
// working defaults via DefaultConfig; out-of-range values are rejected by New
// before any computation happens.
type Config struct {
	EMAFast int
	EMASlow int

	RSIPeriod  int
	RSIBuyMin  float64
	RSIBuyMax  float64
	RSISellMin float64
	RSISellMax float64

	VolumeMultiplier float64
	VolumePeriod     int

	MACDFast   int
	MACDSlow   int
	MACDSignal int

	StochK int
	StochD int

	// Session time filter. MarketStart/MarketEnd are wall-clock times in
	// "15:04" form; bars inside the first AvoidFirstMinutes or last
	// AvoidLastMinutes of the session never produce a signal.
	MarketStart       string
	MarketEnd         string
	AvoidFirstMinutes int
	AvoidLastMinutes  int

	MinConfidence float64
}

// DefaultConfig returns the strategy defaults.
func DefaultConfig() Config {
	return Config{
		EMAFast:           9,
		EMASlow:           21,
		RSIPeriod:         14,
		RSIBuyMin:         45,
		RSIBuyMax:         65,
		RSISellMin:        35,
		RSISellMax:        55,
		VolumeMultiplier:  1.5,
		VolumePeriod:      20,
		MACDFast:          12,
		MACDSlow:          26,
		MACDSignal:        9,
		StochK:            14,
		StochD:            3,
		MarketStart:       "09:15",
		MarketEnd:         "15:30",
		AvoidFirstMinutes: 15,
		AvoidLastMinutes:  15,
		MinConfidence:     0.6,
	}
}

// MinBars returns the shortest input series the strategy will accept.
func (c Config) MinBars() int {
	n := c.EMASlow
	if c.RSIPeriod > n {
		n = c.RSIPeriod
	}
	if c.VolumePeriod > n {
		n = c.VolumePeriod
	}
	return n
}

func (c Config) validate() error {
	for _, p := range []struct {
		name  string
		value int
	}{
		{"ema_fast", c.EMAFast},
		{"ema_slow", c.EMASlow},
		{"rsi_period", c.RSIPeriod},
		{"volume_period", c.VolumePeriod},
		{"macd_fast", c.MACDFast},
		{"macd_slow", c.MACDSlow},
		{"macd_signal", c.MACDSignal},
		{"stoch_k", c.StochK},
		{"stoch_d", c.StochD},
	} {
		if p.value <= 0 {
			return fmt.Errorf("strategy: %s must be positive, got %d: %w", p.name, p.value, domain.ErrInvalidConfig)
		}
	}
	if c.EMAFast >= c.EMASlow {
		return fmt.Errorf("strategy: ema_fast %d must be below ema_slow %d: %w", c.EMAFast, c.EMASlow, domain.ErrInvalidConfig)
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("strategy: min_confidence %.2f outside [0,1]: %w", c.MinConfidence, domain.ErrInvalidConfig)
	}
	if c.VolumeMultiplier <= 0 {
		return fmt.Errorf("strategy: volume_multiplier must be positive: %w", domain.ErrInvalidConfig)
	}
	for _, band := range []struct {
		name     string
		min, max float64
	}{
		{"rsi buy band", c.RSIBuyMin, c.RSIBuyMax},
		{"rsi sell band", c.RSISellMin, c.RSISellMax},
	} {
		if band.min < 0 || band.max > 100 || band.min >= band.max {
			return fmt.Errorf("strategy: %s [%.1f,%.1f] invalid: %w", band.name, band.min, band.max, domain.ErrInvalidConfig)
		}
	}
	if c.AvoidFirstMinutes < 0 || c.AvoidLastMinutes < 0 {
		return fmt.Errorf("strategy: avoid margins must be non-negative: %w", domain.ErrInvalidConfig)
	}
	if _, err := parseClock(c.MarketStart); err != nil {
		return fmt.Errorf("strategy: market_start: %w", err)
	}
	if _, err := parseClock(c.MarketEnd); err != nil {
		return fmt.Errorf("strategy: market_end: %w", err)
	}
	return nil
}

// parseClock converts a "15:04" wall-clock string into minutes since midnight.
func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", s, domain.ErrInvalidConfig)
	}
	return t.Hour()*60 + t.Minute(), nil
}
