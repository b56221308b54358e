// Package risk implements pre-trade risk checks and position sizing with
// explicit day-scoped state. Rejections are Decision values, never errors.
package risk

import (
	"fmt"
	"sync"

	"github.com/alanyoungcy/scalpbot/internal/domain"
)

// Config holds the risk limits and sizing parameters.
type Config struct {
	MaxRiskPerTrade        float64 // base position fraction of capital
	MaxPositionSize        float64
	MinPositionSize        float64
	MaxDailyLoss           float64 // fraction of start-of-day capital
	MaxConcurrentPositions int
	MaxTradesPerDay        int
	CircuitBreaker         float64 // total capital loss fraction forcing a halt
	EmergencyExitLoss      float64 // daily loss fraction forcing a flatten
	StepDownAfterLoss      bool    // halve sizing while the day is red
}

// DefaultConfig returns the risk defaults.
func DefaultConfig() Config {
	return Config{
		MaxRiskPerTrade:        0.02,
		MaxPositionSize:        50000,
		MinPositionSize:        5000,
		MaxDailyLoss:           0.05,
		MaxConcurrentPositions: 3,
		MaxTradesPerDay:        50,
		CircuitBreaker:         0.20,
		EmergencyExitLoss:      0.10,
		StepDownAfterLoss:      true,
	}
}

func (c Config) validate() error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"max_risk_per_trade", c.MaxRiskPerTrade},
		{"max_daily_loss", c.MaxDailyLoss},
		{"circuit_breaker", c.CircuitBreaker},
		{"emergency_exit_loss", c.EmergencyExitLoss},
	} {
		if f.value <= 0 || f.value > 1 {
			return fmt.Errorf("risk: %s %.3f outside (0,1]: %w", f.name, f.value, domain.ErrInvalidConfig)
		}
	}
	if c.MinPositionSize <= 0 || c.MaxPositionSize < c.MinPositionSize {
		return fmt.Errorf("risk: position size bounds [%.0f,%.0f] invalid: %w",
			c.MinPositionSize, c.MaxPositionSize, domain.ErrInvalidConfig)
	}
	if c.MaxConcurrentPositions <= 0 || c.MaxTradesPerDay <= 0 {
		return fmt.Errorf("risk: position/trade limits must be positive: %w", domain.ErrInvalidConfig)
	}
	return nil
}

// Manager owns the day-scoped RiskState. All mutation goes through
// AddPosition, RemovePosition, and ResetDay; CheckPreTrade is a pure check
// with no side effects. Safe for concurrent use.
type Manager struct {
	cfg Config

	mu    sync.Mutex
	state domain.RiskState
}

// New validates cfg and returns a Manager with zeroed state. Call ResetDay
// before the first trading day.
func New(cfg Config) (*Manager, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Manager{cfg: cfg}, nil
}

// ResetDay clears the day counters. There is no automatic day-boundary
// detection; the owning loop calls this at each simulated market open.
func (m *Manager) ResetDay(startingCapital float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = domain.RiskState{StartCapital: startingCapital}
}

// State returns a copy of the current day counters.
func (m *Manager) State() domain.RiskState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// CheckPreTrade runs the ordered rejection checks and, when all pass,
// computes the suggested position size. The first failing check wins.
func (m *Manager) CheckPreTrade(signal domain.Signal, currentCapital float64) domain.RiskDecision {
	m.mu.Lock()
	defer m.mu.Unlock()

	// 1. Capital adequacy.
	if currentCapital <= m.cfg.MinPositionSize {
		return domain.RiskDecision{Reason: "insufficient capital for minimum position"}
	}

	// 2. Daily loss limit, only binding while the day is red.
	if m.state.PnLToday < 0 && m.dailyLossFraction() >= m.cfg.MaxDailyLoss {
		return domain.RiskDecision{
			Reason: fmt.Sprintf("daily loss limit reached: %.2f%%", m.dailyLossFraction()*100),
		}
	}

	// 3. Concurrent position cap.
	if m.state.OpenPositions >= m.cfg.MaxConcurrentPositions {
		return domain.RiskDecision{
			Reason: fmt.Sprintf("maximum positions limit reached: %d", m.state.OpenPositions),
		}
	}

	// 4. Daily trade cap.
	if m.state.TradesToday >= m.cfg.MaxTradesPerDay {
		return domain.RiskDecision{
			Reason: fmt.Sprintf("daily trades limit reached: %d", m.state.TradesToday),
		}
	}

	// 5. Size, capped then clamped.
	size := m.positionSize(signal, currentCapital)
	if size > m.cfg.MaxPositionSize {
		size = m.cfg.MaxPositionSize
	}
	if size < m.cfg.MinPositionSize {
		return domain.RiskDecision{
			Reason: fmt.Sprintf("calculated position size too small: %.0f", size),
		}
	}

	return domain.RiskDecision{Accepted: true, Reason: "risk check passed", Size: size}
}

// PositionSize computes the capped fractional-capital size: base risk
// fraction, scaled by signal strength (min(2*strength, 1)) and by how the day
// is going (0.5 when red with step-down enabled, 1.2 when green), with the
// combined fraction capped at 1.5x the base.
func (m *Manager) PositionSize(signal domain.Signal, currentCapital float64) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.positionSize(signal, currentCapital)
}

// positionSize requires m.mu to be held.
func (m *Manager) positionSize(signal domain.Signal, currentCapital float64) float64 {
	strengthMult := signal.Strength * 2
	if strengthMult > 1 {
		strengthMult = 1
	}

	perfMult := 1.0
	switch {
	case m.state.PnLToday < 0 && m.cfg.StepDownAfterLoss:
		perfMult = 0.5
	case m.state.PnLToday > 0:
		perfMult = 1.2
	}

	pct := m.cfg.MaxRiskPerTrade * strengthMult * perfMult
	if limit := m.cfg.MaxRiskPerTrade * 1.5; pct > limit {
		pct = limit
	}
	return currentCapital * pct
}

// AddPosition registers an accepted entry, bumping the day trade counter.
func (m *Manager) AddPosition() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.OpenPositions++
	m.state.TradesToday++
}

// RemovePosition unregisters a closed position and books its realized PnL
// into the day counters.
func (m *Manager) RemovePosition(pnl float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.OpenPositions > 0 {
		m.state.OpenPositions--
	}
	m.state.PnLToday += pnl
	if m.state.PnLToday < m.state.MaxDrawdownToday {
		m.state.MaxDrawdownToday = m.state.PnLToday
	}
}

// EmergencyCheck reports whether trading must halt outright: either the
// circuit breaker on total capital loss or the emergency daily loss level
// has tripped. The returned reason is empty when trading may continue.
func (m *Manager) EmergencyCheck(currentCapital float64) (bool, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.StartCapital <= 0 {
		return false, ""
	}
	totalLoss := (m.state.StartCapital - currentCapital) / m.state.StartCapital
	if totalLoss >= m.cfg.CircuitBreaker {
		return true, fmt.Sprintf("circuit breaker: %.2f%% capital loss", totalLoss*100)
	}
	if m.state.PnLToday < 0 && m.dailyLossFraction() >= m.cfg.EmergencyExitLoss {
		return true, fmt.Sprintf("emergency exit: %.2f%% daily loss", m.dailyLossFraction()*100)
	}
	return false, ""
}

// PositionRisk is the assessment MonitorPosition produces for one open
// position.
type PositionRisk struct {
	Status        string // "OK" or "STOP_LOSS"
	EmergencyExit bool
	Alerts        []string
}

// MonitorPosition evaluates an open position against the per-trade risk
// budget. positionValue is the capital committed at entry; holdMinutes is the
// time the position has been open.
func (m *Manager) MonitorPosition(pos domain.Position, currentSpot, positionValue, holdMinutes float64) PositionRisk {
	out := PositionRisk{Status: "OK"}

	var pnlPoints float64
	if pos.OptionType == domain.OptionCE {
		pnlPoints = currentSpot - pos.SpotPrice
	} else {
		pnlPoints = pos.SpotPrice - currentSpot
	}
	pnlAmount := pnlPoints * float64(pos.Quantity)

	if positionValue > 0 && pnlAmount/positionValue <= -m.cfg.MaxRiskPerTrade {
		out.Status = "STOP_LOSS"
		out.EmergencyExit = true
	}
	if holdMinutes > 10 {
		out.Alerts = append(out.Alerts, fmt.Sprintf("position held for %.1f minutes", holdMinutes))
	}
	return out
}

// Report returns a snapshot of limit utilisation.
func (m *Manager) Report() domain.RiskReport {
	m.mu.Lock()
	defer m.mu.Unlock()
	used := 0.0
	if m.state.PnLToday < 0 {
		used = m.dailyLossFraction()
	}
	return domain.RiskReport{
		State:          m.state,
		DailyLossUsed:  used,
		DailyLossLimit: m.cfg.MaxDailyLoss,
		TradesLimit:    m.cfg.MaxTradesPerDay,
		PositionsLimit: m.cfg.MaxConcurrentPositions,
	}
}

// dailyLossFraction requires m.mu to be held.
func (m *Manager) dailyLossFraction() float64 {
	if m.state.StartCapital <= 0 {
		return 0
	}
	if m.state.PnLToday >= 0 {
		return 0
	}
	return -m.state.PnLToday / m.state.StartCapital
}
