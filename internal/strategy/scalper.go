// Package strategy implements the rule-based ITM scalping signal engine. It
// scores six boolean entry conditions per direction on every bar and emits a
// discrete signal with a confidence fraction when enough conditions hold.
package strategy

import (
	"fmt"
	"math"
	"time"

	"github.com/alanyoungcy/scalpbot/internal/domain"
	"github.com/alanyoungcy/scalpbot/internal/indicator"
)

// totalConditions is the number of boolean sub-conditions scored per
// direction; strength = met/totalConditions.
const totalConditions = 6

// Analysis is a series decorated with indicator columns and one signal per
// bar, all aligned 1:1 by index.
type Analysis struct {
	Series *domain.Series

	EMAFast     []float64
	EMASlow     []float64
	RSI         []float64
	VWAP        []float64
	VolumeAvg   []float64
	VolumeRatio []float64
	MACDLine    []float64
	MACDSignal  []float64
	MACDHist    []float64
	StochK      []float64
	StochD      []float64

	Signals []domain.Signal
}

// ActiveSignals returns the signals with a non-NONE type, in bar order.
func (a *Analysis) ActiveSignals() []domain.Signal {
	var out []domain.Signal
	for _, s := range a.Signals {
		if s.Active() {
			out = append(out, s)
		}
	}
	return out
}

// Scalper evaluates the ITM scalping entry rules over an OHLCV series. It is
// stateless after construction: GenerateSignals is a pure function of its
// input, so the same series and config always produce identical output.
type Scalper struct {
	cfg Config

	sessionOpen  int // minutes since midnight, warm-up margin applied
	sessionClose int // minutes since midnight, cool-down margin applied
}

// New validates cfg and returns a Scalper. All configuration errors surface
// here, never inside the per-bar loop.
func New(cfg Config) (*Scalper, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	start, _ := parseClock(cfg.MarketStart)
	end, _ := parseClock(cfg.MarketEnd)
	return &Scalper{
		cfg:          cfg,
		sessionOpen:  start + cfg.AvoidFirstMinutes,
		sessionClose: end - cfg.AvoidLastMinutes,
	}, nil
}

// Config returns the strategy configuration in use.
func (sc *Scalper) Config() Config { return sc.cfg }

// inSession reports whether a bar timestamp falls inside the tradeable part
// of the session. Both bounds are inclusive.
func (sc *Scalper) inSession(ts time.Time) bool {
	m := ts.Hour()*60 + ts.Minute()
	return m >= sc.sessionOpen && m <= sc.sessionClose
}

// GenerateSignals computes all indicator columns and scores every bar.
// The input must hold at least Config.MinBars bars, otherwise
// domain.ErrInsufficientData is returned before any computation.
func (sc *Scalper) GenerateSignals(series *domain.Series) (*Analysis, error) {
	if series.Len() < sc.cfg.MinBars() {
		return nil, fmt.Errorf("strategy: need at least %d bars, got %d: %w",
			sc.cfg.MinBars(), series.Len(), domain.ErrInsufficientData)
	}

	closes := series.Closes()
	volumes := series.Volumes()

	a := &Analysis{
		Series:  series,
		EMAFast: indicator.EMA(closes, sc.cfg.EMAFast),
		EMASlow: indicator.EMA(closes, sc.cfg.EMASlow),
		RSI:     indicator.RSI(closes, sc.cfg.RSIPeriod),
		VWAP:    indicator.VWAP(series.Bars),
		Signals: make([]domain.Signal, series.Len()),
	}
	a.MACDLine, a.MACDSignal, a.MACDHist = indicator.MACD(closes, sc.cfg.MACDFast, sc.cfg.MACDSlow, sc.cfg.MACDSignal)
	a.StochK, a.StochD = indicator.Stochastic(series.Bars, sc.cfg.StochK, sc.cfg.StochD)

	a.VolumeAvg = indicator.SMA(volumes, sc.cfg.VolumePeriod)
	a.VolumeRatio = make([]float64, series.Len())
	for i := range volumes {
		a.VolumeRatio[i] = volumes[i] / a.VolumeAvg[i] // NaN propagates before the window fills
	}

	for i, b := range series.Bars {
		a.Signals[i] = domain.Signal{Timestamp: b.Timestamp, Price: b.Close, Type: domain.SignalNone}
	}

	// Crossover checks need a previous bar, so scoring starts at index 1.
	for i := 1; i < series.Len(); i++ {
		bar := series.Bars[i]
		if !sc.inSession(bar.Timestamp) {
			continue
		}

		// Bullish first, bearish second. When both directions qualify on the
		// same bar the bearish assignment wins, replicating the sequential
		// last-write-wins ordering of the rule set.
		if strength := sc.scoreBullish(a, i); strength >= sc.cfg.MinConfidence {
			a.Signals[i].Type = domain.SignalBuyCE
			a.Signals[i].Strength = strength
		}
		if strength := sc.scoreBearish(a, i); strength >= sc.cfg.MinConfidence {
			a.Signals[i].Type = domain.SignalBuyPE
			a.Signals[i].Strength = strength
		}
	}

	return a, nil
}

// scoreBullish counts the six CE entry conditions at bar i and returns the
// met fraction. Only values at or before i are consulted.
func (sc *Scalper) scoreBullish(a *Analysis, i int) float64 {
	bars := a.Series.Bars
	met := 0

	// 1. Trend filter: close above the running VWAP.
	if !math.IsNaN(a.VWAP[i]) && bars[i].Close > a.VWAP[i] {
		met++
	}
	// 2. Momentum: fast EMA above slow EMA.
	if a.EMAFast[i] > a.EMASlow[i] {
		met++
	}
	// 3. Fresh crossover on this bar.
	if a.EMAFast[i] > a.EMASlow[i] && a.EMAFast[i-1] <= a.EMASlow[i-1] {
		met++
	}
	// 4. RSI inside the healthy-momentum band.
	if !math.IsNaN(a.RSI[i]) && a.RSI[i] >= sc.cfg.RSIBuyMin && a.RSI[i] <= sc.cfg.RSIBuyMax {
		met++
	}
	// 5. Volume expansion against the trailing average.
	if !math.IsNaN(a.VolumeRatio[i]) && a.VolumeRatio[i] >= sc.cfg.VolumeMultiplier {
		met++
	}
	// 6. Strong green candle.
	if bars[i].Bullish() && bars[i].Close > bars[i-1].Close {
		met++
	}

	return float64(met) / totalConditions
}

// scoreBearish mirrors scoreBullish with inverted comparisons and the PE RSI
// band.
func (sc *Scalper) scoreBearish(a *Analysis, i int) float64 {
	bars := a.Series.Bars
	met := 0

	if !math.IsNaN(a.VWAP[i]) && bars[i].Close < a.VWAP[i] {
		met++
	}
	if a.EMAFast[i] < a.EMASlow[i] {
		met++
	}
	if a.EMAFast[i] < a.EMASlow[i] && a.EMAFast[i-1] >= a.EMASlow[i-1] {
		met++
	}
	if !math.IsNaN(a.RSI[i]) && a.RSI[i] >= sc.cfg.RSISellMin && a.RSI[i] <= sc.cfg.RSISellMax {
		met++
	}
	if !math.IsNaN(a.VolumeRatio[i]) && a.VolumeRatio[i] >= sc.cfg.VolumeMultiplier {
		met++
	}
	if bars[i].Close < bars[i].Open && bars[i].Close < bars[i-1].Close {
		met++
	}

	return float64(met) / totalConditions
}
