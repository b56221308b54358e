// Package feed produces OHLCV series for the simulation core: a
// deterministic-seeded synthetic random walk, a CSV loader, and a live
// ticker-driven producer. There is no real market connectivity.
package feed

import (
	"math"
	"math/rand"
	"time"

	"github.com/alanyoungcy/scalpbot/internal/domain"
)

// GeneratorConfig controls the synthetic random walk.
type GeneratorConfig struct {
	Symbol     string
	Seed       int64
	StartDate  time.Time // first (not necessarily trading) day; zero means today minus the requested days
	StartPrice float64
	FloorPrice float64
	BarsPerDay int

	// Per-bar noise, matching the reference walk: close step N(0,10), open
	// offset N(0,5), high/low padding |N(0,15)|.
	StepStdDev    float64
	OpenStdDev    float64
	PadStdDev     float64
	VolumeMin     int64
	VolumeMax     int64
	SessionOpenHH int
	SessionOpenMM int
}

// DefaultGeneratorConfig returns the reference walk parameters: NIFTY-like
// levels, 100 one-minute bars per weekday starting 09:15.
func DefaultGeneratorConfig(symbol string) GeneratorConfig {
	return GeneratorConfig{
		Symbol:        symbol,
		Seed:          42,
		StartPrice:    22000,
		FloorPrice:    21000,
		BarsPerDay:    100,
		StepStdDev:    10,
		OpenStdDev:    5,
		PadStdDev:     15,
		VolumeMin:     10000,
		VolumeMax:     100000,
		SessionOpenHH: 9,
		SessionOpenMM: 15,
	}
}

// Generator is a streaming synthetic data source. The same seed and start
// date always produce the same bars. Not safe for concurrent use.
type Generator struct {
	cfg       GeneratorConfig
	rng       *rand.Rand
	lastClose float64
	next      time.Time
	barInDay  int
}

// NewGenerator creates a Generator positioned at the first bar of the first
// trading day on or after cfg.StartDate.
func NewGenerator(cfg GeneratorConfig) *Generator {
	start := cfg.StartDate
	if start.IsZero() {
		start = time.Now().UTC().AddDate(0, 0, -5)
	}
	g := &Generator{
		cfg:       cfg,
		rng:       rand.New(rand.NewSource(cfg.Seed)),
		lastClose: cfg.StartPrice,
	}
	g.next = g.sessionOpen(start)
	for isWeekend(g.next) {
		g.next = g.sessionOpen(g.next.AddDate(0, 0, 1))
	}
	return g
}

func (g *Generator) sessionOpen(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(),
		g.cfg.SessionOpenHH, g.cfg.SessionOpenMM, 0, 0, day.Location())
}

func isWeekend(t time.Time) bool {
	return t.Weekday() == time.Saturday || t.Weekday() == time.Sunday
}

// Next produces the next bar of the walk, advancing one minute per bar and
// rolling over to the following trading day after BarsPerDay bars.
func (g *Generator) Next() domain.Bar {
	ts := g.next

	step := g.rng.NormFloat64() * g.cfg.StepStdDev
	closePrice := math.Max(g.lastClose+step, g.cfg.FloorPrice)

	openPrice := closePrice + g.rng.NormFloat64()*g.cfg.OpenStdDev
	highPad := math.Abs(g.rng.NormFloat64() * g.cfg.PadStdDev)
	lowPad := math.Abs(g.rng.NormFloat64() * g.cfg.PadStdDev)

	high := math.Max(openPrice, closePrice) + highPad
	low := math.Min(openPrice, closePrice) - lowPad
	volume := g.cfg.VolumeMin
	if span := g.cfg.VolumeMax - g.cfg.VolumeMin; span > 0 {
		volume += g.rng.Int63n(span)
	}

	bar := domain.Bar{
		Timestamp: ts,
		Open:      round2(openPrice),
		High:      round2(high),
		Low:       round2(low),
		Close:     round2(closePrice),
		Volume:    volume,
		VWAP:      round2((high + low + closePrice) / 3),
	}

	g.lastClose = closePrice
	g.barInDay++
	if g.barInDay >= g.cfg.BarsPerDay {
		g.barInDay = 0
		g.next = g.sessionOpen(ts.AddDate(0, 0, 1))
		for isWeekend(g.next) {
			g.next = g.sessionOpen(g.next.AddDate(0, 0, 1))
		}
	} else {
		g.next = ts.Add(time.Minute)
	}
	return bar
}

// GenerateDays produces days full trading sessions as one series.
func (g *Generator) GenerateDays(days int) *domain.Series {
	s := &domain.Series{
		Symbol:    g.cfg.Symbol,
		Timeframe: "1m",
		Bars:      make([]domain.Bar, 0, days*g.cfg.BarsPerDay),
	}
	for d := 0; d < days; d++ {
		for i := 0; i < g.cfg.BarsPerDay; i++ {
			s.Bars = append(s.Bars, g.Next())
		}
	}
	return s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
