package indicator

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/scalpbot/internal/domain"
)

func TestRSILookbackIsNaN(t *testing.T) {
	got := RSI([]float64{1, 2, 3, 4, 5}, 3)
	require.Len(t, got, 5)
	for i := 0; i < 3; i++ {
		assert.True(t, math.IsNaN(got[i]), "index %d should be NaN", i)
	}
}

func TestRSISaturatesOnPureGains(t *testing.T) {
	got := RSI([]float64{1, 2, 3, 4, 5, 6}, 3)
	for i := 3; i < len(got); i++ {
		assert.InDelta(t, 100.0, got[i], 1e-12, "index %d", i)
	}
}

func TestRSIZeroOnPureLosses(t *testing.T) {
	got := RSI([]float64{6, 5, 4, 3, 2, 1}, 3)
	for i := 3; i < len(got); i++ {
		assert.InDelta(t, 0.0, got[i], 1e-12, "index %d", i)
	}
}

func TestRSIMixedStaysInRange(t *testing.T) {
	values := []float64{100, 102, 101, 104, 103, 106, 104, 107}
	got := RSI(values, 3)
	for i := 3; i < len(got); i++ {
		assert.Greater(t, got[i], 0.0)
		assert.Less(t, got[i], 100.0)
	}
}

func TestMACDHistogramIdentity(t *testing.T) {
	values := []float64{10, 11, 13, 12, 14, 16, 15, 17, 18, 16}
	line, signal, hist := MACD(values, 3, 6, 4)
	require.Len(t, line, len(values))
	require.Len(t, signal, len(values))
	require.Len(t, hist, len(values))
	for i := range values {
		assert.InDelta(t, line[i]-signal[i], hist[i], 1e-12, "index %d", i)
	}
	// Both EMAs seed at the first sample, so the line starts at zero.
	assert.InDelta(t, 0.0, line[0], 1e-12)
}

func TestStochasticZeroRangeMidpoint(t *testing.T) {
	ts := time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)
	bars := make([]domain.Bar, 5)
	for i := range bars {
		bars[i] = domain.Bar{
			Timestamp: ts.Add(time.Duration(i) * time.Minute),
			Open:      100, High: 100, Low: 100, Close: 100, Volume: 1000,
		}
	}
	k, d := Stochastic(bars, 3, 2)
	assert.True(t, math.IsNaN(k[0]))
	assert.True(t, math.IsNaN(k[1]))
	for i := 2; i < 5; i++ {
		assert.InDelta(t, 50.0, k[i], 1e-12, "k index %d", i)
	}
	for i := 3; i < 5; i++ {
		assert.InDelta(t, 50.0, d[i], 1e-12, "d index %d", i)
	}
}

func TestStochasticCloseAtWindowHigh(t *testing.T) {
	ts := time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)
	bars := make([]domain.Bar, 4)
	for i := range bars {
		c := 10.0 + float64(i)
		bars[i] = domain.Bar{
			Timestamp: ts.Add(time.Duration(i) * time.Minute),
			Open:      c - 0.5, High: c, Low: c - 1, Close: c, Volume: 1000,
		}
	}
	k, _ := Stochastic(bars, 3, 2)
	// Close equals the highest high of every full window.
	assert.InDelta(t, 100.0, k[2], 1e-12)
	assert.InDelta(t, 100.0, k[3], 1e-12)
}

func TestRSISignalsCrossings(t *testing.T) {
	rsi := []float64{25, 35, 40, 75, 65}
	got := RSISignals(rsi, 30, 70)
	assert.Equal(t, 1, got[1])  // up through oversold
	assert.Equal(t, 0, got[2])  // already above, no fresh cross
	assert.Equal(t, 0, got[3])  // rising through overbought is not a signal
	assert.Equal(t, -1, got[4]) // down through overbought
}
