package indicator

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/scalpbot/internal/domain"
)

func TestEMASeedsAtFirstSample(t *testing.T) {
	// alpha = 2/(3+1) = 0.5
	got := EMA([]float64{1, 2, 3}, 3)
	require.Len(t, got, 3)
	assert.InDelta(t, 1.0, got[0], 1e-12)
	assert.InDelta(t, 1.5, got[1], 1e-12)
	assert.InDelta(t, 2.25, got[2], 1e-12)
}

func TestEMAEmptyInput(t *testing.T) {
	assert.Empty(t, EMA(nil, 5))
}

func TestEMAFlatSeriesStaysFlat(t *testing.T) {
	got := EMA([]float64{7, 7, 7, 7}, 2)
	for i, v := range got {
		assert.InDelta(t, 7.0, v, 1e-12, "index %d", i)
	}
}

func TestSMAWindow(t *testing.T) {
	got := SMA([]float64{1, 2, 3, 4}, 2)
	require.Len(t, got, 4)
	assert.True(t, math.IsNaN(got[0]))
	assert.InDelta(t, 1.5, got[1], 1e-12)
	assert.InDelta(t, 2.5, got[2], 1e-12)
	assert.InDelta(t, 3.5, got[3], 1e-12)
}

func TestSMALeadingNaNCount(t *testing.T) {
	got := SMA([]float64{1, 2, 3, 4, 5, 6}, 4)
	for i := 0; i < 3; i++ {
		assert.True(t, math.IsNaN(got[i]), "index %d should be NaN", i)
	}
	for i := 3; i < 6; i++ {
		assert.False(t, math.IsNaN(got[i]), "index %d should be defined", i)
	}
}

func TestVWAPCumulative(t *testing.T) {
	ts := time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)
	bars := []domain.Bar{
		{Timestamp: ts, Open: 10, High: 10, Low: 10, Close: 10, Volume: 100},
		{Timestamp: ts.Add(time.Minute), Open: 20, High: 20, Low: 20, Close: 20, Volume: 100},
	}
	got := VWAP(bars)
	require.Len(t, got, 2)
	assert.InDelta(t, 10.0, got[0], 1e-12)
	// Equal volumes, typical prices 10 and 20.
	assert.InDelta(t, 15.0, got[1], 1e-12)
}

func TestVWAPZeroVolumePrefix(t *testing.T) {
	ts := time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)
	bars := []domain.Bar{
		{Timestamp: ts, Open: 10, High: 10, Low: 10, Close: 10, Volume: 0},
		{Timestamp: ts.Add(time.Minute), Open: 12, High: 12, Low: 12, Close: 12, Volume: 50},
	}
	got := VWAP(bars)
	assert.True(t, math.IsNaN(got[0]))
	assert.InDelta(t, 12.0, got[1], 1e-12)
}

func TestEMACrossoverDirections(t *testing.T) {
	up := EMACrossover([]float64{1, 3}, []float64{2, 2})
	assert.Equal(t, []int{0, 1}, up)

	down := EMACrossover([]float64{3, 1}, []float64{2, 2})
	assert.Equal(t, []int{0, -1}, down)

	none := EMACrossover([]float64{3, 4}, []float64{2, 2})
	assert.Equal(t, []int{0, 0}, none)
}

func TestEMACrossoverNaNYieldsZero(t *testing.T) {
	got := EMACrossover([]float64{math.NaN(), 3}, []float64{2, 2})
	assert.Equal(t, []int{0, 0}, got)
}
