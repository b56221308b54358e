package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGeneratorConfig() GeneratorConfig {
	cfg := DefaultGeneratorConfig("NIFTY")
	cfg.StartDate = time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC) // a Friday
	return cfg
}

func TestGeneratorDeterministic(t *testing.T) {
	a := NewGenerator(testGeneratorConfig()).GenerateDays(2)
	b := NewGenerator(testGeneratorConfig()).GenerateDays(2)
	assert.Equal(t, a.Bars, b.Bars)
}

func TestGeneratorSeedChangesWalk(t *testing.T) {
	cfg := testGeneratorConfig()
	a := NewGenerator(cfg).GenerateDays(1)
	cfg.Seed = 7
	b := NewGenerator(cfg).GenerateDays(1)
	assert.NotEqual(t, a.Bars, b.Bars)
}

func TestGeneratorBarsAreValid(t *testing.T) {
	cfg := testGeneratorConfig()
	series := NewGenerator(cfg).GenerateDays(3)
	require.Equal(t, 3*cfg.BarsPerDay, series.Len())
	require.NoError(t, series.Validate())

	for i, b := range series.Bars {
		assert.GreaterOrEqual(t, b.High, b.Open, "bar %d", i)
		assert.GreaterOrEqual(t, b.High, b.Close, "bar %d", i)
		assert.LessOrEqual(t, b.Low, b.Open, "bar %d", i)
		assert.LessOrEqual(t, b.Low, b.Close, "bar %d", i)
		assert.GreaterOrEqual(t, b.Close, cfg.FloorPrice, "bar %d", i)
		assert.GreaterOrEqual(t, b.Volume, cfg.VolumeMin, "bar %d", i)
		assert.Less(t, b.Volume, cfg.VolumeMax, "bar %d", i)
	}
}

func TestGeneratorSessionClock(t *testing.T) {
	cfg := testGeneratorConfig()
	series := NewGenerator(cfg).GenerateDays(2)

	first := series.Bars[0].Timestamp
	assert.Equal(t, time.Friday, first.Weekday())
	assert.Equal(t, 9, first.Hour())
	assert.Equal(t, 15, first.Minute())

	// One-minute bars within the day.
	assert.Equal(t, time.Minute, series.Bars[1].Timestamp.Sub(first))
	last := series.Bars[cfg.BarsPerDay-1].Timestamp
	assert.Equal(t, first.Day(), last.Day())
}

func TestGeneratorSkipsWeekends(t *testing.T) {
	cfg := testGeneratorConfig()
	series := NewGenerator(cfg).GenerateDays(2)

	// The Friday session rolls over to Monday.
	second := series.Bars[cfg.BarsPerDay].Timestamp
	assert.Equal(t, time.Monday, second.Weekday())
	assert.Equal(t, 9, second.Hour())
	assert.Equal(t, 15, second.Minute())
}

func TestGeneratorDegenerateVolumeBounds(t *testing.T) {
	cfg := testGeneratorConfig()
	cfg.VolumeMin = 5000
	cfg.VolumeMax = 5000

	bar := NewGenerator(cfg).Next()
	assert.Equal(t, int64(5000), bar.Volume)

	cfg.VolumeMax = 0
	bar = NewGenerator(cfg).Next()
	assert.Equal(t, int64(5000), bar.Volume)
}

func TestGeneratorWeekendStartAdvances(t *testing.T) {
	cfg := testGeneratorConfig()
	cfg.StartDate = time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC) // a Saturday
	series := NewGenerator(cfg).GenerateDays(1)
	assert.Equal(t, time.Monday, series.Bars[0].Timestamp.Weekday())
}
