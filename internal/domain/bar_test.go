package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBar(ts time.Time) Bar {
	return Bar{Timestamp: ts, Open: 22000, High: 22010, Low: 21990, Close: 22005, Volume: 15000}
}

func TestBarValidate(t *testing.T) {
	ts := time.Date(2024, 1, 5, 9, 15, 0, 0, time.UTC)

	assert.NoError(t, validBar(ts).Validate())

	cases := []struct {
		name   string
		mutate func(*Bar)
	}{
		{"zero timestamp", func(b *Bar) { b.Timestamp = time.Time{} }},
		{"non-positive price", func(b *Bar) { b.Close = 0 }},
		{"high below open", func(b *Bar) { b.High = b.Open - 1 }},
		{"high below close", func(b *Bar) { b.High = b.Close - 1 }},
		{"low above open", func(b *Bar) { b.Low = b.Open + 1 }},
		{"negative volume", func(b *Bar) { b.Volume = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := validBar(ts)
			tc.mutate(&b)
			assert.Error(t, b.Validate())
		})
	}
}

func TestBarTypicalPrice(t *testing.T) {
	b := validBar(time.Date(2024, 1, 5, 9, 15, 0, 0, time.UTC))
	assert.InDelta(t, (22010.0+21990.0+22005.0)/3, b.TypicalPrice(), 1e-9)
}

func TestSeriesAppendOrdering(t *testing.T) {
	ts := time.Date(2024, 1, 5, 9, 15, 0, 0, time.UTC)
	s := &Series{Symbol: "NIFTY", Timeframe: "1m"}

	require.NoError(t, s.Append(validBar(ts)))
	require.NoError(t, s.Append(validBar(ts.Add(time.Minute))))

	// Equal and earlier timestamps are both rejected.
	assert.ErrorIs(t, s.Append(validBar(ts.Add(time.Minute))), ErrOutOfOrder)
	assert.ErrorIs(t, s.Append(validBar(ts)), ErrOutOfOrder)
	assert.Equal(t, 2, s.Len())
}

func TestSeriesValidateCatchesDisorder(t *testing.T) {
	ts := time.Date(2024, 1, 5, 9, 15, 0, 0, time.UTC)
	s := &Series{
		Symbol: "NIFTY",
		Bars:   []Bar{validBar(ts.Add(time.Minute)), validBar(ts)},
	}
	assert.ErrorIs(t, s.Validate(), ErrOutOfOrder)
}

func TestSeriesTail(t *testing.T) {
	ts := time.Date(2024, 1, 5, 9, 15, 0, 0, time.UTC)
	s := &Series{Symbol: "NIFTY"}
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Append(validBar(ts.Add(time.Duration(i)*time.Minute))))
	}

	tail := s.Tail(2)
	require.Equal(t, 2, tail.Len())
	assert.True(t, tail.Bars[0].Timestamp.Equal(ts.Add(3*time.Minute)))

	// Asking for more bars than exist returns the series itself.
	assert.Same(t, s, s.Tail(10))
}

func TestSeriesColumns(t *testing.T) {
	ts := time.Date(2024, 1, 5, 9, 15, 0, 0, time.UTC)
	s := &Series{Symbol: "NIFTY"}
	for i := 0; i < 3; i++ {
		b := validBar(ts.Add(time.Duration(i) * time.Minute))
		b.Close = 22000 + float64(i)
		b.Volume = int64(1000 * (i + 1))
		require.NoError(t, s.Append(b))
	}
	assert.Equal(t, []float64{22000, 22001, 22002}, s.Closes())
	assert.Equal(t, []float64{1000, 2000, 3000}, s.Volumes())
}
