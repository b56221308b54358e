// Package indicator provides pure, stateless technical indicator functions
// over price and OHLCV series. Slots that fall inside an indicator's lookback
// window are NaN; callers must treat NaN as "no value yet".
package indicator

import (
	"math"

	"github.com/alanyoungcy/scalpbot/internal/domain"
)

// EMA computes an exponential moving average with alpha = 2/(period+1),
// seeded at the first sample and defined over the whole input.
func EMA(values []float64, period int) []float64 {
	return EMAWithAlpha(values, 2.0/(float64(period)+1))
}

// EMAWithAlpha computes an exponential moving average with a caller-supplied
// smoothing factor.
func EMAWithAlpha(values []float64, alpha float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// SMA computes a rolling arithmetic mean. The first period-1 slots are NaN.
func SMA(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	var sum float64
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// VWAP computes the cumulative volume-weighted average price from the start
// of the series: cum(typical*volume)/cum(volume). This is a running VWAP, not
// a rolling window. Bars before the first non-zero volume yield NaN.
func VWAP(bars []domain.Bar) []float64 {
	out := make([]float64, len(bars))
	var pvSum, volSum float64
	for i, b := range bars {
		vol := float64(b.Volume)
		pvSum += b.TypicalPrice() * vol
		volSum += vol
		if volSum == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = pvSum / volSum
	}
	return out
}

// EMACrossover emits +1 on the bar where fast crosses above slow, -1 where it
// crosses below, and 0 otherwise. Comparison uses only the current and
// previous samples, so there is no lookahead. NaN inputs yield 0.
func EMACrossover(fast, slow []float64) []int {
	n := len(fast)
	if len(slow) < n {
		n = len(slow)
	}
	out := make([]int, n)
	for i := 1; i < n; i++ {
		if anyNaN(fast[i], fast[i-1], slow[i], slow[i-1]) {
			continue
		}
		switch {
		case fast[i] > slow[i] && fast[i-1] <= slow[i-1]:
			out[i] = 1
		case fast[i] < slow[i] && fast[i-1] >= slow[i-1]:
			out[i] = -1
		}
	}
	return out
}

func anyNaN(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}
