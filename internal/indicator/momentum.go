package indicator

import (
	"math"

	"github.com/alanyoungcy/scalpbot/internal/domain"
)

// RSI computes the relative strength index over the given period. Average
// gains and losses use exponential smoothing with alpha = 2/(period+1), not a
// simple rolling mean. The first period slots are NaN.
//
// Sentinel: when the average loss is zero the RSI saturates to 100 instead of
// dividing by zero. A flat series therefore reads 100 everywhere it is
// defined.
func RSI(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		out[i] = math.NaN()
	}
	if len(values) < 2 {
		return out
	}

	alpha := 2.0 / (float64(period) + 1)
	var avgGain, avgLoss float64
	for i := 1; i < len(values); i++ {
		delta := values[i] - values[i-1]
		gain, loss := 0.0, 0.0
		if delta > 0 {
			gain = delta
		} else {
			loss = -delta
		}
		if i == 1 {
			avgGain, avgLoss = gain, loss
		} else {
			avgGain = alpha*gain + (1-alpha)*avgGain
			avgLoss = alpha*loss + (1-alpha)*avgLoss
		}
		if i < period {
			continue
		}
		if avgLoss == 0 {
			out[i] = 100
			continue
		}
		rs := avgGain / avgLoss
		out[i] = 100 - 100/(1+rs)
	}
	return out
}

// MACD returns the MACD line (fast EMA - slow EMA), the signal line (EMA of
// the MACD line) and the histogram (line - signal).
func MACD(values []float64, fast, slow, signal int) (line, signalLine, histogram []float64) {
	fastEMA := EMA(values, fast)
	slowEMA := EMA(values, slow)

	line = make([]float64, len(values))
	for i := range values {
		line[i] = fastEMA[i] - slowEMA[i]
	}
	signalLine = EMA(line, signal)

	histogram = make([]float64, len(values))
	for i := range values {
		histogram[i] = line[i] - signalLine[i]
	}
	return line, signalLine, histogram
}

// Stochastic computes the %K and %D oscillator over the bars. %K needs a full
// kPeriod window; %D is an SMA of %K over dPeriod, so its first valid slot is
// kPeriod+dPeriod-2.
//
// Sentinel: a zero high-low range over the window yields %K = 50 (midpoint)
// instead of dividing by zero.
func Stochastic(bars []domain.Bar, kPeriod, dPeriod int) (k, d []float64) {
	n := len(bars)
	k = make([]float64, n)
	for i := range k {
		k[i] = math.NaN()
	}

	for i := kPeriod - 1; i < n; i++ {
		lo, hi := bars[i].Low, bars[i].High
		for j := i - kPeriod + 1; j < i; j++ {
			if bars[j].Low < lo {
				lo = bars[j].Low
			}
			if bars[j].High > hi {
				hi = bars[j].High
			}
		}
		if hi == lo {
			k[i] = 50
			continue
		}
		k[i] = 100 * (bars[i].Close - lo) / (hi - lo)
	}

	d = make([]float64, n)
	for i := range d {
		d[i] = math.NaN()
	}
	for i := kPeriod + dPeriod - 2; i < n; i++ {
		sum := 0.0
		valid := true
		for j := i - dPeriod + 1; j <= i; j++ {
			if math.IsNaN(k[j]) {
				valid = false
				break
			}
			sum += k[j]
		}
		if valid {
			d[i] = sum / float64(dPeriod)
		}
	}
	return k, d
}

// RSISignals emits +1 when the RSI crosses up through the oversold level and
// -1 when it crosses down through the overbought level.
func RSISignals(rsi []float64, oversold, overbought float64) []int {
	out := make([]int, len(rsi))
	for i := 1; i < len(rsi); i++ {
		if anyNaN(rsi[i], rsi[i-1]) {
			continue
		}
		switch {
		case rsi[i] > oversold && rsi[i-1] <= oversold:
			out[i] = 1
		case rsi[i] < overbought && rsi[i-1] >= overbought:
			out[i] = -1
		}
	}
	return out
}

// MACDSignals emits +1 when the MACD line crosses above its signal line and
// -1 when it crosses below.
func MACDSignals(line, signalLine []float64) []int {
	return EMACrossover(line, signalLine)
}
