package calculator

import (
	"fmt"
	"math"
)

// RSIMethod selects how average gain and loss are smoothed.
type RSIMethod string

const (
	// RSIEma smooths with alpha = 1/period, unadjusted.
	RSIEma RSIMethod = "ema"
	// RSISma uses a rolling mean with a one-bar minimum.
	RSISma RSIMethod = "sma"
	// RSIChina uses the bias-corrected exponential mean with center of mass period-1.
	RSIChina RSIMethod = "china"
)

// RSI computes the relative strength index. Bars whose average loss is zero
// are undefined rather than 100.
func RSI(closes []float64, period int, method RSIMethod) ([]float64, error) {
	n := len(closes)
	if period <= 0 {
		return nanSlice(n), nil
	}

	gains := make([]float64, n)
	losses := make([]float64, n)
	for i := 1; i < n; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i] = change
		} else if change < 0 {
			losses[i] = -change // make positive
		}
	}

	var avgGain, avgLoss []float64
	switch method {
	case RSIEma:
		avgGain = smooth(gains, 1/float64(period))
		avgLoss = smooth(losses, 1/float64(period))
	case RSISma:
		avgGain = MovingAverage(gains, period, 1)
		avgLoss = MovingAverage(losses, period, 1)
	case RSIChina:
		avgGain = adjustedMean(gains, 1/float64(period))
		avgLoss = adjustedMean(losses, 1/float64(period))
	default:
		return nil, fmt.Errorf("unsupported rsi method: %q", method)
	}

	out := nanSlice(n)
	for i := range out {
		if avgLoss[i] == 0 || math.IsNaN(avgLoss[i]) || math.IsNaN(avgGain[i]) {
			continue
		}
		rs := avgGain[i] / avgLoss[i]
		out[i] = 100.0 - 100.0/(1.0+rs)
	}
	return out, nil
}

// adjustedMean is the bias-corrected exponential mean: every past value is
// weighted by (1-alpha)^age and the sum is divided by the sum of weights.
func adjustedMean(values []float64, alpha float64) []float64 {
	out := nanSlice(len(values))
	decay := 1 - alpha
	num, den := 0.0, 0.0
	for i, v := range values {
		num = v + decay*num
		den = 1 + decay*den
		out[i] = num / den
	}
	return out
}
