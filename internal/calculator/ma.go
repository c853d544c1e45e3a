package calculator

import "math"

// MovingAverage computes the simple rolling mean over window bars. Before a full
// window is available the mean is taken over the bars seen so far, as long as
// at least minPeriods of them are defined.
func MovingAverage(values []float64, window, minPeriods int) []float64 {
	out := nanSlice(len(values))
	if window <= 0 {
		return out
	}
	if minPeriods < 1 {
		minPeriods = 1
	}
	for i := range values {
		sum, count := 0.0, 0
		for j := max(0, i-window+1); j <= i; j++ {
			if math.IsNaN(values[j]) {
				continue
			}
			sum += values[j]
			count++
		}
		if count >= minPeriods {
			out[i] = sum / float64(count)
		}
	}
	return out
}

// EMA computes the recursive exponential moving average with alpha = 2/(span+1),
// seeded with the first defined observation.
func EMA(values []float64, span int) []float64 {
	if span <= 0 {
		return nanSlice(len(values))
	}
	return smooth(values, 2/(float64(span)+1))
}

// smooth is the unadjusted exponential recurrence shared by EMA and Wilder-style RSI.
func smooth(values []float64, alpha float64) []float64 {
	out := nanSlice(len(values))
	last := math.NaN()
	for i, v := range values {
		switch {
		case math.IsNaN(v):
			out[i] = last
			continue
		case math.IsNaN(last):
			last = v
		default:
			last = (1-alpha)*last + alpha*v
		}
		out[i] = last
	}
	return out
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
