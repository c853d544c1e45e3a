package calculator

import "github.com/markcheno/go-talib"

// ta-lib leaves the lookback prefix zero-filled; these wrappers mark it undefined.

func rollingMean(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	if period <= 0 || len(values) < period {
		return out
	}
	if period == 1 {
		copy(out, values)
		return out
	}
	sma := talib.Sma(values, period)
	copy(out[period-1:], sma[period-1:])
	return out
}

func rollingMax(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	if period <= 0 || len(values) < period {
		return out
	}
	if period == 1 {
		copy(out, values)
		return out
	}
	hh := talib.Max(values, period)
	copy(out[period-1:], hh[period-1:])
	return out
}

func rollingMin(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	if period <= 0 || len(values) < period {
		return out
	}
	if period == 1 {
		copy(out, values)
		return out
	}
	ll := talib.Min(values, period)
	copy(out[period-1:], ll[period-1:])
	return out
}
