package levels

import (
	"fmt"
	"math"

	"FuturesSentinel/internal/model"
)

// FibTrend selects the direction Fibonacci levels are projected from.
type FibTrend string

const (
	FibUp   FibTrend = "up"
	FibDown FibTrend = "down"
	FibAuto FibTrend = "auto"
)

const (
	fibLookback = 60
	fibMinBars  = 10
)

// FibRatios are the standard retracement ratios.
var FibRatios = []float64{0, 0.236, 0.382, 0.5, 0.618, 0.786, 1}

// FibonacciLevels projects the retracement ratios over the high/low range of
// the last 60 bars: up from the low in an uptrend, down from the high
// otherwise. FibAuto compares the last close with the first close of the whole
// series, not of the 60-bar window. Fewer than 10 bars yield nil.
func FibonacciLevels(s model.PriceSeries, trend FibTrend) []model.FibLevel {
	n := s.Len()
	if n < fibMinBars {
		return nil
	}
	if trend == FibAuto {
		trend = FibDown
		if s.Bars[n-1].Close > s.Bars[0].Close {
			trend = FibUp
		}
	}

	high, low := math.Inf(-1), math.Inf(1)
	for _, b := range s.Tail(fibLookback).Bars {
		high = max(high, b.High)
		low = min(low, b.Low)
	}
	diff := high - low

	out := make([]model.FibLevel, 0, len(FibRatios))
	for _, r := range FibRatios {
		price := high - diff*r
		if trend == FibUp {
			price = low + diff*r
		}
		out = append(out, model.FibLevel{Key: fmt.Sprintf("fib_%.1f%%", r*100), Ratio: r, Price: price})
	}
	return out
}
