package calculator

import "math"

// BollResult holds the three Bollinger lines.
type BollResult struct {
	Mid   []float64
	Upper []float64
	Lower []float64
}

// Bollinger computes mid = rolling mean and upper/lower = mid +/- k * rolling
// population standard deviation, with the same minPeriods rule as MovingAverage.
func Bollinger(closes []float64, period int, k float64, minPeriods int) BollResult {
	n := len(closes)
	res := BollResult{Mid: MovingAverage(closes, period, minPeriods), Upper: nanSlice(n), Lower: nanSlice(n)}
	if period <= 0 {
		return res
	}
	for i := range closes {
		mid := res.Mid[i]
		if math.IsNaN(mid) {
			continue
		}
		sq, count := 0.0, 0
		for j := max(0, i-period+1); j <= i; j++ {
			if math.IsNaN(closes[j]) {
				continue
			}
			d := closes[j] - mid
			sq += d * d
			count++
		}
		std := math.Sqrt(sq / float64(count))
		res.Upper[i] = mid + k*std
		res.Lower[i] = mid - k*std
	}
	return res
}
