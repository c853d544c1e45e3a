package calculator

import (
	"math"

	"FuturesSentinel/internal/model"
)

const kdjSeed = 50.0

// KDJResult holds the stochastic K, D and J lines.
type KDJResult struct {
	K []float64
	D []float64
	J []float64
}

// KDJ computes RSV over period bars and folds it into K and D in chronological
// order, starting from K = D = 50. Bars with an undefined RSV (short history or
// zero range) stay undefined and leave the carried K/D untouched.
func KDJ(high, low, close []float64, period, kSmooth, dSmooth int) KDJResult {
	n := minLen(high, low, close)
	res := KDJResult{K: nanSlice(n), D: nanSlice(n), J: nanSlice(n)}
	if kSmooth <= 0 || dSmooth <= 0 {
		return res
	}

	lowest := rollingMin(low[:n], period)
	highest := rollingMax(high[:n], period)

	alphaK := 1 / float64(kSmooth)
	alphaD := 1 / float64(dSmooth)
	lastK, lastD := kdjSeed, kdjSeed

	for i := 0; i < n; i++ {
		rsv := (close[i] - lowest[i]) / (highest[i] - lowest[i]) * 100
		if math.IsNaN(rsv) || math.IsInf(rsv, 0) {
			continue
		}
		k := (1-alphaK)*lastK + alphaK*rsv
		d := (1-alphaD)*lastD + alphaD*k
		res.K[i] = k
		res.D[i] = d
		res.J[i] = 3*k - 2*d
		lastK, lastD = k, d
	}
	return res
}

// SeriesKDJ computes KDJ on a series, failing if high, low or close is absent.
func SeriesKDJ(s model.PriceSeries, period, kSmooth, dSmooth int) (KDJResult, error) {
	if err := s.Require(model.FieldHigh, model.FieldLow, model.FieldClose); err != nil {
		return KDJResult{}, err
	}
	return KDJ(s.Highs(), s.Lows(), s.Closes(), period, kSmooth, dSmooth), nil
}
