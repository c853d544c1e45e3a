package levels

import (
	"math"
	"slices"

	"FuturesSentinel/internal/model"
)

const (
	DefaultWindow    = 20
	DefaultTolerance = 0.005
)

// Analyzer locates support and resistance levels.
type Analyzer struct {
	Window    int
	Tolerance float64
}

// NewAnalyzer returns an Analyzer with a 20-bar pivot window and a 0.5% merge band.
func NewAnalyzer() *Analyzer {
	return &Analyzer{Window: DefaultWindow, Tolerance: DefaultTolerance}
}

// FindPivots returns raw pivot highs (resistance) and pivot lows (support).
// A bar is a pivot only when it is strictly above (below) every other bar in
// the centred 2*Window+1 neighbourhood, so the last Window bars can never
// qualify. Series shorter than 2*Window yield no pivots.
func (a *Analyzer) FindPivots(s model.PriceSeries) (resistances, supports []float64) {
	w := a.Window
	n := s.Len()
	if w <= 0 || n < 2*w {
		return nil, nil
	}

	for i := w; i < n-w; i++ {
		high, low := s.Bars[i].High, s.Bars[i].Low
		peak, trough := true, true
		for j := i - w; j <= i+w && (peak || trough); j++ {
			if j == i {
				continue
			}
			if s.Bars[j].High >= high {
				peak = false
			}
			if s.Bars[j].Low <= low {
				trough = false
			}
		}
		if peak {
			resistances = append(resistances, high)
		}
		if trough {
			supports = append(supports, low)
		}
	}
	return resistances, supports
}

// MergeLevels folds prices closer than Tolerance (relative to their midpoint)
// into one bucket. Each merge replaces the bucket with the mean of the bucket
// and the incoming price, so the result depends on input order after the
// descending sort. Output is sorted descending.
func (a *Analyzer) MergeLevels(prices []float64) []float64 {
	if len(prices) == 0 {
		return nil
	}
	sorted := slices.Clone(prices)
	slices.SortFunc(sorted, descending)

	merged := make([]float64, 0, len(sorted))
	for _, p := range sorted {
		found := false
		for i, existing := range merged {
			mid := (p + existing) / 2
			if math.Abs(p-existing)/mid < a.Tolerance {
				merged[i] = (existing + p) / 2
				found = true
				break
			}
		}
		if !found {
			merged = append(merged, p)
		}
	}
	slices.SortFunc(merged, descending)
	return merged
}

// PivotLevels runs FindPivots and merges each side.
func (a *Analyzer) PivotLevels(s model.PriceSeries) (resistances, supports []float64) {
	r, sp := a.FindPivots(s)
	return a.MergeLevels(r), a.MergeLevels(sp)
}

var simplifiedWindows = []int{5, 10, 20, 40}

// SimplifiedLevels takes the highest high and lowest low of the last 2*w bars
// for w in 5, 10, 20 and 40, dropping windows the series is too short for.
// Resistances come back descending, supports ascending, each capped at
// numLevels.
func (a *Analyzer) SimplifiedLevels(s model.PriceSeries, numLevels int) (resistances, supports []float64) {
	n := s.Len()
	if n == 0 {
		return nil, nil
	}
	for _, w := range simplifiedWindows {
		if n < 2*w {
			continue
		}
		hi, lo := math.Inf(-1), math.Inf(1)
		for _, b := range s.Bars[n-2*w:] {
			hi = max(hi, b.High)
			lo = min(lo, b.Low)
		}
		if !slices.Contains(resistances, hi) {
			resistances = append(resistances, hi)
		}
		if !slices.Contains(supports, lo) {
			supports = append(supports, lo)
		}
	}
	slices.SortFunc(resistances, descending)
	slices.Sort(supports)
	return head(resistances, numLevels), head(supports, numLevels)
}

func descending(a, b float64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	}
	return 0
}

func head(v []float64, n int) []float64 {
	if n < 0 {
		n = 0
	}
	if len(v) > n {
		return v[:n]
	}
	return v
}
