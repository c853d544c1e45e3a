package calculator

import (
	"math"

	"FuturesSentinel/internal/model"
)

// TrueRange returns max(high-low, |high-prevClose|, |low-prevClose|); the first
// bar has no previous close and uses high-low.
func TrueRange(high, low, close []float64) []float64 {
	n := minLen(high, low, close)
	tr := make([]float64, n)
	for i := 0; i < n; i++ {
		tr[i] = math.Abs(high[i] - low[i])
		if i == 0 {
			continue
		}
		pc := close[i-1]
		tr[i] = math.Max(tr[i], math.Max(math.Abs(high[i]-pc), math.Abs(low[i]-pc)))
	}
	return tr
}

// ATR is the mean true range over exactly period bars; undefined until period
// bars exist.
func ATR(high, low, close []float64, period int) []float64 {
	return rollingMean(TrueRange(high, low, close), period)
}

// SeriesATR computes ATR on a series, failing if high, low or close is absent.
func SeriesATR(s model.PriceSeries, period int) ([]float64, error) {
	if err := s.Require(model.FieldHigh, model.FieldLow, model.FieldClose); err != nil {
		return nil, err
	}
	return ATR(s.Highs(), s.Lows(), s.Closes(), period), nil
}

func minLen(cols ...[]float64) int {
	if len(cols) == 0 {
		return 0
	}
	n := len(cols[0])
	for _, c := range cols[1:] {
		n = min(n, len(c))
	}
	return n
}
