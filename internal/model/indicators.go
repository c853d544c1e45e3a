package model

// RSIStyle selects the RSI parameter set of AddAllIndicators.
type RSIStyle string

const (
	RSIStyleInternational RSIStyle = "international"
	RSIStyleChina         RSIStyle = "china"
)

// IndicatorRow is one bar annotated with its indicator values.
// Fields that are not yet defined hold NaN.
type IndicatorRow struct {
	PriceBar

	MA5  float64
	MA10 float64
	MA20 float64
	MA60 float64

	// RSI is the headline value: RSI14 (ema) for the international style,
	// RSI12 for the china style.
	RSI   float64
	RSI6  float64
	RSI12 float64
	RSI14 float64
	RSI24 float64

	MACDDIF float64
	MACDDEA float64
	MACD    float64 // histogram x2

	BollMid   float64
	BollUpper float64
	BollLower float64

	KDJK float64
	KDJD float64
	KDJJ float64

	ATR float64
}

// IndicatorFrame is a PriceSeries with per-bar indicator annotations.
type IndicatorFrame struct {
	Symbol string
	Period Period
	Style  RSIStyle
	Rows   []IndicatorRow
}

// Len returns the number of rows.
func (f IndicatorFrame) Len() int { return len(f.Rows) }

// Last returns the most recent row.
func (f IndicatorFrame) Last() (IndicatorRow, bool) {
	if len(f.Rows) == 0 {
		return IndicatorRow{}, false
	}
	return f.Rows[len(f.Rows)-1], true
}

// LastTwo returns the latest row and its predecessor. With a single row the
// predecessor is the row itself.
func (f IndicatorFrame) LastTwo() (latest, prev IndicatorRow, ok bool) {
	n := len(f.Rows)
	if n == 0 {
		return IndicatorRow{}, IndicatorRow{}, false
	}
	latest = f.Rows[n-1]
	prev = latest
	if n > 1 {
		prev = f.Rows[n-2]
	}
	return latest, prev, true
}

// Series strips the annotations back to the raw bars.
func (f IndicatorFrame) Series() PriceSeries {
	bars := make([]PriceBar, len(f.Rows))
	for i, r := range f.Rows {
		bars[i] = r.PriceBar
	}
	return PriceSeries{Symbol: f.Symbol, Period: f.Period, Bars: bars}
}
