package model

import (
	"math"
	"strings"
	"time"
)

// China is the exchange time zone of every bar timestamp.
var China = time.FixedZone("CST", 8*3600)

// Period identifies the bar interval of a series.
type Period string

const (
	Period5Min  Period = "5min"
	Period15Min Period = "15min"
	Period60Min Period = "60min"
	PeriodDay   Period = "day"
)

// DefaultPeriods is the analysis order used by the orchestrator.
var DefaultPeriods = []Period{Period5Min, Period15Min, Period60Min, PeriodDay}

var periodLabels = map[Period]string{
	Period5Min:  "5分钟",
	Period15Min: "15分钟",
	Period60Min: "60分钟",
	PeriodDay:   "日线",
}

// Label returns the Chinese display name of the period.
func (p Period) Label() string {
	if l, ok := periodLabels[p]; ok {
		return l
	}
	return string(p)
}

// ParsePeriod accepts the canonical keys and the short aliases used by chart clients.
func ParsePeriod(s string) (Period, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "5min", "5m", "5":
		return Period5Min, true
	case "15min", "15m", "15":
		return Period15Min, true
	case "60min", "60m", "1h", "60":
		return Period60Min, true
	case "day", "1d", "daily", "d":
		return PeriodDay, true
	}
	return "", false
}

// Field names one OHLCV column.
type Field uint8

const (
	FieldOpen Field = 1 << iota
	FieldHigh
	FieldLow
	FieldClose
	FieldVolume
)

var fieldNames = map[Field]string{
	FieldOpen:   "open",
	FieldHigh:   "high",
	FieldLow:    "low",
	FieldClose:  "close",
	FieldVolume: "volume",
}

func (f Field) String() string { return fieldNames[f] }

// PriceBar represents a single OHLCV candlestick bar.
type PriceBar struct {
	Time   time.Time `json:"timestamp"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// IsBullish reports close > open.
func (b PriceBar) IsBullish() bool { return b.Close > b.Open }

// IsBearish reports close < open.
func (b PriceBar) IsBearish() bool { return b.Close < b.Open }

// PriceSeries is an ordered run of bars for one symbol and period.
// Missing marks columns the data source did not supply; the zero value means
// every OHLCV column is present.
type PriceSeries struct {
	Symbol    string     `json:"symbol"`
	Period    Period     `json:"period"`
	Bars      []PriceBar `json:"bars"`
	Missing   Field      `json:"missing,omitempty"`
	FetchedAt time.Time  `json:"fetched_at"`
}

// Len returns the number of bars.
func (s PriceSeries) Len() int { return len(s.Bars) }

// Has reports whether every given column is present.
func (s PriceSeries) Has(fields ...Field) bool {
	for _, f := range fields {
		if s.Missing&f != 0 {
			return false
		}
	}
	return true
}

// Require returns a *MissingFieldError for the first absent column.
func (s PriceSeries) Require(fields ...Field) error {
	for _, f := range fields {
		if s.Missing&f != 0 {
			return &MissingFieldError{Field: f.String()}
		}
	}
	return nil
}

// Last returns the most recent bar.
func (s PriceSeries) Last() (PriceBar, bool) {
	if len(s.Bars) == 0 {
		return PriceBar{}, false
	}
	return s.Bars[len(s.Bars)-1], true
}

// Tail returns a series holding at most the n most recent bars.
func (s PriceSeries) Tail(n int) PriceSeries {
	out := s
	n = max(n, 0)
	if n < len(s.Bars) {
		out.Bars = s.Bars[len(s.Bars)-n:]
	}
	return out
}

func (s PriceSeries) Opens() []float64  { return s.column(func(b PriceBar) float64 { return b.Open }) }
func (s PriceSeries) Highs() []float64  { return s.column(func(b PriceBar) float64 { return b.High }) }
func (s PriceSeries) Lows() []float64   { return s.column(func(b PriceBar) float64 { return b.Low }) }
func (s PriceSeries) Closes() []float64 { return s.column(func(b PriceBar) float64 { return b.Close }) }

func (s PriceSeries) column(get func(PriceBar) float64) []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = get(b)
	}
	return out
}

// Undefined is the value of an indicator field that has no value yet.
var Undefined = math.NaN()

// IsDefined reports whether v holds a computed value.
func IsDefined(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Nullable converts an indicator value to a JSON-friendly pointer.
func Nullable(v float64) *float64 {
	if !IsDefined(v) {
		return nil
	}
	return &v
}
