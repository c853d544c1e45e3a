package collector

import (
	"context"
	"math"
	"strings"
	"sync/atomic"
	"time"

	"FuturesSentinel/internal/model"
)

// MockFetcher returns controllable data for development and testing.
type MockFetcher struct {
	Price float64
	// Bars overrides generated data per period.
	Bars map[model.Period][]model.PriceBar
	// Errs forces an error per period.
	Errs map[model.Period]error
	// Missing is copied onto every returned series.
	Missing model.Field
	// End is the time of the newest generated bar; zero means now.
	End time.Time

	calls atomic.Int64
}

func (m *MockFetcher) Name() string { return "mock" }

// Calls reports how many times FetchBars ran.
func (m *MockFetcher) Calls() int64 { return m.calls.Load() }

func (m *MockFetcher) FetchBars(ctx context.Context, symbol string, period model.Period, days int) (model.PriceSeries, error) {
	m.calls.Add(1)
	out := model.PriceSeries{Symbol: strings.ToUpper(symbol), Period: period, Missing: m.Missing, FetchedAt: time.Now()}
	if err := ctx.Err(); err != nil {
		return out, err
	}
	if err := m.Errs[period]; err != nil {
		return out, err
	}
	if bars, ok := m.Bars[period]; ok {
		out.Bars = append([]model.PriceBar(nil), bars...)
		return out, nil
	}

	step, ok := periodStep[period]
	if !ok {
		return out, ErrUnsupportedPeriod
	}
	end := m.End
	if end.IsZero() {
		end = time.Now().Truncate(step)
	}
	price := m.Price
	if price <= 0 {
		price = 3500
	}
	out.Bars = GenerateBars(price, BarLimit(period, days), step, end)
	return out, nil
}

var periodStep = map[model.Period]time.Duration{
	model.Period5Min:  5 * time.Minute,
	model.Period15Min: 15 * time.Minute,
	model.Period60Min: time.Hour,
	model.PeriodDay:   24 * time.Hour,
}

// GenerateBars builds count deterministic bars ending at end: a slow drift
// with a sine swing, so every indicator and most pattern rules get exercised.
func GenerateBars(basePrice float64, count int, step time.Duration, end time.Time) []model.PriceBar {
	bars := make([]model.PriceBar, max(count, 0))
	prev := basePrice
	for i := range bars {
		p := basePrice * (1 + float64(i-count/2)*0.001 + 0.02*math.Sin(float64(i)/6))
		open := prev
		hi := max(open, p) * 1.004
		lo := min(open, p) * 0.996
		bars[i] = model.PriceBar{
			Time:   end.Add(-time.Duration(count-1-i) * step),
			Open:   open,
			High:   hi,
			Low:    lo,
			Close:  p,
			Volume: 100000 + float64(i%7)*5000,
		}
		prev = p
	}
	return bars
}
