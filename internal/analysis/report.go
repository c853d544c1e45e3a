package analysis

import (
	"time"

	"FuturesSentinel/internal/model"
	"FuturesSentinel/internal/trend"
)

// DataSummary describes the bars behind one period.
type DataSummary struct {
	Bars      int       `json:"bars"`
	First     time.Time `json:"first"`
	Last      time.Time `json:"last"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Report is the result of one symbol analysis. Frames carry NaN values and
// are left out of the JSON form.
type Report struct {
	RunID       string                                `json:"run_id"`
	Symbol      string                                `json:"symbol"`
	Name        string                                `json:"name"`
	Started     time.Time                             `json:"started"`
	Frames      map[model.Period]model.IndicatorFrame `json:"-"`
	Trends      []model.TrendVerdict                  `json:"trends"`
	Patterns    map[model.Period][]model.PatternMatch `json:"patterns"`
	Levels      model.LevelReport                     `json:"levels"`
	Signals     map[string]string                     `json:"signals"`
	DataSummary map[model.Period]DataSummary          `json:"data_summary"`
	Elapsed     time.Duration                         `json:"elapsed_ns"`
}

// TrendSummary is the multi-period text block with the resonance line.
func (r *Report) TrendSummary() string {
	return trend.MultiPeriodSummary(r.Trends)
}

// Resonance counts up and down verdicts across periods.
func (r *Report) Resonance() (up, down int) {
	return trend.Resonance(r.Trends)
}

// LatestBar returns the newest bar of the finest period that has data.
func (r *Report) LatestBar() (model.PriceBar, bool) {
	for _, p := range model.DefaultPeriods {
		if f, ok := r.Frames[p]; ok {
			if row, ok := f.Last(); ok {
				return row.PriceBar, true
			}
		}
	}
	for _, f := range r.Frames {
		if row, ok := f.Last(); ok {
			return row.PriceBar, true
		}
	}
	return model.PriceBar{}, false
}

// DayFrame returns the daily indicator frame, if collected.
func (r *Report) DayFrame() (model.IndicatorFrame, bool) {
	f, ok := r.Frames[model.PeriodDay]
	return f, ok
}
