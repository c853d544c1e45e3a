package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"FuturesSentinel/internal/analysis"
	"FuturesSentinel/internal/model"
)

// chartBars caps the bars drawn per period.
const chartBars = 300

// RenderChart writes an HTML page with one K-line chart per period, each
// overlaid with MA5/10/20 and the Bollinger envelope. The daily chart also
// carries the nearest resistance and support.
func RenderChart(w io.Writer, rep *analysis.Report) error {
	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("%s %s K线", rep.Symbol, rep.Name)

	n := 0
	for _, p := range model.DefaultPeriods {
		f, ok := rep.Frames[p]
		if !ok || f.Len() == 0 {
			continue
		}
		var lv *model.LevelReport
		if p == model.PeriodDay {
			lv = &rep.Levels
		}
		page.AddCharts(klineChart(rep.Symbol, f, lv))
		n++
	}
	if n == 0 {
		return fmt.Errorf("render chart %s: %w", rep.Symbol, model.ErrEmptySeries)
	}
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render chart %s: %w", rep.Symbol, err)
	}
	return nil
}

func klineChart(symbol string, f model.IndicatorFrame, lv *model.LevelReport) *charts.Kline {
	rows := f.Rows[max(0, len(f.Rows)-chartBars):]
	layout := "01-02 15:04"
	if f.Period == model.PeriodDay {
		layout = "2006-01-02"
	}

	xAxis := make([]string, len(rows))
	candles := make([]opts.KlineData, len(rows))
	ma5 := make([]opts.LineData, len(rows))
	ma10 := make([]opts.LineData, len(rows))
	ma20 := make([]opts.LineData, len(rows))
	upper := make([]opts.LineData, len(rows))
	mid := make([]opts.LineData, len(rows))
	lower := make([]opts.LineData, len(rows))
	for i, r := range rows {
		xAxis[i] = r.Time.Format(layout)
		candles[i] = opts.KlineData{Value: [4]float64{r.Open, r.Close, r.Low, r.High}}
		ma5[i] = lineValue(r.MA5)
		ma10[i] = lineValue(r.MA10)
		ma20[i] = lineValue(r.MA20)
		upper[i] = lineValue(r.BollUpper)
		mid[i] = lineValue(r.BollMid)
		lower[i] = lineValue(r.BollLower)
	}

	kline := charts.NewKLine()
	kline.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "1400px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s %s", symbol, f.Period.Label()),
			Subtitle: "K线 • MA 5/10/20 • BOLL 20/2",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside", XAxisIndex: []int{0}, Start: 50, End: 100}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", XAxisIndex: []int{0}, Start: 50, End: 100}),
	)
	kline.SetXAxis(xAxis).AddSeries("K线", candles)

	overlay := charts.NewLine()
	overlay.SetXAxis(xAxis).
		AddSeries("MA5", ma5, charts.WithLineStyleOpts(opts.LineStyle{Color: "#ff9500", Width: 1})).
		AddSeries("MA10", ma10, charts.WithLineStyleOpts(opts.LineStyle{Color: "#af52de", Width: 1})).
		AddSeries("MA20", ma20, charts.WithLineStyleOpts(opts.LineStyle{Color: "#007aff", Width: 1})).
		AddSeries("BOLL上轨", upper, charts.WithLineStyleOpts(opts.LineStyle{Color: "#8e8e93", Width: 1, Type: "dashed"})).
		AddSeries("BOLL中轨", mid, charts.WithLineStyleOpts(opts.LineStyle{Color: "#8e8e93", Width: 1})).
		AddSeries("BOLL下轨", lower, charts.WithLineStyleOpts(opts.LineStyle{Color: "#8e8e93", Width: 1, Type: "dashed"}))

	if lv != nil {
		if len(lv.Resistances) > 0 {
			overlay.AddSeries("R1", flat(len(rows), lv.Resistances[0].Price),
				charts.WithLineStyleOpts(opts.LineStyle{Color: "#ef4444", Width: 1, Type: "dotted"}))
		}
		if len(lv.Supports) > 0 {
			overlay.AddSeries("S1", flat(len(rows), lv.Supports[0].Price),
				charts.WithLineStyleOpts(opts.LineStyle{Color: "#14b8a6", Width: 1, Type: "dotted"}))
		}
	}
	kline.Overlap(overlay)
	return kline
}

// lineValue renders undefined indicator values as gaps.
func lineValue(v float64) opts.LineData {
	if !model.IsDefined(v) {
		return opts.LineData{Value: "-"}
	}
	return opts.LineData{Value: v}
}

func flat(n int, price float64) []opts.LineData {
	out := make([]opts.LineData, n)
	for i := range out {
		out[i] = opts.LineData{Value: price}
	}
	return out
}
