package trend

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FuturesSentinel/internal/calculator"
	"FuturesSentinel/internal/model"
)

var nan = math.NaN()

func undefinedRow(close float64) model.IndicatorRow {
	return model.IndicatorRow{
		PriceBar: model.PriceBar{Open: close, High: close, Low: close, Close: close},
		MA5:      nan, MA10: nan, MA20: nan, MA60: nan,
		RSI: nan, RSI6: nan, RSI12: nan, RSI14: nan, RSI24: nan,
		MACDDIF: nan, MACDDEA: nan, MACD: nan,
		BollMid: nan, BollUpper: nan, BollLower: nan,
		KDJK: nan, KDJD: nan, KDJJ: nan, ATR: nan,
	}
}

func risingSeries(n int) model.PriceSeries {
	start := time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)
	bars := make([]model.PriceBar, n)
	for i := range bars {
		c := 100 + float64(i)
		bars[i] = model.PriceBar{Time: start.AddDate(0, 0, i), Open: c - 1, High: c, Low: c - 1, Close: c, Volume: 1000}
	}
	return model.PriceSeries{Symbol: "RB0", Period: model.PeriodDay, Bars: bars}
}

func TestFuse(t *testing.T) {
	tests := []struct {
		ma, macd, kdj model.Direction
		want          model.Trend
	}{
		{model.DirUp, model.DirUp, model.DirDown, model.Uptrend},
		{model.DirUp, model.DirDown, model.DirDown, model.Downtrend},
		{model.DirStrongUp, model.DirUp, model.DirUnknown, model.Uptrend},
		{model.DirStrongDown, model.DirUnknown, model.DirDown, model.Downtrend},
		{model.DirSideways, model.DirUp, model.DirDown, model.Sideways},
		{model.DirUnknown, model.DirUnknown, model.DirUnknown, model.Sideways},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Fuse(tt.ma, tt.macd, tt.kdj), "%s/%s/%s", tt.ma, tt.macd, tt.kdj)
	}
}

func TestGrade(t *testing.T) {
	assert.Equal(t, model.Strong, Grade(model.DirStrongDown, model.BollVerdict{Signal: "偏弱"}))
	assert.Equal(t, model.Strong, Grade(model.DirSideways, model.BollVerdict{Signal: "强势突破"}))
	assert.Equal(t, model.Moderate, Grade(model.DirUp, model.BollVerdict{Signal: "偏强"}))
	assert.Equal(t, model.Moderate, Grade(model.DirDown, model.BollVerdict{}))
	assert.Equal(t, model.Weak, Grade(model.DirSideways, model.BollVerdict{Signal: "弱势跌破"}))
	assert.Equal(t, model.Weak, Grade(model.DirUnknown, model.BollVerdict{}))
}

func TestAnalyzeMA(t *testing.T) {
	r := undefinedRow(110)
	assert.Equal(t, model.MAVerdict{Trend: model.DirUnknown, Signal: "均线计算中"}, analyzeMA(r))

	r.MA5, r.MA10, r.MA20 = 108, 105, 100
	v := analyzeMA(r)
	assert.Equal(t, model.DirUp, v.Trend)
	assert.Equal(t, "短期多头，价格站上5日线", v.Signal)

	r.MA60 = 95
	assert.Equal(t, model.DirStrongUp, analyzeMA(r).Trend)

	r.Close = 90
	r.MA5, r.MA10, r.MA20, r.MA60 = 95, 100, 105, 110
	v = analyzeMA(r)
	assert.Equal(t, model.DirStrongDown, v.Trend)
	assert.Equal(t, "空头排列，价格跌破20日线", v.Signal)

	r.Close = 103
	r.MA5, r.MA10, r.MA20 = 104, 106, 102
	v = analyzeMA(r)
	assert.Equal(t, model.DirSideways, v.Trend)
	assert.Equal(t, "均线纠缠，价格在5日和20日之间", v.Signal)
}

func TestAnalyzeMACD(t *testing.T) {
	latest, prev := undefinedRow(100), undefinedRow(100)
	assert.Equal(t, "MACD计算中", analyzeMACD(latest, prev).Signal)

	latest.MACDDIF, latest.MACDDEA, latest.MACD = 2, 1, 2
	prev.MACDDIF, prev.MACDDEA = 1, 1
	v := analyzeMACD(latest, prev)
	assert.Equal(t, model.DirUp, v.Trend)
	assert.Equal(t, "MACD金叉（看涨）", v.Signal)
	assert.Equal(t, "红柱（多头）", v.Bar)
	assert.Equal(t, "DIF在DEA上方", v.Relation)

	prev.MACDDIF = 1.5
	assert.Equal(t, "DIF上穿DEA持续", analyzeMACD(latest, prev).Signal)

	latest.MACDDIF, latest.MACD = 0.5, -1
	v = analyzeMACD(latest, prev)
	assert.Equal(t, model.DirDown, v.Trend)
	assert.Equal(t, "MACD死叉（看跌）", v.Signal)
	assert.Equal(t, "绿柱（空头）", v.Bar)

	// undefined predecessor reads as a continuation
	prev.MACDDIF, prev.MACDDEA = nan, nan
	assert.Equal(t, "DIF下穿DEA持续", analyzeMACD(latest, prev).Signal)
}

func TestAnalyzeKDJ(t *testing.T) {
	latest, prev := undefinedRow(100), undefinedRow(100)
	assert.Equal(t, "KDJ计算中", analyzeKDJ(latest, prev).Signal)

	latest.KDJK, latest.KDJD, latest.KDJJ = 85, 80, 95
	prev.KDJK, prev.KDJD = 70, 75
	v := analyzeKDJ(latest, prev)
	assert.Equal(t, model.DirUp, v.Trend)
	assert.Equal(t, "KDJ金叉", v.Signal)
	assert.Equal(t, "超买区（>80）", v.Zone)
	assert.Equal(t, 85.0, v.K)

	latest.KDJK, latest.KDJD = 15, 18
	prev.KDJK, prev.KDJD = 10, 20
	v = analyzeKDJ(latest, prev)
	assert.Equal(t, "K线下穿D线持续", v.Signal)
	assert.Equal(t, "超卖区（<20）", v.Zone)
}

func TestAnalyzeBoll(t *testing.T) {
	r := undefinedRow(100)
	assert.Equal(t, "布林带计算中", analyzeBoll(r).Signal)

	r.BollUpper, r.BollMid, r.BollLower = 110, 100, 90
	tests := []struct {
		close    float64
		position string
		signal   string
		pct      float64
	}{
		{112, "突破上轨", "强势突破", 110},
		{85, "跌破下轨", "弱势跌破", -25},
		{105, "上轨和中轨之间", "偏强", 75},
		{100, "中轨和下轨之间", "偏弱", 50},
	}
	for _, tt := range tests {
		r.Close = tt.close
		v := analyzeBoll(r)
		assert.Equal(t, tt.position, v.Position)
		assert.Equal(t, tt.signal, v.Signal)
		assert.InDelta(t, tt.pct, v.PositionPct, 1e-9)
	}

	r.BollUpper, r.BollMid, r.BollLower = 100, 100, 100
	assert.Equal(t, 50.0, analyzeBoll(r).PositionPct)
}

func TestAnalyze_InsufficientData(t *testing.T) {
	frame, err := calculator.AddAllIndicators(risingSeries(19), model.RSIStyleInternational)
	require.NoError(t, err)

	v := Analyze(frame, "日线")
	assert.Equal(t, model.Unknown, v.Trend)
	assert.Equal(t, model.StrengthUnknown, v.Strength)
	assert.Equal(t, "数据不足", v.Analysis)

	assert.Equal(t, "数据不足", Analyze(model.IndicatorFrame{}, "").Analysis)
}

func TestAnalyze_RisingSeries(t *testing.T) {
	frame, err := calculator.AddAllIndicators(risingSeries(30), model.RSIStyleInternational)
	require.NoError(t, err)

	v := Analyze(frame, "日线")
	assert.Equal(t, model.Uptrend, v.Trend)
	assert.Contains(t, []model.Strength{model.Strong, model.Moderate}, v.Strength)
	assert.True(t, v.Components.MA.Trend.IsUp())
	assert.Contains(t, v.Components.MA.Arrangement, "多头")
	assert.Equal(t, model.DirUp, v.Components.MACD.Trend)
	assert.Equal(t, model.DirUp, v.Components.KDJ.Trend)

	latest, _ := frame.Last()
	assert.Greater(t, latest.MACDDIF, latest.MACDDEA)
	// a loss-free series has no defined RSI; anything defined must be overbought
	if v.RSI != nil {
		assert.GreaterOrEqual(t, *v.RSI, 70.0)
	}

	assert.Equal(t, 129.0, v.CurrentPrice)
	assert.InDelta(t, 1.0, v.PriceChange, 1e-9)
	assert.InDelta(t, 100.0/128.0, v.PriceChangePct, 1e-9)
	assert.True(t, strings.HasPrefix(v.Analysis, "【日线趋势分析】\n当前价格: 129.00 (+0.78%)"))
	assert.Contains(t, v.Analysis, "综合趋势: 上升趋势 📈")
	assert.Contains(t, v.Analysis, "均线分析: ")
	assert.Contains(t, v.Analysis, "KDJ分析: ")
	assert.Contains(t, v.Analysis, "布林带分析: ")
}

func TestAnalyze_FallingSeries(t *testing.T) {
	s := risingSeries(40)
	for i := range s.Bars {
		c := 200 - float64(i)
		s.Bars[i].Open, s.Bars[i].High, s.Bars[i].Low, s.Bars[i].Close = c+1, c+1, c, c
	}
	frame, err := calculator.AddAllIndicators(s, model.RSIStyleChina)
	require.NoError(t, err)

	v := Analyze(frame, "60分钟")
	assert.Equal(t, model.Downtrend, v.Trend)
	assert.True(t, v.Components.MA.Trend.IsDown())
	require.NotNil(t, v.RSI)
	assert.InDelta(t, 0.0, *v.RSI, 1e-9)
}

func TestMultiPeriod(t *testing.T) {
	up, err := calculator.AddAllIndicators(risingSeries(30), model.RSIStyleInternational)
	require.NoError(t, err)
	up.Period = model.Period15Min
	day := up
	day.Period = model.PeriodDay

	verdicts := AnalyzeMultiPeriod(map[model.Period]model.IndicatorFrame{
		model.PeriodDay:   day,
		model.Period15Min: up,
		model.Period5Min:  {},
	})
	require.Len(t, verdicts, 2)
	assert.Equal(t, "15分钟", verdicts[0].PeriodLabel)
	assert.Equal(t, "日线", verdicts[1].PeriodLabel)

	summary := MultiPeriodSummary(verdicts)
	assert.Contains(t, summary, "【15分钟趋势分析】")
	assert.Contains(t, summary, "多周期共振: 看涨（2个周期上涨 vs 0个周期下跌）")
	assert.Contains(t, summary, "操作建议: 逢低做多，注意风险控制")

	mixed := []model.TrendVerdict{{Trend: model.Uptrend}, {Trend: model.Downtrend}}
	assert.Contains(t, MultiPeriodSummary(mixed), "多周期分化: 趋势不一致，方向不明")

	bear := []model.TrendVerdict{{Trend: model.Downtrend}, {Trend: model.Sideways}}
	assert.Contains(t, MultiPeriodSummary(bear), "多周期共振: 看跌（1个周期下跌 vs 0个周期上涨）")
}

func TestCenter(t *testing.T) {
	got := center("多周期趋势综合分析", 60)
	assert.Equal(t, 60, len([]rune(got)))
	assert.True(t, strings.HasPrefix(got, strings.Repeat(" ", 25)+"多"))
}
