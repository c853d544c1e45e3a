package calculator

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FuturesSentinel/internal/model"
)

func seriesFromCloses(closes ...float64) model.PriceSeries {
	bars := make([]model.PriceBar, len(closes))
	start := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = model.PriceBar{
			Time:   start.AddDate(0, 0, i),
			Open:   c - 0.5,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		}
	}
	return model.PriceSeries{Symbol: "RB0", Period: model.PeriodDay, Bars: bars}
}

func wave(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 3500 + 40*math.Sin(float64(i)/4) + 15*float64(i%2)
	}
	return out
}

func TestMovingAverage_PartialWindow(t *testing.T) {
	ma := MovingAverage([]float64{10, 20, 30}, 5, 1)
	require.Len(t, ma, 3)
	assert.Equal(t, 10.0, ma[0])
	assert.Equal(t, 15.0, ma[1])
	assert.Equal(t, 20.0, ma[2])
}

func TestMovingAverage_MinPeriods(t *testing.T) {
	ma := MovingAverage([]float64{1, 2, 3, 4, 5}, 3, 3)
	assert.True(t, math.IsNaN(ma[0]))
	assert.True(t, math.IsNaN(ma[1]))
	assert.InDelta(t, 2.0, ma[2], 1e-12)
	assert.InDelta(t, 4.0, ma[4], 1e-12)
}

func TestMovingAverage_Empty(t *testing.T) {
	assert.Empty(t, MovingAverage(nil, 5, 1))
	assert.Empty(t, EMA(nil, 5))
	macd := MACD(nil, 12, 26, 9)
	assert.Empty(t, macd.DIF)
}

func TestEMA_SeededWithFirstValue(t *testing.T) {
	ema := EMA([]float64{10, 20, 30}, 3)
	assert.Equal(t, 10.0, ema[0])
	assert.InDelta(t, 15.0, ema[1], 1e-12) // 0.5*10 + 0.5*20
	assert.InDelta(t, 22.5, ema[2], 1e-12) // 0.5*15 + 0.5*30
}

func TestMACD_HistogramScaled(t *testing.T) {
	closes := wave(80)
	res := MACD(closes, 12, 26, 9)
	require.Len(t, res.MACD, 80)
	assert.Equal(t, 0.0, res.DIF[0])
	for i := range closes {
		assert.InDelta(t, res.DIF[i]-res.DEA[i], res.Hist[i], 1e-9)
		assert.InDelta(t, 2*res.Hist[i], res.MACD[i], 1e-9)
	}
}

func TestRSI_BoundsAllMethods(t *testing.T) {
	closes := wave(120)
	for _, m := range []RSIMethod{RSIEma, RSISma, RSIChina} {
		rsi, err := RSI(closes, 14, m)
		require.NoError(t, err)
		assert.True(t, math.IsNaN(rsi[0]), "method %s: first bar has no change", m)
		defined := 0
		for i, v := range rsi {
			if math.IsNaN(v) {
				continue
			}
			defined++
			assert.GreaterOrEqual(t, v, 0.0, "method %s index %d", m, i)
			assert.LessOrEqual(t, v, 100.0, "method %s index %d", m, i)
		}
		assert.Greater(t, defined, 100, "method %s", m)
	}
}

func TestRSI_ZeroLossUndefined(t *testing.T) {
	rsi, err := RSI([]float64{1, 2, 3, 4, 5}, 14, RSIEma)
	require.NoError(t, err)
	for _, v := range rsi {
		assert.True(t, math.IsNaN(v))
	}
}

func TestRSI_AllLossesIsZero(t *testing.T) {
	rsi, err := RSI([]float64{5, 4, 3, 2, 1}, 3, RSISma)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(rsi[0]))
	assert.Equal(t, 0.0, rsi[4])
}

func TestRSI_ChinaMatchesAdjustedMean(t *testing.T) {
	closes := []float64{10, 11, 10, 12}
	rsi, err := RSI(closes, 2, RSIChina)
	require.NoError(t, err)
	// alpha = 1/2: gains 0,1,0,2 losses 0,0,1,0
	// index 2: gain (0 + .5*1 + .25*0)/1.75, loss (1)/1.75 -> rs = .5
	assert.InDelta(t, 100-100/1.5, rsi[2], 1e-9)
}

func TestRSI_UnknownMethod(t *testing.T) {
	_, err := RSI([]float64{1, 2}, 14, RSIMethod("wilder"))
	assert.Error(t, err)
}

func TestBollinger_PopulationStd(t *testing.T) {
	res := Bollinger([]float64{2, 4, 4, 4, 5, 5, 7, 9}, 8, 2, 1)
	assert.Equal(t, 2.0, res.Mid[0])
	assert.Equal(t, 2.0, res.Upper[0])
	assert.Equal(t, 2.0, res.Lower[0])
	// classic population-std example: mean 5, std 2
	assert.InDelta(t, 5.0, res.Mid[7], 1e-12)
	assert.InDelta(t, 9.0, res.Upper[7], 1e-12)
	assert.InDelta(t, 1.0, res.Lower[7], 1e-12)
}

func TestATR_ExactWindow(t *testing.T) {
	high := []float64{10, 12, 13, 12}
	low := []float64{8, 9, 11, 10}
	closes := []float64{9, 11, 12, 11}
	tr := TrueRange(high, low, closes)
	assert.Equal(t, []float64{2, 3, 2, 2}, tr)

	atr := ATR(high, low, closes, 3)
	assert.True(t, math.IsNaN(atr[0]))
	assert.True(t, math.IsNaN(atr[1]))
	assert.InDelta(t, 7.0/3, atr[2], 1e-9)
	assert.InDelta(t, 7.0/3, atr[3], 1e-9)

	short := ATR(high[:2], low[:2], closes[:2], 14)
	assert.True(t, math.IsNaN(short[0]) && math.IsNaN(short[1]))
}

func TestKDJ_SeededFromFifty(t *testing.T) {
	high := make([]float64, 9)
	low := make([]float64, 9)
	closes := make([]float64, 9)
	for i := range high {
		high[i], low[i], closes[i] = 15, 12, 14
	}
	high[3] = 20
	low[5] = 10
	closes[8] = 18 // RSV = (18-10)/(20-10)*100 = 80

	res := KDJ(high, low, closes, 9, 3, 3)
	for i := 0; i < 8; i++ {
		assert.True(t, math.IsNaN(res.K[i]), "index %d", i)
		assert.True(t, math.IsNaN(res.D[i]), "index %d", i)
	}
	assert.InDelta(t, 60.0, res.K[8], 1e-9)
	assert.InDelta(t, 160.0/3, res.D[8], 1e-9)
	assert.InDelta(t, 3*60.0-2*160.0/3, res.J[8], 1e-9)
}

func TestKDJ_ZeroRangeSkipsWithoutAdvancing(t *testing.T) {
	high := []float64{10, 10, 12, 12}
	low := []float64{10, 10, 10, 10}
	closes := []float64{10, 10, 11, 12}
	res := KDJ(high, low, closes, 2, 3, 3)

	assert.True(t, math.IsNaN(res.K[0]))
	assert.True(t, math.IsNaN(res.K[1]), "flat window has zero range")
	// first valid RSV at index 2 = 50, state still at seed
	assert.InDelta(t, 50.0, res.K[2], 1e-9)
	assert.InDelta(t, 50.0, res.D[2], 1e-9)
	// RSV 100 at index 3
	assert.InDelta(t, 50*2.0/3+100.0/3, res.K[3], 1e-9)
}

func TestSeriesKDJ_MissingField(t *testing.T) {
	s := seriesFromCloses(1, 2, 3)
	s.Missing = model.FieldHigh
	_, err := SeriesKDJ(s, 9, 3, 3)
	var mfe *model.MissingFieldError
	require.True(t, errors.As(err, &mfe))
	assert.Equal(t, "high", mfe.Field)

	_, err = SeriesATR(s, 14)
	assert.Error(t, err)
}

func TestAddAllIndicators_MissingClose(t *testing.T) {
	s := seriesFromCloses(1, 2, 3)
	s.Missing = model.FieldClose
	_, err := AddAllIndicators(s, model.RSIStyleInternational)
	var mfe *model.MissingFieldError
	require.ErrorAs(t, err, &mfe)
	assert.Equal(t, "close", mfe.Field)
}

func TestAddAllIndicators_EmptySeries(t *testing.T) {
	frame, err := AddAllIndicators(model.PriceSeries{}, model.RSIStyleInternational)
	require.NoError(t, err)
	assert.Equal(t, 0, frame.Len())
}

func TestAddAllIndicators_Idempotent(t *testing.T) {
	s := seriesFromCloses(wave(90)...)
	original := append([]model.PriceBar(nil), s.Bars...)

	a, err := AddAllIndicators(s, model.RSIStyleInternational)
	require.NoError(t, err)
	b, err := AddAllIndicators(s, model.RSIStyleInternational)
	require.NoError(t, err)

	assert.Equal(t, original, s.Bars, "input bars must not change")
	require.Equal(t, a.Len(), b.Len())
	for i := range a.Rows {
		assertSameFloat(t, a.Rows[i].MA20, b.Rows[i].MA20)
		assertSameFloat(t, a.Rows[i].RSI, b.Rows[i].RSI)
		assertSameFloat(t, a.Rows[i].MACD, b.Rows[i].MACD)
		assertSameFloat(t, a.Rows[i].BollUpper, b.Rows[i].BollUpper)
		assertSameFloat(t, a.Rows[i].KDJJ, b.Rows[i].KDJJ)
		assertSameFloat(t, a.Rows[i].ATR, b.Rows[i].ATR)
	}
}

func TestAddAllIndicators_Styles(t *testing.T) {
	s := seriesFromCloses(wave(60)...)

	intl, err := AddAllIndicators(s, model.RSIStyleInternational)
	require.NoError(t, err)
	last, _ := intl.Last()
	assert.True(t, math.IsNaN(last.RSI6))
	assert.False(t, math.IsNaN(last.RSI))

	china, err := AddAllIndicators(s, model.RSIStyleChina)
	require.NoError(t, err)
	last, _ = china.Last()
	assert.Equal(t, last.RSI12, last.RSI)
	assert.False(t, math.IsNaN(last.RSI6))
	assert.False(t, math.IsNaN(last.RSI24))
	assert.False(t, math.IsNaN(last.RSI14))
	assert.Equal(t, model.RSIStyleChina, china.Style)
}

func TestAddAllIndicators_EarlyRows(t *testing.T) {
	frame, err := AddAllIndicators(seriesFromCloses(wave(12)...), model.RSIStyleInternational)
	require.NoError(t, err)
	first := frame.Rows[0]
	assert.Equal(t, first.Close, first.MA60, "ma uses min periods 1")
	assert.True(t, math.IsNaN(first.KDJK))
	assert.True(t, math.IsNaN(first.ATR))
	assert.False(t, math.IsNaN(frame.Rows[8].KDJK))
}

func TestAddAllIndicators_NoHighLowSkipsKDJ(t *testing.T) {
	s := seriesFromCloses(wave(30)...)
	s.Missing = model.FieldHigh | model.FieldLow
	frame, err := AddAllIndicators(s, model.RSIStyleInternational)
	require.NoError(t, err)
	last, _ := frame.Last()
	assert.True(t, math.IsNaN(last.KDJK))
	assert.False(t, math.IsNaN(last.MA20))
}

func TestDetectSignals(t *testing.T) {
	frame := model.IndicatorFrame{Rows: []model.IndicatorRow{
		{MA5: 9, MA20: 10, MACDDIF: 1, MACDDEA: 0.5, KDJK: 40, KDJD: 50, RSI: 50, BollUpper: 110, BollLower: 90,
			PriceBar: model.PriceBar{Close: 100}},
		{MA5: 11, MA20: 10, MACDDIF: 0.4, MACDDEA: 0.5, KDJK: 60, KDJD: 50, RSI: 75, BollUpper: 110, BollLower: 90,
			PriceBar: model.PriceBar{Close: 115}},
	}}
	sig := DetectSignals(frame)
	assert.Equal(t, "金叉（MA5上穿MA20）", sig["ma_cross"])
	assert.Equal(t, "MACD死叉", sig["macd_cross"])
	assert.Equal(t, "KDJ金叉", sig["kdj_cross"])
	assert.Equal(t, "RSI超买 (75.0)", sig["rsi"])
	assert.Equal(t, "突破布林带上轨", sig["boll"])

	assert.Empty(t, DetectSignals(model.IndicatorFrame{}))
}

func assertSameFloat(t *testing.T, a, b float64) {
	t.Helper()
	if math.IsNaN(a) || math.IsNaN(b) {
		assert.True(t, math.IsNaN(a) && math.IsNaN(b))
		return
	}
	assert.Equal(t, a, b)
}
