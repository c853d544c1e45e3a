package levels

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FuturesSentinel/internal/model"
)

func makeSeries(n int, fn func(i int) model.PriceBar) model.PriceSeries {
	start := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]model.PriceBar, n)
	for i := range bars {
		bars[i] = fn(i)
		bars[i].Time = start.AddDate(0, 0, i)
	}
	return model.PriceSeries{Symbol: "RB0", Period: model.PeriodDay, Bars: bars}
}

// rising has highs 100+i, lows 50+i and closes 75+i.
func rising(n int) model.PriceSeries {
	return makeSeries(n, func(i int) model.PriceBar {
		f := float64(i)
		return model.PriceBar{Open: 75 + f, High: 100 + f, Low: 50 + f, Close: 75 + f}
	})
}

func TestFindPivots_SingleStrictPeak(t *testing.T) {
	s := makeSeries(50, func(i int) model.PriceBar {
		d := math.Abs(float64(i - 25))
		return model.PriceBar{Open: 95, High: 100 - 0.1*d, Low: 90, Close: 95}
	})
	s.Bars[25].High = 110

	a := NewAnalyzer()
	res, sup := a.FindPivots(s)
	assert.Equal(t, []float64{110}, res)
	assert.Empty(t, sup, "flat lows are never strict minima")
}

func TestFindPivots_TiesDisqualify(t *testing.T) {
	s := makeSeries(50, func(i int) model.PriceBar {
		return model.PriceBar{Open: 95, High: 100, Low: 90, Close: 95}
	})
	s.Bars[25].High = 110
	s.Bars[30].High = 110

	res, _ := NewAnalyzer().FindPivots(s)
	assert.Empty(t, res)
}

func TestFindPivots_ShortSeries(t *testing.T) {
	res, sup := NewAnalyzer().FindPivots(rising(39))
	assert.Nil(t, res)
	assert.Nil(t, sup)
}

func TestMergeLevels(t *testing.T) {
	a := NewAnalyzer()
	got := a.MergeLevels([]float64{100, 100.3, 200})
	require.Len(t, got, 2)
	assert.Equal(t, 200.0, got[0])
	assert.InDelta(t, 100.15, got[1], 1e-9)

	// 100.8 and 100.4 merge first; the 100.6 bucket is then too far from 100.
	got = a.MergeLevels([]float64{100, 100.4, 100.8})
	require.Len(t, got, 2)
	assert.InDelta(t, 100.6, got[0], 1e-9)
	assert.Equal(t, 100.0, got[1])

	assert.Nil(t, a.MergeLevels(nil))
}

func TestMergeLevels_DoesNotMutateInput(t *testing.T) {
	in := []float64{1, 3, 2}
	NewAnalyzer().MergeLevels(in)
	assert.Equal(t, []float64{1, 3, 2}, in)
}

func TestPivotLevels(t *testing.T) {
	s := makeSeries(50, func(i int) model.PriceBar {
		return model.PriceBar{Open: 95, High: 100, Low: 90, Close: 95}
	})
	s.Bars[22].Low = 80
	res, sup := NewAnalyzer().PivotLevels(s)
	assert.Empty(t, res)
	assert.Equal(t, []float64{80}, sup)
}

func TestSimplifiedLevels(t *testing.T) {
	a := NewAnalyzer()

	res, sup := a.SimplifiedLevels(rising(100), 3)
	assert.Equal(t, []float64{199}, res)
	assert.Equal(t, []float64{70, 110, 130}, sup)

	res, sup = a.SimplifiedLevels(rising(15), 5)
	assert.Equal(t, []float64{114}, res)
	assert.Equal(t, []float64{55}, sup)

	res, sup = a.SimplifiedLevels(model.PriceSeries{}, 5)
	assert.Nil(t, res)
	assert.Nil(t, sup)
}

func TestFibonacciLevels(t *testing.T) {
	s := rising(12)

	up := FibonacciLevels(s, FibUp)
	require.Len(t, up, 7)
	assert.Equal(t, "fib_0.0%", up[0].Key)
	assert.Equal(t, "fib_23.6%", up[1].Key)
	assert.Equal(t, "fib_100.0%", up[6].Key)
	assert.Equal(t, 50.0, up[0].Price)
	assert.Equal(t, 111.0, up[6].Price)
	assert.InDelta(t, 50+61*0.618, up[4].Price, 1e-9)

	down := FibonacciLevels(s, FibDown)
	assert.Equal(t, 111.0, down[0].Price)
	assert.Equal(t, 50.0, down[6].Price)

	assert.Equal(t, up, FibonacciLevels(s, FibAuto))
	assert.Nil(t, FibonacciLevels(rising(9), FibAuto))
}

func TestFibonacciLevels_AutoUsesWholeSeriesStart(t *testing.T) {
	// The last 60 bars fall, but the final close is still above the very
	// first close, so auto projects upward.
	s := makeSeries(80, func(i int) model.PriceBar {
		c := 250 - float64(i)
		if i == 0 {
			c = 100
		}
		return model.PriceBar{Open: c, High: c + 1, Low: c - 1, Close: c}
	})
	fib := FibonacciLevels(s, FibAuto)
	require.NotEmpty(t, fib)
	assert.Equal(t, 170.0, fib[0].Price, "fib_0.0% sits on the window low in an uptrend")
}

func TestPricePosition(t *testing.T) {
	pos := PricePosition(100, []float64{110, 103, 95}, []float64{90, 98, 101})
	require.NotNil(t, pos.NearestResistance)
	require.NotNil(t, pos.NearestSupport)
	assert.Equal(t, 103.0, *pos.NearestResistance)
	assert.Equal(t, 98.0, *pos.NearestSupport)
	assert.InDelta(t, 3.0, *pos.ResistanceDistance, 1e-9)
	assert.InDelta(t, 2.0, *pos.SupportDistance, 1e-9)
	assert.Equal(t, model.NearSupport, pos.Position)

	pos = PricePosition(100, []float64{105}, nil)
	assert.Equal(t, model.NearResistance, pos.Position)
	assert.Nil(t, pos.NearestSupport)

	pos = PricePosition(100, nil, []float64{97})
	assert.Equal(t, model.NearSupport, pos.Position)

	pos = PricePosition(100, []float64{100, 90}, []float64{100, 120})
	assert.Equal(t, model.Middle, pos.Position)
	assert.Nil(t, pos.NearestResistance)
	assert.Nil(t, pos.SupportDistance)
}

func TestAnalyzeComprehensive(t *testing.T) {
	rep, err := NewAnalyzer().AnalyzeComprehensive(rising(100))
	require.NoError(t, err)

	assert.Equal(t, 174.0, rep.CurrentPrice)
	require.Len(t, rep.Resistances, 1)
	assert.Equal(t, model.Level{Price: 199, Kind: model.Resistance}, rep.Resistances[0])
	require.Len(t, rep.Supports, 3)
	assert.Equal(t, 70.0, rep.Supports[0].Price)
	assert.Equal(t, model.Support, rep.Supports[2].Kind)
	assert.Len(t, rep.Fibonacci, 7)

	// Position sees all candidate supports, including the fourth (140).
	require.NotNil(t, rep.Position.NearestSupport)
	assert.Equal(t, 140.0, *rep.Position.NearestSupport)
	assert.Equal(t, model.NearResistance, rep.Position.Position)

	assert.Contains(t, rep.Analysis, "当前价格: 174.00")
	assert.Contains(t, rep.Analysis, "  R1: 199.00")
	assert.Contains(t, rep.Analysis, "  S3: 130.00")
	assert.Contains(t, rep.Analysis, "位置判断: 价格接近阻力位，注意压力")
}

func TestAnalyzeComprehensive_EmptyAndMissing(t *testing.T) {
	a := NewAnalyzer()

	rep, err := a.AnalyzeComprehensive(model.PriceSeries{})
	require.NoError(t, err)
	assert.True(t, rep.Empty())

	s := rising(30)
	s.Missing = model.FieldHigh
	_, err = a.AnalyzeComprehensive(s)
	var mfe *model.MissingFieldError
	require.True(t, errors.As(err, &mfe))
	assert.Equal(t, "high", mfe.Field)
}
