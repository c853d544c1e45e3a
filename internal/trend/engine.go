package trend

import (
	"strings"

	"FuturesSentinel/internal/model"
)

// MinBars is the shortest frame that gets a trend verdict.
const MinBars = 20

// Analyze classifies the latest bar of frame. Frames shorter than MinBars
// get an unknown verdict whose analysis reads "数据不足".
func Analyze(frame model.IndicatorFrame, periodLabel string) model.TrendVerdict {
	v := model.TrendVerdict{
		Period:      frame.Period,
		PeriodLabel: periodLabel,
		Trend:       model.Unknown,
		Strength:    model.StrengthUnknown,
	}
	latest, prev, ok := frame.LastTwo()
	if !ok || frame.Len() < MinBars {
		v.Analysis = "数据不足"
		return v
	}

	v.CurrentPrice = latest.Close
	if frame.Len() > 1 && prev.Close != 0 {
		v.PriceChange = latest.Close - prev.Close
		v.PriceChangePct = v.PriceChange / prev.Close * 100
	}
	v.RSI = model.Nullable(latest.RSI)

	v.Components = model.ComponentSignals{
		MA:   analyzeMA(latest),
		MACD: analyzeMACD(latest, prev),
		KDJ:  analyzeKDJ(latest, prev),
		Boll: analyzeBoll(latest),
	}
	v.Trend = Fuse(v.Components.MA.Trend, v.Components.MACD.Trend, v.Components.KDJ.Trend)
	v.Strength = Grade(v.Components.MA.Trend, v.Components.Boll)
	v.Analysis = describe(v)
	return v
}

// Fuse votes the MA, MACD and KDJ directions: two ups make an uptrend, two
// downs a downtrend, anything else is sideways.
func Fuse(ma, macd, kdj model.Direction) model.Trend {
	var up, down int
	for _, d := range []model.Direction{ma, macd, kdj} {
		switch {
		case d.IsUp():
			up++
		case d.IsDown():
			down++
		}
	}
	switch {
	case up >= 2:
		return model.Uptrend
	case down >= 2:
		return model.Downtrend
	default:
		return model.Sideways
	}
}

// Grade rates a trend strong on a strong MA arrangement or a band breakout,
// moderate on a plain MA arrangement, weak otherwise.
func Grade(ma model.Direction, boll model.BollVerdict) model.Strength {
	switch {
	case strings.Contains(string(ma), "strong") || strings.Contains(boll.Signal, "突破"):
		return model.Strong
	case ma == model.DirUp || ma == model.DirDown:
		return model.Moderate
	default:
		return model.Weak
	}
}
