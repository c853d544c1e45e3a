package calculator

import "FuturesSentinel/internal/model"

// Parameter set used by AddAllIndicators.
const (
	MACDFast   = 12
	MACDSlow   = 26
	MACDSignal = 9
	BollPeriod = 20
	BollK      = 2.0
	KDJPeriod  = 9
	KDJKSmooth = 3
	KDJDSmooth = 3
	RSIPeriod  = 14
	ATRPeriod  = 14
)

// AddAllIndicators annotates a copy of the series with the full indicator set:
// MA 5/10/20/60, RSI (14 ema, or 6/12/24 china plus 14 sma), MACD 12/26/9,
// BOLL 20/2.0, KDJ 9/3/3 and ATR 14. The input is never modified.
func AddAllIndicators(s model.PriceSeries, style model.RSIStyle) (model.IndicatorFrame, error) {
	if err := s.Require(model.FieldClose); err != nil {
		return model.IndicatorFrame{}, err
	}
	if style != model.RSIStyleChina {
		style = model.RSIStyleInternational
	}

	n := len(s.Bars)
	frame := model.IndicatorFrame{
		Symbol: s.Symbol,
		Period: s.Period,
		Style:  style,
		Rows:   make([]model.IndicatorRow, n),
	}
	closes := s.Closes()

	ma5 := MovingAverage(closes, 5, 1)
	ma10 := MovingAverage(closes, 10, 1)
	ma20 := MovingAverage(closes, 20, 1)
	ma60 := MovingAverage(closes, 60, 1)

	undefined := nanSlice(n)
	rsi, rsi6, rsi12, rsi14, rsi24 := undefined, undefined, undefined, undefined, undefined
	var err error
	if style == model.RSIStyleChina {
		if rsi6, err = RSI(closes, 6, RSIChina); err != nil {
			return model.IndicatorFrame{}, err
		}
		if rsi12, err = RSI(closes, 12, RSIChina); err != nil {
			return model.IndicatorFrame{}, err
		}
		if rsi24, err = RSI(closes, 24, RSIChina); err != nil {
			return model.IndicatorFrame{}, err
		}
		if rsi14, err = RSI(closes, RSIPeriod, RSISma); err != nil {
			return model.IndicatorFrame{}, err
		}
		rsi = rsi12
	} else {
		if rsi, err = RSI(closes, RSIPeriod, RSIEma); err != nil {
			return model.IndicatorFrame{}, err
		}
	}

	macd := MACD(closes, MACDFast, MACDSlow, MACDSignal)
	boll := Bollinger(closes, BollPeriod, BollK, 1)

	kdj := KDJResult{K: undefined, D: undefined, J: undefined}
	atr := undefined
	if s.Has(model.FieldHigh, model.FieldLow) {
		kdj = KDJ(s.Highs(), s.Lows(), closes, KDJPeriod, KDJKSmooth, KDJDSmooth)
		atr = ATR(s.Highs(), s.Lows(), closes, ATRPeriod)
	}

	for i, bar := range s.Bars {
		frame.Rows[i] = model.IndicatorRow{
			PriceBar:  bar,
			MA5:       ma5[i],
			MA10:      ma10[i],
			MA20:      ma20[i],
			MA60:      ma60[i],
			RSI:       rsi[i],
			RSI6:      rsi6[i],
			RSI12:     rsi12[i],
			RSI14:     rsi14[i],
			RSI24:     rsi24[i],
			MACDDIF:   macd.DIF[i],
			MACDDEA:   macd.DEA[i],
			MACD:      macd.MACD[i],
			BollMid:   boll.Mid[i],
			BollUpper: boll.Upper[i],
			BollLower: boll.Lower[i],
			KDJK:      kdj.K[i],
			KDJD:      kdj.D[i],
			KDJJ:      kdj.J[i],
			ATR:       atr[i],
		}
	}
	return frame, nil
}
