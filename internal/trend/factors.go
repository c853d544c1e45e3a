package trend

import (
	"fmt"

	"FuturesSentinel/internal/model"
)

// analyzeMA reads the 5/10/20/60 moving-average arrangement.
func analyzeMA(row model.IndicatorRow) model.MAVerdict {
	ma5, ma10, ma20, ma60 := row.MA5, row.MA10, row.MA20, row.MA60
	if !model.IsDefined(ma5) || !model.IsDefined(ma10) || !model.IsDefined(ma20) {
		return model.MAVerdict{Trend: model.DirUnknown, Signal: "均线计算中"}
	}

	v := model.MAVerdict{}
	switch {
	case ma5 > ma10 && ma10 > ma20:
		if model.IsDefined(ma60) && ma20 > ma60 {
			v.Arrangement, v.Trend = "多头排列", model.DirStrongUp
		} else {
			v.Arrangement, v.Trend = "短期多头", model.DirUp
		}
	case ma5 < ma10 && ma10 < ma20:
		if model.IsDefined(ma60) && ma20 < ma60 {
			v.Arrangement, v.Trend = "空头排列", model.DirStrongDown
		} else {
			v.Arrangement, v.Trend = "短期空头", model.DirDown
		}
	default:
		v.Arrangement, v.Trend = "均线纠缠", model.DirSideways
	}

	switch price := row.Close; {
	case price > ma5:
		v.PricePosition = "价格站上5日线"
	case price < ma20:
		v.PricePosition = "价格跌破20日线"
	default:
		v.PricePosition = "价格在5日和20日之间"
	}
	v.Signal = v.Arrangement + "，" + v.PricePosition
	return v
}

// analyzeMACD reads the DIF/DEA relation and whether it just crossed.
// An undefined predecessor counts as a continuation.
func analyzeMACD(latest, prev model.IndicatorRow) model.MACDVerdict {
	dif, dea, hist := latest.MACDDIF, latest.MACDDEA, latest.MACD
	if !model.IsDefined(dif) || !model.IsDefined(dea) || !model.IsDefined(hist) {
		return model.MACDVerdict{Trend: model.DirUnknown, Signal: "MACD计算中"}
	}

	v := model.MACDVerdict{}
	if dif > dea {
		v.Trend, v.Relation = model.DirUp, "DIF在DEA上方"
		v.Signal = "DIF上穿DEA持续"
		if prev.MACDDIF <= prev.MACDDEA {
			v.Signal = "MACD金叉（看涨）"
		}
	} else {
		v.Trend, v.Relation = model.DirDown, "DIF在DEA下方"
		v.Signal = "DIF下穿DEA持续"
		if prev.MACDDIF >= prev.MACDDEA {
			v.Signal = "MACD死叉（看跌）"
		}
	}

	v.Bar = "绿柱（空头）"
	if hist > 0 {
		v.Bar = "红柱（多头）"
	}
	return v
}

// analyzeKDJ reads the K zone and the K/D cross.
func analyzeKDJ(latest, prev model.IndicatorRow) model.KDJVerdict {
	k, d, j := latest.KDJK, latest.KDJD, latest.KDJJ
	if !model.IsDefined(k) || !model.IsDefined(d) || !model.IsDefined(j) {
		return model.KDJVerdict{Trend: model.DirUnknown, Signal: "KDJ计算中"}
	}

	v := model.KDJVerdict{K: k, D: d}
	switch {
	case k > 80:
		v.Zone = "超买区（>80）"
	case k < 20:
		v.Zone = "超卖区（<20）"
	default:
		v.Zone = "中性区（20-80）"
	}

	if k > d {
		v.Trend, v.Signal = model.DirUp, "K线上穿D线持续"
		if prev.KDJK <= prev.KDJD {
			v.Signal = "KDJ金叉"
		}
	} else {
		v.Trend, v.Signal = model.DirDown, "K线下穿D线持续"
		if prev.KDJK >= prev.KDJD {
			v.Signal = "KDJ死叉"
		}
	}
	return v
}

// analyzeBoll places the close inside the Bollinger envelope.
func analyzeBoll(row model.IndicatorRow) model.BollVerdict {
	upper, mid, lower := row.BollUpper, row.BollMid, row.BollLower
	if !model.IsDefined(upper) || !model.IsDefined(mid) || !model.IsDefined(lower) {
		return model.BollVerdict{Position: "unknown", Signal: "布林带计算中"}
	}

	price := row.Close
	v := model.BollVerdict{PositionPct: 50}
	if width := upper - lower; width > 0 {
		v.PositionPct = (price - lower) / width * 100
	}

	switch {
	case price > upper:
		v.Position, v.Signal = "突破上轨", "强势突破"
	case price < lower:
		v.Position, v.Signal = "跌破下轨", "弱势跌破"
	case price > mid:
		v.Position, v.Signal = "上轨和中轨之间", "偏强"
	default:
		v.Position, v.Signal = "中轨和下轨之间", "偏弱"
	}
	return v
}

var trendText = map[model.Trend]string{
	model.Uptrend:   "上升趋势 📈",
	model.Downtrend: "下降趋势 📉",
	model.Sideways:  "震荡整理 ➡️",
	model.Unknown:   "趋势不明 ❓",
}

var strengthText = map[model.Strength]string{
	model.Strong:   "(强势)",
	model.Moderate: "(中等)",
	model.Weak:     "(弱势)",
}

// TrendText returns the display label of a fused trend.
func TrendText(t model.Trend) string { return trendText[t] }

// StrengthText returns the bracketed display label of a strength tier.
func StrengthText(s model.Strength) string { return strengthText[s] }

func describe(v model.TrendVerdict) string {
	var lines []string
	if v.PeriodLabel != "" {
		lines = append(lines, fmt.Sprintf("【%s趋势分析】", v.PeriodLabel))
	}
	lines = append(lines,
		fmt.Sprintf("当前价格: %.2f (%+.2f%%)", v.CurrentPrice, v.PriceChangePct),
		fmt.Sprintf("综合趋势: %s %s", trendText[v.Trend], strengthText[v.Strength]),
	)

	c := v.Components
	if c.MA.Signal != "" {
		lines = append(lines, "均线分析: "+c.MA.Signal)
	}
	if c.MACD.Signal != "" {
		lines = append(lines, "MACD分析: "+c.MACD.Signal)
	}
	if c.KDJ.Signal != "" {
		lines = append(lines, fmt.Sprintf("KDJ分析: %s，%s", c.KDJ.Signal, c.KDJ.Zone))
	}
	if c.Boll.Signal != "" {
		lines = append(lines, "布林带分析: "+c.Boll.Signal)
	}
	return joinLines(lines)
}
