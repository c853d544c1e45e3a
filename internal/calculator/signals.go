package calculator

import (
	"fmt"

	"FuturesSentinel/internal/model"
)

// DetectSignals reads crosses and extremes off the last two rows of a frame.
// Keys: ma_cross, macd_cross, rsi, kdj_cross, boll.
func DetectSignals(f model.IndicatorFrame) map[string]string {
	signals := make(map[string]string)
	last, prev, ok := f.LastTwo()
	if !ok {
		return signals
	}
	def := model.IsDefined

	if def(last.MA5) && def(last.MA20) {
		if last.MA5 > last.MA20 && prev.MA5 <= prev.MA20 {
			signals["ma_cross"] = "金叉（MA5上穿MA20）"
		} else if last.MA5 < last.MA20 && prev.MA5 >= prev.MA20 {
			signals["ma_cross"] = "死叉（MA5下穿MA20）"
		}
	}

	if def(last.MACDDIF) && def(last.MACDDEA) {
		if last.MACDDIF > last.MACDDEA && prev.MACDDIF <= prev.MACDDEA {
			signals["macd_cross"] = "MACD金叉"
		} else if last.MACDDIF < last.MACDDEA && prev.MACDDIF >= prev.MACDDEA {
			signals["macd_cross"] = "MACD死叉"
		}
	}

	if def(last.RSI) {
		if last.RSI > 70 {
			signals["rsi"] = fmt.Sprintf("RSI超买 (%.1f)", last.RSI)
		} else if last.RSI < 30 {
			signals["rsi"] = fmt.Sprintf("RSI超卖 (%.1f)", last.RSI)
		}
	}

	if def(last.KDJK) && def(last.KDJD) {
		if last.KDJK > last.KDJD && prev.KDJK <= prev.KDJD {
			signals["kdj_cross"] = "KDJ金叉"
		} else if last.KDJK < last.KDJD && prev.KDJK >= prev.KDJD {
			signals["kdj_cross"] = "KDJ死叉"
		}
	}

	if def(last.Close) && def(last.BollUpper) {
		if last.Close > last.BollUpper {
			signals["boll"] = "突破布林带上轨"
		} else if last.Close < last.BollLower {
			signals["boll"] = "跌破布林带下轨"
		}
	}
	return signals
}
