package trend

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"FuturesSentinel/internal/model"
)

const ruleWidth = 60

// AnalyzeMultiPeriod analyzes every non-empty frame, in the order of
// model.DefaultPeriods followed by any other periods present.
func AnalyzeMultiPeriod(frames map[model.Period]model.IndicatorFrame) []model.TrendVerdict {
	var out []model.TrendVerdict
	for _, p := range orderedPeriods(frames) {
		f := frames[p]
		if f.Len() == 0 {
			continue
		}
		out = append(out, Analyze(f, p.Label()))
	}
	return out
}

func orderedPeriods(frames map[model.Period]model.IndicatorFrame) []model.Period {
	var out []model.Period
	seen := make(map[model.Period]bool, len(frames))
	for _, p := range model.DefaultPeriods {
		if _, ok := frames[p]; ok {
			out = append(out, p)
			seen[p] = true
		}
	}
	var extra []model.Period
	for p := range frames {
		if !seen[p] {
			extra = append(extra, p)
		}
	}
	slices.Sort(extra)
	return append(out, extra...)
}

// Resonance counts up- and downtrending periods.
func Resonance(verdicts []model.TrendVerdict) (up, down int) {
	for _, v := range verdicts {
		switch v.Trend {
		case model.Uptrend:
			up++
		case model.Downtrend:
			down++
		}
	}
	return up, down
}

// MultiPeriodSummary prints every verdict followed by the cross-period call.
func MultiPeriodSummary(verdicts []model.TrendVerdict) string {
	rule := strings.Repeat("=", ruleWidth)
	lines := []string{rule, center("多周期趋势综合分析", ruleWidth), rule, ""}

	for _, v := range verdicts {
		if v.Analysis != "" {
			lines = append(lines, v.Analysis, "")
		}
	}

	up, down := Resonance(verdicts)
	lines = append(lines, rule, "【综合判断】")
	switch {
	case up > down:
		lines = append(lines,
			fmt.Sprintf("多周期共振: 看涨（%d个周期上涨 vs %d个周期下跌）", up, down),
			"操作建议: 逢低做多，注意风险控制")
	case down > up:
		lines = append(lines,
			fmt.Sprintf("多周期共振: 看跌（%d个周期下跌 vs %d个周期上涨）", down, up),
			"操作建议: 高空为主，注意反弹风险")
	default:
		lines = append(lines,
			"多周期分化: 趋势不一致，方向不明",
			"操作建议: 观望为主，等待明确信号")
	}
	lines = append(lines, rule)
	return joinLines(lines)
}

func center(s string, width int) string {
	pad := width - utf8.RuneCountInString(s)
	if pad <= 0 {
		return s
	}
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}

func joinLines(lines []string) string { return strings.Join(lines, "\n") }
