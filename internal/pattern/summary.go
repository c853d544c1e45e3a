package pattern

import (
	"fmt"
	"strings"

	"FuturesSentinel/internal/model"
)

// Summarize condenses a match list into one line: the bullish/bearish balance
// and the multi-bar patterns among the first three matches.
func Summarize(matches []model.PatternMatch) string {
	if len(matches) == 0 {
		return "未检测到明显形态"
	}

	var bullish, bearish int
	for _, m := range matches {
		switch m.Signal {
		case model.SignalBullish:
			bullish++
		case model.SignalBearish:
			bearish++
		}
	}

	var parts []string
	switch {
	case bullish > bearish:
		parts = append(parts, fmt.Sprintf("整体偏看涨（%d个看涨形态 vs %d个看跌形态）", bullish, bearish))
	case bearish > bullish:
		parts = append(parts, fmt.Sprintf("整体偏看跌（%d个看跌形态 vs %d个看涨形态）", bearish, bullish))
	default:
		parts = append(parts, fmt.Sprintf("多空平衡（各%d个形态）", bullish))
	}

	var names []string
	for _, m := range Important(matches[:min(3, len(matches))]) {
		names = append(names, m.Name)
	}
	if len(names) > 0 {
		parts = append(parts, "最近形态: "+strings.Join(names, ", "))
	}
	return strings.Join(parts, "；")
}

// Important keeps the two- and three-bar matches.
func Important(matches []model.PatternMatch) []model.PatternMatch {
	var out []model.PatternMatch
	for _, m := range matches {
		if m.Class == model.PatternDouble || m.Class == model.PatternTriple {
			out = append(out, m)
		}
	}
	return out
}
