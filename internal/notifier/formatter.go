package notifier

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"FuturesSentinel/internal/analysis"
	"FuturesSentinel/internal/model"
	"FuturesSentinel/internal/pattern"
	"FuturesSentinel/internal/trend"
)

// FormatBrief formats one symbol's analysis into a Telegram message.
func FormatBrief(rep *analysis.Report) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>%s %s</b> | %s\n\n", rep.Symbol, html.EscapeString(rep.Name), rep.Started.Format("2006-01-02 15:04")))

	if bar, ok := rep.LatestBar(); ok {
		b.WriteString(fmt.Sprintf("最新价格: %.2f\n\n", bar.Close))
	}

	b.WriteString("📈 <b>多周期趋势:</b>\n")
	for _, v := range rep.Trends {
		b.WriteString(fmt.Sprintf("  %s: %s%s", v.PeriodLabel, trend.TrendText(v.Trend), trend.StrengthText(v.Strength)))
		if v.RSI != nil {
			b.WriteString(fmt.Sprintf(" RSI %.1f", *v.RSI))
		}
		b.WriteString("\n")
	}
	up, down := rep.Resonance()
	switch {
	case up > down:
		b.WriteString(fmt.Sprintf("  → 共振看涨 (%d涨/%d跌)\n", up, down))
	case down > up:
		b.WriteString(fmt.Sprintf("  → 共振看跌 (%d跌/%d涨)\n", down, up))
	default:
		b.WriteString("  → 多周期分化\n")
	}

	lv := rep.Levels
	if len(lv.Resistances) > 0 || len(lv.Supports) > 0 {
		b.WriteString("\n🎯 <b>关键价位:</b>\n")
		if len(lv.Resistances) > 0 {
			b.WriteString(fmt.Sprintf("  阻力 R1: %.2f\n", lv.Resistances[0].Price))
		}
		if len(lv.Supports) > 0 {
			b.WriteString(fmt.Sprintf("  支撑 S1: %.2f\n", lv.Supports[0].Price))
		}
	}

	if len(rep.Signals) > 0 {
		keys := make([]string, 0, len(rep.Signals))
		for k := range rep.Signals {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString("\n⚡ <b>日线信号:</b>\n")
		for _, k := range keys {
			b.WriteString("  • " + html.EscapeString(rep.Signals[k]) + "\n")
		}
	}

	if day, ok := rep.Patterns[model.PeriodDay]; ok {
		b.WriteString("\n🕯 日线形态: " + html.EscapeString(pattern.Summarize(day)) + "\n")
	}
	return b.String()
}

// FormatBatchSummary formats a batch run into one Telegram message: one
// line per symbol, failures last.
func FormatBatchSummary(results []analysis.BatchResult, elapsed time.Duration) string {
	var b strings.Builder
	ok := analysis.Succeeded(results)
	b.WriteString(fmt.Sprintf("📋 <b>批量分析完成</b> | %s\n", time.Now().Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("成功 %d / %d，耗时 %s\n\n", ok, len(results), elapsed.Round(time.Second)))

	var failed []analysis.BatchResult
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
			continue
		}
		b.WriteString(fmt.Sprintf("%s %s", r.Symbol, html.EscapeString(r.Report.Name)))
		if bar, ok := r.Report.LatestBar(); ok {
			b.WriteString(fmt.Sprintf(" %.2f", bar.Close))
		}
		up, down := r.Report.Resonance()
		b.WriteString(fmt.Sprintf(" %s\n", resonanceIcon(up, down)))
	}

	if len(failed) > 0 {
		b.WriteString("\n❌ <b>失败:</b>\n")
		for _, r := range failed {
			b.WriteString(fmt.Sprintf("  %s: %s\n", r.Symbol, html.EscapeString(r.Err.Error())))
		}
	}
	return b.String()
}

func resonanceIcon(up, down int) string {
	switch {
	case up >= 2 && up > down:
		return "📈 看涨"
	case down >= 2 && down > up:
		return "📉 看跌"
	}
	return "➡️ 分化"
}

// FormatHelp lists the bot commands.
func FormatHelp() string {
	return "可用命令:\n• /analyze 品种代码 (例如 /analyze RB888)\n• /batch 分析全部配置品种\n• /help"
}
