// Package report renders analysis results: the full text report, the
// K-line chart page, Parquet frame exports and the batch index.
package report

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"FuturesSentinel/internal/analysis"
	"FuturesSentinel/internal/model"
	"FuturesSentinel/internal/pattern"
	"FuturesSentinel/internal/trend"
)

const width = 70

// reportPeriods is the section order of the text report, longest first.
var reportPeriods = []model.Period{model.PeriodDay, model.Period60Min, model.Period15Min, model.Period5Min}

var trendIcons = map[model.Trend]string{
	model.Uptrend:   "📈 上升",
	model.Downtrend: "📉 下降",
	model.Sideways:  "➡️ 震荡",
	model.Unknown:   "❓ 不明",
}

var positionText = map[model.PositionLabel]string{
	model.NearResistance: "⚠️ 价格接近阻力位，注意上方压力",
	model.NearSupport:    "✅ 价格接近支撑位，关注反弹机会",
	model.Middle:         "⏺️ 价格处于中间区域",
}

// FullReport renders the complete text report of one analysis.
func FullReport(rep *analysis.Report) string {
	return fullReport(rep, time.Now())
}

func fullReport(rep *analysis.Report, now time.Time) string {
	var b strings.Builder
	rule := strings.Repeat("=", width)
	line(&b, rule)
	line(&b, center(fmt.Sprintf("【%s 期货技术分析报告】", rep.Symbol), width))
	line(&b, center("生成时间: "+now.Format("2006-01-02 15:04:05"), width))
	line(&b, rule)
	line(&b, "")

	priceSection(&b, rep, now)
	trendSection(&b, rep)
	levelSection(&b, rep.Levels)
	patternSection(&b, rep.Patterns)
	indicatorSection(&b, rep)
	conclusionSection(&b, rep)
	riskSection(&b)
	return strings.TrimRight(b.String(), "\n")
}

func line(b *strings.Builder, s string) {
	b.WriteString(s)
	b.WriteByte('\n')
}

func header(b *strings.Builder, title string) {
	line(b, "┏"+strings.Repeat("━", width-2)+"┓")
	line(b, "┃"+center(" "+title+" ", width-4)+"┃")
	line(b, "┗"+strings.Repeat("━", width-2)+"┛")
	line(b, "")
}

// center pads s with spaces on both sides to width runes, extra space on the
// right.
func center(s string, w int) string {
	n := utf8.RuneCountInString(s)
	if n >= w {
		return s
	}
	left := (w - n) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", w-n-left)
}

func priceSection(b *strings.Builder, rep *analysis.Report, now time.Time) {
	header(b, "【当前价格信息】")
	defer line(b, "")

	day, ok := rep.DayFrame()
	if !ok || day.Len() == 0 {
		line(b, "  日线数据缺失")
		return
	}
	latest, prev, _ := day.LastTwo()
	line(b, fmt.Sprintf("  品种代码: %s (%s)", rep.Symbol, rep.Name))
	line(b, fmt.Sprintf("  最新价格: %.2f", latest.Close))
	if day.Len() > 1 && prev.Close != 0 {
		change := latest.Close - prev.Close
		pct := change / prev.Close * 100
		if change >= 0 {
			line(b, fmt.Sprintf("  涨跌情况: +%.2f (+%.2f%%) 🔺", change, pct))
		} else {
			line(b, fmt.Sprintf("  涨跌情况: %.2f (%.2f%%) 🔻", change, pct))
		}
	}
	line(b, fmt.Sprintf("  最高价: %.2f", latest.High))
	line(b, fmt.Sprintf("  最低价: %.2f", latest.Low))
	line(b, "  成交量: "+humanize.Comma(int64(latest.Volume)))
	if d, ok := rep.DataSummary[model.PeriodDay]; ok && !d.FetchedAt.IsZero() {
		line(b, "  数据获取: "+humanize.RelTime(d.FetchedAt, now, "ago", "from now"))
	}
}

func trendSection(b *strings.Builder, rep *analysis.Report) {
	header(b, "【多周期趋势分析】")
	byPeriod := make(map[model.Period]model.TrendVerdict, len(rep.Trends))
	for _, v := range rep.Trends {
		byPeriod[v.Period] = v
	}
	for _, p := range reportPeriods {
		v, ok := byPeriod[p]
		if !ok {
			continue
		}
		line(b, fmt.Sprintf("  【%s】", p.Label()))
		line(b, strings.TrimRight(fmt.Sprintf("    趋势: %s %s", trendIcons[v.Trend], trend.StrengthText(v.Strength)), " "))
		c := v.Components
		if c.MA.Signal != "" {
			line(b, "    均线: "+c.MA.Signal)
		}
		if c.MACD.Signal != "" {
			line(b, "    MACD: "+c.MACD.Signal)
		}
		if c.KDJ.Signal != "" {
			line(b, "    KDJ: "+c.KDJ.Signal)
		}
		line(b, "")
	}
}

func levelSection(b *strings.Builder, lv model.LevelReport) {
	header(b, "【支撑位与阻力位】")
	price := lv.CurrentPrice
	line(b, fmt.Sprintf("  当前价格: %.2f", price))
	line(b, "")

	distance := func(level float64) float64 {
		if price <= 0 {
			return 0
		}
		return (level - price) / price * 100
	}
	if len(lv.Resistances) > 0 {
		line(b, "  🔴 上方阻力位:")
		for i, r := range lv.Resistances {
			line(b, fmt.Sprintf("    R%d: %.2f (距离 %+.2f%%)", i+1, r.Price, distance(r.Price)))
		}
	}
	line(b, "")
	if len(lv.Supports) > 0 {
		line(b, "  🟢 下方支撑位:")
		for i, s := range lv.Supports {
			line(b, fmt.Sprintf("    S%d: %.2f (距离 %.2f%%)", i+1, s.Price, distance(s.Price)))
		}
	}
	line(b, "")
	if t, ok := positionText[lv.Position.Position]; ok {
		line(b, "  位置判断: "+t)
	}
	line(b, "")
}

func patternSection(b *strings.Builder, patterns map[model.Period][]model.PatternMatch) {
	header(b, "【K线形态分析】")
	found := false
	for _, p := range reportPeriods {
		matches := patterns[p]
		if len(matches) == 0 {
			continue
		}
		found = true
		important := pattern.Important(matches)
		if len(important) == 0 {
			continue
		}
		line(b, fmt.Sprintf("  【%s】", p.Label()))
		for _, m := range important[:min(3, len(important))] {
			line(b, fmt.Sprintf("    %s %s", signalIcon(m.Signal), m.Name))
		}
		line(b, "")
	}
	if !found {
		line(b, "  暂未检测到明显K线形态")
	}
	line(b, "")
}

func signalIcon(s model.Signal) string {
	switch s {
	case model.SignalBullish:
		return "🟢"
	case model.SignalBearish:
		return "🔴"
	}
	return "⚪"
}

func indicatorSection(b *strings.Builder, rep *analysis.Report) {
	header(b, "【关键技术指标】")
	defer line(b, "")
	day, ok := rep.DayFrame()
	if !ok {
		return
	}
	r, ok := day.Last()
	if !ok {
		return
	}
	def := model.IsDefined

	line(b, "  📊 均线指标:")
	for _, ma := range []struct {
		name string
		v    float64
	}{{"MA5: ", r.MA5}, {"MA10:", r.MA10}, {"MA20:", r.MA20}, {"MA60:", r.MA60}} {
		if def(ma.v) {
			line(b, fmt.Sprintf("    %s %.2f", ma.name, ma.v))
		}
	}
	line(b, "")

	line(b, "  📊 MACD指标:")
	if def(r.MACDDIF) {
		bar := "绿柱"
		if r.MACD > 0 {
			bar = "红柱"
		}
		line(b, fmt.Sprintf("    DIF:  %.2f", r.MACDDIF))
		line(b, fmt.Sprintf("    DEA:  %.2f", r.MACDDEA))
		line(b, fmt.Sprintf("    MACD: %.2f (%s)", r.MACD, bar))
	}
	line(b, "")

	line(b, "  📊 KDJ指标:")
	if def(r.KDJK) {
		line(b, fmt.Sprintf("    K:   %.2f (%s)", r.KDJK, zone(r.KDJK, 80, 20)))
		line(b, fmt.Sprintf("    D:   %.2f", r.KDJD))
		line(b, fmt.Sprintf("    J:   %.2f", r.KDJJ))
	}
	line(b, "")

	if def(r.RSI) {
		line(b, fmt.Sprintf("  📊 RSI指标: %.2f (%s)", r.RSI, zone(r.RSI, 70, 30)))
	}
}

func zone(v, high, low float64) string {
	switch {
	case v > high:
		return "超买"
	case v < low:
		return "超卖"
	}
	return "正常"
}

func conclusionSection(b *strings.Builder, rep *analysis.Report) {
	header(b, "【综合判断与操作建议】")
	up, down := rep.Resonance()
	switch {
	case up >= 2:
		line(b, "  📈 多周期趋势共振: 看涨")
		line(b, "     → 至少2个周期呈上升趋势")
		line(b, "")
		line(b, "  💡 操作建议:")
		line(b, "     • 逢低做多为主")
		line(b, "     • 关注支撑位附近机会")
		line(b, "     • 设置合理止损")
	case down >= 2:
		line(b, "  📉 多周期趋势共振: 看跌")
		line(b, "     → 至少2个周期呈下降趋势")
		line(b, "")
		line(b, "  💡 操作建议:")
		line(b, "     • 高空为主，谨慎做多")
		line(b, "     • 关注阻力位附近机会")
		line(b, "     • 注意反弹风险")
	default:
		line(b, "  ➡️ 多周期趋势分化: 方向不明")
		line(b, "     → 各周期趋势不一致，等待明确信号")
		line(b, "")
		line(b, "  💡 操作建议:")
		line(b, "     • 观望为主，等待方向明确")
		line(b, "     • 可做区间操作")
		line(b, "     • 严格控制仓位")
	}
	line(b, "")
	line(b, "  🎯 关键价位:")
	lv := rep.Levels
	if len(lv.Resistances) > 0 {
		line(b, fmt.Sprintf("     上方阻力: %.2f", lv.Resistances[0].Price))
	}
	if len(lv.Supports) > 0 {
		line(b, fmt.Sprintf("     下方支撑: %.2f", lv.Supports[0].Price))
	}
	line(b, fmt.Sprintf("     当前价格: %.2f", lv.CurrentPrice))
	line(b, "")
}

func riskSection(b *strings.Builder) {
	header(b, "【风险提示】")
	line(b, "  ⚠️ 本报告仅供参考，不构成投资建议")
	line(b, "  ⚠️ 期货交易风险较高，入市需谨慎")
	line(b, "  ⚠️ 建议结合基本面分析和其他技术方法综合判断")
	line(b, "  ⚠️ 严格控制风险，合理设置止损止盈")
	line(b, "")
	line(b, strings.Repeat("=", width))
}
