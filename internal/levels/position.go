package levels

import (
	"fmt"
	"strings"

	"FuturesSentinel/internal/model"
)

// PricePosition finds the nearest resistance strictly above and the nearest
// support strictly below price, and labels price by the closer side.
func PricePosition(price float64, resistances, supports []float64) model.PricePosition {
	pos := model.PricePosition{CurrentPrice: price, Position: model.Middle}

	for _, r := range resistances {
		if r > price && (pos.NearestResistance == nil || r < *pos.NearestResistance) {
			pos.NearestResistance = &r
		}
	}
	for _, s := range supports {
		if s < price && (pos.NearestSupport == nil || s > *pos.NearestSupport) {
			pos.NearestSupport = &s
		}
	}
	if price == 0 {
		return pos
	}
	if pos.NearestResistance != nil {
		d := (*pos.NearestResistance - price) / price * 100
		pos.ResistanceDistance = &d
	}
	if pos.NearestSupport != nil {
		d := (price - *pos.NearestSupport) / price * 100
		pos.SupportDistance = &d
	}

	rd, sd := pos.ResistanceDistance, pos.SupportDistance
	switch {
	case rd != nil && sd != nil:
		if *rd < *sd {
			pos.Position = model.NearResistance
		} else {
			pos.Position = model.NearSupport
		}
	case rd != nil:
		pos.Position = model.NearResistance
	case sd != nil:
		pos.Position = model.NearSupport
	}
	return pos
}

// AnalyzeComprehensive combines the simplified levels, Fibonacci levels and
// price position of s. An empty series gives an empty report; a series
// without high, low or close fails with *model.MissingFieldError.
func (a *Analyzer) AnalyzeComprehensive(s model.PriceSeries) (model.LevelReport, error) {
	last, ok := s.Last()
	if !ok {
		return model.LevelReport{}, nil
	}
	if err := s.Require(model.FieldHigh, model.FieldLow, model.FieldClose); err != nil {
		return model.LevelReport{}, err
	}
	price := last.Close

	res, sup := a.SimplifiedLevels(s, 5)
	pos := PricePosition(price, res, sup)
	res, sup = head(res, 3), head(sup, 3)

	rep := model.LevelReport{
		CurrentPrice: price,
		Resistances:  toLevels(res, model.Resistance),
		Supports:     toLevels(sup, model.Support),
		Fibonacci:    FibonacciLevels(s, FibAuto),
		Position:     pos,
	}
	rep.Analysis = describe(price, res, sup, pos.Position)
	return rep, nil
}

func toLevels(prices []float64, kind model.LevelKind) []model.Level {
	out := make([]model.Level, 0, len(prices))
	for _, p := range prices {
		out = append(out, model.Level{Price: p, Kind: kind})
	}
	return out
}

var positionText = map[model.PositionLabel]string{
	model.NearResistance: "价格接近阻力位，注意压力",
	model.NearSupport:    "价格接近支撑位，关注反弹",
	model.Middle:         "价格处于中间区域",
}

func describe(price float64, res, sup []float64, label model.PositionLabel) string {
	var b strings.Builder
	fmt.Fprintf(&b, "当前价格: %.2f", price)
	if len(res) > 0 {
		b.WriteString("\n\n上方阻力位:")
		for i, r := range res {
			fmt.Fprintf(&b, "\n  R%d: %.2f", i+1, r)
		}
	}
	if len(sup) > 0 {
		b.WriteString("\n\n下方支撑位:")
		for i, s := range sup {
			fmt.Fprintf(&b, "\n  S%d: %.2f", i+1, s)
		}
	}
	fmt.Fprintf(&b, "\n\n位置判断: %s", positionText[label])
	return b.String()
}
