package pattern

import (
	"iter"
	"slices"

	"FuturesSentinel/internal/model"
)

const (
	DefaultBodyThreshold   = 0.5
	DefaultShadowThreshold = 0.3

	largeBodyRatio   = 0.7
	mediumBodyRatio  = 0.5
	soldierBodyRatio = 0.4
)

// Recognizer classifies bars and bar groups into candlestick patterns.
type Recognizer struct {
	BodyThreshold   float64
	ShadowThreshold float64
}

// NewRecognizer returns a Recognizer with the default thresholds.
func NewRecognizer() *Recognizer {
	return &Recognizer{BodyThreshold: DefaultBodyThreshold, ShadowThreshold: DefaultShadowThreshold}
}

// candle holds the body and shadow proportions of one bar.
type candle struct {
	bodyRatio        float64
	upperShadowRatio float64
	lowerShadowRatio float64
	bullish          bool
	bearish          bool
}

func measure(b model.PriceBar) candle {
	c := candle{bullish: b.IsBullish(), bearish: b.IsBearish()}
	total := b.High - b.Low
	if total == 0 {
		return c
	}
	body := b.Close - b.Open
	if body < 0 {
		body = -body
	}
	c.bodyRatio = body / total
	c.upperShadowRatio = (b.High - max(b.Open, b.Close)) / total
	c.lowerShadowRatio = (min(b.Open, b.Close) - b.Low) / total
	return c
}

// Single classifies one bar. Rules are tried in order and the first match wins.
func (r *Recognizer) Single(b model.PriceBar) (string, bool) {
	c := measure(b)

	if c.bodyRatio < r.BodyThreshold {
		if c.upperShadowRatio > r.ShadowThreshold && c.lowerShadowRatio > r.ShadowThreshold {
			return DojiLongShadows, true
		}
		return Doji, true
	}

	if c.lowerShadowRatio > 2*c.bodyRatio && c.upperShadowRatio < r.ShadowThreshold {
		if c.bullish {
			return Hammer, true
		}
		return HangingMan, true
	}

	// Labelled from the bar's own direction, so a bullish body with a long
	// upper shadow is a shooting star.
	if c.upperShadowRatio > 2*c.bodyRatio && c.lowerShadowRatio < r.ShadowThreshold {
		if c.bullish {
			return ShootingStar, true
		}
		return InvertedHammer, true
	}

	switch {
	case c.bullish && c.bodyRatio > largeBodyRatio:
		return LargeBullish, true
	case c.bearish && c.bodyRatio > largeBodyRatio:
		return LargeBearish, true
	case c.bullish && c.bodyRatio > mediumBodyRatio:
		return MediumBullish, true
	case c.bearish && c.bodyRatio > mediumBodyRatio:
		return MediumBearish, true
	case c.bullish:
		return SmallBullish, true
	case c.bearish:
		return SmallBearish, true
	}
	return "", false
}

// Double classifies a pair of adjacent bars.
func (r *Recognizer) Double(prev, curr model.PriceBar) (string, bool) {
	p, c := measure(prev), measure(curr)
	prevMid := (prev.Open + prev.Close) / 2

	if p.bearish && c.bullish && curr.Close > prev.Open && curr.Open < prev.Close {
		return BullishEngulfing, true
	}
	if p.bullish && c.bearish && curr.Close < prev.Open && curr.Open > prev.Close {
		return BearishEngulfing, true
	}
	if p.bearish && c.bullish && curr.Close > prevMid && curr.Open < prev.Close {
		return Piercing, true
	}
	if p.bullish && c.bearish && curr.Close < prevMid && curr.Open > prev.Close {
		return DarkCloudCover, true
	}
	return "", false
}

// Triple classifies three consecutive bars a, b, c (oldest first).
func (r *Recognizer) Triple(a, b, c model.PriceBar) (string, bool) {
	ma, mb, mc := measure(a), measure(b), measure(c)
	firstMid := (a.Open + a.Close) / 2

	if ma.bearish && mc.bullish && mb.bodyRatio < r.BodyThreshold && c.Close > firstMid {
		return MorningStar, true
	}
	if ma.bullish && mc.bearish && mb.bodyRatio < r.BodyThreshold && c.Close < firstMid {
		return EveningStar, true
	}

	solid := ma.bodyRatio > soldierBodyRatio && mb.bodyRatio > soldierBodyRatio && mc.bodyRatio > soldierBodyRatio
	if solid && ma.bullish && mb.bullish && mc.bullish && a.Close < b.Close && b.Close < c.Close {
		return ThreeWhiteSoldiers, true
	}
	if solid && ma.bearish && mb.bearish && mc.bearish && a.Close > b.Close && b.Close > c.Close {
		return ThreeBlackCrows, true
	}
	return "", false
}

// All yields every match in bar order. At each index the single-bar match
// comes first, then the two-bar and three-bar matches ending there.
func (r *Recognizer) All(s model.PriceSeries) iter.Seq[model.PatternMatch] {
	return func(yield func(model.PatternMatch) bool) {
		bars := s.Bars
		for i, bar := range bars {
			emit := func(name string, class model.PatternClass) bool {
				return yield(model.PatternMatch{
					Index:  i,
					Time:   bar.Time,
					Name:   name,
					Class:  class,
					Signal: SignalOf(name),
				})
			}
			if name, ok := r.Single(bar); ok && !emit(name, model.PatternSingle) {
				return
			}
			if i > 0 {
				if name, ok := r.Double(bars[i-1], bar); ok && !emit(name, model.PatternDouble) {
					return
				}
			}
			if i > 1 {
				if name, ok := r.Triple(bars[i-2], bars[i-1], bar); ok && !emit(name, model.PatternTriple) {
					return
				}
			}
		}
	}
}

// Scan collects every match in the series.
func (r *Recognizer) Scan(s model.PriceSeries) []model.PatternMatch {
	return slices.Collect(r.All(s))
}

// Recent returns the n matches with the highest bar index, newest first.
// Matches on the same bar keep their scan order.
func (r *Recognizer) Recent(s model.PriceSeries, n int) []model.PatternMatch {
	if n <= 0 {
		return nil
	}
	all := r.Scan(s)
	slices.SortStableFunc(all, func(a, b model.PatternMatch) int { return b.Index - a.Index })
	if len(all) > n {
		all = all[:n]
	}
	return all
}
