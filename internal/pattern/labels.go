package pattern

import (
	"strings"

	"FuturesSentinel/internal/model"
)

// Single-bar labels.
const (
	DojiLongShadows = "十字星（长上下影）"
	Doji            = "十字星"
	Hammer          = "锤子线（看涨）"
	HangingMan      = "上吊线（看跌）"
	ShootingStar    = "流星线（看跌）"
	InvertedHammer  = "倒锤子（看涨）"
	LargeBullish    = "大阳线"
	LargeBearish    = "大阴线"
	MediumBullish   = "中阳线"
	MediumBearish   = "中阴线"
	SmallBullish    = "小阳线"
	SmallBearish    = "小阴线"
)

// Two-bar labels.
const (
	BullishEngulfing = "阳包阴（看涨）"
	BearishEngulfing = "阴包阳（看跌）"
	Piercing         = "曙光初现（看涨）"
	DarkCloudCover   = "乌云盖顶（看跌）"
)

// Three-bar labels.
const (
	MorningStar        = "早晨之星（看涨）"
	EveningStar        = "黄昏之星（看跌）"
	ThreeWhiteSoldiers = "红三兵（看涨）"
	ThreeBlackCrows    = "三只乌鸦（看跌）"
)

var (
	bullishKeywords = []string{"看涨", "锤子", "早晨", "红三兵", "曙光"}
	bearishKeywords = []string{"看跌", "上吊", "黄昏", "乌鸦", "乌云"}
)

// SignalOf maps a pattern label to its signal by keyword; bullish keywords are
// checked first.
func SignalOf(name string) model.Signal {
	for _, kw := range bullishKeywords {
		if strings.Contains(name, kw) {
			return model.SignalBullish
		}
	}
	for _, kw := range bearishKeywords {
		if strings.Contains(name, kw) {
			return model.SignalBearish
		}
	}
	return model.SignalNeutral
}
