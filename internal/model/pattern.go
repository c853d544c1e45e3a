package model

import "time"

// PatternClass is the number of bars a candlestick pattern spans.
type PatternClass string

const (
	PatternSingle PatternClass = "single"
	PatternDouble PatternClass = "double"
	PatternTriple PatternClass = "triple"
)

// Signal is the directional tag attached to a pattern.
type Signal string

const (
	SignalBullish Signal = "bullish"
	SignalBearish Signal = "bearish"
	SignalNeutral Signal = "neutral"
)

// PatternMatch is one recognized candlestick pattern ending at Index.
type PatternMatch struct {
	Index  int          `json:"index"`
	Time   time.Time    `json:"timestamp"`
	Name   string       `json:"pattern"`
	Class  PatternClass `json:"type"`
	Signal Signal       `json:"signal"`
}
