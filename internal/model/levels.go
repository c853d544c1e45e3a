package model

// LevelKind tells resistance from support.
type LevelKind string

const (
	Resistance LevelKind = "resistance"
	Support    LevelKind = "support"
)

// Level is a support or resistance price.
type Level struct {
	Price float64   `json:"price"`
	Kind  LevelKind `json:"kind"`
}

// FibLevel is one Fibonacci retracement price.
type FibLevel struct {
	Key   string  `json:"key"`
	Ratio float64 `json:"ratio"`
	Price float64 `json:"price"`
}

// PositionLabel places the current price between the nearest levels.
type PositionLabel string

const (
	NearResistance PositionLabel = "near_resistance"
	NearSupport    PositionLabel = "near_support"
	Middle         PositionLabel = "middle"
)

// PricePosition describes where the current price sits. Distances are
// percentages of the current price; nil means no level on that side.
type PricePosition struct {
	CurrentPrice       float64       `json:"current_price"`
	NearestResistance  *float64      `json:"nearest_resistance"`
	NearestSupport     *float64      `json:"nearest_support"`
	ResistanceDistance *float64      `json:"resistance_distance"`
	SupportDistance    *float64      `json:"support_distance"`
	Position           PositionLabel `json:"position"`
}

// LevelReport bundles the support/resistance analysis of one series.
type LevelReport struct {
	CurrentPrice float64       `json:"current_price"`
	Resistances  []Level       `json:"resistance_levels"`
	Supports     []Level       `json:"support_levels"`
	Fibonacci    []FibLevel    `json:"fibonacci_levels"`
	Position     PricePosition `json:"price_position"`
	Analysis     string        `json:"analysis"`
}

// Empty reports whether the analysis produced nothing.
func (r LevelReport) Empty() bool {
	return len(r.Resistances) == 0 && len(r.Supports) == 0 && len(r.Fibonacci) == 0 && r.Analysis == ""
}
