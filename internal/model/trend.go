package model

// Trend is the fused per-timeframe direction.
type Trend string

const (
	Uptrend   Trend = "uptrend"
	Downtrend Trend = "downtrend"
	Sideways  Trend = "sideways"
	Unknown   Trend = "unknown"
)

// Strength grades a trend.
type Strength string

const (
	Strong          Strength = "strong"
	Moderate        Strength = "moderate"
	Weak            Strength = "weak"
	StrengthUnknown Strength = "unknown"
)

// Direction is the vote of one sub-verdict.
type Direction string

const (
	DirStrongUp   Direction = "strong_up"
	DirUp         Direction = "up"
	DirSideways   Direction = "sideways"
	DirDown       Direction = "down"
	DirStrongDown Direction = "strong_down"
	DirUnknown    Direction = "unknown"
)

// IsUp reports up or strong_up.
func (d Direction) IsUp() bool { return d == DirUp || d == DirStrongUp }

// IsDown reports down or strong_down.
func (d Direction) IsDown() bool { return d == DirDown || d == DirStrongDown }

// MAVerdict is the moving-average arrangement reading.
type MAVerdict struct {
	Trend         Direction `json:"trend"`
	Arrangement   string    `json:"ma_arrangement,omitempty"`
	PricePosition string    `json:"price_position,omitempty"`
	Signal        string    `json:"signal"`
}

// MACDVerdict is the DIF/DEA cross reading.
type MACDVerdict struct {
	Trend    Direction `json:"trend"`
	Signal   string    `json:"signal"`
	Relation string    `json:"dif_dea_relation,omitempty"`
	Bar      string    `json:"macd_bar,omitempty"`
}

// KDJVerdict is the K/D cross and zone reading.
type KDJVerdict struct {
	Trend  Direction `json:"trend"`
	Signal string    `json:"signal"`
	Zone   string    `json:"k_zone,omitempty"`
	K      float64   `json:"k_value,omitempty"`
	D      float64   `json:"d_value,omitempty"`
}

// BollVerdict is the close position inside the Bollinger envelope.
type BollVerdict struct {
	Position    string  `json:"position"`
	Signal      string  `json:"signal"`
	PositionPct float64 `json:"position_pct"`
}

// ComponentSignals groups the four sub-verdicts.
type ComponentSignals struct {
	MA   MAVerdict   `json:"ma"`
	MACD MACDVerdict `json:"macd"`
	KDJ  KDJVerdict  `json:"kdj"`
	Boll BollVerdict `json:"boll"`
}

// TrendVerdict is the trend classification of one timeframe.
type TrendVerdict struct {
	Period         Period           `json:"period"`
	PeriodLabel    string           `json:"period_label"`
	CurrentPrice   float64          `json:"current_price"`
	PriceChange    float64          `json:"price_change"`
	PriceChangePct float64          `json:"price_change_pct"`
	RSI            *float64         `json:"rsi_value"`
	Trend          Trend            `json:"trend"`
	Strength       Strength         `json:"strength"`
	Components     ComponentSignals `json:"component_signals"`
	Analysis       string           `json:"analysis"`
}
