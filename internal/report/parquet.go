package report

import (
	"fmt"

	"github.com/parquet-go/parquet-go"

	"FuturesSentinel/internal/model"
)

// FrameRow is the Parquet layout of one indicator row. Undefined indicator
// values are written as nulls.
type FrameRow struct {
	Timestamp int64    `parquet:"timestamp"` // unix milliseconds
	Symbol    string   `parquet:"symbol,dict"`
	Period    string   `parquet:"period,dict"`
	Open      float64  `parquet:"open"`
	High      float64  `parquet:"high"`
	Low       float64  `parquet:"low"`
	Close     float64  `parquet:"close"`
	Volume    float64  `parquet:"volume"`
	MA5       *float64 `parquet:"ma5,optional"`
	MA10      *float64 `parquet:"ma10,optional"`
	MA20      *float64 `parquet:"ma20,optional"`
	MA60      *float64 `parquet:"ma60,optional"`
	RSI       *float64 `parquet:"rsi,optional"`
	RSI6      *float64 `parquet:"rsi6,optional"`
	RSI12     *float64 `parquet:"rsi12,optional"`
	RSI14     *float64 `parquet:"rsi14,optional"`
	RSI24     *float64 `parquet:"rsi24,optional"`
	MACDDIF   *float64 `parquet:"macd_dif,optional"`
	MACDDEA   *float64 `parquet:"macd_dea,optional"`
	MACD      *float64 `parquet:"macd,optional"`
	BollMid   *float64 `parquet:"boll_mid,optional"`
	BollUpper *float64 `parquet:"boll_upper,optional"`
	BollLower *float64 `parquet:"boll_lower,optional"`
	KDJK      *float64 `parquet:"kdj_k,optional"`
	KDJD      *float64 `parquet:"kdj_d,optional"`
	KDJJ      *float64 `parquet:"kdj_j,optional"`
	ATR       *float64 `parquet:"atr,optional"`
}

// FrameRows flattens a frame into Parquet rows.
func FrameRows(f model.IndicatorFrame) []FrameRow {
	nv := model.Nullable
	rows := make([]FrameRow, len(f.Rows))
	for i, r := range f.Rows {
		rows[i] = FrameRow{
			Timestamp: r.Time.UnixMilli(),
			Symbol:    f.Symbol,
			Period:    string(f.Period),
			Open:      r.Open,
			High:      r.High,
			Low:       r.Low,
			Close:     r.Close,
			Volume:    r.Volume,
			MA5:       nv(r.MA5),
			MA10:      nv(r.MA10),
			MA20:      nv(r.MA20),
			MA60:      nv(r.MA60),
			RSI:       nv(r.RSI),
			RSI6:      nv(r.RSI6),
			RSI12:     nv(r.RSI12),
			RSI14:     nv(r.RSI14),
			RSI24:     nv(r.RSI24),
			MACDDIF:   nv(r.MACDDIF),
			MACDDEA:   nv(r.MACDDEA),
			MACD:      nv(r.MACD),
			BollMid:   nv(r.BollMid),
			BollUpper: nv(r.BollUpper),
			BollLower: nv(r.BollLower),
			KDJK:      nv(r.KDJK),
			KDJD:      nv(r.KDJD),
			KDJJ:      nv(r.KDJJ),
			ATR:       nv(r.ATR),
		}
	}
	return rows
}

// ExportParquet writes one row per bar with every indicator column.
func ExportParquet(path string, f model.IndicatorFrame) error {
	if err := parquet.WriteFile(path, FrameRows(f)); err != nil {
		return fmt.Errorf("write parquet %s: %w", path, err)
	}
	return nil
}
