package calculator

// MACDResult holds the MACD lines. MACD is the histogram scaled by two, the
// value Chinese terminals display.
type MACDResult struct {
	DIF  []float64
	DEA  []float64
	Hist []float64
	MACD []float64
}

// MACD computes DIF = EMA(fast) - EMA(slow), DEA = EMA(DIF, signal) and the histogram.
func MACD(closes []float64, fast, slow, signal int) MACDResult {
	emaFast := EMA(closes, fast)
	emaSlow := EMA(closes, slow)

	n := len(closes)
	dif := make([]float64, n)
	for i := range dif {
		dif[i] = emaFast[i] - emaSlow[i]
	}
	dea := EMA(dif, signal)

	hist := make([]float64, n)
	scaled := make([]float64, n)
	for i := range hist {
		hist[i] = dif[i] - dea[i]
		scaled[i] = hist[i] * 2
	}
	return MACDResult{DIF: dif, DEA: dea, Hist: hist, MACD: scaled}
}
