package calculator

// Default MACD spans.
const (
	MACDFast   = 12
	MACDSlow   = 26
	MACDSignal = 9
)

// MACDHistogram returns fast EMA minus slow EMA of closes, minus the signal EMA of that difference.
func MACDHistogram(closes []float64, fast, slow, signal int) []float64 {
	emaFast := EMA(closes, SpanAlpha(fast))
	emaSlow := EMA(closes, SpanAlpha(slow))
	macd := make([]float64, len(closes))
	for i := range closes {
		macd[i] = emaFast[i] - emaSlow[i]
	}
	sig := EMA(macd, SpanAlpha(signal))
	hist := make([]float64, len(closes))
	for i := range macd {
		hist[i] = macd[i] - sig[i]
	}
	return hist
}

// MomentumStreak is the signed run length of the histogram sign ending at the latest close.
func MomentumStreak(closes []float64) int {
	hist := MACDHistogram(closes, MACDFast, MACDSlow, MACDSignal)
	dirs := make([]int, len(hist))
	for i, v := range hist {
		dirs[i] = Sign(v)
	}
	return Streak(dirs)
}
