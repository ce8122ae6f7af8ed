package calculator

// SpanAlpha converts an EMA span into its smoothing factor 2/(span+1).
func SpanAlpha(span int) float64 {
	return 2.0 / (float64(span) + 1)
}

// EMA returns the exponentially weighted mean of x with smoothing factor alpha.
// The series is seeded with its first value and every later point is weighted
// recursively, without bias adjustment for the short history.
func EMA(x []float64, alpha float64) []float64 {
	out := make([]float64, len(x))
	if len(x) == 0 {
		return out
	}
	out[0] = x[0]
	for i := 1; i < len(x); i++ {
		// prev + alpha*(x-prev) keeps a constant input exactly constant.
		out[i] = out[i-1] + alpha*(x[i]-out[i-1])
	}
	return out
}
