package feed

import (
	"math"
)

// DefaultZ is the z-score for a 95% confidence interval.
const DefaultZ = 1.96

// WilsonScore returns the Wilson lower confidence bound of a 1..5 mean,
// rescaled back to the 0..5 range. Low sample counts pull the score down,
// so a 5.0 average from one vote ranks below a 4.6 average from 200.
func WilsonScore(mean float64, n int) float64 {
	return WilsonScoreZ(mean, n, DefaultZ)
}

// WilsonScoreZ is WilsonScore with an explicit z-score.
func WilsonScoreZ(mean float64, n int, z float64) float64 {
	if n == 0 {
		return 0
	}
	fn := float64(n)
	p := mean / 5
	denom := 1 + z*z/fn
	centre := p + z*z/(2*fn)
	stderr := z * math.Sqrt((p*(1-p)+z*z/(4*fn))/fn)
	return ((centre - stderr) / denom) * 5
}
