package analysis

import "math"

// DefaultCorrBand is the |r| threshold above which a correlation is
// surfaced as a directional signal rather than "weak or none".
const DefaultCorrBand = 0.4

// Pearson computes the correlation coefficient of two aligned series.
// It reports false when there are fewer than 3 pairs, the lengths
// differ, or either series has zero variance; the caller must not
// treat that as a computed zero.
func Pearson(xs, ys []float64) (float64, bool) {
	n := len(xs)
	if n < 3 || len(ys) != n {
		return 0, false
	}

	var mx, my float64
	for i := 0; i < n; i++ {
		mx += xs[i]
		my += ys[i]
	}
	mx /= float64(n)
	my /= float64(n)

	var num, denx, deny float64
	for i := 0; i < n; i++ {
		dx := xs[i] - mx
		dy := ys[i] - my
		num += dx * dy
		denx += dx * dx
		deny += dy * dy
	}
	if denx <= 0 || deny <= 0 {
		return 0, false
	}
	return num / (math.Sqrt(denx) * math.Sqrt(deny)), true
}
