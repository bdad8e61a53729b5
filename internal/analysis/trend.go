package analysis

// Trend classifies the direction of a daily series.
type Trend int

const (
	TrendIndeterminate Trend = iota
	TrendStable
	TrendIncreasing
	TrendDecreasing
)

func (t Trend) String() string {
	switch t {
	case TrendStable:
		return "Stable"
	case TrendIncreasing:
		return "Increasing"
	case TrendDecreasing:
		return "Decreasing"
	default:
		return "Not enough data"
	}
}

// DefaultTrendEpsilon is the stable band in value-units per day.
const DefaultTrendEpsilon = 0.02

// Slope is the ordinary-least-squares slope of values against their
// index 0..n-1. Gap days are invisible to the regression: a series
// with missing days in the middle is still equally spaced indices.
// Fewer than 2 points, or a zero denominator, yields 0.
func Slope(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	var xMean, yMean float64
	for i, v := range values {
		xMean += float64(i)
		yMean += v
	}
	xMean /= float64(n)
	yMean /= float64(n)

	var num, den float64
	for i, v := range values {
		dx := float64(i) - xMean
		num += dx * (v - yMean)
		den += dx * dx
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// ClassifySlope maps a slope to a direction given a stable band.
func ClassifySlope(slope, epsilon float64) Trend {
	switch {
	case slope > epsilon:
		return TrendIncreasing
	case slope < -epsilon:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

// EstimateTrend computes slope and classification in one step. Fewer
// than 2 points is indeterminate, which is distinct from stable.
func EstimateTrend(values []float64, epsilon float64) (float64, Trend) {
	if len(values) < 2 {
		return 0, TrendIndeterminate
	}
	s := Slope(values)
	return s, ClassifySlope(s, epsilon)
}
