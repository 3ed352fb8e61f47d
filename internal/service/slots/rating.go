package slots

import "math"

// DefaultRatingScale applies when a rating phrase has no "/N" suffix.
const DefaultRatingScale = 5.0

// NormalizeRating maps value on the given scale onto 0..5.
func NormalizeRating(value, scale float64) float64 {
	if scale <= 0 || math.IsNaN(scale) {
		scale = DefaultRatingScale
	}
	r := value / scale * 5
	if math.IsNaN(r) || r < 0 {
		return 0
	}
	return math.Min(5, r)
}
