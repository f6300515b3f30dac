package rating

import "math"

const neutral = 0.5

// Dominance turns the accumulated scores of i against j (sij) and of j
// against i (sji) into the matrix entry a(i,j). The Laplace-smoothed win
// fraction is pushed away from 0.5 along a square-root curve, so
// Dominance(a, b) + Dominance(b, a) == 1.
func Dominance(sij, sji float64) float64 {
	x := (sij + 1) / (sij + sji + 2)
	return neutral + neutral*sign(x-neutral)*math.Sqrt(math.Abs(2*x-1))
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
