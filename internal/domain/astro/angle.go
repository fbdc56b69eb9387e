package astro

import "math"

// Norm360 folds any angle in degrees into [0, 360).
func Norm360(x float64) float64 {
	r := math.Mod(math.Mod(x, 360)+360, 360)
	// math.Mod can round a tiny negative remainder up to exactly 360.
	if r >= 360 {
		return 0
	}
	return r
}

// Opposite returns the point 180° across the circle from x.
func Opposite(x float64) float64 { return Norm360(x + 180) }
