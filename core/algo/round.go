package algo

import "math"

// fixedPointScale is the grid values are snapped to before decimal rounding.
// Sums like 0.25*0.75 + ... land a few ULPs below the decimal they represent.
const fixedPointScale = 1e6

// Round1 rounds v to one decimal place, half away from zero.
func Round1(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	snapped := math.Round(v * fixedPointScale)
	return math.Round(snapped/(fixedPointScale/10)) / 10
}

// toPercentage converts a 0-1 fraction to a rounded 0-100 percentage.
func toPercentage(raw float64) float64 {
	return Round1(raw * 100)
}
