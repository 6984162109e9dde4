package prism

import (
	"math"
)

type Real = float64

// Angle is measured in radians, counter-clockwise from +X in scene coordinates.
type Angle = Real

func isFinite(x Real) bool { return !math.IsInf(x, 0) && !math.IsNaN(x) }

func imax(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// WrapPi converts angle to (-π, π].
func WrapPi(a Angle) Angle {
	r := math.Mod(a, 2*math.Pi)
	if r > math.Pi {
		r -= 2 * math.Pi
	} else if r <= -math.Pi {
		r += 2 * math.Pi
	}
	return r
}

// Wrap2Pi converts angle to [0, 2π).
func Wrap2Pi(a Angle) Angle {
	r := math.Mod(a, 2*math.Pi)
	if r < 0 {
		r += 2 * math.Pi
	}
	if r >= 2*math.Pi {
		r = 0
	}
	return r
}

func Rad(deg Real) Angle { return deg * math.Pi / 180 }

func Deg(rad Angle) Real { return rad * 180 / math.Pi }
