package prism

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Dir returns the unit vector pointing along a.
func Dir(a Angle) r2.Vec {
	s, c := math.Sincos(a)
	return r2.Vec{X: c, Y: s}
}

// DirAngle returns the direction of v, or false for a (near) zero vector.
func DirAngle(v r2.Vec) (Angle, bool) {
	if r2.Norm(v) < Zeroish {
		return 0, false
	}
	return math.Atan2(v.Y, v.X), true
}

// leftNormal is v rotated by +90°.
func leftNormal(v r2.Vec) r2.Vec { return r2.Vec{X: -v.Y, Y: v.X} }
