package prism

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Point represents a position in the 2D scene (or in an element's local frame).
type Point = r2.Vec

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y Real) Point { return Point{X: x, Y: y} }

// Advance moves p by dist along direction a.
func Advance(p Point, a Angle, dist Real) Point {
	return r2.Add(p, r2.Scale(dist, Dir(a)))
}

// AngleFrom returns the signed direction of the vector from -> to.
func AngleFrom(from, to Point) Angle {
	d := r2.Sub(to, from)
	return math.Atan2(d.Y, d.X)
}
