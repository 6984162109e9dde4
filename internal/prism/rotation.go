package prism

import (
	"gonum.org/v1/gonum/spatial/r2"
)

var origin = r2.Vec{}

// toLocal maps a world point into the frame of a body posed at center with rotation.
func toLocal(p, center Point, rotation Angle) Point {
	return r2.Rotate(r2.Sub(p, center), -rotation, origin)
}

// toWorld is the inverse of toLocal.
func toWorld(p, center Point, rotation Angle) Point {
	return r2.Add(r2.Rotate(p, rotation, origin), center)
}
