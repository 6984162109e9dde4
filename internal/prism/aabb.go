package prism

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// worldAABB bounds the posed polygon; recomputed whenever the pose changes.
func worldAABB(shape *Polygon, center Point, rotation Angle) r2.Box {
	box := r2.Box{
		Min: r2.Vec{X: 1e300, Y: 1e300},
		Max: r2.Vec{X: -1e300, Y: -1e300},
	}
	for _, v := range shape.vertices {
		w := toWorld(v, center, rotation)
		box.Min.X = min(box.Min.X, w.X)
		box.Min.Y = min(box.Min.Y, w.Y)
		box.Max.X = max(box.Max.X, w.X)
		box.Max.Y = max(box.Max.Y, w.Y)
	}
	return box
}

func inBox(p Point, box r2.Box, eps Real) bool {
	return p.X >= box.Min.X-eps && p.X <= box.Max.X+eps &&
		p.Y >= box.Min.Y-eps && p.Y <= box.Max.Y+eps
}
