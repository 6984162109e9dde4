package prism

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"
)

// Element is a posed optical body: a Polygon placed at Center and turned by Rotation.
type Element struct {
	ID       uuid.UUID
	Kind     Kind
	Shape    *Polygon
	Center   Point
	Rotation Angle // signed, (-π, π]

	// cached
	aabb r2.Box
}

func NewElement(kind Kind, shape *Polygon, center Point, rotation Angle) (*Element, error) {
	if shape == nil {
		return nil, fmt.Errorf("%w: nil shape", ErrDegeneratePolygon)
	}
	if !isFinite(center.X) || !isFinite(center.Y) || !isFinite(rotation) {
		return nil, fmt.Errorf("element pose must be finite, got center=%+v rotation=%v", center, rotation)
	}
	e := &Element{
		ID:    uuid.New(),
		Kind:  kind,
		Shape: shape,
	}
	e.setPose(center, rotation)
	DebugLog("Created %s %s at %+v rot=%.3f°", kind, e.ID, center, Deg(e.Rotation))
	return e, nil
}

func (e *Element) setPose(center Point, rotation Angle) {
	e.Center = center
	e.Rotation = WrapPi(rotation)
	e.aabb = worldAABB(e.Shape, e.Center, e.Rotation)
}

// Bounds returns the world-space axis aligned bounding box.
func (e *Element) Bounds() r2.Box { return e.aabb }

// ContainsWorldPoint reports whether p lies within the posed polygon (boundary included).
func (e *Element) ContainsWorldPoint(p Point) bool {
	if !inBox(p, e.aabb, Zeroish) {
		return false
	}
	return e.Shape.Contains(toLocal(p, e.Center, e.Rotation))
}

// SurfaceNormalAtWorldPoint returns the inward normal (world frame, signed) of the
// edge facing p, addressed by the angle from the element centre to p.
func (e *Element) SurfaceNormalAtWorldPoint(p Point) (Angle, error) {
	d := r2.Sub(p, e.Center)
	if r2.Norm(d) < Zeroish {
		return 0, fmt.Errorf("%w: point %+v is the centre of element %s", ErrNoSurfaceNormal, p, e.ID)
	}
	local := Wrap2Pi(math.Atan2(d.Y, d.X) - e.Rotation)
	n, err := e.Shape.SurfaceNormal(local)
	if err != nil {
		return 0, fmt.Errorf("element %s: %w", e.ID, err)
	}
	return WrapPi(n + e.Rotation), nil
}

// WorldVertices returns the posed polygon outline.
func (e *Element) WorldVertices() []Point {
	out := make([]Point, len(e.Shape.vertices))
	for i, v := range e.Shape.vertices {
		out[i] = toWorld(v, e.Center, e.Rotation)
	}
	return out
}
