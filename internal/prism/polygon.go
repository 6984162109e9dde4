package prism

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"
)

var (
	ErrDegeneratePolygon = errors.New("degenerate polygon")
	ErrNotConvex         = errors.New("polygon is not convex")
	ErrNoSurfaceNormal   = errors.New("no surface normal found")
)

// Polygon is an immutable convex polygon in local (unrotated) coordinates.
// The local origin is the polygon's area centroid. Vertices are kept sorted by
// ascending centroid angle in [0, 2π): counter-clockwise with Y up, clockwise
// on a Y-down screen.
type Polygon struct {
	vertices []Point
	angles   []Angle // angles[i]: centroid angle of vertices[i], ascending
	normals  []Angle // normals[i]: inward normal of edge vertices[i-1] -> vertices[i]
	radius   Real
	area     Real
}

// NewPolygon validates and builds a convex polygon. The input may be given in
// any rotational order and at any offset; it is re-centred on its centroid.
func NewPolygon(vertices []Point) (*Polygon, error) {
	n := len(vertices)
	if n < 3 {
		return nil, fmt.Errorf("%w: need at least 3 vertices, got %d", ErrDegeneratePolygon, n)
	}
	vs := make([]Point, n)
	var avg Point
	for i, v := range vertices {
		if !isFinite(v.X) || !isFinite(v.Y) {
			return nil, fmt.Errorf("%w: vertex %d is not finite: %+v", ErrDegeneratePolygon, i, v)
		}
		vs[i] = v
		avg = r2.Add(avg, v)
	}
	avg = r2.Scale(1/Real(n), avg)

	// Any interior point gives the same cyclic order for a convex polygon.
	sortByAngle(vs, avg)
	area, c := areaCentroid(vs)
	if area < Zeroish {
		return nil, fmt.Errorf("%w: area %.12g", ErrDegeneratePolygon, area)
	}
	for i := range vs {
		vs[i] = r2.Sub(vs[i], c)
	}
	sortByAngle(vs, origin)

	p := &Polygon{
		vertices: vs,
		angles:   make([]Angle, n),
		normals:  make([]Angle, n),
		area:     area,
	}
	for i, v := range vs {
		p.angles[i] = Wrap2Pi(math.Atan2(v.Y, v.X))
		if d := r2.Norm(v); d > p.radius {
			p.radius = d
		}
	}
	for i := range vs {
		prev := vs[(i+n-1)%n]
		next := vs[(i+1)%n]
		e := r2.Sub(vs[i], prev)
		if r2.Norm(e) < Zeroish {
			return nil, fmt.Errorf("%w: duplicate vertex %+v", ErrDegeneratePolygon, vs[i])
		}
		if r2.Cross(e, r2.Sub(next, vs[i])) < -Zeroish {
			return nil, fmt.Errorf("%w: reflex vertex %+v", ErrNotConvex, vs[i])
		}
		nrm := leftNormal(e)
		mid := r2.Scale(0.5, r2.Add(prev, vs[i]))
		if r2.Dot(nrm, mid) > 0 {
			nrm = r2.Scale(-1, nrm)
		}
		p.normals[i], _ = DirAngle(nrm)
	}
	DebugLog("Created polygon n=%d area=%.5f radius=%.5f angles=%v", n, area, p.radius, p.angles)
	return p, nil
}

// NewTriangle returns an isosceles triangle with its apex pointing along +Y.
func NewTriangle(width, height Real) (*Polygon, error) {
	return NewPolygon([]Point{
		Pt(width/2, -height/2),
		Pt(-width/2, -height/2),
		Pt(0, height/2),
	})
}

// NewRectangle returns an axis-aligned width x height rectangle.
func NewRectangle(width, height Real) (*Polygon, error) {
	return NewPolygon([]Point{
		Pt(width/2, -height/2),
		Pt(-width/2, -height/2),
		Pt(-width/2, height/2),
		Pt(width/2, height/2),
	})
}

func sortByAngle(vs []Point, center Point) {
	sort.SliceStable(vs, func(i, j int) bool {
		return Wrap2Pi(AngleFrom(center, vs[i])) < Wrap2Pi(AngleFrom(center, vs[j]))
	})
}

// areaCentroid uses the shoelace formula; area is positive for counter-clockwise order.
func areaCentroid(vs []Point) (Real, Point) {
	var a2, cx, cy Real
	n := len(vs)
	for i := 0; i < n; i++ {
		p, q := vs[i], vs[(i+1)%n]
		cr := r2.Cross(p, q)
		a2 += cr
		cx += (p.X + q.X) * cr
		cy += (p.Y + q.Y) * cr
	}
	if math.Abs(a2) < Zeroish {
		return 0, Point{}
	}
	return a2 / 2, Pt(cx/(3*a2), cy/(3*a2))
}

// Contains reports whether p lies within the closed polygon boundary.
func (p *Polygon) Contains(pt Point) bool {
	if r2.Norm(pt) > p.radius+Zeroish {
		return false
	}
	inside := false
	n := len(p.vertices)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := p.vertices[j], p.vertices[i]
		if onSegment(pt, a, b) {
			return true
		}
		if (a.Y > pt.Y) != (b.Y > pt.Y) {
			x := a.X + (pt.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
			if pt.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

func onSegment(p, a, b Point) bool {
	ab := r2.Sub(b, a)
	ap := r2.Sub(p, a)
	l := r2.Norm(ab)
	if math.Abs(r2.Cross(ab, ap)) > Zeroish*maxReal(l, 1) {
		return false
	}
	d := r2.Dot(ap, ab)
	return d >= -Zeroish && d <= l*l+Zeroish
}

func maxReal(a, b Real) Real {
	if a > b {
		return a
	}
	return b
}

// SurfaceNormal returns the inward normal of the edge hit by the ray leaving the
// centroid at localAngle. An angle equal to a vertex angle belongs to the edge
// that vertex closes: edge i covers (angles[i-1], angles[i]].
func (p *Polygon) SurfaceNormal(localAngle Angle) (Angle, error) {
	if !isFinite(localAngle) || len(p.normals) == 0 {
		return 0, fmt.Errorf("%w: local angle %v", ErrNoSurfaceNormal, localAngle)
	}
	a := Wrap2Pi(localAngle)
	for i, va := range p.angles {
		if a <= va {
			return p.normals[i], nil
		}
	}
	return p.normals[0], nil
}

// Vertices returns a copy of the local vertices, sorted by centroid angle.
func (p *Polygon) Vertices() []Point {
	out := make([]Point, len(p.vertices))
	copy(out, p.vertices)
	return out
}

// VertexAngles returns a copy of the ascending centroid angles of the vertices.
func (p *Polygon) VertexAngles() []Angle {
	out := make([]Angle, len(p.angles))
	copy(out, p.angles)
	return out
}

func (p *Polygon) BoundingRadius() Real { return p.radius }

func (p *Polygon) Area() Real { return p.area }
