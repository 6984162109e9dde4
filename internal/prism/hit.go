package prism

import "gonum.org/v1/gonum/spatial/r2"

// elementsAt appends every element containing p to dst, in scene order.
func elementsAt(scene *Scene, p Point, dst []*Element) []*Element {
	dst = dst[:0]
	for _, e := range scene.Elements {
		if e.ContainsWorldPoint(p) {
			dst = append(dst, e)
		}
	}
	return dst
}

// otherElementAt returns the first element other than skip that contains p.
func otherElementAt(scene *Scene, p Point, skip *Element) (*Element, bool) {
	for _, e := range scene.Elements {
		if e == skip {
			continue
		}
		if e.ContainsWorldPoint(p) {
			return e, true
		}
	}
	return nil, false
}

// maxBisections bounds boundaryCrossing; 64 halvings exhaust float64 precision.
const maxBisections = 64

// boundaryCrossing bisects the segment a -> b, whose end points lie on opposite
// sides of e's boundary, until the pair is within Zeroish. near keeps a's side
// and far keeps b's side.
func boundaryCrossing(e *Element, a, b Point) (near, far Point) {
	inA := e.ContainsWorldPoint(a)
	near, far = a, b
	for i := 0; i < maxBisections && r2.Norm(r2.Sub(far, near)) > Zeroish; i++ {
		mid := r2.Add(near, r2.Scale(0.5, r2.Sub(far, near)))
		if e.ContainsWorldPoint(mid) == inA {
			near = mid
		} else {
			far = mid
		}
	}
	return near, far
}
