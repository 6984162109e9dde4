package prism

import (
	"math"
	"testing"
)

func TestElementsAt(t *testing.T) {
	s := newTestScene(t, Pt(-300, 0), 0)
	sq, err := NewRectangle(100, 100)
	a := addElement(t, s, KindSlab, sq, err, Pt(0, 0), 0)
	b := addElement(t, s, KindSlab, sq, nil, Pt(40, 0), 0)

	if got := elementsAt(s, Pt(-30, 0), nil); len(got) != 1 || got[0] != a {
		t.Fatalf("single hit: %v", got)
	}
	if got := elementsAt(s, Pt(20, 0), nil); len(got) != 2 || got[0] != a || got[1] != b {
		t.Fatalf("scene order not kept: %v", got)
	}
	if got := elementsAt(s, Pt(200, 0), make([]*Element, 0, 2)); len(got) != 0 {
		t.Fatalf("miss: %v", got)
	}
	if e, ok := otherElementAt(s, Pt(20, 0), a); !ok || e != b {
		t.Fatalf("otherElementAt skipped wrong element: %v %v", e, ok)
	}
	if _, ok := otherElementAt(s, Pt(-30, 0), a); ok {
		t.Fatal("otherElementAt reported the skipped element")
	}
}

func TestBoundaryCrossing(t *testing.T) {
	sq, err := NewRectangle(100, 100)
	e := mustElement(t, KindSlab, sq, err, Pt(0, 0), 0)

	out, in := boundaryCrossing(e, Pt(-50.4, 10), Pt(-49.9, 10))
	if e.ContainsWorldPoint(out) || !e.ContainsWorldPoint(in) {
		t.Fatalf("sides swapped: out=%+v in=%+v", out, in)
	}
	if !nearly(in.X, -50, 1e-8) || !nearly(out.X, -50, 1e-8) || in.Y != 10 {
		t.Fatalf("crossing out=%+v in=%+v, want x=-50", out, in)
	}

	in, out = boundaryCrossing(e, Pt(49.7, -20), Pt(50.2, -20))
	if !e.ContainsWorldPoint(in) || e.ContainsWorldPoint(out) {
		t.Fatalf("sides swapped leaving: in=%+v out=%+v", in, out)
	}
	if !nearly(out.X, 50, 1e-8) {
		t.Fatalf("exit crossing %+v, want x=50", out)
	}
}

func TestNewLight(t *testing.T) {
	l, err := NewLight(Pt(1, 2), Rad(270))
	if err != nil {
		t.Fatal(err)
	}
	if !nearly(l.Direction, -math.Pi/2, 1e-12) {
		t.Fatalf("direction not wrapped: %.12g", l.Direction)
	}
	if _, err := NewLight(Pt(math.NaN(), 0), 0); err == nil {
		t.Fatal("NaN position accepted")
	}
	if _, err := NewLight(Pt(0, 0), math.Inf(1)); err == nil {
		t.Fatal("infinite direction accepted")
	}
}
