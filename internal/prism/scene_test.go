package prism

import (
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"
)

func bounds(minX, minY, maxX, maxY Real) r2.Box {
	return r2.Box{Min: Pt(minX, minY), Max: Pt(maxX, maxY)}
}

func newTestScene(t *testing.T, lightPos Point, lightDir Angle) *Scene {
	t.Helper()
	l, err := NewLight(lightPos, lightDir)
	if err != nil {
		t.Fatal(err)
	}
	s, err := NewScene(bounds(SceneMinX, SceneMinY, SceneMaxX, SceneMaxY), l)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func addElement(t *testing.T, s *Scene, kind Kind, shape *Polygon, err error, center Point, rot Angle) *Element {
	t.Helper()
	e := mustElement(t, kind, shape, err, center, rot)
	s.AddElement(e)
	return e
}

func TestNewSceneBounds(t *testing.T) {
	l, _ := NewLight(Pt(0, 0), 0)
	s, err := NewScene(bounds(10, 10, -10, -20), l)
	if err != nil {
		t.Fatal(err)
	}
	if s.Bounds.Min != Pt(-10, -20) || s.Bounds.Max != Pt(10, 10) {
		t.Fatalf("bounds not canonicalised: %+v", s.Bounds)
	}
	if !s.InBounds(Pt(10, 10)) || s.InBounds(Pt(10.1, 0)) {
		t.Fatal("InBounds wrong")
	}
	if _, err := NewScene(bounds(0, 0, 0, 10), l); err == nil {
		t.Fatal("zero-area bounds accepted")
	}
	if _, err := NewScene(bounds(0, 0, 1, 1), nil); err == nil {
		t.Fatal("scene without light accepted")
	}
}

func TestSetElementPose(t *testing.T) {
	s := newTestScene(t, Pt(-300, 0), 0)
	shape, err := NewRectangle(10, 10)
	e := addElement(t, s, KindSlab, shape, err, Pt(0, 0), 0)

	if err := s.SetElementPose(e.ID, Pt(100, 50), Rad(450)); err != nil {
		t.Fatal(err)
	}
	got, ok := s.Element(e.ID)
	if !ok || got != e {
		t.Fatal("element lookup failed")
	}
	if e.Center != Pt(100, 50) || !nearly(e.Rotation, math.Pi/2, 1e-9) {
		t.Fatalf("pose not applied: %+v %.12g", e.Center, e.Rotation)
	}
	if !nearly(e.Bounds().Min.X, 95, 1e-9) {
		t.Fatalf("bounds not refreshed: %+v", e.Bounds())
	}
	if err := s.SetElementPose(uuid.New(), Pt(0, 0), 0); !errors.Is(err, ErrUnknownElement) {
		t.Fatalf("unknown id: want ErrUnknownElement, got %v", err)
	}
	if err := s.SetElementPose(e.ID, Pt(math.NaN(), 0), 0); err == nil {
		t.Fatal("NaN pose accepted")
	}
}

func TestSetLightSourcePose(t *testing.T) {
	s := newTestScene(t, Pt(0, 0), 0)
	if err := s.SetLightSourcePose(Pt(5, -5), Rad(-270)); err != nil {
		t.Fatal(err)
	}
	if s.Light.Position != Pt(5, -5) || !nearly(s.Light.Direction, math.Pi/2, 1e-9) {
		t.Fatalf("light pose not applied: %+v", s.Light)
	}
	if err := s.SetLightSourcePose(Pt(0, 0), math.Inf(-1)); err == nil {
		t.Fatal("infinite direction accepted")
	}
}
