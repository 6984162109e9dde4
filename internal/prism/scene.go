package prism

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"
)

var ErrUnknownElement = errors.New("unknown element")

// Scene is an ordered set of optical elements lit by exactly one light and
// clipped to Bounds. Poses are mutated only between traces.
type Scene struct {
	Bounds   r2.Box
	Light    *Light
	Elements []*Element
}

// NewScene creates an empty scene; bounds are canonicalised so Min <= Max.
func NewScene(bounds r2.Box, light *Light) (*Scene, error) {
	if light == nil {
		return nil, errors.New("scene needs a light")
	}
	b := r2.Box{
		Min: r2.Vec{X: min(bounds.Min.X, bounds.Max.X), Y: min(bounds.Min.Y, bounds.Max.Y)},
		Max: r2.Vec{X: max(bounds.Min.X, bounds.Max.X), Y: max(bounds.Min.Y, bounds.Max.Y)},
	}
	if b.Max.X-b.Min.X <= 0 || b.Max.Y-b.Min.Y <= 0 {
		return nil, fmt.Errorf("scene bounds must have positive area, got %+v", bounds)
	}
	s := &Scene{Bounds: b, Light: light}
	DebugLog("Created scene bounds=%+v", b)
	return s, nil
}

func (s *Scene) AddElement(e *Element) {
	s.Elements = append(s.Elements, e)
}

// Element looks an element up by id.
func (s *Scene) Element(id uuid.UUID) (*Element, bool) {
	for _, e := range s.Elements {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}

// SetElementPose moves and rotates an element; called by the interaction layer
// between traces.
func (s *Scene) SetElementPose(id uuid.UUID, center Point, rotation Angle) error {
	e, ok := s.Element(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownElement, id)
	}
	if !isFinite(center.X) || !isFinite(center.Y) || !isFinite(rotation) {
		return fmt.Errorf("element %s: pose must be finite", id)
	}
	e.setPose(center, rotation)
	return nil
}

// SetLightSourcePose moves and aims the light.
func (s *Scene) SetLightSourcePose(position Point, direction Angle) error {
	if !isFinite(position.X) || !isFinite(position.Y) || !isFinite(direction) {
		return errors.New("light pose must be finite")
	}
	s.Light.Position = position
	s.Light.Direction = WrapPi(direction)
	return nil
}

// InBounds reports whether p is on screen (bounds inclusive).
func (s *Scene) InBounds(p Point) bool { return inBox(p, s.Bounds, 0) }
