package prism

import (
	"errors"
)

// Light is the single beam source of a scene: rays leave Position heading Direction.
type Light struct {
	Position  Point
	Direction Angle // signed, (-π, π]
}

// NewLight validates and constructs a light source.
func NewLight(position Point, direction Angle) (*Light, error) {
	if !isFinite(position.X) || !isFinite(position.Y) {
		return nil, errors.New("light position must be finite")
	}
	if !isFinite(direction) {
		return nil, errors.New("light direction must be finite")
	}
	l := &Light{Position: position, Direction: WrapPi(direction)}
	DebugLog("Created light %+v", l)
	return l, nil
}
