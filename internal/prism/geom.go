package prism

import "math"

// OutcomeKind tags the result of a boundary interaction.
type OutcomeKind uint8

const (
	Refracted OutcomeKind = iota
	TotallyInternallyReflected
)

func (k OutcomeKind) String() string {
	if k == TotallyInternallyReflected {
		return "total_internal_reflection"
	}
	return "refracted"
}

type Outcome struct {
	Kind      OutcomeKind
	Direction Angle // signed, (-π, π]
}

// RefractedDirection applies Snell's law at a boundary.
// Contract: surfaceNormal is the inward normal reported by the element and
// relativeIndex must be n_from/n_to for the *current* crossing:
//   - air -> glass (entering): n_air/n_glass
//   - glass -> air (exiting):  n_glass/n_air
func RefractedDirection(incoming, surfaceNormal Angle, relativeIndex Real, entering bool) Outcome {
	// Face the normal along the direction of travel.
	normal := WrapPi(surfaceNormal)
	if !entering {
		normal = WrapPi(normal + math.Pi)
	}
	incoming = WrapPi(incoming)
	aoi := WrapPi(normal - incoming)
	s := relativeIndex * math.Sin(aoi)
	if math.Abs(s) > 1 {
		return Outcome{
			Kind:      TotallyInternallyReflected,
			Direction: WrapPi(math.Pi - incoming + 2*normal),
		}
	}
	return Outcome{
		Kind:      Refracted,
		Direction: WrapPi(normal - math.Asin(s)),
	}
}

// MirrorDirection reflects about a mirror whose reflecting faces are normal to rotation.
func MirrorDirection(incoming, rotation Angle) Angle {
	return WrapPi(math.Pi - WrapPi(incoming) + 2*rotation)
}

// CriticalAngle returns the incidence above which light travelling from nFrom into
// nTo is totally reflected, or NaN when nFrom <= nTo.
func CriticalAngle(nFrom, nTo Real) Angle {
	if nFrom <= nTo {
		return math.NaN()
	}
	return math.Asin(nTo / nFrom)
}
