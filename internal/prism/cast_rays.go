package prism

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrOverlap           = errors.New("overlapping elements")
	ErrInvalidStep       = errors.New("invalid step")
	ErrInvalidWavelength = errors.New("invalid wavelength")
)

// Reason tells why a trace ended.
type Reason uint8

const (
	OffScreen       Reason = iota // left the scene bounds (normal completion)
	OverlapDetected               // two elements share the sampled point
	NoSurfaceNormal               // boundary normal could not be resolved
	StartedInside                 // light source lies inside an element
	CrossingLimit                 // ran out of boundary crossings
	StepLimit                     // ran out of steps
)

func (r Reason) String() string {
	switch r {
	case OffScreen:
		return "off_screen"
	case OverlapDetected:
		return "overlap_detected"
	case NoSurfaceNormal:
		return "no_surface_normal"
	case StartedInside:
		return "started_inside"
	case CrossingLimit:
		return "crossing_limit"
	case StepLimit:
		return "step_limit"
	default:
		return fmt.Sprintf("reason(%d)", uint8(r))
	}
}

type EventKind uint8

const (
	EventEnter  EventKind = iota // refraction air -> glass
	EventExit                    // refraction glass -> air
	EventTIR                     // total internal reflection inside glass
	EventMirror                  // reflection off a mirror
)

func (k EventKind) String() string {
	switch k {
	case EventEnter:
		return "enter"
	case EventExit:
		return "exit"
	case EventTIR:
		return "tir"
	case EventMirror:
		return "mirror"
	default:
		return fmt.Sprintf("event(%d)", uint8(k))
	}
}

// Event is one boundary interaction along a path.
type Event struct {
	Kind     EventKind
	Element  uuid.UUID
	At       Point // boundary crossing, within Zeroish
	Incoming Angle
	Outgoing Angle
}

// Path is the traced polyline of one wavelength.
type Path struct {
	Wavelength Real
	Points     []Point
	Events     []Event
	Reason     Reason
	Direction  Angle // direction when the trace ended
	Err        error
}

type TracerOptions struct {
	Step     Real // world units per advance
	MaxSteps int  // hard cap on advances per trace
}

// Tracer marches rays through a scene; it holds no per-trace state and is safe
// for concurrent use.
type Tracer struct {
	step     Real
	maxSteps int
}

func NewTracer(opts TracerOptions) (*Tracer, error) {
	if !isFinite(opts.Step) || opts.Step < MinStep {
		return nil, fmt.Errorf("%w: %v (minimum %v)", ErrInvalidStep, opts.Step, MinStep)
	}
	maxSteps := opts.MaxSteps
	if maxSteps <= 0 {
		maxSteps = MaxSteps
		DebugLogOnce("Tracer MaxSteps not set, using %d", maxSteps)
	}
	return &Tracer{step: opts.Step, maxSteps: maxSteps}, nil
}

func (t *Tracer) Step() Real { return t.step }

func (t *Tracer) MaxSteps() int { return t.maxSteps }

// Trace follows the scene's light at one wavelength until it leaves the bounds or
// a limit is reached. On error the returned path keeps the polyline traced so far
// and carries the same error in Err.
func (t *Tracer) Trace(scene *Scene, wavelength Real) (*Path, error) {
	if !isFinite(wavelength) || wavelength <= 0 {
		return nil, fmt.Errorf("%w: %v nm", ErrInvalidWavelength, wavelength)
	}
	if scene == nil || scene.Light == nil {
		return nil, errors.New("trace needs a scene with a light")
	}
	n := RefractiveIndex(wavelength)
	if !isFinite(n) || n <= 0 {
		return nil, fmt.Errorf("%w: %v nm gives refractive index %v", ErrInvalidWavelength, wavelength, n)
	}

	pos := scene.Light.Position
	dir := scene.Light.Direction
	path := &Path{Wavelength: wavelength, Direction: dir}

	if e, ok := otherElementAt(scene, pos, nil); ok {
		DebugLog("Light %+v starts inside %s %s", pos, e.Kind, e.ID)
		if Debug {
			logRay("started_inside", Inside, wavelength, pos, dir, 0)
		}
		path.Reason = StartedInside
		return path, nil
	}
	path.Points = append(path.Points, pos)

	maxCrossings := CrossingsPerObj * len(scene.Elements)
	crossings := 0
	var inside *Element // nil while in air
	hits := make([]*Element, 0, 2)

	fail := func(reason Reason, err error) (*Path, error) {
		path.Reason = reason
		path.Direction = dir
		path.Err = err
		return path, err
	}
	done := func(reason Reason) (*Path, error) {
		path.Reason = reason
		path.Direction = dir
		return path, nil
	}

	for step := 1; ; step++ {
		if step > t.maxSteps {
			if Debug {
				logRay("step_limit", Limit, wavelength, pos, dir, step)
			}
			return done(StepLimit)
		}
		next := Advance(pos, dir, t.step)
		if !scene.InBounds(next) {
			path.Points = append(path.Points, next)
			if Debug {
				logRay("off_screen", Escape, wavelength, next, dir, step)
			}
			return done(OffScreen)
		}

		if inside == nil {
			hits = elementsAt(scene, next, hits)
			if len(hits) == 0 {
				path.Points = append(path.Points, next)
				pos = next
				continue
			}
			if len(hits) > 1 {
				path.Points = append(path.Points, next)
				if Debug {
					logRay("overlap", Overlap, wavelength, next, dir, step)
				}
				return fail(OverlapDetected, fmt.Errorf("%w: %s and %s at %+v", ErrOverlap, hits[0].ID, hits[1].ID, next))
			}
			e := hits[0]
			if crossings >= maxCrossings {
				if Debug {
					logRay("crossing_limit", Limit, wavelength, pos, dir, step)
				}
				return done(CrossingLimit)
			}
			crossings++

			air, glass := boundaryCrossing(e, pos, next)
			if e.Kind == KindMirror {
				// Turn on the air side so no point lands inside the mirror.
				out := MirrorDirection(dir, e.Rotation)
				path.Points = append(path.Points, air)
				path.Events = append(path.Events, Event{Kind: EventMirror, Element: e.ID, At: air, Incoming: dir, Outgoing: out})
				if Debug {
					logRay("mirror", Reflect, wavelength, air, out, step)
				}
				dir = out
				pos = air
				continue
			}

			normal, err := e.SurfaceNormalAtWorldPoint(glass)
			if err != nil {
				path.Points = append(path.Points, glass)
				if Debug {
					logRay("no_normal", NoNormal, wavelength, glass, dir, step)
				}
				return fail(NoSurfaceNormal, err)
			}
			// Air to glass never reaches the critical angle.
			o := RefractedDirection(dir, normal, AirIndex/n, true)
			path.Points = append(path.Points, glass)
			path.Events = append(path.Events, Event{Kind: EventEnter, Element: e.ID, At: glass, Incoming: dir, Outgoing: o.Direction})
			if Debug {
				logRay("enter", Refract, wavelength, glass, o.Direction, step)
			}
			dir = o.Direction
			pos = glass
			inside = e
			continue
		}

		// Inside glass.
		if other, ok := otherElementAt(scene, next, inside); ok {
			path.Points = append(path.Points, next)
			if Debug {
				logRay("overlap", Overlap, wavelength, next, dir, step)
			}
			return fail(OverlapDetected, fmt.Errorf("%w: %s and %s at %+v", ErrOverlap, inside.ID, other.ID, next))
		}
		if inside.ContainsWorldPoint(next) {
			path.Points = append(path.Points, next)
			pos = next
			continue
		}

		glass, air := boundaryCrossing(inside, pos, next)
		normal, err := inside.SurfaceNormalAtWorldPoint(glass)
		if err != nil {
			path.Points = append(path.Points, glass)
			if Debug {
				logRay("no_normal", NoNormal, wavelength, glass, dir, step)
			}
			return fail(NoSurfaceNormal, err)
		}
		o := RefractedDirection(dir, normal, n/AirIndex, false)
		if o.Kind == TotallyInternallyReflected {
			// Stay inside: turn at the glass side of the boundary.
			path.Points = append(path.Points, glass)
			path.Events = append(path.Events, Event{Kind: EventTIR, Element: inside.ID, At: glass, Incoming: dir, Outgoing: o.Direction})
			if Debug {
				logRay("tir", TIR, wavelength, glass, o.Direction, step)
			}
			dir = o.Direction
			pos = glass
			continue
		}
		if crossings >= maxCrossings {
			if Debug {
				logRay("crossing_limit", Limit, wavelength, pos, dir, step)
			}
			return done(CrossingLimit)
		}
		crossings++
		path.Points = append(path.Points, air)
		path.Events = append(path.Events, Event{Kind: EventExit, Element: inside.ID, At: air, Incoming: dir, Outgoing: o.Direction})
		if Debug {
			logRay("exit", Refract, wavelength, air, o.Direction, step)
		}
		dir = o.Direction
		pos = air
		inside = nil
	}
}
