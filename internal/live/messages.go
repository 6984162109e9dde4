package live

import (
	"math"

	"github.com/lukaszgryglicki/prisms2d/internal/prism"
)

const (
	TypeElementPose = "element_pose"
	TypeLightPose   = "light_pose"
	TypeScene       = "scene"
	TypeFrame       = "frame"
	TypeError       = "error"
)

// Inbound is a client gesture: move/rotate an element or the light.
type Inbound struct {
	Type     string  `json:"type"`
	ID       string  `json:"id,omitempty"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	AngleDeg float64 `json:"angleDeg"`
}

type ElementInfo struct {
	ID       string       `json:"id"`
	Kind     string       `json:"kind"`
	X        float64      `json:"x"`
	Y        float64      `json:"y"`
	RotDeg   float64      `json:"rotDeg"`
	Vertices [][2]float64 `json:"vertices"`
}

type LightInfo struct {
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	DirectionDeg float64 `json:"directionDeg"`
}

type SceneMsg struct {
	Type     string        `json:"type"`
	Bounds   [4]float64    `json:"bounds"` // minX, minY, maxX, maxY
	Light    LightInfo     `json:"light"`
	Elements []ElementInfo `json:"elements"`
}

type PathInfo struct {
	Wavelength float64      `json:"wavelength"`
	Reason     string       `json:"reason"`
	Error      string       `json:"error,omitempty"`
	Points     [][2]float64 `json:"points"`
}

type FrameMsg struct {
	Type  string     `json:"type"`
	Seq   uint64     `json:"seq"`
	Paths []PathInfo `json:"paths"`
}

type ErrorMsg struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

func sceneMsg(s *prism.Scene) SceneMsg {
	msg := SceneMsg{
		Type:   TypeScene,
		Bounds: [4]float64{s.Bounds.Min.X, s.Bounds.Min.Y, s.Bounds.Max.X, s.Bounds.Max.Y},
		Light: LightInfo{
			X:            s.Light.Position.X,
			Y:            s.Light.Position.Y,
			DirectionDeg: prism.Deg(s.Light.Direction),
		},
		Elements: make([]ElementInfo, 0, len(s.Elements)),
	}
	for _, e := range s.Elements {
		info := ElementInfo{
			ID:     e.ID.String(),
			Kind:   e.Kind.String(),
			X:      e.Center.X,
			Y:      e.Center.Y,
			RotDeg: prism.Deg(e.Rotation),
		}
		for _, v := range e.WorldVertices() {
			info.Vertices = append(info.Vertices, [2]float64{v.X, v.Y})
		}
		msg.Elements = append(msg.Elements, info)
	}
	return msg
}

func frameMsg(seq uint64, paths []*prism.Path) FrameMsg {
	msg := FrameMsg{Type: TypeFrame, Seq: seq, Paths: make([]PathInfo, 0, len(paths))}
	for _, p := range paths {
		info := PathInfo{Wavelength: p.Wavelength, Reason: p.Reason.String()}
		if p.Err != nil {
			info.Error = p.Err.Error()
		}
		for _, pt := range simplify(p.Points) {
			info.Points = append(info.Points, [2]float64{pt.X, pt.Y})
		}
		msg.Paths = append(msg.Paths, info)
	}
	return msg
}

// simplify keeps only the corners of a stepped polyline; straight runs collapse
// to their end points.
func simplify(pts []prism.Point) []prism.Point {
	if len(pts) <= 2 {
		return pts
	}
	out := []prism.Point{pts[0]}
	for i := 1; i < len(pts)-1; i++ {
		a, b, c := out[len(out)-1], pts[i], pts[i+1]
		abx, aby := b.X-a.X, b.Y-a.Y
		bcx, bcy := c.X-b.X, c.Y-b.Y
		// Distance of b from the chord a-c; a boundary crossing may sit
		// arbitrarily close to the sample before it.
		chord := math.Hypot(c.X-a.X, c.Y-a.Y)
		off := math.Abs((c.X-a.X)*aby - (c.Y-a.Y)*abx)
		if off > 1e-9*chord*math.Max(chord, 1) || abx*bcx+aby*bcy < 0 {
			out = append(out, b)
		}
	}
	return append(out, pts[len(pts)-1])
}
