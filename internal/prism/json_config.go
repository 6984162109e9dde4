package prism

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/gonum/spatial/r2"
)

type BoundsCfg struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

type WavelengthsCfg struct {
	Min  Real `json:"min"`
	Max  Real `json:"max"`
	Step Real `json:"step"`
}

type LightCfg struct {
	Position     Point `json:"position"`
	DirectionDeg Real  `json:"directionDeg"`
}

// ElementCfg describes one body. Width/Height size the preset shape of Kind;
// Vertices, when given, replace the preset with an arbitrary convex polygon.
type ElementCfg struct {
	Kind     string  `json:"kind"`
	Center   Point   `json:"center"`
	RotDeg   Real    `json:"rotDeg"`
	Width    Real    `json:"width,omitempty"`
	Height   Real    `json:"height,omitempty"`
	Vertices []Point `json:"vertices,omitempty"`
}

type Config struct {
	Bounds      BoundsCfg      `json:"bounds"`
	Step        Real           `json:"step,omitempty"`
	MaxSteps    int            `json:"maxSteps,omitempty"`
	Wavelengths WavelengthsCfg `json:"wavelengths"`
	Light       LightCfg       `json:"light"`
	Elements    []ElementCfg   `json:"elements"`
	PNGOut      string         `json:"pngOut,omitempty"`
	ImageWidth  int            `json:"imageWidth,omitempty"`
	ImageHeight int            `json:"imageHeight,omitempty"`
	LineWidth   Real           `json:"lineWidth,omitempty"`
	RecordDir   string         `json:"recordDir,omitempty"`
	GIFOut      string         `json:"gifOut,omitempty"`
	GIFFrames   int            `json:"gifFrames,omitempty"`
	GIFDelay    int            `json:"gifDelay,omitempty"`
}

func (lc LightCfg) Build() (*Light, error) {
	return NewLight(lc.Position, Rad(lc.DirectionDeg))
}

// Build validates and constructs the runtime element; zero sizes take the preset defaults.
func (ec ElementCfg) Build() (*Element, error) {
	kind, err := ParseKind(ec.Kind)
	if err != nil {
		return nil, err
	}
	var shape *Polygon
	if len(ec.Vertices) > 0 {
		shape, err = NewPolygon(ec.Vertices)
	} else {
		w, h := ec.Width, ec.Height
		if h == 0 {
			h = ElementSize
		}
		if w == 0 {
			switch kind {
			case KindSlab:
				w = SlabWidthRatio * h
			case KindMirror:
				w = MirrorWidthRatio * h
			default:
				w = ElementSize
			}
		}
		if w <= 0 || h <= 0 {
			return nil, fmt.Errorf("%s size must be > 0, got %vx%v", kind, w, h)
		}
		if kind == KindPrism {
			shape, err = NewTriangle(w, h)
		} else {
			shape, err = NewRectangle(w, h)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}
	return NewElement(kind, shape, ec.Center, Rad(ec.RotDeg))
}

func (c *Config) SceneBounds() r2.Box {
	return r2.Box{Min: c.Bounds.Min, Max: c.Bounds.Max}
}

// Build assembles the scene in config order.
func (c *Config) Build() (*Scene, error) {
	light, err := c.Light.Build()
	if err != nil {
		return nil, err
	}
	scene, err := NewScene(c.SceneBounds(), light)
	if err != nil {
		return nil, err
	}
	for i, ec := range c.Elements {
		e, err := ec.Build()
		if err != nil {
			return nil, fmt.Errorf("element #%d: %w", i, err)
		}
		scene.AddElement(e)
	}
	return scene, nil
}

func (c *Config) Tracer() (*Tracer, error) {
	return NewTracer(TracerOptions{Step: c.Step, MaxSteps: c.MaxSteps})
}

func (c *Config) WavelengthList() []Real {
	return Wavelengths(c.Wavelengths.Min, c.Wavelengths.Max, c.Wavelengths.Step)
}

func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseConfig(data, path)
}

func parseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	// Defaults / validation
	if cfg.Bounds.Min == (Point{}) && cfg.Bounds.Max == (Point{}) {
		cfg.Bounds = BoundsCfg{Min: Pt(SceneMinX, SceneMinY), Max: Pt(SceneMaxX, SceneMaxY)}
	}
	if cfg.Step <= 0 {
		cfg.Step = Step
	}
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = MaxSteps
	}
	if cfg.Wavelengths.Min <= 0 {
		cfg.Wavelengths.Min = WavelengthMin
	}
	if cfg.Wavelengths.Max <= 0 {
		cfg.Wavelengths.Max = WavelengthMax
	}
	if cfg.Wavelengths.Step <= 0 {
		cfg.Wavelengths.Step = WavelengthStep
	}
	if cfg.Wavelengths.Max < cfg.Wavelengths.Min {
		return nil, fmt.Errorf("wavelength range is empty: [%v, %v]", cfg.Wavelengths.Min, cfg.Wavelengths.Max)
	}
	if _, ok := wavelengthCount(cfg.Wavelengths.Min, cfg.Wavelengths.Max, cfg.Wavelengths.Step); !ok {
		return nil, fmt.Errorf("wavelength range [%v, %v] at step %v exceeds %d samples", cfg.Wavelengths.Min, cfg.Wavelengths.Max, cfg.Wavelengths.Step, MaxWavelengths)
	}
	if cfg.PNGOut == "" {
		cfg.PNGOut = PNGOut
	}
	if cfg.ImageWidth <= 0 {
		cfg.ImageWidth = ImageWidth
	}
	if cfg.ImageHeight <= 0 {
		cfg.ImageHeight = ImageHeight
	}
	if cfg.LineWidth <= 0 {
		cfg.LineWidth = LineWidth
	}
	if cfg.GIFOut == "" {
		cfg.GIFOut = GIFOut
	}
	if cfg.GIFFrames <= 0 {
		cfg.GIFFrames = GIFFrames
	}
	if cfg.GIFDelay <= 0 {
		cfg.GIFDelay = GIFDelay
	}
	if cfg.Step < MinStep {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStep, cfg.Step)
	}
	DebugLog("Loaded config from %s: bounds=%+v step=%v elements=%d spectrum=[%v..%v/%v]", path, cfg.Bounds, cfg.Step, len(cfg.Elements), cfg.Wavelengths.Min, cfg.Wavelengths.Max, cfg.Wavelengths.Step)
	return &cfg, nil
}

// SessionDir is where a recording started at now goes: recordDir when set,
// otherwise a timestamped folder under RecordDir.
func (c *Config) SessionDir(now time.Time) string {
	if c.RecordDir != "" {
		return c.RecordDir
	}
	return filepath.Join(RecordDir, now.UTC().Format("20060102T150405Z"))
}

// LoadConfig reads a scene file and applies defaults.
func LoadConfig(path string) (*Config, error) { return loadConfig(path) }
