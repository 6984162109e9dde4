package prism

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := parseConfig([]byte(`{
		"light": {"position": {"x": -300, "y": 0}, "directionDeg": 0},
		"elements": [{"kind": "prism", "center": {"x": 0, "y": 0}}]
	}`), "inline")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Step != Step || cfg.MaxSteps != MaxSteps || cfg.PNGOut != PNGOut || cfg.LineWidth != LineWidth {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if cfg.Bounds.Min != Pt(SceneMinX, SceneMinY) || cfg.Bounds.Max != Pt(SceneMaxX, SceneMaxY) {
		t.Fatalf("bounds default: %+v", cfg.Bounds)
	}
	if ws := cfg.WavelengthList(); len(ws) != 29 {
		t.Fatalf("wavelengths: %v", ws)
	}
	if cfg.Light.Position != Pt(-300, 0) {
		t.Fatalf("lower-case point keys not decoded: %+v", cfg.Light.Position)
	}
	s, err := cfg.Build()
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Elements) != 1 || s.Elements[0].Kind != KindPrism {
		t.Fatalf("elements: %+v", s.Elements)
	}
	if !nearly(s.Elements[0].Shape.Area(), ElementSize*ElementSize/2, 1e-6) {
		t.Fatalf("preset prism area %.6f", s.Elements[0].Shape.Area())
	}
}

func TestParseConfigErrors(t *testing.T) {
	if _, err := parseConfig([]byte(`{`), "broken"); err == nil {
		t.Fatal("broken JSON accepted")
	}
	if _, err := parseConfig([]byte(`{"wavelengths": {"min": 700, "max": 400}}`), "range"); err == nil {
		t.Fatal("empty wavelength range accepted")
	}
	if _, err := parseConfig([]byte(`{"step": 0.0001}`), "step"); !errors.Is(err, ErrInvalidStep) {
		t.Fatalf("tiny step: want ErrInvalidStep, got %v", err)
	}
	for _, spectrum := range []string{
		`{"wavelengths": {"min": 400, "max": 680, "step": 1e-12}}`,
		`{"wavelengths": {"min": 1, "max": 1e300, "step": 1}}`,
	} {
		if _, err := parseConfig([]byte(spectrum), "spectrum"); err == nil {
			t.Fatalf("%s accepted", spectrum)
		}
	}
}

func TestElementCfgBuild(t *testing.T) {
	slab, err := ElementCfg{Kind: "slab", Center: Pt(1, 2), RotDeg: 90}.Build()
	if err != nil {
		t.Fatal(err)
	}
	if !nearly(slab.Shape.Area(), SlabWidthRatio*ElementSize*ElementSize, 1e-6) || !nearly(slab.Rotation, Rad(90), eps) {
		t.Fatalf("slab preset: area=%.6f rot=%.6f", slab.Shape.Area(), slab.Rotation)
	}
	mirror, err := ElementCfg{Kind: "mirror", Height: 100}.Build()
	if err != nil {
		t.Fatal(err)
	}
	if !nearly(mirror.Shape.Area(), MirrorWidthRatio*100*100, 1e-6) {
		t.Fatalf("mirror preset area %.6f", mirror.Shape.Area())
	}
	custom, err := ElementCfg{Kind: "prism", Vertices: []Point{Pt(0, 0), Pt(3, 0), Pt(0, 4)}}.Build()
	if err != nil {
		t.Fatal(err)
	}
	if !nearly(custom.Shape.Area(), 6, 1e-9) {
		t.Fatalf("custom area %.6f", custom.Shape.Area())
	}
	if _, err := (ElementCfg{Kind: "lens"}).Build(); err == nil {
		t.Fatal("unknown kind accepted")
	}
	if _, err := (ElementCfg{Kind: "slab", Width: -1, Height: 10}).Build(); err == nil {
		t.Fatal("negative width accepted")
	}
	if _, err := (ElementCfg{Kind: "prism", Vertices: []Point{Pt(0, 0), Pt(1, 1)}}).Build(); !errors.Is(err, ErrDegeneratePolygon) {
		t.Fatalf("degenerate vertices: got %v", err)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.json")
	data := `{"bounds": {"min": {"x": -10, "y": -10}, "max": {"x": 10, "y": 10}}, "step": 0.25,
		"light": {"position": {"x": -9, "y": 0}, "directionDeg": 90}}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Step != 0.25 || cfg.Bounds.Max != Pt(10, 10) {
		t.Fatalf("unexpected config %+v", cfg)
	}
	l, err := cfg.Light.Build()
	if err != nil {
		t.Fatal(err)
	}
	if !nearly(l.Direction, Rad(90), eps) {
		t.Fatalf("light direction %.6f", l.Direction)
	}
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("missing file accepted")
	}
}

func TestStockScene(t *testing.T) {
	cfg, scene, tracer, err := Setup(filepath.Join("..", "..", "scenes", "prism.json"))
	if err != nil {
		t.Fatal(err)
	}
	frame := TraceFrame(scene, tracer, cfg.WavelengthList())
	if errs := SpectrumErrors(frame.Paths); len(errs) != 0 {
		t.Fatalf("stock scene errors: %v", errs)
	}
	for _, p := range frame.Paths {
		if len(p.Events) == 0 {
			t.Fatalf("%.0fnm never touched an element", p.Wavelength)
		}
	}
}

func TestSessionDir(t *testing.T) {
	now := time.Date(2024, 7, 10, 12, 0, 0, 0, time.UTC)
	if got := (&Config{}).SessionDir(now); got != filepath.Join(RecordDir, "20240710T120000Z") {
		t.Fatalf("default session dir %q", got)
	}
	if got := (&Config{RecordDir: "x"}).SessionDir(now); got != "x" {
		t.Fatalf("explicit session dir %q", got)
	}
}
