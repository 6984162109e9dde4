package prism

import (
	"fmt"
	"time"
)

// Frame is one traced spectrum for the scene as currently posed.
type Frame struct {
	Paths   []*Path
	Elapsed time.Duration
}

// Setup loads a scene file and builds everything needed to trace it.
func Setup(cfgPath string) (*Config, *Scene, *Tracer, error) {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return nil, nil, nil, err
	}
	scene, err := cfg.Build()
	if err != nil {
		return nil, nil, nil, err
	}
	tracer, err := cfg.Tracer()
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, scene, tracer, nil
}

// TraceFrame traces the whole configured spectrum once.
func TraceFrame(scene *Scene, tracer *Tracer, wavelengths []Real) Frame {
	start := time.Now()
	paths := tracer.TraceSpectrum(scene, wavelengths)
	return Frame{Paths: paths, Elapsed: time.Since(start)}
}

func Run(cfgPath string) error {
	cfg, scene, tracer, err := Setup(cfgPath)
	if err != nil {
		return err
	}
	wavelengths := cfg.WavelengthList()
	DebugLog("Scene: %d elements, %d wavelengths, step=%v", len(scene.Elements), len(wavelengths), tracer.Step())

	frame := TraceFrame(scene, tracer, wavelengths)
	DebugLog("Traced %d wavelengths in %s", len(frame.Paths), frame.Elapsed)
	for _, err := range SpectrumErrors(frame.Paths) {
		fmt.Printf("[WARN] %v\n", err)
	}
	if Debug {
		for _, p := range frame.Paths {
			DebugLog("λ=%.1fnm n=%.6f points=%d events=%d reason=%s direction=%.4f°",
				p.Wavelength, RefractiveIndex(p.Wavelength), len(p.Points), len(p.Events), p.Reason, Deg(p.Direction))
		}
		raysStats()
	}

	opts := RenderOptions{Width: cfg.ImageWidth, Height: cfg.ImageHeight, LineWidth: cfg.LineWidth}
	if PNG {
		if err := SavePNG(scene, frame.Paths, cfg.PNGOut, opts); err != nil {
			return err
		}
	}
	if GIF && len(scene.Elements) > 0 {
		if err := SaveRotationGIF(scene, tracer, wavelengths, 0, cfg.GIFFrames, cfg.GIFDelay, cfg.GIFOut, opts); err != nil {
			return err
		}
	}

	if Record {
		rec, err := NewRecorder(cfg.SessionDir(time.Now()), scene, wavelengths, nil)
		if err != nil {
			return err
		}
		if err := rec.AppendFrame(frame.Paths); err != nil {
			rec.Close()
			return err
		}
		if err := rec.Close(); err != nil {
			return err
		}
	}
	return nil
}
