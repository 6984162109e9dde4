package prism

import (
	"fmt"
	"image"
	"math"

	"github.com/fogleman/gg"
)

// RenderOptions controls the raster of a traced frame.
type RenderOptions struct {
	Width     int
	Height    int
	LineWidth Real
}

// WavelengthColor maps a visible wavelength (nm) to display RGB in [0, 1],
// dimming towards both ends of the visible band. Outside 380-780 nm it is black.
func WavelengthColor(wavelength Real) (r, g, b Real) {
	w := wavelength
	switch {
	case w >= 380 && w < 440:
		r, g, b = -(w-440)/(440-380), 0, 1
	case w >= 440 && w < 490:
		r, g, b = 0, (w-440)/(490-440), 1
	case w >= 490 && w < 510:
		r, g, b = 0, 1, -(w-510)/(510-490)
	case w >= 510 && w < 580:
		r, g, b = (w-510)/(580-510), 1, 0
	case w >= 580 && w < 645:
		r, g, b = 1, -(w-645)/(645-580), 0
	case w >= 645 && w <= 780:
		r, g, b = 1, 0, 0
	default:
		return 0, 0, 0
	}
	f := 1.0
	switch {
	case w < 420:
		f = 0.3 + 0.7*(w-380)/(420-380)
	case w > 700:
		f = 0.3 + 0.7*(780-w)/(780-700)
	}
	const gamma = 0.8
	return math.Pow(r*f, gamma), math.Pow(g*f, gamma), math.Pow(b*f, gamma)
}

// viewport maps scene coordinates (Y up) onto image pixels (Y down).
type viewport struct {
	minX, maxY Real
	sx, sy     Real
}

func newViewport(scene *Scene, width, height int) viewport {
	b := scene.Bounds
	return viewport{
		minX: b.Min.X,
		maxY: b.Max.Y,
		sx:   Real(width) / (b.Max.X - b.Min.X),
		sy:   Real(height) / (b.Max.Y - b.Min.Y),
	}
}

func (v viewport) px(p Point) (Real, Real) {
	return (p.X - v.minX) * v.sx, (v.maxY - p.Y) * v.sy
}

// RenderFrame draws element outlines, the light and every path onto a new image.
func RenderFrame(scene *Scene, paths []*Path, opts RenderOptions) (image.Image, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", opts.Width, opts.Height)
	}
	if opts.LineWidth <= 0 {
		opts.LineWidth = LineWidth
	}
	dc := gg.NewContext(opts.Width, opts.Height)
	dc.SetRGB(0, 0, 0)
	dc.Clear()
	vp := newViewport(scene, opts.Width, opts.Height)

	// Bodies.
	for _, e := range scene.Elements {
		vs := e.WorldVertices()
		for i, v := range vs {
			x, y := vp.px(v)
			if i == 0 {
				dc.MoveTo(x, y)
			} else {
				dc.LineTo(x, y)
			}
		}
		dc.ClosePath()
		if e.Kind == KindMirror {
			dc.SetRGBA(0.75, 0.75, 0.8, 0.9)
		} else {
			dc.SetRGBA(0.55, 0.75, 1, 0.15)
		}
		dc.FillPreserve()
		dc.SetRGB(0.8, 0.8, 0.8)
		dc.SetLineWidth(1)
		dc.Stroke()
	}

	// Rays; partial alpha lets overlapping colours mix.
	dc.SetLineWidth(opts.LineWidth)
	for _, p := range paths {
		if p == nil || len(p.Points) < 2 {
			continue
		}
		r, g, b := WavelengthColor(p.Wavelength)
		dc.SetRGBA(r, g, b, 0.8)
		x, y := vp.px(p.Points[0])
		dc.MoveTo(x, y)
		for _, pt := range p.Points[1:] {
			x, y = vp.px(pt)
			dc.LineTo(x, y)
		}
		dc.Stroke()
	}

	// Light source.
	if scene.Light != nil {
		x, y := vp.px(scene.Light.Position)
		dc.SetRGB(1, 1, 1)
		dc.DrawCircle(x, y, 4)
		dc.Fill()
	}
	return dc.Image(), nil
}

// SavePNG renders a frame and writes it to path.
func SavePNG(scene *Scene, paths []*Path, path string, opts RenderOptions) error {
	img, err := RenderFrame(scene, paths, opts)
	if err != nil {
		return err
	}
	if err := gg.SavePNG(path, img); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	DebugLog("Saved PNG %s (%dx%d, %d paths)", path, opts.Width, opts.Height, len(paths))
	return nil
}
