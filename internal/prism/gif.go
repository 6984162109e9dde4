package prism

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"os"
)

// SaveRotationGIF sweeps one element through a full turn, tracing and rendering a
// frame per step, and writes the result as a looping GIF. delay is in 100ths of a
// second. The element's pose is restored afterwards.
func SaveRotationGIF(scene *Scene, tracer *Tracer, wavelengths []Real, element, frames, delay int, path string, opts RenderOptions) error {
	if element < 0 || element >= len(scene.Elements) {
		return fmt.Errorf("%w: index %d of %d", ErrUnknownElement, element, len(scene.Elements))
	}
	if frames < 1 {
		return fmt.Errorf("gif needs at least one frame, got %d", frames)
	}
	e := scene.Elements[element]
	center, rotation := e.Center, e.Rotation
	defer e.setPose(center, rotation)

	out := &gif.GIF{
		Image:     make([]*image.Paletted, 0, frames),
		Delay:     make([]int, 0, frames),
		LoopCount: 0,
	}
	for k := 0; k < frames; k++ {
		if k%imax(1, frames/10) == 0 {
			fmt.Printf("[GIF] %.2f%%\n", Real(k+1)*100/Real(frames))
		}
		e.setPose(center, rotation+Real(k)*Rad(360)/Real(frames))
		frame := TraceFrame(scene, tracer, wavelengths)
		img, err := RenderFrame(scene, frame.Paths, opts)
		if err != nil {
			return err
		}
		// Quantize to paletted for GIF
		pimg := image.NewPaletted(img.Bounds(), palette.Plan9)
		draw.FloydSteinberg.Draw(pimg, pimg.Bounds(), img, image.Point{})
		out.Image = append(out.Image, pimg)
		out.Delay = append(out.Delay, delay)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := gif.EncodeAll(f, out); err != nil {
		return err
	}
	DebugLog("Saved animated GIF: %s (%d frames)", path, frames)
	return nil
}
