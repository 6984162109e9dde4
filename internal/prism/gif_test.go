package prism

import (
	"errors"
	"image/gif"
	"os"
	"path/filepath"
	"testing"
)

func TestSaveRotationGIF(t *testing.T) {
	s := prismScene(t)
	e := s.Elements[0]
	before := e.Rotation
	tmp := filepath.Join(t.TempDir(), "out.gif")
	opts := RenderOptions{Width: 80, Height: 60}
	if err := SaveRotationGIF(s, newTestTracer(t), []Real{450, 650}, 0, 4, 5, tmp, opts); err != nil {
		t.Fatal(err)
	}
	if e.Rotation != before {
		t.Fatalf("pose not restored: %.12g -> %.12g", before, e.Rotation)
	}
	f, err := os.Open(tmp)
	if err != nil {
		t.Fatalf("gif not written: %v", err)
	}
	defer f.Close()
	g, err := gif.DecodeAll(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Image) != 4 || g.Delay[0] != 5 {
		t.Fatalf("frames=%d delay=%v", len(g.Image), g.Delay)
	}
	if err := SaveRotationGIF(s, newTestTracer(t), nil, 3, 4, 5, tmp, opts); !errors.Is(err, ErrUnknownElement) {
		t.Fatalf("bad index: want ErrUnknownElement, got %v", err)
	}
}
