package prism

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestRecorderRoundTrip(t *testing.T) {
	s := prismScene(t)
	tr := newTestTracer(t)
	ws := []Real{450, 650}
	dir := filepath.Join(t.TempDir(), "session")
	clock := func() time.Time { return time.Date(2024, 7, 10, 12, 0, 0, 0, time.UTC) }

	rec, err := NewRecorder(dir, s, ws, clock)
	if err != nil {
		t.Fatal(err)
	}
	first := tr.TraceSpectrum(s, ws)
	if err := rec.AppendFrame(first); err != nil {
		t.Fatal(err)
	}
	id := s.Elements[0].ID
	if err := s.SetElementPose(id, Pt(10, 0), Rad(15)); err != nil {
		t.Fatal(err)
	}
	if err := rec.AppendEvent(RecordEvent{Type: "element_pose", Element: id.String(), X: 10, AngleDeg: 15}); err != nil {
		t.Fatal(err)
	}
	second := tr.TraceSpectrum(s, ws)
	if err := rec.AppendFrame(second); err != nil {
		t.Fatal(err)
	}
	if err := rec.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "manifest.json"))
	if err != nil {
		t.Fatal(err)
	}
	var m RecordManifest
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	if m.EventsPath != "events.jsonl.sz" || m.FramesPath != "frames.bin.zst" || len(m.Wavelengths) != 2 {
		t.Fatalf("unexpected manifest %+v", m)
	}
	if m.CreatedAt != "2024-07-10T12:00:00Z" || m.Bounds != [4]Real{SceneMinX, SceneMinY, SceneMaxX, SceneMaxY} {
		t.Fatalf("unexpected manifest header %+v", m)
	}

	events, err := ReadRecordedEvents(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].Seq != 1 || events[0].Element != id.String() || events[0].AngleDeg != 15 {
		t.Fatalf("unexpected events %+v", events)
	}

	frames, err := ReadRecordedFrames(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 2 {
		t.Fatalf("want 2 frames, got %d", len(frames))
	}
	for fi, want := range [][]*Path{first, second} {
		got := frames[fi]
		if len(got) != len(want) {
			t.Fatalf("frame %d: %d paths want %d", fi, len(got), len(want))
		}
		for i := range want {
			if got[i].Wavelength != want[i].Wavelength || got[i].Reason != want[i].Reason || len(got[i].Points) != len(want[i].Points) {
				t.Fatalf("frame %d path %d mismatch", fi, i)
			}
			last := len(want[i].Points) - 1
			if got[i].Points[last] != want[i].Points[last] {
				t.Fatalf("frame %d path %d: last point %+v want %+v", fi, i, got[i].Points[last], want[i].Points[last])
			}
		}
	}
}

func TestDecodeFrameRejectsTruncated(t *testing.T) {
	p := &Path{Wavelength: 500, Points: []Point{Pt(1, 2), Pt(3, 4)}, Err: ErrOverlap, Reason: OverlapDetected}
	data := EncodeFrame([]*Path{p})
	fr, err := DecodeFrame(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(fr) != 1 || !fr[0].Failed || fr[0].Reason != OverlapDetected || fr[0].Points[1] != Pt(3, 4) {
		t.Fatalf("unexpected decode %+v", fr)
	}
	if _, err := DecodeFrame(data[:len(data)-4]); err == nil {
		t.Fatal("truncated frame accepted")
	}
	if _, err := DecodeFrame(nil); err == nil {
		t.Fatal("empty frame accepted")
	}
	// A corrupt path count must not size the allocation.
	huge := append([]byte{0xff, 0xff, 0xff, 0xff}, data[4:]...)
	if _, err := DecodeFrame(huge); err == nil {
		t.Fatal("oversized path count accepted")
	}
}

func TestNewRecorderValidation(t *testing.T) {
	if _, err := NewRecorder("", prismScene(t), nil, nil); err == nil {
		t.Fatal("empty directory accepted")
	}
}
