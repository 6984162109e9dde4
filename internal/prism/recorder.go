package prism

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
)

const (
	recordManifest = "manifest.json"
	recordEvents   = "events.jsonl.sz"
	recordFrames   = "frames.bin.zst"

	framePathHeader = 14 // wavelength u64, reason u8, failed u8, point count u32
)

// RecordManifest describes a session directory.
type RecordManifest struct {
	Version     int     `json:"version"`
	CreatedAt   string  `json:"created_at"`
	EventsPath  string  `json:"events_path"`
	FramesPath  string  `json:"frames_path"`
	Wavelengths []Real  `json:"wavelengths"`
	Bounds      [4]Real `json:"bounds"` // minX, minY, maxX, maxY
}

// RecordEvent is one line of the event log: a pose mutation applied between frames.
type RecordEvent struct {
	Seq        uint64 `json:"seq"`
	CapturedAt string `json:"captured_at"`
	Type       string `json:"type"`
	Element    string `json:"element,omitempty"`
	X          Real   `json:"x"`
	Y          Real   `json:"y"`
	AngleDeg   Real   `json:"angle_deg"`
}

// Recorder streams a session to disk: pose events as snappy-framed JSON lines,
// traced frames as a zstd stream of length-prefixed binary records.
type Recorder struct {
	mu          sync.Mutex
	dir         string
	now         func() time.Time
	eventFile   *os.File
	eventStream *snappy.Writer
	frameFile   *os.File
	frameStream *zstd.Encoder
	seq         uint64
	frames      uint64
}

func NewRecorder(dir string, scene *Scene, wavelengths []Real, clock func() time.Time) (*Recorder, error) {
	if dir == "" {
		return nil, errors.New("record directory must be provided")
	}
	if clock == nil {
		clock = time.Now
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	eventFile, err := os.Create(filepath.Join(dir, recordEvents))
	if err != nil {
		return nil, err
	}
	frameFile, err := os.Create(filepath.Join(dir, recordFrames))
	if err != nil {
		eventFile.Close()
		return nil, err
	}
	frameStream, err := zstd.NewWriter(frameFile)
	if err != nil {
		eventFile.Close()
		frameFile.Close()
		return nil, err
	}
	b := scene.Bounds
	manifest := RecordManifest{
		Version:     1,
		CreatedAt:   clock().UTC().Format(time.RFC3339Nano),
		EventsPath:  recordEvents,
		FramesPath:  recordFrames,
		Wavelengths: wavelengths,
		Bounds:      [4]Real{b.Min.X, b.Min.Y, b.Max.X, b.Max.Y},
	}
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err == nil {
		err = os.WriteFile(filepath.Join(dir, recordManifest), data, 0o644)
	}
	if err != nil {
		frameStream.Close()
		frameFile.Close()
		eventFile.Close()
		return nil, err
	}
	DebugLog("Recording session to %s", dir)
	return &Recorder{
		dir:         dir,
		now:         clock,
		eventFile:   eventFile,
		eventStream: snappy.NewBufferedWriter(eventFile),
		frameFile:   frameFile,
		frameStream: frameStream,
	}, nil
}

func (r *Recorder) Dir() string { return r.dir }

// AppendEvent writes one pose mutation and flushes it.
func (r *Recorder) AppendEvent(ev RecordEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	ev.Seq = r.seq
	ev.CapturedAt = r.now().UTC().Format(time.RFC3339Nano)
	line, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if _, err := r.eventStream.Write(append(line, '\n')); err != nil {
		return err
	}
	return r.eventStream.Flush()
}

// AppendFrame writes one traced frame.
func (r *Recorder) AppendFrame(paths []*Path) error {
	payload := EncodeFrame(paths)
	r.mu.Lock()
	defer r.mu.Unlock()
	var hdr [12]byte
	binary.LittleEndian.PutUint64(hdr[0:8], r.frames)
	binary.LittleEndian.PutUint32(hdr[8:12], uint32(len(payload)))
	if _, err := r.frameStream.Write(hdr[:]); err != nil {
		return err
	}
	if _, err := r.frameStream.Write(payload); err != nil {
		return err
	}
	r.frames++
	return nil
}

// Close flushes both streams and releases the files, returning the first failure.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	keep(r.eventStream.Close())
	keep(r.eventFile.Close())
	keep(r.frameStream.Close())
	keep(r.frameFile.Close())
	DebugLog("Recorded %d events, %d frames", r.seq, r.frames)
	return firstErr
}

// FramePath is the decoded form of one path inside a recorded frame.
type FramePath struct {
	Wavelength Real
	Reason     Reason
	Failed     bool
	Points     []Point
}

// EncodeFrame packs paths as: u32 count, then per path f64 wavelength, u8 reason,
// u8 failed, u32 point count, point count x (f64 x, f64 y). Little endian.
func EncodeFrame(paths []*Path) []byte {
	var buf bytes.Buffer
	put := func(v any) { _ = binary.Write(&buf, binary.LittleEndian, v) }
	put(uint32(len(paths)))
	for _, p := range paths {
		if p == nil {
			p = &Path{}
		}
		put(math.Float64bits(p.Wavelength))
		put(uint8(p.Reason))
		failed := uint8(0)
		if p.Err != nil {
			failed = 1
		}
		put(failed)
		put(uint32(len(p.Points)))
		for _, pt := range p.Points {
			put(math.Float64bits(pt.X))
			put(math.Float64bits(pt.Y))
		}
	}
	return buf.Bytes()
}

func DecodeFrame(data []byte) ([]FramePath, error) {
	rd := bytes.NewReader(data)
	get := func(v any) error { return binary.Read(rd, binary.LittleEndian, v) }
	var n uint32
	if err := get(&n); err != nil {
		return nil, fmt.Errorf("frame header: %w", err)
	}
	if uint64(n)*framePathHeader > uint64(rd.Len()) {
		return nil, fmt.Errorf("frame header: %d paths exceed payload", n)
	}
	out := make([]FramePath, 0, n)
	for i := uint32(0); i < n; i++ {
		var (
			wl             uint64
			reason, failed uint8
			count          uint32
		)
		for _, v := range []any{&wl, &reason, &failed, &count} {
			if err := get(v); err != nil {
				return nil, fmt.Errorf("frame path %d: %w", i, err)
			}
		}
		if uint64(count)*16 > uint64(rd.Len()) {
			return nil, fmt.Errorf("frame path %d: %d points exceed payload", i, count)
		}
		fp := FramePath{Wavelength: math.Float64frombits(wl), Reason: Reason(reason), Failed: failed != 0, Points: make([]Point, count)}
		for j := range fp.Points {
			var x, y uint64
			if err := get(&x); err != nil {
				return nil, err
			}
			if err := get(&y); err != nil {
				return nil, err
			}
			fp.Points[j] = Pt(math.Float64frombits(x), math.Float64frombits(y))
		}
		out = append(out, fp)
	}
	return out, nil
}

// ReadRecordedFrames decodes every frame of a session directory.
func ReadRecordedFrames(dir string) ([][]FramePath, error) {
	f, err := os.Open(filepath.Join(dir, recordFrames))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	br := bufio.NewReader(dec)
	var frames [][]FramePath
	for {
		var hdr [12]byte
		if _, err := io.ReadFull(br, hdr[:]); err != nil {
			if errors.Is(err, io.EOF) {
				return frames, nil
			}
			return nil, err
		}
		size := binary.LittleEndian.Uint32(hdr[8:12])
		payload := make([]byte, size)
		if _, err := io.ReadFull(br, payload); err != nil {
			return nil, err
		}
		frame, err := DecodeFrame(payload)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", binary.LittleEndian.Uint64(hdr[0:8]), err)
		}
		frames = append(frames, frame)
	}
}

// ReadRecordedEvents decodes the event log of a session directory.
func ReadRecordedEvents(dir string) ([]RecordEvent, error) {
	f, err := os.Open(filepath.Join(dir, recordEvents))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sc := bufio.NewScanner(snappy.NewReader(f))
	var out []RecordEvent
	for sc.Scan() {
		if len(bytes.TrimSpace(sc.Bytes())) == 0 {
			continue
		}
		var ev RecordEvent
		if err := json.Unmarshal(sc.Bytes(), &ev); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, sc.Err()
}
