package live

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/lukaszgryglicki/prisms2d/internal/prism"
)

const (
	pingInterval = 30 * time.Second
	sendBuffer   = 64
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	id   string
}

// Server owns a scene and retraces it after every accepted pose change. Pose
// mutations and traces are serialized under mu, so a frame never observes a
// half-applied gesture.
type Server struct {
	mu          sync.Mutex
	scene       *prism.Scene
	tracer      *prism.Tracer
	wavelengths []prism.Real
	recorder    *prism.Recorder
	seq         uint64
	last        []byte // latest encoded frame

	clientsMu sync.Mutex
	clients   map[*client]bool
}

// NewServer traces the initial frame; recorder may be nil.
func NewServer(scene *prism.Scene, tracer *prism.Tracer, wavelengths []prism.Real, recorder *prism.Recorder) (*Server, error) {
	s := &Server{
		scene:       scene,
		tracer:      tracer,
		wavelengths: wavelengths,
		recorder:    recorder,
		clients:     make(map[*client]bool),
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.traceLocked(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)
	return mux
}

func (s *Server) ListenAndServe(addr string) error {
	fmt.Println("Live server listening on", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// Apply validates and applies one gesture, retraces and returns the encoded frame.
func (s *Server) Apply(msg Inbound) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev := prism.RecordEvent{Type: msg.Type, X: msg.X, Y: msg.Y, AngleDeg: msg.AngleDeg}
	switch msg.Type {
	case TypeElementPose:
		id, err := uuid.Parse(msg.ID)
		if err != nil {
			return nil, fmt.Errorf("element id %q: %w", msg.ID, err)
		}
		if err := s.scene.SetElementPose(id, prism.Pt(msg.X, msg.Y), prism.Rad(msg.AngleDeg)); err != nil {
			return nil, err
		}
		ev.Element = id.String()
	case TypeLightPose:
		if err := s.scene.SetLightSourcePose(prism.Pt(msg.X, msg.Y), prism.Rad(msg.AngleDeg)); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown message type %q", msg.Type)
	}
	if s.recorder != nil {
		if err := s.recorder.AppendEvent(ev); err != nil {
			log.Println("record event:", err)
		}
	}
	return s.traceLocked()
}

// traceLocked traces the current pose; callers must hold mu.
func (s *Server) traceLocked() ([]byte, error) {
	frame := prism.TraceFrame(s.scene, s.tracer, s.wavelengths)
	s.seq++
	prism.DebugLog("Frame %d traced in %s", s.seq, frame.Elapsed)
	if s.recorder != nil {
		if err := s.recorder.AppendFrame(frame.Paths); err != nil {
			log.Println("record frame:", err)
		}
	}
	data, err := json.Marshal(frameMsg(s.seq, frame.Paths))
	if err != nil {
		return nil, err
	}
	s.last = data
	return data, nil
}

func (s *Server) snapshot() ([]byte, []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	scene, err := json.Marshal(sceneMsg(s.scene))
	if err != nil {
		return nil, nil, err
	}
	return scene, s.last, nil
}

func (s *Server) broadcast(msg []byte) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	for c := range s.clients {
		select {
		case c.send <- msg:
		default:
			close(c.send)
			delete(s.clients, c)
		}
	}
}

func (s *Server) drop(c *client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	if s.clients[c] {
		delete(s.clients, c)
		close(c.send)
	}
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("upgrade:", err)
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendBuffer), id: r.RemoteAddr}

	sceneData, frameData, err := s.snapshot()
	if err != nil {
		log.Println("snapshot:", err)
		conn.Close()
		return
	}
	// Queue the greeting before registering so no broadcast can overtake it.
	c.send <- sceneData
	c.send <- frameData
	s.clientsMu.Lock()
	s.clients[c] = true
	s.clientsMu.Unlock()
	prism.DebugLog("Client %s connected", c.id)

	// reader
	go func() {
		defer func() {
			s.drop(c)
			c.conn.Close()
		}()
		for {
			_, raw, err := c.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Println("read error:", err)
				}
				return
			}
			var msg Inbound
			if err := json.Unmarshal(raw, &msg); err != nil {
				s.reply(c, err)
				continue
			}
			frame, err := s.Apply(msg)
			if err != nil {
				s.reply(c, err)
				continue
			}
			s.broadcast(frame)
		}
	}()

	// writer
	go func() {
		ticker := time.NewTicker(pingInterval)
		defer func() {
			ticker.Stop()
			c.conn.Close()
		}()
		for {
			select {
			case msg, ok := <-c.send:
				if !ok {
					_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
					return
				}
				if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					return
				}
			case <-ticker.C:
				if err := c.conn.WriteMessage(websocket.PingMessage, []byte{}); err != nil {
					return
				}
			}
		}
	}()
}

// reply sends an error to one client only.
func (s *Server) reply(c *client, err error) {
	data, mErr := json.Marshal(ErrorMsg{Type: TypeError, Error: err.Error()})
	if mErr != nil {
		return
	}
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	if !s.clients[c] {
		return
	}
	select {
	case c.send <- data:
	default:
		log.Println("drop error reply for", c.id, err)
	}
}
