package collab

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/rcliao/molecule-lab/internal/editor"
)

// Server exposes one shared editor over HTTP and websockets.
type Server struct {
	mu          sync.Mutex
	ed          *editor.Editor
	hub         *Hub
	log         *zap.Logger
	upgrader    websocket.Upgrader
	unsubscribe func()
}

// NewServer wires ed's history to a new hub.
func NewServer(ed *editor.Editor, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		ed:  ed,
		hub: NewHub(logger),
		log: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	s.unsubscribe = ed.Subscribe(s.hub.Listener())
	return s
}

// Handler returns the HTTP routes: /ws, /scene and /metrics.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/scene", s.handleScene)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// Apply runs op against the shared editor.
func (s *Server) Apply(op editor.Op) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ed.Apply(op)
}

// Snapshot returns the shared scene.
func (s *Server) Snapshot() editor.Scene {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ed.Snapshot()
}

// Close detaches from the editor and disconnects all clients.
func (s *Server) Close() error {
	s.mu.Lock()
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	s.mu.Unlock()
	return s.hub.Close()
}

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.Snapshot())
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("upgrade failed", zap.Error(err))
		return
	}
	c := newClient(conn)
	s.hub.Register(c)
	defer s.hub.Unregister(c)

	scene := s.Snapshot()
	if err := c.send(Event{Type: EventScene, Scene: &scene}); err != nil {
		return
	}

	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			var ce *websocket.CloseError
			if !errors.As(err, &ce) {
				s.log.Debug("read failed", zap.String("client", c.id), zap.Error(err))
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}

		op, err := editor.ParseOp(data)
		if err == nil {
			err = s.Apply(op)
		}
		if err != nil {
			rejectedOpsTotal.WithLabelValues(opLabel(op)).Inc()
			s.log.Info("op rejected", zap.String("client", c.id), zap.String("op", op.Op), zap.Error(err))
			if werr := c.send(Event{Type: EventError, Error: err.Error()}); werr != nil {
				return
			}
		}
	}
}

var knownOps = map[string]bool{
	editor.OpPlace: true, editor.OpMove: true, editor.OpRemoveAtom: true,
	editor.OpAddBond: true, editor.OpRemoveBond: true, editor.OpChangeBond: true,
	editor.OpTemplate: true, editor.OpClear: true, editor.OpAutoComplete: true,
	editor.OpUndo: true, editor.OpRedo: true, editor.OpJump: true,
	editor.OpCommand: true, editor.OpValidate: true,
}

// opLabel bounds the metric label set to known op names.
func opLabel(op editor.Op) string {
	switch {
	case op.Op == "":
		return "invalid"
	case knownOps[op.Op]:
		return op.Op
	default:
		return "unknown"
	}
}
