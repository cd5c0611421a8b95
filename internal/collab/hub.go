// Package collab shares one editor scene between websocket clients.
package collab

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/rcliao/molecule-lab/internal/editor"
	"github.com/rcliao/molecule-lab/internal/history"
)

// Event types.
const (
	EventScene   = "scene"
	EventHistory = "history"
	EventError   = "error"
)

const (
	queueSize    = 256
	writeTimeout = 10 * time.Second
)

// Event is one message pushed to clients.
type Event struct {
	Type  string         `json:"type"`
	Entry *history.Entry `json:"entry,omitempty"`
	Scene *editor.Scene  `json:"scene,omitempty"`
	Error string         `json:"error,omitempty"`
}

// client wraps a connection; gorilla allows one concurrent writer.
type client struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex
}

func newClient(conn *websocket.Conn) *client {
	return &client{id: uuid.NewString(), conn: conn}
}

func (c *client) send(ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub fans history events out to registered clients from a single goroutine.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*client]bool
	broadcast  chan Event
	register   chan *client
	unregister chan *client
	done       chan struct{}
	closeOnce  sync.Once
	wg         sync.WaitGroup
	log        *zap.Logger
}

// NewHub starts the broadcast loop. A nil logger is replaced by a no-op.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan Event, queueSize),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
		log:        logger,
	}
	h.wg.Add(1)
	go h.run()
	return h
}

// Register adds c to the broadcast set. After Close the connection is
// closed instead.
func (h *Hub) Register(c *client) {
	select {
	case h.register <- c:
	case <-h.done:
		c.conn.Close()
	}
}

// Unregister removes and closes c. It is a no-op after Close.
func (h *Hub) Unregister(c *client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Clients returns the number of registered clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Listener returns a history listener that queues each entry for broadcast.
// It never blocks; entries are dropped when the queue is full.
func (h *Hub) Listener() history.Listener {
	return func(e history.Entry) {
		scene := editor.NewScene(e.Atoms, e.Bonds)
		ev := Event{Type: EventHistory, Entry: &e, Scene: &scene}
		select {
		case <-h.done:
			return
		default:
		}
		select {
		case h.broadcast <- ev:
			broadcastEventsTotal.Inc()
		default:
			droppedEventsTotal.Inc()
			h.log.Warn("broadcast queue full, dropping event", zap.String("entry", e.ID))
		}
	}
}

func (h *Hub) run() {
	defer h.wg.Done()
	for {
		select {
		case <-h.done:
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			connectedClients.Set(float64(len(h.clients)))
			h.mu.Unlock()
			h.log.Debug("client registered", zap.String("client", c.id))

		case c := <-h.unregister:
			h.remove(c)

		case ev := <-h.broadcast:
			// Snapshot the set so writes happen outside the lock.
			h.mu.RLock()
			targets := make([]*client, 0, len(h.clients))
			for c := range h.clients {
				targets = append(targets, c)
			}
			h.mu.RUnlock()

			for _, c := range targets {
				if err := c.send(ev); err != nil {
					h.log.Debug("write failed, dropping client", zap.String("client", c.id), zap.Error(err))
					h.remove(c)
				}
			}
		}
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.conn.Close()
		connectedClients.Set(float64(len(h.clients)))
	}
}

// Close stops the loop and closes every client connection. Safe to call
// more than once.
func (h *Hub) Close() error {
	h.closeOnce.Do(func() {
		close(h.done)
		h.wg.Wait()

		h.mu.Lock()
		for c := range h.clients {
			c.conn.Close()
			delete(h.clients, c)
		}
		connectedClients.Set(0)
		h.mu.Unlock()
	})
	return nil
}
