// Package wsconn provides a WebSocket broadcast hub built on coder/websocket.
package wsconn

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
)

// Config holds hub configuration.
type Config struct {
	// Buffer is the number of messages queued per subscriber before it is
	// considered slow and disconnected.
	Buffer       int
	WriteTimeout time.Duration
	PingInterval time.Duration // 0 disables pings
	// OriginPatterns are passed to websocket.Accept.
	OriginPatterns []string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Buffer:       16,
		WriteTimeout: 5 * time.Second,
		PingInterval: 30 * time.Second,
	}
}

type subscriber struct {
	msgs      chan []byte
	closeSlow func()
}

// Hub fans messages out to every connected subscriber.
type Hub struct {
	config Config

	mu          sync.Mutex
	subscribers map[*subscriber]struct{}
	closed      bool
	done        chan struct{}
}

// NewHub creates a Hub.
func NewHub(config Config) *Hub {
	if config.Buffer <= 0 {
		config.Buffer = DefaultConfig().Buffer
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = DefaultConfig().WriteTimeout
	}
	return &Hub{
		config:      config,
		subscribers: make(map[*subscriber]struct{}),
		done:        make(chan struct{}),
	}
}

// ServeHTTP upgrades the request and streams broadcasts until the client
// goes away or the hub closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.config.OriginPatterns,
	})
	if err != nil {
		return
	}
	defer conn.CloseNow()

	_ = h.subscribe(r.Context(), conn)
}

func (h *Hub) subscribe(ctx context.Context, conn *websocket.Conn) error {
	// Subscribers only receive; CloseRead handles control frames and
	// cancels ctx when the peer closes.
	ctx = conn.CloseRead(ctx)

	var mu sync.Mutex
	slow := false
	s := &subscriber{
		msgs: make(chan []byte, h.config.Buffer),
		closeSlow: func() {
			mu.Lock()
			defer mu.Unlock()
			slow = true
			conn.Close(websocket.StatusPolicyViolation, "connection too slow to keep up with messages")
		},
	}
	if !h.add(s) {
		return conn.Close(websocket.StatusGoingAway, "hub closed")
	}
	defer h.remove(s)

	var ping <-chan time.Time
	if h.config.PingInterval > 0 {
		t := time.NewTicker(h.config.PingInterval)
		defer t.Stop()
		ping = t.C
	}

	for {
		select {
		case msg := <-s.msgs:
			if err := h.write(ctx, conn, msg); err != nil {
				return err
			}
		case <-ping:
			pctx, cancel := context.WithTimeout(ctx, h.config.WriteTimeout)
			err := conn.Ping(pctx)
			cancel()
			if err != nil {
				return err
			}
		case <-h.done:
			return conn.Close(websocket.StatusGoingAway, "hub closed")
		case <-ctx.Done():
			mu.Lock()
			defer mu.Unlock()
			if slow {
				return nil
			}
			return ctx.Err()
		}
	}
}

func (h *Hub) write(ctx context.Context, conn *websocket.Conn, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, h.config.WriteTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, msg)
}

func (h *Hub) add(s *subscriber) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.subscribers[s] = struct{}{}
	return true
}

func (h *Hub) remove(s *subscriber) {
	h.mu.Lock()
	delete(h.subscribers, s)
	h.mu.Unlock()
}

// Broadcast queues msg for every subscriber. Subscribers whose queue is full
// are disconnected. It never blocks on the network.
func (h *Hub) Broadcast(msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.subscribers {
		select {
		case s.msgs <- msg:
		default:
			go s.closeSlow()
		}
	}
}

// Subscribers returns the number of connected subscribers.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// Close disconnects every subscriber and refuses new ones.
func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.closed {
		h.closed = true
		close(h.done)
	}
	return nil
}
