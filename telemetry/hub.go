package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const writeTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Telemetry is read-only and public
	},
}

// Hub broadcasts snapshots as JSON to websocket clients. New clients receive
// the latest snapshot immediately.
type Hub struct {
	logger zerolog.Logger

	mu      sync.RWMutex
	clients map[*websocket.Conn]*sync.Mutex
	latest  *Snapshot

	// holds at most one snapshot waiting for Run
	queue chan Snapshot
}

// NewHub creates an empty hub.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		logger:  logger,
		clients: make(map[*websocket.Conn]*sync.Mutex),
		queue:   make(chan Snapshot, 1),
	}
}

// ServeHTTP upgrades the request and keeps the client registered until its
// connection drops.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade error")
		return
	}
	defer conn.Close()

	connMutex := &sync.Mutex{}
	h.mu.Lock()
	h.clients[conn] = connMutex
	latest := h.latest
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	if latest != nil {
		if err := writeSnapshot(conn, connMutex, *latest); err != nil {
			h.logger.Warn().Err(err).Msg("websocket initial write error")
			return
		}
	}

	// Clients never send anything meaningful; reading detects disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Broadcast sends snap to every connected client and remembers it for late joiners.
func (h *Hub) Broadcast(snap Snapshot) {
	h.mu.Lock()
	h.latest = &snap
	targets := make(map[*websocket.Conn]*sync.Mutex, len(h.clients))
	for conn, m := range h.clients {
		targets[conn] = m
	}
	h.mu.Unlock()

	for conn, m := range targets {
		if err := writeSnapshot(conn, m, snap); err != nil {
			h.logger.Debug().Err(err).Msg("dropping websocket client")
			conn.Close()
		}
	}
}

// Publish hands snap to Run for broadcasting and returns immediately. A
// snapshot still waiting from an earlier Publish is replaced.
func (h *Hub) Publish(snap Snapshot) {
	for {
		select {
		case h.queue <- snap:
			return
		default:
		}
		select {
		case <-h.queue:
		default:
		}
	}
}

// Run broadcasts published snapshots until ctx is done. Slow clients stall
// this goroutine only.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case snap := <-h.queue:
			h.Broadcast(snap)
		}
	}
}

// Clients reports the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func writeSnapshot(conn *websocket.Conn, m *sync.Mutex, snap Snapshot) error {
	m.Lock()
	defer m.Unlock()
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(snap)
}

// WebSocketSource reads snapshots pushed by a Hub. Fetch blocks until the
// next snapshot arrives.
type WebSocketSource struct {
	url    string
	dialer *websocket.Dialer

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewWebSocketSource creates a source for a hub at url (ws:// or wss://).
func NewWebSocketSource(url string) *WebSocketSource {
	return &WebSocketSource{url: url, dialer: websocket.DefaultDialer}
}

// Fetch implements Source. A broken connection is dropped and redialled on
// the next call.
func (s *WebSocketSource) Fetch(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
		if err != nil {
			return Snapshot{}, fmt.Errorf("failed to dial telemetry hub: %w", err)
		}
		s.conn = conn
	}

	conn := s.conn
	stop := context.AfterFunc(ctx, func() {
		conn.SetReadDeadline(time.Now())
	})
	defer stop()

	var snap Snapshot
	if err := conn.ReadJSON(&snap); err != nil {
		conn.Close()
		s.conn = nil
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Snapshot{}, ctxErr
		}
		return Snapshot{}, fmt.Errorf("failed to read telemetry: %w", err)
	}
	return snap, nil
}

// Close drops the connection, if any.
func (s *WebSocketSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

// Follow calls Fetch back to back and delivers every valid snapshot. After a
// failure it waits retryDelay before the next attempt. The channel is closed
// when ctx is done.
func Follow(ctx context.Context, src Source, retryDelay time.Duration, logger zerolog.Logger) <-chan Snapshot {
	out := make(chan Snapshot, 1)
	go func() {
		defer close(out)
		for {
			snap, err := src.Fetch(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) || ctx.Err() != nil {
					return
				}
				logger.Warn().Err(err).Dur("retry", retryDelay).Msg("telemetry stream interrupted")
				select {
				case <-ctx.Done():
					return
				case <-time.After(retryDelay):
				}
				continue
			}
			if err := snap.Validate(); err != nil {
				logger.Warn().Err(err).Msg("dropping invalid telemetry snapshot")
				continue
			}
			select {
			case out <- snap:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
