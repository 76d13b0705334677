package relay

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	domain "github.com/example/chat-relay/domain/relay"
)

// Conn is a transport channel the hub can serve: it delivers frames,
// yields inbound frames in order, and can be closed from the server side.
type Conn interface {
	Sender
	ReadMessage() ([]byte, error)
	Close() error
}

// Hub owns every session. It serialises lifecycle transitions and relays
// under one mutex so that membership reads, mutations and the resulting
// notifications are computed against the same state.
type Hub struct {
	registry *Registry
	router   *Router
	observer Observer
	logger   *slog.Logger
	now      func() time.Time
	mu       sync.Mutex
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithObserver registers an observer for presence and relay notices.
func WithObserver(o Observer) HubOption {
	return func(h *Hub) {
		if o != nil {
			h.observer = o
		}
	}
}

// WithClock overrides the clock used to stamp outbound events.
func WithClock(now func() time.Time) HubOption {
	return func(h *Hub) {
		if now != nil {
			h.now = now
		}
	}
}

// NewHub creates a Hub with an empty registry.
func NewHub(logger *slog.Logger, opts ...HubOption) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	registry := NewRegistry()
	h := &Hub{
		registry: registry,
		router:   NewRouter(registry, logger),
		observer: nopObserver{},
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// notice collects what a transition reports to the observer once the
// lock is released.
type notice struct {
	presence *domain.Presence
	relay    *domain.Relay
}

func (h *Hub) notify(n notice) {
	if n.presence != nil {
		h.observer.PresenceChanged(*n.presence)
	}
	if n.relay != nil {
		h.observer.EventRelayed(*n.relay)
	}
}

// Open registers a new session in the default room and sends the room's
// count to every member, the new session included.
func (h *Hub) Open(sender Sender) *Session {
	s := newSession(sender)

	h.mu.Lock()
	h.registry.Add(s, DefaultRoom)
	count := h.registry.Count(DefaultRoom)
	h.router.Broadcast(DefaultRoom, nil, CountEvent{Type: TypeCount, Count: count})
	h.mu.Unlock()

	h.logger.Info("session opened", "session", s.id, "room", DefaultRoom, "count", count)
	h.notify(notice{presence: &domain.Presence{
		Kind:      domain.PresenceConnected,
		SessionID: s.id,
		RoomID:    DefaultRoom,
		Count:     count,
		Timestamp: h.now(),
	}})
	return s
}

// Close removes s from its room. Named sessions are announced as having
// left, and the room always receives its new count. Close runs at most
// once per session; later calls are no-ops.
func (h *Hub) Close(s *Session) {
	h.mu.Lock()
	if s.closed {
		h.mu.Unlock()
		return
	}
	s.closed = true
	roomID, ok := h.registry.Remove(s)
	if !ok {
		h.mu.Unlock()
		return
	}
	name := s.Name()
	if name != "" {
		h.router.Broadcast(roomID, nil, SystemEvent{
			Type: TypeSystem,
			Text: name + " left",
			Time: h.now().UnixMilli(),
		})
	}
	count := h.registry.Count(roomID)
	h.router.Broadcast(roomID, nil, CountEvent{Type: TypeCount, Count: count})
	h.mu.Unlock()

	h.logger.Info("session closed", "session", s.id, "name", name, "room", roomID, "count", count)
	h.notify(notice{presence: &domain.Presence{
		Kind:      domain.PresenceDisconnected,
		SessionID: s.id,
		Name:      name,
		RoomID:    roomID,
		Count:     count,
		Timestamp: h.now(),
	}})
}

// Serve runs the inbound loop for one connection. The session is opened
// before the first read and closed exactly once when the stream ends,
// whatever ended it. Cancelling ctx closes the connection.
func (h *Hub) Serve(ctx context.Context, conn Conn) {
	s := h.Open(conn)
	defer h.Close(s)

	stop := context.AfterFunc(ctx, func() {
		_ = conn.Close()
	})
	defer stop()

	for {
		data, err := conn.ReadMessage()
		if err != nil {
			h.logger.Debug("session stream ended", "session", s.id, "error", err)
			return
		}
		h.Dispatch(s, data)
	}
}

// CloseAll shuts every open session down. Sessions whose sender can be
// closed are closed at the transport, which ends their Serve loop; the
// rest are closed directly.
func (h *Hub) CloseAll() {
	sessions := h.registry.Sessions()
	for _, s := range sessions {
		if c, ok := s.sender.(io.Closer); ok {
			_ = c.Close()
			continue
		}
		h.Close(s)
	}
	if len(sessions) > 0 {
		h.logger.Info("closed all sessions", "count", len(sessions))
	}
}

// Rooms returns a snapshot of every non-empty room.
func (h *Hub) Rooms() []domain.Room {
	return h.registry.Rooms()
}

// RoomCount returns the number of sessions in roomID.
func (h *Hub) RoomCount(roomID string) int {
	return h.registry.Count(roomID)
}

// SessionCount returns the number of open sessions.
func (h *Hub) SessionCount() int {
	return h.registry.Len()
}
