package relay

import (
	"sync"

	"github.com/google/uuid"
)

// Sender delivers one encoded frame to a client. Implementations must not
// block; a full or closed outbound queue is reported as an error.
type Sender interface {
	Send(data []byte) error
}

// Session is the server-side record of one open channel. The sender is
// used for delivery only; identity and room membership live here.
type Session struct {
	id     string
	sender Sender

	mu     sync.RWMutex
	name   string
	roomID string

	// closed is guarded by Hub.mu.
	closed bool
}

func newSession(sender Sender) *Session {
	return &Session{
		id:     uuid.New().String(),
		sender: sender,
	}
}

// Name returns the display name, or "" before join.
func (s *Session) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

// RoomID returns the room the session currently belongs to.
func (s *Session) RoomID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roomID
}

// displayName returns the name used in room announcements.
func (s *Session) displayName() string {
	if name := s.Name(); name != "" {
		return name
	}
	return "Someone"
}

func (s *Session) setName(name string) {
	s.mu.Lock()
	s.name = name
	s.mu.Unlock()
}

// setRoom is only called by Registry, which keeps its index in step.
func (s *Session) setRoom(roomID string) {
	s.mu.Lock()
	s.roomID = roomID
	s.mu.Unlock()
}
