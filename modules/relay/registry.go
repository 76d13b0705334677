package relay

import (
	"sort"
	"sync"

	domain "github.com/example/chat-relay/domain/relay"
)

// Registry indexes open sessions by room. Every mutation updates the
// session's room field and the index together, so the member set of a
// room always equals the sessions whose RoomID is that room.
type Registry struct {
	rooms    map[string]map[*Session]struct{} // roomID -> members
	sessions map[string]*Session              // sessionID -> Session
	mu       sync.RWMutex
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		rooms:    make(map[string]map[*Session]struct{}),
		sessions: make(map[string]*Session),
	}
}

// Add registers s as a member of roomID.
func (r *Registry) Add(s *Session, roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[s.id]; ok {
		r.leave(s, s.RoomID())
	}
	r.sessions[s.id] = s
	r.join(s, roomID)
}

// Remove unregisters s and returns the room it was in.
func (r *Registry) Remove(s *Session) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[s.id]; !ok {
		return "", false
	}
	roomID := s.RoomID()
	delete(r.sessions, s.id)
	r.leave(s, roomID)
	return roomID, true
}

// Move transfers s to roomID and returns the room it left.
func (r *Registry) Move(s *Session, roomID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[s.id]; !ok {
		return "", false
	}
	old := s.RoomID()
	r.leave(s, old)
	r.join(s, roomID)
	return old, true
}

func (r *Registry) join(s *Session, roomID string) {
	members, ok := r.rooms[roomID]
	if !ok {
		members = make(map[*Session]struct{})
		r.rooms[roomID] = members
	}
	members[s] = struct{}{}
	s.setRoom(roomID)
}

func (r *Registry) leave(s *Session, roomID string) {
	members, ok := r.rooms[roomID]
	if !ok {
		return
	}
	delete(members, s)
	if len(members) == 0 {
		delete(r.rooms, roomID)
	}
}

// Members returns the sessions in roomID, leaving out exclude when it is
// non-nil.
func (r *Registry) Members(roomID string, exclude *Session) []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := r.rooms[roomID]
	out := make([]*Session, 0, len(members))
	for s := range members {
		if s != exclude {
			out = append(out, s)
		}
	}
	return out
}

// Count returns the number of sessions in roomID.
func (r *Registry) Count(roomID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms[roomID])
}

// Len returns the number of open sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sessions returns every open session.
func (r *Registry) Sessions() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	return out
}

// Rooms returns a snapshot of every non-empty room, ordered by id.
func (r *Registry) Rooms() []domain.Room {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rooms := make([]domain.Room, 0, len(r.rooms))
	for id, members := range r.rooms {
		names := make([]string, 0, len(members))
		for s := range members {
			if name := s.Name(); name != "" {
				names = append(names, name)
			}
		}
		sort.Strings(names)
		rooms = append(rooms, domain.Room{
			ID:      id,
			Members: len(members),
			Names:   names,
		})
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })
	return rooms
}
