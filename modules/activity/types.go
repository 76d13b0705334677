package activity

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "github.com/example/chat-relay/domain/relay"
)

// Entry is one recorded presence change.
type Entry struct {
	ID string `json:"id"`
	domain.Presence
}

// TypeStats tracks relays of a single event type.
type TypeStats struct {
	Type        string    `json:"type"`
	Events      int64     `json:"events"`
	Deliveries  int64     `json:"deliveries"`
	Failed      int64     `json:"failed"`
	LastRelayed time.Time `json:"last_relayed"`
}

// Summary aggregates everything the store has seen.
type Summary struct {
	Connected        int64       `json:"connected"`
	Disconnected     int64       `json:"disconnected"`
	Joined           int64       `json:"joined"`
	Moved            int64       `json:"moved"`
	EventsRelayed    int64       `json:"events_relayed"`
	Deliveries       int64       `json:"deliveries"`
	FailedDeliveries int64       `json:"failed_deliveries"`
	PeakRoomSize     int         `json:"peak_room_size"`
	PeakRoomID       string      `json:"peak_room_id,omitempty"`
	ByType           []TypeStats `json:"by_type"`
	Entries          int         `json:"entries"`
}

// DefaultMaxEntries is the default number of presence entries to retain.
const DefaultMaxEntries = 200

// Store provides thread-safe storage for relay activity.
type Store struct {
	mu         sync.RWMutex
	entries    []Entry
	maxEntries int
	kinds      map[string]int64
	byType     map[string]*TypeStats
	peakSize   int
	peakRoom   string
}

// NewStore creates a store retaining at most maxEntries presence entries.
func NewStore(maxEntries int) *Store {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Store{
		entries:    make([]Entry, 0),
		maxEntries: maxEntries,
		kinds:      make(map[string]int64),
		byType:     make(map[string]*TypeStats),
	}
}

// RecordPresence appends a presence change, dropping the oldest entries
// beyond the limit.
func (s *Store) RecordPresence(p domain.Presence) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, Entry{ID: uuid.New().String(), Presence: p})
	if len(s.entries) > s.maxEntries {
		excess := len(s.entries) - s.maxEntries
		s.entries = s.entries[excess:]
	}

	s.kinds[p.Kind]++
	if p.Count > s.peakSize {
		s.peakSize = p.Count
		s.peakRoom = p.RoomID
	}
}

// RecordRelay counts a completed relay.
func (s *Store) RecordRelay(r domain.Relay) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats, ok := s.byType[r.Type]
	if !ok {
		stats = &TypeStats{Type: r.Type}
		s.byType[r.Type] = stats
	}
	stats.Events++
	stats.Deliveries += int64(r.Recipients - r.Failed)
	stats.Failed += int64(r.Failed)
	stats.LastRelayed = r.Timestamp
}

// Recent returns up to limit presence entries, newest first.
func (s *Store) Recent(limit int) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.entries) {
		limit = len(s.entries)
	}
	result := make([]Entry, 0, limit)
	for i := len(s.entries) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, s.entries[i])
	}
	return result
}

// Summary returns the aggregated counters.
func (s *Store) Summary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sum := Summary{
		Connected:    s.kinds[domain.PresenceConnected],
		Disconnected: s.kinds[domain.PresenceDisconnected],
		Joined:       s.kinds[domain.PresenceJoined],
		Moved:        s.kinds[domain.PresenceMoved],
		PeakRoomSize: s.peakSize,
		PeakRoomID:   s.peakRoom,
		ByType:       make([]TypeStats, 0, len(s.byType)),
		Entries:      len(s.entries),
	}
	for _, stats := range s.byType {
		sum.EventsRelayed += stats.Events
		sum.Deliveries += stats.Deliveries
		sum.FailedDeliveries += stats.Failed
		sum.ByType = append(sum.ByType, *stats)
	}
	sort.Slice(sum.ByType, func(i, j int) bool { return sum.ByType[i].Type < sum.ByType[j].Type })
	return sum
}
