package relay

import "time"

// Room is a point-in-time view of one room's membership.
type Room struct {
	ID      string   `json:"id"`
	Members int      `json:"members"`
	Names   []string `json:"names"`
}

// Presence describes one membership change observed by the relay.
type Presence struct {
	Kind           string    `json:"kind"` // "connected", "joined", "moved", "disconnected"
	SessionID      string    `json:"session_id"`
	Name           string    `json:"name,omitempty"`
	RoomID         string    `json:"room_id"`
	PreviousRoomID string    `json:"previous_room_id,omitempty"`
	Count          int       `json:"count"`
	PreviousCount  int       `json:"previous_count,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// Presence kinds.
const (
	PresenceConnected    = "connected"
	PresenceJoined       = "joined"
	PresenceMoved        = "moved"
	PresenceDisconnected = "disconnected"
)

// Relay describes one client event forwarded to a room.
type Relay struct {
	SessionID  string    `json:"session_id"`
	RoomID     string    `json:"room_id"`
	Type       string    `json:"type"`
	Recipients int       `json:"recipients"`
	Failed     int       `json:"failed"`
	Timestamp  time.Time `json:"timestamp"`
}
