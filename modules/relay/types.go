package relay

import (
	"encoding/json"
	"errors"
	"fmt"
)

// DefaultRoom is the room every session starts in.
const DefaultRoom = "global"

// Wire event types.
const (
	TypeJoin       = "join"
	TypeJoinRoom   = "joinRoom"
	TypeMessage    = "message"
	TypeEdit       = "edit"
	TypeDelete     = "delete"
	TypeTyping     = "typing"
	TypeStopTyping = "stopTyping"
	TypeSeen       = "seen"
	TypeSystem     = "system"
	TypeCount      = "count"
)

// Errors
var (
	ErrConnectionClosed = errors.New("connection closed")
	ErrSendQueueFull    = errors.New("send queue full")
	ErrInvalidName      = errors.New("invalid display name")
	ErrInvalidRoomID    = errors.New("invalid room id")
)

// InboundEvent is a decoded client frame. ID and ReplyTo are opaque and
// relayed exactly as the client sent them. The remaining fields are
// strings; a frame where any of them holds another JSON type does not
// decode and is dropped whole.
type InboundEvent struct {
	Type    string          `json:"type"`
	Name    string          `json:"name,omitempty"`
	RoomID  string          `json:"roomId,omitempty"`
	ID      json.RawMessage `json:"id,omitempty"`
	Text    string          `json:"text,omitempty"`
	ReplyTo json.RawMessage `json:"replyTo,omitempty"`
}

// MessageEvent is a relayed chat message stamped with server time.
type MessageEvent struct {
	Type    string          `json:"type"`
	ID      json.RawMessage `json:"id"`
	Name    string          `json:"name"`
	Text    string          `json:"text"`
	ReplyTo json.RawMessage `json:"replyTo,omitempty"`
	Time    int64           `json:"time"`
}

// EditEvent is a relayed edit.
type EditEvent struct {
	Type    string          `json:"type"`
	ID      json.RawMessage `json:"id"`
	NewText string          `json:"newText"`
}

// TypingEvent carries typing and stopTyping indicators.
type TypingEvent struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
}

// SeenEvent is a relayed read receipt.
type SeenEvent struct {
	Type string          `json:"type"`
	ID   json.RawMessage `json:"id"`
}

// SystemEvent is a server-generated notice.
type SystemEvent struct {
	Type string `json:"type"`
	Text string `json:"text"`
	Time int64  `json:"time"`
}

// CountEvent reports the number of sessions in the recipient's room.
type CountEvent struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// ValidateName validates a display name sent with join. Any non-empty
// name is accepted; frame size is bounded by the transport read limit.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty", ErrInvalidName)
	}
	return nil
}

// ValidateRoomID validates a room id sent with joinRoom.
func ValidateRoomID(roomID string) error {
	if roomID == "" {
		return fmt.Errorf("%w: empty", ErrInvalidRoomID)
	}
	return nil
}
