package relay

import (
	"encoding/json"

	domain "github.com/example/chat-relay/domain/relay"
)

// eventHandler applies one inbound event. It runs with Hub.mu held.
type eventHandler func(h *Hub, s *Session, ev InboundEvent, raw []byte) notice

var handlers = map[string]eventHandler{
	TypeJoin:       handleJoin,
	TypeJoinRoom:   handleJoinRoom,
	TypeMessage:    handleMessage,
	TypeEdit:       handleEdit,
	TypeDelete:     handleDelete,
	TypeTyping:     handleTyping,
	TypeStopTyping: handleTyping,
	TypeSeen:       handleSeen,
}

// Dispatch decodes one raw frame from s and applies it. Frames that do not
// decode, carry an unknown type, or arrive after close are dropped without
// a reply.
func (h *Hub) Dispatch(s *Session, raw []byte) {
	var ev InboundEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		h.logger.Debug("dropping undecodable frame", "session", s.id, "error", err)
		return
	}

	handle, ok := handlers[ev.Type]
	if !ok {
		h.logger.Debug("ignoring unknown event type", "session", s.id, "type", ev.Type)
		return
	}

	h.mu.Lock()
	if s.closed {
		h.mu.Unlock()
		return
	}
	n := handle(h, s, ev, raw)
	h.mu.Unlock()

	h.notify(n)
}

func handleJoin(h *Hub, s *Session, ev InboundEvent, _ []byte) notice {
	if err := ValidateName(ev.Name); err != nil {
		h.logger.Debug("ignoring join", "session", s.id, "error", err)
		return notice{}
	}
	s.setName(ev.Name)
	roomID := s.RoomID()
	h.router.Broadcast(roomID, s, SystemEvent{
		Type: TypeSystem,
		Text: ev.Name + " joined the chat",
		Time: h.now().UnixMilli(),
	})
	return notice{presence: &domain.Presence{
		Kind:      domain.PresenceJoined,
		SessionID: s.id,
		Name:      ev.Name,
		RoomID:    roomID,
		Count:     h.registry.Count(roomID),
		Timestamp: h.now(),
	}}
}

// handleJoinRoom announces the departure to the old room using the
// membership without the mover, then moves the session and announces the
// arrival to the new room with the mover included.
func handleJoinRoom(h *Hub, s *Session, ev InboundEvent, _ []byte) notice {
	if err := ValidateRoomID(ev.RoomID); err != nil {
		h.logger.Debug("ignoring joinRoom", "session", s.id, "error", err)
		return notice{}
	}
	old := s.RoomID()
	if old == ev.RoomID {
		return notice{}
	}
	name := s.displayName()
	now := h.now()

	oldCount := h.registry.Count(old) - 1
	h.router.Broadcast(old, s, SystemEvent{
		Type: TypeSystem,
		Text: name + " left the room",
		Time: now.UnixMilli(),
	})
	h.router.Broadcast(old, s, CountEvent{Type: TypeCount, Count: oldCount})

	h.registry.Move(s, ev.RoomID)

	newCount := h.registry.Count(ev.RoomID)
	h.router.Broadcast(ev.RoomID, nil, SystemEvent{
		Type: TypeSystem,
		Text: name + " joined the room",
		Time: now.UnixMilli(),
	})
	h.router.Broadcast(ev.RoomID, nil, CountEvent{Type: TypeCount, Count: newCount})

	h.logger.Info("session changed room", "session", s.id, "from", old, "to", ev.RoomID)
	return notice{presence: &domain.Presence{
		Kind:           domain.PresenceMoved,
		SessionID:      s.id,
		Name:           s.Name(),
		RoomID:         ev.RoomID,
		PreviousRoomID: old,
		Count:          newCount,
		PreviousCount:  oldCount,
		Timestamp:      now,
	}}
}

func handleMessage(h *Hub, s *Session, ev InboundEvent, _ []byte) notice {
	name := ev.Name
	if name == "" {
		name = s.Name()
	}
	return h.relay(s, ev.Type, MessageEvent{
		Type:    TypeMessage,
		ID:      ev.ID,
		Name:    name,
		Text:    ev.Text,
		ReplyTo: ev.ReplyTo,
		Time:    h.now().UnixMilli(),
	})
}

func handleEdit(h *Hub, s *Session, ev InboundEvent, _ []byte) notice {
	return h.relay(s, ev.Type, EditEvent{
		Type:    TypeEdit,
		ID:      ev.ID,
		NewText: ev.Text,
	})
}

func handleDelete(h *Hub, s *Session, ev InboundEvent, raw []byte) notice {
	roomID := s.RoomID()
	d := h.router.BroadcastRaw(roomID, s, raw)
	return h.relayed(s, roomID, ev.Type, d)
}

func handleTyping(h *Hub, s *Session, ev InboundEvent, _ []byte) notice {
	name := ev.Name
	if name == "" {
		name = s.Name()
	}
	return h.relay(s, ev.Type, TypingEvent{Type: ev.Type, Name: name})
}

func handleSeen(h *Hub, s *Session, ev InboundEvent, _ []byte) notice {
	return h.relay(s, ev.Type, SeenEvent{Type: TypeSeen, ID: ev.ID})
}

// relay sends v to the sender's room peers.
func (h *Hub) relay(s *Session, eventType string, v any) notice {
	roomID := s.RoomID()
	d := h.router.Broadcast(roomID, s, v)
	return h.relayed(s, roomID, eventType, d)
}

func (h *Hub) relayed(s *Session, roomID, eventType string, d Delivery) notice {
	return notice{relay: &domain.Relay{
		SessionID:  s.id,
		RoomID:     roomID,
		Type:       eventType,
		Recipients: d.Recipients,
		Failed:     d.Failed,
		Timestamp:  h.now(),
	}}
}
