package events

import (
	"github.com/go-monolith/mono/pkg/helper"

	"github.com/example/chat-relay/domain/relay"
)

// PresenceChangedEvent is emitted when a session connects, names itself,
// changes room or disconnects.
type PresenceChangedEvent = relay.Presence

// EventRelayedEvent is emitted after a client event has been fanned out.
type EventRelayedEvent = relay.Relay

// Event definitions for the relay domain.
var (
	PresenceChangedV1 = helper.EventDefinition[PresenceChangedEvent](
		"relay",
		"PresenceChanged",
		"v1",
	)

	EventRelayedV1 = helper.EventDefinition[EventRelayedEvent](
		"relay",
		"EventRelayed",
		"v1",
	)
)
