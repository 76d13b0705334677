package relay

import domain "github.com/example/chat-relay/domain/relay"

// Observer is told about presence changes and completed relays. Calls are
// made after the hub lock is released.
type Observer interface {
	PresenceChanged(p domain.Presence)
	EventRelayed(r domain.Relay)
}

type nopObserver struct{}

func (nopObserver) PresenceChanged(domain.Presence) {}
func (nopObserver) EventRelayed(domain.Relay)       {}
