package relay

import (
	"context"
	"log/slog"
	"sync"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"

	domain "github.com/example/chat-relay/domain/relay"
	"github.com/example/chat-relay/events"
)

// Module owns the relay hub and publishes presence and relay events on
// the event bus.
type Module struct {
	hub      *Hub
	eventBus mono.EventBus
	busMu    sync.RWMutex
	logger   types.Logger
}

// Compile-time interface checks
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.EventBusAwareModule   = (*Module)(nil)
	_ mono.EventEmitterModule    = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
	_ Observer                   = (*Module)(nil)
)

// NewModule creates a new relay module.
func NewModule(logger types.Logger) *Module {
	m := &Module{logger: logger}
	m.hub = NewHub(slog.Default().With("module", "relay"), WithObserver(m))
	return m
}

// Name returns the module name.
func (m *Module) Name() string {
	return "relay"
}

// SetEventBus receives the EventBus from the framework.
func (m *Module) SetEventBus(bus mono.EventBus) {
	m.busMu.Lock()
	m.eventBus = bus
	m.busMu.Unlock()
}

// EmitEvents declares the events this module can emit.
func (m *Module) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.PresenceChangedV1.ToBase(),
		events.EventRelayedV1.ToBase(),
	}
}

// Start starts the module.
func (m *Module) Start(_ context.Context) error {
	m.logger.Info("Relay module started", "defaultRoom", DefaultRoom)
	return nil
}

// Stop closes every open session.
func (m *Module) Stop(_ context.Context) error {
	count := m.hub.SessionCount()
	m.hub.CloseAll()
	m.logger.Info("Relay module stopped", "sessions", count)
	return nil
}

// Health returns the health status.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"connected_clients": m.hub.SessionCount(),
			"rooms":             len(m.hub.Rooms()),
		},
	}
}

// Hub returns the relay hub for the API module to serve connections on.
func (m *Module) Hub() *Hub {
	return m.hub
}

func (m *Module) bus() mono.EventBus {
	m.busMu.RLock()
	defer m.busMu.RUnlock()
	return m.eventBus
}

// PresenceChanged publishes a PresenceChanged event.
func (m *Module) PresenceChanged(p domain.Presence) {
	bus := m.bus()
	if bus == nil {
		return
	}
	if err := events.PresenceChangedV1.Publish(bus, p, nil); err != nil {
		m.logger.Error("Failed to publish PresenceChanged event", "session", p.SessionID, "error", err)
	}
}

// EventRelayed publishes an EventRelayed event.
func (m *Module) EventRelayed(r domain.Relay) {
	bus := m.bus()
	if bus == nil {
		return
	}
	if err := events.EventRelayedV1.Publish(bus, r, nil); err != nil {
		m.logger.Error("Failed to publish EventRelayed event", "session", r.SessionID, "error", err)
	}
}
