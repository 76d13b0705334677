package activity

import (
	"context"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"

	"github.com/example/chat-relay/events"
)

// Module consumes relay events and keeps a bounded activity log.
type Module struct {
	store  *Store
	logger types.Logger
}

// Compile-time interface checks
var (
	_ mono.Module              = (*Module)(nil)
	_ mono.EventConsumerModule = (*Module)(nil)
)

// NewModule creates a new activity module retaining maxEntries presence
// changes.
func NewModule(maxEntries int, logger types.Logger) *Module {
	return &Module{
		store:  NewStore(maxEntries),
		logger: logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "activity"
}

// RegisterEventConsumers registers event handlers for relay events.
func (m *Module) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(
		registry, events.PresenceChangedV1, m.handlePresenceChanged, m,
	); err != nil {
		return fmt.Errorf("failed to register PresenceChanged consumer: %w", err)
	}

	if err := helper.RegisterTypedEventConsumer(
		registry, events.EventRelayedV1, m.handleEventRelayed, m,
	); err != nil {
		return fmt.Errorf("failed to register EventRelayed consumer: %w", err)
	}

	m.logger.Info("Registered event consumers", "events", []string{"PresenceChanged.v1", "EventRelayed.v1"})
	return nil
}

func (m *Module) handlePresenceChanged(_ context.Context, event events.PresenceChangedEvent, _ *mono.Msg) error {
	m.store.RecordPresence(event)
	m.logger.Debug("Recorded presence change",
		"kind", event.Kind,
		"session", event.SessionID,
		"room", event.RoomID,
		"count", event.Count)
	return nil
}

func (m *Module) handleEventRelayed(_ context.Context, event events.EventRelayedEvent, _ *mono.Msg) error {
	m.store.RecordRelay(event)
	return nil
}

// Start initializes the activity module.
func (m *Module) Start(_ context.Context) error {
	m.logger.Info("Activity module started", "maxEntries", m.store.maxEntries)
	return nil
}

// Stop gracefully shuts down the module.
func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("Activity module stopped", "entries", m.store.Summary().Entries)
	return nil
}

// Store returns the activity store.
func (m *Module) Store() *Store {
	return m.store
}
