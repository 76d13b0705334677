package relay

import (
	"encoding/json"
	"fmt"
	"log/slog"
)

// Delivery summarises one fan-out.
type Delivery struct {
	Recipients int
	Failed     int
}

// Router computes recipient sets from the registry and delivers encoded
// frames to them. A recipient that fails or panics is skipped.
type Router struct {
	registry *Registry
	logger   *slog.Logger
}

// NewRouter creates a Router over registry.
func NewRouter(registry *Registry, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		registry: registry,
		logger:   logger,
	}
}

// Broadcast encodes v once and sends it to every member of roomID except
// exclude.
func (rt *Router) Broadcast(roomID string, exclude *Session, v any) Delivery {
	data, err := json.Marshal(v)
	if err != nil {
		rt.logger.Error("failed to encode outbound event", "room", roomID, "error", err)
		return Delivery{}
	}
	return rt.BroadcastRaw(roomID, exclude, data)
}

// BroadcastRaw sends data unchanged to every member of roomID except
// exclude.
func (rt *Router) BroadcastRaw(roomID string, exclude *Session, data []byte) Delivery {
	recipients := rt.registry.Members(roomID, exclude)
	d := Delivery{Recipients: len(recipients)}
	for _, s := range recipients {
		if err := deliver(s, data); err != nil {
			d.Failed++
			rt.logger.Debug("delivery skipped", "session", s.id, "room", roomID, "error", err)
		}
	}
	return d
}

func deliver(s *Session, data []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("send panicked: %v", r)
		}
	}()
	return s.sender.Send(data)
}
