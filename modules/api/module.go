package api

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"

	"github.com/example/chat-relay/modules/activity"
	"github.com/example/chat-relay/modules/relay"
)

// Config holds the HTTP server settings.
type Config struct {
	Port           string
	PublicDir      string
	UploadDir      string
	MaxUploadSize  int64
	MaxMessageSize int64
	SendBufferSize int
	AllowedOrigins string
}

// APIModule serves the websocket channel, uploads, static assets and the
// read-only REST endpoints.
type APIModule struct {
	cfg      Config
	app      *fiber.App
	hub      *relay.Hub
	activity *activity.Store
	logger   types.Logger
	wsLogger *slog.Logger

	// ctx is cancelled on Stop and closes every served connection.
	ctx    context.Context
	cancel context.CancelFunc
}

// Compile-time interface checks.
var _ mono.Module = (*APIModule)(nil)
var _ mono.HealthCheckableModule = (*APIModule)(nil)

// NewModule creates a new APIModule.
func NewModule(cfg Config, hub *relay.Hub, store *activity.Store, logger types.Logger) *APIModule {
	ctx, cancel := context.WithCancel(context.Background())
	return &APIModule{
		cfg:      cfg,
		hub:      hub,
		activity: store,
		logger:   logger,
		wsLogger: slog.Default().With("module", "api"),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Name returns the module name.
func (m *APIModule) Name() string {
	return "api"
}

// Start initializes the Fiber HTTP server.
func (m *APIModule) Start(_ context.Context) error {
	if m.hub == nil {
		return fmt.Errorf("relay hub dependency not set")
	}
	if err := os.MkdirAll(m.cfg.UploadDir, 0o755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	m.app = m.buildApp()

	// Start server in goroutine with startup error detection
	errCh := make(chan error, 1)
	go func() {
		if err := m.app.Listen(":" + m.cfg.Port); err != nil {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("HTTP server failed to start: %w", err)
	case <-time.After(100 * time.Millisecond):
	}

	m.logger.Info("HTTP server started", "port", m.cfg.Port, "publicDir", m.cfg.PublicDir)
	return nil
}

// Stop closes every websocket connection and shuts down the HTTP server.
func (m *APIModule) Stop(ctx context.Context) error {
	m.cancel()
	if m.app == nil {
		return nil
	}
	if err := m.app.ShutdownWithContext(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	m.logger.Info("HTTP server stopped")
	return nil
}

// Health returns the health status.
func (m *APIModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"port":              m.cfg.Port,
			"connected_clients": m.hub.SessionCount(),
		},
	}
}
