package api

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const (
	defaultActivityLimit = 50
	maxActivityLimit     = 500

	// multipartOverhead leaves room for boundaries and headers around the
	// uploaded file.
	multipartOverhead = 1 << 20
)

// buildApp creates the Fiber app with middleware and routes.
func (m *APIModule) buildApp() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          m.errorHandler,
		BodyLimit:             int(m.cfg.MaxUploadSize) + multipartOverhead,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          60 * time.Second,
		IdleTimeout:           120 * time.Second,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next:   websocket.IsWebSocketUpgrade,
		Format: "[${time}] ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: m.cfg.AllowedOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Content-Type",
	}))

	m.setupRoutes(app)
	return app
}

// setupRoutes configures all HTTP routes.
func (m *APIModule) setupRoutes(app *fiber.App) {
	app.Get("/health", m.healthHandler)

	ws := websocket.New(m.handleWebSocket, websocket.Config{
		Origins: splitOrigins(m.cfg.AllowedOrigins),
	})

	// WebSocket endpoint
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", ws)

	// Clients served from the page origin connect on the root path.
	app.Get("/", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return ws(c)
		}
		return c.Next()
	})

	app.Post("/upload", m.uploadHandler)

	api := app.Group("/api/v1")
	api.Get("/rooms", m.listRooms)
	api.Get("/activity", m.getActivity)

	app.Static("/uploads", m.cfg.UploadDir)
	app.Static("/", m.cfg.PublicDir)
}

// healthHandler handles GET /health.
func (m *APIModule) healthHandler(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status: "healthy",
		Details: map[string]any{
			"module":            "api",
			"connected_clients": m.hub.SessionCount(),
			"rooms":             len(m.hub.Rooms()),
		},
	})
}

// listRooms handles GET /api/v1/rooms.
func (m *APIModule) listRooms(c *fiber.Ctx) error {
	return c.JSON(RoomListResponse{
		Rooms: m.hub.Rooms(),
		Total: m.hub.SessionCount(),
	})
}

// getActivity handles GET /api/v1/activity.
func (m *APIModule) getActivity(c *fiber.Ctx) error {
	if m.activity == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
			Error:   "unavailable",
			Message: "Activity tracking is disabled",
		})
	}

	limit := c.QueryInt("limit", defaultActivityLimit)
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	if limit > maxActivityLimit {
		limit = maxActivityLimit
	}

	return c.JSON(ActivityResponse{
		Recent:  m.activity.Recent(limit),
		Summary: m.activity.Summary(),
	})
}

// errorHandler handles errors globally.
func (m *APIModule) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	if code >= fiber.StatusInternalServerError {
		m.logger.Error("HTTP error", "code", code, "path", c.Path(), "error", err)
	}

	return c.Status(code).JSON(ErrorResponse{
		Error:   "server_error",
		Message: message,
	})
}

func splitOrigins(origins string) []string {
	var out []string
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
