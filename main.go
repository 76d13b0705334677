package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"

	"github.com/example/chat-relay/modules/activity"
	"github.com/example/chat-relay/modules/api"
	"github.com/example/chat-relay/modules/relay"
)

const shutdownTimeout = 30 * time.Second

func main() {
	log.Println("=== Chat Relay - Fiber WebSocket + EventBus ===")

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))
	cfg := loadConfig()

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Create modules
	relayModule := relay.NewModule(app.Logger())
	activityModule := activity.NewModule(cfg.ActivityLog, app.Logger())
	apiModule := api.NewModule(cfg.apiConfig(), relayModule.Hub(), activityModule.Store(), app.Logger())

	// Register modules with the framework.
	// - relay: session registry and broadcast hub (EventEmitterModule)
	// - activity: presence log (EventConsumerModule)
	// - api: Fiber HTTP/WebSocket server, serves connections on the relay hub
	app.Register(relayModule)
	app.Register(activityModule)
	app.Register(apiModule)

	// Start application
	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo(cfg)

	// Graceful shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo(cfg Config) {
	log.Println("")
	log.Printf("Server listening on http://localhost:%s", cfg.Port)
	log.Println("")
	log.Printf("WebSocket Endpoint (ws://localhost:%s/ws, also accepted on /):", cfg.Port)
	log.Println("  Client events: join, joinRoom, message, edit, delete, typing, stopTyping, seen")
	log.Println("  Server events: system, count")
	log.Println("")
	log.Println("HTTP Endpoints:")
	log.Println("  POST   /upload               - Upload a file (multipart field \"file\")")
	log.Println("  GET    /uploads/*            - Uploaded files")
	log.Println("  GET    /health               - Health check")
	log.Println("  GET    /api/v1/rooms         - Live rooms and members")
	log.Println("  GET    /api/v1/activity      - Recent presence changes and relay counters")
	log.Printf("  GET    /*                    - Static files from %s", cfg.PublicDir)
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
