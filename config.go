package main

import (
	"log"
	"os"
	"strconv"

	"github.com/example/chat-relay/modules/activity"
	"github.com/example/chat-relay/modules/api"
)

// Config holds the process settings read from the environment.
type Config struct {
	Port           string
	PublicDir      string
	UploadDir      string
	MaxUploadSize  int64
	MaxMessageSize int64
	SendBufferSize int
	AllowedOrigins string
	ActivityLog    int
}

// loadConfig reads Config from environment variables, falling back to
// defaults for unset or invalid values.
func loadConfig() Config {
	return Config{
		Port:           getEnv("PORT", "3000"),
		PublicDir:      getEnv("PUBLIC_DIR", "public"),
		UploadDir:      getEnv("UPLOAD_DIR", "public/uploads"),
		MaxUploadSize:  getEnvInt64("MAX_UPLOAD_SIZE", 10*1024*1024),
		MaxMessageSize: getEnvInt64("MAX_MESSAGE_SIZE", 64*1024),
		SendBufferSize: getEnvInt("SEND_BUFFER_SIZE", 256),
		AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		ActivityLog:    getEnvInt("ACTIVITY_LOG_SIZE", activity.DefaultMaxEntries),
	}
}

// apiConfig returns the HTTP server part of the configuration.
func (c Config) apiConfig() api.Config {
	return api.Config{
		Port:           c.Port,
		PublicDir:      c.PublicDir,
		UploadDir:      c.UploadDir,
		MaxUploadSize:  c.MaxUploadSize,
		MaxMessageSize: c.MaxMessageSize,
		SendBufferSize: c.SendBufferSize,
		AllowedOrigins: c.AllowedOrigins,
	}
}

// getEnv returns environment variable or default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns environment variable as int or default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil && intVal > 0 {
			return intVal
		}
		log.Printf("Warning: invalid int value for %s: %s, using default: %d", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvInt64 returns environment variable as int64 or default.
func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil && intVal > 0 {
			return intVal
		}
		log.Printf("Warning: invalid int64 value for %s: %s, using default: %d", key, value, defaultValue)
	}
	return defaultValue
}
