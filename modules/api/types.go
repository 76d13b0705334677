package api

import (
	domain "github.com/example/chat-relay/domain/relay"
	"github.com/example/chat-relay/modules/activity"
)

// RoomListResponse is the API response for listing live rooms.
type RoomListResponse struct {
	Rooms []domain.Room `json:"rooms"`
	Total int           `json:"total"`
}

// ActivityResponse is the API response for recent relay activity.
type ActivityResponse struct {
	Recent  []activity.Entry `json:"recent"`
	Summary activity.Summary `json:"summary"`
}

// UploadResponse is returned after a file has been stored.
type UploadResponse struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

// ErrorResponse is the API error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HealthResponse is the API health check response.
type HealthResponse struct {
	Status  string         `json:"status"`
	Details map[string]any `json:"details,omitempty"`
}
