package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "PUBLIC_DIR", "UPLOAD_DIR", "MAX_UPLOAD_SIZE", "MAX_MESSAGE_SIZE",
		"SEND_BUFFER_SIZE", "CORS_ALLOWED_ORIGINS", "ACTIVITY_LOG_SIZE",
	} {
		t.Setenv(key, "")
	}

	cfg := loadConfig()

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "public", cfg.PublicDir)
	assert.Equal(t, "public/uploads", cfg.UploadDir)
	assert.EqualValues(t, 10*1024*1024, cfg.MaxUploadSize)
	assert.EqualValues(t, 64*1024, cfg.MaxMessageSize)
	assert.Equal(t, 256, cfg.SendBufferSize)
	assert.Equal(t, "*", cfg.AllowedOrigins)
	assert.Equal(t, 200, cfg.ActivityLog)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("UPLOAD_DIR", "/tmp/uploads")
	t.Setenv("MAX_UPLOAD_SIZE", "2048")
	t.Setenv("SEND_BUFFER_SIZE", "32")

	cfg := loadConfig()
	apiCfg := cfg.apiConfig()

	assert.Equal(t, "8080", apiCfg.Port)
	assert.Equal(t, "/tmp/uploads", apiCfg.UploadDir)
	assert.EqualValues(t, 2048, apiCfg.MaxUploadSize)
	assert.Equal(t, 32, apiCfg.SendBufferSize)
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{name: "unset", value: "", want: 7},
		{name: "valid", value: "42", want: 42},
		{name: "not a number", value: "lots", want: 7},
		{name: "zero", value: "0", want: 7},
		{name: "negative", value: "-3", want: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_INT", tt.value)
			assert.Equal(t, tt.want, getEnvInt("TEST_INT", 7))
		})
	}
}

func TestGetEnvInt64(t *testing.T) {
	t.Setenv("TEST_INT64", "9999999999")
	assert.EqualValues(t, 9999999999, getEnvInt64("TEST_INT64", 1))

	t.Setenv("TEST_INT64", "1.5")
	assert.EqualValues(t, 1, getEnvInt64("TEST_INT64", 1))
}
