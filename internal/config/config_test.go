package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "0.0.0.0", cfg.ServerHost)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 24*time.Hour, cfg.AccessTokenExpiration)
	assert.Equal(t, 525600*time.Minute, cfg.RefreshTokenExpiration)
	assert.Equal(t, 30*time.Second, cfg.AuthzGraphRefreshInterval)
	assert.True(t, cfg.AuthzFailOpenUnknownAction)
	assert.Equal(t, "user", cfg.AuthzDefaultRole)
	assert.Equal(t, "authd", cfg.MetricsNamespace)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("ACCESS_TOKEN_SECRET", "test-secret")
	t.Setenv("ACCESS_TOKEN_EXPIRATION_SECONDS", "3600")
	t.Setenv("AUTHZ_FAIL_OPEN_UNKNOWN_ACTION", "false")
	t.Setenv("AUTHZ_DEFAULT_ROLE", "member")

	cfg := Load()

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, "test-secret", cfg.AccessTokenSecret)
	assert.Equal(t, time.Hour, cfg.AccessTokenExpiration)
	assert.False(t, cfg.AuthzFailOpenUnknownAction)
	assert.Equal(t, "member", cfg.AuthzDefaultRole)
}

func TestGetGinMode(t *testing.T) {
	tests := []struct {
		logLevel string
		want     string
	}{
		{"debug", "debug"},
		{"info", "release"},
		{"warn", "release"},
		{"error", "release"},
		{"unknown", "release"},
	}

	for _, tt := range tests {
		t.Run(tt.logLevel, func(t *testing.T) {
			cfg := &Config{LogLevel: tt.logLevel}
			assert.Equal(t, tt.want, cfg.GetGinMode())
		})
	}
}
