package config_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-bank-client/internal/config"
	"github.com/stretchr/testify/require"
)

func TestConfig_Defaults(t *testing.T) {
	for _, v := range []string{"PORT", "APP_NAME", "ENV", "FOLDER", "LOG_LEVEL", "NEXT_PUBLIC_API_URL", "API_URL",
		"REQUEST_TIMEOUT", "TOKEN_KEY", "UNAUTHORIZED_POLICY", "STORE_BACKEND"} {
		t.Setenv(v, "")
	}
	c := config.New()

	require.Equal(t, ":3000", c.GetPort())
	require.Equal(t, "Go Bank", c.GetAppName())
	require.Equal(t, "DEV", c.GetEnv())
	require.Equal(t, "./data", c.GetDataFolder())
	require.Equal(t, "info", c.GetLogLevel())
	require.Equal(t, "http://localhost:8080", c.GetAPIBaseURL())
	require.Equal(t, 15*time.Second, c.GetRequestTimeout())
	require.Equal(t, "token", c.GetTokenKey())
	require.Equal(t, "surface", c.GetUnauthorizedPolicy())
	require.Equal(t, config.StoreBackendSQLite, c.GetStoreBackend())
}

func TestConfig_Overrides(t *testing.T) {
	t.Setenv("PORT", ":4000")
	t.Setenv("ENV", "PROD")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("REQUEST_TIMEOUT", "3s")
	t.Setenv("TOKEN_KEY", "bank_token")
	t.Setenv("UNAUTHORIZED_POLICY", "Logout")
	t.Setenv("STORE_BACKEND", "Memory")
	c := config.New()

	require.Equal(t, ":4000", c.GetPort())
	require.Equal(t, "PROD", c.GetEnv())
	require.Equal(t, "debug", c.GetLogLevel())
	require.Equal(t, 3*time.Second, c.GetRequestTimeout())
	require.Equal(t, "bank_token", c.GetTokenKey())
	require.Equal(t, "logout", c.GetUnauthorizedPolicy())
	require.Equal(t, config.StoreBackendMemory, c.GetStoreBackend())
}

func TestConfig_APIBaseURL(t *testing.T) {
	tests := []struct {
		name      string
		publicURL string
		apiURL    string
		want      string
	}{
		{"public url wins", "https://bank.example.com/", "http://other", "https://bank.example.com"},
		{"falls back to API_URL", "", "http://api:8080///", "http://api:8080"},
		{"default", "", "", "http://localhost:8080"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NEXT_PUBLIC_API_URL", tt.publicURL)
			t.Setenv("API_URL", tt.apiURL)
			require.Equal(t, tt.want, config.New().GetAPIBaseURL())
		})
	}
}

func TestConfig_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT", "soon")
	t.Setenv("STORE_BACKEND", "postgres")
	t.Setenv("PORT", "8081")
	c := config.New()

	require.Equal(t, 15*time.Second, c.GetRequestTimeout())
	require.Equal(t, config.StoreBackendSQLite, c.GetStoreBackend())
	require.Equal(t, ":8081", c.GetPort())
}
