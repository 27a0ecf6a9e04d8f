package config

import (
	"strings"
	"time"
)

const (
	publicAPIURLVar   = "NEXT_PUBLIC_API_URL"
	apiURLVar         = "API_URL"
	requestTimeoutVar = "REQUEST_TIMEOUT"

	defaultAPIBaseURL     = "http://localhost:8080"
	defaultRequestTimeout = 15 * time.Second
)

type API struct{}

var _ APIConfig = API{}

// GetAPIBaseURL returns the origin of the remote banking API without a trailing slash
func (API) GetAPIBaseURL() string {
	url := GetEnv(publicAPIURLVar, GetEnv(apiURLVar, defaultAPIBaseURL))
	return strings.TrimRight(url, "/")
}

func (API) GetRequestTimeout() time.Duration {
	d, err := time.ParseDuration(GetEnv(requestTimeoutVar, ""))
	if err != nil || d <= 0 {
		return defaultRequestTimeout
	}
	return d
}
