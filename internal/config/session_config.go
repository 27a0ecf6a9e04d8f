package config

import "strings"

const (
	tokenKeyVar           = "TOKEN_KEY"
	unauthorizedPolicyVar = "UNAUTHORIZED_POLICY"
	storeBackendVar       = "STORE_BACKEND"

	StoreBackendSQLite = "sqlite"
	StoreBackendMemory = "memory"
)

type SessionConfig interface {
	GetTokenKey() string
	GetUnauthorizedPolicy() string
	GetStoreBackend() string
}

type Session struct{}

var _ SessionConfig = Session{}

// GetTokenKey is the name used for both the cookie record and the key-value record
func (Session) GetTokenKey() string {
	return GetEnv(tokenKeyVar, "token")
}

// GetUnauthorizedPolicy is "surface" (default) or "logout"
func (Session) GetUnauthorizedPolicy() string {
	return strings.ToLower(GetEnv(unauthorizedPolicyVar, "surface"))
}

func (Session) GetStoreBackend() string {
	backend := strings.ToLower(GetEnv(storeBackendVar, StoreBackendSQLite))
	if backend != StoreBackendMemory {
		return StoreBackendSQLite
	}
	return backend
}
