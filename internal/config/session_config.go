package config

import "time"

const (
	namespaceVar      = "AUTH_SESSION_NAMESPACE"
	expirySkewVar     = "AUTH_SESSION_EXPIRY_SKEW"
	refreshTimeoutVar = "AUTH_SESSION_REFRESH_TIMEOUT"
)

type SessionConfig interface {
	GetNamespace() string
	GetExpirySkew() time.Duration
	GetRefreshTimeout() time.Duration
}

type Session struct{}

var _ SessionConfig = Session{}

// GetNamespace prefixes the persisted record key: "<namespace>.session".
func (Session) GetNamespace() string {
	return GetEnv(namespaceVar, "auth")
}

// GetExpirySkew is how long before nominal expiry a stored session stops being served.
func (Session) GetExpirySkew() time.Duration {
	return GetEnvDuration(expirySkewVar, 60*time.Second)
}

// GetRefreshTimeout bounds a single refresh call. Zero disables the bound.
func (Session) GetRefreshTimeout() time.Duration {
	return GetEnvDuration(refreshTimeoutVar, 30*time.Second)
}
