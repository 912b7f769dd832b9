package session

import (
	"math"
	"time"
)

// maxTTLSeconds is the largest ExpiresIn that fits in a time.Duration.
const maxTTLSeconds = math.MaxInt64 / int64(time.Second)

// DefaultExpirySkew is subtracted from a stored session's lifetime: a session whose
// expiration is not more than this far in the future is treated as expired.
const DefaultExpirySkew = 60 * time.Second

// Session is the credential pair returned by a login or a refresh.
// It is treated as immutable and replaced wholesale on refresh.
type Session struct {
	AccessToken          string `json:"access_token"`
	TokenType            string `json:"token_type,omitempty"`
	ExpiresIn            int64  `json:"expires_in"` // seconds, relative to when the session was issued
	RefreshToken         string `json:"refresh_token"`
	IDToken              string `json:"id_token,omitempty"`
	ProviderToken        string `json:"provider_token,omitempty"`
	ProviderRefreshToken string `json:"provider_refresh_token,omitempty"`
	User                 *User  `json:"user,omitempty"`
}

// TTL is ExpiresIn as a duration, clamped to the range a time.Duration can hold.
func (s Session) TTL() time.Duration {
	secs := min(max(s.ExpiresIn, -maxTTLSeconds), maxTTLSeconds)
	return time.Duration(secs) * time.Second
}

// User is the identity payload that accompanies a session.
type User struct {
	ID           string         `json:"id"`
	Aud          string         `json:"aud,omitempty"`
	Role         string         `json:"role,omitempty"`
	Email        string         `json:"email,omitempty"`
	Phone        string         `json:"phone,omitempty"`
	AppMetadata  map[string]any `json:"app_metadata,omitempty"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
	CreatedAt    *time.Time     `json:"created_at,omitempty"`
}

// StoredSession is a Session plus the absolute time it expires, as persisted.
type StoredSession struct {
	Session        Session   `json:"session"`
	ExpirationDate time.Time `json:"expiration_date"`
}

// NewStoredSession stamps s with an expiration of now + s.TTL(). The expiration is
// fixed here and never recomputed; build a StoredSession literal to set it explicitly.
func NewStoredSession(s Session, now time.Time) StoredSession {
	return StoredSession{
		Session:        s,
		ExpirationDate: now.Add(s.TTL()),
	}
}

// IsValid reports whether the session can still be served at now: its expiration
// must lie strictly after now + skew.
func (ss StoredSession) IsValid(now time.Time, skew time.Duration) bool {
	return ss.ExpirationDate.After(now.Add(skew))
}
