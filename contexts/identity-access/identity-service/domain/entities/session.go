package entities

import "time"

// Session is a server-side authenticated session. Only the SHA-256 hash of
// the opaque token is stored.
type Session struct {
	TokenHash string
	AccountID string
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
