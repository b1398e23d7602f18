package domain

import (
	"errors"
	"time"
)

var ErrSessionNotFound = errors.New("session not found or expired")

// Session is the server-side record backing an issued token. Tokens are only
// honoured while their session record exists; logout deletes the record and
// the store expires it at ExpiresAt.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}
