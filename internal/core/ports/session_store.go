package ports

import (
	"context"

	"github.com/fleetlog/fleetlog-api/internal/core/domain"
)

// SessionStore keeps the server-side session records backing issued tokens.
// Records expire at the session's ExpiresAt; Delete revokes one early.
type SessionStore interface {
	Save(ctx context.Context, s *domain.Session) error
	Find(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
}
