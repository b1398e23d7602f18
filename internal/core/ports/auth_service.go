package ports

import (
	"context"

	"github.com/fleetlog/fleetlog-api/internal/core/domain"
)

// AuthService implements login and logout. Login returns a signed token whose
// embedded session id is honoured only while the server-side session record
// exists.
type AuthService interface {
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	Logout(ctx context.Context, sessionID string) error
}
