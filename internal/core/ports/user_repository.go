package ports

import (
	"context"

	"github.com/fleetlog/fleetlog-api/internal/core/domain"
)

// UserListFilter narrows the admin user listing. Search matches username and
// first/last name case-insensitively; Status empty means all statuses.
type UserListFilter struct {
	Search string
	Status domain.UserStatus
	Role   string
}

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context, filter UserListFilter) ([]*domain.User, error)
}
