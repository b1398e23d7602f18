package ports

import (
	"context"

	"github.com/fleetlog/fleetlog-api/internal/core/domain"
)

// CreateUserInput carries the fields of an admin "new driver" form.
type CreateUserInput struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Role      string
	Status    domain.UserStatus
}

// UpdateUserInput carries an admin edit. Password empty means unchanged.
type UpdateUserInput struct {
	ID        string
	Username  string
	Password  string
	FirstName string
	LastName  string
	Status    domain.UserStatus
}

// UserService defines admin user management operations.
type UserService interface {
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, input UpdateUserInput) (*domain.User, error)
	SetStatus(ctx context.Context, id string, status domain.UserStatus) (*domain.User, error)
	// Delete fails with domain.ErrUserHasEntries while entries reference the
	// user; there is no cascade.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter UserListFilter) ([]*domain.User, error)
}
