package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/fleetlog/fleetlog-api/internal/core/domain"
	"github.com/fleetlog/fleetlog-api/internal/core/ports"
)

// UserService implements admin user management.
type UserService struct {
	users   ports.UserRepository
	entries ports.EntryRepository
	log     zerolog.Logger
}

func NewUserService(users ports.UserRepository, entries ports.EntryRepository, log zerolog.Logger) *UserService {
	return &UserService{users: users, entries: entries, log: log}
}

func (s *UserService) Create(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	if input.Username == "" || input.Password == "" {
		return nil, domain.ErrMissingRequiredField
	}
	role := input.Role
	if role == "" {
		role = domain.RoleDriver
	}
	status := input.Status
	if status == "" {
		status = domain.UserActive
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	user := &domain.User{
		Username:     input.Username,
		PasswordHash: string(hash),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Role:         role,
		Status:       status,
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user created")
	return created, nil
}

func (s *UserService) Update(ctx context.Context, input ports.UpdateUserInput) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Username != "" {
		user.Username = input.Username
	}
	user.FirstName = input.FirstName
	user.LastName = input.LastName
	if input.Status != "" {
		user.Status = input.Status
	}
	// Password changes only when a new one is supplied.
	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	updated, err := s.users.Update(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", updated.ID).Msg("user updated")
	return updated, nil
}

func (s *UserService) SetStatus(ctx context.Context, id string, status domain.UserStatus) (*domain.User, error) {
	if status != domain.UserActive && status != domain.UserInactive {
		return nil, domain.ErrMissingRequiredField
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Status = status

	updated, err := s.users.Update(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", id).Str("status", string(status)).Msg("user status changed")
	return updated, nil
}

// Delete refuses to remove a user that still owns entries.
func (s *UserService) Delete(ctx context.Context, id string) error {
	n, err := s.entries.CountByUser(ctx, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if n > 0 {
		return domain.ErrUserHasEntries
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info().Str("user_id", id).Msg("user deleted")
	return nil
}

func (s *UserService) List(ctx context.Context, filter ports.UserListFilter) ([]*domain.User, error) {
	if filter.Role == "" {
		filter.Role = domain.RoleDriver
	}
	return s.users.List(ctx, filter)
}
