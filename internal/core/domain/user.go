package domain

import (
	"errors"
	"time"
)

const (
	RoleAdmin  = "admin"
	RoleDriver = "driver"
)

// UserStatus gates login ability and serves as an admin filter criterion.
// Entries have no status of their own; filtering by status always means
// filtering by the owning driver's status.
type UserStatus string

const (
	UserActive   UserStatus = "active"
	UserInactive UserStatus = "inactive"
)

// ErrInvalidCredentials covers both unknown username and wrong password so
// the login response cannot be used to enumerate accounts.
var ErrInvalidCredentials = errors.New("invalid username or password")

var ErrUserNotFound = errors.New("user not found")
var ErrUsernameTaken = errors.New("username already taken")
var ErrUserHasEntries = errors.New("user still referenced by entries")
var ErrForbidden = errors.New("access forbidden")

// User models an account in the system: an administrator or a driver.
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Role         string     `json:"role"`
	Status       UserStatus `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
}

// CanLogin reports whether the account is allowed to authenticate.
func (u *User) CanLogin() bool {
	return u.Status == UserActive
}
