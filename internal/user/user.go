package user

import (
	"errors"
	"time"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Role gates what a user can do; only techs are dispatchable.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleTech  Role = "tech"
)

// User is an operator of the system. Usernames are natural keys.
type User struct {
	Username     string
	FullName     string
	Role         Role
	PasswordHash string
	CreatedAt    time.Time
}

// IsTech reports whether the user can be assigned field work.
func (u *User) IsTech() bool {
	return u.Role == RoleTech
}
