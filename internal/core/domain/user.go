package domain

import (
	"errors"
	"time"
)

var ErrUserExists = errors.New("user already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrUnauthorized covers every token failure: missing or malformed header,
// bad signature, expired token, or a subject that no longer maps to a user.
var ErrUnauthorized = errors.New("unauthorized")

// User models a registered account. Immutable after creation.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
