package ports

import (
	"context"

	"github.com/stockfolio/portfolio-api/internal/core/domain"
)

// UserRepository defines persistence for registered users.
type UserRepository interface {
	// Create inserts a new user. Returns domain.ErrUserExists when the
	// username is already taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}
