package ports

import (
	"context"

	"github.com/stockfolio/portfolio-api/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, username, password string) (*domain.User, error)
	// Login verifies credentials and returns a signed bearer token bound to
	// the user's ID with a 24-hour expiry.
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
}
