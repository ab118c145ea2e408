package ports

import (
	"context"

	"github.com/stockfolio/portfolio-api/internal/core/domain"
)

// PositionRepository defines persistence for portfolio positions.
//
// Update and Delete are conditional writes: they match on the position's ID
// and the Version it carried when read, and return domain.ErrVersionConflict
// when another writer got there first. This is what lets the service layer
// serialize concurrent buys/sells on the same (user, symbol) pair.
type PositionRepository interface {
	// FindByUserAndSymbol retrieves the single position a user holds for a
	// symbol. Symbols are matched exactly, case-sensitive.
	FindByUserAndSymbol(ctx context.Context, userID, symbol string) (*domain.Position, error)
	FindByUser(ctx context.Context, userID string) ([]*domain.Position, error)
	// Insert persists a new position with Version 1.
	Insert(ctx context.Context, p *domain.Position) (*domain.Position, error)
	// Update persists quantity/cost changes, matching on (ID, Version) and
	// incrementing the stored version.
	Update(ctx context.Context, p *domain.Position) (*domain.Position, error)
	// Delete removes a position, matching on (ID, Version).
	Delete(ctx context.Context, id string, version int64) error
}
