package ports

import (
	"context"

	"github.com/stockfolio/portfolio-api/internal/core/domain"
)

// AddPositionInput carries one buy event. Cost is the total amount paid for
// this lot; on a merge it is added to the stored cost basis as-is, never
// multiplied by quantity.
type AddPositionInput struct {
	UserID   string
	Symbol   string
	Quantity int
	Cost     float64
}

// AddPositionResult is returned after a buy is applied.
type AddPositionResult struct {
	Position *domain.Position
	// Created is true when this buy opened a new position rather than
	// merging into an existing one.
	Created bool
}

// SellInput carries one sell event.
type SellInput struct {
	UserID   string
	Symbol   string
	Quantity int
}

// SellOutcome distinguishes the two successful sell results. The failure
// cases (position not found, insufficient holdings) travel as errors.
type SellOutcome string

const (
	// FullySold means the sell exhausted the position and it was deleted.
	FullySold SellOutcome = "fully_sold"
	// PartiallySold means quantity and cost basis were reduced.
	PartiallySold SellOutcome = "partially_sold"
)

// SellResult is returned after a successful sell.
type SellResult struct {
	Outcome   SellOutcome
	Symbol    string
	Sold      int
	Remaining int // 0 when fully sold
}

// PortfolioService applies buy/sell events to a user's holdings.
//
// Every operation takes the resolved user ID explicitly and fails with
// domain.ErrUnauthorized when that ID does not belong to a stored user,
// leaving the store untouched.
type PortfolioService interface {
	AddPosition(ctx context.Context, input AddPositionInput) (*AddPositionResult, error)
	Sell(ctx context.Context, input SellInput) (*SellResult, error)
	ListPositions(ctx context.Context, userID string) ([]*domain.Position, error)
}
