package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/stockfolio/portfolio-api/internal/api/metrics"
	"github.com/stockfolio/portfolio-api/internal/core/domain"
	"github.com/stockfolio/portfolio-api/internal/core/ports"
)

// maxReconcileAttempts bounds the optimistic retry loop around each
// read-modify-write. Conflicts only happen when two requests hit the same
// (user, symbol) pair simultaneously, so a small budget is enough.
const maxReconcileAttempts = 3

// PortfolioService applies buy and sell events to a user's holdings.
type PortfolioService struct {
	positions ports.PositionRepository
	users     ports.UserRepository
	logger    zerolog.Logger
}

func NewPortfolioService(positions ports.PositionRepository, users ports.UserRepository, logger zerolog.Logger) *PortfolioService {
	return &PortfolioService{positions: positions, users: users, logger: logger}
}

// resolveOwner checks that the token subject still maps to a stored user.
// Any operation with a dangling subject fails before touching positions.
func (s *PortfolioService) resolveOwner(ctx context.Context, userID string) error {
	if userID == "" {
		return domain.ErrUnauthorized
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrUnauthorized
		}
		return err
	}
	return nil
}

// AddPosition applies a buy event. An existing position for the symbol is
// merged additively: quantity += input.Quantity and cost basis += input.Cost.
// The incoming cost is a total contribution for the lot, not a unit price;
// it is never multiplied by quantity.
func (s *PortfolioService) AddPosition(ctx context.Context, input ports.AddPositionInput) (*ports.AddPositionResult, error) {
	if err := s.resolveOwner(ctx, input.UserID); err != nil {
		return nil, err
	}

	for attempt := 0; attempt < maxReconcileAttempts; attempt++ {
		existing, err := s.positions.FindByUserAndSymbol(ctx, input.UserID, input.Symbol)
		switch {
		case err == nil:
			existing.Quantity += input.Quantity
			existing.CostBasis += input.Cost

			updated, err := s.positions.Update(ctx, existing)
			if errors.Is(err, domain.ErrVersionConflict) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("merge position: %w", err)
			}

			metrics.TradesTotal.WithLabelValues("buy_merge").Inc()
			s.logger.Info().
				Str("user_id", input.UserID).
				Str("symbol", input.Symbol).
				Int("quantity", updated.Quantity).
				Msg("position merged")
			return &ports.AddPositionResult{Position: updated}, nil

		case errors.Is(err, domain.ErrPositionNotFound):
			created, err := s.positions.Insert(ctx, &domain.Position{
				UserID:    input.UserID,
				Symbol:    input.Symbol,
				Quantity:  input.Quantity,
				CostBasis: input.Cost,
			})
			if errors.Is(err, domain.ErrVersionConflict) {
				// A concurrent buy created the position first; re-read and merge.
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("create position: %w", err)
			}

			metrics.TradesTotal.WithLabelValues("buy_open").Inc()
			s.logger.Info().
				Str("user_id", input.UserID).
				Str("symbol", input.Symbol).
				Int("quantity", created.Quantity).
				Msg("position opened")
			return &ports.AddPositionResult{Position: created, Created: true}, nil

		default:
			return nil, fmt.Errorf("find position: %w", err)
		}
	}

	metrics.TradeErrorsTotal.WithLabelValues("conflict").Inc()
	return nil, domain.ErrConflict
}

// Sell applies a sell event. Selling the full held quantity deletes the
// position; a partial sell reduces quantity and subtracts the average unit
// cost (computed from the pre-sell quantity) times the quantity sold from the
// cost basis. Overselling and unknown symbols leave the store untouched.
func (s *PortfolioService) Sell(ctx context.Context, input ports.SellInput) (*ports.SellResult, error) {
	if err := s.resolveOwner(ctx, input.UserID); err != nil {
		return nil, err
	}

	for attempt := 0; attempt < maxReconcileAttempts; attempt++ {
		pos, err := s.positions.FindByUserAndSymbol(ctx, input.UserID, input.Symbol)
		if err != nil {
			if errors.Is(err, domain.ErrPositionNotFound) {
				metrics.TradeErrorsTotal.WithLabelValues("not_found").Inc()
				return nil, domain.ErrPositionNotFound
			}
			return nil, fmt.Errorf("find position: %w", err)
		}

		if input.Quantity > pos.Quantity {
			metrics.TradeErrorsTotal.WithLabelValues("insufficient").Inc()
			return nil, &domain.InsufficientHoldingsError{Symbol: input.Symbol, Held: pos.Quantity}
		}

		if input.Quantity == pos.Quantity {
			err := s.positions.Delete(ctx, pos.ID, pos.Version)
			if errors.Is(err, domain.ErrVersionConflict) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("delete position: %w", err)
			}

			metrics.TradesTotal.WithLabelValues("sell_full").Inc()
			s.logger.Info().
				Str("user_id", input.UserID).
				Str("symbol", input.Symbol).
				Int("sold", input.Quantity).
				Msg("position fully sold")
			return &ports.SellResult{
				Outcome: ports.FullySold,
				Symbol:  input.Symbol,
				Sold:    input.Quantity,
			}, nil
		}

		avgUnitCost := pos.AverageUnitCost()
		pos.Quantity -= input.Quantity
		pos.CostBasis -= avgUnitCost * float64(input.Quantity)

		updated, err := s.positions.Update(ctx, pos)
		if errors.Is(err, domain.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("update position: %w", err)
		}

		metrics.TradesTotal.WithLabelValues("sell_partial").Inc()
		s.logger.Info().
			Str("user_id", input.UserID).
			Str("symbol", input.Symbol).
			Int("sold", input.Quantity).
			Int("remaining", updated.Quantity).
			Msg("position partially sold")
		return &ports.SellResult{
			Outcome:   ports.PartiallySold,
			Symbol:    input.Symbol,
			Sold:      input.Quantity,
			Remaining: updated.Quantity,
		}, nil
	}

	metrics.TradeErrorsTotal.WithLabelValues("conflict").Inc()
	return nil, domain.ErrConflict
}

// ListPositions returns all positions held by the user, in store order.
func (s *PortfolioService) ListPositions(ctx context.Context, userID string) ([]*domain.Position, error) {
	if err := s.resolveOwner(ctx, userID); err != nil {
		return nil, err
	}
	positions, err := s.positions.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list positions: %w", err)
	}
	return positions, nil
}
