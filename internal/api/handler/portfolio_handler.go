package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/stockfolio/portfolio-api/internal/core/domain"
	"github.com/stockfolio/portfolio-api/internal/core/ports"
)

// PortfolioHandler handles HTTP requests for portfolio operations.
type PortfolioHandler struct {
	service ports.PortfolioService
}

func NewPortfolioHandler(service ports.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{service: service}
}

type addStockRequest struct {
	Symbol   string  `json:"symbol"   validate:"required"`
	Quantity int     `json:"quantity" validate:"required,gt=0"`
	Price    float64 `json:"price"    validate:"required,gt=0"`
}

// Add handles POST /api/stocks — applies a buy event.
//
// A buy for a symbol the user already holds merges into the existing
// position (200); the first buy of a symbol opens one (201).
//
// @Summary      Buy a stock
// @Tags         stocks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      addStockRequest  true  "Buy details; price is the total cost of the lot"
// @Success      200   {object}  domain.Position
// @Success      201   {object}  domain.Position
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/stocks [post]
func (h *PortfolioHandler) Add(c echo.Context) error {
	var req addStockRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	userID, _ := c.Get("user_id").(string)

	result, err := h.service.AddPosition(c.Request().Context(), ports.AddPositionInput{
		UserID:   userID,
		Symbol:   req.Symbol,
		Quantity: req.Quantity,
		Cost:     req.Price,
	})
	if err != nil {
		return err
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	return c.JSON(status, result.Position)
}

// List handles GET /api/stocks — lists the caller's holdings.
//
// @Summary      List holdings
// @Tags         stocks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Position
// @Failure      401  {object}  map[string]string
// @Router       /api/stocks [get]
func (h *PortfolioHandler) List(c echo.Context) error {
	userID, _ := c.Get("user_id").(string)

	positions, err := h.service.ListPositions(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	if positions == nil {
		positions = []*domain.Position{}
	}
	return c.JSON(http.StatusOK, positions)
}

type sellStockRequest struct {
	Symbol   string `json:"symbol"   validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

// Sell handles PUT /api/stocks/sell — applies a sell event.
//
// @Summary      Sell a stock
// @Tags         stocks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      sellStockRequest  true  "Sell details"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/stocks/sell [put]
func (h *PortfolioHandler) Sell(c echo.Context) error {
	var req sellStockRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	userID, _ := c.Get("user_id").(string)

	result, err := h.service.Sell(c.Request().Context(), ports.SellInput{
		UserID:   userID,
		Symbol:   req.Symbol,
		Quantity: req.Quantity,
	})
	if err != nil {
		return err
	}

	msg := fmt.Sprintf("Sold %d stocks of %s", result.Sold, result.Symbol)
	if result.Outcome == ports.FullySold {
		msg = fmt.Sprintf("Sold all stocks of %s", result.Symbol)
	}
	return c.JSON(http.StatusOK, messageResponse{Msg: msg})
}
