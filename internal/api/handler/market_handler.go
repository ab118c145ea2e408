package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/stockfolio/portfolio-api/internal/core/ports"
)

// MarketHandler handles quote and symbol-search requests. These endpoints
// only require a verifiable token; they never resolve the caller to a user.
type MarketHandler struct {
	service ports.MarketService
}

func NewMarketHandler(service ports.MarketService) *MarketHandler {
	return &MarketHandler{service: service}
}

// Quote handles GET /api/stocks/realtime?ticker=SYM.
//
// @Summary      Near-real-time quote for a ticker
// @Tags         market
// @Produce      json
// @Security     BearerAuth
// @Param        ticker  query     string  true  "Ticker symbol"
// @Success      200     {object}  domain.Quote
// @Failure      400     {object}  map[string]string
// @Failure      401     {object}  map[string]string
// @Failure      503     {object}  map[string]string
// @Router       /api/stocks/realtime [get]
func (h *MarketHandler) Quote(c echo.Context) error {
	ticker := c.QueryParam("ticker")
	if ticker == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "ticker is required")
	}

	quote, err := h.service.Quote(c.Request().Context(), ticker)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, quote)
}

// Search handles GET /api/stocks/search?keyword=term.
//
// @Summary      Search symbols by keyword
// @Tags         market
// @Produce      json
// @Security     BearerAuth
// @Param        keyword  query     string  true  "Search keyword"
// @Success      200      {array}   domain.SymbolMatch
// @Failure      400      {object}  map[string]string
// @Failure      401      {object}  map[string]string
// @Router       /api/stocks/search [get]
func (h *MarketHandler) Search(c echo.Context) error {
	keyword := c.QueryParam("keyword")
	if keyword == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "keyword is required")
	}

	matches, err := h.service.Search(c.Request().Context(), keyword)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, matches)
}
