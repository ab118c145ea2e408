package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/stockfolio/portfolio-api/internal/core/domain"
	"github.com/stockfolio/portfolio-api/internal/core/ports"
)

type stubPortfolioService struct {
	addFn  func(ctx context.Context, input ports.AddPositionInput) (*ports.AddPositionResult, error)
	sellFn func(ctx context.Context, input ports.SellInput) (*ports.SellResult, error)
	listFn func(ctx context.Context, userID string) ([]*domain.Position, error)
}

func (s *stubPortfolioService) AddPosition(ctx context.Context, input ports.AddPositionInput) (*ports.AddPositionResult, error) {
	return s.addFn(ctx, input)
}

func (s *stubPortfolioService) Sell(ctx context.Context, input ports.SellInput) (*ports.SellResult, error) {
	return s.sellFn(ctx, input)
}

func (s *stubPortfolioService) ListPositions(ctx context.Context, userID string) ([]*domain.Position, error) {
	return s.listFn(ctx, userID)
}

func jsonContext(e *echo.Echo, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "u1")
	return c, rec
}

func TestPortfolioHandler_Add_OpensPosition(t *testing.T) {
	e := newTestEcho()
	stub := &stubPortfolioService{
		addFn: func(ctx context.Context, input ports.AddPositionInput) (*ports.AddPositionResult, error) {
			if input.UserID != "u1" || input.Symbol != "AAPL" || input.Quantity != 10 || input.Cost != 1000 {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &ports.AddPositionResult{
				Position: &domain.Position{ID: "p1", UserID: "u1", Symbol: "AAPL", Quantity: 10, CostBasis: 1000},
				Created:  true,
			}, nil
		},
	}
	handler := NewPortfolioHandler(stub)

	c, rec := jsonContext(e, http.MethodPost, "/api/stocks", `{"symbol":"AAPL","quantity":10,"price":1000}`)
	if err := handler.Add(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["symbol"] != "AAPL" || resp["quantity"] != float64(10) || resp["price"] != float64(1000) {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestPortfolioHandler_Add_MergeReturns200(t *testing.T) {
	e := newTestEcho()
	stub := &stubPortfolioService{
		addFn: func(ctx context.Context, input ports.AddPositionInput) (*ports.AddPositionResult, error) {
			return &ports.AddPositionResult{
				Position: &domain.Position{ID: "p1", UserID: "u1", Symbol: "AAPL", Quantity: 15, CostBasis: 1600},
			}, nil
		},
	}
	handler := NewPortfolioHandler(stub)

	c, rec := jsonContext(e, http.MethodPost, "/api/stocks", `{"symbol":"AAPL","quantity":5,"price":600}`)
	if err := handler.Add(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for merge, got %d", rec.Code)
	}
}

func TestPortfolioHandler_Add_RejectsNonPositiveQuantity(t *testing.T) {
	e := newTestEcho()
	stub := &stubPortfolioService{
		addFn: func(ctx context.Context, input ports.AddPositionInput) (*ports.AddPositionResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewPortfolioHandler(stub)

	c, _ := jsonContext(e, http.MethodPost, "/api/stocks", `{"symbol":"AAPL","quantity":0,"price":100}`)
	err := handler.Add(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestPortfolioHandler_Add_PropagatesServiceError(t *testing.T) {
	e := newTestEcho()
	stub := &stubPortfolioService{
		addFn: func(ctx context.Context, input ports.AddPositionInput) (*ports.AddPositionResult, error) {
			return nil, domain.ErrUnauthorized
		},
	}
	handler := NewPortfolioHandler(stub)

	c, _ := jsonContext(e, http.MethodPost, "/api/stocks", `{"symbol":"AAPL","quantity":1,"price":100}`)
	if err := handler.Add(c); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized to propagate, got %v", err)
	}
}

func TestPortfolioHandler_List_EmptyPortfolioIsEmptyArray(t *testing.T) {
	e := newTestEcho()
	stub := &stubPortfolioService{
		listFn: func(ctx context.Context, userID string) ([]*domain.Position, error) {
			return nil, nil
		},
	}
	handler := NewPortfolioHandler(stub)

	c, rec := jsonContext(e, http.MethodGet, "/api/stocks", "")
	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Fatalf("expected empty array, got %q", got)
	}
}

func TestPortfolioHandler_Sell_PartialMessage(t *testing.T) {
	e := newTestEcho()
	stub := &stubPortfolioService{
		sellFn: func(ctx context.Context, input ports.SellInput) (*ports.SellResult, error) {
			return &ports.SellResult{Outcome: ports.PartiallySold, Symbol: "TSLA", Sold: 1, Remaining: 3}, nil
		},
	}
	handler := NewPortfolioHandler(stub)

	c, rec := jsonContext(e, http.MethodPut, "/api/stocks/sell", `{"symbol":"TSLA","quantity":1}`)
	if err := handler.Sell(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["msg"] != "Sold 1 stocks of TSLA" {
		t.Fatalf("unexpected message: %v", resp["msg"])
	}
}

func TestPortfolioHandler_Sell_FullMessage(t *testing.T) {
	e := newTestEcho()
	stub := &stubPortfolioService{
		sellFn: func(ctx context.Context, input ports.SellInput) (*ports.SellResult, error) {
			return &ports.SellResult{Outcome: ports.FullySold, Symbol: "AAPL", Sold: 15}, nil
		},
	}
	handler := NewPortfolioHandler(stub)

	c, rec := jsonContext(e, http.MethodPut, "/api/stocks/sell", `{"symbol":"AAPL","quantity":15}`)
	if err := handler.Sell(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["msg"] != "Sold all stocks of AAPL" {
		t.Fatalf("unexpected message: %v", resp["msg"])
	}
}

func TestPortfolioHandler_Sell_PropagatesInsufficientHoldings(t *testing.T) {
	e := newTestEcho()
	stub := &stubPortfolioService{
		sellFn: func(ctx context.Context, input ports.SellInput) (*ports.SellResult, error) {
			return nil, &domain.InsufficientHoldingsError{Symbol: "AAPL", Held: 3}
		},
	}
	handler := NewPortfolioHandler(stub)

	c, _ := jsonContext(e, http.MethodPut, "/api/stocks/sell", `{"symbol":"AAPL","quantity":5}`)
	err := handler.Sell(c)

	var insufficient *domain.InsufficientHoldingsError
	if !errors.As(err, &insufficient) || insufficient.Held != 3 {
		t.Fatalf("expected InsufficientHoldingsError to propagate, got %v", err)
	}
}
