package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/stockfolio/portfolio-api/internal/api/handler"
	"github.com/stockfolio/portfolio-api/internal/api/middleware"
	"github.com/stockfolio/portfolio-api/internal/core/ports"
	"github.com/stockfolio/portfolio-api/internal/core/service"
	mongodb "github.com/stockfolio/portfolio-api/internal/infrastructure/db/mongo"
	redisdb "github.com/stockfolio/portfolio-api/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, market ports.MarketDataClient, jwtSecret string, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("portfolio"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	positionRepo := mongodb.NewPositionRepository(db)
	quoteCache := redisdb.NewQuoteCache(rdb)

	authService := service.NewAuthService(userRepo, jwtSecret, 24*time.Hour)
	portfolioService := service.NewPortfolioService(positionRepo, userRepo, log)
	marketService := service.NewMarketService(market, quoteCache, log)

	authHandler := handler.NewAuthHandler(authService)
	portfolioHandler := handler.NewPortfolioHandler(portfolioService)
	marketHandler := handler.NewMarketHandler(marketService)
	authMiddleware := middleware.Auth(jwtSecret)

	// --- User routes (no auth required) ---
	users := e.Group("/api/users")
	users.POST("/register", authHandler.Register)
	users.POST("/login", authHandler.Login)

	// --- Portfolio and market routes (bearer token required) ---
	stocks := e.Group("/api/stocks", authMiddleware)
	stocks.POST("", portfolioHandler.Add)
	stocks.GET("", portfolioHandler.List)
	stocks.PUT("/sell", portfolioHandler.Sell)
	stocks.GET("/realtime", marketHandler.Quote)
	stocks.GET("/search", marketHandler.Search)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Observability and docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
