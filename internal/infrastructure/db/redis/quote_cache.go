package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stockfolio/portfolio-api/internal/core/domain"
)

const quoteTTL = 5 * time.Minute

// QuoteCache stores resolved quotes under quote:<symbol> with a short TTL so
// repeated lookups for a hot ticker skip the provider.
type QuoteCache struct {
	client *redis.Client
}

// NewQuoteCache creates a QuoteCache wrapping the given Redis client.
func NewQuoteCache(client *redis.Client) *QuoteCache {
	return &QuoteCache{client: client}
}

// Get returns the cached quote, or (nil, nil) on a miss.
func (c *QuoteCache) Get(ctx context.Context, symbol string) (*domain.Quote, error) {
	raw, err := c.client.Get(ctx, c.key(symbol)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("quote cache get: %w", err)
	}

	var q domain.Quote
	if err := json.Unmarshal(raw, &q); err != nil {
		return nil, fmt.Errorf("quote cache decode: %w", err)
	}
	return &q, nil
}

// Set stores the quote, expiring after quoteTTL.
func (c *QuoteCache) Set(ctx context.Context, symbol string, quote *domain.Quote) error {
	raw, err := json.Marshal(quote)
	if err != nil {
		return fmt.Errorf("quote cache encode: %w", err)
	}
	return c.client.Set(ctx, c.key(symbol), raw, quoteTTL).Err()
}

func (c *QuoteCache) key(symbol string) string {
	return "quote:" + symbol
}
