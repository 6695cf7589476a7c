package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/vitrine/storefront/internal/core/domain"
)

const (
	catalogKey      = "catalog:products:all"
	generationKey   = "catalog:products:gen"
	defaultCacheTTL = 5 * time.Minute
)

// errGenerationMoved aborts a fill whose listing was read before the last
// invalidation.
var errGenerationMoved = errors.New("catalog generation moved")

// ProductCache keeps the unfiltered product listing as one JSON blob.
//
// Every invalidation bumps a generation counter. A fill carries the
// generation observed on the miss and is skipped when the counter has moved
// since, so a listing read before a write never lands after it.
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProductCache creates a ProductCache; ttl <= 0 falls back to defaultCacheTTL.
func NewProductCache(client *redis.Client, ttl time.Duration) *ProductCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &ProductCache{client: client, ttl: ttl}
}

// GetAll returns the cached listing, whether it was present, and the current
// generation to hand back to SetAll on a miss.
func (c *ProductCache) GetAll(ctx context.Context) ([]*domain.Product, int64, bool, error) {
	var (
		genCmd  *redis.StringCmd
		dataCmd *redis.StringCmd
	)
	// The generation is queued first so a concurrent invalidation can only
	// make the fill stale, never hide it.
	_, err := c.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		genCmd = pipe.Get(ctx, generationKey)
		dataCmd = pipe.Get(ctx, catalogKey)
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, 0, false, fmt.Errorf("catalog cache get: %w", err)
	}

	gen, err := generation(genCmd)
	if err != nil {
		return nil, 0, false, fmt.Errorf("catalog cache generation: %w", err)
	}

	data, err := dataCmd.Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, gen, false, nil
		}
		return nil, 0, false, fmt.Errorf("catalog cache get: %w", err)
	}

	var products []*domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, gen, false, fmt.Errorf("catalog cache decode: %w", err)
	}
	return products, gen, true, nil
}

// SetAll stores products if the generation is still gen. A stale fill is
// dropped without error.
func (c *ProductCache) SetAll(ctx context.Context, gen int64, products []*domain.Product) error {
	if products == nil {
		products = []*domain.Product{}
	}
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("catalog cache encode: %w", err)
	}

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := generation(tx.Get(ctx, generationKey))
		if err != nil {
			return err
		}
		if current != gen {
			return errGenerationMoved
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, catalogKey, data, c.ttl)
			return nil
		})
		return err
	}, generationKey)

	switch {
	case err == nil, errors.Is(err, errGenerationMoved), errors.Is(err, redis.TxFailedErr):
		return nil
	default:
		return fmt.Errorf("catalog cache set: %w", err)
	}
}

// Invalidate drops the listing and bumps the generation in one transaction.
func (c *ProductCache) Invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey)
		pipe.Del(ctx, catalogKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("catalog cache invalidate: %w", err)
	}
	return nil
}

// generation reads the counter; a missing key is generation 0.
func generation(cmd *redis.StringCmd) (int64, error) {
	gen, err := cmd.Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}
