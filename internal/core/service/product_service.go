package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vitrine/storefront/internal/core/domain"
	"github.com/vitrine/storefront/internal/core/ports"
	"github.com/vitrine/storefront/internal/pkg/metrics"
)

type ProductService struct {
	repo   ports.ProductRepository
	cache  ports.ProductCache
	events ports.EventSink
	logger zerolog.Logger
	now    func() time.Time
}

// NewProductService wires the catalog use cases. cache and events may be nil.
func NewProductService(repo ports.ProductRepository, cache ports.ProductCache, events ports.EventSink, logger zerolog.Logger) *ProductService {
	if cache == nil {
		cache = noopCache{}
	}
	if events == nil {
		events = discardSink{}
	}
	return &ProductService{repo: repo, cache: cache, events: events, logger: logger, now: time.Now}
}

// List returns the catalog. The unfiltered listing goes through the cache;
// filtered listings always hit the store.
func (s *ProductService) List(ctx context.Context, filter ports.ProductFilter) ([]*domain.Product, error) {
	if !filter.IsZero() {
		products, err := s.repo.List(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("list products: %w", err)
		}
		return products, nil
	}

	cached, gen, ok, cacheErr := s.cache.GetAll(ctx)
	switch {
	case cacheErr != nil:
		metrics.CatalogCacheTotal.WithLabelValues("error").Inc()
		s.logger.Warn().Err(cacheErr).Msg("catalog cache read failed, falling back to store")
	case ok:
		metrics.CatalogCacheTotal.WithLabelValues("hit").Inc()
		return cached, nil
	default:
		metrics.CatalogCacheTotal.WithLabelValues("miss").Inc()
	}

	products, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	// Without a generation from a clean miss the fill could be stale.
	if cacheErr == nil {
		if err := s.cache.SetAll(ctx, gen, products); err != nil {
			s.logger.Warn().Err(err).Msg("catalog cache write failed")
		}
	}
	return products, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	if id == "" {
		return nil, domain.ErrProductNotFound
	}
	return s.repo.FindByID(ctx, id)
}

// Create adds a product with no votes yet.
func (s *ProductService) Create(ctx context.Context, in ports.CreateProductInput) (*domain.Product, error) {
	now := s.now().UTC()
	p := &domain.Product{
		Name:            in.Name,
		Price:           in.Price,
		Description:     in.Description,
		Photo:           in.Photo,
		Tags:            domain.NormalizeTags(in.Tags),
		DiscountPercent: in.DiscountPercent,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create product")
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.afterWrite(ctx, "create", domain.EventProductCreated, created.ID, created)
	s.logger.Info().Str("product_id", created.ID).Str("name", created.Name).Msg("product created")
	return created, nil
}

// Update applies a partial update and persists the full record.
func (s *ProductService) Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := patch.Apply(p); err != nil {
		return nil, err
	}
	p.UpdatedAt = s.now().UTC()

	if err := s.repo.Replace(ctx, p); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.afterWrite(ctx, "update", domain.EventProductUpdated, p.ID, p)
	s.logger.Info().Str("product_id", p.ID).Msg("product updated")
	return p, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrProductNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.afterWrite(ctx, "delete", domain.EventProductDeleted, id, nil)
	s.logger.Info().Str("product_id", id).Msg("product deleted")
	return nil
}

// Rate records one vote. The read-modify-write is not guarded: concurrent
// votes on the same product may overwrite each other.
func (s *ProductService) Rate(ctx context.Context, id string, rate float64) (*domain.Product, error) {
	if err := domain.ValidateRate(rate); err != nil {
		return nil, err
	}

	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	p.ApplyVote(rate)

	if err := s.repo.Replace(ctx, p); err != nil {
		return nil, fmt.Errorf("rate product: %w", err)
	}
	metrics.RatingsSubmittedTotal.Inc()

	s.invalidate(ctx)
	s.events.Emit(newEvent(domain.EventProductRated, p.ID, s.now(), domain.RatingEventPayload{
		Rate:      rate,
		Rating:    p.Rating,
		VoteCount: p.VoteCount,
	}))
	s.logger.Debug().Str("product_id", p.ID).Float64("rating", p.Rating).Int("votes", p.VoteCount).Msg("product rated")
	return p, nil
}

func (s *ProductService) afterWrite(ctx context.Context, op string, typ domain.EventType, id string, payload any) {
	metrics.ProductMutationsTotal.WithLabelValues(op).Inc()
	s.invalidate(ctx)
	s.events.Emit(newEvent(typ, id, s.now(), payload))
}

func (s *ProductService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("catalog cache invalidation failed")
	}
}

func newEvent(typ domain.EventType, aggregateID string, at time.Time, payload any) domain.Event {
	return domain.Event{
		ID:          uuid.NewString(),
		Type:        typ,
		AggregateID: aggregateID,
		OccurredAt:  at.UTC(),
		Payload:     payload,
	}
}

type noopCache struct{}

func (noopCache) GetAll(context.Context) ([]*domain.Product, int64, bool, error) {
	return nil, 0, false, nil
}
func (noopCache) SetAll(context.Context, int64, []*domain.Product) error { return nil }
func (noopCache) Invalidate(context.Context) error { return nil }

type discardSink struct{}

func (discardSink) Emit(domain.Event) {}
