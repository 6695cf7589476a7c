package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/vitrine/storefront/internal/core/domain"
	"github.com/vitrine/storefront/internal/core/ports"
	"github.com/vitrine/storefront/internal/pkg/metrics"
)

// CollectionService manages the favorites and cart lists of a user.
type CollectionService struct {
	users  ports.UserRepository
	events ports.EventSink
	logger zerolog.Logger
	now    func() time.Time
}

func NewCollectionService(users ports.UserRepository, events ports.EventSink, logger zerolog.Logger) *CollectionService {
	if events == nil {
		events = discardSink{}
	}
	return &CollectionService{users: users, events: events, logger: logger, now: time.Now}
}

// Toggle adds productID to the collection when absent and removes it when
// present, then writes the whole list back. It returns the resulting
// membership.
//
// The list is read and written without any guard, so two concurrent toggles
// on the same list can clobber each other.
func (s *CollectionService) Toggle(ctx context.Context, userID string, c domain.Collection, productID string) (bool, error) {
	if productID == "" {
		return false, domain.Invalid("productId is required")
	}
	if err := validCollection(c); err != nil {
		return false, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return false, err
	}

	list, member := domain.Toggle(user.List(c), productID)
	if err := s.users.SetList(ctx, userID, c, list); err != nil {
		return false, fmt.Errorf("toggle %s: %w", c, err)
	}

	metrics.CollectionTogglesTotal.WithLabelValues(string(c), strconv.FormatBool(member)).Inc()
	s.events.Emit(newEvent(toggleEventType(c), userID, s.now(), domain.ToggleEventPayload{
		ProductID: productID,
		Member:    member,
	}))
	s.logger.Debug().
		Str("user_id", userID).
		Str("collection", string(c)).
		Str("product_id", productID).
		Bool("member", member).
		Msg("collection toggled")

	return member, nil
}

// List returns the stored list; never nil.
func (s *CollectionService) List(ctx context.Context, userID string, c domain.Collection) ([]string, error) {
	if err := validCollection(c); err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.List(c), nil
}

// ClearCart overwrites the cart with an empty list.
func (s *CollectionService) ClearCart(ctx context.Context, userID string) error {
	if err := s.users.SetList(ctx, userID, domain.CollectionCart, []string{}); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	s.events.Emit(newEvent(domain.EventCartCleared, userID, s.now(), nil))
	s.logger.Debug().Str("user_id", userID).Msg("cart cleared")
	return nil
}

func validCollection(c domain.Collection) error {
	switch c {
	case domain.CollectionFavorites, domain.CollectionCart:
		return nil
	default:
		return domain.Invalid("unknown collection %q", c)
	}
}

func toggleEventType(c domain.Collection) domain.EventType {
	if c == domain.CollectionCart {
		return domain.EventCartToggled
	}
	return domain.EventFavoritesToggled
}
