package domain

import "time"

// EventType names a catalog or user-collection change.
type EventType string

const (
	EventProductCreated   EventType = "product.created"
	EventProductUpdated   EventType = "product.updated"
	EventProductDeleted   EventType = "product.deleted"
	EventProductRated     EventType = "product.rated"
	EventFavoritesToggled EventType = "user.favorites.toggled"
	EventCartToggled      EventType = "user.cart.toggled"
	EventCartCleared      EventType = "user.cart.cleared"
)

// Event is a domain change emitted after a successful write.
// AggregateID is the product id or the user id the event is about.
type Event struct {
	ID          string    `json:"id"`
	Type        EventType `json:"type"`
	AggregateID string    `json:"aggregateId"`
	OccurredAt  time.Time `json:"occurredAt"`
	Payload     any       `json:"payload,omitempty"`
}

// ToggleEventPayload is carried by favorites/cart toggle events.
type ToggleEventPayload struct {
	ProductID string `json:"productId"`
	Member    bool   `json:"member"`
}

// RatingEventPayload is carried by product.rated events.
type RatingEventPayload struct {
	Rate      float64 `json:"rate"`
	Rating    float64 `json:"rating"`
	VoteCount int     `json:"voteCount"`
}
