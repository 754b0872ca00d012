package models

import "time"

// Product lifecycle event types, used as routing keys.
const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
)

// ProductEvent is published after a successful catalog write.
type ProductEvent struct {
	Type       string    `json:"type"`
	ProductID  string    `json:"productId"`
	Product    *Product  `json:"product,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}
