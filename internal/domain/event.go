package domain

import "time"

type EventType string

const (
	EventItemAdded       EventType = "item_added"
	EventQuantityChanged EventType = "quantity_changed"
	EventItemRemoved     EventType = "item_removed"
	EventDiscountApplied EventType = "discount_applied"
	EventDiscountRemoved EventType = "discount_removed"
	EventBoxCleared      EventType = "box_cleared"
)

// Event describes one completed mutation of a box. It is emitted after the
// new state has been persisted.
type Event struct {
	BoxID    string    `json:"box_id"`
	Type     EventType `json:"type"`
	ItemID   string    `json:"item_id,omitempty"`
	Name     string    `json:"name,omitempty"`
	Quantity int       `json:"quantity,omitempty"`
	Code     string    `json:"code,omitempty"`
	Count    int       `json:"count"`
	At       time.Time `json:"at"`
}
