package domain

import "time"

// Item event types published after successful store mutations.
const (
	EventTypeItemCreated = "ItemCreated"
	EventTypeItemDeleted = "ItemDeleted"
)

// ItemEvent describes a change to the item collection.
type ItemEvent struct {
	Type       string    `json:"type"`
	ItemID     ItemID    `json:"itemId"`
	Item       *Item     `json:"item,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// NewItemCreated builds the event for a freshly stored item.
func NewItemCreated(item Item, at time.Time) ItemEvent {
	return ItemEvent{
		Type:       EventTypeItemCreated,
		ItemID:     item.ID,
		Item:       &item,
		OccurredAt: at.UTC(),
	}
}

// NewItemDeleted builds the event for a removed item.
func NewItemDeleted(id ItemID, at time.Time) ItemEvent {
	return ItemEvent{
		Type:       EventTypeItemDeleted,
		ItemID:     id,
		OccurredAt: at.UTC(),
	}
}
