// Package domain holds the item entity and the values built around it.
package domain

import "time"

const (
	// DefaultItemName is used when a create request omits the name.
	DefaultItemName = "Unnamed"
	// DefaultItemDescription is used when a create request omits the description.
	DefaultItemDescription = ""
)

// ItemID identifies an item. Ids are assigned by the store and never reused.
type ItemID int64

// Item is the only entity the service manages.
type Item struct {
	ID          ItemID `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// NewItemDraft holds the optional fields of a create request. A nil field
// means the caller did not send it.
type NewItemDraft struct {
	Name        *string
	Description *string
}

// Resolve applies the defaults for every field the caller left out.
func (d NewItemDraft) Resolve() (name, description string) {
	name, description = DefaultItemName, DefaultItemDescription
	if d.Name != nil {
		name = *d.Name
	}
	if d.Description != nil {
		description = *d.Description
	}
	return name, description
}

// SeedItems returns the items a fresh store starts with.
func SeedItems() []Item {
	return []Item{
		{ID: 1, Name: "First Item", Description: "A sample item"},
		{ID: 2, Name: "Second Item", Description: "Another sample"},
	}
}

// Message is the envelope returned by the greeting and health endpoints.
type Message struct {
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// NewMessage stamps content with the given instant in ISO-8601 UTC.
func NewMessage(content string, at time.Time) Message {
	return Message{
		Content:   content,
		Timestamp: at.UTC().Format(time.RFC3339Nano),
	}
}
