// Package api defines the contracts for API requests and responses.
// It decouples the API structure from the internal domain models.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// CreateItemRequest is the expected body for a POST /api/items request.
// Nil fields were omitted (or sent as null) by the caller. Numbers and
// booleans are accepted and kept as their JSON text.
type CreateItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *CreateItemRequest) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name        json.RawMessage `json:"name"`
		Description json.RawMessage `json:"description"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	name, err := scalarString("name", raw.Name)
	if err != nil {
		return err
	}
	description, err := scalarString("description", raw.Description)
	if err != nil {
		return err
	}

	r.Name, r.Description = name, description
	return nil
}

func scalarString(field string, raw json.RawMessage) (*string, error) {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return &s, nil
	case '{', '[':
		return nil, fmt.Errorf("%s must be a string", field)
	default:
		// numbers, true and false
		s := string(raw)
		return &s, nil
	}
}

// ErrorResponse is a standardized error message for API responses.
type ErrorResponse struct {
	Error string `json:"error"`
}
