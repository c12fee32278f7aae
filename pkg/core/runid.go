package core

import "github.com/google/uuid"

// NewRunID returns an identifier tagging one operation in logs and JSON
// events.
func NewRunID() string {
	return uuid.NewString()
}
