package models

import (
	"strings"

	"github.com/google/uuid"
)

// NewID generates a hyphenless UUIDv4 string used as primary key for all
// persisted records.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
