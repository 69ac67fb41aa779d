package domain

import (
	"time"

	"github.com/google/uuid"
)

// LostFoundItem is a lost or found item posting.
type LostFoundItem struct {
	ID           uuid.UUID
	Type         LostFoundType
	Title        string
	Description  string
	Category     string
	Location     string
	ContactPhone string
	Status       ItemStatus
	PostedBy     uuid.UUID
	CreatedAt    time.Time
}
