package domain

import (
	"time"

	"github.com/google/uuid"
)

// Pickup is a scheduled waste collection request.
type Pickup struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	WasteType     string
	PreferredDate time.Time
	Address       string
	Status        PickupStatus
	Notes         *string
	CreatedAt     time.Time
}

// Cancellable reports whether the pickup can still be cancelled by its owner.
func (p *Pickup) Cancellable() bool {
	return p.Status == PickupPending || p.Status == PickupScheduled
}
