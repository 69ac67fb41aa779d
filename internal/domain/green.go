package domain

import (
	"time"

	"github.com/google/uuid"
)

// Drive is an organized green initiative: a tree plantation, a cleanliness
// drive, a recycling collection. Residents register to participate.
type Drive struct {
	ID               uuid.UUID
	Title            string
	Description      string
	Category         string
	Location         string
	Organizer        string
	DriveDate        time.Time
	RegistrationLink *string
	Participants     int
	Status           ItemStatus
	CreatedBy        uuid.UUID
	CreatedAt        time.Time
}

// Campaign is an environmental awareness campaign: long-form content shown
// alongside drives on the green hub.
type Campaign struct {
	ID          uuid.UUID
	Title       string
	Description string
	Content     string
	Category    string
	MediaLink   *string
	Views       int
	Status      ItemStatus
	CreatedBy   uuid.UUID
	CreatedAt   time.Time
}

// DriveRegistration records one resident's sign-up for a drive, with the
// contact details the organizer needs. One registration per (drive, user).
type DriveRegistration struct {
	DriveID   uuid.UUID
	UserID    uuid.UUID
	FullName  string
	Email     string
	Phone     string
	CreatedAt time.Time
}
