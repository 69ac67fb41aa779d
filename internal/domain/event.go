package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event is a community event open for RSVP and volunteering.
// RSVPCount and VolunteersJoined are server-maintained aggregates.
type Event struct {
	ID               uuid.UUID
	Title            string
	Description      string
	Category         string
	Location         string
	EventDate        time.Time
	EndDate          *time.Time
	Status           ItemStatus
	RSVPCount        int
	VolunteerSpots   int
	VolunteersJoined int
	CreatedBy        uuid.UUID
	CreatedAt        time.Time
}

// VolunteerSpotsLeft returns the remaining volunteer capacity, never negative.
func (e *Event) VolunteerSpotsLeft() int {
	left := e.VolunteerSpots - e.VolunteersJoined
	if left < 0 {
		return 0
	}
	return left
}

// EventComment is a user comment on an event.
type EventComment struct {
	ID        uuid.UUID
	EventID   uuid.UUID
	UserID    uuid.UUID
	Text      string
	CreatedAt time.Time
}
