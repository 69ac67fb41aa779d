package domain

import (
	"time"

	"github.com/google/uuid"
)

// FoodDonation is surplus food offered for pickup. A volunteer claims the
// donation by assignment; the row moves open → assigned → collected.
type FoodDonation struct {
	ID                  uuid.UUID
	DonorID             uuid.UUID
	DonorName           string
	DonorType           string
	FoodType            string
	Quantity            string
	PickupLocation      string
	ExpiryTime          time.Time
	Status              DonationStatus
	AssignedVolunteerID *uuid.UUID
	ContactPhone        string
	Notes               *string
	CreatedAt           time.Time
}

// FoodRequest is an organization's standing request for food.
type FoodRequest struct {
	ID               uuid.UUID
	RequesterID      uuid.UUID
	OrganizationName string
	OrganizationType string
	FoodTypeNeeded   string
	QuantityNeeded   string
	PickupLocation   string
	Urgency          UrgencyLevel
	Status           DonationStatus
	ContactPhone     string
	CreatedAt        time.Time
}
