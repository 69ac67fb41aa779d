package domain

import (
	"time"

	"github.com/google/uuid"
)

// MedicalCenter is a directory entry for a clinic, hospital, or pharmacy.
// Timings is free text ("9 AM - 9 PM", "24/7", "Mon-Sat: 9 AM - 8 PM");
// no structured schema exists, so open/closed status is resolved from the
// text at read time and degrades to unknown on unparseable input.
type MedicalCenter struct {
	ID             uuid.UUID
	Name           string
	Type           string
	Address        string
	Contact        string
	Timings        *string
	Specialization *string
	Latitude       *float64
	Longitude      *float64
	CreatedAt      time.Time
}

// Kitchen is a community kitchen serving free or subsidized meals.
type Kitchen struct {
	ID           uuid.UUID
	Name         string
	Address      string
	Location     string
	ContactPhone string
	Timings      string
	IsFree       bool
	MealTypes    []string
	Capacity     *int
	Rating       float64
	TotalReviews int
	Status       ItemStatus
	CreatedAt    time.Time
}

// EmergencyContact is a hotline entry in the health and safety directory.
type EmergencyContact struct {
	ID          uuid.UUID
	Name        string
	Type        string
	PhoneNumber string
	Description string
	CreatedAt   time.Time
}

// Medicine is a pharmacy stock record searched by medicine name.
type Medicine struct {
	ID           uuid.UUID
	PharmacyName string
	MedicineName string
	StockStatus  string
	Address      string
	Contact      string
	LastUpdated  time.Time
}
