package domain

import (
	"time"

	"github.com/google/uuid"
)

// Job is a local job listing.
type Job struct {
	ID             uuid.UUID
	Title          string
	Company        string
	Description    string
	Location       string
	Category       string
	EmploymentType EmploymentType
	SalaryMin      *int
	SalaryMax      *int
	Skills         []string
	Urgency        UrgencyLevel
	Verified       bool
	Status         ItemStatus
	PostedBy       uuid.UUID
	CreatedAt      time.Time
	ExpiresAt      *time.Time
}

// JobApplication is one user's application to a job listing. One application
// per (job, user); a second attempt conflicts.
type JobApplication struct {
	ID          uuid.UUID
	JobID       uuid.UUID
	UserID      uuid.UUID
	FullName    string
	Email       string
	Phone       string
	CoverLetter *string
	Status      string
	CreatedAt   time.Time
}
