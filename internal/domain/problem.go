package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProblemReport is a civic problem reported by a resident (pothole, broken
// streetlight, illegal dumping). Upvotes is a server-maintained aggregate.
type ProblemReport struct {
	ID          uuid.UUID
	Title       string
	Description string
	Category    string
	Location    string
	Status      ItemStatus
	Upvotes     int
	ReportedBy  uuid.UUID
	CreatedAt   time.Time
}
