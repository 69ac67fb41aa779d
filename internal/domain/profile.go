package domain

import (
	"time"

	"github.com/google/uuid"
)

// Profile is a resident's public profile. Points is the aggregate of the
// user_points journal, maintained server-side.
type Profile struct {
	ID               uuid.UUID
	DisplayName      *string
	Points           int
	ShowOnLeaderboard bool
	CreatedAt        time.Time
}

// PointsEntry is one row of the civic-points journal.
type PointsEntry struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	ActionType  string
	Description *string
	Points      int
	CreatedAt   time.Time
}

// CommunityStats is the set of portal-wide counters shown on the landing page.
type CommunityStats struct {
	ActiveEvents     int
	OpenJobs         int
	OpenDonations    int
	ProblemsResolved int
	ActivePolls      int
	Volunteers       int
}
