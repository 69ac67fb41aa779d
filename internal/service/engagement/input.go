package engagement

import (
	"github.com/google/uuid"

	"github.com/neighborly/portal-backend/internal/domain"
)

// VoteInput casts a vote for one poll option.
type VoteInput struct {
	PollID      uuid.UUID
	OptionIndex int
}

// RSVPInput toggles or changes a user's RSVP to an event.
type RSVPInput struct {
	EventID uuid.UUID
	Type    domain.RSVPType
}

// VolunteerInput toggles a volunteer sign-up. Kind selects the target
// relationship (event or kitchen volunteers).
type VolunteerInput struct {
	Kind      domain.MembershipKind
	SubjectID uuid.UUID
	Role      *string
}

// VoteResult is the post-write snapshot returned to the caller: the
// membership record, its render state, and the poll re-read from the store.
type VoteResult struct {
	Poll       *domain.Poll
	Membership *domain.Membership
	State      domain.MembershipState
}

// UpvoteResult is the post-write snapshot of an upvote toggle. Membership is
// nil after a toggle off.
type UpvoteResult struct {
	Problem    *domain.ProblemReport
	Membership *domain.Membership
	State      domain.MembershipState
}

// RSVPResult is the post-write snapshot of an RSVP action.
type RSVPResult struct {
	Event      *domain.Event
	Membership *domain.Membership
	State      domain.MembershipState
}

// SaveResult is the post-write snapshot of a saved-job toggle.
type SaveResult struct {
	Job        *domain.Job
	Membership *domain.Membership
	State      domain.MembershipState
}

// VolunteerResult is the post-write snapshot of a volunteer toggle. Event is
// set only for event volunteering.
type VolunteerResult struct {
	Event      *domain.Event
	Membership *domain.Membership
	State      domain.MembershipState
}
