package domain

import (
	"time"

	"github.com/google/uuid"
)

// MembershipKind identifies which toggle relationship a record belongs to.
// Each kind maps to one join table with a unique (subject, user) constraint.
type MembershipKind string

const (
	KindPollVote          MembershipKind = "poll_vote"
	KindUpvote            MembershipKind = "upvote"
	KindRSVP              MembershipKind = "rsvp"
	KindSavedJob          MembershipKind = "saved_job"
	KindEventVolunteer    MembershipKind = "event_volunteer"
	KindKitchenVolunteer  MembershipKind = "kitchen_volunteer"
	KindDriveRegistration MembershipKind = "drive_registration"
)

// Membership is one user's relationship to one votable or joinable entity:
// a poll vote, an upvote, an RSVP, a saved job, or a volunteer sign-up.
// It is owned exclusively by the (user, subject) pair. The record is created
// on first action, updated in place only for the RSVP kind, and deleted when
// toggled off.
type Membership struct {
	Kind      MembershipKind
	SubjectID uuid.UUID
	UserID    uuid.UUID

	// OptionIndex is set only for KindPollVote.
	OptionIndex *int

	// Value holds the text value for kinds that carry one:
	// the rsvp_type for KindRSVP, the role for volunteer kinds.
	Value *string

	CreatedAt time.Time
}

// MembershipState is the local state a toggle button renders after
// reconciliation.
type MembershipState string

const (
	StateNone       MembershipState = "none"
	StatePresent    MembershipState = "present"
	StateGoing      MembershipState = "going"
	StateInterested MembershipState = "interested"
	StateVoted      MembershipState = "voted"
)

// State derives the render state from a membership record. A nil membership
// is StateNone.
func (m *Membership) State() MembershipState {
	if m == nil {
		return StateNone
	}
	switch m.Kind {
	case KindPollVote:
		return StateVoted
	case KindRSVP:
		if m.Value != nil && RSVPType(*m.Value) == RSVPInterested {
			return StateInterested
		}
		return StateGoing
	default:
		return StatePresent
	}
}
