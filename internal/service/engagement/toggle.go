package engagement

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/neighborly/portal-backend/internal/domain"
)

// ToggleUpvote flips a user's upvote on a problem report: absent inserts,
// present deletes. The report's upvotes aggregate is trigger-maintained and
// re-read after the write.
func (s *Service) ToggleUpvote(ctx context.Context, problemID uuid.UUID) (*UpvoteResult, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := s.problems.GetByID(ctx, problemID); err != nil {
		return nil, fmt.Errorf("get problem: %w", err)
	}

	if err := s.toggle(ctx, domain.KindUpvote, problemID, userID, nil); err != nil {
		return nil, err
	}

	membership, err := s.membershipOrNone(ctx, domain.KindUpvote, problemID, userID)
	if err != nil {
		return nil, err
	}
	if membership != nil {
		s.award(ctx, userID, "problem_upvote", pointsUpvote)
	}
	problem, err := s.problems.GetByID(ctx, problemID)
	if err != nil {
		return nil, fmt.Errorf("reread problem: %w", err)
	}
	return &UpvoteResult{Problem: problem, Membership: membership, State: membership.State()}, nil
}

// ToggleSave flips a job in the user's saved list. Saved jobs have no
// aggregate; the snapshot carries the job and the membership state only.
func (s *Service) ToggleSave(ctx context.Context, jobID uuid.UUID) (*SaveResult, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}

	if err := s.toggle(ctx, domain.KindSavedJob, jobID, userID, nil); err != nil {
		return nil, err
	}

	membership, err := s.membershipOrNone(ctx, domain.KindSavedJob, jobID, userID)
	if err != nil {
		return nil, err
	}
	return &SaveResult{Job: job, Membership: membership, State: membership.State()}, nil
}

// ToggleVolunteer flips a volunteer sign-up for an event or a community
// kitchen. A duplicate sign-up racing past the membership read surfaces as
// ErrAlreadyRegistered. For events the volunteer counter is enforced by the
// store check constraint and re-read after the write.
func (s *Service) ToggleVolunteer(ctx context.Context, input VolunteerInput) (*VolunteerResult, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if input.Kind != domain.KindEventVolunteer && input.Kind != domain.KindKitchenVolunteer {
		return nil, domain.NewValidationError("kind", "not a volunteer relationship")
	}

	if input.Kind == domain.KindEventVolunteer {
		event, err := s.events.GetByID(ctx, input.SubjectID)
		if err != nil {
			return nil, fmt.Errorf("get event: %w", err)
		}
		if event.Status != domain.StatusActive {
			return nil, fmt.Errorf("event %s is %s: %w", event.ID, event.Status, domain.ErrConflict)
		}
	}

	if err := s.toggle(ctx, input.Kind, input.SubjectID, userID, input.Role); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, domain.ErrAlreadyRegistered
		}
		return nil, err
	}

	membership, err := s.membershipOrNone(ctx, input.Kind, input.SubjectID, userID)
	if err != nil {
		return nil, err
	}
	if membership != nil {
		s.award(ctx, userID, "volunteer_signup", pointsVolunteer)
	}

	result := &VolunteerResult{Membership: membership, State: membership.State()}
	if input.Kind == domain.KindEventVolunteer {
		event, err := s.events.GetByID(ctx, input.SubjectID)
		if err != nil {
			return nil, fmt.Errorf("reread event: %w", err)
		}
		result.Event = event
	}
	return result, nil
}

// toggle performs the single write of a membership toggle: insert when the
// record is absent, delete when present.
func (s *Service) toggle(ctx context.Context, kind domain.MembershipKind, subjectID, userID uuid.UUID, value *string) error {
	existing, err := s.memberships.Get(ctx, kind, subjectID, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("get %s: %w", kind, err)
	}

	if existing != nil {
		if err := s.memberships.Delete(ctx, kind, subjectID, userID); err != nil {
			return fmt.Errorf("delete %s: %w", kind, err)
		}
		s.log.InfoContext(ctx, "membership removed", "kind", kind, "subject_id", subjectID)
		return nil
	}

	m := &domain.Membership{Kind: kind, SubjectID: subjectID, UserID: userID, Value: value}
	if err := s.memberships.Insert(ctx, m); err != nil {
		return fmt.Errorf("insert %s: %w", kind, err)
	}
	s.log.InfoContext(ctx, "membership created", "kind", kind, "subject_id", subjectID)
	return nil
}

// membershipOrNone re-reads a membership after a write, treating a missing
// record (toggled off) as nil rather than an error.
func (s *Service) membershipOrNone(ctx context.Context, kind domain.MembershipKind, subjectID, userID uuid.UUID) (*domain.Membership, error) {
	m, err := s.memberships.Get(ctx, kind, subjectID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("reread %s: %w", kind, err)
	}
	return m, nil
}

// SavedJobIDs returns the ids of every job the user has saved, used to mark
// toggle state across a listing.
func (s *Service) SavedJobIDs(ctx context.Context) ([]uuid.UUID, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	return s.memberships.ListSubjects(ctx, domain.KindSavedJob, userID)
}

// UpvotedProblemIDs returns the ids of every problem the user has upvoted.
func (s *Service) UpvotedProblemIDs(ctx context.Context) ([]uuid.UUID, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	return s.memberships.ListSubjects(ctx, domain.KindUpvote, userID)
}

// RegisteredDriveIDs returns the ids of every drive the user has registered
// for.
func (s *Service) RegisteredDriveIDs(ctx context.Context) ([]uuid.UUID, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	return s.memberships.ListSubjects(ctx, domain.KindDriveRegistration, userID)
}
