package engagement

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/neighborly/portal-backend/internal/domain"
)

// Vote casts a user's vote for one option of a poll. Votes are append-only:
// a user who has voted cannot vote again or change their choice, and the
// rejection performs no write. The store's unique (poll, user) constraint
// backs the same rule against concurrent requests.
func (s *Service) Vote(ctx context.Context, input VoteInput) (*VoteResult, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	poll, err := s.polls.GetByID(ctx, input.PollID)
	if err != nil {
		return nil, fmt.Errorf("get poll: %w", err)
	}
	if poll.Status != domain.StatusActive {
		return nil, fmt.Errorf("poll %s is %s: %w", poll.ID, poll.Status, domain.ErrConflict)
	}
	if !poll.HasOption(input.OptionIndex) {
		return nil, domain.NewValidationError("optionIndex", "no such option")
	}

	existing, err := s.memberships.Get(ctx, domain.KindPollVote, input.PollID, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get vote: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrAlreadyVoted
	}

	vote := &domain.Membership{
		Kind:        domain.KindPollVote,
		SubjectID:   input.PollID,
		UserID:      userID,
		OptionIndex: &input.OptionIndex,
	}
	if err := s.memberships.Insert(ctx, vote); err != nil {
		// Lost the race against our own earlier request.
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, domain.ErrAlreadyVoted
		}
		return nil, fmt.Errorf("insert vote: %w", err)
	}

	s.award(ctx, userID, "poll_vote", pointsVote)
	s.log.InfoContext(ctx, "vote recorded", "poll_id", input.PollID, "option", input.OptionIndex)

	return s.voteSnapshot(ctx, input, userID)
}

// voteSnapshot re-reads the membership and the poll after a successful write.
// Vote totals come from the store, which maintains them by trigger.
func (s *Service) voteSnapshot(ctx context.Context, input VoteInput, userID uuid.UUID) (*VoteResult, error) {
	membership, err := s.memberships.Get(ctx, domain.KindPollVote, input.PollID, userID)
	if err != nil {
		return nil, fmt.Errorf("reread vote: %w", err)
	}
	poll, err := s.polls.GetByID(ctx, input.PollID)
	if err != nil {
		return nil, fmt.Errorf("reread poll: %w", err)
	}
	return &VoteResult{Poll: poll, Membership: membership, State: membership.State()}, nil
}
