package engagement

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neighborly/portal-backend/internal/domain"
	"github.com/neighborly/portal-backend/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

type testStores struct {
	memberships *membershipStoreMock
	polls       *pollStoreMock
	events      *eventStoreMock
	problems    *problemStoreMock
	jobs        *jobStoreMock
	points      *pointsRecorderMock
}

func newTestService(st testStores) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(logger, st.memberships, st.polls, st.events, st.problems, st.jobs, st.points)
}

func authedCtx(userID uuid.UUID) context.Context {
	return ctxutil.WithUserID(context.Background(), userID)
}

func ptr[T any](v T) *T { return &v }

func activePoll(id uuid.UUID) *domain.Poll {
	return &domain.Poll{
		ID:     id,
		Title:  "Speed bumps on Oak Street?",
		Status: domain.StatusActive,
		Options: []domain.PollOption{
			{Index: 0, Text: "Yes"},
			{Index: 1, Text: "No"},
		},
	}
}

func activeEvent(id uuid.UUID) *domain.Event {
	return &domain.Event{ID: id, Title: "Park cleanup", Status: domain.StatusActive, VolunteerSpots: 10}
}

// ---------------------------------------------------------------------------
// Authentication guard
// ---------------------------------------------------------------------------

func TestService_UnauthenticatedTouchesNoStore(t *testing.T) {
	t.Parallel()

	st := testStores{
		memberships: &membershipStoreMock{},
		polls:       &pollStoreMock{},
		events:      &eventStoreMock{},
		problems:    &problemStoreMock{},
		jobs:        &jobStoreMock{},
		points:      &pointsRecorderMock{},
	}
	svc := newTestService(st)
	ctx := context.Background()

	_, err := svc.Vote(ctx, VoteInput{PollID: uuid.New(), OptionIndex: 0})
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = svc.ToggleUpvote(ctx, uuid.New())
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = svc.RSVP(ctx, RSVPInput{EventID: uuid.New(), Type: domain.RSVPGoing})
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = svc.ToggleSave(ctx, uuid.New())
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = svc.ToggleVolunteer(ctx, VolunteerInput{Kind: domain.KindEventVolunteer, SubjectID: uuid.New()})
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	assert.Zero(t, st.memberships.writeCount())
	assert.Empty(t, st.memberships.GetCalls())
	assert.Empty(t, st.polls.GetByIDCalls())
	assert.Empty(t, st.points.AwardPointsCalls())
}

// ---------------------------------------------------------------------------
// Vote
// ---------------------------------------------------------------------------

func TestService_Vote_FirstVote(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	pollID := uuid.New()

	voted := false
	memberships := &membershipStoreMock{
		GetFunc: func(ctx context.Context, kind domain.MembershipKind, subjectID, uid uuid.UUID) (*domain.Membership, error) {
			assert.Equal(t, domain.KindPollVote, kind)
			if !voted {
				return nil, domain.ErrNotFound
			}
			return &domain.Membership{Kind: kind, SubjectID: subjectID, UserID: uid, OptionIndex: ptr(1)}, nil
		},
		InsertFunc: func(ctx context.Context, m *domain.Membership) error {
			voted = true
			return nil
		},
	}
	polls := &pollStoreMock{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
			p := activePoll(pollID)
			if voted {
				p.TotalVotes = 1
				p.Options[1].Votes = 1
			}
			return p, nil
		},
	}

	svc := newTestService(testStores{memberships: memberships, polls: polls, points: &pointsRecorderMock{}})
	result, err := svc.Vote(authedCtx(userID), VoteInput{PollID: pollID, OptionIndex: 1})

	require.NoError(t, err)
	assert.Equal(t, domain.StateVoted, result.State)
	require.NotNil(t, result.Membership)
	assert.Equal(t, ptr(1), result.Membership.OptionIndex)
	// Totals come from the re-read, never from local arithmetic.
	assert.Equal(t, 1, result.Poll.TotalVotes)
	assert.Len(t, memberships.InsertCalls(), 1)
}

func TestService_Vote_SecondVoteRejectedWithoutWrite(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	pollID := uuid.New()

	memberships := &membershipStoreMock{
		GetFunc: func(ctx context.Context, kind domain.MembershipKind, subjectID, uid uuid.UUID) (*domain.Membership, error) {
			return &domain.Membership{Kind: kind, SubjectID: subjectID, UserID: uid, OptionIndex: ptr(0)}, nil
		},
	}
	polls := &pollStoreMock{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
			return activePoll(pollID), nil
		},
	}

	svc := newTestService(testStores{memberships: memberships, polls: polls})
	_, err := svc.Vote(authedCtx(userID), VoteInput{PollID: pollID, OptionIndex: 1})

	require.ErrorIs(t, err, domain.ErrAlreadyVoted)
	assert.Zero(t, memberships.writeCount())
}

func TestService_Vote_RaceLoserRejected(t *testing.T) {
	t.Parallel()

	pollID := uuid.New()
	memberships := &membershipStoreMock{
		GetFunc: func(ctx context.Context, kind domain.MembershipKind, subjectID, uid uuid.UUID) (*domain.Membership, error) {
			return nil, domain.ErrNotFound
		},
		InsertFunc: func(ctx context.Context, m *domain.Membership) error {
			return domain.ErrAlreadyExists
		},
	}
	polls := &pollStoreMock{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
			return activePoll(pollID), nil
		},
	}

	svc := newTestService(testStores{memberships: memberships, polls: polls})
	_, err := svc.Vote(authedCtx(uuid.New()), VoteInput{PollID: pollID, OptionIndex: 0})

	require.ErrorIs(t, err, domain.ErrAlreadyVoted)
}

func TestService_Vote_UnknownOption(t *testing.T) {
	t.Parallel()

	pollID := uuid.New()
	memberships := &membershipStoreMock{}
	polls := &pollStoreMock{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
			return activePoll(pollID), nil
		},
	}

	svc := newTestService(testStores{memberships: memberships, polls: polls})
	_, err := svc.Vote(authedCtx(uuid.New()), VoteInput{PollID: pollID, OptionIndex: 7})

	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, memberships.writeCount())
}

func TestService_Vote_ClosedPoll(t *testing.T) {
	t.Parallel()

	pollID := uuid.New()
	polls := &pollStoreMock{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
			p := activePoll(pollID)
			p.Status = domain.StatusExpired
			return p, nil
		},
	}
	memberships := &membershipStoreMock{}

	svc := newTestService(testStores{memberships: memberships, polls: polls})
	_, err := svc.Vote(authedCtx(uuid.New()), VoteInput{PollID: pollID, OptionIndex: 0})

	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Zero(t, memberships.writeCount())
}

// ---------------------------------------------------------------------------
// Upvote toggle
// ---------------------------------------------------------------------------

// fakeMembershipState is a tiny stateful store for round-trip tests.
type fakeMembershipState struct {
	mu      sync.Mutex
	records map[membershipCall]*domain.Membership
}

func newFakeMembershipStore() *membershipStoreMock {
	state := &fakeMembershipState{records: map[membershipCall]*domain.Membership{}}
	return &membershipStoreMock{
		GetFunc: func(ctx context.Context, kind domain.MembershipKind, subjectID, userID uuid.UUID) (*domain.Membership, error) {
			state.mu.Lock()
			defer state.mu.Unlock()
			m, ok := state.records[membershipCall{kind, subjectID, userID}]
			if !ok {
				return nil, domain.ErrNotFound
			}
			return m, nil
		},
		InsertFunc: func(ctx context.Context, m *domain.Membership) error {
			state.mu.Lock()
			defer state.mu.Unlock()
			key := membershipCall{m.Kind, m.SubjectID, m.UserID}
			if _, ok := state.records[key]; ok {
				return domain.ErrAlreadyExists
			}
			state.records[key] = m
			return nil
		},
		UpdateValueFunc: func(ctx context.Context, kind domain.MembershipKind, subjectID, userID uuid.UUID, value string) error {
			state.mu.Lock()
			defer state.mu.Unlock()
			m, ok := state.records[membershipCall{kind, subjectID, userID}]
			if !ok {
				return domain.ErrNotFound
			}
			m.Value = &value
			return nil
		},
		DeleteFunc: func(ctx context.Context, kind domain.MembershipKind, subjectID, userID uuid.UUID) error {
			state.mu.Lock()
			defer state.mu.Unlock()
			key := membershipCall{kind, subjectID, userID}
			if _, ok := state.records[key]; !ok {
				return domain.ErrNotFound
			}
			delete(state.records, key)
			return nil
		},
	}
}

func TestService_ToggleUpvote_RoundTrip(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	problemID := uuid.New()

	memberships := newFakeMembershipStore()
	problems := &problemStoreMock{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.ProblemReport, error) {
			return &domain.ProblemReport{ID: problemID, Title: "Pothole", Status: domain.StatusActive}, nil
		},
	}
	points := &pointsRecorderMock{}

	svc := newTestService(testStores{memberships: memberships, problems: problems, points: points})
	ctx := authedCtx(userID)

	on, err := svc.ToggleUpvote(ctx, problemID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatePresent, on.State)
	require.NotNil(t, on.Membership)
	assert.Len(t, points.AwardPointsCalls(), 1)

	off, err := svc.ToggleUpvote(ctx, problemID)
	require.NoError(t, err)
	assert.Equal(t, domain.StateNone, off.State)
	assert.Nil(t, off.Membership)

	assert.Len(t, memberships.InsertCalls(), 1)
	assert.Len(t, memberships.DeleteCalls(), 1)
}

// ---------------------------------------------------------------------------
// RSVP
// ---------------------------------------------------------------------------

func TestService_RSVP_CreateChangeRemove(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	eventID := uuid.New()

	memberships := newFakeMembershipStore()
	events := &eventStoreMock{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
			return activeEvent(eventID), nil
		},
	}

	svc := newTestService(testStores{memberships: memberships, events: events, points: &pointsRecorderMock{}})
	ctx := authedCtx(userID)

	going, err := svc.RSVP(ctx, RSVPInput{EventID: eventID, Type: domain.RSVPGoing})
	require.NoError(t, err)
	assert.Equal(t, domain.StateGoing, going.State)

	// A different intent replaces the stored value in place: exactly one
	// update, no delete + reinsert.
	interested, err := svc.RSVP(ctx, RSVPInput{EventID: eventID, Type: domain.RSVPInterested})
	require.NoError(t, err)
	assert.Equal(t, domain.StateInterested, interested.State)
	assert.Len(t, memberships.InsertCalls(), 1)
	assert.Len(t, memberships.UpdateValueCalls(), 1)
	assert.Empty(t, memberships.DeleteCalls())

	// Repeating the current intent toggles the RSVP off.
	none, err := svc.RSVP(ctx, RSVPInput{EventID: eventID, Type: domain.RSVPInterested})
	require.NoError(t, err)
	assert.Equal(t, domain.StateNone, none.State)
	assert.Nil(t, none.Membership)
	assert.Len(t, memberships.DeleteCalls(), 1)
}

func TestService_RSVP_InvalidType(t *testing.T) {
	t.Parallel()

	memberships := &membershipStoreMock{}
	svc := newTestService(testStores{memberships: memberships, events: &eventStoreMock{}})

	_, err := svc.RSVP(authedCtx(uuid.New()), RSVPInput{EventID: uuid.New(), Type: "maybe"})

	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, memberships.writeCount())
}

// ---------------------------------------------------------------------------
// Saved jobs
// ---------------------------------------------------------------------------

func TestService_ToggleSave_RoundTrip(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	jobID := uuid.New()

	memberships := newFakeMembershipStore()
	jobs := &jobStoreMock{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
			return &domain.Job{ID: jobID, Title: "Electrician", Status: domain.StatusActive}, nil
		},
	}

	svc := newTestService(testStores{memberships: memberships, jobs: jobs})
	ctx := authedCtx(userID)

	saved, err := svc.ToggleSave(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatePresent, saved.State)

	unsaved, err := svc.ToggleSave(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, domain.StateNone, unsaved.State)
}

func TestService_ToggleSave_JobMissing(t *testing.T) {
	t.Parallel()

	memberships := &membershipStoreMock{}
	jobs := &jobStoreMock{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
			return nil, domain.ErrNotFound
		},
	}

	svc := newTestService(testStores{memberships: memberships, jobs: jobs})
	_, err := svc.ToggleSave(authedCtx(uuid.New()), uuid.New())

	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, memberships.writeCount())
}

// ---------------------------------------------------------------------------
// Volunteers
// ---------------------------------------------------------------------------

func TestService_ToggleVolunteer_DuplicateSignup(t *testing.T) {
	t.Parallel()

	eventID := uuid.New()
	memberships := &membershipStoreMock{
		GetFunc: func(ctx context.Context, kind domain.MembershipKind, subjectID, userID uuid.UUID) (*domain.Membership, error) {
			return nil, domain.ErrNotFound
		},
		InsertFunc: func(ctx context.Context, m *domain.Membership) error {
			return domain.ErrAlreadyExists
		},
	}
	events := &eventStoreMock{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
			return activeEvent(eventID), nil
		},
	}

	svc := newTestService(testStores{memberships: memberships, events: events})
	_, err := svc.ToggleVolunteer(authedCtx(uuid.New()), VolunteerInput{
		Kind:      domain.KindEventVolunteer,
		SubjectID: eventID,
	})

	require.ErrorIs(t, err, domain.ErrAlreadyRegistered)
}

func TestService_ToggleVolunteer_KitchenRoundTrip(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	kitchenID := uuid.New()

	memberships := newFakeMembershipStore()
	svc := newTestService(testStores{memberships: memberships, points: &pointsRecorderMock{}})
	ctx := authedCtx(userID)

	on, err := svc.ToggleVolunteer(ctx, VolunteerInput{
		Kind:      domain.KindKitchenVolunteer,
		SubjectID: kitchenID,
		Role:      ptr("server"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatePresent, on.State)
	assert.Nil(t, on.Event)
	require.NotNil(t, on.Membership)
	assert.Equal(t, ptr("server"), on.Membership.Value)

	off, err := svc.ToggleVolunteer(ctx, VolunteerInput{
		Kind:      domain.KindKitchenVolunteer,
		SubjectID: kitchenID,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StateNone, off.State)
}

func TestService_ToggleVolunteer_RejectsNonVolunteerKind(t *testing.T) {
	t.Parallel()

	memberships := &membershipStoreMock{}
	svc := newTestService(testStores{memberships: memberships})

	_, err := svc.ToggleVolunteer(authedCtx(uuid.New()), VolunteerInput{
		Kind:      domain.KindSavedJob,
		SubjectID: uuid.New(),
	})

	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, memberships.writeCount())
}

// ---------------------------------------------------------------------------
// End to end: one user, one poll
// ---------------------------------------------------------------------------

func TestService_Vote_EndToEnd(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	pollID := uuid.New()

	memberships := newFakeMembershipStore()
	var totalVotes int
	polls := &pollStoreMock{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
			p := activePoll(pollID)
			p.TotalVotes = totalVotes
			return p, nil
		},
	}
	memberships.InsertFunc = func() func(ctx context.Context, m *domain.Membership) error {
		inner := memberships.InsertFunc
		return func(ctx context.Context, m *domain.Membership) error {
			if err := inner(ctx, m); err != nil {
				return err
			}
			totalVotes++
			return nil
		}
	}()

	svc := newTestService(testStores{memberships: memberships, polls: polls, points: &pointsRecorderMock{}})
	ctx := authedCtx(userID)

	result, err := svc.Vote(ctx, VoteInput{PollID: pollID, OptionIndex: 0})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Poll.TotalVotes)
	assert.Equal(t, domain.StateVoted, result.State)

	_, err = svc.Vote(ctx, VoteInput{PollID: pollID, OptionIndex: 1})
	require.ErrorIs(t, err, domain.ErrAlreadyVoted)
	assert.Len(t, memberships.InsertCalls(), 1)
	assert.Equal(t, 1, totalVotes)
}

// Store failures surface once; nothing retries.
func TestService_ToggleUpvote_StoreErrorPropagates(t *testing.T) {
	t.Parallel()

	storeErr := errors.New("connection reset")
	memberships := &membershipStoreMock{
		GetFunc: func(ctx context.Context, kind domain.MembershipKind, subjectID, userID uuid.UUID) (*domain.Membership, error) {
			return nil, storeErr
		},
	}
	problems := &problemStoreMock{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.ProblemReport, error) {
			return &domain.ProblemReport{ID: id, Status: domain.StatusActive}, nil
		},
	}

	svc := newTestService(testStores{memberships: memberships, problems: problems})
	_, err := svc.ToggleUpvote(authedCtx(uuid.New()), uuid.New())

	require.ErrorIs(t, err, storeErr)
	assert.Len(t, memberships.GetCalls(), 1)
	assert.Zero(t, memberships.writeCount())
}
