// Package engagement reconciles toggle actions: poll votes, problem upvotes,
// event RSVPs, saved jobs, and volunteer sign-ups. Every action follows the
// same shape — authenticate, read the current membership, apply exactly one
// write, then re-read membership and aggregate from the store. Aggregates are
// never incremented locally.
package engagement

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/neighborly/portal-backend/internal/domain"
	"github.com/neighborly/portal-backend/pkg/ctxutil"
)

// membershipStore defines the membership repository interface needed by the
// engagement service.
type membershipStore interface {
	Get(ctx context.Context, kind domain.MembershipKind, subjectID, userID uuid.UUID) (*domain.Membership, error)
	Insert(ctx context.Context, m *domain.Membership) error
	UpdateValue(ctx context.Context, kind domain.MembershipKind, subjectID, userID uuid.UUID, value string) error
	Delete(ctx context.Context, kind domain.MembershipKind, subjectID, userID uuid.UUID) error
	ListSubjects(ctx context.Context, kind domain.MembershipKind, userID uuid.UUID) ([]uuid.UUID, error)
}

// pollStore defines the poll repository interface needed by the engagement
// service.
type pollStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error)
}

// eventStore defines the event repository interface needed by the engagement
// service.
type eventStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error)
}

// problemStore defines the problem repository interface needed by the
// engagement service.
type problemStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ProblemReport, error)
}

// jobStore defines the job repository interface needed by the engagement
// service.
type jobStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Job, error)
}

// pointsRecorder appends to the civic-points journal. Failures are logged,
// not returned: a lost points grant must never undo a completed toggle.
type pointsRecorder interface {
	AwardPoints(ctx context.Context, e *domain.PointsEntry) error
}

// Service implements toggle reconciliation for all membership kinds.
type Service struct {
	log         *slog.Logger
	memberships membershipStore
	polls       pollStore
	events      eventStore
	problems    problemStore
	jobs        jobStore
	points      pointsRecorder
}

// NewService creates a new engagement service instance.
func NewService(
	logger *slog.Logger,
	memberships membershipStore,
	polls pollStore,
	events eventStore,
	problems problemStore,
	jobs jobStore,
	points pointsRecorder,
) *Service {
	return &Service{
		log:         logger.With("service", "engagement"),
		memberships: memberships,
		polls:       polls,
		events:      events,
		problems:    problems,
		jobs:        jobs,
		points:      points,
	}
}

// requireUser reads the authenticated user from the context. Every mutation
// in this service calls it before touching the store.
func requireUser(ctx context.Context) (uuid.UUID, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return uuid.Nil, domain.ErrUnauthorized
	}
	return userID, nil
}

// award appends a points journal entry, logging instead of failing.
func (s *Service) award(ctx context.Context, userID uuid.UUID, action string, points int) {
	if s.points == nil {
		return
	}
	entry := &domain.PointsEntry{UserID: userID, ActionType: action, Points: points}
	if err := s.points.AwardPoints(ctx, entry); err != nil {
		s.log.WarnContext(ctx, "points grant failed", "action", action, "error", err)
	}
}

// Points granted per civic action.
const (
	pointsVote      = 5
	pointsUpvote    = 2
	pointsRSVP      = 5
	pointsVolunteer = 20
)
