// Package problem implements civic problem reporting. Upvote toggling lives
// in the engagement service.
package problem

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/neighborly/portal-backend/internal/domain"
	"github.com/neighborly/portal-backend/pkg/ctxutil"
)

// problemRepo defines the repository interface needed by the problem service.
type problemRepo interface {
	Create(ctx context.Context, p *domain.ProblemReport) (*domain.ProblemReport, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ProblemReport, error)
	List(ctx context.Context, status domain.ItemStatus, limit int) ([]*domain.ProblemReport, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ItemStatus) error
}

// Service implements problem report operations.
type Service struct {
	log       *slog.Logger
	problems  problemRepo
	listLimit int
}

// NewService creates a new problem service instance.
func NewService(logger *slog.Logger, problems problemRepo, listLimit int) *Service {
	return &Service{
		log:       logger.With("service", "problem"),
		problems:  problems,
		listLimit: listLimit,
	}
}

// ReportInput is the payload for reporting a problem.
type ReportInput struct {
	Title       string
	Description string
	Category    string
	Location    string
}

// Report validates and stores a new problem report.
func (s *Service) Report(ctx context.Context, input ReportInput) (*domain.ProblemReport, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domain.NewValidationError("title", "cannot be empty")
	}
	location := strings.TrimSpace(input.Location)
	if location == "" {
		return nil, domain.NewValidationError("location", "cannot be empty")
	}

	created, err := s.problems.Create(ctx, &domain.ProblemReport{
		Title:       title,
		Description: input.Description,
		Category:    strings.TrimSpace(input.Category),
		Location:    location,
		ReportedBy:  userID,
	})
	if err != nil {
		return nil, fmt.Errorf("create problem: %w", err)
	}

	s.log.InfoContext(ctx, "problem reported", "problem_id", created.ID, "category", created.Category)
	return created, nil
}

// Get returns a problem report by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.ProblemReport, error) {
	return s.problems.GetByID(ctx, id)
}

// List returns problem reports, most upvoted first. An empty status lists
// every report.
func (s *Service) List(ctx context.Context, status string) ([]*domain.ProblemReport, error) {
	var parsed domain.ItemStatus
	if status != "" {
		var err error
		parsed, err = domain.ParseItemStatus(status)
		if err != nil {
			return nil, err
		}
	}
	return s.problems.List(ctx, parsed, s.listLimit)
}

// MarkResolved transitions a report to resolved. Only the reporter may close
// their own report.
func (s *Service) MarkResolved(ctx context.Context, id uuid.UUID) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	p, err := s.problems.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get problem: %w", err)
	}
	if p.ReportedBy != userID {
		return domain.ErrForbidden
	}
	if p.Status != domain.StatusActive {
		return fmt.Errorf("problem %s is %s: %w", p.ID, p.Status, domain.ErrConflict)
	}

	if err := s.problems.UpdateStatus(ctx, id, domain.StatusResolved); err != nil {
		return fmt.Errorf("resolve problem: %w", err)
	}
	s.log.InfoContext(ctx, "problem resolved", "problem_id", id)
	return nil
}
