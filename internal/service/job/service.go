// Package job implements job board operations. Saving and unsaving jobs
// lives in the engagement service; the saved list is read back here.
package job

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	jobrepo "github.com/neighborly/portal-backend/internal/adapter/postgres/job"
	"github.com/neighborly/portal-backend/internal/domain"
	"github.com/neighborly/portal-backend/pkg/ctxutil"
)

// jobRepo defines the job repository interface needed by the job service.
type jobRepo interface {
	Create(ctx context.Context, j *domain.Job) (*domain.Job, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Job, error)
	List(ctx context.Context, f jobrepo.Filter) ([]*domain.Job, error)
	ListSavedByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Job, error)
	CreateApplication(ctx context.Context, a *domain.JobApplication) (*domain.JobApplication, error)
}

// Service implements job board operations.
type Service struct {
	log       *slog.Logger
	jobs      jobRepo
	listLimit int
	maxLimit  int
}

// NewService creates a new job service instance.
func NewService(logger *slog.Logger, jobs jobRepo, listLimit, maxLimit int) *Service {
	return &Service{
		log:       logger.With("service", "job"),
		jobs:      jobs,
		listLimit: listLimit,
		maxLimit:  maxLimit,
	}
}

// CreateInput is the payload for posting a job.
type CreateInput struct {
	Title          string
	Company        string
	Description    string
	Location       string
	Category       string
	EmploymentType string
	SalaryMin      *int
	SalaryMax      *int
	Skills         []string
	Urgency        string
	ExpiresAt      *time.Time
}

// Create validates and stores a new job listing.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Job, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domain.NewValidationError("title", "cannot be empty")
	}
	company := strings.TrimSpace(input.Company)
	if company == "" {
		return nil, domain.NewValidationError("company", "cannot be empty")
	}
	employment, err := domain.ParseEmploymentType(input.EmploymentType)
	if err != nil {
		return nil, err
	}
	urgency, err := domain.ParseUrgency(input.Urgency)
	if err != nil {
		return nil, err
	}
	if input.SalaryMin != nil && input.SalaryMax != nil && *input.SalaryMin > *input.SalaryMax {
		return nil, domain.NewValidationError("salaryMin", "exceeds salaryMax")
	}

	created, err := s.jobs.Create(ctx, &domain.Job{
		Title:          title,
		Company:        company,
		Description:    input.Description,
		Location:       strings.TrimSpace(input.Location),
		Category:       strings.TrimSpace(input.Category),
		EmploymentType: employment,
		SalaryMin:      input.SalaryMin,
		SalaryMax:      input.SalaryMax,
		Skills:         input.Skills,
		Urgency:        urgency,
		PostedBy:       userID,
		ExpiresAt:      input.ExpiresAt,
	})
	if err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	s.log.InfoContext(ctx, "job posted", "job_id", created.ID, "company", company)
	return created, nil
}

// Get returns a job by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	return s.jobs.GetByID(ctx, id)
}

// ListInput filters the job listing.
type ListInput struct {
	Search   string
	Category string
	Limit    int
}

// List returns active jobs matching the filter.
func (s *Service) List(ctx context.Context, input ListInput) ([]*domain.Job, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = s.listLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}
	return s.jobs.List(ctx, jobrepo.Filter{
		Search:   strings.TrimSpace(input.Search),
		Category: strings.TrimSpace(input.Category),
		Limit:    limit,
	})
}

// ApplyInput is the payload for applying to a job.
type ApplyInput struct {
	JobID       uuid.UUID
	FullName    string
	Email       string
	Phone       string
	CoverLetter *string
}

// Apply records the authenticated user's application to an active job. A
// second application to the same job reports ErrAlreadyExists and writes
// nothing.
func (s *Service) Apply(ctx context.Context, input ApplyInput) (*domain.JobApplication, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	fullName := strings.TrimSpace(input.FullName)
	if fullName == "" {
		return nil, domain.NewValidationError("fullName", "cannot be empty")
	}
	email := strings.TrimSpace(input.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.NewValidationError("email", "must be a valid address")
	}
	phone := strings.TrimSpace(input.Phone)
	if phone == "" {
		return nil, domain.NewValidationError("phone", "cannot be empty")
	}

	j, err := s.jobs.GetByID(ctx, input.JobID)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	if j.Status != domain.StatusActive {
		return nil, fmt.Errorf("job %s is %s: %w", j.ID, j.Status, domain.ErrConflict)
	}

	created, err := s.jobs.CreateApplication(ctx, &domain.JobApplication{
		JobID:       input.JobID,
		UserID:      userID,
		FullName:    fullName,
		Email:       email,
		Phone:       phone,
		CoverLetter: input.CoverLetter,
	})
	if err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}

	s.log.InfoContext(ctx, "job application submitted", "job_id", j.ID, "application_id", created.ID)
	return created, nil
}

// ListSaved returns the authenticated user's saved jobs.
func (s *Service) ListSaved(ctx context.Context) ([]*domain.Job, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return s.jobs.ListSavedByUser(ctx, userID)
}
