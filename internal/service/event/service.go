// Package event implements community event operations: creation, listing,
// and comments. RSVPs and volunteering live in the engagement service.
package event

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/neighborly/portal-backend/internal/domain"
	"github.com/neighborly/portal-backend/pkg/ctxutil"
)

// eventRepo defines the event repository interface needed by the event
// service.
type eventRepo interface {
	Create(ctx context.Context, e *domain.Event) (*domain.Event, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error)
	ListUpcoming(ctx context.Context, now time.Time, limit int) ([]*domain.Event, error)
	AddComment(ctx context.Context, c *domain.EventComment) (*domain.EventComment, error)
	ListComments(ctx context.Context, eventID uuid.UUID) ([]*domain.EventComment, error)
}

// Service implements event operations.
type Service struct {
	log       *slog.Logger
	events    eventRepo
	listLimit int
	now       func() time.Time
}

// NewService creates a new event service instance.
func NewService(logger *slog.Logger, events eventRepo, listLimit int) *Service {
	return &Service{
		log:       logger.With("service", "event"),
		events:    events,
		listLimit: listLimit,
		now:       time.Now,
	}
}

// CreateInput is the payload for creating an event.
type CreateInput struct {
	Title          string
	Description    string
	Category       string
	Location       string
	EventDate      time.Time
	EndDate        *time.Time
	VolunteerSpots int
}

// Create validates and stores a new event.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Event, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domain.NewValidationError("title", "cannot be empty")
	}
	if input.EventDate.Before(s.now()) {
		return nil, domain.NewValidationError("eventDate", "must be in the future")
	}
	if input.EndDate != nil && input.EndDate.Before(input.EventDate) {
		return nil, domain.NewValidationError("endDate", "must not precede the start")
	}
	if input.VolunteerSpots < 0 {
		return nil, domain.NewValidationError("volunteerSpots", "cannot be negative")
	}

	created, err := s.events.Create(ctx, &domain.Event{
		Title:          title,
		Description:    input.Description,
		Category:       strings.TrimSpace(input.Category),
		Location:       strings.TrimSpace(input.Location),
		EventDate:      input.EventDate,
		EndDate:        input.EndDate,
		VolunteerSpots: input.VolunteerSpots,
		CreatedBy:      userID,
	})
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	s.log.InfoContext(ctx, "event created", "event_id", created.ID)
	return created, nil
}

// Get returns an event by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	return s.events.GetByID(ctx, id)
}

// ListUpcoming returns active events starting from now, soonest first.
func (s *Service) ListUpcoming(ctx context.Context) ([]*domain.Event, error) {
	return s.events.ListUpcoming(ctx, s.now(), s.listLimit)
}

// AddComment posts a comment on an event.
func (s *Service) AddComment(ctx context.Context, eventID uuid.UUID, text string) (*domain.EventComment, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.NewValidationError("text", "cannot be empty")
	}

	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}

	comment, err := s.events.AddComment(ctx, &domain.EventComment{
		EventID: eventID,
		UserID:  userID,
		Text:    text,
	})
	if err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}
	return comment, nil
}

// ListComments returns an event's comments, oldest first.
func (s *Service) ListComments(ctx context.Context, eventID uuid.UUID) ([]*domain.EventComment, error) {
	return s.events.ListComments(ctx, eventID)
}
