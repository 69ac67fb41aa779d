// Package poll implements poll creation and listing. Voting lives in the
// engagement service; this package only reads vote totals back.
package poll

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

// pollRepo defines the poll repository interface needed by the poll service.
type pollRepo interface {
	Create(ctx context.Context, p *domain.Poll) (*domain.Poll, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error)
	ListActive(ctx context.Context, limit int) ([]*domain.Poll, error)
	CountVotesByOption(ctx context.Context, pollID uuid.UUID) (map[int]int, error)
}

// Service implements poll operations.
type Service struct {
	log        *slog.Logger
	polls      pollRepo
	maxOptions int
	listLimit  int
}

// NewService creates a new poll service instance.
func NewService(logger *slog.Logger, polls pollRepo, maxOptions, listLimit int) *Service {
	return &Service{
		log:        logger.With("service", "poll"),
		polls:      polls,
		maxOptions: maxOptions,
		listLimit:  listLimit,
	}
}

// CreateInput is the payload for creating a poll.
type CreateInput struct {
	Title       string
	Description *string
	Category    string
	Options     []string
	ExpiresAt   *time.Time
}

// Create validates and stores a new poll. Options are deduplicated by trim
// and must number at least two.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Poll, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domain.NewValidationError("title", "cannot be empty")
	}

	seen := make(map[string]bool, len(input.Options))
	options := make([]domain.PollOption, 0, len(input.Options))
	for _, raw := range input.Options {
		text := strings.TrimSpace(raw)
		if text == "" || seen[text] {
			continue
		}
		seen[text] = true
		options = append(options, domain.PollOption{Index: len(options), Text: text})
	}
	if len(options) < 2 {
		return nil, domain.NewValidationError("options", "need at least two distinct options")
	}
	if len(options) > s.maxOptions {
		return nil, domain.NewValidationError("options", fmt.Sprintf("at most %d options", s.maxOptions))
	}

	created, err := s.polls.Create(ctx, &domain.Poll{
		Title:       title,
		Description: input.Description,
		Category:    strings.TrimSpace(input.Category),
		Options:     options,
		CreatedBy:   userID,
		ExpiresAt:   input.ExpiresAt,
	})
	if err != nil {
		return nil, fmt.Errorf("create poll: %w", err)
	}

	s.log.InfoContext(ctx, "poll created", "poll_id", created.ID, "options", len(options))
	return created, nil
}

// ListActive returns active polls, newest first.
func (s *Service) ListActive(ctx context.Context) ([]*domain.Poll, error) {
	return s.polls.ListActive(ctx, s.listLimit)
}

// Results returns a poll with per-option vote counts folded into its options.
func (s *Service) Results(ctx context.Context, pollID uuid.UUID) (*domain.Poll, error) {
	p, err := s.polls.GetByID(ctx, pollID)
	if err != nil {
		return nil, fmt.Errorf("get poll: %w", err)
	}

	counts, err := s.polls.CountVotesByOption(ctx, pollID)
	if err != nil {
		return nil, fmt.Errorf("count votes: %w", err)
	}
	for i := range p.Options {
		p.Options[i].Votes = counts[p.Options[i].Index]
	}
	return p, nil
}
