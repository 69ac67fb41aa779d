// Package lostfound implements lost-and-found postings.
package lostfound

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/neighborly/portal-backend/internal/domain"
	"github.com/neighborly/portal-backend/pkg/ctxutil"
)

// itemRepo defines the repository interface needed by the lost-and-found
// service.
type itemRepo interface {
	Create(ctx context.Context, item *domain.LostFoundItem) (*domain.LostFoundItem, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.LostFoundItem, error)
	List(ctx context.Context, itemType domain.LostFoundType, limit int) ([]*domain.LostFoundItem, error)
	Resolve(ctx context.Context, id, userID uuid.UUID) error
}

// Service implements lost-and-found operations.
type Service struct {
	log       *slog.Logger
	items     itemRepo
	listLimit int
}

// NewService creates a new lost-and-found service instance.
func NewService(logger *slog.Logger, items itemRepo, listLimit int) *Service {
	return &Service{
		log:       logger.With("service", "lostfound"),
		items:     items,
		listLimit: listLimit,
	}
}

// PostInput is the payload for a lost or found posting.
type PostInput struct {
	Type         string
	Title        string
	Description  string
	Category     string
	Location     string
	ContactPhone string
}

// Post validates and stores a new posting.
func (s *Service) Post(ctx context.Context, input PostInput) (*domain.LostFoundItem, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	itemType, err := domain.ParseLostFoundType(input.Type)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, domain.NewValidationError("title", "cannot be empty")
	}
	if strings.TrimSpace(input.ContactPhone) == "" {
		return nil, domain.NewValidationError("contactPhone", "cannot be empty")
	}

	created, err := s.items.Create(ctx, &domain.LostFoundItem{
		Type:         itemType,
		Title:        title,
		Description:  input.Description,
		Category:     strings.TrimSpace(input.Category),
		Location:     strings.TrimSpace(input.Location),
		ContactPhone: strings.TrimSpace(input.ContactPhone),
		PostedBy:     userID,
	})
	if err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}

	s.log.InfoContext(ctx, "item posted", "item_id", created.ID, "type", created.Type)
	return created, nil
}

// List returns active postings, optionally filtered to lost or found.
func (s *Service) List(ctx context.Context, itemType string) ([]*domain.LostFoundItem, error) {
	var parsed domain.LostFoundType
	if itemType != "" {
		var err error
		parsed, err = domain.ParseLostFoundType(itemType)
		if err != nil {
			return nil, err
		}
	}
	return s.items.List(ctx, parsed, s.listLimit)
}

// MarkResolved closes the caller's own posting.
func (s *Service) MarkResolved(ctx context.Context, id uuid.UUID) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	if err := s.items.Resolve(ctx, id, userID); err != nil {
		return fmt.Errorf("resolve item: %w", err)
	}
	s.log.InfoContext(ctx, "item resolved", "item_id", id)
	return nil
}
