// Package pickup implements waste-pickup scheduling.
package pickup

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

// pickupRepo defines the repository interface needed by the pickup service.
type pickupRepo interface {
	Create(ctx context.Context, p *domain.Pickup) (*domain.Pickup, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Pickup, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Pickup, error)
	Cancel(ctx context.Context, id, userID uuid.UUID) error
}

// Service implements pickup scheduling.
type Service struct {
	log         *slog.Logger
	pickups     pickupRepo
	minLeadTime time.Duration
	now         func() time.Time
}

// NewService creates a new pickup service instance.
func NewService(logger *slog.Logger, pickups pickupRepo, minLeadTime time.Duration) *Service {
	return &Service{
		log:         logger.With("service", "pickup"),
		pickups:     pickups,
		minLeadTime: minLeadTime,
		now:         time.Now,
	}
}

// ScheduleInput is the payload for requesting a pickup.
type ScheduleInput struct {
	WasteType     string
	PreferredDate time.Time
	Address       string
	Notes         *string
}

// Schedule validates and stores a new pickup request. The preferred date
// must be at least the configured lead time ahead.
func (s *Service) Schedule(ctx context.Context, input ScheduleInput) (*domain.Pickup, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if strings.TrimSpace(input.WasteType) == "" {
		return nil, domain.NewValidationError("wasteType", "cannot be empty")
	}
	if strings.TrimSpace(input.Address) == "" {
		return nil, domain.NewValidationError("address", "cannot be empty")
	}
	if input.PreferredDate.Before(s.now().Add(s.minLeadTime)) {
		return nil, domain.NewValidationError("preferredDate", fmt.Sprintf("needs at least %s lead time", s.minLeadTime))
	}

	created, err := s.pickups.Create(ctx, &domain.Pickup{
		UserID:        userID,
		WasteType:     strings.TrimSpace(input.WasteType),
		PreferredDate: input.PreferredDate,
		Address:       strings.TrimSpace(input.Address),
		Notes:         input.Notes,
	})
	if err != nil {
		return nil, fmt.Errorf("create pickup: %w", err)
	}

	s.log.InfoContext(ctx, "pickup scheduled", "pickup_id", created.ID, "waste_type", created.WasteType)
	return created, nil
}

// ListMine returns the authenticated user's pickups, newest first.
func (s *Service) ListMine(ctx context.Context) ([]*domain.Pickup, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return s.pickups.ListByUser(ctx, userID)
}

// Cancel cancels the caller's own pickup while it is still pending or
// scheduled.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	if err := s.pickups.Cancel(ctx, id, userID); err != nil {
		return fmt.Errorf("cancel pickup: %w", err)
	}
	s.log.InfoContext(ctx, "pickup cancelled", "pickup_id", id)
	return nil
}
