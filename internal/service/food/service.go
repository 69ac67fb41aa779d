// Package food implements surplus-food donations and requests: donating,
// requesting, volunteer assignment, and collection.
package food

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

// foodRepo defines the repository interface needed by the food service.
type foodRepo interface {
	CreateDonation(ctx context.Context, d *domain.FoodDonation) (*domain.FoodDonation, error)
	GetDonation(ctx context.Context, id uuid.UUID) (*domain.FoodDonation, error)
	ListOpenDonations(ctx context.Context, now time.Time, limit int) ([]*domain.FoodDonation, error)
	AssignVolunteer(ctx context.Context, donationID, volunteerID uuid.UUID) (*domain.FoodDonation, error)
	MarkCollected(ctx context.Context, donationID uuid.UUID) error
	CreateRequest(ctx context.Context, req *domain.FoodRequest) (*domain.FoodRequest, error)
	ListOpenRequests(ctx context.Context, limit int) ([]*domain.FoodRequest, error)
}

// pointsRecorder appends to the civic-points journal.
type pointsRecorder interface {
	AwardPoints(ctx context.Context, e *domain.PointsEntry) error
}

// Service implements food sharing operations.
type Service struct {
	log       *slog.Logger
	food      foodRepo
	points    pointsRecorder
	listLimit int
	now       func() time.Time
}

// NewService creates a new food service instance.
func NewService(logger *slog.Logger, food foodRepo, points pointsRecorder, listLimit int) *Service {
	return &Service{
		log:       logger.With("service", "food"),
		food:      food,
		points:    points,
		listLimit: listLimit,
		now:       time.Now,
	}
}

// DonateInput is the payload for offering surplus food.
type DonateInput struct {
	DonorName      string
	DonorType      string
	FoodType       string
	Quantity       string
	PickupLocation string
	ExpiryTime     time.Time
	ContactPhone   string
	Notes          *string
}

// Donate validates and stores a new donation.
func (s *Service) Donate(ctx context.Context, input DonateInput) (*domain.FoodDonation, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if strings.TrimSpace(input.FoodType) == "" {
		return nil, domain.NewValidationError("foodType", "cannot be empty")
	}
	if strings.TrimSpace(input.PickupLocation) == "" {
		return nil, domain.NewValidationError("pickupLocation", "cannot be empty")
	}
	if !input.ExpiryTime.After(s.now()) {
		return nil, domain.NewValidationError("expiryTime", "must be in the future")
	}

	created, err := s.food.CreateDonation(ctx, &domain.FoodDonation{
		DonorID:        userID,
		DonorName:      strings.TrimSpace(input.DonorName),
		DonorType:      strings.TrimSpace(input.DonorType),
		FoodType:       strings.TrimSpace(input.FoodType),
		Quantity:       strings.TrimSpace(input.Quantity),
		PickupLocation: strings.TrimSpace(input.PickupLocation),
		ExpiryTime:     input.ExpiryTime,
		ContactPhone:   strings.TrimSpace(input.ContactPhone),
		Notes:          input.Notes,
	})
	if err != nil {
		return nil, fmt.Errorf("create donation: %w", err)
	}

	s.log.InfoContext(ctx, "donation created", "donation_id", created.ID, "food_type", created.FoodType)
	return created, nil
}

// ListOpenDonations returns claimable donations, soonest to expire first.
func (s *Service) ListOpenDonations(ctx context.Context) ([]*domain.FoodDonation, error) {
	return s.food.ListOpenDonations(ctx, s.now(), s.listLimit)
}

// ClaimDonation assigns the authenticated user as the pickup volunteer for
// an open donation. A donation already claimed reports ErrConflict; the
// donor cannot claim their own donation.
func (s *Service) ClaimDonation(ctx context.Context, donationID uuid.UUID) (*domain.FoodDonation, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	d, err := s.food.GetDonation(ctx, donationID)
	if err != nil {
		return nil, fmt.Errorf("get donation: %w", err)
	}
	if d.DonorID == userID {
		return nil, fmt.Errorf("cannot claim own donation: %w", domain.ErrForbidden)
	}

	assigned, err := s.food.AssignVolunteer(ctx, donationID, userID)
	if err != nil {
		return nil, fmt.Errorf("assign volunteer: %w", err)
	}

	if s.points != nil {
		entry := &domain.PointsEntry{UserID: userID, ActionType: "food_pickup", Points: 15}
		if err := s.points.AwardPoints(ctx, entry); err != nil {
			s.log.WarnContext(ctx, "points grant failed", "action", "food_pickup", "error", err)
		}
	}
	s.log.InfoContext(ctx, "donation claimed", "donation_id", donationID)
	return assigned, nil
}

// MarkCollected finishes an assigned donation. Only the donor or the
// assigned volunteer may complete it.
func (s *Service) MarkCollected(ctx context.Context, donationID uuid.UUID) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	d, err := s.food.GetDonation(ctx, donationID)
	if err != nil {
		return fmt.Errorf("get donation: %w", err)
	}
	assignedToUser := d.AssignedVolunteerID != nil && *d.AssignedVolunteerID == userID
	if d.DonorID != userID && !assignedToUser {
		return domain.ErrForbidden
	}

	if err := s.food.MarkCollected(ctx, donationID); err != nil {
		return fmt.Errorf("mark collected: %w", err)
	}
	s.log.InfoContext(ctx, "donation collected", "donation_id", donationID)
	return nil
}

// RequestInput is the payload for a standing organizational food request.
type RequestInput struct {
	OrganizationName string
	OrganizationType string
	FoodTypeNeeded   string
	QuantityNeeded   string
	PickupLocation   string
	Urgency          string
	ContactPhone     string
}

// Request validates and stores a new food request.
func (s *Service) Request(ctx context.Context, input RequestInput) (*domain.FoodRequest, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if strings.TrimSpace(input.OrganizationName) == "" {
		return nil, domain.NewValidationError("organizationName", "cannot be empty")
	}
	if strings.TrimSpace(input.FoodTypeNeeded) == "" {
		return nil, domain.NewValidationError("foodTypeNeeded", "cannot be empty")
	}
	urgency, err := domain.ParseUrgency(input.Urgency)
	if err != nil {
		return nil, err
	}

	created, err := s.food.CreateRequest(ctx, &domain.FoodRequest{
		RequesterID:      userID,
		OrganizationName: strings.TrimSpace(input.OrganizationName),
		OrganizationType: strings.TrimSpace(input.OrganizationType),
		FoodTypeNeeded:   strings.TrimSpace(input.FoodTypeNeeded),
		QuantityNeeded:   strings.TrimSpace(input.QuantityNeeded),
		PickupLocation:   strings.TrimSpace(input.PickupLocation),
		Urgency:          urgency,
		ContactPhone:     strings.TrimSpace(input.ContactPhone),
	})
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	s.log.InfoContext(ctx, "food request created", "request_id", created.ID)
	return created, nil
}

// ListOpenRequests returns open requests, most urgent first.
func (s *Service) ListOpenRequests(ctx context.Context) ([]*domain.FoodRequest, error) {
	return s.food.ListOpenRequests(ctx, s.listLimit)
}
