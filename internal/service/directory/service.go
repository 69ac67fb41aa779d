// Package directory implements the health-and-safety directory: medical
// centers, community kitchens, emergency contacts, and medicine search.
// Open/closed status is computed from free-text timings at read time.
package directory

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/neighborly/portal-backend/internal/domain"
	"github.com/neighborly/portal-backend/internal/hours"
)

// facilityRepo defines the repository interface needed by the directory
// service.
type facilityRepo interface {
	ListMedicalCenters(ctx context.Context, facilityType string) ([]*domain.MedicalCenter, error)
	GetMedicalCenter(ctx context.Context, id uuid.UUID) (*domain.MedicalCenter, error)
	ListKitchens(ctx context.Context) ([]*domain.Kitchen, error)
	GetKitchen(ctx context.Context, id uuid.UUID) (*domain.Kitchen, error)
	ListEmergencyContacts(ctx context.Context) ([]*domain.EmergencyContact, error)
	SearchMedicines(ctx context.Context, query string, limit int) ([]*domain.Medicine, error)
}

// Service implements directory reads.
type Service struct {
	log        *slog.Logger
	facilities facilityRepo
	listLimit  int
	now        func() time.Time
}

// NewService creates a new directory service instance.
func NewService(logger *slog.Logger, facilities facilityRepo, listLimit int) *Service {
	return &Service{
		log:        logger.With("service", "directory"),
		facilities: facilities,
		listLimit:  listLimit,
		now:        time.Now,
	}
}

// MedicalCenterView is a directory entry with its open status resolved from
// the timings text. OpenStatus degrades to unknown on unparseable input; it
// is never an error.
type MedicalCenterView struct {
	*domain.MedicalCenter
	OpenStatus hours.Status
}

// KitchenView is a kitchen with its resolved open status.
type KitchenView struct {
	*domain.Kitchen
	OpenStatus hours.Status
}

// ListMedicalCenters returns directory entries with computed open status,
// optionally filtered by facility type.
func (s *Service) ListMedicalCenters(ctx context.Context, facilityType string) ([]MedicalCenterView, error) {
	centers, err := s.facilities.ListMedicalCenters(ctx, strings.TrimSpace(facilityType))
	if err != nil {
		return nil, fmt.Errorf("list medical centers: %w", err)
	}

	now := s.now()
	views := make([]MedicalCenterView, len(centers))
	for i, c := range centers {
		views[i] = MedicalCenterView{MedicalCenter: c, OpenStatus: s.resolve(c.Timings, now)}
	}
	return views, nil
}

// GetMedicalCenter returns one entry with computed open status.
func (s *Service) GetMedicalCenter(ctx context.Context, id uuid.UUID) (*MedicalCenterView, error) {
	c, err := s.facilities.GetMedicalCenter(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get medical center: %w", err)
	}
	return &MedicalCenterView{MedicalCenter: c, OpenStatus: s.resolve(c.Timings, s.now())}, nil
}

// ListKitchens returns active kitchens with computed open status.
func (s *Service) ListKitchens(ctx context.Context) ([]KitchenView, error) {
	kitchens, err := s.facilities.ListKitchens(ctx)
	if err != nil {
		return nil, fmt.Errorf("list kitchens: %w", err)
	}

	now := s.now()
	views := make([]KitchenView, len(kitchens))
	for i, k := range kitchens {
		views[i] = KitchenView{Kitchen: k, OpenStatus: hours.Resolve(k.Timings, now)}
	}
	return views, nil
}

// ListEmergencyContacts returns all hotline entries.
func (s *Service) ListEmergencyContacts(ctx context.Context) ([]*domain.EmergencyContact, error) {
	return s.facilities.ListEmergencyContacts(ctx)
}

// SearchMedicines returns pharmacy stock rows matching the query.
func (s *Service) SearchMedicines(ctx context.Context, query string) ([]*domain.Medicine, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.NewValidationError("q", "cannot be empty")
	}
	return s.facilities.SearchMedicines(ctx, query, s.listLimit)
}

func (s *Service) resolve(timings *string, now time.Time) hours.Status {
	if timings == nil {
		return hours.StatusUnknown
	}
	return hours.Resolve(*timings, now)
}
