// Package green implements the green hub: initiative drives, awareness
// campaigns, and drive registrations. Registration is a one-shot sign-up
// carrying contact details, not a toggle; there is no unregister.
package green

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/neighborly/portal-backend/internal/domain"
	"github.com/neighborly/portal-backend/pkg/ctxutil"
)

// greenRepo defines the repository interface needed by the green service.
type greenRepo interface {
	ListActiveDrives(ctx context.Context, limit int) ([]*domain.Drive, error)
	GetDrive(ctx context.Context, id uuid.UUID) (*domain.Drive, error)
	Register(ctx context.Context, reg *domain.DriveRegistration) error
	ListActiveCampaigns(ctx context.Context, limit int) ([]*domain.Campaign, error)
}

// pointsRecorder appends to the civic-points journal. Failures are logged,
// not returned.
type pointsRecorder interface {
	AwardPoints(ctx context.Context, e *domain.PointsEntry) error
}

const pointsDriveRegistration = 15

// Service implements green hub operations.
type Service struct {
	log       *slog.Logger
	greens    greenRepo
	points    pointsRecorder
	listLimit int
}

// NewService creates a new green service instance.
func NewService(logger *slog.Logger, greens greenRepo, points pointsRecorder, listLimit int) *Service {
	return &Service{
		log:       logger.With("service", "green"),
		greens:    greens,
		points:    points,
		listLimit: listLimit,
	}
}

// ListDrives returns active drives, soonest first.
func (s *Service) ListDrives(ctx context.Context) ([]*domain.Drive, error) {
	return s.greens.ListActiveDrives(ctx, s.listLimit)
}

// GetDrive returns a drive by id.
func (s *Service) GetDrive(ctx context.Context, id uuid.UUID) (*domain.Drive, error) {
	return s.greens.GetDrive(ctx, id)
}

// ListCampaigns returns active awareness campaigns, newest first.
func (s *Service) ListCampaigns(ctx context.Context) ([]*domain.Campaign, error) {
	return s.greens.ListActiveCampaigns(ctx, s.listLimit)
}

// RegisterInput is the payload for signing up for a drive.
type RegisterInput struct {
	DriveID  uuid.UUID
	FullName string
	Email    string
	Phone    string
}

// RegisterResult carries the drive snapshot after a registration. The
// participants aggregate is store-maintained and re-read, never incremented
// locally.
type RegisterResult struct {
	Drive        *domain.Drive
	Registration *domain.DriveRegistration
}

// Register signs the authenticated user up for a drive. A second sign-up for
// the same drive reports ErrAlreadyRegistered and writes nothing.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
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

	drive, err := s.greens.GetDrive(ctx, input.DriveID)
	if err != nil {
		return nil, fmt.Errorf("get drive: %w", err)
	}
	if drive.Status != domain.StatusActive {
		return nil, fmt.Errorf("drive %s is %s: %w", drive.ID, drive.Status, domain.ErrConflict)
	}

	reg := &domain.DriveRegistration{
		DriveID:  input.DriveID,
		UserID:   userID,
		FullName: fullName,
		Email:    email,
		Phone:    phone,
	}
	if err := s.greens.Register(ctx, reg); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, domain.ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("register for drive: %w", err)
	}

	if s.points != nil {
		entry := &domain.PointsEntry{UserID: userID, ActionType: "drive_registration", Points: pointsDriveRegistration}
		if err := s.points.AwardPoints(ctx, entry); err != nil {
			s.log.WarnContext(ctx, "points grant failed", "action", "drive_registration", "error", err)
		}
	}

	updated, err := s.greens.GetDrive(ctx, input.DriveID)
	if err != nil {
		return nil, fmt.Errorf("reread drive: %w", err)
	}

	s.log.InfoContext(ctx, "drive registration recorded", "drive_id", drive.ID)
	return &RegisterResult{Drive: updated, Registration: reg}, nil
}
