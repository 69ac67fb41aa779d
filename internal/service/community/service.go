// Package community implements the leaderboard, civic-points history, and
// portal-wide statistics.
package community

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/neighborly/portal-backend/internal/domain"
	"github.com/neighborly/portal-backend/pkg/ctxutil"
)

// profileRepo defines the repository interface needed by the community
// service.
type profileRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
	Leaderboard(ctx context.Context, size int) ([]*domain.Profile, error)
	PointsHistory(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.PointsEntry, error)
	CommunityStats(ctx context.Context) (*domain.CommunityStats, error)
}

// Service implements community reads.
type Service struct {
	log             *slog.Logger
	profiles        profileRepo
	leaderboardSize int
	historyLimit    int
}

// NewService creates a new community service instance.
func NewService(logger *slog.Logger, profiles profileRepo, leaderboardSize, historyLimit int) *Service {
	return &Service{
		log:             logger.With("service", "community"),
		profiles:        profiles,
		leaderboardSize: leaderboardSize,
		historyLimit:    historyLimit,
	}
}

// Leaderboard returns the top opted-in profiles by points.
func (s *Service) Leaderboard(ctx context.Context) ([]*domain.Profile, error) {
	return s.profiles.Leaderboard(ctx, s.leaderboardSize)
}

// MyProfile returns the authenticated user's profile with its current points
// aggregate.
func (s *Service) MyProfile(ctx context.Context) (*domain.Profile, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return s.profiles.GetByID(ctx, userID)
}

// MyPointsHistory returns the authenticated user's journal entries, newest
// first.
func (s *Service) MyPointsHistory(ctx context.Context) ([]*domain.PointsEntry, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return s.profiles.PointsHistory(ctx, userID, s.historyLimit)
}

// Stats returns the portal-wide counters for the landing page.
func (s *Service) Stats(ctx context.Context) (*domain.CommunityStats, error) {
	stats, err := s.profiles.CommunityStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("community stats: %w", err)
	}
	return stats, nil
}
