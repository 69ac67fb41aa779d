package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/neighborly/portal-backend/internal/domain"
)

// communityService defines the minimal interface needed by CommunityHandler.
type communityService interface {
	Leaderboard(ctx context.Context) ([]*domain.Profile, error)
	MyProfile(ctx context.Context) (*domain.Profile, error)
	MyPointsHistory(ctx context.Context) ([]*domain.PointsEntry, error)
	Stats(ctx context.Context) (*domain.CommunityStats, error)
}

// CommunityHandler serves leaderboard and statistics endpoints.
type CommunityHandler struct {
	community communityService
	log       *slog.Logger
}

// NewCommunityHandler creates a CommunityHandler.
func NewCommunityHandler(svc communityService, logger *slog.Logger) *CommunityHandler {
	return &CommunityHandler{community: svc, log: logger.With("handler", "community")}
}

type profileResponse struct {
	ID          string  `json:"id"`
	DisplayName *string `json:"displayName,omitempty"`
	Points      int     `json:"points"`
}

type pointsEntryResponse struct {
	ActionType  string    `json:"actionType"`
	Description *string   `json:"description,omitempty"`
	Points      int       `json:"points"`
	CreatedAt   time.Time `json:"createdAt"`
}

type statsResponse struct {
	ActiveEvents     int `json:"activeEvents"`
	OpenJobs         int `json:"openJobs"`
	OpenDonations    int `json:"openDonations"`
	ProblemsResolved int `json:"problemsResolved"`
	ActivePolls      int `json:"activePolls"`
	Volunteers       int `json:"volunteers"`
}

// Leaderboard handles GET /api/leaderboard.
func (h *CommunityHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.community.Leaderboard(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]profileResponse, len(profiles))
	for i, p := range profiles {
		out[i] = profileResponse{ID: p.ID.String(), DisplayName: p.DisplayName, Points: p.Points}
	}
	writeJSON(w, http.StatusOK, out)
}

// MyProfile handles GET /api/me.
func (h *CommunityHandler) MyProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.community.MyProfile(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{ID: p.ID.String(), DisplayName: p.DisplayName, Points: p.Points})
}

// MyPoints handles GET /api/me/points.
func (h *CommunityHandler) MyPoints(w http.ResponseWriter, r *http.Request) {
	entries, err := h.community.MyPointsHistory(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]pointsEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = pointsEntryResponse{
			ActionType:  e.ActionType,
			Description: e.Description,
			Points:      e.Points,
			CreatedAt:   e.CreatedAt,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// Stats handles GET /api/stats.
func (h *CommunityHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.community.Stats(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{
		ActiveEvents:     stats.ActiveEvents,
		OpenJobs:         stats.OpenJobs,
		OpenDonations:    stats.OpenDonations,
		ProblemsResolved: stats.ProblemsResolved,
		ActivePolls:      stats.ActivePolls,
		Volunteers:       stats.Volunteers,
	})
}
