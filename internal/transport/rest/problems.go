package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/neighborly/portal-backend/internal/domain"
	"github.com/neighborly/portal-backend/internal/service/engagement"
	"github.com/neighborly/portal-backend/internal/service/problem"
)

// problemService defines the minimal interface needed by ProblemHandler.
type problemService interface {
	Report(ctx context.Context, input problem.ReportInput) (*domain.ProblemReport, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.ProblemReport, error)
	List(ctx context.Context, status string) ([]*domain.ProblemReport, error)
	MarkResolved(ctx context.Context, id uuid.UUID) error
}

// upvoteService defines the upvote slice of the engagement service.
type upvoteService interface {
	ToggleUpvote(ctx context.Context, problemID uuid.UUID) (*engagement.UpvoteResult, error)
	UpvotedProblemIDs(ctx context.Context) ([]uuid.UUID, error)
}

// ProblemHandler serves problem report REST endpoints.
type ProblemHandler struct {
	problems   problemService
	engagement upvoteService
	log        *slog.Logger
}

// NewProblemHandler creates a ProblemHandler.
func NewProblemHandler(problems problemService, eng upvoteService, logger *slog.Logger) *ProblemHandler {
	return &ProblemHandler{problems: problems, engagement: eng, log: logger.With("handler", "problem")}
}

type reportProblemRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Location    string `json:"location"`
}

type problemResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Location    string    `json:"location"`
	Status      string    `json:"status"`
	Upvotes     int       `json:"upvotes"`
	Upvoted     bool      `json:"upvoted"`
	CreatedAt   time.Time `json:"createdAt"`
}

type upvoteResponse struct {
	Problem    problemResponse    `json:"problem"`
	Membership membershipResponse `json:"membership"`
}

// List handles GET /api/problems.
func (h *ProblemHandler) List(w http.ResponseWriter, r *http.Request) {
	problems, err := h.problems.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	upvoted := make(map[uuid.UUID]bool)
	ids, err := h.engagement.UpvotedProblemIDs(r.Context())
	switch {
	case err == nil:
		for _, id := range ids {
			upvoted[id] = true
		}
	case errors.Is(err, domain.ErrUnauthorized):
		// Anonymous readers get no upvoted flags; the listing itself is
		// public.
	default:
		// The listing still renders without flags; the lookup failure must
		// not pass silently.
		h.log.ErrorContext(r.Context(), "load upvoted problem ids", "error", err)
	}

	out := make([]problemResponse, len(problems))
	for i, p := range problems {
		out[i] = toProblemResponse(p)
		out[i].Upvoted = upvoted[p.ID]
	}
	writeJSON(w, http.StatusOK, out)
}

// Report handles POST /api/problems.
func (h *ProblemHandler) Report(w http.ResponseWriter, r *http.Request) {
	var req reportProblemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.problems.Report(r.Context(), problem.ReportInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Location:    req.Location,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProblemResponse(created))
}

// Get handles GET /api/problems/{id}.
func (h *ProblemHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	p, err := h.problems.Get(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProblemResponse(p))
}

// Upvote handles POST /api/problems/{id}/upvote.
func (h *ProblemHandler) Upvote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	result, err := h.engagement.ToggleUpvote(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, upvoteResponse{
		Problem:    toProblemResponse(result.Problem),
		Membership: toMembershipResponse(result.State, result.Membership),
	})
}

// Resolve handles POST /api/problems/{id}/resolve.
func (h *ProblemHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	if err := h.problems.MarkResolved(r.Context(), id); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "resolved"})
}

func toProblemResponse(p *domain.ProblemReport) problemResponse {
	return problemResponse{
		ID:          p.ID.String(),
		Title:       p.Title,
		Description: p.Description,
		Category:    p.Category,
		Location:    p.Location,
		Status:      string(p.Status),
		Upvotes:     p.Upvotes,
		CreatedAt:   p.CreatedAt,
	}
}
