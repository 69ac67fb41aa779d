package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/neighborly/portal-backend/internal/domain"
	"github.com/neighborly/portal-backend/internal/service/lostfound"
)

// lostFoundService defines the minimal interface needed by LostFoundHandler.
type lostFoundService interface {
	Post(ctx context.Context, input lostfound.PostInput) (*domain.LostFoundItem, error)
	List(ctx context.Context, itemType string) ([]*domain.LostFoundItem, error)
	MarkResolved(ctx context.Context, id uuid.UUID) error
}

// LostFoundHandler serves lost-and-found REST endpoints.
type LostFoundHandler struct {
	items lostFoundService
	log   *slog.Logger
}

// NewLostFoundHandler creates a LostFoundHandler.
func NewLostFoundHandler(items lostFoundService, logger *slog.Logger) *LostFoundHandler {
	return &LostFoundHandler{items: items, log: logger.With("handler", "lostfound")}
}

type postItemRequest struct {
	Type         string `json:"type"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	Location     string `json:"location"`
	ContactPhone string `json:"contactPhone"`
}

type itemResponse struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	Location     string    `json:"location"`
	ContactPhone string    `json:"contactPhone"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

// List handles GET /api/lost-found.
func (h *LostFoundHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.items.List(r.Context(), r.URL.Query().Get("type"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]itemResponse, len(items))
	for i, item := range items {
		out[i] = toItemResponse(item)
	}
	writeJSON(w, http.StatusOK, out)
}

// Post handles POST /api/lost-found.
func (h *LostFoundHandler) Post(w http.ResponseWriter, r *http.Request) {
	var req postItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.items.Post(r.Context(), lostfound.PostInput{
		Type:         req.Type,
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Location:     req.Location,
		ContactPhone: req.ContactPhone,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toItemResponse(created))
}

// Resolve handles POST /api/lost-found/{id}/resolve.
func (h *LostFoundHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	if err := h.items.MarkResolved(r.Context(), id); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "resolved"})
}

func toItemResponse(item *domain.LostFoundItem) itemResponse {
	return itemResponse{
		ID:           item.ID.String(),
		Type:         string(item.Type),
		Title:        item.Title,
		Description:  item.Description,
		Category:     item.Category,
		Location:     item.Location,
		ContactPhone: item.ContactPhone,
		Status:       string(item.Status),
		CreatedAt:    item.CreatedAt,
	}
}
