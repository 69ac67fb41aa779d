package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/neighborly/portal-backend/internal/domain"
	"github.com/neighborly/portal-backend/internal/service/pickup"
)

// pickupService defines the minimal interface needed by PickupHandler.
type pickupService interface {
	Schedule(ctx context.Context, input pickup.ScheduleInput) (*domain.Pickup, error)
	ListMine(ctx context.Context) ([]*domain.Pickup, error)
	Cancel(ctx context.Context, id uuid.UUID) error
}

// PickupHandler serves waste-pickup REST endpoints.
type PickupHandler struct {
	pickups pickupService
	log     *slog.Logger
}

// NewPickupHandler creates a PickupHandler.
func NewPickupHandler(pickups pickupService, logger *slog.Logger) *PickupHandler {
	return &PickupHandler{pickups: pickups, log: logger.With("handler", "pickup")}
}

type scheduleRequest struct {
	WasteType     string    `json:"wasteType"`
	PreferredDate time.Time `json:"preferredDate"`
	Address       string    `json:"address"`
	Notes         *string   `json:"notes"`
}

type pickupResponse struct {
	ID            string    `json:"id"`
	WasteType     string    `json:"wasteType"`
	PreferredDate time.Time `json:"preferredDate"`
	Address       string    `json:"address"`
	Status        string    `json:"status"`
	Notes         *string   `json:"notes,omitempty"`
	Cancellable   bool      `json:"cancellable"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ListMine handles GET /api/pickups.
func (h *PickupHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	pickups, err := h.pickups.ListMine(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]pickupResponse, len(pickups))
	for i, p := range pickups {
		out[i] = toPickupResponse(p)
	}
	writeJSON(w, http.StatusOK, out)
}

// Schedule handles POST /api/pickups.
func (h *PickupHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.pickups.Schedule(r.Context(), pickup.ScheduleInput{
		WasteType:     req.WasteType,
		PreferredDate: req.PreferredDate,
		Address:       req.Address,
		Notes:         req.Notes,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPickupResponse(created))
}

// Cancel handles POST /api/pickups/{id}/cancel.
func (h *PickupHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	if err := h.pickups.Cancel(r.Context(), id); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

func toPickupResponse(p *domain.Pickup) pickupResponse {
	return pickupResponse{
		ID:            p.ID.String(),
		WasteType:     p.WasteType,
		PreferredDate: p.PreferredDate,
		Address:       p.Address,
		Status:        string(p.Status),
		Notes:         p.Notes,
		Cancellable:   p.Cancellable(),
		CreatedAt:     p.CreatedAt,
	}
}
