package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/neighborly/portal-backend/internal/domain"
	"github.com/neighborly/portal-backend/internal/service/food"
)

// foodService defines the minimal interface needed by FoodHandler.
type foodService interface {
	Donate(ctx context.Context, input food.DonateInput) (*domain.FoodDonation, error)
	ListOpenDonations(ctx context.Context) ([]*domain.FoodDonation, error)
	ClaimDonation(ctx context.Context, donationID uuid.UUID) (*domain.FoodDonation, error)
	MarkCollected(ctx context.Context, donationID uuid.UUID) error
	Request(ctx context.Context, input food.RequestInput) (*domain.FoodRequest, error)
	ListOpenRequests(ctx context.Context) ([]*domain.FoodRequest, error)
}

// FoodHandler serves food sharing REST endpoints.
type FoodHandler struct {
	food foodService
	log  *slog.Logger
}

// NewFoodHandler creates a FoodHandler.
func NewFoodHandler(svc foodService, logger *slog.Logger) *FoodHandler {
	return &FoodHandler{food: svc, log: logger.With("handler", "food")}
}

type donateRequest struct {
	DonorName      string    `json:"donorName"`
	DonorType      string    `json:"donorType"`
	FoodType       string    `json:"foodType"`
	Quantity       string    `json:"quantity"`
	PickupLocation string    `json:"pickupLocation"`
	ExpiryTime     time.Time `json:"expiryTime"`
	ContactPhone   string    `json:"contactPhone"`
	Notes          *string   `json:"notes"`
}

type foodRequestRequest struct {
	OrganizationName string `json:"organizationName"`
	OrganizationType string `json:"organizationType"`
	FoodTypeNeeded   string `json:"foodTypeNeeded"`
	QuantityNeeded   string `json:"quantityNeeded"`
	PickupLocation   string `json:"pickupLocation"`
	Urgency          string `json:"urgency"`
	ContactPhone     string `json:"contactPhone"`
}

type donationResponse struct {
	ID             string    `json:"id"`
	DonorName      string    `json:"donorName"`
	DonorType      string    `json:"donorType"`
	FoodType       string    `json:"foodType"`
	Quantity       string    `json:"quantity"`
	PickupLocation string    `json:"pickupLocation"`
	ExpiryTime     time.Time `json:"expiryTime"`
	Status         string    `json:"status"`
	Assigned       bool      `json:"assigned"`
	ContactPhone   string    `json:"contactPhone"`
	Notes          *string   `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

type foodRequestResponse struct {
	ID               string    `json:"id"`
	OrganizationName string    `json:"organizationName"`
	OrganizationType string    `json:"organizationType"`
	FoodTypeNeeded   string    `json:"foodTypeNeeded"`
	QuantityNeeded   string    `json:"quantityNeeded"`
	PickupLocation   string    `json:"pickupLocation"`
	Urgency          string    `json:"urgency"`
	Status           string    `json:"status"`
	ContactPhone     string    `json:"contactPhone"`
	CreatedAt        time.Time `json:"createdAt"`
}

// ListDonations handles GET /api/food/donations.
func (h *FoodHandler) ListDonations(w http.ResponseWriter, r *http.Request) {
	donations, err := h.food.ListOpenDonations(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]donationResponse, len(donations))
	for i, d := range donations {
		out[i] = toDonationResponse(d)
	}
	writeJSON(w, http.StatusOK, out)
}

// Donate handles POST /api/food/donations.
func (h *FoodHandler) Donate(w http.ResponseWriter, r *http.Request) {
	var req donateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.food.Donate(r.Context(), food.DonateInput{
		DonorName:      req.DonorName,
		DonorType:      req.DonorType,
		FoodType:       req.FoodType,
		Quantity:       req.Quantity,
		PickupLocation: req.PickupLocation,
		ExpiryTime:     req.ExpiryTime,
		ContactPhone:   req.ContactPhone,
		Notes:          req.Notes,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toDonationResponse(created))
}

// Claim handles POST /api/food/donations/{id}/claim.
func (h *FoodHandler) Claim(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	assigned, err := h.food.ClaimDonation(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDonationResponse(assigned))
}

// Collect handles POST /api/food/donations/{id}/collect.
func (h *FoodHandler) Collect(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	if err := h.food.MarkCollected(r.Context(), id); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "collected"})
}

// ListRequests handles GET /api/food/requests.
func (h *FoodHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.food.ListOpenRequests(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]foodRequestResponse, len(requests))
	for i, req := range requests {
		out[i] = toFoodRequestResponse(req)
	}
	writeJSON(w, http.StatusOK, out)
}

// CreateRequest handles POST /api/food/requests.
func (h *FoodHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var req foodRequestRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.food.Request(r.Context(), food.RequestInput{
		OrganizationName: req.OrganizationName,
		OrganizationType: req.OrganizationType,
		FoodTypeNeeded:   req.FoodTypeNeeded,
		QuantityNeeded:   req.QuantityNeeded,
		PickupLocation:   req.PickupLocation,
		Urgency:          req.Urgency,
		ContactPhone:     req.ContactPhone,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toFoodRequestResponse(created))
}

func toDonationResponse(d *domain.FoodDonation) donationResponse {
	return donationResponse{
		ID:             d.ID.String(),
		DonorName:      d.DonorName,
		DonorType:      d.DonorType,
		FoodType:       d.FoodType,
		Quantity:       d.Quantity,
		PickupLocation: d.PickupLocation,
		ExpiryTime:     d.ExpiryTime,
		Status:         string(d.Status),
		Assigned:       d.AssignedVolunteerID != nil,
		ContactPhone:   d.ContactPhone,
		Notes:          d.Notes,
		CreatedAt:      d.CreatedAt,
	}
}

func toFoodRequestResponse(r *domain.FoodRequest) foodRequestResponse {
	return foodRequestResponse{
		ID:               r.ID.String(),
		OrganizationName: r.OrganizationName,
		OrganizationType: r.OrganizationType,
		FoodTypeNeeded:   r.FoodTypeNeeded,
		QuantityNeeded:   r.QuantityNeeded,
		PickupLocation:   r.PickupLocation,
		Urgency:          string(r.Urgency),
		Status:           string(r.Status),
		ContactPhone:     r.ContactPhone,
		CreatedAt:        r.CreatedAt,
	}
}
