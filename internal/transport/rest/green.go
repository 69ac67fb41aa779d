package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/neighborly/portal-backend/internal/domain"
	"github.com/neighborly/portal-backend/internal/service/green"
)

// greenService defines the minimal interface needed by GreenHandler.
type greenService interface {
	ListDrives(ctx context.Context) ([]*domain.Drive, error)
	GetDrive(ctx context.Context, id uuid.UUID) (*domain.Drive, error)
	ListCampaigns(ctx context.Context) ([]*domain.Campaign, error)
	Register(ctx context.Context, input green.RegisterInput) (*green.RegisterResult, error)
}

// registrationService defines the drive-registration slice of the engagement
// service.
type registrationService interface {
	RegisteredDriveIDs(ctx context.Context) ([]uuid.UUID, error)
}

// GreenHandler serves green hub REST endpoints.
type GreenHandler struct {
	greens        greenService
	registrations registrationService
	log           *slog.Logger
}

// NewGreenHandler creates a GreenHandler.
func NewGreenHandler(greens greenService, regs registrationService, logger *slog.Logger) *GreenHandler {
	return &GreenHandler{greens: greens, registrations: regs, log: logger.With("handler", "green")}
}

type driveResponse struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Category         string    `json:"category"`
	Location         string    `json:"location"`
	Organizer        string    `json:"organizer"`
	DriveDate        time.Time `json:"driveDate"`
	RegistrationLink *string   `json:"registrationLink,omitempty"`
	Participants     int       `json:"participants"`
	Status           string    `json:"status"`
	Registered       bool      `json:"registered"`
	CreatedAt        time.Time `json:"createdAt"`
}

type campaignResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	Category    string    `json:"category"`
	MediaLink   *string   `json:"mediaLink,omitempty"`
	Views       int       `json:"views"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

type registerDriveRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

type registerDriveResponse struct {
	Drive driveResponse `json:"drive"`
}

// ListDrives handles GET /api/drives.
func (h *GreenHandler) ListDrives(w http.ResponseWriter, r *http.Request) {
	drives, err := h.greens.ListDrives(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	registered := make(map[uuid.UUID]bool)
	ids, err := h.registrations.RegisteredDriveIDs(r.Context())
	switch {
	case err == nil:
		for _, id := range ids {
			registered[id] = true
		}
	case errors.Is(err, domain.ErrUnauthorized):
		// Anonymous readers get no registration flags; the listing itself
		// is public.
	default:
		h.log.ErrorContext(r.Context(), "load registered drive ids", "error", err)
	}

	out := make([]driveResponse, len(drives))
	for i, d := range drives {
		out[i] = toDriveResponse(d)
		out[i].Registered = registered[d.ID]
	}
	writeJSON(w, http.StatusOK, out)
}

// GetDrive handles GET /api/drives/{id}.
func (h *GreenHandler) GetDrive(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	d, err := h.greens.GetDrive(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDriveResponse(d))
}

// Register handles POST /api/drives/{id}/register.
func (h *GreenHandler) Register(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	var req registerDriveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.greens.Register(r.Context(), green.RegisterInput{
		DriveID:  id,
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := registerDriveResponse{Drive: toDriveResponse(result.Drive)}
	resp.Drive.Registered = true
	writeJSON(w, http.StatusCreated, resp)
}

// ListCampaigns handles GET /api/campaigns.
func (h *GreenHandler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.greens.ListCampaigns(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]campaignResponse, len(campaigns))
	for i, c := range campaigns {
		out[i] = toCampaignResponse(c)
	}
	writeJSON(w, http.StatusOK, out)
}

func toDriveResponse(d *domain.Drive) driveResponse {
	return driveResponse{
		ID:               d.ID.String(),
		Title:            d.Title,
		Description:      d.Description,
		Category:         d.Category,
		Location:         d.Location,
		Organizer:        d.Organizer,
		DriveDate:        d.DriveDate,
		RegistrationLink: d.RegistrationLink,
		Participants:     d.Participants,
		Status:           string(d.Status),
		CreatedAt:        d.CreatedAt,
	}
}

func toCampaignResponse(c *domain.Campaign) campaignResponse {
	return campaignResponse{
		ID:          c.ID.String(),
		Title:       c.Title,
		Description: c.Description,
		Content:     c.Content,
		Category:    c.Category,
		MediaLink:   c.MediaLink,
		Views:       c.Views,
		Status:      string(c.Status),
		CreatedAt:   c.CreatedAt,
	}
}
