package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/neighborly/portal-backend/internal/domain"
	"github.com/neighborly/portal-backend/internal/service/directory"
	"github.com/neighborly/portal-backend/internal/service/engagement"
)

// directoryService defines the minimal interface needed by DirectoryHandler.
type directoryService interface {
	ListMedicalCenters(ctx context.Context, facilityType string) ([]directory.MedicalCenterView, error)
	GetMedicalCenter(ctx context.Context, id uuid.UUID) (*directory.MedicalCenterView, error)
	ListKitchens(ctx context.Context) ([]directory.KitchenView, error)
	ListEmergencyContacts(ctx context.Context) ([]*domain.EmergencyContact, error)
	SearchMedicines(ctx context.Context, query string) ([]*domain.Medicine, error)
}

// kitchenVolunteerService defines the kitchen-volunteering slice of the
// engagement service.
type kitchenVolunteerService interface {
	ToggleVolunteer(ctx context.Context, input engagement.VolunteerInput) (*engagement.VolunteerResult, error)
}

// DirectoryHandler serves the health-and-safety directory endpoints.
type DirectoryHandler struct {
	directory  directoryService
	engagement kitchenVolunteerService
	log        *slog.Logger
}

// NewDirectoryHandler creates a DirectoryHandler.
func NewDirectoryHandler(dir directoryService, eng kitchenVolunteerService, logger *slog.Logger) *DirectoryHandler {
	return &DirectoryHandler{directory: dir, engagement: eng, log: logger.With("handler", "directory")}
}

type medicalCenterResponse struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Type           string   `json:"type"`
	Address        string   `json:"address"`
	Contact        string   `json:"contact"`
	Timings        *string  `json:"timings,omitempty"`
	Specialization *string  `json:"specialization,omitempty"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
	OpenStatus     string   `json:"openStatus"`
}

type kitchenResponse struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Address      string   `json:"address"`
	Location     string   `json:"location"`
	ContactPhone string   `json:"contactPhone"`
	Timings      string   `json:"timings"`
	IsFree       bool     `json:"isFree"`
	MealTypes    []string `json:"mealTypes"`
	Capacity     *int     `json:"capacity,omitempty"`
	Rating       float64  `json:"rating"`
	TotalReviews int      `json:"totalReviews"`
	OpenStatus   string   `json:"openStatus"`
}

type emergencyContactResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	PhoneNumber string `json:"phoneNumber"`
	Description string `json:"description"`
}

type medicineResponse struct {
	ID           string    `json:"id"`
	PharmacyName string    `json:"pharmacyName"`
	MedicineName string    `json:"medicineName"`
	StockStatus  string    `json:"stockStatus"`
	Address      string    `json:"address"`
	Contact      string    `json:"contact"`
	LastUpdated  time.Time `json:"lastUpdated"`
}

// ListMedicalCenters handles GET /api/medical-centers.
func (h *DirectoryHandler) ListMedicalCenters(w http.ResponseWriter, r *http.Request) {
	views, err := h.directory.ListMedicalCenters(r.Context(), r.URL.Query().Get("type"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]medicalCenterResponse, len(views))
	for i, v := range views {
		out[i] = toMedicalCenterResponse(v)
	}
	writeJSON(w, http.StatusOK, out)
}

// GetMedicalCenter handles GET /api/medical-centers/{id}.
func (h *DirectoryHandler) GetMedicalCenter(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	v, err := h.directory.GetMedicalCenter(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toMedicalCenterResponse(*v))
}

// ListKitchens handles GET /api/kitchens.
func (h *DirectoryHandler) ListKitchens(w http.ResponseWriter, r *http.Request) {
	views, err := h.directory.ListKitchens(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]kitchenResponse, len(views))
	for i, v := range views {
		out[i] = kitchenResponse{
			ID:           v.ID.String(),
			Name:         v.Name,
			Address:      v.Address,
			Location:     v.Location,
			ContactPhone: v.ContactPhone,
			Timings:      v.Timings,
			IsFree:       v.IsFree,
			MealTypes:    v.MealTypes,
			Capacity:     v.Capacity,
			Rating:       v.Rating,
			TotalReviews: v.TotalReviews,
			OpenStatus:   v.OpenStatus.String(),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// VolunteerKitchen handles POST /api/kitchens/{id}/volunteer.
func (h *DirectoryHandler) VolunteerKitchen(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	var req volunteerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.engagement.ToggleVolunteer(r.Context(), engagement.VolunteerInput{
		Kind:      domain.KindKitchenVolunteer,
		SubjectID: id,
		Role:      req.Role,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, volunteerResponse{
		Membership: toMembershipResponse(result.State, result.Membership),
	})
}

// ListEmergencyContacts handles GET /api/emergency-contacts.
func (h *DirectoryHandler) ListEmergencyContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.directory.ListEmergencyContacts(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]emergencyContactResponse, len(contacts))
	for i, c := range contacts {
		out[i] = emergencyContactResponse{
			ID:          c.ID.String(),
			Name:        c.Name,
			Type:        c.Type,
			PhoneNumber: c.PhoneNumber,
			Description: c.Description,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// SearchMedicines handles GET /api/medicines?q=.
func (h *DirectoryHandler) SearchMedicines(w http.ResponseWriter, r *http.Request) {
	medicines, err := h.directory.SearchMedicines(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]medicineResponse, len(medicines))
	for i, m := range medicines {
		out[i] = medicineResponse{
			ID:           m.ID.String(),
			PharmacyName: m.PharmacyName,
			MedicineName: m.MedicineName,
			StockStatus:  m.StockStatus,
			Address:      m.Address,
			Contact:      m.Contact,
			LastUpdated:  m.LastUpdated,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func toMedicalCenterResponse(v directory.MedicalCenterView) medicalCenterResponse {
	return medicalCenterResponse{
		ID:             v.ID.String(),
		Name:           v.Name,
		Type:           v.Type,
		Address:        v.Address,
		Contact:        v.Contact,
		Timings:        v.Timings,
		Specialization: v.Specialization,
		Latitude:       v.Latitude,
		Longitude:      v.Longitude,
		OpenStatus:     v.OpenStatus.String(),
	}
}
