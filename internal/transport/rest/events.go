package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/neighborly/portal-backend/internal/domain"
	"github.com/neighborly/portal-backend/internal/service/engagement"
	"github.com/neighborly/portal-backend/internal/service/event"
)

// eventService defines the minimal interface needed by EventHandler.
type eventService interface {
	Create(ctx context.Context, input event.CreateInput) (*domain.Event, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Event, error)
	ListUpcoming(ctx context.Context) ([]*domain.Event, error)
	AddComment(ctx context.Context, eventID uuid.UUID, text string) (*domain.EventComment, error)
	ListComments(ctx context.Context, eventID uuid.UUID) ([]*domain.EventComment, error)
}

// rsvpService defines the RSVP and volunteering slice of the engagement
// service.
type rsvpService interface {
	RSVP(ctx context.Context, input engagement.RSVPInput) (*engagement.RSVPResult, error)
	ToggleVolunteer(ctx context.Context, input engagement.VolunteerInput) (*engagement.VolunteerResult, error)
}

// EventHandler serves event REST endpoints.
type EventHandler struct {
	events     eventService
	engagement rsvpService
	log        *slog.Logger
}

// NewEventHandler creates an EventHandler.
func NewEventHandler(events eventService, eng rsvpService, logger *slog.Logger) *EventHandler {
	return &EventHandler{events: events, engagement: eng, log: logger.With("handler", "event")}
}

type createEventRequest struct {
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Category       string     `json:"category"`
	Location       string     `json:"location"`
	EventDate      time.Time  `json:"eventDate"`
	EndDate        *time.Time `json:"endDate"`
	VolunteerSpots int        `json:"volunteerSpots"`
}

type rsvpRequest struct {
	Type string `json:"type"`
}

type volunteerRequest struct {
	Role *string `json:"role"`
}

type commentRequest struct {
	Text string `json:"text"`
}

type eventResponse struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Category         string     `json:"category"`
	Location         string     `json:"location"`
	EventDate        time.Time  `json:"eventDate"`
	EndDate          *time.Time `json:"endDate,omitempty"`
	Status           string     `json:"status"`
	RSVPCount        int        `json:"rsvpCount"`
	VolunteerSpots   int        `json:"volunteerSpots"`
	VolunteersJoined int        `json:"volunteersJoined"`
	SpotsLeft        int        `json:"spotsLeft"`
	CreatedAt        time.Time  `json:"createdAt"`
}

type commentResponse struct {
	ID        string    `json:"id"`
	EventID   string    `json:"eventId"`
	UserID    string    `json:"userId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

type rsvpResponse struct {
	Event      eventResponse      `json:"event"`
	Membership membershipResponse `json:"membership"`
}

type volunteerResponse struct {
	Event      *eventResponse     `json:"event,omitempty"`
	Membership membershipResponse `json:"membership"`
}

// List handles GET /api/events.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.ListUpcoming(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]eventResponse, len(events))
	for i, e := range events {
		out[i] = toEventResponse(e)
	}
	writeJSON(w, http.StatusOK, out)
}

// Create handles POST /api/events.
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.events.Create(r.Context(), event.CreateInput{
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		Location:       req.Location,
		EventDate:      req.EventDate,
		EndDate:        req.EndDate,
		VolunteerSpots: req.VolunteerSpots,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEventResponse(created))
}

// Get handles GET /api/events/{id}.
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	e, err := h.events.Get(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponse(e))
}

// RSVP handles POST /api/events/{id}/rsvp.
func (h *EventHandler) RSVP(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	var req rsvpRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.engagement.RSVP(r.Context(), engagement.RSVPInput{
		EventID: id,
		Type:    domain.RSVPType(req.Type),
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, rsvpResponse{
		Event:      toEventResponse(result.Event),
		Membership: toMembershipResponse(result.State, result.Membership),
	})
}

// Volunteer handles POST /api/events/{id}/volunteer.
func (h *EventHandler) Volunteer(w http.ResponseWriter, r *http.Request) {
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
		Kind:      domain.KindEventVolunteer,
		SubjectID: id,
		Role:      req.Role,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := volunteerResponse{Membership: toMembershipResponse(result.State, result.Membership)}
	if result.Event != nil {
		e := toEventResponse(result.Event)
		resp.Event = &e
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListComments handles GET /api/events/{id}/comments.
func (h *EventHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	comments, err := h.events.ListComments(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]commentResponse, len(comments))
	for i, c := range comments {
		out[i] = toCommentResponse(c)
	}
	writeJSON(w, http.StatusOK, out)
}

// AddComment handles POST /api/events/{id}/comments.
func (h *EventHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	comment, err := h.events.AddComment(r.Context(), id, req.Text)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCommentResponse(comment))
}

func toEventResponse(e *domain.Event) eventResponse {
	return eventResponse{
		ID:               e.ID.String(),
		Title:            e.Title,
		Description:      e.Description,
		Category:         e.Category,
		Location:         e.Location,
		EventDate:        e.EventDate,
		EndDate:          e.EndDate,
		Status:           string(e.Status),
		RSVPCount:        e.RSVPCount,
		VolunteerSpots:   e.VolunteerSpots,
		VolunteersJoined: e.VolunteersJoined,
		SpotsLeft:        e.VolunteerSpotsLeft(),
		CreatedAt:        e.CreatedAt,
	}
}

func toCommentResponse(c *domain.EventComment) commentResponse {
	return commentResponse{
		ID:        c.ID.String(),
		EventID:   c.EventID.String(),
		UserID:    c.UserID.String(),
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
	}
}
