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
	"github.com/neighborly/portal-backend/internal/service/job"
)

// jobService defines the minimal interface needed by JobHandler.
type jobService interface {
	Create(ctx context.Context, input job.CreateInput) (*domain.Job, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Job, error)
	List(ctx context.Context, input job.ListInput) ([]*domain.Job, error)
	ListSaved(ctx context.Context) ([]*domain.Job, error)
	Apply(ctx context.Context, input job.ApplyInput) (*domain.JobApplication, error)
}

// saveService defines the saved-job slice of the engagement service.
type saveService interface {
	ToggleSave(ctx context.Context, jobID uuid.UUID) (*engagement.SaveResult, error)
	SavedJobIDs(ctx context.Context) ([]uuid.UUID, error)
}

// JobHandler serves job board REST endpoints.
type JobHandler struct {
	jobs  jobService
	saves saveService
	log   *slog.Logger
}

// NewJobHandler creates a JobHandler.
func NewJobHandler(jobs jobService, saves saveService, logger *slog.Logger) *JobHandler {
	return &JobHandler{jobs: jobs, saves: saves, log: logger.With("handler", "job")}
}

type createJobRequest struct {
	Title          string     `json:"title"`
	Company        string     `json:"company"`
	Description    string     `json:"description"`
	Location       string     `json:"location"`
	Category       string     `json:"category"`
	EmploymentType string     `json:"employmentType"`
	SalaryMin      *int       `json:"salaryMin"`
	SalaryMax      *int       `json:"salaryMax"`
	Skills         []string   `json:"skills"`
	Urgency        string     `json:"urgency"`
	ExpiresAt      *time.Time `json:"expiresAt"`
}

type jobResponse struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Company        string     `json:"company"`
	Description    string     `json:"description"`
	Location       string     `json:"location"`
	Category       string     `json:"category"`
	EmploymentType string     `json:"employmentType"`
	SalaryMin      *int       `json:"salaryMin,omitempty"`
	SalaryMax      *int       `json:"salaryMax,omitempty"`
	Skills         []string   `json:"skills"`
	Urgency        string     `json:"urgency"`
	Verified       bool       `json:"verified"`
	Status         string     `json:"status"`
	Saved          bool       `json:"saved"`
	CreatedAt      time.Time  `json:"createdAt"`
	ExpiresAt      *time.Time `json:"expiresAt,omitempty"`
}

type saveResponse struct {
	Job        jobResponse        `json:"job"`
	Membership membershipResponse `json:"membership"`
}

// List handles GET /api/jobs.
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	jobs, err := h.jobs.List(r.Context(), job.ListInput{
		Search:   q.Get("q"),
		Category: q.Get("category"),
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	saved := make(map[uuid.UUID]bool)
	ids, err := h.saves.SavedJobIDs(r.Context())
	switch {
	case err == nil:
		for _, id := range ids {
			saved[id] = true
		}
	case errors.Is(err, domain.ErrUnauthorized):
		// Anonymous readers get no saved flags; the listing itself is
		// public.
	default:
		// The listing still renders, unsaved; the lookup failure must not
		// pass silently.
		h.log.ErrorContext(r.Context(), "load saved job ids", "error", err)
	}

	out := make([]jobResponse, len(jobs))
	for i, j := range jobs {
		out[i] = toJobResponse(j)
		out[i].Saved = saved[j.ID]
	}
	writeJSON(w, http.StatusOK, out)
}

// Create handles POST /api/jobs.
func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createJobRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.jobs.Create(r.Context(), job.CreateInput{
		Title:          req.Title,
		Company:        req.Company,
		Description:    req.Description,
		Location:       req.Location,
		Category:       req.Category,
		EmploymentType: req.EmploymentType,
		SalaryMin:      req.SalaryMin,
		SalaryMax:      req.SalaryMax,
		Skills:         req.Skills,
		Urgency:        req.Urgency,
		ExpiresAt:      req.ExpiresAt,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toJobResponse(created))
}

// Get handles GET /api/jobs/{id}.
func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	j, err := h.jobs.Get(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toJobResponse(j))
}

// ListSaved handles GET /api/jobs/saved.
func (h *JobHandler) ListSaved(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.jobs.ListSaved(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]jobResponse, len(jobs))
	for i, j := range jobs {
		out[i] = toJobResponse(j)
		out[i].Saved = true
	}
	writeJSON(w, http.StatusOK, out)
}

type applyJobRequest struct {
	FullName    string  `json:"fullName"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	CoverLetter *string `json:"coverLetter"`
}

type applicationResponse struct {
	ID        string    `json:"id"`
	JobID     string    `json:"jobId"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// Apply handles POST /api/jobs/{id}/apply.
func (h *JobHandler) Apply(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	var req applyJobRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := h.jobs.Apply(r.Context(), job.ApplyInput{
		JobID:       id,
		FullName:    req.FullName,
		Email:       req.Email,
		Phone:       req.Phone,
		CoverLetter: req.CoverLetter,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, applicationResponse{
		ID:        a.ID.String(),
		JobID:     a.JobID.String(),
		Status:    a.Status,
		CreatedAt: a.CreatedAt,
	})
}

// ToggleSave handles POST /api/jobs/{id}/save.
func (h *JobHandler) ToggleSave(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	result, err := h.saves.ToggleSave(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, saveResponse{
		Job:        toJobResponse(result.Job),
		Membership: toMembershipResponse(result.State, result.Membership),
	})
}

func toJobResponse(j *domain.Job) jobResponse {
	return jobResponse{
		ID:             j.ID.String(),
		Title:          j.Title,
		Company:        j.Company,
		Description:    j.Description,
		Location:       j.Location,
		Category:       j.Category,
		EmploymentType: string(j.EmploymentType),
		SalaryMin:      j.SalaryMin,
		SalaryMax:      j.SalaryMax,
		Skills:         j.Skills,
		Urgency:        string(j.Urgency),
		Verified:       j.Verified,
		Status:         string(j.Status),
		CreatedAt:      j.CreatedAt,
		ExpiresAt:      j.ExpiresAt,
	}
}
