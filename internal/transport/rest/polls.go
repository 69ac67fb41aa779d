package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/neighborly/portal-backend/internal/domain"
	"github.com/neighborly/portal-backend/internal/service/engagement"
	"github.com/neighborly/portal-backend/internal/service/poll"
)

// pollService defines the minimal interface needed by PollHandler.
type pollService interface {
	Create(ctx context.Context, input poll.CreateInput) (*domain.Poll, error)
	ListActive(ctx context.Context) ([]*domain.Poll, error)
	Results(ctx context.Context, pollID uuid.UUID) (*domain.Poll, error)
}

// voteService defines the voting slice of the engagement service.
type voteService interface {
	Vote(ctx context.Context, input engagement.VoteInput) (*engagement.VoteResult, error)
}

// PollHandler serves poll REST endpoints.
type PollHandler struct {
	polls pollService
	votes voteService
	log   *slog.Logger
}

// NewPollHandler creates a PollHandler.
func NewPollHandler(polls pollService, votes voteService, logger *slog.Logger) *PollHandler {
	return &PollHandler{polls: polls, votes: votes, log: logger.With("handler", "poll")}
}

type createPollRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Category    string     `json:"category"`
	Options     []string   `json:"options"`
	ExpiresAt   *time.Time `json:"expiresAt"`
}

type voteRequest struct {
	OptionIndex int `json:"optionIndex"`
}

type pollOptionResponse struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
	Votes int    `json:"votes"`
}

type pollResponse struct {
	ID          string               `json:"id"`
	Title       string               `json:"title"`
	Description *string              `json:"description,omitempty"`
	Category    string               `json:"category"`
	Options     []pollOptionResponse `json:"options"`
	Status      string               `json:"status"`
	TotalVotes  int                  `json:"totalVotes"`
	CreatedAt   time.Time            `json:"createdAt"`
	ExpiresAt   *time.Time           `json:"expiresAt,omitempty"`
}

type membershipResponse struct {
	State       string  `json:"state"`
	OptionIndex *int    `json:"optionIndex,omitempty"`
	Value       *string `json:"value,omitempty"`
}

type voteResponse struct {
	Poll       pollResponse       `json:"poll"`
	Membership membershipResponse `json:"membership"`
}

// List handles GET /api/polls.
func (h *PollHandler) List(w http.ResponseWriter, r *http.Request) {
	polls, err := h.polls.ListActive(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	out := make([]pollResponse, len(polls))
	for i, p := range polls {
		out[i] = toPollResponse(p)
	}
	writeJSON(w, http.StatusOK, out)
}

// Create handles POST /api/polls.
func (h *PollHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPollRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.polls.Create(r.Context(), poll.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Options:     req.Options,
		ExpiresAt:   req.ExpiresAt,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toPollResponse(created))
}

// Results handles GET /api/polls/{id}.
func (h *PollHandler) Results(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	p, err := h.polls.Results(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPollResponse(p))
}

// Vote handles POST /api/polls/{id}/vote.
func (h *PollHandler) Vote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	var req voteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.votes.Vote(r.Context(), engagement.VoteInput{
		PollID:      id,
		OptionIndex: req.OptionIndex,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, voteResponse{
		Poll:       toPollResponse(result.Poll),
		Membership: toMembershipResponse(result.State, result.Membership),
	})
}

func toPollResponse(p *domain.Poll) pollResponse {
	options := make([]pollOptionResponse, len(p.Options))
	for i, o := range p.Options {
		options[i] = pollOptionResponse{Index: o.Index, Text: o.Text, Votes: o.Votes}
	}
	return pollResponse{
		ID:          p.ID.String(),
		Title:       p.Title,
		Description: p.Description,
		Category:    p.Category,
		Options:     options,
		Status:      string(p.Status),
		TotalVotes:  p.TotalVotes,
		CreatedAt:   p.CreatedAt,
		ExpiresAt:   p.ExpiresAt,
	}
}

func toMembershipResponse(state domain.MembershipState, m *domain.Membership) membershipResponse {
	resp := membershipResponse{State: string(state)}
	if m != nil {
		resp.OptionIndex = m.OptionIndex
		resp.Value = m.Value
	}
	return resp
}
