package rest

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neighborly/portal-backend/internal/domain"
	"github.com/neighborly/portal-backend/internal/service/engagement"
	"github.com/neighborly/portal-backend/internal/service/poll"
)

type pollServiceMock struct {
	CreateFunc     func(ctx context.Context, input poll.CreateInput) (*domain.Poll, error)
	ListActiveFunc func(ctx context.Context) ([]*domain.Poll, error)
	ResultsFunc    func(ctx context.Context, pollID uuid.UUID) (*domain.Poll, error)
}

func (m *pollServiceMock) Create(ctx context.Context, input poll.CreateInput) (*domain.Poll, error) {
	return m.CreateFunc(ctx, input)
}

func (m *pollServiceMock) ListActive(ctx context.Context) ([]*domain.Poll, error) {
	return m.ListActiveFunc(ctx)
}

func (m *pollServiceMock) Results(ctx context.Context, pollID uuid.UUID) (*domain.Poll, error) {
	return m.ResultsFunc(ctx, pollID)
}

type voteServiceMock struct {
	VoteFunc func(ctx context.Context, input engagement.VoteInput) (*engagement.VoteResult, error)
}

func (m *voteServiceMock) Vote(ctx context.Context, input engagement.VoteInput) (*engagement.VoteResult, error) {
	return m.VoteFunc(ctx, input)
}

func newPollHandler(polls pollService, votes voteService) *PollHandler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewPollHandler(polls, votes, logger)
}

func samplePoll(id uuid.UUID) *domain.Poll {
	return &domain.Poll{
		ID:       id,
		Title:    "New park benches",
		Category: "infrastructure",
		Options: []domain.PollOption{
			{Index: 0, Text: "Yes", Votes: 3},
			{Index: 1, Text: "No", Votes: 1},
		},
		Status:     domain.StatusActive,
		TotalVotes: 4,
		CreatedBy:  uuid.New(),
		CreatedAt:  time.Now(),
	}
}

func TestPollHandler_List(t *testing.T) {
	t.Parallel()

	pollID := uuid.New()
	h := newPollHandler(&pollServiceMock{
		ListActiveFunc: func(ctx context.Context) ([]*domain.Poll, error) {
			return []*domain.Poll{samplePoll(pollID)}, nil
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/polls", nil)
	rec := httptest.NewRecorder()

	h.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var out []pollResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	require.Len(t, out, 1)
	assert.Equal(t, pollID.String(), out[0].ID)
	assert.Equal(t, 4, out[0].TotalVotes)
	require.Len(t, out[0].Options, 2)
	assert.Equal(t, 3, out[0].Options[0].Votes)
}

func TestPollHandler_Vote(t *testing.T) {
	t.Parallel()

	pollID := uuid.New()
	userID := uuid.New()
	idx := 1

	h := newPollHandler(nil, &voteServiceMock{
		VoteFunc: func(ctx context.Context, input engagement.VoteInput) (*engagement.VoteResult, error) {
			require.Equal(t, pollID, input.PollID)
			require.Equal(t, 1, input.OptionIndex)
			m := &domain.Membership{
				Kind:        domain.KindPollVote,
				SubjectID:   pollID,
				UserID:      userID,
				OptionIndex: &idx,
			}
			return &engagement.VoteResult{
				Poll:       samplePoll(pollID),
				Membership: m,
				State:      m.State(),
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/polls/"+pollID.String()+"/vote",
		strings.NewReader(`{"optionIndex": 1}`))
	req.SetPathValue("id", pollID.String())
	rec := httptest.NewRecorder()

	h.Vote(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var out voteResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	assert.Equal(t, string(domain.StateVoted), out.Membership.State)
	require.NotNil(t, out.Membership.OptionIndex)
	assert.Equal(t, 1, *out.Membership.OptionIndex)
	assert.Equal(t, 4, out.Poll.TotalVotes)
}

func TestPollHandler_Vote_ErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "already voted", err: domain.ErrAlreadyVoted, wantStatus: http.StatusConflict},
		{name: "unauthenticated", err: domain.ErrUnauthorized, wantStatus: http.StatusUnauthorized},
		{name: "poll missing", err: domain.ErrNotFound, wantStatus: http.StatusNotFound},
		{name: "bad option", err: domain.NewValidationError("optionIndex", "unknown option"), wantStatus: http.StatusBadRequest},
		{name: "poll closed", err: domain.ErrConflict, wantStatus: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newPollHandler(nil, &voteServiceMock{
				VoteFunc: func(ctx context.Context, input engagement.VoteInput) (*engagement.VoteResult, error) {
					return nil, tt.err
				},
			})

			pollID := uuid.New()
			req := httptest.NewRequest(http.MethodPost, "/api/polls/"+pollID.String()+"/vote",
				strings.NewReader(`{"optionIndex": 0}`))
			req.SetPathValue("id", pollID.String())
			rec := httptest.NewRecorder()

			h.Vote(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestPollHandler_Vote_BadPathID(t *testing.T) {
	t.Parallel()

	h := newPollHandler(nil, &voteServiceMock{
		VoteFunc: func(ctx context.Context, input engagement.VoteInput) (*engagement.VoteResult, error) {
			t.Fatal("service must not be called for a malformed id")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/polls/not-a-uuid/vote",
		strings.NewReader(`{"optionIndex": 0}`))
	req.SetPathValue("id", "not-a-uuid")
	rec := httptest.NewRecorder()

	h.Vote(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPollHandler_Vote_UnknownBodyField(t *testing.T) {
	t.Parallel()

	h := newPollHandler(nil, &voteServiceMock{
		VoteFunc: func(ctx context.Context, input engagement.VoteInput) (*engagement.VoteResult, error) {
			t.Fatal("service must not be called for an invalid body")
			return nil, nil
		},
	})

	pollID := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/api/polls/"+pollID.String()+"/vote",
		strings.NewReader(`{"optionIndex": 0, "extra": true}`))
	req.SetPathValue("id", pollID.String())
	rec := httptest.NewRecorder()

	h.Vote(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
