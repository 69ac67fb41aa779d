package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neighborly/portal-backend/internal/domain"
	"github.com/neighborly/portal-backend/internal/service/engagement"
	"github.com/neighborly/portal-backend/internal/service/problem"
)

type problemServiceMock struct {
	ReportFunc       func(ctx context.Context, input problem.ReportInput) (*domain.ProblemReport, error)
	GetFunc          func(ctx context.Context, id uuid.UUID) (*domain.ProblemReport, error)
	ListFunc         func(ctx context.Context, status string) ([]*domain.ProblemReport, error)
	MarkResolvedFunc func(ctx context.Context, id uuid.UUID) error
}

func (m *problemServiceMock) Report(ctx context.Context, input problem.ReportInput) (*domain.ProblemReport, error) {
	return m.ReportFunc(ctx, input)
}

func (m *problemServiceMock) Get(ctx context.Context, id uuid.UUID) (*domain.ProblemReport, error) {
	return m.GetFunc(ctx, id)
}

func (m *problemServiceMock) List(ctx context.Context, status string) ([]*domain.ProblemReport, error) {
	return m.ListFunc(ctx, status)
}

func (m *problemServiceMock) MarkResolved(ctx context.Context, id uuid.UUID) error {
	return m.MarkResolvedFunc(ctx, id)
}

type upvoteServiceMock struct {
	ToggleUpvoteFunc      func(ctx context.Context, problemID uuid.UUID) (*engagement.UpvoteResult, error)
	UpvotedProblemIDsFunc func(ctx context.Context) ([]uuid.UUID, error)
}

func (m *upvoteServiceMock) ToggleUpvote(ctx context.Context, problemID uuid.UUID) (*engagement.UpvoteResult, error) {
	return m.ToggleUpvoteFunc(ctx, problemID)
}

func (m *upvoteServiceMock) UpvotedProblemIDs(ctx context.Context) ([]uuid.UUID, error) {
	return m.UpvotedProblemIDsFunc(ctx)
}

func sampleProblem(id uuid.UUID) *domain.ProblemReport {
	return &domain.ProblemReport{
		ID:        id,
		Title:     "Streetlight out on Elm Lane",
		Category:  "infrastructure",
		Location:  "Elm Lane",
		Status:    domain.StatusActive,
		Upvotes:   3,
		CreatedAt: time.Now(),
	}
}

func TestProblemHandler_List_UpvotedFlags(t *testing.T) {
	t.Parallel()

	upvotedID := uuid.New()
	otherID := uuid.New()

	var buf bytes.Buffer
	h := NewProblemHandler(&problemServiceMock{
		ListFunc: func(ctx context.Context, status string) ([]*domain.ProblemReport, error) {
			return []*domain.ProblemReport{sampleProblem(upvotedID), sampleProblem(otherID)}, nil
		},
	}, &upvoteServiceMock{
		UpvotedProblemIDsFunc: func(ctx context.Context) ([]uuid.UUID, error) {
			return []uuid.UUID{upvotedID}, nil
		},
	}, slog.New(slog.NewTextHandler(&buf, nil)))

	req := httptest.NewRequest(http.MethodGet, "/api/problems", nil)
	rec := httptest.NewRecorder()

	h.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var out []problemResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	require.Len(t, out, 2)
	assert.True(t, out[0].Upvoted)
	assert.False(t, out[1].Upvoted)
	assert.Empty(t, buf.String())
}

func TestProblemHandler_List_UpvoteLookupFailureIsLogged(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := NewProblemHandler(&problemServiceMock{
		ListFunc: func(ctx context.Context, status string) ([]*domain.ProblemReport, error) {
			return []*domain.ProblemReport{sampleProblem(uuid.New())}, nil
		},
	}, &upvoteServiceMock{
		UpvotedProblemIDsFunc: func(ctx context.Context) ([]uuid.UUID, error) {
			return nil, errors.New("connection reset")
		},
	}, slog.New(slog.NewTextHandler(&buf, nil)))

	req := httptest.NewRequest(http.MethodGet, "/api/problems", nil)
	rec := httptest.NewRecorder()

	h.List(rec, req)

	// The listing still renders without flags.
	require.Equal(t, http.StatusOK, rec.Code)

	var out []problemResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	require.Len(t, out, 1)
	assert.False(t, out[0].Upvoted)

	assert.Contains(t, buf.String(), "load upvoted problem ids")
}

func TestProblemHandler_List_AnonymousGetsNoFlags(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := NewProblemHandler(&problemServiceMock{
		ListFunc: func(ctx context.Context, status string) ([]*domain.ProblemReport, error) {
			return []*domain.ProblemReport{sampleProblem(uuid.New())}, nil
		},
	}, &upvoteServiceMock{
		UpvotedProblemIDsFunc: func(ctx context.Context) ([]uuid.UUID, error) {
			return nil, domain.ErrUnauthorized
		},
	}, slog.New(slog.NewTextHandler(&buf, nil)))

	req := httptest.NewRequest(http.MethodGet, "/api/problems", nil)
	rec := httptest.NewRecorder()

	h.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, buf.String())
}
