package poll

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neighborly/portal-backend/internal/domain"
	"github.com/neighborly/portal-backend/pkg/ctxutil"
)

type pollRepoMock struct {
	CreateFunc             func(ctx context.Context, p *domain.Poll) (*domain.Poll, error)
	GetByIDFunc            func(ctx context.Context, id uuid.UUID) (*domain.Poll, error)
	ListActiveFunc         func(ctx context.Context, limit int) ([]*domain.Poll, error)
	CountVotesByOptionFunc func(ctx context.Context, pollID uuid.UUID) (map[int]int, error)
}

func (m *pollRepoMock) Create(ctx context.Context, p *domain.Poll) (*domain.Poll, error) {
	return m.CreateFunc(ctx, p)
}

func (m *pollRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *pollRepoMock) ListActive(ctx context.Context, limit int) ([]*domain.Poll, error) {
	return m.ListActiveFunc(ctx, limit)
}

func (m *pollRepoMock) CountVotesByOption(ctx context.Context, pollID uuid.UUID) (map[int]int, error) {
	return m.CountVotesByOptionFunc(ctx, pollID)
}

func newTestService(repo pollRepo) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(logger, repo, 10, 50)
}

func TestService_Create_NormalizesOptions(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	ctx := ctxutil.WithUserID(context.Background(), userID)

	repo := &pollRepoMock{
		CreateFunc: func(ctx context.Context, p *domain.Poll) (*domain.Poll, error) {
			created := *p
			created.ID = uuid.New()
			created.Status = domain.StatusActive
			return &created, nil
		},
	}

	svc := newTestService(repo)
	created, err := svc.Create(ctx, CreateInput{
		Title:    "  New street lights?  ",
		Category: "infrastructure",
		Options:  []string{" Yes ", "No", "Yes", "  "},
	})

	require.NoError(t, err)
	assert.Equal(t, "New street lights?", created.Title)
	require.Len(t, created.Options, 2)
	assert.Equal(t, domain.PollOption{Index: 0, Text: "Yes"}, created.Options[0])
	assert.Equal(t, domain.PollOption{Index: 1, Text: "No"}, created.Options[1])
	assert.Equal(t, userID, created.CreatedBy)
}

func TestService_Create_Validation(t *testing.T) {
	t.Parallel()

	ctx := ctxutil.WithUserID(context.Background(), uuid.New())
	svc := newTestService(&pollRepoMock{})

	tests := []struct {
		name  string
		input CreateInput
	}{
		{"empty title", CreateInput{Options: []string{"A", "B"}}},
		{"one option", CreateInput{Title: "T", Options: []string{"A"}}},
		{"duplicates collapse below two", CreateInput{Title: "T", Options: []string{"A", " A "}}},
		{"too many options", CreateInput{Title: "T", Options: []string{
			"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11",
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.input)
			require.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestService_Create_Unauthenticated(t *testing.T) {
	t.Parallel()

	svc := newTestService(&pollRepoMock{})
	_, err := svc.Create(context.Background(), CreateInput{Title: "T", Options: []string{"A", "B"}})

	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestService_Results_FoldsCounts(t *testing.T) {
	t.Parallel()

	pollID := uuid.New()
	repo := &pollRepoMock{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
			return &domain.Poll{
				ID:         pollID,
				Status:     domain.StatusActive,
				TotalVotes: 7,
				Options: []domain.PollOption{
					{Index: 0, Text: "Yes"},
					{Index: 1, Text: "No"},
					{Index: 2, Text: "Undecided"},
				},
			}, nil
		},
		CountVotesByOptionFunc: func(ctx context.Context, id uuid.UUID) (map[int]int, error) {
			return map[int]int{0: 5, 1: 2}, nil
		},
	}

	svc := newTestService(repo)
	p, err := svc.Results(context.Background(), pollID)

	require.NoError(t, err)
	assert.Equal(t, 5, p.Options[0].Votes)
	assert.Equal(t, 2, p.Options[1].Votes)
	assert.Equal(t, 0, p.Options[2].Votes)
	assert.Equal(t, 7, p.TotalVotes)
}
