package job

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jobrepo "github.com/neighborly/portal-backend/internal/adapter/postgres/job"
	"github.com/neighborly/portal-backend/internal/domain"
	"github.com/neighborly/portal-backend/pkg/ctxutil"
)

type jobRepoMock struct {
	CreateFunc            func(ctx context.Context, j *domain.Job) (*domain.Job, error)
	GetByIDFunc           func(ctx context.Context, id uuid.UUID) (*domain.Job, error)
	ListFunc              func(ctx context.Context, f jobrepo.Filter) ([]*domain.Job, error)
	ListSavedByUserFunc   func(ctx context.Context, userID uuid.UUID) ([]*domain.Job, error)
	CreateApplicationFunc func(ctx context.Context, a *domain.JobApplication) (*domain.JobApplication, error)

	applicationCalls []*domain.JobApplication
	getCalls         int
}

func (m *jobRepoMock) Create(ctx context.Context, j *domain.Job) (*domain.Job, error) {
	return m.CreateFunc(ctx, j)
}

func (m *jobRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	m.getCalls++
	return m.GetByIDFunc(ctx, id)
}

func (m *jobRepoMock) List(ctx context.Context, f jobrepo.Filter) ([]*domain.Job, error) {
	return m.ListFunc(ctx, f)
}

func (m *jobRepoMock) ListSavedByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Job, error) {
	return m.ListSavedByUserFunc(ctx, userID)
}

func (m *jobRepoMock) CreateApplication(ctx context.Context, a *domain.JobApplication) (*domain.JobApplication, error) {
	m.applicationCalls = append(m.applicationCalls, a)
	return m.CreateApplicationFunc(ctx, a)
}

func newTestService(repo *jobRepoMock) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(logger, repo, 50, 200)
}

func activeJob(id uuid.UUID) *domain.Job {
	return &domain.Job{
		ID:             id,
		Title:          "Electrician",
		Company:        "Sharma Repairs",
		EmploymentType: domain.EmploymentFullTime,
		Urgency:        domain.UrgencyMedium,
		Status:         domain.StatusActive,
	}
}

func applyInput(jobID uuid.UUID) ApplyInput {
	return ApplyInput{
		JobID:    jobID,
		FullName: "Ravi Kumar",
		Email:    "ravi@example.com",
		Phone:    "+91 98111 11111",
	}
}

func TestService_Apply(t *testing.T) {
	t.Parallel()

	jobID := uuid.New()
	userID := uuid.New()
	ctx := ctxutil.WithUserID(context.Background(), userID)

	t.Run("records the application", func(t *testing.T) {
		t.Parallel()

		repo := &jobRepoMock{
			GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
				return activeJob(jobID), nil
			},
			CreateApplicationFunc: func(ctx context.Context, a *domain.JobApplication) (*domain.JobApplication, error) {
				stored := *a
				stored.ID = uuid.New()
				stored.Status = "submitted"
				return &stored, nil
			},
		}
		svc := newTestService(repo)

		created, err := svc.Apply(ctx, applyInput(jobID))
		require.NoError(t, err)
		assert.Equal(t, "submitted", created.Status)
		assert.Equal(t, jobID, created.JobID)

		require.Len(t, repo.applicationCalls, 1)
		assert.Equal(t, userID, repo.applicationCalls[0].UserID)
		assert.Equal(t, "Ravi Kumar", repo.applicationCalls[0].FullName)
	})

	t.Run("second application conflicts", func(t *testing.T) {
		t.Parallel()

		repo := &jobRepoMock{
			GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
				return activeJob(jobID), nil
			},
			CreateApplicationFunc: func(ctx context.Context, a *domain.JobApplication) (*domain.JobApplication, error) {
				return nil, domain.ErrAlreadyExists
			},
		}
		svc := newTestService(repo)

		_, err := svc.Apply(ctx, applyInput(jobID))
		require.ErrorIs(t, err, domain.ErrAlreadyExists)
	})

	t.Run("closed job conflicts before any write", func(t *testing.T) {
		t.Parallel()

		repo := &jobRepoMock{
			GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
				j := activeJob(jobID)
				j.Status = domain.StatusClosed
				return j, nil
			},
		}
		svc := newTestService(repo)

		_, err := svc.Apply(ctx, applyInput(jobID))
		require.ErrorIs(t, err, domain.ErrConflict)
		assert.Empty(t, repo.applicationCalls)
	})

	t.Run("unauthenticated touches no store", func(t *testing.T) {
		t.Parallel()

		repo := &jobRepoMock{}
		svc := newTestService(repo)

		_, err := svc.Apply(context.Background(), applyInput(jobID))
		require.ErrorIs(t, err, domain.ErrUnauthorized)
		assert.Zero(t, repo.getCalls)
		assert.Empty(t, repo.applicationCalls)
	})

	t.Run("contact details validated", func(t *testing.T) {
		t.Parallel()

		repo := &jobRepoMock{}
		svc := newTestService(repo)

		in := applyInput(jobID)
		in.FullName = ""
		_, err := svc.Apply(ctx, in)
		require.ErrorIs(t, err, domain.ErrValidation)

		in = applyInput(jobID)
		in.Email = "no-at-sign"
		_, err = svc.Apply(ctx, in)
		require.ErrorIs(t, err, domain.ErrValidation)

		assert.Zero(t, repo.getCalls)
	})
}
