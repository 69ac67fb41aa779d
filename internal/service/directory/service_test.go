package directory

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neighborly/portal-backend/internal/domain"
	"github.com/neighborly/portal-backend/internal/hours"
)

type facilityRepoMock struct {
	ListMedicalCentersFunc    func(ctx context.Context, facilityType string) ([]*domain.MedicalCenter, error)
	GetMedicalCenterFunc      func(ctx context.Context, id uuid.UUID) (*domain.MedicalCenter, error)
	ListKitchensFunc          func(ctx context.Context) ([]*domain.Kitchen, error)
	GetKitchenFunc            func(ctx context.Context, id uuid.UUID) (*domain.Kitchen, error)
	ListEmergencyContactsFunc func(ctx context.Context) ([]*domain.EmergencyContact, error)
	SearchMedicinesFunc       func(ctx context.Context, query string, limit int) ([]*domain.Medicine, error)
}

func (m *facilityRepoMock) ListMedicalCenters(ctx context.Context, facilityType string) ([]*domain.MedicalCenter, error) {
	return m.ListMedicalCentersFunc(ctx, facilityType)
}

func (m *facilityRepoMock) GetMedicalCenter(ctx context.Context, id uuid.UUID) (*domain.MedicalCenter, error) {
	return m.GetMedicalCenterFunc(ctx, id)
}

func (m *facilityRepoMock) ListKitchens(ctx context.Context) ([]*domain.Kitchen, error) {
	return m.ListKitchensFunc(ctx)
}

func (m *facilityRepoMock) GetKitchen(ctx context.Context, id uuid.UUID) (*domain.Kitchen, error) {
	return m.GetKitchenFunc(ctx, id)
}

func (m *facilityRepoMock) ListEmergencyContacts(ctx context.Context) ([]*domain.EmergencyContact, error) {
	return m.ListEmergencyContactsFunc(ctx)
}

func (m *facilityRepoMock) SearchMedicines(ctx context.Context, query string, limit int) ([]*domain.Medicine, error) {
	return m.SearchMedicinesFunc(ctx, query, limit)
}

func newTestService(repo facilityRepo, now time.Time) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(logger, repo, 50)
	svc.now = func() time.Time { return now }
	return svc
}

func ptr[T any](v T) *T { return &v }

func TestService_ListMedicalCenters_ResolvesOpenStatus(t *testing.T) {
	t.Parallel()

	// Tuesday 10:00.
	now := time.Date(2025, 3, 11, 10, 0, 0, 0, time.UTC)

	repo := &facilityRepoMock{
		ListMedicalCentersFunc: func(ctx context.Context, facilityType string) ([]*domain.MedicalCenter, error) {
			return []*domain.MedicalCenter{
				{ID: uuid.New(), Name: "City Clinic", Timings: ptr("9 AM - 9 PM")},
				{ID: uuid.New(), Name: "Night Pharmacy", Timings: ptr("Open 24 Hours")},
				{ID: uuid.New(), Name: "Evening Clinic", Timings: ptr("6 PM - 10 PM")},
				{ID: uuid.New(), Name: "No Hours Listed", Timings: nil},
				{ID: uuid.New(), Name: "By Appointment", Timings: ptr("call for appointment")},
			}, nil
		},
	}

	svc := newTestService(repo, now)
	views, err := svc.ListMedicalCenters(context.Background(), "")

	require.NoError(t, err)
	require.Len(t, views, 5)
	assert.Equal(t, hours.StatusOpen, views[0].OpenStatus)
	assert.Equal(t, hours.StatusOpen, views[1].OpenStatus)
	assert.Equal(t, hours.StatusClosed, views[2].OpenStatus)
	assert.Equal(t, hours.StatusUnknown, views[3].OpenStatus)
	assert.Equal(t, hours.StatusUnknown, views[4].OpenStatus)
}

func TestService_ListKitchens_SundayClosure(t *testing.T) {
	t.Parallel()

	// Sunday noon: a Mon-Sat schedule must resolve closed regardless of the
	// hour range.
	sunday := time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC)
	require.Equal(t, time.Sunday, sunday.Weekday())

	repo := &facilityRepoMock{
		ListKitchensFunc: func(ctx context.Context) ([]*domain.Kitchen, error) {
			return []*domain.Kitchen{
				{ID: uuid.New(), Name: "Seva Kitchen", Timings: "Mon-Sat: 9 AM - 8 PM"},
				{ID: uuid.New(), Name: "Daily Kitchen", Timings: "9 AM - 8 PM"},
			}, nil
		},
	}

	svc := newTestService(repo, sunday)
	views, err := svc.ListKitchens(context.Background())

	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, hours.StatusClosed, views[0].OpenStatus)
	assert.Equal(t, hours.StatusOpen, views[1].OpenStatus)
}

func TestService_SearchMedicines_EmptyQuery(t *testing.T) {
	t.Parallel()

	svc := newTestService(&facilityRepoMock{}, time.Now())
	_, err := svc.SearchMedicines(context.Background(), "   ")

	require.ErrorIs(t, err, domain.ErrValidation)
}
