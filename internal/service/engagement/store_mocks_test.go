package engagement

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/neighborly/portal-backend/internal/domain"
)

var _ membershipStore = &membershipStoreMock{}

type membershipCall struct {
	Kind      domain.MembershipKind
	SubjectID uuid.UUID
	UserID    uuid.UUID
}

type membershipStoreMock struct {
	GetFunc          func(ctx context.Context, kind domain.MembershipKind, subjectID, userID uuid.UUID) (*domain.Membership, error)
	InsertFunc       func(ctx context.Context, m *domain.Membership) error
	UpdateValueFunc  func(ctx context.Context, kind domain.MembershipKind, subjectID, userID uuid.UUID, value string) error
	DeleteFunc       func(ctx context.Context, kind domain.MembershipKind, subjectID, userID uuid.UUID) error
	ListSubjectsFunc func(ctx context.Context, kind domain.MembershipKind, userID uuid.UUID) ([]uuid.UUID, error)

	mu    sync.Mutex
	calls struct {
		Get          []membershipCall
		Insert       []*domain.Membership
		UpdateValue  []string
		Delete       []membershipCall
		ListSubjects []domain.MembershipKind
	}
}

func (m *membershipStoreMock) Get(ctx context.Context, kind domain.MembershipKind, subjectID, userID uuid.UUID) (*domain.Membership, error) {
	m.mu.Lock()
	m.calls.Get = append(m.calls.Get, membershipCall{kind, subjectID, userID})
	m.mu.Unlock()
	if m.GetFunc == nil {
		panic("membershipStoreMock.GetFunc: method is nil but Get was just called")
	}
	return m.GetFunc(ctx, kind, subjectID, userID)
}

func (m *membershipStoreMock) Insert(ctx context.Context, rec *domain.Membership) error {
	m.mu.Lock()
	m.calls.Insert = append(m.calls.Insert, rec)
	m.mu.Unlock()
	if m.InsertFunc == nil {
		panic("membershipStoreMock.InsertFunc: method is nil but Insert was just called")
	}
	return m.InsertFunc(ctx, rec)
}

func (m *membershipStoreMock) UpdateValue(ctx context.Context, kind domain.MembershipKind, subjectID, userID uuid.UUID, value string) error {
	m.mu.Lock()
	m.calls.UpdateValue = append(m.calls.UpdateValue, value)
	m.mu.Unlock()
	if m.UpdateValueFunc == nil {
		panic("membershipStoreMock.UpdateValueFunc: method is nil but UpdateValue was just called")
	}
	return m.UpdateValueFunc(ctx, kind, subjectID, userID, value)
}

func (m *membershipStoreMock) Delete(ctx context.Context, kind domain.MembershipKind, subjectID, userID uuid.UUID) error {
	m.mu.Lock()
	m.calls.Delete = append(m.calls.Delete, membershipCall{kind, subjectID, userID})
	m.mu.Unlock()
	if m.DeleteFunc == nil {
		panic("membershipStoreMock.DeleteFunc: method is nil but Delete was just called")
	}
	return m.DeleteFunc(ctx, kind, subjectID, userID)
}

func (m *membershipStoreMock) ListSubjects(ctx context.Context, kind domain.MembershipKind, userID uuid.UUID) ([]uuid.UUID, error) {
	m.mu.Lock()
	m.calls.ListSubjects = append(m.calls.ListSubjects, kind)
	m.mu.Unlock()
	if m.ListSubjectsFunc == nil {
		panic("membershipStoreMock.ListSubjectsFunc: method is nil but ListSubjects was just called")
	}
	return m.ListSubjectsFunc(ctx, kind, userID)
}

func (m *membershipStoreMock) GetCalls() []membershipCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.Get
}

func (m *membershipStoreMock) InsertCalls() []*domain.Membership {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.Insert
}

func (m *membershipStoreMock) UpdateValueCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.UpdateValue
}

func (m *membershipStoreMock) DeleteCalls() []membershipCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.Delete
}

func (m *membershipStoreMock) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls.Insert) + len(m.calls.UpdateValue) + len(m.calls.Delete)
}

var _ pollStore = &pollStoreMock{}

type pollStoreMock struct {
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.Poll, error)

	mu    sync.Mutex
	calls []uuid.UUID
}

func (m *pollStoreMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	m.mu.Lock()
	m.calls = append(m.calls, id)
	m.mu.Unlock()
	if m.GetByIDFunc == nil {
		panic("pollStoreMock.GetByIDFunc: method is nil but GetByID was just called")
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *pollStoreMock) GetByIDCalls() []uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

var _ eventStore = &eventStoreMock{}

type eventStoreMock struct {
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.Event, error)

	mu    sync.Mutex
	calls []uuid.UUID
}

func (m *eventStoreMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	m.mu.Lock()
	m.calls = append(m.calls, id)
	m.mu.Unlock()
	if m.GetByIDFunc == nil {
		panic("eventStoreMock.GetByIDFunc: method is nil but GetByID was just called")
	}
	return m.GetByIDFunc(ctx, id)
}

var _ problemStore = &problemStoreMock{}

type problemStoreMock struct {
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.ProblemReport, error)

	mu    sync.Mutex
	calls []uuid.UUID
}

func (m *problemStoreMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProblemReport, error) {
	m.mu.Lock()
	m.calls = append(m.calls, id)
	m.mu.Unlock()
	if m.GetByIDFunc == nil {
		panic("problemStoreMock.GetByIDFunc: method is nil but GetByID was just called")
	}
	return m.GetByIDFunc(ctx, id)
}

var _ jobStore = &jobStoreMock{}

type jobStoreMock struct {
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.Job, error)

	mu    sync.Mutex
	calls []uuid.UUID
}

func (m *jobStoreMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	m.mu.Lock()
	m.calls = append(m.calls, id)
	m.mu.Unlock()
	if m.GetByIDFunc == nil {
		panic("jobStoreMock.GetByIDFunc: method is nil but GetByID was just called")
	}
	return m.GetByIDFunc(ctx, id)
}

var _ pointsRecorder = &pointsRecorderMock{}

type pointsRecorderMock struct {
	AwardPointsFunc func(ctx context.Context, e *domain.PointsEntry) error

	mu    sync.Mutex
	calls []*domain.PointsEntry
}

func (m *pointsRecorderMock) AwardPoints(ctx context.Context, e *domain.PointsEntry) error {
	m.mu.Lock()
	m.calls = append(m.calls, e)
	m.mu.Unlock()
	if m.AwardPointsFunc == nil {
		return nil
	}
	return m.AwardPointsFunc(ctx, e)
}

func (m *pointsRecorderMock) AwardPointsCalls() []*domain.PointsEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
