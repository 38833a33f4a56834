package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-tutor/internal/domain"
	"github.com/phrazzld/scry-tutor/internal/store"
)

// MockLessonStore implements store.LessonStore for testing. Without function
// overrides it behaves as an in-memory store.
type MockLessonStore struct {
	ListRecentLessonsFn func(ctx context.Context, learnerID uuid.UUID, limit int) ([]*domain.LessonRecord, error)
	CreateFn            func(ctx context.Context, record *domain.LessonRecord) error
	GetByIDFn           func(ctx context.Context, learnerID, lessonID uuid.UUID) (*domain.LessonRecord, error)
	MarkSharedFn        func(ctx context.Context, learnerID, lessonID uuid.UUID, at time.Time) error

	mu      sync.Mutex
	records map[uuid.UUID]*domain.LessonRecord

	// ListCalls counts ListRecentLessons calls
	ListCalls int
}

var _ store.LessonStore = (*MockLessonStore)(nil)

// NewMockLessonStore creates an in-memory store seeded with records.
func NewMockLessonStore(records ...*domain.LessonRecord) *MockLessonStore {
	m := &MockLessonStore{records: make(map[uuid.UUID]*domain.LessonRecord)}
	for _, r := range records {
		m.records[r.ID] = r
	}
	return m
}

func (m *MockLessonStore) ensure() {
	if m.records == nil {
		m.records = make(map[uuid.UUID]*domain.LessonRecord)
	}
}

// ListRecentLessons implements store.LessonReader
func (m *MockLessonStore) ListRecentLessons(ctx context.Context, learnerID uuid.UUID, limit int) ([]*domain.LessonRecord, error) {
	m.mu.Lock()
	m.ListCalls++
	m.mu.Unlock()

	if m.ListRecentLessonsFn != nil {
		return m.ListRecentLessonsFn(ctx, learnerID, limit)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.LessonRecord
	for _, r := range m.records {
		if r.LearnerID == learnerID {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Create implements store.LessonStore
func (m *MockLessonStore) Create(ctx context.Context, record *domain.LessonRecord) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, record)
	}
	if err := record.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensure()
	if _, exists := m.records[record.ID]; exists {
		return store.ErrLessonExists
	}
	cp := *record
	m.records[record.ID] = &cp
	return nil
}

// GetByID implements store.LessonStore
func (m *MockLessonStore) GetByID(ctx context.Context, learnerID, lessonID uuid.UUID) (*domain.LessonRecord, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, learnerID, lessonID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[lessonID]
	if !ok || r.LearnerID != learnerID {
		return nil, store.ErrLessonNotFound
	}
	cp := *r
	return &cp, nil
}

// MarkShared implements store.LessonStore
func (m *MockLessonStore) MarkShared(ctx context.Context, learnerID, lessonID uuid.UUID, at time.Time) error {
	if m.MarkSharedFn != nil {
		return m.MarkSharedFn(ctx, learnerID, lessonID, at)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[lessonID]
	if !ok || r.LearnerID != learnerID {
		return store.ErrLessonNotFound
	}
	r.MarkShared(at)
	return nil
}

// WithTx implements store.LessonStore. The mock has no transactions and
// returns itself.
func (m *MockLessonStore) WithTx(_ *sql.Tx) store.LessonStore {
	return m
}
