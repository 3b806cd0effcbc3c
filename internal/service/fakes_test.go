package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/repository"
	"github.com/spec-kit/complaint-service/internal/station"
)

// memoryStore is an in-memory repository.Store. WithinTx restores a snapshot
// when fn fails, giving the same all-or-nothing outcome as a database
// transaction.
type memoryStore struct {
	mu          sync.Mutex
	complaints  map[string]domain.Complaint
	history     []domain.ComplaintHistory
	failHistory error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{complaints: make(map[string]domain.Complaint)}
}

func (s *memoryStore) Complaints() repository.ComplaintRepository { return memoryComplaints{s} }

func (s *memoryStore) History() repository.ComplaintHistoryRepository { return memoryHistory{s} }

func (s *memoryStore) WithinTx(ctx context.Context, fn func(tx repository.Store) error) error {
	s.mu.Lock()
	snapshot := make(map[string]domain.Complaint, len(s.complaints))
	for k, v := range s.complaints {
		snapshot[k] = v
	}
	historyLen := len(s.history)
	s.mu.Unlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.complaints = snapshot
		s.history = s.history[:historyLen]
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *memoryStore) seed(c domain.Complaint) domain.Complaint {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	s.complaints[c.ID] = c
	return c
}

func (s *memoryStore) get(id string) domain.Complaint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.complaints[id]
}

func (s *memoryStore) historyFor(id string) []domain.ComplaintHistory {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.ComplaintHistory
	for _, h := range s.history {
		if h.ComplaintID == id {
			out = append(out, h)
		}
	}
	return out
}

type memoryComplaints struct{ s *memoryStore }

func (r memoryComplaints) Create(_ context.Context, c *domain.Complaint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c.ID = uuid.NewString()
	r.s.complaints[c.ID] = *c
	return nil
}

func (r memoryComplaints) Update(_ context.Context, c *domain.Complaint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.complaints[c.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.s.complaints[c.ID] = *c
	return nil
}

func (r memoryComplaints) GetByID(_ context.Context, id string) (*domain.Complaint, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.complaints[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &c, nil
}

func (r memoryComplaints) GetByIDForUpdate(ctx context.Context, id string) (*domain.Complaint, error) {
	return r.GetByID(ctx, id)
}

func (r memoryComplaints) GetByReference(_ context.Context, reference string) (*domain.Complaint, error) {
	for _, c := range r.where(func(c domain.Complaint) bool { return strings.EqualFold(c.Reference, reference) }) {
		return &c, nil
	}
	return nil, pgx.ErrNoRows
}

func (r memoryComplaints) ListAll(context.Context) ([]domain.Complaint, error) {
	return r.where(func(domain.Complaint) bool { return true }), nil
}

func (r memoryComplaints) ListByOwner(_ context.Context, username string) ([]domain.Complaint, error) {
	return r.where(func(c domain.Complaint) bool { return c.CreatedBy != nil && *c.CreatedBy == username }), nil
}

func (r memoryComplaints) ListByPassengerNames(_ context.Context, names []string) ([]domain.Complaint, error) {
	return r.where(func(c domain.Complaint) bool {
		for _, n := range names {
			if strings.EqualFold(c.PassengerName, n) {
				return true
			}
		}
		return false
	}), nil
}

func (r memoryComplaints) ListByStationContext(_ context.Context, query string) ([]domain.Complaint, error) {
	return r.where(func(c domain.Complaint) bool { return station.Matches(&c, query) }), nil
}

func (r memoryComplaints) ListByDepartment(_ context.Context, department string) ([]domain.Complaint, error) {
	return r.where(func(c domain.Complaint) bool { return strings.EqualFold(c.DepartmentOrEmpty(), department) }), nil
}

func (r memoryComplaints) ListByAssignee(_ context.Context, assignee string) ([]domain.Complaint, error) {
	return r.where(func(c domain.Complaint) bool { return c.AssignedTo != nil && *c.AssignedTo == assignee }), nil
}

func (r memoryComplaints) where(match func(domain.Complaint) bool) []domain.Complaint {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.Complaint{}
	for _, c := range r.s.complaints {
		if match(c) {
			out = append(out, c)
		}
	}
	station.SortByUrgency(out)
	return out
}

type memoryHistory struct{ s *memoryStore }

func (r memoryHistory) Create(_ context.Context, h *domain.ComplaintHistory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failHistory != nil {
		return r.s.failHistory
	}
	h.ID = uuid.NewString()
	r.s.history = append(r.s.history, *h)
	return nil
}

func (r memoryHistory) ListByComplaint(_ context.Context, id string) ([]domain.ComplaintHistory, error) {
	return r.s.historyFor(id), nil
}

type stubIdentities map[string]*domain.Identity

func (s stubIdentities) GetByUsername(_ context.Context, username string) (*domain.Identity, error) {
	if id, ok := s[username]; ok {
		return id, nil
	}
	return nil, pgx.ErrNoRows
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Publish(ctx context.Context, complaintID string) error {
	args := m.Called(ctx, complaintID)
	return args.Error(0)
}

type enricherFunc func(ctx context.Context, c *domain.Complaint)

func (f enricherFunc) Enrich(ctx context.Context, c *domain.Complaint) { f(ctx, c) }

var errBrokerDown = errors.New("broker down")
