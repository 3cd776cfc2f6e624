package usecases

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"doc-check.backend/internal/domain/entities"
	domainerrors "doc-check.backend/internal/domain/errors"
	"doc-check.backend/internal/domain/repositories"
)

// mockPurchaseRepo is an in-memory PurchaseRepository keyed by id and code.
type mockPurchaseRepo struct {
	byID      map[uuid.UUID]*entities.Purchase
	updateErr error
	updates   int
}

func newMockPurchaseRepo(purchases ...*entities.Purchase) *mockPurchaseRepo {
	m := &mockPurchaseRepo{byID: make(map[uuid.UUID]*entities.Purchase)}
	for _, p := range purchases {
		m.byID[p.ID] = p
	}
	return m
}

func (m *mockPurchaseRepo) Create(_ context.Context, p *entities.Purchase) error {
	m.byID[p.ID] = p
	return nil
}

func (m *mockPurchaseRepo) GetByID(_ context.Context, id uuid.UUID) (*entities.Purchase, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockPurchaseRepo) GetByCode(_ context.Context, code string) (*entities.Purchase, error) {
	for _, p := range m.byID {
		if p.Code == code {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domainerrors.ErrNotFound
}

func (m *mockPurchaseRepo) GetByUserID(_ context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Purchase, int, error) {
	var all []*entities.Purchase
	for _, p := range m.byID {
		if p.UserID == userID {
			cp := *p
			all = append(all, &cp)
		}
	}
	total := len(all)
	if offset >= len(all) {
		return nil, total, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

func (m *mockPurchaseRepo) Update(_ context.Context, p *entities.Purchase) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.byID[p.ID]; !ok {
		return domainerrors.ErrNotFound
	}
	cp := *p
	m.byID[p.ID] = &cp
	m.updates++
	return nil
}

func (m *mockPurchaseRepo) UpdateStatusIf(_ context.Context, id uuid.UUID, allowedFrom []entities.PurchaseStatus, next entities.PurchaseStatus) error {
	p, ok := m.byID[id]
	if !ok {
		return domainerrors.ErrNotFound
	}
	for _, s := range allowedFrom {
		if p.Status == s {
			p.Status = next
			return nil
		}
	}
	return domainerrors.ErrStateConflict
}

// mockUserRepo serves a fixed user set.
type mockUserRepo struct {
	byID     map[uuid.UUID]*entities.User
	emailErr error
}

func newMockUserRepo(users ...*entities.User) *mockUserRepo {
	m := &mockUserRepo{byID: make(map[uuid.UUID]*entities.User)}
	for _, u := range users {
		m.byID[u.ID] = u
	}
	return m
}

func (m *mockUserRepo) Create(_ context.Context, u *entities.User) error {
	m.byID[u.ID] = u
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uuid.UUID) (*entities.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*entities.User, error) {
	if m.emailErr != nil {
		return nil, m.emailErr
	}
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domainerrors.ErrNotFound
}

// mockJobQueue records dispatched jobs and can be told to fail.
type mockJobQueue struct {
	jobs        []repositories.ReportJob
	dispatchErr error
}

func (m *mockJobQueue) Dispatch(_ context.Context, job repositories.ReportJob) error {
	if m.dispatchErr != nil {
		return m.dispatchErr
	}
	m.jobs = append(m.jobs, job)
	return nil
}

// mockGateway returns a scripted refund outcome.
type mockGateway struct {
	result    *repositories.RefundResult
	err       error
	paymentID string
}

func (m *mockGateway) Refund(_ context.Context, paymentID string) (*repositories.RefundResult, error) {
	m.paymentID = paymentID
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

// mockUoW runs the callback inline. When the callback errors it restores the
// purchase repo to its pre-callback state, mirroring a transaction rollback.
type mockUoW struct {
	repo       *mockPurchaseRepo
	rolledBack bool
}

func (m *mockUoW) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	var snapshot map[uuid.UUID]*entities.Purchase
	if m.repo != nil {
		snapshot = make(map[uuid.UUID]*entities.Purchase, len(m.repo.byID))
		for id, p := range m.repo.byID {
			cp := *p
			snapshot[id] = &cp
		}
	}
	err := fn(ctx)
	if err != nil && m.repo != nil {
		m.repo.byID = snapshot
	}
	m.rolledBack = err != nil
	return err
}

func (m *mockUoW) WithLock(ctx context.Context) context.Context { return ctx }

var errQueueDown = errors.New("queue down")
