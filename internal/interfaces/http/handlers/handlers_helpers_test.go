package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"doc-check.backend/internal/domain/entities"
	domainerrors "doc-check.backend/internal/domain/errors"
	"doc-check.backend/internal/domain/repositories"
	"doc-check.backend/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var errFake = errors.New("downstream failure")

// fakePurchaseRepo backs handler tests with an in-memory purchase set.
type fakePurchaseRepo struct {
	byID map[uuid.UUID]*entities.Purchase
}

func newFakePurchaseRepo(purchases ...*entities.Purchase) *fakePurchaseRepo {
	m := &fakePurchaseRepo{byID: make(map[uuid.UUID]*entities.Purchase)}
	for _, p := range purchases {
		m.byID[p.ID] = p
	}
	return m
}

func (m *fakePurchaseRepo) Create(_ context.Context, p *entities.Purchase) error {
	m.byID[p.ID] = p
	return nil
}

func (m *fakePurchaseRepo) GetByID(_ context.Context, id uuid.UUID) (*entities.Purchase, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *fakePurchaseRepo) GetByCode(_ context.Context, code string) (*entities.Purchase, error) {
	for _, p := range m.byID {
		if p.Code == code {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domainerrors.ErrNotFound
}

func (m *fakePurchaseRepo) GetByUserID(_ context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Purchase, int, error) {
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

func (m *fakePurchaseRepo) Update(_ context.Context, p *entities.Purchase) error {
	if _, ok := m.byID[p.ID]; !ok {
		return domainerrors.ErrNotFound
	}
	cp := *p
	m.byID[p.ID] = &cp
	return nil
}

func (m *fakePurchaseRepo) UpdateStatusIf(_ context.Context, id uuid.UUID, allowedFrom []entities.PurchaseStatus, next entities.PurchaseStatus) error {
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

type fakeUserRepo struct {
	byID map[uuid.UUID]*entities.User
}

func newFakeUserRepo(users ...*entities.User) *fakeUserRepo {
	m := &fakeUserRepo{byID: make(map[uuid.UUID]*entities.User)}
	for _, u := range users {
		m.byID[u.ID] = u
	}
	return m
}

func (m *fakeUserRepo) Create(_ context.Context, u *entities.User) error {
	m.byID[u.ID] = u
	return nil
}

func (m *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*entities.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return u, nil
}

func (m *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entities.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domainerrors.ErrNotFound
}

type fakeJobQueue struct {
	jobs        []repositories.ReportJob
	dispatchErr error
}

func (m *fakeJobQueue) Dispatch(_ context.Context, job repositories.ReportJob) error {
	if m.dispatchErr != nil {
		return m.dispatchErr
	}
	m.jobs = append(m.jobs, job)
	return nil
}

type fakeGateway struct {
	result *repositories.RefundResult
	err    error
}

func (m *fakeGateway) Refund(_ context.Context, _ string) (*repositories.RefundResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

type fakeUoW struct{}

func (fakeUoW) Do(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }
func (fakeUoW) WithLock(ctx context.Context) context.Context                     { return ctx }

// asUser injects the auth context the way AuthMiddleware would.
func asUser(userID uuid.UUID, role entities.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Set(middleware.UserRoleKey, string(role))
		c.Next()
	}
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
