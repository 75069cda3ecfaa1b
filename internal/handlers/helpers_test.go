package handlers

import (
	"PassKeeper/internal/auth"
	"PassKeeper/internal/model"
	"PassKeeper/internal/repo"
	"PassKeeper/internal/service"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) DeleteUser(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

var _ repo.UserRepository = (*mockUserRepo)(nil)

type mockBindingRepo struct{ mock.Mock }

func (m *mockBindingRepo) Create(ctx context.Context, b *model.Binding) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockBindingRepo) GetByID(ctx context.Context, id string) (*model.Binding, error) {
	args := m.Called(ctx, id)
	if b, ok := args.Get(0).(*model.Binding); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBindingRepo) GetByAccountPair(ctx context.Context, accountAID, accountBID string) (*model.Binding, error) {
	args := m.Called(ctx, accountAID, accountBID)
	if b, ok := args.Get(0).(*model.Binding); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBindingRepo) ListActiveByInitiator(ctx context.Context, accountAID string) ([]model.BindingWithEmail, error) {
	args := m.Called(ctx, accountAID)
	if v, ok := args.Get(0).([]model.BindingWithEmail); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBindingRepo) ListPendingForTarget(ctx context.Context, accountBID string) ([]model.BindingWithEmail, error) {
	args := m.Called(ctx, accountBID)
	if v, ok := args.Get(0).([]model.BindingWithEmail); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBindingRepo) UpdateStatus(ctx context.Context, id, status string) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockBindingRepo) UpdatePermissions(ctx context.Context, id, permissions string) error {
	return m.Called(ctx, id, permissions).Error(0)
}

func (m *mockBindingRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

var _ repo.BindingRepository = (*mockBindingRepo)(nil)

type mockPasswordRepo struct{ mock.Mock }

func (m *mockPasswordRepo) Create(ctx context.Context, p *model.Password) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockPasswordRepo) GetByID(ctx context.Context, id string) (*model.Password, error) {
	args := m.Called(ctx, id)
	if p, ok := args.Get(0).(*model.Password); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPasswordRepo) ListByUser(ctx context.Context, userID string) ([]model.Password, error) {
	args := m.Called(ctx, userID)
	if v, ok := args.Get(0).([]model.Password); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPasswordRepo) FindByDomainAndUsername(ctx context.Context, userID, domain, encryptedUsername string) (*model.Password, error) {
	args := m.Called(ctx, userID, domain, encryptedUsername)
	if p, ok := args.Get(0).(*model.Password); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPasswordRepo) Update(ctx context.Context, p *model.Password) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockPasswordRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockPasswordRepo) ListSharedWith(ctx context.Context, userID string) ([]model.SharedPassword, error) {
	args := m.Called(ctx, userID)
	if v, ok := args.Get(0).([]model.SharedPassword); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPasswordRepo) SaveBatch(ctx context.Context, creates []model.Password, updates []model.Password) error {
	return m.Called(ctx, creates, updates).Error(0)
}

var _ repo.PasswordRepository = (*mockPasswordRepo)(nil)

// testEnv — полный роутер поверх мок-репозиториев и настоящего Gateway.
type testEnv struct {
	users     *mockUserRepo
	bindings  *mockBindingRepo
	passwords *mockPasswordRepo
	gateway   *auth.Gateway
	router    chi.Router
}

func newTestEnv() *testEnv {
	users := new(mockUserRepo)
	bindings := new(mockBindingRepo)
	passwords := new(mockPasswordRepo)

	gw := auth.NewGateway("test-secret", time.Hour, users)
	logger := zap.NewNop().Sugar()

	h := NewHandler(
		service.NewUserService(users),
		service.NewBindingService(bindings, users),
		service.NewPasswordService(passwords, logger),
		gw,
		logger,
	)

	return &testEnv{
		users:     users,
		bindings:  bindings,
		passwords: passwords,
		gateway:   gw,
		router:    h.Router,
	}
}

// authorize выпускает настоящий токен и учит мок отдавать пользователя.
func (e *testEnv) authorize(t *testing.T, user *model.User) string {
	t.Helper()
	token, _, err := e.gateway.IssueToken(user.ID)
	assert.NoError(t, err)
	e.users.On("GetUserByID", mock.Anything, user.ID).Return(user, nil)
	return "Bearer " + token
}

func (e *testEnv) do(t *testing.T, method, path, authHeader string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		assert.NoError(t, err)
		rd = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

var testUser = &model.User{ID: "uid-1", Email: "user@example.com", CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}

func assertStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	assert.Equal(t, want, w.Code, w.Body.String())
}
