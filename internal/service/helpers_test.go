package service

import (
	"PassKeeper/internal/model"
	"PassKeeper/internal/repo"
	"context"

	"github.com/stretchr/testify/mock"
)

// Minimal mocks

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
