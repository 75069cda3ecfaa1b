package service

import (
	"PassKeeper/internal/model"
	"PassKeeper/internal/repo"
	"context"
	"errors"
)

// Ошибки уровня привязок.
var (
	ErrSelfBinding    = errors.New("cannot bind own account")
	ErrTargetNotFound = errors.New("target account not found")
	ErrBindingExists  = errors.New("binding already exists")

	// ErrBindingNotFound намеренно не различает "нет такой привязки" и
	// "привязка чужая": существование чужих привязок не раскрывается.
	ErrBindingNotFound = errors.New("binding not found or not permitted")

	ErrInvalidPermission = errors.New("invalid permission value")
)

// BindingService управляет направленными привязками между аккаунтами.
// Инициатор (A) управляет правами, получатель (B) принимает или отклоняет.
type BindingService struct {
	bindings repo.BindingRepository
	users    repo.UserRepository
}

// NewBindingService создаёт сервис привязок.
func NewBindingService(bindings repo.BindingRepository, users repo.UserRepository) *BindingService {
	return &BindingService{bindings: bindings, users: users}
}

// RequestBinding создаёт pending-привязку от инициатора к владельцу targetEmail
// с правом чтения по умолчанию.
func (s *BindingService) RequestBinding(ctx context.Context, initiator *model.User, targetEmail string) (*model.Binding, error) {
	if targetEmail == initiator.Email {
		return nil, ErrSelfBinding
	}

	target, err := s.users.GetUserByEmail(ctx, targetEmail)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrTargetNotFound
		}
		return nil, err
	}

	// Пара (A, B) уникальна в любом статусе; (B, A) — независимая привязка.
	if _, err := s.bindings.GetByAccountPair(ctx, initiator.ID, target.ID); err == nil {
		return nil, ErrBindingExists
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	b := &model.Binding{
		AccountAID:    initiator.ID,
		AccountBID:    target.ID,
		BindingStatus: model.BindingStatusPending,
		Permissions:   model.PermissionRead,
	}
	if err := s.bindings.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// ListBindings возвращает два отдельных списка: активные привязки, где
// пользователь — инициатор, и входящие pending-запросы.
func (s *BindingService) ListBindings(ctx context.Context, accountID string) (active, pending []model.BindingWithEmail, err error) {
	active, err = s.bindings.ListActiveByInitiator(ctx, accountID)
	if err != nil {
		return nil, nil, err
	}
	pending, err = s.bindings.ListPendingForTarget(ctx, accountID)
	if err != nil {
		return nil, nil, err
	}
	return active, pending, nil
}

// AcceptBinding переводит pending-привязку в active.
// Допускается только для стороны B и только из статуса pending.
func (s *BindingService) AcceptBinding(ctx context.Context, accountID, bindingID string) error {
	b, err := s.getOwnedPending(ctx, accountID, bindingID)
	if err != nil {
		return err
	}
	return s.bindings.UpdateStatus(ctx, b.ID, model.BindingStatusActive)
}

// RejectBinding удаляет pending-привязку. Авторизация как у AcceptBinding.
func (s *BindingService) RejectBinding(ctx context.Context, accountID, bindingID string) error {
	b, err := s.getOwnedPending(ctx, accountID, bindingID)
	if err != nil {
		return err
	}
	return s.bindings.Delete(ctx, b.ID)
}

// Unbind удаляет привязку в любом статусе; доступно обеим сторонам.
func (s *BindingService) Unbind(ctx context.Context, accountID, bindingID string) error {
	b, err := s.bindings.GetByID(ctx, bindingID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrBindingNotFound
		}
		return err
	}
	if b.AccountAID != accountID && b.AccountBID != accountID {
		return ErrBindingNotFound
	}
	return s.bindings.Delete(ctx, b.ID)
}

// UpdatePermissions меняет право доступа привязки. Только для инициатора.
func (s *BindingService) UpdatePermissions(ctx context.Context, accountID, bindingID, permissions string) error {
	if permissions != model.PermissionRead && permissions != model.PermissionWrite {
		return ErrInvalidPermission
	}

	b, err := s.bindings.GetByID(ctx, bindingID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrBindingNotFound
		}
		return err
	}
	if b.AccountAID != accountID {
		return ErrBindingNotFound
	}
	return s.bindings.UpdatePermissions(ctx, b.ID, permissions)
}

func (s *BindingService) getOwnedPending(ctx context.Context, accountID, bindingID string) (*model.Binding, error) {
	b, err := s.bindings.GetByID(ctx, bindingID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrBindingNotFound
		}
		return nil, err
	}
	if b.AccountBID != accountID || b.BindingStatus != model.BindingStatusPending {
		return nil, ErrBindingNotFound
	}
	return b, nil
}
