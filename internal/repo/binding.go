package repo

import (
	"PassKeeper/internal/model"
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BindingRepository определяет контракт доступа к привязкам аккаунтов.
type BindingRepository interface {
	// Create сохраняет новую привязку. Пустой ID генерируется здесь.
	Create(ctx context.Context, b *model.Binding) error

	// GetByID находит привязку по ID.
	GetByID(ctx context.Context, id string) (*model.Binding, error)

	// GetByAccountPair находит привязку по упорядоченной паре (A, B) в любом статусе.
	GetByAccountPair(ctx context.Context, accountAID, accountBID string) (*model.Binding, error)

	// ListActiveByInitiator — активные привязки, где пользователь является инициатором,
	// с email второй стороны.
	ListActiveByInitiator(ctx context.Context, accountAID string) ([]model.BindingWithEmail, error)

	// ListPendingForTarget — входящие pending-запросы пользователя с email инициатора.
	ListPendingForTarget(ctx context.Context, accountBID string) ([]model.BindingWithEmail, error)

	// UpdateStatus меняет статус привязки.
	UpdateStatus(ctx context.Context, id, status string) error

	// UpdatePermissions меняет право доступа привязки.
	UpdatePermissions(ctx context.Context, id, permissions string) error

	// Delete удаляет привязку.
	Delete(ctx context.Context, id string) error
}

type bindingRepo struct {
	db *gorm.DB
}

// NewBindingRepository создаёт реализацию репозитория привязок.
func NewBindingRepository(db *gorm.DB) BindingRepository {
	return &bindingRepo{db: db}
}

func (r *bindingRepo) Create(ctx context.Context, b *model.Binding) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *bindingRepo) GetByID(ctx context.Context, id string) (*model.Binding, error) {
	var b model.Binding
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bindingRepo) GetByAccountPair(ctx context.Context, accountAID, accountBID string) (*model.Binding, error) {
	var b model.Binding
	err := r.db.WithContext(ctx).
		Where("account_a_id = ? AND account_b_id = ?", accountAID, accountBID).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bindingRepo) ListActiveByInitiator(ctx context.Context, accountAID string) ([]model.BindingWithEmail, error) {
	var list []model.BindingWithEmail
	err := r.db.WithContext(ctx).
		Table("account_bindings AS b").
		Select("b.*, u.email AS bound_account_email").
		Joins("JOIN users u ON u.id = b.account_b_id").
		Where("b.account_a_id = ? AND b.binding_status = ?", accountAID, model.BindingStatusActive).
		Scan(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *bindingRepo) ListPendingForTarget(ctx context.Context, accountBID string) ([]model.BindingWithEmail, error) {
	var list []model.BindingWithEmail
	err := r.db.WithContext(ctx).
		Table("account_bindings AS b").
		Select("b.*, u.email AS requester_email").
		Joins("JOIN users u ON u.id = b.account_a_id").
		Where("b.account_b_id = ? AND b.binding_status = ?", accountBID, model.BindingStatusPending).
		Scan(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *bindingRepo) UpdateStatus(ctx context.Context, id, status string) error {
	return r.db.WithContext(ctx).
		Model(&model.Binding{}).
		Where("id = ?", id).
		Update("binding_status", status).Error
}

func (r *bindingRepo) UpdatePermissions(ctx context.Context, id, permissions string) error {
	return r.db.WithContext(ctx).
		Model(&model.Binding{}).
		Where("id = ?", id).
		Update("permissions", permissions).Error
}

func (r *bindingRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.Binding{}, "id = ?", id).Error
}
