package repo

import (
	"PassKeeper/internal/model"
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PasswordRepository определяет контракт доступа к записям паролей.
type PasswordRepository interface {
	// Create сохраняет новую запись. Пустой ID генерируется здесь.
	Create(ctx context.Context, p *model.Password) error

	// GetByID находит запись по ID независимо от владельца.
	GetByID(ctx context.Context, id string) (*model.Password, error)

	// ListByUser возвращает все записи владельца.
	ListByUser(ctx context.Context, userID string) ([]model.Password, error)

	// FindByDomainAndUsername — проба существования по (владелец, домен, username).
	FindByDomainAndUsername(ctx context.Context, userID, domain, encryptedUsername string) (*model.Password, error)

	// Update перезаписывает все поля записи.
	Update(ctx context.Context, p *model.Password) error

	// Delete удаляет запись по ID.
	Delete(ctx context.Context, id string) error

	// ListSharedWith возвращает записи других владельцев, доступные пользователю
	// через активные привязки, вместе с правом доступа и email владельца.
	ListSharedWith(ctx context.Context, userID string) ([]model.SharedPassword, error)

	// SaveBatch применяет вставки и обновления одной транзакцией.
	SaveBatch(ctx context.Context, creates []model.Password, updates []model.Password) error
}

type passwordRepo struct {
	db *gorm.DB
}

// NewPasswordRepository создаёт реализацию репозитория записей паролей.
func NewPasswordRepository(db *gorm.DB) PasswordRepository {
	return &passwordRepo{db: db}
}

func (r *passwordRepo) Create(ctx context.Context, p *model.Password) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *passwordRepo) GetByID(ctx context.Context, id string) (*model.Password, error) {
	var p model.Password
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *passwordRepo) ListByUser(ctx context.Context, userID string) ([]model.Password, error) {
	var list []model.Password
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *passwordRepo) FindByDomainAndUsername(ctx context.Context, userID, domain, encryptedUsername string) (*model.Password, error) {
	var p model.Password
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND domain = ? AND encrypted_username = ?", userID, domain, encryptedUsername).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *passwordRepo) Update(ctx context.Context, p *model.Password) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *passwordRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.Password{}, "id = ?", id).Error
}

func (r *passwordRepo) ListSharedWith(ctx context.Context, userID string) ([]model.SharedPassword, error) {
	var list []model.SharedPassword
	err := r.db.WithContext(ctx).
		Table("passwords AS p").
		Select("p.*, b.permissions, u.email AS owner_email").
		Joins("JOIN account_bindings b ON b.account_a_id = p.user_id").
		Joins("JOIN users u ON u.id = p.user_id").
		Where("b.account_b_id = ? AND b.binding_status = ?", userID, model.BindingStatusActive).
		Scan(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *passwordRepo) SaveBatch(ctx context.Context, creates []model.Password, updates []model.Password) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range creates {
			if creates[i].ID == "" {
				creates[i].ID = uuid.NewString()
			}
			if err := tx.Create(&creates[i]).Error; err != nil {
				return err
			}
		}
		for i := range updates {
			if err := tx.Save(&updates[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
