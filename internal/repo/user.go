package repo

import (
	"PassKeeper/internal/model"
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepository определяет контракт доступа к учётным записям.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя. Пустой ID генерируется здесь.
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)

	// GetUserByEmail находит пользователя по email (регистрозависимо, как хранится).
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)

	// GetUserByID находит пользователя по ID.
	GetUserByID(ctx context.Context, id string) (*model.User, error)

	// DeleteUser удаляет учётную запись. Основными сценариями не используется.
	DeleteUser(ctx context.Context, id string) error
}

type userRepo struct {
	db *gorm.DB
}

// NewUserRepository создаёт реализацию репозитория пользователей.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) DeleteUser(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.User{}, "id = ?", id).Error
}
