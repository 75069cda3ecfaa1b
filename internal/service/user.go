package service

import (
	"PassKeeper/internal/auth"
	"PassKeeper/internal/model"
	"PassKeeper/internal/repo"
	"context"
	"errors"
)

// Ошибки уровня пользователей.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// UserService инкапсулирует регистрацию и проверку учётных данных.
type UserService struct {
	repo repo.UserRepository
}

// NewUserService создаёт сервис пользователей.
func NewUserService(r repo.UserRepository) *UserService {
	return &UserService{repo: r}
}

// Register создаёт пользователя с bcrypt-хэшем пароля.
// Email проверяется прикладным запросом до вставки.
func (s *UserService) Register(ctx context.Context, email, password string) (*model.User, error) {
	if _, err := s.repo.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	return s.repo.CreateUser(ctx, &model.User{Email: email, PasswordHash: hash})
}

// Login проверяет пару email/пароль. Неизвестный email и неверный пароль
// неразличимы для вызывающего.
func (s *UserService) Login(ctx context.Context, email, password string) (*model.User, error) {
	u, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}
