package service

import (
	"PassKeeper/internal/model"
	"PassKeeper/internal/repo"
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Ошибки уровня записей паролей.
var (
	ErrDuplicateRecord = errors.New("record already exists for domain and username")
	ErrRecordNotFound  = errors.New("password record not found")
	ErrNotOwner        = errors.New("password record belongs to another account")
)

// RecordInput — поля записи, как их присылает клиент. Username и Password
// уже зашифрованы на стороне клиента, сервер их не интерпретирует.
type RecordInput struct {
	ID        string
	Domain    string
	URL       string
	Username  string
	Password  string
	Notes     string
	UpdatedAt time.Time
}

// PasswordService инкапсулирует CRUD и массовые операции над записями.
type PasswordService struct {
	repo   repo.PasswordRepository
	logger *zap.SugaredLogger
}

// NewPasswordService создаёт сервис записей паролей.
func NewPasswordService(r repo.PasswordRepository, logger *zap.SugaredLogger) *PasswordService {
	return &PasswordService{repo: r, logger: logger}
}

// Add создаёт запись после прикладной пробы уникальности
// (владелец, домен, username). Ограничения в хранилище нет: параллельные
// вставки одной и той же тройки могут создать дубликат.
func (s *PasswordService) Add(ctx context.Context, ownerID string, in RecordInput) (*model.Password, error) {
	if _, err := s.repo.FindByDomainAndUsername(ctx, ownerID, in.Domain, in.Username); err == nil {
		return nil, ErrDuplicateRecord
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	p := &model.Password{
		UserID:            ownerID,
		Domain:            in.Domain,
		WebsiteURL:        in.URL,
		EncryptedUsername: in.Username,
		EncryptedPassword: in.Password,
		Notes:             in.Notes,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// List возвращает все записи владельца.
func (s *PasswordService) List(ctx context.Context, ownerID string) ([]model.Password, error) {
	return s.repo.ListByUser(ctx, ownerID)
}

// Get возвращает запись владельца по ID.
func (s *PasswordService) Get(ctx context.Context, ownerID, id string) (*model.Password, error) {
	return s.getOwned(ctx, ownerID, id)
}

// Update перезаписывает поля записи владельца.
func (s *PasswordService) Update(ctx context.Context, ownerID, id string, in RecordInput) (*model.Password, error) {
	p, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	p.Domain = in.Domain
	p.WebsiteURL = in.URL
	p.EncryptedUsername = in.Username
	p.EncryptedPassword = in.Password
	p.Notes = in.Notes

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete удаляет запись владельца.
func (s *PasswordService) Delete(ctx context.Context, ownerID, id string) error {
	p, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, p.ID)
}

// ListShared возвращает чужие записи, доступные пользователю через активные привязки.
func (s *PasswordService) ListShared(ctx context.Context, accountID string) ([]model.SharedPassword, error) {
	return s.repo.ListSharedWith(ctx, accountID)
}

// BatchDeleteResult — итог пакетного удаления.
type BatchDeleteResult struct {
	DeletedCount  int
	FailedCount   int
	FailedDetails []string
}

// BatchDelete удаляет записи по списку ID. Ошибка по одной записи не
// останавливает обработку остальных; итог — счётчики и диагностика.
func (s *PasswordService) BatchDelete(ctx context.Context, ownerID string, ids []string) *BatchDeleteResult {
	res := &BatchDeleteResult{FailedDetails: []string{}}
	for _, id := range ids {
		p, err := s.repo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				res.FailedDetails = append(res.FailedDetails, fmt.Sprintf("record not found: %s", id))
			} else {
				s.logger.Errorw("batch delete: lookup failed", "id", id, "error", err)
				res.FailedDetails = append(res.FailedDetails, fmt.Sprintf("delete failed: %s", id))
			}
			res.FailedCount++
			continue
		}
		if p.UserID != ownerID {
			res.FailedDetails = append(res.FailedDetails, fmt.Sprintf("not allowed to delete: %s", id))
			res.FailedCount++
			continue
		}
		if err := s.repo.Delete(ctx, id); err != nil {
			s.logger.Errorw("batch delete: delete failed", "id", id, "error", err)
			res.FailedDetails = append(res.FailedDetails, fmt.Sprintf("delete failed: %s", id))
			res.FailedCount++
			continue
		}
		res.DeletedCount++
	}
	return res
}

func (s *PasswordService) getOwned(ctx context.Context, ownerID, id string) (*model.Password, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	if p.UserID != ownerID {
		return nil, ErrNotOwner
	}
	return p, nil
}
