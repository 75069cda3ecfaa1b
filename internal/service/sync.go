package service

import (
	"PassKeeper/internal/model"
	"context"

	"github.com/google/uuid"
)

// SyncResult — итог синхронизации: авторитетный серверный набор после
// применения изменений и список затронутых id. Deleted всегда пуст:
// tombstone-ов в протоколе нет, записи, отсутствующие у клиента,
// остаются на сервере.
type SyncResult struct {
	ServerPasswords []model.Password
	Updated         []string
	Deleted         []string
}

// Reconcile — чистая функция слияния клиентского набора с серверным.
//
// Правила:
//   - клиентский элемент с id, известным серверу: перезапись серверных полей,
//     только если клиентская отметка времени строго новее; при равенстве и
//     при более новом сервере выигрывает сервер;
//   - клиентский элемент с неизвестным или пустым id: новая серверная запись
//     (клиентский id не перенимается);
//   - серверные записи, отсутствующие у клиента, не трогаются и в план не попадают.
func Reconcile(local []RecordInput, server []model.Password) (creates []RecordInput, updates []model.Password) {
	byID := make(map[string]model.Password, len(server))
	for _, p := range server {
		byID[p.ID] = p
	}

	for _, in := range local {
		srv, ok := byID[in.ID]
		if !ok {
			creates = append(creates, in)
			continue
		}
		if in.UpdatedAt.After(srv.UpdatedAt) {
			srv.Domain = in.Domain
			srv.WebsiteURL = in.URL
			srv.EncryptedUsername = in.Username
			srv.EncryptedPassword = in.Password
			srv.Notes = in.Notes
			updates = append(updates, srv)
		}
	}
	return creates, updates
}

// Sync применяет план Reconcile одной транзакцией и возвращает свежий
// серверный набор плюс id созданных и обновлённых записей.
func (s *PasswordService) Sync(ctx context.Context, ownerID string, local []RecordInput) (*SyncResult, error) {
	server, err := s.repo.ListByUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	creates, updates := Reconcile(local, server)

	newModels := make([]model.Password, 0, len(creates))
	updatedIDs := make([]string, 0, len(creates)+len(updates))
	for _, in := range creates {
		p := model.Password{
			ID:                uuid.NewString(),
			UserID:            ownerID,
			Domain:            in.Domain,
			WebsiteURL:        in.URL,
			EncryptedUsername: in.Username,
			EncryptedPassword: in.Password,
			Notes:             in.Notes,
		}
		newModels = append(newModels, p)
		updatedIDs = append(updatedIDs, p.ID)
	}
	for _, p := range updates {
		updatedIDs = append(updatedIDs, p.ID)
	}

	if err := s.repo.SaveBatch(ctx, newModels, updates); err != nil {
		return nil, err
	}

	fresh, err := s.repo.ListByUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	return &SyncResult{
		ServerPasswords: fresh,
		Updated:         updatedIDs,
		Deleted:         []string{},
	}, nil
}
