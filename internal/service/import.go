package service

import (
	"PassKeeper/internal/model"
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ImportItem — одна запись импорта.
type ImportItem struct {
	Domain   string
	URL      string
	Username string
	Password string
	Notes    string
}

// ImportPlan — решение по каждой записи импорта до обращения к хранилищу.
type ImportPlan struct {
	Inserts    []ImportItem
	Overwrites []model.Password // существующие записи с уже подставленными новыми полями
	Skipped    []string
}

// BuildImportPlan — чистая функция раскладки импорта. Ключ существования —
// "domain:encryptedUsername" по текущему набору владельца:
//   - запись без domain/username/password пропускается с диагностикой;
//   - ключ занят и force=false: пропуск с диагностикой;
//   - ключ занят и force=true: перезапись существующей записи (id сохраняется);
//   - ключ свободен: вставка.
//
// Индекс строится один раз по existing: дубликаты внутри самого батча
// не схлопываются (как и в проверке при create — прикладная, не строгая).
func BuildImportPlan(items []ImportItem, existing []model.Password, force bool) ImportPlan {
	index := make(map[string]model.Password, len(existing))
	for _, p := range existing {
		index[p.Domain+":"+p.EncryptedUsername] = p
	}

	plan := ImportPlan{Skipped: []string{}}
	for _, it := range items {
		if it.Domain == "" || it.Username == "" || it.Password == "" {
			d := it.Domain
			if d == "" {
				d = "Unknown"
			}
			plan.Skipped = append(plan.Skipped, fmt.Sprintf("missing required fields - %s", d))
			continue
		}

		key := it.Domain + ":" + it.Username
		p, ok := index[key]
		switch {
		case ok && force:
			p.Domain = it.Domain
			p.WebsiteURL = it.URL
			p.EncryptedUsername = it.Username
			p.EncryptedPassword = it.Password
			p.Notes = it.Notes
			plan.Overwrites = append(plan.Overwrites, p)
		case ok:
			plan.Skipped = append(plan.Skipped, fmt.Sprintf("record already exists: %s - %s", it.Domain, it.Username))
		default:
			plan.Inserts = append(plan.Inserts, it)
		}
	}
	return plan
}

// ImportResult — счётчики и диагностика импорта.
type ImportResult struct {
	ImportedCount     int
	SkippedCount      int
	SkippedDetails    []string
	ImportedPasswords []model.Password
}

// Import применяет план импорта одной транзакцией.
func (s *PasswordService) Import(ctx context.Context, ownerID string, items []ImportItem, force bool) (*ImportResult, error) {
	existing, err := s.repo.ListByUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	plan := BuildImportPlan(items, existing, force)

	creates := make([]model.Password, 0, len(plan.Inserts))
	for _, it := range plan.Inserts {
		creates = append(creates, model.Password{
			ID:                uuid.NewString(),
			UserID:            ownerID,
			Domain:            it.Domain,
			WebsiteURL:        it.URL,
			EncryptedUsername: it.Username,
			EncryptedPassword: it.Password,
			Notes:             it.Notes,
		})
	}

	if err := s.repo.SaveBatch(ctx, creates, plan.Overwrites); err != nil {
		return nil, err
	}

	imported := make([]model.Password, 0, len(creates)+len(plan.Overwrites))
	imported = append(imported, creates...)
	imported = append(imported, plan.Overwrites...)

	return &ImportResult{
		ImportedCount:     len(imported),
		SkippedCount:      len(plan.Skipped),
		SkippedDetails:    plan.Skipped,
		ImportedPasswords: imported,
	}, nil
}

// ParsePlainText разбирает построчный формат "domain username password...".
// Пароль — всё после второго токена и может содержать пробелы. Пустые строки
// пропускаются, строки короче трёх токенов попадают в errs с номером строки.
// URL подставляется из домена, если тот похож на hostname (содержит точку).
func ParsePlainText(content string) (items []ImportItem, errs []string) {
	for i, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		if len(parts) < 3 {
			errs = append(errs, fmt.Sprintf("line %d has invalid format: %s", i+1, line))
			continue
		}

		item := ImportItem{
			Domain:   parts[0],
			Username: parts[1],
			Password: strings.Join(parts[2:], " "),
		}
		if strings.Contains(item.Domain, ".") {
			item.URL = item.Domain
		}
		items = append(items, item)
	}
	return items, errs
}
