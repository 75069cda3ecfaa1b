package handlers

import (
	"PassKeeper/internal/middleware"
	"PassKeeper/internal/model"
	"PassKeeper/internal/service"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// PasswordHandler обрабатывает CRUD, синхронизацию и импорт записей паролей.
type PasswordHandler struct {
	PasswordService *service.PasswordService
	Logger          *zap.SugaredLogger
}

// NewPasswordHandler создаёт хендлер записей паролей.
func NewPasswordHandler(passwordService *service.PasswordService, logger *zap.SugaredLogger) *PasswordHandler {
	return &PasswordHandler{PasswordService: passwordService, Logger: logger}
}

type passwordDTO struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Domain    string `json:"domain"`
	URL       string `json:"url"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	Notes     string `json:"notes"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func toPasswordDTO(p model.Password) passwordDTO {
	return passwordDTO{
		ID:        p.ID,
		UserID:    p.UserID,
		Domain:    p.Domain,
		URL:       p.WebsiteURL,
		Username:  p.EncryptedUsername,
		Password:  p.EncryptedPassword,
		Notes:     p.Notes,
		CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

type sharedPasswordDTO struct {
	passwordDTO
	Permissions string `json:"permissions"`
	OwnerEmail  string `json:"ownerEmail"`
}

type recordRequest struct {
	Domain   string `json:"domain"`
	URL      string `json:"url"`
	Username string `json:"username"`
	Password string `json:"password"`
	Notes    string `json:"notes"`
}

func (req recordRequest) toInput() service.RecordInput {
	return service.RecordInput{
		Domain:   req.Domain,
		URL:      req.URL,
		Username: req.Username,
		Password: req.Password,
		Notes:    req.Notes,
	}
}

// Add создаёт запись; 409 при существующей паре (домен, username).
func (h *PasswordHandler) Add(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetAccountFromContext(r.Context())

	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Domain == "" || req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	p, err := h.PasswordService.Add(r.Context(), user.ID, req.toInput())
	if err != nil {
		if errors.Is(err, service.ErrDuplicateRecord) {
			writeError(w, http.StatusConflict, "record already exists: "+req.Domain+" - "+req.Username)
			return
		}
		h.Logger.Errorw("Add: service error", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":  "password added",
		"password": toPasswordDTO(*p),
	})
}

// List возвращает все записи владельца.
func (h *PasswordHandler) List(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetAccountFromContext(r.Context())

	list, err := h.PasswordService.List(r.Context(), user.ID)
	if err != nil {
		h.Logger.Errorw("List: service error", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	dtos := make([]passwordDTO, 0, len(list))
	for _, p := range list {
		dtos = append(dtos, toPasswordDTO(p))
	}
	writeJSON(w, http.StatusOK, map[string]any{"passwords": dtos})
}

// ListShared возвращает чужие записи, доступные через активные привязки.
func (h *PasswordHandler) ListShared(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetAccountFromContext(r.Context())

	list, err := h.PasswordService.ListShared(r.Context(), user.ID)
	if err != nil {
		h.Logger.Errorw("ListShared: service error", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	dtos := make([]sharedPasswordDTO, 0, len(list))
	for _, p := range list {
		dtos = append(dtos, sharedPasswordDTO{
			passwordDTO: passwordDTO{
				ID:        p.ID,
				UserID:    p.UserID,
				Domain:    p.Domain,
				URL:       p.WebsiteURL,
				Username:  p.EncryptedUsername,
				Password:  p.EncryptedPassword,
				Notes:     p.Notes,
				CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339),
				UpdatedAt: p.UpdatedAt.UTC().Format(time.RFC3339),
			},
			Permissions: p.Permissions,
			OwnerEmail:  p.OwnerEmail,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"sharedPasswords": dtos})
}

// Get возвращает одну запись владельца.
func (h *PasswordHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetAccountFromContext(r.Context())
	id := chi.URLParam(r, "id")

	p, err := h.PasswordService.Get(r.Context(), user.ID, id)
	if err != nil {
		h.writeRecordError(w, user.ID, id, err)
		return
	}
	writeJSON(w, http.StatusOK, toPasswordDTO(*p))
}

// Update перезаписывает поля записи владельца и возвращает обновлённую запись.
func (h *PasswordHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetAccountFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	p, err := h.PasswordService.Update(r.Context(), user.ID, id, req.toInput())
	if err != nil {
		h.writeRecordError(w, user.ID, id, err)
		return
	}
	writeJSON(w, http.StatusOK, toPasswordDTO(*p))
}

// Delete удаляет запись владельца.
func (h *PasswordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetAccountFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.PasswordService.Delete(r.Context(), user.ID, id); err != nil {
		h.writeRecordError(w, user.ID, id, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "password deleted"})
}

type syncItemDTO struct {
	ID        string `json:"id"`
	Domain    string `json:"domain"`
	URL       string `json:"url"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	Notes     string `json:"notes"`
	UpdatedAt string `json:"updatedAt"`
}

// Sync принимает полный клиентский набор и применяет reconcile-слияние.
// Ответ: авторитетный серверный набор плюс id затронутых записей.
func (h *PasswordHandler) Sync(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetAccountFromContext(r.Context())

	var req struct {
		Passwords []syncItemDTO `json:"passwords"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Passwords == nil {
		writeError(w, http.StatusBadRequest, "request must contain a passwords array")
		return
	}

	local := make([]service.RecordInput, 0, len(req.Passwords))
	for _, it := range req.Passwords {
		in := service.RecordInput{
			ID:       it.ID,
			Domain:   it.Domain,
			URL:      it.URL,
			Username: it.Username,
			Password: it.Password,
			Notes:    it.Notes,
		}
		if it.UpdatedAt != "" {
			if t, err := time.Parse(time.RFC3339, it.UpdatedAt); err == nil {
				in.UpdatedAt = t
			} else {
				// нулевая отметка: сервер выиграет сравнение
				h.Logger.Warnw("Sync: invalid updatedAt", "value", it.UpdatedAt, "error", err)
			}
		}
		local = append(local, in)
	}

	res, err := h.PasswordService.Sync(r.Context(), user.ID, local)
	if err != nil {
		h.Logger.Errorw("Sync: service error", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	server := make([]passwordDTO, 0, len(res.ServerPasswords))
	for _, p := range res.ServerPasswords {
		server = append(server, toPasswordDTO(p))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":         "passwords synced",
		"serverPasswords": server,
		"updated":         res.Updated,
		"deleted":         res.Deleted,
	})
}

type importRequest struct {
	Passwords   []recordRequest `json:"passwords"`
	ForceImport bool            `json:"forceImport"`
}

// Import — массовый импорт записей из JSON-тела.
func (h *PasswordHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Passwords == nil {
		writeError(w, http.StatusBadRequest, "request must contain a passwords array")
		return
	}
	h.runImport(w, r, req, nil)
}

// ImportTxt — построчный импорт: multipart-файл .txt либо JSON-тело
// в формате Import (клиенты используют оба варианта).
func (h *PasswordHandler) ImportTxt(w http.ResponseWriter, r *http.Request) {
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		h.Import(w, r)
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".txt") {
		writeError(w, http.StatusBadRequest, "unsupported file type, expected .txt")
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		h.Logger.Warnw("ImportTxt: failed to read file", "error", err)
		writeError(w, http.StatusBadRequest, "failed to read file")
		return
	}

	items, parseErrs := service.ParsePlainText(string(content))
	if parseErrs == nil {
		parseErrs = []string{}
	}
	if len(items) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"message":       "no valid password records found",
			"importedCount": 0,
			"skippedCount":  0,
			"errors":        parseErrs,
		})
		return
	}

	req := importRequest{ForceImport: r.FormValue("forceImport") == "true"}
	for _, it := range items {
		req.Passwords = append(req.Passwords, recordRequest{
			Domain:   it.Domain,
			URL:      it.URL,
			Username: it.Username,
			Password: it.Password,
			Notes:    it.Notes,
		})
	}
	h.runImport(w, r, req, parseErrs)
}

// runImport применяет импорт и пишет общий для обоих вариантов ответ.
// parseErrs != nil добавляет в ответ поле errors (текстовый вариант).
func (h *PasswordHandler) runImport(w http.ResponseWriter, r *http.Request, req importRequest, parseErrs []string) {
	user, _ := middleware.GetAccountFromContext(r.Context())

	items := make([]service.ImportItem, 0, len(req.Passwords))
	for _, p := range req.Passwords {
		items = append(items, service.ImportItem{
			Domain:   p.Domain,
			URL:      p.URL,
			Username: p.Username,
			Password: p.Password,
			Notes:    p.Notes,
		})
	}

	res, err := h.PasswordService.Import(r.Context(), user.ID, items, req.ForceImport)
	if err != nil {
		h.Logger.Errorw("Import: service error", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	imported := make([]passwordDTO, 0, len(res.ImportedPasswords))
	for _, p := range res.ImportedPasswords {
		imported = append(imported, toPasswordDTO(p))
	}

	body := map[string]any{
		"message":           "import finished",
		"importedCount":     res.ImportedCount,
		"skippedCount":      res.SkippedCount,
		"skippedDetails":    res.SkippedDetails,
		"importedPasswords": imported,
	}
	if parseErrs != nil {
		body["errors"] = parseErrs
	}
	writeJSON(w, http.StatusOK, body)
}

// BatchDelete удаляет записи по списку ID с пер-элементной диагностикой.
func (h *PasswordHandler) BatchDelete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetAccountFromContext(r.Context())

	var req struct {
		PasswordIDs []string `json:"passwordIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PasswordIDs == nil {
		writeError(w, http.StatusBadRequest, "request must contain a passwordIds array")
		return
	}
	if len(req.PasswordIDs) == 0 {
		writeError(w, http.StatusBadRequest, "passwordIds must not be empty")
		return
	}

	res := h.PasswordService.BatchDelete(r.Context(), user.ID, req.PasswordIDs)

	writeJSON(w, http.StatusOK, map[string]any{
		"message":       "batch delete finished",
		"deletedCount":  res.DeletedCount,
		"failedCount":   res.FailedCount,
		"failedDetails": res.FailedDetails,
	})
}

// writeRecordError — единый маппинг ошибок одиночных операций над записью.
func (h *PasswordHandler) writeRecordError(w http.ResponseWriter, userID, recordID string, err error) {
	switch {
	case errors.Is(err, service.ErrRecordNotFound):
		writeError(w, http.StatusNotFound, "password record not found")
	case errors.Is(err, service.ErrNotOwner):
		writeError(w, http.StatusForbidden, "not allowed to access this record")
	default:
		h.Logger.Errorw("Password: service error", "user_id", userID, "record_id", recordID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
