package handlers

import (
	"PassKeeper/internal/middleware"
	"PassKeeper/internal/model"
	"PassKeeper/internal/service"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BindingHandler обрабатывает привязки аккаунтов.
type BindingHandler struct {
	BindingService *service.BindingService
	Logger         *zap.SugaredLogger
}

// NewBindingHandler создаёт хендлер привязок.
func NewBindingHandler(bindingService *service.BindingService, logger *zap.SugaredLogger) *BindingHandler {
	return &BindingHandler{BindingService: bindingService, Logger: logger}
}

type bindingDTO struct {
	ID                string `json:"id"`
	AccountAID        string `json:"accountAId"`
	AccountBID        string `json:"accountBId"`
	BindingStatus     string `json:"bindingStatus"`
	Permissions       string `json:"permissions"`
	BoundAccountEmail string `json:"boundAccountEmail,omitempty"`
	RequesterEmail    string `json:"requesterEmail,omitempty"`
	CreatedAt         string `json:"createdAt"`
	UpdatedAt         string `json:"updatedAt"`
}

func toBindingDTO(b model.BindingWithEmail) bindingDTO {
	return bindingDTO{
		ID:                b.ID,
		AccountAID:        b.AccountAID,
		AccountBID:        b.AccountBID,
		BindingStatus:     b.BindingStatus,
		Permissions:       b.Permissions,
		BoundAccountEmail: b.BoundAccountEmail,
		RequesterEmail:    b.RequesterEmail,
		CreatedAt:         b.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:         b.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// Bind создаёт pending-запрос привязки к владельцу targetEmail.
func (h *BindingHandler) Bind(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetAccountFromContext(r.Context())

	var req struct {
		TargetEmail string `json:"targetEmail"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TargetEmail == "" {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	b, err := h.BindingService.RequestBinding(r.Context(), user, req.TargetEmail)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSelfBinding):
			writeError(w, http.StatusBadRequest, "cannot bind own account")
		case errors.Is(err, service.ErrTargetNotFound):
			writeError(w, http.StatusNotFound, "target account not found")
		case errors.Is(err, service.ErrBindingExists):
			writeError(w, http.StatusConflict, "binding already exists")
		default:
			h.Logger.Errorw("Bind: service error", "user_id", user.ID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "binding request sent",
		"bindingId": b.ID,
	})
}

// List возвращает активные исходящие привязки и входящие pending-запросы —
// два раздельных списка.
func (h *BindingHandler) List(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetAccountFromContext(r.Context())

	active, pending, err := h.BindingService.ListBindings(r.Context(), user.ID)
	if err != nil {
		h.Logger.Errorw("ListBindings: service error", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	bindings := make([]bindingDTO, 0, len(active))
	for _, b := range active {
		bindings = append(bindings, toBindingDTO(b))
	}
	requests := make([]bindingDTO, 0, len(pending))
	for _, b := range pending {
		requests = append(requests, toBindingDTO(b))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"bindings":        bindings,
		"pendingRequests": requests,
	})
}

// Accept принимает входящий pending-запрос.
func (h *BindingHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, "binding accepted", h.BindingService.AcceptBinding)
}

// Reject отклоняет входящий pending-запрос (запись удаляется).
func (h *BindingHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, "binding rejected", h.BindingService.RejectBinding)
}

// Unbind разрывает привязку; доступно обеим сторонам в любом статусе.
func (h *BindingHandler) Unbind(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, "binding removed", h.BindingService.Unbind)
}

// UpdatePermissions меняет право доступа привязки (только инициатор).
func (h *BindingHandler) UpdatePermissions(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetAccountFromContext(r.Context())
	bindingID := chi.URLParam(r, "id")

	var req struct {
		Permissions string `json:"permissions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Permissions == "" {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	err := h.BindingService.UpdatePermissions(r.Context(), user.ID, bindingID, req.Permissions)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPermission):
			writeError(w, http.StatusBadRequest, "invalid permission value")
		case errors.Is(err, service.ErrBindingNotFound):
			writeError(w, http.StatusNotFound, "binding not found")
		default:
			h.Logger.Errorw("UpdatePermissions: service error", "user_id", user.ID, "binding_id", bindingID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "permissions updated"})
}

// resolve — общий каркас accept/reject/unbind: единый маппинг ошибок,
// в том числе 404 без различения "нет" и "чужая".
func (h *BindingHandler) resolve(w http.ResponseWriter, r *http.Request, okMsg string, op func(ctx context.Context, accountID, bindingID string) error) {
	user, _ := middleware.GetAccountFromContext(r.Context())
	bindingID := chi.URLParam(r, "id")

	if err := op(r.Context(), user.ID, bindingID); err != nil {
		if errors.Is(err, service.ErrBindingNotFound) {
			writeError(w, http.StatusNotFound, "binding not found")
			return
		}
		h.Logger.Errorw("Binding: service error", "user_id", user.ID, "binding_id", bindingID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": okMsg})
}
