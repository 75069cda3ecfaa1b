package handlers

import (
	"PassKeeper/internal/auth"
	"PassKeeper/internal/middleware"
	"PassKeeper/internal/service"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// UserHandler обрабатывает регистрацию, вход и профиль.
type UserHandler struct {
	UserService *service.UserService
	Gateway     *auth.Gateway
	Logger      *zap.SugaredLogger
}

// NewUserHandler создаёт хендлер пользователей.
func NewUserHandler(userService *service.UserService, gateway *auth.Gateway, logger *zap.SugaredLogger) *UserHandler {
	return &UserHandler{UserService: userService, Gateway: gateway, Logger: logger}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register регистрирует пользователя и сразу выдаёт токен.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	user, err := h.UserService.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			writeError(w, http.StatusConflict, "email already registered")
			return
		}
		h.Logger.Errorw("Register: service error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	token, expiresIn, err := h.Gateway.IssueToken(user.ID)
	if err != nil {
		h.Logger.Errorw("Register: token issue failed", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"userId":    user.ID,
		"token":     token,
		"expiresIn": expiresIn,
	})
}

// Login проверяет учётные данные и выдаёт токен.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	user, err := h.UserService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		h.Logger.Errorw("Login: service error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	token, expiresIn, err := h.Gateway.IssueToken(user.ID)
	if err != nil {
		h.Logger.Errorw("Login: token issue failed", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"userId":    user.ID,
		"email":     user.Email,
		"token":     token,
		"expiresIn": expiresIn,
	})
}

// Me возвращает профиль владельца токена.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetAccountFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing access token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":        user.ID,
		"email":     user.Email,
		"createdAt": user.CreatedAt.UTC().Format(time.RFC3339),
	})
}
