package handlers

import (
	"PassKeeper/internal/auth"
	"PassKeeper/internal/middleware"
	"PassKeeper/internal/service"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров: публичные маршруты и защищённая
// зона за bearer-аутентификацией.
func NewHandler(
	userService *service.UserService,
	bindingService *service.BindingService,
	passwordService *service.PasswordService,
	gateway *auth.Gateway,
	logger *zap.SugaredLogger,
) *Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)

	// Handlers
	userHandler := NewUserHandler(userService, gateway, logger)
	bindingHandler := NewBindingHandler(bindingService, logger)
	passwordHandler := NewPasswordHandler(passwordService, logger)

	// Public routes
	r.Post("/register", userHandler.Register)
	r.Post("/login", userHandler.Login)
	r.Get("/health", Health)

	// Protected routes
	r.Group(func(pr chi.Router) {
		pr.Use(middleware.WithAuth(gateway))

		pr.Get("/user", userHandler.Me)

		pr.Post("/accounts/bind", bindingHandler.Bind)
		pr.Get("/accounts/bindings", bindingHandler.List)
		pr.Post("/accounts/bindings/{id}/accept", bindingHandler.Accept)
		pr.Post("/accounts/bindings/{id}/reject", bindingHandler.Reject)
		pr.Delete("/accounts/bindings/{id}", bindingHandler.Unbind)
		pr.Put("/accounts/bindings/{id}/permissions", bindingHandler.UpdatePermissions)

		pr.Post("/add", passwordHandler.Add)
		pr.Post("/passwords", passwordHandler.Add)
		pr.Get("/passwords", passwordHandler.List)
		pr.Get("/passwords/shared", passwordHandler.ListShared)
		pr.Post("/passwords/sync", passwordHandler.Sync)
		pr.Get("/passwords/{id}", passwordHandler.Get)
		pr.Put("/passwords/{id}", passwordHandler.Update)
		pr.Delete("/passwords/{id}", passwordHandler.Delete)

		pr.Post("/import", passwordHandler.Import)
		pr.Post("/import/txt", passwordHandler.ImportTxt)
		pr.Post("/batch_delete", passwordHandler.BatchDelete)
	})

	return &Handler{Router: r}
}

// Health — проверка живости сервиса.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}
