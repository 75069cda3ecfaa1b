package middleware

import (
	"PassKeeper/internal/auth"
	"PassKeeper/internal/model"
	"context"
	"errors"
	"net/http"
	"strings"
)

type contextKey string

const principalKey contextKey = "principal"

// WithAuth проверяет заголовок Authorization: Bearer <token> и кладёт
// учётную запись в контекст запроса. Любая ошибка аутентификации — 401,
// следующий хендлер не вызывается.
func WithAuth(gw *auth.Gateway) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var token string
			if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
				token = strings.TrimPrefix(h, "Bearer ")
			}

			user, err := gw.ResolvePrincipal(r.Context(), token)
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrTokenMissing):
					writeAuthError(w, "missing access token")
				case errors.Is(err, auth.ErrTokenExpired):
					writeAuthError(w, "access token expired")
				case errors.Is(err, auth.ErrTokenInvalid), errors.Is(err, auth.ErrPrincipalNotFound):
					writeAuthError(w, "invalid access token")
				default:
					logger.Errorw("auth: principal lookup failed", "error", err)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_, _ = w.Write([]byte(`{"message":"internal error"}`))
				}
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeAuthError(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"message":"` + msg + `"}`))
}

// GetAccountFromContext возвращает учётную запись текущего запроса.
func GetAccountFromContext(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(principalKey).(*model.User)
	return u, ok
}
