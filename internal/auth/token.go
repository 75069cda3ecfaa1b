package auth

import (
	"PassKeeper/internal/model"
	"PassKeeper/internal/repo"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Ошибки аутентификации. Хендлеры отвечают на все четыре кодом 401.
var (
	ErrTokenMissing      = errors.New("token missing")
	ErrTokenExpired      = errors.New("token expired")
	ErrTokenInvalid      = errors.New("token invalid")
	ErrPrincipalNotFound = errors.New("principal not found")
)

// Claims — полезная нагрузка JWT: id пользователя плюс стандартный exp.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Gateway выпускает bearer-токены и резолвит по ним учётную запись запроса.
// Проверка stateless: состояние не пишется, подпись HS256 на серверном секрете.
type Gateway struct {
	secret string
	ttl    time.Duration
	users  repo.UserRepository
}

// NewGateway создаёт шлюз аутентификации.
func NewGateway(secret string, ttl time.Duration, users repo.UserRepository) *Gateway {
	return &Gateway{secret: secret, ttl: ttl, users: users}
}

// IssueToken подписывает токен для пользователя.
// Возвращает токен и срок его жизни в секундах.
func (g *Gateway) IssueToken(userID string) (string, int64, error) {
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(g.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(g.secret))
	if err != nil {
		return "", 0, fmt.Errorf("sign token: %w", err)
	}
	return signed, int64(g.ttl.Seconds()), nil
}

// ResolvePrincipal проверяет токен и возвращает учётную запись его владельца.
func (g *Gateway) ResolvePrincipal(ctx context.Context, tokenString string) (*model.User, error) {
	if tokenString == "" {
		return nil, ErrTokenMissing
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(g.secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid || claims.UserID == "" {
		return nil, ErrTokenInvalid
	}

	user, err := g.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPrincipalNotFound
		}
		return nil, err
	}
	return user, nil
}
