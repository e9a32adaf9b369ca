// Package auth проверяет access-токены (HS256 JWT), выпущенные сервисом
// аутентификации, и превращает их в models.Actor.
package auth

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pribylovaa/go-content-comments/internal/config"
	"github.com/pribylovaa/go-content-comments/internal/models"
)

var (
	// ErrInvalidToken — подпись, формат, issuer/audience или обязательные поля не сошлись.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired — срок действия токена истёк.
	ErrTokenExpired = errors.New("token expired")
)

// Claims — полезная нагрузка access-токена.
// Username пустой — берётся sub.
type Claims struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}

// Verifier проверяет токены и определяет роль администратора.
type Verifier struct {
	secret    []byte
	issuer    string
	audience  []string
	adminRole string
}

// NewVerifier создаёт Verifier по секции auth конфигурации.
func NewVerifier(cfg config.AuthConfig) *Verifier {
	return &Verifier{
		secret:    []byte(cfg.JWTSecret),
		issuer:    cfg.Issuer,
		audience:  cfg.Audience,
		adminRole: cfg.AdminRole,
	}
}

// Verify разбирает токен и возвращает actor.
func (v *Verifier) Verify(tokenStr string) (models.Actor, error) {
	const op = "auth/Verify"

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(5 * time.Second),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if len(v.audience) > 0 {
		opts = append(opts, jwt.WithAudience(v.audience...))
	}

	token, err := jwt.ParseWithClaims(tokenStr, &Claims{},
		func(t *jwt.Token) (interface{}, error) {
			return v.secret, nil
		},
		opts...,
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return models.Actor{}, fmt.Errorf("%s: %w", op, ErrTokenExpired)
		}

		return models.Actor{}, fmt.Errorf("%s: %w: %w", op, ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return models.Actor{}, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	username := strings.TrimSpace(claims.Username)
	if username == "" {
		username = strings.TrimSpace(claims.Subject)
	}
	if username == "" {
		return models.Actor{}, fmt.Errorf("%s: %w: empty username", op, ErrInvalidToken)
	}

	return models.Actor{
		Username: username,
		IsAdmin:  slices.Contains(claims.Roles, v.adminRole),
	}, nil
}

// Sign выпускает токен с теми же issuer/audience; нужен для локального запуска и тестов.
func (v *Verifier) Sign(username string, roles []string, ttl time.Duration) (string, error) {
	const op = "auth/Sign"

	now := time.Now().UTC()
	claims := Claims{
		Username: username,
		Roles:    roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    v.issuer,
			Subject:   username,
			Audience:  jwt.ClaimStrings(v.audience),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}

type ctxKey struct{}

// WithActor кладёт actor запроса в контекст.
func WithActor(ctx context.Context, a models.Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}

// ActorFrom достаёт actor из контекста; отсутствие означает анонимный запрос.
func ActorFrom(ctx context.Context) models.Actor {
	a, _ := ctx.Value(ctxKey{}).(models.Actor)
	return a
}
