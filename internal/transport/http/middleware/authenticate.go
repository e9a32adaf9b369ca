package middleware

import (
	"net/http"
	"strings"

	"github.com/pribylovaa/go-content-comments/internal/auth"
	"github.com/pribylovaa/go-content-comments/internal/models"
	apierrors "github.com/pribylovaa/go-content-comments/internal/transport/http/errors"
	logctx "github.com/pribylovaa/go-content-comments/pkg/log"
)

// TokenVerifier превращает bearer-токен в actor.
type TokenVerifier interface {
	Verify(token string) (models.Actor, error)
}

// Authenticate определяет actor запроса по заголовку Authorization.
//   - заголовка нет или схема не Bearer — запрос анонимный (создание и ответы это допускают);
//   - Bearer с невалидным/просроченным токеном — сразу 401, до обработчика запрос не доходит;
//   - валидный токен — actor кладётся в контекст (auth.WithActor), пользователь — в логгер.
func Authenticate(v TokenVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const prefix = "Bearer "

			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, prefix) {
				next.ServeHTTP(w, r)
				return
			}

			token := strings.TrimSpace(header[len(prefix):])
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			actor, err := v.Verify(token)
			if err != nil {
				logctx.From(r.Context()).Warn("token rejected", "err", err)
				apierrors.WriteError(w, r, err)
				return
			}

			ctx := auth.WithActor(r.Context(), actor)
			ctx = logctx.With(ctx, "user", actor.Username, "admin", actor.IsAdmin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
