package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	logctx "github.com/pribylovaa/go-content-comments/pkg/log"
)

// Timeout ограничивает обработку запроса сроком d, если у контекста ещё нет deadline.
// d <= 0 — no-op. Запрос, упёршийся в свой срок, отмечается в логе запроса:
// клиент при этом получает 504 от errors.WriteError.
func Timeout(d time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := r.Context().Deadline(); ok {
				next.ServeHTTP(w, r)
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))

			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				logctx.From(ctx).LogAttrs(ctx, slog.LevelWarn, "request deadline exceeded",
					slog.Duration("timeout", d),
				)
			}
		})
	}
}
