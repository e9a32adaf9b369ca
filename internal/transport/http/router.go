package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pribylovaa/go-content-comments/internal/transport/http/handlers"
	"github.com/pribylovaa/go-content-comments/internal/transport/http/middleware"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger   *slog.Logger
	Timeout  time.Duration
	Verifier middleware.TokenVerifier
	// Registerer — куда регистрировать HTTP-метрики; nil отключает их.
	Registerer prometheus.Registerer
	BasePath   string // например, "/api"; если пустой — роуты регистрируются на корне.
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc handlers.CommentService, opts Options) http.Handler {
	root := chi.NewRouter()

	// Внутри chi — то, что зависит от маршрута или actor'а.
	if opts.Registerer != nil {
		root.Use(middleware.Metrics(opts.Registerer))
	}
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout)) // общий дедлайн запроса
	}
	if opts.Verifier != nil {
		root.Use(middleware.Authenticate(opts.Verifier)) // Bearer JWT -> actor в контексте
	}

	h := handlers.New(svc)

	if opts.BasePath != "" {
		sub := chi.NewRouter()
		registerRoutes(sub, h)
		root.Mount(opts.BasePath, sub)
	} else {
		registerRoutes(root, h)
	}

	// Снаружи chi (внешний -> внутренний): паники, X-Request-Id, request-scoped логгер.
	return middleware.Chain(root,
		middleware.Recover(opts.Logger),
		middleware.RequestID(),
		middleware.Logging(opts.Logger),
	)
}

// registerRoutes — единая точка регистрации всех REST-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers) {
	r.Route("/comments", func(r chi.Router) {
		r.Post("/", h.CreateComment)
		r.Get("/by-content", h.ListByContent)
		r.Get("/{id}", h.GetCommentByID)
		r.Post("/{id}/replies", h.AddReply)
		r.Put("/{id}", h.EditComment)
		r.Delete("/{id}", h.DeleteComment)
	})
}
