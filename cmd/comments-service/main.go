package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pribylovaa/go-content-comments/internal/auth"
	"github.com/pribylovaa/go-content-comments/internal/catalog"
	pgcatalog "github.com/pribylovaa/go-content-comments/internal/catalog/postgres"
	rediscache "github.com/pribylovaa/go-content-comments/internal/catalog/redis"
	"github.com/pribylovaa/go-content-comments/internal/config"
	"github.com/pribylovaa/go-content-comments/internal/service"
	"github.com/pribylovaa/go-content-comments/internal/storage"
	"github.com/pribylovaa/go-content-comments/internal/storage/memory"
	csmongo "github.com/pribylovaa/go-content-comments/internal/storage/mongo"
	transporthttp "github.com/pribylovaa/go-content-comments/internal/transport/http"
)

// Константы окружения (как в остальных сервисах).
const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file (overrides CONFIG_PATH env)")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)
	log.Info("starting comments-service", "env", cfg.Env, "storage", cfg.Storage.Driver)

	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer rootCancel()

	if err := run(rootCtx, cfg, log); err != nil {
		log.Error("service_failed", slog.String("err", err.Error()))
		rootCancel()
		os.Exit(1)
	}

	log.Info("service_stopped")
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	store, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close(context.Background()) }()
	log.Info("storage_ready", "driver", cfg.Storage.Driver)

	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	pg, err := pgcatalog.New(dbCtx, cfg.Catalog.URL)
	dbCancel()
	if err != nil {
		return err
	}
	defer pg.Close()
	log.Info("catalog_connected")

	var checker catalog.Checker = pg
	if cfg.Cache.URL != "" {
		rdb, err := rediscache.NewClient(ctx, cfg.Cache.URL)
		if err != nil {
			return err
		}
		defer func() { _ = rdb.Close() }()

		checker = rediscache.New(rdb, pg, cfg.Cache.TTL, cfg.Cache.Prefix)
		log.Info("catalog_cache_enabled", "ttl", cfg.Cache.TTL)
	}

	svc := service.New(store, checker)
	log.Info("service_initialized")

	api := transporthttp.NewRouter(svc, transporthttp.Options{
		Logger:     log,
		Timeout:    cfg.Timeouts.Service,
		Verifier:   auth.NewVerifier(cfg.Auth),
		Registerer: prometheus.DefaultRegisterer,
		BasePath:   "/api",
	})

	// HTTP readiness/liveness/metrics + REST API на одном listener.
	var ready int32 // 0 — not ready; 1 — ready

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/healthz", healthz(&ready, store))
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/api/", api)

	addr := cfg.HTTP.Addr()
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErrCh := make(chan error, 1)
	go func() {
		log.Info("http_listen_start", "addr", addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
		close(serveErrCh)
	}()

	atomic.StoreInt32(&ready, 1)

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown_requested")
	case serveErr = <-serveErrCh:
		if serveErr != nil {
			log.Error("http_serve_failed", slog.String("err", serveErr.Error()))
		}
	}

	atomic.StoreInt32(&ready, 0)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Timeouts.Shutdown)
	defer shutdownCancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http_force_stop", slog.String("err", err.Error()))
		_ = httpSrv.Close()
	}

	return serveErr
}

// pinger — хранилище, умеющее проверить соединение (MongoDB).
type pinger interface {
	Ping(ctx context.Context) error
}

// healthz отвечает 200, когда сервис принимает запросы и хранилище отвечает.
// Хранилище без Ping (memory) проверяется только по флагу.
func healthz(ready *int32, store any) http.HandlerFunc {
	p, _ := store.(pinger)

	return func(w http.ResponseWriter, r *http.Request) {
		if atomic.LoadInt32(ready) != 1 {
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}

		if p != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()

			if err := p.Ping(ctx); err != nil {
				slog.Default().Warn("healthz_storage_unavailable", slog.String("err", err.Error()))
				http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}

// openStorage выбирает хранилище комментариев по storage.driver.
func openStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		return memory.New(), nil
	default:
		dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
		defer dbCancel()

		return csmongo.New(dbCtx, cfg)
	}
}

// setupLogger — тот же подход, что в остальных сервисах.
func setupLogger(env string) *slog.Logger {
	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
