package main

import (
	"context"
	"crypto/sha256"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/cyberpit/site/internal/config"
	"github.com/cyberpit/site/internal/crud"
	"github.com/cyberpit/site/internal/handler"
	"github.com/cyberpit/site/internal/logging"
	"github.com/cyberpit/site/internal/repository"
	"github.com/cyberpit/site/internal/service"
	"github.com/cyberpit/site/pkg/api"
	"github.com/cyberpit/site/pkg/auth"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	_ = godotenv.Load()
	logging.Setup()

	cfg := config.Load()
	cfg.LogBackend()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	snapshots, db, closeStore := openSnapshots(ctx, cfg)
	defer closeStore()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	client := api.New(api.Config{
		BaseURL:       cfg.BackendURL,
		Timeout:       cfg.BackendTimeout,
		UploadTimeout: cfg.UploadTimeout,
		Tokens:        api.TokenFunc(auth.TokenFromContext),
		Metrics:       api.NewMetrics(reg),
	})

	if cfg.Production() && cfg.SessionSecret == "dev-secret-change-in-production-32bytes" {
		slog.Warn("production server is using the development session secret")
	}
	gate := auth.NewGate(auth.SecretBytes(cfg.SessionSecret), cfg.Production())
	// CSRF トークン用の鍵はセッション鍵から導出する
	csrfKey := sha256.Sum256([]byte("csrf:" + cfg.SessionSecret))

	views := crud.NewViewStore(cfg.ViewTTL)
	go views.Run(ctx, time.Minute)

	backend := service.NewBackend(client)
	srv, err := handler.New(handler.Options{
		Content:         service.NewContentService(backend, snapshots),
		Submissions:     service.NewSubmissionService(backend),
		Client:          client,
		Gate:            gate,
		Views:           views,
		DB:              db,
		Metrics:         promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		RateLimitPerMin: cfg.RateLimitPerMin,
		BlogEnabled:     cfg.BlogRouteEnabled,
		AcademyURL:      cfg.AcademyURL,
		CSRFKey:         csrfKey[:],
		SecureCookies:   cfg.Production(),
	})
	if err != nil {
		logging.Fatal("failed to build handlers", "error", err)
	}

	// アップロードは UploadTimeout まで許容する
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.UploadTimeout,
		WriteTimeout:      cfg.UploadTimeout + 30*time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr, "env", cfg.Env, "blog", cfg.BlogRouteEnabled)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server error", "error", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

// openSnapshots returns the page snapshot store selected by SNAPSHOT_BACKEND.
// db is nil for the in-memory store.
func openSnapshots(ctx context.Context, cfg config.App) (repository.SnapshotRepository, repository.DB, func()) {
	switch cfg.SnapshotBackend {
	case "postgres":
		pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logging.Fatal("failed to connect to database", "error", err)
		}
		slog.Info("page snapshots in postgres")
		return repository.NewPgSnapshotRepository(pool), pool, pool.Close
	case "redis":
		client, err := repository.NewRedis(ctx, repository.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			logging.Fatal("failed to connect to redis", "error", err)
		}
		slog.Info("page snapshots in redis", "addr", cfg.RedisAddr)
		return repository.NewRedisSnapshotRepository(client, 7*24*time.Hour), repository.RedisDB(client), func() { _ = client.Close() }
	default:
		if cfg.SnapshotBackend != "memory" {
			slog.Warn("unknown snapshot backend, using memory", "backend", cfg.SnapshotBackend)
		}
		return repository.NewMemorySnapshotRepository(), nil, func() {}
	}
}
