package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vapeshop-be/internal/config"
	"vapeshop-be/internal/db"
	"vapeshop-be/internal/facet"
	"vapeshop-be/internal/filterstore"
	"vapeshop-be/internal/handler"
	"vapeshop-be/internal/logger"
	"vapeshop-be/internal/metrics"
	"vapeshop-be/internal/middleware"
	"vapeshop-be/internal/product"

	"go.uber.org/zap"
)

var (
	initDBFunc      = db.InitDB
	startServerFunc = startServer
	connectRedis    = filterstore.Connect
)

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}

func run() error {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database := initDBFunc(cfg)
	defer database.Close()

	router, err := newServer(ctx, cfg, database)
	if err != nil {
		return err
	}

	addr := ":" + cfg.AppPort
	logger.L().Info("🚀 filter service running", zap.String("addr", addr), zap.String("env", cfg.AppEnv))
	return startServerFunc(ctx, addr, router)
}

// newServer wires the filter service on top of database and returns the
// full middleware chain.
func newServer(ctx context.Context, cfg *config.Config, database *sql.DB) (http.Handler, error) {
	store, err := newStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	classifier := facet.DefaultClassifier()
	if cfg.FlavorProfilesPath != "" {
		classifier, err = facet.LoadClassifier(cfg.FlavorProfilesPath)
		if err != nil {
			return nil, err
		}
		logger.L().Info("loaded flavor profiles", zap.String("path", cfg.FlavorProfilesPath))
	}

	mode, err := facet.ParseCountMode(cfg.CountMode)
	if err != nil {
		return nil, err
	}

	m := &metrics.FilterMetrics{}
	catalog := product.NewCatalog(product.NewRepository(database), cfg.CatalogTTL)
	svc := facet.NewService(catalog, facet.NewSession(store, m), facet.NewEngine(classifier, mode), m)

	limiter := middleware.NewRateLimiter(cfg.InternalSecretKey)
	go limiter.Cleanup(ctx, time.Minute, 3*time.Minute)

	router := setupRouter(handler.NewFilterHandler(svc))

	var h http.Handler = router
	h = limiter.Middleware(h)
	h = logger.LoggingMiddleware(h)
	h = middleware.SessionMiddleware(h)
	h = middleware.AuthMiddleware([]byte(cfg.SecretKey))(h)
	h = logger.RequestIDMiddleware(h)
	h = middleware.CORS(cfg.CORSOrigin)(h)
	return h, nil
}

func newStore(ctx context.Context, cfg *config.Config) (filterstore.Store, error) {
	switch cfg.FilterStore {
	case config.StoreMemory, "":
		return filterstore.NewMemoryStore(), nil
	case config.StoreRedis:
		client, err := connectRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return filterstore.NewRedisStore(client, cfg.FilterTTL), nil
	}
	return nil, fmt.Errorf("unknown FILTER_STORE %q", cfg.FilterStore)
}

func setupRouter(filters *handler.FilterHandler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	filters.Register(mux)

	return mux
}

func startServer(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.L().Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
