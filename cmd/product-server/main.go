package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"

	"github.com/maltedev/amazon-product-cards/internal/api"
	"github.com/maltedev/amazon-product-cards/internal/cache"
	"github.com/maltedev/amazon-product-cards/internal/config"
	"github.com/maltedev/amazon-product-cards/internal/paapi"
	"github.com/maltedev/amazon-product-cards/internal/product"
	"github.com/maltedev/amazon-product-cards/internal/ratelimit"
	"github.com/maltedev/amazon-product-cards/internal/scraper"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := newLogger(cfg.Logging)
	logger.Info("starting product card server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("shutdown signal received")
		cancel()
	}()

	productCache, err := newCache(ctx, cfg.Cache)
	if err != nil {
		logger.Error("failed to set up cache", "error", err)
		os.Exit(1)
	}
	logger.Info("cache ready", "backend", cfg.Cache.Backend, "ttl", cfg.Cache.TTL)

	var apiFetcher product.APIFetcher
	if cfg.Credentials.Configured() {
		apiFetcher = paapi.NewClient(cfg.Credentials, logger)
		logger.Info("product advertising api enabled", "region", cfg.Credentials.Region)
	} else {
		logger.Info("no api credentials configured, scrape path only")
	}

	scraperOpts := scraper.Options{
		Timeout:      cfg.Scraper.Timeout,
		MaxRedirects: cfg.Scraper.MaxRedirects,
	}
	if cfg.Scraper.MinInterval > 0 {
		scraperOpts.Limiter = ratelimit.NewIntervalLimiter(cfg.Scraper.MinInterval, cfg.Scraper.MaxInterval)
	}
	pageScraper := scraper.New(scraperOpts, logger)

	service := product.NewService(productCache, apiFetcher, pageScraper, logger)
	handlers := api.NewHandlers(service, logger)

	router := chi.NewRouter()
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	router.Mount("/", handlers.Routes())

	server := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
	logger.Info("server stopped")
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func newCache(ctx context.Context, cfg config.CacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case config.CacheBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
			DB:   cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, err
		}
		return cache.NewRedisCache(client, cfg.TTL), nil
	case config.CacheBackendPostgres:
		return cache.NewPostgresCache(ctx, cfg.PostgresDSN, cfg.TTL)
	default:
		return cache.NewMemoryCache(cfg.TTL), nil
	}
}
