package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/DukeRupert/skybooker/internal"
	"github.com/DukeRupert/skybooker/internal/cache"
	"github.com/DukeRupert/skybooker/internal/csrf"
	"github.com/DukeRupert/skybooker/internal/domain"
	"github.com/DukeRupert/skybooker/internal/email"
	"github.com/DukeRupert/skybooker/internal/handler"
	"github.com/DukeRupert/skybooker/internal/jobs"
	"github.com/DukeRupert/skybooker/internal/metrics"
	"github.com/DukeRupert/skybooker/internal/middleware"
	"github.com/DukeRupert/skybooker/internal/navigation"
	"github.com/DukeRupert/skybooker/internal/repository"
	"github.com/DukeRupert/skybooker/internal/service"
	"github.com/DukeRupert/skybooker/internal/storage"
	"github.com/DukeRupert/skybooker/internal/theme"
	"github.com/DukeRupert/skybooker/internal/worker"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize database connection
	db, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	// Run migrations (schema and seed data)
	if err := internal.RunMigrations(ctx, db, logger); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database ready")

	repo := repository.New(db)

	// Read-model cache
	readCache, err := newCache(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("cache initialization failed: %w", err)
	}
	defer readCache.Close()

	// Asset storage
	store, err := storage.New(storage.Config{
		Provider: cfg.StorageProvider,
		Local: storage.LocalConfig{
			BasePath: cfg.LocalStoragePath,
			BaseURL:  cfg.LocalStorageURL,
		},
		R2: storage.R2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicURL:       cfg.R2PublicURL,
			Endpoint:        cfg.R2Endpoint,
		},
	}, logger)
	if err != nil {
		return fmt.Errorf("storage initialization failed: %w", err)
	}
	logger.Info("Storage ready", "provider", cfg.StorageProvider)

	// Navigation categories
	categories, err := navigation.Load(cfg.NavConfigPath)
	if err != nil {
		return fmt.Errorf("navigation config failed: %w", err)
	}

	// Email delivery
	mailer, err := newMailer(cfg, logger)
	if err != nil {
		return fmt.Errorf("email initialization failed: %w", err)
	}
	bookingNotifier := jobs.NewBookingEmailNotifier(repo, logger)

	// Initialize services
	flightService := service.NewFlightService(repo, readCache, cfg.CacheTTL, logger)
	bookingService := service.NewBookingService(repo, bookingNotifier, logger)
	postService := service.NewPostService(repo, logger)
	assetService := service.NewAssetService(store, logger)

	// Background worker
	workerCfg := worker.DefaultConfig()
	workerCfg.Concurrency = cfg.WorkerConcurrency
	bgWorker, err := worker.New(repo, workerCfg, logger)
	if err != nil {
		return fmt.Errorf("worker initialization failed: %w", err)
	}
	bgWorker.Register(jobs.NewRenderThumbnailsHandler(assetService, logger))
	bgWorker.Register(jobs.NewSendBookingEmailHandler(bookingService, mailer, cfg.BaseURL, logger))

	workerCtx, stopWorker := context.WithCancel(ctx)
	defer stopWorker()
	bgWorker.Start(workerCtx)

	if err := enqueueThumbnailWarmup(ctx, repo, flightService, assetService, logger); err != nil {
		logger.Warn("Thumbnail warm-up not queued", "error", err)
	}

	// Initialize middleware
	isSecure := cfg.IsSecure()
	requestLogger := middleware.NewRequestLoggingMiddleware(logger)
	securityHeaders := middleware.NewSecurityHeadersMiddleware(isSecure, assetOrigins(cfg)...)
	metricsAuth := middleware.NewMetricsAuthMiddleware(cfg.MetricsUsername, cfg.MetricsPassword)
	if !metricsAuth.Enabled() {
		logger.Warn("Metrics endpoint is not protected; set METRICS_USERNAME and METRICS_PASSWORD")
	}

	bookingLimiter := middleware.NewRateLimiter(cfg.BookingRateLimit, cfg.BookingRateWindow, logger)
	defer bookingLimiter.Close()
	bookingRateLimit := middleware.NewRateLimitMiddleware(bookingLimiter, logger, handler.ErrorResponder(logger))

	trustedProxies, err := middleware.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return fmt.Errorf("TRUSTED_PROXIES: %w", err)
	}
	realIP := middleware.NewRealIPMiddleware(trustedProxies)

	// Initialize handlers
	renderer := handler.NewRenderer(theme.Default(), categories, logger)
	flightHandler := handler.NewFlightHandler(flightService, assetService, renderer, logger)
	navHandler := handler.NewNavHandler(renderer, logger)
	bookingHandler := handler.NewBookingHandler(bookingService, flightService, renderer, logger, isSecure)
	postHandler := handler.NewPostHandler(postService, renderer, logger)
	assetHandler := handler.NewAssetHandler(assetService, logger)

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	mux := http.NewServeMux()

	// Static files
	staticFS := http.FileServer(http.Dir("web/static"))
	mux.Handle("GET /static/", http.StripPrefix("/static/", staticFS))

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus metrics
	mux.Handle("GET /metrics", metricsAuth.Handler(promhttp.Handler()))

	flightHandler.RegisterRoutes(mux)
	navHandler.RegisterRoutes(mux)
	bookingHandler.RegisterRoutes(mux, csrf.Protect(logger), bookingRateLimit.Limit)
	postHandler.RegisterRoutes(mux)
	assetHandler.RegisterRoutes(mux)

	stack := middleware.Stack(
		realIP.Handler,
		metrics.Middleware,
		requestLogger.Handler,
		securityHeaders.Handler,
	)

	// ==========================================================================
	// Start server
	// ==========================================================================

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           stack(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		logger.Info("Server started", "address", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
		}
	}()

	// Wait for interrupt signal
	<-sigChan
	logger.Info("Shutdown signal received, initiating graceful shutdown...")

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	bgWorker.Stop()
	stopWorker()

	logger.Info("Graceful shutdown complete")
	return nil
}

// newCache builds the cache backend named by CACHE_PROVIDER.
func newCache(ctx context.Context, cfg *internal.Config, logger *slog.Logger) (cache.Cache, error) {
	base := &cache.Config{DefaultTTL: cfg.CacheTTL, Prefix: cache.DefaultConfig().Prefix}

	if cfg.CacheProvider != "redis" {
		logger.Info("Cache ready", "provider", "memory")
		return cache.NewMemoryCache(base), nil
	}

	redisCfg := cache.DefaultRedisConfig()
	redisCfg.Config = base
	redisCfg.Addr = cfg.RedisAddr
	redisCfg.Password = cfg.RedisPassword
	redisCfg.DB = cfg.RedisDB

	rc, err := cache.NewRedisCache(ctx, redisCfg, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("Cache ready", "provider", "redis", "addr", cfg.RedisAddr)
	return rc, nil
}

// newMailer sends through SMTP when SMTP_HOST is set and logs otherwise.
func newMailer(cfg *internal.Config, logger *slog.Logger) (email.Mailer, error) {
	if cfg.SMTPHost == "" {
		logger.Info("Email ready", "provider", "log")
		return email.NewLogService(logger)
	}

	mailer, err := email.NewSMTPService(email.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		FromName: cfg.SMTPFromName,
	}, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("Email ready", "provider", "smtp", "host", cfg.SMTPHost)
	return mailer, nil
}

// enqueueThumbnailWarmup queues the renditions the flights page links to
// that are not stored yet.
func enqueueThumbnailWarmup(
	ctx context.Context,
	queue worker.Enqueuer,
	flights service.FlightService,
	assets service.AssetService,
	logger *slog.Logger,
) error {
	places, err := flights.Places(ctx)
	if err != nil {
		return err
	}

	keys := []string{handler.PromoImageKey}
	for _, p := range places {
		keys = append(keys, p.ImageKey)
	}
	sizes := []domain.ImageSize{domain.SizePlace, domain.SizeCard}

	keys, err = assets.Unrendered(ctx, keys, sizes)
	if err != nil {
		return err
	}

	names := make([]string, len(sizes))
	for i, size := range sizes {
		names[i] = size.String()
	}

	_, queued, err := worker.EnqueueRenderThumbnails(ctx, queue, keys, names, worker.WithPriority(worker.PriorityLow))
	if err != nil {
		return err
	}
	if !queued {
		logger.Debug("Thumbnail warm-up skipped; all renditions stored")
	}
	return nil
}

// assetOrigins lists the remote origins images may load from.
func assetOrigins(cfg *internal.Config) []string {
	if cfg.StorageProvider == storage.ProviderR2 && cfg.R2PublicURL != "" {
		return []string{cfg.R2PublicURL}
	}
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
