package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/time/rate"

	"github.com/dukerupert/route66/internal"
	"github.com/dukerupert/route66/internal/auth"
	"github.com/dukerupert/route66/internal/bootstrap"
	"github.com/dukerupert/route66/internal/cookie"
	"github.com/dukerupert/route66/internal/email"
	"github.com/dukerupert/route66/internal/handler"
	"github.com/dukerupert/route66/internal/handler/admin"
	"github.com/dukerupert/route66/internal/handler/storefront"
	"github.com/dukerupert/route66/internal/middleware"
	"github.com/dukerupert/route66/internal/repository"
	"github.com/dukerupert/route66/internal/router"
	"github.com/dukerupert/route66/internal/routes"
	"github.com/dukerupert/route66/internal/service"
	"github.com/dukerupert/route66/internal/telemetry"
	"github.com/dukerupert/route66/internal/worker"
	"github.com/dukerupert/route66/web"
)

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)
	slog.SetDefault(logger)

	// Initialize Sentry
	flushSentry, err := telemetry.InitSentry(telemetry.SentryConfig{
		DSN:              cfg.Sentry.DSN,
		Enabled:          cfg.Sentry.Enabled,
		Environment:      cfg.Sentry.Environment,
		Release:          cfg.Sentry.Release,
		SampleRate:       cfg.Sentry.SampleRate,
		TracesSampleRate: cfg.Sentry.TracesSampleRate,
		Debug:            cfg.Sentry.Debug,
	}, logger)
	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}
	defer flushSentry()

	// Initialize database/sql connection for migrations
	logger.Info("Connecting to database...")
	sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	logger.Info("Database connection established")

	logger.Info("Running database migrations...")
	if err := internal.RunMigrations(ctx, sqlDB, logger); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize pgx connection pool for application
	pool, err := pgxpool.New(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	repo := repository.New(pool)
	store := repository.NewStore(pool)

	// Email
	var sender email.Sender
	if cfg.Email.Host != "" {
		sender = email.NewSMTPSender(email.SMTPConfig{
			Host:     cfg.Email.Host,
			Port:     int(cfg.Email.Port),
			Username: cfg.Email.Username,
			Password: cfg.Email.Password,
			From:     cfg.Email.From,
			FromName: cfg.Email.FromName,
			Timeout:  cfg.Email.Timeout,
		}, logger)
		logger.Info("Email delivery via SMTP", "host", cfg.Email.Host, "port", cfg.Email.Port)
	} else {
		sender = email.NewLogSender(logger)
		logger.Warn("SMTP_HOST not set, order emails will be logged instead of sent")
	}
	emailService, err := email.NewService(sender, cfg.Email.From, cfg.Email.FromName)
	if err != nil {
		return fmt.Errorf("failed to initialize email service: %w", err)
	}

	// Metrics
	telemetry.InitBusinessMetrics("route66")
	metrics := middleware.NewMetrics(nil, "route66")

	// Services
	hasher := auth.NewHasher()
	catalogService := service.NewCatalogService(repo)
	cartService := service.NewCartService(repo)
	checkoutService := service.NewCheckoutService(store, emailService, cfg.ShopName, cfg.BaseURL, logger)
	orderService := service.NewOrderService(repo, emailService, cfg.ShopName, cfg.BaseURL, logger)
	reviewService := service.NewReviewService(repo)
	wishlistService := service.NewWishlistService(repo)
	userService := service.NewUserService(repo, hasher)
	adminCatalogService := service.NewAdminCatalogService(repo)

	if err := bootstrap.EnsureStaffUser(ctx, repo, hasher, bootstrap.AdminConfig{
		Email:     cfg.Admin.Email,
		Password:  cfg.Admin.Password,
		FirstName: cfg.Admin.FirstName,
		LastName:  cfg.Admin.LastName,
	}, logger); err != nil {
		return fmt.Errorf("bootstrap failed: %w", err)
	}

	// Templates
	cookies := cookie.NewConfig(cfg.IsProduction())
	renderer, err := handler.NewRenderer(assetFS(cfg, cfg.TemplateDir, web.Templates, logger), cookies, cfg.ShopName)
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	// ==========================================================================
	// Initialize middleware
	// ==========================================================================

	chain := []router.Middleware{
		router.Recovery(logger),
		middleware.RequestID,
		telemetry.SentryMiddleware(),
		metrics.Middleware,
		middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsProduction())),
		middleware.MaxBodySize(middleware.DefaultMaxBodySize),
		middleware.Timeout(middleware.DefaultTimeout),
		middleware.WithClientIP(),
	}

	var authLimit router.Middleware
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:            rate.Limit(cfg.RateLimit.RequestsPerS),
			BurstSize:       cfg.RateLimit.Burst,
			CleanupInterval: time.Minute,
			KeyFunc:         middleware.GetClientIP,
		})
		defer limiter.Stop()

		authLimiterConfig := middleware.StrictRateLimiterConfig()
		if cfg.RateLimit.AuthPerMinute > 0 {
			authLimiterConfig.Rate = rate.Limit(cfg.RateLimit.AuthPerMinute / 60)
		}
		if cfg.RateLimit.AuthBurst > 0 {
			authLimiterConfig.BurstSize = cfg.RateLimit.AuthBurst
		}
		authLimiter := middleware.NewRateLimiter(authLimiterConfig)
		defer authLimiter.Stop()

		chain = append(chain, limiter.Middleware)
		authLimit = authLimiter.Middleware
	}

	chain = append(chain,
		middleware.WithRequestLogger(logger),
		router.Logger(logger),
		middleware.WithUser(userService),
		middleware.WithCartCount(cartService),
		middleware.CSRF(middleware.DefaultCSRFConfig(cookies)),
	)

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	r := router.New(chain...)

	r.Static("/static/", assetFS(cfg, cfg.StaticDir, web.Static, logger))

	// Metrics endpoint (no auth required, but should be protected in production via firewall)
	r.Handle(http.MethodGet, "/metrics", metrics.Handler())

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if err := pool.Ping(req.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	routes.RegisterAdminRoutes(r, routes.AdminDeps{
		DashboardHandler: admin.NewDashboardHandler(orderService, adminCatalogService, renderer),
		Catalog:          admin.NewCatalog(adminCatalogService, renderer),
		OrderHandler:     admin.NewOrderHandler(orderService, renderer),
	})

	routes.RegisterStorefrontRoutes(r, routes.StorefrontDeps{
		CatalogHandler:  storefront.NewCatalogHandler(catalogService, reviewService, renderer),
		CartHandler:     storefront.NewCartHandler(cartService, renderer),
		CheckoutHandler: storefront.NewCheckoutHandler(cartService, checkoutService, renderer),
		OrderHandler:    storefront.NewOrderHistoryHandler(orderService, renderer),
		WishlistHandler: storefront.NewWishlistHandler(wishlistService, renderer),
		SignupHandler:   storefront.NewSignupHandler(userService, renderer, cookies),
		LoginHandler:    storefront.NewLoginHandler(userService, renderer, cookies),
		LogoutHandler:   storefront.NewLogoutHandler(userService, renderer, cookies),
		AuthRateLimit:   authLimit,
		NotFound:        renderer.NotFound,
	})

	// ==========================================================================
	// Background work
	// ==========================================================================

	maintenance := worker.NewWorker(worker.Config{
		WorkerID:     "maintenance",
		PollInterval: time.Hour,
		RunOnStart:   true,
	}, logger, worker.CleanupExpiredSessions(userService))
	go func() {
		if err := maintenance.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("maintenance worker stopped", "error", err)
		}
	}()

	// ==========================================================================
	// Start server
	// ==========================================================================

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "address", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		logger.Info("Shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

// assetFS serves dir from disk in development so template and CSS edits
// show up on restart without rebuilding. Everywhere else the embedded
// copy is used.
func assetFS(cfg *internal.Config, dir string, embedded fs.FS, logger *slog.Logger) fs.FS {
	if cfg.IsProduction() || dir == "" {
		return embedded
	}
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		logger.Debug("Serving assets from disk", "dir", dir)
		return os.DirFS(dir)
	}
	return embedded
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
