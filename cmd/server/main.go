package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/forgo/folio/internal/config"
	"github.com/forgo/folio/internal/database"
	"github.com/forgo/folio/internal/handler"
	"github.com/forgo/folio/internal/jobs"
	"github.com/forgo/folio/internal/middleware"
	"github.com/forgo/folio/internal/render"
	"github.com/forgo/folio/internal/repository"
	"github.com/forgo/folio/internal/service"
	"github.com/forgo/folio/internal/storage"
	"github.com/forgo/folio/pkg/jwt"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection
	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})

	ctx := context.Background()
	if err := db.Connect(ctx); err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	slog.Info("connected to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Database),
	)

	if err := database.ApplySchema(ctx, db); err != nil {
		slog.Error("failed to apply schema", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize JWT service
	jwtService, err := newJWTService(cfg.JWT)
	if err != nil {
		slog.Error("failed to initialize JWT service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize media storage
	mediaStore, localStore, err := newMediaStore(cfg.Media, logger)
	if err != nil {
		slog.Error("failed to initialize media storage", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	pageRepo := repository.NewPageRepository(db)
	postRepo := repository.NewPostRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	contentRepo := repository.NewContentRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	mediaRepo := repository.NewMediaRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// Initialize services
	renderer := render.New(render.Options{})

	authService := service.NewAuthService(service.AuthServiceConfig{
		UserRepo:   userRepo,
		JWTService: jwtService,
	})
	userService := service.NewUserService(service.UserServiceConfig{
		UserRepo: userRepo,
	})
	pageService := service.NewPageService(service.PageServiceConfig{
		Repo:     pageRepo,
		Renderer: renderer,
	})
	postService := service.NewPostService(service.PostServiceConfig{
		Repo:     postRepo,
		Users:    userRepo,
		Renderer: renderer,
	})
	productService := service.NewProductService(service.ProductServiceConfig{
		Repo:     productRepo,
		Renderer: renderer,
	})
	categoryService := service.NewCategoryService(service.CategoryServiceConfig{
		Repo: categoryRepo,
	})
	contentService := service.NewContentService(service.ContentServiceConfig{
		Repo:     contentRepo,
		Users:    userRepo,
		Renderer: renderer,
	})
	menuService := service.NewMenuService(service.MenuServiceConfig{
		Repo: menuRepo,
	})
	mediaService := service.NewMediaService(service.MediaServiceConfig{
		Repo:  mediaRepo,
		Store: mediaStore,
	})
	settingsService := service.NewSettingsService(service.SettingsServiceConfig{
		Repo: settingsRepo,
	})

	// Sweep orphaned local uploads
	if cfg.Media.SweepInterval > 0 {
		sweeper := jobs.NewMediaSweeper(jobs.MediaSweeperConfig{
			Store:    localStore,
			Media:    mediaRepo,
			Interval: cfg.Media.SweepInterval,
			Logger:   logger,
		})
		sweeper.Start()
		defer sweeper.Stop()
	}

	// Login and registration are throttled per client
	authLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		Rate:   cfg.Auth.RateLimitPerMinute,
		Window: time.Minute,
	})
	defer authLimiter.Stop()

	// Retried writes carrying an Idempotency-Key replay their first response
	idempotency := middleware.NewIdempotencyStore(middleware.IdempotencyConfig{
		TTL:     cfg.Server.IdempotencyTTL,
		MaxBody: cfg.Media.MaxBytes + 1<<20,
	})
	defer idempotency.Stop()

	routes := &handler.Routes{
		Health: handler.NewHealthHandler(db),
		Auth: handler.NewAuthHandler(handler.AuthHandlerConfig{
			AuthService:  authService,
			CookieName:   cfg.Auth.CookieName,
			CookieSecure: cfg.Auth.CookieSecure,
		}),
		Users:       handler.NewUserHandler(userService),
		Pages:       handler.NewPageHandler(pageService),
		Posts:       handler.NewPostHandler(postService),
		Products:    handler.NewProductHandler(productService),
		Categories:  handler.NewCategoryHandler(categoryService),
		Contents:    handler.NewContentHandler(contentService),
		Menus:       handler.NewMenuHandler(menuService),
		Media:       handler.NewMediaHandler(mediaService, cfg.Media.MaxBytes),
		Settings:    handler.NewSettingsHandler(settingsService),
		AuthLimiter: authLimiter,
	}
	if strings.HasPrefix(cfg.Media.BaseURL, "/uploads") {
		routes.UploadsDir = cfg.Media.Dir
	}

	mux := http.NewServeMux()
	routes.Register(mux)

	// Apply global middleware
	wrapped := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(cfg.Server.AllowedOrigins),
		middleware.Compress,
		middleware.AuthenticateCookie(authService, cfg.Auth.CookieName),
		middleware.Idempotency(idempotency),
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("addr", server.Addr),
			slog.String("env", cfg.Server.Env),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}

// newJWTService loads the configured key pair, or generates a throwaway key
// when none is configured.
func newJWTService(cfg config.JWTConfig) (*jwt.Service, error) {
	if cfg.PrivateKeyPath == "" {
		slog.Warn("no JWT keys configured, using an ephemeral signing key; sessions end on restart")
		return jwt.NewEphemeralService(cfg.Issuer, time.Duration(cfg.ExpirationMins)*time.Minute)
	}
	return jwt.NewService(jwt.Config{
		PrivateKeyPath: cfg.PrivateKeyPath,
		PublicKeyPath:  cfg.PublicKeyPath,
		Issuer:         cfg.Issuer,
		ExpirationMins: cfg.ExpirationMins,
	})
}

// newMediaStore writes to S3 when a bucket is configured, falling back to
// local disk when S3 is unavailable.
func newMediaStore(cfg config.MediaConfig, logger *slog.Logger) (*storage.Fallback, *storage.LocalStore, error) {
	local, err := storage.NewLocalStore(cfg.Dir, cfg.BaseURL)
	if err != nil {
		return nil, nil, err
	}

	var primary storage.Store
	if cfg.S3.Enabled() {
		primary = storage.NewS3Store(storage.S3Config{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			PublicURL:       cfg.S3.PublicURL,
			UsePathStyle:    cfg.S3.Endpoint != "",
		})
		slog.Info("storing media in S3", slog.String("bucket", cfg.S3.Bucket))
	}

	return storage.NewFallback(primary, local, logger), local, nil
}
