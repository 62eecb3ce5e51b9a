package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/landesnetz/landesnetz-api/internal/config"
	"github.com/landesnetz/landesnetz-api/internal/domain/account"
	"github.com/landesnetz/landesnetz-api/internal/domain/admin"
	"github.com/landesnetz/landesnetz-api/internal/domain/auth"
	"github.com/landesnetz/landesnetz-api/internal/domain/chat"
	"github.com/landesnetz/landesnetz-api/internal/domain/feedback"
	"github.com/landesnetz/landesnetz-api/internal/domain/moderation"
	"github.com/landesnetz/landesnetz-api/internal/middleware"
	"github.com/landesnetz/landesnetz-api/internal/pkg/database"
	"github.com/landesnetz/landesnetz-api/internal/pkg/imaging"
	"github.com/landesnetz/landesnetz-api/internal/pkg/logger"
	"github.com/landesnetz/landesnetz-api/internal/pkg/password"
	"github.com/landesnetz/landesnetz-api/internal/pkg/ratelimit"
	"github.com/landesnetz/landesnetz-api/internal/pkg/recordstore"
	"github.com/landesnetz/landesnetz-api/internal/pkg/response"
	"github.com/landesnetz/landesnetz-api/internal/pkg/storage"
)

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Env,
		LogFile:     cfg.LogFile,
	})

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Str("store", cfg.StoreDriver).
		Str("media", cfg.MediaDriver).
		Msg("Starting Landesnetz API")

	ctx := context.Background()

	var db *sqlx.DB
	if cfg.StoreDriver == "postgres" {
		var err error
		db, err = database.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer database.ClosePostgres(db)
	}

	redisClient, err := database.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redisClient)

	app, err := newApp(ctx, cfg, db, redisClient)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}
	go app.hub.Run()

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      newRouter(app),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server started")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	app.hub.Shutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

// application holds the wired handlers of one process
type application struct {
	cfg      *config.Config
	limits   *ratelimit.Registry
	resolver *auth.Resolver
	hub      *chat.Hub
	media    storage.Storage

	authHandler     *auth.Handler
	chatHandler     *chat.Handler
	adminHandler    *admin.Handler
	feedbackHandler *feedback.Handler
}

// newApp builds every domain on top of the configured backends. db is used
// when the record store driver is postgres; redisClient may be nil.
func newApp(ctx context.Context, cfg *config.Config, db *sqlx.DB, redisClient *redis.Client) (*application, error) {
	var backend recordstore.Backend
	if cfg.StoreDriver == "postgres" {
		pg, err := recordstore.NewPostgresBackend(ctx, db)
		if err != nil {
			return nil, err
		}
		backend = pg
	} else {
		local, err := recordstore.NewLocalBackend(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		backend = local
	}
	store := recordstore.New(backend)

	media, err := storage.New(ctx, storage.Config{
		Driver:      cfg.MediaDriver,
		Dir:         cfg.MediaDir,
		BaseURL:     cfg.MediaBaseURL,
		S3Endpoint:  cfg.S3Endpoint,
		S3Region:    cfg.S3Region,
		S3Bucket:    cfg.S3Bucket,
		S3AccessKey: cfg.S3AccessKey,
		S3SecretKey: cfg.S3SecretKey,
	})
	if err != nil {
		return nil, err
	}
	assets := storage.NewAssets(media)

	var verifier account.CredentialVerifier = password.Plaintext{}
	if cfg.PasswordMode == "bcrypt" {
		verifier = password.Bcrypt{}
	}

	limits := ratelimit.NewRegistry()

	// ---------- Accounts ----------
	stores := &account.Stores{
		Users:      account.NewRepository(store, account.RoleUser),
		Admins:     account.NewRepository(store, account.RoleAdmin),
		Organizers: account.NewRepository(store, account.RoleOrganizer),
		Pending:    account.NewPendingRepository(store),
	}
	lookup := account.NewLookup(stores, verifier)
	resolver := auth.NewResolver(lookup, cfg.APIKey, limits.APIKey, limits.Now)

	// ---------- Chat ----------
	hub := chat.NewHub(redisClient)
	uploader := chat.NewImageUploader(assets, imaging.NewProcessor(imaging.DefaultConfig()), cfg.MaxImageBytes)
	chatService := chat.NewService(
		chat.NewRepository(store),
		moderation.NewFilter(),
		chat.NewState(),
		limits.Message,
		hub,
		uploader,
		limits.Now,
	)

	// ---------- Admin & feedback ----------
	adminService := admin.NewService(
		stores,
		lookup,
		chatService,
		assets,
		store,
		admin.NewAuditRepository(store),
		limits.Now,
	)
	feedbackService := feedback.NewService(feedback.NewRepository(store), limits.Now)

	return &application{
		cfg:      cfg,
		limits:   limits,
		resolver: resolver,
		hub:      hub,
		media:    media,

		authHandler:     auth.NewHandler(auth.NewService(stores, lookup, limits.Now), cfg.CookieSecure),
		chatHandler:     chat.NewHandler(chatService, hub, cfg.AllowedOrigins),
		adminHandler:    admin.NewHandler(adminService, resolver),
		feedbackHandler: feedback.NewHandler(feedbackService),
	}, nil
}

func newRouter(app *application) chi.Router {
	r := chi.NewRouter()

	if app.cfg.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(app.cfg.AllowedOrigins))
	r.Use(auth.Middleware(app.resolver))

	// WebSocket stays outside compression
	app.chatHandler.RegisterWebSocket(r)

	r.Group(func(r chi.Router) {
		r.Use(chimw.Compress(5))

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			response.OK(w, map[string]string{"status": "ok"})
		})
		r.Handle("/metrics", promhttp.Handler())

		if local, ok := app.media.(*storage.LocalStorage); ok {
			r.Handle("/media/*", http.StripPrefix("/media/", http.FileServer(http.Dir(local.Dir()))))
		}

		r.Route("/api", func(r chi.Router) {
			app.authHandler.Register(r, middleware.RateLimit(app.limits.Account, app.limits.Now))
			app.chatHandler.Register(r)
			app.feedbackHandler.PublicRoutes(r,
				middleware.RateLimitOnSuccess(app.limits.Newsletter, app.limits.Now),
				middleware.RateLimitOnSuccess(app.limits.BugReport, app.limits.Now),
			)
			app.adminHandler.Register(r, func(r chi.Router) {
				app.feedbackHandler.AdminRoutes(r, admin.RequirePermission(admin.PermViewFeedback))
			})
		})
	})

	return r
}
