package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/auth"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/clients"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/dashboard"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/documents"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/notifications"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/ports"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/requests"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/retention"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/config"
	infraauth "github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/infrastructure/auth"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/infrastructure/blobstore"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/infrastructure/cache"
	httprouter "github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/infrastructure/http"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/infrastructure/http/handlers"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/infrastructure/http/middleware"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/infrastructure/lockout"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/infrastructure/persistence/memory"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/infrastructure/persistence/postgres"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/infrastructure/queue"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/infrastructure/security"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/infrastructure/webhook"
)

const workerConcurrency = 10

type repositories struct {
	users         ports.UserRepository
	orgs          ports.OrganisationRepository
	requests      ports.RequestRepository
	comments      ports.CommentRepository
	documents     ports.DocumentRepository
	notifications ports.NotificationRepository
	tx            ports.TxManager
}

func postgresRepositories(pool *pgxpool.Pool) repositories {
	return repositories{
		users:         postgres.NewUserRepository(pool),
		orgs:          postgres.NewOrganisationRepository(pool),
		requests:      postgres.NewRequestRepository(pool),
		comments:      postgres.NewCommentRepository(pool),
		documents:     postgres.NewDocumentRepository(pool),
		notifications: postgres.NewNotificationRepository(pool),
		tx:            postgres.NewTxManager(pool),
	}
}

func memoryRepositories() repositories {
	return repositories{
		users:         memory.NewUserRepository(),
		orgs:          memory.NewOrganisationRepository(),
		requests:      memory.NewRequestRepository(),
		comments:      memory.NewCommentRepository(),
		documents:     memory.NewDocumentRepository(),
		notifications: memory.NewNotificationRepository(),
		tx:            memory.TxManager{},
	}
}

func newLogger(cfg config.LogConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	var log zerolog.Logger
	if cfg.Format == "console" {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		log = zerolog.New(os.Stderr)
	}
	return log.Level(level).With().Timestamp().Str("service", "portal").Logger()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := zerolog.New(os.Stderr)
		boot.Fatal().Err(err).Msg("load config")
	}
	log := newLogger(cfg.Log)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		pool  *pgxpool.Pool
		repos repositories
		sqlDB *sql.DB
	)
	if cfg.Database.URL != "" {
		pool, err = postgres.NewPool(ctx, cfg.Database.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("connect to database")
		}
		defer pool.Close()
		repos = postgresRepositories(pool)
		sqlDB = stdlib.OpenDBFromPool(pool)
		defer sqlDB.Close()
	} else {
		log.Warn().Msg("DATABASE_URL not set; using in-memory repositories")
		repos = memoryRepositories()
	}

	var (
		redisClient redis.UniversalClient
		redisOpt    *redis.Options
	)
	if cfg.Redis.URL != "" {
		redisOpt, err = redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("parse REDIS_URL")
		}
		client := redis.NewClient(redisOpt)
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis ping failed; continuing without redis")
		} else {
			redisClient = client
		}
	}

	secret, err := cfg.SigningSecret()
	if err != nil {
		log.Fatal().Err(err).Msg("load JWT secret")
	}
	tokens, err := infraauth.NewTokenService(secret, cfg.JWT.Issuer, cfg.JWT.Audience, cfg.JWT.Expiry)
	if err != nil {
		log.Fatal().Err(err).Msg("create token service")
	}
	hasher, err := security.NewMultiHasher(cfg.Password.Algorithm, cfg.Password.Argon2, cfg.Password.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("create password hasher")
	}

	var (
		lockoutStore ports.LoginLockoutStore
		statsCache   ports.Cache
		events       ports.EventPublisher
		worker       *queue.Worker
	)
	fanout := notifications.NewFanout(repos.users, repos.requests, repos.notifications, log)
	if redisClient != nil {
		lockoutStore = lockout.NewRedisStore(redisClient, cfg.Lockout.MaxAttempts, cfg.Lockout.CooldownSecs, log)
		statsCache = cache.NewRedisCache(redisClient, "portal:cache:")
		asynqOpt := asynq.RedisClientOpt{Addr: redisOpt.Addr, Username: redisOpt.Username, Password: redisOpt.Password, DB: redisOpt.DB}
		publisher := queue.NewAsynqPublisher(asynqOpt, log)
		defer publisher.Close()
		events = publisher
		worker = queue.NewWorker(asynqOpt, fanout, workerConcurrency, log)
		go func() {
			if err := worker.Run(); err != nil {
				log.Warn().Err(err).Msg("asynq worker stopped")
			}
		}()
	} else {
		lockoutStore = lockout.NewMemoryStore(cfg.Lockout.MaxAttempts, cfg.Lockout.CooldownSecs)
		statsCache = cache.NewMemoryCache(cfg.Dashboard.CacheTTL, time.Minute)
		events = queue.NewInlinePublisher(fanout, log)
	}

	var blobs ports.BlobStore
	if cfg.Storage.BlobDir != "" {
		fsStore, err := blobstore.NewFSStore(cfg.Storage.BlobDir, cfg.Storage.MaxUploadBytes)
		if err != nil {
			log.Fatal().Err(err).Msg("open blob directory")
		}
		blobs = fsStore
	} else {
		log.Warn().Msg("BLOB_DIR not set; documents are kept in memory")
		blobs = blobstore.NewMemoryStore(cfg.Storage.MaxUploadBytes)
	}

	var sinks []ports.WebhookEmitter
	if cfg.Webhook.URL != "" {
		opts := []webhook.HTTPEmitterOption{webhook.WithRateLimit(cfg.Webhook.RatePerSec, 1)}
		if cfg.Webhook.AuthHeader != "" {
			opts = append(opts, webhook.WithHeader("Authorization", cfg.Webhook.AuthHeader))
		}
		sinks = append(sinks, webhook.NewHTTPEmitter(cfg.Webhook.URL, opts...))
	}
	if sqlDB != nil && cfg.Webhook.AuditToTable {
		sinks = append(sinks, webhook.NewSQLRecorder(sqlDB))
	}
	audit := webhook.NewMultiEmitter(sinks...)

	provisionUC := auth.NewProvisionUser(repos.users, repos.orgs, hasher)
	if err := seedAdmin(ctx, cfg.Admin, repos.users, provisionUC, log); err != nil {
		log.Fatal().Err(err).Msg("seed admin")
	}
	authHandler := handlers.NewAuthHandler(
		auth.NewRegisterUser(repos.users, hasher, tokens),
		auth.NewLogin(repos.users, hasher, tokens, lockoutStore, log),
		auth.NewMe(repos.users),
		audit, log)

	limiterStore, err := middleware.NewLimiterStore(redisClient)
	if err != nil {
		log.Fatal().Err(err).Msg("create rate limit store")
	}
	ipLimit, err := middleware.NewIPRateLimiter(limiterStore, cfg.RateLimit.RatePerIP)
	if err != nil {
		log.Fatal().Err(err).Msg("create IP rate limiter")
	}
	tenantLimit, err := middleware.NewTenantRateLimiter(limiterStore, cfg.RateLimit.RatePerTenant)
	if err != nil {
		log.Fatal().Err(err).Msg("create tenant rate limiter")
	}

	router := httprouter.NewRouter(httprouter.RouterConfig{
		AuthHandler:          authHandler,
		HealthHandler:        handlers.NewHealthHandler(pool, redisClient),
		RequestsHandler:      handlers.NewRequestsHandler(requests.NewService(repos.requests, repos.comments, repos.orgs, repos.users, repos.tx, events, log), log),
		DocumentsHandler:     handlers.NewDocumentsHandler(documents.NewService(repos.documents, repos.orgs, blobs, events, log), cfg.Storage.MaxUploadBytes, log),
		ClientsHandler:       handlers.NewClientsHandler(clients.NewService(repos.orgs, repos.users), log),
		NotificationsHandler: handlers.NewNotificationsHandler(notifications.NewService(repos.notifications), log),
		DashboardHandler:     handlers.NewDashboardHandler(dashboard.NewService(repos.requests, repos.documents, repos.notifications, statsCache, cfg.Dashboard.CacheTTL, log), log),
		UsersHandler:         handlers.NewUsersHandler(auth.NewUpdateUser(repos.users), audit, log),
		AdminHandler:         handlers.NewAdminHandler(provisionUC, audit, log),
		Authenticator:        middleware.NewAuthenticator(tokens),
		RequireAdmin:         middleware.RequireAdminSecret(cfg.Admin.Secret),
		Log:                  log,
		Secure:               middleware.NewSecure(middleware.SecureOptions(cfg.Secure.IsDevelopment)),
		CORS:                 middleware.CORS(cfg.CORS.AllowedOrigins),
		IPRateLimit:          ipLimit,
		TenantRateLimit:      tenantLimit,
		Metrics:              true,
	})

	go runRetention(ctx, repos.notifications, cfg.Retention, log)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Bool("database", pool != nil).Bool("redis", redisClient != nil).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if worker != nil {
		worker.Shutdown()
	}
	log.Info().Msg("server stopped")
}

// seedAdmin creates the first Admin when SEED_ADMIN_PASSWORD is set and no users exist.
func seedAdmin(ctx context.Context, cfg config.AdminConfig, users ports.UserRepository, provision *auth.ProvisionUser, log zerolog.Logger) error {
	if cfg.SeedPassword == "" {
		return nil
	}
	created, err := auth.SeedAdmin(ctx, users, provision, cfg.SeedEmail, cfg.SeedPassword, "Administrator")
	if err != nil {
		return err
	}
	if created {
		log.Info().Str("email", cfg.SeedEmail).Msg("seeded admin account")
	}
	return nil
}

func runRetention(ctx context.Context, repo ports.NotificationRepository, cfg config.RetentionConfig, log zerolog.Logger) {
	if cfg.NotificationDays <= 0 || cfg.Interval <= 0 {
		return
	}
	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := retention.PurgeReadNotifications(ctx, repo, cfg.NotificationDays, now)
			if err != nil {
				log.Warn().Err(err).Msg("notification retention failed")
				continue
			}
			if n > 0 {
				log.Info().Int("deleted", n).Msg("purged read notifications")
			}
		}
	}
}
