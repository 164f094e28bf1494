package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	appAuth "github.com/theclubs/clubs-backend/internal/app/auth"
	appControllers "github.com/theclubs/clubs-backend/internal/app/controllers"
	appMigrations "github.com/theclubs/clubs-backend/internal/app/migrations"
	appRepos "github.com/theclubs/clubs-backend/internal/app/repositories"
	appRoutes "github.com/theclubs/clubs-backend/internal/app/routes"
	appServices "github.com/theclubs/clubs-backend/internal/app/services"
	"github.com/theclubs/clubs-backend/internal/config"
	"github.com/theclubs/clubs-backend/internal/db"
	appMiddleware "github.com/theclubs/clubs-backend/internal/middleware"
	"github.com/theclubs/clubs-backend/internal/pkg/ai"
	pkgAuth "github.com/theclubs/clubs-backend/internal/pkg/auth"
	"github.com/theclubs/clubs-backend/internal/pkg/email"
	"github.com/theclubs/clubs-backend/internal/pkg/filestorage"
	"github.com/theclubs/clubs-backend/internal/pkg/helpers"
	"github.com/theclubs/clubs-backend/internal/pkg/logger"
	"github.com/theclubs/clubs-backend/internal/pkg/notify"
	"github.com/theclubs/clubs-backend/internal/pkg/validation"
	"github.com/theclubs/clubs-backend/internal/pkg/websocket"
	"github.com/theclubs/clubs-backend/internal/scheduler"
	"github.com/theclubs/clubs-backend/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos        *appRepos.Repositories
	JWTService   *pkgAuth.JWTService
	AuthzService *appAuth.AuthorizationService
	Redis        *redis.Client
	Publisher    notify.Publisher
	Mailer       email.EmailService
	FileStorage  *filestorage.LocalStorage
	Hub          *websocket.Hub
	Scheduler    *scheduler.Scheduler

	AuthMiddleware *appMiddleware.AuthMiddleware
	Controllers    appRoutes.Controllers

	Logger zerolog.Logger

	stopBackground context.CancelFunc
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.ToLower(cfg.Logging.Format) != "json",
	})

	lgr := logger.Get()
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and,
// when enabled, seeds demo data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool
	lgr.Info().Msg("Database connection successfully established.")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	migrator := appMigrations.NewMigrator(dbPool, logger.Component("migrations"))
	if err := migrator.MigrateFromDirectory(ctx, cfg.Database.MigrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if cfg.Seed.Enabled {
		if err := seed.CreateDefaultData(ctx, dbPool, logger.Component("seed")); err != nil {
			lgr.Error().Err(err).Msg("Failed to create demo data, proceeding anyway...")
		}
	}

	return dbPool, nil
}

// RegisterValidators adds the custom binding tags to gin's validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected binding validator engine")
	}
	return validation.Register(v)
}

func newRedis(cfg *config.Config, lgr zerolog.Logger) *redis.Client {
	if cfg.Redis.Addr == "" {
		lgr.Info().Msg("Redis not configured; stats cache and shared rate limits disabled")
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		lgr.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis unreachable at startup; continuing, commands will retry")
	}
	return client
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	if err := RegisterValidators(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	deps := &Dependencies{Logger: lgr}
	deps.Repos = appRepos.NewRepositories(dbPool)

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Storage.UploadsDir, cfg.Storage.PublicURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.Redis = newRedis(cfg, lgr)
	deps.Publisher = notify.New(notify.KafkaConfig{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.Topic}, logger.Component("notify"))
	deps.Mailer = email.NewEmailService(email.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	}, logger.Component("email"))

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: config.MustDuration(cfg.JWT.AccessTokenExpiration),
		TokenIssuer:    cfg.JWT.Issuer,
	})
	deps.AuthzService = appAuth.NewAuthorizationService(deps.Repos.MembershipRepository)
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	// live discussion feed
	bgCtx, stop := context.WithCancel(context.Background())
	deps.stopBackground = stop
	deps.Hub = websocket.NewHub(logger.Component("websocket"))
	go deps.Hub.Run(bgCtx)

	var cache appServices.Cache
	if deps.Redis != nil {
		cache = deps.Redis
	}

	aiTimeout := helpers.ParseDuration(cfg.AI.Timeout, 30*time.Second)
	gemini := ai.NewGeminiClient(ai.GeminiConfig{
		APIKey:  cfg.AI.GeminiAPIKey,
		Model:   cfg.AI.GeminiModel,
		BaseURL: cfg.AI.GeminiBaseURL,
		Timeout: aiTimeout,
	})
	if !gemini.Configured() {
		lgr.Warn().Msg("GEMINI_API_KEY not set; matchmaker uses keyword scoring and posters are unavailable")
	}

	authService := appServices.NewAuthService(deps.Repos.UserRepository, deps.JWTService, deps.Mailer, logger.Component("auth_service"))
	userService := appServices.NewUserService(deps.Repos.UserRepository, logger.Component("user_service"))
	clubService := appServices.NewClubService(dbPool, deps.AuthzService, logger.Component("club_service"))
	eventService := appServices.NewEventService(dbPool, deps.AuthzService, logger.Component("event_service"))
	announcementService := appServices.NewAnnouncementService(dbPool, deps.AuthzService, logger.Component("announcement_service"))
	membershipService := appServices.NewMembershipService(dbPool, deps.AuthzService, logger.Component("membership_service"))
	registrationService := appServices.NewRegistrationService(dbPool, deps.AuthzService, logger.Component("registration_service"))
	discussionService := appServices.NewDiscussionService(dbPool, deps.AuthzService, deps.Hub, logger.Component("discussion_service"))
	approvalService := appServices.NewApprovalService(dbPool, deps.Publisher, deps.Mailer, logger.Component("approval_service"))
	statsService := appServices.NewStatsService(dbPool, cache, helpers.ParseDuration(cfg.Redis.StatsTTL, time.Minute), logger.Component("stats_service"))
	auditService := appServices.NewAuditService(dbPool)
	aiService := appServices.NewAIService(dbPool,
		ai.NewMatcher(gemini),
		ai.NewPosterDirector(gemini, ai.PosterConfig{ImageBaseURL: cfg.AI.ImageBaseURL, Timeout: 2 * aiTimeout}),
		deps.FileStorage,
		logger.Component("ai_service"))

	websocket.NewMessageHandler(deps.Hub, discussionService, logger.Component("websocket")).Start(bgCtx)

	deps.Controllers = appRoutes.Controllers{
		Auth:         appControllers.NewAuthController(authService, logger.Component("auth_controller")),
		User:         appControllers.NewUserController(userService, membershipService, registrationService, logger.Component("user_controller")),
		Home:         appControllers.NewHomeController(statsService),
		Club:         appControllers.NewClubController(clubService, membershipService, logger.Component("club_controller")),
		Discussion:   appControllers.NewDiscussionController(discussionService),
		Event:        appControllers.NewEventController(eventService, registrationService, logger.Component("event_controller")),
		Announcement: appControllers.NewAnnouncementController(announcementService),
		Admin:        appControllers.NewAdminController(approvalService, statsService, auditService, logger.Component("admin_controller")),
		AI:           appControllers.NewAIController(aiService),
		Live:         websocket.NewHandler(deps.Hub, deps.Repos.ClubRepository, cfg.CORS.AllowedOrigins, logger.Component("websocket")),
	}

	if cfg.Scheduler.Enabled {
		deps.Scheduler = scheduler.NewScheduler(logger.Component("scheduler"))
		reminders := scheduler.NewEventReminders(dbPool, deps.Publisher, deps.Mailer, logger.Component("event_reminders"))
		if err := deps.Scheduler.Register(cfg.Scheduler.EventReminders, reminders); err != nil {
			stop()
			return nil, fmt.Errorf("failed to schedule event reminders: %w", err)
		}
		deps.Scheduler.Start()
	}

	return deps, nil
}

// Close stops background work and releases outbound clients.
func (d *Dependencies) Close() error {
	if d.Scheduler != nil {
		d.Scheduler.Stop()
	}
	if d.stopBackground != nil {
		d.stopBackground()
	}

	var errs error
	if d.Publisher != nil {
		errs = errors.Join(errs, d.Publisher.Close())
	}
	if d.Redis != nil {
		errs = errors.Join(errs, d.Redis.Close())
	}
	return errs
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		appMiddleware.RequestLogger(),
		appMiddleware.CORS(cfg.CORS.AllowedOrigins),
		appMiddleware.ClientIP(),
	)

	authLimit, err := appMiddleware.RateLimiter("auth", cfg.RateLimit.Auth, deps.Redis)
	if err != nil {
		return nil, fmt.Errorf("invalid auth rate limit: %w", err)
	}
	aiLimit, err := appMiddleware.RateLimiter("ai", cfg.RateLimit.AI, deps.Redis)
	if err != nil {
		return nil, fmt.Errorf("invalid ai rate limit: %w", err)
	}

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, cfg.Server.BasePath, deps.Controllers, deps.AuthMiddleware,
		appRoutes.RateLimits{Auth: authLimit, AI: aiLimit})

	router.Static(cfg.Storage.PublicURL, cfg.Storage.UploadsDir)

	return router, nil
}
