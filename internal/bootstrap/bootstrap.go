package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appAuth "github.com/ymori/careertrack/internal/app/auth"
	appControllers "github.com/ymori/careertrack/internal/app/controllers"
	appMigrations "github.com/ymori/careertrack/internal/app/migrations"
	appRepos "github.com/ymori/careertrack/internal/app/repositories"
	appRoutes "github.com/ymori/careertrack/internal/app/routes"
	appServices "github.com/ymori/careertrack/internal/app/services"
	"github.com/ymori/careertrack/internal/cleanup"
	"github.com/ymori/careertrack/internal/config"
	"github.com/ymori/careertrack/internal/db"
	appMiddleware "github.com/ymori/careertrack/internal/middleware"
	pkgAuth "github.com/ymori/careertrack/internal/pkg/auth"
	"github.com/ymori/careertrack/internal/pkg/cache"
	"github.com/ymori/careertrack/internal/pkg/email"
	"github.com/ymori/careertrack/internal/pkg/filestorage"
	"github.com/ymori/careertrack/internal/pkg/helpers"
	"github.com/ymori/careertrack/internal/pkg/logger"
	"github.com/ymori/careertrack/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService           appServices.AuthService
	InviteService         appServices.InviteService
	StudentService        appServices.StudentService
	ApplicationService    appServices.ApplicationService
	AttachmentService     appServices.AttachmentService
	StatsService          appServices.StatsService
	AuthController        *appControllers.AuthController
	StudentController     *appControllers.StudentController
	ApplicationController *appControllers.ApplicationController
	AttachmentController  *appControllers.AttachmentController
	FileController        *appControllers.FileController
	SessionMiddleware     *appMiddleware.SessionMiddleware
	Repos                 *appRepos.Repositories
	JWTService            *pkgAuth.JWTService
	AuthzService          *appAuth.AuthorizationService
	FileStorage           *filestorage.LocalStorage
	RedisClient           *redis.Client
	ElevatedPool          *pgxpool.Pool
	Sweeper               *cleanup.Sweeper
	Logger                zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and seeds
// the default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		database.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	// Seed after migrations; a seed failure is logged but does not block startup
	if err := seed.CreateDefaultData(context.Background(), database.Pool, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database.Pool)

	// The elevated pool exists solely for the invite-user path. Without
	// elevated credentials it stays nil and inviting fails closed; the regular
	// pool is never substituted.
	var err error
	deps.ElevatedPool, err = db.NewElevatedPool(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect elevated database role")
		return nil, err
	}
	if deps.ElevatedPool == nil {
		lgr.Warn().Msg("No elevated database role configured; user invitation is disabled")
	}

	deps.RedisClient, err = db.NewRedisClient(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to Redis")
		return nil, err
	}
	statsCache := cache.New(deps.RedisClient)

	deps.FileStorage, err = filestorage.NewLocalStorage(
		cfg.Storage.Path,
		cfg.Server.BaseURL+"/files",
		cfg.Storage.SignedURLSecret,
	)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:     cfg.JWT.Secret,
		SessionExp:    helpers.ParseDuration(cfg.JWT.SessionExpiration, 12*time.Hour),
		RefreshWindow: helpers.ParseDuration(cfg.JWT.RefreshWindow, 15*time.Minute),
		TokenIssuer:   cfg.JWT.Issuer,
	})

	deps.AuthzService = appAuth.NewAuthorizationService(deps.Repos.ProfileRepository)

	secureCookies := strings.ToLower(cfg.Server.Mode) == "production"
	deps.SessionMiddleware = appMiddleware.NewSessionMiddleware(deps.JWTService, deps.AuthzService, secureCookies)

	emailService := email.NewEmailService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		UseTLS:    cfg.SMTP.UseTLS,
		BaseURL:   cfg.Server.BaseURL,
	}, lgr)

	signedURLTTL := helpers.ParseDuration(cfg.Storage.SignedURLTTL, 10*time.Minute)

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.AccountRepository,
		deps.Repos.ProfileRepository,
		deps.Repos.InviteTokenRepository,
		deps.JWTService,
	)
	deps.InviteService = appServices.NewInviteService(
		deps.ElevatedPool,
		deps.Repos.ProfileRepository,
		deps.Repos.InviteTokenRepository,
		emailService,
		statsCache,
		cfg.AllowedEmailDomains(),
	)
	deps.StudentService = appServices.NewStudentService(
		deps.Repos.StudentRepository,
		deps.Repos.ProfileRepository,
		deps.Repos.CourseRepository,
		statsCache,
	)
	deps.ApplicationService = appServices.NewApplicationService(database, deps.Repos.ApplicationRepository, statsCache)
	deps.AttachmentService = appServices.NewAttachmentService(
		database,
		deps.Repos.AttachmentRepository,
		deps.Repos.ApplicationRepository,
		deps.FileStorage,
		cfg.Storage.Bucket,
		signedURLTTL,
		statsCache,
	)
	deps.StatsService = appServices.NewStatsService(
		deps.Repos.ApplicationRepository,
		deps.Repos.ActivityLogRepository,
		statsCache,
	)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, deps.SessionMiddleware)
	deps.StudentController = appControllers.NewStudentController(deps.StudentService, deps.InviteService, deps.StatsService)
	deps.ApplicationController = appControllers.NewApplicationController(deps.ApplicationService)
	deps.AttachmentController = appControllers.NewAttachmentController(deps.AttachmentService)
	deps.FileController = appControllers.NewFileController(deps.FileStorage)

	deps.Sweeper = cleanup.NewSweeper(deps.FileStorage, cfg.Storage.Bucket, deps.Repos.AttachmentRepository, lgr)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.Default()

	// Request context first so the origin guard can write audit rows
	router.Use(appMiddleware.RequestContext(cfg.Environment, deps.AuthzService, deps.Repos.ActivityLogRepository))
	router.Use(appMiddleware.OriginGuard())

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.StudentController,
		deps.ApplicationController,
		deps.AttachmentController,
		deps.FileController,
		deps.SessionMiddleware,
	)

	return router
}

// StartCleanup schedules the orphaned-attachment sweep when enabled.
func StartCleanup(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) error {
	if !cfg.Cleanup.Enabled {
		lgr.Info().Msg("Orphaned attachment cleanup disabled")
		return nil
	}
	return deps.Sweeper.Start(cfg.Cleanup.Schedule)
}
