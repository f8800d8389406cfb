package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/schooladmin/internal/app/controllers"
	appMigrations "github.com/yigit/schooladmin/internal/app/migrations"
	appRepos "github.com/yigit/schooladmin/internal/app/repositories"
	inmemdb "github.com/yigit/schooladmin/internal/app/repositories/inmem"
	appRoutes "github.com/yigit/schooladmin/internal/app/routes"
	appServices "github.com/yigit/schooladmin/internal/app/services"
	"github.com/yigit/schooladmin/internal/config"
	"github.com/yigit/schooladmin/internal/db"
	appMiddleware "github.com/yigit/schooladmin/internal/middleware"
	"github.com/yigit/schooladmin/internal/pkg/filestorage"
	"github.com/yigit/schooladmin/internal/pkg/helpers"
	"github.com/yigit/schooladmin/internal/pkg/logger"
	"github.com/yigit/schooladmin/internal/pkg/websocket"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Store        appRepos.Store
	FileStorage  filestorage.ObjectStorage
	LocalStorage *filestorage.LocalStorage // set when the local storage driver is used
	Scratch      *filestorage.Scratch
	Hub          *websocket.Hub

	StudentService appServices.StudentService
	FeeService     appServices.FeeService

	StudentController *appControllers.StudentController
	FeeController     *appControllers.FeeController
	HealthController  *appControllers.HealthController
	FeedHandler       *websocket.Handler

	Logger zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
// CONFIG_PATH overrides the default configs/config.yaml location.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := config.GetEnv("CONFIG_PATH", filepath.Join("configs", "config.yaml"))
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})

	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupStore opens the configured store. The postgres driver connects and runs
// migrations; the memory driver keeps everything in process.
func SetupStore(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (appRepos.Store, error) {
	if cfg.Database.Driver == "memory" {
		lgr.Warn().Msg("Using the in-memory store, data is lost on restart")
		return inmemdb.NewStore(), nil
	}

	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		database.Close()
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Str("path", migrationsDir).Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool, lgr)
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		database.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return appRepos.NewPostgresStore(database), nil
}

// SetupStorage builds the object storage for the configured driver together
// with the scratch directory uploads are staged in.
func SetupStorage(cfg *config.Config, lgr zerolog.Logger) (filestorage.ObjectStorage, *filestorage.LocalStorage, *filestorage.Scratch, error) {
	scratch, err := filestorage.NewScratch(cfg.Storage.ScratchDir)
	if err != nil {
		lgr.Error().Err(err).Str("path", cfg.Storage.ScratchDir).Msg("Failed to create scratch directory")
		return nil, nil, nil, fmt.Errorf("failed to initialize scratch directory: %w", err)
	}

	if cfg.Storage.Driver == "local" {
		baseURL := "http://localhost:" + cfg.Server.Port + "/uploads"
		local, err := filestorage.NewLocalStorage(cfg.Storage.LocalPath, baseURL)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to initialize file storage")
			return nil, nil, nil, fmt.Errorf("failed to initialize file storage: %w", err)
		}
		lgr.Info().Str("path", cfg.Storage.LocalPath).Msg("Using local file storage")
		return local, local, scratch, nil
	}

	timeout := helpers.ParseDuration(cfg.Storage.UploadTimeout, 30*time.Second)
	supabase := filestorage.NewSupabaseStorage(cfg.Supabase.URL, cfg.Supabase.Key, cfg.Supabase.Bucket, timeout)
	lgr.Info().Str("bucket", cfg.Supabase.Bucket).Msg("Using Supabase storage")
	return supabase, nil, scratch, nil
}

// BuildDependencies initializes application services and controllers.
func BuildDependencies(cfg *config.Config, store appRepos.Store, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Store: store, Logger: lgr}

	var err error
	deps.FileStorage, deps.LocalStorage, deps.Scratch, err = SetupStorage(cfg, lgr)
	if err != nil {
		return nil, err
	}

	deps.Hub = websocket.NewHub(logger.WithComponent(lgr, "fee-feed"))

	deps.FeeService = appServices.NewFeeService(
		store,
		deps.Hub,
		cfg.Fees.OverdueAfterDays,
		logger.WithComponent(lgr, "fees"),
	)
	deps.StudentService = appServices.NewStudentService(
		store,
		deps.FileStorage,
		deps.Scratch,
		deps.Hub,
		logger.WithComponent(lgr, "students"),
	)

	deps.StudentController = appControllers.NewStudentController(deps.StudentService)
	deps.FeeController = appControllers.NewFeeController(deps.FeeService)
	deps.HealthController = appControllers.NewHealthController(deps.StudentService)
	deps.FeedHandler = websocket.NewHandler(deps.Hub, logger.WithComponent(lgr, "fee-feed"))

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

	router := gin.New()
	router.Use(appMiddleware.Recovery())
	router.Use(appMiddleware.RequestLogger())
	router.Use(cors.New(corsConfig(cfg)))

	appRoutes.SetupSwagger(router)

	appRoutes.SetupRouter(router,
		deps.StudentController,
		deps.FeeController,
		deps.HealthController,
		deps.FeedHandler,
	)

	if deps.LocalStorage != nil {
		router.Static("/uploads", deps.LocalStorage.BasePath())
		lgr.Info().Str("path", deps.LocalStorage.BasePath()).Msg("Static file serving configured for uploads directory")
	}

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}

	origins := cfg.AllowedOrigins()
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		corsCfg.AllowAllOrigins = true
		return corsCfg
	}
	corsCfg.AllowOrigins = origins
	return corsCfg
}
