package app

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"print-timesheet/config"
	"print-timesheet/internal/repository"
	"print-timesheet/internal/service"
	"print-timesheet/pkg/database"
	"print-timesheet/pkg/jwt"
	applogger "print-timesheet/pkg/logger"
	"print-timesheet/pkg/redis"
)

// App holds the wired dependencies shared by the HTTP server and tsctl.
type App struct {
	Config *config.Config
	Logger *zap.Logger
	DB     *gorm.DB
	SQLDB  *sql.DB
	Redis  *redis.Client // nil when Redis is disabled or unreachable
	JWT    *jwt.Manager
	Repo   *repository.Repository
	Svc    *service.Service
}

// New loads configuration and wires Repository → Service.
func New(configPath string) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	a := &App{
		Config: cfg,
		Logger: logger,
		DB:     db,
		SQLDB:  sqlDB,
		JWT:    jwt.NewManager(&cfg.Auth),
		Repo:   repository.NewRepository(db),
	}

	if cfg.Redis.Addr != "" {
		rdb, err := redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("redis unavailable, token revocation and rate limiting disabled", zap.Error(err))
		} else {
			a.Redis = rdb
		}
	}

	// A nil *redis.Client must not reach the service as a non-nil interface.
	var blacklist service.TokenBlacklist
	if a.Redis != nil {
		blacklist = a.Redis
	}
	a.Svc = service.NewService(cfg, a.Repo, a.JWT, blacklist, logger)
	return a, nil
}

// Migrate applies pending schema migrations.
func (a *App) Migrate() error {
	return database.RunMigrations(a.SQLDB, a.Config.Database.Driver, a.Logger)
}

// Close releases connections and flushes the logger.
func (a *App) Close() {
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.SQLDB != nil {
		_ = a.SQLDB.Close()
	}
	_ = a.Logger.Sync()
}
