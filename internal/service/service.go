package service

import (
	"time"

	"go.uber.org/zap"

	"print-timesheet/config"
	"print-timesheet/internal/repository"
	"print-timesheet/pkg/jwt"
)

// Service aggregates every business service.
type Service struct {
	Auth        AuthService
	User        UserService
	Employee    EmployeeService
	Activity    ActivityService
	ActivityLog ActivityLogService
	Export      ExportService
}

// NewService wires the services. blacklist may be nil when Redis is not
// configured.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) *Service {
	loc, err := time.LoadLocation(cfg.Timesheet.Location)
	if err != nil {
		logger.Warn("unknown timesheet location, using UTC",
			zap.String("location", cfg.Timesheet.Location), zap.Error(err))
		loc = time.UTC
	}
	slots := cfg.Timesheet.TimeSlots

	return &Service{
		Auth:        NewAuthService(cfg, repo, jwtMgr, blacklist, logger),
		User:        NewUserService(repo, logger),
		Employee:    NewEmployeeService(repo, logger),
		Activity:    NewActivityService(repo, slots, logger),
		ActivityLog: NewActivityLogService(repo, logger),
		Export:      NewExportService(repo, slots, loc, logger),
	}
}
