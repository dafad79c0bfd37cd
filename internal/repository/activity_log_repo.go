package repository

import (
	"context"

	"gorm.io/gorm"

	"print-timesheet/internal/model"
)

// ActivityLogFilter audit query filter. From/To bound the date key inclusively.
type ActivityLogFilter struct {
	From       string
	To         string
	EmployeeID string
	Action     string
	Entity     string
}

// ActivityLogRepository audit record data access. Records are never updated.
type ActivityLogRepository interface {
	Create(ctx context.Context, log *model.ActivityLog) error
	List(ctx context.Context, filter ActivityLogFilter, offset, limit int) ([]model.ActivityLog, int64, error)
	// Clear removes every audit record and returns how many were removed.
	Clear(ctx context.Context) (int64, error)
}

type activityLogRepo struct {
	db *gorm.DB
}

// NewActivityLogRepo creates an ActivityLogRepository.
func NewActivityLogRepo(db *gorm.DB) ActivityLogRepository {
	return &activityLogRepo{db: db}
}

func (r *activityLogRepo) Create(ctx context.Context, log *model.ActivityLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *activityLogRepo) List(ctx context.Context, filter ActivityLogFilter, offset, limit int) ([]model.ActivityLog, int64, error) {
	var logs []model.ActivityLog
	var total int64

	db := r.db.WithContext(ctx).Model(&model.ActivityLog{})
	if filter.From != "" {
		db = db.Where("date_key >= ?", filter.From)
	}
	if filter.To != "" {
		db = db.Where("date_key <= ?", filter.To)
	}
	if filter.EmployeeID != "" {
		db = db.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.Action != "" {
		db = db.Where("action = ?", filter.Action)
	}
	if filter.Entity != "" {
		db = db.Where("entity = ?", filter.Entity)
	}

	if err := db.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&logs).Error
	return logs, total, err
}

func (r *activityLogRepo) Clear(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Where("1 = 1").Delete(&model.ActivityLog{})
	return res.RowsAffected, res.Error
}
