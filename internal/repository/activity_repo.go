package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"print-timesheet/internal/model"
)

// DeletedActivityFilter narrows recycle-bin listings. Empty fields match all.
type DeletedActivityFilter struct {
	DateKey    string
	EmployeeID string
}

// ActivityRepository grid entry data access. Every mutation backs up the
// previous cell content, writes the cell and appends the audit record in a
// single transaction. Concurrent writes to one cell resolve as last write
// wins, and every overwritten entry is backed up.
type ActivityRepository interface {
	ListByDate(ctx context.Context, dateKey string) ([]model.Activity, error)
	ListByEmployee(ctx context.Context, employeeID, fromDateKey, toDateKey string) ([]model.Activity, error)
	GetByKey(ctx context.Context, key model.CellKey) (*model.Activity, error)
	// Upsert writes entry at its cell. audit.Action, OldPayload and
	// NewPayload are filled in before audit is stored.
	Upsert(ctx context.Context, entry *model.Activity, audit *model.ActivityLog) (*model.Activity, error)
	// Delete removes the cell's entry after copying it to the recycle bin.
	// Returns gorm.ErrRecordNotFound when the cell is empty.
	Delete(ctx context.Context, key model.CellKey, deletedBy string, audit *model.ActivityLog) (*model.Activity, error)

	ListDeleted(ctx context.Context, filter DeletedActivityFilter, offset, limit int) ([]model.DeletedActivity, int64, error)
	GetDeleted(ctx context.Context, id uint64) (*model.DeletedActivity, error)
}

type activityRepo struct {
	db *gorm.DB
}

// NewActivityRepo creates an ActivityRepository.
func NewActivityRepo(db *gorm.DB) ActivityRepository {
	return &activityRepo{db: db}
}

func whereCell(db *gorm.DB, key model.CellKey) *gorm.DB {
	return db.Where("date_key = ? AND employee_id = ? AND time_slot = ?", key.DateKey, key.EmployeeID, key.TimeSlot)
}

func (r *activityRepo) ListByDate(ctx context.Context, dateKey string) ([]model.Activity, error) {
	var entries []model.Activity
	err := r.db.WithContext(ctx).
		Where("date_key = ?", dateKey).
		Order("employee_id ASC, time_slot ASC").
		Find(&entries).Error
	return entries, err
}

func (r *activityRepo) ListByEmployee(ctx context.Context, employeeID, fromDateKey, toDateKey string) ([]model.Activity, error) {
	var entries []model.Activity
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND date_key >= ? AND date_key <= ?", employeeID, fromDateKey, toDateKey).
		Order("date_key ASC, time_slot ASC").
		Find(&entries).Error
	return entries, err
}

func (r *activityRepo) GetByKey(ctx context.Context, key model.CellKey) (*model.Activity, error) {
	var entry model.Activity
	if err := whereCell(r.db.WithContext(ctx), key).First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *activityRepo) Upsert(ctx context.Context, entry *model.Activity, audit *model.ActivityLog) (*model.Activity, error) {
	saved, err := r.upsert(ctx, entry, audit)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Another writer filled the cell after our read. The retry sees
		// that row and takes the backup-and-update path.
		saved, err = r.upsert(ctx, entry, audit)
	}
	return saved, err
}

func (r *activityRepo) upsert(ctx context.Context, entry *model.Activity, audit *model.ActivityLog) (*model.Activity, error) {
	var saved model.Activity
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		audit.OldPayload = nil

		var existing model.Activity
		err := whereCell(tx, entry.Key()).First(&existing).Error
		switch {
		case err == nil:
			backup := model.NewDeletedActivity(&existing, model.BackupReasonOverwrite, derefString(entry.UpdatedBy))
			if err := tx.Create(backup).Error; err != nil {
				return err
			}
			if err := tx.Model(&model.Activity{}).
				Where("id = ?", existing.ID).
				Updates(map[string]interface{}{
					"activity_type": entry.Type,
					"description":   entry.Description,
					"total_pages":   entry.TotalPages,
					"start_page":    entry.StartPage,
					"end_page":      entry.EndPage,
					"pages_done":    entry.PagesDone,
					"logged_at":     entry.LoggedAt,
					"updated_by":    entry.UpdatedBy,
					"updated_at":    time.Now(),
				}).Error; err != nil {
				return err
			}
			audit.Action = model.ActionUpdate
			audit.OldPayload = existing.Payload()
		case errors.Is(err, gorm.ErrRecordNotFound):
			row := *entry
			row.ID = 0
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			audit.Action = model.ActionCreate
		default:
			return err
		}

		if err := whereCell(tx, entry.Key()).First(&saved).Error; err != nil {
			return err
		}
		audit.NewPayload = saved.Payload()
		return tx.Create(audit).Error
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *activityRepo) Delete(ctx context.Context, key model.CellKey, deletedBy string, audit *model.ActivityLog) (*model.Activity, error) {
	var existing model.Activity
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := whereCell(tx, key).First(&existing).Error; err != nil {
			return err
		}
		if err := tx.Create(model.NewDeletedActivity(&existing, model.BackupReasonDelete, deletedBy)).Error; err != nil {
			return err
		}
		if err := tx.Where("id = ?", existing.ID).Delete(&model.Activity{}).Error; err != nil {
			return err
		}

		audit.Action = model.ActionDelete
		audit.OldPayload = existing.Payload()
		return tx.Create(audit).Error
	})
	if err != nil {
		return nil, err
	}
	return &existing, nil
}

func (r *activityRepo) ListDeleted(ctx context.Context, filter DeletedActivityFilter, offset, limit int) ([]model.DeletedActivity, int64, error) {
	var rows []model.DeletedActivity
	var total int64

	db := r.db.WithContext(ctx).Model(&model.DeletedActivity{})
	if filter.DateKey != "" {
		db = db.Where("date_key = ?", filter.DateKey)
	}
	if filter.EmployeeID != "" {
		db = db.Where("employee_id = ?", filter.EmployeeID)
	}

	if err := db.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Order("deleted_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&rows).Error
	return rows, total, err
}

func (r *activityRepo) GetDeleted(ctx context.Context, id uint64) (*model.DeletedActivity, error) {
	var row model.DeletedActivity
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
