package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"print-timesheet/internal/model"
)

// EmployeeRepository employee data access.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (*model.Employee, error)
	GetByName(ctx context.Context, name string) (*model.Employee, error)
	List(ctx context.Context) ([]model.Employee, error)
	// Save creates e, or updates it when e.ID already exists, and appends
	// audit in the same transaction. It reports whether a row was created.
	Save(ctx context.Context, e *model.Employee, audit *model.ActivityLog) (bool, error)
	// Delete removes the employee and all of their entries. Every entry is
	// copied to the recycle bin first. Returns the number of entries moved.
	Delete(ctx context.Context, id string, deletedBy string, audit *model.ActivityLog) (int, error)
}

type employeeRepo struct {
	db *gorm.DB
}

// NewEmployeeRepo creates an EmployeeRepository.
func NewEmployeeRepo(db *gorm.DB) EmployeeRepository {
	return &employeeRepo{db: db}
}

func (r *employeeRepo) GetByID(ctx context.Context, id string) (*model.Employee, error) {
	var e model.Employee
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *employeeRepo) GetByName(ctx context.Context, name string) (*model.Employee, error) {
	var e model.Employee
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *employeeRepo) List(ctx context.Context) ([]model.Employee, error) {
	var employees []model.Employee
	err := r.db.WithContext(ctx).
		Order("name ASC, id ASC").
		Find(&employees).Error
	return employees, err
}

func (r *employeeRepo) Save(ctx context.Context, e *model.Employee, audit *model.ActivityLog) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Employee
		err := gorm.ErrRecordNotFound
		if e.ID != "" {
			err = tx.Where("id = ?", e.ID).First(&existing).Error
		}
		switch {
		case err == nil:
			if err := tx.Model(&model.Employee{}).
				Where("id = ?", e.ID).
				Updates(map[string]interface{}{
					"name":       e.Name,
					"email":      e.Email,
					"updated_at": time.Now(),
				}).Error; err != nil {
				return err
			}
			audit.Action = model.ActionUpdate
			audit.OldPayload = existing.Payload()
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(e).Error; err != nil {
				return err
			}
			created = true
			audit.Action = model.ActionCreate
		default:
			return err
		}

		if err := tx.Where("id = ?", e.ID).First(e).Error; err != nil {
			return err
		}
		audit.Entity = model.EntityEmployee
		audit.EmployeeID = e.ID
		audit.NewPayload = e.Payload()
		return tx.Create(audit).Error
	})
	return created, err
}

func (r *employeeRepo) Delete(ctx context.Context, id string, deletedBy string, audit *model.ActivityLog) (int, error) {
	moved := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Employee
		if err := tx.Where("id = ?", id).First(&existing).Error; err != nil {
			return err
		}

		var entries []model.Activity
		if err := tx.Where("employee_id = ?", id).Find(&entries).Error; err != nil {
			return err
		}
		if len(entries) > 0 {
			backups := make([]model.DeletedActivity, 0, len(entries))
			for i := range entries {
				backups = append(backups, *model.NewDeletedActivity(&entries[i], model.BackupReasonEmployeeDelete, deletedBy))
			}
			if err := tx.Create(&backups).Error; err != nil {
				return err
			}
			if err := tx.Where("employee_id = ?", id).Delete(&model.Activity{}).Error; err != nil {
				return err
			}
		}
		moved = len(entries)

		if err := tx.Model(&model.User{}).
			Where("employee_id = ?", id).
			Update("employee_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("id = ?", id).Delete(&model.Employee{}).Error; err != nil {
			return err
		}

		audit.Action = model.ActionDelete
		audit.Entity = model.EntityEmployee
		audit.EmployeeID = id
		audit.OldPayload = existing.Payload()
		return tx.Create(audit).Error
	})
	return moved, err
}
