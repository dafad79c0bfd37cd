package repository

import (
	"context"

	"gorm.io/gorm"

	"print-timesheet/internal/model"
)

// UserRepository login account data access.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	// CreateWithEmployee creates employee, links user to it and creates the
	// user in one transaction; audit records the employee creation.
	CreateWithEmployee(ctx context.Context, user *model.User, employee *model.Employee, audit *model.ActivityLog) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	List(ctx context.Context, offset, limit int) ([]model.User, int64, error)
}

type userRepo struct {
	db *gorm.DB
}

// NewUserRepo creates a UserRepository.
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepo) CreateWithEmployee(ctx context.Context, user *model.User, employee *model.Employee, audit *model.ActivityLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(employee).Error; err != nil {
			return err
		}
		user.EmployeeID = &employee.ID
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		user.Employee = employee

		audit.Action = model.ActionCreate
		audit.Entity = model.EntityEmployee
		audit.EmployeeID = employee.ID
		audit.NewPayload = employee.Payload()
		if audit.ActorID == "" {
			audit.ActorID = user.UserID
			audit.ActorName = user.Username
		}
		return tx.Create(audit).Error
	})
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Where("user_id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Where("username = ?", username).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) List(ctx context.Context, offset, limit int) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	db := r.db.WithContext(ctx).Model(&model.User{})

	if err := db.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Employee").
		Offset(offset).Limit(limit).
		Order("username ASC").
		Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}
