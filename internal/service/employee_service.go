package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"print-timesheet/internal/dto"
	"print-timesheet/internal/model"
	"print-timesheet/internal/repository"
	pkgerrors "print-timesheet/pkg/errors"
)

// ── Employee errors ──

var (
	ErrEmployeeNotFound  = errors.New("employee not found")
	ErrEmployeeNameTaken = errors.New("an employee with this name already exists")
	ErrEmployeeNameEmpty = errors.New("employee name must not be empty")
)

// EmployeeService employee business interface.
type EmployeeService interface {
	List(ctx context.Context, actor *Actor) ([]model.Employee, error)
	// Upsert creates the employee, or updates it when req.ID exists. The bool
	// reports whether a new employee was created.
	Upsert(ctx context.Context, actor *Actor, req *dto.UpsertEmployeeRequest) (*model.Employee, bool, error)
	// Delete removes the employee and moves all of their entries to the
	// recycle bin. Returns the number of entries moved.
	Delete(ctx context.Context, actor *Actor, id string) (int, error)
}

type employeeService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEmployeeService creates an EmployeeService.
func NewEmployeeService(repo *repository.Repository, logger *zap.Logger) EmployeeService {
	return &employeeService{repo: repo, logger: logger}
}

func (s *employeeService) List(ctx context.Context, actor *Actor) ([]model.Employee, error) {
	if err := Authorize(actor, PermReadGrid, ""); err != nil {
		return nil, err
	}
	return s.repo.Employee.List(ctx)
}

func (s *employeeService) Upsert(ctx context.Context, actor *Actor, req *dto.UpsertEmployeeRequest) (*model.Employee, bool, error) {
	if err := Authorize(actor, PermManageEmployees, ""); err != nil {
		return nil, false, err
	}

	id := strings.TrimSpace(req.ID)
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, false, ErrEmployeeNameEmpty
	}

	// Name uniqueness is checked up front for a clear error; the unique index
	// still catches a concurrent insert.
	other, err := s.repo.Employee.GetByName(ctx, name)
	switch {
	case err == nil:
		if other.ID != id {
			return nil, false, ErrEmployeeNameTaken
		}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		s.logger.Error("lookup employee by name failed", zap.Error(err))
		return nil, false, err
	}

	e := &model.Employee{ID: id, Name: name, Email: req.Email}
	created, err := s.repo.Employee.Save(ctx, e, actor.audit(model.EntityEmployee))
	if err != nil {
		if pkgerrors.IsDuplicate(err) {
			return nil, false, ErrEmployeeNameTaken
		}
		s.logger.Error("save employee failed", zap.String("name", name), zap.Error(err))
		return nil, false, err
	}

	s.logger.Info("employee saved",
		zap.String("employee_id", e.ID),
		zap.Bool("created", created),
		zap.String("actor", actor.UserID),
	)
	return e, created, nil
}

func (s *employeeService) Delete(ctx context.Context, actor *Actor, id string) (int, error) {
	if err := Authorize(actor, PermManageEmployees, ""); err != nil {
		return 0, err
	}

	moved, err := s.repo.Employee.Delete(ctx, id, actor.UserID, actor.audit(model.EntityEmployee))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrEmployeeNotFound
		}
		s.logger.Error("delete employee failed", zap.String("employee_id", id), zap.Error(err))
		return 0, err
	}

	s.logger.Info("employee deleted",
		zap.String("employee_id", id),
		zap.Int("moved_entries", moved),
		zap.String("actor", actor.UserID),
	)
	return moved, nil
}
