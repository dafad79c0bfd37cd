package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"print-timesheet/internal/dto"
	"print-timesheet/internal/model"
	"print-timesheet/internal/repository"
	pkgerrors "print-timesheet/pkg/errors"
)

// ── User errors ──

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username is already taken")
	ErrInvalidRole   = errors.New("role must be admin or employee")
	// bcrypt rejects passwords longer than 72 bytes; binding's max counts runes.
	ErrPasswordTooLong = errors.New("password must be at most 72 bytes")
)

const maxPasswordBytes = 72

// UserService login account business interface (admin only).
type UserService interface {
	List(ctx context.Context, actor *Actor, req *dto.UserListRequest) ([]dto.UserResponse, int64, error)
	Create(ctx context.Context, actor *Actor, req *dto.CreateUserRequest) (*dto.UserResponse, error)
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService creates a UserService.
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

func (s *userService) List(ctx context.Context, actor *Actor, req *dto.UserListRequest) ([]dto.UserResponse, int64, error) {
	if err := Authorize(actor, PermManageUsers, ""); err != nil {
		return nil, 0, err
	}

	users, total, err := s.repo.User.List(ctx, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("list users failed", zap.Error(err))
		return nil, 0, err
	}

	list := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		list = append(list, toUserResponse(&users[i]))
	}
	return list, total, nil
}

func (s *userService) Create(ctx context.Context, actor *Actor, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	if err := Authorize(actor, PermManageUsers, ""); err != nil {
		return nil, err
	}
	if !model.ValidRole(req.Role) {
		return nil, ErrInvalidRole
	}

	user := &model.User{
		Username: strings.TrimSpace(req.Username),
		Role:     req.Role,
	}
	if req.EmployeeID != nil && *req.EmployeeID != "" {
		employee, err := s.repo.Employee.GetByID(ctx, *req.EmployeeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrEmployeeNotFound
			}
			return nil, err
		}
		user.EmployeeID = &employee.ID
		user.Employee = employee
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash

	if err := s.repo.User.Create(ctx, user); err != nil {
		if pkgerrors.IsDuplicate(err) {
			return nil, ErrUsernameTaken
		}
		s.logger.Error("create user failed", zap.String("username", user.Username), zap.Error(err))
		return nil, err
	}

	s.logger.Info("user created",
		zap.String("user_id", user.UserID),
		zap.String("role", user.Role),
		zap.String("actor", actor.UserID),
	)
	resp := toUserResponse(user)
	return &resp, nil
}

func hashPassword(password string) (string, error) {
	if len(password) > maxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func toUserResponse(u *model.User) dto.UserResponse {
	resp := dto.UserResponse{
		UserID:     u.UserID,
		Username:   u.Username,
		Role:       u.Role,
		EmployeeID: u.LinkedEmployeeID(),
		CreatedAt:  u.CreatedAt,
	}
	if u.Employee != nil {
		resp.Employee = u.Employee.Name
	}
	return resp
}
