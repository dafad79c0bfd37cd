package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"print-timesheet/config"
	"print-timesheet/internal/dto"
	"print-timesheet/internal/model"
	"print-timesheet/internal/repository"
	pkgerrors "print-timesheet/pkg/errors"
	"print-timesheet/pkg/jwt"
)

// ── Auth errors ──

var (
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrRegistrationDisabled = errors.New("self-registration is disabled")
	ErrInvalidRefreshToken  = errors.New("invalid or expired refresh token")
)

// TokenBlacklist revokes token IDs before they expire.
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// AuthService authentication business interface.
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	// Register creates an employee-role account linked to a new employee and
	// logs it in.
	Register(ctx context.Context, req *dto.RegisterRequest, ip, userAgent string) (*dto.TokenResponse, error)
	// Refresh exchanges a refresh token for a new token pair. The old refresh
	// token is revoked when a blacklist is available.
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	// Logout revokes the access token jti until it would have expired.
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
	Me(ctx context.Context, userID string) (*dto.UserResponse, error)
}

type authService struct {
	cfg       *config.Config
	repo      *repository.Repository
	jwtMgr    *jwt.Manager
	blacklist TokenBlacklist
	logger    *zap.Logger
}

// NewAuthService creates an AuthService. blacklist may be nil, in which case
// logout and refresh rotation rely on token expiry alone.
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:       cfg,
		repo:      repo,
		jwtMgr:    jwtMgr,
		blacklist: blacklist,
		logger:    logger,
	}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.repo.User.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("lookup user failed", zap.Error(err))
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	s.logger.Info("user logged in", zap.String("user_id", user.UserID))
	return s.issueTokens(user)
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest, ip, userAgent string) (*dto.TokenResponse, error) {
	if !s.cfg.Feature.SelfRegistration {
		return nil, ErrRegistrationDisabled
	}

	username := strings.TrimSpace(req.Username)
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = username
	}

	if _, err := s.repo.User.GetByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if _, err := s.repo.Employee.GetByName(ctx, name); err == nil {
		return nil, ErrEmployeeNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &model.User{Username: username, PasswordHash: hash, Role: model.RoleEmployee}
	audit := &model.ActivityLog{IP: ip, UserAgent: userAgent}

	if err := s.repo.User.CreateWithEmployee(ctx, user, &model.Employee{Name: name}, audit); err != nil {
		if pkgerrors.IsDuplicate(err) {
			return nil, ErrUsernameTaken
		}
		s.logger.Error("register failed", zap.String("username", username), zap.Error(err))
		return nil, err
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.UserID),
		zap.String("employee_id", user.LinkedEmployeeID()),
	)
	return s.issueTokens(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(refreshToken)
	if err != nil || claims.TokenType != jwt.TokenTypeRefresh {
		return nil, ErrInvalidRefreshToken
	}

	if s.blacklist != nil {
		revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			s.logger.Warn("blacklist lookup failed", zap.Error(err))
		} else if revoked {
			return nil, ErrInvalidRefreshToken
		}
	}

	// Reload so role or employee link changes take effect.
	user, err := s.repo.User.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	if s.blacklist != nil && claims.ExpiresAt != nil {
		if err := s.blacklist.BlacklistToken(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
			s.logger.Warn("revoke refresh token failed", zap.Error(err))
		}
	}
	return s.issueTokens(user)
}

func (s *authService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if s.blacklist == nil || jti == "" {
		return nil
	}
	if err := s.blacklist.BlacklistToken(ctx, jti, time.Until(expiresAt)); err != nil {
		s.logger.Error("revoke access token failed", zap.Error(err))
		return err
	}
	return nil
}

func (s *authService) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *authService) issueTokens(user *model.User) (*dto.TokenResponse, error) {
	sub := jwt.Subject{
		UserID:     user.UserID,
		Username:   user.Username,
		Role:       user.Role,
		EmployeeID: user.LinkedEmployeeID(),
	}

	accessToken, err := s.jwtMgr.GenerateAccessToken(sub)
	if err != nil {
		s.logger.Error("sign access token failed", zap.Error(err))
		return nil, err
	}
	refreshToken, err := s.jwtMgr.GenerateRefreshToken(sub)
	if err != nil {
		s.logger.Error("sign refresh token failed", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.jwtMgr.AccessTokenTTL().Seconds()),
		User:         toUserResponse(user),
	}, nil
}
