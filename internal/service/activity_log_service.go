package service

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"print-timesheet/internal/dto"
	"print-timesheet/internal/model"
	"print-timesheet/internal/repository"
)

// ErrInvalidPayload audit payload is not valid JSON.
var ErrInvalidPayload = errors.New("payload must be valid JSON")

// ActivityLogService audit history business interface. Mutations performed by
// other services write their audit rows themselves, inside their own
// transaction; this service covers reading, client appends and clearing.
type ActivityLogService interface {
	Query(ctx context.Context, actor *Actor, q *dto.ActivityLogQuery) ([]model.ActivityLog, int64, error)
	Append(ctx context.Context, actor *Actor, req *dto.AppendActivityLogRequest) (*model.ActivityLog, error)
	// Clear removes every audit record. Entries and backups are untouched.
	Clear(ctx context.Context, actor *Actor) (int64, error)
}

type activityLogService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewActivityLogService creates an ActivityLogService.
func NewActivityLogService(repo *repository.Repository, logger *zap.Logger) ActivityLogService {
	return &activityLogService{repo: repo, logger: logger}
}

func (s *activityLogService) Query(ctx context.Context, actor *Actor, q *dto.ActivityLogQuery) ([]model.ActivityLog, int64, error) {
	if err := Authorize(actor, PermReadLog, ""); err != nil {
		return nil, 0, err
	}

	filter := repository.ActivityLogFilter{
		From:       q.From,
		To:         q.To,
		EmployeeID: q.EmployeeID,
		Action:     q.Action,
		Entity:     q.Entity,
	}
	offset, limit := q.GetOffset(), q.GetPageSize()
	if q.Limit > 0 {
		offset, limit = 0, q.Limit
	}
	return s.repo.ActivityLog.List(ctx, filter, offset, limit)
}

func (s *activityLogService) Append(ctx context.Context, actor *Actor, req *dto.AppendActivityLogRequest) (*model.ActivityLog, error) {
	if err := Authorize(actor, PermAppendLog, req.EmployeeID); err != nil {
		return nil, err
	}
	if !model.ValidAction(req.Action) {
		return nil, ErrInvalidPayload
	}

	oldPayload, err := rawPayload(req.OldPayload)
	if err != nil {
		return nil, err
	}
	newPayload, err := rawPayload(req.NewPayload)
	if err != nil {
		return nil, err
	}

	entity := req.Entity
	if entity == "" {
		entity = model.EntityActivity
	}
	record := actor.audit(entity)
	record.Action = req.Action
	record.DateKey = req.DateKey
	record.TimeSlot = req.TimeSlot
	record.EmployeeID = req.EmployeeID
	record.OldPayload = oldPayload
	record.NewPayload = newPayload

	if err := s.repo.ActivityLog.Create(ctx, record); err != nil {
		s.logger.Error("append audit record failed", zap.Error(err))
		return nil, err
	}
	return record, nil
}

func (s *activityLogService) Clear(ctx context.Context, actor *Actor) (int64, error) {
	if err := Authorize(actor, PermClearLog, ""); err != nil {
		return 0, err
	}

	removed, err := s.repo.ActivityLog.Clear(ctx)
	if err != nil {
		s.logger.Error("clear audit log failed", zap.Error(err))
		return 0, err
	}

	s.logger.Warn("audit log cleared",
		zap.Int64("removed", removed),
		zap.String("actor", actor.UserID),
		zap.String("ip", actor.IP),
	)
	return removed, nil
}

func rawPayload(raw json.RawMessage) (*string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	if !json.Valid(raw) {
		return nil, ErrInvalidPayload
	}
	s := string(raw)
	return &s, nil
}
