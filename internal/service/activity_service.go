package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"print-timesheet/internal/dto"
	"print-timesheet/internal/model"
	"print-timesheet/internal/repository"
)

// ── Activity errors ──

var (
	ErrInvalidDateKey      = errors.New("dateKey must be a YYYY-MM-DD calendar date")
	ErrInvalidActivityType = errors.New("unknown activity type")
	ErrInvalidPageRange    = errors.New("startPage and endPage must be given together, with endPage >= startPage")
	ErrNegativePages       = errors.New("page counts must not be negative")
	ErrActivityNotFound    = errors.New("no entry at this date, employee and time slot")
	ErrBackupNotFound      = errors.New("deleted entry not found")
)

// ActivityService grid entry business interface.
type ActivityService interface {
	GetGrid(ctx context.Context, actor *Actor, dateKey string) (dto.Grid, error)
	Upsert(ctx context.Context, actor *Actor, req *dto.UpsertActivityRequest) (*model.Activity, error)
	Delete(ctx context.Context, actor *Actor, req *dto.DeleteActivityRequest) (*model.Activity, error)
	ListDeleted(ctx context.Context, actor *Actor, req *dto.DeletedActivityListRequest) ([]model.DeletedActivity, int64, error)
	// Restore writes a recycle-bin copy back to its cell. Whatever occupies the
	// cell is itself backed up first; the copy is left untouched.
	Restore(ctx context.Context, actor *Actor, backupID uint64) (*model.Activity, error)
}

type activityService struct {
	repo   *repository.Repository
	slots  TimeSlots
	logger *zap.Logger
}

// NewActivityService creates an ActivityService.
func NewActivityService(repo *repository.Repository, slots []string, logger *zap.Logger) ActivityService {
	return &activityService{repo: repo, slots: slots, logger: logger}
}

func (s *activityService) GetGrid(ctx context.Context, actor *Actor, dateKey string) (dto.Grid, error) {
	if err := Authorize(actor, PermReadGrid, ""); err != nil {
		return nil, err
	}
	if _, err := parseDateKey(dateKey, nil); err != nil {
		return nil, err
	}

	entries, err := s.repo.Activity.ListByDate(ctx, dateKey)
	if err != nil {
		s.logger.Error("list activities failed", zap.String("date_key", dateKey), zap.Error(err))
		return nil, err
	}

	byEmployee := make(map[string]map[string]*model.Activity)
	for i := range entries {
		e := &entries[i]
		if byEmployee[e.EmployeeID] == nil {
			byEmployee[e.EmployeeID] = make(map[string]*model.Activity)
		}
		byEmployee[e.EmployeeID][e.TimeSlot] = e
	}
	return dto.Grid{dateKey: byEmployee}, nil
}

// ────── Upsert ──────

func (s *activityService) Upsert(ctx context.Context, actor *Actor, req *dto.UpsertActivityRequest) (*model.Activity, error) {
	if err := Authorize(actor, PermWriteEntry, req.EmployeeID); err != nil {
		return nil, err
	}

	entry := &model.Activity{
		DateKey:     req.DateKey,
		EmployeeID:  req.EmployeeID,
		TimeSlot:    req.TimeSlot,
		Type:        req.Type,
		Description: req.Description,
		TotalPages:  req.TotalPages,
		StartPage:   req.StartPage,
		EndPage:     req.EndPage,
		PagesDone:   req.PagesDone,
	}
	if req.Timestamp != nil {
		entry.LoggedAt = *req.Timestamp
	}
	return s.save(ctx, actor, entry)
}

// save validates entry, derives its page count and writes it.
func (s *activityService) save(ctx context.Context, actor *Actor, entry *model.Activity) (*model.Activity, error) {
	if err := s.validate(entry); err != nil {
		return nil, err
	}
	if err := normalizePages(entry); err != nil {
		return nil, err
	}
	if _, err := s.repo.Employee.GetByID(ctx, entry.EmployeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}

	if entry.LoggedAt.IsZero() {
		entry.LoggedAt = time.Now()
	}
	updatedBy := actor.UserID
	entry.UpdatedBy = &updatedBy

	audit := actor.audit(model.EntityActivity)
	audit.DateKey = entry.DateKey
	audit.TimeSlot = entry.TimeSlot
	audit.EmployeeID = entry.EmployeeID

	saved, err := s.repo.Activity.Upsert(ctx, entry, audit)
	if err != nil {
		s.logger.Error("upsert activity failed",
			zap.String("date_key", entry.DateKey),
			zap.String("employee_id", entry.EmployeeID),
			zap.String("time_slot", entry.TimeSlot),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("activity saved",
		zap.String("action", audit.Action),
		zap.String("date_key", saved.DateKey),
		zap.String("employee_id", saved.EmployeeID),
		zap.String("time_slot", saved.TimeSlot),
		zap.String("actor", actor.UserID),
	)
	return saved, nil
}

func (s *activityService) validate(entry *model.Activity) error {
	if _, err := parseDateKey(entry.DateKey, nil); err != nil {
		return err
	}
	if !s.slots.Contains(entry.TimeSlot) {
		return ErrInvalidTimeSlot
	}
	if !entry.Type.Valid() {
		return ErrInvalidActivityType
	}
	return nil
}

// normalizePages enforces the page rules. A supplied start/end range always
// wins over a client-supplied pagesDone.
func normalizePages(entry *model.Activity) error {
	for _, p := range []*int{entry.TotalPages, entry.StartPage, entry.EndPage, entry.PagesDone} {
		if p != nil && *p < 0 {
			return ErrNegativePages
		}
	}

	switch {
	case entry.StartPage == nil && entry.EndPage == nil:
		return nil
	case entry.StartPage == nil || entry.EndPage == nil:
		return ErrInvalidPageRange
	case *entry.EndPage < *entry.StartPage:
		return ErrInvalidPageRange
	}

	done := *entry.EndPage - *entry.StartPage + 1
	entry.PagesDone = &done
	return nil
}

// ────── Delete ──────

func (s *activityService) Delete(ctx context.Context, actor *Actor, req *dto.DeleteActivityRequest) (*model.Activity, error) {
	if err := Authorize(actor, PermWriteEntry, req.EmployeeID); err != nil {
		return nil, err
	}
	if _, err := parseDateKey(req.DateKey, nil); err != nil {
		return nil, err
	}

	key := model.CellKey{DateKey: req.DateKey, EmployeeID: req.EmployeeID, TimeSlot: req.TimeSlot}
	audit := actor.audit(model.EntityActivity)
	audit.DateKey = key.DateKey
	audit.TimeSlot = key.TimeSlot
	audit.EmployeeID = key.EmployeeID

	removed, err := s.repo.Activity.Delete(ctx, key, actor.UserID, audit)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActivityNotFound
		}
		s.logger.Error("delete activity failed", zap.Any("cell", key), zap.Error(err))
		return nil, err
	}

	s.logger.Info("activity deleted",
		zap.String("date_key", key.DateKey),
		zap.String("employee_id", key.EmployeeID),
		zap.String("time_slot", key.TimeSlot),
		zap.String("actor", actor.UserID),
	)
	return removed, nil
}

// ────── Recycle bin ──────

func (s *activityService) ListDeleted(ctx context.Context, actor *Actor, req *dto.DeletedActivityListRequest) ([]model.DeletedActivity, int64, error) {
	if err := Authorize(actor, PermRecycleBin, ""); err != nil {
		return nil, 0, err
	}
	filter := repository.DeletedActivityFilter{DateKey: req.DateKey, EmployeeID: req.EmployeeID}
	return s.repo.Activity.ListDeleted(ctx, filter, req.GetOffset(), req.GetPageSize())
}

func (s *activityService) Restore(ctx context.Context, actor *Actor, backupID uint64) (*model.Activity, error) {
	if err := Authorize(actor, PermRecycleBin, ""); err != nil {
		return nil, err
	}

	backup, err := s.repo.Activity.GetDeleted(ctx, backupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBackupNotFound
		}
		return nil, err
	}
	return s.save(ctx, actor, backup.ToActivity())
}
