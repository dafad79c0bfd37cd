package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"print-timesheet/config"
	"print-timesheet/internal/model"
	"print-timesheet/internal/repository"
)

// ── Mock store ──
//
// One in-memory store backs all mock repositories so cross-table effects
// (backups, audit rows, unlinking users) behave like the gorm implementation.

type mockStore struct {
	employees map[string]*model.Employee
	users     map[string]*model.User
	entries   map[model.CellKey]*model.Activity
	deleted   []model.DeletedActivity
	logs      []model.ActivityLog
	nextID    uint64
}

func newMockStore() *mockStore {
	return &mockStore{
		employees: make(map[string]*model.Employee),
		users:     make(map[string]*model.User),
		entries:   make(map[model.CellKey]*model.Activity),
	}
}

func (s *mockStore) id() uint64 {
	s.nextID++
	return s.nextID
}

func (s *mockStore) appendLog(l *model.ActivityLog) {
	l.ID = s.id()
	l.CreatedAt = time.Now()
	s.logs = append(s.logs, *l)
}

func (s *mockStore) backup(a *model.Activity, reason, by string) {
	d := model.NewDeletedActivity(a, reason, by)
	d.ID = s.id()
	d.DeletedAt = time.Now()
	s.deleted = append(s.deleted, *d)
}

func newMockRepository(s *mockStore) *repository.Repository {
	return &repository.Repository{
		Employee:    &mockEmployeeRepo{s: s},
		User:        &mockUserRepo{s: s},
		Activity:    &mockActivityRepo{s: s},
		ActivityLog: &mockActivityLogRepo{s: s},
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:       "test-secret-at-least-16",
			AccessTokenTTL:  time.Hour,
			RefreshTokenTTL: 24 * time.Hour,
		},
		Timesheet: config.TimesheetConfig{
			TimeSlots: append([]string(nil), config.DefaultTimeSlots...),
			Location:  "UTC",
		},
		Feature: config.FeatureConfig{SelfRegistration: true},
	}
}

func newTestService(s *mockStore, blacklist TokenBlacklist) *Service {
	cfg := testConfig()
	return NewService(cfg, newMockRepository(s), newTestJWT(cfg), blacklist, zap.NewNop())
}

// ── Mock EmployeeRepository ──

type mockEmployeeRepo struct{ s *mockStore }

func (m *mockEmployeeRepo) GetByID(_ context.Context, id string) (*model.Employee, error) {
	if e, ok := m.s.employees[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeRepo) GetByName(_ context.Context, name string) (*model.Employee, error) {
	for _, e := range m.s.employees {
		if e.Name == name {
			cp := *e
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeRepo) List(_ context.Context) ([]model.Employee, error) {
	var result []model.Employee
	for _, e := range m.s.employees {
		result = append(result, *e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockEmployeeRepo) Save(_ context.Context, e *model.Employee, audit *model.ActivityLog) (bool, error) {
	for _, other := range m.s.employees {
		if other.Name == e.Name && other.ID != e.ID {
			return false, gorm.ErrDuplicatedKey
		}
	}
	created := true
	audit.Action = model.ActionCreate
	if old, ok := m.s.employees[e.ID]; ok && e.ID != "" {
		created = false
		audit.Action = model.ActionUpdate
		audit.OldPayload = old.Payload()
	}
	if e.ID == "" {
		e.ID = model.NewID()
	}
	cp := *e
	m.s.employees[e.ID] = &cp
	audit.Entity = model.EntityEmployee
	audit.EmployeeID = e.ID
	audit.NewPayload = e.Payload()
	m.s.appendLog(audit)
	return created, nil
}

func (m *mockEmployeeRepo) Delete(_ context.Context, id string, deletedBy string, audit *model.ActivityLog) (int, error) {
	e, ok := m.s.employees[id]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	moved := 0
	for key, a := range m.s.entries {
		if key.EmployeeID == id {
			m.s.backup(a, model.BackupReasonEmployeeDelete, deletedBy)
			delete(m.s.entries, key)
			moved++
		}
	}
	for _, u := range m.s.users {
		if u.LinkedEmployeeID() == id {
			u.EmployeeID = nil
		}
	}
	delete(m.s.employees, id)
	audit.Action = model.ActionDelete
	audit.Entity = model.EntityEmployee
	audit.EmployeeID = id
	audit.OldPayload = e.Payload()
	m.s.appendLog(audit)
	return moved, nil
}

// ── Mock UserRepository ──

type mockUserRepo struct{ s *mockStore }

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.s.users {
		if u.Username == user.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.UserID == "" {
		user.UserID = "user-" + user.Username
	}
	user.CreatedAt = time.Now()
	m.s.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) CreateWithEmployee(ctx context.Context, user *model.User, employee *model.Employee, audit *model.ActivityLog) error {
	if employee.ID == "" {
		employee.ID = "emp-" + user.Username
	}
	m.s.employees[employee.ID] = employee
	user.EmployeeID = &employee.ID
	if err := m.Create(ctx, user); err != nil {
		delete(m.s.employees, employee.ID)
		return err
	}
	user.Employee = employee
	audit.Action = model.ActionCreate
	audit.Entity = model.EntityEmployee
	audit.EmployeeID = employee.ID
	if audit.ActorID == "" {
		audit.ActorID = user.UserID
		audit.ActorName = user.Username
	}
	m.s.appendLog(audit)
	return nil
}

func (m *mockUserRepo) withEmployee(u *model.User) *model.User {
	cp := *u
	if e, ok := m.s.employees[cp.LinkedEmployeeID()]; ok {
		cp.Employee = e
	}
	return &cp
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.s.users[id]; ok {
		return m.withEmployee(u), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.s.users {
		if u.Username == username {
			return m.withEmployee(u), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) List(_ context.Context, offset, limit int) ([]model.User, int64, error) {
	var result []model.User
	for _, u := range m.s.users {
		result = append(result, *m.withEmployee(u))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Username < result[j].Username })
	total := int64(len(result))
	if offset >= len(result) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], total, nil
}

// ── Mock ActivityRepository ──

type mockActivityRepo struct{ s *mockStore }

func (m *mockActivityRepo) ListByDate(_ context.Context, dateKey string) ([]model.Activity, error) {
	var result []model.Activity
	for key, a := range m.s.entries {
		if key.DateKey == dateKey {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (m *mockActivityRepo) ListByEmployee(_ context.Context, employeeID, from, to string) ([]model.Activity, error) {
	var result []model.Activity
	for key, a := range m.s.entries {
		if key.EmployeeID == employeeID && key.DateKey >= from && key.DateKey <= to {
			result = append(result, *a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockActivityRepo) GetByKey(_ context.Context, key model.CellKey) (*model.Activity, error) {
	if a, ok := m.s.entries[key]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockActivityRepo) Upsert(_ context.Context, entry *model.Activity, audit *model.ActivityLog) (*model.Activity, error) {
	key := entry.Key()
	audit.Action = model.ActionCreate
	cp := *entry
	if old, ok := m.s.entries[key]; ok {
		m.s.backup(old, model.BackupReasonOverwrite, derefTestString(entry.UpdatedBy))
		audit.Action = model.ActionUpdate
		audit.OldPayload = old.Payload()
		cp.ID = old.ID
		cp.CreatedAt = old.CreatedAt
	} else {
		cp.ID = m.s.id()
		cp.CreatedAt = time.Now()
	}
	cp.UpdatedAt = time.Now()
	m.s.entries[key] = &cp
	audit.NewPayload = cp.Payload()
	m.s.appendLog(audit)
	saved := cp
	return &saved, nil
}

func (m *mockActivityRepo) Delete(_ context.Context, key model.CellKey, deletedBy string, audit *model.ActivityLog) (*model.Activity, error) {
	old, ok := m.s.entries[key]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	m.s.backup(old, model.BackupReasonDelete, deletedBy)
	delete(m.s.entries, key)
	audit.Action = model.ActionDelete
	audit.OldPayload = old.Payload()
	m.s.appendLog(audit)
	return old, nil
}

func (m *mockActivityRepo) ListDeleted(_ context.Context, filter repository.DeletedActivityFilter, offset, limit int) ([]model.DeletedActivity, int64, error) {
	var result []model.DeletedActivity
	for i := len(m.s.deleted) - 1; i >= 0; i-- {
		d := m.s.deleted[i]
		if filter.DateKey != "" && d.DateKey != filter.DateKey {
			continue
		}
		if filter.EmployeeID != "" && d.EmployeeID != filter.EmployeeID {
			continue
		}
		result = append(result, d)
	}
	total := int64(len(result))
	if offset >= len(result) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], total, nil
}

func (m *mockActivityRepo) GetDeleted(_ context.Context, id uint64) (*model.DeletedActivity, error) {
	for i := range m.s.deleted {
		if m.s.deleted[i].ID == id {
			cp := m.s.deleted[i]
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func derefTestString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ── Mock ActivityLogRepository ──

type mockActivityLogRepo struct{ s *mockStore }

func (m *mockActivityLogRepo) Create(_ context.Context, l *model.ActivityLog) error {
	m.s.appendLog(l)
	return nil
}

func (m *mockActivityLogRepo) List(_ context.Context, filter repository.ActivityLogFilter, offset, limit int) ([]model.ActivityLog, int64, error) {
	var result []model.ActivityLog
	for i := len(m.s.logs) - 1; i >= 0; i-- {
		l := m.s.logs[i]
		if filter.Action != "" && l.Action != filter.Action {
			continue
		}
		if filter.EmployeeID != "" && l.EmployeeID != filter.EmployeeID {
			continue
		}
		if filter.Entity != "" && l.Entity != filter.Entity {
			continue
		}
		result = append(result, l)
	}
	total := int64(len(result))
	if offset >= len(result) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], total, nil
}

func (m *mockActivityLogRepo) Clear(_ context.Context) (int64, error) {
	n := int64(len(m.s.logs))
	m.s.logs = nil
	return n, nil
}

// ── Mock TokenBlacklist ──

type mockBlacklist struct {
	revoked map[string]time.Duration
}

func newMockBlacklist() *mockBlacklist {
	return &mockBlacklist{revoked: make(map[string]time.Duration)}
}

func (m *mockBlacklist) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	m.revoked[jti] = ttl
	return nil
}

func (m *mockBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	_, ok := m.revoked[jti]
	return ok, nil
}
