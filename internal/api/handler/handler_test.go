package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"print-timesheet/config"
	"print-timesheet/internal/api/middleware"
	"print-timesheet/internal/dto"
	"print-timesheet/internal/model"
	"print-timesheet/internal/service"
	"print-timesheet/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
	binding.EnableDecoderDisallowUnknownFields = true
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	loginResult *dto.TokenResponse
	loginErr    error
	registerErr error
	logoutJTI   string
}

func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	if m.loginResult == nil {
		return nil, m.loginErr
	}
	cp := *m.loginResult
	return &cp, m.loginErr
}
func (m *mockAuthService) Register(_ context.Context, _ *dto.RegisterRequest, _, _ string) (*dto.TokenResponse, error) {
	if m.registerErr != nil {
		return nil, m.registerErr
	}
	return nil, service.ErrRegistrationDisabled
}
func (m *mockAuthService) Refresh(_ context.Context, _ string) (*dto.TokenResponse, error) {
	return nil, service.ErrInvalidRefreshToken
}
func (m *mockAuthService) Logout(_ context.Context, jti string, _ time.Time) error {
	m.logoutJTI = jti
	return nil
}
func (m *mockAuthService) Me(_ context.Context, userID string) (*dto.UserResponse, error) {
	return &dto.UserResponse{UserID: userID}, nil
}

// ── Mock EmployeeService ──

type mockEmployeeService struct {
	upsertResult  *model.Employee
	upsertCreated bool
	upsertErr     error
	deleteMoved   int
	deleteErr     error
}

func (m *mockEmployeeService) List(_ context.Context, _ *service.Actor) ([]model.Employee, error) {
	return []model.Employee{{ID: "e1", Name: "Asha"}}, nil
}
func (m *mockEmployeeService) Upsert(_ context.Context, _ *service.Actor, _ *dto.UpsertEmployeeRequest) (*model.Employee, bool, error) {
	return m.upsertResult, m.upsertCreated, m.upsertErr
}
func (m *mockEmployeeService) Delete(_ context.Context, _ *service.Actor, _ string) (int, error) {
	return m.deleteMoved, m.deleteErr
}

// ── Mock ActivityService ──

type mockActivityService struct {
	lastActor *service.Actor
	upsertErr error
	deleteErr error
}

func (m *mockActivityService) GetGrid(_ context.Context, _ *service.Actor, dateKey string) (dto.Grid, error) {
	return dto.Grid{dateKey: {}}, nil
}
func (m *mockActivityService) Upsert(_ context.Context, actor *service.Actor, req *dto.UpsertActivityRequest) (*model.Activity, error) {
	m.lastActor = actor
	if m.upsertErr != nil {
		return nil, m.upsertErr
	}
	return &model.Activity{ID: 1, DateKey: req.DateKey, EmployeeID: req.EmployeeID, TimeSlot: req.TimeSlot, Type: req.Type}, nil
}
func (m *mockActivityService) Delete(_ context.Context, _ *service.Actor, _ *dto.DeleteActivityRequest) (*model.Activity, error) {
	return &model.Activity{ID: 1}, m.deleteErr
}
func (m *mockActivityService) ListDeleted(_ context.Context, _ *service.Actor, _ *dto.DeletedActivityListRequest) ([]model.DeletedActivity, int64, error) {
	return []model.DeletedActivity{{ID: 7}}, 1, nil
}
func (m *mockActivityService) Restore(_ context.Context, _ *service.Actor, id uint64) (*model.Activity, error) {
	if id != 7 {
		return nil, service.ErrBackupNotFound
	}
	return &model.Activity{ID: 2}, nil
}

// ── Mock ActivityLogService ──

type mockActivityLogService struct {
	cleared int64
}

func (m *mockActivityLogService) Query(_ context.Context, _ *service.Actor, _ *dto.ActivityLogQuery) ([]model.ActivityLog, int64, error) {
	return []model.ActivityLog{{ID: 1}, {ID: 2}}, 5, nil
}
func (m *mockActivityLogService) Append(_ context.Context, actor *service.Actor, req *dto.AppendActivityLogRequest) (*model.ActivityLog, error) {
	return &model.ActivityLog{ID: 3, ActorID: actor.UserID, Action: req.Action}, nil
}
func (m *mockActivityLogService) Clear(_ context.Context, _ *service.Actor) (int64, error) {
	return m.cleared, nil
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) ExportGrid(_ context.Context, _ *service.Actor, _ string) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}
func (m *mockExportService) ExportCalendar(_ context.Context, _ *service.Actor, _, _, _ string) ([]byte, string, error) {
	return []byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"), "cal.ics", m.err
}

// ═══════════════════════════════════════════════════════════
// Helpers
// ═══════════════════════════════════════════════════════════

// asUser stands in for JWTAuth.
func asUser(userID, role, employeeID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.CtxUserID, userID)
		c.Set(middleware.CtxUsername, userID)
		c.Set(middleware.CtxRole, role)
		c.Set(middleware.CtxEmployeeID, employeeID)
		c.Set(middleware.CtxTokenJTI, "jti-"+userID)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return resp
}

// ═══════════════════════════════════════════════════════════
// Employee
// ═══════════════════════════════════════════════════════════

func TestUpsertEmployee(t *testing.T) {
	tests := []struct {
		name     string
		svc      *mockEmployeeService
		body     string
		wantHTTP int
		wantCode int
	}{
		{"created", &mockEmployeeService{upsertResult: &model.Employee{ID: "e1", Name: "Asha"}, upsertCreated: true}, `{"id":"e1","name":"Asha"}`, http.StatusCreated, 0},
		{"updated", &mockEmployeeService{upsertResult: &model.Employee{ID: "e1", Name: "Asha"}}, `{"id":"e1","name":"Asha"}`, http.StatusOK, 0},
		{"duplicate name", &mockEmployeeService{upsertErr: service.ErrEmployeeNameTaken}, `{"id":"e2","name":"Asha"}`, http.StatusBadRequest, 12002},
		{"missing name", &mockEmployeeService{}, `{"id":"e2"}`, http.StatusBadRequest, 10001},
		{"unknown field", &mockEmployeeService{}, `{"name":"Asha","salary":10}`, http.StatusBadRequest, 10001},
		{"forbidden", &mockEmployeeService{upsertErr: service.ErrForbidden}, `{"name":"Asha"}`, http.StatusForbidden, 10003},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewEmployeeHandler(tt.svc)
			r := gin.New()
			r.POST("/employees", asUser("admin", model.RoleAdmin, ""), h.UpsertEmployee)

			w := doRequest(r, http.MethodPost, "/employees", tt.body)
			if w.Code != tt.wantHTTP {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.wantHTTP, w.Body.String())
			}
			if resp := decode(t, w); resp.Code != tt.wantCode {
				t.Errorf("code = %d, want %d", resp.Code, tt.wantCode)
			}
		})
	}
}

func TestDeleteEmployee_NotFound(t *testing.T) {
	h := NewEmployeeHandler(&mockEmployeeService{deleteErr: service.ErrEmployeeNotFound})
	r := gin.New()
	r.DELETE("/employees/:id", asUser("admin", model.RoleAdmin, ""), h.DeleteEmployee)

	w := doRequest(r, http.MethodDelete, "/employees/ghost", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// Activities
// ═══════════════════════════════════════════════════════════

const validEntry = `{"dateKey":"2024-03-01","employeeId":"e1","timeSlot":"9:00-10:00","type":"proof","startPage":10,"endPage":14}`

func TestUpsertActivity(t *testing.T) {
	tests := []struct {
		name     string
		svcErr   error
		body     string
		wantHTTP int
		wantCode int
	}{
		{"ok", nil, validEntry, http.StatusOK, 0},
		{"forbidden", service.ErrForbidden, validEntry, http.StatusForbidden, 10003},
		{"bad slot", service.ErrInvalidTimeSlot, validEntry, http.StatusBadRequest, 13002},
		{"bad range", service.ErrInvalidPageRange, validEntry, http.StatusBadRequest, 13004},
		{"unknown employee", service.ErrEmployeeNotFound, validEntry, http.StatusNotFound, 12001},
		{"negative pages", nil, `{"dateKey":"2024-03-01","employeeId":"e1","timeSlot":"9:00-10:00","type":"proof","pagesDone":-1}`, http.StatusBadRequest, 10001},
		{"bad date format", nil, `{"dateKey":"01/03/2024","employeeId":"e1","timeSlot":"9:00-10:00","type":"proof"}`, http.StatusBadRequest, 10001},
		{"unknown field", nil, `{"dateKey":"2024-03-01","employeeId":"e1","timeSlot":"9:00-10:00","type":"proof","color":"red"}`, http.StatusBadRequest, 10001},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockActivityService{upsertErr: tt.svcErr}
			h := NewActivityHandler(svc)
			r := gin.New()
			r.POST("/activities", asUser("u1", model.RoleEmployee, "e1"), h.UpsertActivity)

			w := doRequest(r, http.MethodPost, "/activities", tt.body)
			if w.Code != tt.wantHTTP {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.wantHTTP, w.Body.String())
			}
			if resp := decode(t, w); resp.Code != tt.wantCode {
				t.Errorf("code = %d, want %d", resp.Code, tt.wantCode)
			}
		})
	}
}

func TestUpsertActivity_PassesActor(t *testing.T) {
	svc := &mockActivityService{}
	h := NewActivityHandler(svc)
	r := gin.New()
	r.POST("/activities", asUser("u1", model.RoleEmployee, "e1"), h.UpsertActivity)

	req := httptest.NewRequest(http.MethodPost, "/activities", strings.NewReader(validEntry))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "timesheet-test")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	a := svc.lastActor
	if a == nil || a.UserID != "u1" || a.EmployeeID != "e1" || a.Role != model.RoleEmployee || a.UserAgent != "timesheet-test" {
		t.Errorf("actor = %+v", a)
	}
}

func TestGetGrid_RequiresDateKey(t *testing.T) {
	h := NewActivityHandler(&mockActivityService{})
	r := gin.New()
	r.GET("/activities", asUser("u1", model.RoleEmployee, "e1"), h.GetGrid)

	if w := doRequest(r, http.MethodGet, "/activities", ""); w.Code != http.StatusBadRequest {
		t.Errorf("missing dateKey status = %d", w.Code)
	}
	if w := doRequest(r, http.MethodGet, "/activities?dateKey=2024-03-01", ""); w.Code != http.StatusOK {
		t.Errorf("status = %d", w.Code)
	}
}

func TestDeleteActivity_NotFound(t *testing.T) {
	h := NewActivityHandler(&mockActivityService{deleteErr: service.ErrActivityNotFound})
	r := gin.New()
	r.DELETE("/activities", asUser("u1", model.RoleEmployee, "e1"), h.DeleteActivity)

	w := doRequest(r, http.MethodDelete, "/activities", `{"dateKey":"2024-03-01","employeeId":"e1","timeSlot":"9:00-10:00"}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d", w.Code)
	}
}

func TestRestore(t *testing.T) {
	h := NewRecycleHandler(&mockActivityService{})
	r := gin.New()
	r.POST("/deleted-activities/:id/restore", asUser("admin", model.RoleAdmin, ""), h.Restore)

	if w := doRequest(r, http.MethodPost, "/deleted-activities/7/restore", ""); w.Code != http.StatusOK {
		t.Errorf("status = %d", w.Code)
	}
	if w := doRequest(r, http.MethodPost, "/deleted-activities/8/restore", ""); w.Code != http.StatusNotFound {
		t.Errorf("missing backup status = %d", w.Code)
	}
	if w := doRequest(r, http.MethodPost, "/deleted-activities/abc/restore", ""); w.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// Audit log
// ═══════════════════════════════════════════════════════════

func TestActivityLog(t *testing.T) {
	h := NewActivityLogHandler(&mockActivityLogService{cleared: 5})
	r := gin.New()
	r.Use(asUser("admin", model.RoleAdmin, ""))
	r.GET("/activity-log", h.Query)
	r.POST("/activity-log", h.Append)
	r.DELETE("/activity-log", h.Clear)

	w := doRequest(r, http.MethodGet, "/activity-log?limit=2", "")
	if w.Code != http.StatusOK {
		t.Fatalf("query status = %d", w.Code)
	}
	var page struct {
		Data response.PageData `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatal(err)
	}
	if page.Data.Pagination.Total != 5 || page.Data.Pagination.PageSize != 2 || page.Data.Pagination.TotalPages != 3 {
		t.Errorf("pagination = %+v", page.Data.Pagination)
	}

	if w := doRequest(r, http.MethodGet, "/activity-log?action=rename", ""); w.Code != http.StatusBadRequest {
		t.Errorf("bad action status = %d", w.Code)
	}
	if w := doRequest(r, http.MethodPost, "/activity-log", `{"action":"create","newPayload":{"type":"proof"}}`); w.Code != http.StatusCreated {
		t.Errorf("append status = %d: %s", w.Code, w.Body.String())
	}

	w = doRequest(r, http.MethodDelete, "/activity-log", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"removed":5`) {
		t.Errorf("clear = %d %s", w.Code, w.Body.String())
	}
}

// ═══════════════════════════════════════════════════════════
// Export
// ═══════════════════════════════════════════════════════════

func TestExportGrid(t *testing.T) {
	svc := &mockExportService{buf: bytes.NewBufferString("xlsx-bytes"), filename: "timesheet-2024-03-01.xlsx"}
	h := NewExportHandler(svc)
	r := gin.New()
	r.GET("/export", asUser("admin", model.RoleAdmin, ""), h.ExportGrid)

	w := doRequest(r, http.MethodGet, "/export?dateKey=2024-03-01", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("content type = %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.HasPrefix(cd, "attachment;") || !strings.Contains(cd, "timesheet-2024-03-01.xlsx") {
		t.Errorf("content disposition = %q", cd)
	}
	if w.Body.String() != "xlsx-bytes" {
		t.Errorf("body = %q", w.Body.String())
	}

	if w := doRequest(r, http.MethodGet, "/export", ""); w.Code != http.StatusBadRequest {
		t.Errorf("missing dateKey status = %d", w.Code)
	}
}

func TestExportCalendar(t *testing.T) {
	h := NewExportHandler(&mockExportService{})
	r := gin.New()
	r.GET("/export/calendar", asUser("u1", model.RoleEmployee, "e1"), h.ExportCalendar)

	w := doRequest(r, http.MethodGet, "/export/calendar?from=2024-03-01&to=2024-03-31", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Errorf("content type = %q", ct)
	}

	h = NewExportHandler(&mockExportService{err: service.ErrForbidden})
	r = gin.New()
	r.GET("/export/calendar", asUser("u1", model.RoleEmployee, "e1"), h.ExportCalendar)
	if w := doRequest(r, http.MethodGet, "/export/calendar?employeeId=e2&from=2024-03-01&to=2024-03-31", ""); w.Code != http.StatusForbidden {
		t.Errorf("forbidden status = %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// Auth
// ═══════════════════════════════════════════════════════════

func TestLogin(t *testing.T) {
	svc := &mockAuthService{loginResult: &dto.TokenResponse{AccessToken: "access", RefreshToken: "refresh", ExpiresIn: 3600}}
	h := NewAuthHandler(svc, config.AuthConfig{RefreshTokenTTL: time.Hour})
	r := gin.New()
	r.POST("/login", h.Login)

	w := doRequest(r, http.MethodPost, "/login", `{"username":"asha","password":"password123"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if strings.Contains(w.Body.String(), `"refresh"`) {
		t.Error("refresh token must only travel in the cookie")
	}
	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != refreshCookieName || cookies[0].Value != "refresh" || !cookies[0].HttpOnly {
		t.Errorf("cookies = %+v", cookies)
	}

	svc.loginResult, svc.loginErr = nil, service.ErrInvalidCredentials
	w = doRequest(r, http.MethodPost, "/login", `{"username":"asha","password":"wrong"}`)
	if w.Code != http.StatusUnauthorized || decode(t, w).Code != 11001 {
		t.Errorf("bad credentials = %d %s", w.Code, w.Body.String())
	}
}

func TestRegister_Disabled(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, config.AuthConfig{})
	r := gin.New()
	r.POST("/register", h.Register)

	w := doRequest(r, http.MethodPost, "/register", `{"username":"meena","password":"password123"}`)
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d", w.Code)
	}
}

func TestRegister_PasswordTooLong(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{registerErr: service.ErrPasswordTooLong}, config.AuthConfig{})
	r := gin.New()
	r.POST("/register", h.Register)

	// 40 two-byte runes: within max=72 runes, over bcrypt's 72 bytes.
	body := `{"username":"meena","password":"` + strings.Repeat("é", 40) + `"}`
	w := doRequest(r, http.MethodPost, "/register", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if resp := decode(t, w); resp.Code != 11006 {
		t.Errorf("code = %d", resp.Code)
	}
}

func TestRefresh_MissingToken(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, config.AuthConfig{})
	r := gin.New()
	r.POST("/refresh", h.Refresh)

	if w := doRequest(r, http.MethodPost, "/refresh", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d", w.Code)
	}
}

func TestLogout(t *testing.T) {
	svc := &mockAuthService{}
	h := NewAuthHandler(svc, config.AuthConfig{AccessTokenTTL: time.Hour})
	r := gin.New()
	r.POST("/logout", asUser("u1", model.RoleEmployee, "e1"), h.Logout)

	if w := doRequest(r, http.MethodPost, "/logout", ""); w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if svc.logoutJTI != "jti-u1" {
		t.Errorf("revoked jti = %q", svc.logoutJTI)
	}
}

func TestMustGetActor_Unauthenticated(t *testing.T) {
	h := NewEmployeeHandler(&mockEmployeeService{})
	r := gin.New()
	r.GET("/employees", h.ListEmployees)

	if w := doRequest(r, http.MethodGet, "/employees", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d", w.Code)
	}
}

func TestLogin_CookieSameSite(t *testing.T) {
	tests := []struct {
		setting string
		want    http.SameSite
	}{
		{"Strict", http.SameSiteStrictMode},
		{"strict", http.SameSiteStrictMode},
		{"None", http.SameSiteNoneMode},
		{"Lax", http.SameSiteLaxMode},
		{"", http.SameSiteLaxMode},
	}
	for _, tt := range tests {
		t.Run(tt.setting, func(t *testing.T) {
			svc := &mockAuthService{loginResult: &dto.TokenResponse{AccessToken: "access", RefreshToken: "refresh"}}
			cfg := config.AuthConfig{RefreshTokenTTL: time.Hour, Cookie: config.CookieConfig{SameSite: tt.setting, Secure: true}}
			r := gin.New()
			r.POST("/login", NewAuthHandler(svc, cfg).Login)

			w := doRequest(r, http.MethodPost, "/login", `{"username":"asha","password":"password123"}`)
			cookies := w.Result().Cookies()
			if len(cookies) != 1 {
				t.Fatalf("cookies = %+v", cookies)
			}
			if cookies[0].SameSite != tt.want {
				t.Errorf("same site = %v, want %v", cookies[0].SameSite, tt.want)
			}
		})
	}
}
