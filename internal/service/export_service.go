package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"print-timesheet/internal/model"
	"print-timesheet/internal/repository"
)

// ── Export errors ──

var (
	ErrExportGenerateFail  = errors.New("failed to generate export file")
	ErrInvalidCalendarSpan = errors.New("calendar range must satisfy from <= to and span at most 92 days")
)

const (
	exportSheet     = "Timesheet"
	maxCalendarDays = 92
)

// ExportService export business interface.
type ExportService interface {
	// ExportGrid renders one day's grid as xlsx. Returns the file and a
	// suggested file name.
	ExportGrid(ctx context.Context, actor *Actor, dateKey string) (*bytes.Buffer, string, error)
	// ExportCalendar renders an employee's entries between two date keys as
	// an iCalendar document. An empty employeeID means the caller's own.
	ExportCalendar(ctx context.Context, actor *Actor, employeeID, from, to string) ([]byte, string, error)
}

type exportService struct {
	repo   *repository.Repository
	slots  TimeSlots
	loc    *time.Location
	logger *zap.Logger
}

// NewExportService creates an ExportService. loc is the shop's time zone,
// used to place slots on the calendar.
func NewExportService(repo *repository.Repository, slots []string, loc *time.Location, logger *zap.Logger) ExportService {
	if loc == nil {
		loc = time.UTC
	}
	return &exportService{repo: repo, slots: slots, loc: loc, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportGrid
// ═══════════════════════════════════════════════════════════
//
// Layout:
//   - row 1: Employee | Proof Pages | Epub Pages | Calibr Pages | <slot...>
//   - one row per employee, ordered by name
//   - slot cells: "TYPE: description (N pages)", empty when no entry

func (s *exportService) ExportGrid(ctx context.Context, actor *Actor, dateKey string) (*bytes.Buffer, string, error) {
	if err := Authorize(actor, PermExportGrid, ""); err != nil {
		return nil, "", err
	}
	if _, err := parseDateKey(dateKey, nil); err != nil {
		return nil, "", err
	}

	employees, err := s.repo.Employee.List(ctx)
	if err != nil {
		s.logger.Error("list employees failed", zap.Error(err))
		return nil, "", err
	}
	entries, err := s.repo.Activity.ListByDate(ctx, dateKey)
	if err != nil {
		s.logger.Error("list activities failed", zap.String("date_key", dateKey), zap.Error(err))
		return nil, "", err
	}

	index := make(map[string]map[string]*model.Activity)
	for i := range entries {
		e := &entries[i]
		if index[e.EmployeeID] == nil {
			index[e.EmployeeID] = make(map[string]*model.Activity)
		}
		index[e.EmployeeID][e.TimeSlot] = e
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrExportGenerateFail, err)
	}

	header := make([]interface{}, 0, 4+len(s.slots))
	header = append(header, "Employee")
	for _, t := range model.PageCountingTypes {
		header = append(header, typeTitle(t)+" Pages")
	}
	for _, slot := range s.slots {
		header = append(header, slot)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrExportGenerateFail, err)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	lastCol, _ := excelize.ColumnNumberToName(len(header))
	_ = f.SetCellStyle(exportSheet, "A1", lastCol+"1", headerStyle)
	_ = f.SetColWidth(exportSheet, "A", "A", 20)
	_ = f.SetColWidth(exportSheet, "B", "D", 13)
	if len(s.slots) > 0 {
		firstSlot, _ := excelize.ColumnNumberToName(5)
		_ = f.SetColWidth(exportSheet, firstSlot, lastCol, 28)
	}

	for i, emp := range employees {
		cells := index[emp.ID]
		row := make([]interface{}, 0, len(header))
		row = append(row, emp.Name)
		for _, t := range model.PageCountingTypes {
			row = append(row, pageTotal(cells, t))
		}
		for _, slot := range s.slots {
			row = append(row, cellSummary(cells[slot]))
		}

		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrExportGenerateFail, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("write xlsx failed", zap.Error(err))
		return nil, "", fmt.Errorf("%w: %v", ErrExportGenerateFail, err)
	}

	s.logger.Info("grid exported",
		zap.String("date_key", dateKey),
		zap.Int("employees", len(employees)),
		zap.Int("entries", len(entries)),
	)
	return buf, fmt.Sprintf("timesheet-%s.xlsx", dateKey), nil
}

func typeTitle(t model.ActivityType) string {
	s := string(t)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func pageTotal(cells map[string]*model.Activity, t model.ActivityType) int {
	total := 0
	for _, a := range cells {
		if a.Type == t && a.PagesDone != nil {
			total += *a.PagesDone
		}
	}
	return total
}

// cellSummary renders an entry as "TYPE: description (N pages)".
func cellSummary(a *model.Activity) string {
	if a == nil {
		return ""
	}
	text := strings.ToUpper(string(a.Type))
	if !a.Type.IsBreak() && a.Description != "" {
		text += ": " + a.Description
	}
	if a.PagesDone != nil && *a.PagesDone > 0 {
		text += fmt.Sprintf(" (%d pages)", *a.PagesDone)
	}
	return text
}

// ═══════════════════════════════════════════════════════════
// ExportCalendar
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportCalendar(ctx context.Context, actor *Actor, employeeID, from, to string) ([]byte, string, error) {
	if employeeID == "" && actor != nil {
		employeeID = actor.EmployeeID
	}
	if err := Authorize(actor, PermReadCalendar, employeeID); err != nil {
		return nil, "", err
	}

	fromDay, err := parseDateKey(from, s.loc)
	if err != nil {
		return nil, "", err
	}
	toDay, err := parseDateKey(to, s.loc)
	if err != nil {
		return nil, "", err
	}
	if toDay.Before(fromDay) || toDay.Sub(fromDay) > maxCalendarDays*24*time.Hour {
		return nil, "", ErrInvalidCalendarSpan
	}

	employee, err := s.repo.Employee.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrEmployeeNotFound
		}
		return nil, "", err
	}

	entries, err := s.repo.Activity.ListByEmployee(ctx, employeeID, from, to)
	if err != nil {
		s.logger.Error("list employee activities failed", zap.String("employee_id", employeeID), zap.Error(err))
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//print-timesheet//timesheet export//EN")
	cal.SetXWRCalName(employee.Name + " timesheet")
	cal.SetXWRTimezone(s.loc.String())

	for i := range entries {
		a := &entries[i]
		day, err := parseDateKey(a.DateKey, s.loc)
		if err != nil {
			continue
		}
		start, end, err := Bounds(day, a.TimeSlot)
		if err != nil {
			s.logger.Warn("skip entry with unparseable slot",
				zap.Uint64("id", a.ID), zap.String("time_slot", a.TimeSlot))
			continue
		}

		event := cal.AddEvent(fmt.Sprintf("activity-%d@print-timesheet", a.ID))
		event.SetDtStampTime(a.UpdatedAt)
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(cellSummary(a))
		if a.Description != "" {
			event.SetDescription(a.Description)
		}
	}

	filename := fmt.Sprintf("timesheet-%s-%s-%s.ics", employee.ID, from, to)
	return []byte(cal.Serialize()), filename, nil
}
