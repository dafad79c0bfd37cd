package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"print-timesheet/internal/dto"
	"print-timesheet/internal/service"
	"print-timesheet/pkg/response"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	icsContentType  = "text/calendar; charset=utf-8"
)

// ExportHandler file download endpoints.
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler creates an ExportHandler.
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportGrid GET /api/export?dateKey=
func (h *ExportHandler) ExportGrid(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var q dto.ExportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	buf, filename, err := h.exportSvc.ExportGrid(c.Request.Context(), actor, q.DateKey)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	attachment(c, filename)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ExportCalendar GET /api/export/calendar?employeeId=&from=&to=
func (h *ExportHandler) ExportCalendar(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var q dto.CalendarQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	data, filename, err := h.exportSvc.ExportCalendar(c.Request.Context(), actor, q.EmployeeID, q.From, q.To)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	attachment(c, filename)
	c.Data(http.StatusOK, icsContentType, data)
}

func attachment(c *gin.Context, filename string) {
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"; filename*=UTF-8''"+url.QueryEscape(filename))
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCalendarSpan):
		response.BadRequest(c, 15002, err.Error())
	case errors.Is(err, service.ErrExportGenerateFail):
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, 15001, "failed to generate export file")
	default:
		handleCommonError(c, err)
	}
}
