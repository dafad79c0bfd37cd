package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"print-timesheet/internal/dto"
	"print-timesheet/internal/service"
	"print-timesheet/pkg/response"
)

// ActivityLogHandler audit history endpoints.
type ActivityLogHandler struct {
	logSvc service.ActivityLogService
}

// NewActivityLogHandler creates an ActivityLogHandler.
func NewActivityLogHandler(logSvc service.ActivityLogService) *ActivityLogHandler {
	return &ActivityLogHandler{logSvc: logSvc}
}

// Query GET /api/activity-log
func (h *ActivityLogHandler) Query(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var q dto.ActivityLogQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	logs, total, err := h.logSvc.Query(c.Request.Context(), actor, &q)
	if err != nil {
		handleActivityLogError(c, err)
		return
	}
	if q.Limit > 0 {
		response.OKPage(c, logs, total, 1, q.Limit)
		return
	}
	response.OKPage(c, logs, total, q.GetPage(), q.GetPageSize())
}

// Append POST /api/activity-log
func (h *ActivityLogHandler) Append(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.AppendActivityLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	record, err := h.logSvc.Append(c.Request.Context(), actor, &req)
	if err != nil {
		handleActivityLogError(c, err)
		return
	}
	response.Created(c, record)
}

// Clear DELETE /api/activity-log
func (h *ActivityLogHandler) Clear(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	removed, err := h.logSvc.Clear(c.Request.Context(), actor)
	if err != nil {
		handleActivityLogError(c, err)
		return
	}
	response.OK(c, dto.ClearActivityLogResponse{Removed: removed})
}

func handleActivityLogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidPayload):
		response.BadRequest(c, 14001, err.Error())
	default:
		handleCommonError(c, err)
	}
}
