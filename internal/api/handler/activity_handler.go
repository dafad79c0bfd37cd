package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"print-timesheet/internal/dto"
	"print-timesheet/internal/service"
	"print-timesheet/pkg/response"
)

// ActivityHandler grid entry endpoints.
type ActivityHandler struct {
	activitySvc service.ActivityService
}

// NewActivityHandler creates an ActivityHandler.
func NewActivityHandler(activitySvc service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activitySvc: activitySvc}
}

// GetGrid GET /api/activities?dateKey=
func (h *ActivityHandler) GetGrid(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var q dto.GridQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	grid, err := h.activitySvc.GetGrid(c.Request.Context(), actor, q.DateKey)
	if err != nil {
		handleActivityError(c, err)
		return
	}
	response.OK(c, grid)
}

// UpsertActivity POST /api/activities
func (h *ActivityHandler) UpsertActivity(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.UpsertActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	entry, err := h.activitySvc.Upsert(c.Request.Context(), actor, &req)
	if err != nil {
		handleActivityError(c, err)
		return
	}
	response.OK(c, entry)
}

// DeleteActivity DELETE /api/activities
func (h *ActivityHandler) DeleteActivity(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.DeleteActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	removed, err := h.activitySvc.Delete(c.Request.Context(), actor, &req)
	if err != nil {
		handleActivityError(c, err)
		return
	}
	response.OK(c, removed)
}

// RecycleHandler recycle-bin endpoints (admin only).
type RecycleHandler struct {
	activitySvc service.ActivityService
}

// NewRecycleHandler creates a RecycleHandler.
func NewRecycleHandler(activitySvc service.ActivityService) *RecycleHandler {
	return &RecycleHandler{activitySvc: activitySvc}
}

// ListDeleted GET /api/deleted-activities
func (h *RecycleHandler) ListDeleted(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.DeletedActivityListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	list, total, err := h.activitySvc.ListDeleted(c.Request.Context(), actor, &req)
	if err != nil {
		handleActivityError(c, err)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// Restore POST /api/deleted-activities/:id/restore
func (h *RecycleHandler) Restore(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, 10001, "invalid id")
		return
	}

	entry, err := h.activitySvc.Restore(c.Request.Context(), actor, id)
	if err != nil {
		handleActivityError(c, err)
		return
	}
	response.OK(c, entry)
}

func handleActivityError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidTimeSlot):
		response.BadRequest(c, 13002, "invalid time slot")
	case errors.Is(err, service.ErrInvalidActivityType):
		response.BadRequest(c, 13003, err.Error())
	case errors.Is(err, service.ErrInvalidPageRange):
		response.BadRequest(c, 13004, err.Error())
	case errors.Is(err, service.ErrNegativePages):
		response.BadRequest(c, 13005, err.Error())
	case errors.Is(err, service.ErrActivityNotFound):
		response.NotFound(c, 13006, err.Error())
	case errors.Is(err, service.ErrBackupNotFound):
		response.NotFound(c, 13007, err.Error())
	default:
		handleCommonError(c, err)
	}
}
