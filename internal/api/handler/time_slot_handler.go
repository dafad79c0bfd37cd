package handler

import (
	"github.com/gin-gonic/gin"

	"print-timesheet/internal/dto"
	"print-timesheet/internal/model"
	"print-timesheet/pkg/response"
)

// TimeSlotHandler serves the day layout shared with the client.
type TimeSlotHandler struct {
	resp dto.TimeSlotsResponse
}

// NewTimeSlotHandler creates a TimeSlotHandler.
func NewTimeSlotHandler(slots []string) *TimeSlotHandler {
	types := make([]string, 0, len(model.ActivityTypes))
	for _, t := range model.ActivityTypes {
		types = append(types, string(t))
	}
	return &TimeSlotHandler{resp: dto.TimeSlotsResponse{TimeSlots: slots, ActivityTypes: types}}
}

// ListTimeSlots GET /api/time-slots
func (h *TimeSlotHandler) ListTimeSlots(c *gin.Context) {
	response.OK(c, h.resp)
}
