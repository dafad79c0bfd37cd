package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"print-timesheet/internal/dto"
	"print-timesheet/internal/service"
	"print-timesheet/pkg/response"
)

// EmployeeHandler employee endpoints.
type EmployeeHandler struct {
	employeeSvc service.EmployeeService
}

// NewEmployeeHandler creates an EmployeeHandler.
func NewEmployeeHandler(employeeSvc service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeSvc: employeeSvc}
}

// ListEmployees GET /api/employees
func (h *EmployeeHandler) ListEmployees(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	employees, err := h.employeeSvc.List(c.Request.Context(), actor)
	if err != nil {
		h.handleEmployeeError(c, err)
		return
	}
	response.OK(c, employees)
}

// UpsertEmployee POST /api/employees
func (h *EmployeeHandler) UpsertEmployee(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.UpsertEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	employee, created, err := h.employeeSvc.Upsert(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleEmployeeError(c, err)
		return
	}
	if created {
		response.Created(c, employee)
		return
	}
	response.OK(c, employee)
}

// DeleteEmployee DELETE /api/employees/:id
func (h *EmployeeHandler) DeleteEmployee(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	id := c.Param("id")
	moved, err := h.employeeSvc.Delete(c.Request.Context(), actor, id)
	if err != nil {
		h.handleEmployeeError(c, err)
		return
	}
	response.OK(c, dto.DeleteEmployeeResponse{ID: id, MovedEntries: moved})
}

func (h *EmployeeHandler) handleEmployeeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmployeeNameTaken):
		response.BadRequest(c, 12002, "an employee with this name already exists")
	case errors.Is(err, service.ErrEmployeeNameEmpty):
		response.BadRequest(c, 12003, err.Error())
	default:
		handleCommonError(c, err)
	}
}
