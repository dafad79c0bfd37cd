package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"print-timesheet/internal/dto"
	"print-timesheet/internal/service"
	"print-timesheet/pkg/response"
)

// UserHandler login account endpoints (admin only).
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// ListUsers GET /api/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.UserListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	list, total, err := h.userSvc.List(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleUserError(c, err)
		return
	}
	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// CreateUser POST /api/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.userSvc.Create(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleUserError(c, err)
		return
	}
	response.Created(c, user)
}

func (h *UserHandler) handleUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUsernameTaken):
		response.BadRequest(c, 11004, "username is already taken")
	case errors.Is(err, service.ErrPasswordTooLong):
		response.BadRequest(c, 11006, err.Error())
	case errors.Is(err, service.ErrInvalidRole):
		response.BadRequest(c, 16001, err.Error())
	default:
		handleCommonError(c, err)
	}
}
