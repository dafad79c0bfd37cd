package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"print-timesheet/internal/api/middleware"
	"print-timesheet/internal/service"
	"print-timesheet/pkg/response"
)

// MustGetActor builds the service actor from what JWTAuth put into the
// context. On false a 401 has been written and the caller should return.
func MustGetActor(c *gin.Context) (*service.Actor, bool) {
	userID := c.GetString(middleware.CtxUserID)
	role := c.GetString(middleware.CtxRole)
	if userID == "" || role == "" {
		response.Unauthorized(c, 10002, "not authenticated")
		return nil, false
	}
	return &service.Actor{
		UserID:     userID,
		Username:   c.GetString(middleware.CtxUsername),
		Role:       role,
		EmployeeID: c.GetString(middleware.CtxEmployeeID),
		IP:         c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
	}, true
}

// bindError reports a request that failed binding or validation.
func bindError(c *gin.Context, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		response.Error(c, http.StatusRequestEntityTooLarge, 10005, "request body too large")
		return
	}
	response.BadRequest(c, 10001, "invalid request: "+err.Error())
}

// handleCommonError maps errors shared by every module. Unknown errors are
// attached to the context for the request log and reported as 500.
func handleCommonError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrForbidden):
		response.Forbidden(c, 10003, "permission denied")
	case errors.Is(err, service.ErrEmployeeNotFound):
		response.NotFound(c, 12001, "employee not found")
	case errors.Is(err, service.ErrInvalidDateKey):
		response.BadRequest(c, 13001, err.Error())
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}
