package dto

import "time"

// ── Pagination ──

// PaginationRequest common paging parameters.
type PaginationRequest struct {
	Page     int `form:"page"     binding:"omitempty,min=1"`
	PageSize int `form:"pageSize" binding:"omitempty,min=1,max=200"`
}

// GetPage page number with default.
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetPageSize page size with default.
func (p *PaginationRequest) GetPageSize() int {
	if p.PageSize <= 0 {
		return 20
	}
	return p.PageSize
}

// GetOffset row offset of the page.
func (p *PaginationRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}

// ── Auth / users ──

// TokenResponse access token response. Handlers move RefreshToken into an
// HttpOnly cookie before writing the body.
type TokenResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken,omitempty"`
	ExpiresIn    int          `json:"expiresIn"`
	User         UserResponse `json:"user"`
}

// UserResponse user without credentials.
type UserResponse struct {
	UserID     string    `json:"userId"`
	Username   string    `json:"username"`
	Role       string    `json:"role"`
	EmployeeID string    `json:"employeeId,omitempty"`
	Employee   string    `json:"employeeName,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ── Misc ──

// TimeSlotsResponse configured slot labels in display order.
type TimeSlotsResponse struct {
	TimeSlots     []string `json:"timeSlots"`
	ActivityTypes []string `json:"activityTypes"`
}

// DeleteEmployeeResponse result of an employee removal.
type DeleteEmployeeResponse struct {
	ID           string `json:"id"`
	MovedEntries int    `json:"movedEntries"`
}

// ClearActivityLogResponse result of an audit clear.
type ClearActivityLogResponse struct {
	Removed int64 `json:"removed"`
}
