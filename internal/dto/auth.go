package dto

// ── Auth ──

// LoginRequest login request.
type LoginRequest struct {
	Username string `json:"username" binding:"required,max=50"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest self-registration request. Name defaults to Username and
// becomes the linked employee's name.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Name     string `json:"name"     binding:"omitempty,max=100"`
}

// RefreshTokenRequest refresh request body for clients that do not use the cookie.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}
