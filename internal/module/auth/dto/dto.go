package dto

// RegisterRequest is the deprecated self-registration payload.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name"`
}

// LoginRequest is the deprecated password login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse carries the issued legacy token.
type TokenResponse struct {
	Token string `json:"token"`
}

// MeResponse echoes the authenticated principal.
type MeResponse struct {
	PublicID string `json:"public_id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}
