package model

import "time"

type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type AdminProfile struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}
