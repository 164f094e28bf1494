package dto

import "github.com/theclubs/clubs-backend/internal/app/models"

// RegisterRequest creates an identity. Role defaults to student; admin is
// accepted only while no admin exists.
type RegisterRequest struct {
	Name     string          `json:"name" binding:"required,notblank,min=2,max=120" example:"Ada Lovelace"`
	Email    string          `json:"email" binding:"required,email,max=255" example:"ada@uni.edu"`
	Password string          `json:"password" binding:"required,min=6,max=72" example:"secret123"`
	Role     models.RoleType `json:"role" binding:"omitempty,oneof=student admin" example:"student"`
}

// RegisterResponse is returned with 201 on registration.
type RegisterResponse struct {
	UserID string `json:"userId" example:"0b9f7c1e-3f0e-4c55-9d1b-5f7c2b0c8e11"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"ada@uni.edu"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// SessionUser is the identity echoed back on login.
type SessionUser struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Email string          `json:"email"`
	Role  models.RoleType `json:"role"`
}

// LoginResponse carries the bearer token.
type LoginResponse struct {
	Token     string      `json:"token"`
	TokenType string      `json:"tokenType" example:"Bearer"`
	ExpiresIn int         `json:"expiresIn" example:"86400"`
	User      SessionUser `json:"user"`
}

// UpdateProfileRequest represents profile update data
type UpdateProfileRequest struct {
	Name      string  `json:"name" binding:"required,notblank,min=2,max=120"`
	Bio       *string `json:"bio" binding:"omitempty,max=1000"`
	AvatarURL *string `json:"avatarUrl" binding:"omitempty,url"`
}
