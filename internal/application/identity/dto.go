package identity

import (
	"time"

	"github.com/bloodbank/backend/internal/domain/identity"
	"github.com/bloodbank/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
)

// RegisterRequest is the input for creating an account
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

// LoginRequest is the input for authentication
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest carries a refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ChangePasswordRequest is the input for a password change
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// UserResponse is the API representation of an account
type UserResponse struct {
	ID              uuid.UUID  `json:"id"`
	Email           string     `json:"email"`
	FullName        string     `json:"full_name"`
	Role            string     `json:"role"`
	IsActive        bool       `json:"is_active"`
	DonorID         *uuid.UUID `json:"donor_id,omitempty"`
	MedicalCenterID *uuid.UUID `json:"medical_center_id,omitempty"`
	LastLoginAt     *time.Time `json:"last_login_at,omitempty"`
}

// ToUserResponse converts a domain user to its API representation
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:              u.ID,
		Email:           u.Email,
		FullName:        u.FullName,
		Role:            string(u.Role),
		IsActive:        u.IsActive,
		DonorID:         u.DonorID,
		MedicalCenterID: u.MedicalCenterID,
		LastLoginAt:     u.LastLoginAt,
	}
}

// LoginResponse carries the authenticated user and their tokens
type LoginResponse struct {
	User   UserResponse   `json:"user"`
	Tokens auth.TokenPair `json:"tokens"`
}
