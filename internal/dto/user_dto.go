package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/threadcart/backend/internal/models"
)

// RegisterRequest deliberately has no role field: every public
// registration starts as VISITOR and only a full admin can elevate a
// user afterwards.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Email        string `json:"email" validate:"required,email"`
	RecoveryCode string `json:"recoveryCode" validate:"required,len=6"`
	NewPassword  string `json:"newPassword" validate:"required,min=8"`
}

type UpdateUserRequest struct {
	Name     *string      `json:"name" validate:"omitempty,min=3"`
	Email    *string      `json:"email" validate:"omitempty,email"`
	Password *string      `json:"password" validate:"omitempty,min=8"`
	Role     *models.Role `json:"role" validate:"omitempty,oneof=VISITOR EDITOR_ADMIN ADMIN"`
}

type UserResponse struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

type LoginResponse struct {
	ID    uuid.UUID   `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
	Token string      `json:"token"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
