// File: internal/user/model.go
package user

import (
	"time"

	"github.com/google/uuid"

	"startupteam_backend/internal/common"
	"startupteam_backend/internal/domain"
)

// User is the identity record shared by local-credential and OAuth accounts.
// Email is unique system-wide and (AuthProvider, ProviderID) is unique when
// ProviderID is set.
type User struct {
	common.BaseModel
	Name                      string              `gorm:"type:varchar(100);not null"`
	Email                     string              `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash              *string             `gorm:"type:varchar(255)"`
	Phone                     *string             `gorm:"type:varchar(20)"`
	AuthProvider              domain.AuthProvider `gorm:"type:varchar(20);not null;default:'local';uniqueIndex:idx_users_provider_identity"`
	ProviderID                *string             `gorm:"type:varchar(255);uniqueIndex:idx_users_provider_identity"`
	EmailVerified             bool                `gorm:"not null;default:false"`
	Role                      domain.UserRole     `gorm:"type:varchar(20);not null;<-:create"`
	Avatar                    *string             `gorm:"type:text"`
	AvatarRef                 *string             `gorm:"type:text"`
	LastLogin                 *time.Time
	VerificationCodeHash      *string    `gorm:"type:varchar(64)"`
	VerificationCodeExpiresAt *time.Time
	ResetTokenHash            *string `gorm:"type:varchar(64);index"`
	ResetTokenExpiresAt       *time.Time
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}

// HasPassword reports whether the account can sign in with a password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// --- DTOs (Data Transfer Objects) for API requests/responses ---

// RegisterRequest defines the structure for creating a local account.
type RegisterRequest struct {
	Name     string  `json:"name" binding:"required,min=2,max=100"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=8,max=72"` // bcrypt max is 72 bytes
	Role     string  `json:"role" binding:"required,oneof=founder member"`
	Phone    *string `json:"phone" binding:"omitempty,phone"`
}

// UpdateAccountRequest changes mutable account fields. Role and email are not editable.
type UpdateAccountRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=2,max=100"`
	Phone *string `json:"phone" binding:"omitempty,phone"`
}

// UserResponse defines the structure for user data sent in API responses.
type UserResponse struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Phone         *string    `json:"phone,omitempty"`
	Role          string     `json:"role"`
	AuthProvider  string     `json:"authProvider"`
	EmailVerified bool       `json:"emailVerified"`
	Avatar        *string    `json:"avatar,omitempty"`
	LastLogin     *time.Time `json:"lastLogin,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// ToUserResponse converts a User model to a UserResponse DTO.
func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Phone:         u.Phone,
		Role:          string(u.Role),
		AuthProvider:  string(u.AuthProvider),
		EmailVerified: u.EmailVerified,
		Avatar:        u.Avatar,
		LastLogin:     u.LastLogin,
		CreatedAt:     u.CreatedAt,
	}
}
