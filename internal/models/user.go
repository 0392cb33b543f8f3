package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                    uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name                  string     `gorm:"size:255;not null" json:"name"`
	Email                 string     `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password              string     `gorm:"not null" json:"-"`
	Role                  Role       `gorm:"size:20;not null;default:'VISITOR'" json:"role"`
	RecoveryCode          *string    `gorm:"size:6" json:"-"`
	RecoveryCodeExpiresAt *time.Time `json:"-"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}
