package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role determines what a user is allowed to do.
type Role string

const (
	RoleUser      Role = "user"
	RoleAdmin     Role = "admin"
	RoleAuthority Role = "authority"
)

// User represents a citizen, moderator, or authority operator.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name         string    `json:"name" gorm:"size:255;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Phone        string    `json:"phone" gorm:"uniqueIndex;size:20;not null"`
	PasswordHash string    `json:"-" gorm:"size:255"`       // Never expose in JSON
	ExternalID   string    `json:"-" gorm:"size:128;index"` // OTP provider uid, empty for password accounts
	Role         Role      `json:"role" gorm:"type:varchar(20);not null;default:'user';index"`
	ProfileImage string    `json:"profile_image,omitempty" gorm:"size:512"`

	// Points never go below zero; reputation stays within [0,100].
	Points               int     `json:"points" gorm:"not null;default:0"`
	Reputation           float64 `json:"reputation" gorm:"not null;default:0"`
	ReportsCount         int     `json:"reports_count" gorm:"not null;default:0"`
	VerifiedReportsCount int     `json:"verified_reports_count" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
