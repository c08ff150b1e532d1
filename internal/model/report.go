package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReportCategory classifies the violation being reported.
type ReportCategory string

const (
	CategoryHelmetViolation  ReportCategory = "Helmet Violation"
	CategoryLittering        ReportCategory = "Littering"
	CategoryIllegalParking   ReportCategory = "Illegal Parking"
	CategoryTrafficViolation ReportCategory = "Traffic Violation"
	CategoryOthers           ReportCategory = "Others"
)

// Categories lists every valid report category.
var Categories = []ReportCategory{
	CategoryHelmetViolation,
	CategoryLittering,
	CategoryIllegalParking,
	CategoryTrafficViolation,
	CategoryOthers,
}

// Valid reports whether c is a known category.
func (c ReportCategory) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ReportStatus tracks a report through its lifecycle.
// Legal transitions: Pending -> Verified | Rejected, Verified -> Resolved.
type ReportStatus string

const (
	StatusPending  ReportStatus = "Pending"
	StatusVerified ReportStatus = "Verified"
	StatusRejected ReportStatus = "Rejected"
	StatusResolved ReportStatus = "Resolved"
)

// ReportPriority is an advisory severity level set at submission.
type ReportPriority string

const (
	PriorityLow    ReportPriority = "Low"
	PriorityMedium ReportPriority = "Medium"
	PriorityHigh   ReportPriority = "High"
)

// Report is a citizen-submitted violation record with photo and geolocation.
type Report struct {
	ID          uuid.UUID      `json:"id" gorm:"type:char(36);primaryKey"`
	UserID      uuid.UUID      `json:"user_id" gorm:"type:char(36);not null;index:idx_reports_user_status"`
	Category    ReportCategory `json:"category" gorm:"type:varchar(32);not null;index:idx_reports_category_status"`
	Description string         `json:"description" gorm:"size:500;not null"`
	PhotoURL    string         `json:"photo_url" gorm:"size:512;not null"`
	PhotoID     string         `json:"-" gorm:"size:255"` // external store handle, used for deletion

	// Geolocation of the violation. Address is optional free text.
	Longitude float64 `json:"longitude" gorm:"not null"`
	Latitude  float64 `json:"latitude" gorm:"not null"`
	Address   string  `json:"address,omitempty" gorm:"size:255"`

	Status          ReportStatus   `json:"status" gorm:"type:varchar(20);not null;default:'Pending';index:idx_reports_user_status;index:idx_reports_category_status"`
	VerifiedBy      *uuid.UUID     `json:"verified_by,omitempty" gorm:"type:char(36)"`
	VerifiedAt      *time.Time     `json:"verified_at,omitempty"`
	RejectionReason string         `json:"rejection_reason,omitempty" gorm:"size:500"`
	AssignedTo      *uuid.UUID     `json:"assigned_to,omitempty" gorm:"type:char(36)"`
	ResolvedAt      *time.Time     `json:"resolved_at,omitempty"`
	PointsAwarded   int            `json:"points_awarded" gorm:"not null;default:0"`
	Priority        ReportPriority `json:"priority" gorm:"type:varchar(10);not null;default:'Medium'"`

	PeerVerifications []PeerVerification `json:"peer_verifications,omitempty" gorm:"foreignKey:ReportID"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	User     User       `json:"-" gorm:"foreignKey:UserID"`
	Assignee *Authority `json:"-" gorm:"foreignKey:AssignedTo"`
}

// BeforeCreate sets UUID before creating the record.
func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// PeerVerification is an advisory endorsement of a report by another user.
// The unique index keeps it to one record per user per report.
type PeerVerification struct {
	ID       uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	ReportID uuid.UUID `json:"report_id" gorm:"type:char(36);not null;uniqueIndex:idx_peer_report_user"`
	UserID   uuid.UUID `json:"user_id" gorm:"type:char(36);not null;uniqueIndex:idx_peer_report_user"`
	Verified bool      `json:"verified" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate sets UUID before creating the record.
func (pv *PeerVerification) BeforeCreate(tx *gorm.DB) error {
	if pv.ID == uuid.Nil {
		pv.ID = uuid.New()
	}
	return nil
}
