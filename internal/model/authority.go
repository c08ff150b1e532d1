package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Department identifies the kind of agency an authority belongs to.
type Department string

const (
	DepartmentTrafficPolice Department = "Traffic Police"
	DepartmentMunicipal     Department = "Municipal Corporation"
	DepartmentEnvironmental Department = "Environmental Agency"
	DepartmentGeneral       Department = "General"
)

// Authority is an external agency responsible for acting on reports of
// certain categories within a jurisdiction.
type Authority struct {
	ID            uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	Name          string     `json:"name" gorm:"size:255;not null"`
	Email         string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	ContactNumber string     `json:"contact_number" gorm:"size:20;not null"`
	Department    Department `json:"department" gorm:"type:varchar(32);not null"`
	Jurisdiction  string     `json:"jurisdiction" gorm:"size:255;not null"`

	// Categories this authority handles. Routing matches on these only;
	// jurisdiction is informational.
	Categories []ReportCategory `json:"categories" gorm:"serializer:json"`

	IsActive bool `json:"is_active" gorm:"not null;default:true;index"`

	// Monotonic counters, incremented once per report event.
	ReportsHandled  int `json:"reports_handled" gorm:"not null;default:0"`
	ReportsResolved int `json:"reports_resolved" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (a *Authority) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Handles reports whether the authority covers the given category.
func (a *Authority) Handles(category ReportCategory) bool {
	for _, c := range a.Categories {
		if c == category {
			return true
		}
	}
	return false
}
