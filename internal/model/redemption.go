package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RewardType classifies what a redemption buys.
type RewardType string

const (
	RewardCoupon   RewardType = "Coupon"
	RewardDiscount RewardType = "Discount"
	RewardDonation RewardType = "Donation"
	RewardGiftCard RewardType = "Gift Card"
)

// RedemptionStatus tracks a redemption's lifecycle.
// Legal transitions: Active -> Used, Active -> Expired.
type RedemptionStatus string

const (
	RedemptionActive  RedemptionStatus = "Active"
	RedemptionUsed    RedemptionStatus = "Used"
	RedemptionExpired RedemptionStatus = "Expired"
)

// RedemptionValidity is how long a reward code stays usable after issuance.
const RedemptionValidity = 90 * 24 * time.Hour

// Redemption records an exchange of points for a reward code. It is created
// atomically with the point debit and only its status ever changes afterwards.
type Redemption struct {
	ID                uuid.UUID        `json:"id" gorm:"type:char(36);primaryKey"`
	UserID            uuid.UUID        `json:"user_id" gorm:"type:char(36);not null;index:idx_redemptions_user_status"`
	PointsUsed        int              `json:"points_used" gorm:"not null"`
	RewardType        RewardType       `json:"reward_type" gorm:"type:varchar(20);not null"`
	RewardCode        string           `json:"reward_code" gorm:"uniqueIndex;size:64;not null"`
	RewardDescription string           `json:"reward_description" gorm:"size:255;not null"`
	RewardValue       decimal.Decimal  `json:"reward_value" gorm:"type:decimal(20,2);not null"`
	Status            RedemptionStatus `json:"status" gorm:"type:varchar(20);not null;default:'Active';index:idx_redemptions_user_status"`
	ExpiryDate        time.Time        `json:"expiry_date" gorm:"not null;index"`
	UsedAt            *time.Time       `json:"used_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	User User `json:"-" gorm:"foreignKey:UserID"`
}

// BeforeCreate sets UUID before creating the record.
func (r *Redemption) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
