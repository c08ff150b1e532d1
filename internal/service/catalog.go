package service

import (
	"github.com/shopspring/decimal"

	"goodcitizen/internal/model"
)

// CatalogReward is one redeemable reward. Value is the monetary worth in the
// platform currency, or the percentage for Discount rewards.
type CatalogReward struct {
	ID             string           `json:"id"`
	Type           model.RewardType `json:"type"`
	Description    string           `json:"description"`
	PointsRequired int              `json:"points_required"`
	Value          decimal.Decimal  `json:"value"`
}

// RewardCatalog is an immutable lookup table of redeemable rewards, loaded
// once at process start. Redemption logic only ever reads it.
type RewardCatalog struct {
	rewards []CatalogReward
	byID    map[string]CatalogReward
}

// NewRewardCatalog builds a catalog from a fixed reward list.
func NewRewardCatalog(rewards []CatalogReward) *RewardCatalog {
	byID := make(map[string]CatalogReward, len(rewards))
	for _, r := range rewards {
		byID[r.ID] = r
	}
	return &RewardCatalog{rewards: rewards, byID: byID}
}

// Find returns the reward with the given id.
func (c *RewardCatalog) Find(id string) (CatalogReward, bool) {
	r, ok := c.byID[id]
	return r, ok
}

// All returns the catalog contents in listing order.
func (c *RewardCatalog) All() []CatalogReward {
	out := make([]CatalogReward, len(c.rewards))
	copy(out, c.rewards)
	return out
}

// DefaultCatalog returns the built-in reward list.
func DefaultCatalog() *RewardCatalog {
	return NewRewardCatalog([]CatalogReward{
		{ID: "coupon-50", Type: model.RewardCoupon, Description: "₹50 Shopping Voucher", PointsRequired: 50, Value: decimal.NewFromInt(50)},
		{ID: "coupon-100", Type: model.RewardCoupon, Description: "₹100 Shopping Voucher", PointsRequired: 100, Value: decimal.NewFromInt(100)},
		{ID: "discount-10", Type: model.RewardDiscount, Description: "10% Discount on Groceries", PointsRequired: 30, Value: decimal.NewFromInt(10)},
		{ID: "discount-20", Type: model.RewardDiscount, Description: "20% Discount on Electronics", PointsRequired: 75, Value: decimal.NewFromInt(20)},
		{ID: "donation-100", Type: model.RewardDonation, Description: "Donate ₹100 to Environmental NGO", PointsRequired: 50, Value: decimal.NewFromInt(100)},
		{ID: "donation-200", Type: model.RewardDonation, Description: "Donate ₹200 to Child Education", PointsRequired: 100, Value: decimal.NewFromInt(200)},
		{ID: "giftcard-amazon-100", Type: model.RewardGiftCard, Description: "Amazon Gift Card ₹100", PointsRequired: 120, Value: decimal.NewFromInt(100)},
		{ID: "giftcard-flipkart-100", Type: model.RewardGiftCard, Description: "Flipkart Gift Card ₹100", PointsRequired: 120, Value: decimal.NewFromInt(100)},
	})
}
