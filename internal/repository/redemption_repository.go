package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"goodcitizen/internal/model"
)

// RedemptionRepository defines redemption persistence operations.
type RedemptionRepository interface {
	Create(ctx context.Context, redemption *model.Redemption) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Redemption, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]model.Redemption, error)
	// ExpireDue flips a user's past-expiry Active redemptions to Expired.
	// Guarded on status so it cannot touch Used rows.
	ExpireDue(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error)
	// MarkUsed transitions Active -> Used; returns false when the redemption
	// was not Active (already used, expired, or missing).
	MarkUsed(ctx context.Context, id uuid.UUID, now time.Time) (bool, error)
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo RedemptionRepository, users UserRepository) error) error
}

type redemptionRepository struct {
	db *gorm.DB
}

// NewRedemptionRepository builds a GORM-backed repository.
func NewRedemptionRepository(db *gorm.DB) RedemptionRepository {
	return &redemptionRepository{db: db}
}

func (r *redemptionRepository) Create(ctx context.Context, redemption *model.Redemption) error {
	return r.db.WithContext(ctx).Create(redemption).Error
}

func (r *redemptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Redemption, error) {
	var redemption model.Redemption
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&redemption).Error; err != nil {
		return nil, err
	}
	return &redemption, nil
}

func (r *redemptionRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]model.Redemption, error) {
	var redemptions []model.Redemption
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&redemptions).Error
	if err != nil {
		return nil, err
	}
	return redemptions, nil
}

func (r *redemptionRepository) ExpireDue(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Redemption{}).
		Where("user_id = ? AND status = ? AND expiry_date < ?", userID, model.RedemptionActive, now).
		Update("status", model.RedemptionExpired)
	return res.RowsAffected, res.Error
}

func (r *redemptionRepository) MarkUsed(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Redemption{}).
		Where("id = ? AND status = ? AND expiry_date >= ?", id, model.RedemptionActive, now).
		Updates(map[string]interface{}{
			"status":  model.RedemptionUsed,
			"used_at": now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// WithTransaction executes a function with redemption and user repositories
// bound to the same database transaction, so the point debit and the
// redemption insert commit or roll back together.
func (r *redemptionRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo RedemptionRepository, users UserRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &redemptionRepository{db: tx}, &userRepository{db: tx})
	})
}
