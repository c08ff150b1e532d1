package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"goodcitizen/internal/model"
)

// AuthorityRepository defines authority persistence operations.
type AuthorityRepository interface {
	Create(ctx context.Context, authority *model.Authority) error
	Update(ctx context.Context, authority *model.Authority) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Authority, error)
	// ListActive returns active authorities ordered by name.
	ListActive(ctx context.Context) ([]model.Authority, error)
	// ListActiveByCreation returns active authorities in creation order, the
	// ordering the category router depends on for determinism.
	ListActiveByCreation(ctx context.Context) ([]model.Authority, error)
	IncrementHandled(ctx context.Context, id uuid.UUID) error
	IncrementResolved(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type authorityRepository struct {
	db *gorm.DB
}

// NewAuthorityRepository builds a GORM-backed repository.
func NewAuthorityRepository(db *gorm.DB) AuthorityRepository {
	return &authorityRepository{db: db}
}

func (r *authorityRepository) Create(ctx context.Context, authority *model.Authority) error {
	return r.db.WithContext(ctx).Create(authority).Error
}

func (r *authorityRepository) Update(ctx context.Context, authority *model.Authority) error {
	return r.db.WithContext(ctx).Save(authority).Error
}

func (r *authorityRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Authority{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *authorityRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Authority, error) {
	var authority model.Authority
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&authority).Error; err != nil {
		return nil, err
	}
	return &authority, nil
}

func (r *authorityRepository) ListActive(ctx context.Context) ([]model.Authority, error) {
	var authorities []model.Authority
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&authorities).Error
	if err != nil {
		return nil, err
	}
	return authorities, nil
}

func (r *authorityRepository) ListActiveByCreation(ctx context.Context) ([]model.Authority, error) {
	var authorities []model.Authority
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at ASC").
		Order("id ASC").
		Find(&authorities).Error
	if err != nil {
		return nil, err
	}
	return authorities, nil
}

func (r *authorityRepository) IncrementHandled(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Authority{}).
		Where("id = ?", id).
		UpdateColumn("reports_handled", gorm.Expr("reports_handled + 1")).Error
}

func (r *authorityRepository) IncrementResolved(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Authority{}).
		Where("id = ?", id).
		UpdateColumn("reports_resolved", gorm.Expr("reports_resolved + 1")).Error
}

func (r *authorityRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Authority{}).Count(&count).Error
	return count, err
}
