package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"goodcitizen/internal/model"
)

// ReportFilter narrows report listings.
type ReportFilter struct {
	UserID   *uuid.UUID
	Category model.ReportCategory
	Status   model.ReportStatus
	Page     int
	Limit    int
}

// CategoryCount is one row of a category breakdown.
type CategoryCount struct {
	Category model.ReportCategory `json:"category"`
	Count    int64                `json:"count"`
}

// ReportRepository defines report persistence operations.
type ReportRepository interface {
	Create(ctx context.Context, report *model.Report) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Report, error)
	List(ctx context.Context, filter ReportFilter) ([]model.Report, int64, error)
	Recent(ctx context.Context, limit int) ([]model.Report, error)
	// TransitionStatus performs a compare-and-swap on the status column:
	// the updates apply only if the report is still in the expected state.
	// Returns false when the swap lost, i.e. rows affected was zero.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to model.ReportStatus, updates map[string]interface{}) (bool, error)
	// DeletePending hard-deletes a report only while it is still Pending.
	DeletePending(ctx context.Context, id uuid.UUID) (bool, error)
	AddPeerVerification(ctx context.Context, pv *model.PeerVerification) error
	CountByStatus(ctx context.Context, userID *uuid.UUID) (map[model.ReportStatus]int64, error)
	CountByCategory(ctx context.Context, userID *uuid.UUID) ([]CategoryCount, error)
	Count(ctx context.Context) (int64, error)
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository builds a GORM-backed repository.
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(ctx context.Context, report *model.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *reportRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Report, error) {
	var report model.Report
	if err := r.db.WithContext(ctx).Preload("PeerVerifications").
		Where("id = ?", id).First(&report).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) List(ctx context.Context, filter ReportFilter) ([]model.Report, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Report{})
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}

	var reports []model.Report
	err := q.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&reports).Error
	if err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

func (r *reportRepository) Recent(ctx context.Context, limit int) ([]model.Report, error) {
	var reports []model.Report
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *reportRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to model.ReportStatus, updates map[string]interface{}) (bool, error) {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = to
	res := r.db.WithContext(ctx).Model(&model.Report{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *reportRepository) DeletePending(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, model.StatusPending).
		Delete(&model.Report{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// AddPeerVerification inserts a verification record. The unique index on
// (report_id, user_id) makes the duplicate check race-free; callers see
// gorm.ErrDuplicatedKey on a repeat.
func (r *reportRepository) AddPeerVerification(ctx context.Context, pv *model.PeerVerification) error {
	return r.db.WithContext(ctx).Create(pv).Error
}

func (r *reportRepository) CountByStatus(ctx context.Context, userID *uuid.UUID) (map[model.ReportStatus]int64, error) {
	type row struct {
		Status model.ReportStatus
		Count  int64
	}
	q := r.db.WithContext(ctx).Model(&model.Report{}).
		Select("status, COUNT(*) as count").
		Group("status")
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	var rows []row
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[model.ReportStatus]int64, len(rows))
	for _, rw := range rows {
		counts[rw.Status] = rw.Count
	}
	return counts, nil
}

func (r *reportRepository) CountByCategory(ctx context.Context, userID *uuid.UUID) ([]CategoryCount, error) {
	q := r.db.WithContext(ctx).Model(&model.Report{}).
		Select("category, COUNT(*) as count").
		Group("category").
		Order("category ASC")
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	var rows []CategoryCount
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *reportRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Report{}).Count(&count).Error
	return count, err
}
