package service

import (
	"context"
	"fmt"
	"log"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"goodcitizen/internal/cache"
	"goodcitizen/internal/errors"
	"goodcitizen/internal/model"
	"goodcitizen/internal/photo"
	"goodcitizen/internal/repository"
)

const defaultRejectionReason = "Does not meet verification criteria"

// AuthorityNotifier delivers fire-and-forget notifications to authorities.
type AuthorityNotifier interface {
	NotifyAuthority(report *model.Report, authority *model.Authority, reporter *model.User)
}

// SubmitReportInput carries everything needed to create a report.
type SubmitReportInput struct {
	Category    model.ReportCategory
	Description string
	Longitude   float64
	Latitude    float64
	Address     string
	Priority    model.ReportPriority
	Photo       []byte
	PhotoType   string
}

// ReportService enforces the report lifecycle: Pending -> Verified | Rejected,
// Verified -> Resolved. Every transition is a compare-and-swap on status, so
// two concurrent attempts cannot both succeed.
type ReportService interface {
	Submit(ctx context.Context, userID uuid.UUID, input SubmitReportInput) (*model.Report, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Report, error)
	List(ctx context.Context, filter repository.ReportFilter) ([]model.Report, int64, error)
	Verify(ctx context.Context, moderatorID, reportID uuid.UUID) (*model.Report, error)
	Reject(ctx context.Context, moderatorID, reportID uuid.UUID, reason string) (*model.Report, error)
	Resolve(ctx context.Context, reportID uuid.UUID) (*model.Report, error)
	Delete(ctx context.Context, actorID uuid.UUID, actorRole model.Role, reportID uuid.UUID) error
	PeerVerify(ctx context.Context, userID, reportID uuid.UUID, verified bool) (*model.Report, error)
}

type reportService struct {
	reportRepo    repository.ReportRepository
	userRepo      repository.UserRepository
	authorityRepo repository.AuthorityRepository
	router        *AuthorityRouter
	photos        photo.Store
	notifier      AuthorityNotifier
	cache         *cache.Client
}

// NewReportService creates a new report service.
func NewReportService(
	reportRepo repository.ReportRepository,
	userRepo repository.UserRepository,
	authorityRepo repository.AuthorityRepository,
	photos photo.Store,
	notifier AuthorityNotifier,
	cache *cache.Client,
) ReportService {
	return &reportService{
		reportRepo:    reportRepo,
		userRepo:      userRepo,
		authorityRepo: authorityRepo,
		router:        NewAuthorityRouter(authorityRepo),
		photos:        photos,
		notifier:      notifier,
		cache:         cache,
	}
}

func userCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("user:%s", id.String())
}

func validateSubmit(input *SubmitReportInput) error {
	if !input.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", errors.ErrValidation, input.Category)
	}
	if n := utf8.RuneCountInString(input.Description); n < 10 || n > 500 {
		return fmt.Errorf("%w: description must be 10-500 characters", errors.ErrValidation)
	}
	if input.Latitude < -90 || input.Latitude > 90 {
		return fmt.Errorf("%w: latitude out of range", errors.ErrValidation)
	}
	if input.Longitude < -180 || input.Longitude > 180 {
		return fmt.Errorf("%w: longitude out of range", errors.ErrValidation)
	}
	if len(input.Photo) == 0 {
		return fmt.Errorf("%w: photo is required", errors.ErrValidation)
	}
	switch input.Priority {
	case "":
		input.Priority = model.PriorityMedium
	case model.PriorityLow, model.PriorityMedium, model.PriorityHigh:
	default:
		return fmt.Errorf("%w: unknown priority %q", errors.ErrValidation, input.Priority)
	}
	return nil
}

// Submit creates a report in Pending state and increments the owner's report
// count. The photo upload happens first; if the store is down, the report is
// not created.
func (s *reportService) Submit(ctx context.Context, userID uuid.UUID, input SubmitReportInput) (*model.Report, error) {
	if err := validateSubmit(&input); err != nil {
		return nil, err
	}

	upload, err := s.photos.Store(ctx, input.Photo, input.PhotoType)
	if err != nil {
		return nil, fmt.Errorf("%w: photo upload: %v", errors.ErrInfrastructure, err)
	}

	report := &model.Report{
		UserID:      userID,
		Category:    input.Category,
		Description: input.Description,
		PhotoURL:    upload.URL,
		PhotoID:     upload.ID,
		Longitude:   input.Longitude,
		Latitude:    input.Latitude,
		Address:     input.Address,
		Status:      model.StatusPending,
		Priority:    input.Priority,
	}
	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}

	if err := s.userRepo.IncrementReportsCount(ctx, userID, 1); err != nil {
		return nil, fmt.Errorf("increment reports count: %w", err)
	}
	_ = s.cache.Delete(ctx, userCacheKey(userID))

	return report, nil
}

func (s *reportService) Get(ctx context.Context, id uuid.UUID) (*model.Report, error) {
	report, err := s.reportRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrReportNotFound
		}
		return nil, fmt.Errorf("find report: %w", err)
	}
	return report, nil
}

func (s *reportService) List(ctx context.Context, filter repository.ReportFilter) ([]model.Report, int64, error) {
	return s.reportRepo.List(ctx, filter)
}

// Verify moves a Pending report to Verified: records the verifier, awards the
// flat point bonus, routes the report to a matching authority, and notifies
// it. The notification is fire-and-forget; only the status swap can fail.
func (s *reportService) Verify(ctx context.Context, moderatorID, reportID uuid.UUID) (*model.Report, error) {
	report, err := s.Get(ctx, reportID)
	if err != nil {
		return nil, err
	}

	// Routing is consulted before the swap; a lost swap changes nothing.
	authority, err := s.router.Route(ctx, report.Category)
	if err != nil {
		return nil, fmt.Errorf("route authority: %w", err)
	}

	now := time.Now()
	updates := map[string]interface{}{
		"verified_by":    moderatorID,
		"verified_at":    now,
		"points_awarded": PointsPerVerifiedReport,
	}
	if authority != nil {
		updates["assigned_to"] = authority.ID
	}

	swapped, err := s.reportRepo.TransitionStatus(ctx, reportID, model.StatusPending, model.StatusVerified, updates)
	if err != nil {
		return nil, fmt.Errorf("verify report: %w", err)
	}
	if !swapped {
		return nil, errors.ErrInvalidTransition
	}

	if err := s.userRepo.WithTransaction(ctx, func(ctx context.Context, txRepo repository.UserRepository) error {
		owner, err := txRepo.FindByIDForUpdate(ctx, report.UserID)
		if err != nil {
			return err
		}
		owner.Points += PointsPerVerifiedReport
		owner.VerifiedReportsCount++
		owner.Reputation = ComputeReputation(owner.VerifiedReportsCount, owner.ReportsCount)
		return txRepo.Update(ctx, owner)
	}); err != nil {
		return nil, fmt.Errorf("award points: %w", err)
	}
	_ = s.cache.Delete(ctx, userCacheKey(report.UserID))

	if authority != nil {
		if err := s.authorityRepo.IncrementHandled(ctx, authority.ID); err != nil {
			return nil, fmt.Errorf("increment reports handled: %w", err)
		}
		if owner, err := s.userRepo.FindByID(ctx, report.UserID); err == nil {
			s.notifier.NotifyAuthority(report, authority, owner)
		} else {
			log.Printf("report %s: skip authority notification, owner lookup failed: %v", reportID, err)
		}
	}

	return s.Get(ctx, reportID)
}

// Reject moves a Pending report to Rejected and recomputes the owner's
// reputation from existing counts. No points change hands.
func (s *reportService) Reject(ctx context.Context, moderatorID, reportID uuid.UUID, reason string) (*model.Report, error) {
	report, err := s.Get(ctx, reportID)
	if err != nil {
		return nil, err
	}

	if reason == "" {
		reason = defaultRejectionReason
	}
	swapped, err := s.reportRepo.TransitionStatus(ctx, reportID, model.StatusPending, model.StatusRejected, map[string]interface{}{
		"verified_by":      moderatorID,
		"verified_at":      time.Now(),
		"rejection_reason": reason,
	})
	if err != nil {
		return nil, fmt.Errorf("reject report: %w", err)
	}
	if !swapped {
		return nil, errors.ErrInvalidTransition
	}

	if err := s.userRepo.WithTransaction(ctx, func(ctx context.Context, txRepo repository.UserRepository) error {
		owner, err := txRepo.FindByIDForUpdate(ctx, report.UserID)
		if err != nil {
			return err
		}
		owner.Reputation = ComputeReputation(owner.VerifiedReportsCount, owner.ReportsCount)
		return txRepo.Update(ctx, owner)
	}); err != nil {
		return nil, fmt.Errorf("recompute reputation: %w", err)
	}
	_ = s.cache.Delete(ctx, userCacheKey(report.UserID))

	return s.Get(ctx, reportID)
}

// Resolve closes the loop on a Verified report and credits the assigned
// authority's resolved counter.
func (s *reportService) Resolve(ctx context.Context, reportID uuid.UUID) (*model.Report, error) {
	report, err := s.Get(ctx, reportID)
	if err != nil {
		return nil, err
	}

	swapped, err := s.reportRepo.TransitionStatus(ctx, reportID, model.StatusVerified, model.StatusResolved, map[string]interface{}{
		"resolved_at": time.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("resolve report: %w", err)
	}
	if !swapped {
		return nil, errors.ErrInvalidTransition
	}

	if report.AssignedTo != nil {
		if err := s.authorityRepo.IncrementResolved(ctx, *report.AssignedTo); err != nil {
			return nil, fmt.Errorf("increment reports resolved: %w", err)
		}
	}

	return s.Get(ctx, reportID)
}

// Delete removes a Pending report. Only the owner or an admin may delete, and
// the photo release is best-effort: a dead image store never blocks deletion.
func (s *reportService) Delete(ctx context.Context, actorID uuid.UUID, actorRole model.Role, reportID uuid.UUID) error {
	report, err := s.Get(ctx, reportID)
	if err != nil {
		return err
	}

	if report.UserID != actorID && actorRole != model.RoleAdmin {
		return errors.ErrForbidden
	}
	if report.Status != model.StatusPending {
		return errors.ErrInvalidTransition
	}

	deleted, err := s.reportRepo.DeletePending(ctx, reportID)
	if err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	if !deleted {
		// Lost a race with a transition or another delete.
		return errors.ErrInvalidTransition
	}

	if report.PhotoID != "" {
		if err := s.photos.Delete(ctx, report.PhotoID); err != nil {
			log.Printf("report %s: photo release failed: %v", reportID, err)
		}
	}

	if err := s.userRepo.IncrementReportsCount(ctx, report.UserID, -1); err != nil {
		return fmt.Errorf("decrement reports count: %w", err)
	}
	_ = s.cache.Delete(ctx, userCacheKey(report.UserID))

	return nil
}

// PeerVerify appends one advisory verification per user per report. The
// unique constraint decides duplicates, so two concurrent attempts by the
// same user cannot both land.
func (s *reportService) PeerVerify(ctx context.Context, userID, reportID uuid.UUID, verified bool) (*model.Report, error) {
	if _, err := s.Get(ctx, reportID); err != nil {
		return nil, err
	}

	pv := &model.PeerVerification{
		ReportID: reportID,
		UserID:   userID,
		Verified: verified,
	}
	if err := s.reportRepo.AddPeerVerification(ctx, pv); err != nil {
		if err == gorm.ErrDuplicatedKey {
			return nil, errors.ErrDuplicateAction
		}
		return nil, fmt.Errorf("add peer verification: %w", err)
	}

	return s.Get(ctx, reportID)
}
