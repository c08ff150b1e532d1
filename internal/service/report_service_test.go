package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "goodcitizen/internal/errors"
	"goodcitizen/internal/model"
	"goodcitizen/internal/photo"
)

func newReportServiceForTest(
	reportRepo *MockReportRepository,
	userRepo *MockUserRepository,
	authorityRepo *MockAuthorityRepository,
	photos *MockPhotoStore,
	notifier *MockNotifier,
) ReportService {
	return NewReportService(reportRepo, userRepo, authorityRepo, photos, notifier, nil)
}

func pendingReport(userID uuid.UUID, category model.ReportCategory) *model.Report {
	return &model.Report{
		ID:          uuid.New(),
		UserID:      userID,
		Category:    category,
		Description: "Rider without a helmet near the market junction",
		PhotoURL:    "https://photos.example.com/p/1.jpg",
		PhotoID:     "p-1",
		Status:      model.StatusPending,
		Priority:    model.PriorityMedium,
	}
}

func TestReportService_Submit(t *testing.T) {
	userID := uuid.New()
	validInput := SubmitReportInput{
		Category:    model.CategoryLittering,
		Description: "Garbage dumped on the sidewalk outside the school",
		Latitude:    12.97,
		Longitude:   77.59,
		Address:     "5th Cross Rd",
		Photo:       []byte{0xff, 0xd8, 0xff},
		PhotoType:   "image/jpeg",
	}

	t.Run("successful submission starts pending", func(t *testing.T) {
		reportRepo := new(MockReportRepository)
		userRepo := new(MockUserRepository)
		photos := new(MockPhotoStore)

		photos.On("Store", mock.Anything, validInput.Photo, "image/jpeg").
			Return(&photo.Upload{URL: "https://photos.example.com/p/9.jpg", ID: "p-9"}, nil)
		reportRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Report")).Return(nil)
		userRepo.On("IncrementReportsCount", mock.Anything, userID, 1).Return(nil)

		svc := newReportServiceForTest(reportRepo, userRepo, new(MockAuthorityRepository), photos, new(MockNotifier))
		report, err := svc.Submit(context.Background(), userID, validInput)

		assert.NoError(t, err)
		assert.Equal(t, model.StatusPending, report.Status)
		assert.Equal(t, model.PriorityMedium, report.Priority)
		assert.Equal(t, "p-9", report.PhotoID)
		reportRepo.AssertExpectations(t)
		userRepo.AssertExpectations(t)
		photos.AssertExpectations(t)
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		input := validInput
		input.Category = "Jaywalking"

		svc := newReportServiceForTest(new(MockReportRepository), new(MockUserRepository), new(MockAuthorityRepository), new(MockPhotoStore), new(MockNotifier))
		_, err := svc.Submit(context.Background(), userID, input)

		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("rejects short description", func(t *testing.T) {
		input := validInput
		input.Description = "too short"

		svc := newReportServiceForTest(new(MockReportRepository), new(MockUserRepository), new(MockAuthorityRepository), new(MockPhotoStore), new(MockNotifier))
		_, err := svc.Submit(context.Background(), userID, input)

		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("rejects out-of-range coordinates", func(t *testing.T) {
		input := validInput
		input.Latitude = 91

		svc := newReportServiceForTest(new(MockReportRepository), new(MockUserRepository), new(MockAuthorityRepository), new(MockPhotoStore), new(MockNotifier))
		_, err := svc.Submit(context.Background(), userID, input)

		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("photo store outage blocks creation", func(t *testing.T) {
		reportRepo := new(MockReportRepository)
		photos := new(MockPhotoStore)
		photos.On("Store", mock.Anything, validInput.Photo, "image/jpeg").
			Return(nil, assert.AnError)

		svc := newReportServiceForTest(reportRepo, new(MockUserRepository), new(MockAuthorityRepository), photos, new(MockNotifier))
		_, err := svc.Submit(context.Background(), userID, validInput)

		assert.ErrorIs(t, err, apperrors.ErrInfrastructure)
		reportRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestReportService_Verify(t *testing.T) {
	ownerID := uuid.New()
	moderatorID := uuid.New()

	t.Run("awards points and routes to authority", func(t *testing.T) {
		report := pendingReport(ownerID, model.CategoryHelmetViolation)
		authority := &model.Authority{
			ID:         uuid.New(),
			Name:       "Traffic Police - Central Zone",
			Categories: []model.ReportCategory{model.CategoryHelmetViolation},
			IsActive:   true,
		}
		owner := &model.User{ID: ownerID, Points: 40, ReportsCount: 5, VerifiedReportsCount: 2}

		reportRepo := new(MockReportRepository)
		userRepo := new(MockUserRepository)
		authorityRepo := new(MockAuthorityRepository)
		notifier := new(MockNotifier)

		reportRepo.On("FindByID", mock.Anything, report.ID).Return(report, nil)
		authorityRepo.On("ListActiveByCreation", mock.Anything).Return([]model.Authority{*authority}, nil)
		reportRepo.On("TransitionStatus", mock.Anything, report.ID, model.StatusPending, model.StatusVerified, mock.Anything).
			Return(true, nil)
		userRepo.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
		userRepo.On("FindByIDForUpdate", mock.Anything, ownerID).Return(owner, nil)
		userRepo.On("Update", mock.Anything, owner).Return(nil)
		authorityRepo.On("IncrementHandled", mock.Anything, authority.ID).Return(nil)
		userRepo.On("FindByID", mock.Anything, ownerID).Return(owner, nil)
		notifier.On("NotifyAuthority", report, mock.AnythingOfType("*model.Authority"), owner).Return()

		svc := newReportServiceForTest(reportRepo, userRepo, authorityRepo, new(MockPhotoStore), notifier)
		_, err := svc.Verify(context.Background(), moderatorID, report.ID)

		assert.NoError(t, err)
		assert.Equal(t, 50, owner.Points)
		assert.Equal(t, 3, owner.VerifiedReportsCount)
		assert.Equal(t, float64(60), owner.Reputation)
		reportRepo.AssertExpectations(t)
		userRepo.AssertExpectations(t)
		authorityRepo.AssertExpectations(t)
		notifier.AssertExpectations(t)
	})

	t.Run("no matching authority leaves report unassigned", func(t *testing.T) {
		report := pendingReport(ownerID, model.CategoryOthers)
		owner := &model.User{ID: ownerID, ReportsCount: 1}

		reportRepo := new(MockReportRepository)
		userRepo := new(MockUserRepository)
		authorityRepo := new(MockAuthorityRepository)
		notifier := new(MockNotifier)

		reportRepo.On("FindByID", mock.Anything, report.ID).Return(report, nil)
		authorityRepo.On("ListActiveByCreation", mock.Anything).Return([]model.Authority{}, nil)
		reportRepo.On("TransitionStatus", mock.Anything, report.ID, model.StatusPending, model.StatusVerified,
			mock.MatchedBy(func(updates map[string]interface{}) bool {
				_, assigned := updates["assigned_to"]
				return !assigned
			})).Return(true, nil)
		userRepo.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
		userRepo.On("FindByIDForUpdate", mock.Anything, ownerID).Return(owner, nil)
		userRepo.On("Update", mock.Anything, owner).Return(nil)

		svc := newReportServiceForTest(reportRepo, userRepo, authorityRepo, new(MockPhotoStore), notifier)
		_, err := svc.Verify(context.Background(), moderatorID, report.ID)

		assert.NoError(t, err)
		authorityRepo.AssertNotCalled(t, "IncrementHandled", mock.Anything, mock.Anything)
		notifier.AssertNotCalled(t, "NotifyAuthority", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("lost swap reports invalid transition", func(t *testing.T) {
		report := pendingReport(ownerID, model.CategoryLittering)

		reportRepo := new(MockReportRepository)
		userRepo := new(MockUserRepository)
		authorityRepo := new(MockAuthorityRepository)

		reportRepo.On("FindByID", mock.Anything, report.ID).Return(report, nil)
		authorityRepo.On("ListActiveByCreation", mock.Anything).Return([]model.Authority{}, nil)
		reportRepo.On("TransitionStatus", mock.Anything, report.ID, model.StatusPending, model.StatusVerified, mock.Anything).
			Return(false, nil)

		svc := newReportServiceForTest(reportRepo, userRepo, authorityRepo, new(MockPhotoStore), new(MockNotifier))
		_, err := svc.Verify(context.Background(), moderatorID, report.ID)

		assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
		userRepo.AssertNotCalled(t, "WithTransaction", mock.Anything, mock.Anything)
	})

	t.Run("unknown report", func(t *testing.T) {
		reportRepo := new(MockReportRepository)
		missing := uuid.New()
		reportRepo.On("FindByID", mock.Anything, missing).Return(nil, gorm.ErrRecordNotFound)

		svc := newReportServiceForTest(reportRepo, new(MockUserRepository), new(MockAuthorityRepository), new(MockPhotoStore), new(MockNotifier))
		_, err := svc.Verify(context.Background(), moderatorID, missing)

		assert.ErrorIs(t, err, apperrors.ErrReportNotFound)
	})
}

func TestReportService_Reject(t *testing.T) {
	ownerID := uuid.New()
	moderatorID := uuid.New()

	t.Run("applies default reason and keeps points untouched", func(t *testing.T) {
		report := pendingReport(ownerID, model.CategoryIllegalParking)
		owner := &model.User{ID: ownerID, Points: 30, ReportsCount: 4, VerifiedReportsCount: 1}

		reportRepo := new(MockReportRepository)
		userRepo := new(MockUserRepository)

		reportRepo.On("FindByID", mock.Anything, report.ID).Return(report, nil)
		reportRepo.On("TransitionStatus", mock.Anything, report.ID, model.StatusPending, model.StatusRejected,
			mock.MatchedBy(func(updates map[string]interface{}) bool {
				return updates["rejection_reason"] == "Does not meet verification criteria"
			})).Return(true, nil)
		userRepo.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
		userRepo.On("FindByIDForUpdate", mock.Anything, ownerID).Return(owner, nil)
		userRepo.On("Update", mock.Anything, owner).Return(nil)

		svc := newReportServiceForTest(reportRepo, userRepo, new(MockAuthorityRepository), new(MockPhotoStore), new(MockNotifier))
		_, err := svc.Reject(context.Background(), moderatorID, report.ID, "")

		assert.NoError(t, err)
		assert.Equal(t, 30, owner.Points)
		assert.Equal(t, float64(25), owner.Reputation)
	})

	t.Run("already decided report cannot be rejected", func(t *testing.T) {
		report := pendingReport(ownerID, model.CategoryIllegalParking)

		reportRepo := new(MockReportRepository)
		userRepo := new(MockUserRepository)

		reportRepo.On("FindByID", mock.Anything, report.ID).Return(report, nil)
		reportRepo.On("TransitionStatus", mock.Anything, report.ID, model.StatusPending, model.StatusRejected, mock.Anything).
			Return(false, nil)

		svc := newReportServiceForTest(reportRepo, userRepo, new(MockAuthorityRepository), new(MockPhotoStore), new(MockNotifier))
		_, err := svc.Reject(context.Background(), moderatorID, report.ID, "blurry photo")

		assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
		userRepo.AssertNotCalled(t, "WithTransaction", mock.Anything, mock.Anything)
	})
}

func TestReportService_Resolve(t *testing.T) {
	ownerID := uuid.New()

	t.Run("credits the assigned authority", func(t *testing.T) {
		authorityID := uuid.New()
		report := pendingReport(ownerID, model.CategoryTrafficViolation)
		report.Status = model.StatusVerified
		report.AssignedTo = &authorityID

		reportRepo := new(MockReportRepository)
		authorityRepo := new(MockAuthorityRepository)

		reportRepo.On("FindByID", mock.Anything, report.ID).Return(report, nil)
		reportRepo.On("TransitionStatus", mock.Anything, report.ID, model.StatusVerified, model.StatusResolved, mock.Anything).
			Return(true, nil)
		authorityRepo.On("IncrementResolved", mock.Anything, authorityID).Return(nil)

		svc := newReportServiceForTest(reportRepo, new(MockUserRepository), authorityRepo, new(MockPhotoStore), new(MockNotifier))
		_, err := svc.Resolve(context.Background(), report.ID)

		assert.NoError(t, err)
		authorityRepo.AssertExpectations(t)
	})

	t.Run("pending report cannot resolve", func(t *testing.T) {
		report := pendingReport(ownerID, model.CategoryTrafficViolation)

		reportRepo := new(MockReportRepository)
		reportRepo.On("FindByID", mock.Anything, report.ID).Return(report, nil)
		reportRepo.On("TransitionStatus", mock.Anything, report.ID, model.StatusVerified, model.StatusResolved, mock.Anything).
			Return(false, nil)

		svc := newReportServiceForTest(reportRepo, new(MockUserRepository), new(MockAuthorityRepository), new(MockPhotoStore), new(MockNotifier))
		_, err := svc.Resolve(context.Background(), report.ID)

		assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	})
}

func TestReportService_Delete(t *testing.T) {
	ownerID := uuid.New()

	t.Run("owner deletes a pending report", func(t *testing.T) {
		report := pendingReport(ownerID, model.CategoryLittering)

		reportRepo := new(MockReportRepository)
		userRepo := new(MockUserRepository)
		photos := new(MockPhotoStore)

		reportRepo.On("FindByID", mock.Anything, report.ID).Return(report, nil)
		reportRepo.On("DeletePending", mock.Anything, report.ID).Return(true, nil)
		photos.On("Delete", mock.Anything, report.PhotoID).Return(nil)
		userRepo.On("IncrementReportsCount", mock.Anything, ownerID, -1).Return(nil)

		svc := newReportServiceForTest(reportRepo, userRepo, new(MockAuthorityRepository), photos, new(MockNotifier))
		err := svc.Delete(context.Background(), ownerID, model.RoleUser, report.ID)

		assert.NoError(t, err)
		userRepo.AssertExpectations(t)
	})

	t.Run("stranger cannot delete", func(t *testing.T) {
		report := pendingReport(ownerID, model.CategoryLittering)

		reportRepo := new(MockReportRepository)
		reportRepo.On("FindByID", mock.Anything, report.ID).Return(report, nil)

		svc := newReportServiceForTest(reportRepo, new(MockUserRepository), new(MockAuthorityRepository), new(MockPhotoStore), new(MockNotifier))
		err := svc.Delete(context.Background(), uuid.New(), model.RoleUser, report.ID)

		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("admin may delete another user's pending report", func(t *testing.T) {
		report := pendingReport(ownerID, model.CategoryLittering)

		reportRepo := new(MockReportRepository)
		userRepo := new(MockUserRepository)
		photos := new(MockPhotoStore)

		reportRepo.On("FindByID", mock.Anything, report.ID).Return(report, nil)
		reportRepo.On("DeletePending", mock.Anything, report.ID).Return(true, nil)
		photos.On("Delete", mock.Anything, report.PhotoID).Return(nil)
		userRepo.On("IncrementReportsCount", mock.Anything, ownerID, -1).Return(nil)

		svc := newReportServiceForTest(reportRepo, userRepo, new(MockAuthorityRepository), photos, new(MockNotifier))
		err := svc.Delete(context.Background(), uuid.New(), model.RoleAdmin, report.ID)

		assert.NoError(t, err)
	})

	t.Run("verified report is immutable", func(t *testing.T) {
		report := pendingReport(ownerID, model.CategoryLittering)
		report.Status = model.StatusVerified

		reportRepo := new(MockReportRepository)
		reportRepo.On("FindByID", mock.Anything, report.ID).Return(report, nil)

		svc := newReportServiceForTest(reportRepo, new(MockUserRepository), new(MockAuthorityRepository), new(MockPhotoStore), new(MockNotifier))
		err := svc.Delete(context.Background(), ownerID, model.RoleUser, report.ID)

		assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	})

	t.Run("dead photo store never blocks deletion", func(t *testing.T) {
		report := pendingReport(ownerID, model.CategoryLittering)

		reportRepo := new(MockReportRepository)
		userRepo := new(MockUserRepository)
		photos := new(MockPhotoStore)

		reportRepo.On("FindByID", mock.Anything, report.ID).Return(report, nil)
		reportRepo.On("DeletePending", mock.Anything, report.ID).Return(true, nil)
		photos.On("Delete", mock.Anything, report.PhotoID).Return(assert.AnError)
		userRepo.On("IncrementReportsCount", mock.Anything, ownerID, -1).Return(nil)

		svc := newReportServiceForTest(reportRepo, userRepo, new(MockAuthorityRepository), photos, new(MockNotifier))
		err := svc.Delete(context.Background(), ownerID, model.RoleUser, report.ID)

		assert.NoError(t, err)
	})
}

func TestReportService_PeerVerify(t *testing.T) {
	ownerID := uuid.New()
	voterID := uuid.New()

	t.Run("first vote lands", func(t *testing.T) {
		report := pendingReport(ownerID, model.CategoryOthers)

		reportRepo := new(MockReportRepository)
		reportRepo.On("FindByID", mock.Anything, report.ID).Return(report, nil)
		reportRepo.On("AddPeerVerification", mock.Anything, mock.AnythingOfType("*model.PeerVerification")).Return(nil)

		svc := newReportServiceForTest(reportRepo, new(MockUserRepository), new(MockAuthorityRepository), new(MockPhotoStore), new(MockNotifier))
		_, err := svc.PeerVerify(context.Background(), voterID, report.ID, true)

		assert.NoError(t, err)
	})

	t.Run("second vote by the same user is a duplicate", func(t *testing.T) {
		report := pendingReport(ownerID, model.CategoryOthers)

		reportRepo := new(MockReportRepository)
		reportRepo.On("FindByID", mock.Anything, report.ID).Return(report, nil)
		reportRepo.On("AddPeerVerification", mock.Anything, mock.AnythingOfType("*model.PeerVerification")).
			Return(gorm.ErrDuplicatedKey)

		svc := newReportServiceForTest(reportRepo, new(MockUserRepository), new(MockAuthorityRepository), new(MockPhotoStore), new(MockNotifier))
		_, err := svc.PeerVerify(context.Background(), voterID, report.ID, false)

		assert.ErrorIs(t, err, apperrors.ErrDuplicateAction)
	})
}
