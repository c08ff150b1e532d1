package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "goodcitizen/internal/errors"
	"goodcitizen/internal/model"
)

func TestRewardService_AvailableRewards(t *testing.T) {
	userID := uuid.New()

	t.Run("flags affordable rewards", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("FindByID", mock.Anything, userID).Return(&model.User{ID: userID, Points: 60}, nil)

		svc := NewRewardService(new(MockRedemptionRepository), userRepo, DefaultCatalog(), nil)
		rewards, points, err := svc.AvailableRewards(context.Background(), userID)

		assert.NoError(t, err)
		assert.Equal(t, 60, points)
		assert.Len(t, rewards, 8)
		for _, r := range rewards {
			assert.Equal(t, r.PointsRequired <= 60, r.CanRedeem, r.ID)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("FindByID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)

		svc := NewRewardService(new(MockRedemptionRepository), userRepo, DefaultCatalog(), nil)
		_, _, err := svc.AvailableRewards(context.Background(), userID)

		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})
}

func TestRewardService_Redeem(t *testing.T) {
	userID := uuid.New()

	t.Run("debits points and issues a code", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		redemptionRepo := &MockRedemptionRepository{users: userRepo}

		redemptionRepo.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
		userRepo.On("DebitPoints", mock.Anything, userID, 50).Return(true, nil)
		redemptionRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Redemption")).Return(nil)

		svc := NewRewardService(redemptionRepo, userRepo, DefaultCatalog(), nil)
		redemption, err := svc.Redeem(context.Background(), userID, "coupon-50")

		assert.NoError(t, err)
		assert.Equal(t, model.RedemptionActive, redemption.Status)
		assert.Equal(t, 50, redemption.PointsUsed)
		assert.Equal(t, model.RewardCoupon, redemption.RewardType)
		assert.True(t, strings.HasPrefix(redemption.RewardCode, "GC-"))
		assert.WithinDuration(t, time.Now().Add(model.RedemptionValidity), redemption.ExpiryDate, time.Minute)
		redemptionRepo.AssertExpectations(t)
		userRepo.AssertExpectations(t)
	})

	t.Run("insufficient balance rolls back", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		redemptionRepo := &MockRedemptionRepository{users: userRepo}

		redemptionRepo.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
		userRepo.On("DebitPoints", mock.Anything, userID, 120).Return(false, nil)
		userRepo.On("FindByID", mock.Anything, userID).Return(&model.User{ID: userID, Points: 10}, nil)

		svc := NewRewardService(redemptionRepo, userRepo, DefaultCatalog(), nil)
		_, err := svc.Redeem(context.Background(), userID, "giftcard-amazon-100")

		assert.ErrorIs(t, err, apperrors.ErrInsufficientPoints)
		redemptionRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("failed debit for unknown user", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		redemptionRepo := &MockRedemptionRepository{users: userRepo}

		redemptionRepo.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
		userRepo.On("DebitPoints", mock.Anything, userID, 30).Return(false, nil)
		userRepo.On("FindByID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)

		svc := NewRewardService(redemptionRepo, userRepo, DefaultCatalog(), nil)
		_, err := svc.Redeem(context.Background(), userID, "discount-10")

		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})

	t.Run("unknown reward id", func(t *testing.T) {
		svc := NewRewardService(new(MockRedemptionRepository), new(MockUserRepository), DefaultCatalog(), nil)
		_, err := svc.Redeem(context.Background(), userID, "coupon-9000")

		assert.ErrorIs(t, err, apperrors.ErrRewardNotFound)
	})
}

func TestRewardService_MyRedemptions(t *testing.T) {
	userID := uuid.New()

	t.Run("expires stale redemptions before listing", func(t *testing.T) {
		redemptionRepo := new(MockRedemptionRepository)
		redemptionRepo.On("ExpireDue", mock.Anything, userID, mock.AnythingOfType("time.Time")).Return(int64(2), nil)
		redemptionRepo.On("FindByUser", mock.Anything, userID).Return([]model.Redemption{
			{Status: model.RedemptionExpired},
			{Status: model.RedemptionUsed},
		}, nil)

		svc := NewRewardService(redemptionRepo, new(MockUserRepository), DefaultCatalog(), nil)
		redemptions, err := svc.MyRedemptions(context.Background(), userID)

		assert.NoError(t, err)
		assert.Len(t, redemptions, 2)
		redemptionRepo.AssertExpectations(t)
	})
}

func TestRewardService_Use(t *testing.T) {
	redemptionID := uuid.New()

	t.Run("marks an active code used", func(t *testing.T) {
		redemptionRepo := new(MockRedemptionRepository)
		redemptionRepo.On("MarkUsed", mock.Anything, redemptionID, mock.AnythingOfType("time.Time")).Return(true, nil)
		redemptionRepo.On("FindByID", mock.Anything, redemptionID).
			Return(&model.Redemption{ID: redemptionID, Status: model.RedemptionUsed}, nil)

		svc := NewRewardService(redemptionRepo, new(MockUserRepository), DefaultCatalog(), nil)
		redemption, err := svc.Use(context.Background(), redemptionID)

		assert.NoError(t, err)
		assert.Equal(t, model.RedemptionUsed, redemption.Status)
	})

	t.Run("already used code cannot transition again", func(t *testing.T) {
		redemptionRepo := new(MockRedemptionRepository)
		redemptionRepo.On("MarkUsed", mock.Anything, redemptionID, mock.AnythingOfType("time.Time")).Return(false, nil)
		redemptionRepo.On("FindByID", mock.Anything, redemptionID).
			Return(&model.Redemption{ID: redemptionID, Status: model.RedemptionUsed}, nil)

		svc := NewRewardService(redemptionRepo, new(MockUserRepository), DefaultCatalog(), nil)
		_, err := svc.Use(context.Background(), redemptionID)

		assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	})

	t.Run("missing redemption", func(t *testing.T) {
		redemptionRepo := new(MockRedemptionRepository)
		redemptionRepo.On("MarkUsed", mock.Anything, redemptionID, mock.AnythingOfType("time.Time")).Return(false, nil)
		redemptionRepo.On("FindByID", mock.Anything, redemptionID).Return(nil, gorm.ErrRecordNotFound)

		svc := NewRewardService(redemptionRepo, new(MockUserRepository), DefaultCatalog(), nil)
		_, err := svc.Use(context.Background(), redemptionID)

		assert.ErrorIs(t, err, apperrors.ErrRedemptionNotFound)
	})
}

func TestNewRewardCode(t *testing.T) {
	now := time.Now()
	code := newRewardCode(now)

	parts := strings.SplitN(code, "-", 3)
	assert.Len(t, parts, 3)
	assert.Equal(t, "GC", parts[0])
	assert.Len(t, parts[2], 9)
	assert.NotEqual(t, code, newRewardCode(now))
}
