package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"goodcitizen/internal/cache"
	"goodcitizen/internal/errors"
	"goodcitizen/internal/model"
	"goodcitizen/internal/repository"
)

// AvailableReward is a catalog entry annotated with the caller's eligibility.
type AvailableReward struct {
	CatalogReward
	CanRedeem bool `json:"can_redeem"`
}

// RewardService is the redemption ledger: it debits points and issues reward
// codes against the immutable catalog.
type RewardService interface {
	AvailableRewards(ctx context.Context, userID uuid.UUID) ([]AvailableReward, int, error)
	// Redeem debits the reward's point cost and creates an Active redemption
	// in one transaction. Two concurrent redeems cannot both pass the
	// balance check: the debit carries its own floor guard.
	Redeem(ctx context.Context, userID uuid.UUID, rewardID string) (*model.Redemption, error)
	// MyRedemptions lists the user's redemptions, lazily expiring any Active
	// ones past their expiry date first.
	MyRedemptions(ctx context.Context, userID uuid.UUID) ([]model.Redemption, error)
	// Use transitions a redemption Active -> Used.
	Use(ctx context.Context, redemptionID uuid.UUID) (*model.Redemption, error)
}

type rewardService struct {
	redemptionRepo repository.RedemptionRepository
	userRepo       repository.UserRepository
	catalog        *RewardCatalog
	cache          *cache.Client
}

// NewRewardService creates a new reward service over a fixed catalog.
func NewRewardService(
	redemptionRepo repository.RedemptionRepository,
	userRepo repository.UserRepository,
	catalog *RewardCatalog,
	cache *cache.Client,
) RewardService {
	return &rewardService{
		redemptionRepo: redemptionRepo,
		userRepo:       userRepo,
		catalog:        catalog,
		cache:          cache,
	}
}

func (s *rewardService) AvailableRewards(ctx context.Context, userID uuid.UUID) ([]AvailableReward, int, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, 0, errors.ErrUserNotFound
		}
		return nil, 0, fmt.Errorf("find user: %w", err)
	}

	rewards := s.catalog.All()
	available := make([]AvailableReward, 0, len(rewards))
	for _, r := range rewards {
		available = append(available, AvailableReward{
			CatalogReward: r,
			CanRedeem:     user.Points >= r.PointsRequired,
		})
	}
	return available, user.Points, nil
}

// newRewardCode builds a human-readable, collision-resistant code:
// a GC prefix, the issuance timestamp, and a random suffix.
func newRewardCode(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:9]
	return fmt.Sprintf("GC-%d-%s", now.UnixMilli(), suffix)
}

func (s *rewardService) Redeem(ctx context.Context, userID uuid.UUID, rewardID string) (*model.Redemption, error) {
	reward, ok := s.catalog.Find(rewardID)
	if !ok {
		return nil, errors.ErrRewardNotFound
	}

	now := time.Now()
	redemption := &model.Redemption{
		UserID:            userID,
		PointsUsed:        reward.PointsRequired,
		RewardType:        reward.Type,
		RewardCode:        newRewardCode(now),
		RewardDescription: reward.Description,
		RewardValue:       reward.Value,
		Status:            model.RedemptionActive,
		ExpiryDate:        now.Add(model.RedemptionValidity),
	}

	// Debit and insert commit together or not at all.
	err := s.redemptionRepo.WithTransaction(ctx, func(ctx context.Context, txRedemptions repository.RedemptionRepository, txUsers repository.UserRepository) error {
		debited, err := txUsers.DebitPoints(ctx, userID, reward.PointsRequired)
		if err != nil {
			return fmt.Errorf("debit points: %w", err)
		}
		if !debited {
			// Either the user is unknown or the balance is short.
			if _, err := txUsers.FindByID(ctx, userID); err != nil {
				if err == gorm.ErrRecordNotFound {
					return errors.ErrUserNotFound
				}
				return fmt.Errorf("find user: %w", err)
			}
			return errors.ErrInsufficientPoints
		}
		if err := txRedemptions.Create(ctx, redemption); err != nil {
			return fmt.Errorf("create redemption: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = s.cache.Delete(ctx, userCacheKey(userID))
	return redemption, nil
}

func (s *rewardService) MyRedemptions(ctx context.Context, userID uuid.UUID) ([]model.Redemption, error) {
	// Expiry is checked lazily at read time; there is no background sweep.
	if _, err := s.redemptionRepo.ExpireDue(ctx, userID, time.Now()); err != nil {
		return nil, fmt.Errorf("expire redemptions: %w", err)
	}
	return s.redemptionRepo.FindByUser(ctx, userID)
}

func (s *rewardService) Use(ctx context.Context, redemptionID uuid.UUID) (*model.Redemption, error) {
	used, err := s.redemptionRepo.MarkUsed(ctx, redemptionID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("mark redemption used: %w", err)
	}
	if !used {
		redemption, err := s.redemptionRepo.FindByID(ctx, redemptionID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, errors.ErrRedemptionNotFound
			}
			return nil, fmt.Errorf("find redemption: %w", err)
		}
		return redemption, errors.ErrInvalidTransition
	}
	return s.redemptionRepo.FindByID(ctx, redemptionID)
}
