package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"goodcitizen/internal/cache"
	"goodcitizen/internal/errors"
	"goodcitizen/internal/model"
	"goodcitizen/internal/repository"
)

const (
	userCacheTTL       = 5 * time.Minute
	defaultLeaderboard = 10
)

// LeaderboardEntry is one ranked row of the points leaderboard.
type LeaderboardEntry struct {
	Rank            int       `json:"rank"`
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Points          int       `json:"points"`
	Reputation      float64   `json:"reputation"`
	VerifiedReports int       `json:"verified_reports"`
	ProfileImage    string    `json:"profile_image,omitempty"`
}

// UserStats groups a user's reports by status and category.
type UserStats struct {
	TotalReports      int64                      `json:"total_reports"`
	PendingReports    int64                      `json:"pending_reports"`
	VerifiedReports   int64                      `json:"verified_reports"`
	RejectedReports   int64                      `json:"rejected_reports"`
	ResolvedReports   int64                      `json:"resolved_reports"`
	CategoryBreakdown []repository.CategoryCount `json:"category_breakdown"`
	Points            int                        `json:"points"`
	Reputation        float64                    `json:"reputation"`
}

// UserService exposes user read operations.
type UserService interface {
	// GetProfile returns a user by id, cached briefly; mutating operations
	// invalidate the entry.
	GetProfile(ctx context.Context, id uuid.UUID) (*model.User, error)
	// Leaderboard ranks users by points desc, then verified reports desc,
	// ties broken by creation order. Computed at request time, never cached.
	Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error)
	Stats(ctx context.Context, userID uuid.UUID) (*UserStats, error)
}

type userService struct {
	userRepo   repository.UserRepository
	reportRepo repository.ReportRepository
	cache      *cache.Client
}

// NewUserService builds a UserService with repositories and cache.
func NewUserService(userRepo repository.UserRepository, reportRepo repository.ReportRepository, cache *cache.Client) UserService {
	return &userService{userRepo: userRepo, reportRepo: reportRepo, cache: cache}
}

func (s *userService) GetProfile(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, userCacheKey(id)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, userCacheKey(id), payload, userCacheTTL)
	}
	return user, nil
}

func (s *userService) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit < 1 {
		limit = defaultLeaderboard
	}
	users, err := s.userRepo.Leaderboard(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("leaderboard query: %w", err)
	}

	entries := make([]LeaderboardEntry, 0, len(users))
	for i, u := range users {
		entries = append(entries, LeaderboardEntry{
			Rank:            i + 1,
			ID:              u.ID,
			Name:            u.Name,
			Email:           u.Email,
			Points:          u.Points,
			Reputation:      u.Reputation,
			VerifiedReports: u.VerifiedReportsCount,
			ProfileImage:    u.ProfileImage,
		})
	}
	return entries, nil
}

func (s *userService) Stats(ctx context.Context, userID uuid.UUID) (*UserStats, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	byStatus, err := s.reportRepo.CountByStatus(ctx, &userID)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	byCategory, err := s.reportRepo.CountByCategory(ctx, &userID)
	if err != nil {
		return nil, fmt.Errorf("count by category: %w", err)
	}

	stats := &UserStats{
		PendingReports:    byStatus[model.StatusPending],
		VerifiedReports:   byStatus[model.StatusVerified],
		RejectedReports:   byStatus[model.StatusRejected],
		ResolvedReports:   byStatus[model.StatusResolved],
		CategoryBreakdown: byCategory,
		Points:            user.Points,
		Reputation:        user.Reputation,
	}
	for _, count := range byStatus {
		stats.TotalReports += count
	}
	return stats, nil
}
