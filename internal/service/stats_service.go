package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"goodcitizen/internal/model"
	"goodcitizen/internal/repository"
)

const recentReportsLimit = 5

// ReportCounts groups reports by status.
type ReportCounts struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Verified int64 `json:"verified"`
	Resolved int64 `json:"resolved"`
	Rejected int64 `json:"rejected"`
}

// DashboardStats is the admin dashboard projection, computed over current
// data at request time.
type DashboardStats struct {
	Reports           ReportCounts               `json:"reports"`
	Users             int64                      `json:"users"`
	Authorities       int64                      `json:"authorities"`
	CategoryBreakdown []repository.CategoryCount `json:"category_breakdown"`
	RecentReports     []model.Report             `json:"recent_reports"`
}

// StatsService exposes admin projections over reports and users.
type StatsService interface {
	Dashboard(ctx context.Context) (*DashboardStats, error)
	// ExportCSV streams the filtered reports as CSV rows.
	ExportCSV(ctx context.Context, filter repository.ReportFilter, w io.Writer) error
}

type statsService struct {
	reportRepo    repository.ReportRepository
	userRepo      repository.UserRepository
	authorityRepo repository.AuthorityRepository
}

// NewStatsService creates a new stats service.
func NewStatsService(
	reportRepo repository.ReportRepository,
	userRepo repository.UserRepository,
	authorityRepo repository.AuthorityRepository,
) StatsService {
	return &statsService{
		reportRepo:    reportRepo,
		userRepo:      userRepo,
		authorityRepo: authorityRepo,
	}
}

func (s *statsService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	byStatus, err := s.reportRepo.CountByStatus(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	byCategory, err := s.reportRepo.CountByCategory(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("count by category: %w", err)
	}
	userCount, err := s.userRepo.CountByRole(ctx, model.RoleUser)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	authorityCount, err := s.authorityRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count authorities: %w", err)
	}
	recent, err := s.reportRepo.Recent(ctx, recentReportsLimit)
	if err != nil {
		return nil, fmt.Errorf("recent reports: %w", err)
	}

	stats := &DashboardStats{
		Reports: ReportCounts{
			Pending:  byStatus[model.StatusPending],
			Verified: byStatus[model.StatusVerified],
			Resolved: byStatus[model.StatusResolved],
			Rejected: byStatus[model.StatusRejected],
		},
		Users:             userCount,
		Authorities:       authorityCount,
		CategoryBreakdown: byCategory,
		RecentReports:     recent,
	}
	for _, count := range byStatus {
		stats.Reports.Total += count
	}
	return stats, nil
}

func (s *statsService) ExportCSV(ctx context.Context, filter repository.ReportFilter, w io.Writer) error {
	// Export is unpaginated; cap at a single large page.
	filter.Page = 1
	filter.Limit = 10000
	reports, _, err := s.reportRepo.List(ctx, filter)
	if err != nil {
		return fmt.Errorf("list reports: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"ID", "Category", "Description", "Status", "Priority",
		"Longitude", "Latitude", "Address", "Created At", "Verified At",
	}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, r := range reports {
		verifiedAt := ""
		if r.VerifiedAt != nil {
			verifiedAt = r.VerifiedAt.UTC().Format("2006-01-02T15:04:05Z")
		}
		row := []string{
			r.ID.String(),
			string(r.Category),
			r.Description,
			string(r.Status),
			string(r.Priority),
			strconv.FormatFloat(r.Longitude, 'f', -1, 64),
			strconv.FormatFloat(r.Latitude, 'f', -1, 64),
			r.Address,
			r.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
			verifiedAt,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
