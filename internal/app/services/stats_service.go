package services

import (
	"context"
	"time"

	"github.com/ymori/careertrack/internal/app/models"
	"github.com/ymori/careertrack/internal/app/models/dto"
	"github.com/ymori/careertrack/internal/app/repositories"
	"github.com/ymori/careertrack/internal/pkg/cache"
	"github.com/ymori/careertrack/internal/pkg/logger"
)

// DashboardStatsTTL bounds staleness when an invalidation signal is missed
const DashboardStatsTTL = 5 * time.Minute

// StatsService defines the interface for admin dashboard aggregates and the
// recent-activity view
type StatsService interface {
	Dashboard(ctx context.Context) (*dto.DashboardStatsResponse, error)
	RecentActivity(ctx context.Context, limit int) ([]models.ActivityLog, error)
}

type statsServiceImpl struct {
	applicationRepo *repositories.ApplicationRepository
	activityLogRepo *repositories.ActivityLogRepository
	statsCache      *cache.Cache
}

// NewStatsService creates a new stats service instance
func NewStatsService(
	applicationRepo *repositories.ApplicationRepository,
	activityLogRepo *repositories.ActivityLogRepository,
	statsCache *cache.Cache,
) StatsService {
	return &statsServiceImpl{
		applicationRepo: applicationRepo,
		activityLogRepo: activityLogRepo,
		statsCache:      statsCache,
	}
}

// Dashboard serves the aggregates from Redis when fresh, falling back to the
// store and repopulating on a miss. A cache failure degrades to a direct read.
func (s *statsServiceImpl) Dashboard(ctx context.Context) (*dto.DashboardStatsResponse, error) {
	var cached dto.DashboardStatsResponse
	hit, err := s.statsCache.GetJSON(ctx, cache.DashboardStatsKey, &cached)
	if err != nil {
		logger.Warn().Err(err).Msg("Dashboard stats cache read failed")
	}
	if hit {
		return &cached, nil
	}

	stats, err := s.applicationRepo.GetDashboardStats(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.statsCache.SetJSON(ctx, cache.DashboardStatsKey, stats, DashboardStatsTTL); err != nil {
		logger.Warn().Err(err).Msg("Dashboard stats cache write failed")
	}

	return stats, nil
}

// RecentActivity returns the newest audit rows for the admin view
func (s *statsServiceImpl) RecentActivity(ctx context.Context, limit int) ([]models.ActivityLog, error) {
	return s.activityLogRepo.ListRecent(ctx, limit)
}
