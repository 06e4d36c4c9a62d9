package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"procurechain_backend/internal/cache"
	"procurechain_backend/internal/config"
	"procurechain_backend/internal/logger"
	"procurechain_backend/internal/models"
	"procurechain_backend/internal/repositories"
	"procurechain_backend/internal/services/dto"
	"procurechain_backend/pkg/apperrors"
)

const defaultTrendMonths = 12

type AnalyticsService interface {
	Metrics(ctx context.Context) (*dto.DashboardMetrics, error)
	Trends(ctx context.Context, months int) ([]repositories.MonthlyTrend, error)
	Categories(ctx context.Context) ([]repositories.CategoryBreakdownRow, error)
	VendorPerformance(ctx context.Context, limit int) ([]repositories.VendorPerformanceRow, error)
	AnomalyBreakdown(ctx context.Context) (*repositories.AnomalyStats, error)
	Departments(ctx context.Context) ([]dto.DepartmentBreakdown, error)
	StatusDistribution(ctx context.Context) (map[string]int64, error)
	Timeline(ctx context.Context, procurementID string) ([]models.AuditLog, error)
}

type AnalyticsServiceImpl struct {
	analyticsRepo   repositories.AnalyticsRepository
	procurementRepo repositories.ProcurementRepository
	bidRepo         repositories.BidRepository
	vendorRepo      repositories.VendorRepository
	anomalyRepo     repositories.AnomalyRepository
	assessmentRepo  repositories.AssessmentRepository
	jobRepo         repositories.JobRepository
	auditRepo       repositories.AuditRepository
	cache           cache.Cache
	dashboardTTL    time.Duration
	analyticsTTL    time.Duration
}

func NewAnalyticsService(
	analyticsRepo repositories.AnalyticsRepository,
	procurementRepo repositories.ProcurementRepository,
	bidRepo repositories.BidRepository,
	vendorRepo repositories.VendorRepository,
	anomalyRepo repositories.AnomalyRepository,
	assessmentRepo repositories.AssessmentRepository,
	jobRepo repositories.JobRepository,
	auditRepo repositories.AuditRepository,
	cacheStore cache.Cache,
	cfg *config.Config,
) AnalyticsService {
	return &AnalyticsServiceImpl{
		analyticsRepo:   analyticsRepo,
		procurementRepo: procurementRepo,
		bidRepo:         bidRepo,
		vendorRepo:      vendorRepo,
		anomalyRepo:     anomalyRepo,
		assessmentRepo:  assessmentRepo,
		jobRepo:         jobRepo,
		auditRepo:       auditRepo,
		cache:           cacheStore,
		dashboardTTL:    time.Duration(cfg.Cache.DashboardTTL) * time.Second,
		analyticsTTL:    time.Duration(cfg.Cache.AnalyticsTTL) * time.Second,
	}
}

// cached выполняет loader через кэш. Ошибки кэша не ломают чтение,
// самое плохое - лишний запрос в хранилище.
func cached[T any](ctx context.Context, store cache.Cache, key string, ttl time.Duration, loader func() (T, error)) (T, error) {
	var value T
	if hit, err := store.Get(ctx, key, &value); err == nil && hit {
		return value, nil
	}

	value, err := loader()
	if err != nil {
		return value, err
	}
	if err := store.Set(ctx, key, value, ttl); err != nil {
		logger.CtxWarn(ctx, "cache write failed", "key", key, "error", err)
	}
	return value, nil
}

func (s *AnalyticsServiceImpl) Metrics(ctx context.Context) (*dto.DashboardMetrics, error) {
	return cached(ctx, s.cache, "analytics:metrics", s.dashboardTTL, func() (*dto.DashboardMetrics, error) {
		procurementStats, err := s.procurementRepo.GetStats()
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		bidStats, err := s.bidRepo.GetStats()
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		vendorCount, err := s.vendorRepo.Count()
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		anomalyStats, err := s.anomalyRepo.GetStats()
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		assessmentsByStatus, err := s.assessmentRepo.CountByStatus()
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		jobsByStatus, err := s.jobRepo.CountByStatus()
		if err != nil {
			return nil, apperrors.InternalError(err)
		}

		return &dto.DashboardMetrics{
			TotalProcurements:    procurementStats.Total,
			ProcurementsByStatus: procurementStats.ByStatus,
			TotalBudget:          procurementStats.TotalBudget,
			AwardedBudget:        procurementStats.TotalAwarded,
			TotalBids:            bidStats.Total,
			BidsByStatus:         bidStats.ByStatus,
			VendorCount:          vendorCount,
			OpenAnomalies:        anomalyStats.ByStatus[string(models.AnomalyOpen)],
			AssessmentsByStatus:  assessmentsByStatus,
			JobsByStatus:         jobsByStatus,
		}, nil
	})
}

func (s *AnalyticsServiceImpl) Trends(ctx context.Context, months int) ([]repositories.MonthlyTrend, error) {
	if months <= 0 || months > 36 {
		months = defaultTrendMonths
	}
	key := fmt.Sprintf("analytics:trends:%d", months)
	return cached(ctx, s.cache, key, s.analyticsTTL, func() ([]repositories.MonthlyTrend, error) {
		trends, err := s.procurementRepo.MonthlyTrends(months)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		return trends, nil
	})
}

func (s *AnalyticsServiceImpl) Categories(ctx context.Context) ([]repositories.CategoryBreakdownRow, error) {
	return cached(ctx, s.cache, "analytics:categories", s.analyticsTTL, func() ([]repositories.CategoryBreakdownRow, error) {
		rows, err := s.analyticsRepo.CategoryBreakdown()
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		return rows, nil
	})
}

func (s *AnalyticsServiceImpl) VendorPerformance(ctx context.Context, limit int) ([]repositories.VendorPerformanceRow, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	key := fmt.Sprintf("analytics:vendors:%d", limit)
	return cached(ctx, s.cache, key, s.analyticsTTL, func() ([]repositories.VendorPerformanceRow, error) {
		rows, err := s.analyticsRepo.VendorPerformance(limit)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		return rows, nil
	})
}

func (s *AnalyticsServiceImpl) AnomalyBreakdown(ctx context.Context) (*repositories.AnomalyStats, error) {
	return cached(ctx, s.cache, "analytics:anomalies", s.analyticsTTL, func() (*repositories.AnomalyStats, error) {
		stats, err := s.anomalyRepo.GetStats()
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		return stats, nil
	})
}

func (s *AnalyticsServiceImpl) Departments(ctx context.Context) ([]dto.DepartmentBreakdown, error) {
	return cached(ctx, s.cache, "analytics:departments", s.analyticsTTL, func() ([]dto.DepartmentBreakdown, error) {
		counts, err := s.procurementRepo.CountByDepartment()
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		budgets, err := s.analyticsRepo.BudgetByDepartment()
		if err != nil {
			return nil, apperrors.InternalError(err)
		}

		rows := make([]dto.DepartmentBreakdown, 0, len(counts))
		for department, count := range counts {
			rows = append(rows, dto.DepartmentBreakdown{
				Department: department,
				Count:      count,
				Budget:     budgets[department],
			})
		}
		sort.Slice(rows, func(a, b int) bool {
			if rows[a].Count != rows[b].Count {
				return rows[a].Count > rows[b].Count
			}
			return rows[a].Department < rows[b].Department
		})
		return rows, nil
	})
}

func (s *AnalyticsServiceImpl) StatusDistribution(ctx context.Context) (map[string]int64, error) {
	return cached(ctx, s.cache, "analytics:status", s.analyticsTTL, func() (map[string]int64, error) {
		stats, err := s.procurementRepo.GetStats()
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		return stats.ByStatus, nil
	})
}

// Timeline собирает хронологию закупки из аудит-журнала. Не кэшируется:
// журнал пополняется каждым действием.
func (s *AnalyticsServiceImpl) Timeline(ctx context.Context, procurementID string) ([]models.AuditLog, error) {
	logs, err := s.auditRepo.FindByResource("procurement", procurementID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return logs, nil
}
