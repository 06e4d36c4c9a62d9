package repositories

import (
	"errors"
	"time"

	"procurechain_backend/internal/models"

	"gorm.io/gorm"
)

var ErrAuditLogNotFound = errors.New("audit log not found")

type AuditFilter struct {
	EventType    models.AuditEventType
	Severity     models.AuditSeverity
	UserID       string
	ResourceType string
	ResourceID   string
	DateFrom     *time.Time
	DateTo       *time.Time
	Page         int
	PageSize     int
}

type AuditStats struct {
	Total      int64            `json:"total"`
	ByEvent    map[string]int64 `json:"by_event"`
	BySeverity map[string]int64 `json:"by_severity"`
	Last24h    int64            `json:"last_24h"`
}

type AuditRepository interface {
	Create(log *models.AuditLog) error
	FindByID(id string) (*models.AuditLog, error)
	FindWithFilter(criteria AuditFilter) ([]models.AuditLog, int64, error)
	FindByResource(resourceType, resourceID string) ([]models.AuditLog, error)
	GetStats() (*AuditStats, error)
	DeleteOlderThan(cutoff time.Time) (int64, error)
}

type AuditRepositoryImpl struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &AuditRepositoryImpl{db: db}
}

func (r *AuditRepositoryImpl) Create(log *models.AuditLog) error {
	return r.db.Create(log).Error
}

func (r *AuditRepositoryImpl) FindByID(id string) (*models.AuditLog, error) {
	var log models.AuditLog
	err := r.db.First(&log, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuditLogNotFound
		}
		return nil, err
	}
	return &log, nil
}

func (r *AuditRepositoryImpl) FindWithFilter(criteria AuditFilter) ([]models.AuditLog, int64, error) {
	var logs []models.AuditLog
	query := r.db.Model(&models.AuditLog{})

	if criteria.EventType != "" {
		query = query.Where("event_type = ?", criteria.EventType)
	}
	if criteria.Severity != "" {
		query = query.Where("severity = ?", criteria.Severity)
	}
	if criteria.UserID != "" {
		query = query.Where("user_id = ?", criteria.UserID)
	}
	if criteria.ResourceType != "" {
		query = query.Where("resource_type = ?", criteria.ResourceType)
	}
	if criteria.ResourceID != "" {
		query = query.Where("resource_id = ?", criteria.ResourceID)
	}
	if criteria.DateFrom != nil {
		query = query.Where("created_at >= ?", criteria.DateFrom)
	}
	if criteria.DateTo != nil {
		query = query.Where("created_at <= ?", criteria.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Limit(criteria.PageSize).Offset((criteria.Page - 1) * criteria.PageSize).
		Find(&logs).Error
	return logs, total, err
}

func (r *AuditRepositoryImpl) FindByResource(resourceType, resourceID string) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := r.db.Where("resource_type = ? AND resource_id = ?", resourceType, resourceID).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, err
}

func (r *AuditRepositoryImpl) GetStats() (*AuditStats, error) {
	stats := &AuditStats{
		ByEvent:    make(map[string]int64),
		BySeverity: make(map[string]int64),
	}

	if err := r.db.Model(&models.AuditLog{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	type row struct {
		Key   string
		Count int64
	}
	grouped := func(column string, dest map[string]int64) error {
		var rows []row
		err := r.db.Model(&models.AuditLog{}).
			Select(column + " AS key, COUNT(*) AS count").
			Group(column).
			Find(&rows).Error
		if err != nil {
			return err
		}
		for _, rw := range rows {
			dest[rw.Key] = rw.Count
		}
		return nil
	}

	if err := grouped("event_type", stats.ByEvent); err != nil {
		return nil, err
	}
	if err := grouped("severity", stats.BySeverity); err != nil {
		return nil, err
	}

	err := r.db.Model(&models.AuditLog{}).
		Where("created_at >= ?", time.Now().Add(-24*time.Hour)).
		Count(&stats.Last24h).Error
	if err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *AuditRepositoryImpl) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result := r.db.Where("created_at < ?", cutoff).Delete(&models.AuditLog{})
	return result.RowsAffected, result.Error
}
