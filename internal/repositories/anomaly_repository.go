package repositories

import (
	"errors"
	"time"

	"procurechain_backend/internal/models"

	"gorm.io/gorm"
)

var ErrAnomalyNotFound = errors.New("anomaly not found")

type AnomalyFilter struct {
	ProcurementID string
	Severity      models.AnomalySeverity
	Status        models.AnomalyStatus
	AnomalyType   string
	Page          int
	PageSize      int
}

type AnomalyStats struct {
	Total      int64            `json:"total"`
	BySeverity map[string]int64 `json:"by_severity"`
	ByStatus   map[string]int64 `json:"by_status"`
	ByType     map[string]int64 `json:"by_type"`
}

type AnomalyRepository interface {
	Create(anomaly *models.Anomaly) error
	CreateBatch(anomalies []models.Anomaly) error
	FindByID(id string) (*models.Anomaly, error)
	FindByProcurement(procurementID string) ([]models.Anomaly, error)
	FindWithFilter(criteria AnomalyFilter) ([]models.Anomaly, int64, error)
	FindHighRisk(minRiskScore float64, limit int) ([]models.Anomaly, error)
	UpdateStatus(id string, status models.AnomalyStatus, notes, resolvedBy string) error
	GetStats() (*AnomalyStats, error)
}

type AnomalyRepositoryImpl struct {
	db *gorm.DB
}

func NewAnomalyRepository(db *gorm.DB) AnomalyRepository {
	return &AnomalyRepositoryImpl{db: db}
}

func (r *AnomalyRepositoryImpl) Create(anomaly *models.Anomaly) error {
	return r.db.Create(anomaly).Error
}

func (r *AnomalyRepositoryImpl) CreateBatch(anomalies []models.Anomaly) error {
	if len(anomalies) == 0 {
		return nil
	}
	return r.db.Create(&anomalies).Error
}

func (r *AnomalyRepositoryImpl) FindByID(id string) (*models.Anomaly, error) {
	var anomaly models.Anomaly
	err := r.db.First(&anomaly, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnomalyNotFound
		}
		return nil, err
	}
	return &anomaly, nil
}

func (r *AnomalyRepositoryImpl) FindByProcurement(procurementID string) ([]models.Anomaly, error) {
	var anomalies []models.Anomaly
	err := r.db.Where("procurement_id = ?", procurementID).
		Order("risk_score DESC").
		Find(&anomalies).Error
	return anomalies, err
}

func (r *AnomalyRepositoryImpl) FindWithFilter(criteria AnomalyFilter) ([]models.Anomaly, int64, error) {
	var anomalies []models.Anomaly
	query := r.db.Model(&models.Anomaly{})

	if criteria.ProcurementID != "" {
		query = query.Where("procurement_id = ?", criteria.ProcurementID)
	}
	if criteria.Severity != "" {
		query = query.Where("severity = ?", criteria.Severity)
	}
	if criteria.Status != "" {
		query = query.Where("status = ?", criteria.Status)
	}
	if criteria.AnomalyType != "" {
		query = query.Where("anomaly_type = ?", criteria.AnomalyType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Limit(criteria.PageSize).Offset((criteria.Page - 1) * criteria.PageSize).
		Find(&anomalies).Error
	return anomalies, total, err
}

func (r *AnomalyRepositoryImpl) FindHighRisk(minRiskScore float64, limit int) ([]models.Anomaly, error) {
	var anomalies []models.Anomaly
	err := r.db.Where("risk_score >= ? AND status IN ?", minRiskScore,
		[]models.AnomalyStatus{models.AnomalyOpen, models.AnomalyReviewing}).
		Order("risk_score DESC").
		Limit(limit).
		Find(&anomalies).Error
	return anomalies, err
}

func (r *AnomalyRepositoryImpl) UpdateStatus(id string, status models.AnomalyStatus, notes, resolvedBy string) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if notes != "" {
		updates["resolution_notes"] = notes
	}
	if resolvedBy != "" {
		updates["resolved_by"] = resolvedBy
	}
	result := r.db.Model(&models.Anomaly{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAnomalyNotFound
	}
	return nil
}

func (r *AnomalyRepositoryImpl) GetStats() (*AnomalyStats, error) {
	stats := &AnomalyStats{
		BySeverity: make(map[string]int64),
		ByStatus:   make(map[string]int64),
		ByType:     make(map[string]int64),
	}

	if err := r.db.Model(&models.Anomaly{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	type row struct {
		Key   string
		Count int64
	}
	grouped := func(column string, dest map[string]int64) error {
		var rows []row
		err := r.db.Model(&models.Anomaly{}).
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

	if err := grouped("severity", stats.BySeverity); err != nil {
		return nil, err
	}
	if err := grouped("status", stats.ByStatus); err != nil {
		return nil, err
	}
	if err := grouped("anomaly_type", stats.ByType); err != nil {
		return nil, err
	}

	return stats, nil
}
