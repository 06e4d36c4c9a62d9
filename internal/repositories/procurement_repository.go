package repositories

import (
	"errors"
	"time"

	"procurechain_backend/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrProcurementNotFound = errors.New("procurement not found")

type ProcurementFilter struct {
	Status     models.ProcurementStatus
	Category   models.ProcurementCategory
	Department string
	CreatedBy  string
	Search     string
	DateFrom   *time.Time
	DateTo     *time.Time
	PublicOnly bool
	Page       int
	PageSize   int
}

type ProcurementStats struct {
	Total        int64            `json:"total"`
	ByStatus     map[string]int64 `json:"by_status"`
	ByCategory   map[string]int64 `json:"by_category"`
	TotalBudget  float64          `json:"total_budget"`
	TotalAwarded float64          `json:"total_awarded"`
}

type ProcurementRepository interface {
	Create(procurement *models.Procurement) error
	FindByID(id string) (*models.Procurement, error)
	Update(procurement *models.Procurement) error
	UpdateStatus(id string, status models.ProcurementStatus) error
	UpdateMetadata(id string, metadata datatypes.JSON) error
	Delete(id string) error
	FindWithFilter(criteria ProcurementFilter) ([]models.Procurement, int64, error)
	IncrementBidsCount(id string) error
	SetAward(id, vendorID string, amount float64, awardedAt time.Time) error
	GetStats() (*ProcurementStats, error)
	CountByDepartment() (map[string]int64, error)
	MonthlyTrends(months int) ([]MonthlyTrend, error)
}

type MonthlyTrend struct {
	Month  string  `json:"month"`
	Count  int64   `json:"count"`
	Budget float64 `json:"budget"`
}

type ProcurementRepositoryImpl struct {
	db *gorm.DB
}

func NewProcurementRepository(db *gorm.DB) ProcurementRepository {
	return &ProcurementRepositoryImpl{db: db}
}

func (r *ProcurementRepositoryImpl) Create(procurement *models.Procurement) error {
	return r.db.Create(procurement).Error
}

func (r *ProcurementRepositoryImpl) FindByID(id string) (*models.Procurement, error) {
	var procurement models.Procurement
	err := r.db.First(&procurement, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProcurementNotFound
		}
		return nil, err
	}
	return &procurement, nil
}

func (r *ProcurementRepositoryImpl) Update(procurement *models.Procurement) error {
	result := r.db.Model(procurement).Updates(map[string]interface{}{
		"title":               procurement.Title,
		"description":         procurement.Description,
		"category":            procurement.Category,
		"department":          procurement.Department,
		"budget":              procurement.Budget,
		"currency":            procurement.Currency,
		"submission_deadline": procurement.SubmissionDeadline,
		"updated_at":          time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProcurementNotFound
	}
	return nil
}

func (r *ProcurementRepositoryImpl) UpdateStatus(id string, status models.ProcurementStatus) error {
	result := r.db.Model(&models.Procurement{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProcurementNotFound
	}
	return nil
}

func (r *ProcurementRepositoryImpl) UpdateMetadata(id string, metadata datatypes.JSON) error {
	result := r.db.Model(&models.Procurement{}).Where("id = ?", id).Updates(map[string]interface{}{
		"metadata":   metadata,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProcurementNotFound
	}
	return nil
}

func (r *ProcurementRepositoryImpl) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&models.Procurement{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProcurementNotFound
	}
	return nil
}

func (r *ProcurementRepositoryImpl) FindWithFilter(criteria ProcurementFilter) ([]models.Procurement, int64, error) {
	var procurements []models.Procurement
	query := r.db.Model(&models.Procurement{})

	if criteria.PublicOnly {
		query = query.Where("status <> ?", models.ProcurementDraft)
	}
	if criteria.Status != "" {
		query = query.Where("status = ?", criteria.Status)
	}
	if criteria.Category != "" {
		query = query.Where("category = ?", criteria.Category)
	}
	if criteria.Department != "" {
		query = query.Where("department = ?", criteria.Department)
	}
	if criteria.CreatedBy != "" {
		query = query.Where("created_by = ?", criteria.CreatedBy)
	}
	if criteria.Search != "" {
		search := "%" + criteria.Search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", search, search)
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

	limit := criteria.PageSize
	offset := (criteria.Page - 1) * criteria.PageSize
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&procurements).Error

	return procurements, total, err
}

func (r *ProcurementRepositoryImpl) IncrementBidsCount(id string) error {
	result := r.db.Model(&models.Procurement{}).Where("id = ?", id).Updates(map[string]interface{}{
		"bids_count": gorm.Expr("bids_count + 1"),
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProcurementNotFound
	}
	return nil
}

func (r *ProcurementRepositoryImpl) SetAward(id, vendorID string, amount float64, awardedAt time.Time) error {
	result := r.db.Model(&models.Procurement{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":            models.ProcurementAwarded,
		"awarded_vendor_id": vendorID,
		"awarded_amount":    amount,
		"awarded_at":        awardedAt,
		"updated_at":        time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProcurementNotFound
	}
	return nil
}

func (r *ProcurementRepositoryImpl) GetStats() (*ProcurementStats, error) {
	stats := &ProcurementStats{
		ByStatus:   make(map[string]int64),
		ByCategory: make(map[string]int64),
	}

	if err := r.db.Model(&models.Procurement{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	type row struct {
		Key   string
		Count int64
	}
	var byStatus []row
	if err := r.db.Model(&models.Procurement{}).
		Select("status AS key, COUNT(*) AS count").Group("status").Find(&byStatus).Error; err != nil {
		return nil, err
	}
	for _, rw := range byStatus {
		stats.ByStatus[rw.Key] = rw.Count
	}

	var byCategory []row
	if err := r.db.Model(&models.Procurement{}).
		Select("category AS key, COUNT(*) AS count").Group("category").Find(&byCategory).Error; err != nil {
		return nil, err
	}
	for _, rw := range byCategory {
		stats.ByCategory[rw.Key] = rw.Count
	}

	var totals struct {
		TotalBudget  float64
		TotalAwarded float64
	}
	err := r.db.Model(&models.Procurement{}).
		Select("COALESCE(SUM(budget),0) AS total_budget, COALESCE(SUM(awarded_amount),0) AS total_awarded").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	stats.TotalBudget = totals.TotalBudget
	stats.TotalAwarded = totals.TotalAwarded

	return stats, nil
}

func (r *ProcurementRepositoryImpl) CountByDepartment() (map[string]int64, error) {
	type row struct {
		Key   string
		Count int64
	}
	var rows []row
	err := r.db.Model(&models.Procurement{}).
		Select("department AS key, COUNT(*) AS count").
		Where("department <> ''").
		Group("department").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make(map[string]int64, len(rows))
	for _, rw := range rows {
		result[rw.Key] = rw.Count
	}
	return result, nil
}

// MonthlyTrends считает закупки и бюджеты помесячно за последние N месяцев
func (r *ProcurementRepositoryImpl) MonthlyTrends(months int) ([]MonthlyTrend, error) {
	since := time.Now().AddDate(0, -months, 0)

	var procurements []models.Procurement
	if err := r.db.Where("created_at >= ?", since).Find(&procurements).Error; err != nil {
		return nil, err
	}

	// Группировка в приложении: единый код для postgres и mysql
	byMonth := make(map[string]*MonthlyTrend)
	for _, p := range procurements {
		key := p.CreatedAt.Format("2006-01")
		trend, ok := byMonth[key]
		if !ok {
			trend = &MonthlyTrend{Month: key}
			byMonth[key] = trend
		}
		trend.Count++
		trend.Budget += p.Budget
	}

	trends := make([]MonthlyTrend, 0, len(byMonth))
	cursor := time.Date(since.Year(), since.Month(), 1, 0, 0, 0, 0, time.UTC)
	now := time.Now()
	for !cursor.After(now) {
		key := cursor.Format("2006-01")
		if trend, ok := byMonth[key]; ok {
			trends = append(trends, *trend)
		} else {
			trends = append(trends, MonthlyTrend{Month: key})
		}
		cursor = cursor.AddDate(0, 1, 0)
	}
	return trends, nil
}
