package repositories

import (
	"procurechain_backend/internal/models"

	"gorm.io/gorm"
)

type VendorPerformanceRow struct {
	VendorID         string  `json:"vendor_id"`
	CompanyName      string  `json:"company_name"`
	TotalAwards      int     `json:"total_awards"`
	TotalAwardAmount float64 `json:"total_award_amount"`
	TotalBids        int64   `json:"total_bids"`
	WinRate          float64 `json:"win_rate"`
}

type CategoryBreakdownRow struct {
	Category string  `json:"category"`
	Count    int64   `json:"count"`
	Budget   float64 `json:"budget"`
}

// AnalyticsRepository держит кросс-агрегатные запросы, которые не
// принадлежат ни одному отдельному репозиторию.
type AnalyticsRepository interface {
	VendorPerformance(limit int) ([]VendorPerformanceRow, error)
	CategoryBreakdown() ([]CategoryBreakdownRow, error)
	BudgetByDepartment() (map[string]float64, error)
}

type AnalyticsRepositoryImpl struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &AnalyticsRepositoryImpl{db: db}
}

// VendorPerformance возвращает лучших поставщиков по сумме контрактов
// с долей выигранных заявок.
func (r *AnalyticsRepositoryImpl) VendorPerformance(limit int) ([]VendorPerformanceRow, error) {
	var vendors []models.Vendor
	err := r.db.Where("status = ?", models.VendorStatusActive).
		Order("total_award_amount DESC").
		Limit(limit).
		Find(&vendors).Error
	if err != nil {
		return nil, err
	}

	rows := make([]VendorPerformanceRow, 0, len(vendors))
	for _, vendor := range vendors {
		var totalBids int64
		if err := r.db.Model(&models.Bid{}).
			Where("vendor_id = ?", vendor.ID).
			Count(&totalBids).Error; err != nil {
			return nil, err
		}

		winRate := 0.0
		if totalBids > 0 {
			winRate = float64(vendor.TotalAwards) / float64(totalBids) * 100
		}

		rows = append(rows, VendorPerformanceRow{
			VendorID:         vendor.ID,
			CompanyName:      vendor.CompanyName,
			TotalAwards:      vendor.TotalAwards,
			TotalAwardAmount: vendor.TotalAwardAmount,
			TotalBids:        totalBids,
			WinRate:          winRate,
		})
	}
	return rows, nil
}

func (r *AnalyticsRepositoryImpl) CategoryBreakdown() ([]CategoryBreakdownRow, error) {
	var rows []CategoryBreakdownRow
	err := r.db.Model(&models.Procurement{}).
		Select("category, COUNT(*) AS count, COALESCE(SUM(budget),0) AS budget").
		Group("category").
		Order("count DESC").
		Find(&rows).Error
	return rows, err
}

func (r *AnalyticsRepositoryImpl) BudgetByDepartment() (map[string]float64, error) {
	type row struct {
		Key    string
		Budget float64
	}
	var rows []row
	err := r.db.Model(&models.Procurement{}).
		Select("department AS key, COALESCE(SUM(budget),0) AS budget").
		Where("department <> ''").
		Group("department").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make(map[string]float64, len(rows))
	for _, rw := range rows {
		result[rw.Key] = rw.Budget
	}
	return result, nil
}
