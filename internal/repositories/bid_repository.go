package repositories

import (
	"errors"
	"time"

	"procurechain_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrBidNotFound        = errors.New("bid not found")
	ErrBidAlreadyExists   = errors.New("bid already submitted for this procurement")
	ErrEvaluationExists   = errors.New("evaluation already submitted by this evaluator")
	ErrEvaluationNotFound = errors.New("evaluation not found")
)

type BidFilter struct {
	ProcurementID string
	VendorID      string
	Status        models.BidStatus
	Page          int
	PageSize      int
}

type BidStats struct {
	Total         int64            `json:"total"`
	ByStatus      map[string]int64 `json:"by_status"`
	AverageAmount float64          `json:"average_amount"`
}

type BidRepository interface {
	Create(bid *models.Bid) error
	FindByID(id string) (*models.Bid, error)
	FindByIDWithEvaluations(id string) (*models.Bid, error)
	FindByProcurement(procurementID string) ([]models.Bid, error)
	FindByVendor(vendorID string, page, pageSize int) ([]models.Bid, int64, error)
	FindWithFilter(criteria BidFilter) ([]models.Bid, int64, error)
	Update(bid *models.Bid) error
	UpdateStatus(id string, status models.BidStatus) error
	SetAward(id string, amount float64, notes string, awardedAt time.Time) error
	SetDisqualification(id, reason, disqualifiedBy string) error
	UpdateScoreAndRank(id string, totalScore float64, rank int) error
	CascadeReject(procurementID, exceptBidID string) (int64, error)

	CreateEvaluation(evaluation *models.Evaluation) error
	FindEvaluationsByBid(bidID string) ([]models.Evaluation, error)
	CountEvaluations(bidID string) (int64, error)

	GetStats() (*BidStats, error)
}

type BidRepositoryImpl struct {
	db *gorm.DB
}

func NewBidRepository(db *gorm.DB) BidRepository {
	return &BidRepositoryImpl{db: db}
}

func (r *BidRepositoryImpl) Create(bid *models.Bid) error {
	err := r.db.Create(bid).Error
	if err != nil && isDuplicateKeyError(err) {
		return ErrBidAlreadyExists
	}
	return err
}

func (r *BidRepositoryImpl) FindByID(id string) (*models.Bid, error) {
	var bid models.Bid
	err := r.db.First(&bid, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBidNotFound
		}
		return nil, err
	}
	return &bid, nil
}

func (r *BidRepositoryImpl) FindByIDWithEvaluations(id string) (*models.Bid, error) {
	var bid models.Bid
	err := r.db.Preload("Evaluations").First(&bid, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBidNotFound
		}
		return nil, err
	}
	return &bid, nil
}

func (r *BidRepositoryImpl) FindByProcurement(procurementID string) ([]models.Bid, error) {
	var bids []models.Bid
	err := r.db.Preload("Evaluations").
		Where("procurement_id = ?", procurementID).
		Order("submitted_at ASC, id ASC").
		Find(&bids).Error
	return bids, err
}

func (r *BidRepositoryImpl) FindByVendor(vendorID string, page, pageSize int) ([]models.Bid, int64, error) {
	var bids []models.Bid
	query := r.db.Model(&models.Bid{}).Where("vendor_id = ?", vendorID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&bids).Error
	return bids, total, err
}

func (r *BidRepositoryImpl) FindWithFilter(criteria BidFilter) ([]models.Bid, int64, error) {
	var bids []models.Bid
	query := r.db.Model(&models.Bid{})

	if criteria.ProcurementID != "" {
		query = query.Where("procurement_id = ?", criteria.ProcurementID)
	}
	if criteria.VendorID != "" {
		query = query.Where("vendor_id = ?", criteria.VendorID)
	}
	if criteria.Status != "" {
		query = query.Where("status = ?", criteria.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Limit(criteria.PageSize).Offset((criteria.Page - 1) * criteria.PageSize).
		Find(&bids).Error
	return bids, total, err
}

func (r *BidRepositoryImpl) Update(bid *models.Bid) error {
	return r.db.Save(bid).Error
}

func (r *BidRepositoryImpl) UpdateStatus(id string, status models.BidStatus) error {
	result := r.db.Model(&models.Bid{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBidNotFound
	}
	return nil
}

func (r *BidRepositoryImpl) SetAward(id string, amount float64, notes string, awardedAt time.Time) error {
	result := r.db.Model(&models.Bid{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":         models.BidAwarded,
		"awarded_amount": amount,
		"award_notes":    notes,
		"awarded_at":     awardedAt,
		"updated_at":     time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBidNotFound
	}
	return nil
}

func (r *BidRepositoryImpl) SetDisqualification(id, reason, disqualifiedBy string) error {
	result := r.db.Model(&models.Bid{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":                  models.BidDisqualified,
		"disqualification_reason": reason,
		"disqualified_by":         disqualifiedBy,
		"updated_at":              time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBidNotFound
	}
	return nil
}

func (r *BidRepositoryImpl) UpdateScoreAndRank(id string, totalScore float64, rank int) error {
	result := r.db.Model(&models.Bid{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":      models.BidQualified,
		"total_score": totalScore,
		"rank":        rank,
		"updated_at":  time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBidNotFound
	}
	return nil
}

// CascadeReject переводит все прочие заявки закупки из незавершенных
// статусов в rejected. Возвращает число затронутых строк.
func (r *BidRepositoryImpl) CascadeReject(procurementID, exceptBidID string) (int64, error) {
	result := r.db.Model(&models.Bid{}).
		Where("procurement_id = ? AND id <> ?", procurementID, exceptBidID).
		Where("status IN ?", []models.BidStatus{models.BidSubmitted, models.BidUnderEvaluation, models.BidQualified}).
		Updates(map[string]interface{}{
			"status":     models.BidRejected,
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

func (r *BidRepositoryImpl) CreateEvaluation(evaluation *models.Evaluation) error {
	err := r.db.Create(evaluation).Error
	if err != nil && isDuplicateKeyError(err) {
		return ErrEvaluationExists
	}
	return err
}

func (r *BidRepositoryImpl) FindEvaluationsByBid(bidID string) ([]models.Evaluation, error) {
	var evaluations []models.Evaluation
	err := r.db.Where("bid_id = ?", bidID).Order("created_at ASC").Find(&evaluations).Error
	return evaluations, err
}

func (r *BidRepositoryImpl) CountEvaluations(bidID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Evaluation{}).Where("bid_id = ?", bidID).Count(&count).Error
	return count, err
}

func (r *BidRepositoryImpl) GetStats() (*BidStats, error) {
	stats := &BidStats{ByStatus: make(map[string]int64)}

	if err := r.db.Model(&models.Bid{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	type row struct {
		Key   string
		Count int64
	}
	var rows []row
	err := r.db.Model(&models.Bid{}).
		Select("status AS key, COUNT(*) AS count").Group("status").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, rw := range rows {
		stats.ByStatus[rw.Key] = rw.Count
	}

	var avg struct{ Avg float64 }
	err = r.db.Model(&models.Bid{}).Select("COALESCE(AVG(amount),0) AS avg").Scan(&avg).Error
	if err != nil {
		return nil, err
	}
	stats.AverageAmount = avg.Avg

	return stats, nil
}
