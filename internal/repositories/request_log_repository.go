package repositories

import (
	"time"

	"procurechain_backend/internal/models"

	"gorm.io/gorm"
)

// RequestLogRepository хранит записи запросов для скользящего окна
// ограничителя частоты.
type RequestLogRepository interface {
	Record(identifier, endpoint string) error
	CountInWindow(identifier string, since time.Time) (int64, error)
	OldestInWindow(identifier string, since time.Time) (*time.Time, error)
	CleanOlderThan(cutoff time.Time) (int64, error)
}

type RequestLogRepositoryImpl struct {
	db *gorm.DB
}

func NewRequestLogRepository(db *gorm.DB) RequestLogRepository {
	return &RequestLogRepositoryImpl{db: db}
}

func (r *RequestLogRepositoryImpl) Record(identifier, endpoint string) error {
	return r.db.Create(&models.RequestLog{
		Identifier: identifier,
		Endpoint:   endpoint,
		CreatedAt:  time.Now(),
	}).Error
}

func (r *RequestLogRepositoryImpl) CountInWindow(identifier string, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.RequestLog{}).
		Where("identifier = ? AND created_at >= ?", identifier, since).
		Count(&count).Error
	return count, err
}

// OldestInWindow нужен для вычисления Retry-After при отказе
func (r *RequestLogRepositoryImpl) OldestInWindow(identifier string, since time.Time) (*time.Time, error) {
	var log models.RequestLog
	err := r.db.Where("identifier = ? AND created_at >= ?", identifier, since).
		Order("created_at ASC").
		First(&log).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &log.CreatedAt, nil
}

func (r *RequestLogRepositoryImpl) CleanOlderThan(cutoff time.Time) (int64, error) {
	result := r.db.Where("created_at < ?", cutoff).Delete(&models.RequestLog{})
	return result.RowsAffected, result.Error
}
