package repositories

import (
	"errors"
	"time"

	"procurechain_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrVendorNotFound      = errors.New("vendor not found")
	ErrVendorAlreadyExists = errors.New("vendor already exists")
)

type VendorFilter struct {
	Status   models.VendorStatus
	Category string
	County   string
	Search   string
	Page     int
	PageSize int
}

type VendorRepository interface {
	Create(vendor *models.Vendor) error
	FindByID(id string) (*models.Vendor, error)
	FindByUserID(userID string) (*models.Vendor, error)
	Update(vendor *models.Vendor) error
	Delete(id string) error
	FindWithFilter(criteria VendorFilter) ([]models.Vendor, int64, error)
	FindTopByAwardAmount(limit int) ([]models.Vendor, error)
	RecordAward(vendorID string, amount float64) error
	Count() (int64, error)
}

type VendorRepositoryImpl struct {
	db *gorm.DB
}

func NewVendorRepository(db *gorm.DB) VendorRepository {
	return &VendorRepositoryImpl{db: db}
}

func (r *VendorRepositoryImpl) Create(vendor *models.Vendor) error {
	err := r.db.Create(vendor).Error
	if err != nil && isDuplicateKeyError(err) {
		return ErrVendorAlreadyExists
	}
	return err
}

func (r *VendorRepositoryImpl) FindByID(id string) (*models.Vendor, error) {
	var vendor models.Vendor
	err := r.db.First(&vendor, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVendorNotFound
		}
		return nil, err
	}
	return &vendor, nil
}

func (r *VendorRepositoryImpl) FindByUserID(userID string) (*models.Vendor, error) {
	var vendor models.Vendor
	err := r.db.Where("user_id = ?", userID).First(&vendor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVendorNotFound
		}
		return nil, err
	}
	return &vendor, nil
}

func (r *VendorRepositoryImpl) Update(vendor *models.Vendor) error {
	result := r.db.Model(vendor).Updates(map[string]interface{}{
		"company_name":        vendor.CompanyName,
		"registration_number": vendor.RegistrationNumber,
		"category":            vendor.Category,
		"contact_email":       vendor.ContactEmail,
		"contact_phone":       vendor.ContactPhone,
		"county":              vendor.County,
		"address":             vendor.Address,
		"status":              vendor.Status,
		"updated_at":          time.Now(),
	})
	if result.Error != nil {
		if isDuplicateKeyError(result.Error) {
			return ErrVendorAlreadyExists
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrVendorNotFound
	}
	return nil
}

func (r *VendorRepositoryImpl) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&models.Vendor{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrVendorNotFound
	}
	return nil
}

func (r *VendorRepositoryImpl) FindWithFilter(criteria VendorFilter) ([]models.Vendor, int64, error) {
	var vendors []models.Vendor
	query := r.db.Model(&models.Vendor{})

	if criteria.Status != "" {
		query = query.Where("status = ?", criteria.Status)
	}
	if criteria.Category != "" {
		query = query.Where("category = ?", criteria.Category)
	}
	if criteria.County != "" {
		query = query.Where("county = ?", criteria.County)
	}
	if criteria.Search != "" {
		query = query.Where("company_name LIKE ?", "%"+criteria.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := criteria.PageSize
	offset := (criteria.Page - 1) * criteria.PageSize
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&vendors).Error

	return vendors, total, err
}

func (r *VendorRepositoryImpl) FindTopByAwardAmount(limit int) ([]models.Vendor, error) {
	var vendors []models.Vendor
	err := r.db.Where("status = ?", models.VendorStatusActive).
		Order("total_award_amount DESC").
		Limit(limit).
		Find(&vendors).Error
	return vendors, err
}

// RecordAward атомарно наращивает агрегаты результативности поставщика
func (r *VendorRepositoryImpl) RecordAward(vendorID string, amount float64) error {
	result := r.db.Model(&models.Vendor{}).Where("id = ?", vendorID).Updates(map[string]interface{}{
		"total_awards":       gorm.Expr("total_awards + 1"),
		"total_award_amount": gorm.Expr("total_award_amount + ?", amount),
		"updated_at":         time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrVendorNotFound
	}
	return nil
}

func (r *VendorRepositoryImpl) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Vendor{}).Count(&count).Error
	return count, err
}
