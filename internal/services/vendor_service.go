package services

import (
	"context"
	"errors"

	"procurechain_backend/internal/models"
	"procurechain_backend/internal/repositories"
	"procurechain_backend/internal/services/dto"
	"procurechain_backend/pkg/apperrors"
)

type VendorService interface {
	PublicList(ctx context.Context, criteria repositories.VendorFilter) (*dto.PaginatedResponse, error)
	List(ctx context.Context, criteria repositories.VendorFilter) (*dto.PaginatedResponse, error)
	Get(ctx context.Context, vendorID string) (*models.Vendor, error)
	Create(ctx context.Context, actorID string, actorRole models.UserRole, req *dto.CreateVendorRequest) (*models.Vendor, error)
	Update(ctx context.Context, actorID string, actorRole models.UserRole, vendorID string, req *dto.UpdateVendorRequest) (*models.Vendor, error)
	Delete(ctx context.Context, actorID, vendorID string) error
	Top(ctx context.Context, limit int) ([]models.PublicVendor, error)
}

type VendorServiceImpl struct {
	vendorRepo   repositories.VendorRepository
	bidRepo      repositories.BidRepository
	auditService AuditService
}

func NewVendorService(
	vendorRepo repositories.VendorRepository,
	bidRepo repositories.BidRepository,
	auditService AuditService,
) VendorService {
	return &VendorServiceImpl{
		vendorRepo:   vendorRepo,
		bidRepo:      bidRepo,
		auditService: auditService,
	}
}

// PublicList отдает только активных поставщиков в безопасном представлении
func (s *VendorServiceImpl) PublicList(ctx context.Context, criteria repositories.VendorFilter) (*dto.PaginatedResponse, error) {
	criteria.Status = models.VendorStatusActive
	vendors, total, err := s.vendorRepo.FindWithFilter(criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	public := make([]*models.PublicVendor, 0, len(vendors))
	for i := range vendors {
		public = append(public, vendors[i].PublicView())
	}
	return dto.NewPaginatedResponse(public, criteria.Page, criteria.PageSize, total), nil
}

func (s *VendorServiceImpl) List(ctx context.Context, criteria repositories.VendorFilter) (*dto.PaginatedResponse, error) {
	vendors, total, err := s.vendorRepo.FindWithFilter(criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewPaginatedResponse(vendors, criteria.Page, criteria.PageSize, total), nil
}

func (s *VendorServiceImpl) Get(ctx context.Context, vendorID string) (*models.Vendor, error) {
	vendor, err := s.vendorRepo.FindByID(vendorID)
	if err != nil {
		if errors.Is(err, repositories.ErrVendorNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return vendor, nil
}

// Create регистрирует запись поставщика. Одна запись на владеющего
// пользователя и уникальное имя компании - оба инварианта держат
// индексы хранилища.
func (s *VendorServiceImpl) Create(ctx context.Context, actorID string, actorRole models.UserRole, req *dto.CreateVendorRequest) (*models.Vendor, error) {
	if actorRole == models.UserRoleVendor {
		if _, err := s.vendorRepo.FindByUserID(actorID); err == nil {
			return nil, apperrors.ErrConflict(nil, "vendors", "Vendor record for this user already exists")
		}
	}

	vendor := &models.Vendor{
		UserID:             actorID,
		CompanyName:        req.CompanyName,
		RegistrationNumber: req.RegistrationNumber,
		Category:           req.Category,
		ContactEmail:       req.ContactEmail,
		ContactPhone:       req.ContactPhone,
		County:             req.County,
		Address:            req.Address,
		Status:             models.VendorStatusActive,
	}

	if err := s.vendorRepo.Create(vendor); err != nil {
		if errors.Is(err, repositories.ErrVendorAlreadyExists) {
			return nil, apperrors.ErrAlreadyExists(err)
		}
		return nil, apperrors.InternalError(err)
	}

	s.auditService.Record(ctx, AuditEntry{
		EventType:    models.AuditDataChange,
		Action:       "vendor.created",
		UserID:       actorID,
		ResourceType: "vendor",
		ResourceID:   vendor.ID,
		ResourceName: vendor.CompanyName,
	})
	return vendor, nil
}

func (s *VendorServiceImpl) Update(ctx context.Context, actorID string, actorRole models.UserRole, vendorID string, req *dto.UpdateVendorRequest) (*models.Vendor, error) {
	vendor, err := s.vendorRepo.FindByID(vendorID)
	if err != nil {
		if errors.Is(err, repositories.ErrVendorNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if vendor.UserID != actorID && actorRole != models.UserRoleAdmin {
		return nil, apperrors.ErrInsufficientPermissions
	}
	// Статус меняет только админ
	if req.Status != "" && actorRole != models.UserRoleAdmin {
		return nil, apperrors.ErrInsufficientPermissions
	}

	if req.CompanyName != "" {
		vendor.CompanyName = req.CompanyName
	}
	if req.RegistrationNumber != "" {
		vendor.RegistrationNumber = req.RegistrationNumber
	}
	if req.Category != "" {
		vendor.Category = req.Category
	}
	if req.ContactEmail != "" {
		vendor.ContactEmail = req.ContactEmail
	}
	if req.ContactPhone != "" {
		vendor.ContactPhone = req.ContactPhone
	}
	if req.County != "" {
		vendor.County = req.County
	}
	if req.Address != "" {
		vendor.Address = req.Address
	}
	if req.Status != "" {
		vendor.Status = models.VendorStatus(req.Status)
	}

	if err := s.vendorRepo.Update(vendor); err != nil {
		if errors.Is(err, repositories.ErrVendorAlreadyExists) {
			return nil, apperrors.ErrAlreadyExists(err)
		}
		return nil, apperrors.InternalError(err)
	}

	s.auditService.Record(ctx, AuditEntry{
		EventType:    models.AuditDataChange,
		Action:       "vendor.updated",
		UserID:       actorID,
		ResourceType: "vendor",
		ResourceID:   vendor.ID,
		ResourceName: vendor.CompanyName,
	})
	return vendor, nil
}

// Delete отказывает, пока у поставщика есть незавершенные заявки
func (s *VendorServiceImpl) Delete(ctx context.Context, actorID, vendorID string) error {
	vendor, err := s.vendorRepo.FindByID(vendorID)
	if err != nil {
		if errors.Is(err, repositories.ErrVendorNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}

	bids, _, err := s.bidRepo.FindWithFilter(repositories.BidFilter{
		VendorID: vendorID,
		Page:     1,
		PageSize: 100,
	})
	if err != nil {
		return apperrors.InternalError(err)
	}
	for _, bid := range bids {
		if bid.Status == models.BidSubmitted || bid.Status == models.BidUnderEvaluation || bid.Status == models.BidQualified {
			return apperrors.ErrConflict(nil, "vendors", "Vendor has active bids and cannot be deleted")
		}
	}

	if err := s.vendorRepo.Delete(vendorID); err != nil {
		return apperrors.InternalError(err)
	}

	s.auditService.Record(ctx, AuditEntry{
		EventType:    models.AuditDataChange,
		Action:       "vendor.deleted",
		Severity:     models.AuditWarning,
		UserID:       actorID,
		ResourceType: "vendor",
		ResourceID:   vendorID,
		ResourceName: vendor.CompanyName,
	})
	return nil
}

func (s *VendorServiceImpl) Top(ctx context.Context, limit int) ([]models.PublicVendor, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	vendors, err := s.vendorRepo.FindTopByAwardAmount(limit)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	public := make([]models.PublicVendor, 0, len(vendors))
	for i := range vendors {
		public = append(public, *vendors[i].PublicView())
	}
	return public, nil
}
