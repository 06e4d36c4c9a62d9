package services

import (
	"context"
	"errors"
	"time"

	"procurechain_backend/internal/models"
	"procurechain_backend/internal/repositories"
	"procurechain_backend/internal/services/dto"
	"procurechain_backend/pkg/apperrors"
)

const defaultCurrency = "KES"

type ProcurementService interface {
	PublicList(ctx context.Context, criteria repositories.ProcurementFilter) (*dto.PaginatedResponse, error)
	PublicGet(ctx context.Context, id string) (*models.PublicProcurement, error)
	List(ctx context.Context, criteria repositories.ProcurementFilter) (*dto.PaginatedResponse, error)
	Get(ctx context.Context, id string) (*models.Procurement, error)
	Create(ctx context.Context, actorID string, req *dto.CreateProcurementRequest) (*models.Procurement, error)
	Update(ctx context.Context, actorID string, actorRole models.UserRole, id string, req *dto.UpdateProcurementRequest) (*models.Procurement, error)
	UpdateStatus(ctx context.Context, actorID string, id string, next models.ProcurementStatus) (*models.Procurement, error)
	Delete(ctx context.Context, actorID string, actorRole models.UserRole, id string) error
	Statistics(ctx context.Context) (*repositories.ProcurementStats, error)
}

type ProcurementServiceImpl struct {
	procurementRepo repositories.ProcurementRepository
	bidRepo         repositories.BidRepository
	auditService    AuditService
}

func NewProcurementService(
	procurementRepo repositories.ProcurementRepository,
	bidRepo repositories.BidRepository,
	auditService AuditService,
) ProcurementService {
	return &ProcurementServiceImpl{
		procurementRepo: procurementRepo,
		bidRepo:         bidRepo,
		auditService:    auditService,
	}
}

func (s *ProcurementServiceImpl) PublicList(ctx context.Context, criteria repositories.ProcurementFilter) (*dto.PaginatedResponse, error) {
	criteria.PublicOnly = true
	procurements, total, err := s.procurementRepo.FindWithFilter(criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	public := make([]*models.PublicProcurement, 0, len(procurements))
	for i := range procurements {
		public = append(public, procurements[i].PublicView())
	}
	return dto.NewPaginatedResponse(public, criteria.Page, criteria.PageSize, total), nil
}

func (s *ProcurementServiceImpl) PublicGet(ctx context.Context, id string) (*models.PublicProcurement, error) {
	procurement, err := s.findProcurement(id)
	if err != nil {
		return nil, err
	}
	if !procurement.IsPubliclyVisible() {
		return nil, apperrors.ErrNotFound(repositories.ErrProcurementNotFound)
	}
	return procurement.PublicView(), nil
}

func (s *ProcurementServiceImpl) List(ctx context.Context, criteria repositories.ProcurementFilter) (*dto.PaginatedResponse, error) {
	procurements, total, err := s.procurementRepo.FindWithFilter(criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewPaginatedResponse(procurements, criteria.Page, criteria.PageSize, total), nil
}

func (s *ProcurementServiceImpl) Get(ctx context.Context, id string) (*models.Procurement, error) {
	return s.findProcurement(id)
}

func (s *ProcurementServiceImpl) findProcurement(id string) (*models.Procurement, error) {
	procurement, err := s.procurementRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrProcurementNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return procurement, nil
}

func (s *ProcurementServiceImpl) Create(ctx context.Context, actorID string, req *dto.CreateProcurementRequest) (*models.Procurement, error) {
	if req.SubmissionDeadline.Before(time.Now()) {
		return nil, apperrors.NewBadRequestError("Submission deadline must be in the future")
	}

	currency := req.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	procurement := &models.Procurement{
		Title:              req.Title,
		Description:        req.Description,
		Category:           models.ProcurementCategory(req.Category),
		Department:         req.Department,
		Budget:             req.Budget,
		Currency:           currency,
		SubmissionDeadline: &req.SubmissionDeadline,
		Status:             models.ProcurementDraft,
		CreatedBy:          actorID,
	}

	if err := s.procurementRepo.Create(procurement); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.auditService.Record(ctx, AuditEntry{
		EventType:    models.AuditDataChange,
		Action:       "procurement.created",
		UserID:       actorID,
		ResourceType: "procurement",
		ResourceID:   procurement.ID,
		ResourceName: procurement.Title,
	})
	return procurement, nil
}

// Update разрешен создателю или админу и только пока закупка
// в draft/published: после открытия торгов менять условия нельзя.
func (s *ProcurementServiceImpl) Update(ctx context.Context, actorID string, actorRole models.UserRole, id string, req *dto.UpdateProcurementRequest) (*models.Procurement, error) {
	procurement, err := s.findProcurement(id)
	if err != nil {
		return nil, err
	}

	if procurement.CreatedBy != actorID && actorRole != models.UserRoleAdmin {
		return nil, apperrors.ErrInsufficientPermissions
	}
	if procurement.Status != models.ProcurementDraft && procurement.Status != models.ProcurementPublished {
		return nil, apperrors.ErrInvalidStatus("procurements",
			"Procurement can only be edited while in draft or published status")
	}

	if req.Title != "" {
		procurement.Title = req.Title
	}
	if req.Description != "" {
		procurement.Description = req.Description
	}
	if req.Category != "" {
		procurement.Category = models.ProcurementCategory(req.Category)
	}
	if req.Department != "" {
		procurement.Department = req.Department
	}
	if req.Budget > 0 {
		procurement.Budget = req.Budget
	}
	if req.Currency != "" {
		procurement.Currency = req.Currency
	}
	if req.SubmissionDeadline != nil {
		if req.SubmissionDeadline.Before(time.Now()) {
			return nil, apperrors.NewBadRequestError("Submission deadline must be in the future")
		}
		procurement.SubmissionDeadline = req.SubmissionDeadline
	}

	if err := s.procurementRepo.Update(procurement); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.auditService.Record(ctx, AuditEntry{
		EventType:    models.AuditDataChange,
		Action:       "procurement.updated",
		UserID:       actorID,
		ResourceType: "procurement",
		ResourceID:   procurement.ID,
		ResourceName: procurement.Title,
	})
	return procurement, nil
}

func (s *ProcurementServiceImpl) UpdateStatus(ctx context.Context, actorID string, id string, next models.ProcurementStatus) (*models.Procurement, error) {
	procurement, err := s.findProcurement(id)
	if err != nil {
		return nil, err
	}

	// Награждение идет только через AwardBid, не через смену статуса
	if next == models.ProcurementAwarded {
		return nil, apperrors.ErrInvalidOperation("procurements",
			"Awarding is done through the bid award operation")
	}
	if !procurement.Status.CanTransitionTo(next) {
		return nil, apperrors.ErrInvalidStatus("procurements",
			"Transition from "+string(procurement.Status)+" to "+string(next)+" is not allowed")
	}

	previous := procurement.Status
	if err := s.procurementRepo.UpdateStatus(id, next); err != nil {
		return nil, apperrors.InternalError(err)
	}
	procurement.Status = next

	s.auditService.Record(ctx, AuditEntry{
		EventType:    models.AuditDataChange,
		Action:       "procurement.status_changed",
		UserID:       actorID,
		ResourceType: "procurement",
		ResourceID:   procurement.ID,
		ResourceName: procurement.Title,
		Changes:      map[string]string{"from": string(previous), "to": string(next)},
	})
	return procurement, nil
}

// Delete разрешен только для draft/cancelled и только без заявок
func (s *ProcurementServiceImpl) Delete(ctx context.Context, actorID string, actorRole models.UserRole, id string) error {
	procurement, err := s.findProcurement(id)
	if err != nil {
		return err
	}

	if procurement.CreatedBy != actorID && actorRole != models.UserRoleAdmin {
		return apperrors.ErrInsufficientPermissions
	}
	if procurement.Status != models.ProcurementDraft && procurement.Status != models.ProcurementCancelled {
		return apperrors.ErrInvalidStatus("procurements",
			"Only draft or cancelled procurements can be deleted")
	}
	if procurement.BidsCount > 0 {
		return apperrors.ErrConflict(nil, "procurements", "Procurement has bids and cannot be deleted")
	}

	if err := s.procurementRepo.Delete(id); err != nil {
		return apperrors.InternalError(err)
	}

	s.auditService.Record(ctx, AuditEntry{
		EventType:    models.AuditDataChange,
		Action:       "procurement.deleted",
		Severity:     models.AuditWarning,
		UserID:       actorID,
		ResourceType: "procurement",
		ResourceID:   id,
		ResourceName: procurement.Title,
	})
	return nil
}

func (s *ProcurementServiceImpl) Statistics(ctx context.Context) (*repositories.ProcurementStats, error) {
	stats, err := s.procurementRepo.GetStats()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return stats, nil
}
