package services

import (
	"context"
	"encoding/json"
	"time"

	"procurechain_backend/internal/logger"
	"procurechain_backend/internal/models"
	"procurechain_backend/internal/repositories"
	"procurechain_backend/internal/services/dto"
	"procurechain_backend/pkg/apperrors"

	"gorm.io/datatypes"
)

// AuditEntry - событие для записи в журнал
type AuditEntry struct {
	EventType    models.AuditEventType
	Action       string
	Severity     models.AuditSeverity
	UserID       string
	UserEmail    string
	ResourceType string
	ResourceID   string
	ResourceName string
	Changes      interface{}
	Metadata     map[string]interface{}
}

type AuditService interface {
	// Record никогда не возвращает ошибку: сбой журнала не должен
	// ронять бизнес-операцию
	Record(ctx context.Context, entry AuditEntry)
	List(ctx context.Context, criteria repositories.AuditFilter) (*dto.PaginatedResponse, error)
	ResourceTrail(ctx context.Context, resourceType, resourceID string) ([]models.AuditLog, error)
	Statistics(ctx context.Context) (*repositories.AuditStats, error)
}

type AuditServiceImpl struct {
	auditRepo repositories.AuditRepository
}

func NewAuditService(auditRepo repositories.AuditRepository) AuditService {
	return &AuditServiceImpl{auditRepo: auditRepo}
}

func (s *AuditServiceImpl) Record(ctx context.Context, entry AuditEntry) {
	log := &models.AuditLog{
		EventType:    entry.EventType,
		Action:       entry.Action,
		Severity:     entry.Severity,
		UserID:       entry.UserID,
		UserEmail:    entry.UserEmail,
		ResourceType: entry.ResourceType,
		ResourceID:   entry.ResourceID,
		ResourceName: entry.ResourceName,
		CreatedAt:    time.Now(),
	}
	if log.Severity == "" {
		log.Severity = models.AuditInfo
	}

	if entry.Changes != nil {
		if data, err := json.Marshal(entry.Changes); err == nil {
			log.Changes = datatypes.JSON(data)
		}
	}
	if entry.Metadata != nil {
		if data, err := json.Marshal(entry.Metadata); err == nil {
			log.Metadata = datatypes.JSON(data)
		}
	}

	if err := s.auditRepo.Create(log); err != nil {
		logger.CtxError(ctx, "audit log write failed",
			"action", entry.Action, "resource", entry.ResourceType, "error", err)
	}
}

func (s *AuditServiceImpl) List(ctx context.Context, criteria repositories.AuditFilter) (*dto.PaginatedResponse, error) {
	logs, total, err := s.auditRepo.FindWithFilter(criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewPaginatedResponse(logs, criteria.Page, criteria.PageSize, total), nil
}

func (s *AuditServiceImpl) ResourceTrail(ctx context.Context, resourceType, resourceID string) ([]models.AuditLog, error) {
	logs, err := s.auditRepo.FindByResource(resourceType, resourceID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return logs, nil
}

func (s *AuditServiceImpl) Statistics(ctx context.Context) (*repositories.AuditStats, error) {
	stats, err := s.auditRepo.GetStats()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return stats, nil
}
