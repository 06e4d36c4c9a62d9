package services

import (
	"context"
	"errors"

	"procurechain_backend/internal/models"
	"procurechain_backend/internal/repositories"
	"procurechain_backend/internal/services/dto"
	"procurechain_backend/pkg/apperrors"
)

type UserService interface {
	List(ctx context.Context, criteria repositories.UserFilter) (*dto.PaginatedResponse, error)
	Get(ctx context.Context, userID string) (*models.SafeUser, error)
	UpdateRole(ctx context.Context, actorID, userID string, role models.UserRole) error
	UpdateStatus(ctx context.Context, actorID, userID string, status models.UserStatus) error
	Delete(ctx context.Context, actorID, userID string) error
	Statistics(ctx context.Context) (*dto.UserStatsResponse, error)
}

type UserServiceImpl struct {
	userRepo     repositories.UserRepository
	auditService AuditService
}

func NewUserService(userRepo repositories.UserRepository, auditService AuditService) UserService {
	return &UserServiceImpl{
		userRepo:     userRepo,
		auditService: auditService,
	}
}

func (s *UserServiceImpl) List(ctx context.Context, criteria repositories.UserFilter) (*dto.PaginatedResponse, error) {
	users, total, err := s.userRepo.FindWithFilter(criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	safe := make([]*models.SafeUser, 0, len(users))
	for i := range users {
		safe = append(safe, users[i].SafeView())
	}
	return dto.NewPaginatedResponse(safe, criteria.Page, criteria.PageSize, total), nil
}

func (s *UserServiceImpl) Get(ctx context.Context, userID string) (*models.SafeUser, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return user.SafeView(), nil
}

func (s *UserServiceImpl) UpdateRole(ctx context.Context, actorID, userID string, role models.UserRole) error {
	if actorID == userID {
		return apperrors.ErrCannotModifySelf
	}
	if !role.Valid() {
		return apperrors.ErrInvalidUserRole
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}

	oldRole := user.Role
	if err := s.userRepo.UpdateRole(userID, role); err != nil {
		return apperrors.InternalError(err)
	}

	s.auditService.Record(ctx, AuditEntry{
		EventType:    models.AuditSecurity,
		Action:       "user.role_changed",
		Severity:     models.AuditWarning,
		UserID:       actorID,
		ResourceType: "user",
		ResourceID:   userID,
		ResourceName: user.Email,
		Changes:      map[string]string{"from": string(oldRole), "to": string(role)},
	})
	return nil
}

func (s *UserServiceImpl) UpdateStatus(ctx context.Context, actorID, userID string, status models.UserStatus) error {
	if actorID == userID {
		return apperrors.ErrCannotModifySelf
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}

	oldStatus := user.Status
	if err := s.userRepo.UpdateStatus(userID, status); err != nil {
		return apperrors.InternalError(err)
	}

	// Блокировка гасит все refresh-сессии
	if status != models.UserStatusActive {
		if err := s.userRepo.RevokeUserRefreshTokens(userID); err != nil {
			return apperrors.InternalError(err)
		}
	}

	s.auditService.Record(ctx, AuditEntry{
		EventType:    models.AuditSecurity,
		Action:       "user.status_changed",
		Severity:     models.AuditWarning,
		UserID:       actorID,
		ResourceType: "user",
		ResourceID:   userID,
		ResourceName: user.Email,
		Changes:      map[string]string{"from": string(oldStatus), "to": string(status)},
	})
	return nil
}

func (s *UserServiceImpl) Delete(ctx context.Context, actorID, userID string) error {
	if actorID == userID {
		return apperrors.ErrCannotModifySelf
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}

	if err := s.userRepo.Delete(userID); err != nil {
		return apperrors.InternalError(err)
	}

	s.auditService.Record(ctx, AuditEntry{
		EventType:    models.AuditDataChange,
		Action:       "user.deleted",
		Severity:     models.AuditCritical,
		UserID:       actorID,
		ResourceType: "user",
		ResourceID:   userID,
		ResourceName: user.Email,
	})
	return nil
}

func (s *UserServiceImpl) Statistics(ctx context.Context) (*dto.UserStatsResponse, error) {
	byRole, err := s.userRepo.CountByRole()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	byStatus, err := s.userRepo.CountByStatus()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	var total int64
	for _, count := range byRole {
		total += count
	}

	return &dto.UserStatsResponse{
		Total:    total,
		ByRole:   byRole,
		ByStatus: byStatus,
	}, nil
}
