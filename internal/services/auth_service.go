package services

import (
	"context"
	"errors"
	"time"

	"procurechain_backend/internal/auth"
	"procurechain_backend/internal/config"
	"procurechain_backend/internal/logger"
	"procurechain_backend/internal/models"
	"procurechain_backend/internal/repositories"
	"procurechain_backend/internal/services/dto"
	"procurechain_backend/pkg/apperrors"
)

type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.AuthResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	Me(ctx context.Context, userID string) (*models.SafeUser, error)
	UpdateMe(ctx context.Context, userID string, req *dto.UpdateMeRequest) (*models.SafeUser, error)
}

type AuthServiceImpl struct {
	userRepo      repositories.UserRepository
	profileRepo   repositories.ProfileRepository
	auditService  AuditService
	notifications NotificationService
}

func NewAuthService(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	auditService AuditService,
	notifications NotificationService,
) AuthService {
	return &AuthServiceImpl{
		userRepo:      userRepo,
		profileRepo:   profileRepo,
		auditService:  auditService,
		notifications: notifications,
	}
}

// Register создает пользователя. Роль по умолчанию citizen; learner и
// employer выбираются при регистрации, остальные роли выдает только
// админ через user management.
func (s *AuthServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	role := models.UserRoleCitizen
	if req.Role != "" {
		requested := models.UserRole(req.Role)
		switch requested {
		case models.UserRoleCitizen, models.UserRoleLearner, models.UserRoleEmployer, models.UserRoleVendor:
			role = requested
		default:
			return nil, apperrors.ErrInvalidUserRole
		}
	}

	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.NewBadRequestError(err.Error())
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		FullName:     req.FullName,
		Role:         role,
		Status:       models.UserStatusActive,
	}

	// Уникальность email закрывает индекс хранилища, не пре-чек
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}

	if err := s.createRoleProfile(user); err != nil {
		logger.CtxError(ctx, "profile creation failed after register", "user_id", user.ID, "error", err)
	}

	response, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	s.auditService.Record(ctx, AuditEntry{
		EventType:    models.AuditAuthentication,
		Action:       "user.register",
		UserID:       user.ID,
		UserEmail:    user.Email,
		ResourceType: "user",
		ResourceID:   user.ID,
	})
	s.notifications.SendWelcome(ctx, user.Email, user.FullName)

	return response, nil
}

func (s *AuthServiceImpl) createRoleProfile(user *models.User) error {
	switch user.Role {
	case models.UserRoleLearner:
		return s.profileRepo.CreateLearnerProfile(&models.LearnerProfile{
			UserID:          user.ID,
			ExperienceLevel: models.ExperienceBeginner,
		})
	case models.UserRoleEmployer:
		return s.profileRepo.CreateEmployerProfile(&models.EmployerProfile{
			UserID: user.ID,
		})
	}
	return nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			s.recordLoginFailure(ctx, req.Email, "unknown email")
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.recordLoginFailure(ctx, req.Email, "wrong password")
		return nil, apperrors.ErrInvalidCredentials
	}

	switch user.Status {
	case models.UserStatusSuspended:
		return nil, apperrors.ErrUserSuspended
	case models.UserStatusInactive:
		return nil, apperrors.ErrUserInactive
	}

	if err := s.userRepo.UpdateLastLogin(user.ID); err != nil {
		logger.CtxWarn(ctx, "last login update failed", "user_id", user.ID, "error", err)
	}

	response, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	s.auditService.Record(ctx, AuditEntry{
		EventType:    models.AuditAuthentication,
		Action:       "user.login",
		UserID:       user.ID,
		UserEmail:    user.Email,
		ResourceType: "user",
		ResourceID:   user.ID,
	})

	return response, nil
}

func (s *AuthServiceImpl) recordLoginFailure(ctx context.Context, email, reason string) {
	s.auditService.Record(ctx, AuditEntry{
		EventType: models.AuditSecurity,
		Action:    "user.login_failed",
		Severity:  models.AuditWarning,
		UserEmail: email,
		Changes:   map[string]string{"reason": reason},
	})
}

// Refresh проверяет refresh-токен криптографически и по хранилищу,
// затем ротирует его: старый отзывается, выдается новая пара.
func (s *AuthServiceImpl) Refresh(ctx context.Context, refreshToken string) (*dto.AuthResponse, error) {
	claims, err := auth.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	stored, err := s.userRepo.FindRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}
	if stored.Revoked || time.Now().After(stored.ExpiresAt) {
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}
	if user.Status != models.UserStatusActive {
		return nil, apperrors.ErrInvalidToken
	}

	if err := s.userRepo.RevokeRefreshToken(refreshToken); err != nil {
		logger.CtxWarn(ctx, "refresh token revoke failed", "user_id", user.ID, "error", err)
	}

	response, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	s.auditService.Record(ctx, AuditEntry{
		EventType: models.AuditAuthentication,
		Action:    "user.refresh",
		UserID:    user.ID,
		UserEmail: user.Email,
	})

	return response, nil
}

func (s *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	claims, err := auth.ParseRefreshToken(refreshToken)
	if err != nil {
		return apperrors.ErrInvalidToken
	}

	if err := s.userRepo.RevokeRefreshToken(refreshToken); err != nil &&
		!errors.Is(err, repositories.ErrTokenNotFound) {
		return apperrors.InternalError(err)
	}

	s.auditService.Record(ctx, AuditEntry{
		EventType: models.AuditAuthentication,
		Action:    "user.logout",
		UserID:    claims.UserID,
	})
	return nil
}

func (s *AuthServiceImpl) Me(ctx context.Context, userID string) (*models.SafeUser, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return user.SafeView(), nil
}

func (s *AuthServiceImpl) UpdateMe(ctx context.Context, userID string, req *dto.UpdateMeRequest) (*models.SafeUser, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.Department != "" {
		user.Department = req.Department
	}
	if err := s.userRepo.Update(user); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return user.SafeView(), nil
}

func (s *AuthServiceImpl) issueTokens(user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := auth.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	refreshToken, err := auth.GenerateRefreshToken(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	cfg := config.GetConfig()
	err = s.userRepo.CreateRefreshToken(&models.RefreshToken{
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: time.Now().Add(time.Duration(cfg.JWT.RefreshTTL) * time.Second),
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    cfg.JWT.AccessTTL,
		User:         *user.SafeView(),
	}, nil
}
