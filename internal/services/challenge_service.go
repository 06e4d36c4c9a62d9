package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"procurechain_backend/internal/models"
	"procurechain_backend/internal/repositories"
	"procurechain_backend/internal/services/dto"
	"procurechain_backend/pkg/apperrors"

	"gorm.io/datatypes"
)

type ChallengeService interface {
	List(ctx context.Context, skill, difficulty string, actorRole models.UserRole) ([]models.Challenge, error)
	Get(ctx context.Context, id string, actorRole models.UserRole) (*models.Challenge, error)
	Random(ctx context.Context, skill string) (*models.Challenge, error)
	Search(ctx context.Context, query string, actorRole models.UserRole) ([]models.Challenge, error)
	Stats(ctx context.Context) (*repositories.ChallengeStats, error)
	Create(ctx context.Context, actorID string, req *dto.CreateChallengeRequest) (*models.Challenge, error)
	Update(ctx context.Context, actorID, id string, req *dto.UpdateChallengeRequest) (*models.Challenge, error)
	Delete(ctx context.Context, actorID, id string) (deleted bool, err error)
}

type ChallengeServiceImpl struct {
	challengeRepo  repositories.ChallengeRepository
	assessmentRepo repositories.AssessmentRepository
	auditService   AuditService
}

func NewChallengeService(
	challengeRepo repositories.ChallengeRepository,
	assessmentRepo repositories.AssessmentRepository,
	auditService AuditService,
) ChallengeService {
	return &ChallengeServiceImpl{
		challengeRepo:  challengeRepo,
		assessmentRepo: assessmentRepo,
		auditService:   auditService,
	}
}

// hideTestCases обнуляет тест-кейсы для всех, кроме админа:
// публичный каталог не должен раскрывать проверку
func hideTestCases(challenge *models.Challenge, actorRole models.UserRole) *models.Challenge {
	if actorRole == models.UserRoleAdmin {
		return challenge
	}
	sanitized := *challenge
	sanitized.TestCases = nil
	return &sanitized
}

func (s *ChallengeServiceImpl) List(ctx context.Context, skill, difficulty string, actorRole models.UserRole) ([]models.Challenge, error) {
	activeOnly := actorRole != models.UserRoleAdmin
	challenges, err := s.challengeRepo.FindAll(strings.ToLower(skill), models.ChallengeDifficulty(difficulty), activeOnly)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	result := make([]models.Challenge, 0, len(challenges))
	for i := range challenges {
		result = append(result, *hideTestCases(&challenges[i], actorRole))
	}
	return result, nil
}

func (s *ChallengeServiceImpl) Get(ctx context.Context, id string, actorRole models.UserRole) (*models.Challenge, error) {
	challenge, err := s.challengeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrChallengeNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return hideTestCases(challenge, actorRole), nil
}

func (s *ChallengeServiceImpl) Random(ctx context.Context, skill string) (*models.Challenge, error) {
	skill = strings.ToLower(strings.TrimSpace(skill))
	if !models.IsSupportedSkill(skill) {
		return nil, apperrors.ErrUnsupportedSkill
	}

	challenge, err := s.challengeRepo.FindRandomActive(skill)
	if err != nil {
		if errors.Is(err, repositories.ErrChallengeNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return hideTestCases(challenge, ""), nil
}

func (s *ChallengeServiceImpl) Search(ctx context.Context, query string, actorRole models.UserRole) ([]models.Challenge, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.NewBadRequestError("Search query is required")
	}

	challenges, err := s.challengeRepo.Search(query)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	result := make([]models.Challenge, 0, len(challenges))
	for i := range challenges {
		result = append(result, *hideTestCases(&challenges[i], actorRole))
	}
	return result, nil
}

func (s *ChallengeServiceImpl) Stats(ctx context.Context) (*repositories.ChallengeStats, error) {
	stats, err := s.challengeRepo.GetStats()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return stats, nil
}

func (s *ChallengeServiceImpl) Create(ctx context.Context, actorID string, req *dto.CreateChallengeRequest) (*models.Challenge, error) {
	skill := strings.ToLower(strings.TrimSpace(req.Skill))
	if !models.IsSupportedSkill(skill) {
		return nil, apperrors.ErrUnsupportedSkill
	}

	challenge := &models.Challenge{
		Skill:      skill,
		Title:      req.Title,
		Prompt:     req.Prompt,
		Difficulty: models.ChallengeDifficulty(req.Difficulty),
		Active:     true,
		CreatedBy:  actorID,
	}
	if req.TimeLimitMin > 0 {
		challenge.TimeLimitMin = req.TimeLimitMin
	} else {
		challenge.TimeLimitMin = 60
	}
	if req.TestCases != nil {
		data, err := json.Marshal(req.TestCases)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		challenge.TestCases = datatypes.JSON(data)
	}

	if err := s.challengeRepo.Create(challenge); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.auditService.Record(ctx, AuditEntry{
		EventType:    models.AuditDataChange,
		Action:       "challenge.created",
		UserID:       actorID,
		ResourceType: "challenge",
		ResourceID:   challenge.ID,
		ResourceName: challenge.Title,
	})
	return challenge, nil
}

func (s *ChallengeServiceImpl) Update(ctx context.Context, actorID, id string, req *dto.UpdateChallengeRequest) (*models.Challenge, error) {
	challenge, err := s.challengeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrChallengeNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if req.Title != "" {
		challenge.Title = req.Title
	}
	if req.Prompt != "" {
		challenge.Prompt = req.Prompt
	}
	if req.Difficulty != "" {
		challenge.Difficulty = models.ChallengeDifficulty(req.Difficulty)
	}
	if req.TimeLimitMin > 0 {
		challenge.TimeLimitMin = req.TimeLimitMin
	}
	if req.TestCases != nil {
		data, err := json.Marshal(req.TestCases)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		challenge.TestCases = datatypes.JSON(data)
	}
	if req.Active != nil {
		challenge.Active = *req.Active
	}

	if err := s.challengeRepo.Update(challenge); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.auditService.Record(ctx, AuditEntry{
		EventType:    models.AuditDataChange,
		Action:       "challenge.updated",
		UserID:       actorID,
		ResourceType: "challenge",
		ResourceID:   challenge.ID,
		ResourceName: challenge.Title,
	})
	return challenge, nil
}

// Delete убирает задание из каталога. Если на него ссылаются попытки,
// запись не удаляется, а деактивируется: история оценок должна
// оставаться читаемой.
func (s *ChallengeServiceImpl) Delete(ctx context.Context, actorID, id string) (bool, error) {
	challenge, err := s.challengeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrChallengeNotFound) {
			return false, apperrors.ErrNotFound(err)
		}
		return false, apperrors.InternalError(err)
	}

	references, err := s.assessmentRepo.CountByChallenge(id)
	if err != nil {
		return false, apperrors.InternalError(err)
	}

	deleted := references == 0
	if deleted {
		err = s.challengeRepo.Delete(id)
	} else {
		err = s.challengeRepo.Deactivate(id)
	}
	if err != nil {
		return false, apperrors.InternalError(err)
	}

	action := "challenge.deleted"
	if !deleted {
		action = "challenge.deactivated"
	}
	s.auditService.Record(ctx, AuditEntry{
		EventType:    models.AuditDataChange,
		Action:       action,
		Severity:     models.AuditWarning,
		UserID:       actorID,
		ResourceType: "challenge",
		ResourceID:   id,
		ResourceName: challenge.Title,
	})
	return deleted, nil
}
