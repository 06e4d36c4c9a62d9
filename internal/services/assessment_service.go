package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"procurechain_backend/internal/logger"
	"procurechain_backend/internal/models"
	"procurechain_backend/internal/repositories"
	"procurechain_backend/internal/services/dto"
	"procurechain_backend/pkg/apperrors"

	"gorm.io/datatypes"
)

const (
	passingScore           = 70.0
	cheatingFailThreshold  = 0.8
	defaultLeaderboardSize = 10
)

type AssessmentService interface {
	Create(ctx context.Context, userID string, req *dto.CreateAssessmentRequest) (*dto.AssessmentWithChallenge, error)
	Get(ctx context.Context, actorID string, actorRole models.UserRole, id string) (*models.SkillAssessment, error)
	Submit(ctx context.Context, actorID, id string, req *dto.SubmitAssessmentRequest) (*models.SkillAssessment, error)
	MyAssessments(ctx context.Context, userID string, page, pageSize int) (*dto.PaginatedResponse, error)
	MySkills(ctx context.Context, userID string) (*dto.MySkillsResponse, error)
	SkillStatistics(ctx context.Context, skill string) (*dto.SkillStatisticsResponse, error)
	Leaderboard(ctx context.Context, skill string, limit int) ([]dto.LeaderboardEntry, error)
	AdminList(ctx context.Context, req *dto.ListAssessmentsRequest) (*dto.PaginatedResponse, error)
}

type AssessmentServiceImpl struct {
	assessmentRepo      repositories.AssessmentRepository
	challengeRepo       repositories.ChallengeRepository
	userRepo            repositories.UserRepository
	aiService           AIService
	notificationService NotificationService
	auditService        AuditService
}

func NewAssessmentService(
	assessmentRepo repositories.AssessmentRepository,
	challengeRepo repositories.ChallengeRepository,
	userRepo repositories.UserRepository,
	aiService AIService,
	notificationService NotificationService,
	auditService AuditService,
) AssessmentService {
	return &AssessmentServiceImpl{
		assessmentRepo:      assessmentRepo,
		challengeRepo:       challengeRepo,
		userRepo:            userRepo,
		aiService:           aiService,
		notificationService: notificationService,
		auditService:        auditService,
	}
}

// Create выдает случайное активное задание по навыку. Одна незакрытая
// попытка на пару (user, skill).
func (s *AssessmentServiceImpl) Create(ctx context.Context, userID string, req *dto.CreateAssessmentRequest) (*dto.AssessmentWithChallenge, error) {
	skill := strings.ToLower(strings.TrimSpace(req.Skill))
	if !models.IsSupportedSkill(skill) {
		return nil, apperrors.ErrUnsupportedSkill
	}

	if _, err := s.assessmentRepo.FindActiveByUserAndSkill(userID, skill); err == nil {
		return nil, apperrors.ErrAssessmentInProgress
	} else if !errors.Is(err, repositories.ErrAssessmentNotFound) {
		return nil, apperrors.InternalError(err)
	}

	challenge, err := s.challengeRepo.FindRandomActive(skill)
	if err != nil {
		if errors.Is(err, repositories.ErrChallengeNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	assessment := &models.SkillAssessment{
		UserID:       userID,
		Skill:        skill,
		ChallengeID:  challenge.ID,
		Status:       models.AssessmentCreated,
		TimeLimitMin: challenge.TimeLimitMin,
		StartedAt:    time.Now(),
	}
	if err := s.assessmentRepo.Create(assessment); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.auditService.Record(ctx, AuditEntry{
		EventType:    models.AuditDataChange,
		Action:       "assessment.started",
		UserID:       userID,
		ResourceType: "assessment",
		ResourceID:   assessment.ID,
		ResourceName: skill,
	})

	// Тест-кейсы соискателю не отдаются
	sanitized := *challenge
	sanitized.TestCases = nil
	return &dto.AssessmentWithChallenge{Assessment: assessment, Challenge: &sanitized}, nil
}

func (s *AssessmentServiceImpl) Get(ctx context.Context, actorID string, actorRole models.UserRole, id string) (*models.SkillAssessment, error) {
	assessment, err := s.assessmentRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrAssessmentNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if assessment.UserID != actorID &&
		actorRole != models.UserRoleAdmin && actorRole != models.UserRoleEmployer {
		return nil, apperrors.ErrInsufficientPermissions
	}
	return assessment, nil
}

// Submit принимает код и синхронно гонит его через AI-оценку.
// Проходной балл выдает кредит; высокая вероятность списывания
// проваливает попытку независимо от балла.
func (s *AssessmentServiceImpl) Submit(ctx context.Context, actorID, id string, req *dto.SubmitAssessmentRequest) (*models.SkillAssessment, error) {
	assessment, err := s.assessmentRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrAssessmentNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if assessment.UserID != actorID {
		return nil, apperrors.ErrInsufficientPermissions
	}
	if assessment.Status != models.AssessmentCreated {
		return nil, apperrors.ErrAssessmentNotSubmittable
	}

	challenge, err := s.challengeRepo.FindByID(assessment.ChallengeID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	now := time.Now()
	assessment.Status = models.AssessmentSubmitted
	assessment.Language = req.Language
	assessment.CodeSubmission = req.Code
	assessment.SubmittedAt = &now
	if err := s.assessmentRepo.Update(assessment); err != nil {
		return nil, apperrors.InternalError(err)
	}

	grading, err := s.aiService.GradeCode(ctx, challenge, req.Language, req.Code)
	if err != nil {
		return nil, err
	}

	assessment.AIAnalysis = datatypes.JSON(mustJSON(grading))
	score := grading.OverallScore
	assessment.Score = &score

	if grading.CheatingProbability > cheatingFailThreshold {
		assessment.Status = models.AssessmentFailed
	} else {
		assessment.Status = models.AssessmentCompleted
	}
	if err := s.assessmentRepo.Update(assessment); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if assessment.Status == models.AssessmentCompleted && score >= passingScore {
		s.issueCredential(ctx, assessment, score)
	}

	s.auditService.Record(ctx, AuditEntry{
		EventType:    models.AuditAI,
		Action:       "assessment.graded",
		UserID:       actorID,
		ResourceType: "assessment",
		ResourceID:   assessment.ID,
		ResourceName: assessment.Skill,
		Metadata: map[string]interface{}{
			"score":  score,
			"status": string(assessment.Status),
			"mock":   grading.Mock,
		},
	})
	return assessment, nil
}

// issueCredential заменяет кредит, только если новый балл выше либо
// старый уже не действует: пересдача не может ухудшить профиль
func (s *AssessmentServiceImpl) issueCredential(ctx context.Context, assessment *models.SkillAssessment, score float64) {
	now := time.Now()
	existing, err := s.assessmentRepo.FindVerifiedSkillsByUser(assessment.UserID)
	if err != nil {
		logger.CtxWarn(ctx, "verified skills lookup failed", "user_id", assessment.UserID, "error", err)
		return
	}
	for _, vs := range existing {
		if strings.EqualFold(vs.Skill, assessment.Skill) && vs.IsUsable(now) && vs.Score >= score {
			return
		}
	}

	credential := &models.VerifiedSkill{
		UserID:       assessment.UserID,
		Skill:        assessment.Skill,
		Score:        score,
		VerifiedAt:   now,
		ExpiresAt:    models.SkillExpiry(assessment.Skill, now),
		Active:       true,
		AssessmentID: assessment.ID,
	}
	if err := s.assessmentRepo.UpsertVerifiedSkill(credential); err != nil {
		logger.CtxError(ctx, "credential upsert failed",
			"user_id", assessment.UserID, "skill", assessment.Skill, "error", err)
		return
	}

	if user, err := s.userRepo.FindByID(assessment.UserID); err == nil {
		s.notificationService.SendCredentialNotice(ctx, user.Email, user.FullName, assessment.Skill, score)
	}
}

func (s *AssessmentServiceImpl) MyAssessments(ctx context.Context, userID string, page, pageSize int) (*dto.PaginatedResponse, error) {
	assessments, total, err := s.assessmentRepo.FindByUser(userID, page, pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewPaginatedResponse(assessments, page, pageSize, total), nil
}

// MySkills делит кредиты на действующие и истекшие. Перед чтением
// гасятся просроченные записи, чтобы флаг Active не врал.
func (s *AssessmentServiceImpl) MySkills(ctx context.Context, userID string) (*dto.MySkillsResponse, error) {
	if _, err := s.assessmentRepo.DeactivateExpiredSkills(); err != nil {
		logger.CtxWarn(ctx, "expired skills sweep failed", "error", err)
	}

	skills, err := s.assessmentRepo.FindVerifiedSkillsByUser(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	now := time.Now()
	active := make([]models.VerifiedSkill, 0, len(skills))
	expired := make([]models.VerifiedSkill, 0)
	for _, vs := range skills {
		if vs.IsUsable(now) {
			active = append(active, vs)
		} else {
			expired = append(expired, vs)
		}
	}
	return &dto.MySkillsResponse{Active: active, Expired: expired}, nil
}

func (s *AssessmentServiceImpl) SkillStatistics(ctx context.Context, skill string) (*dto.SkillStatisticsResponse, error) {
	skill = strings.ToLower(strings.TrimSpace(skill))
	if !models.IsSupportedSkill(skill) {
		return nil, apperrors.ErrUnsupportedSkill
	}

	stats, err := s.assessmentRepo.SkillStats(skill)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.SkillStatisticsResponse{
		Skill:        skill,
		Attempts:     stats.Attempts,
		Completions:  stats.Completions,
		AverageScore: round1(stats.AverageScore),
	}, nil
}

func (s *AssessmentServiceImpl) Leaderboard(ctx context.Context, skill string, limit int) ([]dto.LeaderboardEntry, error) {
	skill = strings.ToLower(strings.TrimSpace(skill))
	if !models.IsSupportedSkill(skill) {
		return nil, apperrors.ErrUnsupportedSkill
	}
	if limit <= 0 || limit > 50 {
		limit = defaultLeaderboardSize
	}

	top, err := s.assessmentRepo.FindTopVerifiedBySkill(skill, limit)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	entries := make([]dto.LeaderboardEntry, 0, len(top))
	for _, vs := range top {
		entry := dto.LeaderboardEntry{
			UserID: vs.UserID,
			Skill:  vs.Skill,
			Score:  vs.Score,
		}
		if user, err := s.userRepo.FindByID(vs.UserID); err == nil {
			entry.FullName = user.FullName
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *AssessmentServiceImpl) AdminList(ctx context.Context, req *dto.ListAssessmentsRequest) (*dto.PaginatedResponse, error) {
	criteria := repositories.AssessmentFilter{
		UserID:   req.UserID,
		Skill:    req.Skill,
		Status:   models.AssessmentStatus(req.Status),
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	assessments, total, err := s.assessmentRepo.FindWithFilter(criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewPaginatedResponse(assessments, criteria.Page, criteria.PageSize, total), nil
}
