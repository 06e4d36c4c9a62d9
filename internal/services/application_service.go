package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"procurechain_backend/internal/logger"
	"procurechain_backend/internal/models"
	"procurechain_backend/internal/repositories"
	"procurechain_backend/internal/services/dto"
	"procurechain_backend/pkg/apperrors"
)

// Порог match score по умолчанию для подборки вакансий
const defaultMatchThreshold = 60.0

type ApplicationService interface {
	Apply(ctx context.Context, learnerID string, req *dto.ApplyRequest) (*models.Application, error)
	MyApplications(ctx context.Context, learnerID string, page, pageSize int) (*dto.PaginatedResponse, error)
	ApplicationsForJob(ctx context.Context, actorID string, actorRole models.UserRole, jobID string, page, pageSize int) (*dto.PaginatedResponse, error)
	UpdateStatus(ctx context.Context, actorID string, actorRole models.UserRole, id string, next models.ApplicationStatus) (*models.Application, error)
	MatchedJobs(ctx context.Context, learnerID string, minScore float64) ([]dto.MatchedJob, error)
}

type ApplicationServiceImpl struct {
	jobRepo         repositories.JobRepository
	userRepo        repositories.UserRepository
	matchingService MatchingService
	auditService    AuditService
}

func NewApplicationService(
	jobRepo repositories.JobRepository,
	userRepo repositories.UserRepository,
	matchingService MatchingService,
	auditService AuditService,
) ApplicationService {
	return &ApplicationServiceImpl{
		jobRepo:         jobRepo,
		userRepo:        userRepo,
		matchingService: matchingService,
		auditService:    auditService,
	}
}

// Apply подает отклик с замороженным match score. Дубль по паре
// (job, learner) режет составной индекс хранилища.
func (s *ApplicationServiceImpl) Apply(ctx context.Context, learnerID string, req *dto.ApplyRequest) (*models.Application, error) {
	job, err := s.jobRepo.FindByID(req.JobID)
	if err != nil {
		if errors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	now := time.Now()
	if !job.IsAcceptingApplications(now) {
		return nil, apperrors.ErrJobNotActive
	}

	match, err := s.matchingService.CalculateMatchScore(ctx, learnerID, job)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	application := &models.Application{
		JobID:       job.ID,
		LearnerID:   learnerID,
		Status:      models.ApplicationPending,
		CoverLetter: req.CoverLetter,
		MatchScore:  &match.MatchScore,
		SubmittedAt: now,
	}
	if err := s.jobRepo.CreateApplication(application); err != nil {
		if errors.Is(err, repositories.ErrApplicationAlreadyExists) {
			return nil, apperrors.ErrDuplicateApplication
		}
		return nil, apperrors.InternalError(err)
	}

	if err := s.jobRepo.IncrementApplications(job.ID); err != nil {
		logger.CtxWarn(ctx, "applications counter increment failed", "job_id", job.ID, "error", err)
	}

	s.auditService.Record(ctx, AuditEntry{
		EventType:    models.AuditDataChange,
		Action:       "application.submitted",
		UserID:       learnerID,
		ResourceType: "application",
		ResourceID:   application.ID,
		ResourceName: job.Title,
		Metadata:     map[string]interface{}{"match_score": match.MatchScore},
	})
	return application, nil
}

func (s *ApplicationServiceImpl) MyApplications(ctx context.Context, learnerID string, page, pageSize int) (*dto.PaginatedResponse, error) {
	applications, total, err := s.jobRepo.FindApplicationsByLearner(learnerID, page, pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	enriched := make([]dto.ApplicationWithJob, 0, len(applications))
	for i := range applications {
		entry := dto.ApplicationWithJob{Application: &applications[i]}
		if job, err := s.jobRepo.FindByID(applications[i].JobID); err == nil {
			entry.Job = job
		}
		enriched = append(enriched, entry)
	}
	return dto.NewPaginatedResponse(enriched, page, pageSize, total), nil
}

// ApplicationsForJob - ранжированный список откликов для работодателя.
// Порядок задает снимок балла; в каждой записи живой расклад, чтобы
// было видно, как профиль кандидата изменился с момента подачи.
func (s *ApplicationServiceImpl) ApplicationsForJob(ctx context.Context, actorID string, actorRole models.UserRole, jobID string, page, pageSize int) (*dto.PaginatedResponse, error) {
	job, err := s.jobRepo.FindByID(jobID)
	if err != nil {
		if errors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if job.EmployerID != actorID && actorRole != models.UserRoleAdmin {
		return nil, apperrors.ErrInsufficientPermissions
	}

	applications, total, err := s.jobRepo.FindApplicationsByJob(jobID, page, pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	enriched := make([]dto.ApplicationWithMatch, 0, len(applications))
	for i := range applications {
		entry := dto.ApplicationWithMatch{Application: &applications[i]}
		if user, err := s.userRepo.FindByID(applications[i].LearnerID); err == nil {
			entry.Applicant = *user.SafeView()
		}
		if match, err := s.matchingService.CalculateMatchScore(ctx, applications[i].LearnerID, job); err == nil {
			entry.Match = match
		}
		enriched = append(enriched, entry)
	}
	return dto.NewPaginatedResponse(enriched, page, pageSize, total), nil
}

func (s *ApplicationServiceImpl) UpdateStatus(ctx context.Context, actorID string, actorRole models.UserRole, id string, next models.ApplicationStatus) (*models.Application, error) {
	application, err := s.jobRepo.FindApplicationByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrApplicationNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	job, err := s.jobRepo.FindByID(application.JobID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if job.EmployerID != actorID && actorRole != models.UserRoleAdmin {
		return nil, apperrors.ErrInsufficientPermissions
	}

	if !application.Status.CanTransitionTo(next) {
		return nil, apperrors.ErrInvalidStatus("applications",
			"Transition from "+string(application.Status)+" to "+string(next)+" is not allowed")
	}

	previous := application.Status
	if err := s.jobRepo.UpdateApplicationStatus(id, next); err != nil {
		return nil, apperrors.InternalError(err)
	}
	application.Status = next

	s.auditService.Record(ctx, AuditEntry{
		EventType:    models.AuditDataChange,
		Action:       "application.status_changed",
		UserID:       actorID,
		ResourceType: "application",
		ResourceID:   id,
		ResourceName: job.Title,
		Changes:      map[string]string{"from": string(previous), "to": string(next)},
	})
	return application, nil
}

// MatchedJobs скорит все активные вакансии для соискателя и отдает
// прошедшие порог, по убыванию балла
func (s *ApplicationServiceImpl) MatchedJobs(ctx context.Context, learnerID string, minScore float64) ([]dto.MatchedJob, error) {
	if minScore <= 0 {
		minScore = defaultMatchThreshold
	}

	jobs, err := s.jobRepo.FindActive()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	matched := make([]dto.MatchedJob, 0)
	for i := range jobs {
		match, err := s.matchingService.CalculateMatchScore(ctx, learnerID, &jobs[i])
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		if match.MatchScore >= minScore {
			matched = append(matched, dto.MatchedJob{Job: &jobs[i], Match: match})
		}
	}

	sort.SliceStable(matched, func(a, b int) bool {
		return matched[a].Match.MatchScore > matched[b].Match.MatchScore
	})
	return matched, nil
}
