package services

import (
	"context"
	"errors"
	"time"

	"procurechain_backend/internal/logger"
	"procurechain_backend/internal/models"
	"procurechain_backend/internal/repositories"
	"procurechain_backend/internal/services/dto"
	"procurechain_backend/pkg/apperrors"
)

// Срок жизни вакансии после активации, если работодатель не задал свой
const defaultJobLifetimeDays = 30

type JobPostingService interface {
	Browse(ctx context.Context, req *dto.BrowseJobsRequest) (*dto.PaginatedResponse, error)
	Get(ctx context.Context, id string, countView bool) (*models.JobPosting, error)
	Create(ctx context.Context, employerID string, req *dto.CreateJobRequest) (*models.JobPosting, error)
	MyPostings(ctx context.Context, employerID string, page, pageSize int) (*dto.PaginatedResponse, error)
	Update(ctx context.Context, actorID string, actorRole models.UserRole, id string, req *dto.UpdateJobRequest) (*models.JobPosting, error)
	Delete(ctx context.Context, actorID string, actorRole models.UserRole, id string) (removed bool, err error)
	Stats(ctx context.Context, employerID string) (*dto.JobStatsResponse, error)
}

type JobPostingServiceImpl struct {
	jobRepo      repositories.JobRepository
	auditService AuditService
}

func NewJobPostingService(jobRepo repositories.JobRepository, auditService AuditService) JobPostingService {
	return &JobPostingServiceImpl{jobRepo: jobRepo, auditService: auditService}
}

// Browse отдает только активные вакансии. Перед выборкой закрываются
// просроченные, чтобы фильтр по статусу не показывал мертвые записи.
func (s *JobPostingServiceImpl) Browse(ctx context.Context, req *dto.BrowseJobsRequest) (*dto.PaginatedResponse, error) {
	if _, err := s.jobRepo.ExpireOverdue(); err != nil {
		logger.CtxWarn(ctx, "job expiry sweep failed", "error", err)
	}

	criteria := repositories.JobFilter{
		Status:          models.JobActive,
		Skill:           req.Skill,
		ExperienceLevel: models.ExperienceLevel(req.ExperienceLevel),
		Location:        req.Location,
		Remote:          req.Remote,
		Search:          req.Search,
		Page:            req.Page,
		PageSize:        req.PageSize,
	}

	jobs, total, err := s.jobRepo.FindWithFilter(criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewPaginatedResponse(jobs, criteria.Page, criteria.PageSize, total), nil
}

func (s *JobPostingServiceImpl) Get(ctx context.Context, id string, countView bool) (*models.JobPosting, error) {
	job, err := s.findJob(id)
	if err != nil {
		return nil, err
	}

	if countView {
		if err := s.jobRepo.IncrementViews(id); err != nil {
			logger.CtxWarn(ctx, "view counter increment failed", "job_id", id, "error", err)
		} else {
			job.ViewsCount++
		}
	}
	return job, nil
}

func (s *JobPostingServiceImpl) findJob(id string) (*models.JobPosting, error) {
	job, err := s.jobRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return job, nil
}

func (s *JobPostingServiceImpl) Create(ctx context.Context, employerID string, req *dto.CreateJobRequest) (*models.JobPosting, error) {
	if req.SalaryMax > 0 && req.SalaryMin > req.SalaryMax {
		return nil, apperrors.NewBadRequestError("salary_min cannot exceed salary_max")
	}

	job := &models.JobPosting{
		EmployerID:      employerID,
		Title:           req.Title,
		Description:     req.Description,
		ExperienceLevel: models.ExperienceLevel(req.ExperienceLevel),
		Location:        req.Location,
		Remote:          req.Remote,
		Status:          models.JobDraft,
	}
	if req.SalaryMin > 0 {
		job.SalaryMin = &req.SalaryMin
	}
	if req.SalaryMax > 0 {
		job.SalaryMax = &req.SalaryMax
	}
	if err := job.SetRequiredSkills(req.RequiredSkills); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.jobRepo.Create(job); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.auditService.Record(ctx, AuditEntry{
		EventType:    models.AuditDataChange,
		Action:       "job.created",
		UserID:       employerID,
		ResourceType: "job",
		ResourceID:   job.ID,
		ResourceName: job.Title,
	})
	return job, nil
}

func (s *JobPostingServiceImpl) MyPostings(ctx context.Context, employerID string, page, pageSize int) (*dto.PaginatedResponse, error) {
	criteria := repositories.JobFilter{
		EmployerID: employerID,
		Page:       page,
		PageSize:   pageSize,
	}
	jobs, total, err := s.jobRepo.FindWithFilter(criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewPaginatedResponse(jobs, page, pageSize, total), nil
}

// Update меняет поля вакансии; смена статуса идет строго по таблице
// переходов, активация без срока получает срок по умолчанию
func (s *JobPostingServiceImpl) Update(ctx context.Context, actorID string, actorRole models.UserRole, id string, req *dto.UpdateJobRequest) (*models.JobPosting, error) {
	job, err := s.findJob(id)
	if err != nil {
		return nil, err
	}
	if job.EmployerID != actorID && actorRole != models.UserRoleAdmin {
		return nil, apperrors.ErrInsufficientPermissions
	}

	if req.Title != "" {
		job.Title = req.Title
	}
	if req.Description != "" {
		job.Description = req.Description
	}
	if len(req.RequiredSkills) > 0 {
		if err := job.SetRequiredSkills(req.RequiredSkills); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}
	if req.ExperienceLevel != "" {
		job.ExperienceLevel = models.ExperienceLevel(req.ExperienceLevel)
	}
	if req.Location != "" {
		job.Location = req.Location
	}
	if req.Remote != nil {
		job.Remote = *req.Remote
	}
	if req.SalaryMin != nil {
		job.SalaryMin = req.SalaryMin
	}
	if req.SalaryMax != nil {
		job.SalaryMax = req.SalaryMax
	}
	if req.ExpiresAt != nil {
		job.ExpiresAt = req.ExpiresAt
	}

	previous := job.Status
	if req.Status != "" {
		next := models.JobStatus(req.Status)
		if next != job.Status {
			if !job.Status.CanTransitionTo(next) {
				return nil, apperrors.ErrInvalidStatus("jobs",
					"Transition from "+string(job.Status)+" to "+string(next)+" is not allowed")
			}
			job.Status = next
			// Активация (в том числе повторная) сбрасывает срок жизни
			if next == models.JobActive && req.ExpiresAt == nil {
				expires := time.Now().AddDate(0, 0, defaultJobLifetimeDays)
				job.ExpiresAt = &expires
			}
		}
	}

	if err := s.jobRepo.Update(job); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if job.Status != previous {
		if err := s.jobRepo.UpdateStatus(id, job.Status); err != nil {
			return nil, apperrors.InternalError(err)
		}
		s.auditService.Record(ctx, AuditEntry{
			EventType:    models.AuditDataChange,
			Action:       "job.status_changed",
			UserID:       actorID,
			ResourceType: "job",
			ResourceID:   id,
			ResourceName: job.Title,
			Changes:      map[string]string{"from": string(previous), "to": string(job.Status)},
		})
	}
	return job, nil
}

// Delete физически убирает только черновик. Опубликованную вакансию
// удалить нельзя - она закрывается, отклики остаются на месте.
func (s *JobPostingServiceImpl) Delete(ctx context.Context, actorID string, actorRole models.UserRole, id string) (bool, error) {
	job, err := s.findJob(id)
	if err != nil {
		return false, err
	}
	if job.EmployerID != actorID && actorRole != models.UserRoleAdmin {
		return false, apperrors.ErrInsufficientPermissions
	}

	removed := job.Status == models.JobDraft
	if removed {
		err = s.jobRepo.Delete(id)
	} else {
		if job.Status == models.JobClosed {
			return false, nil
		}
		err = s.jobRepo.UpdateStatus(id, models.JobClosed)
	}
	if err != nil {
		return false, apperrors.InternalError(err)
	}

	action := "job.deleted"
	if !removed {
		action = "job.closed"
	}
	s.auditService.Record(ctx, AuditEntry{
		EventType:    models.AuditDataChange,
		Action:       action,
		UserID:       actorID,
		ResourceType: "job",
		ResourceID:   id,
		ResourceName: job.Title,
	})
	return removed, nil
}

func (s *JobPostingServiceImpl) Stats(ctx context.Context, employerID string) (*dto.JobStatsResponse, error) {
	stats, err := s.jobRepo.StatsByEmployer(employerID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.JobStatsResponse{
		TotalPostings:     stats.TotalPostings,
		ByStatus:          stats.ByStatus,
		TotalViews:        stats.TotalViews,
		TotalApplications: stats.TotalApplications,
	}, nil
}
