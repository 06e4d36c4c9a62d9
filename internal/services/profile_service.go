package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"procurechain_backend/internal/models"
	"procurechain_backend/internal/repositories"
	"procurechain_backend/internal/services/dto"
	"procurechain_backend/pkg/apperrors"

	"gorm.io/datatypes"
)

type ProfileService interface {
	GetOwn(ctx context.Context, userID string) (*dto.ProfileResponse, error)
	GetPublic(ctx context.Context, userID string) (*dto.ProfileResponse, error)
	UpdateLearner(ctx context.Context, userID string, req *dto.UpdateLearnerProfileRequest) error
	UpdateEmployer(ctx context.Context, userID string, req *dto.UpdateEmployerProfileRequest) error
	AddEmployment(ctx context.Context, userID string, req *dto.AddEmploymentRequest) error
	Skills(ctx context.Context, userID string) ([]dto.SkillSummary, error)
	Completeness(ctx context.Context, userID string) (*dto.CompletenessResponse, error)
	SearchLearners(ctx context.Context, req *dto.SearchLearnersRequest) (*dto.PaginatedResponse, error)
	Stats(ctx context.Context) (*dto.ProfileStatsResponse, error)
}

type ProfileServiceImpl struct {
	profileRepo    repositories.ProfileRepository
	userRepo       repositories.UserRepository
	assessmentRepo repositories.AssessmentRepository
}

func NewProfileService(
	profileRepo repositories.ProfileRepository,
	userRepo repositories.UserRepository,
	assessmentRepo repositories.AssessmentRepository,
) ProfileService {
	return &ProfileServiceImpl{
		profileRepo:    profileRepo,
		userRepo:       userRepo,
		assessmentRepo: assessmentRepo,
	}
}

func (s *ProfileServiceImpl) GetOwn(ctx context.Context, userID string) (*dto.ProfileResponse, error) {
	return s.buildProfile(ctx, userID)
}

func (s *ProfileServiceImpl) GetPublic(ctx context.Context, userID string) (*dto.ProfileResponse, error) {
	return s.buildProfile(ctx, userID)
}

func (s *ProfileServiceImpl) buildProfile(ctx context.Context, userID string) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	response := &dto.ProfileResponse{User: *user.SafeView()}

	if learner, err := s.profileRepo.FindLearnerProfileByUserID(userID); err == nil {
		response.Learner = learner
		if skills, err := s.Skills(ctx, userID); err == nil {
			response.Skills = skills
		}
	}
	if employer, err := s.profileRepo.FindEmployerProfileByUserID(userID); err == nil {
		response.Employer = employer
	}

	return response, nil
}

func (s *ProfileServiceImpl) UpdateLearner(ctx context.Context, userID string, req *dto.UpdateLearnerProfileRequest) error {
	profile, err := s.profileRepo.FindLearnerProfileByUserID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}

	if req.Bio != "" {
		profile.Bio = req.Bio
	}
	if req.ExperienceLevel != "" {
		profile.ExperienceLevel = models.ExperienceLevel(req.ExperienceLevel)
	}
	if req.Location != "" {
		profile.Location = req.Location
	}
	if req.Education != "" {
		profile.Education = req.Education
	}
	if req.Links != nil {
		data, err := json.Marshal(req.Links)
		if err != nil {
			return apperrors.InternalError(err)
		}
		profile.Links = datatypes.JSON(data)
	}

	if err := s.profileRepo.UpdateLearnerProfile(profile); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *ProfileServiceImpl) UpdateEmployer(ctx context.Context, userID string, req *dto.UpdateEmployerProfileRequest) error {
	profile, err := s.profileRepo.FindEmployerProfileByUserID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}

	if req.CompanyName != "" {
		profile.CompanyName = req.CompanyName
	}
	if req.Industry != "" {
		profile.Industry = req.Industry
	}
	if req.Website != "" {
		profile.Website = req.Website
	}
	if req.Description != "" {
		profile.Description = req.Description
	}

	if err := s.profileRepo.UpdateEmployerProfile(profile); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *ProfileServiceImpl) AddEmployment(ctx context.Context, userID string, req *dto.AddEmploymentRequest) error {
	profile, err := s.profileRepo.FindLearnerProfileByUserID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}

	entry := models.EmploymentEntry{
		Company:     req.Company,
		Title:       req.Title,
		Description: req.Description,
	}
	if from, err := time.Parse("2006-01-02", req.From); err == nil {
		entry.From = &from
	} else {
		return apperrors.NewBadRequestError("Invalid 'from' date, expected YYYY-MM-DD")
	}
	if req.To != "" {
		to, err := time.Parse("2006-01-02", req.To)
		if err != nil {
			return apperrors.NewBadRequestError("Invalid 'to' date, expected YYYY-MM-DD")
		}
		entry.To = &to
	}

	var history []models.EmploymentEntry
	if len(profile.EmploymentHistory) > 0 {
		if err := json.Unmarshal(profile.EmploymentHistory, &history); err != nil {
			history = nil
		}
	}
	history = append(history, entry)

	data, err := json.Marshal(history)
	if err != nil {
		return apperrors.InternalError(err)
	}
	profile.EmploymentHistory = datatypes.JSON(data)

	if err := s.profileRepo.UpdateLearnerProfile(profile); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// Skills собирает сводку кредитов пользователя: для каждого навыка
// лучший активный балл.
func (s *ProfileServiceImpl) Skills(ctx context.Context, userID string) ([]dto.SkillSummary, error) {
	skills, err := s.assessmentRepo.FindVerifiedSkillsByUser(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	now := time.Now()
	summaries := make([]dto.SkillSummary, 0, len(skills))
	for _, vs := range skills {
		summaries = append(summaries, dto.SkillSummary{
			Skill:      vs.Skill,
			Score:      vs.Score,
			VerifiedAt: vs.VerifiedAt,
			ExpiresAt:  vs.ExpiresAt,
			Active:     vs.IsUsable(now),
		})
	}
	return summaries, nil
}

// Completeness - процент заполненности профиля соискателя
func (s *ProfileServiceImpl) Completeness(ctx context.Context, userID string) (*dto.CompletenessResponse, error) {
	profile, err := s.profileRepo.FindLearnerProfileByUserID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	fields := []struct {
		name   string
		filled bool
	}{
		{"bio", profile.Bio != ""},
		{"experience_level", profile.ExperienceLevel != ""},
		{"location", profile.Location != ""},
		{"education", profile.Education != ""},
		{"links", len(profile.Links) > 0},
		{"employment_history", len(profile.EmploymentHistory) > 0},
	}

	filled := make([]string, 0, len(fields))
	missing := make([]string, 0)
	for _, f := range fields {
		if f.filled {
			filled = append(filled, f.name)
		} else {
			missing = append(missing, f.name)
		}
	}

	return &dto.CompletenessResponse{
		Percentage:    round1(float64(len(filled)) / float64(len(fields)) * 100),
		FilledFields:  filled,
		MissingFields: missing,
	}, nil
}

func (s *ProfileServiceImpl) SearchLearners(ctx context.Context, req *dto.SearchLearnersRequest) (*dto.PaginatedResponse, error) {
	criteria := repositories.LearnerSearchCriteria{
		Skill:           req.Skill,
		MinScore:        req.MinScore,
		ExperienceLevel: models.ExperienceLevel(req.ExperienceLevel),
		Location:        req.Location,
		Page:            req.Page,
		PageSize:        req.PageSize,
	}

	profiles, total, err := s.profileRepo.SearchLearners(criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewPaginatedResponse(profiles, criteria.Page, criteria.PageSize, total), nil
}

func (s *ProfileServiceImpl) Stats(ctx context.Context) (*dto.ProfileStatsResponse, error) {
	byExperience, err := s.profileRepo.CountLearnersByExperience()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	bySkill, err := s.assessmentRepo.CountVerifiedBySkill()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.ProfileStatsResponse{
		LearnersByExperience: byExperience,
		VerifiedBySkill:      bySkill,
	}, nil
}
