package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"procurechain_backend/internal/models"
	"procurechain_backend/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProfileRepo struct {
	repositories.ProfileRepository
	learner *models.LearnerProfile
}

func (s *stubProfileRepo) FindLearnerProfileByUserID(userID string) (*models.LearnerProfile, error) {
	if s.learner == nil {
		return nil, errors.New("learner profile not found")
	}
	return s.learner, nil
}

type stubAssessmentRepo struct {
	repositories.AssessmentRepository
	skills []models.VerifiedSkill
}

func (s *stubAssessmentRepo) FindActiveVerifiedSkillsByUser(userID string) ([]models.VerifiedSkill, error) {
	return s.skills, nil
}

func newTestMatchingService(learner *models.LearnerProfile, skills []models.VerifiedSkill) MatchingService {
	return NewMatchingService(
		&stubProfileRepo{learner: learner},
		&stubAssessmentRepo{skills: skills},
	)
}

func activeSkill(skill string, score float64, verifiedDaysAgo int) models.VerifiedSkill {
	verifiedAt := time.Now().AddDate(0, 0, -verifiedDaysAgo)
	return models.VerifiedSkill{
		Skill:      skill,
		Score:      score,
		VerifiedAt: verifiedAt,
		ExpiresAt:  verifiedAt.AddDate(1, 0, 0),
		Active:     true,
	}
}

func jobWithSkills(t *testing.T, level models.ExperienceLevel, skills ...string) *models.JobPosting {
	t.Helper()
	job := &models.JobPosting{ExperienceLevel: level}
	require.NoError(t, job.SetRequiredSkills(skills))
	return job
}

// Сквозной разбор: половина навыков покрыта, уровни равны,
// кредиты свежие -> 50*0.6 + 100*0.2 + 100*0.1 + 85*0.1 = 68.5
func TestCalculateMatchScore_WorkedExample(t *testing.T) {
	svc := newTestMatchingService(
		&models.LearnerProfile{ExperienceLevel: models.ExperienceIntermediate},
		[]models.VerifiedSkill{
			activeSkill("react", 80, 10),
			activeSkill("sql", 90, 5),
		},
	)

	job := jobWithSkills(t, models.ExperienceIntermediate, "react", "python")
	match, err := svc.CalculateMatchScore(context.Background(), "learner-1", job)
	require.NoError(t, err)

	assert.Equal(t, 68.5, match.MatchScore)
	assert.Equal(t, 50.0, match.SubScores["skill_match"])
	assert.Equal(t, 100.0, match.SubScores["experience_match"])
	assert.Equal(t, 100.0, match.SubScores["freshness_score"])
	assert.Equal(t, 85.0, match.SubScores["performance_score"])
	assert.Equal(t, []string{"react"}, match.MatchedSkills)
	assert.Equal(t, []string{"python"}, match.MissingSkills)
}

func TestCalculateMatchScore_NoRequiredSkills(t *testing.T) {
	svc := newTestMatchingService(
		&models.LearnerProfile{ExperienceLevel: models.ExperienceAdvanced},
		[]models.VerifiedSkill{activeSkill("golang", 100, 1)},
	)

	match, err := svc.CalculateMatchScore(context.Background(), "learner-1", &models.JobPosting{})
	require.NoError(t, err)
	assert.Equal(t, 0.0, match.MatchScore, "Job without required skills never matches")
	assert.Empty(t, match.MatchedSkills)
	assert.Empty(t, match.MissingSkills)
}

func TestCalculateMatchScore_SupersetGivesFullSkillMatch(t *testing.T) {
	svc := newTestMatchingService(
		&models.LearnerProfile{ExperienceLevel: models.ExperienceIntermediate},
		[]models.VerifiedSkill{
			activeSkill("golang", 90, 2),
			activeSkill("sql", 85, 2),
			activeSkill("react", 70, 2),
		},
	)

	job := jobWithSkills(t, models.ExperienceIntermediate, "golang", "sql")
	match, err := svc.CalculateMatchScore(context.Background(), "learner-1", job)
	require.NoError(t, err)

	assert.Equal(t, 100.0, match.SubScores["skill_match"])
	assert.Empty(t, match.MissingSkills)
}

func TestCalculateMatchScore_NoActiveSkills(t *testing.T) {
	svc := newTestMatchingService(
		&models.LearnerProfile{ExperienceLevel: models.ExperienceIntermediate},
		nil,
	)

	job := jobWithSkills(t, models.ExperienceIntermediate, "golang")
	match, err := svc.CalculateMatchScore(context.Background(), "learner-1", job)
	require.NoError(t, err)

	assert.Equal(t, 0.0, match.SubScores["skill_match"])
	assert.Equal(t, 0.0, match.SubScores["freshness_score"])
	assert.Equal(t, 0.0, match.SubScores["performance_score"])
	// Остается только вклад уровня опыта
	assert.Equal(t, 20.0, match.MatchScore)
}

// Просроченные и деактивированные кредиты в матчинге не участвуют
func TestCalculateMatchScore_ExpiredSkillsExcluded(t *testing.T) {
	expired := activeSkill("golang", 95, 400)
	expired.ExpiresAt = time.Now().AddDate(0, 0, -10)
	inactive := activeSkill("sql", 88, 5)
	inactive.Active = false

	svc := newTestMatchingService(
		&models.LearnerProfile{ExperienceLevel: models.ExperienceIntermediate},
		[]models.VerifiedSkill{expired, inactive},
	)

	job := jobWithSkills(t, models.ExperienceIntermediate, "golang", "sql")
	match, err := svc.CalculateMatchScore(context.Background(), "learner-1", job)
	require.NoError(t, err)

	assert.Equal(t, 0.0, match.SubScores["skill_match"])
	assert.ElementsMatch(t, []string{"golang", "sql"}, match.MissingSkills)
}

func TestCalculateMatchScore_CaseInsensitive(t *testing.T) {
	svc := newTestMatchingService(
		&models.LearnerProfile{ExperienceLevel: models.ExperienceIntermediate},
		[]models.VerifiedSkill{activeSkill("GoLang", 90, 3)},
	)

	job := jobWithSkills(t, models.ExperienceIntermediate, "golang")
	match, err := svc.CalculateMatchScore(context.Background(), "learner-1", job)
	require.NoError(t, err)

	assert.Equal(t, 100.0, match.SubScores["skill_match"])
}

// Разница уровней симметрична: совпадение 100, ступень 70, две ступени 40
func TestCalculateMatchScore_ExperienceGap(t *testing.T) {
	cases := []struct {
		name     string
		learner  models.ExperienceLevel
		required models.ExperienceLevel
		want     float64
	}{
		{"equal", models.ExperienceIntermediate, models.ExperienceIntermediate, 100},
		{"learner one below", models.ExperienceBeginner, models.ExperienceIntermediate, 70},
		{"learner one above", models.ExperienceAdvanced, models.ExperienceIntermediate, 70},
		{"two levels below", models.ExperienceBeginner, models.ExperienceAdvanced, 40},
		{"two levels above", models.ExperienceAdvanced, models.ExperienceBeginner, 40},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestMatchingService(
				&models.LearnerProfile{ExperienceLevel: tc.learner},
				[]models.VerifiedSkill{activeSkill("golang", 80, 5)},
			)
			job := jobWithSkills(t, tc.required, "golang")

			match, err := svc.CalculateMatchScore(context.Background(), "learner-1", job)
			require.NoError(t, err)
			assert.Equal(t, tc.want, match.SubScores["experience_match"])
		})
	}
}

// Без профиля соискателя уровень считается нейтральным (50)
func TestCalculateMatchScore_MissingProfile(t *testing.T) {
	svc := newTestMatchingService(nil, []models.VerifiedSkill{activeSkill("golang", 80, 5)})

	job := jobWithSkills(t, models.ExperienceAdvanced, "golang")
	match, err := svc.CalculateMatchScore(context.Background(), "learner-1", job)
	require.NoError(t, err)
	assert.Equal(t, 50.0, match.SubScores["experience_match"])
}

// Свежесть деградирует ступенями: до 30 дней 100, до 90 дней 75, дальше 50
func TestCalculateMatchScore_FreshnessBuckets(t *testing.T) {
	cases := []struct {
		name    string
		daysAgo int
		want    float64
	}{
		{"fresh", 10, 100},
		{"aging", 60, 75},
		{"stale", 200, 50},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			skill := activeSkill("golang", 80, tc.daysAgo)
			skill.ExpiresAt = time.Now().AddDate(1, 0, 0)
			svc := newTestMatchingService(
				&models.LearnerProfile{ExperienceLevel: models.ExperienceIntermediate},
				[]models.VerifiedSkill{skill},
			)
			job := jobWithSkills(t, models.ExperienceIntermediate, "golang")

			match, err := svc.CalculateMatchScore(context.Background(), "learner-1", job)
			require.NoError(t, err)
			assert.Equal(t, tc.want, match.SubScores["freshness_score"])
		})
	}
}
