package services

import (
	"context"
	"math"
	"strings"
	"time"

	"procurechain_backend/internal/models"
	"procurechain_backend/internal/repositories"
	"procurechain_backend/internal/services/dto"
)

// Весовые коэффициенты скоринга кандидата
const (
	weightSkillMatch  = 0.6
	weightExperience  = 0.2
	weightFreshness   = 0.1
	weightPerformance = 0.1
)

type MatchingService interface {
	CalculateMatchScore(ctx context.Context, learnerUserID string, job *models.JobPosting) (*dto.MatchBreakdown, error)
}

type MatchingServiceImpl struct {
	profileRepo    repositories.ProfileRepository
	assessmentRepo repositories.AssessmentRepository
}

func NewMatchingService(
	profileRepo repositories.ProfileRepository,
	assessmentRepo repositories.AssessmentRepository,
) MatchingService {
	return &MatchingServiceImpl{
		profileRepo:    profileRepo,
		assessmentRepo: assessmentRepo,
	}
}

// CalculateMatchScore считает соответствие соискателя вакансии.
// Итог: 60% покрытие требуемых навыков, 20% соответствие уровня опыта,
// 10% свежесть релевантных кредитов, 10% средний балл по всем активным
// навыкам. Вакансия без требуемых навыков дает нулевой результат,
// иначе любой кандидат получал бы фиктивные 100% покрытия.
func (s *MatchingServiceImpl) CalculateMatchScore(ctx context.Context, learnerUserID string, job *models.JobPosting) (*dto.MatchBreakdown, error) {
	requiredSkills := job.GetRequiredSkills()
	if len(requiredSkills) == 0 {
		return &dto.MatchBreakdown{
			MatchScore:    0,
			SubScores:     map[string]float64{},
			MatchedSkills: []string{},
			MissingSkills: []string{},
		}, nil
	}

	verifiedSkills, err := s.assessmentRepo.FindActiveVerifiedSkillsByUser(learnerUserID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	active := make([]models.VerifiedSkill, 0, len(verifiedSkills))
	for _, vs := range verifiedSkills {
		if vs.IsUsable(now) {
			active = append(active, vs)
		}
	}

	skillMatch, matched, missing := s.skillMatchScore(requiredSkills, active)
	experienceMatch := s.experienceMatchScore(learnerUserID, job.ExperienceLevel)
	freshness := s.freshnessScore(requiredSkills, active, now)
	performance := s.performanceScore(active)

	total := weightSkillMatch*skillMatch +
		weightExperience*experienceMatch +
		weightFreshness*freshness +
		weightPerformance*performance

	return &dto.MatchBreakdown{
		MatchScore: round1(total),
		SubScores: map[string]float64{
			"skill_match":       round1(skillMatch),
			"experience_match":  round1(experienceMatch),
			"freshness_score":   round1(freshness),
			"performance_score": round1(performance),
		},
		MatchedSkills: matched,
		MissingSkills: missing,
	}, nil
}

// skillMatchScore - процент требуемых навыков, подтвержденных активными
// кредитами. Сравнение регистронезависимое.
func (s *MatchingServiceImpl) skillMatchScore(required []string, active []models.VerifiedSkill) (float64, []string, []string) {
	owned := make(map[string]bool, len(active))
	for _, vs := range active {
		owned[strings.ToLower(vs.Skill)] = true
	}

	matched := make([]string, 0, len(required))
	missing := make([]string, 0)
	for _, skill := range required {
		if owned[strings.ToLower(skill)] {
			matched = append(matched, skill)
		} else {
			missing = append(missing, skill)
		}
	}

	score := float64(len(matched)) / float64(len(required)) * 100
	return score, matched, missing
}

// experienceMatchScore сравнивает уровень соискателя с требуемым:
// совпадение 100, разница в ступень 70, в две ступени 40.
// Без профиля соискателя возвращается нейтральные 50.
func (s *MatchingServiceImpl) experienceMatchScore(learnerUserID string, required models.ExperienceLevel) float64 {
	profile, err := s.profileRepo.FindLearnerProfileByUserID(learnerUserID)
	if err != nil || profile == nil {
		return 50
	}

	learnerRank := profile.ExperienceLevel.Rank()
	requiredRank := required.Rank()

	switch diff := abs(learnerRank - requiredRank); diff {
	case 0:
		return 100
	case 1:
		return 70
	default:
		return 40
	}
}

// freshnessScore усредняет свежесть кредитов по навыкам, которые
// одновременно активны и требуются вакансией.
func (s *MatchingServiceImpl) freshnessScore(required []string, active []models.VerifiedSkill, now time.Time) float64 {
	requiredSet := make(map[string]bool, len(required))
	for _, skill := range required {
		requiredSet[strings.ToLower(skill)] = true
	}

	var sum float64
	var count int
	for _, vs := range active {
		if !requiredSet[strings.ToLower(vs.Skill)] {
			continue
		}
		count++
		if vs.VerifiedAt.IsZero() {
			sum += 50
			continue
		}
		age := now.Sub(vs.VerifiedAt)
		switch {
		case age <= 30*24*time.Hour:
			sum += 100
		case age <= 90*24*time.Hour:
			sum += 75
		default:
			sum += 50
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// performanceScore - средний балл по всем активным кредитам,
// не ограничиваясь требованиями вакансии.
func (s *MatchingServiceImpl) performanceScore(active []models.VerifiedSkill) float64 {
	if len(active) == 0 {
		return 0
	}
	var sum float64
	for _, vs := range active {
		sum += vs.Score
	}
	return sum / float64(len(active))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
