package dto

import "procurechain_backend/internal/models"

type ApplyRequest struct {
	JobID       string `json:"job_id" validate:"required,uuid"`
	CoverLetter string `json:"cover_letter" validate:"omitempty,max=5000"`
}

type UpdateApplicationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=reviewed shortlisted rejected accepted"`
}

// MatchBreakdown - развернутый результат скоринга кандидата
type MatchBreakdown struct {
	MatchScore    float64            `json:"match_score"`
	SubScores     map[string]float64 `json:"sub_scores"`
	MatchedSkills []string           `json:"matched_skills"`
	MissingSkills []string           `json:"missing_skills"`
}

type ApplicationWithMatch struct {
	Application *models.Application `json:"application"`
	Applicant   models.SafeUser     `json:"applicant"`
	Match       *MatchBreakdown     `json:"match"`
}

type ApplicationWithJob struct {
	Application *models.Application `json:"application"`
	Job         *models.JobPosting  `json:"job,omitempty"`
}

type MatchedJob struct {
	Job   *models.JobPosting `json:"job"`
	Match *MatchBreakdown    `json:"match"`
}
