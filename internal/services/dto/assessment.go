package dto

import "procurechain_backend/internal/models"

// AssessmentWithChallenge - попытка вместе с условием задачи
type AssessmentWithChallenge struct {
	Assessment *models.SkillAssessment `json:"assessment"`
	Challenge  *models.Challenge       `json:"challenge"`
}

type ListAssessmentsRequest struct {
	UserID   string `form:"user_id" validate:"omitempty,uuid"`
	Skill    string `form:"skill" validate:"omitempty,is-skill"`
	Status   string `form:"status" validate:"omitempty,oneof=created submitted completed failed"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

type CreateAssessmentRequest struct {
	Skill string `json:"skill" validate:"required,is-skill"`
}

type SubmitAssessmentRequest struct {
	Code     string `json:"code" validate:"required,min=10"`
	Language string `json:"language" validate:"required,min=1,max=40"`
}

type SkillStatisticsResponse struct {
	Skill        string  `json:"skill"`
	Attempts     int64   `json:"attempts"`
	Completions  int64   `json:"completions"`
	AverageScore float64 `json:"average_score"`
}

type LeaderboardEntry struct {
	UserID   string  `json:"user_id"`
	FullName string  `json:"full_name"`
	Skill    string  `json:"skill"`
	Score    float64 `json:"score"`
}

type MySkillsResponse struct {
	Active  interface{} `json:"active"`
	Expired interface{} `json:"expired"`
}
