package dto

import "time"

type CreateJobRequest struct {
	Title           string   `json:"title" validate:"required,min=5,max=200"`
	Description     string   `json:"description" validate:"required,min=20"`
	RequiredSkills  []string `json:"required_skills" validate:"required,min=1,dive,min=1"`
	ExperienceLevel string   `json:"experience_level" validate:"required,is-experience-level"`
	Location        string   `json:"location" validate:"omitempty,max=120"`
	Remote          bool     `json:"remote"`
	SalaryMin       float64  `json:"salary_min" validate:"omitempty,gte=0"`
	SalaryMax       float64  `json:"salary_max" validate:"omitempty,gte=0"`
}

type UpdateJobRequest struct {
	Title           string     `json:"title" validate:"omitempty,min=5,max=200"`
	Description     string     `json:"description" validate:"omitempty,min=20"`
	RequiredSkills  []string   `json:"required_skills" validate:"omitempty,min=1,dive,min=1"`
	ExperienceLevel string     `json:"experience_level" validate:"omitempty,is-experience-level"`
	Location        string     `json:"location" validate:"omitempty,max=120"`
	Remote          *bool      `json:"remote"`
	SalaryMin       *float64   `json:"salary_min" validate:"omitempty,gte=0"`
	SalaryMax       *float64   `json:"salary_max" validate:"omitempty,gte=0"`
	Status          string     `json:"status" validate:"omitempty,oneof=draft active closed expired"`
	ExpiresAt       *time.Time `json:"expires_at"`
}

type BrowseJobsRequest struct {
	Skill           string `form:"skill"`
	Location        string `form:"location"`
	ExperienceLevel string `form:"experience_level" validate:"omitempty,is-experience-level"`
	Remote          *bool  `form:"remote"`
	Search          string `form:"search"`
	Page            int    `form:"page"`
	PageSize        int    `form:"page_size"`
}

type JobStatsResponse struct {
	TotalPostings     int64            `json:"total_postings"`
	ByStatus          map[string]int64 `json:"by_status"`
	TotalViews        int64            `json:"total_views"`
	TotalApplications int64            `json:"total_applications"`
}
