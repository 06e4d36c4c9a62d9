package dto

type CreateChallengeRequest struct {
	Skill        string      `json:"skill" validate:"required,is-skill"`
	Title        string      `json:"title" validate:"required,min=5,max=200"`
	Prompt       string      `json:"prompt" validate:"required,min=20"`
	Difficulty   string      `json:"difficulty" validate:"required,oneof=easy medium hard"`
	TestCases    interface{} `json:"test_cases"`
	TimeLimitMin int         `json:"time_limit_minutes" validate:"omitempty,gte=5,lte=240"`
}

type UpdateChallengeRequest struct {
	Title        string      `json:"title" validate:"omitempty,min=5,max=200"`
	Prompt       string      `json:"prompt" validate:"omitempty,min=20"`
	Difficulty   string      `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	TestCases    interface{} `json:"test_cases"`
	TimeLimitMin int         `json:"time_limit_minutes" validate:"omitempty,gte=5,lte=240"`
	Active       *bool       `json:"active"`
}
