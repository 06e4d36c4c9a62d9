package models

import "gorm.io/datatypes"

// Challenge - задача из каталога для оценки навыка
type Challenge struct {
	BaseModel
	Skill        string              `gorm:"type:varchar(30);not null;index" json:"skill"`
	Title        string              `gorm:"not null" json:"title"`
	Prompt       string              `gorm:"not null" json:"prompt"`
	Difficulty   ChallengeDifficulty `gorm:"type:varchar(10);default:'medium'" json:"difficulty"`
	TestCases    datatypes.JSON      `json:"test_cases,omitempty"`
	TimeLimitMin int                 `gorm:"default:60" json:"time_limit_minutes"`
	Active       bool                `gorm:"default:true;index" json:"active"`
	CreatedBy    string              `json:"created_by,omitempty"`
}
