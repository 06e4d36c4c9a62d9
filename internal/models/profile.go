package models

import (
	"time"

	"gorm.io/datatypes"
)

// LearnerProfile - профиль соискателя (одна запись на пользователя)
type LearnerProfile struct {
	BaseModel
	UserID          string          `gorm:"not null;uniqueIndex" json:"user_id"`
	Bio             string          `json:"bio,omitempty"`
	ExperienceLevel ExperienceLevel `gorm:"type:varchar(20);default:'beginner'" json:"experience_level"`
	Location        string          `json:"location,omitempty"`
	Education       string          `json:"education,omitempty"`
	Links           datatypes.JSON  `json:"links,omitempty"`
	// История занятости: [{company, title, from, to, description}]
	EmploymentHistory datatypes.JSON `json:"employment_history,omitempty"`
}

// EmployerProfile - профиль работодателя
type EmployerProfile struct {
	BaseModel
	UserID      string `gorm:"not null;uniqueIndex" json:"user_id"`
	CompanyName string `json:"company_name,omitempty"`
	Industry    string `json:"industry,omitempty"`
	Website     string `json:"website,omitempty"`
	Description string `json:"description,omitempty"`
	IsVerified  bool   `gorm:"default:false" json:"is_verified"`
}

// EmploymentEntry - элемент истории занятости в JSON-колонке
type EmploymentEntry struct {
	Company     string     `json:"company"`
	Title       string     `json:"title"`
	From        *time.Time `json:"from,omitempty"`
	To          *time.Time `json:"to,omitempty"`
	Description string     `json:"description,omitempty"`
}
