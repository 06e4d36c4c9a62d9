package models

import (
	"time"

	"gorm.io/datatypes"
)

// Procurement - государственная закупка (тендер)
type Procurement struct {
	BaseModel
	Title              string              `gorm:"not null" json:"title"`
	Description        string              `json:"description,omitempty"`
	Category           ProcurementCategory `gorm:"type:varchar(20);not null" json:"category"`
	Department         string              `json:"department,omitempty"`
	Budget             float64             `gorm:"not null" json:"budget"`
	Currency           string              `gorm:"type:varchar(3);default:'KES'" json:"currency"`
	SubmissionDeadline *time.Time          `json:"submission_deadline,omitempty"`
	Status             ProcurementStatus   `gorm:"type:varchar(20);default:'draft';index" json:"status"`
	CreatedBy          string              `gorm:"not null;index" json:"created_by"`

	BidsCount int `gorm:"default:0" json:"bids_count"`

	// Поля награждения, заполняются при award
	AwardedVendorID *string    `json:"awarded_vendor_id,omitempty"`
	AwardedAmount   *float64   `json:"awarded_amount,omitempty"`
	AwardedAt       *time.Time `json:"awarded_at,omitempty"`

	// Метаданные: risk_score, ai_summary
	Metadata datatypes.JSON `json:"metadata,omitempty"`
}

// PublicView скрывает внутренние поля для неаутентифицированного доступа
type PublicProcurement struct {
	ID                 string              `json:"id"`
	Title              string              `json:"title"`
	Description        string              `json:"description,omitempty"`
	Category           ProcurementCategory `json:"category"`
	Department         string              `json:"department,omitempty"`
	Budget             float64             `json:"budget"`
	Currency           string              `json:"currency"`
	SubmissionDeadline *time.Time          `json:"submission_deadline,omitempty"`
	Status             ProcurementStatus   `json:"status"`
	BidsCount          int                 `json:"bids_count"`
	AwardedAmount      *float64            `json:"awarded_amount,omitempty"`
	AwardedAt          *time.Time          `json:"awarded_at,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
}

func (p *Procurement) PublicView() *PublicProcurement {
	return &PublicProcurement{
		ID:                 p.ID,
		Title:              p.Title,
		Description:        p.Description,
		Category:           p.Category,
		Department:         p.Department,
		Budget:             p.Budget,
		Currency:           p.Currency,
		SubmissionDeadline: p.SubmissionDeadline,
		Status:             p.Status,
		BidsCount:          p.BidsCount,
		AwardedAmount:      p.AwardedAmount,
		AwardedAt:          p.AwardedAt,
		CreatedAt:          p.CreatedAt,
	}
}

// IsPubliclyVisible - закупка видна публично начиная с published
func (p *Procurement) IsPubliclyVisible() bool {
	return p.Status != ProcurementDraft
}
