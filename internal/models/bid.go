package models

import (
	"time"

	"gorm.io/datatypes"
)

// Bid - заявка поставщика на закупку.
// Уникальность (procurement_id, vendor_id) обеспечивается составным
// индексом на уровне хранилища: это закрывает гонку двойной подачи,
// а не предварительная проверка в сервисе.
type Bid struct {
	BaseModel
	ProcurementID string  `gorm:"not null;index;uniqueIndex:idx_bid_vendor_procurement" json:"procurement_id"`
	VendorID      string  `gorm:"not null;index;uniqueIndex:idx_bid_vendor_procurement" json:"vendor_id"`
	Amount        float64 `gorm:"not null" json:"bid_amount"`
	Currency      string  `gorm:"type:varchar(3);default:'KES'" json:"currency"`

	DeliveryTimeline string         `gorm:"not null" json:"delivery_timeline"`
	ProposalSummary  string         `json:"proposal_summary,omitempty"`
	DocumentRefs     datatypes.JSON `json:"document_refs,omitempty"`
	BidValidityDays  int            `gorm:"default:90" json:"bid_validity_days"`

	Status                 BidStatus  `gorm:"type:varchar(20);default:'submitted';index" json:"status"`
	TotalScore             *float64   `json:"total_score,omitempty"`
	Rank                   *int       `json:"rank,omitempty"`
	DisqualificationReason string     `json:"disqualification_reason,omitempty"`
	DisqualifiedBy         *string    `json:"disqualified_by,omitempty"`
	EvaluatedAt            *time.Time `json:"evaluated_at,omitempty"`

	SubmittedAt   time.Time  `gorm:"not null" json:"submitted_at"`
	AwardedAt     *time.Time `json:"awarded_at,omitempty"`
	AwardedAmount *float64   `json:"awarded_amount,omitempty"`
	AwardNotes    string     `json:"award_notes,omitempty"`

	Evaluations []Evaluation `gorm:"foreignKey:BidID" json:"evaluations,omitempty"`

	// Обогащение при выдаче, не колонки
	VendorName       string `gorm:"-" json:"vendor_name,omitempty"`
	ProcurementTitle string `gorm:"-" json:"procurement_title,omitempty"`
}

// Evaluation - оценка одного оценщика. Один оценщик - одна оценка на
// заявку, уникальность тоже на уровне хранилища.
type Evaluation struct {
	BaseModel
	BidID          string    `gorm:"not null;index;uniqueIndex:idx_evaluation_bid_evaluator" json:"bid_id"`
	EvaluatorID    string    `gorm:"not null;uniqueIndex:idx_evaluation_bid_evaluator" json:"evaluator_id"`
	EvaluatorName  string    `json:"evaluator_name,omitempty"`
	TechnicalScore float64   `gorm:"not null" json:"technical_score"`
	FinancialScore float64   `gorm:"not null" json:"financial_score"`
	TotalScore     float64   `gorm:"not null" json:"total_score"`
	Comments       string    `json:"comments,omitempty"`
	EvaluatedAt    time.Time `gorm:"not null" json:"evaluated_at"`
}
