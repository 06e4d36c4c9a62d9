package models

import "gorm.io/datatypes"

// Anomaly - зафиксированная аномалия по закупке (AI или вручную)
type Anomaly struct {
	BaseModel
	ProcurementID string          `gorm:"not null;index" json:"procurement_id"`
	AnomalyType   AnomalyType     `gorm:"type:varchar(30);not null;index" json:"anomaly_type"`
	Severity      AnomalySeverity `gorm:"type:varchar(10);not null;index" json:"severity"`
	RiskScore     float64         `json:"risk_score"`
	Description   string          `json:"description,omitempty"`
	Evidence      datatypes.JSON  `json:"evidence,omitempty"`

	// "ai" либо id пользователя, отметившего вручную
	FlaggedBy string        `json:"flagged_by,omitempty"`
	Status    AnomalyStatus `gorm:"type:varchar(20);default:'open';index" json:"status"`

	ResolutionNotes string  `json:"resolution_notes,omitempty"`
	ResolvedBy      *string `json:"resolved_by,omitempty"`
}
