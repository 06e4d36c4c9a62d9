package models

import "gorm.io/datatypes"

// Document - файл, прикрепленный к закупке
type Document struct {
	BaseModel
	ProcurementID string         `gorm:"not null;index" json:"procurement_id"`
	UploadedBy    string         `gorm:"not null" json:"uploaded_by"`
	OriginalName  string         `gorm:"not null" json:"original_name"`
	StoredPath    string         `gorm:"not null" json:"-"`
	MimeType      string         `json:"mime_type,omitempty"`
	SizeBytes     int64          `json:"size_bytes"`
	Status        DocumentStatus `gorm:"type:varchar(20);default:'uploaded'" json:"status"`
	// Структурированные поля после AI-парсинга
	ParsedData datatypes.JSON `json:"parsed_data,omitempty"`
}
