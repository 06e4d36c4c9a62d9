package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AuditEventType string
type AuditSeverity string

const (
	AuditAuthentication AuditEventType = "authentication"
	AuditDataChange     AuditEventType = "data_change"
	AuditSecurity       AuditEventType = "security"
	AuditAI             AuditEventType = "ai"

	AuditInfo     AuditSeverity = "info"
	AuditWarning  AuditSeverity = "warning"
	AuditCritical AuditSeverity = "critical"
)

// AuditLog - запись аудита. Пишется сервисом аудита и никогда
// не блокирует основной запрос.
type AuditLog struct {
	ID           string         `gorm:"type:uuid;primaryKey" json:"id"`
	EventType    AuditEventType `gorm:"type:varchar(20);not null;index" json:"event_type"`
	Action       string         `gorm:"not null;index" json:"action"`
	Severity     AuditSeverity  `gorm:"type:varchar(10);default:'info';index" json:"severity"`
	UserID       string         `gorm:"index" json:"user_id,omitempty"`
	UserEmail    string         `json:"user_email,omitempty"`
	ResourceType string         `gorm:"index" json:"resource_type,omitempty"`
	ResourceID   string         `gorm:"index" json:"resource_id,omitempty"`
	ResourceName string         `json:"resource_name,omitempty"`
	Changes      datatypes.JSON `json:"changes,omitempty"`
	Metadata     datatypes.JSON `json:"metadata,omitempty"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
}

func (l *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// RequestLog - строка для rate limit: счет запросов в окне по идентификатору
type RequestLog struct {
	ID         uint      `gorm:"primaryKey"`
	Identifier string    `gorm:"not null;index:idx_request_log_window"`
	Endpoint   string    `gorm:"not null"`
	CreatedAt  time.Time `gorm:"index:idx_request_log_window"`
}
