package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Периоды устаревания навыков в днях: быстро меняющиеся стеки
// истекают раньше, стабильные - позже
var skillDecayDays = map[string]int{
	"react":      730,
	"python":     1095,
	"javascript": 730,
	"nodejs":     730,
	"sql":        1460,
	"java":       1460,
	"golang":     1095,
	"cpp":        1460,
}

const defaultDecayDays = 730

// SupportedSkills возвращает закрытый каталог навыков
func SupportedSkills() []string {
	return []string{"react", "python", "javascript", "nodejs", "sql", "java", "golang", "cpp"}
}

func IsSupportedSkill(skill string) bool {
	_, ok := skillDecayDays[strings.ToLower(skill)]
	return ok
}

// SkillExpiry вычисляет срок действия кредита по навыку
func SkillExpiry(skill string, verifiedAt time.Time) time.Time {
	days, ok := skillDecayDays[strings.ToLower(skill)]
	if !ok {
		days = defaultDecayDays
	}
	return verifiedAt.AddDate(0, 0, days)
}

// SkillAssessment - попытка прохождения оценки по навыку
type SkillAssessment struct {
	BaseModel
	UserID         string           `gorm:"not null;index" json:"user_id"`
	Skill          string           `gorm:"type:varchar(30);not null;index" json:"skill"`
	ChallengeID    string           `gorm:"not null" json:"challenge_id"`
	Status         AssessmentStatus `gorm:"type:varchar(20);default:'created';index" json:"status"`
	Language       string           `json:"language,omitempty"`
	CodeSubmission string           `json:"code_submission,omitempty"`
	AIAnalysis     datatypes.JSON   `json:"ai_analysis,omitempty"`
	Score          *float64         `json:"score,omitempty"`
	TimeLimitMin   int              `json:"time_limit_minutes,omitempty"`
	StartedAt      time.Time        `gorm:"not null" json:"started_at"`
	SubmittedAt    *time.Time       `json:"submitted_at,omitempty"`
}

// VerifiedSkill - выданный кредит. Один на пару (user, skill) -
// повторная оценка заменяет запись, уникальность на уровне хранилища.
type VerifiedSkill struct {
	BaseModel
	UserID       string    `gorm:"not null;index;uniqueIndex:idx_verified_skill_user" json:"user_id"`
	Skill        string    `gorm:"type:varchar(30);not null;uniqueIndex:idx_verified_skill_user" json:"skill"`
	Score        float64   `gorm:"not null" json:"score"`
	VerifiedAt   time.Time `gorm:"not null" json:"verified_at"`
	ExpiresAt    time.Time `gorm:"not null" json:"expires_at"`
	Active       bool      `gorm:"default:true;index" json:"active"`
	AssessmentID string    `json:"assessment_id,omitempty"`
}

// IsExpired - записи с истекшим сроком не участвуют в скоринге
// независимо от флага Active в хранилище
func (s *VerifiedSkill) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// IsUsable - учитывается ли навык в матчинге
func (s *VerifiedSkill) IsUsable(now time.Time) bool {
	return s.Active && !s.IsExpired(now)
}
