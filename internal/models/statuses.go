package models

type UserRole string
type UserStatus string
type ExperienceLevel string
type VendorStatus string
type ProcurementStatus string
type ProcurementCategory string
type BidStatus string
type DocumentStatus string
type AnomalyType string
type AnomalySeverity string
type AnomalyStatus string
type AssessmentStatus string
type JobStatus string
type ApplicationStatus string
type ChallengeDifficulty string

const (
	// Закрытый список ролей. Никаких произвольных строк.
	UserRoleAdmin    UserRole = "admin"
	UserRoleOfficer  UserRole = "procurement_officer"
	UserRoleAuditor  UserRole = "auditor"
	UserRoleVendor   UserRole = "vendor"
	UserRoleCitizen  UserRole = "citizen"
	UserRoleLearner  UserRole = "learner"
	UserRoleEmployer UserRole = "employer"

	UserStatusActive    UserStatus = "active"
	UserStatusInactive  UserStatus = "inactive"
	UserStatusSuspended UserStatus = "suspended"

	ExperienceBeginner     ExperienceLevel = "beginner"
	ExperienceIntermediate ExperienceLevel = "intermediate"
	ExperienceAdvanced     ExperienceLevel = "advanced"

	VendorStatusActive      VendorStatus = "active"
	VendorStatusSuspended   VendorStatus = "suspended"
	VendorStatusBlacklisted VendorStatus = "blacklisted"

	ProcurementDraft           ProcurementStatus = "draft"
	ProcurementPublished       ProcurementStatus = "published"
	ProcurementOpen            ProcurementStatus = "open"
	ProcurementClosed          ProcurementStatus = "closed"
	ProcurementUnderEvaluation ProcurementStatus = "under_evaluation"
	ProcurementAwarded         ProcurementStatus = "awarded"
	ProcurementCancelled       ProcurementStatus = "cancelled"
	ProcurementCompleted       ProcurementStatus = "completed"

	CategoryGoods       ProcurementCategory = "goods"
	CategoryServices    ProcurementCategory = "services"
	CategoryWorks       ProcurementCategory = "works"
	CategoryConsultancy ProcurementCategory = "consultancy"

	BidSubmitted       BidStatus = "submitted"
	BidUnderEvaluation BidStatus = "under_evaluation"
	BidQualified       BidStatus = "qualified"
	BidDisqualified    BidStatus = "disqualified"
	BidAwarded         BidStatus = "awarded"
	BidRejected        BidStatus = "rejected"

	DocumentUploaded DocumentStatus = "uploaded"
	DocumentParsed   DocumentStatus = "parsed"
	DocumentFailed   DocumentStatus = "failed"

	AnomalyPriceAnomaly  AnomalyType = "price_anomaly"
	AnomalyVendorPattern AnomalyType = "vendor_pattern"
	AnomalyTimelineIssue AnomalyType = "timeline_issue"
	AnomalyMissingInfo   AnomalyType = "missing_info"
	AnomalyCompliance    AnomalyType = "compliance"

	SeverityLow    AnomalySeverity = "low"
	SeverityMedium AnomalySeverity = "medium"
	SeverityHigh   AnomalySeverity = "high"

	AnomalyOpen      AnomalyStatus = "open"
	AnomalyReviewing AnomalyStatus = "reviewing"
	AnomalyResolved  AnomalyStatus = "resolved"
	AnomalyDismissed AnomalyStatus = "dismissed"

	AssessmentCreated   AssessmentStatus = "created"
	AssessmentSubmitted AssessmentStatus = "submitted"
	AssessmentCompleted AssessmentStatus = "completed"
	AssessmentFailed    AssessmentStatus = "failed"

	JobDraft   JobStatus = "draft"
	JobActive  JobStatus = "active"
	JobClosed  JobStatus = "closed"
	JobExpired JobStatus = "expired"

	ApplicationPending     ApplicationStatus = "pending"
	ApplicationReviewed    ApplicationStatus = "reviewed"
	ApplicationShortlisted ApplicationStatus = "shortlisted"
	ApplicationRejected    ApplicationStatus = "rejected"
	ApplicationAccepted    ApplicationStatus = "accepted"

	ChallengeEasy   ChallengeDifficulty = "easy"
	ChallengeMedium ChallengeDifficulty = "medium"
	ChallengeHard   ChallengeDifficulty = "hard"
)

// Valid проверяет, что роль входит в закрытый список
func (r UserRole) Valid() bool {
	switch r {
	case UserRoleAdmin, UserRoleOfficer, UserRoleAuditor, UserRoleVendor,
		UserRoleCitizen, UserRoleLearner, UserRoleEmployer:
		return true
	default:
		return false
	}
}

// Rank переводит уровень опыта в числовой ранг для матчинга
func (l ExperienceLevel) Rank() int {
	switch l {
	case ExperienceBeginner:
		return 1
	case ExperienceIntermediate:
		return 2
	case ExperienceAdvanced:
		return 3
	default:
		return 2
	}
}

// --- Машины состояний ---
// Переходы описаны явными таблицами; все изменения статусов
// в сервисах идут только через CanTransitionTo.

var procurementTransitions = map[ProcurementStatus][]ProcurementStatus{
	ProcurementDraft:           {ProcurementPublished, ProcurementCancelled},
	ProcurementPublished:       {ProcurementOpen, ProcurementClosed, ProcurementCancelled},
	ProcurementOpen:            {ProcurementClosed, ProcurementUnderEvaluation, ProcurementCancelled},
	ProcurementClosed:          {ProcurementUnderEvaluation, ProcurementOpen},
	ProcurementUnderEvaluation: {ProcurementAwarded, ProcurementOpen, ProcurementCancelled},
	ProcurementAwarded:         {ProcurementCompleted},
	ProcurementCancelled:       {},
	ProcurementCompleted:       {},
}

func (s ProcurementStatus) CanTransitionTo(next ProcurementStatus) bool {
	for _, allowed := range procurementTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

var jobTransitions = map[JobStatus][]JobStatus{
	JobDraft:   {JobActive, JobClosed},
	JobActive:  {JobClosed, JobExpired},
	JobClosed:  {JobActive},
	JobExpired: {JobActive},
}

func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	for _, allowed := range jobTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationPending:     {ApplicationReviewed, ApplicationShortlisted, ApplicationRejected},
	ApplicationReviewed:    {ApplicationShortlisted, ApplicationRejected},
	ApplicationShortlisted: {ApplicationAccepted, ApplicationRejected},
	ApplicationRejected:    {},
	ApplicationAccepted:    {},
}

func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	for _, allowed := range applicationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsOpenForBidding - в каких статусах закупка принимает заявки
func (s ProcurementStatus) IsOpenForBidding() bool {
	return s == ProcurementPublished || s == ProcurementOpen
}

// IsEvaluable - в каких статусах заявку можно оценивать
func (s BidStatus) IsEvaluable() bool {
	return s == BidSubmitted || s == BidUnderEvaluation
}

// IsScorable - какие заявки участвуют в итоговом ранжировании.
// Присужденная заявка не пересчитывается: award терминален, и повторный
// расчет не должен возвращать ее в qualified
func (s BidStatus) IsScorable() bool {
	return s != BidAwarded && s != BidRejected && s != BidDisqualified
}

// IsDisqualifiable - awarded и rejected заявки дисквалифицировать нельзя:
// award уже каскадно закрыл закупку, и "раз-наградить" через
// дисквалификацию означало бы порчу полей закупки
func (s BidStatus) IsDisqualifiable() bool {
	return s != BidAwarded && s != BidRejected && s != BidDisqualified
}
