package services

import (
	"procurechain_backend/internal/ai"
	"procurechain_backend/internal/cache"
	"procurechain_backend/internal/config"
	"procurechain_backend/internal/email"
	"procurechain_backend/internal/repositories"

	"gorm.io/gorm"
)

// ServiceContainer собирает весь граф сервисов. Репозитории и внешние
// клиенты создаются здесь один раз и раздаются конструкторам.
type ServiceContainer struct {
	Auth         AuthService
	Users        UserService
	Profiles     ProfileService
	Vendors      VendorService
	Procurements ProcurementService
	Documents    DocumentService
	Bids         BidService
	Anomalies    AnomalyService
	AI           AIService
	Assessments  AssessmentService
	Challenges   ChallengeService
	Jobs         JobPostingService
	Applications ApplicationService
	Analytics    AnalyticsService
	Audit        AuditService

	RequestLogs repositories.RequestLogRepository
}

func NewServiceContainer(
	db *gorm.DB,
	cfg *config.Config,
	aiClient *ai.Client,
	cacheStore cache.Cache,
	emailProvider email.Provider,
) *ServiceContainer {
	userRepo := repositories.NewUserRepository(db)
	profileRepo := repositories.NewProfileRepository(db)
	vendorRepo := repositories.NewVendorRepository(db)
	procurementRepo := repositories.NewProcurementRepository(db)
	documentRepo := repositories.NewDocumentRepository(db)
	bidRepo := repositories.NewBidRepository(db)
	anomalyRepo := repositories.NewAnomalyRepository(db)
	assessmentRepo := repositories.NewAssessmentRepository(db)
	challengeRepo := repositories.NewChallengeRepository(db)
	jobRepo := repositories.NewJobRepository(db)
	auditRepo := repositories.NewAuditRepository(db)
	analyticsRepo := repositories.NewAnalyticsRepository(db)
	requestLogRepo := repositories.NewRequestLogRepository(db)

	auditService := NewAuditService(auditRepo)
	notificationService := NewNotificationService(emailProvider)
	aiService := NewAIService(aiClient, cacheStore, cfg, procurementRepo, anomalyRepo, auditService)
	matchingService := NewMatchingService(profileRepo, assessmentRepo)

	return &ServiceContainer{
		Auth:         NewAuthService(userRepo, profileRepo, auditService, notificationService),
		Users:        NewUserService(userRepo, auditService),
		Profiles:     NewProfileService(profileRepo, userRepo, assessmentRepo),
		Vendors:      NewVendorService(vendorRepo, bidRepo, auditService),
		Procurements: NewProcurementService(procurementRepo, bidRepo, auditService),
		Documents:    NewDocumentService(documentRepo, procurementRepo, aiService, auditService, cfg),
		Bids:         NewBidService(bidRepo, procurementRepo, vendorRepo, userRepo, auditService, notificationService),
		Anomalies:    NewAnomalyService(anomalyRepo, procurementRepo, bidRepo, vendorRepo, aiService, auditService),
		AI:           aiService,
		Assessments:  NewAssessmentService(assessmentRepo, challengeRepo, userRepo, aiService, notificationService, auditService),
		Challenges:   NewChallengeService(challengeRepo, assessmentRepo, auditService),
		Jobs:         NewJobPostingService(jobRepo, auditService),
		Applications: NewApplicationService(jobRepo, userRepo, matchingService, auditService),
		Analytics: NewAnalyticsService(analyticsRepo, procurementRepo, bidRepo, vendorRepo,
			anomalyRepo, assessmentRepo, jobRepo, auditRepo, cacheStore, cfg),
		Audit: auditService,

		RequestLogs: requestLogRepo,
	}
}
