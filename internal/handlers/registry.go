package handlers

import (
	"procurechain_backend/internal/cache"
	"procurechain_backend/internal/config"
	"procurechain_backend/internal/services"
	"procurechain_backend/internal/validator"

	"gorm.io/gorm"
)

// AppHandlers содержит все хэндлеры приложения
type AppHandlers struct {
	AuthHandler        *AuthHandler
	UserHandler        *UserHandler
	ProfileHandler     *ProfileHandler
	VendorHandler      *VendorHandler
	ProcurementHandler *ProcurementHandler
	DocumentHandler    *DocumentHandler
	BidHandler         *BidHandler
	AnomalyHandler     *AnomalyHandler
	AIHandler          *AIHandler
	AssessmentHandler  *AssessmentHandler
	ChallengeHandler   *ChallengeHandler
	JobHandler         *JobHandler
	ApplicationHandler *ApplicationHandler
	AnalyticsHandler   *AnalyticsHandler
	AuditHandler       *AuditHandler
	HealthHandler      *HealthHandler
}

func NewAppHandlers(
	container *services.ServiceContainer,
	db *gorm.DB,
	cacheStore cache.Cache,
	cfg *config.Config,
) *AppHandlers {
	base := NewBaseHandler(validator.New())

	return &AppHandlers{
		AuthHandler:        NewAuthHandler(base, container.Auth),
		UserHandler:        NewUserHandler(base, container.Users),
		ProfileHandler:     NewProfileHandler(base, container.Profiles),
		VendorHandler:      NewVendorHandler(base, container.Vendors),
		ProcurementHandler: NewProcurementHandler(base, container.Procurements),
		DocumentHandler:    NewDocumentHandler(base, container.Documents),
		BidHandler:         NewBidHandler(base, container.Bids, container.Users),
		AnomalyHandler:     NewAnomalyHandler(base, container.Anomalies),
		AIHandler:          NewAIHandler(base, container.AI),
		AssessmentHandler:  NewAssessmentHandler(base, container.Assessments),
		ChallengeHandler:   NewChallengeHandler(base, container.Challenges),
		JobHandler:         NewJobHandler(base, container.Jobs),
		ApplicationHandler: NewApplicationHandler(base, container.Applications),
		AnalyticsHandler:   NewAnalyticsHandler(base, container.Analytics),
		AuditHandler:       NewAuditHandler(base, container.Audit),
		HealthHandler:      NewHealthHandler(db, cacheStore, cfg),
	}
}
