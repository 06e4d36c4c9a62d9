package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"procurechain_backend/internal/logger"
	"procurechain_backend/internal/models"
	"procurechain_backend/internal/repositories"
	"procurechain_backend/internal/services/dto"
	"procurechain_backend/pkg/apperrors"

	"gorm.io/datatypes"
)

// Порог риска для выборки high-risk
const highRiskThreshold = 70.0

type AnomalyService interface {
	Detect(ctx context.Context, actorID, procurementID string) ([]models.Anomaly, error)
	List(ctx context.Context, req *dto.ListAnomaliesRequest) (*dto.PaginatedResponse, error)
	Get(ctx context.Context, id string) (*models.Anomaly, error)
	HighRisk(ctx context.Context, limit int) ([]models.Anomaly, error)
	ByProcurement(ctx context.Context, procurementID string) ([]models.Anomaly, error)
	Resolve(ctx context.Context, actorID, id string, req *dto.ResolveAnomalyRequest) (*models.Anomaly, error)
	Statistics(ctx context.Context) (*repositories.AnomalyStats, error)
	VendorPatterns(ctx context.Context, actorID, vendorID string) (map[string]interface{}, error)
}

type AnomalyServiceImpl struct {
	anomalyRepo     repositories.AnomalyRepository
	procurementRepo repositories.ProcurementRepository
	bidRepo         repositories.BidRepository
	vendorRepo      repositories.VendorRepository
	aiService       AIService
	auditService    AuditService
}

func NewAnomalyService(
	anomalyRepo repositories.AnomalyRepository,
	procurementRepo repositories.ProcurementRepository,
	bidRepo repositories.BidRepository,
	vendorRepo repositories.VendorRepository,
	aiService AIService,
	auditService AuditService,
) AnomalyService {
	return &AnomalyServiceImpl{
		anomalyRepo:     anomalyRepo,
		procurementRepo: procurementRepo,
		bidRepo:         bidRepo,
		vendorRepo:      vendorRepo,
		aiService:       aiService,
		auditService:    auditService,
	}
}

// Detect прогоняет закупку с заявками через AI-детектор и фиксирует
// по записи на каждый флаг. Сводный risk_score уходит в метаданные
// закупки.
func (s *AnomalyServiceImpl) Detect(ctx context.Context, actorID, procurementID string) ([]models.Anomaly, error) {
	procurement, err := s.procurementRepo.FindByID(procurementID)
	if err != nil {
		if errors.Is(err, repositories.ErrProcurementNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	bids, err := s.bidRepo.FindByProcurement(procurementID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	result, err := s.aiService.DetectAnomalies(ctx, procurement, bids)
	if err != nil {
		return nil, err
	}

	anomalies := make([]models.Anomaly, 0, len(result.AnomalyFlags))
	for _, flag := range result.AnomalyFlags {
		evidence, _ := json.Marshal(map[string]string{"evidence": flag.Evidence})
		anomalies = append(anomalies, models.Anomaly{
			ProcurementID: procurementID,
			AnomalyType:   models.AnomalyType(flag.Type),
			Severity:      models.AnomalySeverity(flag.Severity),
			RiskScore:     result.RiskScore,
			Description:   flag.Description,
			Evidence:      datatypes.JSON(evidence),
			FlaggedBy:     "ai",
			Status:        models.AnomalyOpen,
		})
	}

	if err := s.anomalyRepo.CreateBatch(anomalies); err != nil {
		return nil, apperrors.InternalError(err)
	}
	s.updateRiskMetadata(ctx, procurement, result.RiskScore)

	s.auditService.Record(ctx, AuditEntry{
		EventType:    models.AuditAI,
		Action:       "anomaly.detection_run",
		UserID:       actorID,
		ResourceType: "procurement",
		ResourceID:   procurementID,
		ResourceName: procurement.Title,
		Metadata: map[string]interface{}{
			"risk_score": result.RiskScore,
			"flags":      len(anomalies),
			"mock":       result.Mock,
		},
	})
	return anomalies, nil
}

// updateRiskMetadata дописывает risk_score в метаданные закупки,
// сохраняя остальные ключи
func (s *AnomalyServiceImpl) updateRiskMetadata(ctx context.Context, procurement *models.Procurement, riskScore float64) {
	metadata := map[string]interface{}{}
	if len(procurement.Metadata) > 0 {
		if err := json.Unmarshal(procurement.Metadata, &metadata); err != nil {
			metadata = map[string]interface{}{}
		}
	}
	metadata["risk_score"] = riskScore
	metadata["risk_analyzed_at"] = time.Now().UTC().Format(time.RFC3339)

	data, err := json.Marshal(metadata)
	if err != nil {
		return
	}
	if err := s.procurementRepo.UpdateMetadata(procurement.ID, datatypes.JSON(data)); err != nil {
		logger.CtxWarn(ctx, "risk metadata update failed",
			"procurement_id", procurement.ID, "error", err)
	}
}

func (s *AnomalyServiceImpl) List(ctx context.Context, req *dto.ListAnomaliesRequest) (*dto.PaginatedResponse, error) {
	criteria := repositories.AnomalyFilter{
		ProcurementID: req.ProcurementID,
		Severity:      models.AnomalySeverity(req.Severity),
		Status:        models.AnomalyStatus(req.Status),
		AnomalyType:   req.AnomalyType,
		Page:          req.Page,
		PageSize:      req.PageSize,
	}

	anomalies, total, err := s.anomalyRepo.FindWithFilter(criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewPaginatedResponse(anomalies, criteria.Page, criteria.PageSize, total), nil
}

func (s *AnomalyServiceImpl) Get(ctx context.Context, id string) (*models.Anomaly, error) {
	anomaly, err := s.anomalyRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrAnomalyNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return anomaly, nil
}

func (s *AnomalyServiceImpl) HighRisk(ctx context.Context, limit int) ([]models.Anomaly, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	anomalies, err := s.anomalyRepo.FindHighRisk(highRiskThreshold, limit)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return anomalies, nil
}

func (s *AnomalyServiceImpl) ByProcurement(ctx context.Context, procurementID string) ([]models.Anomaly, error) {
	anomalies, err := s.anomalyRepo.FindByProcurement(procurementID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return anomalies, nil
}

func (s *AnomalyServiceImpl) Resolve(ctx context.Context, actorID, id string, req *dto.ResolveAnomalyRequest) (*models.Anomaly, error) {
	anomaly, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next := models.AnomalyStatus(req.Status)
	if anomaly.Status == models.AnomalyResolved || anomaly.Status == models.AnomalyDismissed {
		return nil, apperrors.ErrInvalidStatus("anomalies",
			"Anomaly is already "+string(anomaly.Status))
	}

	if err := s.anomalyRepo.UpdateStatus(id, next, req.Notes, actorID); err != nil {
		return nil, apperrors.InternalError(err)
	}
	anomaly.Status = next
	anomaly.ResolutionNotes = req.Notes
	anomaly.ResolvedBy = &actorID

	s.auditService.Record(ctx, AuditEntry{
		EventType:    models.AuditDataChange,
		Action:       "anomaly.status_changed",
		UserID:       actorID,
		ResourceType: "anomaly",
		ResourceID:   id,
		Changes:      map[string]string{"to": string(next)},
	})
	return anomaly, nil
}

func (s *AnomalyServiceImpl) Statistics(ctx context.Context) (*repositories.AnomalyStats, error) {
	stats, err := s.anomalyRepo.GetStats()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return stats, nil
}

// VendorPatterns собирает агрегаты истории заявок поставщика и просит
// модель описать подозрительные закономерности
func (s *AnomalyServiceImpl) VendorPatterns(ctx context.Context, actorID, vendorID string) (map[string]interface{}, error) {
	vendor, err := s.vendorRepo.FindByID(vendorID)
	if err != nil {
		if errors.Is(err, repositories.ErrVendorNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	bids, total, err := s.bidRepo.FindByVendor(vendorID, 1, 200)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	var minAmount, maxAmount, sumAmount float64
	for i, bid := range bids {
		if i == 0 || bid.Amount < minAmount {
			minAmount = bid.Amount
		}
		if bid.Amount > maxAmount {
			maxAmount = bid.Amount
		}
		sumAmount += bid.Amount
	}
	avgAmount := 0.0
	if len(bids) > 0 {
		avgAmount = sumAmount / float64(len(bids))
	}
	winRate := 0.0
	if total > 0 {
		winRate = float64(vendor.TotalAwards) / float64(total) * 100
	}

	history := map[string]interface{}{
		"total_bids":     total,
		"total_awards":   vendor.TotalAwards,
		"win_rate":       round1(winRate),
		"min_bid_amount": minAmount,
		"max_bid_amount": maxAmount,
		"avg_bid_amount": round1(avgAmount),
	}

	result, err := s.aiService.AnalyzeVendorPatterns(ctx, vendor, history)
	if err != nil {
		return nil, err
	}

	s.auditService.Record(ctx, AuditEntry{
		EventType:    models.AuditAI,
		Action:       "anomaly.vendor_patterns_run",
		UserID:       actorID,
		ResourceType: "vendor",
		ResourceID:   vendorID,
		ResourceName: vendor.CompanyName,
	})

	result["bid_history"] = history
	return result, nil
}
