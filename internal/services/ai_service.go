package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"procurechain_backend/internal/ai"
	"procurechain_backend/internal/cache"
	"procurechain_backend/internal/config"
	"procurechain_backend/internal/logger"
	"procurechain_backend/internal/models"
	"procurechain_backend/internal/repositories"
	"procurechain_backend/internal/services/dto"
	"procurechain_backend/pkg/apperrors"
)

// AnomalyFlag - один типизированный флаг из ответа детектора
type AnomalyFlag struct {
	Type        string `json:"type"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	Evidence    string `json:"evidence"`
}

type AnomalyDetectionResult struct {
	RiskScore    float64       `json:"risk_score"`
	AnomalyFlags []AnomalyFlag `json:"anomaly_flags"`
	Mock         bool          `json:"mock,omitempty"`
}

type CodeGradingResult struct {
	OverallScore        float64            `json:"overall_score"`
	SubScores           map[string]float64 `json:"sub_scores"`
	Strengths           []string           `json:"strengths"`
	Weaknesses          []string           `json:"weaknesses"`
	Suggestions         []string           `json:"suggestions"`
	CheatingProbability float64            `json:"cheating_probability"`
	Mock                bool               `json:"mock,omitempty"`
}

// AIService - единственная точка входа к Gemini для остальных сервисов.
// В mock-режиме каждая поверхность отдает детерминированную заглушку.
type AIService interface {
	Status() *dto.AIStatusResponse
	ExplainProcurement(ctx context.Context, procurementID string) (map[string]interface{}, error)
	BatchExplain(ctx context.Context, procurementIDs []string) (map[string]interface{}, error)
	AnalyzeAnomaly(ctx context.Context, anomalyID string) (map[string]interface{}, error)
	VerifyVendor(ctx context.Context, actorID string, req *dto.VerifyVendorRequest) (map[string]interface{}, error)
	SuggestImprovements(ctx context.Context, procurementID string) (map[string]interface{}, error)

	// Внутренние поверхности для других сервисов
	ParseDocument(ctx context.Context, text, fallbackTitle string) (map[string]interface{}, error)
	DetectAnomalies(ctx context.Context, procurement *models.Procurement, bids []models.Bid) (*AnomalyDetectionResult, error)
	AnalyzeVendorPatterns(ctx context.Context, vendor *models.Vendor, bidHistory map[string]interface{}) (map[string]interface{}, error)
	GradeCode(ctx context.Context, challenge *models.Challenge, language, code string) (*CodeGradingResult, error)
}

type AIServiceImpl struct {
	client          *ai.Client
	cache           cache.Cache
	cacheTTL        time.Duration
	procurementRepo repositories.ProcurementRepository
	anomalyRepo     repositories.AnomalyRepository
	auditService    AuditService
}

func NewAIService(
	client *ai.Client,
	cacheStore cache.Cache,
	cfg *config.Config,
	procurementRepo repositories.ProcurementRepository,
	anomalyRepo repositories.AnomalyRepository,
	auditService AuditService,
) AIService {
	return &AIServiceImpl{
		client:          client,
		cache:           cacheStore,
		cacheTTL:        time.Duration(cfg.Cache.AITTL) * time.Second,
		procurementRepo: procurementRepo,
		anomalyRepo:     anomalyRepo,
		auditService:    auditService,
	}
}

func (s *AIServiceImpl) Status() *dto.AIStatusResponse {
	return &dto.AIStatusResponse{
		Configured:    !s.client.MockMode(),
		MockMode:      s.client.MockMode(),
		Model:         s.client.ModelName(),
		FallbackModel: s.client.FallbackModelName(),
	}
}

func (s *AIServiceImpl) ExplainProcurement(ctx context.Context, procurementID string) (map[string]interface{}, error) {
	procurement, err := s.procurementRepo.FindByID(procurementID)
	if err != nil {
		if errors.Is(err, repositories.ErrProcurementNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if !procurement.IsPubliclyVisible() {
		return nil, apperrors.ErrNotFound(repositories.ErrProcurementNotFound)
	}
	return s.explain(ctx, procurement)
}

func (s *AIServiceImpl) explain(ctx context.Context, procurement *models.Procurement) (map[string]interface{}, error) {
	if s.client.MockMode() {
		return ai.MockExplanation(procurement.Title), nil
	}

	key := fmt.Sprintf("ai:explain:%s:%d", procurement.ID, procurement.UpdatedAt.Unix())
	var cached map[string]interface{}
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	prompt := ai.ExplainProcurementPrompt(mustJSON(procurement.PublicView()))
	var result map[string]interface{}
	if err := s.client.GenerateJSON(ctx, prompt, &result); err != nil {
		logger.CtxWarn(ctx, "procurement explanation failed", "procurement_id", procurement.ID, "error", err)
		return nil, apperrors.ErrAIUnavailable
	}

	if err := s.cache.Set(ctx, key, result, s.cacheTTL); err != nil {
		logger.CtxWarn(ctx, "cache write failed", "key", key, "error", err)
	}
	return result, nil
}

// BatchExplain объясняет до 10 закупок за один вызов. Отказ по одной
// закупке не валит остальные: в ее слоте остается описание ошибки.
func (s *AIServiceImpl) BatchExplain(ctx context.Context, procurementIDs []string) (map[string]interface{}, error) {
	results := make(map[string]interface{}, len(procurementIDs))
	for _, id := range procurementIDs {
		explanation, err := s.ExplainProcurement(ctx, id)
		if err != nil {
			var appErr *apperrors.AppError
			if apperrors.As(err, &appErr) {
				results[id] = map[string]interface{}{"error": appErr.Message}
			} else {
				results[id] = map[string]interface{}{"error": "explanation failed"}
			}
			continue
		}
		results[id] = explanation
	}
	return results, nil
}

func (s *AIServiceImpl) AnalyzeAnomaly(ctx context.Context, anomalyID string) (map[string]interface{}, error) {
	anomaly, err := s.anomalyRepo.FindByID(anomalyID)
	if err != nil {
		if errors.Is(err, repositories.ErrAnomalyNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if s.client.MockMode() {
		return ai.MockAnomalyNarrative(), nil
	}

	key := fmt.Sprintf("ai:anomaly:%s:%d", anomaly.ID, anomaly.UpdatedAt.Unix())
	var cached map[string]interface{}
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	procurementJSON := "{}"
	if procurement, err := s.procurementRepo.FindByID(anomaly.ProcurementID); err == nil {
		procurementJSON = mustJSON(procurement.PublicView())
	}

	prompt := ai.AnomalyNarrativePrompt(mustJSON(anomaly), procurementJSON)
	var result map[string]interface{}
	if err := s.client.GenerateJSON(ctx, prompt, &result); err != nil {
		logger.CtxWarn(ctx, "anomaly narrative failed", "anomaly_id", anomaly.ID, "error", err)
		return nil, apperrors.ErrAIUnavailable
	}

	if err := s.cache.Set(ctx, key, result, s.cacheTTL); err != nil {
		logger.CtxWarn(ctx, "cache write failed", "key", key, "error", err)
	}
	return result, nil
}

func (s *AIServiceImpl) VerifyVendor(ctx context.Context, actorID string, req *dto.VerifyVendorRequest) (map[string]interface{}, error) {
	var result map[string]interface{}
	if s.client.MockMode() {
		result = ai.MockVendorVerification()
	} else {
		prompt := ai.VendorVerificationPrompt(mustJSON(req))
		if err := s.client.GenerateJSON(ctx, prompt, &result); err != nil {
			logger.CtxWarn(ctx, "vendor verification failed", "company", req.CompanyName, "error", err)
			return nil, apperrors.ErrAIUnavailable
		}
	}

	s.auditService.Record(ctx, AuditEntry{
		EventType:    models.AuditAI,
		Action:       "ai.vendor_verified",
		UserID:       actorID,
		ResourceType: "vendor",
		ResourceName: req.CompanyName,
	})
	return result, nil
}

func (s *AIServiceImpl) SuggestImprovements(ctx context.Context, procurementID string) (map[string]interface{}, error) {
	procurement, err := s.procurementRepo.FindByID(procurementID)
	if err != nil {
		if errors.Is(err, repositories.ErrProcurementNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if s.client.MockMode() {
		return ai.MockImprovementSuggestions(), nil
	}

	prompt := ai.ImprovementSuggestionsPrompt(mustJSON(procurement))
	var result map[string]interface{}
	if err := s.client.GenerateJSON(ctx, prompt, &result); err != nil {
		logger.CtxWarn(ctx, "improvement suggestions failed", "procurement_id", procurementID, "error", err)
		return nil, apperrors.ErrAIUnavailable
	}
	return result, nil
}

func (s *AIServiceImpl) ParseDocument(ctx context.Context, text, fallbackTitle string) (map[string]interface{}, error) {
	if s.client.MockMode() {
		return ai.MockDocumentParsing(fallbackTitle), nil
	}

	prompt := ai.DocumentParsingPrompt(text)
	var result map[string]interface{}
	if err := s.client.GenerateJSON(ctx, prompt, &result); err != nil {
		logger.CtxWarn(ctx, "document parsing failed", "error", err)
		return nil, apperrors.ErrAIUnavailable
	}
	return result, nil
}

func (s *AIServiceImpl) DetectAnomalies(ctx context.Context, procurement *models.Procurement, bids []models.Bid) (*AnomalyDetectionResult, error) {
	if s.client.MockMode() {
		result := &AnomalyDetectionResult{}
		if err := remarshal(ai.MockAnomalyDetection(), result); err != nil {
			return nil, apperrors.InternalError(err)
		}
		return result, nil
	}

	prompt := ai.AnomalyDetectionPrompt(mustJSON(procurement), mustJSON(bidSnapshots(bids)))
	result := &AnomalyDetectionResult{}
	if err := s.client.GenerateJSON(ctx, prompt, result); err != nil {
		logger.CtxWarn(ctx, "anomaly detection failed", "procurement_id", procurement.ID, "error", err)
		return nil, apperrors.ErrAIUnavailable
	}
	return result, nil
}

func (s *AIServiceImpl) AnalyzeVendorPatterns(ctx context.Context, vendor *models.Vendor, bidHistory map[string]interface{}) (map[string]interface{}, error) {
	if s.client.MockMode() {
		return ai.MockVendorPatterns(), nil
	}

	prompt := ai.VendorPatternPrompt(mustJSON(vendor.PublicView()), mustJSON(bidHistory))
	var result map[string]interface{}
	if err := s.client.GenerateJSON(ctx, prompt, &result); err != nil {
		logger.CtxWarn(ctx, "vendor pattern analysis failed", "vendor_id", vendor.ID, "error", err)
		return nil, apperrors.ErrAIUnavailable
	}
	return result, nil
}

func (s *AIServiceImpl) GradeCode(ctx context.Context, challenge *models.Challenge, language, code string) (*CodeGradingResult, error) {
	if s.client.MockMode() {
		result := &CodeGradingResult{}
		if err := remarshal(ai.MockCodeGrading(code), result); err != nil {
			return nil, apperrors.InternalError(err)
		}
		return result, nil
	}

	testCases := "[]"
	if len(challenge.TestCases) > 0 {
		testCases = string(challenge.TestCases)
	}

	prompt := ai.CodeGradingPrompt(challenge.Prompt, testCases, language, code)
	result := &CodeGradingResult{}
	if err := s.client.GenerateJSON(ctx, prompt, result); err != nil {
		logger.CtxWarn(ctx, "code grading failed", "challenge_id", challenge.ID, "error", err)
		return nil, apperrors.ErrAIUnavailable
	}
	return result, nil
}

// bidSnapshots сводит заявки к агрегатам без персональных данных:
// модели не нужно знать больше, чем суммы и сроки.
func bidSnapshots(bids []models.Bid) []map[string]interface{} {
	snapshots := make([]map[string]interface{}, 0, len(bids))
	for _, bid := range bids {
		snapshots = append(snapshots, map[string]interface{}{
			"amount":            bid.Amount,
			"currency":          bid.Currency,
			"delivery_timeline": bid.DeliveryTimeline,
			"status":            string(bid.Status),
			"submitted_at":      bid.SubmittedAt,
		})
	}
	return snapshots
}

func mustJSON(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// remarshal переливает mock-ответ в типизированную структуру
func remarshal(src, dest interface{}) error {
	data, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}
