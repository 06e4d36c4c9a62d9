package services

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"procurechain_backend/internal/logger"
	"procurechain_backend/internal/models"
	"procurechain_backend/internal/repositories"
	"procurechain_backend/internal/services/dto"
	"procurechain_backend/pkg/apperrors"

	"gorm.io/datatypes"
)

const minDisqualificationReasonLen = 10

type BidService interface {
	SubmitBid(ctx context.Context, actorID, procurementID string, req *dto.SubmitBidRequest) (*models.Bid, error)
	GetBid(ctx context.Context, actorID string, actorRole models.UserRole, bidID string) (*models.Bid, error)
	BidsByProcurement(ctx context.Context, procurementID string) ([]models.Bid, error)
	MyBids(ctx context.Context, actorID string, page, pageSize int) (*dto.PaginatedResponse, error)
	PublicBidCount(ctx context.Context, procurementID string) (int64, error)
	EvaluateBid(ctx context.Context, actorID, actorName, bidID string, req *dto.EvaluateBidRequest) (*models.Evaluation, error)
	CalculateFinalScores(ctx context.Context, actorID, procurementID string) ([]dto.RankedBid, error)
	AwardBid(ctx context.Context, actorID, bidID string, req *dto.AwardBidRequest) (*models.Bid, error)
	DisqualifyBid(ctx context.Context, actorID, bidID string, reason string) (*models.Bid, error)
	GetBidStatistics(ctx context.Context, procurementID string) (*dto.BidStatisticsResponse, error)
}

type BidServiceImpl struct {
	bidRepo         repositories.BidRepository
	procurementRepo repositories.ProcurementRepository
	vendorRepo      repositories.VendorRepository
	userRepo        repositories.UserRepository
	auditService    AuditService
	notifications   NotificationService
}

func NewBidService(
	bidRepo repositories.BidRepository,
	procurementRepo repositories.ProcurementRepository,
	vendorRepo repositories.VendorRepository,
	userRepo repositories.UserRepository,
	auditService AuditService,
	notifications NotificationService,
) BidService {
	return &BidServiceImpl{
		bidRepo:         bidRepo,
		procurementRepo: procurementRepo,
		vendorRepo:      vendorRepo,
		userRepo:        userRepo,
		auditService:    auditService,
		notifications:   notifications,
	}
}

// SubmitBid принимает заявку поставщика. Дубль по паре (закупка,
// поставщик) ловится и пре-чеком (дружелюбный 409), и уникальным
// индексом (закрывает гонку).
func (s *BidServiceImpl) SubmitBid(ctx context.Context, actorID, procurementID string, req *dto.SubmitBidRequest) (*models.Bid, error) {
	procurement, err := s.procurementRepo.FindByID(procurementID)
	if err != nil {
		if errors.Is(err, repositories.ErrProcurementNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if !procurement.Status.IsOpenForBidding() {
		return nil, apperrors.ErrBiddingClosed
	}
	if procurement.SubmissionDeadline != nil && time.Now().After(*procurement.SubmissionDeadline) {
		return nil, apperrors.ErrDeadlinePassed
	}
	if req.Amount <= 0 {
		return nil, apperrors.NewBadRequestError("Bid amount must be positive")
	}
	if strings.TrimSpace(req.DeliveryTimeline) == "" {
		return nil, apperrors.NewBadRequestError("Delivery timeline is required")
	}

	vendor, err := s.vendorRepo.FindByUserID(actorID)
	if err != nil {
		if errors.Is(err, repositories.ErrVendorNotFound) {
			return nil, apperrors.NewBadRequestError("No vendor record for this user; register as a vendor first")
		}
		return nil, apperrors.InternalError(err)
	}
	if vendor.Status != models.VendorStatusActive {
		return nil, apperrors.ErrInvalidStatus("bids", "Vendor is not active")
	}

	currency := req.Currency
	if currency == "" {
		currency = defaultCurrency
	}
	validityDays := req.BidValidityDays
	if validityDays == 0 {
		validityDays = 90
	}

	bid := &models.Bid{
		ProcurementID:    procurementID,
		VendorID:         vendor.ID,
		Amount:           req.Amount,
		Currency:         currency,
		DeliveryTimeline: req.DeliveryTimeline,
		ProposalSummary:  req.ProposalSummary,
		BidValidityDays:  validityDays,
		Status:           models.BidSubmitted,
		SubmittedAt:      time.Now(),
	}
	if len(req.DocumentRefs) > 0 {
		data, err := json.Marshal(req.DocumentRefs)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		bid.DocumentRefs = datatypes.JSON(data)
	}

	if err := s.bidRepo.Create(bid); err != nil {
		if errors.Is(err, repositories.ErrBidAlreadyExists) {
			return nil, apperrors.ErrDuplicateBid
		}
		return nil, apperrors.InternalError(err)
	}

	if err := s.procurementRepo.IncrementBidsCount(procurementID); err != nil {
		logger.CtxWarn(ctx, "bids count increment failed", "procurement_id", procurementID, "error", err)
	}

	s.auditService.Record(ctx, AuditEntry{
		EventType:    models.AuditDataChange,
		Action:       "bid.submitted",
		UserID:       actorID,
		ResourceType: "bid",
		ResourceID:   bid.ID,
		ResourceName: procurement.Title,
		Changes:      map[string]interface{}{"amount": bid.Amount, "vendor_id": vendor.ID},
	})
	return bid, nil
}

// GetBid: поставщик видит только свою заявку, officer/auditor/admin - любую
func (s *BidServiceImpl) GetBid(ctx context.Context, actorID string, actorRole models.UserRole, bidID string) (*models.Bid, error) {
	bid, err := s.bidRepo.FindByIDWithEvaluations(bidID)
	if err != nil {
		if errors.Is(err, repositories.ErrBidNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if actorRole == models.UserRoleVendor {
		vendor, err := s.vendorRepo.FindByUserID(actorID)
		if err != nil || vendor.ID != bid.VendorID {
			return nil, apperrors.ErrInsufficientPermissions
		}
	}

	s.enrich(bid)
	return bid, nil
}

func (s *BidServiceImpl) enrich(bid *models.Bid) {
	if vendor, err := s.vendorRepo.FindByID(bid.VendorID); err == nil {
		bid.VendorName = vendor.CompanyName
	}
	if procurement, err := s.procurementRepo.FindByID(bid.ProcurementID); err == nil {
		bid.ProcurementTitle = procurement.Title
	}
}

func (s *BidServiceImpl) BidsByProcurement(ctx context.Context, procurementID string) ([]models.Bid, error) {
	if _, err := s.procurementRepo.FindByID(procurementID); err != nil {
		if errors.Is(err, repositories.ErrProcurementNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	bids, err := s.bidRepo.FindByProcurement(procurementID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	for i := range bids {
		if vendor, err := s.vendorRepo.FindByID(bids[i].VendorID); err == nil {
			bids[i].VendorName = vendor.CompanyName
		}
	}
	return bids, nil
}

func (s *BidServiceImpl) MyBids(ctx context.Context, actorID string, page, pageSize int) (*dto.PaginatedResponse, error) {
	vendor, err := s.vendorRepo.FindByUserID(actorID)
	if err != nil {
		if errors.Is(err, repositories.ErrVendorNotFound) {
			return dto.NewPaginatedResponse([]models.Bid{}, page, pageSize, 0), nil
		}
		return nil, apperrors.InternalError(err)
	}

	bids, total, err := s.bidRepo.FindByVendor(vendor.ID, page, pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	for i := range bids {
		if procurement, err := s.procurementRepo.FindByID(bids[i].ProcurementID); err == nil {
			bids[i].ProcurementTitle = procurement.Title
		}
	}
	return dto.NewPaginatedResponse(bids, page, pageSize, total), nil
}

func (s *BidServiceImpl) PublicBidCount(ctx context.Context, procurementID string) (int64, error) {
	_, total, err := s.bidRepo.FindWithFilter(repositories.BidFilter{
		ProcurementID: procurementID,
		Page:          1,
		PageSize:      1,
	})
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return total, nil
}

// EvaluateBid добавляет оценку. Один оценщик - одна оценка: правило
// держит составной уникальный индекс (bid_id, evaluator_id), конфликт
// отдается как 409.
func (s *BidServiceImpl) EvaluateBid(ctx context.Context, actorID, actorName, bidID string, req *dto.EvaluateBidRequest) (*models.Evaluation, error) {
	bid, err := s.bidRepo.FindByID(bidID)
	if err != nil {
		if errors.Is(err, repositories.ErrBidNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if !bid.Status.IsEvaluable() {
		return nil, apperrors.ErrBidNotEvaluable
	}
	if req.TechnicalScore < 0 || req.TechnicalScore > 100 ||
		req.FinancialScore < 0 || req.FinancialScore > 100 {
		return nil, apperrors.NewBadRequestError("Scores must be within [0, 100]")
	}

	evaluation := &models.Evaluation{
		BidID:          bidID,
		EvaluatorID:    actorID,
		EvaluatorName:  actorName,
		TechnicalScore: req.TechnicalScore,
		FinancialScore: req.FinancialScore,
		TotalScore:     req.TechnicalScore + req.FinancialScore,
		Comments:       req.Comments,
		EvaluatedAt:    time.Now(),
	}

	if err := s.bidRepo.CreateEvaluation(evaluation); err != nil {
		if errors.Is(err, repositories.ErrEvaluationExists) {
			return nil, apperrors.ErrDuplicateEvaluation
		}
		return nil, apperrors.InternalError(err)
	}

	if bid.Status == models.BidSubmitted {
		if err := s.bidRepo.UpdateStatus(bidID, models.BidUnderEvaluation); err != nil {
			logger.CtxWarn(ctx, "bid status update failed after evaluation", "bid_id", bidID, "error", err)
		}
	}

	s.auditService.Record(ctx, AuditEntry{
		EventType:    models.AuditDataChange,
		Action:       "bid.evaluated",
		UserID:       actorID,
		ResourceType: "bid",
		ResourceID:   bidID,
		Changes: map[string]interface{}{
			"technical_score": req.TechnicalScore,
			"financial_score": req.FinancialScore,
		},
	})
	return evaluation, nil
}

// CalculateFinalScores считает итоговые баллы всех оцененных заявок
// закупки: средний технический + средний финансовый, сортировка по
// убыванию, плотные ранги 1..N (равные баллы делят ранг). Ничьи
// упорядочиваются детерминированно: раньше поданная заявка впереди,
// при равном времени - по id.
func (s *BidServiceImpl) CalculateFinalScores(ctx context.Context, actorID, procurementID string) ([]dto.RankedBid, error) {
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

	type scored struct {
		bid   *models.Bid
		total float64
	}
	scoredBids := make([]scored, 0, len(bids))
	for i := range bids {
		bid := &bids[i]
		if !bid.Status.IsScorable() {
			continue
		}
		if len(bid.Evaluations) == 0 {
			continue
		}

		var technicalSum, financialSum float64
		for _, ev := range bid.Evaluations {
			technicalSum += ev.TechnicalScore
			financialSum += ev.FinancialScore
		}
		n := float64(len(bid.Evaluations))
		scoredBids = append(scoredBids, scored{
			bid:   bid,
			total: technicalSum/n + financialSum/n,
		})
	}

	sort.SliceStable(scoredBids, func(i, j int) bool {
		if scoredBids[i].total != scoredBids[j].total {
			return scoredBids[i].total > scoredBids[j].total
		}
		if !scoredBids[i].bid.SubmittedAt.Equal(scoredBids[j].bid.SubmittedAt) {
			return scoredBids[i].bid.SubmittedAt.Before(scoredBids[j].bid.SubmittedAt)
		}
		return scoredBids[i].bid.ID < scoredBids[j].bid.ID
	})

	ranked := make([]dto.RankedBid, 0, len(scoredBids))
	rank := 0
	var prevTotal float64
	for i, sb := range scoredBids {
		if i == 0 || sb.total != prevTotal {
			rank++
		}
		prevTotal = sb.total

		if err := s.bidRepo.UpdateScoreAndRank(sb.bid.ID, sb.total, rank); err != nil {
			return nil, apperrors.InternalError(err)
		}

		entry := dto.RankedBid{
			BidID:       sb.bid.ID,
			VendorID:    sb.bid.VendorID,
			Amount:      sb.bid.Amount,
			TotalScore:  sb.total,
			Rank:        rank,
			SubmittedAt: sb.bid.SubmittedAt,
		}
		if vendor, err := s.vendorRepo.FindByID(sb.bid.VendorID); err == nil {
			entry.VendorName = vendor.CompanyName
		}
		ranked = append(ranked, entry)
	}

	s.auditService.Record(ctx, AuditEntry{
		EventType:    models.AuditDataChange,
		Action:       "bid.scores_calculated",
		UserID:       actorID,
		ResourceType: "procurement",
		ResourceID:   procurementID,
		ResourceName: procurement.Title,
		Changes:      map[string]interface{}{"scored_bids": len(ranked)},
	})
	return ranked, nil
}

// AwardBid награждает qualified-заявку. Необратимо: закупка переходит
// в awarded, остальные незавершенные заявки отклоняются каскадом,
// агрегаты поставщика обновляются.
func (s *BidServiceImpl) AwardBid(ctx context.Context, actorID, bidID string, req *dto.AwardBidRequest) (*models.Bid, error) {
	bid, err := s.bidRepo.FindByID(bidID)
	if err != nil {
		if errors.Is(err, repositories.ErrBidNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if bid.Status != models.BidQualified {
		return nil, apperrors.ErrBidNotAwardable
	}

	procurement, err := s.procurementRepo.FindByID(bid.ProcurementID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	now := time.Now()
	if err := s.bidRepo.SetAward(bidID, bid.Amount, req.Notes, now); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := s.procurementRepo.SetAward(procurement.ID, bid.VendorID, bid.Amount, now); err != nil {
		return nil, apperrors.InternalError(err)
	}

	rejected, err := s.bidRepo.CascadeReject(procurement.ID, bidID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.vendorRepo.RecordAward(bid.VendorID, bid.Amount); err != nil {
		logger.CtxWarn(ctx, "vendor award aggregates update failed", "vendor_id", bid.VendorID, "error", err)
	}

	bid.Status = models.BidAwarded
	bid.AwardedAt = &now
	bid.AwardedAmount = &bid.Amount
	bid.AwardNotes = req.Notes

	s.auditService.Record(ctx, AuditEntry{
		EventType:    models.AuditDataChange,
		Action:       "bid.awarded",
		Severity:     models.AuditWarning,
		UserID:       actorID,
		ResourceType: "bid",
		ResourceID:   bidID,
		ResourceName: procurement.Title,
		Changes: map[string]interface{}{
			"vendor_id":     bid.VendorID,
			"amount":        bid.Amount,
			"rejected_bids": rejected,
		},
	})

	s.notifyAwardedVendor(ctx, bid, procurement)
	return bid, nil
}

func (s *BidServiceImpl) notifyAwardedVendor(ctx context.Context, bid *models.Bid, procurement *models.Procurement) {
	vendor, err := s.vendorRepo.FindByID(bid.VendorID)
	if err != nil {
		return
	}
	to := vendor.ContactEmail
	if to == "" {
		if owner, err := s.userRepo.FindByID(vendor.UserID); err == nil {
			to = owner.Email
		}
	}
	if to != "" {
		s.notifications.SendBidAwardNotice(ctx, to, vendor.CompanyName, procurement.Title, bid.Amount, bid.Currency)
	}
}

// DisqualifyBid снимает заявку с торгов. Награжденные и отклоненные
// заявки дисквалифицировать нельзя.
func (s *BidServiceImpl) DisqualifyBid(ctx context.Context, actorID, bidID string, reason string) (*models.Bid, error) {
	reason = strings.TrimSpace(reason)
	if len(reason) < minDisqualificationReasonLen {
		return nil, apperrors.NewBadRequestError("Disqualification reason must be at least 10 characters")
	}

	bid, err := s.bidRepo.FindByID(bidID)
	if err != nil {
		if errors.Is(err, repositories.ErrBidNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if !bid.Status.IsDisqualifiable() {
		return nil, apperrors.ErrBidNotDisqualifiable
	}

	if err := s.bidRepo.SetDisqualification(bidID, reason, actorID); err != nil {
		return nil, apperrors.InternalError(err)
	}

	bid.Status = models.BidDisqualified
	bid.DisqualificationReason = reason
	bid.DisqualifiedBy = &actorID

	s.auditService.Record(ctx, AuditEntry{
		EventType:    models.AuditDataChange,
		Action:       "bid.disqualified",
		Severity:     models.AuditWarning,
		UserID:       actorID,
		ResourceType: "bid",
		ResourceID:   bidID,
		Changes:      map[string]string{"reason": reason},
	})
	return bid, nil
}

func (s *BidServiceImpl) GetBidStatistics(ctx context.Context, procurementID string) (*dto.BidStatisticsResponse, error) {
	bids, err := s.bidRepo.FindByProcurement(procurementID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	stats := &dto.BidStatisticsResponse{Total: int64(len(bids))}
	if len(bids) == 0 {
		return stats, nil
	}

	var sum float64
	stats.MinAmount = bids[0].Amount
	stats.MaxAmount = bids[0].Amount
	for _, bid := range bids {
		sum += bid.Amount
		if bid.Amount < stats.MinAmount {
			stats.MinAmount = bid.Amount
		}
		if bid.Amount > stats.MaxAmount {
			stats.MaxAmount = bid.Amount
		}
		switch bid.Status {
		case models.BidQualified:
			stats.QualifiedCount++
		case models.BidDisqualified:
			stats.DisqualifiedCount++
		}
	}
	stats.AverageAmount = sum / float64(len(bids))
	return stats, nil
}
