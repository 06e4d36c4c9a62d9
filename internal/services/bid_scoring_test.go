package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"procurechain_backend/internal/models"
	"procurechain_backend/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBidRepo struct {
	repositories.BidRepository
	bids []models.Bid

	scoredIDs []string
}

func (s *stubBidRepo) FindByProcurement(procurementID string) ([]models.Bid, error) {
	return s.bids, nil
}

func (s *stubBidRepo) UpdateScoreAndRank(id string, totalScore float64, rank int) error {
	s.scoredIDs = append(s.scoredIDs, id)
	return nil
}

type stubProcurementRepo struct {
	repositories.ProcurementRepository
	procurement *models.Procurement
}

func (s *stubProcurementRepo) FindByID(id string) (*models.Procurement, error) {
	if s.procurement == nil {
		return nil, repositories.ErrProcurementNotFound
	}
	return s.procurement, nil
}

type stubVendorRepo struct {
	repositories.VendorRepository
	vendors map[string]*models.Vendor
}

func (s *stubVendorRepo) FindByID(id string) (*models.Vendor, error) {
	if vendor, ok := s.vendors[id]; ok {
		return vendor, nil
	}
	return nil, errors.New("vendor not found")
}

type noopAuditService struct {
	AuditService
}

func (s *noopAuditService) Record(ctx context.Context, entry AuditEntry) {}

func newScoringService(bidRepo *stubBidRepo, procurement *models.Procurement) BidService {
	return NewBidService(
		bidRepo,
		&stubProcurementRepo{procurement: procurement},
		&stubVendorRepo{vendors: map[string]*models.Vendor{}},
		nil,
		&noopAuditService{},
		nil,
	)
}

func evaluatedBid(id, vendorID string, submittedAt time.Time, scores ...[2]float64) models.Bid {
	bid := models.Bid{
		VendorID:    vendorID,
		Status:      models.BidUnderEvaluation,
		SubmittedAt: submittedAt,
	}
	bid.ID = id
	for _, pair := range scores {
		bid.Evaluations = append(bid.Evaluations, models.Evaluation{
			TechnicalScore: pair[0],
			FinancialScore: pair[1],
		})
	}
	return bid
}

// Две оценки (70,80) и (90,60): средний технический 80, средний
// финансовый 70, итог 150
func TestCalculateFinalScores_AveragesEvaluations(t *testing.T) {
	now := time.Now()
	bidRepo := &stubBidRepo{bids: []models.Bid{
		evaluatedBid("bid-1", "vendor-1", now, [2]float64{70, 80}, [2]float64{90, 60}),
	}}
	svc := newScoringService(bidRepo, &models.Procurement{Title: "Scored tender"})

	ranked, err := svc.CalculateFinalScores(context.Background(), "officer-1", "procurement-1")
	require.NoError(t, err)
	require.Len(t, ranked, 1)

	assert.Equal(t, 150.0, ranked[0].TotalScore)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, []string{"bid-1"}, bidRepo.scoredIDs)
}

// Ранги плотные: равные баллы делят ранг, следующий отличный балл
// получает ранг+1. Ничья разрешается более ранней подачей.
func TestCalculateFinalScores_DenseRanksAndTieBreak(t *testing.T) {
	now := time.Now()
	bidRepo := &stubBidRepo{bids: []models.Bid{
		evaluatedBid("bid-late", "vendor-1", now, [2]float64{80, 70}),
		evaluatedBid("bid-early", "vendor-2", now.Add(-time.Hour), [2]float64{70, 80}),
		evaluatedBid("bid-weak", "vendor-3", now, [2]float64{50, 50}),
	}}
	svc := newScoringService(bidRepo, &models.Procurement{Title: "Tied tender"})

	ranked, err := svc.CalculateFinalScores(context.Background(), "officer-1", "procurement-1")
	require.NoError(t, err)
	require.Len(t, ranked, 3)

	assert.Equal(t, "bid-early", ranked[0].BidID, "Earlier submission wins the tie")
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, "bid-late", ranked[1].BidID)
	assert.Equal(t, 1, ranked[1].Rank, "Equal totals share a rank")
	assert.Equal(t, "bid-weak", ranked[2].BidID)
	assert.Equal(t, 2, ranked[2].Rank, "Ranks are dense, not skipped")
}

// Дисквалифицированные, отклоненные, присужденные и неоцененные
// заявки не ранжируются. Присужденная особенно: повторный расчет не
// должен вернуть ее в qualified
func TestCalculateFinalScores_SkipsUnscorable(t *testing.T) {
	now := time.Now()

	disqualified := evaluatedBid("bid-dq", "vendor-1", now, [2]float64{99, 99})
	disqualified.Status = models.BidDisqualified
	rejected := evaluatedBid("bid-rej", "vendor-2", now, [2]float64{98, 98})
	rejected.Status = models.BidRejected
	awarded := evaluatedBid("bid-awarded", "vendor-3", now, [2]float64{97, 97})
	awarded.Status = models.BidAwarded
	unevaluated := evaluatedBid("bid-blank", "vendor-4", now)

	bidRepo := &stubBidRepo{bids: []models.Bid{
		disqualified,
		rejected,
		awarded,
		unevaluated,
		evaluatedBid("bid-ok", "vendor-5", now, [2]float64{60, 60}),
	}}
	svc := newScoringService(bidRepo, &models.Procurement{Title: "Filtered tender"})

	ranked, err := svc.CalculateFinalScores(context.Background(), "officer-1", "procurement-1")
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Equal(t, "bid-ok", ranked[0].BidID)
	assert.Equal(t, []string{"bid-ok"}, bidRepo.scoredIDs,
		"Awarded bid must not be rewritten by rescoring")
}

func TestCalculateFinalScores_ProcurementMissing(t *testing.T) {
	svc := newScoringService(&stubBidRepo{}, nil)

	_, err := svc.CalculateFinalScores(context.Background(), "officer-1", "missing")
	require.Error(t, err)
}
