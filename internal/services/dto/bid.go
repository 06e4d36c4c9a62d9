package dto

import (
	"time"

	"procurechain_backend/internal/models"
)

type SubmitBidRequest struct {
	Amount           float64  `json:"bid_amount" validate:"required,gt=0"`
	Currency         string   `json:"currency" validate:"omitempty,len=3"`
	DeliveryTimeline string   `json:"delivery_timeline" validate:"required,min=3,max=300"`
	ProposalSummary  string   `json:"proposal_summary" validate:"omitempty,max=3000"`
	DocumentRefs     []string `json:"document_refs" validate:"omitempty,dive,uuid"`
	BidValidityDays  int      `json:"bid_validity_days" validate:"omitempty,gte=1,lte=365"`
}

type EvaluateBidRequest struct {
	TechnicalScore float64 `json:"technical_score" validate:"gte=0,lte=100"`
	FinancialScore float64 `json:"financial_score" validate:"gte=0,lte=100"`
	Comments       string  `json:"comments" validate:"omitempty,max=2000"`
}

type AwardBidRequest struct {
	Notes string `json:"notes" validate:"omitempty,max=2000"`
}

type DisqualifyBidRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type RankedBid struct {
	BidID       string    `json:"bid_id"`
	VendorID    string    `json:"vendor_id"`
	VendorName  string    `json:"vendor_name,omitempty"`
	Amount      float64   `json:"amount"`
	TotalScore  float64   `json:"total_score"`
	Rank        int       `json:"rank"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type BidStatisticsResponse struct {
	Total             int64   `json:"total"`
	AverageAmount     float64 `json:"average_amount"`
	MinAmount         float64 `json:"min_amount"`
	MaxAmount         float64 `json:"max_amount"`
	QualifiedCount    int64   `json:"qualified_count"`
	DisqualifiedCount int64   `json:"disqualified_count"`
}

type BidResponse struct {
	Bid         *models.Bid `json:"bid"`
	Evaluations interface{} `json:"evaluations,omitempty"`
}
