package dto

// DashboardMetrics - сводная панель платформы
type DashboardMetrics struct {
	TotalProcurements    int64            `json:"total_procurements"`
	ProcurementsByStatus map[string]int64 `json:"procurements_by_status"`
	TotalBudget          float64          `json:"total_budget"`
	AwardedBudget        float64          `json:"awarded_budget"`
	TotalBids            int64            `json:"total_bids"`
	BidsByStatus         map[string]int64 `json:"bids_by_status"`
	VendorCount          int64            `json:"vendor_count"`
	OpenAnomalies        int64            `json:"open_anomalies"`
	AssessmentsByStatus  map[string]int64 `json:"assessments_by_status"`
	JobsByStatus         map[string]int64 `json:"jobs_by_status"`
}

// DepartmentBreakdown - закупки одного ведомства
type DepartmentBreakdown struct {
	Department string  `json:"department"`
	Count      int64   `json:"count"`
	Budget     float64 `json:"budget"`
}
