package dto

type ResolveAnomalyRequest struct {
	Status string `json:"status" validate:"required,oneof=reviewing resolved dismissed"`
	Notes  string `json:"notes" validate:"omitempty,max=2000"`
}

type ListAnomaliesRequest struct {
	Status        string `form:"status" validate:"omitempty,oneof=open reviewing resolved dismissed"`
	Severity      string `form:"severity" validate:"omitempty,is-anomaly-severity"`
	AnomalyType   string `form:"type"`
	ProcurementID string `form:"procurement_id" validate:"omitempty,uuid"`
	Page          int    `form:"page"`
	PageSize      int    `form:"page_size"`
}
