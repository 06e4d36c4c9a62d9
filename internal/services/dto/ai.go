package dto

type VerifyVendorRequest struct {
	CompanyName        string `json:"company_name" validate:"required,min=2,max=150"`
	RegistrationNumber string `json:"registration_number" validate:"required,min=3,max=60"`
	Category           string `json:"category" validate:"omitempty,max=100"`
	County             string `json:"county" validate:"omitempty,max=80"`
	ContactEmail       string `json:"contact_email" validate:"omitempty,email"`
}

type BatchExplainRequest struct {
	ProcurementIDs []string `json:"procurement_ids" validate:"required,min=1,max=10,dive,uuid"`
}

type AIStatusResponse struct {
	Configured    bool   `json:"configured"`
	MockMode      bool   `json:"mock_mode"`
	Model         string `json:"model"`
	FallbackModel string `json:"fallback_model"`
}
