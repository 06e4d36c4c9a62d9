package dto

type CreateVendorRequest struct {
	CompanyName        string `json:"company_name" validate:"required,min=2,max=150"`
	RegistrationNumber string `json:"registration_number" validate:"required,min=3,max=60"`
	Category           string `json:"category" validate:"omitempty,max=100"`
	ContactEmail       string `json:"contact_email" validate:"required,email"`
	ContactPhone       string `json:"contact_phone" validate:"omitempty,max=30"`
	County             string `json:"county" validate:"omitempty,max=80"`
	Address            string `json:"address" validate:"omitempty,max=300"`
}

type UpdateVendorRequest struct {
	CompanyName        string `json:"company_name" validate:"omitempty,min=2,max=150"`
	RegistrationNumber string `json:"registration_number" validate:"omitempty,min=3,max=60"`
	Category           string `json:"category" validate:"omitempty,max=100"`
	ContactEmail       string `json:"contact_email" validate:"omitempty,email"`
	ContactPhone       string `json:"contact_phone" validate:"omitempty,max=30"`
	County             string `json:"county" validate:"omitempty,max=80"`
	Address            string `json:"address" validate:"omitempty,max=300"`
	Status             string `json:"status" validate:"omitempty,oneof=active suspended blacklisted"`
}
