package models

// Vendor - запись реестра поставщиков, привязана к пользователю-владельцу
type Vendor struct {
	BaseModel
	UserID             string       `gorm:"not null;uniqueIndex" json:"user_id"`
	CompanyName        string       `gorm:"not null;uniqueIndex" json:"company_name"`
	RegistrationNumber string       `json:"registration_number,omitempty"`
	Category           string       `json:"category,omitempty"`
	ContactEmail       string       `json:"contact_email,omitempty"`
	ContactPhone       string       `json:"contact_phone,omitempty"`
	County             string       `json:"county,omitempty"`
	Address            string       `json:"address,omitempty"`
	Status             VendorStatus `gorm:"type:varchar(20);default:'active'" json:"status"`

	// Агрегаты результативности, обновляются при награждении
	TotalAwards        int     `gorm:"default:0" json:"total_awards"`
	TotalAwardAmount   float64 `gorm:"default:0" json:"total_award_amount"`
	AverageRating      float64 `gorm:"default:0" json:"average_rating"`
	CompletedContracts int     `gorm:"default:0" json:"completed_contracts"`
}

// PublicView - безопасное представление для публичного списка
type PublicVendor struct {
	ID          string       `json:"id"`
	CompanyName string       `json:"company_name"`
	Category    string       `json:"category,omitempty"`
	County      string       `json:"county,omitempty"`
	Status      VendorStatus `json:"status"`
	TotalAwards int          `json:"total_awards"`
}

func (v *Vendor) PublicView() *PublicVendor {
	return &PublicVendor{
		ID:          v.ID,
		CompanyName: v.CompanyName,
		Category:    v.Category,
		County:      v.County,
		Status:      v.Status,
		TotalAwards: v.TotalAwards,
	}
}
