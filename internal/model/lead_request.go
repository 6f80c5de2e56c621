package model

import (
	"strings"

	"gorm.io/gorm"
)

// LeadRequest müşteri talebi (lead_requests tablosu). Çoğunlukla otomatik
// intake kanalından eklenir, admin formundan düzenlenebilir.
type LeadRequest struct {
	gorm.Model
	LeadID          *uint    `json:"lead_id" gorm:"index"`
	Phone           string   `json:"phone" gorm:"not null;index"`
	SourceChannel   *Channel `json:"source_channel"`
	City            *string  `json:"city"`
	District        *string  `json:"district"`
	UnitType        *string  `json:"unit_type"`
	Rooms           *int     `json:"rooms"`
	Baths           *int     `json:"baths"`
	Furnished       *bool    `json:"furnished"`
	BudgetMin       *float64 `json:"budget_min"`
	BudgetMax       *float64 `json:"budget_max"`
	Notes           *string  `json:"notes" gorm:"type:text"`
	ModelConfidence *float64 `json:"model_confidence"` // [0,1] intake modeli güven skoru

	// İlişkiler
	Lead *Lead `json:"lead" gorm:"foreignKey:LeadID"`
}

func (LeadRequest) TableName() string {
	return "lead_requests"
}

// MatchesSearch telefon, şehir, semt ve bağlı müşteri adında arama yapar
func (r *LeadRequest) MatchesSearch(term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	if strings.Contains(strings.ToLower(r.Phone), term) {
		return true
	}
	if r.City != nil && strings.Contains(strings.ToLower(*r.City), term) {
		return true
	}
	if r.District != nil && strings.Contains(strings.ToLower(*r.District), term) {
		return true
	}
	if r.Lead != nil && r.Lead.Name != nil && strings.Contains(strings.ToLower(*r.Lead.Name), term) {
		return true
	}
	return false
}
