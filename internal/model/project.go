package model

import (
	"strings"

	"gorm.io/gorm"
)

// Project fiziksel bir geliştirme projesi. Bağlı vahidler silinmeden
// proje silinemez.
type Project struct {
	gorm.Model
	ProjectNo    *int    `json:"project_no"`
	Name         string  `json:"name" gorm:"not null"`
	City         *string `json:"city"`
	District     *string `json:"district"`
	Address      *string `json:"address" gorm:"type:text"`
	LocationDesc *string `json:"location_desc" gorm:"type:text"`
	MapURL       *string `json:"map_url"`
	GuardPhone   *string `json:"guard_phone"`
	Description  *string `json:"description" gorm:"type:text"`
	Active       bool    `json:"active" gorm:"default:true"`

	// İlişkiler
	UnitTypes []UnitType `json:"-" gorm:"foreignKey:ProjectID"`
	Units     []Unit     `json:"-" gorm:"foreignKey:ProjectID"`
}

// MatchesSearch isim, şehir ve semtte arama yapar
func (p *Project) MatchesSearch(term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	if strings.Contains(strings.ToLower(p.Name), term) {
		return true
	}
	if p.City != nil && strings.Contains(strings.ToLower(*p.City), term) {
		return true
	}
	if p.District != nil && strings.Contains(strings.ToLower(*p.District), term) {
		return true
	}
	return false
}
