package model

import (
	"strings"

	"gorm.io/gorm"
)

// UnitType proje içinde vahid sınıflandırması (örn: "3 oda + salon").
// (project_id, name) ikilisi benzersizdir.
type UnitType struct {
	gorm.Model
	ProjectID   uint     `json:"project_id" gorm:"uniqueIndex:idx_project_unit_type;not null"`
	Name        string   `json:"name" gorm:"uniqueIndex:idx_project_unit_type;not null"`
	Description *string  `json:"description" gorm:"type:text"`
	AreaSqm     *float64 `json:"area_sqm"`
	Rooms       *int     `json:"rooms"`
	Baths       *int     `json:"baths"`

	// İlişkiler
	Project Project `json:"project" gorm:"foreignKey:ProjectID"`
	Units   []Unit  `json:"-" gorm:"foreignKey:UnitTypeID"`
}

// MatchesSearch tip adı, açıklama ve proje adında arama yapar
func (t *UnitType) MatchesSearch(term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	if strings.Contains(strings.ToLower(t.Name), term) {
		return true
	}
	if t.Description != nil && strings.Contains(strings.ToLower(*t.Description), term) {
		return true
	}
	if strings.Contains(strings.ToLower(t.Project.Name), term) {
		return true
	}
	return false
}
