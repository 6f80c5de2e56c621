package model

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Appointment Status
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusNoShow    AppointmentStatus = "no_show"
)

func ValidAppointmentStatus(s AppointmentStatus) bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusConfirmed,
		AppointmentStatusCompleted, AppointmentStatusCancelled, AppointmentStatusNoShow:
		return true
	}
	return false
}

// Appointment bir müşteri ile planlanan randevu. Geçmişte kalan "scheduled"
// randevular otomatik kapatılmaz.
type Appointment struct {
	gorm.Model
	LeadID   uint              `json:"lead_id" gorm:"index;not null"`
	UnitID   *uint             `json:"unit_id" gorm:"index"`
	StartsAt time.Time         `json:"starts_at" gorm:"not null;index"`
	Status   AppointmentStatus `json:"status" gorm:"default:'scheduled'"`
	Agent    *string           `json:"agent"`
	Notes    *string           `json:"notes" gorm:"type:text"`

	// İlişkiler
	Lead Lead  `json:"lead" gorm:"foreignKey:LeadID"`
	Unit *Unit `json:"unit" gorm:"foreignKey:UnitID"`
}

// MatchesSearch müşteri adı, telefonu ve temsilci adında arama yapar
func (a *Appointment) MatchesSearch(term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	if a.Lead.Name != nil && strings.Contains(strings.ToLower(*a.Lead.Name), term) {
		return true
	}
	if strings.Contains(strings.ToLower(a.Lead.Phone), term) {
		return true
	}
	if a.Agent != nil && strings.Contains(strings.ToLower(*a.Agent), term) {
		return true
	}
	return false
}
