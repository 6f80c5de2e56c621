package model

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Lead Stages (satış hunisi aşamaları)
type LeadStage string

const (
	LeadStageNew       LeadStage = "new"
	LeadStageContacted LeadStage = "contacted"
	LeadStageQualified LeadStage = "qualified"
	LeadStageViewing   LeadStage = "viewing"
	LeadStageOffer     LeadStage = "offer"
	LeadStageClosed    LeadStage = "closed"
	LeadStageCompleted LeadStage = "completed"
)

// ValidLeadStage stage değerinin geçerli olup olmadığını kontrol eder
func ValidLeadStage(s LeadStage) bool {
	switch s {
	case LeadStageNew, LeadStageContacted, LeadStageQualified,
		LeadStageViewing, LeadStageOffer, LeadStageClosed, LeadStageCompleted:
		return true
	}
	return false
}

type Lead struct {
	gorm.Model
	Phone         string     `json:"phone" gorm:"uniqueIndex;not null"`
	Name          *string    `json:"name"`
	City          *string    `json:"city"`
	Budget        *float64   `json:"budget"`
	Rooms         *int       `json:"rooms"`
	Furnished     *bool      `json:"furnished"`
	Stage         LeadStage  `json:"stage" gorm:"default:'new'"`
	AssignedAgent *string    `json:"assigned_agent"`
	LastMsg       *time.Time `json:"last_msg"`
	TopicID       *int64     `json:"topic_id"`

	// İlişkiler
	Appointments  []Appointment  `json:"-" gorm:"foreignKey:LeadID"`
	Requests      []LeadRequest  `json:"-" gorm:"foreignKey:LeadID"`
	Conversations []Conversation `json:"-" gorm:"foreignKey:LeadID"`
}

// MatchesSearch telefon, isim ve şehir alanlarında arama yapar
func (l *Lead) MatchesSearch(term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	if strings.Contains(strings.ToLower(l.Phone), term) {
		return true
	}
	if l.Name != nil && strings.Contains(strings.ToLower(*l.Name), term) {
		return true
	}
	if l.City != nil && strings.Contains(strings.ToLower(*l.City), term) {
		return true
	}
	return false
}
