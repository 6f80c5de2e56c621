package model

import (
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Conversation Channels
type Channel string

const (
	ChannelWhatsApp Channel = "whatsapp"
	ChannelTelegram Channel = "telegram"
	ChannelWeb      Channel = "web"
	ChannelPhone    Channel = "phone"
)

// Message Direction
type MessageDirection string

const (
	DirectionIn  MessageDirection = "in"
	DirectionOut MessageDirection = "out"
)

// Message Sender Types
type SenderType string

const (
	SenderCustomer SenderType = "customer"
	SenderStaff    SenderType = "staff"
	SenderAI       SenderType = "ai"
)

// Message Types
type MessageType string

const (
	MessageTypeText  MessageType = "text"
	MessageTypeImage MessageType = "image"
	MessageTypeVideo MessageType = "video"
	MessageTypeAudio MessageType = "audio"
	MessageTypeFile  MessageType = "file"
)

type Conversation struct {
	gorm.Model
	LeadID    uint      `json:"lead_id" gorm:"index;not null"`
	Channel   Channel   `json:"channel" gorm:"not null"`
	TopicID   *int64    `json:"topic_id"`
	StartedAt time.Time `json:"started_at"`
	LastMsgAt time.Time `json:"last_msg_at" gorm:"index"`

	// İlişkiler
	Lead     Lead      `json:"lead" gorm:"foreignKey:LeadID"`
	Messages []Message `json:"-" gorm:"foreignKey:ConversationID"`
}

// MatchesSearch müşteri adı, telefonu ve şehrinde arama yapar
func (c *Conversation) MatchesSearch(term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	if c.Lead.Name != nil && strings.Contains(strings.ToLower(*c.Lead.Name), term) {
		return true
	}
	if strings.Contains(strings.ToLower(c.Lead.Phone), term) {
		return true
	}
	if c.Lead.City != nil && strings.Contains(strings.ToLower(*c.Lead.City), term) {
		return true
	}
	return false
}

// Message bir konuşmadaki tek mesaj. Media alanı medya mesajları için
// URL ve mime bilgisini JSON olarak tutar.
type Message struct {
	gorm.Model
	ConversationID uint             `json:"conversation_id" gorm:"index;not null"`
	LeadID         uint             `json:"lead_id" gorm:"index"`
	Direction      MessageDirection `json:"direction" gorm:"not null"`
	Channel        Channel          `json:"channel"`
	SenderType     SenderType       `json:"sender_type"`
	MsgType        MessageType      `json:"msg_type" gorm:"default:'text'"`
	Text           *string          `json:"text" gorm:"type:text"`
	Media          datatypes.JSON   `json:"media"`
	WaMessageID    *string          `json:"wa_message_id"`
	TgMessageID    *string          `json:"tg_message_id"`
	Ts             time.Time        `json:"ts" gorm:"index"`

	Conversation Conversation `json:"-" gorm:"foreignKey:ConversationID"`
}
