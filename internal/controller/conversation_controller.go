package controller

import (
	"log"

	"aqarcrm_backend/internal/model"
	"aqarcrm_backend/pkg/database"

	"github.com/gofiber/fiber/v2"
)

// conversationListItem liste görünümü için mesaj sayısını da taşır
type conversationListItem struct {
	model.Conversation
	MessageCount int64 `json:"message_count"`
}

// ListConversations konuşmaları son mesaj zamanına göre azalan sıralar
func ListConversations(c *fiber.Ctx) error {
	var conversations []model.Conversation
	if err := database.GetDB().
		Preload("Lead").
		Order("last_msg_at desc").
		Find(&conversations).Error; err != nil {
		log.Printf("Error fetching conversations: %v", err)
		return c.JSON([]conversationListItem{})
	}

	search := c.Query("search")
	channel := c.Query("channel")

	items := make([]conversationListItem, 0, len(conversations))
	for i := range conversations {
		if !conversations[i].MatchesSearch(search) {
			continue
		}
		if channel != "" && channel != "all" && string(conversations[i].Channel) != channel {
			continue
		}

		var count int64
		database.GetDB().Model(&model.Message{}).
			Where("conversation_id = ?", conversations[i].ID).
			Count(&count)

		items = append(items, conversationListItem{
			Conversation: conversations[i],
			MessageCount: count,
		})
	}

	return c.JSON(items)
}

// GetConversationMessages konuşmanın mesajlarını kronolojik sırayla döner
func GetConversationMessages(c *fiber.Ctx) error {
	id := c.Params("id")

	var conversation model.Conversation
	if err := database.GetDB().Preload("Lead").First(&conversation, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Conversation not found",
		})
	}

	var messages []model.Message
	if err := database.GetDB().
		Where("conversation_id = ?", conversation.ID).
		Order("ts asc").
		Find(&messages).Error; err != nil {
		log.Printf("Error fetching messages: %v", err)
		messages = []model.Message{}
	}

	return c.JSON(fiber.Map{
		"conversation": conversation,
		"messages":     messages,
	})
}
