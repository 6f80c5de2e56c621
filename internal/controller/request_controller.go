package controller

import (
	"log"
	"time"

	"aqarcrm_backend/internal/model"
	"aqarcrm_backend/pkg/analytics"
	"aqarcrm_backend/pkg/database"
	"aqarcrm_backend/pkg/utils/phone"

	"github.com/gofiber/fiber/v2"
)

type LeadRequestInput struct {
	LeadID          *uint    `json:"lead_id"`
	Phone           string   `json:"phone" validate:"required"`
	SourceChannel   string   `json:"source_channel"`
	City            string   `json:"city"`
	District        string   `json:"district"`
	UnitType        string   `json:"unit_type"`
	Rooms           *int     `json:"rooms"`
	Baths           *int     `json:"baths"`
	Furnished       *bool    `json:"furnished"`
	BudgetMin       *float64 `json:"budget_min"`
	BudgetMax       *float64 `json:"budget_max"`
	Notes           string   `json:"notes"`
	ModelConfidence *float64 `json:"model_confidence"`
}

// ListLeadRequests talepleri oluşturulma tarihine göre azalan sıralar
func ListLeadRequests(c *fiber.Ctx) error {
	var requests []model.LeadRequest
	if err := database.GetDB().
		Preload("Lead").
		Order("created_at desc").
		Find(&requests).Error; err != nil {
		log.Printf("Error fetching lead requests: %v", err)
		return c.JSON([]model.LeadRequest{})
	}

	search := c.Query("search")
	channel := c.Query("channel")
	city := c.Query("city")
	unitType := c.Query("unit_type")

	filtered := make([]model.LeadRequest, 0, len(requests))
	for i := range requests {
		if !requests[i].MatchesSearch(search) {
			continue
		}
		if channel != "" && channel != "all" {
			if requests[i].SourceChannel == nil || string(*requests[i].SourceChannel) != channel {
				continue
			}
		}
		if city != "" && city != "all" {
			if requests[i].City == nil || *requests[i].City != city {
				continue
			}
		}
		if unitType != "" && unitType != "all" {
			if requests[i].UnitType == nil || *requests[i].UnitType != unitType {
				continue
			}
		}
		filtered = append(filtered, requests[i])
	}

	return c.JSON(filtered)
}

// CreateLeadRequest yeni müşteri talebi kaydeder
func CreateLeadRequest(c *fiber.Ctx) error {
	input := new(LeadRequestInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if input.Phone == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Phone is required",
		})
	}

	var sourceChannel *model.Channel
	if input.SourceChannel != "" {
		ch := model.Channel(input.SourceChannel)
		sourceChannel = &ch
	}

	request := model.LeadRequest{
		LeadID:          input.LeadID,
		Phone:           phone.Normalize(input.Phone),
		SourceChannel:   sourceChannel,
		City:            strOrNil(input.City),
		District:        strOrNil(input.District),
		UnitType:        strOrNil(input.UnitType),
		Rooms:           input.Rooms,
		Baths:           input.Baths,
		Furnished:       input.Furnished,
		BudgetMin:       input.BudgetMin,
		BudgetMax:       input.BudgetMax,
		Notes:           strOrNil(input.Notes),
		ModelConfidence: input.ModelConfidence,
	}

	if err := database.GetDB().Create(&request).Error; err != nil {
		if database.IsForeignKeyViolation(err) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "العميل المحدد غير موجود",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	database.GetDB().Preload("Lead").First(&request, request.ID)

	return c.Status(fiber.StatusCreated).JSON(request)
}

// UpdateLeadRequest mevcut talebi günceller
func UpdateLeadRequest(c *fiber.Ctx) error {
	id := c.Params("id")

	var request model.LeadRequest
	if err := database.GetDB().First(&request, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Request not found",
		})
	}

	input := new(LeadRequestInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if input.Phone == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Phone is required",
		})
	}

	var sourceChannel *model.Channel
	if input.SourceChannel != "" {
		ch := model.Channel(input.SourceChannel)
		sourceChannel = &ch
	}

	updates := map[string]interface{}{
		"lead_id":          input.LeadID,
		"phone":            phone.Normalize(input.Phone),
		"source_channel":   sourceChannel,
		"city":             strOrNil(input.City),
		"district":         strOrNil(input.District),
		"unit_type":        strOrNil(input.UnitType),
		"rooms":            input.Rooms,
		"baths":            input.Baths,
		"furnished":        input.Furnished,
		"budget_min":       input.BudgetMin,
		"budget_max":       input.BudgetMax,
		"notes":            strOrNil(input.Notes),
		"model_confidence": input.ModelConfidence,
	}

	if err := database.GetDB().Model(&request).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	database.GetDB().Preload("Lead").First(&request, request.ID)

	return c.JSON(request)
}

// DeleteLeadRequest talebi siler
func DeleteLeadRequest(c *fiber.Ctx) error {
	id := c.Params("id")

	var request model.LeadRequest
	if err := database.GetDB().First(&request, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Request not found",
		})
	}

	if err := database.GetDB().Unscoped().Delete(&request).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetRequestAnalytics tüm taleplerin özet istatistiklerini hesaplar
func GetRequestAnalytics(c *fiber.Ctx) error {
	var requests []model.LeadRequest
	if err := database.GetDB().Find(&requests).Error; err != nil {
		log.Printf("Error fetching requests for analytics: %v", err)
		requests = []model.LeadRequest{}
	}

	summary := analytics.Summarize(requests, time.Now())

	return c.JSON(summary)
}
