package controller

import (
	"log"

	"aqarcrm_backend/internal/model"
	"aqarcrm_backend/pkg/database"
	"aqarcrm_backend/pkg/utils/phone"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type LeadInput struct {
	Phone         string   `json:"phone" validate:"required"`
	Name          string   `json:"name"`
	City          string   `json:"city"`
	Budget        *float64 `json:"budget"`
	Rooms         *int     `json:"rooms"`
	Furnished     *bool    `json:"furnished"`
	Stage         string   `json:"stage"`
	AssignedAgent string   `json:"assigned_agent"`
}

// ListLeads tüm müşterileri getirir (updated_at'e göre azalan).
// search ve stage filtreleri bellekteki liste üzerinde uygulanır.
func ListLeads(c *fiber.Ctx) error {
	var leads []model.Lead
	if err := database.GetDB().Order("updated_at desc").Find(&leads).Error; err != nil {
		log.Printf("Error fetching leads: %v", err)
		return c.JSON([]model.Lead{})
	}

	search := c.Query("search")
	stage := c.Query("stage")

	filtered := make([]model.Lead, 0, len(leads))
	for i := range leads {
		if !leads[i].MatchesSearch(search) {
			continue
		}
		if stage != "" && stage != "all" && string(leads[i].Stage) != stage {
			continue
		}
		filtered = append(filtered, leads[i])
	}

	return c.JSON(filtered)
}

// CreateLead yeni müşteri oluşturur
func CreateLead(c *fiber.Ctx) error {
	input := new(LeadInput)
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

	stage := model.LeadStage(input.Stage)
	if input.Stage == "" {
		stage = model.LeadStageNew
	}
	if !model.ValidLeadStage(stage) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid stage value",
		})
	}

	lead := model.Lead{
		Phone:         phone.Normalize(input.Phone),
		Name:          strOrNil(input.Name),
		City:          strOrNil(input.City),
		Budget:        input.Budget,
		Rooms:         input.Rooms,
		Furnished:     input.Furnished,
		Stage:         stage,
		AssignedAgent: strOrNil(input.AssignedAgent),
	}

	if err := database.GetDB().Create(&lead).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "هذا الرقم مسجل مسبقاً",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(lead)
}

// UpdateLead müşteri bilgilerini günceller
func UpdateLead(c *fiber.Ctx) error {
	id := c.Params("id")

	var lead model.Lead
	if err := database.GetDB().First(&lead, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Lead not found",
		})
	}

	input := new(LeadInput)
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

	stage := model.LeadStage(input.Stage)
	if input.Stage == "" {
		stage = model.LeadStageNew
	}
	if !model.ValidLeadStage(stage) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid stage value",
			"valid_stages": []string{
				string(model.LeadStageNew),
				string(model.LeadStageContacted),
				string(model.LeadStageQualified),
				string(model.LeadStageViewing),
				string(model.LeadStageOffer),
				string(model.LeadStageClosed),
				string(model.LeadStageCompleted),
			},
		})
	}

	updates := map[string]interface{}{
		"phone":          phone.Normalize(input.Phone),
		"name":           strOrNil(input.Name),
		"city":           strOrNil(input.City),
		"budget":         input.Budget,
		"rooms":          input.Rooms,
		"furnished":      input.Furnished,
		"stage":          stage,
		"assigned_agent": strOrNil(input.AssignedAgent),
	}

	if err := database.GetDB().Model(&lead).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	// Güncel halini yükle
	database.GetDB().First(&lead, lead.ID)

	return c.JSON(lead)
}

// DeleteLead müşteriyi siler. Bağlı kayıtlar varsa FK kısıtı engeller.
func DeleteLead(c *fiber.Ctx) error {
	id := c.Params("id")

	var lead model.Lead
	if err := database.GetDB().First(&lead, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Lead not found",
		})
	}

	if err := database.GetDB().Unscoped().Delete(&lead).Error; err != nil {
		if database.IsForeignKeyViolation(err) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "لا يمكن حذف العميل لأنه مرتبط بسجلات أخرى",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetLeadAppointments müşterinin randevularını detay paneli için getirir
func GetLeadAppointments(c *fiber.Ctx) error {
	id := c.Params("id")

	var appointments []model.Appointment
	if err := database.GetDB().
		Preload("Unit").
		Preload("Unit.Project").
		Preload("Unit.UnitTypeRef").
		Where("lead_id = ?", id).
		Order("starts_at desc").
		Find(&appointments).Error; err != nil {
		log.Printf("Error fetching lead appointments: %v", err)
		return c.JSON([]model.Appointment{})
	}

	return c.JSON(appointments)
}

// GetLeadRequests müşterinin taleplerini detay paneli için getirir
func GetLeadRequests(c *fiber.Ctx) error {
	id := c.Params("id")

	var requests []model.LeadRequest
	if err := database.GetDB().
		Where("lead_id = ?", id).
		Order("created_at desc").
		Find(&requests).Error; err != nil {
		log.Printf("Error fetching lead requests: %v", err)
		return c.JSON([]model.LeadRequest{})
	}

	return c.JSON(requests)
}

// GetLeadConversation müşterinin en son konuşmasını getirir.
// Konuşmalar sayfasına conversation_id ile derin bağlantı için kullanılır.
func GetLeadConversation(c *fiber.Ctx) error {
	id := c.Params("id")

	var conversation model.Conversation
	err := database.GetDB().
		Where("lead_id = ?", id).
		Order("last_msg_at desc").
		First(&conversation).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "لا توجد محادثة لهذا العميل",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(conversation)
}
