package controller

import (
	"log"
	"time"

	"aqarcrm_backend/internal/model"
	"aqarcrm_backend/pkg/database"

	"github.com/gofiber/fiber/v2"
)

type AppointmentInput struct {
	LeadID   uint   `json:"lead_id" validate:"required"`
	UnitID   *uint  `json:"unit_id"`
	StartsAt string `json:"starts_at" validate:"required"`
	Status   string `json:"status"`
	Agent    string `json:"agent"`
	Notes    string `json:"notes"`
}

// parseAppointmentInput ortak doğrulama: lead ve başlangıç zamanı zorunlu.
// Hata yanıtını kendisi yazar, ok=false dönmesi handler'ın bitmesi demektir.
func parseAppointmentInput(c *fiber.Ctx) (input *AppointmentInput, startsAt time.Time, status model.AppointmentStatus, ok bool) {
	input = new(AppointmentInput)
	if err := c.BodyParser(input); err != nil {
		c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
		return nil, time.Time{}, "", false
	}

	if input.LeadID == 0 {
		c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Lead is required",
		})
		return nil, time.Time{}, "", false
	}
	if input.StartsAt == "" {
		c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Start time is required",
		})
		return nil, time.Time{}, "", false
	}

	startsAt, err := parseStartsAt(input.StartsAt)
	if err != nil {
		c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid start time",
		})
		return nil, time.Time{}, "", false
	}

	status = model.AppointmentStatus(input.Status)
	if input.Status == "" {
		status = model.AppointmentStatusScheduled
	}
	if !model.ValidAppointmentStatus(status) {
		c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid status value",
			"valid_statuses": []string{
				string(model.AppointmentStatusScheduled),
				string(model.AppointmentStatusConfirmed),
				string(model.AppointmentStatusCompleted),
				string(model.AppointmentStatusCancelled),
				string(model.AppointmentStatusNoShow),
			},
		})
		return nil, time.Time{}, "", false
	}

	return input, startsAt, status, true
}

// parseStartsAt hem RFC3339 hem de formdaki "2006-01-02T15:04" biçimini kabul eder
func parseStartsAt(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04", value)
}

// ListAppointments tüm randevuları ilişkileriyle getirir (starts_at azalan)
func ListAppointments(c *fiber.Ctx) error {
	var appointments []model.Appointment
	if err := database.GetDB().
		Preload("Lead").
		Preload("Unit").
		Preload("Unit.Project").
		Preload("Unit.UnitTypeRef").
		Order("starts_at desc").
		Find(&appointments).Error; err != nil {
		log.Printf("Error fetching appointments: %v", err)
		return c.JSON([]model.Appointment{})
	}

	search := c.Query("search")
	status := c.Query("status")

	filtered := make([]model.Appointment, 0, len(appointments))
	for i := range appointments {
		if !appointments[i].MatchesSearch(search) {
			continue
		}
		if status != "" && status != "all" && string(appointments[i].Status) != status {
			continue
		}
		filtered = append(filtered, appointments[i])
	}

	return c.JSON(filtered)
}

// CreateAppointment yeni randevu oluşturur
func CreateAppointment(c *fiber.Ctx) error {
	input, startsAt, status, ok := parseAppointmentInput(c)
	if !ok {
		return nil
	}

	appointment := model.Appointment{
		LeadID:   input.LeadID,
		UnitID:   input.UnitID,
		StartsAt: startsAt,
		Status:   status,
		Agent:    strOrNil(input.Agent),
		Notes:    strOrNil(input.Notes),
	}

	if err := database.GetDB().Create(&appointment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	database.GetDB().Preload("Lead").Preload("Unit").First(&appointment, appointment.ID)

	return c.Status(fiber.StatusCreated).JSON(appointment)
}

// UpdateAppointment randevuyu günceller. Geçmiş tarihli "scheduled"
// randevular için ek bir kural uygulanmaz.
func UpdateAppointment(c *fiber.Ctx) error {
	id := c.Params("id")

	var appointment model.Appointment
	if err := database.GetDB().First(&appointment, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Appointment not found",
		})
	}

	input, startsAt, status, ok := parseAppointmentInput(c)
	if !ok {
		return nil
	}

	updates := map[string]interface{}{
		"lead_id":   input.LeadID,
		"unit_id":   input.UnitID,
		"starts_at": startsAt,
		"status":    status,
		"agent":     strOrNil(input.Agent),
		"notes":     strOrNil(input.Notes),
	}

	if err := database.GetDB().Model(&appointment).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	database.GetDB().Preload("Lead").Preload("Unit").First(&appointment, appointment.ID)

	return c.JSON(appointment)
}

// DeleteAppointment randevuyu siler
func DeleteAppointment(c *fiber.Ctx) error {
	id := c.Params("id")

	var appointment model.Appointment
	if err := database.GetDB().First(&appointment, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Appointment not found",
		})
	}

	if err := database.GetDB().Unscoped().Delete(&appointment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
