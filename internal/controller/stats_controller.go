package controller

import (
	"aqarcrm_backend/internal/model"
	"aqarcrm_backend/pkg/database"

	"github.com/gofiber/fiber/v2"
)

// GetDashboardStats dashboard kartları için sayaçları döner
func GetDashboardStats(c *fiber.Ctx) error {
	db := database.GetDB()

	var totalLeads, activeLeads, newLeads int64
	db.Model(&model.Lead{}).Count(&totalLeads)
	db.Model(&model.Lead{}).Where("stage <> ?", model.LeadStageCompleted).Count(&activeLeads)
	db.Model(&model.Lead{}).Where("stage = ?", model.LeadStageNew).Count(&newLeads)

	var totalAppointments, scheduledAppointments int64
	db.Model(&model.Appointment{}).Count(&totalAppointments)
	db.Model(&model.Appointment{}).Where("status = ?", model.AppointmentStatusScheduled).Count(&scheduledAppointments)

	var totalUnits int64
	db.Model(&model.Unit{}).Where("active = ?", true).Count(&totalUnits)

	var totalRequests int64
	db.Model(&model.LeadRequest{}).Count(&totalRequests)

	var totalProjects int64
	db.Model(&model.Project{}).Count(&totalProjects)

	return c.JSON(fiber.Map{
		"total_leads":             totalLeads,
		"active_leads":            activeLeads,
		"new_leads":               newLeads,
		"total_appointments":      totalAppointments,
		"scheduled_appointments":  scheduledAppointments,
		"total_units":             totalUnits,
		"total_customer_requests": totalRequests,
		"total_projects":          totalProjects,
	})
}
