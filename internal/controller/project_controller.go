package controller

import (
	"log"

	"aqarcrm_backend/internal/model"
	"aqarcrm_backend/pkg/analytics"
	"aqarcrm_backend/pkg/database"

	"github.com/gofiber/fiber/v2"
)

type ProjectInput struct {
	ProjectNo    *int   `json:"project_no"`
	Name         string `json:"name" validate:"required"`
	City         string `json:"city"`
	District     string `json:"district"`
	Address      string `json:"address"`
	LocationDesc string `json:"location_desc"`
	MapURL       string `json:"map_url"`
	GuardPhone   string `json:"guard_phone"`
	Description  string `json:"description"`
	Active       *bool  `json:"active"`
}

// ListProjects projeleri oluşturulma tarihine göre azalan sıralar
func ListProjects(c *fiber.Ctx) error {
	var projects []model.Project
	if err := database.GetDB().Order("created_at desc").Find(&projects).Error; err != nil {
		log.Printf("Error fetching projects: %v", err)
		return c.JSON([]model.Project{})
	}

	search := c.Query("search")
	city := c.Query("city")

	filtered := make([]model.Project, 0, len(projects))
	for i := range projects {
		if !projects[i].MatchesSearch(search) {
			continue
		}
		if city != "" && city != "all" {
			if projects[i].City == nil || *projects[i].City != city {
				continue
			}
		}
		filtered = append(filtered, projects[i])
	}

	return c.JSON(filtered)
}

// GetProject proje detayını tip bazında gruplanmış birimlerle döner
func GetProject(c *fiber.Ctx) error {
	id := c.Params("id")

	var project model.Project
	if err := database.GetDB().
		Preload("UnitTypes").
		First(&project, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Project not found",
		})
	}

	var units []model.Unit
	if err := database.GetDB().
		Preload("UnitTypeRef").
		Where("project_id = ?", project.ID).
		Order("unit_code asc").
		Find(&units).Error; err != nil {
		log.Printf("Error fetching project units: %v", err)
		units = []model.Unit{}
	}

	byType, untyped := analytics.GroupUnitsByType(units)

	return c.JSON(fiber.Map{
		"project":       project,
		"units_by_type": byType,
		"untyped_units": untyped,
		"unit_count":    len(units),
	})
}

// CreateProject yeni proje oluşturur
func CreateProject(c *fiber.Ctx) error {
	input := new(ProjectInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if input.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name is required",
		})
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}

	project := model.Project{
		ProjectNo:    input.ProjectNo,
		Name:         input.Name,
		City:         strOrNil(input.City),
		District:     strOrNil(input.District),
		Address:      strOrNil(input.Address),
		LocationDesc: strOrNil(input.LocationDesc),
		MapURL:       strOrNil(input.MapURL),
		GuardPhone:   strOrNil(input.GuardPhone),
		Description:  strOrNil(input.Description),
		Active:       active,
	}

	if err := database.GetDB().Create(&project).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(project)
}

// UpdateProject projeyi günceller
func UpdateProject(c *fiber.Ctx) error {
	id := c.Params("id")

	var project model.Project
	if err := database.GetDB().First(&project, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Project not found",
		})
	}

	input := new(ProjectInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if input.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name is required",
		})
	}

	updates := map[string]interface{}{
		"project_no":    input.ProjectNo,
		"name":          input.Name,
		"city":          strOrNil(input.City),
		"district":      strOrNil(input.District),
		"address":       strOrNil(input.Address),
		"location_desc": strOrNil(input.LocationDesc),
		"map_url":       strOrNil(input.MapURL),
		"guard_phone":   strOrNil(input.GuardPhone),
		"description":   strOrNil(input.Description),
	}
	if input.Active != nil {
		updates["active"] = *input.Active
	}

	if err := database.GetDB().Model(&project).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	database.GetDB().First(&project, project.ID)

	return c.JSON(project)
}

// DeleteProject projeyi siler. Bağlı birimler varken silme engellenir.
func DeleteProject(c *fiber.Ctx) error {
	id := c.Params("id")

	var project model.Project
	if err := database.GetDB().First(&project, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Project not found",
		})
	}

	var unitCount int64
	database.GetDB().Model(&model.Unit{}).
		Where("project_id = ?", project.ID).
		Count(&unitCount)
	if unitCount > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "لا يمكن حذف المشروع لأنه مرتبط بوحدات. قم بحذف الوحدات أولاً.",
		})
	}

	// Tipler projeye bağlı, önce onları temizliyoruz
	if err := database.GetDB().Unscoped().
		Where("project_id = ?", project.ID).
		Delete(&model.UnitType{}).Error; err != nil {
		if database.IsForeignKeyViolation(err) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "لا يمكن حذف المشروع لأنه مرتبط بوحدات. قم بحذف الوحدات أولاً.",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if err := database.GetDB().Unscoped().Delete(&project).Error; err != nil {
		if database.IsForeignKeyViolation(err) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "لا يمكن حذف المشروع لأنه مرتبط بوحدات. قم بحذف الوحدات أولاً.",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetProjectUnits projenin birimlerini kod sırasıyla döner
func GetProjectUnits(c *fiber.Ctx) error {
	id := c.Params("id")

	var project model.Project
	if err := database.GetDB().First(&project, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Project not found",
		})
	}

	var units []model.Unit
	if err := database.GetDB().
		Preload("UnitTypeRef").
		Where("project_id = ?", project.ID).
		Order("unit_code asc").
		Find(&units).Error; err != nil {
		log.Printf("Error fetching project units: %v", err)
		units = []model.Unit{}
	}

	responses := make([]UnitResponse, 0, len(units))
	for i := range units {
		responses = append(responses, buildUnitResponse(&units[i]))
	}

	return c.JSON(responses)
}
