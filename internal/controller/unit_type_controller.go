package controller

import (
	"log"
	"strconv"

	"aqarcrm_backend/internal/model"
	"aqarcrm_backend/pkg/database"

	"github.com/gofiber/fiber/v2"
)

type UnitTypeInput struct {
	ProjectID   uint     `json:"project_id" validate:"required"`
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	AreaSqm     *float64 `json:"area_sqm"`
	Rooms       *int     `json:"rooms"`
	Baths       *int     `json:"baths"`
}

// unitTypeListItem tip listesinde bağlı birim sayısını da taşır
type unitTypeListItem struct {
	model.UnitType
	UnitCount int64 `json:"unit_count"`
}

// ListUnitTypes tüm projelerin birim tiplerini isme göre sıralı getirir
func ListUnitTypes(c *fiber.Ctx) error {
	var unitTypes []model.UnitType
	if err := database.GetDB().
		Preload("Project").
		Order("name asc").
		Find(&unitTypes).Error; err != nil {
		log.Printf("Error fetching unit types: %v", err)
		return c.JSON([]unitTypeListItem{})
	}

	search := c.Query("search")
	projectID := c.Query("project_id")

	items := make([]unitTypeListItem, 0, len(unitTypes))
	for i := range unitTypes {
		if !unitTypes[i].MatchesSearch(search) {
			continue
		}
		if projectID != "" && projectID != "all" {
			if strconv.FormatUint(uint64(unitTypes[i].ProjectID), 10) != projectID {
				continue
			}
		}
		var count int64
		database.GetDB().Model(&model.Unit{}).
			Where("unit_type_id = ?", unitTypes[i].ID).
			Count(&count)
		items = append(items, unitTypeListItem{
			UnitType:  unitTypes[i],
			UnitCount: count,
		})
	}

	return c.JSON(items)
}

// GetProjectUnitTypes projenin birim tiplerini isme göre sıralar
func GetProjectUnitTypes(c *fiber.Ctx) error {
	id := c.Params("id")

	var project model.Project
	if err := database.GetDB().First(&project, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Project not found",
		})
	}

	var unitTypes []model.UnitType
	if err := database.GetDB().
		Where("project_id = ?", project.ID).
		Order("name asc").
		Find(&unitTypes).Error; err != nil {
		log.Printf("Error fetching unit types: %v", err)
		unitTypes = []model.UnitType{}
	}

	items := make([]unitTypeListItem, 0, len(unitTypes))
	for i := range unitTypes {
		var count int64
		database.GetDB().Model(&model.Unit{}).
			Where("unit_type_id = ?", unitTypes[i].ID).
			Count(&count)
		items = append(items, unitTypeListItem{
			UnitType:  unitTypes[i],
			UnitCount: count,
		})
	}

	return c.JSON(items)
}

// CreateUnitType projeye yeni birim tipi ekler. Aynı proje içinde
// tip adı benzersizdir.
func CreateUnitType(c *fiber.Ctx) error {
	input := new(UnitTypeInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if input.ProjectID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Project is required",
		})
	}
	if input.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name is required",
		})
	}

	unitType := model.UnitType{
		ProjectID:   input.ProjectID,
		Name:        input.Name,
		Description: strOrNil(input.Description),
		AreaSqm:     input.AreaSqm,
		Rooms:       input.Rooms,
		Baths:       input.Baths,
	}

	if err := database.GetDB().Create(&unitType).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "هذا النوع موجود مسبقاً في المشروع",
			})
		}
		if database.IsForeignKeyViolation(err) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "المشروع المحدد غير موجود",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(unitType)
}

// UpdateUnitType birim tipini günceller
func UpdateUnitType(c *fiber.Ctx) error {
	id := c.Params("id")

	var unitType model.UnitType
	if err := database.GetDB().First(&unitType, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Unit type not found",
		})
	}

	input := new(UnitTypeInput)
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
		"name":        input.Name,
		"description": strOrNil(input.Description),
		"area_sqm":    input.AreaSqm,
		"rooms":       input.Rooms,
		"baths":       input.Baths,
	}

	if err := database.GetDB().Model(&unitType).Updates(updates).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "هذا النوع موجود مسبقاً في المشروع",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	database.GetDB().First(&unitType, unitType.ID)

	return c.JSON(unitType)
}

// DeleteUnitType tipi siler. Tipe bağlı birimler varken silme engellenir.
func DeleteUnitType(c *fiber.Ctx) error {
	id := c.Params("id")

	var unitType model.UnitType
	if err := database.GetDB().First(&unitType, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Unit type not found",
		})
	}

	var unitCount int64
	database.GetDB().Model(&model.Unit{}).
		Where("unit_type_id = ?", unitType.ID).
		Count(&unitCount)
	if unitCount > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "لا يمكن حذف النوع لأنه مرتبط بوحدات. قم بتغيير نوع الوحدات أولاً.",
		})
	}

	if err := database.GetDB().Unscoped().Delete(&unitType).Error; err != nil {
		if database.IsForeignKeyViolation(err) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "لا يمكن حذف النوع لأنه مرتبط بوحدات. قم بتغيير نوع الوحدات أولاً.",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
