package controller

import (
	"log"
	"strconv"

	"aqarcrm_backend/internal/model"
	"aqarcrm_backend/pkg/database"
	"aqarcrm_backend/pkg/utils/storage"

	"github.com/gofiber/fiber/v2"
)

type UnitInput struct {
	ProjectID    *uint    `json:"project_id" form:"project_id"`
	UnitTypeID   *uint    `json:"unit_type_id" form:"unit_type_id"`
	UnitCode     string   `json:"unit_code" form:"unit_code"`
	UnitType     string   `json:"unit_type" form:"unit_type"`
	FloorNo      *int     `json:"floor_no" form:"floor_no"`
	FloorLabel   string   `json:"floor_label" form:"floor_label"`
	Rooms        *int     `json:"rooms" form:"rooms"`
	Baths        *int     `json:"baths" form:"baths"`
	Features     string   `json:"features" form:"features"`
	GuardPhone   string   `json:"guard_phone" form:"guard_phone"`
	AqarURL      string   `json:"aqar_url" form:"aqar_url"`
	LocationDesc string   `json:"location_desc" form:"location_desc"`
	MapURL       string   `json:"map_url" form:"map_url"`
	Price        *float64 `json:"price" form:"price"`
	PriceMode    string   `json:"price_mode" form:"price_mode"`
	Active       *bool    `json:"active" form:"active"`
}

// UnitResponse fotoğraf key'lerini public URL'e çözülmüş haliyle döner
type UnitResponse struct {
	model.Unit
	PrimaryPhotoURL string   `json:"primary_photo_url"`
	GalleryURLs     []string `json:"gallery_urls"`
}

func buildUnitResponse(unit *model.Unit) UnitResponse {
	resp := UnitResponse{Unit: *unit, GalleryURLs: []string{}}
	if storage.Default == nil {
		return resp
	}
	if unit.PrimaryPhoto != nil {
		resp.PrimaryPhotoURL = storage.Default.PublicURL(*unit.PrimaryPhoto)
	}
	for _, key := range unit.GalleryPaths() {
		resp.GalleryURLs = append(resp.GalleryURLs, storage.Default.PublicURL(key))
	}
	return resp
}

func validPriceMode(mode model.PriceMode) bool {
	switch mode {
	case model.PriceModeSale, model.PriceModeRentMonthly, model.PriceModeRentYearly:
		return true
	}
	return false
}

// ListUnits birimleri ilişkileriyle getirir
func ListUnits(c *fiber.Ctx) error {
	var units []model.Unit
	if err := database.GetDB().
		Preload("Project").
		Preload("UnitTypeRef").
		Order("unit_code asc").
		Find(&units).Error; err != nil {
		log.Printf("Error fetching units: %v", err)
		return c.JSON([]UnitResponse{})
	}

	search := c.Query("search")
	projectID := c.Query("project_id")
	unitTypeID := c.Query("unit_type_id")
	active := c.Query("active")

	responses := make([]UnitResponse, 0, len(units))
	for i := range units {
		if !units[i].MatchesSearch(search) {
			continue
		}
		if projectID != "" && projectID != "all" {
			if units[i].ProjectID == nil || strconv.FormatUint(uint64(*units[i].ProjectID), 10) != projectID {
				continue
			}
		}
		if unitTypeID != "" && unitTypeID != "all" {
			if units[i].UnitTypeID == nil || strconv.FormatUint(uint64(*units[i].UnitTypeID), 10) != unitTypeID {
				continue
			}
		}
		if active == "true" && !units[i].Active {
			continue
		}
		if active == "false" && units[i].Active {
			continue
		}
		responses = append(responses, buildUnitResponse(&units[i]))
	}

	return c.JSON(responses)
}

// GetUnit tek birim detayını döner
func GetUnit(c *fiber.Ctx) error {
	id := c.Params("id")

	var unit model.Unit
	if err := database.GetDB().
		Preload("Project").
		Preload("UnitTypeRef").
		First(&unit, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Unit not found",
		})
	}

	return c.JSON(buildUnitResponse(&unit))
}

// CreateUnit yeni birim oluşturur. İstek JSON ya da multipart olabilir;
// multipart'ta satır kaydedildikten sonra fotoğraflar yüklenir. Fotoğraf
// yüklemesi başarısız olsa bile satır kalır, hata yanıtta raporlanır.
func CreateUnit(c *fiber.Ctx) error {
	input := new(UnitInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	unit := model.Unit{
		ProjectID:    input.ProjectID,
		UnitTypeID:   input.UnitTypeID,
		UnitCode:     strOrNil(input.UnitCode),
		UnitType:     strOrNil(input.UnitType),
		FloorNo:      input.FloorNo,
		FloorLabel:   strOrNil(input.FloorLabel),
		Rooms:        input.Rooms,
		Baths:        input.Baths,
		Features:     strOrNil(input.Features),
		GuardPhone:   strOrNil(input.GuardPhone),
		AqarURL:      strOrNil(input.AqarURL),
		LocationDesc: strOrNil(input.LocationDesc),
		MapURL:       strOrNil(input.MapURL),
		Price:        input.Price,
		Active:       true,
	}
	if input.Active != nil {
		unit.Active = *input.Active
	}
	if input.PriceMode != "" {
		mode := model.PriceMode(input.PriceMode)
		if !validPriceMode(mode) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid price mode",
				"valid_modes": []string{
					string(model.PriceModeSale),
					string(model.PriceModeRentMonthly),
					string(model.PriceModeRentYearly),
				},
			})
		}
		unit.PriceMode = &mode
	}

	if err := database.GetDB().Create(&unit).Error; err != nil {
		if database.IsForeignKeyViolation(err) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "المشروع أو النوع المحدد غير موجود",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	// Fotoğraflar satır kaydedildikten sonra yüklenir. Yükleme hatası
	// satırı geri almaz.
	uploadErr := saveUnitPhotos(c, &unit)

	database.GetDB().Preload("Project").Preload("UnitTypeRef").First(&unit, unit.ID)

	if uploadErr != nil {
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"unit":         buildUnitResponse(&unit),
			"upload_error": uploadErr.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(buildUnitResponse(&unit))
}

// UpdateUnit birimi günceller, varsa yeni fotoğrafları yükler
func UpdateUnit(c *fiber.Ctx) error {
	id := c.Params("id")

	var unit model.Unit
	if err := database.GetDB().First(&unit, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Unit not found",
		})
	}

	input := new(UnitInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	updates := map[string]interface{}{
		"project_id":    input.ProjectID,
		"unit_type_id":  input.UnitTypeID,
		"unit_code":     strOrNil(input.UnitCode),
		"unit_type":     strOrNil(input.UnitType),
		"floor_no":      input.FloorNo,
		"floor_label":   strOrNil(input.FloorLabel),
		"rooms":         input.Rooms,
		"baths":         input.Baths,
		"features":      strOrNil(input.Features),
		"guard_phone":   strOrNil(input.GuardPhone),
		"aqar_url":      strOrNil(input.AqarURL),
		"location_desc": strOrNil(input.LocationDesc),
		"map_url":       strOrNil(input.MapURL),
		"price":         input.Price,
	}
	if input.Active != nil {
		updates["active"] = *input.Active
	}
	if input.PriceMode != "" {
		mode := model.PriceMode(input.PriceMode)
		if !validPriceMode(mode) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid price mode",
			})
		}
		updates["price_mode"] = mode
	}

	if err := database.GetDB().Model(&unit).Updates(updates).Error; err != nil {
		if database.IsForeignKeyViolation(err) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "المشروع أو النوع المحدد غير موجود",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	uploadErr := saveUnitPhotos(c, &unit)

	database.GetDB().Preload("Project").Preload("UnitTypeRef").First(&unit, unit.ID)

	if uploadErr != nil {
		return c.JSON(fiber.Map{
			"unit":         buildUnitResponse(&unit),
			"upload_error": uploadErr.Error(),
		})
	}

	return c.JSON(buildUnitResponse(&unit))
}

// DeleteUnit birimi siler. Bağlı randevular varken silme engellenir.
// Storage temizliği best-effort yapılır.
func DeleteUnit(c *fiber.Ctx) error {
	id := c.Params("id")

	var unit model.Unit
	if err := database.GetDB().First(&unit, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Unit not found",
		})
	}

	var appointmentCount int64
	database.GetDB().Model(&model.Appointment{}).
		Where("unit_id = ?", unit.ID).
		Count(&appointmentCount)
	if appointmentCount > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "لا يمكن حذف الوحدة لأنها مرتبطة بمواعيد. قم بحذف المواعيد أولاً.",
		})
	}

	keys := unit.GalleryPaths()
	if unit.PrimaryPhoto != nil && *unit.PrimaryPhoto != "" {
		keys = append(keys, *unit.PrimaryPhoto)
	}

	if err := database.GetDB().Unscoped().Delete(&unit).Error; err != nil {
		if database.IsForeignKeyViolation(err) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "لا يمكن حذف الوحدة لأنها مرتبطة بمواعيد. قم بحذف المواعيد أولاً.",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if len(keys) > 0 && storage.Default != nil {
		if err := storage.Default.Delete(c.Context(), keys...); err != nil {
			log.Printf("Error deleting unit %d photos from storage: %v", unit.ID, err)
		}
	}

	return c.SendStatus(fiber.StatusNoContent)
}
