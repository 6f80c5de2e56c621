package controller

import (
	"errors"
	"log"

	"aqarcrm_backend/internal/model"
	"aqarcrm_backend/pkg/database"
	"aqarcrm_backend/pkg/utils/image"
	"aqarcrm_backend/pkg/utils/storage"
	"aqarcrm_backend/pkg/utils/validation"

	"github.com/gofiber/fiber/v2"
)

// saveUnitPhotos multipart istekteki fotoğrafları işleyip yükler ve
// birimin fotoğraf kolonlarını günceller. JSON isteklerde no-op.
// İlk hatada döner; o ana kadar yüklenenler kalır.
func saveUnitPhotos(c *fiber.Ctx, unit *model.Unit) error {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}

	primaryFiles := form.File["primary"]
	galleryFiles := form.File["gallery"]
	if len(primaryFiles) == 0 && len(galleryFiles) == 0 {
		return nil
	}

	if storage.Default == nil {
		return errors.New("storage is not configured")
	}

	updates := map[string]interface{}{}

	if len(primaryFiles) > 0 {
		file := primaryFiles[0]
		if err := validation.ValidateImage(file); err != nil {
			return err
		}
		buf, contentType, err := image.ProcessImage(file)
		if err != nil {
			return err
		}
		key := storage.UnitPrimaryKey(unit.ID, file.Filename)
		if err := storage.Default.Upload(c.Context(), key, buf, contentType); err != nil {
			return err
		}
		// Eski ana fotoğraf varsa storage'dan temizle
		if unit.PrimaryPhoto != nil && *unit.PrimaryPhoto != "" && *unit.PrimaryPhoto != key {
			if err := storage.Default.Delete(c.Context(), *unit.PrimaryPhoto); err != nil {
				log.Printf("Error deleting old primary photo %s: %v", *unit.PrimaryPhoto, err)
			}
		}
		unit.PrimaryPhoto = &key
		updates["primary_photo"] = key
	}

	if len(galleryFiles) > 0 {
		paths := unit.GalleryPaths()
		for _, file := range galleryFiles {
			if err := validation.ValidateImage(file); err != nil {
				return err
			}
			buf, contentType, err := image.ProcessImage(file)
			if err != nil {
				return err
			}
			key := storage.UnitGalleryKey(unit.ID, file.Filename)
			if err := storage.Default.Upload(c.Context(), key, buf, contentType); err != nil {
				return err
			}
			paths = append(paths, key)
		}
		if err := unit.SetGalleryPaths(paths); err != nil {
			return err
		}
		updates["photos_paths"] = unit.PhotosPaths
	}

	if len(updates) > 0 {
		if err := database.GetDB().Model(unit).Updates(updates).Error; err != nil {
			return err
		}
	}

	return nil
}

// UploadUnitPhotos mevcut birime fotoğraf ekler
func UploadUnitPhotos(c *fiber.Ctx) error {
	id := c.Params("id")

	var unit model.Unit
	if err := database.GetDB().First(&unit, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Unit not found",
		})
	}

	if err := saveUnitPhotos(c, &unit); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	database.GetDB().Preload("Project").Preload("UnitTypeRef").First(&unit, unit.ID)

	return c.JSON(buildUnitResponse(&unit))
}

// DeleteUnitPhoto tek bir fotoğrafı hem storage'dan hem kayıttan kaldırır
func DeleteUnitPhoto(c *fiber.Ctx) error {
	id := c.Params("id")

	var unit model.Unit
	if err := database.GetDB().First(&unit, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Unit not found",
		})
	}

	var input struct {
		Key string `json:"key"`
	}
	if err := c.BodyParser(&input); err != nil || input.Key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Photo key is required",
		})
	}

	updates := map[string]interface{}{}
	if unit.PrimaryPhoto != nil && *unit.PrimaryPhoto == input.Key {
		updates["primary_photo"] = nil
		unit.PrimaryPhoto = nil
	} else {
		paths := unit.GalleryPaths()
		kept := make([]string, 0, len(paths))
		found := false
		for _, p := range paths {
			if p == input.Key {
				found = true
				continue
			}
			kept = append(kept, p)
		}
		if !found {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Photo not found",
			})
		}
		if err := unit.SetGalleryPaths(kept); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		updates["photos_paths"] = unit.PhotosPaths
	}

	if err := database.GetDB().Model(&unit).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if storage.Default != nil {
		if err := storage.Default.Delete(c.Context(), input.Key); err != nil {
			log.Printf("Error deleting photo %s from storage: %v", input.Key, err)
		}
	}

	return c.JSON(buildUnitResponse(&unit))
}
