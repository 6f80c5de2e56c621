package controller

import (
	"fmt"
	"testing"

	"aqarcrm_backend/internal/model"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedProject(t *testing.T, db *gorm.DB, name string) model.Project {
	t.Helper()

	project := model.Project{Name: name, Active: true}
	require.NoError(t, db.Create(&project).Error)
	return project
}

func seedUnit(t *testing.T, db *gorm.DB, projectID *uint, code string) model.Unit {
	t.Helper()

	unit := model.Unit{ProjectID: projectID, UnitCode: &code, Active: true}
	require.NoError(t, db.Create(&unit).Error)
	return unit
}

func TestCreateProjectRequiresName(t *testing.T) {
	app, _ := setupTestApp(t)

	resp := doJSON(t, app, "POST", "/api/projects", fiber.Map{"city": "جدة"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestDeleteProjectBlockedByUnits(t *testing.T) {
	app, db := setupTestApp(t)
	project := seedProject(t, db, "برج النخيل")
	unit := seedUnit(t, db, &project.ID, "A-101")

	resp := doJSON(t, app, "DELETE", fmt.Sprintf("/api/projects/%d", project.ID), nil)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "لا يمكن حذف المشروع لأنه مرتبط بوحدات. قم بحذف الوحدات أولاً.", body["error"])

	require.NoError(t, db.Unscoped().Delete(&unit).Error)
	resp = doJSON(t, app, "DELETE", fmt.Sprintf("/api/projects/%d", project.ID), nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestDeleteProjectRemovesItsUnitTypes(t *testing.T) {
	app, db := setupTestApp(t)
	project := seedProject(t, db, "برج النخيل")

	unitType := model.UnitType{ProjectID: project.ID, Name: "شقة 3 غرف"}
	require.NoError(t, db.Create(&unitType).Error)

	resp := doJSON(t, app, "DELETE", fmt.Sprintf("/api/projects/%d", project.ID), nil)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	var count int64
	db.Model(&model.UnitType{}).Where("project_id = ?", project.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestProjectDetailGroupsUnitsByType(t *testing.T) {
	app, db := setupTestApp(t)
	project := seedProject(t, db, "برج النخيل")

	unitType := model.UnitType{ProjectID: project.ID, Name: "شقة 3 غرف"}
	require.NoError(t, db.Create(&unitType).Error)

	typed := model.Unit{ProjectID: &project.ID, UnitTypeID: &unitType.ID, Active: true}
	code := "A-101"
	typed.UnitCode = &code
	require.NoError(t, db.Create(&typed).Error)
	seedUnit(t, db, &project.ID, "B-201")

	resp := doJSON(t, app, "GET", fmt.Sprintf("/api/projects/%d", project.ID), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Project      model.Project           `json:"project"`
		UnitsByType  map[string][]model.Unit `json:"units_by_type"`
		UntypedUnits []model.Unit            `json:"untyped_units"`
		UnitCount    int                     `json:"unit_count"`
	}
	decodeBody(t, resp, &body)

	assert.Equal(t, project.ID, body.Project.ID)
	assert.Equal(t, 2, body.UnitCount)
	require.Len(t, body.UntypedUnits, 1)
	assert.Equal(t, "B-201", *body.UntypedUnits[0].UnitCode)
	require.Len(t, body.UnitsByType[fmt.Sprint(unitType.ID)], 1)
}

func TestCreateUnitTypeDuplicateInProject(t *testing.T) {
	app, db := setupTestApp(t)
	project := seedProject(t, db, "برج النخيل")

	resp := doJSON(t, app, "POST", "/api/unit-types", fiber.Map{
		"project_id": project.ID,
		"name":       "شقة 3 غرف",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/api/unit-types", fiber.Map{
		"project_id": project.ID,
		"name":       "شقة 3 غرف",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "هذا النوع موجود مسبقاً في المشروع", body["error"])

	// Aynı ad başka projede serbest
	other := seedProject(t, db, "مجمع الياسمين")
	resp = doJSON(t, app, "POST", "/api/unit-types", fiber.Map{
		"project_id": other.ID,
		"name":       "شقة 3 غرف",
	})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestDeleteUnitTypeBlockedByUnits(t *testing.T) {
	app, db := setupTestApp(t)
	project := seedProject(t, db, "برج النخيل")

	unitType := model.UnitType{ProjectID: project.ID, Name: "شقة 3 غرف"}
	require.NoError(t, db.Create(&unitType).Error)

	unit := model.Unit{ProjectID: &project.ID, UnitTypeID: &unitType.ID, Active: true}
	require.NoError(t, db.Create(&unit).Error)

	resp := doJSON(t, app, "DELETE", fmt.Sprintf("/api/unit-types/%d", unitType.ID), nil)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "لا يمكن حذف النوع لأنه مرتبط بوحدات. قم بتغيير نوع الوحدات أولاً.", body["error"])
}

func TestProjectUnitTypesListWithUnitCounts(t *testing.T) {
	app, db := setupTestApp(t)
	project := seedProject(t, db, "برج النخيل")

	typeB := model.UnitType{ProjectID: project.ID, Name: "فيلا"}
	typeA := model.UnitType{ProjectID: project.ID, Name: "شقة"}
	require.NoError(t, db.Create(&typeB).Error)
	require.NoError(t, db.Create(&typeA).Error)

	unit := model.Unit{ProjectID: &project.ID, UnitTypeID: &typeA.ID, Active: true}
	require.NoError(t, db.Create(&unit).Error)

	resp := doJSON(t, app, "GET", fmt.Sprintf("/api/projects/%d/unit-types", project.ID), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var items []struct {
		model.UnitType
		UnitCount int64 `json:"unit_count"`
	}
	decodeBody(t, resp, &items)

	require.Len(t, items, 2)
	// İsme göre sıralı
	assert.Equal(t, "شقة", items[0].Name)
	assert.Equal(t, int64(1), items[0].UnitCount)
	assert.Equal(t, "فيلا", items[1].Name)
	assert.Equal(t, int64(0), items[1].UnitCount)
}

func TestListUnitTypesAcrossProjects(t *testing.T) {
	app, db := setupTestApp(t)
	projectA := seedProject(t, db, "برج النخيل")
	projectB := seedProject(t, db, "حي الياسمين")

	desc := "إطلالة على الحديقة"
	typeA := model.UnitType{ProjectID: projectA.ID, Name: "فيلا"}
	typeB := model.UnitType{ProjectID: projectB.ID, Name: "شقة", Description: &desc}
	require.NoError(t, db.Create(&typeA).Error)
	require.NoError(t, db.Create(&typeB).Error)

	unit := model.Unit{ProjectID: &projectA.ID, UnitTypeID: &typeA.ID, Active: true}
	require.NoError(t, db.Create(&unit).Error)

	resp := doJSON(t, app, "GET", "/api/unit-types", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var items []struct {
		model.UnitType
		UnitCount int64 `json:"unit_count"`
	}
	decodeBody(t, resp, &items)

	// İsme göre sıralı, proje bilgisi yüklü
	require.Len(t, items, 2)
	assert.Equal(t, "شقة", items[0].Name)
	assert.Equal(t, "حي الياسمين", items[0].Project.Name)
	assert.Equal(t, int64(0), items[0].UnitCount)
	assert.Equal(t, "فيلا", items[1].Name)
	assert.Equal(t, "برج النخيل", items[1].Project.Name)
	assert.Equal(t, int64(1), items[1].UnitCount)

	// Açıklama da aramaya dahil
	resp = doJSON(t, app, "GET", "/api/unit-types?search=الحديقة", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &items)
	require.Len(t, items, 1)
	assert.Equal(t, "شقة", items[0].Name)

	resp = doJSON(t, app, "GET", fmt.Sprintf("/api/unit-types?project_id=%d", projectA.ID), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &items)
	require.Len(t, items, 1)
	assert.Equal(t, "فيلا", items[0].Name)
}

func TestDeleteUnitBlockedByAppointments(t *testing.T) {
	app, db := setupTestApp(t)
	lead := seedLead(t, db, "+966501234567")
	unit := seedUnit(t, db, nil, "A-101")

	appt := model.Appointment{LeadID: lead.ID, UnitID: &unit.ID, StartsAt: testTime()}
	require.NoError(t, db.Create(&appt).Error)

	resp := doJSON(t, app, "DELETE", fmt.Sprintf("/api/units/%d", unit.ID), nil)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "لا يمكن حذف الوحدة لأنها مرتبطة بمواعيد. قم بحذف المواعيد أولاً.", body["error"])

	require.NoError(t, db.Unscoped().Delete(&appt).Error)
	resp = doJSON(t, app, "DELETE", fmt.Sprintf("/api/units/%d", unit.ID), nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestCreateAppointmentValidation(t *testing.T) {
	app, db := setupTestApp(t)
	lead := seedLead(t, db, "+966501234567")

	resp := doJSON(t, app, "POST", "/api/appointments", fiber.Map{
		"starts_at": "2026-09-01T15:00",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/api/appointments", fiber.Map{
		"lead_id": lead.ID,
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/api/appointments", fiber.Map{
		"lead_id":   lead.ID,
		"starts_at": "2026-09-01T15:00",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var appt model.Appointment
	decodeBody(t, resp, &appt)
	assert.Equal(t, model.AppointmentStatusScheduled, appt.Status)
	assert.Equal(t, lead.ID, appt.Lead.ID)
}

func TestUpdateAppointmentStatus(t *testing.T) {
	app, db := setupTestApp(t)
	lead := seedLead(t, db, "+966501234567")

	appt := model.Appointment{LeadID: lead.ID, StartsAt: testTime(), Status: model.AppointmentStatusScheduled}
	require.NoError(t, db.Create(&appt).Error)

	resp := doJSON(t, app, "PUT", fmt.Sprintf("/api/appointments/%d", appt.ID), fiber.Map{
		"lead_id":   lead.ID,
		"starts_at": "2026-09-01T15:00",
		"status":    "no_show",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var updated model.Appointment
	decodeBody(t, resp, &updated)
	assert.Equal(t, model.AppointmentStatusNoShow, updated.Status)

	resp = doJSON(t, app, "PUT", fmt.Sprintf("/api/appointments/%d", appt.ID), fiber.Map{
		"lead_id":   lead.ID,
		"starts_at": "2026-09-01T15:00",
		"status":    "pending",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
