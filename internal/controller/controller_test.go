package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"aqarcrm_backend/internal/middleware"
	"aqarcrm_backend/internal/model"
	"aqarcrm_backend/pkg/database"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Lead{},
		&model.Project{},
		&model.UnitType{},
		&model.Unit{},
		&model.Appointment{},
		&model.Conversation{},
		&model.Message{},
		&model.LeadRequest{},
	))

	database.DB = db
	return db
}

func setupTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)

	app := fiber.New()
	api := app.Group("/api")

	api.Post("/auth/login", Login)
	api.Get("/me", middleware.AuthMiddleware(), GetMe)

	api.Get("/leads", ListLeads)
	api.Post("/leads", CreateLead)
	api.Put("/leads/:id", UpdateLead)
	api.Delete("/leads/:id", DeleteLead)
	api.Get("/leads/:id/appointments", GetLeadAppointments)
	api.Get("/leads/:id/requests", GetLeadRequests)
	api.Get("/leads/:id/conversation", GetLeadConversation)

	api.Get("/appointments", ListAppointments)
	api.Post("/appointments", CreateAppointment)
	api.Put("/appointments/:id", UpdateAppointment)
	api.Delete("/appointments/:id", DeleteAppointment)

	api.Get("/conversations", ListConversations)
	api.Get("/conversations/:id/messages", GetConversationMessages)

	api.Get("/requests", ListLeadRequests)
	api.Get("/requests/analytics", GetRequestAnalytics)
	api.Post("/requests", CreateLeadRequest)
	api.Put("/requests/:id", UpdateLeadRequest)
	api.Delete("/requests/:id", DeleteLeadRequest)

	api.Get("/projects", ListProjects)
	api.Post("/projects", CreateProject)
	api.Get("/projects/:id", GetProject)
	api.Put("/projects/:id", UpdateProject)
	api.Delete("/projects/:id", DeleteProject)
	api.Get("/projects/:id/units", GetProjectUnits)
	api.Get("/projects/:id/unit-types", GetProjectUnitTypes)

	api.Get("/unit-types", ListUnitTypes)
	api.Post("/unit-types", CreateUnitType)
	api.Put("/unit-types/:id", UpdateUnitType)
	api.Delete("/unit-types/:id", DeleteUnitType)

	api.Get("/units", ListUnits)
	api.Post("/units", CreateUnit)
	api.Get("/units/:id", GetUnit)
	api.Put("/units/:id", UpdateUnit)
	api.Delete("/units/:id", DeleteUnit)
	api.Post("/units/:id/photos", UploadUnitPhotos)
	api.Delete("/units/:id/photos", DeleteUnitPhoto)

	api.Get("/dashboard/stats", GetDashboardStats)

	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func testTime() time.Time {
	return time.Date(2026, 8, 1, 15, 0, 0, 0, time.UTC)
}

func seedUser(t *testing.T, db *gorm.DB, email, password string) model.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := model.User{Email: email, Password: string(hashed), Name: "Test Admin"}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedLead(t *testing.T, db *gorm.DB, phone string) model.Lead {
	t.Helper()

	lead := model.Lead{Phone: phone, Stage: model.LeadStageNew}
	require.NoError(t, db.Create(&lead).Error)
	return lead
}

func TestLogin(t *testing.T) {
	app, db := setupTestApp(t)
	seedUser(t, db, "admin@example.com", "secret123")

	resp := doJSON(t, app, "POST", "/api/auth/login", fiber.Map{
		"email":    "admin@example.com",
		"password": "secret123",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Token string                 `json:"token"`
		User  map[string]interface{} `json:"user"`
	}
	decodeBody(t, resp, &body)

	assert.NotEmpty(t, body.Token)
	assert.Equal(t, "admin@example.com", body.User["email"])
	_, hasPassword := body.User["password"]
	assert.False(t, hasPassword)
}

func TestLoginInvalidCredentials(t *testing.T) {
	app, db := setupTestApp(t)
	seedUser(t, db, "admin@example.com", "secret123")

	resp := doJSON(t, app, "POST", "/api/auth/login", fiber.Map{
		"email":    "admin@example.com",
		"password": "wrong",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/api/auth/login", fiber.Map{
		"email":    "nobody@example.com",
		"password": "secret123",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestGetMeRequiresToken(t *testing.T) {
	app, db := setupTestApp(t)
	seedUser(t, db, "admin@example.com", "secret123")

	req := httptest.NewRequest("GET", "/api/me", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	loginResp := doJSON(t, app, "POST", "/api/auth/login", fiber.Map{
		"email":    "admin@example.com",
		"password": "secret123",
	})
	var login struct {
		Token string `json:"token"`
	}
	decodeBody(t, loginResp, &login)

	req = httptest.NewRequest("GET", "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		User map[string]interface{} `json:"user"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, "admin@example.com", body.User["email"])
}

func TestCreateLeadNormalizesPhone(t *testing.T) {
	app, _ := setupTestApp(t)

	resp := doJSON(t, app, "POST", "/api/leads", fiber.Map{
		"phone": "0501234567",
		"name":  "أحمد",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var lead model.Lead
	decodeBody(t, resp, &lead)
	assert.Equal(t, "+966501234567", lead.Phone)
	assert.Equal(t, model.LeadStageNew, lead.Stage)
}

func TestCreateLeadDuplicatePhone(t *testing.T) {
	app, _ := setupTestApp(t)

	resp := doJSON(t, app, "POST", "/api/leads", fiber.Map{"phone": "0501234567"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// Aynı numaranın farklı yazımı da normalize edilip çakışır
	resp = doJSON(t, app, "POST", "/api/leads", fiber.Map{"phone": "+966 50 123 4567"})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "هذا الرقم مسجل مسبقاً", body["error"])
}

func TestCreateLeadRequiresPhone(t *testing.T) {
	app, _ := setupTestApp(t)

	resp := doJSON(t, app, "POST", "/api/leads", fiber.Map{"name": "أحمد"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUpdateLeadStage(t *testing.T) {
	app, db := setupTestApp(t)
	lead := seedLead(t, db, "+966501234567")

	resp := doJSON(t, app, "PUT", fmt.Sprintf("/api/leads/%d", lead.ID), fiber.Map{
		"phone": lead.Phone,
		"stage": "qualified",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var updated model.Lead
	decodeBody(t, resp, &updated)
	assert.Equal(t, model.LeadStageQualified, updated.Stage)
}

func TestUpdateLeadInvalidStage(t *testing.T) {
	app, db := setupTestApp(t)
	lead := seedLead(t, db, "+966501234567")

	resp := doJSON(t, app, "PUT", fmt.Sprintf("/api/leads/%d", lead.ID), fiber.Map{
		"phone": lead.Phone,
		"stage": "archived",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body struct {
		Error       string   `json:"error"`
		ValidStages []string `json:"valid_stages"`
	}
	decodeBody(t, resp, &body)
	assert.Len(t, body.ValidStages, 7)
}

func TestListLeadsSearchAndStageFilter(t *testing.T) {
	app, db := setupTestApp(t)

	name := "أحمد السالم"
	city := "الرياض"
	require.NoError(t, db.Create(&model.Lead{Phone: "+966500000001", Name: &name, City: &city, Stage: model.LeadStageNew}).Error)
	require.NoError(t, db.Create(&model.Lead{Phone: "+966500000002", Stage: model.LeadStageQualified}).Error)

	resp := doJSON(t, app, "GET", "/api/leads?search=أحمد", nil)
	var leads []model.Lead
	decodeBody(t, resp, &leads)
	require.Len(t, leads, 1)
	assert.Equal(t, "+966500000001", leads[0].Phone)

	resp = doJSON(t, app, "GET", "/api/leads?stage=qualified", nil)
	decodeBody(t, resp, &leads)
	require.Len(t, leads, 1)
	assert.Equal(t, "+966500000002", leads[0].Phone)

	resp = doJSON(t, app, "GET", "/api/leads?stage=all", nil)
	decodeBody(t, resp, &leads)
	assert.Len(t, leads, 2)
}

func TestDeleteLeadBlockedByRelatedRecords(t *testing.T) {
	app, db := setupTestApp(t)
	lead := seedLead(t, db, "+966501234567")

	appt := model.Appointment{LeadID: lead.ID, StartsAt: testTime(), Status: model.AppointmentStatusScheduled}
	require.NoError(t, db.Create(&appt).Error)

	resp := doJSON(t, app, "DELETE", fmt.Sprintf("/api/leads/%d", lead.ID), nil)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "لا يمكن حذف العميل لأنه مرتبط بسجلات أخرى", body["error"])

	// Randevu silinince müşteri de silinebilir
	require.NoError(t, db.Unscoped().Delete(&appt).Error)
	resp = doJSON(t, app, "DELETE", fmt.Sprintf("/api/leads/%d", lead.ID), nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestGetLeadConversationDeepLink(t *testing.T) {
	app, db := setupTestApp(t)
	lead := seedLead(t, db, "+966501234567")

	resp := doJSON(t, app, "GET", fmt.Sprintf("/api/leads/%d/conversation", lead.ID), nil)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "لا توجد محادثة لهذا العميل", body["error"])

	conv := model.Conversation{LeadID: lead.ID, Channel: model.ChannelWhatsApp, StartedAt: testTime(), LastMsgAt: testTime()}
	require.NoError(t, db.Create(&conv).Error)

	resp = doJSON(t, app, "GET", fmt.Sprintf("/api/leads/%d/conversation", lead.ID), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got model.Conversation
	decodeBody(t, resp, &got)
	assert.Equal(t, conv.ID, got.ID)
}
