package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"aqarcrm_backend/internal/controller"
	"aqarcrm_backend/internal/middleware"
	"aqarcrm_backend/internal/model"
	"aqarcrm_backend/pkg/config"
	"aqarcrm_backend/pkg/cron"
	"aqarcrm_backend/pkg/database"
	"aqarcrm_backend/pkg/email"
	"aqarcrm_backend/pkg/seed"
	"aqarcrm_backend/pkg/utils/storage"
)

func setupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Auth Routes
	auth := api.Group("/auth")
	auth.Post("/login", controller.Login)

	// Protected Routes
	protected := api.Group("/", middleware.AuthMiddleware())
	protected.Get("/me", controller.GetMe)

	// Lead routes
	leads := protected.Group("/leads")
	leads.Get("/", controller.ListLeads)
	leads.Post("/", controller.CreateLead)
	leads.Put("/:id", controller.UpdateLead)
	leads.Delete("/:id", controller.DeleteLead)
	leads.Get("/:id/appointments", controller.GetLeadAppointments)
	leads.Get("/:id/requests", controller.GetLeadRequests)
	leads.Get("/:id/conversation", controller.GetLeadConversation)

	// Appointment routes
	appointments := protected.Group("/appointments")
	appointments.Get("/", controller.ListAppointments)
	appointments.Post("/", controller.CreateAppointment)
	appointments.Put("/:id", controller.UpdateAppointment)
	appointments.Delete("/:id", controller.DeleteAppointment)

	// Conversation routes
	conversations := protected.Group("/conversations")
	conversations.Get("/", controller.ListConversations)
	conversations.Get("/:id/messages", controller.GetConversationMessages)

	// Customer request routes
	requests := protected.Group("/requests")
	requests.Get("/", controller.ListLeadRequests)
	requests.Get("/analytics", controller.GetRequestAnalytics)
	requests.Post("/", controller.CreateLeadRequest)
	requests.Put("/:id", controller.UpdateLeadRequest)
	requests.Delete("/:id", controller.DeleteLeadRequest)

	// Project routes
	projects := protected.Group("/projects")
	projects.Get("/", controller.ListProjects)
	projects.Post("/", controller.CreateProject)
	projects.Get("/:id", controller.GetProject)
	projects.Put("/:id", controller.UpdateProject)
	projects.Delete("/:id", controller.DeleteProject)
	projects.Get("/:id/units", controller.GetProjectUnits)
	projects.Get("/:id/unit-types", controller.GetProjectUnitTypes)

	// Unit type routes
	unitTypes := protected.Group("/unit-types")
	unitTypes.Get("/", controller.ListUnitTypes)
	unitTypes.Post("/", controller.CreateUnitType)
	unitTypes.Put("/:id", controller.UpdateUnitType)
	unitTypes.Delete("/:id", controller.DeleteUnitType)

	// Unit routes
	units := protected.Group("/units")
	units.Get("/", controller.ListUnits)
	units.Post("/", controller.CreateUnit)
	units.Get("/:id", controller.GetUnit)
	units.Put("/:id", controller.UpdateUnit)
	units.Delete("/:id", controller.DeleteUnit)
	units.Post("/:id/photos", controller.UploadUnitPhotos)
	units.Delete("/:id/photos", controller.DeleteUnitPhoto)

	// Dashboard routes
	dashboard := api.Group("/dashboard", middleware.AuthMiddleware())
	dashboard.Get("/stats", controller.GetDashboardStats)
}

func main() {
	cfg := config.Load()

	if cfg.Database.URL == "" {
		log.Fatal("DATABASE_URL is not set in .env")
	}

	database.InitDB(cfg.Database.URL)
	err := database.MigrateDatabase(
		&model.User{},
		&model.Lead{},
		&model.Project{},
		&model.UnitType{},
		&model.Unit{},
		&model.Appointment{},
		&model.Conversation{},
		&model.Message{},
		&model.LeadRequest{},
	)
	if err != nil {
		log.Printf("Migration warning: %v", err)
	}

	seed.SeedAdminUser(database.GetDB(), cfg.Admin.Email, cfg.Admin.Password)

	if err := storage.Init(); err != nil {
		log.Printf("Storage warning: %v", err)
	}

	if apiKey := os.Getenv("RESEND_API_KEY"); apiKey != "" {
		if err := email.InitEmailService(apiKey); err != nil {
			log.Fatal("Could not initialize email service:", err)
		}
		cron.InitRequestDigestCron(email.GlobalEmailService)
	} else {
		log.Println("RESEND_API_KEY not set, request digest emails disabled")
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New())

	setupRoutes(app)

	log.Printf("Server is running on port %s", cfg.Server.Port)
	log.Fatal(app.Listen(":" + cfg.Server.Port))
}
