// pkg/cron/request_digest.go
package cron

import (
	"log"
	"os"
	"time"

	"aqarcrm_backend/internal/model"
	"aqarcrm_backend/pkg/analytics"
	"aqarcrm_backend/pkg/database"
	"aqarcrm_backend/pkg/email"

	"github.com/robfig/cron/v3"
)

func InitRequestDigestCron(emailService *email.EmailService) {
	c := cron.New()

	// Her hafta Pazar günü saat 20:00'de
	if _, err := c.AddFunc("0 20 * * 0", func() {
		sendRequestDigest(emailService, time.Now().AddDate(0, 0, -7), "weekly")
	}); err != nil {
		log.Printf("Could not initialize weekly request digest cron: %v", err)
		return
	}

	// Her ayın 1'i saat 20:00'de
	if _, err := c.AddFunc("0 20 1 * *", func() {
		sendRequestDigest(emailService, time.Now().AddDate(0, -1, 0), "monthly")
	}); err != nil {
		log.Printf("Could not initialize monthly request digest cron: %v", err)
		return
	}

	c.Start()
}

func sendRequestDigest(emailService *email.EmailService, startDate time.Time, period string) {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" || emailService == nil {
		return
	}

	var requests []model.LeadRequest
	if err := database.GetDB().
		Where("created_at >= ?", startDate).
		Find(&requests).Error; err != nil {
		log.Printf("Error fetching requests for digest: %v", err)
		return
	}

	summary := analytics.Summarize(requests, time.Now())

	if err := emailService.SendRequestDigest(adminEmail, period, startDate, summary); err != nil {
		log.Printf("Error sending request digest to %s: %v", adminEmail, err)
	}
}
