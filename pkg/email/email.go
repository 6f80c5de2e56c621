// pkg/email/email.go
package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"time"

	"aqarcrm_backend/pkg/analytics"
)

type EmailService struct {
	apiKey    string
	from      string
	templates *template.Template
}

type EmailData struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Html    string `json:"html"`
}

// Template data structures
type RequestDigestData struct {
	Period        string
	StartDate     time.Time
	TotalRequests int
	UniqueCities  int
	UniqueLeads   int
	AvgBudget     float64
	Growth        float64
	TopCities     []analytics.BreakdownEntry
}

func NewEmailService(apiKey string) (*EmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend API key is required")
	}

	templates, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("error loading email templates: %v", err)
	}

	return &EmailService{
		apiKey:    apiKey,
		from:      "AqarCRM <noreply@aqarcrm.com>",
		templates: templates,
	}, nil
}

func (s *EmailService) sendTemplateEmail(to, subject, templateName string, data interface{}) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, templateName, data); err != nil {
		return fmt.Errorf("template execution error: %v", err)
	}

	emailData := EmailData{
		From:    s.from,
		To:      to,
		Subject: subject,
		Html:    body.String(),
	}

	jsonData, err := json.Marshal(emailData)
	if err != nil {
		return fmt.Errorf("error marshaling email data: %v", err)
	}

	req, err := http.NewRequest("POST", "https://api.resend.com/emails", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("error creating request: %v", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("error sending email: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response body: %v", err)
	}

	log.Printf("Resend API response: Status: %d", resp.StatusCode)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("resend API error: %s", string(respBody))
	}

	return nil
}

// SendRequestDigest dönemlik talep istatistik özetini gönderir
func (s *EmailService) SendRequestDigest(to, period string, startDate time.Time, summary analytics.Summary) error {
	data := RequestDigestData{
		Period:        period,
		StartDate:     startDate,
		TotalRequests: summary.TotalRequests,
		UniqueCities:  summary.UniqueCities,
		UniqueLeads:   summary.UniqueLeads,
		AvgBudget:     summary.AvgBudget,
		Growth:        summary.Growth,
		TopCities:     summary.TopCities,
	}

	subject := fmt.Sprintf("Your %s Customer Request Digest 📊", period)
	return s.sendTemplateEmail(to, subject, "request_digest.html", data)
}
