package services

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"os"
	"path/filepath"
	"strings"

	"medequip_app_go/config"

	"github.com/resend/resend-go/v2"
)

// Email represents an email message
type Email struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

// ContractReminderEmailData feeds the contract-expiry reminder templates
type ContractReminderEmailData struct {
	CustomerName  string
	HODName       string
	EquipmentName string
	ModelNumber   string
	SerialNo      string
	ServiceStatus string
	EndDate       string
	DaysLeft      int
}

// BuildContractReminderEmail builds the renewal reminder sent to the
// customer's bio-medical department before a contract term lapses
func BuildContractReminderEmail(toEmail string, data ContractReminderEmailData) *Email {
	htmlBody, textBody, err := loadTemplate("contract_reminder", data)
	if err != nil {
		log.Printf("Error loading contract reminder email template: %v", err)
		// Plain-text fallback so the reminder still goes out
		textBody = fmt.Sprintf(
			"Dear %s,\n\nThe %s contract for %s (model %s, serial %s) ends on %s. Please arrange renewal.\n",
			data.HODName, data.ServiceStatus, data.EquipmentName, data.ModelNumber, data.SerialNo, data.EndDate)
	}

	return &Email{
		To:       []string{toEmail},
		Subject:  fmt.Sprintf("Service contract for %s expires on %s", data.EquipmentName, data.EndDate),
		HTMLBody: htmlBody,
		TextBody: textBody,
	}
}

// loadTemplate loads an email template pair from the templates/emails directory
func loadTemplate(templateName string, data interface{}) (html string, text string, err error) {
	basePath := "templates/emails"

	loadAndExec := func(ext string) (string, error) {
		path := filepath.Join(basePath, templateName+ext)
		content, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read template %s: %v", path, err)
		}

		tmpl, err := template.New(filepath.Base(path)).Parse(string(content))
		if err != nil {
			return "", fmt.Errorf("failed to parse template %s: %v", path, err)
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return "", fmt.Errorf("failed to execute template %s: %v", path, err)
		}
		return buf.String(), nil
	}

	htmlContent, err := loadAndExec(".html")
	if err != nil {
		return "", "", err
	}

	textContent, err := loadAndExec(".txt")
	if err != nil {
		return "", "", err
	}

	return htmlContent, textContent, nil
}

// SendEmail sends an email using the Resend API
func SendEmail(cfg *config.Config, email *Email) error {
	// In development mode, log the email instead of sending
	if cfg.EmailTestMode {
		logEmailToConsole(email)
		return nil
	}

	if cfg.ResendAPIKey == "" {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}

	client := resend.NewClient(cfg.ResendAPIKey)

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom),
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTMLBody,
		Text:    email.TextBody,
	}

	sent, err := client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Printf("Email sent to %s (id: %s)", strings.Join(email.To, ", "), sent.Id)
	return nil
}

func logEmailToConsole(email *Email) {
	log.Println("========== EMAIL (test mode, not sent) ==========")
	log.Printf("To:      %s", strings.Join(email.To, ", "))
	log.Printf("Subject: %s", email.Subject)
	log.Printf("Body:\n%s", email.TextBody)
	log.Println("=================================================")
}
