package email

import (
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

// Config holds SMTP settings, injected from service configuration.
type Config struct {
	Host    string
	Port    int
	Login   string
	Key     string
	From    string
	AdminTo string
	BaseURL string
}

// Service sends transactional email over SMTP.
type Service struct {
	cfg Config
}

func NewService(cfg Config) *Service {
	return &Service{cfg: cfg}
}

// Configured reports whether an SMTP host is set. Unconfigured sends are
// logged and skipped so development environments work without a mail account.
func (s *Service) Configured() bool {
	return s.cfg.Host != ""
}

func (s *Service) send(to, subject, htmlBody string) error {
	if !s.Configured() {
		slog.Warn("email not configured, skipping send", "to", to, "subject", subject)
		return nil
	}

	headers := map[string]string{
		"From":         s.cfg.From,
		"To":           to,
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": `text/html; charset="UTF-8"`,
	}

	var msg strings.Builder
	for k, v := range headers {
		fmt.Fprintf(&msg, "%s: %s\r\n", k, v)
	}
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Login, s.cfg.Key, s.cfg.Host)

	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	slog.Info("email sent", "to", to, "subject", subject)
	return nil
}

// OrderConfirmationData drives the customer order confirmation email.
type OrderConfirmationData struct {
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	OrderNumber   string `json:"orderNumber"`
	ProductType   string `json:"productType"`
	ProductSize   string `json:"productSize"`
	PriceCents    int64  `json:"priceCents"`
	PetName       string `json:"petName,omitempty"`
}

func (s *Service) SendOrderConfirmation(data OrderConfirmationData) error {
	subject := fmt.Sprintf("Your PawPop order %s is confirmed!", data.OrderNumber)
	body, err := renderTemplate("order_confirmation", data)
	if err != nil {
		return err
	}
	return s.send(data.CustomerEmail, subject, body)
}

// ReviewNotificationData drives the admin review notification email.
type ReviewNotificationData struct {
	ReviewID     string `json:"reviewId"`
	ReviewType   string `json:"reviewType"`
	CustomerName string `json:"customerName"`
	PetName      string `json:"petName,omitempty"`
	ImageURL     string `json:"imageUrl"`
}

func (s *Service) SendAdminReviewNotification(data ReviewNotificationData) error {
	if s.cfg.AdminTo == "" {
		slog.Warn("admin email not configured, skipping review notification", "review_id", data.ReviewID)
		return nil
	}
	subject := fmt.Sprintf("Review needed: %s for %s", data.ReviewType, data.CustomerName)
	payload := struct {
		ReviewNotificationData
		ReviewURL string
	}{data, fmt.Sprintf("%s/admin/reviews/%s", s.cfg.BaseURL, data.ReviewID)}
	body, err := renderTemplate("admin_review_notification", payload)
	if err != nil {
		return err
	}
	return s.send(s.cfg.AdminTo, subject, body)
}

// MasterpieceReadyData drives the customer "artwork ready" email.
type MasterpieceReadyData struct {
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	PetName       string `json:"petName,omitempty"`
	ArtworkURL    string `json:"artworkUrl"`
	PreviewURL    string `json:"previewUrl"`
}

func (s *Service) SendMasterpieceReady(data MasterpieceReadyData) error {
	subject := "Your masterpiece is ready! 🎨"
	body, err := renderTemplate("masterpiece_ready", data)
	if err != nil {
		return err
	}
	return s.send(data.CustomerEmail, subject, body)
}

// SendSystemAlert notifies the admin about an operational problem.
func (s *Service) SendSystemAlert(subject, message string) error {
	if s.cfg.AdminTo == "" {
		slog.Warn("admin email not configured, dropping system alert", "subject", subject)
		return nil
	}
	body, err := renderTemplate("system_alert", struct {
		Subject string
		Message string
	}{subject, message})
	if err != nil {
		return err
	}
	return s.send(s.cfg.AdminTo, "[PawPop Alert] "+subject, body)
}
