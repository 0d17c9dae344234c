// internal/services/notification_service.go
package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/agrilink/agrilink-backend/internal/config"
	"github.com/agrilink/agrilink-backend/internal/models"
)

// NotificationService emails the parties of an order when it moves. Callers
// invoke it from a goroutine; failures are logged, never surfaced to the
// request that triggered them.
type NotificationService struct {
	db     *gorm.DB
	config *config.Config
}

type EmailTemplate struct {
	Subject string
	Body    string
}

func NewNotificationService(db *gorm.DB, config *config.Config) *NotificationService {
	return &NotificationService{
		db:     db,
		config: config,
	}
}

// NotifyOrderPlaced tells the farmer a new order arrived on their listing.
func (s *NotificationService) NotifyOrderPlaced(order *models.Order) {
	farmer, vendor, err := s.loadParties(order)
	if err != nil {
		logrus.WithError(err).WithField("order_id", order.ID).Error("Failed to load order parties for notification")
		return
	}

	data := map[string]interface{}{
		"FarmerName":   farmer.Username,
		"VendorName":   vendor.Username,
		"CropType":     order.Crop.CropType,
		"Quantity":     order.Quantity,
		"Unit":         order.Crop.Unit,
		"OfferedPrice": order.OfferedPrice,
		"TotalAmount":  order.TotalAmount,
		"OrderURL":     fmt.Sprintf("%s/orders/%s", s.config.Frontend.BaseURL, order.ID),
	}

	subject := "New order for your " + order.Crop.CropType
	tmpl := s.getEmailTemplate("order_placed")
	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		logrus.WithError(err).Error("Failed to render order placed email")
		return
	}

	if err := s.sendEmail(farmer.Email, subject, body); err != nil {
		logrus.WithError(err).WithField("order_id", order.ID).Error("Failed to send order placed email")
	}
}

// NotifyOrderStatusChanged tells the counterparty that the order moved. The
// farmer drives every transition today, so the vendor is the recipient.
func (s *NotificationService) NotifyOrderStatusChanged(order *models.Order, from models.OrderStatus) {
	_, vendor, err := s.loadParties(order)
	if err != nil {
		logrus.WithError(err).WithField("order_id", order.ID).Error("Failed to load order parties for notification")
		return
	}

	data := map[string]interface{}{
		"VendorName": vendor.Username,
		"CropType":   order.Crop.CropType,
		"FromStatus": string(from),
		"ToStatus":   string(order.Status),
		"OrderURL":   fmt.Sprintf("%s/orders/%s", s.config.Frontend.BaseURL, order.ID),
	}

	subject := fmt.Sprintf("Order update: %s is now %s", order.Crop.CropType, order.Status)
	tmpl := s.getEmailTemplate("order_status")
	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		logrus.WithError(err).Error("Failed to render order status email")
		return
	}

	if err := s.sendEmail(vendor.Email, subject, body); err != nil {
		logrus.WithError(err).WithField("order_id", order.ID).Error("Failed to send order status email")
	}
}

func (s *NotificationService) loadParties(order *models.Order) (*models.User, *models.User, error) {
	var farmer, vendor models.User
	if err := s.db.First(&farmer, order.FarmerID).Error; err != nil {
		return nil, nil, fmt.Errorf("farmer not found: %w", err)
	}
	if err := s.db.First(&vendor, order.VendorID).Error; err != nil {
		return nil, nil, fmt.Errorf("vendor not found: %w", err)
	}
	if order.Crop.ID == uuid.Nil {
		if err := s.db.First(&order.Crop, order.CropID).Error; err != nil {
			return nil, nil, fmt.Errorf("crop not found: %w", err)
		}
	}
	return &farmer, &vendor, nil
}

// Helper methods
func (s *NotificationService) sendEmail(to, subject, body string) error {
	if s.config.Email.SMTPHost == "" {
		// Email not configured, just log
		logrus.WithFields(logrus.Fields{"to": to, "subject": subject}).Info("Email skipped, SMTP not configured")
		return nil
	}

	// Setup authentication
	auth := smtp.PlainAuth("", s.config.Email.SMTPUsername, s.config.Email.SMTPPassword, s.config.Email.SMTPHost)

	// Compose message
	msg := []byte(fmt.Sprintf("To: %s\r\nSubject: %s\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s", to, subject, body))

	// Send email
	addr := fmt.Sprintf("%s:%s", s.config.Email.SMTPHost, s.config.Email.SMTPPort)
	return smtp.SendMail(addr, auth, s.config.Email.FromEmail, []string{to}, msg)
}

func (s *NotificationService) renderTemplate(templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New("email").Parse(templateStr)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *NotificationService) getEmailTemplate(templateType string) EmailTemplate {
	templates := map[string]EmailTemplate{
		"order_placed": {
			Subject: "New order",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>New order received</h2>
	<p>Hello {{.FarmerName}},</p>
	<p>{{.VendorName}} placed an order for {{.Quantity}} {{.Unit}} of your {{.CropType}}
	at {{.OfferedPrice}} per {{.Unit}} (total {{.TotalAmount}}).</p>
	<a href="{{.OrderURL}}">Review the order</a>
	<p>AgriLink</p>
</body>
</html>`,
		},
		"order_status": {
			Subject: "Order update",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Your order moved</h2>
	<p>Hello {{.VendorName}},</p>
	<p>Your order for {{.CropType}} changed from {{.FromStatus}} to {{.ToStatus}}.</p>
	<a href="{{.OrderURL}}">Track the order</a>
	<p>AgriLink</p>
</body>
</html>`,
		},
	}

	if tmpl, exists := templates[templateType]; exists {
		return tmpl
	}

	// Default template
	return EmailTemplate{
		Subject: "Notification",
		Body:    "<p>{{.Message}}</p>",
	}
}
