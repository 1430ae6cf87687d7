// Package mailer delivers share notification emails over SMTP. When SMTP is
// not configured it degrades to logging the notification, so local setups
// work without a mail server.
package mailer

import (
	"fmt"
	"log"

	"github.com/AahilGazali/cloud-drive-backend/internal/config"
	"github.com/AahilGazali/cloud-drive-backend/internal/models"
	gomail "gopkg.in/gomail.v2"
)

type Mailer struct {
	cfg config.EmailConfig
}

func New(cfg config.EmailConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

func (m *Mailer) SendShareNotification(recipient, senderName, itemName string, resourceType models.ResourceType, link string, role models.ShareRole) error {
	subject := fmt.Sprintf("%s shared a %s with you", senderName, resourceType)
	body := m.renderBody(senderName, itemName, resourceType, link, role)

	if !m.cfg.Enabled || m.cfg.SMTPHost == "" {
		log.Printf("mailer: SMTP not configured, share notification for %s: %s", recipient, link)
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.cfg.From, m.cfg.FromName)
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	dialer := gomail.NewDialer(m.cfg.SMTPHost, m.cfg.SMTPPort, m.cfg.Username, m.cfg.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send share notification: %w", err)
	}
	return nil
}

func (m *Mailer) renderBody(senderName, itemName string, resourceType models.ResourceType, link string, role models.ShareRole) string {
	item := itemName
	if item == "" {
		item = string(resourceType)
	}
	return fmt.Sprintf(
		`<p>%s shared the %s <strong>%s</strong> with you (%s access).</p>
<p><a href="%s">Open it here</a></p>
<p>If you don't have an account yet, you can still use the link above.</p>`,
		senderName, resourceType, item, role, link,
	)
}
