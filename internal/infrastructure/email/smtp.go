// Package email delivers contact-form messages over SMTP.
package email

import (
	"fmt"
	"html"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
	ContactTo   string
}

// Sender delivers one contact-form message.
type Sender interface {
	SendContactMessage(fromEmail, subject, message string) error
}

type SMTPEmailService struct {
	config SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTPEmailService(config SMTPConfig) *SMTPEmailService {
	dialer := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)

	return &SMTPEmailService{
		config: config,
		dialer: dialer,
	}
}

var _ Sender = (*SMTPEmailService)(nil)

// SendContactMessage forwards a visitor message to the configured contact
// inbox. The visitor address goes into Reply-To so support can answer
// directly.
func (s *SMTPEmailService) SendContactMessage(fromEmail, subject, message string) error {
	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>New contact message</h2>
			<p><strong>From:</strong> %s</p>
			<p><strong>Subject:</strong> %s</p>
			<hr>
			<p>%s</p>
		</body>
		</html>
	`, html.EscapeString(fromEmail), html.EscapeString(subject), html.EscapeString(message))

	plainBody := fmt.Sprintf(`New contact message

From: %s
Subject: %s

%s
`, fromEmail, subject, message)

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.config.FromAddress, s.config.FromName))
	m.SetHeader("To", s.config.ContactTo)
	if fromEmail != "" {
		m.SetHeader("Reply-To", fromEmail)
	}
	m.SetHeader("Subject", fmt.Sprintf("[Contact] %s", subject))
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send contact email: %w", err)
	}
	return nil
}
