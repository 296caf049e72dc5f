package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host         string
	Port         int
	Username     string
	Password     string
	FromAddress  string
	FromName     string
	AlertAddress string
}

// SMTPAlertService notifies the operator mailbox when a linking flow fails,
// so broken channels get fixed before customers notice dropped messages.
type SMTPAlertService struct {
	config SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTPAlertService(config SMTPConfig) *SMTPAlertService {
	dialer := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)

	return &SMTPAlertService{
		config: config,
		dialer: dialer,
	}
}

// SendLinkFailureAlert sends a failure notice with a link to the integration
// log entry holding the full detail.
func (s *SMTPAlertService) SendLinkFailureAlert(source, message, logURL string) error {
	subject := fmt.Sprintf("Channel linking failed: %s", source)

	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Channel Linking Failed</h2>
			<p>A %s channel linking attempt failed:</p>
			<p><strong>%s</strong></p>
			<p>Full detail is in the integration log:</p>
			<p><a href="%s">%s</a></p>
		</body>
		</html>
	`, source, message, logURL, logURL)

	plainBody := fmt.Sprintf(`
Channel Linking Failed

A %s channel linking attempt failed:
%s

Full detail is in the integration log:
%s
	`, source, message, logURL)

	return s.sendEmail(s.config.AlertAddress, subject, htmlBody, plainBody)
}

func (s *SMTPAlertService) sendEmail(to, subject, htmlBody, plainBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.config.FromAddress)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
