package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendReconciliationAlert(subject, body string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
	opsEmail    string
}

// NewEmailService builds the operational mailer. opsEmail receives
// reconciliation alerts; when it is empty the mailer is a no-op.
func NewEmailService(host string, port int, username, password, senderName, opsEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)
	return &emailService{
		dialer:      d,
		senderEmail: username,
		senderName:  senderName,
		opsEmail:    opsEmail,
	}
}

func (s *emailService) SendReconciliationAlert(subject, body string) error {
	if s.opsEmail == "" {
		return nil
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", s.opsEmail)
	m.SetHeader("Subject", "[RECONCILE] "+subject)

	html := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Manual reconciliation required</h2>
			<p>%s</p>
			<p>See the system_logs table for the full detail payload.</p>
		</div>
	`, body)

	m.SetBody("text/html", html)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send reconciliation alert: %v\n", err)
		return err
	}

	return nil
}
