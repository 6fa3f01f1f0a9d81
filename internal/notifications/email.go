package notifications

import (
	"fmt"
	"net/smtp"
	"strings"

	"detailbay/pkg/config"
	"detailbay/pkg/logger"
)

// EmailSender delivers booking notifications to customers. When no SMTP
// host is configured it logs the message instead, so local and test
// environments run without a mail relay.
type EmailSender struct {
	host string
	port int
	from string
	log  *logger.Logger

	// send is swappable in tests.
	send func(addr, from string, to []string, msg []byte) error
}

func NewEmailSender(cfg *config.Config) *EmailSender {
	return &EmailSender{
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
		from: cfg.SMTPFrom,
		log:  cfg.Log,
		send: func(addr, from string, to []string, msg []byte) error {
			return smtp.SendMail(addr, nil, from, to, msg)
		},
	}
}

func (e *EmailSender) Send(to, subject, body string) error {
	if e.host == "" {
		e.log.Info("SMTP not configured, logging notification instead",
			"to", to,
			"subject", subject,
		)
		return nil
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", e.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", e.host, e.port)
	if err := e.send(addr, e.from, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	e.log.Info("Notification email sent", "to", to, "subject", subject)
	return nil
}
