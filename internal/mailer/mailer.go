package mailer

import (
	"fmt"
	"net/smtp"

	"go.uber.org/zap"

	"github.com/orazbekov/ratehub/pkg/logger"
)

// Mailer is the notification sink for confirmation codes. Delivery is
// synchronous; a failure propagates to the signup request.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer delivers mail through a plain SMTP relay.
type SMTPMailer struct {
	host string
	port int
	from string
}

func NewSMTPMailer(host string, port int, from string) *SMTPMailer {
	return &SMTPMailer{host: host, port: port, from: from}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		m.from, to, subject, body,
	)

	if err := smtp.SendMail(addr, nil, m.from, []string{to}, []byte(msg)); err != nil {
		logger.Log.Error("Failed to send mail",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return err
	}

	logger.Log.Info("Mail sent",
		zap.String("to", to),
		zap.String("subject", subject),
	)
	return nil
}

// LogMailer writes mail to the log instead of delivering it. Used in
// development when no SMTP relay is configured.
type LogMailer struct{}

func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

func (m *LogMailer) Send(to, subject, body string) error {
	logger.Log.Info("Mail (log sink)",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body),
	)
	return nil
}
