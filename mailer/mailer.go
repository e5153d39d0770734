// Package mailer wraps the SMTP transport behind the result-tag contract the
// pipeline expects: Send never returns a Go error, only a Result, because
// email failure must never fail a submission.
package mailer

import (
	"github.com/google/uuid"
	gomail "gopkg.in/gomail.v2"
)

type Result struct {
	Success   bool
	MessageID string
	Err       string
}

// Sender delivers one notification email.
type Sender interface {
	Send(subject, htmlBody string) Result
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
	to     string
}

func New(host string, port int, username, password, from, to string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
		to:     to,
	}
}

func (m *SMTPMailer) Send(subject, htmlBody string) Result {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return Result{Err: err.Error()}
	}
	return Result{Success: true, MessageID: uuid.NewString()}
}
