package notify

import (
	"context"
	"fmt"
	"net/smtp"
)

// SMTPTransport delivers mail through a plain SMTP server with password
// authentication.
type SMTPTransport struct {
	host     string
	port     string
	from     string
	fromName string
	password string
}

func NewSMTPTransport(host, port, from, fromName, password string) *SMTPTransport {
	return &SMTPTransport{
		host:     host,
		port:     port,
		from:     from,
		fromName: fromName,
		password: password,
	}
}

func (t *SMTPTransport) Deliver(_ context.Context, to, subject, body string) error {
	msg := fmt.Sprintf(
		"From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s",
		t.fromName, t.from, to, subject, body,
	)

	auth := smtp.PlainAuth("", t.from, t.password, t.host)
	if err := smtp.SendMail(t.host+":"+t.port, auth, t.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}

	return nil
}
