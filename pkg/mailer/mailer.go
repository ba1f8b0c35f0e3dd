package mailer

import (
	"fmt"
	"net/smtp"
)

// Config holds the SMTP transport settings.
type Config struct {
	Host     string
	Port     string
	From     string
	Username string
	Password string
}

// SMTPMailer sends notification mail over plain SMTP. Local relays
// (MailHog and friends) need no auth; real servers get PLAIN auth when a
// username is configured.
type SMTPMailer struct {
	cfg Config
}

// NewSMTPMailer creates a new SMTPMailer.
func NewSMTPMailer(cfg Config) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) send(to, subject, body string) error {
	addr := m.cfg.Host + ":" + m.cfg.Port

	msg := "From: " + m.cfg.From + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n" +
		body

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}
	return smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg))
}

// SendWelcome sends the post-registration welcome message.
func (m *SMTPMailer) SendWelcome(to, name string) error {
	body := fmt.Sprintf(`Hello %s,

Welcome to Fashion Boutique!

Your registration completed successfully. You can now browse our
collection, enjoy member offers, and track your orders.

Thanks for joining us,
The Fashion Boutique team`, name)
	return m.send(to, "Welcome to Fashion Boutique!", body)
}

// SendVerificationCode sends the password-reset verification code.
func (m *SMTPMailer) SendVerificationCode(to, name, code string) error {
	body := fmt.Sprintf(`Hello %s,

Your verification code is: %s

This code expires in 10 minutes. If you did not request a password
reset, you can ignore this message.

The Fashion Boutique team`, name, code)
	return m.send(to, "Verification Code - Fashion Boutique", body)
}
