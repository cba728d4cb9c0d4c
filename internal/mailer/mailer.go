// Package mailer sends account-notification email over SMTP.
package mailer

import (
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

// Config holds SMTP transport settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer sends notification email. A nil Mailer is a no-op sender, so
// callers can treat mail as optional without branching on config.
type Mailer struct {
	config Config
	dialer *gomail.Dialer
}

// New creates a Mailer, or nil when no SMTP host is configured.
func New(cfg Config) *Mailer {
	if cfg.Host == "" {
		return nil
	}
	return &Mailer{
		config: cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

// SendLoginNotification emails the account owner that a login just
// happened. Failures are the caller's to log; a login must not fail
// because the notification did.
func (m *Mailer) SendLoginNotification(email string) error {
	if m == nil {
		return nil
	}

	body := fmt.Sprintf(
		"A login to your account was detected.\n\n"+
			"Login time: %s\n\n"+
			"If this wasn't you, please change your password immediately.\n\n"+
			"This is an automated message; replies are not monitored.\n",
		time.Now().Format(time.RFC1123),
	)

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.config.From)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", "Login notification")
	msg.SetBody("text/plain", body)

	return m.dialer.DialAndSend(msg)
}
