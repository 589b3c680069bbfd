package notification

import (
	"fmt"
	"html"
	"net/smtp"
	"sync"

	"github.com/betlegend/sitetools/internal/config"
)

var (
	smtpHost     string
	smtpPort     string
	smtpUsername string
	smtpPassword string
	smtpFrom     string
	emailEnabled bool

	pending sync.WaitGroup
)

// InitEmail reads SMTP settings from config.
// If not configured, email sending is silently skipped.
func InitEmail(cfg config.SMTP) {
	smtpHost = cfg.Host
	smtpPort = cfg.Port
	smtpUsername = cfg.Username
	smtpPassword = cfg.Password
	smtpFrom = cfg.From

	emailEnabled = smtpHost != "" && smtpPort != "" && smtpFrom != ""
	if emailEnabled {
		fmt.Printf("Email notifications enabled (SMTP: %s:%s)\n", smtpHost, smtpPort)
	} else {
		fmt.Println("Email notifications disabled (SMTP not configured)")
	}
}

// EmailEnabled reports whether InitEmail found a usable SMTP setup.
func EmailEnabled() bool { return emailEnabled }

func buildMessage(from, to, subject, body string) []byte {
	return []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		from, to, subject, body))
}

// ReportHTML wraps a plain-text report so mail clients keep its layout.
func ReportHTML(report string) string {
	return "<pre style=\"font-family: monospace\">" + html.EscapeString(report) + "</pre>"
}

// SendEmail sends an email to the specified recipient.
// Runs in a goroutine to avoid blocking the caller.
func SendEmail(to, subject, body string) {
	if !emailEnabled || to == "" {
		return
	}

	pending.Add(1)
	go func() {
		defer pending.Done()
		msg := buildMessage(smtpFrom, to, subject, body)

		var auth smtp.Auth
		if smtpUsername != "" {
			auth = smtp.PlainAuth("", smtpUsername, smtpPassword, smtpHost)
		}

		addr := smtpHost + ":" + smtpPort
		if err := smtp.SendMail(addr, auth, smtpFrom, []string{to}, msg); err != nil {
			fmt.Printf("Email send error (to: %s): %v\n", to, err)
		}
	}()
}

// Wait blocks until every queued email has been handed to the SMTP server.
// Short-lived tools call it before exiting.
func Wait() { pending.Wait() }
