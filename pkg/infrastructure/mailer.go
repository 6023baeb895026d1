package infrastructure

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
)

// Mailer sends a notification email for each inbound contact message.
// It is strictly best-effort: the message row is already persisted when
// this runs, and a missing SMTP configuration simply disables it.
type Mailer struct {
	host string
	port string
	user string
	pass string
	to   string
}

func NewMailer() *Mailer {
	m := &Mailer{
		host: os.Getenv("SMTP_HOST"),
		port: os.Getenv("SMTP_PORT"),
		user: os.Getenv("SMTP_USER"),
		pass: os.Getenv("SMTP_PASS"),
		to:   os.Getenv("CONTACT_EMAIL"),
	}
	if m.host == "" {
		m.host = "smtp.gmail.com"
	}
	if m.port == "" {
		m.port = "587"
	}
	return m
}

func (m *Mailer) Configured() bool {
	return m.user != "" && m.pass != "" && m.to != ""
}

func (m *Mailer) SendContactNotification(name, email, message string) error {
	if !m.Configured() {
		return fmt.Errorf("SMTP credentials not configured")
	}

	subject := fmt.Sprintf("Portfolio Contact: %s", name)
	body := fmt.Sprintf("New contact form submission from your portfolio:\n\nName: %s\nEmail: %s\nMessage:\n%s\n", name, email, message)

	msg := []byte("To: " + m.to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"From: " + m.user + "\r\n" +
		"Reply-To: " + email + "\r\n" +
		"\r\n" +
		body + "\r\n")

	auth := smtp.PlainAuth("", m.user, m.pass, m.host)
	if err := smtp.SendMail(m.host+":"+m.port, auth, m.user, []string{m.to}, msg); err != nil {
		log.Printf("error sending contact email: %v", err)
		return err
	}
	return nil
}
