package utils

import (
	"crypto/tls"
	"fmt"
	"log"
	"net/smtp"
	"os"
)

var (
	smtpHost      = os.Getenv("SMTP_HOST")
	smtpPort      = os.Getenv("SMTP_PORT")
	smtpUsername  = os.Getenv("SMTP_USERNAME")
	smtpPassword  = os.Getenv("SMTP_PASSWORD")
	smtpFromName  = os.Getenv("SMTP_FROM_NAME")
	smtpFromEmail = os.Getenv("SMTP_FROM_EMAIL")
)

// sendEmail delivers a plain-text message over SMTP with STARTTLS.
// When SMTP is not configured the message is dropped with a log line.
func sendEmail(to, subject, body string) error {
	if smtpHost == "" || smtpUsername == "" || smtpPassword == "" {
		log.Printf("⚠️ SMTP not configured, email to %s not sent (%s)", to, subject)
		return nil
	}

	if smtpFromEmail == "" {
		smtpFromEmail = smtpUsername
	}

	addr := fmt.Sprintf("%s:%s", smtpHost, smtpPort)

	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to dial SMTP server: %w", err)
	}
	defer client.Close()

	tlsConfig := &tls.Config{
		InsecureSkipVerify: true,
		ServerName:         smtpHost,
	}
	if err := client.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	auth := smtp.PlainAuth("", smtpUsername, smtpPassword, smtpHost)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	if err := client.Mail(smtpFromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}

	from := smtpFromEmail
	if smtpFromName != "" {
		from = fmt.Sprintf("%s <%s>", smtpFromName, smtpFromEmail)
	}

	msg := []byte(fmt.Sprintf("From: %s\r\n"+
		"To: %s\r\n"+
		"Subject: %s\r\n"+
		"MIME-Version: 1.0\r\n"+
		"Content-Type: text/plain; charset=UTF-8\r\n"+
		"\r\n%s", from, to, subject, body))

	if _, err = w.Write(msg); err != nil {
		w.Close()
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close writer: %w", err)
	}

	if err := client.Quit(); err != nil {
		log.Printf("⚠️ QUIT command error (non-critical): %v", err)
	}

	return nil
}

// sendAsync delivers best-effort in the background; failures are only logged.
func sendAsync(to, subject, body string) {
	go func() {
		if err := sendEmail(to, subject, body); err != nil {
			log.Printf("⚠️ Failed to send email to %s: %v", to, err)
		}
	}()
}

func SendFarmApprovalEmail(toEmail, employeeName, surveyNumber string) {
	subject := "Farm request approved"
	body := fmt.Sprintf(
		"Hi %s,\n\nYour farm request for survey number %s has been approved and is now active.\n",
		employeeName, surveyNumber,
	)
	sendAsync(toEmail, subject, body)
}

func SendFarmRejectionEmail(toEmail, employeeName, surveyNumber, reason string) {
	subject := "Farm request rejected"
	body := fmt.Sprintf(
		"Hi %s,\n\nYour farm request for survey number %s was rejected.\nReason: %s\n",
		employeeName, surveyNumber, reason,
	)
	sendAsync(toEmail, subject, body)
}

func SendEmployeeWelcomeEmail(toEmail, employeeName, employeeID string) {
	subject := "Your field employee account"
	body := fmt.Sprintf(
		"Hi %s,\n\nYour field employee account (ID %s) has been created. You can now log in and record watering visits.\n",
		employeeName, employeeID,
	)
	sendAsync(toEmail, subject, body)
}
