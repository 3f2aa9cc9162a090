// Copyright (c) 2026 DocVault. All rights reserved.
// Author: dev@docvault.app

/*
Package mail delivers transactional email over authenticated SMTP.

The mailer is optional: when SMTP credentials are absent from the
environment, Configured reports false and the auth service falls back to its
development behavior for password resets.
*/
package mail

import (
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/docvault/docvault/internal/platform/config"
)

// Mailer sends email through a single SMTP account.
type Mailer struct {
	host     string
	port     int
	username string
	password string
	from     string
	logger   *slog.Logger
}

// NewMailer wires the mailer from application configuration.
func NewMailer(cfg *config.Config, logger *slog.Logger) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.SMTPUser,
		logger:   logger,
	}
}

// Configured reports whether SMTP credentials are present.
func (mailer *Mailer) Configured() bool {
	return mailer.host != "" && mailer.username != "" && mailer.password != ""
}

/*
SendPasswordReset emails a password reset link to the given address.

Parameters:
  - to: recipient email address.
  - resetURL: the frontend URL embedding the one-time reset token.

Returns:
  - error: transport or authentication failure. The caller decides whether
    the failure is surfaced to the client.
*/
func (mailer *Mailer) SendPasswordReset(to, resetURL string) error {
	subject := "Reset your DocVault password"
	body := "You requested a password reset for your DocVault account.\r\n\r\n" +
		"Open the link below within one hour to choose a new password:\r\n\r\n" +
		resetURL + "\r\n\r\n" +
		"If you did not request this, you can ignore this email."

	message := []byte(
		"From: " + mailer.from + "\r\n" +
			"To: " + to + "\r\n" +
			"Subject: " + subject + "\r\n" +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/plain; charset=UTF-8\r\n" +
			"\r\n" +
			body + "\r\n",
	)

	address := fmt.Sprintf("%s:%d", mailer.host, mailer.port)
	auth := smtp.PlainAuth("", mailer.username, mailer.password, mailer.host)

	if err := smtp.SendMail(address, auth, mailer.from, []string{to}, message); err != nil {
		return fmt.Errorf("mail: sending reset email failed: %w", err)
	}

	mailer.logger.Info("password reset email sent", slog.String("to", to))
	return nil
}
