package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/resend/resend-go/v2"
)

// EmailService sends transactional email through Resend. In development mode
// (or without an API key) it logs instead of sending.
type EmailService struct {
	client    *resend.Client
	fromEmail string
	appURL    string
	appName   string
	isDev     bool
}

func NewEmailService(apiKey, fromEmail, appURL, appName string, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		appURL:    appURL,
		appName:   appName,
		isDev:     isDev,
	}
}

// SendVerificationEmail sends the account verification link. The link embeds
// both the token and the email so the server can check they belong together.
func (s *EmailService) SendVerificationEmail(email, token, name string) error {
	verifyURL := fmt.Sprintf("%s/verify-email?token=%s&email=%s", s.appURL, token, url.QueryEscape(email))
	subject, body := verificationEmailTemplate(name, verifyURL, s.appName)

	if s.isDev {
		slog.Info("email sent (dev mode)", "type", "email_verify", "to", email, "subject", subject, "url", verifyURL)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{email},
		Subject: subject,
		Text:    body,
	}

	_, err := s.client.Emails.SendWithContext(context.Background(), params)
	if err == nil {
		slog.Info("email sent", "type", "email_verify", "to", email)
	}
	return err
}
