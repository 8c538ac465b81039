package service

import (
	"context"
	"fmt"

	"erp-subscription-backend/internal/domain"
	"erp-subscription-backend/internal/logger"
	"erp-subscription-backend/internal/utils"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

// NewEmailService returns a SendGrid-backed sender. With an empty API key
// the sends are logged and skipped, which keeps local development working
// without credentials.
func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailService) send(to, toName, subject, plainText, htmlContent string) error {
	if s.apiKey == "" {
		logger.Debug("Email delivery skipped, no SendGrid API key", "to", to, "subject", subject)
		return nil
	}

	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, htmlContent)

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *emailService) SendSetupInvitation(ctx context.Context, email, name, orgName, setupURL string) error {
	subject := fmt.Sprintf("Set up your %s account", orgName)
	plainText := fmt.Sprintf("Hello %s,\n\nYour organization %s is ready. Use the link below to choose a password and activate your account:\n\n%s\n\nThe link can only be used once.", name, orgName, setupURL)
	htmlContent := fmt.Sprintf(`
		<html>
			<body>
				<h2>Welcome to %s</h2>
				<p>Use the link below to choose a password and activate your account.</p>
				<p><a href="%s">Set Up Password</a></p>
				<p>The link can only be used once.</p>
			</body>
		</html>
	`, orgName, setupURL)
	return s.send(email, name, subject, plainText, htmlContent)
}

func (s *emailService) SendStatusNotification(ctx context.Context, email, name, orgName string, status domain.SubscriptionStatus) error {
	subject := fmt.Sprintf("Subscription status update - %s", orgName)
	plainText := fmt.Sprintf("Hello,\n\nThe subscription for %s is now: %s.", orgName, status)
	htmlContent := fmt.Sprintf(`
		<html>
			<body>
				<p>The subscription for <strong>%s</strong> is now: <strong>%s</strong>.</p>
			</body>
		</html>
	`, orgName, status)
	return s.send(email, name, subject, plainText, htmlContent)
}

func (s *emailService) SendPaymentReminder(ctx context.Context, email, name, orgName string, amountCents int32) error {
	amount := utils.FormatCents(amountCents)
	subject := fmt.Sprintf("Payment reminder - %s", orgName)
	plainText := fmt.Sprintf("Hello,\n\nThe subscription for %s is past due. Please settle the outstanding amount of %s to keep your access active.", orgName, amount)
	htmlContent := fmt.Sprintf(`
		<html>
			<body>
				<p>The subscription for <strong>%s</strong> is past due.</p>
				<p>Please settle the outstanding amount of <strong>%s</strong> to keep your access active.</p>
			</body>
		</html>
	`, orgName, amount)
	return s.send(email, name, subject, plainText, htmlContent)
}
