package mailingservices

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/mailgun/mailgun-go/v4"
)

type Mailgun struct {
	Client *mailgun.MailgunImpl
	From   string
}

// Init configures the mailgun client from the environment
func (m *Mailgun) Init() {
	domain := os.Getenv("OPSCONSOLE_MG_DOMAIN")
	apiKey := os.Getenv("OPSCONSOLE_MG_PUBLIC_API_KEY")
	m.From = os.Getenv("OPSCONSOLE_EMAIL_FROM")
	if domain == "" || apiKey == "" {
		log.Println("mailgun not configured, outbound mail disabled")
		return
	}
	m.Client = mailgun.NewMailgun(domain, apiKey)
}

// SendResetPasswordMail sends the password reset link to the user
func (m *Mailgun) SendResetPasswordMail(ctx context.Context, recipient, resetURL string) error {
	if m.Client == nil {
		return fmt.Errorf("mailgun client not configured")
	}

	subject := "Reset your opsconsole password"
	body := fmt.Sprintf("A password reset was requested for your account.\n\nFollow this link to choose a new password: %s\n\nIf you did not request this, ignore this mail.", resetURL)

	message := m.Client.NewMessage(m.From, subject, body, recipient)
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	_, id, err := m.Client.Send(ctx, message)
	if err != nil {
		return err
	}
	log.Printf("reset mail queued for %s: %s", recipient, id)
	return nil
}
