package external

import (
	"fmt"

	mailjet "github.com/mailjet/mailjet-apiv3-go"
)

type MailerConfig struct {
	PublicKey  string
	PrivateKey string
	FromEmail  string
	FromName   string
}

type MailerClient struct {
	client    *mailjet.Client
	fromEmail string
	fromName  string
}

func NewMailerClient(cfg MailerConfig) *MailerClient {
	return &MailerClient{
		client:    mailjet.NewMailjetClient(cfg.PublicKey, cfg.PrivateKey),
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
	}
}

// Send отправляет письмо одному получателю
func (mc *MailerClient) Send(toEmail, toName, subject, textBody, htmlBody string) error {
	messages := mailjet.MessagesV31{
		Info: []mailjet.InfoMessagesV31{
			{
				From: &mailjet.RecipientV31{
					Email: mc.fromEmail,
					Name:  mc.fromName,
				},
				To: &mailjet.RecipientsV31{
					mailjet.RecipientV31{
						Email: toEmail,
						Name:  toName,
					},
				},
				Subject:  subject,
				TextPart: textBody,
				HTMLPart: htmlBody,
			},
		},
	}

	if _, err := mc.client.SendMailV31(&messages); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
