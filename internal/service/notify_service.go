package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// EmailSender delivers one email.
type EmailSender interface {
	SendEmail(ctx context.Context, toEmail, toName, subject, plainText, html string) error
}

// SMSSender delivers one text message.
type SMSSender interface {
	SendSMS(ctx context.Context, toNumber, body string) error
}

// SendGridSender sends email through the SendGrid v3 API.
type SendGridSender struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
	logger    *log.Logger
}

// NewSendGridSender returns nil when apiKey or fromEmail is empty, which
// disables email notices.
func NewSendGridSender(apiKey, fromEmail, fromName string, logger *log.Logger) *SendGridSender {
	if apiKey == "" || fromEmail == "" {
		logger.Warn("SENDGRID_API_KEY or SENDGRID_FROM_EMAIL not set; reservation emails disabled")
		return nil
	}
	if fromName == "" {
		fromName = "Garagy"
	}
	return &SendGridSender{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
		logger:    logger,
	}
}

func (s *SendGridSender) SendEmail(ctx context.Context, toEmail, toName, subject, plainText, html string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainText, html)

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid: send to %s: %w", toEmail, err)
	}
	if response.StatusCode < 200 || response.StatusCode > 299 {
		return fmt.Errorf("sendgrid: status %d: %s", response.StatusCode, response.Body)
	}
	s.logger.Info("email sent", "to", toEmail, "subject", subject, "status", response.StatusCode)
	return nil
}

// TwilioSender sends SMS through the Twilio REST API.
type TwilioSender struct {
	client *twilio.RestClient
	from   string
	logger *log.Logger
}

// NewTwilioSender returns nil unless all three credentials are set, which
// disables SMS notices.
func NewTwilioSender(accountSID, authToken, fromNumber string, logger *log.Logger) *TwilioSender {
	if accountSID == "" || authToken == "" || fromNumber == "" {
		logger.Warn("Twilio credentials not fully set; reservation SMS disabled")
		return nil
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username:   accountSID,
		Password:   authToken,
		AccountSid: accountSID,
	})
	return &TwilioSender{client: client, from: fromNumber, logger: logger}
}

func (s *TwilioSender) SendSMS(_ context.Context, toNumber, body string) error {
	if !strings.HasPrefix(toNumber, "+") {
		s.logger.Warn("destination number is not E.164; the SMS may fail", "to", toNumber)
	}
	params := &openapi.CreateMessageParams{}
	params.SetTo(toNumber)
	params.SetFrom(s.from)
	params.SetBody(body)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio: send to %s: %w", toNumber, err)
	}
	if resp != nil && resp.Sid != nil {
		s.logger.Info("sms sent", "to", toNumber, "sid", *resp.Sid)
	}
	return nil
}
