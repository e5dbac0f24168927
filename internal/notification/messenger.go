// File: internal/notification/messenger.go
package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"

	"startupteam_backend/internal/config"
)

// Messenger sends a text message to an E.164 phone number and returns the
// provider message id.
type Messenger interface {
	Send(ctx context.Context, to, body string) (string, error)
}

// NewMessenger returns a Twilio messenger when credentials are configured and
// a no-op messenger otherwise.
func NewMessenger(cfg *config.Config, logger *zap.Logger) Messenger {
	if !cfg.MessagingEnabled() {
		logger.Warn("Twilio credentials not configured, outbound messages are disabled")
		return NopMessenger{logger: logger}
	}
	return NewTwilioMessenger(cfg, logger)
}

// messageCreator is the part of the Twilio REST API we use.
type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// TwilioMessenger delivers SMS, or WhatsApp messages when enabled.
type TwilioMessenger struct {
	api         messageCreator
	from        string
	useWhatsApp bool
	logger      *zap.Logger
}

func NewTwilioMessenger(cfg *config.Config, logger *zap.Logger) *TwilioMessenger {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.TwilioAccountSID,
		Password: cfg.TwilioAuthToken,
	})
	return &TwilioMessenger{
		api:         client.Api,
		from:        cfg.TwilioFromNumber,
		useWhatsApp: cfg.TwilioUseWhatsApp,
		logger:      logger.Named("twilio"),
	}
}

func (m *TwilioMessenger) Send(ctx context.Context, to, body string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(m.address(to))
	params.SetFrom(m.address(m.from))
	params.SetBody(body)

	resp, err := m.api.CreateMessage(params)
	if err != nil {
		return "", fmt.Errorf("twilio send failed: %w", err)
	}
	sid := ""
	if resp.Sid != nil {
		sid = *resp.Sid
	}
	m.logger.Info("Message sent", zap.String("sid", sid), zap.Bool("whatsapp", m.useWhatsApp))
	return sid, nil
}

func (m *TwilioMessenger) address(number string) string {
	if !m.useWhatsApp || strings.HasPrefix(number, "whatsapp:") {
		return number
	}
	return "whatsapp:" + number
}

// NopMessenger drops messages. Used when Twilio is not configured.
type NopMessenger struct {
	logger *zap.Logger
}

func (n NopMessenger) Send(_ context.Context, to, _ string) (string, error) {
	if n.logger != nil {
		n.logger.Debug("Message skipped: messaging not configured")
	}
	return "", nil
}
