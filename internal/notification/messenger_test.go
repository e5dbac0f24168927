package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"

	"startupteam_backend/internal/config"
)

type fakeMessageAPI struct {
	params []*twilioApi.CreateMessageParams
	err    error
}

func (f *fakeMessageAPI) CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	f.params = append(f.params, params)
	if f.err != nil {
		return nil, f.err
	}
	sid := "SM123"
	return &twilioApi.ApiV2010Message{Sid: &sid}, nil
}

func TestTwilioMessenger_WhatsAppAddressing(t *testing.T) {
	api := &fakeMessageAPI{}
	m := &TwilioMessenger{api: api, from: "+14155238886", useWhatsApp: true, logger: zap.NewNop()}

	sid, err := m.Send(context.Background(), "+919876543210", "hello")
	require.NoError(t, err)
	assert.Equal(t, "SM123", sid)

	require.Len(t, api.params, 1)
	assert.Equal(t, "whatsapp:+919876543210", *api.params[0].To)
	assert.Equal(t, "whatsapp:+14155238886", *api.params[0].From)
	assert.Equal(t, "hello", *api.params[0].Body)
}

func TestTwilioMessenger_PlainSMSAndError(t *testing.T) {
	api := &fakeMessageAPI{err: errors.New("rate limited")}
	m := &TwilioMessenger{api: api, from: "+14155238886", logger: zap.NewNop()}

	_, err := m.Send(context.Background(), "+919876543210", "hello")
	assert.Error(t, err)
	assert.Equal(t, "+919876543210", *api.params[0].To)
}

func TestNewMessenger_UnconfiguredIsNop(t *testing.T) {
	m := NewMessenger(&config.Config{}, zap.NewNop())
	_, ok := m.(NopMessenger)
	assert.True(t, ok)

	sid, err := m.Send(context.Background(), "+1", "x")
	assert.NoError(t, err)
	assert.Empty(t, sid)
}
