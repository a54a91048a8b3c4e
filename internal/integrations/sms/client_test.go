package sms_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/m04kA/SMC-ScheduleService/internal/integrations/sms"
	"github.com/m04kA/SMC-ScheduleService/internal/service/notifications"
	"github.com/m04kA/SMC-ScheduleService/pkg/logger"
	"github.com/m04kA/SMC-ScheduleService/pkg/ptr"
)

type fakeTwilio struct {
	params []*twilioApi.CreateMessageParams
	err    error
}

func (f *fakeTwilio) CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	f.params = append(f.params, params)
	if f.err != nil {
		return nil, f.err
	}
	return &twilioApi.ApiV2010Message{Sid: ptr.Ptr("SM123")}, nil
}

func TestClient_Send(t *testing.T) {
	api := &fakeTwilio{}
	client := sms.NewClient(api, "+15005550006", logger.NewNop())

	err := client.Send(context.Background(), notifications.Message{
		BookingID:   12,
		ClientPhone: " +998901112233 ",
		ClientText:  "Вы записаны",
	})
	require.NoError(t, err)
	require.Len(t, api.params, 1)

	p := api.params[0]
	assert.Equal(t, "+998901112233", *p.To)
	assert.Equal(t, "+15005550006", *p.From)
	assert.Equal(t, "Вы записаны", *p.Body)
	assert.Equal(t, "sms", client.Name())
}

func TestClient_SendErrors(t *testing.T) {
	api := &fakeTwilio{err: errors.New("21211 invalid 'To' number")}
	client := sms.NewClient(api, "+15005550006", logger.NewNop())

	err := client.Send(context.Background(), notifications.Message{BookingID: 1, ClientPhone: "  "})
	assert.ErrorIs(t, err, sms.ErrInvalidPhone)
	assert.Empty(t, api.params)

	err = client.Send(context.Background(), notifications.Message{BookingID: 1, ClientPhone: "+1"})
	assert.ErrorIs(t, err, sms.ErrSendSMS)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = client.Send(ctx, notifications.Message{BookingID: 1, ClientPhone: "+1"})
	assert.ErrorIs(t, err, sms.ErrSendSMS)
	assert.Len(t, api.params, 1)
}
