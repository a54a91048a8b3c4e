package sms

import (
	"context"
	"fmt"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/m04kA/SMC-ScheduleService/internal/service/notifications"
)

const channelName = "sms"

// Client отправляет клиенту SMS с подтверждением записи через Twilio
type Client struct {
	api  MessageCreator
	from string
	log  Logger
}

// NewTwilioAPI создает REST клиент Twilio
func NewTwilioAPI(accountSID, authToken string) MessageCreator {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return client.Api
}

// NewClient создает новый экземпляр клиента
func NewClient(api MessageCreator, from string, log Logger) *Client {
	return &Client{api: api, from: from, log: log}
}

// Name имя канала для метрик
func (c *Client) Name() string {
	return channelName
}

// Send отправляет подтверждение на телефон клиента
func (c *Client) Send(ctx context.Context, msg notifications.Message) error {
	to := strings.TrimSpace(msg.ClientPhone)
	if to == "" {
		return fmt.Errorf("%w: booking=%d", ErrInvalidPhone, msg.BookingID)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrSendSMS, err)
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(c.from)
	params.SetBody(msg.ClientText)

	resp, err := c.api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("%w: booking=%d: %v", ErrSendSMS, msg.BookingID, err)
	}

	sid := ""
	if resp != nil && resp.Sid != nil {
		sid = *resp.Sid
	}
	c.log.Info("SMS: booking=%d sent, sid=%s", msg.BookingID, sid)
	return nil
}
