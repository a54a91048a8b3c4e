package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/service/notifications"
)

const (
	channelName       = "webhook"
	eventBookingAdded = "booking.created"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client отправляет события о записях на внешний URL
type Client struct {
	url        string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента
func NewClient(url string, timeout time.Duration, log Logger) *Client {
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Name имя канала для метрик
func (c *Client) Name() string {
	return channelName
}

// Send отправляет событие booking.created
func (c *Client) Send(ctx context.Context, msg notifications.Message) error {
	if msg.Notification == nil {
		return fmt.Errorf("%w: empty notification for booking=%d", ErrInternal, msg.BookingID)
	}

	body, err := json.Marshal(newBookingCreatedEvent(msg))
	if err != nil {
		return fmt.Errorf("%w: failed to encode event: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}

	c.log.Info("Webhook: booking=%d delivered", msg.BookingID)
	return nil
}

func newBookingCreatedEvent(msg notifications.Message) BookingCreatedEvent {
	n := msg.Notification
	d := n.Details

	services := n.ClaimedServices
	if services == nil {
		services = []string{}
	}

	return BookingCreatedEvent{
		Event:     eventBookingAdded,
		BookingID: d.ID,
		SlotID:    d.SlotID,
		Status:    string(d.Status),
		Salon:     EventSalon{ID: d.SalonID, Name: d.SalonName},
		Master:    EventMaster{ID: d.MasterID, Name: d.MasterName},
		Slot: EventSlot{
			Date:        d.Date.String(),
			StartTime:   d.StartTime.String(),
			ServiceID:   d.ServiceID,
			ServiceName: d.ServiceName,
			Price:       d.Price,
		},
		Client: EventClient{
			Name:    d.ClientName,
			Phone:   d.ClientPhone,
			Email:   d.ClientEmail,
			Comment: d.Comment,
		},
		Claimed: EventClaimed{
			Services:   services,
			TotalPrice: n.ClaimedTotalPrice,
		},
		CreatedAt: d.CreatedAt.UTC().Format(time.RFC3339),
	}
}
