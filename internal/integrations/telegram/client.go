package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/m04kA/SMC-ScheduleService/internal/service/notifications"
)

const channelName = "telegram"

// Client отправляет уведомления о записях в чат администратора
type Client struct {
	bot    BotAPI
	chatID int64
	log    Logger
}

// NewBot подключается к Bot API по токену
func NewBot(token string, debug bool) (*tgbotapi.BotAPI, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create bot: %v", ErrInternal, err)
	}
	bot.Debug = debug
	return bot, nil
}

// NewClient создает новый экземпляр клиента
func NewClient(bot BotAPI, chatID int64, log Logger) *Client {
	return &Client{bot: bot, chatID: chatID, log: log}
}

// Name имя канала для метрик
func (c *Client) Name() string {
	return channelName
}

// Send отправляет сводку о записи с кнопками "Пришёл" и "Отменить"
func (c *Client) Send(ctx context.Context, msg notifications.Message) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrSendMessage, err)
	}

	out := tgbotapi.NewMessage(c.chatID, msg.AdminText)
	out.ReplyMarkup = bookingKeyboard(msg.BookingID)

	if _, err := c.bot.Send(out); err != nil {
		return fmt.Errorf("%w: booking=%d: %v", ErrSendMessage, msg.BookingID, err)
	}

	c.log.Info("Telegram: booking=%d sent to chat=%d", msg.BookingID, c.chatID)
	return nil
}

func bookingKeyboard(bookingID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Пришёл", callbackData(actionVisited, bookingID)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Отменить", callbackData(actionCancel, bookingID)),
		),
	)
}
