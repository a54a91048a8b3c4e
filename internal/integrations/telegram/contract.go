package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

// BotAPI часть *tgbotapi.BotAPI, используемая клиентом
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// BookingService операции над бронированием, доступные из кнопок сообщения
type BookingService interface {
	ChangeStatus(ctx context.Context, actor domain.Principal, bookingID int64, status domain.BookingStatus) (*domain.BookingDetails, error)
	Cancel(ctx context.Context, actor domain.Principal, bookingID int64) (*domain.BookingDetails, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
