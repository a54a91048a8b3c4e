package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/pkg/ptr"
)

const (
	actionVisited = "confirm"
	actionCancel  = "cancel"

	updatesTimeout = 60
)

func callbackData(action string, bookingID int64) string {
	return action + "_" + strconv.FormatInt(bookingID, 10)
}

// parseCallbackData разбирает строку вида confirm_12 / cancel_12
func parseCallbackData(data string) (string, int64, error) {
	action, rawID, ok := strings.Cut(data, "_")
	if !ok || (action != actionVisited && action != actionCancel) {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidCallback, data)
	}
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidCallback, data)
	}
	return action, id, nil
}

// CallbackListener обрабатывает нажатия кнопок в сообщениях о записях
type CallbackListener struct {
	bot      BotAPI
	chatID   int64
	bookings BookingService
	log      Logger
}

// NewCallbackListener создает обработчик кнопок
func NewCallbackListener(bot BotAPI, chatID int64, bookings BookingService, log Logger) *CallbackListener {
	return &CallbackListener{bot: bot, chatID: chatID, bookings: bookings, log: log}
}

// Run читает обновления long polling до отмены ctx
func (l *CallbackListener) Run(ctx context.Context) {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = updatesTimeout
	cfg.AllowedUpdates = []string{"callback_query"}

	updates := l.bot.GetUpdatesChan(cfg)
	l.log.Info("Telegram: callback listener started")

	for {
		select {
		case <-ctx.Done():
			l.bot.StopReceivingUpdates()
			l.log.Info("Telegram: callback listener stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.CallbackQuery != nil {
				l.HandleCallback(ctx, update.CallbackQuery)
			}
		}
	}
}

// HandleCallback выполняет действие кнопки от имени системы и обновляет сообщение
func (l *CallbackListener) HandleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if query.Message == nil || query.Message.Chat == nil || query.Message.Chat.ID != l.chatID {
		l.log.Warn("Telegram: callback from unknown chat ignored")
		l.answer(query.ID, "Недоступно", true)
		return
	}

	action, bookingID, err := parseCallbackData(query.Data)
	if err != nil {
		l.log.Warn("Telegram: %v", err)
		l.answer(query.ID, "Некорректная кнопка", true)
		return
	}

	actor := domain.SystemPrincipal()

	var (
		details *domain.BookingDetails
		text    string
		answer  string
	)
	switch action {
	case actionVisited:
		details, err = l.bookings.ChangeStatus(ctx, actor, bookingID, domain.StatusVisited)
		if err == nil {
			text = "✅ Клиент пришёл\n\n" + summary(details, true)
			answer = "Отмечено ✅"
		}
	case actionCancel:
		details, err = l.bookings.Cancel(ctx, actor, bookingID)
		if err == nil {
			text = "❌ Запись отменена\n\n" + summary(details, false)
			answer = "Запись отменена ❌"
		}
	}

	if err != nil {
		l.log.Warn("Telegram: callback %s for booking=%d failed: %v", action, bookingID, err)
		l.answer(query.ID, callbackErrorText(err), true)
		return
	}

	edit := tgbotapi.NewEditMessageText(query.Message.Chat.ID, query.Message.MessageID, text)
	if _, err := l.bot.Send(edit); err != nil {
		l.log.Error("Telegram: failed to edit message for booking=%d: %v", bookingID, err)
	}
	l.answer(query.ID, answer, false)
	l.log.Info("Telegram: callback %s applied to booking=%d", action, bookingID)
}

func (l *CallbackListener) answer(queryID, text string, alert bool) {
	cb := tgbotapi.NewCallback(queryID, text)
	cb.ShowAlert = alert
	if _, err := l.bot.Request(cb); err != nil {
		l.log.Error("Telegram: failed to answer callback: %v", err)
	}
}

func summary(d *domain.BookingDetails, withClient bool) string {
	text := fmt.Sprintf("Салон: %s\nМастер: %s\nДата: %s\nВремя: %s", d.SalonName, d.MasterName, d.Date, d.StartTime)
	if withClient {
		name := d.ClientName
		if name == "" {
			name = "—"
		}
		text += fmt.Sprintf("\nКлиент: %s\nТелефон: %s", name, d.ClientPhone)
		if email := ptr.Value(d.ClientEmail); email != "" {
			text += "\nEmail: " + email
		}
	}
	return text
}

func callbackErrorText(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "❌ Запись не найдена"
	case errors.Is(err, domain.ErrConflict):
		return "Статус записи уже изменён"
	default:
		return "Ошибка обработки"
	}
}
