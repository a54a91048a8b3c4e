package notifications

import "context"

// Channel канал доставки уведомлений (Telegram, SMS, вебхук)
type Channel interface {
	Name() string
	Send(ctx context.Context, msg Message) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Metrics метрики отправки уведомлений
type Metrics interface {
	IncNotification(channel, result string)
}
