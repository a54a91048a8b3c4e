package telegram

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("telegram client: internal error")

	// ErrSendMessage возвращается, когда Telegram не принял сообщение
	ErrSendMessage = errors.New("telegram client: failed to send message")

	// ErrInvalidCallback возвращается при некорректных данных кнопки
	ErrInvalidCallback = errors.New("telegram client: invalid callback data")
)
