package webhook

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("webhook client: internal error")

	// ErrInvalidResponse возвращается при неуспешном ответе получателя
	ErrInvalidResponse = errors.New("webhook client: invalid response")
)
