package sms

import "errors"

var (
	// ErrSendSMS возвращается, когда Twilio не принял сообщение
	ErrSendSMS = errors.New("sms client: failed to send message")

	// ErrInvalidPhone возвращается при пустом номере получателя
	ErrInvalidPhone = errors.New("sms client: invalid phone")
)
