package sms

import (
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// MessageCreator часть REST API Twilio для отправки сообщений
type MessageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
