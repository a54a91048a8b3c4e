package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

const maxBodyBytes = 1 << 20

var (
	// ErrInvalidBody возвращается при некорректном JSON
	ErrInvalidBody = errors.New("handlers: invalid request body")

	// ErrValidation возвращается, когда тело не прошло проверку тегов validate
	ErrValidation = errors.New("handlers: request validation failed")

	// ErrInvalidID возвращается при некорректном идентификаторе в пути или запросе
	ErrInvalidID = errors.New("handlers: invalid id")

	// ErrInvalidNumber возвращается при некорректном числовом параметре запроса
	ErrInvalidNumber = errors.New("handlers: invalid number")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// DecodeJSON читает тело запроса в v и проверяет теги validate
func DecodeJSON(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, describeValidation(err))
	}
	return nil
}

// describeValidation перечисляет поля, не прошедшие проверку
func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(fields, ", ")
}

// PathID разбирает положительный int64 из переменной маршрута
func PathID(r *http.Request, name string) (int64, error) {
	return parseID(mux.Vars(r)[name])
}

// QueryID разбирает необязательный положительный int64 из параметра запроса
func QueryID(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := parseID(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// QueryUint необязательный неотрицательный целый параметр запроса, по умолчанию 0
func QueryUint(r *http.Request, name string) (uint64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidNumber, name, raw)
	}
	return n, nil
}

// QueryString необязательный строковый параметр запроса
func QueryString(r *http.Request, name string) *string {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil
	}
	return &raw
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	return id, nil
}
