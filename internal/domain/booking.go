package domain

import (
	"strings"
	"time"

	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	// StatusPending статус устаревшего подтверждения по коду.
	// Текущий путь бронирования его не создает, такие записи удаляются фоновой задачей.
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusVisited   BookingStatus = "visited"
	StatusNoShow    BookingStatus = "no_show"
)

// IsValid returns true for a known status
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusVisited, StatusNoShow:
		return true
	}
	return false
}

// IsTerminal returns true if no transition leads out of the status
func (s BookingStatus) IsTerminal() bool {
	return s == StatusVisited || s == StatusNoShow
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
// Допустимы только confirmed → visited и confirmed → no_show.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	return s == StatusConfirmed && next.IsTerminal()
}

// Booking represents a client reservation of a slot
type Booking struct {
	ID               int64
	SlotID           int64
	ClientName       string
	ClientPhone      string
	ClientEmail      *string
	Comment          *string
	Status           BookingStatus
	ConfirmExpiresAt *time.Time
	CreatedAt        time.Time
}

// BookingDetails бронирование вместе с данными слота, мастера и салона
type BookingDetails struct {
	Booking

	Date        types.Date
	StartTime   types.TimeString
	Price       float64
	ServiceID   int64
	ServiceName string
	MasterID    int64
	MasterName  string
	SalonID     int64
	SalonName   string
	Ownership   OwnershipChain
}

// BookingNotification данные для уведомления о новом бронировании
type BookingNotification struct {
	Details BookingDetails

	// Заявленные клиентом услуги и сумма: не сверяются со слотом
	ClaimedServices   []string
	ClaimedTotalPrice float64
}

// MaskPhone скрывает номер для логов, оставляя последние 4 символа
func MaskPhone(phone string) string {
	const visible = 4
	runes := []rune(phone)
	if len(runes) <= visible {
		return strings.Repeat("*", len(runes))
	}
	return strings.Repeat("*", len(runes)-visible) + string(runes[len(runes)-visible:])
}

// BookingListFilter фильтр общего списка бронирований для администратора платформы
type BookingListFilter struct {
	SalonID *int64
	Status  *BookingStatus
	Limit   uint64
	Offset  uint64
}

// Paged возвращает фильтр с размером страницы по умолчанию и не больше максимального
func (f BookingListFilter) Paged() BookingListFilter {
	switch {
	case f.Limit == 0:
		f.Limit = AdminBookingsPageSize
	case f.Limit > AdminBookingsMaxPage:
		f.Limit = AdminBookingsMaxPage
	}
	return f
}

// MasterBookingStats количество бронирований мастера по статусам
type MasterBookingStats struct {
	MasterID   int64
	MasterName string
	Total      int
	Confirmed  int
	Visited    int
	NoShow     int
}
