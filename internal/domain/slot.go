package domain

import (
	"time"

	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// Slot represents a bookable time unit of one master performing one service
type Slot struct {
	ID        int64
	MasterID  int64
	ServiceID int64
	Date      types.Date
	StartTime types.TimeString
	Price     float64
	IsTaken   bool
	IsBlocked bool
	CreatedAt time.Time

	// Длительность услуги слота (заполняется при выборке с join на services)
	DurationMinutes int
}

// Interval returns the half-open interval occupied by the slot
func (s *Slot) Interval() Interval {
	return NewInterval(s.StartTime, s.DurationMinutes)
}

// IsBookable returns true if the slot can be reserved
func (s *Slot) IsBookable() bool {
	return !s.IsTaken && !s.IsBlocked
}

// Interval полуоткрытый интервал [Start, End) в минутах от начала суток.
// End может выходить за пределы суток, если услуга заканчивается после полуночи.
type Interval struct {
	Start int
	End   int
}

// NewInterval создает интервал по времени начала и длительности
func NewInterval(start types.TimeString, durationMinutes int) Interval {
	s := start.Minutes()
	return Interval{Start: s, End: s + durationMinutes}
}

// Overlaps проверяет пересечение полуоткрытых интервалов.
// Интервалы, касающиеся границей (10:00-11:00 и 11:00-12:00), не пересекаются.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start < other.End && i.End > other.Start
}

// SlotCandidate кандидат на создание слота
type SlotCandidate struct {
	Date      types.Date
	StartTime types.TimeString
	Price     float64
}

// AvailableSlot represents a slot that can be booked, with display data
type AvailableSlot struct {
	ID              int64
	SalonID         int64
	MasterID        int64
	MasterName      string
	ServiceID       int64
	ServiceName     string
	DurationMinutes int
	Date            types.Date
	StartTime       types.TimeString
	Price           float64
}

// AvailabilityFilter фильтр запроса доступных слотов.
// Незаданные поля расширяют выборку.
type AvailabilityFilter struct {
	MasterID  *int64
	ServiceID *int64
	SalonID   *int64
	Date      *types.Date
	NotBefore *time.Time // слоты с date+time раньше этого момента исключаются
}

// ScheduleEntry слот расписания мастера вместе с бронированием (если есть)
type ScheduleEntry struct {
	Slot        Slot
	ServiceName string
	Booking     *Booking
}

// MasterStatus количество свободных слотов мастера
type MasterStatus struct {
	MasterID   int64
	MasterName string
	FreeSlots  int
}

// SalonAvailability салон, в котором есть свободные слоты на дату
type SalonAvailability struct {
	SalonID   int64
	SalonName string
	Address   string
	FreeSlots int
}
