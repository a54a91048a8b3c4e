package get_available_slots

import "github.com/m04kA/SMC-ScheduleService/internal/domain"

// Request модель запроса доступных слотов. Незаданные фильтры расширяют выборку.
type Request struct {
	MasterID  *int64
	SalonID   *int64
	ServiceID *int64
	Date      *string // YYYY-MM-DD
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Slots []*domain.AvailableSlot
}
