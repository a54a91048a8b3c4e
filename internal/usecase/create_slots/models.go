package create_slots

import "github.com/m04kA/SMC-ScheduleService/internal/domain"

// Request модель запроса на пакетное создание слотов
type Request struct {
	Actor     domain.Principal
	MasterID  int64
	ServiceID int64
	Slots     []SlotInput
}

// SlotInput слот в запросе: дата YYYY-MM-DD, время HH:MM, цена
type SlotInput struct {
	Date      string
	StartTime string
	Price     float64
}

// Response созданные слоты в порядке запроса
type Response struct {
	Slots []*domain.Slot
}
