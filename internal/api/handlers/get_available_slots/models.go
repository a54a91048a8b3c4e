package get_available_slots

import (
	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-ScheduleService/internal/usecase/get_available_slots"
)

// AvailableSlotResponse свободный слот с данными для отображения
type AvailableSlotResponse struct {
	ID              int64   `json:"id"`
	SalonID         int64   `json:"salonId"`
	MasterID        int64   `json:"masterId"`
	MasterName      string  `json:"masterName"`
	ServiceID       int64   `json:"serviceId"`
	ServiceName     string  `json:"serviceName"`
	DurationMinutes int     `json:"durationMinutes"`
	Date            string  `json:"date"`
	StartTime       string  `json:"startTime"`
	Price           float64 `json:"price"`
}

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Slots []AvailableSlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlotResponse, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, fromDomain(s))
	}
	return &AvailableSlotsResponse{Slots: slots}
}

func fromDomain(s *domain.AvailableSlot) AvailableSlotResponse {
	return AvailableSlotResponse{
		ID:              s.ID,
		SalonID:         s.SalonID,
		MasterID:        s.MasterID,
		MasterName:      s.MasterName,
		ServiceID:       s.ServiceID,
		ServiceName:     s.ServiceName,
		DurationMinutes: s.DurationMinutes,
		Date:            s.Date.String(),
		StartTime:       s.StartTime.String(),
		Price:           s.Price,
	}
}
