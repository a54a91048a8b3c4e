package get_master_schedule

import (
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

// ScheduleEntryResponse слот расписания и бронирование на нем
type ScheduleEntryResponse struct {
	handlers.SlotResponse
	ServiceName string                `json:"serviceName"`
	Booking     *ScheduleBookingModel `json:"booking,omitempty"`
}

// ScheduleBookingModel бронирование в расписании мастера
type ScheduleBookingModel struct {
	ID          int64   `json:"id"`
	Status      string  `json:"status"`
	ClientName  string  `json:"clientName"`
	ClientPhone string  `json:"clientPhone"`
	ClientEmail *string `json:"clientEmail,omitempty"`
	Comment     *string `json:"comment,omitempty"`
	CreatedAt   string  `json:"createdAt"`
}

// ScheduleResponse HTTP response model
type ScheduleResponse struct {
	MasterID int64                   `json:"masterId"`
	Entries  []ScheduleEntryResponse `json:"entries"`
}

// FromDomain конвертирует расписание в HTTP response
func FromDomain(masterID int64, entries []*domain.ScheduleEntry) *ScheduleResponse {
	resp := &ScheduleResponse{
		MasterID: masterID,
		Entries:  make([]ScheduleEntryResponse, 0, len(entries)),
	}
	for _, e := range entries {
		item := ScheduleEntryResponse{
			SlotResponse: handlers.FromDomainSlot(&e.Slot),
			ServiceName:  e.ServiceName,
		}
		if b := e.Booking; b != nil {
			item.Booking = &ScheduleBookingModel{
				ID:          b.ID,
				Status:      string(b.Status),
				ClientName:  b.ClientName,
				ClientPhone: b.ClientPhone,
				ClientEmail: b.ClientEmail,
				Comment:     b.Comment,
				CreatedAt:   b.CreatedAt.UTC().Format(time.RFC3339),
			}
		}
		resp.Entries = append(resp.Entries, item)
	}
	return resp
}
