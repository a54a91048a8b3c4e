package create_slots

import (
	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	createSlots "github.com/m04kA/SMC-ScheduleService/internal/usecase/create_slots"
)

// CreateSlotsRequest HTTP request model
type CreateSlotsRequest struct {
	ServiceID int64              `json:"serviceId" validate:"required,gt=0"`
	Slots     []SlotInputRequest `json:"slots" validate:"required,min=1,max=200,dive"`
}

// SlotInputRequest слот пакета
type SlotInputRequest struct {
	Date      string  `json:"date" validate:"required"`      // "2025-10-15"
	StartTime string  `json:"startTime" validate:"required"` // "10:00"
	Price     float64 `json:"price" validate:"gte=0"`
}

// CreateSlotsResponse HTTP response model
type CreateSlotsResponse struct {
	Slots []handlers.SlotResponse `json:"slots"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateSlotsRequest) ToUseCaseRequest(actor domain.Principal, masterID int64) *createSlots.Request {
	inputs := make([]createSlots.SlotInput, 0, len(r.Slots))
	for _, s := range r.Slots {
		inputs = append(inputs, createSlots.SlotInput{
			Date:      s.Date,
			StartTime: s.StartTime,
			Price:     s.Price,
		})
	}
	return &createSlots.Request{
		Actor:     actor,
		MasterID:  masterID,
		ServiceID: r.ServiceID,
		Slots:     inputs,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createSlots.Response) *CreateSlotsResponse {
	slots := make([]handlers.SlotResponse, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, handlers.FromDomainSlot(s))
	}
	return &CreateSlotsResponse{Slots: slots}
}
