package create_booking

import (
	createBooking "github.com/m04kA/SMC-ScheduleService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	SlotID      int64   `json:"slotId" validate:"required,gt=0"`
	ClientName  string  `json:"clientName" validate:"required"`
	ClientPhone string  `json:"clientPhone" validate:"required"`
	ClientEmail *string `json:"clientEmail,omitempty" validate:"omitempty,email"`
	Comment     *string `json:"comment,omitempty"`

	// Услуги и сумма со слов клиента, в бронирование не сохраняются
	Services   []string `json:"services,omitempty" validate:"max=20"`
	TotalPrice float64  `json:"totalPrice,omitempty" validate:"gte=0"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() *createBooking.Request {
	return &createBooking.Request{
		SlotID:            r.SlotID,
		ClientName:        r.ClientName,
		ClientPhone:       r.ClientPhone,
		ClientEmail:       r.ClientEmail,
		Comment:           r.Comment,
		ClaimedServices:   r.Services,
		ClaimedTotalPrice: r.TotalPrice,
	}
}
