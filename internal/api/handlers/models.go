package handlers

import (
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

// SlotResponse слот расписания
type SlotResponse struct {
	ID              int64   `json:"id"`
	MasterID        int64   `json:"masterId"`
	ServiceID       int64   `json:"serviceId"`
	Date            string  `json:"date"`
	StartTime       string  `json:"startTime"`
	DurationMinutes int     `json:"durationMinutes"`
	Price           float64 `json:"price"`
	IsTaken         bool    `json:"isTaken"`
	IsBlocked       bool    `json:"isBlocked"`
}

// FromDomainSlot конвертирует слот в HTTP модель
func FromDomainSlot(s *domain.Slot) SlotResponse {
	return SlotResponse{
		ID:              s.ID,
		MasterID:        s.MasterID,
		ServiceID:       s.ServiceID,
		Date:            s.Date.String(),
		StartTime:       s.StartTime.String(),
		DurationMinutes: s.DurationMinutes,
		Price:           s.Price,
		IsTaken:         s.IsTaken,
		IsBlocked:       s.IsBlocked,
	}
}

// BookingResponse бронирование с данными слота
type BookingResponse struct {
	ID          int64   `json:"id"`
	SlotID      int64   `json:"slotId"`
	Status      string  `json:"status"`
	ClientName  string  `json:"clientName"`
	ClientPhone string  `json:"clientPhone"`
	ClientEmail *string `json:"clientEmail,omitempty"`
	Comment     *string `json:"comment,omitempty"`
	Date        string  `json:"date"`
	StartTime   string  `json:"startTime"`
	Price       float64 `json:"price"`
	ServiceID   int64   `json:"serviceId"`
	ServiceName string  `json:"serviceName"`
	MasterID    int64   `json:"masterId"`
	MasterName  string  `json:"masterName"`
	SalonID     int64   `json:"salonId"`
	SalonName   string  `json:"salonName"`
	CreatedAt   string  `json:"createdAt"`
}

// FromDomainBookingDetails конвертирует бронирование в HTTP модель
func FromDomainBookingDetails(d *domain.BookingDetails) BookingResponse {
	return BookingResponse{
		ID:          d.ID,
		SlotID:      d.SlotID,
		Status:      string(d.Status),
		ClientName:  d.ClientName,
		ClientPhone: d.ClientPhone,
		ClientEmail: d.ClientEmail,
		Comment:     d.Comment,
		Date:        d.Date.String(),
		StartTime:   d.StartTime.String(),
		Price:       d.Price,
		ServiceID:   d.ServiceID,
		ServiceName: d.ServiceName,
		MasterID:    d.MasterID,
		MasterName:  d.MasterName,
		SalonID:     d.SalonID,
		SalonName:   d.SalonName,
		CreatedAt:   d.CreatedAt.UTC().Format(time.RFC3339),
	}
}
