package create_booking

import "github.com/m04kA/SMC-ScheduleService/internal/domain"

// Request модель запроса на создание бронирования
type Request struct {
	SlotID      int64
	ClientName  string
	ClientPhone string
	ClientEmail *string
	Comment     *string

	// Услуги и сумма со слов клиента: попадают только в уведомление
	ClaimedServices   []string
	ClaimedTotalPrice float64
}

// Response созданное бронирование с данными слота
type Response struct {
	Booking *domain.BookingDetails
}
