package webhook

// BookingCreatedEvent тело вебхука о новой записи
type BookingCreatedEvent struct {
	Event     string       `json:"event"`
	BookingID int64        `json:"booking_id"`
	SlotID    int64        `json:"slot_id"`
	Status    string       `json:"status"`
	Salon     EventSalon   `json:"salon"`
	Master    EventMaster  `json:"master"`
	Slot      EventSlot    `json:"slot"`
	Client    EventClient  `json:"client"`
	Claimed   EventClaimed `json:"claimed"`
	CreatedAt string       `json:"created_at"`
}

// EventSalon салон записи
type EventSalon struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// EventMaster мастер записи
type EventMaster struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// EventSlot данные слота
type EventSlot struct {
	Date        string  `json:"date"`
	StartTime   string  `json:"start_time"`
	ServiceID   int64   `json:"service_id"`
	ServiceName string  `json:"service_name"`
	Price       float64 `json:"price"`
}

// EventClient контакты клиента
type EventClient struct {
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	Email   *string `json:"email,omitempty"`
	Comment *string `json:"comment,omitempty"`
}

// EventClaimed услуги и сумма со слов клиента, не проверялись сервисом
type EventClaimed struct {
	Services   []string `json:"services"`
	TotalPrice float64  `json:"total_price"`
}
