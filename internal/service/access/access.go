package access

import (
	"fmt"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

// Action действие, требующее проверки прав
type Action string

const (
	ActionCreateSlots         Action = "create_slots"
	ActionDeleteSlot          Action = "delete_slot"
	ActionBlockSlot           Action = "block_slot"
	ActionChangeBookingStatus Action = "change_booking_status"
	ActionCancelBooking       Action = "cancel_booking"
	ActionViewSchedule        Action = "view_schedule"
	ActionExportAudit         Action = "export_audit"
	ActionViewAllBookings     Action = "view_all_bookings"
	ActionViewSalonStats      Action = "view_salon_stats"
)

// ErrForbidden возвращается, когда у пользователя нет прав на действие
var ErrForbidden = fmt.Errorf("access: %w", domain.ErrForbidden)

// masterActions действия, доступные привязанному аккаунту мастера над его слотами
var masterActions = map[Action]bool{
	ActionChangeBookingStatus: true,
	ActionViewSchedule:        true,
}

// adminActions действия, доступные только администратору платформы
var adminActions = map[Action]bool{
	ActionExportAudit:     true,
	ActionViewAllBookings: true,
}

// Check единая проверка прав: (пользователь, цепочка владения ресурсом, действие) → разрешено/запрещено.
//
// Правила:
//   - администратор платформы может всё;
//   - владелец салона может управлять слотами и бронированиями своего салона;
//   - мастер с привязанным аккаунтом может менять статус бронирований своих слотов и смотреть своё расписание;
//   - выгрузка журнала и общий список бронирований доступны только администратору платформы.
func Check(p domain.Principal, chain domain.OwnershipChain, action Action) error {
	if p.IsPlatformAdmin() {
		return nil
	}
	if p.ID <= 0 || adminActions[action] {
		return fmt.Errorf("%w: action=%s user=%d", ErrForbidden, action, p.ID)
	}
	if chain.IsOwnedBy(p.ID) {
		return nil
	}
	if masterActions[action] && chain.IsMasterAccount(p.ID) {
		return nil
	}
	return fmt.Errorf("%w: action=%s user=%d salon=%d", ErrForbidden, action, p.ID, chain.SalonID)
}
